// Package sourcing models customer requests for products outside the catalog.
package sourcing

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/shared"
)

// RequestStatus represents the status of a product request
type RequestStatus string

const (
	RequestStatusPending  RequestStatus = "pending"
	RequestStatusQuoted   RequestStatus = "quoted"
	RequestStatusAccepted RequestStatus = "accepted" // declared, never produced by the server
	RequestStatusRejected RequestStatus = "rejected"
)

// IsValid checks if the status is a valid RequestStatus
func (s RequestStatus) IsValid() bool {
	switch s {
	case RequestStatusPending, RequestStatusQuoted, RequestStatusAccepted, RequestStatusRejected:
		return true
	}
	return false
}

// IsResponse reports whether an admin may answer with this status
func (s RequestStatus) IsResponse() bool {
	return s == RequestStatusQuoted || s == RequestStatusRejected
}

// ProductRequest is a free-text sourcing inquiry answered by an admin
type ProductRequest struct {
	shared.BaseEntity
	UserID      uuid.UUID
	Description string
	Quantity    int
	BudgetRange string
	Email       string
	Status      RequestStatus
	Response    string
	QuotedPrice *decimal.Decimal
}

// NewProductRequest creates a pending request
func NewProductRequest(userID uuid.UUID, description string, quantity int, budgetRange, email string) (*ProductRequest, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return nil, shared.NewDomainError("INVALID_DESCRIPTION", "Description cannot be empty")
	}
	if len(description) > 5000 {
		return nil, shared.NewDomainError("INVALID_DESCRIPTION", "Description cannot exceed 5000 characters")
	}
	if quantity < 1 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be at least 1")
	}
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, shared.NewDomainError("INVALID_EMAIL", "Contact email is required")
	}

	return &ProductRequest{
		BaseEntity:  shared.NewBaseEntity(),
		UserID:      userID,
		Description: description,
		Quantity:    quantity,
		BudgetRange: strings.TrimSpace(budgetRange),
		Email:       email,
		Status:      RequestStatusPending,
	}, nil
}

// Respond records the admin answer. Only pending requests can be answered,
// and only with quoted or rejected.
func (r *ProductRequest) Respond(status RequestStatus, response string, quotedPrice *decimal.Decimal) error {
	if !status.IsResponse() {
		return shared.NewDomainError("INVALID_STATUS", "Response status must be quoted or rejected")
	}
	if r.Status != RequestStatusPending {
		return shared.ErrInvalidState.WithMessage("Only pending requests can be answered")
	}
	if status == RequestStatusQuoted {
		if quotedPrice == nil || !quotedPrice.IsPositive() {
			return shared.NewDomainError("INVALID_QUOTE", "A quote requires a positive quoted price")
		}
		price := quotedPrice.Round(2)
		r.QuotedPrice = &price
	} else {
		r.QuotedPrice = nil
	}

	r.Status = status
	r.Response = strings.TrimSpace(response)
	r.Touch()
	return nil
}
