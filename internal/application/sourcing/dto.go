package sourcing

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/sourcing"
)

// SubmitRequest is a customer's request for a product the store does not carry
type SubmitRequest struct {
	Description string `json:"description" binding:"required,min=1,max=5000"`
	Quantity    int    `json:"quantity" binding:"omitempty,min=1,max=100000"`
	BudgetRange string `json:"budgetRange" binding:"max=100"`
	Email       string `json:"email" binding:"omitempty,email,max=200"`
}

// RespondRequest is the back office answer to a request
type RespondRequest struct {
	Status      string           `json:"status" binding:"required"`
	Response    string           `json:"adminResponse" binding:"max=5000"`
	QuotedPrice *decimal.Decimal `json:"quotedPrice" binding:"omitempty,money"`
}

// ListQuery holds the back office listing parameters
type ListQuery struct {
	Status   string
	Page     int
	PageSize int
}

// ProductRequestResponse represents a product request in API responses
type ProductRequestResponse struct {
	ID            uuid.UUID        `json:"id"`
	UserID        uuid.UUID        `json:"userId"`
	Description   string           `json:"description"`
	Quantity      int              `json:"quantity"`
	BudgetRange   string           `json:"budgetRange"`
	Email         string           `json:"email"`
	Status        string           `json:"status"`
	AdminResponse string           `json:"adminResponse"`
	QuotedPrice   *decimal.Decimal `json:"quotedPrice"`
	CreatedAt     time.Time        `json:"createdAt"`
	UpdatedAt     time.Time        `json:"updatedAt"`
}

// ToProductRequestResponse converts a domain request
func ToProductRequestResponse(r *sourcing.ProductRequest) ProductRequestResponse {
	return ProductRequestResponse{
		ID:            r.ID,
		UserID:        r.UserID,
		Description:   r.Description,
		Quantity:      r.Quantity,
		BudgetRange:   r.BudgetRange,
		Email:         r.Email,
		Status:        string(r.Status),
		AdminResponse: r.Response,
		QuotedPrice:   r.QuotedPrice,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
}

func toResponses(requests []sourcing.ProductRequest) []ProductRequestResponse {
	out := make([]ProductRequestResponse, len(requests))
	for i := range requests {
		out[i] = ToProductRequestResponse(&requests[i])
	}
	return out
}
