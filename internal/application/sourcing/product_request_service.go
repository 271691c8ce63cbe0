// Package sourcing handles customer product requests and their quotes.
package sourcing

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/sourcing"
	"go.uber.org/zap"
)

// ProductRequestService manages the request and quote workflow
type ProductRequestService struct {
	requestRepo sourcing.ProductRequestRepository
	userRepo    identity.UserRepository
	logger      *zap.Logger
}

// NewProductRequestService creates a new ProductRequestService
func NewProductRequestService(
	requestRepo sourcing.ProductRequestRepository,
	userRepo identity.UserRepository,
	logger *zap.Logger,
) *ProductRequestService {
	return &ProductRequestService{
		requestRepo: requestRepo,
		userRepo:    userRepo,
		logger:      logger,
	}
}

// Submit records a pending request. The contact email defaults to the account email.
func (s *ProductRequestService) Submit(ctx context.Context, userID uuid.UUID, req SubmitRequest) (*ProductRequestResponse, error) {
	email := strings.TrimSpace(req.Email)
	if email == "" {
		user, err := s.userRepo.FindByID(ctx, userID)
		if err != nil {
			return nil, err
		}
		email = user.Email
	}
	quantity := req.Quantity
	if quantity == 0 {
		quantity = 1
	}

	request, err := sourcing.NewProductRequest(userID, req.Description, quantity, req.BudgetRange, email)
	if err != nil {
		return nil, err
	}
	if err := s.requestRepo.Create(ctx, request); err != nil {
		return nil, err
	}

	s.logger.Info("Product request submitted",
		zap.String("request_id", request.ID.String()),
		zap.String("user_id", userID.String()))
	resp := ToProductRequestResponse(request)
	return &resp, nil
}

// ListMine returns the caller's requests, newest first
func (s *ProductRequestService) ListMine(ctx context.Context, userID uuid.UUID) ([]ProductRequestResponse, error) {
	requests, err := s.requestRepo.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return toResponses(requests), nil
}

// ListAll returns a page of every request, optionally narrowed to one status
func (s *ProductRequestService) ListAll(ctx context.Context, q ListQuery) (shared.Paginated[ProductRequestResponse], error) {
	filter := shared.DefaultFilter()
	if q.Page > 0 {
		filter.Page = q.Page
	}
	if q.PageSize > 0 && q.PageSize <= 100 {
		filter.PageSize = q.PageSize
	}
	if status := strings.TrimSpace(q.Status); status != "" {
		if !sourcing.RequestStatus(status).IsValid() {
			return shared.Paginated[ProductRequestResponse]{}, shared.NewDomainError("INVALID_STATUS", "Invalid request status: "+status)
		}
		filter = filter.WithFilter(sourcing.FilterStatus, status)
	}

	requests, total, err := s.requestRepo.FindAll(ctx, filter)
	if err != nil {
		return shared.Paginated[ProductRequestResponse]{}, err
	}
	return shared.NewPaginated(toResponses(requests), total, filter.Page, filter.PageSize), nil
}

// Respond quotes or rejects a pending request
func (s *ProductRequestService) Respond(ctx context.Context, id uuid.UUID, req RespondRequest) (*ProductRequestResponse, error) {
	request, err := s.requestRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := request.Respond(sourcing.RequestStatus(req.Status), req.Response, req.QuotedPrice); err != nil {
		return nil, err
	}
	if err := s.requestRepo.SaveResponse(ctx, request); err != nil {
		return nil, err
	}

	s.logger.Info("Product request answered",
		zap.String("request_id", request.ID.String()),
		zap.String("status", string(request.Status)))
	resp := ToProductRequestResponse(request)
	return &resp, nil
}
