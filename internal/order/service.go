package order

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/vasiliy-maslov/shop-backend/internal/user"
)

type Service interface {
	Create(ctx context.Context, input CreateInput) (*Order, error)
	ListByUser(ctx context.Context, userID string) ([]Order, error)
}

type service struct {
	repo  Repository
	users user.Repository
}

func NewService(repo Repository, users user.Repository) Service {
	return &service{
		repo:  repo,
		users: users,
	}
}

func (s *service) Create(ctx context.Context, input CreateInput) (*Order, error) {
	if err := s.ensureUserExists(ctx, input.UserID); err != nil {
		return nil, err
	}

	created, err := s.repo.Create(ctx, input)
	if err != nil {
		var stockErr *InsufficientStockError
		switch {
		case errors.Is(err, ErrProductsInvalid):
			log.Warn().Str("user_id", input.UserID).Msg("service: order rejected, invalid products")
			return nil, ErrProductsInvalid
		case errors.As(err, &stockErr):
			log.Warn().Str("user_id", input.UserID).Str("product_name", stockErr.ProductName).Msg("service: order rejected, insufficient stock")
			return nil, err
		default:
			log.Error().Err(err).Str("user_id", input.UserID).Msg("service: failed to create order in repository")
			return nil, fmt.Errorf("service: failed to create order: %w", err)
		}
	}

	log.Info().Str("order_id", created.ID).Str("user_id", created.UserID).Float64("total_amount", created.TotalAmount).Msg("service: order created")

	return created, nil
}

func (s *service) ListByUser(ctx context.Context, userID string) ([]Order, error) {
	if err := s.ensureUserExists(ctx, userID); err != nil {
		return nil, err
	}

	orders, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("service: failed to fetch user orders in repository")
		return nil, fmt.Errorf("service: failed to fetch user orders: %w", err)
	}

	return orders, nil
}

func (s *service) ensureUserExists(ctx context.Context, userID string) error {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return user.ErrNotFound
		}
		log.Error().Err(err).Str("user_id", userID).Msg("service: failed to fetch user for order operation")
		return fmt.Errorf("service: failed to fetch user: %w", err)
	}
	return nil
}
