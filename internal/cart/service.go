package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/vasiliy-maslov/shop-backend/internal/catalog"
	"github.com/vasiliy-maslov/shop-backend/internal/user"
)

type Service interface {
	GetCart(ctx context.Context, userID string) ([]Item, error)
	AddItem(ctx context.Context, userID, productID string, quantity int) ([]Item, error)
	UpdateItem(ctx context.Context, userID, productID string, quantity int) ([]Item, error)
	RemoveItem(ctx context.Context, userID, productID string) ([]Item, error)
}

type service struct {
	repo     Repository
	users    user.Repository
	products catalog.Repository
}

func NewService(repo Repository, users user.Repository, products catalog.Repository) Service {
	return &service{
		repo:     repo,
		users:    users,
		products: products,
	}
}

func (s *service) GetCart(ctx context.Context, userID string) ([]Item, error) {
	if err := s.ensureUserExists(ctx, userID); err != nil {
		return nil, err
	}

	return s.refreshedCart(ctx, userID)
}

func (s *service) AddItem(ctx context.Context, userID, productID string, quantity int) ([]Item, error) {
	if err := s.ensureUserExists(ctx, userID); err != nil {
		return nil, err
	}

	if _, err := s.products.GetProductByID(ctx, productID); err != nil {
		if errors.Is(err, catalog.ErrProductNotFound) {
			return nil, catalog.ErrProductNotFound
		}
		log.Error().Err(err).Str("product_id", productID).Msg("service: failed to fetch product for cart add")
		return nil, fmt.Errorf("service: failed to fetch product: %w", err)
	}

	if err := s.repo.Upsert(ctx, userID, productID, quantity); err != nil {
		log.Error().Err(err).Str("user_id", userID).Str("product_id", productID).Msg("service: failed to upsert cart item")
		return nil, fmt.Errorf("service: failed to add cart item: %w", err)
	}

	return s.refreshedCart(ctx, userID)
}

func (s *service) UpdateItem(ctx context.Context, userID, productID string, quantity int) ([]Item, error) {
	if err := s.ensureUserExists(ctx, userID); err != nil {
		return nil, err
	}

	if err := s.repo.SetQuantity(ctx, userID, productID, quantity); err != nil {
		if errors.Is(err, ErrItemNotFound) {
			return nil, ErrItemNotFound
		}
		log.Error().Err(err).Str("user_id", userID).Str("product_id", productID).Msg("service: failed to update cart item")
		return nil, fmt.Errorf("service: failed to update cart item: %w", err)
	}

	return s.refreshedCart(ctx, userID)
}

// RemoveItem deletes the line. Removing an absent line succeeds: the cart
// ends up in the requested state either way.
func (s *service) RemoveItem(ctx context.Context, userID, productID string) ([]Item, error) {
	if err := s.ensureUserExists(ctx, userID); err != nil {
		return nil, err
	}

	if err := s.repo.Delete(ctx, userID, productID); err != nil {
		log.Error().Err(err).Str("user_id", userID).Str("product_id", productID).Msg("service: failed to remove cart item")
		return nil, fmt.Errorf("service: failed to remove cart item: %w", err)
	}

	return s.refreshedCart(ctx, userID)
}

func (s *service) ensureUserExists(ctx context.Context, userID string) error {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return user.ErrNotFound
		}
		log.Error().Err(err).Str("user_id", userID).Msg("service: failed to fetch user for cart operation")
		return fmt.Errorf("service: failed to fetch user: %w", err)
	}
	return nil
}

func (s *service) refreshedCart(ctx context.Context, userID string) ([]Item, error) {
	items, err := s.repo.ItemsByUser(ctx, userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("service: failed to fetch cart items")
		return nil, fmt.Errorf("service: failed to fetch cart items: %w", err)
	}
	return items, nil
}
