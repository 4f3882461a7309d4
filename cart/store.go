package cart

import (
	"context"
	"errors"
)

// ErrConflict is returned when a cart kept changing underneath an update.
var ErrConflict = errors.New("cart changed concurrently")

// Store keeps one cart per user id.
type Store interface {
	// Load returns the user's cart; a missing cart is an empty cart.
	Load(ctx context.Context, userID uint) (*Cart, error)
	// Update applies fn to the user's cart and persists the result atomically.
	// An error from fn aborts the update.
	Update(ctx context.Context, userID uint, fn func(*Cart) error) (*Cart, error)
	Delete(ctx context.Context, userID uint) error
}
