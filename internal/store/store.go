// Package store defines the repository contracts the HTTP layer depends on.
// Implementations live in mongostore (document database) and sqlstore.
package store

import (
	"context"
	"errors"

	"github.com/01moynul/reboot-golang/internal/models"
)

var (
	// ErrNotFound is returned when no document matches the given id or key.
	ErrNotFound = errors.New("store: document not found")

	// ErrAlreadyExists is returned when a create would duplicate a unique key
	// (user email, category slug).
	ErrAlreadyExists = errors.New("store: document already exists")
)

// Users is the repository for the 'users' collection.
type Users interface {
	// Create inserts u unless a user with the same email exists, in which case
	// it returns ErrAlreadyExists and inserts nothing.
	Create(ctx context.Context, u *models.User) error
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context, f UserFilter) ([]models.User, error)
	// Delete reports how many documents were removed. A missing id is not an error.
	Delete(ctx context.Context, id string) (int64, error)
}

// Categories is the repository for the 'categories' collection.
type Categories interface {
	Create(ctx context.Context, c *models.Category) error
	List(ctx context.Context, f CategoryFilter) ([]models.Category, error)
}

// Products is the repository for the 'products' collection.
type Products interface {
	Create(ctx context.Context, p *models.Product) error
	List(ctx context.Context, f ProductFilter) ([]models.Product, error)
	Get(ctx context.Context, id string) (*models.Product, error)
	Delete(ctx context.Context, id string) (int64, error)
	// MarkSponsored sets sponsored=true on an existing product and returns
	// ErrNotFound when the id matches nothing. It never creates documents.
	MarkSponsored(ctx context.Context, id string) error
}

// Orders is the repository for the 'orders' collection.
type Orders interface {
	Create(ctx context.Context, o *models.Order) error
	List(ctx context.Context, f OrderFilter) ([]models.Order, error)
}

// Store bundles the four repositories behind one handle that is opened once at
// startup and passed to the router.
type Store struct {
	Users      Users
	Categories Categories
	Products   Products
	Orders     Orders

	closer func(ctx context.Context) error
}

// New assembles a Store. closer may be nil.
func New(users Users, categories Categories, products Products, orders Orders, closer func(ctx context.Context) error) *Store {
	return &Store{
		Users:      users,
		Categories: categories,
		Products:   products,
		Orders:     orders,
		closer:     closer,
	}
}

// Close releases the underlying connection.
func (s *Store) Close(ctx context.Context) error {
	if s.closer == nil {
		return nil
	}
	return s.closer(ctx)
}
