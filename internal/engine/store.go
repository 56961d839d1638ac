// Package engine defines the record store used by the phonebook and its backends.
package engine

//go:generate mockgen -source=store.go -destination=mocks/mocks.go -package=mocks Store

import (
	"context"
	"errors"

	"github.com/celerix-dev/phonebook/pkg/schema"
	"github.com/google/uuid"
)

var (
	// ErrNotFound is returned when an identifier does not resolve to a stored person.
	ErrNotFound = errors.New("person not found")
	// ErrMalformedID is returned when an identifier is not in the store's identifier shape.
	ErrMalformedID = errors.New("malformatted id")
	// ErrDuplicateName is returned when a write would give two people the same name.
	ErrDuplicateName = errors.New("name must be unique")
	// ErrDuplicateID is returned when an insert carries an identity that is already stored.
	ErrDuplicateID = errors.New("identity already in use")
)

// Collection is the name of the person collection (file name or table name).
const Collection = "persons"

// Store is the contract every record store backend satisfies.
// Each method performs at most one round trip to the underlying storage.
type Store interface {
	// Find returns every stored person in the store's natural order.
	Find(ctx context.Context) ([]schema.Person, error)
	// FindByID returns the person with the given identity.
	FindByID(ctx context.Context, id string) (*schema.Person, error)
	// Insert stores p, assigning p.ID (unless preset) and p.CreatedAt.
	// Name uniqueness is enforced atomically by the store.
	Insert(ctx context.Context, p *schema.Person) error
	// Update replaces name and number of an existing person and returns the stored result.
	Update(ctx context.Context, id, name, number string) (*schema.Person, error)
	// Delete removes a person. Deleting an absent identity is not an error.
	Delete(ctx context.Context, id string) error
	// Ping checks that the store is reachable.
	Ping(ctx context.Context) error
	// Close releases the store's resources.
	Close() error
}

// normalizeID validates the identifier shape shared by all backends and
// returns its canonical form.
func normalizeID(id string) (string, error) {
	u, err := uuid.Parse(id)
	if err != nil {
		return "", ErrMalformedID
	}
	return u.String(), nil
}

// assignID gives p a fresh identity unless one was preset.
func assignID(p *schema.Person) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
		return nil
	}
	id, err := normalizeID(p.ID)
	if err != nil {
		return err
	}
	p.ID = id
	return nil
}
