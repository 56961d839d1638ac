package sdk

import (
	"context"
	"os"

	"github.com/celerix-dev/phonebook/internal/engine"
	"github.com/celerix-dev/phonebook/internal/phonebook"
	"github.com/celerix-dev/phonebook/pkg/schema"
)

// Reader lists and fetches people.
type Reader interface {
	ListAll(ctx context.Context) ([]schema.Person, error)
	GetByID(ctx context.Context, id string) (*schema.Person, error)
	Info(ctx context.Context) (*schema.InfoReport, error)
}

// Writer creates, updates and removes people.
type Writer interface {
	Create(ctx context.Context, c schema.Candidate) (*schema.Person, error)
	UpdateByID(ctx context.Context, id string, c schema.Candidate) (*schema.Person, error)
	DeleteByID(ctx context.Context, id string) error
}

// Phonebook is satisfied by both the remote Client and the in-process service.
// Failures are *schema.Error values; match them with errors.Is against
// schema.ErrNotFound, schema.ErrDuplicateName and the other sentinels.
type Phonebook interface {
	Reader
	Writer
}

var (
	_ Phonebook = (*Client)(nil)
	_ Phonebook = (*phonebook.Service)(nil)
)

// New returns a Phonebook based on the environment. When PHONEBOOK_URL is set
// it connects to that daemon; otherwise it opens the embedded store in dataDir.
func New(dataDir string) (Phonebook, error) {
	if remote := os.Getenv("PHONEBOOK_URL"); remote != "" {
		client, err := Connect(remote)
		if err != nil {
			return nil, err
		}
		return client, nil
	}
	store, err := engine.OpenDocStore(dataDir)
	if err != nil {
		return nil, err
	}
	svc, err := phonebook.New(store)
	if err != nil {
		return nil, err
	}
	return svc, nil
}
