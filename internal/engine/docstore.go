package engine

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/celerix-dev/phonebook/pkg/schema"
)

// DocStore is the embedded document store: one in-memory collection kept in
// insertion order and written through to disk on every change.
type DocStore struct {
	mu        sync.RWMutex
	order     []string
	docs      map[string]schema.Person
	persister *Persistence
	now       func() time.Time
}

// NewDocStore initializes a store from previously loaded people.
// A nil persister keeps everything in memory.
func NewDocStore(initial []schema.Person, p *Persistence) *DocStore {
	s := &DocStore{
		docs:      make(map[string]schema.Person, len(initial)),
		persister: p,
		now:       time.Now,
	}
	for _, person := range initial {
		if _, dup := s.docs[person.ID]; dup {
			continue
		}
		s.order = append(s.order, person.ID)
		s.docs[person.ID] = person
	}
	return s
}

// OpenDocStore loads the person collection from dir.
func OpenDocStore(dir string) (*DocStore, error) {
	p, err := NewPersistence(dir)
	if err != nil {
		return nil, fmt.Errorf("open data dir %s: %w", dir, err)
	}
	people, err := p.LoadCollection(Collection)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", Collection, err)
	}
	return NewDocStore(people, p), nil
}

func (s *DocStore) Find(ctx context.Context) ([]schema.Person, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot(), nil
}

func (s *DocStore) FindByID(ctx context.Context, id string) (*schema.Person, error) {
	id, err := normalizeID(id)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	person, ok := s.docs[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &person, nil
}

func (s *DocStore) Insert(ctx context.Context, p *schema.Person) error {
	if err := assignID(p); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.docs[p.ID]; exists {
		return ErrDuplicateID
	}
	if s.nameTaken(p.Name, "") {
		return ErrDuplicateName
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = s.now().UTC()
	}

	s.docs[p.ID] = *p
	s.order = append(s.order, p.ID)
	if err := s.flush(); err != nil {
		delete(s.docs, p.ID)
		s.order = s.order[:len(s.order)-1]
		return err
	}
	return nil
}

func (s *DocStore) Update(ctx context.Context, id, name, number string) (*schema.Person, error) {
	id, err := normalizeID(id)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	previous, ok := s.docs[id]
	if !ok {
		return nil, ErrNotFound
	}
	if s.nameTaken(name, id) {
		return nil, ErrDuplicateName
	}

	updated := previous
	updated.Name = name
	updated.Number = number
	s.docs[id] = updated
	if err := s.flush(); err != nil {
		s.docs[id] = previous
		return nil, err
	}
	return &updated, nil
}

func (s *DocStore) Delete(ctx context.Context, id string) error {
	id, err := normalizeID(id)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	previous, ok := s.docs[id]
	if !ok {
		return nil
	}

	idx := s.indexOf(id)
	previousOrder := s.order
	delete(s.docs, id)
	// The three-index slice forces a copy so previousOrder stays intact.
	s.order = append(s.order[:idx:idx], s.order[idx+1:]...)
	if err := s.flush(); err != nil {
		s.docs[id] = previous
		s.order = previousOrder
		return err
	}
	return nil
}

func (s *DocStore) Ping(ctx context.Context) error {
	return ctx.Err()
}

// Close is a no-op: every change is already on disk.
func (s *DocStore) Close() error {
	return nil
}

// nameTaken reports whether another person (other than except) uses name.
// It MUST be called while holding s.mu.
func (s *DocStore) nameTaken(name, except string) bool {
	for id, person := range s.docs {
		if id != except && person.Name == name {
			return true
		}
	}
	return false
}

// It MUST be called while holding s.mu.
func (s *DocStore) indexOf(id string) int {
	for i, candidate := range s.order {
		if candidate == id {
			return i
		}
	}
	return -1
}

// snapshot copies the collection in insertion order.
// It MUST be called while holding s.mu.Lock or s.mu.RLock.
func (s *DocStore) snapshot() []schema.Person {
	people := make([]schema.Person, 0, len(s.order))
	for _, id := range s.order {
		people = append(people, s.docs[id])
	}
	return people
}

// flush writes the collection through to disk.
// It MUST be called while holding s.mu.Lock.
func (s *DocStore) flush() error {
	if s.persister == nil {
		return nil
	}
	if err := s.persister.SaveCollection(Collection, s.snapshot()); err != nil {
		return fmt.Errorf("persist %s: %w", Collection, err)
	}
	return nil
}
