// Package phonebook implements the phonebook operations on top of a record store.
//
// Every operation returns either its value or an *Error tagged with a Kind.
// Writes are validated before the store is touched and cause exactly one
// store call; nothing is cached or retried.
package phonebook

import (
	"context"
	"errors"
	"math/rand/v2"
	"time"

	"github.com/celerix-dev/phonebook/internal/engine"
	"github.com/celerix-dev/phonebook/internal/metrics"
	"github.com/celerix-dev/phonebook/pkg/schema"
	"go.uber.org/zap"
)

// maxLegacyID bounds the numeric ids handed to older clients.
const maxLegacyID = 999999

// Service orchestrates validation and record store calls.
type Service struct {
	store     engine.Store
	validator *Validator
	logger    *zap.Logger
	metrics   *metrics.Metrics
	now       func() time.Time
	legacyID  func() int
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the service logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Service) {
		s.logger = l
	}
}

// WithMetrics records outcomes on m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithClock overrides the clock used for info reports.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// New creates a Service over store.
func New(store engine.Store, opts ...Option) (*Service, error) {
	if store == nil {
		return nil, errors.New("record store is required")
	}
	s := &Service{
		store:     store,
		validator: NewValidator(),
		logger:    zap.NewNop(),
		now:       time.Now,
		legacyID:  func() int { return rand.IntN(maxLegacyID) + 1 },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Metrics returns the collector the service records on, or nil.
func (s *Service) Metrics() *metrics.Metrics {
	return s.metrics
}

// ListAll returns every person in store order. The result is not paginated.
func (s *Service) ListAll(ctx context.Context) ([]schema.Person, error) {
	people, err := s.store.Find(ctx)
	if err != nil {
		return nil, s.storeFailure("list", err)
	}
	return people, nil
}

// GetByID returns the person with the given identity.
func (s *Service) GetByID(ctx context.Context, id string) (*schema.Person, error) {
	person, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, s.storeFailure("get", err)
	}
	return person, nil
}

// Create validates c and stores it as a new person.
//
// Name uniqueness is enforced by the store in the same call that inserts the
// record, so two concurrent creates for one name cannot both succeed.
func (s *Service) Create(ctx context.Context, c schema.Candidate) (*schema.Person, error) {
	if err := s.check(c); err != nil {
		return nil, err
	}

	person := &schema.Person{
		LegacyID: s.legacyID(),
		Name:     c.Name,
		Number:   c.Number,
	}
	if err := s.store.Insert(ctx, person); err != nil {
		return nil, s.storeFailure("create", err)
	}

	s.metrics.IncPersonsCreated()
	s.logger.Info("Person created", zap.String("id", person.ID), zap.String("name", person.Name))
	return person, nil
}

// UpdateByID validates c and replaces the name and number of an existing person.
func (s *Service) UpdateByID(ctx context.Context, id string, c schema.Candidate) (*schema.Person, error) {
	if err := s.check(c); err != nil {
		return nil, err
	}

	person, err := s.store.Update(ctx, id, c.Name, c.Number)
	if err != nil {
		return nil, s.storeFailure("update", err)
	}

	s.logger.Info("Person updated", zap.String("id", person.ID))
	return person, nil
}

// DeleteByID removes a person. Removing an absent identity succeeds.
func (s *Service) DeleteByID(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return s.storeFailure("delete", err)
	}
	s.logger.Info("Person deleted", zap.String("id", id))
	return nil
}

// Info reports how many people are stored, derived from ListAll.
func (s *Service) Info(ctx context.Context) (*schema.InfoReport, error) {
	people, err := s.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return &schema.InfoReport{Count: len(people), GeneratedAt: s.now()}, nil
}

// Ping reports whether the record store is reachable.
func (s *Service) Ping(ctx context.Context) error {
	if err := s.store.Ping(ctx); err != nil {
		return s.storeFailure("ping", err)
	}
	return nil
}

func (s *Service) check(c schema.Candidate) error {
	err := s.validator.Validate(c)
	if err == nil {
		return nil
	}
	var pe *Error
	if errors.As(err, &pe) {
		s.metrics.IncValidationFailure(string(pe.Violation))
	}
	s.logger.Debug("Candidate rejected", zap.Error(err))
	return err
}

func (s *Service) storeFailure(op string, err error) error {
	pe := fromStore(op, err)
	if pe.Kind == KindStore {
		s.metrics.IncStoreError(op)
		s.logger.Error("Record store failure", zap.String("operation", op), zap.Error(err))
	}
	return pe
}
