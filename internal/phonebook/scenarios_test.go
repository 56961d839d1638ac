package phonebook

import (
	"context"
	"testing"

	"github.com/celerix-dev/phonebook/internal/engine"
	"github.com/celerix-dev/phonebook/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	svc, err := New(engine.NewDocStore(nil, nil))
	require.NoError(t, err)
	return svc
}

func TestService_ShortNameIsRejectedAndNothingStored(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	_, err := svc.Create(ctx, schema.Candidate{Name: "Al", Number: "123-4567"})
	require.ErrorIs(t, err, &Error{Kind: KindValidation, Violation: NameTooShort})

	people, err := svc.ListAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, people)
}

func TestService_CreateThenGet(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	created, err := svc.Create(ctx, schema.Candidate{Name: "Ada Lovelace", Number: "39-44-5323523"})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)

	got, err := svc.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", got.Name)
	assert.Equal(t, "39-44-5323523", got.Number)

	people, err := svc.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, people, 1)
	assert.Equal(t, created.ID, people[0].ID)
}

func TestService_DuplicateNameLeavesOriginalUntouched(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	first, err := svc.Create(ctx, schema.Candidate{Name: "Arto Hellas", Number: "040-123456"})
	require.NoError(t, err)

	_, err = svc.Create(ctx, schema.Candidate{Name: "Arto Hellas", Number: "040-654321"})
	require.ErrorIs(t, err, ErrDuplicateName)

	people, err := svc.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, people, 1)
	assert.Equal(t, first.ID, people[0].ID)
	assert.Equal(t, "040-123456", people[0].Number)
}

func TestService_UpdateIsReflected(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	created, err := svc.Create(ctx, schema.Candidate{Name: "Ada Lovelace", Number: "39-44-5323523"})
	require.NoError(t, err)

	updated, err := svc.UpdateByID(ctx, created.ID, schema.Candidate{Name: "Ada Lovelace", Number: "39-44-0000000"})
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)

	got, err := svc.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "39-44-0000000", got.Number)
}

func TestService_UpdateAbsentIsNotFound(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.UpdateByID(context.Background(), "5b3c6a3e-1111-4c2a-9d55-1f0a2b3c4d5e",
		schema.Candidate{Name: "Ada Lovelace", Number: "39-44-0000000"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestService_DeleteTwiceSucceeds(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	created, err := svc.Create(ctx, schema.Candidate{Name: "Dan Abramov", Number: "12-43-234345"})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteByID(ctx, created.ID))
	require.NoError(t, svc.DeleteByID(ctx, created.ID))

	_, err = svc.GetByID(ctx, created.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestService_MalformedID(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.GetByID(context.Background(), "not-an-id")
	assert.ErrorIs(t, err, ErrMalformedID)
	assert.Equal(t, KindMalformedID, KindOf(err))
}

func TestService_InfoMatchesListAll(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	for _, c := range []schema.Candidate{
		{Name: "Arto Hellas", Number: "040-123456"},
		{Name: "Ada Lovelace", Number: "39-44-5323523"},
		{Name: "Dan Abramov", Number: "12-43-234345"},
		{Name: "Mary Poppendieck", Number: "39-23-6423122"},
	} {
		_, err := svc.Create(ctx, c)
		require.NoError(t, err)
	}

	report, err := svc.Info(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, report.Count)

	people, err := svc.ListAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, len(people), report.Count)
}
