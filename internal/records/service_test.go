package records

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingRepo struct{ *MemoryRepo }

func (failingRepo) CreateBatch(context.Context, []EnergyUse) error {
	return errors.New("db down")
}

func TestCreateFromJSONAndList(t *testing.T) {
	ctx := context.Background()
	clock := time.Date(2024, 4, 1, 9, 0, 0, 0, time.UTC)
	svc := &Service{Repo: NewMemoryRepo(), Now: func() time.Time { return clock }}

	ids, err := svc.CreateFromJSON(ctx, "u1", "rec-1", `[{"account_number":"A-1"},{"account_number":"A-2"}]`)
	require.NoError(t, err)
	require.Len(t, ids, 2)
	assert.NotEqual(t, ids[0], ids[1])

	clock = clock.Add(time.Hour)
	later, err := svc.CreateFromJSON(ctx, "u1", "rec-1", `{"account_number":"A-3"}`)
	require.NoError(t, err)
	require.Len(t, later, 1)

	list, err := svc.List(ctx, "rec-1")
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, later[0], list[0].ID)
	assert.Equal(t, ids[0], list[1].ID)
	assert.Equal(t, ids[1], list[2].ID)
	assert.Equal(t, "u1", list[1].UserID)

	other, err := svc.List(ctx, "rec-2")
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestCreateFromJSONNothingUsable(t *testing.T) {
	svc := &Service{Repo: NewMemoryRepo()}
	ids, err := svc.CreateFromJSON(context.Background(), "u1", "rec-1", `[{"customer":"Jane"}]`)
	require.NoError(t, err)
	assert.Empty(t, ids)
	assert.NotNil(t, ids)
}

func TestCreateFromJSONErrors(t *testing.T) {
	svc := &Service{Repo: NewMemoryRepo()}
	ctx := context.Background()

	_, err := svc.CreateFromJSON(ctx, "u1", "", `{"account_number":"A"}`)
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = svc.CreateFromJSON(ctx, "u1", "rec-1", "  ")
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = svc.CreateFromJSON(ctx, "u1", "rec-1", "Here is your data!")
	assert.ErrorIs(t, err, ErrNoJSON)

	svc.Repo = failingRepo{NewMemoryRepo()}
	_, err = svc.CreateFromJSON(ctx, "u1", "rec-1", `{"account_number":"A"}`)
	assert.EqualError(t, err, "db down")
}
