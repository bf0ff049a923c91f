package wizard

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matcha/matcha-api/internal/domain/profile"
)

type failingNames struct{}

func (failingNames) SetNames(ctx context.Context, userID uuid.UUID, first, last string) error {
	return errors.New("db down")
}

func TestService_NextKeepsInputWhenStepFails(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	store := NewMemoryStore()
	svc := NewService(store, &fakeProfiles{stored: &profile.Profile{UserID: userID}}, failingNames{}, onePhoto())

	_, err := svc.Get(ctx, userID, FlowExtended)
	require.NoError(t, err)

	first, last := "Camille", "Durand"
	_, err = svc.Next(ctx, userID, &StepInput{FirstName: &first, LastName: &last})
	require.Error(t, err)

	session, err := store.Load(ctx, userID)
	require.NoError(t, err)
	require.NotNil(t, session)
	assert.Equal(t, "Camille", session.Draft.FirstName)
	assert.Equal(t, "Durand", session.Draft.LastName)
	assert.Equal(t, 0, session.Step)
}
