package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chess-academy-backend/models"
	"chess-academy-backend/services"
)

func validInput() services.TournamentInput {
	return services.TournamentInput{
		Name:            "Winter Classical",
		Date:            eventDay.AddDate(0, 2, 0),
		Category:        "classical",
		MaxParticipants: 48,
	}
}

func TestCreateTournament_WithPoster(t *testing.T) {
	svc, store, blobs, _ := newTournamentService(eventDay)

	got, err := svc.Create(context.Background(), validInput(), testImage())
	require.NoError(t, err)
	require.NotEmpty(t, got.PosterImageURL)

	handle, ok := blobs.HandleFromURL(got.PosterImageURL)
	require.True(t, ok)
	assert.True(t, blobs.Has(handle))
	assert.Equal(t, got.PosterImageURL, store.Items[got.ID].PosterImageURL)
}

func TestCreateTournament_InsertFailureLeavesNoOrphanBlob(t *testing.T) {
	svc, store, blobs, _ := newTournamentService(eventDay)
	store.InsertErr = errors.New("db insert failed")

	_, err := svc.Create(context.Background(), validInput(), testImage())
	require.ErrorIs(t, err, store.InsertErr)
	assert.Empty(t, store.Items)
	assert.Empty(t, blobs.Objects)
}

func TestUpdateTournament_ReplacesPoster(t *testing.T) {
	svc, store, blobs, _ := newTournamentService(eventDay)

	created, err := svc.Create(context.Background(), validInput(), testImage())
	require.NoError(t, err)
	oldHandle, _ := blobs.HandleFromURL(created.PosterImageURL)

	in := validInput()
	in.Name = "Winter Classical (rescheduled)"
	updated, err := svc.Update(context.Background(), created.ID, in, testImage())
	require.NoError(t, err)

	assert.NotEqual(t, created.PosterImageURL, updated.PosterImageURL)
	assert.False(t, blobs.Has(oldHandle), "old poster must be released after the record write")
	newHandle, _ := blobs.HandleFromURL(updated.PosterImageURL)
	assert.True(t, blobs.Has(newHandle))
	assert.Equal(t, "Winter Classical (rescheduled)", store.Items[created.ID].Name)
}

func TestUpdateTournament_PersistFailureKeepsOldPoster(t *testing.T) {
	svc, store, blobs, _ := newTournamentService(eventDay)

	created, err := svc.Create(context.Background(), validInput(), testImage())
	require.NoError(t, err)
	oldHandle, _ := blobs.HandleFromURL(created.PosterImageURL)

	store.UpdateErr = errors.New("db update failed")
	_, err = svc.Update(context.Background(), created.ID, validInput(), testImage())
	require.ErrorIs(t, err, store.UpdateErr)

	assert.True(t, blobs.Has(oldHandle), "stored record still references the old poster")
	assert.Len(t, blobs.Objects, 1, "failed replacement must not linger")
	assert.Equal(t, created.PosterImageURL, store.Items[created.ID].PosterImageURL)
}

func TestUpdateTournament_WithoutImageKeepsPoster(t *testing.T) {
	svc, store, blobs, _ := newTournamentService(eventDay)

	created, err := svc.Create(context.Background(), validInput(), testImage())
	require.NoError(t, err)

	in := validInput()
	in.PosterEmoji = "♞"
	updated, err := svc.Update(context.Background(), created.ID, in, nil)
	require.NoError(t, err)
	assert.Equal(t, created.PosterImageURL, updated.PosterImageURL)
	assert.Len(t, blobs.Objects, 1)
	assert.Equal(t, "♞", store.Items[created.ID].PosterEmoji)
}

func TestDeleteTournament_RemovesRecordAndPoster(t *testing.T) {
	svc, _, blobs, _ := newTournamentService(eventDay)

	created, err := svc.Create(context.Background(), validInput(), testImage())
	require.NoError(t, err)
	handle, _ := blobs.HandleFromURL(created.PosterImageURL)

	require.NoError(t, svc.Delete(context.Background(), created.ID))

	_, err = svc.Get(context.Background(), created.ID)
	var nf *models.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.False(t, blobs.Has(handle))
}

func TestDeleteTournament_SucceedsWhenBlobDeleteFails(t *testing.T) {
	svc, store, blobs, _ := newTournamentService(eventDay)

	created, err := svc.Create(context.Background(), validInput(), testImage())
	require.NoError(t, err)

	blobs.DeleteErr = errors.New("blob store unreachable")
	require.NoError(t, svc.Delete(context.Background(), created.ID))
	assert.NotContains(t, store.Items, created.ID)
}

func TestDeleteTournament_NotFound(t *testing.T) {
	svc, _, _, _ := newTournamentService(eventDay)

	err := svc.Delete(context.Background(), "missing")
	var nf *models.NotFoundError
	require.ErrorAs(t, err, &nf)
}
