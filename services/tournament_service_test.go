package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chess-academy-backend/models"
	"chess-academy-backend/services"
	"chess-academy-backend/storage"
)

var eventDay = time.Date(2025, 6, 14, 0, 0, 0, 0, time.UTC)

func newTournamentService(now time.Time) (*services.TournamentService, *storage.MemTournamentStore, *storage.MemBlobStore, *clockwork.FakeClock) {
	store := storage.NewMemTournamentStore()
	blobs := storage.NewMemBlobStore()
	clock := clockwork.NewFakeClockAt(now)
	svc := services.NewTournamentService(store, services.NewMutationCoordinator(blobs), clock)
	return svc, store, blobs, clock
}

func seedTournament(store *storage.MemTournamentStore, id string, mutate func(*models.Tournament)) *models.Tournament {
	t := &models.Tournament{
		ID:                  id,
		Name:                "Summer Rapid Open",
		Date:                eventDay,
		Category:            "rapid",
		MaxParticipants:     64,
		CurrentParticipants: 10,
		ListUntil:           eventDay,
		Status:              models.TournamentUpcoming,
		IsActive:            true,
	}
	if mutate != nil {
		mutate(t)
	}
	store.Items[id] = t
	return t
}

func TestReconcileStatus_DayBoundaries(t *testing.T) {
	tn := &models.Tournament{Date: eventDay, Status: models.TournamentUpcoming}

	assert.Equal(t, models.TournamentUpcoming, services.ReconcileStatus(tn, eventDay.AddDate(0, 0, -1)))
	// Any hour on the scheduled day counts as ongoing.
	assert.Equal(t, models.TournamentOngoing, services.ReconcileStatus(tn, eventDay.Add(23*time.Hour)))
	assert.Equal(t, models.TournamentCompleted, services.ReconcileStatus(tn, eventDay.AddDate(0, 0, 1)))
}

func TestReconcileStatus_CancelledIsSticky(t *testing.T) {
	tn := &models.Tournament{Date: eventDay, Status: models.TournamentCancelled}

	for _, now := range []time.Time{
		eventDay.AddDate(0, 0, -30),
		eventDay,
		eventDay.AddDate(0, 0, 30),
	} {
		assert.Equal(t, models.TournamentCancelled, services.ReconcileStatus(tn, now))
	}
}

func TestReconcileStatus_RecordedResultIsSticky(t *testing.T) {
	winner := "Mira"
	tn := &models.Tournament{
		// Rescheduled into the future after the result was recorded.
		Date:   eventDay.AddDate(0, 0, 30),
		Status: models.TournamentCompleted,
		Winner: &winner,
	}

	assert.Equal(t, models.TournamentCompleted, services.ReconcileStatus(tn, eventDay))

	// Without a winner the status is purely date-derived and may move back.
	tn.Winner = nil
	assert.Equal(t, models.TournamentUpcoming, services.ReconcileStatus(tn, eventDay))
}

func TestGet_RescheduleKeepsWinnerAndCompletedStatus(t *testing.T) {
	svc, store, _, _ := newTournamentService(eventDay)
	winner := "Mira"
	final := 24
	seedTournament(store, "t1", func(tn *models.Tournament) {
		tn.Date = eventDay.AddDate(0, 0, 14)
		tn.Status = models.TournamentCompleted
		tn.Winner = &winner
		tn.FinalParticipants = &final
	})

	got, err := svc.Get(context.Background(), "t1")
	require.NoError(t, err)
	assert.Equal(t, models.TournamentCompleted, got.Status)
	require.NotNil(t, got.Winner)
	assert.Equal(t, "Mira", *got.Winner)
	require.NotNil(t, got.FinalParticipants)
	assert.Equal(t, 24, *got.FinalParticipants)
}

func TestGet_ReconcilesAndWritesThrough(t *testing.T) {
	svc, store, _, _ := newTournamentService(eventDay.AddDate(0, 0, 2))
	seedTournament(store, "t1", nil)

	got, err := svc.Get(context.Background(), "t1")
	require.NoError(t, err)
	assert.Equal(t, models.TournamentCompleted, got.Status)
	// Write-through persisted the correction.
	assert.Equal(t, models.TournamentCompleted, store.Items["t1"].Status)
}

func TestGet_WriteThroughFailureStillReturnsComputedStatus(t *testing.T) {
	svc, store, _, _ := newTournamentService(eventDay.AddDate(0, 0, 2))
	seedTournament(store, "t1", nil)
	store.UpdateErr = errors.New("db down")

	got, err := svc.Get(context.Background(), "t1")
	require.NoError(t, err)
	// Status correction is best-effort: the caller still sees the computed
	// value even though nothing was persisted.
	assert.Equal(t, models.TournamentCompleted, got.Status)
}

func TestUpdateParticipantCount_Bounds(t *testing.T) {
	svc, store, _, _ := newTournamentService(eventDay)
	seedTournament(store, "t1", nil)

	_, err := svc.UpdateParticipantCount(context.Background(), "t1", 100)
	var ve *models.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, 10, store.Items["t1"].CurrentParticipants, "stored record must be unchanged")

	_, err = svc.UpdateParticipantCount(context.Background(), "t1", -1)
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, 10, store.Items["t1"].CurrentParticipants)

	got, err := svc.UpdateParticipantCount(context.Background(), "t1", 64)
	require.NoError(t, err)
	assert.Equal(t, 64, got.CurrentParticipants)
}

func TestComplete_TrimsWinnerAndDefaultsFinalCount(t *testing.T) {
	svc, store, _, _ := newTournamentService(eventDay.AddDate(0, 0, -3))
	seedTournament(store, "t1", nil)

	// Completion is an admin action and ignores the calendar.
	got, err := svc.Complete(context.Background(), "t1", "  Alice  ", nil)
	require.NoError(t, err)
	assert.Equal(t, models.TournamentCompleted, got.Status)
	require.NotNil(t, got.Winner)
	assert.Equal(t, "Alice", *got.Winner)
	require.NotNil(t, got.FinalParticipants)
	assert.Equal(t, 10, *got.FinalParticipants)
}

func TestComplete_ExplicitFinalCount(t *testing.T) {
	svc, store, _, _ := newTournamentService(eventDay)
	seedTournament(store, "t1", nil)

	final := 42
	got, err := svc.Complete(context.Background(), "t1", "Bobby", &final)
	require.NoError(t, err)
	assert.Equal(t, 42, *got.FinalParticipants)
}

func TestComplete_BlankWinnerRejected(t *testing.T) {
	svc, store, _, _ := newTournamentService(eventDay)
	seedTournament(store, "t1", nil)

	_, err := svc.Complete(context.Background(), "t1", "   ", nil)
	var ve *models.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, models.TournamentUpcoming, store.Items["t1"].Status)
	assert.Nil(t, store.Items["t1"].Winner)
}

func TestCancel_ThenReconcileLeavesCancelled(t *testing.T) {
	svc, store, _, clock := newTournamentService(eventDay.AddDate(0, 0, -1))
	seedTournament(store, "t1", nil)

	_, err := svc.Cancel(context.Background(), "t1")
	require.NoError(t, err)

	clock.Advance(10 * 24 * time.Hour)
	got, err := svc.Get(context.Background(), "t1")
	require.NoError(t, err)
	assert.Equal(t, models.TournamentCancelled, got.Status)
}

func TestToggleActive_FlipsOnlyTheFlag(t *testing.T) {
	svc, store, _, _ := newTournamentService(eventDay)
	seedTournament(store, "t1", nil)

	got, err := svc.ToggleActive(context.Background(), "t1")
	require.NoError(t, err)
	assert.False(t, got.IsActive)
	assert.Equal(t, "Summer Rapid Open", got.Name)
	assert.Equal(t, 10, got.CurrentParticipants)

	got, err = svc.ToggleActive(context.Background(), "t1")
	require.NoError(t, err)
	assert.True(t, got.IsActive)
}

func TestListPublic_VisibilityPredicate(t *testing.T) {
	now := eventDay
	svc, store, _, _ := newTournamentService(now)

	seedTournament(store, "today", func(tn *models.Tournament) {
		tn.Name = "Today Blitz"
		tn.ListUntil = now.AddDate(0, 0, 1)
	})
	seedTournament(store, "future", func(tn *models.Tournament) {
		tn.Name = "Autumn Classic"
		tn.Date = now.AddDate(0, 1, 0)
		tn.ListUntil = now.AddDate(0, 1, 0)
	})
	seedTournament(store, "inactive", func(tn *models.Tournament) {
		tn.IsActive = false
		tn.ListUntil = now.AddDate(0, 1, 0)
	})
	seedTournament(store, "expired-listing", func(tn *models.Tournament) {
		tn.Date = now.AddDate(0, 0, 7)
		tn.ListUntil = now.AddDate(0, 0, -1)
	})
	seedTournament(store, "past", func(tn *models.Tournament) {
		tn.Date = now.AddDate(0, 0, -7)
		tn.ListUntil = now.AddDate(0, 1, 0)
	})
	seedTournament(store, "cancelled", func(tn *models.Tournament) {
		tn.Status = models.TournamentCancelled
		tn.ListUntil = now.AddDate(0, 1, 0)
	})

	items, err := svc.ListPublic(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 2)
	// Ascending by date: today's ongoing event first.
	assert.Equal(t, "Today Blitz", items[0].Name)
	assert.Equal(t, models.TournamentOngoing, items[0].Status)
	assert.Equal(t, "Autumn Classic", items[1].Name)
	assert.Equal(t, models.TournamentUpcoming, items[1].Status)
}

func TestListPast_LimitAndOrdering(t *testing.T) {
	now := eventDay
	svc, store, _, _ := newTournamentService(now)

	winners := []string{"Anna", "Ben", "Carla", "Dan"}
	for i, w := range winners {
		w := w
		n := 20 + i
		id := "p" + w
		seedTournament(store, id, func(tn *models.Tournament) {
			tn.Name = "Past " + w
			tn.Date = now.AddDate(0, 0, -(i + 1))
			tn.Status = models.TournamentCompleted
			tn.Winner = &w
			tn.FinalParticipants = &n
		})
	}
	// Completed but no winner recorded yet: not publicly shown as past.
	seedTournament(store, "no-winner", func(tn *models.Tournament) {
		tn.Date = now.AddDate(0, 0, -10)
		tn.Status = models.TournamentCompleted
	})

	items, err := svc.ListPast(context.Background(), 3)
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, "Anna", items[0].Winner)
	assert.Equal(t, "Ben", items[1].Winner)
	assert.Equal(t, "Carla", items[2].Winner)
	for _, p := range items {
		assert.NotEmpty(t, p.Winner)
	}
	assert.True(t, items[0].Date.After(items[1].Date))
	assert.True(t, items[1].Date.After(items[2].Date))
}

func TestCreate_ValidationBeforeAnySideEffect(t *testing.T) {
	svc, store, blobs, _ := newTournamentService(eventDay)

	in := services.TournamentInput{
		Name:            "Broken",
		Date:            eventDay,
		Category:        "rapid",
		MaxParticipants: 16,
	}
	in.CurrentParticipants = 20 // above max

	img := &services.ImageUpload{Data: []byte("png"), ContentType: "image/png", Filename: "poster.png"}
	_, err := svc.Create(context.Background(), in, img)
	var ve *models.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Empty(t, store.Items)
	assert.Empty(t, blobs.Objects, "nothing may be uploaded before validation passes")
}

func TestCreate_DerivesInitialStatus(t *testing.T) {
	svc, store, _, _ := newTournamentService(eventDay)

	got, err := svc.Create(context.Background(), services.TournamentInput{
		Name:            "Today Cup",
		Date:            eventDay.Add(9 * time.Hour),
		Category:        "blitz",
		MaxParticipants: 32,
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, models.TournamentOngoing, got.Status)
	assert.True(t, got.IsActive)
	require.Contains(t, store.Items, got.ID)
	// listUntil defaults to the day after the scheduled date so the
	// tournament stays listed through its own event day.
	assert.Equal(t, got.Date.AddDate(0, 0, 1), got.ListUntil)
}

func TestListPublic_DefaultHorizonCoversEventDay(t *testing.T) {
	// Mid-morning on the event day itself.
	now := eventDay.Add(10 * time.Hour)
	svc, _, _, _ := newTournamentService(now)

	got, err := svc.Create(context.Background(), services.TournamentInput{
		Name:            "Morning Rapid",
		Date:            now,
		Category:        "rapid",
		MaxParticipants: 32,
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, models.TournamentOngoing, got.Status)

	items, err := svc.ListPublic(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Morning Rapid", items[0].Name)
	assert.Equal(t, models.TournamentOngoing, items[0].Status)
}

func TestList_AdminFilterAndPagination(t *testing.T) {
	now := eventDay
	svc, store, _, _ := newTournamentService(now)

	seedTournament(store, "a", func(tn *models.Tournament) {
		tn.Name = "City Rapid"
		tn.Location = "Hamburg"
		tn.Date = now.AddDate(0, 0, 3)
		tn.CreatedAt = now.Add(1 * time.Hour)
	})
	seedTournament(store, "b", func(tn *models.Tournament) {
		tn.Name = "Junior Masters"
		tn.Category = "junior"
		tn.Location = "Berlin"
		tn.Date = now.AddDate(0, 0, 5)
		tn.CreatedAt = now.Add(2 * time.Hour)
	})
	seedTournament(store, "c", func(tn *models.Tournament) {
		tn.Name = "Hidden Cup"
		tn.IsActive = false
		tn.Date = now.AddDate(0, 0, 9)
		tn.CreatedAt = now.Add(3 * time.Hour)
	})

	page, err := svc.List(context.Background(), services.TournamentListOptions{Search: "berlin"})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "Junior Masters", page.Items[0].Name)

	page, err = svc.List(context.Background(), services.TournamentListOptions{Status: "inactive"})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "Hidden Cup", page.Items[0].Name)

	page, err = svc.List(context.Background(), services.TournamentListOptions{Category: "junior"})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "Junior Masters", page.Items[0].Name)

	page, err = svc.List(context.Background(), services.TournamentListOptions{Page: 1, Limit: 2})
	require.NoError(t, err)
	assert.Len(t, page.Items, 2)
	assert.EqualValues(t, 3, page.TotalCount)
	assert.Equal(t, 2, page.TotalPages)

	page, err = svc.List(context.Background(), services.TournamentListOptions{Page: 2, Limit: 2})
	require.NoError(t, err)
	assert.Len(t, page.Items, 1)

	// "upcoming" targets the status column directly.
	page, err = svc.List(context.Background(), services.TournamentListOptions{Status: models.TournamentUpcoming})
	require.NoError(t, err)
	assert.Len(t, page.Items, 3)
}
