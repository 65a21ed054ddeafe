package services

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"chess-academy-backend/models"
	"chess-academy-backend/storage"
)

const (
	posterFolder    = "tournaments/posters"
	defaultPageSize = 10
	defaultPastRows = 6
)

type TournamentService struct {
	Store storage.TournamentStore
	Coord *MutationCoordinator
	Clock clockwork.Clock
}

func NewTournamentService(store storage.TournamentStore, coord *MutationCoordinator, clock clockwork.Clock) *TournamentService {
	return &TournamentService{Store: store, Coord: coord, Clock: clock}
}

// TournamentInput carries the admin-supplied fields for create and full update.
type TournamentInput struct {
	Name            string
	Date            time.Time
	TimeText        string
	Location        string
	Address         string
	EntryFee        string
	PrizePool       string
	Format          string
	TimeControl     string
	Description     string
	Category        string
	RegistrationURL string

	MaxParticipants     int
	CurrentParticipants int

	PosterEmoji string
	ListUntil   time.Time
}

func (in *TournamentInput) validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return &models.ValidationError{Field: "name", Reason: "required"}
	}
	if in.Date.IsZero() {
		return &models.ValidationError{Field: "date", Reason: "required"}
	}
	if !models.ValidCategory(in.Category) {
		return &models.ValidationError{Field: "category", Reason: "unknown category"}
	}
	if in.MaxParticipants <= 0 {
		return &models.ValidationError{Field: "max_participants", Reason: "must be positive"}
	}
	if in.CurrentParticipants < 0 || in.CurrentParticipants > in.MaxParticipants {
		return &models.ValidationError{Field: "current_participants", Reason: "must be between 0 and max_participants"}
	}
	return nil
}

// ReconcileStatus derives the status implied by the clock. Cancelled is
// sticky: once an admin cancels, the date comparison no longer applies. A
// completed tournament with a recorded winner is sticky too, otherwise a
// rescheduled date would flip it back to upcoming while the winner fields
// still hold the old result.
func ReconcileStatus(t *models.Tournament, now time.Time) string {
	if t.Status == models.TournamentCancelled {
		return models.TournamentCancelled
	}
	if t.Status == models.TournamentCompleted && t.Winner != nil {
		return models.TournamentCompleted
	}
	today := calendarDay(now)
	day := calendarDay(t.Date)
	switch {
	case today.After(day):
		return models.TournamentCompleted
	case today.Equal(day):
		return models.TournamentOngoing
	default:
		return models.TournamentUpcoming
	}
}

func calendarDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// reconcile applies ReconcileStatus to t and write-throughs a changed status.
// The write is best-effort: callers always see the computed value even if the
// persist fails.
func (s *TournamentService) reconcile(ctx context.Context, t *models.Tournament) {
	computed := ReconcileStatus(t, s.Clock.Now())
	if computed == t.Status {
		return
	}
	t.Status = computed
	if _, err := s.Store.Update(ctx, t.ID, map[string]interface{}{"status": computed}); err != nil {
		log.Printf("[Lifecycle] failed to persist status %s for tournament %s: %v", computed, t.ID, err)
	}
}

// Create persists a new tournament, uploading the poster image first when one
// was supplied.
func (s *TournamentService) Create(ctx context.Context, in TournamentInput, img *ImageUpload) (*models.Tournament, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	listUntil := in.ListUntil
	if listUntil.IsZero() {
		// The horizon must cover the whole event day: list_until is compared
		// against full timestamps, so defaulting to the date itself would
		// delist the tournament at midnight of its own day.
		listUntil = in.Date.AddDate(0, 0, 1)
	}

	t := &models.Tournament{
		ID:                  uuid.NewString(),
		Name:                strings.TrimSpace(in.Name),
		Date:                in.Date,
		TimeText:            in.TimeText,
		Location:            in.Location,
		Address:             in.Address,
		EntryFee:            in.EntryFee,
		PrizePool:           in.PrizePool,
		Format:              in.Format,
		TimeControl:         in.TimeControl,
		Description:         in.Description,
		Category:            in.Category,
		RegistrationURL:     in.RegistrationURL,
		MaxParticipants:     in.MaxParticipants,
		CurrentParticipants: in.CurrentParticipants,
		PosterEmoji:         in.PosterEmoji,
		ListUntil:           listUntil,
		IsActive:            true,
	}
	t.Status = ReconcileStatus(t, s.Clock.Now())

	err := s.Coord.CreateWithImage(ctx, img, posterFolder, func(url string) error {
		if url != "" {
			t.PosterImageURL = url
		}
		return s.Store.Insert(ctx, t)
	})
	if err != nil {
		return nil, err
	}
	return t, nil
}

// Get fetches one tournament with its status reconciled against the clock.
func (s *TournamentService) Get(ctx context.Context, id string) (*models.Tournament, error) {
	t, err := s.Store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	s.reconcile(ctx, t)
	return t, nil
}

// Update replaces the admin-editable fields. When a replacement poster is
// supplied the old image is deleted only after the record write succeeds.
func (s *TournamentService) Update(ctx context.Context, id string, in TournamentInput, img *ImageUpload) (*models.Tournament, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	existing, err := s.Store.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	listUntil := in.ListUntil
	if listUntil.IsZero() {
		listUntil = in.Date.AddDate(0, 0, 1)
	}

	fields := map[string]interface{}{
		"name":                 strings.TrimSpace(in.Name),
		"date":                 in.Date,
		"time_text":            in.TimeText,
		"location":             in.Location,
		"address":              in.Address,
		"entry_fee":            in.EntryFee,
		"prize_pool":           in.PrizePool,
		"format":               in.Format,
		"time_control":         in.TimeControl,
		"description":          in.Description,
		"category":             in.Category,
		"registration_url":     in.RegistrationURL,
		"max_participants":     in.MaxParticipants,
		"current_participants": in.CurrentParticipants,
		"poster_emoji":         in.PosterEmoji,
		"list_until":           listUntil,
	}

	var updated *models.Tournament
	persist := func(url string) error {
		if url != "" {
			fields["poster_image_url"] = url
		}
		var perr error
		updated, perr = s.Store.Update(ctx, id, fields)
		return perr
	}

	if img != nil {
		err = s.Coord.ReplaceImage(ctx, img, posterFolder, existing.PosterImageURL, persist)
	} else {
		err = persist("")
	}
	if err != nil {
		return nil, err
	}
	s.reconcile(ctx, updated)
	return updated, nil
}

// UpdateParticipantCount sets current_participants, rejecting values outside
// [0, max_participants].
func (s *TournamentService) UpdateParticipantCount(ctx context.Context, id string, count int) (*models.Tournament, error) {
	if count < 0 {
		return nil, &models.ValidationError{Field: "current_participants", Reason: "must not be negative"}
	}
	t, err := s.Store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if count > t.MaxParticipants {
		return nil, &models.ValidationError{Field: "current_participants", Reason: "exceeds max_participants"}
	}
	return s.Store.Update(ctx, id, map[string]interface{}{"current_participants": count})
}

// Complete marks a tournament finished and records the winner. This is an
// admin action and deliberately ignores the calendar — a tournament can be
// completed early.
func (s *TournamentService) Complete(ctx context.Context, id, winner string, finalParticipants *int) (*models.Tournament, error) {
	winner = strings.TrimSpace(winner)
	if winner == "" {
		return nil, &models.ValidationError{Field: "winner", Reason: "required"}
	}
	t, err := s.Store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	final := t.CurrentParticipants
	if finalParticipants != nil {
		final = *finalParticipants
	}
	return s.Store.Update(ctx, id, map[string]interface{}{
		"status":             models.TournamentCompleted,
		"winner":             winner,
		"final_participants": final,
	})
}

// Cancel puts a tournament into the terminal cancelled state. Recomputation
// will not move it again.
func (s *TournamentService) Cancel(ctx context.Context, id string) (*models.Tournament, error) {
	if _, err := s.Store.Get(ctx, id); err != nil {
		return nil, err
	}
	return s.Store.Update(ctx, id, map[string]interface{}{"status": models.TournamentCancelled})
}

// ToggleActive flips the publish flag and nothing else.
func (s *TournamentService) ToggleActive(ctx context.Context, id string) (*models.Tournament, error) {
	t, err := s.Store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.Store.Update(ctx, id, map[string]interface{}{"is_active": !t.IsActive})
}

// Delete removes the tournament and releases its poster image. A blob-store
// failure is logged but never blocks the record deletion.
func (s *TournamentService) Delete(ctx context.Context, id string) error {
	t, err := s.Store.Get(ctx, id)
	if err != nil {
		return err
	}
	return s.Coord.DeleteWithImage(ctx, t.PosterImageURL, func() error {
		return s.Store.Delete(ctx, id)
	})
}

// ListPublic returns the tournaments currently visible on the website:
// active, not past their listing horizon, and upcoming or ongoing after
// reconciliation, in ascending date order.
func (s *TournamentService) ListPublic(ctx context.Context) ([]models.Tournament, error) {
	now := s.Clock.Now()
	active := true
	items, err := s.Store.Find(ctx, storage.TournamentFilter{
		IsActive:    &active,
		ListUntilAt: &now,
	}, storage.SortByDateAsc, 0, 0)
	if err != nil {
		return nil, err
	}
	visible := make([]models.Tournament, 0, len(items))
	for i := range items {
		s.reconcile(ctx, &items[i])
		switch items[i].Status {
		case models.TournamentUpcoming, models.TournamentOngoing:
			visible = append(visible, items[i])
		}
	}
	return visible, nil
}

// ListPast returns completed tournaments with a recorded winner, newest
// first, projected down to the public recap fields.
func (s *TournamentService) ListPast(ctx context.Context, limit int) ([]models.PastTournament, error) {
	if limit <= 0 {
		limit = defaultPastRows
	}
	active := true
	items, err := s.Store.Find(ctx, storage.TournamentFilter{
		IsActive:   &active,
		Status:     models.TournamentCompleted,
		WithWinner: true,
	}, storage.SortByDateDesc, 0, limit)
	if err != nil {
		return nil, err
	}
	out := make([]models.PastTournament, 0, len(items))
	for _, t := range items {
		p := models.PastTournament{
			Name:      t.Name,
			Date:      t.Date,
			PrizePool: t.PrizePool,
		}
		if t.Winner != nil {
			p.Winner = *t.Winner
		}
		if t.FinalParticipants != nil {
			p.FinalParticipants = *t.FinalParticipants
		}
		out = append(out, p)
	}
	return out, nil
}

// TournamentListOptions is the admin list request.
type TournamentListOptions struct {
	Search   string
	Status   string // "all", "active", "inactive", or a status value
	Category string // "all" or a category value
	Page     int    // 1-indexed
	Limit    int
}

// TournamentPage is a page of admin results.
type TournamentPage struct {
	Items      []models.Tournament `json:"items"`
	TotalCount int64               `json:"total_count"`
	TotalPages int                 `json:"total_pages"`
	Page       int                 `json:"page"`
	Limit      int                 `json:"limit"`
}

// projectFilter translates the admin options into a store filter plus
// skip/limit. "active"/"inactive" target the publish flag; any other
// non-"all" status value targets the status column directly.
func projectFilter(opts TournamentListOptions) (storage.TournamentFilter, int, int, int) {
	var f storage.TournamentFilter
	f.Search = strings.TrimSpace(opts.Search)

	switch opts.Status {
	case "", "all":
	case "active":
		v := true
		f.IsActive = &v
	case "inactive":
		v := false
		f.IsActive = &v
	default:
		f.Status = opts.Status
	}

	if opts.Category != "" && opts.Category != "all" {
		f.Category = opts.Category
	}

	page := opts.Page
	if page < 1 {
		page = 1
	}
	limit := opts.Limit
	if limit < 1 {
		limit = defaultPageSize
	}
	return f, (page - 1) * limit, limit, page
}

// List is the admin view: filtered, paginated, statuses reconciled.
func (s *TournamentService) List(ctx context.Context, opts TournamentListOptions) (*TournamentPage, error) {
	f, skip, limit, page := projectFilter(opts)

	total, err := s.Store.Count(ctx, f)
	if err != nil {
		return nil, err
	}
	items, err := s.Store.Find(ctx, f, storage.SortByCreatedDesc, skip, limit)
	if err != nil {
		return nil, err
	}
	for i := range items {
		s.reconcile(ctx, &items[i])
	}

	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return &TournamentPage{
		Items:      items,
		TotalCount: total,
		TotalPages: totalPages,
		Page:       page,
		Limit:      limit,
	}, nil
}
