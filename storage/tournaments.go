package storage

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"chess-academy-backend/models"
)

// TournamentSort picks the ordering of a Find.
type TournamentSort int

const (
	SortByDateAsc TournamentSort = iota
	SortByDateDesc
	SortByCreatedDesc
)

// TournamentFilter is the predicate descriptor consumed by Find/Count. Zero
// values mean "no constraint".
type TournamentFilter struct {
	Search      string     // case-insensitive substring over name/location/category (OR)
	Status      string     // exact status value
	Statuses    []string   // status IN (...)
	IsActive    *bool      // isActive flag
	Category    string     // exact category
	ListUntilAt *time.Time // list_until >= t
	WithWinner  bool       // winner IS NOT NULL
}

// TournamentStore is the record-store surface the services run against.
type TournamentStore interface {
	Find(ctx context.Context, f TournamentFilter, sort TournamentSort, skip, limit int) ([]models.Tournament, error)
	Count(ctx context.Context, f TournamentFilter) (int64, error)
	Get(ctx context.Context, id string) (*models.Tournament, error)
	Insert(ctx context.Context, t *models.Tournament) error
	Update(ctx context.Context, id string, fields map[string]interface{}) (*models.Tournament, error)
	Delete(ctx context.Context, id string) error
}

// GormTournamentStore backs TournamentStore with Postgres via gorm.
type GormTournamentStore struct {
	DB *gorm.DB
}

func NewGormTournamentStore(db *gorm.DB) *GormTournamentStore {
	return &GormTournamentStore{DB: db}
}

func (s *GormTournamentStore) applyFilter(q *gorm.DB, f TournamentFilter) *gorm.DB {
	if f.Search != "" {
		like := "%" + f.Search + "%"
		q = q.Where("name ILIKE ? OR location ILIKE ? OR category ILIKE ?", like, like, like)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if len(f.Statuses) > 0 {
		q = q.Where("status IN ?", f.Statuses)
	}
	if f.IsActive != nil {
		q = q.Where("is_active = ?", *f.IsActive)
	}
	if f.Category != "" {
		q = q.Where("category = ?", f.Category)
	}
	if f.ListUntilAt != nil {
		q = q.Where("list_until >= ?", *f.ListUntilAt)
	}
	if f.WithWinner {
		q = q.Where("winner IS NOT NULL")
	}
	return q
}

func (s *GormTournamentStore) Find(ctx context.Context, f TournamentFilter, sort TournamentSort, skip, limit int) ([]models.Tournament, error) {
	q := s.applyFilter(s.DB.WithContext(ctx).Model(&models.Tournament{}), f)
	switch sort {
	case SortByDateAsc:
		q = q.Order("date ASC")
	case SortByDateDesc:
		q = q.Order("date DESC")
	case SortByCreatedDesc:
		q = q.Order("created_at DESC")
	}
	if skip > 0 {
		q = q.Offset(skip)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	var out []models.Tournament
	if err := q.Find(&out).Error; err != nil {
		return nil, &models.UpstreamError{Op: "tournament find", Err: err}
	}
	return out, nil
}

func (s *GormTournamentStore) Count(ctx context.Context, f TournamentFilter) (int64, error) {
	var n int64
	q := s.applyFilter(s.DB.WithContext(ctx).Model(&models.Tournament{}), f)
	if err := q.Count(&n).Error; err != nil {
		return 0, &models.UpstreamError{Op: "tournament count", Err: err}
	}
	return n, nil
}

func (s *GormTournamentStore) Get(ctx context.Context, id string) (*models.Tournament, error) {
	var t models.Tournament
	if err := s.DB.WithContext(ctx).First(&t, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &models.NotFoundError{Resource: "tournament", ID: id}
		}
		return nil, &models.UpstreamError{Op: "tournament get", Err: err}
	}
	return &t, nil
}

func (s *GormTournamentStore) Insert(ctx context.Context, t *models.Tournament) error {
	if err := s.DB.WithContext(ctx).Create(t).Error; err != nil {
		return &models.UpstreamError{Op: "tournament insert", Err: err}
	}
	return nil
}

func (s *GormTournamentStore) Update(ctx context.Context, id string, fields map[string]interface{}) (*models.Tournament, error) {
	res := s.DB.WithContext(ctx).Model(&models.Tournament{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return nil, &models.UpstreamError{Op: "tournament update", Err: res.Error}
	}
	if res.RowsAffected == 0 {
		return nil, &models.NotFoundError{Resource: "tournament", ID: id}
	}
	return s.Get(ctx, id)
}

func (s *GormTournamentStore) Delete(ctx context.Context, id string) error {
	res := s.DB.WithContext(ctx).Delete(&models.Tournament{}, "id = ?", id)
	if res.Error != nil {
		return &models.UpstreamError{Op: "tournament delete", Err: res.Error}
	}
	if res.RowsAffected == 0 {
		return &models.NotFoundError{Resource: "tournament", ID: id}
	}
	return nil
}
