package storage

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"chess-academy-backend/models"
)

// EnrollmentStore persists the public enrollment inquiries.
type EnrollmentStore interface {
	Find(ctx context.Context, status string, skip, limit int) ([]models.Enrollment, error)
	Count(ctx context.Context, status string) (int64, error)
	Get(ctx context.Context, id string) (*models.Enrollment, error)
	Insert(ctx context.Context, e *models.Enrollment) error
	Update(ctx context.Context, id string, fields map[string]interface{}) (*models.Enrollment, error)
	Delete(ctx context.Context, id string) error
}

type GormEnrollmentStore struct {
	DB *gorm.DB
}

func NewGormEnrollmentStore(db *gorm.DB) *GormEnrollmentStore {
	return &GormEnrollmentStore{DB: db}
}

func (s *GormEnrollmentStore) Find(ctx context.Context, status string, skip, limit int) ([]models.Enrollment, error) {
	q := s.DB.WithContext(ctx).Model(&models.Enrollment{}).Order("created_at DESC")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	if skip > 0 {
		q = q.Offset(skip)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	var out []models.Enrollment
	if err := q.Find(&out).Error; err != nil {
		return nil, &models.UpstreamError{Op: "enrollment find", Err: err}
	}
	return out, nil
}

func (s *GormEnrollmentStore) Count(ctx context.Context, status string) (int64, error) {
	var n int64
	q := s.DB.WithContext(ctx).Model(&models.Enrollment{})
	if status != "" {
		q = q.Where("status = ?", status)
	}
	if err := q.Count(&n).Error; err != nil {
		return 0, &models.UpstreamError{Op: "enrollment count", Err: err}
	}
	return n, nil
}

func (s *GormEnrollmentStore) Get(ctx context.Context, id string) (*models.Enrollment, error) {
	var e models.Enrollment
	if err := s.DB.WithContext(ctx).First(&e, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &models.NotFoundError{Resource: "enrollment", ID: id}
		}
		return nil, &models.UpstreamError{Op: "enrollment get", Err: err}
	}
	return &e, nil
}

func (s *GormEnrollmentStore) Insert(ctx context.Context, e *models.Enrollment) error {
	if err := s.DB.WithContext(ctx).Create(e).Error; err != nil {
		return &models.UpstreamError{Op: "enrollment insert", Err: err}
	}
	return nil
}

func (s *GormEnrollmentStore) Update(ctx context.Context, id string, fields map[string]interface{}) (*models.Enrollment, error) {
	res := s.DB.WithContext(ctx).Model(&models.Enrollment{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return nil, &models.UpstreamError{Op: "enrollment update", Err: res.Error}
	}
	if res.RowsAffected == 0 {
		return nil, &models.NotFoundError{Resource: "enrollment", ID: id}
	}
	return s.Get(ctx, id)
}

func (s *GormEnrollmentStore) Delete(ctx context.Context, id string) error {
	res := s.DB.WithContext(ctx).Delete(&models.Enrollment{}, "id = ?", id)
	if res.Error != nil {
		return &models.UpstreamError{Op: "enrollment delete", Err: res.Error}
	}
	if res.RowsAffected == 0 {
		return &models.NotFoundError{Resource: "enrollment", ID: id}
	}
	return nil
}
