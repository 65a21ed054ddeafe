package storage

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"chess-academy-backend/models"
)

// StudentStore persists the testimonial cards, ordered by sort_order.
type StudentStore interface {
	Find(ctx context.Context, activeOnly bool) ([]models.Student, error)
	Get(ctx context.Context, id string) (*models.Student, error)
	Insert(ctx context.Context, st *models.Student) error
	Update(ctx context.Context, id string, fields map[string]interface{}) (*models.Student, error)
	Delete(ctx context.Context, id string) error
	// Reorder assigns sort_order following the position of each id in ids.
	Reorder(ctx context.Context, ids []string) error
}

type GormStudentStore struct {
	DB *gorm.DB
}

func NewGormStudentStore(db *gorm.DB) *GormStudentStore {
	return &GormStudentStore{DB: db}
}

func (s *GormStudentStore) Find(ctx context.Context, activeOnly bool) ([]models.Student, error) {
	q := s.DB.WithContext(ctx).Model(&models.Student{}).Order("sort_order ASC")
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	var out []models.Student
	if err := q.Find(&out).Error; err != nil {
		return nil, &models.UpstreamError{Op: "student find", Err: err}
	}
	return out, nil
}

func (s *GormStudentStore) Get(ctx context.Context, id string) (*models.Student, error) {
	var st models.Student
	if err := s.DB.WithContext(ctx).First(&st, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &models.NotFoundError{Resource: "student", ID: id}
		}
		return nil, &models.UpstreamError{Op: "student get", Err: err}
	}
	return &st, nil
}

func (s *GormStudentStore) Insert(ctx context.Context, st *models.Student) error {
	if err := s.DB.WithContext(ctx).Create(st).Error; err != nil {
		return &models.UpstreamError{Op: "student insert", Err: err}
	}
	return nil
}

func (s *GormStudentStore) Update(ctx context.Context, id string, fields map[string]interface{}) (*models.Student, error) {
	res := s.DB.WithContext(ctx).Model(&models.Student{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return nil, &models.UpstreamError{Op: "student update", Err: res.Error}
	}
	if res.RowsAffected == 0 {
		return nil, &models.NotFoundError{Resource: "student", ID: id}
	}
	return s.Get(ctx, id)
}

func (s *GormStudentStore) Delete(ctx context.Context, id string) error {
	res := s.DB.WithContext(ctx).Delete(&models.Student{}, "id = ?", id)
	if res.Error != nil {
		return &models.UpstreamError{Op: "student delete", Err: res.Error}
	}
	if res.RowsAffected == 0 {
		return &models.NotFoundError{Resource: "student", ID: id}
	}
	return nil
}

func (s *GormStudentStore) Reorder(ctx context.Context, ids []string) error {
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i, id := range ids {
			res := tx.Model(&models.Student{}).Where("id = ?", id).Update("sort_order", i)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return &models.NotFoundError{Resource: "student", ID: id}
			}
		}
		return nil
	})
	if err != nil {
		var nf *models.NotFoundError
		if errors.As(err, &nf) {
			return nf
		}
		return &models.UpstreamError{Op: "student reorder", Err: err}
	}
	return nil
}
