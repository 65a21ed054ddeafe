package services

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"chess-academy-backend/models"
	"chess-academy-backend/storage"
)

const photoFolder = "students/photos"

// StudentService manages the testimonial cards. Plain CRUD plus reorder;
// photos go through the same image/record coordination as tournament posters.
type StudentService struct {
	Store storage.StudentStore
	Coord *MutationCoordinator
}

func NewStudentService(store storage.StudentStore, coord *MutationCoordinator) *StudentService {
	return &StudentService{Store: store, Coord: coord}
}

type StudentInput struct {
	Name        string
	Achievement string
	Quote       string
	Rating      int
	PhotoEmoji  string
	SortOrder   int
}

func (in *StudentInput) validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return &models.ValidationError{Field: "name", Reason: "required"}
	}
	if in.Rating < 1 || in.Rating > 5 {
		return &models.ValidationError{Field: "rating", Reason: "must be between 1 and 5"}
	}
	return nil
}

func (s *StudentService) Create(ctx context.Context, in StudentInput, img *ImageUpload) (*models.Student, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	st := &models.Student{
		ID:          uuid.NewString(),
		Name:        strings.TrimSpace(in.Name),
		Achievement: in.Achievement,
		Quote:       in.Quote,
		Rating:      in.Rating,
		PhotoEmoji:  in.PhotoEmoji,
		SortOrder:   in.SortOrder,
		IsActive:    true,
	}
	err := s.Coord.CreateWithImage(ctx, img, photoFolder, func(url string) error {
		if url != "" {
			st.PhotoURL = url
		}
		return s.Store.Insert(ctx, st)
	})
	if err != nil {
		return nil, err
	}
	return st, nil
}

func (s *StudentService) Get(ctx context.Context, id string) (*models.Student, error) {
	return s.Store.Get(ctx, id)
}

func (s *StudentService) Update(ctx context.Context, id string, in StudentInput, img *ImageUpload) (*models.Student, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	existing, err := s.Store.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	fields := map[string]interface{}{
		"name":        strings.TrimSpace(in.Name),
		"achievement": in.Achievement,
		"quote":       in.Quote,
		"rating":      in.Rating,
		"photo_emoji": in.PhotoEmoji,
		"sort_order":  in.SortOrder,
	}

	var updated *models.Student
	persist := func(url string) error {
		if url != "" {
			fields["photo_url"] = url
		}
		var perr error
		updated, perr = s.Store.Update(ctx, id, fields)
		return perr
	}

	if img != nil {
		err = s.Coord.ReplaceImage(ctx, img, photoFolder, existing.PhotoURL, persist)
	} else {
		err = persist("")
	}
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *StudentService) ToggleActive(ctx context.Context, id string) (*models.Student, error) {
	st, err := s.Store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.Store.Update(ctx, id, map[string]interface{}{"is_active": !st.IsActive})
}

// Reorder rewrites sort_order to match the given id ordering.
func (s *StudentService) Reorder(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return &models.ValidationError{Field: "ids", Reason: "required"}
	}
	return s.Store.Reorder(ctx, ids)
}

func (s *StudentService) Delete(ctx context.Context, id string) error {
	st, err := s.Store.Get(ctx, id)
	if err != nil {
		return err
	}
	return s.Coord.DeleteWithImage(ctx, st.PhotoURL, func() error {
		return s.Store.Delete(ctx, id)
	})
}

// ListPublic returns the active cards in display order.
func (s *StudentService) ListPublic(ctx context.Context) ([]models.Student, error) {
	return s.Store.Find(ctx, true)
}

// List is the admin view, inactive cards included.
func (s *StudentService) List(ctx context.Context) ([]models.Student, error) {
	return s.Store.Find(ctx, false)
}
