package services

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"chess-academy-backend/models"
	"chess-academy-backend/storage"
)

// EnrollmentService handles the public inquiry intake and the admin follow-up
// workflow. Status is admin-set, never derived.
type EnrollmentService struct {
	Store storage.EnrollmentStore
}

func NewEnrollmentService(store storage.EnrollmentStore) *EnrollmentService {
	return &EnrollmentService{Store: store}
}

type EnrollmentInput struct {
	ParentName  string `json:"parent_name"`
	StudentName string `json:"student_name"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	StudentAge  int    `json:"student_age"`
	Experience  string `json:"experience"`
	Program     string `json:"program"`
	Message     string `json:"message"`
}

func (in *EnrollmentInput) validate() error {
	if strings.TrimSpace(in.ParentName) == "" {
		return &models.ValidationError{Field: "parent_name", Reason: "required"}
	}
	if strings.TrimSpace(in.StudentName) == "" {
		return &models.ValidationError{Field: "student_name", Reason: "required"}
	}
	email := strings.TrimSpace(in.Email)
	if email == "" || !strings.Contains(email, "@") {
		return &models.ValidationError{Field: "email", Reason: "valid email required"}
	}
	if in.StudentAge < 0 {
		return &models.ValidationError{Field: "student_age", Reason: "must not be negative"}
	}
	return nil
}

// Submit records a new inquiry from the public form.
func (s *EnrollmentService) Submit(ctx context.Context, in EnrollmentInput) (*models.Enrollment, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	e := &models.Enrollment{
		ID:          uuid.NewString(),
		ParentName:  strings.TrimSpace(in.ParentName),
		StudentName: strings.TrimSpace(in.StudentName),
		Email:       strings.TrimSpace(in.Email),
		Phone:       in.Phone,
		StudentAge:  in.StudentAge,
		Experience:  in.Experience,
		Program:     in.Program,
		Message:     in.Message,
		Status:      models.EnrollmentNew,
	}
	if err := s.Store.Insert(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

// EnrollmentPage is a page of inquiries for the admin list.
type EnrollmentPage struct {
	Items      []models.Enrollment `json:"items"`
	TotalCount int64               `json:"total_count"`
	TotalPages int                 `json:"total_pages"`
	Page       int                 `json:"page"`
	Limit      int                 `json:"limit"`
}

func (s *EnrollmentService) List(ctx context.Context, status string, page, limit int) (*EnrollmentPage, error) {
	if status == "all" {
		status = ""
	}
	if status != "" && !models.ValidEnrollmentStatus(status) {
		return nil, &models.ValidationError{Field: "status", Reason: "unknown status"}
	}
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultPageSize
	}

	total, err := s.Store.Count(ctx, status)
	if err != nil {
		return nil, err
	}
	items, err := s.Store.Find(ctx, status, (page-1)*limit, limit)
	if err != nil {
		return nil, err
	}
	return &EnrollmentPage{
		Items:      items,
		TotalCount: total,
		TotalPages: int((total + int64(limit) - 1) / int64(limit)),
		Page:       page,
		Limit:      limit,
	}, nil
}

func (s *EnrollmentService) UpdateStatus(ctx context.Context, id, status string) (*models.Enrollment, error) {
	if !models.ValidEnrollmentStatus(status) {
		return nil, &models.ValidationError{Field: "status", Reason: "unknown status"}
	}
	return s.Store.Update(ctx, id, map[string]interface{}{"status": status})
}

func (s *EnrollmentService) Delete(ctx context.Context, id string) error {
	return s.Store.Delete(ctx, id)
}
