package storage

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"chess-academy-backend/models"
)

// In-memory implementations of the store interfaces. They back the service
// tests and are handy for running the API locally without Postgres or R2.
// The *Err fields inject failures.

type MemBlobStore struct {
	mu      sync.Mutex
	BaseURL string
	Objects map[string][]byte

	UploadErr error
	DeleteErr error
}

func NewMemBlobStore() *MemBlobStore {
	return &MemBlobStore{
		BaseURL: "https://cdn.test",
		Objects: make(map[string][]byte),
	}
}

func (m *MemBlobStore) Upload(ctx context.Context, data []byte, contentType, folder, name string) (string, string, error) {
	if m.UploadErr != nil {
		return "", "", m.UploadErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	key := folder + "/" + name
	m.Objects[key] = data
	return m.BaseURL + "/" + key, key, nil
}

func (m *MemBlobStore) Delete(ctx context.Context, handle string) error {
	if m.DeleteErr != nil {
		return m.DeleteErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.Objects, handle) // idempotent
	return nil
}

func (m *MemBlobStore) HandleFromURL(url string) (string, bool) {
	key, ok := strings.CutPrefix(url, m.BaseURL+"/")
	if !ok || key == "" {
		return "", false
	}
	return key, true
}

func (m *MemBlobStore) Has(handle string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.Objects[handle]
	return ok
}

type MemTournamentStore struct {
	mu    sync.Mutex
	Items map[string]*models.Tournament

	FindErr   error
	InsertErr error
	UpdateErr error
	DeleteErr error
}

func NewMemTournamentStore() *MemTournamentStore {
	return &MemTournamentStore{Items: make(map[string]*models.Tournament)}
}

func matchesTournament(t *models.Tournament, f TournamentFilter) bool {
	if f.Search != "" {
		s := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(t.Name), s) &&
			!strings.Contains(strings.ToLower(t.Location), s) &&
			!strings.Contains(strings.ToLower(t.Category), s) {
			return false
		}
	}
	if f.Status != "" && t.Status != f.Status {
		return false
	}
	if len(f.Statuses) > 0 {
		found := false
		for _, s := range f.Statuses {
			if t.Status == s {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if f.IsActive != nil && t.IsActive != *f.IsActive {
		return false
	}
	if f.Category != "" && t.Category != f.Category {
		return false
	}
	if f.ListUntilAt != nil && t.ListUntil.Before(*f.ListUntilAt) {
		return false
	}
	if f.WithWinner && t.Winner == nil {
		return false
	}
	return true
}

func (m *MemTournamentStore) Find(ctx context.Context, f TournamentFilter, s TournamentSort, skip, limit int) ([]models.Tournament, error) {
	if m.FindErr != nil {
		return nil, m.FindErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Tournament
	for _, t := range m.Items {
		if matchesTournament(t, f) {
			out = append(out, *t)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		switch s {
		case SortByDateDesc:
			return out[i].Date.After(out[j].Date)
		case SortByCreatedDesc:
			return out[i].CreatedAt.After(out[j].CreatedAt)
		default:
			return out[i].Date.Before(out[j].Date)
		}
	})
	if skip > 0 {
		if skip >= len(out) {
			return nil, nil
		}
		out = out[skip:]
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *MemTournamentStore) Count(ctx context.Context, f TournamentFilter) (int64, error) {
	if m.FindErr != nil {
		return 0, m.FindErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, t := range m.Items {
		if matchesTournament(t, f) {
			n++
		}
	}
	return n, nil
}

func (m *MemTournamentStore) Get(ctx context.Context, id string) (*models.Tournament, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.Items[id]
	if !ok {
		return nil, &models.NotFoundError{Resource: "tournament", ID: id}
	}
	cp := *t
	return &cp, nil
}

func (m *MemTournamentStore) Insert(ctx context.Context, t *models.Tournament) error {
	if m.InsertErr != nil {
		return m.InsertErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *t
	m.Items[t.ID] = &cp
	return nil
}

func (m *MemTournamentStore) Update(ctx context.Context, id string, fields map[string]interface{}) (*models.Tournament, error) {
	if m.UpdateErr != nil {
		return nil, m.UpdateErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.Items[id]
	if !ok {
		return nil, &models.NotFoundError{Resource: "tournament", ID: id}
	}
	applyTournamentFields(t, fields)
	cp := *t
	return &cp, nil
}

func applyTournamentFields(t *models.Tournament, fields map[string]interface{}) {
	for k, v := range fields {
		switch k {
		case "name":
			t.Name = v.(string)
		case "date":
			t.Date = v.(time.Time)
		case "time_text":
			t.TimeText = v.(string)
		case "location":
			t.Location = v.(string)
		case "address":
			t.Address = v.(string)
		case "entry_fee":
			t.EntryFee = v.(string)
		case "prize_pool":
			t.PrizePool = v.(string)
		case "format":
			t.Format = v.(string)
		case "time_control":
			t.TimeControl = v.(string)
		case "description":
			t.Description = v.(string)
		case "category":
			t.Category = v.(string)
		case "registration_url":
			t.RegistrationURL = v.(string)
		case "max_participants":
			t.MaxParticipants = v.(int)
		case "current_participants":
			t.CurrentParticipants = v.(int)
		case "poster_emoji":
			t.PosterEmoji = v.(string)
		case "poster_image_url":
			t.PosterImageURL = v.(string)
		case "list_until":
			t.ListUntil = v.(time.Time)
		case "status":
			t.Status = v.(string)
		case "is_active":
			t.IsActive = v.(bool)
		case "winner":
			w := v.(string)
			t.Winner = &w
		case "final_participants":
			n := v.(int)
			t.FinalParticipants = &n
		}
	}
}

func (m *MemTournamentStore) Delete(ctx context.Context, id string) error {
	if m.DeleteErr != nil {
		return m.DeleteErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.Items[id]; !ok {
		return &models.NotFoundError{Resource: "tournament", ID: id}
	}
	delete(m.Items, id)
	return nil
}

type MemStudentStore struct {
	mu    sync.Mutex
	Items map[string]*models.Student

	InsertErr error
	UpdateErr error
}

func NewMemStudentStore() *MemStudentStore {
	return &MemStudentStore{Items: make(map[string]*models.Student)}
}

func (m *MemStudentStore) Find(ctx context.Context, activeOnly bool) ([]models.Student, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Student
	for _, st := range m.Items {
		if activeOnly && !st.IsActive {
			continue
		}
		out = append(out, *st)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SortOrder < out[j].SortOrder })
	return out, nil
}

func (m *MemStudentStore) Get(ctx context.Context, id string) (*models.Student, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	st, ok := m.Items[id]
	if !ok {
		return nil, &models.NotFoundError{Resource: "student", ID: id}
	}
	cp := *st
	return &cp, nil
}

func (m *MemStudentStore) Insert(ctx context.Context, st *models.Student) error {
	if m.InsertErr != nil {
		return m.InsertErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *st
	m.Items[st.ID] = &cp
	return nil
}

func (m *MemStudentStore) Update(ctx context.Context, id string, fields map[string]interface{}) (*models.Student, error) {
	if m.UpdateErr != nil {
		return nil, m.UpdateErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	st, ok := m.Items[id]
	if !ok {
		return nil, &models.NotFoundError{Resource: "student", ID: id}
	}
	for k, v := range fields {
		switch k {
		case "name":
			st.Name = v.(string)
		case "achievement":
			st.Achievement = v.(string)
		case "quote":
			st.Quote = v.(string)
		case "rating":
			st.Rating = v.(int)
		case "photo_emoji":
			st.PhotoEmoji = v.(string)
		case "photo_url":
			st.PhotoURL = v.(string)
		case "sort_order":
			st.SortOrder = v.(int)
		case "is_active":
			st.IsActive = v.(bool)
		}
	}
	cp := *st
	return &cp, nil
}

func (m *MemStudentStore) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.Items[id]; !ok {
		return &models.NotFoundError{Resource: "student", ID: id}
	}
	delete(m.Items, id)
	return nil
}

func (m *MemStudentStore) Reorder(ctx context.Context, ids []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, id := range ids {
		if _, ok := m.Items[id]; !ok {
			return &models.NotFoundError{Resource: "student", ID: id}
		}
	}
	for i, id := range ids {
		m.Items[id].SortOrder = i
	}
	return nil
}

type MemEnrollmentStore struct {
	mu    sync.Mutex
	Items map[string]*models.Enrollment

	InsertErr error
}

func NewMemEnrollmentStore() *MemEnrollmentStore {
	return &MemEnrollmentStore{Items: make(map[string]*models.Enrollment)}
}

func (m *MemEnrollmentStore) Find(ctx context.Context, status string, skip, limit int) ([]models.Enrollment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Enrollment
	for _, e := range m.Items {
		if status != "" && e.Status != status {
			continue
		}
		out = append(out, *e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if skip > 0 {
		if skip >= len(out) {
			return nil, nil
		}
		out = out[skip:]
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *MemEnrollmentStore) Count(ctx context.Context, status string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, e := range m.Items {
		if status == "" || e.Status == status {
			n++
		}
	}
	return n, nil
}

func (m *MemEnrollmentStore) Get(ctx context.Context, id string) (*models.Enrollment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.Items[id]
	if !ok {
		return nil, &models.NotFoundError{Resource: "enrollment", ID: id}
	}
	cp := *e
	return &cp, nil
}

func (m *MemEnrollmentStore) Insert(ctx context.Context, e *models.Enrollment) error {
	if m.InsertErr != nil {
		return m.InsertErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *e
	m.Items[e.ID] = &cp
	return nil
}

func (m *MemEnrollmentStore) Update(ctx context.Context, id string, fields map[string]interface{}) (*models.Enrollment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.Items[id]
	if !ok {
		return nil, &models.NotFoundError{Resource: "enrollment", ID: id}
	}
	for k, v := range fields {
		switch k {
		case "status":
			e.Status = v.(string)
		}
	}
	cp := *e
	return &cp, nil
}

func (m *MemEnrollmentStore) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.Items[id]; !ok {
		return &models.NotFoundError{Resource: "enrollment", ID: id}
	}
	delete(m.Items, id)
	return nil
}
