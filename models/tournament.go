package models

import (
	"time"
)

// Tournament statuses. Cancelled is only ever set by an admin and is never
// overwritten by the date-based recomputation.
const (
	TournamentUpcoming  = "upcoming"
	TournamentOngoing   = "ongoing"
	TournamentCompleted = "completed"
	TournamentCancelled = "cancelled"
)

// Tournament categories accepted at creation.
var TournamentCategories = []string{"rapid", "blitz", "classical", "bullet", "junior", "open"}

// Tournament represents a chess tournament hosted or promoted by the academy.
type Tournament struct {
	ID              string    `json:"id" gorm:"primaryKey"`
	Name            string    `json:"name" gorm:"not null"`
	Date            time.Time `json:"date" gorm:"not null;index"`
	TimeText        string    `json:"time" gorm:"column:time_text"` // display string, e.g. "10:00 AM - 4:00 PM"
	Location        string    `json:"location"`
	Address         string    `json:"address"`
	EntryFee        string    `json:"entry_fee"`
	PrizePool       string    `json:"prize_pool"`
	Format          string    `json:"format"`       // e.g. "5 Round Swiss"
	TimeControl     string    `json:"time_control"` // e.g. "15+10"
	Description     string    `json:"description" gorm:"type:text"`
	Category        string    `json:"category" gorm:"not null;index"`
	RegistrationURL string    `json:"registration_url"`

	MaxParticipants     int `json:"max_participants" gorm:"not null"`
	CurrentParticipants int `json:"current_participants" gorm:"default:0"`

	// PosterEmoji is the display default; PosterImageURL overrides it when an
	// image has been uploaded. Both may be stored at once.
	PosterEmoji    string `json:"poster_emoji"`
	PosterImageURL string `json:"poster_image_url"`

	ListUntil time.Time `json:"list_until" gorm:"index"`
	Status    string    `json:"status" gorm:"default:'upcoming';index"`
	IsActive  bool      `json:"is_active" gorm:"default:true;index"`

	// Set only when the tournament completes.
	Winner            *string `json:"winner,omitempty"`
	FinalParticipants *int    `json:"final_participants,omitempty"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// ValidCategory reports whether c is one of the accepted categories.
func ValidCategory(c string) bool {
	for _, v := range TournamentCategories {
		if v == c {
			return true
		}
	}
	return false
}

// ValidStatus reports whether s is one of the four tournament statuses.
func ValidStatus(s string) bool {
	switch s {
	case TournamentUpcoming, TournamentOngoing, TournamentCompleted, TournamentCancelled:
		return true
	}
	return false
}

// PastTournament is the public projection of a completed tournament.
type PastTournament struct {
	Name              string    `json:"name"`
	Date              time.Time `json:"date"`
	Winner            string    `json:"winner"`
	FinalParticipants int       `json:"final_participants"`
	PrizePool         string    `json:"prize_pool"`
}
