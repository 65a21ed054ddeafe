package models

import (
	"time"
)

// Student is a testimonial card shown on the academy website.
type Student struct {
	ID          string `json:"id" gorm:"primaryKey"`
	Name        string `json:"name" gorm:"not null"`
	Achievement string `json:"achievement"` // e.g. "State U-12 Champion"
	Quote       string `json:"quote" gorm:"type:text"`
	Rating      int    `json:"rating" gorm:"default:5"` // 1..5 stars

	PhotoEmoji string `json:"photo_emoji"`
	PhotoURL   string `json:"photo_url"`

	SortOrder int  `json:"sort_order" gorm:"column:sort_order;default:0;index"`
	IsActive  bool `json:"is_active" gorm:"default:true;index"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}
