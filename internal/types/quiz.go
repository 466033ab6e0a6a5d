package types

import (
	"time"

	"github.com/google/uuid"
)

type Quiz struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      uuid.UUID  `gorm:"type:uuid;index;not null" json:"user_id"`
	User        *User      `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"-"`
	Title       string     `gorm:"not null;column:title" json:"title"`
	Description string     `gorm:"column:description" json:"description"`
	VideoURL    string     `gorm:"not null;column:video_url" json:"video_url"`
	Questions   []Question `gorm:"foreignKey:QuizID;references:ID" json:"questions"`
	CreatedAt   time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"not null" json:"updated_at"`
}

func (Quiz) TableName() string {
	return "quiz"
}
