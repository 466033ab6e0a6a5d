package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Question struct {
	ID              uuid.UUID                   `gorm:"type:uuid;primaryKey" json:"id"`
	QuizID          uuid.UUID                   `gorm:"type:uuid;index;not null" json:"quiz_id"`
	Quiz            *Quiz                       `gorm:"constraint:OnDelete:CASCADE;foreignKey:QuizID;references:ID" json:"-"`
	QuestionTitle   string                      `gorm:"not null;column:question_title" json:"question_title"`
	QuestionOptions datatypes.JSONSlice[string] `gorm:"column:question_options" json:"question_options"`
	Answer          string                      `gorm:"not null;column:answer" json:"answer"`
	Position        int                         `gorm:"not null;column:position" json:"-"`
	CreatedAt       time.Time                   `gorm:"not null" json:"created_at"`
	UpdatedAt       time.Time                   `gorm:"not null" json:"updated_at"`
}

func (Question) TableName() string {
	return "question"
}
