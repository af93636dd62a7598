package models

import (
	"time"

	"gorm.io/datatypes"
)

type Homework struct {
	ID          uint           `json:"id" gorm:"primaryKey"`
	Title       string         `json:"title" gorm:"not null;size:200"`
	Description string         `json:"description" gorm:"type:text"`
	DueDate     datatypes.Date `json:"due_date" gorm:"not null;index"`
	AssignedTo  uint           `json:"assigned_to" gorm:"not null;index"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Assignee *Student `json:"assignee,omitempty" gorm:"foreignKey:AssignedTo;constraint:OnDelete:CASCADE"`
}

func (Homework) TableName() string {
	return "homeworks"
}

// DueTime returns the due date as a time.Time for sorting and formatting.
func (h *Homework) DueTime() time.Time {
	return time.Time(h.DueDate)
}
