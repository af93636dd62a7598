package models

import (
	"time"
)

type Student struct {
	ID       uint     `json:"id" gorm:"primaryKey"`
	Username string   `json:"username" gorm:"uniqueIndex;not null;size:50"`
	Password string   `json:"-" gorm:"not null;size:255"`
	Role     UserRole `json:"role" gorm:"not null;size:20;default:student"`

	// Leaderboard counters
	Streak                 int `json:"streak" gorm:"not null;default:0"`
	Rank                   int `json:"rank" gorm:"not null;default:1;index"`
	CompletedHomeworks     int `json:"completed_homeworks" gorm:"not null;default:0"`
	TotalHomeworksAssigned int `json:"total_homeworks_assigned" gorm:"not null;default:0"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Student) TableName() string {
	return "students"
}

// StudentSummary is the slim projection embedded in homework and attendance listings.
type StudentSummary struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
}

func (s *Student) Summary() *StudentSummary {
	if s == nil {
		return nil
	}
	return &StudentSummary{ID: s.ID, Username: s.Username}
}
