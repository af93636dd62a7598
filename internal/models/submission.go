package models

import (
	"time"
)

type SubmissionStatus string

const (
	SubmissionPending SubmissionStatus = "pending"
	SubmissionDone    SubmissionStatus = "done"
	SubmissionNotDone SubmissionStatus = "not done"
)

// SubmissionStatuses lists every valid status in display order.
var SubmissionStatuses = []SubmissionStatus{SubmissionPending, SubmissionDone, SubmissionNotDone}

func (s SubmissionStatus) IsValid() bool {
	switch s {
	case SubmissionPending, SubmissionDone, SubmissionNotDone:
		return true
	}
	return false
}

// IsGraded reports whether the submission has left the pending state.
func (s SubmissionStatus) IsGraded() bool {
	return s == SubmissionDone || s == SubmissionNotDone
}

type Submission struct {
	ID         uint             `json:"id" gorm:"primaryKey"`
	StudentID  uint             `json:"student_id" gorm:"not null;uniqueIndex:idx_submission_student_homework"`
	HomeworkID uint             `json:"homework_id" gorm:"not null;uniqueIndex:idx_submission_student_homework;index"`
	Status     SubmissionStatus `json:"status" gorm:"not null;size:20;default:pending;index"`
	Remark     string           `json:"remark" gorm:"type:text;default:''"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Student  *Student  `json:"student,omitempty" gorm:"foreignKey:StudentID;constraint:OnDelete:CASCADE"`
	Homework *Homework `json:"homework,omitempty" gorm:"foreignKey:HomeworkID;constraint:OnDelete:CASCADE"`
}

func (Submission) TableName() string {
	return "submissions"
}
