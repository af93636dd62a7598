package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventSource  = "tuition-tracker"
	EventVersion = "1.0"
)

type EventType string

const (
	StudentCreated       EventType = "student.created"
	StudentDeleted       EventType = "student.deleted"
	HomeworkAssigned     EventType = "homework.assigned"
	SubmissionGraded     EventType = "submission.graded"
	RanksRecomputed      EventType = "ranks.recomputed"
	AttendanceReconciled EventType = "attendance.reconciled"
)

// Event is the envelope published for every domain change
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	Source    string      `json:"source"`
	Version   string      `json:"version"`
	Timestamp time.Time   `json:"timestamp"`
	Data      interface{} `json:"data"`
}

// NewEvent wraps data in an envelope with a fresh ID and timestamp
func NewEvent(eventType EventType, data interface{}) *Event {
	return &Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Source:    EventSource,
		Version:   EventVersion,
		Timestamp: time.Now().UTC(),
		Data:      data,
	}
}

// ===== PAYLOADS =====

type StudentCreatedData struct {
	StudentID uint   `json:"student_id"`
	Username  string `json:"username"`
}

type StudentDeletedData struct {
	StudentID          uint  `json:"student_id"`
	DeletedHomeworks   int64 `json:"deleted_homeworks"`
	DeletedSubmissions int64 `json:"deleted_submissions"`
	DeletedAttendance  int64 `json:"deleted_attendance"`
}

type HomeworkAssignedData struct {
	HomeworkID   uint      `json:"homework_id"`
	SubmissionID uint      `json:"submission_id"`
	StudentID    uint      `json:"student_id"`
	Title        string    `json:"title"`
	DueDate      time.Time `json:"due_date"`
}

type SubmissionGradedData struct {
	SubmissionID       uint   `json:"submission_id"`
	StudentID          uint   `json:"student_id"`
	HomeworkID         uint   `json:"homework_id"`
	PreviousStatus     string `json:"previous_status"`
	Status             string `json:"status"`
	Streak             int    `json:"streak"`
	CompletedHomeworks int    `json:"completed_homeworks"`
	Percentage         int    `json:"percentage"`
}

type RanksRecomputedData struct {
	Trigger string       `json:"trigger"`
	Changed map[uint]int `json:"changed"`
}

type AttendanceReconciledData struct {
	Date     string `json:"date"`
	Upserted int    `json:"upserted"`
	Removed  int    `json:"removed"`
	Failed   int    `json:"failed"`
}
