package models

import (
	"time"
)

type LoginRequest struct {
	Username string `json:"username" validate:"required,max=50"`
	Password string `json:"password" validate:"required,max=100"`
}

type LoginResponse struct {
	ID        uint      `json:"id"`
	Username  string    `json:"username"`
	Role      UserRole  `json:"role"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

type StudentCreateRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50,username"`
	Password string `json:"password" validate:"required,min=4,max=100"`
}

type HomeworkCreateRequest struct {
	Title       string  `json:"title" validate:"required,min=1,max=200"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
	DueDate     string  `json:"due_date" validate:"required,due_date"`
	StudentID   *uint   `json:"student_id" validate:"required"`
}

type GradeSubmissionRequest struct {
	Status SubmissionStatus `json:"status" validate:"required,submission_status"`
	Remark *string          `json:"remark" validate:"omitempty,max=2000"`
}

type AttendanceRecordInput struct {
	StudentID uint              `json:"student_id" validate:"required"`
	Status    *AttendanceStatus `json:"status" validate:"omitempty,attendance_status"`
}

type AttendanceReconcileRequest struct {
	Date    string                  `json:"date" validate:"required,ymd_date"`
	Records []AttendanceRecordInput `json:"records" validate:"required"`
}

type AttendanceFailure struct {
	StudentID uint   `json:"student_id"`
	Error     string `json:"error"`
}

type AttendanceReconcileResult struct {
	Date     string              `json:"date"`
	Records  []*Attendance       `json:"records"`
	Failures []AttendanceFailure `json:"failures,omitempty"`
}

// StudentResponse is a student with its derived completion percentage.
type StudentResponse struct {
	*Student
	Percentage int `json:"percentage"`
}

type StudentStats struct {
	ID                     uint   `json:"id"`
	Username               string `json:"username"`
	Streak                 int    `json:"streak"`
	Rank                   int    `json:"rank"`
	Percentage             int    `json:"percentage"`
	CompletedHomeworks     int    `json:"completed_homeworks"`
	TotalHomeworksAssigned int    `json:"total_homeworks_assigned"`
	AttendancePercentage   int    `json:"attendance_percentage"`
}

type StudentDashboard struct {
	Stats              StudentStats  `json:"stats"`
	PendingHomeworks   []*Submission `json:"pending_homeworks"`
	CompletedHomeworks []*Submission `json:"completed_homeworks"`
	AttendanceRecords  []*Attendance `json:"attendance_records"`
}

type ErrorResponse struct {
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

type SuccessResponse struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}
