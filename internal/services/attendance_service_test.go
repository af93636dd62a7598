package services

import (
	"context"
	"errors"
	"testing"

	"github.com/tuition-tracker/tracker-service/internal/events"
	"github.com/tuition-tracker/tracker-service/internal/models"
)

const attendanceDate = "2024-01-10"

func (e *testEnv) reconcile(t *testing.T, records ...models.AttendanceRecordInput) *models.AttendanceReconcileResult {
	t.Helper()
	result, err := e.attendance.Reconcile(context.Background(), &models.AttendanceReconcileRequest{
		Date:    attendanceDate,
		Records: records,
	})
	if err != nil {
		t.Fatalf("Reconcile: %v", err)
	}
	return result
}

func (e *testEnv) attendanceOn(t *testing.T, date string) map[uint]models.AttendanceStatus {
	t.Helper()
	records, err := e.attendance.GetByDate(context.Background(), date)
	if err != nil {
		t.Fatalf("GetByDate: %v", err)
	}
	byStudent := make(map[uint]models.AttendanceStatus, len(records))
	for _, r := range records {
		if _, dup := byStudent[r.StudentID]; dup {
			t.Fatalf("student %d has more than one row on %s", r.StudentID, date)
		}
		byStudent[r.StudentID] = r.Status
	}
	return byStudent
}

func TestAttendanceService_ReconcileIsIdempotent(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createStudent(t, "alice")
	bob := env.createStudent(t, "bob")

	batch := []models.AttendanceRecordInput{
		{StudentID: alice.ID, Status: ptr(models.AttendancePresent)},
		{StudentID: bob.ID, Status: ptr(models.AttendanceAbsent)},
	}

	first := env.reconcile(t, batch...)
	second := env.reconcile(t, batch...)

	if len(first.Records) != 2 || len(second.Records) != 2 {
		t.Fatalf("records = %d then %d, want 2 each", len(first.Records), len(second.Records))
	}

	got := env.attendanceOn(t, attendanceDate)
	if len(got) != 2 || got[alice.ID] != models.AttendancePresent || got[bob.ID] != models.AttendanceAbsent {
		t.Errorf("unexpected attendance %v", got)
	}
}

func TestAttendanceService_ReconcileUpdatesAndClears(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createStudent(t, "alice")
	bob := env.createStudent(t, "bob")
	carol := env.createStudent(t, "carol")

	env.reconcile(t,
		models.AttendanceRecordInput{StudentID: alice.ID, Status: ptr(models.AttendancePresent)},
		models.AttendanceRecordInput{StudentID: bob.ID, Status: ptr(models.AttendancePresent)},
	)

	result := env.reconcile(t,
		// flip
		models.AttendanceRecordInput{StudentID: alice.ID, Status: ptr(models.AttendanceAbsent)},
		// empty status clears the existing row
		models.AttendanceRecordInput{StudentID: bob.ID, Status: ptr(models.AttendanceStatus(""))},
		// nothing to clear is not an error
		models.AttendanceRecordInput{StudentID: carol.ID},
	)

	if len(result.Failures) != 0 {
		t.Fatalf("unexpected failures %+v", result.Failures)
	}
	if len(result.Records) != 1 || result.Records[0].StudentID != alice.ID {
		t.Errorf("unexpected stored records %+v", result.Records)
	}

	got := env.attendanceOn(t, attendanceDate)
	if len(got) != 1 || got[alice.ID] != models.AttendanceAbsent {
		t.Errorf("unexpected attendance %v", got)
	}

	reconciled := env.publisher.EventsOfType(events.AttendanceReconciled)
	if len(reconciled) != 2 {
		t.Fatalf("expected 2 attendance.reconciled events, got %d", len(reconciled))
	}
	data := reconciled[1].Data.(events.AttendanceReconciledData)
	if data.Upserted != 1 || data.Removed != 1 || data.Failed != 0 {
		t.Errorf("unexpected event counts %+v", data)
	}
}

func TestAttendanceService_ReconcilePartialFailure(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createStudent(t, "alice")
	bob := env.createStudent(t, "bob")

	result := env.reconcile(t,
		models.AttendanceRecordInput{StudentID: alice.ID, Status: ptr(models.AttendancePresent)},
		models.AttendanceRecordInput{StudentID: 999, Status: ptr(models.AttendancePresent)},
		models.AttendanceRecordInput{StudentID: bob.ID, Status: ptr(models.AttendanceStatus("late"))},
	)

	if len(result.Records) != 1 || result.Records[0].StudentID != alice.ID {
		t.Errorf("unexpected stored records %+v", result.Records)
	}
	if len(result.Failures) != 2 {
		t.Fatalf("failures = %+v, want 2", result.Failures)
	}
	failed := map[uint]bool{}
	for _, f := range result.Failures {
		failed[f.StudentID] = true
		if f.Error == "" {
			t.Errorf("failure for %d has no message", f.StudentID)
		}
	}
	if !failed[999] || !failed[bob.ID] {
		t.Errorf("unexpected failures %+v", result.Failures)
	}

	got := env.attendanceOn(t, attendanceDate)
	if len(got) != 1 || got[alice.ID] != models.AttendancePresent {
		t.Errorf("unexpected attendance %v", got)
	}
}

func TestAttendanceService_ReconcileLastRecordWins(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createStudent(t, "alice")

	result := env.reconcile(t,
		models.AttendanceRecordInput{StudentID: alice.ID, Status: ptr(models.AttendancePresent)},
		models.AttendanceRecordInput{StudentID: alice.ID, Status: ptr(models.AttendanceAbsent)},
	)

	if len(result.Records) != 1 {
		t.Fatalf("records = %d, want 1", len(result.Records))
	}
	if got := env.attendanceOn(t, attendanceDate)[alice.ID]; got != models.AttendanceAbsent {
		t.Errorf("status = %q, want absent", got)
	}
}

func TestAttendanceService_RequestErrors(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.createStudent(t, "alice")
	records := []models.AttendanceRecordInput{{StudentID: alice.ID, Status: ptr(models.AttendancePresent)}}

	tests := []struct {
		name string
		req  models.AttendanceReconcileRequest
	}{
		{name: "bad date", req: models.AttendanceReconcileRequest{Date: "10-01-2024", Records: records}},
		{name: "missing date", req: models.AttendanceReconcileRequest{Records: records}},
		{name: "missing records", req: models.AttendanceReconcileRequest{Date: attendanceDate}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := env.attendance.Reconcile(ctx, &tt.req); !errors.Is(err, ErrValidationFailed) {
				t.Fatalf("got %v, want ErrValidationFailed", err)
			}
		})
	}

	if _, err := env.attendance.GetByDate(ctx, "yesterday"); !errors.Is(err, ErrValidationFailed) {
		t.Errorf("GetByDate: got %v, want ErrValidationFailed", err)
	}
}

func TestDedupeAttendance(t *testing.T) {
	in := []models.AttendanceRecordInput{
		{StudentID: 1, Status: ptr(models.AttendancePresent)},
		{StudentID: 2, Status: ptr(models.AttendancePresent)},
		{StudentID: 1, Status: ptr(models.AttendanceAbsent)},
	}

	out := dedupeAttendance(in)
	if len(out) != 2 {
		t.Fatalf("got %d records, want 2", len(out))
	}
	if out[0].StudentID != 1 || *out[0].Status != models.AttendanceAbsent {
		t.Errorf("first = %+v, want student 1 absent", out[0])
	}
	if out[1].StudentID != 2 {
		t.Errorf("second = %+v, want student 2", out[1])
	}
}
