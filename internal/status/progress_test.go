package status

import (
	"errors"
	"testing"
	"time"
)

func testProjector() Projector {
	p := NewProjector(DefaultMetadata())
	p.Location = time.UTC
	return p
}

func statuses(steps []Step) []Status {
	out := make([]Status, 0, len(steps))
	for _, s := range steps {
		out = append(out, s.Status)
	}
	return out
}

func equalStatuses(a, b []Status) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestFuture_MarksCurrentStep(t *testing.T) {
	got, err := testProjector().Future(workflowGraph(), StatusApproved)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got.Steps) != 7 {
		t.Fatalf("expected 7 steps, got %d", len(got.Steps))
	}
	if got.Current != 3 {
		t.Fatalf("expected current 3, got %d", got.Current)
	}
	if got.Steps[3].Label != "Approved" || got.Steps[3].Icon != "verified" {
		t.Fatalf("unexpected step metadata: %+v", got.Steps[3])
	}
	if got.Steps[0].SubLabel != "" {
		t.Fatalf("future steps carry no date, got %q", got.Steps[0].SubLabel)
	}
}

func TestFuture_DeletedIsNotApplicable(t *testing.T) {
	_, err := testProjector().Future(workflowGraph(), StatusDeleted)
	if !errors.Is(err, ErrNotApplicable) {
		t.Fatalf("expected ErrNotApplicable, got %v", err)
	}
}

func TestFuture_OffPathStatusHasNoCurrent(t *testing.T) {
	got, err := testProjector().Future(workflowGraph(), StatusRejected)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Current != -1 {
		t.Fatalf("expected current -1, got %d", got.Current)
	}
}

func TestWithHistory_SortsAndAppendsFuture(t *testing.T) {
	t1 := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	t2 := time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC)
	history := []HistoryEntry{
		{Status: StatusCompleted, Timestamp: t2},
		{Status: StatusInProgress, Timestamp: t1},
	}

	got := testProjector().WithHistory(workflowGraph(), StatusCompleted, history)
	want := []Status{
		StatusInProgress, StatusCompleted, StatusApprovalsReceived, StatusApproved,
		StatusSent, StatusSettled, StatusArchived,
	}
	if !equalStatuses(statuses(got.Steps), want) {
		t.Fatalf("expected %v, got %v", want, statuses(got.Steps))
	}
	if got.Current != 1 {
		t.Fatalf("expected current 1, got %d", got.Current)
	}
	if got.Steps[0].SubLabel != "01.03.2024" || got.Steps[1].SubLabel != "04.03.2024" {
		t.Fatalf("unexpected sub labels: %q %q", got.Steps[0].SubLabel, got.Steps[1].SubLabel)
	}
	if got.Steps[2].Timestamp != nil {
		t.Fatalf("future step must not carry a timestamp")
	}
}

func TestWithHistory_ReeditKeepsEveryEntry(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	history := []HistoryEntry{
		{Status: StatusInProgress, Timestamp: base},
		{Status: StatusCompleted, Timestamp: base.Add(time.Hour)},
		{Status: StatusInProgress, Timestamp: base.Add(2 * time.Hour)},
	}
	got := testProjector().WithHistory(workflowGraph(), StatusInProgress, history)
	if got.Current != 2 {
		t.Fatalf("expected current 2, got %d", got.Current)
	}
	if len(got.Steps) != 3+6 {
		t.Fatalf("expected 9 steps, got %d: %v", len(got.Steps), statuses(got.Steps))
	}
}

func TestWithHistory_DeletedAppendsNothing(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	history := []HistoryEntry{
		{Status: StatusInProgress, Timestamp: base},
		{Status: StatusDeleted, Timestamp: base.Add(time.Minute)},
	}
	got := testProjector().WithHistory(workflowGraph(), StatusDeleted, history)
	if len(got.Steps) != 2 || got.Current != 1 {
		t.Fatalf("unexpected progress: %+v", got)
	}
}

func TestWithHistory_MissingTimestampKeepsGivenOrder(t *testing.T) {
	history := []HistoryEntry{
		{Status: StatusCompleted, Timestamp: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)},
		{Status: StatusInProgress},
	}
	got := testProjector().WithHistory(workflowGraph(), StatusInProgress, history)
	if got.Steps[0].Status != StatusCompleted || got.Steps[1].Status != StatusInProgress {
		t.Fatalf("expected given order, got %v", statuses(got.Steps))
	}
	if got.Steps[1].Timestamp != nil || got.Steps[1].SubLabel != "" {
		t.Fatalf("entry without timestamp must not carry a date")
	}
}

func TestWithHistory_EqualTimestampsKeepGivenOrder(t *testing.T) {
	base := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	history := []HistoryEntry{
		{Status: StatusSent, Timestamp: base.Add(time.Hour)},
		{Status: StatusCompleted, Timestamp: base},
		{Status: StatusApprovalsReceived, Timestamp: base},
	}
	want := []Status{StatusCompleted, StatusApprovalsReceived, StatusSent}

	if got := orderHistory(history); !equalStatuses(historyStatuses(got), want) {
		t.Fatalf("expected %v, got %v", want, historyStatuses(got))
	}
	got := testProjector().WithHistory(workflowGraph(), StatusSent, history)
	if !equalStatuses(statuses(got.Steps[:3]), want) {
		t.Fatalf("expected %v first, got %v", want, statuses(got.Steps))
	}
	if history[0].Status != StatusSent {
		t.Fatalf("input history must not be reordered")
	}
}

func historyStatuses(entries []HistoryEntry) []Status {
	out := make([]Status, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Status)
	}
	return out
}

func TestWithHistory_RejectedHasNoForwardPath(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	history := []HistoryEntry{
		{Status: StatusInProgress, Timestamp: base},
		{Status: StatusRejected, Timestamp: base.Add(time.Hour)},
	}
	got := testProjector().WithHistory(workflowGraph(), StatusRejected, history)
	if len(got.Steps) != 2 {
		t.Fatalf("expected only history steps, got %v", statuses(got.Steps))
	}
}
