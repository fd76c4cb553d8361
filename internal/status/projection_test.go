package status

import (
	"reflect"
	"testing"
)

func workflowGraph() Graph {
	return Graph{
		StatusInProgress:        {StatusCompleted, StatusDeleted},
		StatusCompleted:         {StatusApprovalsReceived, StatusInProgress, StatusDeleted},
		StatusApprovalsReceived: {StatusApproved, StatusRejected, StatusInProgress, StatusDeleted},
		StatusApproved:          {StatusSent, StatusInProgress, StatusDeleted},
		StatusRejected:          {StatusInProgress, StatusDeleted},
		StatusSent:              {StatusSettled, StatusDeleted},
		StatusSettled:           {StatusArchived},
		StatusArchived:          {},
		StatusDeleted:           {},
	}
}

func TestProjectLinearSequence_ExcludesDeletedAndReentry(t *testing.T) {
	g := Graph{
		StatusInProgress:        {StatusCompleted, StatusDeleted},
		StatusCompleted:         {StatusApprovalsReceived, StatusInProgress, StatusDeleted},
		StatusApprovalsReceived: {StatusApproved, StatusDeleted},
		StatusApproved:          {},
	}
	got := ProjectLinearSequence(g, StatusInProgress)
	want := []Status{StatusInProgress, StatusCompleted, StatusApprovalsReceived, StatusApproved}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestProjectLinearSequence_Workflow(t *testing.T) {
	got := ProjectLinearSequence(workflowGraph(), StatusInProgress)
	want := []Status{
		StatusInProgress, StatusCompleted, StatusApprovalsReceived, StatusApproved,
		StatusSent, StatusSettled, StatusArchived,
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestProjectLinearSequence_PrefersLongerTailOverDeclaredOrder(t *testing.T) {
	g := Graph{
		StatusInProgress: {StatusRejected, StatusCompleted},
		StatusCompleted:  {StatusApproved},
	}
	got := ProjectLinearSequence(g, StatusInProgress)
	want := []Status{StatusInProgress, StatusCompleted, StatusApproved}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestProjectLinearSequence_TieBreakIsFirstDeclared(t *testing.T) {
	g := Graph{
		StatusInProgress: {StatusSent, StatusSettled},
	}
	for i := 0; i < 20; i++ {
		got := ProjectLinearSequence(g, StatusInProgress)
		want := []Status{StatusInProgress, StatusSent}
		if !reflect.DeepEqual(got, want) {
			t.Fatalf("run %d: expected %v, got %v", i, want, got)
		}
	}
}

func TestProjectLinearSequence_CycleTerminates(t *testing.T) {
	g := Graph{
		StatusCompleted: {StatusApproved},
		StatusApproved:  {StatusCompleted, StatusSent},
		StatusSent:      {StatusCompleted},
	}
	got := ProjectLinearSequence(g, StatusCompleted)
	want := []Status{StatusCompleted, StatusApproved, StatusSent}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestProjectLinearSequence_UnknownStartIsSingleton(t *testing.T) {
	got := ProjectLinearSequence(Graph{}, StatusSent)
	if !reflect.DeepEqual(got, []Status{StatusSent}) {
		t.Fatalf("expected singleton, got %v", got)
	}
}

func TestProjectLinearSequence_NeverRepeats(t *testing.T) {
	complete := Graph{}
	for _, from := range All {
		complete[from] = append([]Status(nil), All...)
	}

	for _, g := range []Graph{workflowGraph(), complete} {
		for _, start := range All {
			seq := ProjectLinearSequence(g, start)
			seen := map[Status]bool{}
			for _, s := range seq {
				if seen[s] {
					t.Fatalf("start %s: status %s repeated in %v", start, s, seq)
				}
				seen[s] = true
			}
		}
	}

	// Every status except DELETED and IN_PROGRESS is reachable from SENT.
	if got := ProjectLinearSequence(complete, StatusSent); len(got) != 7 {
		t.Fatalf("expected 7 steps on complete graph, got %d: %v", len(got), got)
	}
}
