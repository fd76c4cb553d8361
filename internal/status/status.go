package status

import "fmt"

type Status string

const (
	StatusInProgress        Status = "IN_PROGRESS"
	StatusCompleted         Status = "COMPLETED"
	StatusApprovalsReceived Status = "APPROVALS_RECEIVED"
	StatusApproved          Status = "APPROVED"
	StatusRejected          Status = "REJECTED"
	StatusSent              Status = "SENT"
	StatusSettled           Status = "SETTLED"
	StatusArchived          Status = "ARCHIVED"
	StatusDeleted           Status = "DELETED"
)

// All lists every status in workflow order.
var All = []Status{
	StatusInProgress,
	StatusCompleted,
	StatusApprovalsReceived,
	StatusApproved,
	StatusRejected,
	StatusSent,
	StatusSettled,
	StatusArchived,
	StatusDeleted,
}

func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusInProgress, StatusCompleted, StatusApprovalsReceived, StatusApproved, StatusRejected,
		StatusSent, StatusSettled, StatusArchived, StatusDeleted:
		return Status(s), nil
	default:
		return "", fmt.Errorf("unknown status: %s", s)
	}
}
