package persist

import "gazecap/internal/stimulus"

// Status tracks a group's persistence outcome. A group moves from pending to
// exactly one terminal status and never changes afterwards.
type Status string

const (
	StatusPending  Status = "pending"
	StatusPartial  Status = "partial"
	StatusComplete Status = "complete"
	StatusFailed   Status = "failed"
)

// Group collects every artifact captured for one stimulus point. The sequence
// number is nil until the storage collaborator assigns one; once set it is
// shared by all of the group's artifacts.
type Group struct {
	ID             string
	SequenceNumber *int64
	Point          stimulus.Point
	Status         Status
	Artifacts      []Kind
}

// Terminal reports whether the group's status is final.
func (g *Group) Terminal() bool {
	switch g.Status {
	case StatusPartial, StatusComplete, StatusFailed:
		return true
	}
	return false
}
