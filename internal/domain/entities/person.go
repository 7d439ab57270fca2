package entities

import "time"

// Person is a directory record used for display only. LeaderID and AssignedAt
// carry the externally supplied leader-disciple assignment.
type Person struct {
	ID          string
	DisplayName string
	Email       string
	LeaderID    string
	AssignedAt  time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Name falls back to the ID when no display name is known.
func (p *Person) Name() string {
	if p == nil {
		return ""
	}
	if p.DisplayName != "" {
		return p.DisplayName
	}
	return p.ID
}
