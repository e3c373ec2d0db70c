package models

import "time"

// Profile is an organizer account as seen by the retention scheduler.
// WarningSentAt and RetentionExtendedAt drive the warn/delete state machine.
type Profile struct {
	ID                  string     `db:"id" json:"id"`
	Email               string     `db:"email" json:"email"`
	DisplayName         string     `db:"display_name" json:"display_name"`
	CreatedAt           time.Time  `db:"created_at" json:"created_at"`
	LastActivityAt      time.Time  `db:"last_activity_at" json:"last_activity_at"`
	WarningSentAt       *time.Time `db:"warning_sent_at" json:"warning_sent_at,omitempty"`
	RetentionExtendedAt *time.Time `db:"retention_extended_at" json:"retention_extended_at,omitempty"`
}

// RetentionBaseline is the timestamp the inactivity window is measured from:
// the later of last activity and the most recent extension.
func (p *Profile) RetentionBaseline() time.Time {
	baseline := p.LastActivityAt
	if baseline.IsZero() {
		baseline = p.CreatedAt
	}
	if p.RetentionExtendedAt != nil && p.RetentionExtendedAt.After(baseline) {
		baseline = *p.RetentionExtendedAt
	}
	return baseline
}
