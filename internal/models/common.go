package models

import "time"

// AuditFields contains the timestamp columns shared by the principal tables.
type AuditFields struct {
	CreatedAt     time.Time `db:"created_at"`
	LastUpdatedAt time.Time `db:"last_updated_at"`
}
