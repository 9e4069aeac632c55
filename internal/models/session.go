package models

import "time"

// AdminSession is an authentication grant. The ID doubles as the
// opaque bearer token handed to the client. Expired rows are lazily
// treated as invalid; an explicit cleanup deletes them.
type AdminSession struct {
	ID           string    `gorm:"primaryKey;size:64"`
	ExpiresAt    time.Time `gorm:"index;not null"`
	CreatedAt    time.Time
	LastAccessed time.Time
	IPAddress    string `gorm:"size:64"` // audit only, not enforced
}
