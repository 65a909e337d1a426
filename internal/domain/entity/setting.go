package entity

import "time"

// Setting is a single persisted preference value of a scope (a chat, the HTTP API).
type Setting struct {
	Scope     string    `gorm:"primaryKey;size:64"`
	Key       string    `gorm:"primaryKey;size:64"`
	Value     string    `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// ClipboardImage is the last image copied within a scope, stored as PNG.
type ClipboardImage struct {
	Scope     string    `gorm:"primaryKey;size:64"`
	Data      []byte    `gorm:"type:bytea;not null"`
	UpdatedAt time.Time `gorm:"not null"`
}
