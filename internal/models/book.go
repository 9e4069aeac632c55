package models

// Book is an immutable reference entity. Rows are seeded at startup
// when the table is empty and are never written through the API.
type Book struct {
	ID        uint   `gorm:"primaryKey"`
	Title     string `gorm:"size:255;not null"`
	ShortName string `gorm:"size:10;uniqueIndex;not null"`
	PinColor  string `gorm:"size:7;not null"` // hex, e.g. #FF0000

	Reviews []Review
}
