package models

import "time"

// ReviewAsset is a file attached to a review. A review exclusively
// owns its assets; deleting the review deletes them.
type ReviewAsset struct {
	ID        uint   `gorm:"primaryKey"`
	ReviewID  uint   `gorm:"index;not null"`
	FilePath  string `gorm:"size:500;not null"`
	FileName  string `gorm:"size:255"`
	FileType  string `gorm:"size:50"` // image, document, ...
	FileSize  int64
	CreatedAt time.Time
}
