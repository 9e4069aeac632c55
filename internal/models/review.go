package models

import "time"

// Review ties a book to the place it was reviewed from. All fields
// except ID and CreatedAt are replaceable by an admin update.
type Review struct {
	ID              uint       `gorm:"primaryKey"`
	BookID          uint       `gorm:"index;not null"`
	CityID          uint       `gorm:"index;not null"`
	ReviewText      string     `gorm:"type:text"`
	ReviewerName    string     `gorm:"size:255"`
	Company         string     `gorm:"size:255"`
	Role            string     `gorm:"size:255"`
	ReviewDate      *time.Time // date only; nil when absent or unparseable
	CreatedAt       time.Time
	OriginalPostURL string `gorm:"type:text"`
	SocialMediaURL  string `gorm:"type:text"`
	Source          string `gorm:"size:255"` // GoodReads, Amazon, LinkedIn, ...
	ScreenshotPath  string `gorm:"size:500"` // legacy single-file path

	Book   Book
	City   City
	Assets []ReviewAsset `gorm:"constraint:OnDelete:CASCADE"`
}
