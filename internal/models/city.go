package models

// City is a deduplicated geographic location. Rows are created lazily
// the first time a review references a new place and are never updated
// or deleted; orphaned cities are tolerated.
//
// LocationKey is the lowercased "name|country|state" triple. The unique
// index on it makes concurrent first-time submissions for the same
// place collapse to one row instead of racing lookup-then-insert.
type City struct {
	ID          uint    `gorm:"primaryKey"`
	Name        string  `gorm:"size:255;not null"`
	Country     string  `gorm:"size:255;not null"`
	State       *string `gorm:"size:255"`
	Latitude    float64 `gorm:"type:decimal(10,8);not null"`
	Longitude   float64 `gorm:"type:decimal(11,8);not null"`
	LocationKey string  `gorm:"size:255;uniqueIndex;not null"`

	Reviews []Review
}

// StateOrEmpty returns the state name, or "" when absent.
func (c *City) StateOrEmpty() string {
	if c.State == nil {
		return ""
	}
	return *c.State
}
