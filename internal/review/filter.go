package review

import (
	"bookmap/internal/models"

	"gorm.io/gorm"
)

// Filter holds the optional listing criteria. Set fields are
// AND-combined: city/country/state match case-insensitively exact,
// company is a case-insensitive substring match.
type Filter struct {
	BookID  *uint
	City    string
	Country string
	State   string
	Company string
}

// apply folds the set criteria into a reviews query that already
// joins books and cities.
func (f Filter) apply(q *gorm.DB) *gorm.DB {
	if f.BookID != nil {
		q = q.Where("reviews.book_id = ?", *f.BookID)
	}
	if f.City != "" {
		q = q.Where("LOWER(cities.name) = LOWER(?)", f.City)
	}
	if f.Country != "" {
		q = q.Where("LOWER(cities.country) = LOWER(?)", f.Country)
	}
	if f.State != "" {
		q = q.Where("LOWER(cities.state) = LOWER(?)", f.State)
	}
	if f.Company != "" {
		q = q.Where("LOWER(reviews.company) LIKE LOWER(?)", "%"+f.Company+"%")
	}
	return q
}

// Descriptions renders the active filters for UI display, in the
// order they are checked: book, then location, then company.
func (f Filter) Descriptions(db *gorm.DB) []string {
	var out []string

	if f.BookID != nil {
		var book models.Book
		if err := db.First(&book, *f.BookID).Error; err == nil {
			out = append(out, "Book: "+book.Title)
		}
	}

	switch {
	case f.City != "" && f.Country != "":
		loc := f.City
		if f.State != "" {
			loc += ", " + f.State
		}
		loc += ", " + f.Country
		out = append(out, "Location: "+loc)
	case f.City != "":
		out = append(out, "City: "+f.City)
	case f.Country != "":
		out = append(out, "Country: "+f.Country)
	case f.State != "":
		out = append(out, "State: "+f.State)
	}

	if f.Company != "" {
		out = append(out, "Company: "+f.Company)
	}

	return out
}
