package review

import (
	"errors"
	"fmt"
	"time"

	"bookmap/internal/models"

	"gorm.io/gorm"
)

var (
	// ErrBookNotFound rejects a review referencing a missing book.
	ErrBookNotFound = errors.New("book not found")
	// ErrReviewNotFound rejects an update or delete of a missing review.
	ErrReviewNotFound = errors.New("review not found")
)

// Input carries the mutable review fields of a submission or edit.
// ReviewDate is free-form text parsed leniently; an unparseable value
// is stored as absent, never rejected.
type Input struct {
	ReviewText      string
	ReviewerName    string
	Company         string
	Role            string
	ReviewDate      string
	OriginalPostURL string
	SocialMediaURL  string
	Source          string
	ScreenshotPath  string
}

// AssetInput describes a stored upload to attach to a review.
type AssetInput struct {
	FilePath string
	FileName string
	FileType string
	FileSize int64
}

// Repository owns review persistence and query composition. The city
// must already be resolved by the caller.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// reviewDateLayouts is tried in order; the first parse wins.
var reviewDateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"January 2, 2006",
	"Jan 2, 2006",
	"2 January 2006",
	"2 Jan 2006",
	"01/02/2006",
	"2006/01/02",
	"January 2006",
}

// parseReviewDate leniently parses a user-supplied date. nil on failure.
func parseReviewDate(raw string) *time.Time {
	if raw == "" {
		return nil
	}
	for _, layout := range reviewDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t
		}
	}
	return nil
}

// Create persists a new review for an already-resolved city.
func (r *Repository) Create(bookID, cityID uint, in Input) (*models.Review, error) {
	var book models.Book
	if err := r.db.First(&book, bookID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookNotFound
		}
		return nil, fmt.Errorf("lookup book: %w", err)
	}

	review := models.Review{
		BookID:          bookID,
		CityID:          cityID,
		ReviewText:      in.ReviewText,
		ReviewerName:    in.ReviewerName,
		Company:         in.Company,
		Role:            in.Role,
		ReviewDate:      parseReviewDate(in.ReviewDate),
		OriginalPostURL: in.OriginalPostURL,
		SocialMediaURL:  in.SocialMediaURL,
		Source:          in.Source,
		ScreenshotPath:  in.ScreenshotPath,
	}
	if err := r.db.Create(&review).Error; err != nil {
		return nil, fmt.Errorf("create review: %w", err)
	}

	return &review, nil
}

// AttachAsset records an uploaded file against an existing review.
// This is a secondary, non-transactional step: the caller logs a
// failure and moves on; the review itself is already committed.
func (r *Repository) AttachAsset(reviewID uint, in AssetInput) error {
	asset := models.ReviewAsset{
		ReviewID: reviewID,
		FilePath: in.FilePath,
		FileName: in.FileName,
		FileType: in.FileType,
		FileSize: in.FileSize,
	}
	if err := r.db.Create(&asset).Error; err != nil {
		return fmt.Errorf("attach asset to review %d: %w", reviewID, err)
	}
	return nil
}

// Get loads one review with its book, city, and assets.
func (r *Repository) Get(id uint) (*models.Review, error) {
	var review models.Review
	err := r.db.Preload("Book").Preload("City").Preload("Assets").
		First(&review, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, fmt.Errorf("lookup review: %w", err)
	}
	return &review, nil
}

// Update replaces all mutable fields of a review. The caller
// re-resolves the city when the location changed and passes the
// resulting id; created_at is never touched.
func (r *Repository) Update(id, bookID, cityID uint, in Input) (*models.Review, error) {
	var review models.Review
	if err := r.db.First(&review, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, fmt.Errorf("lookup review: %w", err)
	}

	var book models.Book
	if err := r.db.First(&book, bookID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookNotFound
		}
		return nil, fmt.Errorf("lookup book: %w", err)
	}

	review.BookID = bookID
	review.CityID = cityID
	review.ReviewText = in.ReviewText
	review.ReviewerName = in.ReviewerName
	review.Company = in.Company
	review.Role = in.Role
	review.ReviewDate = parseReviewDate(in.ReviewDate)
	review.OriginalPostURL = in.OriginalPostURL
	review.SocialMediaURL = in.SocialMediaURL
	review.Source = in.Source
	review.ScreenshotPath = in.ScreenshotPath

	if err := r.db.Save(&review).Error; err != nil {
		return nil, fmt.Errorf("save review: %w", err)
	}
	return &review, nil
}

// Delete removes a review and all assets it owns.
func (r *Repository) Delete(id uint) error {
	var review models.Review
	if err := r.db.First(&review, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrReviewNotFound
		}
		return fmt.Errorf("lookup review: %w", err)
	}

	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.ReviewAsset{}, "review_id = ?", id).Error; err != nil {
			return fmt.Errorf("delete assets: %w", err)
		}
		if err := tx.Delete(&models.Review{}, id).Error; err != nil {
			return fmt.Errorf("delete review: %w", err)
		}
		return nil
	})
}

// Filter lists reviews matching the criteria, joined with their book,
// city, and assets, plus the human-readable active-filter list.
func (r *Repository) Filter(f Filter) ([]models.Review, []string, error) {
	q := r.db.Model(&models.Review{}).
		Joins("JOIN books ON books.id = reviews.book_id").
		Joins("JOIN cities ON cities.id = reviews.city_id")
	q = f.apply(q)

	var reviews []models.Review
	err := q.Preload("Book").Preload("City").Preload("Assets").
		Order("reviews.created_at DESC, reviews.id DESC").
		Find(&reviews).Error
	if err != nil {
		return nil, nil, fmt.Errorf("filter reviews: %w", err)
	}

	return reviews, f.Descriptions(r.db), nil
}

// MapPin is one map marker: a (city, book) pair with a review count.
type MapPin struct {
	CityName      string  `json:"city_name"`
	State         *string `json:"state,omitempty"`
	Country       string  `json:"country"`
	Latitude      float64 `json:"latitude"`
	Longitude     float64 `json:"longitude"`
	BookShortName string  `json:"book_short_name"`
	BookTitle     string  `json:"book_title"`
	PinColor      string  `json:"pin_color"`
	ReviewCount   int64   `json:"review_count"`
}

// MapSummary aggregates one row per (city, book) pair that has at
// least one review. The map renders one pin per row with a count badge.
func (r *Repository) MapSummary() ([]MapPin, error) {
	var pins []MapPin
	err := r.db.Model(&models.Review{}).
		Select("cities.name AS city_name, cities.state AS state, cities.country AS country, " +
			"cities.latitude AS latitude, cities.longitude AS longitude, " +
			"books.short_name AS book_short_name, books.title AS book_title, books.pin_color AS pin_color, " +
			"COUNT(reviews.id) AS review_count").
		Joins("JOIN cities ON cities.id = reviews.city_id").
		Joins("JOIN books ON books.id = reviews.book_id").
		Group("cities.id, books.id").
		Scan(&pins).Error
	if err != nil {
		return nil, fmt.Errorf("map summary: %w", err)
	}
	return pins, nil
}

// CityOption is one reviewed-city autocomplete candidate.
type CityOption struct {
	Name    string `json:"name"`
	Country string `json:"country"`
	Label   string `json:"label"`
}

// ReviewedCities lists distinct cities that have reviews, optionally
// narrowed by a name substring.
func (r *Repository) ReviewedCities(query string) ([]CityOption, error) {
	q := r.db.Model(&models.City{}).
		Distinct("cities.name", "cities.country").
		Joins("JOIN reviews ON reviews.city_id = cities.id").
		Order("cities.name")
	if query != "" {
		q = q.Where("LOWER(cities.name) LIKE LOWER(?)", "%"+query+"%")
	}

	var rows []struct {
		Name    string
		Country string
	}
	if err := q.Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("reviewed cities: %w", err)
	}

	out := make([]CityOption, 0, len(rows))
	for _, row := range rows {
		out = append(out, CityOption{
			Name:    row.Name,
			Country: row.Country,
			Label:   row.Name + ", " + row.Country,
		})
	}
	return out, nil
}

// ReviewedCountries lists distinct countries that have reviews.
func (r *Repository) ReviewedCountries(query string) ([]string, error) {
	q := r.db.Model(&models.City{}).
		Distinct("cities.country").
		Joins("JOIN reviews ON reviews.city_id = cities.id").
		Order("cities.country")
	if query != "" {
		q = q.Where("LOWER(cities.country) LIKE LOWER(?)", "%"+query+"%")
	}

	var out []string
	if err := q.Pluck("cities.country", &out).Error; err != nil {
		return nil, fmt.Errorf("reviewed countries: %w", err)
	}
	return out, nil
}

// ReviewedCompanies lists distinct companies across reviews.
func (r *Repository) ReviewedCompanies(query string) ([]string, error) {
	q := r.db.Model(&models.Review{}).
		Distinct("company").
		Where("company <> ''").
		Order("company")
	if query != "" {
		q = q.Where("LOWER(company) LIKE LOWER(?)", "%"+query+"%")
	}

	var out []string
	if err := q.Pluck("company", &out).Error; err != nil {
		return nil, fmt.Errorf("reviewed companies: %w", err)
	}
	return out, nil
}
