package handler

import (
	"log"

	"bookmap/internal/geo"
	"bookmap/internal/models"
	"bookmap/internal/review"
	"bookmap/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SuggestHandler serves autocomplete endpoints backed by the gazetteer
// and by locations already present in the database.
type SuggestHandler struct {
	DB        *gorm.DB
	Gazetteer *geo.Gazetteer
	Repo      *review.Repository
}

func NewSuggestHandler(db *gorm.DB, gazetteer *geo.Gazetteer, repo *review.Repository) *SuggestHandler {
	return &SuggestHandler{DB: db, Gazetteer: gazetteer, Repo: repo}
}

// CitySuggestions merges gazetteer matches with contributor-added
// cities from the database, deduplicated by (city, country).
func (h *SuggestHandler) CitySuggestions(c *gin.Context) {
	q := c.Query("q")
	if len(q) < 2 {
		util.Success(c, util.Response{"suggestions": []geo.CitySuggestion{}})
		return
	}

	suggestions := h.Gazetteer.SearchCities(q, 15)

	var dbCities []models.City
	if err := h.DB.Where("LOWER(name) LIKE LOWER(?)", "%"+q+"%").
		Limit(10).Find(&dbCities).Error; err != nil {
		log.Printf("city suggestions db query: %v", err)
	}

	seen := make(map[string]struct{}, len(suggestions))
	for _, s := range suggestions {
		seen[s.City+", "+s.Country] = struct{}{}
	}
	for _, city := range dbCities {
		key := city.Name + ", " + city.Country
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		suggestions = append(suggestions, geo.CitySuggestion{
			City:      city.Name,
			State:     city.StateOrEmpty(),
			Country:   city.Country,
			FullName:  key,
			Latitude:  city.Latitude,
			Longitude: city.Longitude,
		})
	}

	if len(suggestions) > 20 {
		suggestions = suggestions[:20]
	}

	util.Success(c, util.Response{"suggestions": suggestions})
}

func (h *SuggestHandler) CountrySuggestions(c *gin.Context) {
	q := c.Query("q")
	if len(q) < 2 {
		util.Success(c, util.Response{"suggestions": []string{}})
		return
	}
	suggestions := h.Gazetteer.SearchCountries(q, 20)
	if suggestions == nil {
		suggestions = []string{}
	}
	util.Success(c, util.Response{"suggestions": suggestions})
}

func (h *SuggestHandler) AllCountries(c *gin.Context) {
	util.Success(c, util.Response{"countries": h.Gazetteer.Countries()})
}

// ---------- reviewed-data autocomplete ----------

func (h *SuggestHandler) AutocompleteCities(c *gin.Context) {
	cities, err := h.Repo.ReviewedCities(c.Query("query"))
	if err != nil {
		writeCoreError(c, err)
		return
	}
	if cities == nil {
		cities = []review.CityOption{}
	}
	util.Success(c, util.Response{"cities": cities})
}

func (h *SuggestHandler) AutocompleteCountries(c *gin.Context) {
	countries, err := h.Repo.ReviewedCountries(c.Query("query"))
	if err != nil {
		writeCoreError(c, err)
		return
	}
	if countries == nil {
		countries = []string{}
	}
	util.Success(c, util.Response{"countries": countries})
}

func (h *SuggestHandler) AutocompleteCompanies(c *gin.Context) {
	companies, err := h.Repo.ReviewedCompanies(c.Query("query"))
	if err != nil {
		writeCoreError(c, err)
		return
	}
	if companies == nil {
		companies = []string{}
	}
	util.Success(c, util.Response{"companies": companies})
}
