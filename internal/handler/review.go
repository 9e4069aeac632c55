package handler

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"bookmap/internal/geo"
	"bookmap/internal/models"
	"bookmap/internal/review"
	"bookmap/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ReviewHandler serves review submission, listing, and the admin
// mutation endpoints.
type ReviewHandler struct {
	DB       *gorm.DB
	Resolver *geo.Resolver
	Repo     *review.Repository
}

func NewReviewHandler(db *gorm.DB, resolver *geo.Resolver, repo *review.Repository) *ReviewHandler {
	return &ReviewHandler{DB: db, Resolver: resolver, Repo: repo}
}

// ---------- request/response shapes ----------

type reviewReq struct {
	BookID          uint   `json:"book_id" binding:"required"`
	CityName        string `json:"city_name" binding:"required"`
	Country         string `json:"country" binding:"required"`
	State           string `json:"state"`
	ReviewText      string `json:"review_text"`
	ReviewerName    string `json:"reviewer_name" binding:"max=255"`
	Company         string `json:"company" binding:"max=255"`
	Role            string `json:"role" binding:"max=255"`
	ReviewDate      string `json:"review_date"`
	OriginalPostURL string `json:"original_post_url"`
	SocialMediaURL  string `json:"social_media_url"`
	Source          string `json:"source" binding:"max=255"`

	// set from a prior /api/upload-screenshot response
	FilePath string `json:"file_path"`
	FileName string `json:"file_name"`
	FileSize int64  `json:"file_size"`
}

type assetResp struct {
	ID        uint      `json:"id"`
	FilePath  string    `json:"file_path"`
	FileName  string    `json:"file_name"`
	FileType  string    `json:"file_type"`
	FileSize  int64     `json:"file_size"`
	CreatedAt time.Time `json:"created_at"`
}

type reviewResp struct {
	ID              uint        `json:"id"`
	BookTitle       string      `json:"book_title"`
	BookShortName   string      `json:"book_short_name"`
	CityName        string      `json:"city_name"`
	State           string      `json:"state,omitempty"`
	Country         string      `json:"country"`
	ReviewText      string      `json:"review_text"`
	ReviewerName    string      `json:"reviewer_name"`
	Company         string      `json:"company"`
	Role            string      `json:"role"`
	ReviewDate      *string     `json:"review_date"`
	CreatedAt       time.Time   `json:"created_at"`
	OriginalPostURL string      `json:"original_post_url"`
	SocialMediaURL  string      `json:"social_media_url"`
	Source          string      `json:"source"`
	Assets          []assetResp `json:"assets"`
}

func toReviewResp(r *models.Review) reviewResp {
	var date *string
	if r.ReviewDate != nil {
		s := r.ReviewDate.Format("2006-01-02")
		date = &s
	}

	assets := make([]assetResp, 0, len(r.Assets))
	for _, a := range r.Assets {
		assets = append(assets, assetResp{
			ID:        a.ID,
			FilePath:  a.FilePath,
			FileName:  a.FileName,
			FileType:  a.FileType,
			FileSize:  a.FileSize,
			CreatedAt: a.CreatedAt,
		})
	}

	return reviewResp{
		ID:              r.ID,
		BookTitle:       r.Book.Title,
		BookShortName:   r.Book.ShortName,
		CityName:        r.City.Name,
		State:           r.City.StateOrEmpty(),
		Country:         r.City.Country,
		ReviewText:      r.ReviewText,
		ReviewerName:    r.ReviewerName,
		Company:         r.Company,
		Role:            r.Role,
		ReviewDate:      date,
		CreatedAt:       r.CreatedAt,
		OriginalPostURL: r.OriginalPostURL,
		SocialMediaURL:  r.SocialMediaURL,
		Source:          r.Source,
		Assets:          assets,
	}
}

// writeCoreError maps core errors onto the response envelope. Client
// errors carry enough detail to self-correct; anything unexpected is
// logged and reported generically.
func writeCoreError(c *gin.Context, err error) {
	var locErr *geo.LocationNotFoundError
	switch {
	case errors.As(err, &locErr):
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam,
			locErr.Error()+". Please check the spelling and try again, or verify this location exists.")
	case errors.Is(err, review.ErrBookNotFound):
		util.Error(c, http.StatusNotFound, util.CodeNotFound, "book not found")
	case errors.Is(err, review.ErrReviewNotFound):
		util.Error(c, http.StatusNotFound, util.CodeNotFound, "review not found")
	default:
		log.Printf("internal error: %v", err)
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "internal error")
	}
}

func (h *ReviewHandler) toInput(req reviewReq) review.Input {
	return review.Input{
		ReviewText:      req.ReviewText,
		ReviewerName:    req.ReviewerName,
		Company:         req.Company,
		Role:            req.Role,
		ReviewDate:      req.ReviewDate,
		OriginalPostURL: req.OriginalPostURL,
		SocialMediaURL:  req.SocialMediaURL,
		Source:          req.Source,
		ScreenshotPath:  req.FilePath,
	}
}

// ---------- book catalog ----------

// ListBooks returns the seeded book catalog for form dropdowns and the
// map legend.
func (h *ReviewHandler) ListBooks(c *gin.Context) {
	var books []models.Book
	if err := h.DB.Order("id").Find(&books).Error; err != nil {
		writeCoreError(c, err)
		return
	}

	items := make([]gin.H, 0, len(books))
	for _, b := range books {
		items = append(items, gin.H{
			"id":         b.ID,
			"title":      b.Title,
			"short_name": b.ShortName,
			"pin_color":  b.PinColor,
		})
	}
	util.Success(c, util.Response{
		"books": items,
	})
}

// ---------- submission ----------

func (h *ReviewHandler) Create(c *gin.Context) {
	var req reviewReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid request body")
		return
	}

	city, err := h.Resolver.Resolve(c.Request.Context(), req.CityName, req.Country, req.State)
	if err != nil {
		writeCoreError(c, err)
		return
	}

	created, err := h.Repo.Create(req.BookID, city.ID, h.toInput(req))
	if err != nil {
		writeCoreError(c, err)
		return
	}

	// asset attach is best-effort: the review is already committed
	if req.FilePath != "" {
		if err := h.Repo.AttachAsset(created.ID, review.AssetInput{
			FilePath: req.FilePath,
			FileName: req.FileName,
			FileType: "image",
			FileSize: req.FileSize,
		}); err != nil {
			log.Printf("attach asset: %v", err)
		}
	}

	full, err := h.Repo.Get(created.ID)
	if err != nil {
		writeCoreError(c, err)
		return
	}

	util.Success(c, util.Response{
		"review": toReviewResp(full),
	})
}

// ---------- filtered listing ----------

func (h *ReviewHandler) ListFiltered(c *gin.Context) {
	var f review.Filter

	if raw := c.Query("book_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil || id == 0 {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid book_id")
			return
		}
		bookID := uint(id)
		f.BookID = &bookID
	}
	f.City = c.Query("city")
	f.Country = c.Query("country")
	f.State = c.Query("state")
	f.Company = c.Query("company")

	reviews, active, err := h.Repo.Filter(f)
	if err != nil {
		writeCoreError(c, err)
		return
	}

	items := make([]reviewResp, 0, len(reviews))
	for i := range reviews {
		items = append(items, toReviewResp(&reviews[i]))
	}

	if active == nil {
		active = []string{}
	}

	util.Success(c, util.Response{
		"filters": gin.H{
			"book_id":        f.BookID,
			"city":           f.City,
			"country":        f.Country,
			"state":          f.State,
			"company":        f.Company,
			"active_filters": active,
		},
		"reviews":     items,
		"total_count": len(items),
	})
}

// ---------- admin mutations ----------

func (h *ReviewHandler) Update(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	var req reviewReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid request body")
		return
	}

	// location fields may have changed, so run the resolver again;
	// this can create a new city
	city, err := h.Resolver.Resolve(c.Request.Context(), req.CityName, req.Country, req.State)
	if err != nil {
		writeCoreError(c, err)
		return
	}

	if _, err := h.Repo.Update(id, req.BookID, city.ID, h.toInput(req)); err != nil {
		writeCoreError(c, err)
		return
	}

	full, err := h.Repo.Get(id)
	if err != nil {
		writeCoreError(c, err)
		return
	}

	util.Success(c, util.Response{
		"review": toReviewResp(full),
	})
}

func (h *ReviewHandler) Delete(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	if err := h.Repo.Delete(id); err != nil {
		writeCoreError(c, err)
		return
	}

	util.Success(c, util.Response{
		"message": "review deleted",
	})
}

func idParam(c *gin.Context) (uint, bool) {
	raw := c.Param("id")
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid id")
		return 0, false
	}
	return uint(id), true
}
