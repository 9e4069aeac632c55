package router

import (
	"net/http"

	"bookmap/internal/auth"
	"bookmap/internal/config"
	"bookmap/internal/geo"
	"bookmap/internal/handler"
	"bookmap/internal/middleware"
	"bookmap/internal/ocr"
	"bookmap/internal/review"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SetupRouter configures Gin engine, templates and static resources.
func SetupRouter(cfg *config.Config, db *gorm.DB, gazetteer *geo.Gazetteer, resolver *geo.Resolver, sessions *auth.SessionManager, extractor ocr.Extractor) *gin.Engine {
	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	// static files and templates
	r.Static("/static", "./web/static")
	r.Static("/uploads", cfg.Uploads.Dir)
	r.LoadHTMLGlob("web/templates/*")

	// Home -> world map
	r.GET("/", func(c *gin.Context) {
		c.HTML(http.StatusOK, "index.html", gin.H{
			"title": "Book Review Map",
		})
	})

	// Screenshot upload page
	r.GET("/upload", func(c *gin.Context) {
		c.HTML(http.StatusOK, "upload.html", gin.H{
			"title": "Book Review Map - Add Review",
		})
	})

	// Review browser page
	r.GET("/reviews", func(c *gin.Context) {
		c.HTML(http.StatusOK, "reviews.html", gin.H{
			"title": "Book Review Map - Reviews",
		})
	})

	// Admin login page
	r.GET("/admin", func(c *gin.Context) {
		c.HTML(http.StatusOK, "admin.html", gin.H{
			"title": "Book Review Map - Admin",
		})
	})

	// ====== API ======
	api := r.Group("/api")

	repo := review.NewRepository(db)

	reviewHandler := handler.NewReviewHandler(db, resolver, repo)
	api.GET("/books", reviewHandler.ListBooks)
	api.POST("/reviews", reviewHandler.Create)
	api.GET("/reviews/filtered", reviewHandler.ListFiltered)

	mapHandler := handler.NewMapHandler(repo)
	api.GET("/map-data", mapHandler.MapData)

	suggestHandler := handler.NewSuggestHandler(db, gazetteer, repo)
	api.GET("/cities/suggestions", suggestHandler.CitySuggestions)
	api.GET("/countries/suggestions", suggestHandler.CountrySuggestions)
	api.GET("/countries", suggestHandler.AllCountries)
	api.GET("/autocomplete/cities", suggestHandler.AutocompleteCities)
	api.GET("/autocomplete/countries", suggestHandler.AutocompleteCountries)
	api.GET("/autocomplete/companies", suggestHandler.AutocompleteCompanies)

	uploadHandler := handler.NewUploadHandler(db, cfg.Uploads.Dir, extractor)
	api.POST("/upload-screenshot", uploadHandler.UploadScreenshot)

	adminHandler := handler.NewAdminHandler(sessions, cfg.Admin.CookieName)
	api.POST("/admin/login", adminHandler.Login)
	api.POST("/admin/logout", adminHandler.Logout)

	// mutations and exports require an admin session
	protected := api.Group("")
	protected.Use(middleware.RequireAdmin(sessions, cfg.Admin.CookieName))

	protected.PUT("/reviews/:id", reviewHandler.Update)
	protected.DELETE("/reviews/:id", reviewHandler.Delete)
	protected.POST("/admin/sessions/cleanup", adminHandler.CleanupSessions)

	exportHandler := handler.NewExportHandler(repo)
	protected.GET("/admin/export/csv", exportHandler.ExportCSV)
	protected.GET("/admin/export/xlsx", exportHandler.ExportXLSX)

	return r
}
