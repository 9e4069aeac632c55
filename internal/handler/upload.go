package handler

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"bookmap/internal/models"
	"bookmap/internal/ocr"
	"bookmap/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UploadHandler stores review screenshots and extracts form pre-fill
// hints from them. OCR is best-effort: an unreadable image still
// stores fine and returns empty hints.
type UploadHandler struct {
	DB        *gorm.DB
	UploadDir string
	Extractor ocr.Extractor
}

func NewUploadHandler(db *gorm.DB, uploadDir string, extractor ocr.Extractor) *UploadHandler {
	return &UploadHandler{DB: db, UploadDir: uploadDir, Extractor: extractor}
}

var allowedImageExt = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".webp": true,
}

func (h *UploadHandler) UploadScreenshot(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "file is required")
		return
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if ext == "" {
		ext = ".jpg"
	}
	if !allowedImageExt[ext] {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam,
			"unsupported file type, upload an image")
		return
	}
	storedPath := filepath.Join(h.UploadDir, uuid.NewString()+ext)

	if err := c.SaveUploadedFile(file, storedPath); err != nil {
		writeCoreError(c, err)
		return
	}

	fileSize := file.Size
	if info, err := os.Stat(storedPath); err == nil {
		fileSize = info.Size()
	}

	text := h.Extractor.ExtractText(storedPath)

	var books []models.Book
	if err := h.DB.Find(&books).Error; err != nil {
		writeCoreError(c, err)
		return
	}
	matchers := make([]ocr.BookMatcher, 0, len(books))
	for _, b := range books {
		matchers = append(matchers, ocr.BookMatcher{Title: b.Title, ShortName: b.ShortName})
	}

	detected := ocr.DetectBooks(text, matchers)
	var primary string
	if len(detected) == 1 {
		primary = detected[0]
	}

	reviewText := text
	if len(reviewText) > 500 {
		reviewText = reviewText[:500]
	}

	util.Success(c, util.Response{
		"file_path": storedPath,
		"extracted_info": gin.H{
			"raw_text":       text,
			"book_detected":  primary,
			"books_detected": detected,
			"review_text":    reviewText,
			"source":         ocr.DetectSource(text),
			"file_info": gin.H{
				"file_path": storedPath,
				"file_name": file.Filename,
				"file_size": fileSize,
				"file_type": "image",
			},
		},
	})
}
