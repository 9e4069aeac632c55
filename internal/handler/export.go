package handler

import (
	"encoding/csv"
	"fmt"
	"log"
	"time"

	"bookmap/internal/models"
	"bookmap/internal/review"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
)

// ExportHandler dumps review data for offline use; admin-gated.
type ExportHandler struct {
	Repo *review.Repository
}

func NewExportHandler(repo *review.Repository) *ExportHandler {
	return &ExportHandler{Repo: repo}
}

var exportHeader = []string{
	"ID", "Book", "City", "State", "Country", "Reviewer", "Company",
	"Role", "Review Date", "Source", "Review Text", "Created At",
}

func exportRow(r *models.Review) []string {
	date := ""
	if r.ReviewDate != nil {
		date = r.ReviewDate.Format("2006-01-02")
	}
	return []string{
		fmt.Sprintf("%d", r.ID),
		r.Book.Title,
		r.City.Name,
		r.City.StateOrEmpty(),
		r.City.Country,
		r.ReviewerName,
		r.Company,
		r.Role,
		date,
		r.Source,
		r.ReviewText,
		r.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}

// ExportCSV writes all reviews as CSV.
func (h *ExportHandler) ExportCSV(c *gin.Context) {
	reviews, _, err := h.Repo.Filter(review.Filter{})
	if err != nil {
		writeCoreError(c, err)
		return
	}

	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"reviews_%s.csv\"",
		time.Now().Format("20060102")))

	// UTF-8 BOM so spreadsheet apps detect the encoding
	c.Writer.Write([]byte{0xEF, 0xBB, 0xBF})

	writer := csv.NewWriter(c.Writer)
	defer writer.Flush()

	writer.Write(exportHeader)
	for i := range reviews {
		writer.Write(exportRow(&reviews[i]))
	}
}

// ExportXLSX writes all reviews as an Excel workbook.
func (h *ExportHandler) ExportXLSX(c *gin.Context) {
	reviews, _, err := h.Repo.Filter(review.Filter{})
	if err != nil {
		writeCoreError(c, err)
		return
	}

	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			log.Printf("close xlsx: %v", err)
		}
	}()

	const sheet = "Reviews"
	f.SetSheetName("Sheet1", sheet)

	header := make([]interface{}, len(exportHeader))
	for i, h := range exportHeader {
		header[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		writeCoreError(c, err)
		return
	}

	for i := range reviews {
		cells := exportRow(&reviews[i])
		row := make([]interface{}, len(cells))
		for j, v := range cells {
			row[j] = v
		}
		cell := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			writeCoreError(c, err)
			return
		}
	}

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"reviews_%s.xlsx\"",
		time.Now().Format("20060102")))

	if err := f.Write(c.Writer); err != nil {
		log.Printf("write xlsx: %v", err)
	}
}
