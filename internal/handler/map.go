package handler

import (
	"bookmap/internal/review"
	"bookmap/internal/util"

	"github.com/gin-gonic/gin"
)

// MapHandler serves the per-(city, book) aggregation behind the map.
type MapHandler struct {
	Repo *review.Repository
}

func NewMapHandler(repo *review.Repository) *MapHandler {
	return &MapHandler{Repo: repo}
}

// MapData returns one entry per (city, book) pair with a review count,
// rendered as one colored pin with a count badge.
func (h *MapHandler) MapData(c *gin.Context) {
	pins, err := h.Repo.MapSummary()
	if err != nil {
		writeCoreError(c, err)
		return
	}
	if pins == nil {
		pins = []review.MapPin{}
	}
	util.Success(c, util.Response{
		"map_data": pins,
	})
}
