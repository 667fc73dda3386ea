package handlers

import (
	"net/http"
	"strconv"
	"unicode/utf8"

	"github.com/gin-gonic/gin"

	"github.com/cardhaus/deck-checker/internal/services"
)

const (
	defaultSearchLimit = 20
	maxSearchLimit     = 100
)

type SearchHandler struct {
	matcher *services.MatchService
}

func NewSearchHandler(matcher *services.MatchService) *SearchHandler {
	return &SearchHandler{matcher: matcher}
}

// Search handles GET /api/search?q=: card-name autocomplete over the
// in-stock catalog.
func (h *SearchHandler) Search(c *gin.Context) {
	query := c.Query("q")
	if utf8.RuneCountInString(query) < 2 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query must be at least 2 characters"})
		return
	}

	limit := defaultSearchLimit
	if limitStr := c.Query("limit"); limitStr != "" {
		if parsed, err := strconv.Atoi(limitStr); err == nil && parsed > 0 {
			limit = parsed
		}
	}
	if limit > maxSearchLimit {
		limit = maxSearchLimit
	}

	results, err := h.matcher.SearchCards(query, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"results": results})
}
