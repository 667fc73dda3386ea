package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/cardhaus/deck-checker/internal/models"
	"github.com/cardhaus/deck-checker/internal/services"
)

type DeckHandler struct {
	parser  *services.DeckParser
	matcher *services.MatchService
}

func NewDeckHandler(parser *services.DeckParser, matcher *services.MatchService) *DeckHandler {
	return &DeckHandler{parser: parser, matcher: matcher}
}

type deckInputRequest struct {
	Input string `json:"input"`
}

type deckCardsRequest struct {
	Cards []models.ParsedCard `json:"cards" binding:"required"`
}

type autoSelectRequest struct {
	Cards    []models.ParsedCard `json:"cards" binding:"required"`
	Strategy string              `json:"strategy"`
}

// respondDeckError maps domain errors onto status codes: caller-input
// problems are 400-class, everything else is a backend failure.
func respondDeckError(c *gin.Context, err error) {
	var invalidURL *services.InvalidURLError
	var notFound *services.DeckNotFoundError
	switch {
	case errors.As(err, &invalidURL):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.As(err, &notFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

// Parse handles POST /api/deck/parse: free text or a deck-builder URL
// in, a normalized card list out.
func (h *DeckHandler) Parse(c *gin.Context) {
	var req deckInputRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if strings.TrimSpace(req.Input) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "input is required"})
		return
	}

	deck, err := h.parser.ParseDeckInput(c.Request.Context(), req.Input)
	if err != nil {
		respondDeckError(c, err)
		return
	}

	c.JSON(http.StatusOK, deck)
}

// Match handles POST /api/deck/match: looks a card list up against the
// in-stock catalog. Each result carries the requested quantity.
func (h *DeckHandler) Match(c *gin.Context) {
	var req deckCardsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	results, err := h.matchCards(req.Cards)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"results": results})
}

// Import handles POST /api/deck/import: parse and match in one call.
func (h *DeckHandler) Import(c *gin.Context) {
	var req deckInputRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if strings.TrimSpace(req.Input) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "input is required"})
		return
	}

	deck, err := h.parser.ParseDeckInput(c.Request.Context(), req.Input)
	if err != nil {
		respondDeckError(c, err)
		return
	}

	results, err := h.matchCards(deck.Cards)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"deckName":    deck.DeckName,
		"format":      deck.Format,
		"results":     results,
		"parseErrors": deck.Errors,
	})
}

// AutoSelect handles POST /api/deck/auto-select: match plus one of the
// two selection strategies.
func (h *DeckHandler) AutoSelect(c *gin.Context) {
	var req autoSelectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	names := cardNames(req.Cards)
	var results []models.MatchResult
	var err error
	switch req.Strategy {
	case services.StrategyCheapest, "":
		req.Strategy = services.StrategyCheapest
		results, err = h.matcher.CheapestForEach(names)
	case services.StrategyBestCondition:
		results, err = h.matcher.BestConditionForEach(names)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "strategy must be 'cheapest' or 'best-condition'"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	attachQuantities(results, req.Cards)
	c.JSON(http.StatusOK, gin.H{"results": results, "strategy": req.Strategy})
}

func (h *DeckHandler) matchCards(cards []models.ParsedCard) ([]models.MatchResult, error) {
	results, err := h.matcher.MatchDeckList(cardNames(cards))
	if err != nil {
		return nil, err
	}
	attachQuantities(results, cards)
	return results, nil
}

func cardNames(cards []models.ParsedCard) []string {
	names := make([]string, len(cards))
	for i, card := range cards {
		names[i] = card.Name
	}
	return names
}

// attachQuantities copies requested quantities onto the results, which
// are index-aligned with the request.
func attachQuantities(results []models.MatchResult, cards []models.ParsedCard) {
	for i := range results {
		if i < len(cards) {
			results[i].Quantity = cards[i].Quantity
		}
	}
}
