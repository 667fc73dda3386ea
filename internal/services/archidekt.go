package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/cardhaus/deck-checker/internal/metrics"
	"github.com/cardhaus/deck-checker/internal/models"
)

const archidektBaseURL = "https://archidekt.com/api"

var archidektURLPattern = regexp.MustCompile(`archidekt\.com/decks/(\d+)`)

// ArchidektClient resolves Archidekt deck URLs via the public deck API.
type ArchidektClient struct {
	client  *http.Client
	baseURL string
	cache   *lru.Cache[string, *models.ParsedDeck]
}

type archidektDeck struct {
	Name   string          `json:"name"`
	Format int             `json:"format"`
	Cards  []archidektCard `json:"cards"`
}

type archidektCard struct {
	Quantity int `json:"quantity"`
	Card     struct {
		OracleCard struct {
			Name string `json:"name"`
		} `json:"oracleCard"`
	} `json:"card"`
	Categories []string `json:"categories"`
}

func NewArchidektClient() *ArchidektClient {
	cache, _ := lru.New[string, *models.ParsedDeck](128)
	return &ArchidektClient{
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		baseURL: archidektBaseURL,
		cache:   cache,
	}
}

// ParseURL extracts the deck id from an Archidekt URL and fetches the
// deck, mapping category tags onto board labels.
func (a *ArchidektClient) ParseURL(ctx context.Context, url string) (*models.ParsedDeck, error) {
	match := archidektURLPattern.FindStringSubmatch(url)
	if match == nil {
		return nil, &InvalidURLError{Provider: "archidekt", URL: url}
	}
	deckID := match[1]

	if deck, ok := a.cache.Get(deckID); ok {
		metrics.DeckProviderCacheHits.Inc()
		return deck, nil
	}

	req, err := http.NewRequestWithContext(ctx, "GET", fmt.Sprintf("%s/decks/%s/", a.baseURL, deckID), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create archidekt request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, &UpstreamError{API: "archidekt", Message: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, &DeckNotFoundError{Provider: "archidekt", DeckID: deckID}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &UpstreamError{API: "archidekt", StatusCode: resp.StatusCode, Message: "deck fetch failed"}
	}

	var ad archidektDeck
	if err := json.NewDecoder(resp.Body).Decode(&ad); err != nil {
		return nil, &UpstreamError{API: "archidekt", Message: fmt.Sprintf("failed to decode deck response: %v", err)}
	}

	deck := &models.ParsedDeck{
		Cards:    []models.ParsedCard{},
		Errors:   []models.ParseError{},
		DeckName: ad.Name,
		Format:   archidektFormatName(ad.Format),
	}
	for _, entry := range ad.Cards {
		name := entry.Card.OracleCard.Name
		if name == "" {
			continue
		}
		qty := entry.Quantity
		if qty <= 0 {
			qty = 1
		}
		deck.Cards = append(deck.Cards, models.ParsedCard{
			Name:     name,
			Quantity: qty,
			Board:    archidektBoard(entry.Categories),
		})
	}

	a.cache.Add(deckID, deck)
	return deck, nil
}

// archidektBoard maps a card's category tags onto a board label. Cards
// without a recognized category belong to the mainboard.
func archidektBoard(categories []string) string {
	for _, cat := range categories {
		switch strings.ToLower(cat) {
		case "sideboard":
			return models.BoardSideboard
		case "commander":
			return models.BoardCommander
		case "companion":
			return models.BoardCompanion
		case "maybeboard":
			return models.BoardMaybe
		}
	}
	return models.BoardMain
}

func archidektFormatName(format int) string {
	// Archidekt reports the format as a numeric enum.
	switch format {
	case 1:
		return "standard"
	case 2:
		return "modern"
	case 3:
		return "commander"
	case 4:
		return "legacy"
	case 5:
		return "vintage"
	case 6:
		return "pauper"
	case 9:
		return "pioneer"
	default:
		return ""
	}
}
