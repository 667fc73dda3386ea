package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/cardhaus/deck-checker/internal/metrics"
	"github.com/cardhaus/deck-checker/internal/models"
)

const moxfieldBaseURL = "https://api2.moxfield.com/v2"

var moxfieldURLPattern = regexp.MustCompile(`moxfield\.com/decks/([A-Za-z0-9_-]+)`)

// MoxfieldClient resolves Moxfield deck URLs via the public deck API.
// Responses are kept in a small LRU so re-imports of the same deck skip
// the network round trip.
type MoxfieldClient struct {
	client  *http.Client
	baseURL string
	cache   *lru.Cache[string, *models.ParsedDeck]
}

type moxfieldDeck struct {
	Name       string                   `json:"name"`
	Format     string                   `json:"format"`
	Mainboard  map[string]moxfieldEntry `json:"mainboard"`
	Sideboard  map[string]moxfieldEntry `json:"sideboard"`
	Commanders map[string]moxfieldEntry `json:"commanders"`
	Companions map[string]moxfieldEntry `json:"companions"`
}

type moxfieldEntry struct {
	Quantity int `json:"quantity"`
}

func NewMoxfieldClient() *MoxfieldClient {
	cache, _ := lru.New[string, *models.ParsedDeck](128)
	return &MoxfieldClient{
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		baseURL: moxfieldBaseURL,
		cache:   cache,
	}
}

// ParseURL extracts the deck id from a Moxfield URL and fetches the
// deck. URL-sourced decks never produce line-level parse errors.
func (m *MoxfieldClient) ParseURL(ctx context.Context, url string) (*models.ParsedDeck, error) {
	match := moxfieldURLPattern.FindStringSubmatch(url)
	if match == nil {
		return nil, &InvalidURLError{Provider: "moxfield", URL: url}
	}
	deckID := match[1]

	if deck, ok := m.cache.Get(deckID); ok {
		metrics.DeckProviderCacheHits.Inc()
		return deck, nil
	}

	req, err := http.NewRequestWithContext(ctx, "GET", fmt.Sprintf("%s/decks/all/%s", m.baseURL, deckID), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create moxfield request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := m.client.Do(req)
	if err != nil {
		return nil, &UpstreamError{API: "moxfield", Message: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, &DeckNotFoundError{Provider: "moxfield", DeckID: deckID}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &UpstreamError{API: "moxfield", StatusCode: resp.StatusCode, Message: "deck fetch failed"}
	}

	var md moxfieldDeck
	if err := json.NewDecoder(resp.Body).Decode(&md); err != nil {
		return nil, &UpstreamError{API: "moxfield", Message: fmt.Sprintf("failed to decode deck response: %v", err)}
	}

	deck := &models.ParsedDeck{
		Cards:    []models.ParsedCard{},
		Errors:   []models.ParseError{},
		DeckName: md.Name,
		Format:   md.Format,
	}
	appendBoard(deck, md.Commanders, models.BoardCommander)
	appendBoard(deck, md.Companions, models.BoardCompanion)
	appendBoard(deck, md.Mainboard, models.BoardMain)
	appendBoard(deck, md.Sideboard, models.BoardSideboard)

	m.cache.Add(deckID, deck)
	return deck, nil
}

func appendBoard(deck *models.ParsedDeck, entries map[string]moxfieldEntry, board string) {
	for name, entry := range entries {
		qty := entry.Quantity
		if qty <= 0 {
			qty = 1
		}
		deck.Cards = append(deck.Cards, models.ParsedCard{Name: name, Quantity: qty, Board: board})
	}
}
