package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cardhaus/deck-checker/internal/models"
)

func boardCount(deck *models.ParsedDeck, board string) int {
	n := 0
	for _, card := range deck.Cards {
		if card.Board == board {
			n++
		}
	}
	return n
}

func TestMoxfieldParseURL(t *testing.T) {
	requests := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		if r.URL.Path != "/decks/all/AbC123" {
			t.Errorf("path = %q", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"name":   "Krenko Goblins",
			"format": "commander",
			"mainboard": map[string]interface{}{
				"Goblin Lackey":  map[string]int{"quantity": 4},
				"Mountain":       map[string]int{"quantity": 30},
			},
			"sideboard": map[string]interface{}{
				"Pyroblast": map[string]int{"quantity": 2},
			},
			"commanders": map[string]interface{}{
				"Krenko, Mob Boss": map[string]int{"quantity": 1},
			},
		})
	}))
	t.Cleanup(srv.Close)

	client := NewMoxfieldClient()
	client.baseURL = srv.URL

	deck, err := client.ParseURL(context.Background(), "https://moxfield.com/decks/AbC123")
	if err != nil {
		t.Fatalf("ParseURL failed: %v", err)
	}
	if deck.DeckName != "Krenko Goblins" || deck.Format != "commander" {
		t.Errorf("deck meta = %q/%q", deck.DeckName, deck.Format)
	}
	if len(deck.Cards) != 4 {
		t.Fatalf("got %d cards, want 4", len(deck.Cards))
	}
	if len(deck.Errors) != 0 {
		t.Errorf("URL decks never have parse errors, got %v", deck.Errors)
	}
	if boardCount(deck, models.BoardMain) != 2 || boardCount(deck, models.BoardSideboard) != 1 || boardCount(deck, models.BoardCommander) != 1 {
		t.Errorf("board split wrong: %+v", deck.Cards)
	}

	// Second import of the same deck is served from the LRU cache.
	if _, err := client.ParseURL(context.Background(), "https://moxfield.com/decks/AbC123"); err != nil {
		t.Fatalf("cached ParseURL failed: %v", err)
	}
	if requests != 1 {
		t.Errorf("requests = %d, want 1 (second served from cache)", requests)
	}
}

func TestMoxfieldParseURLErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	t.Cleanup(srv.Close)

	client := NewMoxfieldClient()
	client.baseURL = srv.URL

	_, err := client.ParseURL(context.Background(), "https://moxfield.com/profile/whoever")
	var invalid *InvalidURLError
	if !errors.As(err, &invalid) {
		t.Fatalf("expected InvalidURLError, got %v", err)
	}

	_, err = client.ParseURL(context.Background(), "https://moxfield.com/decks/GONE999")
	var notFound *DeckNotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected DeckNotFoundError, got %v", err)
	}
	if notFound.DeckID != "GONE999" {
		t.Errorf("deck id = %q", notFound.DeckID)
	}
}

func TestArchidektParseURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/decks/123456/" {
			t.Errorf("path = %q", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"name":   "Budget Burn",
			"format": 2,
			"cards": []map[string]interface{}{
				{
					"quantity":   4,
					"card":       map[string]interface{}{"oracleCard": map[string]string{"name": "Lightning Bolt"}},
					"categories": []string{},
				},
				{
					"quantity":   2,
					"card":       map[string]interface{}{"oracleCard": map[string]string{"name": "Smash to Smithereens"}},
					"categories": []string{"Sideboard"},
				},
				{
					"quantity":   1,
					"card":       map[string]interface{}{"oracleCard": map[string]string{"name": "Maybe Card"}},
					"categories": []string{"Maybeboard"},
				},
			},
		})
	}))
	t.Cleanup(srv.Close)

	client := NewArchidektClient()
	client.baseURL = srv.URL

	deck, err := client.ParseURL(context.Background(), "https://archidekt.com/decks/123456/budget-burn")
	if err != nil {
		t.Fatalf("ParseURL failed: %v", err)
	}
	if deck.DeckName != "Budget Burn" || deck.Format != "modern" {
		t.Errorf("deck meta = %q/%q", deck.DeckName, deck.Format)
	}
	if len(deck.Cards) != 3 {
		t.Fatalf("got %d cards, want 3", len(deck.Cards))
	}
	if deck.Cards[0].Board != models.BoardMain || deck.Cards[1].Board != models.BoardSideboard || deck.Cards[2].Board != models.BoardMaybe {
		t.Errorf("boards = %+v", deck.Cards)
	}
}

func TestArchidektParseURLErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)

	client := NewArchidektClient()
	client.baseURL = srv.URL

	_, err := client.ParseURL(context.Background(), "https://archidekt.com/folders/55")
	var invalid *InvalidURLError
	if !errors.As(err, &invalid) {
		t.Fatalf("expected InvalidURLError, got %v", err)
	}

	_, err = client.ParseURL(context.Background(), "https://archidekt.com/decks/424242")
	var upstream *UpstreamError
	if !errors.As(err, &upstream) {
		t.Fatalf("expected UpstreamError for a 500, got %v", err)
	}
}
