package services

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	"github.com/cardhaus/deck-checker/internal/metrics"
	"github.com/cardhaus/deck-checker/internal/models"
)

var (
	// quantityLine matches "4 Sol Ring" and "4x Sol Ring".
	quantityLine = regexp.MustCompile(`^(\d+)\s*[xX]?\s+(.+)$`)

	// sectionHeader matches bare section keywords, optionally with a
	// trailing colon: "Deck", "Sideboard:", "COMMANDER".
	sectionHeader = regexp.MustCompile(`(?i)^(deck|sideboard|commander|companion|maybeboard|about)\s*:?$`)

	// arenaAnnotation matches the trailing set-code / collector-number
	// tail of an Arena export line: " (C21) 263".
	arenaAnnotation = regexp.MustCompile(`\s*\(([A-Za-z0-9]{2,6})\)(\s+[\w★†-]+)?$`)

	// foilMarker matches Arena foil/etched markers like "*F*".
	foilMarker = regexp.MustCompile(`\s*\*[A-Za-z]\*$`)

	pureDigits = regexp.MustCompile(`^\d+$`)
)

// deckProvider pairs a URL matcher with its handler. Adding a provider
// means appending to the registry, not editing a dispatcher.
type deckProvider struct {
	name   string
	match  func(input string) bool
	handle func(ctx context.Context, input string) (*models.ParsedDeck, error)
}

// DeckParser turns free text or a deck-builder URL into a normalized
// card list.
type DeckParser struct {
	providers []deckProvider
}

func NewDeckParser(moxfield *MoxfieldClient, archidekt *ArchidektClient) *DeckParser {
	return &DeckParser{
		providers: []deckProvider{
			{
				name:   "moxfield",
				match:  func(input string) bool { return strings.Contains(input, "moxfield.com") },
				handle: moxfield.ParseURL,
			},
			{
				name:   "archidekt",
				match:  func(input string) bool { return strings.Contains(input, "archidekt.com") },
				handle: archidekt.ParseURL,
			},
		},
	}
}

// ParseDeckInput dispatches to the first provider whose matcher accepts
// the input, falling back to free-text parsing.
func (p *DeckParser) ParseDeckInput(ctx context.Context, input string) (*models.ParsedDeck, error) {
	trimmed := strings.TrimSpace(input)
	for _, provider := range p.providers {
		if provider.match(trimmed) {
			metrics.DeckParsesTotal.WithLabelValues(provider.name).Inc()
			return provider.handle(ctx, trimmed)
		}
	}
	metrics.DeckParsesTotal.WithLabelValues("text").Inc()
	return p.ParseText(input), nil
}

// ParseText parses a deck list line by line. Malformed lines become
// error entries; parsing never aborts.
func (p *DeckParser) ParseText(text string) *models.ParsedDeck {
	deck := &models.ParsedDeck{
		Cards:  []models.ParsedCard{},
		Errors: []models.ParseError{},
	}
	board := models.BoardMain

	for i, raw := range strings.Split(text, "\n") {
		lineNo := i + 1
		line := strings.TrimSpace(raw)

		if line == "" || strings.HasPrefix(line, "//") || strings.HasPrefix(line, "#") {
			continue
		}
		if m := sectionHeader.FindStringSubmatch(line); m != nil {
			board = sectionBoard(m[1])
			continue
		}

		if m := quantityLine.FindStringSubmatch(line); m != nil {
			qty, err := strconv.Atoi(m[1])
			if err != nil || qty <= 0 {
				deck.Errors = append(deck.Errors, models.ParseError{
					Line: lineNo, Text: line, Reason: "quantity must be positive",
				})
				continue
			}
			name := cleanCardName(m[2])
			if name == "" {
				deck.Errors = append(deck.Errors, models.ParseError{
					Line: lineNo, Text: line, Reason: "missing card name",
				})
				continue
			}
			deck.Cards = append(deck.Cards, models.ParsedCard{Name: name, Quantity: qty, Board: board})
			continue
		}

		// No quantity prefix: a non-trivial token is an implicit
		// quantity-1 entry.
		if pureDigits.MatchString(line) || len(line) < 3 {
			deck.Errors = append(deck.Errors, models.ParseError{
				Line: lineNo, Text: line, Reason: "unrecognized line",
			})
			continue
		}
		name := cleanCardName(line)
		if name == "" {
			deck.Errors = append(deck.Errors, models.ParseError{
				Line: lineNo, Text: line, Reason: "missing card name",
			})
			continue
		}
		deck.Cards = append(deck.Cards, models.ParsedCard{Name: name, Quantity: 1, Board: board})
	}

	return deck
}

// cleanCardName strips Arena export annotations and keeps only the
// front face of a double-faced name.
func cleanCardName(name string) string {
	name = strings.TrimSpace(name)
	name = foilMarker.ReplaceAllString(name, "")
	name = arenaAnnotation.ReplaceAllString(name, "")
	if idx := strings.Index(name, "//"); idx >= 0 {
		name = name[:idx]
	}
	return strings.TrimSpace(name)
}

func sectionBoard(keyword string) string {
	switch strings.ToLower(keyword) {
	case "sideboard":
		return models.BoardSideboard
	case "commander":
		return models.BoardCommander
	case "companion":
		return models.BoardCompanion
	case "maybeboard":
		return models.BoardMaybe
	default:
		return models.BoardMain
	}
}
