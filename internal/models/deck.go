package models

// Board labels for deck-list sections.
const (
	BoardMain      = "mainboard"
	BoardSideboard = "sideboard"
	BoardCommander = "commander"
	BoardCompanion = "companion"
	BoardMaybe     = "maybeboard"
)

// ParsedCard is one entry of a parsed deck list. Not persisted.
type ParsedCard struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
	Board    string `json:"board,omitempty"`
}

// ParseError records a deck-list line that could not be turned into a card.
type ParseError struct {
	Line   int    `json:"line"`
	Text   string `json:"text"`
	Reason string `json:"reason"`
}

// ParsedDeck is the result of parsing free text or a deck-builder URL.
type ParsedDeck struct {
	Cards    []ParsedCard `json:"cards"`
	Errors   []ParseError `json:"errors"`
	DeckName string       `json:"deckName,omitempty"`
	Format   string       `json:"format,omitempty"`
}

// Printing is one in-stock variant of a card: a specific set, condition
// and finish with its price and quantity.
type Printing struct {
	SetName    *string `json:"set_name"`
	Title      string  `json:"title"`
	ImageURL   string  `json:"image_url"`
	ProductURL string  `json:"product_url"`
	Handle     string  `json:"handle"`
	VariantID  int64   `json:"variant_id"`
	Condition  *string `json:"condition"`
	Finish     *string `json:"finish"`
	Price      float64 `json:"price"`
	Quantity   int     `json:"quantity"`
	SKU        string  `json:"sku"`
}

// MatchResult groups every in-stock printing of one requested card.
// Name preserves the caller's original casing.
type MatchResult struct {
	Name      string     `json:"name"`
	Found     bool       `json:"found"`
	CardName  string     `json:"card_name,omitempty"`
	Printings []Printing `json:"printings"`
	Quantity  int        `json:"quantity,omitempty"`
	Selected  *Printing  `json:"selected,omitempty"`
}

// SearchResult is one row of the autocomplete card search: printings
// grouped by card, set and image with the lowest price and summed stock.
type SearchResult struct {
	CardName string  `json:"card_name"`
	SetName  *string `json:"set_name"`
	ImageURL string  `json:"image_url"`
	MinPrice float64 `json:"min_price"`
	Quantity int     `json:"quantity"`
}
