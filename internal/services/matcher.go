package services

import (
	"sort"
	"strings"

	"gorm.io/gorm"

	"github.com/cardhaus/deck-checker/internal/metrics"
	"github.com/cardhaus/deck-checker/internal/models"
)

// Selection strategies for AutoSelect.
const (
	StrategyCheapest      = "cheapest"
	StrategyBestCondition = "best-condition"
)

// MatchService looks deck lists up against the local in-stock catalog.
type MatchService struct {
	db *gorm.DB
}

func NewMatchService(db *gorm.DB) *MatchService {
	return &MatchService{db: db}
}

type matchRow struct {
	VariantID  int64
	Condition  *string
	Finish     *string
	Price      float64
	Quantity   int
	SKU        string
	CardName   string
	SetName    *string
	Title      string
	ImageURL   string
	ProductURL string
	Handle     string
}

// conditionRank orders card conditions best-first. Anything outside the
// known scale sorts last.
func conditionRank(condition *string) int {
	if condition == nil {
		return 5
	}
	switch strings.ToLower(strings.TrimSpace(*condition)) {
	case "near mint", "nm":
		return 0
	case "lightly played", "lp":
		return 1
	case "moderately played", "mp":
		return 2
	case "heavily played", "hp":
		return 3
	case "damaged", "dmg":
		return 4
	default:
		return 5
	}
}

// MatchDeckList returns one result per requested name, in request order
// and original casing, duplicates included. Printings are ordered by
// price ascending with condition rank as the tie-break.
func (s *MatchService) MatchDeckList(names []string) ([]models.MatchResult, error) {
	metrics.MatchRequestsTotal.Inc()

	normalized := make([]string, 0, len(names))
	seen := make(map[string]struct{}, len(names))
	for _, name := range names {
		key := strings.ToLower(strings.TrimSpace(name))
		if key == "" {
			continue
		}
		if _, ok := seen[key]; !ok {
			seen[key] = struct{}{}
			normalized = append(normalized, key)
		}
	}

	groups := make(map[string][]models.Printing, len(normalized))
	canonical := make(map[string]string, len(normalized))

	if len(normalized) > 0 {
		var rows []matchRow
		err := s.db.Table("variants").
			Select("variants.id AS variant_id, variants.condition, variants.finish, variants.price, variants.quantity, variants.sku, "+
				"products.card_name, products.set_name, products.title, products.image_url, products.product_url, products.handle").
			Joins("JOIN products ON products.id = variants.product_id").
			Where("LOWER(products.card_name) IN ?", normalized).
			Where("variants.quantity > 0").
			Scan(&rows).Error
		if err != nil {
			return nil, err
		}

		// Compare names lower-cased so printings of the same card group
		// together even when product titles disagree on casing.
		sort.SliceStable(rows, func(i, j int) bool {
			ni, nj := strings.ToLower(rows[i].CardName), strings.ToLower(rows[j].CardName)
			if ni != nj {
				return ni < nj
			}
			if rows[i].Price != rows[j].Price {
				return rows[i].Price < rows[j].Price
			}
			return conditionRank(rows[i].Condition) < conditionRank(rows[j].Condition)
		})

		for _, row := range rows {
			key := strings.ToLower(row.CardName)
			if _, ok := canonical[key]; !ok {
				canonical[key] = row.CardName
			}
			groups[key] = append(groups[key], models.Printing{
				SetName:    row.SetName,
				Title:      row.Title,
				ImageURL:   row.ImageURL,
				ProductURL: row.ProductURL,
				Handle:     row.Handle,
				VariantID:  row.VariantID,
				Condition:  row.Condition,
				Finish:     row.Finish,
				Price:      row.Price,
				Quantity:   row.Quantity,
				SKU:        row.SKU,
			})
		}
	}

	// Output length always equals input length: every requested name
	// maps back to its group or to an explicit not-found placeholder.
	results := make([]models.MatchResult, len(names))
	for i, name := range names {
		key := strings.ToLower(strings.TrimSpace(name))
		printings, ok := groups[key]
		if !ok {
			metrics.CardsMatched.WithLabelValues("not_found").Inc()
			results[i] = models.MatchResult{Name: name, Found: false, Printings: []models.Printing{}}
			continue
		}
		metrics.CardsMatched.WithLabelValues("found").Inc()
		group := make([]models.Printing, len(printings))
		copy(group, printings)
		results[i] = models.MatchResult{
			Name:      name,
			Found:     true,
			CardName:  canonical[key],
			Printings: group,
		}
	}
	return results, nil
}

// CheapestForEach selects each card's lowest-priced printing.
// MatchDeckList already orders by price, so the first printing wins.
func (s *MatchService) CheapestForEach(names []string) ([]models.MatchResult, error) {
	results, err := s.MatchDeckList(names)
	if err != nil {
		return nil, err
	}
	for i := range results {
		if len(results[i].Printings) > 0 {
			selected := results[i].Printings[0]
			results[i].Selected = &selected
		}
	}
	return results, nil
}

// BestConditionForEach re-sorts each card's printings by condition rank
// first and price second, then selects the first.
func (s *MatchService) BestConditionForEach(names []string) ([]models.MatchResult, error) {
	results, err := s.MatchDeckList(names)
	if err != nil {
		return nil, err
	}
	for i := range results {
		printings := results[i].Printings
		sort.SliceStable(printings, func(a, b int) bool {
			ra, rb := conditionRank(printings[a].Condition), conditionRank(printings[b].Condition)
			if ra != rb {
				return ra < rb
			}
			return printings[a].Price < printings[b].Price
		})
		if len(printings) > 0 {
			selected := printings[0]
			results[i].Selected = &selected
		}
	}
	return results, nil
}

// SearchCards is a case-insensitive substring autocomplete over card
// names, grouped by card, set and image.
func (s *MatchService) SearchCards(term string, limit int) ([]models.SearchResult, error) {
	results := []models.SearchResult{}
	err := s.db.Table("variants").
		Select("products.card_name, products.set_name, products.image_url, MIN(variants.price) AS min_price, SUM(variants.quantity) AS quantity").
		Joins("JOIN products ON products.id = variants.product_id").
		Where("variants.quantity > 0").
		Where("LOWER(products.card_name) LIKE ?", "%"+strings.ToLower(strings.TrimSpace(term))+"%").
		Group("products.card_name, products.set_name, products.image_url").
		Order("products.card_name").
		Limit(limit).
		Scan(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}
