package services

import (
	"testing"

	"github.com/cardhaus/deck-checker/internal/models"
)

func seedMatcherFixture(t *testing.T, m *MatchService) {
	t.Helper()
	seedProduct(t, m.db,
		models.Product{ID: 1, Title: "Sol Ring (Commander 2021)", CardName: "Sol Ring", SetName: strPtr("Commander 2021"), Handle: "sol-ring-c21"},
		models.Variant{ID: 11, Condition: strPtr("Near Mint"), Price: 5.00, Quantity: 3, SKU: "SR-C21-NM"},
		models.Variant{ID: 12, Condition: strPtr("Near Mint"), Price: 3.00, Quantity: 1, SKU: "SR-C21-NM2"},
		models.Variant{ID: 13, Condition: strPtr("Lightly Played"), Price: 3.00, Quantity: 2, SKU: "SR-C21-LP"},
	)
	seedProduct(t, m.db,
		models.Product{ID: 2, Title: "Sol Ring (Commander Masters)", CardName: "Sol Ring", SetName: strPtr("Commander Masters"), Handle: "sol-ring-cmm"},
		models.Variant{ID: 21, Condition: strPtr("Moderately Played"), Price: 2.50, Quantity: 0, SKU: "SR-CMM-MP"}, // out of stock
	)
	seedProduct(t, m.db,
		models.Product{ID: 3, Title: "Counterspell (Seventh Edition)", CardName: "Counterspell", SetName: strPtr("Seventh Edition"), Handle: "counterspell-7ed"},
		models.Variant{ID: 31, Condition: strPtr("Lightly Played"), Price: 1.00, Quantity: 4, SKU: "CS-7ED-LP"},
		models.Variant{ID: 32, Condition: strPtr("Near Mint"), Price: 10.00, Quantity: 2, SKU: "CS-7ED-NM"},
	)
}

func TestMatchDeckListOrdering(t *testing.T) {
	m := NewMatchService(newTestDB(t))
	seedMatcherFixture(t, m)

	results, err := m.MatchDeckList([]string{"sol ring"})
	if err != nil {
		t.Fatalf("MatchDeckList failed: %v", err)
	}
	if len(results) != 1 || !results[0].Found {
		t.Fatalf("expected one found result, got %+v", results)
	}

	// Price ascending, condition rank as tie-break; out-of-stock
	// variants excluded.
	printings := results[0].Printings
	wantOrder := []int64{12, 13, 11}
	if len(printings) != len(wantOrder) {
		t.Fatalf("expected %d printings, got %d", len(wantOrder), len(printings))
	}
	for i, want := range wantOrder {
		if printings[i].VariantID != want {
			t.Errorf("printing %d = variant %d, want %d", i, printings[i].VariantID, want)
		}
	}
}

func TestMatchDeckListPreservesInput(t *testing.T) {
	m := NewMatchService(newTestDB(t))
	seedMatcherFixture(t, m)

	names := []string{"SOL RING", "No Such Card", "sol ring", "Counterspell"}
	results, err := m.MatchDeckList(names)
	if err != nil {
		t.Fatalf("MatchDeckList failed: %v", err)
	}

	// Output length always equals input length, original casing kept.
	if len(results) != len(names) {
		t.Fatalf("got %d results for %d names", len(results), len(names))
	}
	for i, name := range names {
		if results[i].Name != name {
			t.Errorf("result %d name = %q, want %q", i, results[i].Name, name)
		}
	}

	if !results[0].Found || !results[2].Found {
		t.Error("both Sol Ring entries should be found")
	}
	if results[0].CardName != "Sol Ring" {
		t.Errorf("canonical name = %q, want Sol Ring", results[0].CardName)
	}
	if results[1].Found || len(results[1].Printings) != 0 {
		t.Errorf("unknown card should be a not-found placeholder, got %+v", results[1])
	}
	if len(results[0].Printings) != len(results[2].Printings) {
		t.Error("duplicate names should map to the same group")
	}
}

func TestMatchDeckListMixedCasingProducts(t *testing.T) {
	m := NewMatchService(newTestDB(t))
	seedProduct(t, m.db,
		models.Product{ID: 1, Title: "Sol Ring (Commander 2021)", CardName: "Sol Ring", SetName: strPtr("Commander 2021"), Handle: "sol-ring-c21"},
		models.Variant{ID: 11, Condition: strPtr("Near Mint"), Price: 5.00, Quantity: 3, SKU: "SR-C21-NM"},
	)
	seedProduct(t, m.db,
		models.Product{ID: 2, Title: "sol ring (Revised)", CardName: "sol ring", SetName: strPtr("Revised"), Handle: "sol-ring-3ed"},
		models.Variant{ID: 21, Condition: strPtr("Near Mint"), Price: 1.00, Quantity: 2, SKU: "SR-3ED-NM"},
	)

	// Products whose titles disagree on casing are one card: printings
	// stay price-ascending across both, and the cheapest wins selection.
	results, err := m.MatchDeckList([]string{"sol ring"})
	if err != nil {
		t.Fatalf("MatchDeckList failed: %v", err)
	}
	if len(results) != 1 || len(results[0].Printings) != 2 {
		t.Fatalf("expected one group of 2 printings, got %+v", results)
	}
	if results[0].Printings[0].Price != 1.00 {
		t.Errorf("first printing price = %.2f, want 1.00", results[0].Printings[0].Price)
	}

	selected, err := m.CheapestForEach([]string{"sol ring"})
	if err != nil {
		t.Fatalf("CheapestForEach failed: %v", err)
	}
	if selected[0].Selected == nil || selected[0].Selected.VariantID != 21 {
		t.Errorf("selected = %+v, want the $1.00 printing", selected[0].Selected)
	}
}

func TestMatchDeckListEmptyInput(t *testing.T) {
	m := NewMatchService(newTestDB(t))

	results, err := m.MatchDeckList([]string{})
	if err != nil {
		t.Fatalf("MatchDeckList failed: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("expected empty results, got %v", results)
	}
}

func TestCheapestForEach(t *testing.T) {
	m := NewMatchService(newTestDB(t))
	seedMatcherFixture(t, m)

	results, err := m.CheapestForEach([]string{"Counterspell", "missing card"})
	if err != nil {
		t.Fatalf("CheapestForEach failed: %v", err)
	}
	if results[0].Selected == nil || results[0].Selected.VariantID != 31 {
		t.Errorf("selected = %+v, want the $1.00 LP printing", results[0].Selected)
	}
	if results[1].Selected != nil {
		t.Errorf("missing card should have nil selection, got %+v", results[1].Selected)
	}
}

func TestBestConditionForEach(t *testing.T) {
	m := NewMatchService(newTestDB(t))
	seedMatcherFixture(t, m)

	// NM $10 beats LP $1 when condition leads the sort.
	results, err := m.BestConditionForEach([]string{"Counterspell"})
	if err != nil {
		t.Fatalf("BestConditionForEach failed: %v", err)
	}
	if results[0].Selected == nil || results[0].Selected.VariantID != 32 {
		t.Errorf("selected = %+v, want the Near Mint printing", results[0].Selected)
	}
}

func TestConditionRank(t *testing.T) {
	order := []string{"Near Mint", "Lightly Played", "Moderately Played", "Heavily Played", "Damaged", "Sealed"}
	for i := 1; i < len(order); i++ {
		if conditionRank(strPtr(order[i-1])) >= conditionRank(strPtr(order[i])) {
			t.Errorf("conditionRank(%q) should be better than conditionRank(%q)", order[i-1], order[i])
		}
	}
	if conditionRank(strPtr("NM")) != conditionRank(strPtr("Near Mint")) {
		t.Error("abbreviated and full condition names should rank equally")
	}
	if conditionRank(nil) != 5 {
		t.Errorf("nil condition should rank last, got %d", conditionRank(nil))
	}
}

func TestSearchCards(t *testing.T) {
	m := NewMatchService(newTestDB(t))
	seedMatcherFixture(t, m)

	results, err := m.SearchCards("sol", 10)
	if err != nil {
		t.Fatalf("SearchCards failed: %v", err)
	}
	// Only the in-stock Commander 2021 group remains; the Commander
	// Masters printing has zero quantity.
	if len(results) != 1 {
		t.Fatalf("expected 1 group, got %+v", results)
	}
	got := results[0]
	if got.CardName != "Sol Ring" || got.MinPrice != 3.00 || got.Quantity != 6 {
		t.Errorf("group = %+v, want Sol Ring min 3.00 qty 6", got)
	}

	// Limit caps the row count.
	limited, err := m.SearchCards("o", 1)
	if err != nil {
		t.Fatalf("SearchCards failed: %v", err)
	}
	if len(limited) != 1 {
		t.Errorf("expected limit of 1 row, got %d", len(limited))
	}
}
