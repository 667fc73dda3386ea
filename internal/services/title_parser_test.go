package services

import (
	"testing"
)

func TestParseProductTitle(t *testing.T) {
	tests := []struct {
		title    string
		wantName string
		wantSet  string // "" means nil
	}{
		{"Sol Ring (Commander 2021)", "Sol Ring", "Commander 2021"},
		{"  Lightning Bolt   (Magic 2010)  ", "Lightning Bolt", "Magic 2010"},
		{"Sol Ring", "Sol Ring", ""},
		{"Borrowing 100,000 Arrows", "Borrowing 100,000 Arrows", ""},
		{"Fire // Ice (Apocalypse)", "Fire // Ice", "Apocalypse"},
		// Only the trailing parenthesized segment is the set.
		{"Erase (Not the Urza's Legacy One) (Ultimate Masters)", "Erase (Not the Urza's Legacy One)", "Ultimate Masters"},
		{"(Foo)", "(Foo)", ""},
		{"", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			name, set := ParseProductTitle(tt.title)
			if name != tt.wantName {
				t.Errorf("ParseProductTitle(%q) name = %q, want %q", tt.title, name, tt.wantName)
			}
			if tt.wantSet == "" {
				if set != nil {
					t.Errorf("ParseProductTitle(%q) set = %q, want nil", tt.title, *set)
				}
			} else if set == nil || *set != tt.wantSet {
				t.Errorf("ParseProductTitle(%q) set = %v, want %q", tt.title, set, tt.wantSet)
			}
		})
	}
}

func TestParseVariantOptions(t *testing.T) {
	makeVariant := func(options ...[2]string) RawVariant {
		var v RawVariant
		for _, opt := range options {
			v.SelectedOptions = append(v.SelectedOptions, RawSelectedOption{Name: opt[0], Value: opt[1]})
		}
		return v
	}

	t.Run("condition and finish", func(t *testing.T) {
		condition, finish := ParseVariantOptions(makeVariant(
			[2]string{"Condition", "Near Mint"},
			[2]string{"Finish", "Foil"},
		))
		if condition == nil || *condition != "Near Mint" {
			t.Errorf("condition = %v, want Near Mint", condition)
		}
		if finish == nil || *finish != "Foil" {
			t.Errorf("finish = %v, want Foil", finish)
		}
	})

	t.Run("case-insensitive axis names", func(t *testing.T) {
		condition, finish := ParseVariantOptions(makeVariant(
			[2]string{"CONDITIONS", "Lightly Played"},
			[2]string{"Style", "Etched"},
		))
		if condition == nil || *condition != "Lightly Played" {
			t.Errorf("condition = %v, want Lightly Played", condition)
		}
		if finish == nil || *finish != "Etched" {
			t.Errorf("finish = %v, want Etched", finish)
		}
	})

	t.Run("type maps to finish", func(t *testing.T) {
		_, finish := ParseVariantOptions(makeVariant([2]string{"Type", "Foil"}))
		if finish == nil || *finish != "Foil" {
			t.Errorf("finish = %v, want Foil", finish)
		}
	})

	t.Run("unrecognized options ignored", func(t *testing.T) {
		condition, finish := ParseVariantOptions(makeVariant(
			[2]string{"Size", "Large"},
			[2]string{"Language", "Japanese"},
		))
		if condition != nil || finish != nil {
			t.Errorf("got condition=%v finish=%v, want nil/nil", condition, finish)
		}
	})

	t.Run("duplicate axis keeps last value", func(t *testing.T) {
		condition, _ := ParseVariantOptions(makeVariant(
			[2]string{"Condition", "Near Mint"},
			[2]string{"Conditions", "Damaged"},
		))
		if condition == nil || *condition != "Damaged" {
			t.Errorf("condition = %v, want Damaged", condition)
		}
	})
}

func TestExtractNumericID(t *testing.T) {
	tests := []struct {
		input  string
		wantID int64
		wantOK bool
	}{
		{"gid://shopify/Product/7890123456", 7890123456, true},
		{"gid://shopify/ProductVariant/42", 42, true},
		{"12345", 12345, true},
		{"gid://shopify/Product/", 0, false},
		{"gid://shopify/Product/abc", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			id, ok := ExtractNumericID(tt.input)
			if ok != tt.wantOK || id != tt.wantID {
				t.Errorf("ExtractNumericID(%q) = (%d, %v), want (%d, %v)", tt.input, id, ok, tt.wantID, tt.wantOK)
			}
		})
	}
}
