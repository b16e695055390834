package usecase

import (
	"reflect"
	"testing"

	"github.com/offerdeck/backend/internal/domain"
)

func TestResolveField(t *testing.T) {
	t.Run("exact header match wins over substring", func(t *testing.T) {
		row := map[string]string{
			"Offer":         "exact",
			"Offer Details": "substring",
		}
		if got := resolveField(row, []string{"offer"}); got != "exact" {
			t.Errorf("resolveField = %q, want %q", got, "exact")
		}
	})

	t.Run("substring match is the fallback", func(t *testing.T) {
		row := map[string]string{
			"Applicable to Credit cards": "HDFC Regalia",
		}
		got := resolveField(row, instrumentColumnAliases[domain.InstrumentCredit])
		if got != "HDFC Regalia" {
			t.Errorf("resolveField = %q, want HDFC Regalia", got)
		}
	})

	t.Run("skips empty cells", func(t *testing.T) {
		row := map[string]string{
			"Offer": "   ",
			"Title": "kept",
		}
		if got := resolveField(row, []string{"offer", "title"}); got != "kept" {
			t.Errorf("resolveField = %q, want kept", got)
		}
	})

	t.Run("no alias resolves", func(t *testing.T) {
		row := map[string]string{"Unrelated": "x"}
		if got := resolveField(row, titleAliases); got != "" {
			t.Errorf("resolveField = %q, want empty", got)
		}
	})
}

func TestResolveMixedCell(t *testing.T) {
	t.Run("finds ambiguous cards column", func(t *testing.T) {
		row := map[string]string{
			"Cards": "HDFC Regalia Credit Card",
		}
		if got := resolveMixedCell(row); got != "HDFC Regalia Credit Card" {
			t.Errorf("resolveMixedCell = %q", got)
		}
	})

	t.Run("ignores explicitly typed card columns", func(t *testing.T) {
		row := map[string]string{
			"Credit cards": "HDFC Regalia",
			"Debit cards":  "HDFC Millennia",
		}
		if got := resolveMixedCell(row); got != "" {
			t.Errorf("resolveMixedCell = %q, want empty", got)
		}
	})
}

func TestSplitInstrumentCell(t *testing.T) {
	tests := []struct {
		name string
		cell string
		want []string
	}{
		{"comma", "HDFC Regalia, ICICI Amazon Pay", []string{"HDFC Regalia", "ICICI Amazon Pay"}},
		{"slash", "SBI SimplyCLICK/SBI Cashback", []string{"SBI SimplyCLICK", "SBI Cashback"}},
		{"semicolon and pipe", "A; B | C", []string{"A", "B", "C"}},
		{"newline", "A\nB", []string{"A", "B"}},
		{"bullet", "• A • B", []string{"A", "B"}},
		{"word and", "HDFC Regalia and Axis Atlas", []string{"HDFC Regalia", "Axis Atlas"}},
		{"and inside a word is kept", "Bandhan Bank Card", []string{"Bandhan Bank Card"}},
		{"blank", "   ", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := splitInstrumentCell(tt.cell)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("splitInstrumentCell(%q) = %v, want %v", tt.cell, got, tt.want)
			}
		})
	}
}

func TestClassifyToken(t *testing.T) {
	t.Run("row type hint wins", func(t *testing.T) {
		row := map[string]string{"Card Type": "Debit"}
		got, ok := classifyToken(row, "HDFC Millennia")
		if !ok || got != domain.InstrumentDebit {
			t.Errorf("classifyToken = %v, %v; want debit, true", got, ok)
		}
	})

	t.Run("token keywords as fallback", func(t *testing.T) {
		row := map[string]string{}
		got, ok := classifyToken(row, "HDFC Regalia Credit Card")
		if !ok || got != domain.InstrumentCredit {
			t.Errorf("classifyToken = %v, %v; want credit, true", got, ok)
		}
	})

	t.Run("net banking keyword", func(t *testing.T) {
		got, ok := classifyToken(map[string]string{}, "HDFC Net Banking")
		if !ok || got != domain.InstrumentNetBanking {
			t.Errorf("classifyToken = %v, %v; want netbanking, true", got, ok)
		}
	})

	t.Run("unclassifiable token", func(t *testing.T) {
		if _, ok := classifyToken(map[string]string{}, "HDFC Regalia"); ok {
			t.Error("expected unclassifiable token to report false")
		}
	})
}

func TestParseInstrumentToken(t *testing.T) {
	name := parseInstrumentToken(" ICICI Amazon Pay (RuPay) ", domain.InstrumentCredit)
	if name.Raw != "ICICI Amazon Pay (RuPay)" {
		t.Errorf("Raw = %q", name.Raw)
	}
	if name.BaseName != "icici amazon pay" {
		t.Errorf("BaseName = %q, want icici amazon pay", name.BaseName)
	}
	if name.Variant != "RuPay" {
		t.Errorf("Variant = %q, want RuPay", name.Variant)
	}
	if name.Type != domain.InstrumentCredit {
		t.Errorf("Type = %v, want credit", name.Type)
	}
}
