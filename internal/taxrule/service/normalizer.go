package service

import (
	"math"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
	taxruledomain "github.com/stayware/foliopost/internal/taxrule/domain"
)

// Normalize turns raw configuration rows into an ordered tax ladder.
// The output is deterministic regardless of input order: ascending by
// basis level (base = 0), ties broken by case-insensitive name.
func Normalize(rows []taxruledomain.TaxRuleRow) []taxruledomain.Rule {
	rules := make([]taxruledomain.Rule, 0, len(rows))
	for _, row := range rows {
		name := strings.TrimSpace(row.Name)
		if name == "" {
			continue
		}
		if !row.IsEnabled {
			continue
		}
		rules = append(rules, taxruledomain.Rule{
			Name:       name,
			Percentage: normalizePercentage(row.Percentage),
			Basis:      ParseBasis(row.CalcBasedOn),
			AccountID:  normalizeAccountID(row.AccountID),
		})
	}

	sort.SliceStable(rules, func(i, j int) bool {
		if rules[i].Basis.Level != rules[j].Basis.Level {
			return rules[i].Basis.Level < rules[j].Basis.Level
		}
		return strings.ToLower(rules[i].Name) < strings.ToLower(rules[j].Name)
	})

	return rules
}

// ParseBasis maps a free-text basis label onto the tagged variant.
// Blank or unrecognized text means the original base amount; any label
// containing SUBTOTAL followed by digits means that running subtotal.
func ParseBasis(label string) taxruledomain.Basis {
	compact := strings.ToUpper(strings.ReplaceAll(label, " ", ""))
	idx := strings.Index(compact, "SUBTOTAL")
	if idx < 0 {
		return taxruledomain.BasisBase()
	}

	level := 0
	seen := false
	for _, ch := range compact[idx+len("SUBTOTAL"):] {
		if ch < '0' || ch > '9' {
			break
		}
		level = level*10 + int(ch-'0')
		seen = true
	}
	if !seen || level < 1 {
		return taxruledomain.BasisBase()
	}
	return taxruledomain.BasisSubtotal(level)
}

// Malformed percentages never fail normalization; they collapse to 0.
func normalizePercentage(pct *float64) decimal.Decimal {
	if pct == nil {
		return decimal.Zero
	}
	v := *pct
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return decimal.Zero
	}
	return decimal.NewFromFloat(v)
}

func normalizeAccountID(id *int64) int64 {
	if id == nil {
		return 0
	}
	return *id
}
