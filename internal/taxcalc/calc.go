// Package taxcalc computes the cascading tax ladder: an ordered list of
// percentage charges applied on top of a base amount, where higher
// levels compound on the running subtotal left by the levels below.
package taxcalc

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"
	taxruledomain "github.com/stayware/foliopost/internal/taxrule/domain"
)

var hundred = decimal.NewFromInt(100)

// Line is one computed ladder entry.
type Line struct {
	Level      int             `json:"level"`
	Name       string          `json:"name"`
	Percentage decimal.Decimal `json:"percentage"`
	Amount     decimal.Decimal `json:"amount"`
	AccountID  int64           `json:"account_id"`
}

// Result is the full outcome of one ladder run. GrandTotal always
// equals Base plus the sum of all line amounts.
type Result struct {
	Base             decimal.Decimal         `json:"base"`
	Lines            []Line                  `json:"lines"`
	SubtotalsByLevel map[int]decimal.Decimal `json:"subtotals_by_level"`
	GrandTotal       decimal.Decimal         `json:"grand_total"`
}

// TaxTotal returns the sum of all computed line amounts.
func (r Result) TaxTotal() decimal.Decimal {
	total := decimal.Zero
	for _, line := range r.Lines {
		total = total.Add(line.Amount)
	}
	return total
}

// Calculate runs the ladder. Pure: identical inputs always produce
// identical results.
//
// Levels are processed ascending. A base-basis rule computes off the
// original base; a subtotal-basis rule computes off the running
// subtotal as it stood when its level was entered, so a level-2 rule
// taxes the level-1 amounts but rules within one level never tax each
// other. Every line amount is rounded half-up to 2 decimals before it
// is accumulated, so displayed lines always sum exactly to the
// displayed subtotals.
func Calculate(base decimal.Decimal, rules []taxruledomain.Rule, applyExtras bool) Result {
	res := Result{Base: base, GrandTotal: base}
	if !applyExtras || len(rules) == 0 {
		return res
	}

	ordered := make([]taxruledomain.Rule, len(rules))
	copy(ordered, rules)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].Basis.Level != ordered[j].Basis.Level {
			return ordered[i].Basis.Level < ordered[j].Basis.Level
		}
		return strings.ToLower(ordered[i].Name) < strings.ToLower(ordered[j].Name)
	})

	res.Lines = make([]Line, 0, len(ordered))
	res.SubtotalsByLevel = make(map[int]decimal.Decimal)

	running := base
	i := 0
	for i < len(ordered) {
		level := ordered[i].Basis.Level
		snapshot := running

		levelSum := decimal.Zero
		for i < len(ordered) && ordered[i].Basis.Level == level {
			rule := ordered[i]
			basisAmount := snapshot
			if rule.Basis.IsBase() {
				basisAmount = base
			}
			amount := roundAmount(basisAmount.Mul(rule.Percentage).Div(hundred))
			res.Lines = append(res.Lines, Line{
				Level:      level,
				Name:       rule.Name,
				Percentage: rule.Percentage,
				Amount:     amount,
				AccountID:  rule.AccountID,
			})
			levelSum = levelSum.Add(amount)
			i++
		}

		running = running.Add(levelSum)
		res.SubtotalsByLevel[level] = running
	}

	res.GrandTotal = running
	return res
}

// roundAmount rounds half-up to 2 decimal places. Amounts in a ladder
// are non-negative, so half-away-from-zero equals half-up here.
func roundAmount(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}
