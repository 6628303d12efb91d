package monmarche

import (
	"math"
	"strconv"
	"strings"
)

const currencySuffix = " €"

// minorUnits converts a wire price to an integer amount of cents.
func minorUnits(net float64) int64 {
	return int64(math.Round(net))
}

// formatMinor renders cents as a major-unit amount without trailing zeros:
// 1050 is "10.5", 1500 is "15", 1005 is "10.05".
func formatMinor(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	whole := strconv.FormatInt(cents/100, 10)
	frac := cents % 100
	switch {
	case frac == 0:
		return sign + whole
	case frac%10 == 0:
		return sign + whole + "." + strconv.FormatInt(frac/10, 10)
	default:
		return sign + whole + "." + fmtTwo(frac)
	}
}

func fmtTwo(n int64) string {
	s := strconv.FormatInt(n, 10)
	if len(s) == 1 {
		return "0" + s
	}
	return s
}

// formatPrice renders a wire price, or nil when the field is absent.
func formatPrice(p *sellPrice) *string {
	if p == nil || p.Net == nil {
		return nil
	}
	s := formatMinor(minorUnits(*p.Net)) + currencySuffix
	return &s
}

// formatWeightPrice is formatPrice with the weight unit appended, "12.5 €/kg".
func formatWeightPrice(p *sellPrice) *string {
	s := formatPrice(p)
	if s == nil || p.Unit == "" {
		return s
	}
	withUnit := *s + "/" + p.Unit
	return &withUnit
}

// formatLinePrice multiplies the per-piece price by quantity in cents, so
// 500 x 3 is exactly "15 €".
func formatLinePrice(p *sellPrice, quantity int) *string {
	if p == nil || p.Net == nil {
		return nil
	}
	s := formatMinor(minorUnits(*p.Net)*int64(quantity)) + currencySuffix
	return &s
}

func formatWeight(def *itemDefinition) *string {
	if def == nil || def.Weight == nil || def.Weight.Value == nil {
		return nil
	}
	s := strings.TrimSpace(strconv.FormatFloat(*def.Weight.Value, 'f', -1, 64) + " " + def.Weight.Unit)
	return &s
}

func optionalString(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
