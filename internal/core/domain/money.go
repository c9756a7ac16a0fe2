package domain

import (
	"fmt"
	"math"
)

// FormatEUR renders an amount the way every report and document shows it.
func FormatEUR(amount float64) string {
	return fmt.Sprintf("€%.2f", RoundCents(amount))
}

// RoundCents rounds half away from zero to two decimals.
func RoundCents(amount float64) float64 {
	return math.Round(amount*100) / 100
}
