// Package roulette implements the outcome evaluator for a European wheel:
// classification of drawn numbers against every supported bet category and
// exact payout scoring.
package roulette

import (
	"github.com/spindeck/roulettebot/internal/domain"
)

// redNumbers is the fixed 18-number red set of the European wheel. Black is
// its complement over 1..36; zero is green and belongs to neither.
var redNumbers = map[int]bool{
	1: true, 3: true, 5: true, 7: true, 9: true,
	12: true, 14: true, 16: true, 18: true, 19: true,
	21: true, 23: true, 25: true, 27: true, 30: true,
	32: true, 34: true, 36: true,
}

// Classify derives the full GameOutcome for a drawn number. It is total over
// 0..36; numbers outside that range are a contract violation and are
// rejected, not clamped.
func Classify(number int) (domain.GameOutcome, error) {
	if number < 0 || number > 36 {
		return domain.GameOutcome{}, domain.NewValidationError("number %d outside European wheel range 0..36", number)
	}

	out := domain.GameOutcome{Number: number}
	if number == 0 {
		out.Color = domain.ColorGreen
		return out, nil
	}

	if redNumbers[number] {
		out.Color = domain.ColorRed
	} else {
		out.Color = domain.ColorBlack
	}
	out.IsEven = number%2 == 0
	out.IsLow = number <= 18
	out.Dozen = (number-1)/12 + 1
	out.Column = (number-1)%3 + 1
	return out, nil
}
