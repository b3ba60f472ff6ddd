package pyramid

import (
	"speen_backend/internal/model"
	"speen_backend/pkg/rng"

	"github.com/shopspring/decimal"
)

// PlanDigits Уникальные цифры серии. При совпадении берется следующая
// свободная цифра по возрастанию с переходом через 9
func PlanDigits(src rng.Source, n int) []int {
	if n > model.DigitCount {
		n = model.DigitCount
	}

	var used [model.DigitCount]bool
	digits := make([]int, 0, n)
	for len(digits) < n {
		d := src.Intn(model.DigitCount)
		for used[d] {
			d = (d + 1) % model.DigitCount
		}
		used[d] = true
		digits = append(digits, d+model.MinDigit)
	}
	return digits
}

// Payout Множитель позиции и выплата floor(bet*mult). Промах дает ноль
func Payout(multipliers []decimal.Decimal, bet int64, hitIndex int) (decimal.Decimal, int64) {
	if hitIndex < 0 || hitIndex >= len(multipliers) {
		return decimal.Zero, 0
	}
	mult := multipliers[hitIndex]
	return mult, decimal.NewFromInt(bet).Mul(mult).Floor().IntPart()
}
