package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// MoneyScale is the number of decimal places carried by every monetary
// value. Amounts are rounded to this scale at each boundary so balances
// never drift below currency subunits.
const MoneyScale = 2

var monthsPerYear = decimal.NewFromInt(12)

// RoundMoney normalises a decimal to the money scale.
func RoundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(MoneyScale)
}

// SplitEvenly divides a total into n period charges at the money scale.
// The last part absorbs the rounding remainder so the parts always sum
// back to the total exactly.
func SplitEvenly(total decimal.Decimal, n int) []decimal.Decimal {
	if n <= 0 {
		return nil
	}

	per := RoundMoney(total.Div(decimal.NewFromInt(int64(n))))

	parts := make([]decimal.Decimal, n)
	running := decimal.Zero
	for i := 0; i < n-1; i++ {
		parts[i] = per
		running = running.Add(per)
	}
	parts[n-1] = total.Sub(running)

	return parts
}

// FlatInterest computes simple (flat-rate) interest for a principal over
// a whole-month term: principal * annualRate * months / 12.
func FlatInterest(principal, annualRate decimal.Decimal, months int) decimal.Decimal {
	return RoundMoney(principal.Mul(annualRate).Mul(decimal.NewFromInt(int64(months))).Div(monthsPerYear))
}

// MonthsBetween returns the number of whole months between two dates,
// ignoring the day of month. Used for early-repayment quotes.
func MonthsBetween(from, to time.Time) int {
	return (to.Year()-from.Year())*12 + int(to.Month()) - int(from.Month())
}
