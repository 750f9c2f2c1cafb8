package kernel

import (
	"errors"
	"fmt"

	"pickup/internal/pkg/errs"
	"pickup/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

// ErrMoneyIsNotConstructed is returned when a zero-value Money is validated.
var ErrMoneyIsNotConstructed = errors.New("Money must be created via NewMoney or MoneyFromString")

// Money is a non-negative amount in the marketplace's single settlement currency.
// Arithmetic is exact (shopspring/decimal); amounts are rounded to two decimal places.
type Money struct {
	amount decimal.Decimal
	guard  guard.ConstructorGuard
}

// NewMoney wraps amount after checking it is not negative.
func NewMoney(amount decimal.Decimal) (Money, error) {
	if amount.IsNegative() {
		return Money{}, errs.NewValueIsInvalidErrorWithCause(
			"amount",
			fmt.Errorf("%s is negative", amount.String()),
		)
	}
	return Money{amount: amount.Round(2), guard: guard.NewConstructorGuard()}, nil
}

// MoneyFromString parses a decimal string such as "19.90".
func MoneyFromString(s string) (Money, error) {
	amount, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, errs.NewValueIsInvalidErrorWithCause("amount", err)
	}
	return NewMoney(amount)
}

// Validate returns ErrMoneyIsNotConstructed for the zero value.
func (m Money) Validate() error {
	return m.guard.Validate(ErrMoneyIsNotConstructed)
}

// Times returns the amount multiplied by a positive quantity.
func (m Money) Times(quantity int) (Money, error) {
	if quantity <= 0 {
		return Money{}, errs.NewValueIsOutOfRangeError("quantity", quantity, 1, "unbounded")
	}
	return NewMoney(m.amount.Mul(decimal.NewFromInt(int64(quantity))))
}

// Decimal returns the underlying amount.
func (m Money) Decimal() decimal.Decimal {
	return m.amount
}

// String returns the amount with exactly two decimal places.
func (m Money) String() string {
	return m.amount.StringFixed(2)
}

// IsEqual compares amounts numerically.
func (m Money) IsEqual(other Money) bool {
	return m.amount.Equal(other.amount)
}
