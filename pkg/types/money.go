package types

import (
	"github.com/shopspring/decimal"

	pkgerrors "github.com/blazetaller/taller-backend/pkg/errors"
)

// MaxMoney is the largest value a numeric(10,2) money column holds.
var MaxMoney = decimal.New(9999999999, -2)

// CheckMoney rejects amounts that are negative or do not fit a money column.
// The error names field with reason Negative or OutOfRange.
func CheckMoney(field string, amount decimal.Decimal) error {
	if amount.IsNegative() {
		return pkgerrors.Field(pkgerrors.CodeValidation, field, "Negative", field+" cannot be negative")
	}
	if amount.Round(2).GreaterThan(MaxMoney) {
		return pkgerrors.Field(pkgerrors.CodeValidation, field, "OutOfRange", field+" must be at most "+MaxMoney.StringFixed(2))
	}
	return nil
}
