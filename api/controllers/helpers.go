package controllers

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/blazetaller/taller-backend/pkg/enums"
	pkgerrors "github.com/blazetaller/taller-backend/pkg/errors"
)

func parseAmount(raw string) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Zero, pkgerrors.Field(pkgerrors.CodeValidation, "amount", "InvalidDecimal", "amount must be a decimal number")
	}
	return amount, nil
}

func paymentStatus(raw string) enums.PaymentStatus {
	return enums.PaymentStatus(strings.TrimSpace(raw))
}
