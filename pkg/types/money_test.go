package types

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/blazetaller/taller-backend/pkg/errors"
)

func TestCheckMoney(t *testing.T) {
	for _, ok := range []string{"0", "0.01", "99999999.99", "99999999.994"} {
		assert.NoError(t, CheckMoney("cost", decimal.RequireFromString(ok)), ok)
	}

	cases := map[string]string{
		"-0.01":        "Negative",
		"100000000":    "OutOfRange",
		"99999999.995": "OutOfRange",
		"1e9":          "OutOfRange",
	}
	for raw, reason := range cases {
		err := CheckMoney("cost", decimal.RequireFromString(raw))
		require.Error(t, err, raw)
		typed := pkgerrors.As(err)
		require.NotNil(t, typed)
		assert.Equal(t, pkgerrors.CodeValidation, typed.Code(), raw)
		assert.Equal(t, reason, typed.Reason(), raw)
	}
}
