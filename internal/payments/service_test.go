package payments

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blazetaller/taller-backend/pkg/db/dbtest"
	"github.com/blazetaller/taller-backend/pkg/db/models"
	"github.com/blazetaller/taller-backend/pkg/enums"
	pkgerrors "github.com/blazetaller/taller-backend/pkg/errors"
)

func newTestService(t *testing.T) (Service, *models.Process) {
	t.Helper()
	conn := dbtest.Open(t)
	owner := dbtest.Owner(t, conn, "12345678-9")
	vehicle := dbtest.Vehicle(t, conn, owner.ID, "AB1234")
	process := dbtest.Process(t, conn, dbtest.Worker(t, conn).ID, vehicle.ID)

	svc, err := NewService(NewRepository(conn))
	require.NoError(t, err)
	return svc, process
}

func TestRecordValidation(t *testing.T) {
	svc, process := newTestService(t)
	ctx := context.Background()

	cases := []struct {
		name   string
		input  RecordInput
		code   pkgerrors.Code
		reason string
	}{
		{"zero amount", RecordInput{ProcessID: process.ID, Amount: decimal.Zero, Method: "efectivo"}, pkgerrors.CodeValidation, "NotPositive"},
		{"negative amount", RecordInput{ProcessID: process.ID, Amount: decimal.NewFromInt(-5), Method: "efectivo"}, pkgerrors.CodeValidation, "NotPositive"},
		{"amount above column limit", RecordInput{ProcessID: process.ID, Amount: decimal.RequireFromString("100000000.00"), Method: "efectivo"}, pkgerrors.CodeValidation, "OutOfRange"},
		{"missing method", RecordInput{ProcessID: process.ID, Amount: decimal.NewFromInt(5), Method: " "}, pkgerrors.CodeValidation, "Required"},
		{"bad status", RecordInput{ProcessID: process.ID, Amount: decimal.NewFromInt(5), Method: "efectivo", Status: "regalado"}, pkgerrors.CodeValidation, "InvalidChoice"},
		{"unknown process", RecordInput{ProcessID: uuid.New(), Amount: decimal.NewFromInt(5), Method: "efectivo"}, pkgerrors.CodeNotFound, "UnknownProcess"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Record(ctx, tc.input)
			require.Error(t, err)
			typed := pkgerrors.As(err)
			require.NotNil(t, typed)
			assert.Equal(t, tc.code, typed.Code())
			assert.Equal(t, tc.reason, typed.Reason())
		})
	}
}

func TestTotalSumsPaidPayments(t *testing.T) {
	svc, process := newTestService(t)
	ctx := context.Background()

	record := func(amount string, status enums.PaymentStatus) {
		_, err := svc.Record(ctx, RecordInput{
			ProcessID: process.ID,
			Amount:    decimal.RequireFromString(amount),
			Method:    "transferencia",
			Status:    status,
		})
		require.NoError(t, err)
	}
	record("25000.50", enums.PaymentStatusPaid)
	record("10000.25", enums.PaymentStatusPaid)
	record("999.99", enums.PaymentStatusRejected)
	record("500.00", "")

	total, err := svc.Total(ctx, process.ID)
	require.NoError(t, err)
	assert.Equal(t, "35000.75", total.StringFixed(2))

	rows, err := svc.ListByProcess(ctx, process.ID)
	require.NoError(t, err)
	require.Len(t, rows, 4)
	pending := 0
	for _, row := range rows {
		if row.Status == enums.PaymentStatusPending {
			pending++
		}
	}
	assert.Equal(t, 1, pending)
}
