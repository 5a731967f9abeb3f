package journal

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/ledger/internal/model"
	"github.com/cleared-dev/ledger/internal/testutil"
)

func validTxn() model.Transaction {
	return model.Transaction{
		Date:        testutil.Date(2025, 4, 10),
		FromAccount: 1,
		ToAccount:   2,
		Amount:      testutil.Dec("500"),
	}
}

func TestValidateTransaction_Valid(t *testing.T) {
	assert.NoError(t, ValidateTransaction(validTxn(), nil))
}

func TestValidateTransaction_Violations(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*model.Transaction)
		field  string
	}{
		{"zero amount", func(t *model.Transaction) { t.Amount = testutil.Dec("0") }, "amount"},
		{"negative amount", func(t *model.Transaction) { t.Amount = testutil.Dec("-5") }, "amount"},
		{"three decimals", func(t *model.Transaction) { t.Amount = testutil.Dec("1.005") }, "amount"},
		{"too large", func(t *model.Transaction) { t.Amount = testutil.Dec("184467440737095516.17") }, "amount"},
		{"same account", func(t *model.Transaction) { t.ToAccount = t.FromAccount }, "to_account"},
		{"missing from", func(t *model.Transaction) { t.FromAccount = 0 }, "from_account"},
		{"missing date", func(t *model.Transaction) { t.Date = time.Time{} }, "date"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			txn := validTxn()
			tt.mutate(&txn)
			err := ValidateTransaction(txn, nil)
			require.Error(t, err)
			assert.True(t, errors.Is(err, model.ErrValidation))

			var verrs model.ValidationErrors
			require.True(t, errors.As(err, &verrs))
			assert.Equal(t, tt.field, verrs[0].Field)
		})
	}
}

func TestValidateTransaction_CollectsAll(t *testing.T) {
	err := ValidateTransaction(model.Transaction{FromAccount: 3, ToAccount: 3}, nil)
	var verrs model.ValidationErrors
	require.True(t, errors.As(err, &verrs))
	assert.Len(t, verrs, 3)
}

func TestValidateTransaction_YearDates(t *testing.T) {
	year := model.FinancialYear{
		Label: "2025-26",
		Start: testutil.Date(2025, 4, 1),
		End:   testutil.Date(2026, 3, 31),
	}

	txn := validTxn()
	txn.Date = year.End
	assert.NoError(t, ValidateTransaction(txn, &year))

	txn.Date = testutil.Date(2026, 4, 1)
	err := ValidateTransaction(txn, &year)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "outside financial year 2025-26")

	assert.NoError(t, ValidateTransaction(txn, nil))
}
