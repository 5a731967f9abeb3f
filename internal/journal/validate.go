package journal

import (
	"errors"
	"fmt"

	"github.com/cleared-dev/ledger/internal/model"
)

func violation(field, format string, args ...any) *model.ValidationError {
	return &model.ValidationError{Entity: "transaction", Field: field, Message: fmt.Sprintf(format, args...)}
}

// ValidateTransaction checks a transaction's own fields and returns every
// violation found. When year is non-nil the date must also fall inside it.
// References to accounts and years are checked by the Service.
func ValidateTransaction(txn model.Transaction, year *model.FinancialYear) error {
	var errs model.ValidationErrors

	if !txn.Amount.IsPositive() {
		errs = append(errs, violation("amount", "amount must be positive, got %s", txn.Amount))
	} else if _, err := model.ToMinor(txn.Amount); err != nil {
		var ve *model.ValidationError
		if errors.As(err, &ve) {
			errs = append(errs, violation("amount", "%s", ve.Message))
		} else {
			errs = append(errs, violation("amount", "%v", err))
		}
	}

	if txn.FromAccount == 0 {
		errs = append(errs, violation("from_account", "from account is required"))
	}
	if txn.ToAccount == 0 {
		errs = append(errs, violation("to_account", "to account is required"))
	}
	if txn.FromAccount != 0 && txn.FromAccount == txn.ToAccount {
		errs = append(errs, violation("to_account", "from and to accounts must differ"))
	}

	if txn.Date.IsZero() {
		errs = append(errs, violation("date", "date is required"))
	} else if year != nil && !year.Contains(txn.Date) {
		errs = append(errs, violation("date", "date %s is outside financial year %s (%s to %s)",
			txn.Date.Format(model.DateFormat), year.Label,
			year.Start.Format(model.DateFormat), year.End.Format(model.DateFormat)))
	}

	return errs.OrNil()
}
