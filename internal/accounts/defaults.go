package accounts

import "github.com/cleared-dev/ledger/internal/model"

// DefaultGroups returns the groups every new ledger starts with.
func DefaultGroups() []model.Group {
	return []model.Group{
		{Name: "Assets", Category: model.CategoryAsset},
		{Name: "Liabilities", Category: model.CategoryLiability},
		{Name: "Income", Category: model.CategoryIncome},
		{Name: "Expenses", Category: model.CategoryExpense},
		{Name: "Equity", Category: model.CategoryEquity},
	}
}

// DefaultChart returns the starter accounts, keyed to DefaultGroups by name.
func DefaultChart() []ChartRow {
	return []ChartRow{
		{Name: "Cash", Group: "Assets"},
		{Name: "Bank", Group: "Assets"},
		{Name: "Sales Income", Group: "Income"},
		{Name: "Office Expenses", Group: "Expenses"},
		{Name: "Salary Expense", Group: "Expenses"},
		{Name: "Opening Balance Equity", Group: "Equity"},
	}
}
