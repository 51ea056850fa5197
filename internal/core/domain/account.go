package domain

// GLAccountType defines the fundamental accounting classification of a ledger account.
type GLAccountType string

const (
	Asset     GLAccountType = "ASSET"
	Liability GLAccountType = "LIABILITY"
	Equity    GLAccountType = "EQUITY"
	Income    GLAccountType = "INCOME"
	Expense   GLAccountType = "EXPENSE"
)

// IsIncreasedBy reports whether an entry of the given type grows a balance
// held on an account of this classification. Debits grow ASSET/EXPENSE,
// credits grow LIABILITY/EQUITY/INCOME.
func (t GLAccountType) IsIncreasedBy(entryType JournalEntryType) bool {
	switch t {
	case Asset, Expense:
		return entryType == Debit
	case Liability, Equity, Income:
		return entryType == Credit
	}
	return false
}

// GLAccount is a general-ledger account.
type GLAccount struct {
	GLAccountID          int64         `json:"glAccountID"`
	Name                 string        `json:"name"`
	GLCode               string        `json:"glCode"`
	Classification       GLAccountType `json:"classification"`
	Disabled             bool          `json:"disabled"`
	ManualEntriesAllowed bool          `json:"manualEntriesAllowed"`
}
