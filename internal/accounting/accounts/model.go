package accounts

// AccountType enumerates the five chart-of-accounts classes.
type AccountType string

const (
	AccountTypeAsset     AccountType = "ASSET"
	AccountTypeLiability AccountType = "LIABILITY"
	AccountTypeEquity    AccountType = "EQUITY"
	AccountTypeIncome    AccountType = "INCOME"
	AccountTypeExpense   AccountType = "EXPENSE"
)

// Account is immutable reference data seeded once; postings look it up by code.
type Account struct {
	ID   int64
	Code string
	Name string
	Type AccountType
}

// Well-known codes the posting pipelines target. They must match the seeded chart.
const (
	CodeCash               = "1.01"
	CodeMerchandise        = "1.02"
	CodeSuppliers          = "2.01"
	CodeCapital            = "3.01"
	CodePeriodResult       = "3.02"
	CodeAccumulatedResults = "3.03"
	CodeSales              = "4.01"
	CodeCOGS               = "5.01"
)
