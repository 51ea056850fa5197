package domain

// AccountRole is a placeholder account type: an abstract role a posting rule
// refers to, resolved per product (or organization-wide) to a concrete
// GLAccount. Role values are scoped by ProductType; values of 100 and above
// denote organization-level financial activities shared by every product.
type AccountRole int

// Loan placeholder roles. The receivable/charge-off roles only exist under
// accrual accounting but share the numbering space so fund-source and
// income placeholders line up between the two bases.
const (
	LoanFundSource AccountRole = iota + 1
	LoanPortfolio
	LoanInterestIncome
	LoanFeeIncome
	LoanPenaltyIncome
	LoanLossesWrittenOff
	LoanRecoveryIncome
	LoanOverpayment
	LoanTransfersSuspense
	LoanGoodwillCreditExpense
	LoanInterestReceivable
	LoanFeesReceivable
	LoanPenaltiesReceivable
	LoanGoodwillCreditInterestIncome
	LoanGoodwillCreditFeesIncome
	LoanGoodwillCreditPenaltyIncome
	LoanChargeOffExpense
	LoanChargeOffFraudExpense
	LoanChargeOffInterestIncome
	LoanChargeOffFeesIncome
	LoanChargeOffPenaltyIncome
)

// Savings placeholder roles.
const (
	SavingsReference AccountRole = iota + 1
	SavingsControl
	SavingsInterestExpense
	SavingsFeeIncome
	SavingsPenaltyIncome
	SavingsTransfersSuspense
	SavingsOverdraftControl
	SavingsOverdraftInterestIncome
	SavingsLossesWrittenOff
	SavingsEscheatLiability
	SavingsFeesReceivable
	SavingsPenaltiesReceivable
	SavingsInterestPayable
)

// Share placeholder roles.
const (
	SharesReference AccountRole = iota + 1
	SharesSuspense
	SharesEquity
	SharesFeeIncome
)

// Organization-level financial activities. These occupy the 100+ range so a
// role value alone distinguishes a per-product mapping from an
// organization-wide one, as the posting rules mix both freely.
const (
	ActivityAssetTransfer     AccountRole = 100
	ActivityAssetFundSource   AccountRole = 103
	ActivityLiabilityTransfer AccountRole = 200
	ActivityPayableDividends  AccountRole = 201
)

// IsFinancialActivity reports whether this role resolves through the
// organization-wide financial activity mappings rather than a product mapping.
func (r AccountRole) IsFinancialActivity() bool {
	return r >= 100
}

// FinancialActivityAccount maps a financial activity to its GL account.
type FinancialActivityAccount struct {
	FinancialActivityAccountID int64       `json:"financialActivityAccountID"`
	Activity                   AccountRole `json:"activity"`
	GLAccountID                int64       `json:"glAccountID"`
}

// ProductType scopes product-to-account mappings.
type ProductType string

const (
	ProductLoan    ProductType = "LOAN"
	ProductSavings ProductType = "SAVING"
	ProductShares  ProductType = "SHARES"
)

// ProductToGLAccountMapping links (product, role) to a concrete GL account.
// PaymentTypeID or ChargeID is set on refinement rows that override the core
// mapping for specific payment channels or charges.
type ProductToGLAccountMapping struct {
	MappingID     int64       `json:"mappingID"`
	ProductID     int64       `json:"productID"`
	ProductType   ProductType `json:"productType"`
	Role          AccountRole `json:"role"`
	PaymentTypeID *int64      `json:"paymentTypeID,omitempty"`
	ChargeID      *int64      `json:"chargeID,omitempty"`
	GLAccountID   int64       `json:"glAccountID"`
}

// Refinement names the lookup strategies a role may be narrowed by.
// Only fund-source/reference roles honour payment-channel refinements and
// only fee/penalty income roles honour charge refinements; this precedence
// table is part of the account-resolution contract.
type Refinement int

const (
	RefineNone Refinement = iota
	RefineByPaymentType
	RefineByCharge
)

var refinableRoles = map[ProductType]map[AccountRole]Refinement{
	ProductLoan: {
		LoanFundSource:    RefineByPaymentType,
		LoanFeeIncome:     RefineByCharge,
		LoanPenaltyIncome: RefineByCharge,
	},
	ProductSavings: {
		SavingsReference:     RefineByPaymentType,
		SavingsFeeIncome:     RefineByCharge,
		SavingsPenaltyIncome: RefineByCharge,
	},
	ProductShares: {
		SharesReference: RefineByPaymentType,
		SharesFeeIncome: RefineByCharge,
	},
}

// RefinementFor returns the refinement strategy a role supports for the given
// product family, RefineNone when the core mapping is authoritative.
func (r AccountRole) RefinementFor(productType ProductType) Refinement {
	if r.IsFinancialActivity() {
		return RefineNone
	}
	return refinableRoles[productType][r]
}
