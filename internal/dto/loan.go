package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// LoanTransactionType is the portfolio category of a loan transaction.
type LoanTransactionType string

const (
	LoanDisbursement          LoanTransactionType = "DISBURSEMENT"
	LoanRepayment             LoanTransactionType = "REPAYMENT"
	LoanRepaymentAtDisbursal  LoanTransactionType = "REPAYMENT_AT_DISBURSEMENT"
	LoanChargePayment         LoanTransactionType = "CHARGE_PAYMENT"
	LoanGoodwillCredit        LoanTransactionType = "GOODWILL_CREDIT"
	LoanMerchantIssuedRefund  LoanTransactionType = "MERCHANT_ISSUED_REFUND"
	LoanPayoutRefund          LoanTransactionType = "PAYOUT_REFUND"
	LoanChargeRefund          LoanTransactionType = "CHARGE_REFUND"
	LoanRecoveryRepayment     LoanTransactionType = "RECOVERY_REPAYMENT"
	LoanWriteOff              LoanTransactionType = "WRITE_OFF"
	LoanWaiveInterest         LoanTransactionType = "WAIVE_INTEREST"
	LoanWaiveCharges          LoanTransactionType = "WAIVE_CHARGES"
	LoanRefund                LoanTransactionType = "REFUND"
	LoanCreditBalanceRefund   LoanTransactionType = "CREDIT_BALANCE_REFUND"
	LoanRefundForActiveLoan   LoanTransactionType = "REFUND_FOR_ACTIVE_LOAN"
	LoanChargeback            LoanTransactionType = "CHARGEBACK"
	LoanChargeAdjustment      LoanTransactionType = "CHARGE_ADJUSTMENT"
	LoanChargeOff             LoanTransactionType = "CHARGE_OFF"
	LoanAccrual               LoanTransactionType = "ACCRUAL"
	LoanInitiateTransfer      LoanTransactionType = "INITIATE_TRANSFER"
	LoanApproveTransfer       LoanTransactionType = "APPROVE_TRANSFER"
	LoanWithdrawTransfer      LoanTransactionType = "WITHDRAW_TRANSFER"
	LoanInterestPaymentWaiver LoanTransactionType = "INTEREST_PAYMENT_WAIVER"
	LoanInterestRefund        LoanTransactionType = "INTEREST_REFUND"
)

func (t LoanTransactionType) IsDisbursement() bool { return t == LoanDisbursement }

// IsRepaymentLike groups the transaction types that follow the repayment
// posting pattern: component credits plus one aggregated debit.
func (t LoanTransactionType) IsRepaymentLike() bool {
	switch t {
	case LoanRepayment, LoanRepaymentAtDisbursal, LoanChargePayment, LoanGoodwillCredit,
		LoanMerchantIssuedRefund, LoanPayoutRefund, LoanChargeRefund,
		LoanInterestPaymentWaiver, LoanInterestRefund:
		return true
	}
	return false
}

func (t LoanTransactionType) IsRecoveryRepayment() bool    { return t == LoanRecoveryRepayment }
func (t LoanTransactionType) IsWriteOff() bool             { return t == LoanWriteOff }
func (t LoanTransactionType) IsWaiveInterest() bool        { return t == LoanWaiveInterest }
func (t LoanTransactionType) IsWaiveCharges() bool         { return t == LoanWaiveCharges }
func (t LoanTransactionType) IsRefund() bool               { return t == LoanRefund }
func (t LoanTransactionType) IsCreditBalanceRefund() bool  { return t == LoanCreditBalanceRefund }
func (t LoanTransactionType) IsRefundForActiveLoan() bool  { return t == LoanRefundForActiveLoan }
func (t LoanTransactionType) IsChargeback() bool           { return t == LoanChargeback }
func (t LoanTransactionType) IsChargeAdjustment() bool     { return t == LoanChargeAdjustment }
func (t LoanTransactionType) IsChargeOff() bool            { return t == LoanChargeOff }
func (t LoanTransactionType) IsAccrual() bool              { return t == LoanAccrual }
func (t LoanTransactionType) IsGoodwillCredit() bool       { return t == LoanGoodwillCredit }
func (t LoanTransactionType) IsMerchantIssuedRefund() bool { return t == LoanMerchantIssuedRefund }
func (t LoanTransactionType) IsPayoutRefund() bool         { return t == LoanPayoutRefund }
func (t LoanTransactionType) IsChargeRefund() bool         { return t == LoanChargeRefund }
func (t LoanTransactionType) IsInitiateTransfer() bool     { return t == LoanInitiateTransfer }
func (t LoanTransactionType) IsApproveTransfer() bool      { return t == LoanApproveTransfer }
func (t LoanTransactionType) IsWithdrawTransfer() bool     { return t == LoanWithdrawTransfer }

// IsTransfer groups the account-transfer lifecycle events.
func (t LoanTransactionType) IsTransfer() bool {
	return t.IsInitiateTransfer() || t.IsApproveTransfer() || t.IsWithdrawTransfer()
}

// ChargePayment is the portion of a transaction amount attributed to one
// charge, used to pick charge-specific income accounts.
type ChargePayment struct {
	ChargeID         int64           `json:"chargeId"`
	ChargeInstanceID int64           `json:"chargeInstanceId"`
	Amount           decimal.Decimal `json:"amount"`
}

// LoanChargeData describes the charge behind a charge adjustment.
type LoanChargeData struct {
	ChargeID int64 `json:"chargeId"`
	Penalty  bool  `json:"penalty"`
}

// LoanTransaction is the immutable snapshot of one loan transaction supplied
// by the accounting bridge.
type LoanTransaction struct {
	TransactionID string              `json:"id"`
	OfficeID      int64               `json:"officeId"`
	PaymentTypeID *int64              `json:"paymentTypeId,omitempty"`
	Date          time.Time           `json:"date"`
	Type          LoanTransactionType `json:"type"`

	Amount      decimal.Decimal `json:"amount"`
	Principal   decimal.Decimal `json:"principal"`
	Interest    decimal.Decimal `json:"interest"`
	Fees        decimal.Decimal `json:"feeCharges"`
	Penalties   decimal.Decimal `json:"penaltyCharges"`
	Overpayment decimal.Decimal `json:"overPayment"`

	// Chargeback reconstruction inputs.
	PrincipalPaid decimal.Decimal `json:"principalPaid"`
	FeePaid       decimal.Decimal `json:"feePaid"`
	PenaltyPaid   decimal.Decimal `json:"penaltyPaid"`

	Reversed        bool            `json:"reversed"`
	FeePayments     []ChargePayment `json:"feePayments,omitempty"`
	PenaltyPayments []ChargePayment `json:"penaltyPayments,omitempty"`

	AccountTransfer        bool            `json:"accountTransfer"`
	LoanToLoanTransfer     bool            `json:"loanToLoanTransfer"`
	ChargeRefundChargeType string          `json:"chargeRefundChargeType,omitempty"` // "F" or "P"
	ChargeData             *LoanChargeData `json:"loanChargeData,omitempty"`
}

// LoanDTO is the bridge snapshot for one loan's newly detected transactions.
type LoanDTO struct {
	LoanID       int64  `json:"loanId"`
	ProductID    int64  `json:"loanProductId"`
	OfficeID     int64  `json:"officeId"`
	CurrencyCode string `json:"currencyCode"`

	CashBasedAccounting            bool `json:"cashBasedAccountingEnabled"`
	UpfrontAccrualBasedAccounting  bool `json:"upfrontAccrualBasedAccountingEnabled"`
	PeriodicAccrualBasedAccounting bool `json:"periodicAccrualBasedAccountingEnabled"`

	MarkedAsChargeOff bool `json:"isChargeOff"`
	MarkedAsFraud     bool `json:"isFraud"`

	NewTransactions []LoanTransaction `json:"newLoanTransactions"`
}

// AccrualBasedAccounting reports whether either accrual flavour is enabled.
func (d *LoanDTO) AccrualBasedAccounting() bool {
	return d.UpfrontAccrualBasedAccounting || d.PeriodicAccrualBasedAccounting
}
