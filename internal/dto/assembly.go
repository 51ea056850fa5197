package dto

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// The accounting bridge hands over one flat key-value snapshot per portfolio
// event. The assembly functions below turn that snapshot into the typed DTOs
// the posting engines consume, failing fast on malformed payloads so a bad
// bridge message never reaches the rule engine.

const bridgeDateLayout = "2006-01-02"

func bridgeString(m map[string]interface{}, key string) (string, error) {
	v, ok := m[key]
	if !ok || v == nil {
		return "", fmt.Errorf("bridge data missing %q", key)
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("bridge data %q: expected string, got %T", key, v)
	}
	return s, nil
}

func bridgeBool(m map[string]interface{}, key string) bool {
	b, _ := m[key].(bool)
	return b
}

func bridgeInt64(m map[string]interface{}, key string) (int64, error) {
	v, ok := m[key]
	if !ok || v == nil {
		return 0, fmt.Errorf("bridge data missing %q", key)
	}
	return toInt64(v, key)
}

func bridgeOptInt64(m map[string]interface{}, key string) (*int64, error) {
	v, ok := m[key]
	if !ok || v == nil {
		return nil, nil
	}
	n, err := toInt64(v, key)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func toInt64(v interface{}, key string) (int64, error) {
	switch n := v.(type) {
	case int64:
		return n, nil
	case int:
		return int64(n), nil
	case float64:
		return int64(n), nil
	case json.Number:
		return n.Int64()
	case string:
		var id int64
		if _, err := fmt.Sscan(n, &id); err != nil {
			return 0, fmt.Errorf("bridge data %q: %w", key, err)
		}
		return id, nil
	default:
		return 0, fmt.Errorf("bridge data %q: expected number, got %T", key, v)
	}
}

// bridgeAmount is lenient about the wire representation: the bridge may send
// amounts as JSON numbers or as strings to preserve scale.
func bridgeAmount(m map[string]interface{}, key string) (decimal.Decimal, error) {
	v, ok := m[key]
	if !ok || v == nil {
		return decimal.Zero, nil
	}
	switch a := v.(type) {
	case float64:
		return decimal.NewFromFloat(a), nil
	case string:
		d, err := decimal.NewFromString(a)
		if err != nil {
			return decimal.Zero, fmt.Errorf("bridge data %q: %w", key, err)
		}
		return d, nil
	case json.Number:
		d, err := decimal.NewFromString(a.String())
		if err != nil {
			return decimal.Zero, fmt.Errorf("bridge data %q: %w", key, err)
		}
		return d, nil
	default:
		return decimal.Zero, fmt.Errorf("bridge data %q: expected amount, got %T", key, v)
	}
}

func bridgeDate(m map[string]interface{}, key string) (time.Time, error) {
	s, err := bridgeString(m, key)
	if err != nil {
		return time.Time{}, err
	}
	d, err := time.Parse(bridgeDateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("bridge data %q: %w", key, err)
	}
	return d, nil
}

func bridgeMaps(m map[string]interface{}, key string) ([]map[string]interface{}, error) {
	v, ok := m[key]
	if !ok || v == nil {
		return nil, nil
	}
	raw, ok := v.([]interface{})
	if !ok {
		return nil, fmt.Errorf("bridge data %q: expected list, got %T", key, v)
	}
	out := make([]map[string]interface{}, 0, len(raw))
	for _, item := range raw {
		entry, ok := item.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("bridge data %q: expected object element, got %T", key, item)
		}
		out = append(out, entry)
	}
	return out, nil
}

func assembleChargePayments(maps []map[string]interface{}) ([]ChargePayment, error) {
	if len(maps) == 0 {
		return nil, nil
	}
	payments := make([]ChargePayment, 0, len(maps))
	for _, m := range maps {
		chargeID, err := bridgeInt64(m, "chargeId")
		if err != nil {
			return nil, err
		}
		instanceID, _ := bridgeOptInt64(m, "chargeInstanceId")
		amount, err := bridgeAmount(m, "amount")
		if err != nil {
			return nil, err
		}
		p := ChargePayment{ChargeID: chargeID, Amount: amount}
		if instanceID != nil {
			p.ChargeInstanceID = *instanceID
		}
		payments = append(payments, p)
	}
	return payments, nil
}

// AssembleLoanDTO converts one flat loan bridge snapshot into a LoanDTO.
func AssembleLoanDTO(bridge map[string]interface{}) (*LoanDTO, error) {
	loanID, err := bridgeInt64(bridge, "loanId")
	if err != nil {
		return nil, err
	}
	productID, err := bridgeInt64(bridge, "loanProductId")
	if err != nil {
		return nil, err
	}
	officeID, err := bridgeInt64(bridge, "officeId")
	if err != nil {
		return nil, err
	}
	currencyCode, err := bridgeString(bridge, "currencyCode")
	if err != nil {
		return nil, err
	}

	d := &LoanDTO{
		LoanID:                         loanID,
		ProductID:                      productID,
		OfficeID:                       officeID,
		CurrencyCode:                   currencyCode,
		CashBasedAccounting:            bridgeBool(bridge, "cashBasedAccountingEnabled"),
		UpfrontAccrualBasedAccounting:  bridgeBool(bridge, "upfrontAccrualBasedAccountingEnabled"),
		PeriodicAccrualBasedAccounting: bridgeBool(bridge, "periodicAccrualBasedAccountingEnabled"),
		MarkedAsChargeOff:              bridgeBool(bridge, "isChargeOff"),
		MarkedAsFraud:                  bridgeBool(bridge, "isFraud"),
	}

	txnMaps, err := bridgeMaps(bridge, "newLoanTransactions")
	if err != nil {
		return nil, err
	}
	for _, m := range txnMaps {
		txn, err := assembleLoanTransaction(m)
		if err != nil {
			return nil, err
		}
		d.NewTransactions = append(d.NewTransactions, *txn)
	}
	return d, nil
}

func assembleLoanTransaction(m map[string]interface{}) (*LoanTransaction, error) {
	id, err := bridgeString(m, "id")
	if err != nil {
		return nil, err
	}
	officeID, err := bridgeInt64(m, "officeId")
	if err != nil {
		return nil, err
	}
	date, err := bridgeDate(m, "date")
	if err != nil {
		return nil, err
	}
	typ, err := bridgeString(m, "type")
	if err != nil {
		return nil, err
	}
	paymentTypeID, err := bridgeOptInt64(m, "paymentTypeId")
	if err != nil {
		return nil, err
	}

	txn := &LoanTransaction{
		TransactionID:      id,
		OfficeID:           officeID,
		PaymentTypeID:      paymentTypeID,
		Date:               date,
		Type:               LoanTransactionType(typ),
		Reversed:           bridgeBool(m, "reversed"),
		AccountTransfer:    bridgeBool(m, "accountTransfer"),
		LoanToLoanTransfer: bridgeBool(m, "loanToLoanTransfer"),
	}
	for key, dst := range map[string]*decimal.Decimal{
		"amount":         &txn.Amount,
		"principal":      &txn.Principal,
		"interest":       &txn.Interest,
		"feeCharges":     &txn.Fees,
		"penaltyCharges": &txn.Penalties,
		"overPayment":    &txn.Overpayment,
		"principalPaid":  &txn.PrincipalPaid,
		"feePaid":        &txn.FeePaid,
		"penaltyPaid":    &txn.PenaltyPaid,
	} {
		if *dst, err = bridgeAmount(m, key); err != nil {
			return nil, err
		}
	}
	if s, ok := m["chargeRefundChargeType"].(string); ok {
		txn.ChargeRefundChargeType = s
	}

	feeMaps, err := bridgeMaps(m, "feePayments")
	if err != nil {
		return nil, err
	}
	if txn.FeePayments, err = assembleChargePayments(feeMaps); err != nil {
		return nil, err
	}
	penaltyMaps, err := bridgeMaps(m, "penaltyPayments")
	if err != nil {
		return nil, err
	}
	if txn.PenaltyPayments, err = assembleChargePayments(penaltyMaps); err != nil {
		return nil, err
	}

	if raw, ok := m["loanChargeData"].(map[string]interface{}); ok {
		chargeID, err := bridgeInt64(raw, "chargeId")
		if err != nil {
			return nil, err
		}
		txn.ChargeData = &LoanChargeData{ChargeID: chargeID, Penalty: bridgeBool(raw, "penalty")}
	}
	return txn, nil
}

// AssembleSavingsDTO converts one flat savings bridge snapshot into a SavingsDTO.
func AssembleSavingsDTO(bridge map[string]interface{}) (*SavingsDTO, error) {
	savingsID, err := bridgeInt64(bridge, "savingsId")
	if err != nil {
		return nil, err
	}
	productID, err := bridgeInt64(bridge, "savingsProductId")
	if err != nil {
		return nil, err
	}
	officeID, err := bridgeInt64(bridge, "officeId")
	if err != nil {
		return nil, err
	}
	currencyCode, err := bridgeString(bridge, "currencyCode")
	if err != nil {
		return nil, err
	}

	d := &SavingsDTO{
		SavingsID:              savingsID,
		ProductID:              productID,
		OfficeID:               officeID,
		CurrencyCode:           currencyCode,
		CashBasedAccounting:    bridgeBool(bridge, "cashBasedAccountingEnabled"),
		AccrualBasedAccounting: bridgeBool(bridge, "accrualBasedAccountingEnabled"),
	}

	txnMaps, err := bridgeMaps(bridge, "newSavingsTransactions")
	if err != nil {
		return nil, err
	}
	for _, m := range txnMaps {
		txn, err := assembleSavingsTransaction(m)
		if err != nil {
			return nil, err
		}
		d.NewTransactions = append(d.NewTransactions, *txn)
	}
	return d, nil
}

func assembleSavingsTransaction(m map[string]interface{}) (*SavingsTransaction, error) {
	id, err := bridgeString(m, "id")
	if err != nil {
		return nil, err
	}
	officeID, err := bridgeInt64(m, "officeId")
	if err != nil {
		return nil, err
	}
	date, err := bridgeDate(m, "date")
	if err != nil {
		return nil, err
	}
	typ, err := bridgeString(m, "type")
	if err != nil {
		return nil, err
	}
	paymentTypeID, err := bridgeOptInt64(m, "paymentTypeId")
	if err != nil {
		return nil, err
	}

	txn := &SavingsTransaction{
		TransactionID:        id,
		OfficeID:             officeID,
		PaymentTypeID:        paymentTypeID,
		Date:                 date,
		Type:                 SavingsTransactionType(typ),
		Reversed:             bridgeBool(m, "reversed"),
		AccountTransfer:      bridgeBool(m, "accountTransfer"),
		OverdraftTransaction: bridgeBool(m, "isOverdraftTransaction"),
		PenaltyCharge:        bridgeBool(m, "isPenaltyCharge"),
	}
	if txn.Amount, err = bridgeAmount(m, "amount"); err != nil {
		return nil, err
	}
	if txn.OverdraftAmount, err = bridgeAmount(m, "overdraftAmount"); err != nil {
		return nil, err
	}

	chargeMaps, err := bridgeMaps(m, "savingsChargesPaid")
	if err != nil {
		return nil, err
	}
	if txn.ChargePayments, err = assembleChargePayments(chargeMaps); err != nil {
		return nil, err
	}

	taxMaps, err := bridgeMaps(m, "taxDetails")
	if err != nil {
		return nil, err
	}
	for _, taxMap := range taxMaps {
		creditAccountID, err := bridgeInt64(taxMap, "creditAccountId")
		if err != nil {
			return nil, err
		}
		amount, err := bridgeAmount(taxMap, "amount")
		if err != nil {
			return nil, err
		}
		txn.TaxPayments = append(txn.TaxPayments, TaxPayment{CreditAccountID: creditAccountID, Amount: amount})
	}
	return txn, nil
}

// AssembleSharesDTO converts one flat shares bridge snapshot into a SharesDTO.
func AssembleSharesDTO(bridge map[string]interface{}) (*SharesDTO, error) {
	shareAccountID, err := bridgeInt64(bridge, "shareAccountId")
	if err != nil {
		return nil, err
	}
	productID, err := bridgeInt64(bridge, "shareProductId")
	if err != nil {
		return nil, err
	}
	officeID, err := bridgeInt64(bridge, "officeId")
	if err != nil {
		return nil, err
	}
	currencyCode, err := bridgeString(bridge, "currencyCode")
	if err != nil {
		return nil, err
	}

	d := &SharesDTO{
		ShareAccountID:      shareAccountID,
		ProductID:           productID,
		OfficeID:            officeID,
		CurrencyCode:        currencyCode,
		CashBasedAccounting: bridgeBool(bridge, "cashBasedAccountingEnabled"),
	}

	txnMaps, err := bridgeMaps(bridge, "newShareTransactions")
	if err != nil {
		return nil, err
	}
	for _, m := range txnMaps {
		id, err := bridgeString(m, "id")
		if err != nil {
			return nil, err
		}
		officeID, err := bridgeInt64(m, "officeId")
		if err != nil {
			return nil, err
		}
		date, err := bridgeDate(m, "date")
		if err != nil {
			return nil, err
		}
		typ, err := bridgeString(m, "type")
		if err != nil {
			return nil, err
		}
		status, err := bridgeString(m, "status")
		if err != nil {
			return nil, err
		}
		paymentTypeID, err := bridgeOptInt64(m, "paymentTypeId")
		if err != nil {
			return nil, err
		}
		txn := SharesTransaction{
			TransactionID: id,
			OfficeID:      officeID,
			PaymentTypeID: paymentTypeID,
			Date:          date,
			Type:          SharesTransactionType(typ),
			Status:        SharesTransactionStatus(status),
			Reversed:      bridgeBool(m, "reversed"),
		}
		if txn.Amount, err = bridgeAmount(m, "amount"); err != nil {
			return nil, err
		}
		if txn.ChargeAmount, err = bridgeAmount(m, "chargeAmount"); err != nil {
			return nil, err
		}
		chargeMaps, err := bridgeMaps(m, "chargesPaid")
		if err != nil {
			return nil, err
		}
		if txn.ChargePayments, err = assembleChargePayments(chargeMaps); err != nil {
			return nil, err
		}
		d.NewTransactions = append(d.NewTransactions, txn)
	}
	return d, nil
}

// AssembleClientTransactionDTO converts one flat client bridge snapshot into
// a ClientTransactionDTO.
func AssembleClientTransactionDTO(bridge map[string]interface{}) (*ClientTransactionDTO, error) {
	clientID, err := bridgeInt64(bridge, "clientId")
	if err != nil {
		return nil, err
	}
	officeID, err := bridgeInt64(bridge, "officeId")
	if err != nil {
		return nil, err
	}
	currencyCode, err := bridgeString(bridge, "currencyCode")
	if err != nil {
		return nil, err
	}
	id, err := bridgeString(bridge, "id")
	if err != nil {
		return nil, err
	}
	date, err := bridgeDate(bridge, "date")
	if err != nil {
		return nil, err
	}
	typ, err := bridgeString(bridge, "type")
	if err != nil {
		return nil, err
	}

	d := &ClientTransactionDTO{
		ClientID:          clientID,
		OfficeID:          officeID,
		CurrencyCode:      currencyCode,
		TransactionID:     id,
		Date:              date,
		Type:              ClientTransactionType(typ),
		Reversed:          bridgeBool(bridge, "reversed"),
		AccountingEnabled: bridgeBool(bridge, "accountingEnabled"),
	}
	if d.Amount, err = bridgeAmount(bridge, "amount"); err != nil {
		return nil, err
	}

	chargeMaps, err := bridgeMaps(bridge, "chargesPaid")
	if err != nil {
		return nil, err
	}
	for _, m := range chargeMaps {
		chargeID, err := bridgeInt64(m, "chargeId")
		if err != nil {
			return nil, err
		}
		incomeAccountID, err := bridgeOptInt64(m, "incomeAccountId")
		if err != nil {
			return nil, err
		}
		amount, err := bridgeAmount(m, "amount")
		if err != nil {
			return nil, err
		}
		d.ChargePayments = append(d.ChargePayments, ClientChargePayment{
			ChargeID:        chargeID,
			IncomeAccountID: incomeAccountID,
			Amount:          amount,
		})
	}
	return d, nil
}
