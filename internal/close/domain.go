// Package close runs the accounting period close: income and expense
// accounts are zeroed into the period result, and the result is rolled into
// accumulated results. Both entries commit in one transaction.
package close

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/lucero-pos/lucero-pos/internal/accounting/accounts"
	"github.com/lucero-pos/lucero-pos/internal/accounting/journals"
)

var (
	// ErrNothingToClose means no income or expense activity in the period.
	ErrNothingToClose = errors.New("close: no activity to close in period")
	// ErrInvalidPeriod rejects an empty or inverted date range.
	ErrInvalidPeriod = errors.New("close: invalid period")
)

// AccountBalance is one account's net movement (debits minus credits) within
// the period being closed.
type AccountBalance struct {
	AccountID int64
	Code      string
	Name      string
	Type      accounts.AccountType
	Net       decimal.Decimal
}

// CloseResult reports what a period close produced.
type CloseResult struct {
	From          time.Time              `json:"from"`
	To            time.Time              `json:"to"`
	Result        decimal.Decimal        `json:"result"`
	Consolidation journals.JournalEntry  `json:"consolidation"`
	Closing       *journals.JournalEntry `json:"closing,omitempty"`
}

// BuildCloseEntries derives the two closing postings from the period's
// income and expense balances.
//
// The consolidation entry reverses each account's net movement: accounts
// with a credit balance (income) are debited, accounts with a debit balance
// (expense) are credited, and the difference lands on the period result
// account. A profit credits the result account; a loss debits it.
//
// The closing entry then moves the period result into accumulated results.
// When the period nets to exactly zero the consolidation still zeroes the
// accounts but no closing entry is produced.
func BuildCloseEntries(balances []AccountBalance, at time.Time) (consolidation journals.PostingInput, closing *journals.PostingInput, result decimal.Decimal, err error) {
	var lines []journals.LineInput
	result = decimal.Zero
	for _, b := range balances {
		if b.Net.IsZero() {
			continue
		}
		if b.Net.IsNegative() {
			// Credit balance, zeroed with a debit.
			lines = append(lines, journals.LineInput{AccountCode: b.Code, Debit: b.Net.Neg()})
			result = result.Add(b.Net.Neg())
		} else {
			lines = append(lines, journals.LineInput{AccountCode: b.Code, Credit: b.Net})
			result = result.Sub(b.Net)
		}
	}
	if len(lines) == 0 {
		return journals.PostingInput{}, nil, decimal.Zero, ErrNothingToClose
	}
	result = result.Round(2)
	switch {
	case result.IsPositive():
		lines = append(lines, journals.LineInput{AccountCode: accounts.CodePeriodResult, Credit: result})
	case result.IsNegative():
		lines = append(lines, journals.LineInput{AccountCode: accounts.CodePeriodResult, Debit: result.Neg()})
	}

	consolidation = journals.PostingInput{
		Date:         at,
		Description:  fmt.Sprintf("Period consolidation as of %s", at.Format("2006-01-02")),
		Kind:         journals.EntryKindConsolidation,
		SourceModule: "close",
		Lines:        lines,
	}
	if err := consolidation.Validate(); err != nil {
		return journals.PostingInput{}, nil, decimal.Zero, err
	}
	if result.IsZero() {
		return consolidation, nil, result, nil
	}

	closingLines := []journals.LineInput{
		{AccountCode: accounts.CodePeriodResult, Debit: result},
		{AccountCode: accounts.CodeAccumulatedResults, Credit: result},
	}
	if result.IsNegative() {
		closingLines = []journals.LineInput{
			{AccountCode: accounts.CodeAccumulatedResults, Debit: result.Neg()},
			{AccountCode: accounts.CodePeriodResult, Credit: result.Neg()},
		}
	}
	closing = &journals.PostingInput{
		Date:         at,
		Description:  fmt.Sprintf("Period close as of %s", at.Format("2006-01-02")),
		Kind:         journals.EntryKindClosing,
		SourceModule: "close",
		Lines:        closingLines,
	}
	if err := closing.Validate(); err != nil {
		return journals.PostingInput{}, nil, decimal.Zero, err
	}
	return consolidation, closing, result, nil
}
