package close

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/lucero-pos/lucero-pos/internal/accounting/accounts"
	"github.com/lucero-pos/lucero-pos/internal/accounting/journals"
)

func money(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func at() time.Time {
	return time.Date(2025, 6, 30, 23, 59, 59, 0, time.UTC)
}

func TestBuildCloseEntriesProfit(t *testing.T) {
	// Sales credited 500, cost of goods sold debited 300: a 200 profit.
	balances := []AccountBalance{
		{Code: accounts.CodeSales, Type: accounts.AccountTypeIncome, Net: money("-500.00")},
		{Code: accounts.CodeCOGS, Type: accounts.AccountTypeExpense, Net: money("300.00")},
	}
	consolidation, closing, result, err := BuildCloseEntries(balances, at())
	require.NoError(t, err)
	require.True(t, result.Equal(money("200.00")), "result %s", result)

	require.Equal(t, journals.EntryKindConsolidation, consolidation.Kind)
	require.NoError(t, consolidation.Validate())
	require.Len(t, consolidation.Lines, 3)
	require.Equal(t, accounts.CodeSales, consolidation.Lines[0].AccountCode)
	require.True(t, consolidation.Lines[0].Debit.Equal(money("500.00")))
	require.Equal(t, accounts.CodeCOGS, consolidation.Lines[1].AccountCode)
	require.True(t, consolidation.Lines[1].Credit.Equal(money("300.00")))
	require.Equal(t, accounts.CodePeriodResult, consolidation.Lines[2].AccountCode)
	require.True(t, consolidation.Lines[2].Credit.Equal(money("200.00")))

	require.NotNil(t, closing)
	require.Equal(t, journals.EntryKindClosing, closing.Kind)
	require.NoError(t, closing.Validate())
	require.Equal(t, accounts.CodePeriodResult, closing.Lines[0].AccountCode)
	require.True(t, closing.Lines[0].Debit.Equal(money("200.00")))
	require.Equal(t, accounts.CodeAccumulatedResults, closing.Lines[1].AccountCode)
	require.True(t, closing.Lines[1].Credit.Equal(money("200.00")))
}

func TestBuildCloseEntriesLoss(t *testing.T) {
	balances := []AccountBalance{
		{Code: accounts.CodeSales, Type: accounts.AccountTypeIncome, Net: money("-100.00")},
		{Code: accounts.CodeCOGS, Type: accounts.AccountTypeExpense, Net: money("250.00")},
	}
	consolidation, closing, result, err := BuildCloseEntries(balances, at())
	require.NoError(t, err)
	require.True(t, result.Equal(money("-150.00")))

	last := consolidation.Lines[len(consolidation.Lines)-1]
	require.Equal(t, accounts.CodePeriodResult, last.AccountCode)
	require.True(t, last.Debit.Equal(money("150.00")))

	require.NotNil(t, closing)
	require.Equal(t, accounts.CodeAccumulatedResults, closing.Lines[0].AccountCode)
	require.True(t, closing.Lines[0].Debit.Equal(money("150.00")))
	require.Equal(t, accounts.CodePeriodResult, closing.Lines[1].AccountCode)
	require.True(t, closing.Lines[1].Credit.Equal(money("150.00")))
}

func TestBuildCloseEntriesBreakEven(t *testing.T) {
	balances := []AccountBalance{
		{Code: accounts.CodeSales, Type: accounts.AccountTypeIncome, Net: money("-300.00")},
		{Code: accounts.CodeCOGS, Type: accounts.AccountTypeExpense, Net: money("300.00")},
	}
	consolidation, closing, result, err := BuildCloseEntries(balances, at())
	require.NoError(t, err)
	require.True(t, result.IsZero())
	require.Nil(t, closing)
	require.NoError(t, consolidation.Validate())
	require.Len(t, consolidation.Lines, 2)
}

func TestBuildCloseEntriesAfterCloseIsNoOp(t *testing.T) {
	balances := []AccountBalance{
		{Code: accounts.CodeSales, Type: accounts.AccountTypeIncome, Net: money("-500.00")},
		{Code: accounts.CodeCOGS, Type: accounts.AccountTypeExpense, Net: money("300.00")},
	}
	consolidation, _, _, err := BuildCloseEntries(balances, at())
	require.NoError(t, err)

	// Posting the consolidation zeroes each income and expense account; the
	// cumulative balances a second run sees are therefore zero.
	net := map[string]decimal.Decimal{}
	for _, b := range balances {
		net[b.Code] = b.Net
	}
	for _, line := range consolidation.Lines {
		if _, ok := net[line.AccountCode]; ok {
			net[line.AccountCode] = net[line.AccountCode].Add(line.Debit).Sub(line.Credit)
		}
	}
	var after []AccountBalance
	for _, b := range balances {
		b.Net = net[b.Code]
		require.True(t, b.Net.IsZero(), "account %s still carries %s", b.Code, b.Net)
		after = append(after, b)
	}
	_, _, _, err = BuildCloseEntries(after, at())
	require.ErrorIs(t, err, ErrNothingToClose)
}

func TestBuildCloseEntriesNoActivity(t *testing.T) {
	_, _, _, err := BuildCloseEntries(nil, at())
	require.ErrorIs(t, err, ErrNothingToClose)

	zeroOnly := []AccountBalance{{Code: accounts.CodeSales, Type: accounts.AccountTypeIncome, Net: decimal.Zero}}
	_, _, _, err = BuildCloseEntries(zeroOnly, at())
	require.ErrorIs(t, err, ErrNothingToClose)
}
