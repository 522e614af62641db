package journals

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/lucero-pos/lucero-pos/internal/accounting/accounts"
	"github.com/lucero-pos/lucero-pos/internal/accounting/shared"
)

func money(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestPostingInputValidate(t *testing.T) {
	base := PostingInput{
		Date:        time.Now(),
		Description: "sale #1",
		Kind:        EntryKindNormal,
		Lines: []LineInput{
			{AccountCode: accounts.CodeCash, Debit: money("100.00")},
			{AccountCode: accounts.CodeSales, Credit: money("100.00")},
		},
	}
	require.NoError(t, base.Validate())

	unbalanced := base
	unbalanced.Lines = []LineInput{
		{AccountCode: accounts.CodeCash, Debit: money("100.00")},
		{AccountCode: accounts.CodeSales, Credit: money("99.99")},
	}
	require.ErrorIs(t, unbalanced.Validate(), shared.ErrUnbalanced)

	short := base
	short.Lines = short.Lines[:1]
	require.ErrorIs(t, short.Validate(), shared.ErrTooFewLines)

	negative := base
	negative.Lines = []LineInput{
		{AccountCode: accounts.CodeCash, Debit: money("-50.00")},
		{AccountCode: accounts.CodeSales, Credit: money("-50.00")},
	}
	require.Error(t, negative.Validate())

	bothSides := base
	bothSides.Lines = []LineInput{
		{AccountCode: accounts.CodeCash, Debit: money("50.00"), Credit: money("50.00")},
		{AccountCode: accounts.CodeSales, Credit: money("0")},
	}
	require.Error(t, bothSides.Validate())

	missingCode := base
	missingCode.Lines = []LineInput{
		{Debit: money("50.00")},
		{AccountCode: accounts.CodeSales, Credit: money("50.00")},
	}
	require.Error(t, missingCode.Validate())
}

func TestInsertEntryTxRejectsUnbalancedInput(t *testing.T) {
	// Validation runs before the transaction is touched, so every pipeline
	// that posts through InsertEntryTx gets the same guarantee.
	in := PostingInput{
		Date:        time.Now(),
		Description: "broken",
		Kind:        EntryKindNormal,
		Lines: []LineInput{
			{AccountCode: accounts.CodeCash, Debit: money("100.00")},
			{AccountCode: accounts.CodeSales, Credit: money("90.00")},
		},
	}
	_, err := InsertEntryTx(context.Background(), nil, in)
	require.ErrorIs(t, err, shared.ErrUnbalanced)
}

func TestIsBalanced(t *testing.T) {
	entry := JournalEntry{Lines: []EntryLine{
		{Debit: money("60.00")},
		{Credit: money("60.00")},
	}}
	require.True(t, entry.IsBalanced())

	entry.Lines = append(entry.Lines, EntryLine{Debit: money("0.01")})
	require.False(t, entry.IsBalanced())
}
