package journals

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/lucero-pos/lucero-pos/internal/accounting/shared"
)

// EntryKind enumerates journal entry lifecycle roles.
type EntryKind string

const (
	// EntryKindOpening records the till float when a cash session opens.
	EntryKindOpening EntryKind = "OPENING"
	// EntryKindNormal is any regular business posting.
	EntryKindNormal EntryKind = "NORMAL"
	// EntryKindConsolidation zeroes income and expense accounts at period close.
	EntryKindConsolidation EntryKind = "CONSOLIDATION"
	// EntryKindClosing rolls the period result into accumulated results.
	EntryKindClosing EntryKind = "CLOSING"
)

// JournalEntry captures posting metadata and owns its lines.
type JournalEntry struct {
	ID           int64
	Date         time.Time
	Description  string
	Kind         EntryKind
	SourceModule string
	SourceID     int64
	CreatedAt    time.Time
	Lines        []EntryLine
}

// EntryLine stores a debit or credit amount against one account.
type EntryLine struct {
	ID          int64
	EntryID     int64
	AccountID   int64
	AccountCode string
	AccountName string
	Debit       decimal.Decimal
	Credit      decimal.Decimal
}

// LineInput describes a journal line for a posting request. Accounts are
// referenced by chart code; resolution happens inside the posting transaction.
type LineInput struct {
	AccountCode string
	Debit       decimal.Decimal
	Credit      decimal.Decimal
}

// PostingInput groups fields required to create a journal entry.
type PostingInput struct {
	Date         time.Time
	Description  string
	Kind         EntryKind
	SourceModule string
	SourceID     int64
	Lines        []LineInput
}

// Validate ensures posting input meets minimum criteria. Balance is enforced
// at write time: an unbalanced input never reaches the database.
func (in PostingInput) Validate() error {
	if len(in.Lines) < 2 {
		return shared.ErrTooFewLines
	}
	debit := decimal.Zero
	credit := decimal.Zero
	for idx, line := range in.Lines {
		if line.AccountCode == "" {
			return fmt.Errorf("accounting: line %d missing account code", idx)
		}
		if line.Debit.IsNegative() || line.Credit.IsNegative() {
			return fmt.Errorf("accounting: line %d negative amount", idx)
		}
		if line.Debit.IsPositive() && line.Credit.IsPositive() {
			return fmt.Errorf("accounting: line %d cannot be both debit and credit", idx)
		}
		debit = debit.Add(line.Debit)
		credit = credit.Add(line.Credit)
	}
	if !debit.Round(2).Equal(credit.Round(2)) {
		return shared.ErrUnbalanced
	}
	return nil
}

// IsBalanced reports whether a persisted entry's lines sum to equal sides.
// Used by the integrity sweep; correct write paths make this always true.
func (e JournalEntry) IsBalanced() bool {
	debit := decimal.Zero
	credit := decimal.Zero
	for _, line := range e.Lines {
		debit = debit.Add(line.Debit)
		credit = credit.Add(line.Credit)
	}
	return debit.Equal(credit)
}

// ListFilter narrows the journal listing.
type ListFilter struct {
	From  time.Time
	To    time.Time
	Kind  EntryKind
	Limit int
}
