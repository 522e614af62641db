package shared

import "errors"

var (
	// ErrUnbalanced indicates debit != credit.
	ErrUnbalanced = errors.New("accounting: journal lines must balance")
	// ErrTooFewLines indicates less than two lines.
	ErrTooFewLines = errors.New("accounting: journal requires at least two lines")
	// ErrMissingAccount indicates a chart-of-accounts code is not configured.
	// This is a setup problem, not bad posting data: the operator must seed the
	// chart before any document can post.
	ErrMissingAccount = errors.New("accounting: account code not configured")
	// ErrJournalNotFound indicates missing entry.
	ErrJournalNotFound = errors.New("accounting: journal entry not found")
)
