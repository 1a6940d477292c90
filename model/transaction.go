package model

import "time"

// Transaction is an immutable ledger entry for a completed transfer. Rows are
// only ever inserted or administratively deleted, never updated.
type Transaction struct {
	ID                   int       `json:"id"`
	SourceAccountID      int       `json:"source_account_id"`
	DestinationAccountID int       `json:"destination_account_id"`
	Amount               int64     `json:"amount"`
	CreatedAt            time.Time `json:"created_at"`
}

// EnrichedTransaction is the read-side projection of a transaction joined
// with both account legs and their owners.
type EnrichedTransaction struct {
	ID                 int            `json:"id"`
	Amount             int64          `json:"amount"`
	CreatedAt          time.Time      `json:"created_at"`
	SourceAccount      AccountSummary `json:"source_account"`
	DestinationAccount AccountSummary `json:"destination_account"`
}

type AccountSummary struct {
	ID                int         `json:"id"`
	BankName          string      `json:"bank_name"`
	BankAccountNumber string      `json:"bank_account_number"`
	User              UserSummary `json:"user"`
}

type UserSummary struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}
