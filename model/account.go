package model

import "time"

// Account balances are integers in the smallest currency unit. The pair
// (bank_name, bank_account_number) is unique across all accounts.
type Account struct {
	ID                int       `json:"id"`
	UserID            int       `json:"user_id"`
	BankName          string    `json:"bank_name"`
	BankAccountNumber string    `json:"bank_account_number"`
	Balance           int64     `json:"balance"`
	CreatedAt         time.Time `json:"created_at"`
}
