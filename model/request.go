package model

// RegisterRequest defines the payload for creating a new user with their
// identity profile. Validation tags guard data integrity at the entry point.
type RegisterRequest struct {
	Name           string `json:"name" validate:"required,min=2,max=100"`
	Email          string `json:"email" validate:"required,email"`
	Password       string `json:"password" validate:"required,min=8"`
	IdentityType   string `json:"identity_type" validate:"required"`
	IdentityNumber string `json:"identity_number" validate:"required"`
	Address        string `json:"address" validate:"required"`
}

// LoginRequest defines the payload for user authentication.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UpdateUserRequest carries a partial user update. Pointer fields distinguish
// "not sent" (nil) from "sent as zero value", so empty strings are honored.
type UpdateUserRequest struct {
	Name           *string `json:"name" validate:"omitempty,min=2,max=100"`
	Email          *string `json:"email" validate:"omitempty,email"`
	Password       *string `json:"password" validate:"omitempty,min=8"`
	IdentityType   *string `json:"identity_type"`
	IdentityNumber *string `json:"identity_number"`
	Address        *string `json:"address"`
}

// CreateAccountRequest defines the payload for opening a bank account.
type CreateAccountRequest struct {
	UserID            int    `json:"user_id" validate:"required"`
	BankName          string `json:"bank_name" validate:"required"`
	BankAccountNumber string `json:"bank_account_number" validate:"required"`
	Balance           int64  `json:"balance" validate:"gte=0"`
}

// UpdateAccountRequest carries a partial account update. A present
// balance of 0 is a valid administrative reset, hence the pointer.
type UpdateAccountRequest struct {
	BankName          *string `json:"bank_name"`
	BankAccountNumber *string `json:"bank_account_number"`
	Balance           *int64  `json:"balance" validate:"omitempty,gte=0"`
}

// TransferRequest defines the payload for moving funds between two accounts.
type TransferRequest struct {
	SourceAccountID      int   `json:"source_account_id" validate:"required"`
	DestinationAccountID int   `json:"destination_account_id" validate:"required"`
	Amount               int64 `json:"amount" validate:"required,gt=0"`
}
