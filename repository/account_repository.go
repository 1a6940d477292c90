package repository

import (
	"database/sql"
	"go-ledger-api/logger"
	"go-ledger-api/model"

	"github.com/sirupsen/logrus"
)

// IAccountRepository defines the contract for account database operations.
type IAccountRepository interface {
	CreateAccount(account *model.Account) error
	GetAccountByID(id int) (*model.Account, error)
	GetAllAccounts() ([]*model.Account, error)
	BankAccountNumberExists(bankName, bankAccountNumber string) (bool, error)
	UpdateAccount(id int, req model.UpdateAccountRequest) (*model.Account, error)
	DeleteAccount(id int) error
	GetAccountForUpdate(tx *sql.Tx, accountID int) (*model.Account, error)
	UpdateAccountBalance(tx *sql.Tx, accountID int, newBalance int64) error
}

// AccountRepository implements IAccountRepository.
type AccountRepository struct {
	DB *sql.DB
}

func NewAccountRepository(db *sql.DB) *AccountRepository {
	return &AccountRepository{DB: db}
}

// CreateAccount adds a new account to the database.
func (r *AccountRepository) CreateAccount(account *model.Account) error {
	log := logger.Log.WithFields(logrus.Fields{
		"user_id":             account.UserID,
		"bank_name":           account.BankName,
		"bank_account_number": account.BankAccountNumber,
	})
	log.Info("Executing query to create a new account")

	query := `INSERT INTO accounts (user_id, bank_name, bank_account_number, balance) VALUES ($1, $2, $3, $4) RETURNING id, created_at`
	err := r.DB.QueryRow(query, account.UserID, account.BankName, account.BankAccountNumber, account.Balance).Scan(&account.ID, &account.CreatedAt)
	if err != nil {
		log.WithError(err).Error("Failed to execute create account query")
		return err
	}
	return nil
}

func (r *AccountRepository) GetAccountByID(id int) (*model.Account, error) {
	account := &model.Account{}
	query := `SELECT id, user_id, bank_name, bank_account_number, balance, created_at FROM accounts WHERE id = $1`
	err := r.DB.QueryRow(query, id).Scan(&account.ID, &account.UserID, &account.BankName, &account.BankAccountNumber, &account.Balance, &account.CreatedAt)
	if err != nil {
		return nil, err
	}
	return account, nil
}

// GetAllAccounts retrieves all accounts in insertion order.
func (r *AccountRepository) GetAllAccounts() ([]*model.Account, error) {
	log := logger.Log
	log.Info("Executing query to get all accounts")

	query := `SELECT id, user_id, bank_name, bank_account_number, balance, created_at FROM accounts ORDER BY id`
	rows, err := r.DB.Query(query)
	if err != nil {
		log.WithError(err).Error("Failed to execute query for all accounts")
		return nil, err
	}
	defer rows.Close()

	var accounts []*model.Account
	for rows.Next() {
		var acc model.Account
		if err := rows.Scan(&acc.ID, &acc.UserID, &acc.BankName, &acc.BankAccountNumber, &acc.Balance, &acc.CreatedAt); err != nil {
			log.WithError(err).Error("Failed to scan account row")
			return nil, err
		}
		accounts = append(accounts, &acc)
	}
	return accounts, rows.Err()
}

// BankAccountNumberExists reports whether any account already uses the
// (bank_name, bank_account_number) pair, regardless of owner.
func (r *AccountRepository) BankAccountNumberExists(bankName, bankAccountNumber string) (bool, error) {
	var exists int
	query := `SELECT 1 FROM accounts WHERE bank_name = $1 AND bank_account_number = $2 LIMIT 1`
	err := r.DB.QueryRow(query, bankName, bankAccountNumber).Scan(&exists)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// UpdateAccount applies a partial update in one conditional statement. Absent
// fields keep their stored values, and the balance column is only written when
// explicitly provided, so the update never overwrites a concurrent transfer's
// result with a stale balance.
func (r *AccountRepository) UpdateAccount(id int, req model.UpdateAccountRequest) (*model.Account, error) {
	log := logger.Log.WithField("account_id", id)
	log.Info("Executing query to update account")

	account := &model.Account{}
	query := `
		UPDATE accounts
		SET bank_name = COALESCE($1, bank_name),
		    bank_account_number = COALESCE($2, bank_account_number),
		    balance = COALESCE($3, balance)
		WHERE id = $4
		RETURNING id, user_id, bank_name, bank_account_number, balance, created_at`
	err := r.DB.QueryRow(query, req.BankName, req.BankAccountNumber, req.Balance, id).Scan(
		&account.ID, &account.UserID, &account.BankName, &account.BankAccountNumber, &account.Balance, &account.CreatedAt,
	)
	if err != nil {
		if err != sql.ErrNoRows && !IsUniqueViolation(err) {
			log.WithError(err).Error("Failed to execute update account query")
		}
		return nil, err
	}
	return account, nil
}

// DeleteAccount removes an account. Ledger rows RESTRICT the delete,
// surfacing as a foreign-key violation.
func (r *AccountRepository) DeleteAccount(id int) error {
	log := logger.Log.WithField("account_id", id)
	log.Info("Executing query to delete account")

	result, err := r.DB.Exec(`DELETE FROM accounts WHERE id = $1`, id)
	if err != nil {
		if !IsForeignKeyViolation(err) {
			log.WithError(err).Error("Failed to execute delete account query")
		}
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// GetAccountForUpdate locks the account row for the duration of the enclosing
// database transaction. Transfers rely on this to serialize with any other
// transfer touching the same row.
func (r *AccountRepository) GetAccountForUpdate(tx *sql.Tx, accountID int) (*model.Account, error) {
	log := logger.Log.WithField("account_id", accountID)
	log.Info("Executing query to get account for update")

	account := &model.Account{}
	query := `SELECT id, user_id, bank_name, bank_account_number, balance FROM accounts WHERE id = $1 FOR UPDATE`
	err := tx.QueryRow(query, accountID).Scan(&account.ID, &account.UserID, &account.BankName, &account.BankAccountNumber, &account.Balance)
	if err != nil {
		if err == sql.ErrNoRows {
			log.Info("Account not found for update")
		} else {
			log.WithError(err).Error("Failed to execute get account for update query")
		}
		return nil, err
	}
	return account, nil
}

func (r *AccountRepository) UpdateAccountBalance(tx *sql.Tx, accountID int, newBalance int64) error {
	log := logger.Log.WithFields(logrus.Fields{
		"account_id":  accountID,
		"new_balance": newBalance,
	})
	log.Info("Executing query to update account balance")

	query := `UPDATE accounts SET balance = $1 WHERE id = $2`
	_, err := tx.Exec(query, newBalance, accountID)
	if err != nil {
		log.WithError(err).Error("Failed to execute update account balance query")
		return err
	}
	return nil
}
