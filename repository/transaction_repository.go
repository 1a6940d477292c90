package repository

import (
	"database/sql"
	"go-ledger-api/logger"
	"go-ledger-api/model"

	"github.com/sirupsen/logrus"
)

// ITransactionRepository defines the contract for ledger database operations.
// The ledger is append-only: there is deliberately no update method.
type ITransactionRepository interface {
	CreateTransaction(tx *sql.Tx, transaction *model.Transaction) error
	GetTransactionByID(id int) (*model.Transaction, error)
	GetAllTransactions() ([]*model.Transaction, error)
	GetEnrichedTransaction(id int) (*model.EnrichedTransaction, error)
	DeleteTransaction(id int) error
}

// TransactionRepository implements ITransactionRepository.
type TransactionRepository struct {
	DB *sql.DB
}

func NewTransactionRepository(db *sql.DB) *TransactionRepository {
	return &TransactionRepository{DB: db}
}

// CreateTransaction appends a ledger entry inside the caller's database
// transaction, so the append commits or rolls back with the balance updates.
func (r *TransactionRepository) CreateTransaction(tx *sql.Tx, transaction *model.Transaction) error {
	log := logger.Log.WithFields(logrus.Fields{
		"source_account_id":      transaction.SourceAccountID,
		"destination_account_id": transaction.DestinationAccountID,
		"amount":                 transaction.Amount,
	})
	log.Info("Executing query to create a new transaction")

	query := `INSERT INTO transactions (source_account_id, destination_account_id, amount) VALUES ($1, $2, $3) RETURNING id, created_at`
	err := tx.QueryRow(query, transaction.SourceAccountID, transaction.DestinationAccountID, transaction.Amount).Scan(&transaction.ID, &transaction.CreatedAt)
	if err != nil {
		log.WithError(err).Error("Failed to execute create transaction query")
		return err
	}
	return nil
}

func (r *TransactionRepository) GetTransactionByID(id int) (*model.Transaction, error) {
	t := &model.Transaction{}
	query := `SELECT id, source_account_id, destination_account_id, amount, created_at FROM transactions WHERE id = $1`
	err := r.DB.QueryRow(query, id).Scan(&t.ID, &t.SourceAccountID, &t.DestinationAccountID, &t.Amount, &t.CreatedAt)
	if err != nil {
		return nil, err
	}
	return t, nil
}

// GetAllTransactions retrieves the whole ledger, newest first.
func (r *TransactionRepository) GetAllTransactions() ([]*model.Transaction, error) {
	log := logger.Log
	log.Info("Executing query to get all transactions")

	query := `
		SELECT id, source_account_id, destination_account_id, amount, created_at
		FROM transactions
		ORDER BY created_at DESC`
	rows, err := r.DB.Query(query)
	if err != nil {
		log.WithError(err).Error("Failed to execute query for all transactions")
		return nil, err
	}
	defer rows.Close()

	var transactions []*model.Transaction
	for rows.Next() {
		var t model.Transaction
		if err := rows.Scan(&t.ID, &t.SourceAccountID, &t.DestinationAccountID, &t.Amount, &t.CreatedAt); err != nil {
			log.WithError(err).Error("Failed to scan transaction row")
			return nil, err
		}
		transactions = append(transactions, &t)
	}
	return transactions, rows.Err()
}

// GetEnrichedTransaction joins a transaction with both account legs and their
// owners. Deletes are RESTRICTed while ledger rows reference them, so the
// inner joins cannot lose the transaction.
func (r *TransactionRepository) GetEnrichedTransaction(id int) (*model.EnrichedTransaction, error) {
	log := logger.Log.WithField("transaction_id", id)
	log.Info("Executing query to get enriched transaction")

	query := `
		SELECT t.id, t.amount, t.created_at,
		       sa.id, sa.bank_name, sa.bank_account_number,
		       su.id, su.name, su.email,
		       da.id, da.bank_name, da.bank_account_number,
		       du.id, du.name, du.email
		FROM transactions t
		JOIN accounts sa ON sa.id = t.source_account_id
		JOIN users su ON su.id = sa.user_id
		JOIN accounts da ON da.id = t.destination_account_id
		JOIN users du ON du.id = da.user_id
		WHERE t.id = $1`

	et := &model.EnrichedTransaction{}
	err := r.DB.QueryRow(query, id).Scan(
		&et.ID, &et.Amount, &et.CreatedAt,
		&et.SourceAccount.ID, &et.SourceAccount.BankName, &et.SourceAccount.BankAccountNumber,
		&et.SourceAccount.User.ID, &et.SourceAccount.User.Name, &et.SourceAccount.User.Email,
		&et.DestinationAccount.ID, &et.DestinationAccount.BankName, &et.DestinationAccount.BankAccountNumber,
		&et.DestinationAccount.User.ID, &et.DestinationAccount.User.Name, &et.DestinationAccount.User.Email,
	)
	if err != nil {
		if err != sql.ErrNoRows {
			log.WithError(err).Error("Failed to execute enriched transaction query")
		}
		return nil, err
	}
	return et, nil
}

// DeleteTransaction removes a ledger entry. Administrative use only; balances
// are not compensated.
func (r *TransactionRepository) DeleteTransaction(id int) error {
	log := logger.Log.WithField("transaction_id", id)
	log.Info("Executing query to delete transaction")

	result, err := r.DB.Exec(`DELETE FROM transactions WHERE id = $1`, id)
	if err != nil {
		log.WithError(err).Error("Failed to execute delete transaction query")
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
