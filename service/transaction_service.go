package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"go-ledger-api/logger"
	"go-ledger-api/model"
	"go-ledger-api/repository"

	"github.com/sirupsen/logrus"
)

var (
	ErrSameAccountTransfer = errors.New("source and destination accounts must be different")
	ErrInvalidAmount       = errors.New("transfer amount must be greater than zero")
	ErrInsufficientFunds   = errors.New("insufficient funds")
	ErrTransferAccountGone = errors.New("source or destination account not found")
	ErrTransactionNotFound = errors.New("transaction not found")
)

const transactionsCacheKey = "transactions:all"

// TransactionService owns the transfer engine and the ledger read paths.
type TransactionService struct {
	db              *sql.DB
	accountRepo     repository.IAccountRepository
	transactionRepo repository.ITransactionRepository
	cache           ICacheClient
}

func NewTransactionService(db *sql.DB, accountRepo repository.IAccountRepository, transactionRepo repository.ITransactionRepository, cache ICacheClient) *TransactionService {
	return &TransactionService{
		db:              db,
		accountRepo:     accountRepo,
		transactionRepo: transactionRepo,
		cache:           cache,
	}
}

// Transfer atomically moves funds between two accounts and appends one ledger
// entry. Both account rows are locked FOR UPDATE inside a single database
// transaction, always in ascending id order so opposite-direction transfers
// cannot deadlock. Either everything commits or nothing does.
func (s *TransactionService) Transfer(ctx context.Context, req model.TransferRequest) (*model.Transaction, error) {
	log := logger.Log.WithFields(logrus.Fields{
		"source_account_id":      req.SourceAccountID,
		"destination_account_id": req.DestinationAccountID,
		"amount":                 req.Amount,
	})
	log.Info("Starting money transfer")

	if req.SourceAccountID == req.DestinationAccountID {
		return nil, ErrSameAccountTransfer
	}
	if req.Amount <= 0 {
		return nil, ErrInvalidAmount
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("could not begin transaction: %w", err)
	}
	defer tx.Rollback()

	// Lock order: lowest account id first, whichever direction the money
	// flows.
	firstID, secondID := req.SourceAccountID, req.DestinationAccountID
	if secondID < firstID {
		firstID, secondID = secondID, firstID
	}

	first, err := s.accountRepo.GetAccountForUpdate(tx, firstID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrTransferAccountGone
		}
		return nil, err
	}

	second, err := s.accountRepo.GetAccountForUpdate(tx, secondID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrTransferAccountGone
		}
		return nil, err
	}

	source, destination := first, second
	if source.ID != req.SourceAccountID {
		source, destination = second, first
	}

	if source.Balance < req.Amount {
		return nil, ErrInsufficientFunds
	}

	if err := s.accountRepo.UpdateAccountBalance(tx, source.ID, source.Balance-req.Amount); err != nil {
		return nil, fmt.Errorf("could not update source balance: %w", err)
	}

	if err := s.accountRepo.UpdateAccountBalance(tx, destination.ID, destination.Balance+req.Amount); err != nil {
		return nil, fmt.Errorf("could not update destination balance: %w", err)
	}

	transaction := &model.Transaction{
		SourceAccountID:      req.SourceAccountID,
		DestinationAccountID: req.DestinationAccountID,
		Amount:               req.Amount,
	}

	if err := s.transactionRepo.CreateTransaction(tx, transaction); err != nil {
		return nil, fmt.Errorf("could not create transaction record: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("could not commit transaction: %w", err)
	}

	cacheDel(ctx, s.cache, accountsCacheKey, transactionsCacheKey)
	log.WithField("transaction_id", transaction.ID).Info("Transfer completed successfully")
	return transaction, nil
}

// ListTransactions returns the whole ledger, serving from the cache when
// possible.
func (s *TransactionService) ListTransactions(ctx context.Context) ([]*model.Transaction, error) {
	var cached []*model.Transaction
	if cacheGet(ctx, s.cache, transactionsCacheKey, &cached) {
		return cached, nil
	}

	transactions, err := s.transactionRepo.GetAllTransactions()
	if err != nil {
		return nil, err
	}

	cacheSet(ctx, s.cache, transactionsCacheKey, transactions)
	return transactions, nil
}

// GetEnrichedTransaction returns a transaction joined with both account legs
// and their owners.
func (s *TransactionService) GetEnrichedTransaction(id int) (*model.EnrichedTransaction, error) {
	enriched, err := s.transactionRepo.GetEnrichedTransaction(id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrTransactionNotFound
		}
		return nil, err
	}
	return enriched, nil
}

// DeleteTransaction administratively removes a ledger entry. Balances are not
// compensated; this exists for operator cleanup only.
func (s *TransactionService) DeleteTransaction(ctx context.Context, id int) error {
	err := s.transactionRepo.DeleteTransaction(id)
	if err == sql.ErrNoRows {
		return ErrTransactionNotFound
	}
	if err != nil {
		return err
	}

	cacheDel(ctx, s.cache, transactionsCacheKey)
	return nil
}
