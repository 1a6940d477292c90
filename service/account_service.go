package service

import (
	"context"
	"database/sql"
	"errors"
	"go-ledger-api/logger"
	"go-ledger-api/model"
	"go-ledger-api/repository"

	"github.com/sirupsen/logrus"
)

var (
	ErrAccountNotFound  = errors.New("account not found")
	ErrOwnerNotFound    = errors.New("account owner does not exist")
	ErrBankAccountTaken = errors.New("bank account number is already used for this bank")
	ErrAccountInUse     = errors.New("account is referenced by ledger transactions")
)

const accountsCacheKey = "accounts:all"

// AccountService handles account business logic with a cache-aside read path.
type AccountService struct {
	accountRepo repository.IAccountRepository
	userRepo    repository.IUserRepository
	cache       ICacheClient
}

func NewAccountService(accountRepo repository.IAccountRepository, userRepo repository.IUserRepository, cache ICacheClient) *AccountService {
	return &AccountService{
		accountRepo: accountRepo,
		userRepo:    userRepo,
		cache:       cache,
	}
}

// OpenAccount creates a new bank account for an existing user. The
// (bank_name, bank_account_number) pair must be unused by any account.
func (s *AccountService) OpenAccount(ctx context.Context, req model.CreateAccountRequest) (*model.Account, error) {
	log := logger.Log.WithFields(logrus.Fields{
		"user_id":             req.UserID,
		"bank_name":           req.BankName,
		"bank_account_number": req.BankAccountNumber,
	})

	if _, err := s.userRepo.GetUserByID(req.UserID); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrOwnerNotFound
		}
		return nil, err
	}

	taken, err := s.accountRepo.BankAccountNumberExists(req.BankName, req.BankAccountNumber)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrBankAccountTaken
	}

	account := &model.Account{
		UserID:            req.UserID,
		BankName:          req.BankName,
		BankAccountNumber: req.BankAccountNumber,
		Balance:           req.Balance,
	}

	if err := s.accountRepo.CreateAccount(account); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, ErrBankAccountTaken
		}
		return nil, err
	}

	cacheDel(ctx, s.cache, accountsCacheKey)
	log.Info("Account opened successfully")
	return account, nil
}

func (s *AccountService) GetAccount(id int) (*model.Account, error) {
	account, err := s.accountRepo.GetAccountByID(id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}
	return account, nil
}

// ListAccounts returns all accounts, serving from the cache when possible.
func (s *AccountService) ListAccounts(ctx context.Context) ([]*model.Account, error) {
	var cached []*model.Account
	if cacheGet(ctx, s.cache, accountsCacheKey, &cached) {
		return cached, nil
	}

	accounts, err := s.accountRepo.GetAllAccounts()
	if err != nil {
		return nil, err
	}

	cacheSet(ctx, s.cache, accountsCacheKey, accounts)
	return accounts, nil
}

// UpdateAccount applies a partial update. A present balance of 0 is honored;
// absent fields keep their prior values. The repository resolves the merge in
// one conditional statement, so there is no read-modify-write window for a
// concurrent transfer to race.
func (s *AccountService) UpdateAccount(ctx context.Context, id int, req model.UpdateAccountRequest) (*model.Account, error) {
	account, err := s.accountRepo.UpdateAccount(id, req)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrAccountNotFound
		}
		if repository.IsUniqueViolation(err) {
			return nil, ErrBankAccountTaken
		}
		return nil, err
	}

	cacheDel(ctx, s.cache, accountsCacheKey)
	return account, nil
}

// DeleteAccount removes an account with no ledger history. Historical
// transactions keep their account references valid by blocking the delete.
func (s *AccountService) DeleteAccount(ctx context.Context, id int) error {
	err := s.accountRepo.DeleteAccount(id)
	if err == sql.ErrNoRows {
		return ErrAccountNotFound
	}
	if repository.IsForeignKeyViolation(err) {
		return ErrAccountInUse
	}
	if err != nil {
		return err
	}

	cacheDel(ctx, s.cache, accountsCacheKey)
	return nil
}
