package app

import (
	"database/sql"
	"go-ledger-api/handler"
	"go-ledger-api/repository"
	"go-ledger-api/router"
	"go-ledger-api/service"
	"net/http"
)

// TestApp is the fully wired application over injected dependencies, used by
// integration tests that bring their own database and cache.
type TestApp struct {
	DB     *sql.DB
	Router http.Handler
}

func NewTestApp(db *sql.DB, cache service.ICacheClient) *TestApp {
	userRepo := repository.NewUserRepository(db)
	accountRepo := repository.NewAccountRepository(db)
	transactionRepo := repository.NewTransactionRepository(db)

	authService := service.NewAuthService(userRepo)
	userService := service.NewUserService(userRepo, authService)
	accountService := service.NewAccountService(accountRepo, userRepo, cache)
	transactionService := service.NewTransactionService(db, accountRepo, transactionRepo, cache)

	authHandler := handler.NewAuthHandler(userService, authService)
	userHandler := handler.NewUserHandler(userService)
	accountHandler := handler.NewAccountHandler(accountService)
	transactionHandler := handler.NewTransactionHandler(transactionService)

	return &TestApp{
		DB:     db,
		Router: router.NewRouter(authHandler, userHandler, accountHandler, transactionHandler),
	}
}
