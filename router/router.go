package router

import (
	"go-ledger-api/common"
	"go-ledger-api/handler"
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger/v2"
)

func NewRouter(authHandler *handler.AuthHandler, userHandler *handler.UserHandler, accountHandler *handler.AccountHandler, transactionHandler *handler.TransactionHandler) http.Handler {
	mux := http.NewServeMux()

	eh := handler.ErrorHandlingMiddleware

	// protected wraps a handler with the JWT gate on top of error handling.
	protected := func(h func(http.ResponseWriter, *http.Request) *common.AppError) http.Handler {
		return handler.AuthMiddleware(eh(h))
	}

	mux.HandleFunc("GET /health", handler.HealthCheck)
	mux.Handle("GET /swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	mux.Handle("POST /auth/register", eh(authHandler.Register))
	mux.Handle("POST /auth/login", eh(authHandler.Login))
	mux.Handle("GET /auth/authenticate", protected(authHandler.Authenticate))

	mux.Handle("POST /api/v1/users", protected(userHandler.CreateUser))
	mux.Handle("GET /api/v1/users", protected(userHandler.ListUsers))
	mux.Handle("GET /api/v1/users/{userId}", protected(userHandler.GetUser))
	mux.Handle("PUT /api/v1/users/{userId}", protected(userHandler.UpdateUser))
	mux.Handle("DELETE /api/v1/users/{userId}", protected(userHandler.DeleteUser))

	mux.Handle("POST /api/v1/accounts", protected(accountHandler.CreateAccount))
	mux.Handle("GET /api/v1/accounts", protected(accountHandler.ListAccounts))
	mux.Handle("GET /api/v1/accounts/{accountId}", protected(accountHandler.GetAccount))
	mux.Handle("PUT /api/v1/accounts/{accountId}", protected(accountHandler.UpdateAccount))
	mux.Handle("DELETE /api/v1/accounts/{accountId}", protected(accountHandler.DeleteAccount))

	mux.Handle("POST /api/v1/transactions", protected(transactionHandler.CreateTransfer))
	mux.Handle("GET /api/v1/transactions", protected(transactionHandler.ListTransactions))
	mux.Handle("GET /api/v1/transactions/{transactionId}", protected(transactionHandler.GetTransaction))
	mux.Handle("DELETE /api/v1/transactions/{transactionId}", protected(transactionHandler.DeleteTransaction))

	return handler.RequestIDMiddleware(mux)
}
