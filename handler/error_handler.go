package handler

import (
	"go-ledger-api/common"
	"net/http"
)

// ErrorHandlingMiddleware adapts an AppError-returning handler to a plain
// http.HandlerFunc, writing any returned error as the JSON error body. It
// keeps handlers on a single error path instead of mixing returns and writes.
func ErrorHandlingMiddleware(next func(http.ResponseWriter, *http.Request) *common.AppError) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := next(w, r); err != nil {
			err.Send(w)
		}
	}
}
