package handler

import (
	"encoding/json"
	"go-ledger-api/common"
	"go-ledger-api/model"
	"go-ledger-api/service"
	"net/http"
	"strconv"
)

// TransactionHandler holds dependencies for ledger-related handlers.
type TransactionHandler struct {
	service *service.TransactionService
}

func NewTransactionHandler(s *service.TransactionService) *TransactionHandler {
	return &TransactionHandler{service: s}
}

// CreateTransfer godoc
// @Summary      Transfer money between accounts
// @Description  Atomically moves the amount from the source account to the destination account and records one ledger entry.
// @Tags         transactions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        transfer body model.TransferRequest true "Transfer payload"
// @Success      201  {object}  common.Envelope
// @Failure      400  {object}  common.AppError "Insufficient funds or invalid amount"
// @Failure      404  {object}  common.AppError "Source or destination account not found"
// @Failure      422  {object}  common.AppError "Source and destination accounts are the same"
// @Router       /api/v1/transactions [post]
func (h *TransactionHandler) CreateTransfer(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.TransferRequest
	if err := common.ValidateAndDecode(r, &req); err != nil {
		return err
	}

	transaction, err := h.service.Transfer(r.Context(), req)
	if err != nil {
		switch err {
		case service.ErrSameAccountTransfer:
			return common.NewAppError(http.StatusUnprocessableEntity, err.Error(), err)
		case service.ErrTransferAccountGone:
			return common.NewAppError(http.StatusNotFound, err.Error(), err)
		case service.ErrInsufficientFunds, service.ErrInvalidAmount:
			return common.NewAppError(http.StatusBadRequest, err.Error(), err)
		default:
			return common.NewAppError(http.StatusInternalServerError, "Could not process transfer", err)
		}
	}

	// Transfers keep the historical envelope key "transaction".
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(struct {
		Status      int                `json:"status"`
		Message     string             `json:"message"`
		Transaction *model.Transaction `json:"transaction"`
	}{
		Status:      http.StatusCreated,
		Message:     "Transfer completed successfully",
		Transaction: transaction,
	})
	return nil
}

// ListTransactions godoc
// @Summary      List the transaction ledger
// @Tags         transactions
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  common.Envelope
// @Router       /api/v1/transactions [get]
func (h *TransactionHandler) ListTransactions(w http.ResponseWriter, r *http.Request) *common.AppError {
	transactions, err := h.service.ListTransactions(r.Context())
	if err != nil {
		return common.NewAppError(http.StatusInternalServerError, "Could not retrieve transactions", err)
	}

	common.Respond(w, http.StatusOK, "Transactions retrieved successfully", transactions)
	return nil
}

// GetTransaction godoc
// @Summary      Get enriched transaction details
// @Description  Returns the transaction joined with both account legs and their owners.
// @Tags         transactions
// @Produce      json
// @Security     BearerAuth
// @Param        transactionId path int true "Transaction ID"
// @Success      200  {object}  common.Envelope
// @Failure      404  {object}  common.AppError "Transaction not found"
// @Router       /api/v1/transactions/{transactionId} [get]
func (h *TransactionHandler) GetTransaction(w http.ResponseWriter, r *http.Request) *common.AppError {
	transactionID, err := strconv.Atoi(r.PathValue("transactionId"))
	if err != nil {
		return common.NewAppError(http.StatusBadRequest, "Invalid transaction ID in URL path", err)
	}

	enriched, svcErr := h.service.GetEnrichedTransaction(transactionID)
	if svcErr != nil {
		if svcErr == service.ErrTransactionNotFound {
			return common.NewAppError(http.StatusNotFound, svcErr.Error(), svcErr)
		}
		return common.NewAppError(http.StatusInternalServerError, "Could not retrieve transaction", svcErr)
	}

	common.Respond(w, http.StatusOK, "Transaction retrieved successfully", enriched)
	return nil
}

// DeleteTransaction godoc
// @Summary      Delete a ledger entry
// @Description  Administrative removal of a ledger entry; balances are not compensated.
// @Tags         transactions
// @Produce      json
// @Security     BearerAuth
// @Param        transactionId path int true "Transaction ID"
// @Success      200  {object}  common.Envelope
// @Failure      404  {object}  common.AppError "Transaction not found"
// @Router       /api/v1/transactions/{transactionId} [delete]
func (h *TransactionHandler) DeleteTransaction(w http.ResponseWriter, r *http.Request) *common.AppError {
	transactionID, err := strconv.Atoi(r.PathValue("transactionId"))
	if err != nil {
		return common.NewAppError(http.StatusBadRequest, "Invalid transaction ID in URL path", err)
	}

	if svcErr := h.service.DeleteTransaction(r.Context(), transactionID); svcErr != nil {
		if svcErr == service.ErrTransactionNotFound {
			return common.NewAppError(http.StatusNotFound, svcErr.Error(), svcErr)
		}
		return common.NewAppError(http.StatusInternalServerError, "Could not delete transaction", svcErr)
	}

	common.Respond(w, http.StatusOK, "Transaction deleted successfully", nil)
	return nil
}
