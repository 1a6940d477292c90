package handler

import (
	"go-ledger-api/common"
	"go-ledger-api/model"
	"go-ledger-api/service"
	"net/http"
	"strconv"
)

type AccountHandler struct {
	service *service.AccountService
}

func NewAccountHandler(service *service.AccountService) *AccountHandler {
	return &AccountHandler{service: service}
}

// CreateAccount godoc
// @Summary      Open a new bank account
// @Description  Creates an account for an existing user. The (bank_name, bank_account_number) pair must be unused.
// @Tags         accounts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        account body model.CreateAccountRequest true "Account payload"
// @Success      201  {object}  common.Envelope
// @Failure      400  {object}  common.AppError "Bank account number already used for this bank"
// @Failure      404  {object}  common.AppError "Owner does not exist"
// @Router       /api/v1/accounts [post]
func (h *AccountHandler) CreateAccount(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.CreateAccountRequest
	if err := common.ValidateAndDecode(r, &req); err != nil {
		return err
	}

	account, err := h.service.OpenAccount(r.Context(), req)
	if err != nil {
		switch err {
		case service.ErrOwnerNotFound:
			return common.NewAppError(http.StatusNotFound, err.Error(), err)
		case service.ErrBankAccountTaken:
			return common.NewAppError(http.StatusBadRequest, err.Error(), err)
		default:
			return common.NewAppError(http.StatusInternalServerError, "Could not create account", err)
		}
	}

	common.Respond(w, http.StatusCreated, "Account created successfully", account)
	return nil
}

// ListAccounts godoc
// @Summary      List all accounts
// @Tags         accounts
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  common.Envelope
// @Router       /api/v1/accounts [get]
func (h *AccountHandler) ListAccounts(w http.ResponseWriter, r *http.Request) *common.AppError {
	accounts, err := h.service.ListAccounts(r.Context())
	if err != nil {
		return common.NewAppError(http.StatusInternalServerError, "Could not retrieve accounts", err)
	}

	common.Respond(w, http.StatusOK, "Accounts retrieved successfully", accounts)
	return nil
}

// GetAccount godoc
// @Summary      Get account details
// @Tags         accounts
// @Produce      json
// @Security     BearerAuth
// @Param        accountId path int true "Account ID"
// @Success      200  {object}  common.Envelope
// @Failure      404  {object}  common.AppError "Account not found"
// @Router       /api/v1/accounts/{accountId} [get]
func (h *AccountHandler) GetAccount(w http.ResponseWriter, r *http.Request) *common.AppError {
	accountID, err := strconv.Atoi(r.PathValue("accountId"))
	if err != nil {
		return common.NewAppError(http.StatusBadRequest, "Invalid account ID in URL path", err)
	}

	account, svcErr := h.service.GetAccount(accountID)
	if svcErr != nil {
		if svcErr == service.ErrAccountNotFound {
			return common.NewAppError(http.StatusNotFound, svcErr.Error(), svcErr)
		}
		return common.NewAppError(http.StatusInternalServerError, "Could not retrieve account", svcErr)
	}

	common.Respond(w, http.StatusOK, "Account retrieved successfully", account)
	return nil
}

// UpdateAccount godoc
// @Summary      Update an account
// @Description  Partially updates an account; only fields present in the body change. A balance of 0 is honored.
// @Tags         accounts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        accountId path int true "Account ID"
// @Param        account body model.UpdateAccountRequest true "Fields to update"
// @Success      200  {object}  common.Envelope
// @Failure      400  {object}  common.AppError "Bank account number already used for this bank"
// @Failure      404  {object}  common.AppError "Account not found"
// @Router       /api/v1/accounts/{accountId} [put]
func (h *AccountHandler) UpdateAccount(w http.ResponseWriter, r *http.Request) *common.AppError {
	accountID, err := strconv.Atoi(r.PathValue("accountId"))
	if err != nil {
		return common.NewAppError(http.StatusBadRequest, "Invalid account ID in URL path", err)
	}

	var req model.UpdateAccountRequest
	if appErr := common.ValidateAndDecode(r, &req); appErr != nil {
		return appErr
	}

	account, svcErr := h.service.UpdateAccount(r.Context(), accountID, req)
	if svcErr != nil {
		switch svcErr {
		case service.ErrAccountNotFound:
			return common.NewAppError(http.StatusNotFound, svcErr.Error(), svcErr)
		case service.ErrBankAccountTaken:
			return common.NewAppError(http.StatusBadRequest, svcErr.Error(), svcErr)
		default:
			return common.NewAppError(http.StatusInternalServerError, "Could not update account", svcErr)
		}
	}

	common.Respond(w, http.StatusOK, "Account updated successfully", account)
	return nil
}

// DeleteAccount godoc
// @Summary      Delete an account
// @Description  Removes an account with no ledger history. Accounts referenced by transactions cannot be deleted.
// @Tags         accounts
// @Produce      json
// @Security     BearerAuth
// @Param        accountId path int true "Account ID"
// @Success      200  {object}  common.Envelope
// @Failure      404  {object}  common.AppError "Account not found"
// @Failure      409  {object}  common.AppError "Account referenced by ledger transactions"
// @Router       /api/v1/accounts/{accountId} [delete]
func (h *AccountHandler) DeleteAccount(w http.ResponseWriter, r *http.Request) *common.AppError {
	accountID, err := strconv.Atoi(r.PathValue("accountId"))
	if err != nil {
		return common.NewAppError(http.StatusBadRequest, "Invalid account ID in URL path", err)
	}

	if svcErr := h.service.DeleteAccount(r.Context(), accountID); svcErr != nil {
		switch svcErr {
		case service.ErrAccountNotFound:
			return common.NewAppError(http.StatusNotFound, svcErr.Error(), svcErr)
		case service.ErrAccountInUse:
			return common.NewAppError(http.StatusConflict, svcErr.Error(), svcErr)
		default:
			return common.NewAppError(http.StatusInternalServerError, "Could not delete account", svcErr)
		}
	}

	common.Respond(w, http.StatusOK, "Account deleted successfully", nil)
	return nil
}
