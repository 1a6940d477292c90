package handler

import (
	"encoding/json"
	"go-ledger-api/common"
	"go-ledger-api/model"
	"go-ledger-api/service"
	"net/http"
	"strconv"
)

type UserHandler struct {
	service *service.UserService
}

func NewUserHandler(service *service.UserService) *UserHandler {
	return &UserHandler{service: service}
}

// CreateUser godoc
// @Summary      Create a new user
// @Description  Creates a user together with their identity profile.
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        user body model.RegisterRequest true "User payload"
// @Success      201  {object}  common.Envelope
// @Failure      400  {object}  common.AppError "Email or identity number already used"
// @Router       /api/v1/users [post]
func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.RegisterRequest
	if err := common.ValidateAndDecode(r, &req); err != nil {
		return err
	}

	user, err := h.service.Register(req)
	if err != nil {
		switch err {
		case service.ErrEmailTaken, service.ErrIdentityTaken:
			return common.NewAppError(http.StatusBadRequest, err.Error(), err)
		default:
			return common.NewAppError(http.StatusInternalServerError, "Could not create user", err)
		}
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(struct {
		Status  int         `json:"status"`
		Message string      `json:"message"`
		User    *model.User `json:"user"`
	}{
		Status:  http.StatusCreated,
		Message: "User created successfully",
		User:    user,
	})
	return nil
}

// ListUsers godoc
// @Summary      List all users
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  common.Envelope
// @Router       /api/v1/users [get]
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) *common.AppError {
	users, err := h.service.ListUsers()
	if err != nil {
		return common.NewAppError(http.StatusInternalServerError, "Could not retrieve users", err)
	}

	common.Respond(w, http.StatusOK, "Users retrieved successfully", users)
	return nil
}

// GetUser godoc
// @Summary      Get user details
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        userId path int true "User ID"
// @Success      200  {object}  common.Envelope
// @Failure      404  {object}  common.AppError "User not found"
// @Router       /api/v1/users/{userId} [get]
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) *common.AppError {
	userID, err := strconv.Atoi(r.PathValue("userId"))
	if err != nil {
		return common.NewAppError(http.StatusBadRequest, "Invalid user ID in URL path", err)
	}

	user, svcErr := h.service.GetUser(userID)
	if svcErr != nil {
		if svcErr == service.ErrUserNotFound {
			return common.NewAppError(http.StatusNotFound, svcErr.Error(), svcErr)
		}
		return common.NewAppError(http.StatusInternalServerError, "Could not retrieve user", svcErr)
	}

	common.Respond(w, http.StatusOK, "User retrieved successfully", user)
	return nil
}

// UpdateUser godoc
// @Summary      Update a user
// @Description  Partially updates a user; only fields present in the body change.
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        userId path int true "User ID"
// @Param        user body model.UpdateUserRequest true "Fields to update"
// @Success      200  {object}  common.Envelope
// @Failure      400  {object}  common.AppError "Email or identity number already used"
// @Failure      404  {object}  common.AppError "User not found"
// @Router       /api/v1/users/{userId} [put]
func (h *UserHandler) UpdateUser(w http.ResponseWriter, r *http.Request) *common.AppError {
	userID, err := strconv.Atoi(r.PathValue("userId"))
	if err != nil {
		return common.NewAppError(http.StatusBadRequest, "Invalid user ID in URL path", err)
	}

	var req model.UpdateUserRequest
	if appErr := common.ValidateAndDecode(r, &req); appErr != nil {
		return appErr
	}

	user, svcErr := h.service.UpdateUser(userID, req)
	if svcErr != nil {
		switch svcErr {
		case service.ErrUserNotFound:
			return common.NewAppError(http.StatusNotFound, svcErr.Error(), svcErr)
		case service.ErrEmailTaken, service.ErrIdentityTaken:
			return common.NewAppError(http.StatusBadRequest, svcErr.Error(), svcErr)
		default:
			return common.NewAppError(http.StatusInternalServerError, "Could not update user", svcErr)
		}
	}

	common.Respond(w, http.StatusOK, "User updated successfully", user)
	return nil
}

// DeleteUser godoc
// @Summary      Delete a user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        userId path int true "User ID"
// @Success      200  {object}  common.Envelope
// @Failure      404  {object}  common.AppError "User not found"
// @Failure      409  {object}  common.AppError "User still owns accounts"
// @Router       /api/v1/users/{userId} [delete]
func (h *UserHandler) DeleteUser(w http.ResponseWriter, r *http.Request) *common.AppError {
	userID, err := strconv.Atoi(r.PathValue("userId"))
	if err != nil {
		return common.NewAppError(http.StatusBadRequest, "Invalid user ID in URL path", err)
	}

	if svcErr := h.service.DeleteUser(userID); svcErr != nil {
		switch svcErr {
		case service.ErrUserNotFound:
			return common.NewAppError(http.StatusNotFound, svcErr.Error(), svcErr)
		case service.ErrUserHasAccounts:
			return common.NewAppError(http.StatusConflict, svcErr.Error(), svcErr)
		default:
			return common.NewAppError(http.StatusInternalServerError, "Could not delete user", svcErr)
		}
	}

	common.Respond(w, http.StatusOK, "User deleted successfully", nil)
	return nil
}
