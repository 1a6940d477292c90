package handler

import (
	"encoding/json"
	"go-ledger-api/common"
	"go-ledger-api/model"
	"go-ledger-api/service"
	"net/http"
)

// AuthHandler serves registration, login and the authenticate echo endpoint.
type AuthHandler struct {
	userService *service.UserService
	authService *service.AuthService
}

func NewAuthHandler(userService *service.UserService, authService *service.AuthService) *AuthHandler {
	return &AuthHandler{userService: userService, authService: authService}
}

// Register godoc
// @Summary      Register a new user
// @Description  Creates a user together with their identity profile.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        user body model.RegisterRequest true "Registration payload"
// @Success      201  {object}  common.Envelope
// @Failure      400  {object}  common.AppError "Email or identity number already used"
// @Router       /auth/register [post]
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.RegisterRequest
	if err := common.ValidateAndDecode(r, &req); err != nil {
		return err
	}

	user, err := h.userService.Register(req)
	if err != nil {
		switch err {
		case service.ErrEmailTaken, service.ErrIdentityTaken:
			return common.NewAppError(http.StatusBadRequest, err.Error(), err)
		default:
			return common.NewAppError(http.StatusInternalServerError, "Could not register user", err)
		}
	}

	// Registration keeps the historical envelope key "user".
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(struct {
		Status  int         `json:"status"`
		Message string      `json:"message"`
		User    *model.User `json:"user"`
	}{
		Status:  http.StatusCreated,
		Message: "User registered successfully",
		User:    user,
	})
	return nil
}

// Login godoc
// @Summary      Authenticate a user
// @Description  Verifies email and password and returns a signed JWT.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        credentials body model.LoginRequest true "Login payload"
// @Success      200  {object}  common.Envelope
// @Failure      400  {object}  common.AppError "Invalid email or password"
// @Router       /auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.LoginRequest
	if err := common.ValidateAndDecode(r, &req); err != nil {
		return err
	}

	token, err := h.authService.Login(req.Email, req.Password)
	if err != nil {
		if err == service.ErrInvalidCredentials {
			return common.NewAppError(http.StatusBadRequest, err.Error(), err)
		}
		return common.NewAppError(http.StatusInternalServerError, "Could not log in", err)
	}

	common.Respond(w, http.StatusOK, "Login successful", map[string]string{"token": token})
	return nil
}

// Authenticate godoc
// @Summary      Echo the authenticated identity
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  common.Envelope
// @Failure      401  {object}  common.AppError "Invalid or missing token"
// @Router       /auth/authenticate [get]
func (h *AuthHandler) Authenticate(w http.ResponseWriter, r *http.Request) *common.AppError {
	userID, ok := r.Context().Value(UserIDKey).(int)
	if !ok {
		return common.NewAppError(http.StatusUnauthorized, "Invalid user ID in token", nil)
	}
	name, _ := r.Context().Value(UserNameKey).(string)

	common.Respond(w, http.StatusOK, "Authenticated", map[string]interface{}{
		"id":   userID,
		"name": name,
	})
	return nil
}
