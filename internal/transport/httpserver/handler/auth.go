package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/Arzion032/binhi-fms-backend/internal/auth"
	accountdomain "github.com/Arzion032/binhi-fms-backend/internal/domain/account"
)

type signupRequest struct {
	Username  string `json:"username" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8"`
	ContactNo string `json:"contact_no"`
	Role      string `json:"role" validate:"required"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type tokenResponse struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}

type loginResponse struct {
	tokenResponse
	User accountdomain.User `json:"user"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type requestVerificationRequest struct {
	Email string `json:"email" validate:"required,email"`
}

func (h *Handlers) Signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	user, err := h.Accounts.Signup(r.Context(), accountdomain.CreateUserInput{
		Username:  req.Username,
		Email:     req.Email,
		Password:  req.Password,
		ContactNo: req.ContactNo,
		Role:      req.Role,
	})
	if err != nil {
		switch {
		case errors.Is(err, accountdomain.ErrEmailNotVerified):
			h.log.BusinessError("auth.signup: email not verified", err, "email", req.Email)
			writeError(w, http.StatusForbidden, "email_not_verified", "verify your email before signing up")
		case errors.Is(err, accountdomain.ErrUsernameTaken):
			writeError(w, http.StatusConflict, "username_taken", "username already in use")
		case errors.Is(err, accountdomain.ErrEmailTaken):
			writeError(w, http.StatusConflict, "email_taken", "email already in use")
		case errors.Is(err, accountdomain.ErrInvalidRole):
			writeError(w, http.StatusBadRequest, "invalid_request", "invalid role")
		default:
			h.log.InternalError("auth.signup: create user failed", err)
			writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		}
		return
	}

	writeJSON(w, http.StatusCreated, user)
}

func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	user, err := h.Accounts.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, accountdomain.ErrBadCredentials) {
			writeError(w, http.StatusUnauthorized, "bad_credentials", "invalid email or password")
			return
		}
		h.log.InternalError("auth.login: authenticate failed", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}
	if !user.IsActive {
		h.log.BusinessError("auth.login: inactive account", accountdomain.ErrBadCredentials, "user_id", user.ID)
		writeError(w, http.StatusForbidden, "account_not_active", "account is not approved yet")
		return
	}

	pair, err := h.tokens.Issue(user.ID, user.Role)
	if err != nil {
		h.log.InternalError("auth.login: issue tokens failed", err, "user_id", user.ID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{
		tokenResponse: tokenResponse{
			AccessToken:  pair.AccessToken,
			RefreshToken: pair.RefreshToken,
			ExpiresAt:    pair.ExpiresAt,
		},
		User: *user,
	})
}

func (h *Handlers) RefreshToken(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	claims, err := h.tokens.VerifyRefresh(r.Context(), req.RefreshToken)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid refresh token")
		return
	}

	pair, err := h.tokens.Issue(claims.UserID, claims.Role)
	if err != nil {
		h.log.InternalError("auth.refresh: issue tokens failed", err, "user_id", claims.UserID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	writeJSON(w, http.StatusOK, tokenResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		ExpiresAt:    pair.ExpiresAt,
	})
}

func (h *Handlers) Logout(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	if err := h.tokens.RevokeRefresh(r.Context(), req.RefreshToken); err != nil {
		if errors.Is(err, auth.ErrInvalidToken) || errors.Is(err, auth.ErrTokenRevoked) {
			writeError(w, http.StatusBadRequest, "invalid_token", "invalid refresh token")
			return
		}
		h.log.InternalError("auth.logout: revoke failed", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "logged_out"})
}

func (h *Handlers) RequestVerification(w http.ResponseWriter, r *http.Request) {
	var req requestVerificationRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	if err := h.Accounts.RequestVerification(r.Context(), req.Email); err != nil {
		if errors.Is(err, accountdomain.ErrEmailVerified) {
			writeError(w, http.StatusConflict, "already_verified", "email is already verified")
			return
		}
		h.log.InternalError("auth.request_verification failed", err, "email", req.Email)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]string{"status": "verification_sent"})
}

func (h *Handlers) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	email := query.Get("email")
	code := query.Get("code")

	if err := h.Accounts.VerifyEmail(r.Context(), email, code); err != nil {
		if errors.Is(err, accountdomain.ErrInvalidCode) {
			writeError(w, http.StatusBadRequest, "invalid_code", "invalid or expired verification code")
			return
		}
		h.log.InternalError("auth.verify_email failed", err, "email", email)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "verified"})
}
