package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	accountdomain "github.com/Arzion032/binhi-fms-backend/internal/domain/account"
)

type addMemberRequest struct {
	Username  string `json:"username" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8"`
	ContactNo string `json:"contact_no"`
	Role      string `json:"role" validate:"required"`
}

type updateMemberRequest struct {
	Username  *string `json:"username"`
	Email     *string `json:"email"`
	ContactNo *string `json:"contact_no"`
	Role      *string `json:"role"`
	Password  *string `json:"password"`
}

type profileRequest struct {
	FullName       string          `json:"full_name"`
	Address        string          `json:"address"`
	ProfilePicture string          `json:"profile_picture"`
	OtherDetails   json.RawMessage `json:"other_details"`
}

func (h *Handlers) ListMembers(w http.ResponseWriter, r *http.Request) {
	h.listMembersByState(w, r, "approved")
}

func (h *Handlers) ListPendingMembers(w http.ResponseWriter, r *http.Request) {
	h.listMembersByState(w, r, "pending")
}

func (h *Handlers) ListRejectedMembers(w http.ResponseWriter, r *http.Request) {
	h.listMembersByState(w, r, "rejected")
}

func (h *Handlers) listMembersByState(w http.ResponseWriter, r *http.Request, state string) {
	members, err := h.Accounts.ListMembers(r.Context(), state)
	if err != nil {
		h.log.InternalError("members.list failed", err, "state", state)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}
	writeJSON(w, http.StatusOK, members)
}

func (h *Handlers) AddMember(w http.ResponseWriter, r *http.Request) {
	var req addMemberRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	user, err := h.Accounts.CreateMember(r.Context(), accountdomain.CreateUserInput{
		Username:  req.Username,
		Email:     req.Email,
		Password:  req.Password,
		ContactNo: req.ContactNo,
		Role:      req.Role,
	})
	if err != nil {
		switch {
		case errors.Is(err, accountdomain.ErrUsernameTaken):
			writeError(w, http.StatusConflict, "username_taken", "username already in use")
		case errors.Is(err, accountdomain.ErrEmailTaken):
			writeError(w, http.StatusConflict, "email_taken", "email already in use")
		case errors.Is(err, accountdomain.ErrInvalidRole):
			writeError(w, http.StatusBadRequest, "invalid_request", "invalid role")
		default:
			h.log.InternalError("members.add failed", err)
			writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		}
		return
	}

	writeJSON(w, http.StatusCreated, user)
}

func (h *Handlers) UpdateMember(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "user_id")

	var req updateMemberRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	input := accountdomain.UpdateUserInput{UserID: userID}
	if req.Username != nil {
		input.Username = accountdomain.OptionalString{Set: true, Value: *req.Username}
	}
	if req.Email != nil {
		input.Email = accountdomain.OptionalString{Set: true, Value: *req.Email}
	}
	if req.ContactNo != nil {
		input.ContactNo = accountdomain.OptionalString{Set: true, Value: *req.ContactNo}
	}
	if req.Role != nil {
		input.Role = accountdomain.OptionalString{Set: true, Value: *req.Role}
	}
	if req.Password != nil {
		input.Password = accountdomain.OptionalString{Set: true, Value: *req.Password}
	}

	user, err := h.Accounts.UpdateMember(r.Context(), input)
	if err != nil {
		switch {
		case errors.Is(err, accountdomain.ErrUserNotFound):
			writeError(w, http.StatusNotFound, "not_found", "user not found")
		case errors.Is(err, accountdomain.ErrUsernameTaken):
			writeError(w, http.StatusConflict, "username_taken", "username already in use")
		case errors.Is(err, accountdomain.ErrEmailTaken):
			writeError(w, http.StatusConflict, "email_taken", "email already in use")
		case errors.Is(err, accountdomain.ErrInvalidRole):
			writeError(w, http.StatusBadRequest, "invalid_request", "invalid role")
		default:
			h.log.InternalError("members.update failed", err, "user_id", userID)
			writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		}
		return
	}

	writeJSON(w, http.StatusOK, user)
}

func (h *Handlers) DeleteMember(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "user_id")

	if err := h.Accounts.DeleteMember(r.Context(), userID); err != nil {
		if errors.Is(err, accountdomain.ErrUserNotFound) {
			writeError(w, http.StatusNotFound, "not_found", "user not found")
			return
		}
		h.log.InternalError("members.delete failed", err, "user_id", userID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) AcceptMember(w http.ResponseWriter, r *http.Request) {
	h.setMemberApproval(w, r, true)
}

func (h *Handlers) RejectMember(w http.ResponseWriter, r *http.Request) {
	h.setMemberApproval(w, r, false)
}

func (h *Handlers) setMemberApproval(w http.ResponseWriter, r *http.Request, approved bool) {
	userID := chi.URLParam(r, "user_id")

	var (
		user *accountdomain.User
		err  error
	)
	if approved {
		user, err = h.Accounts.ApproveMember(r.Context(), userID)
	} else {
		user, err = h.Accounts.RejectMember(r.Context(), userID)
	}
	if err != nil {
		if errors.Is(err, accountdomain.ErrUserNotFound) {
			writeError(w, http.StatusNotFound, "not_found", "user not found")
			return
		}
		h.log.InternalError("members.approval failed", err, "user_id", userID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	writeJSON(w, http.StatusOK, user)
}

func (h *Handlers) GetMemberProfile(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "user_id")

	profile, err := h.Accounts.GetProfile(r.Context(), userID)
	if err != nil {
		if errors.Is(err, accountdomain.ErrProfileNotFound) {
			writeError(w, http.StatusNotFound, "not_found", "profile not found")
			return
		}
		h.log.InternalError("members.profile failed", err, "user_id", userID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	writeJSON(w, http.StatusOK, profile)
}

func (h *Handlers) GetUserWithProfile(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "user_id")

	result, err := h.Accounts.GetUserWithProfile(r.Context(), userID)
	if err != nil {
		if errors.Is(err, accountdomain.ErrUserNotFound) {
			writeError(w, http.StatusNotFound, "not_found", "user not found")
			return
		}
		h.log.InternalError("members.user_with_profile failed", err, "user_id", userID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (h *Handlers) CreateMemberProfile(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "user_id")

	var req profileRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	profile, err := h.Accounts.CreateProfile(r.Context(), accountdomain.UpsertProfileInput{
		UserID:         userID,
		FullName:       req.FullName,
		Address:        req.Address,
		ProfilePicture: req.ProfilePicture,
		OtherDetails:   req.OtherDetails,
	})
	if err != nil {
		switch {
		case errors.Is(err, accountdomain.ErrUserNotFound):
			writeError(w, http.StatusNotFound, "not_found", "user not found")
		case errors.Is(err, accountdomain.ErrProfileExists):
			writeError(w, http.StatusConflict, "profile_exists", "profile already exists")
		default:
			h.log.BusinessError("members.create_profile rejected", err, "user_id", userID)
			writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		}
		return
	}

	writeJSON(w, http.StatusCreated, profile)
}

func (h *Handlers) UpdateMemberProfile(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "user_id")

	var req profileRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	profile, err := h.Accounts.UpdateProfile(r.Context(), accountdomain.UpsertProfileInput{
		UserID:         userID,
		FullName:       req.FullName,
		Address:        req.Address,
		ProfilePicture: req.ProfilePicture,
		OtherDetails:   req.OtherDetails,
	})
	if err != nil {
		if errors.Is(err, accountdomain.ErrProfileNotFound) {
			writeError(w, http.StatusNotFound, "not_found", "profile not found")
			return
		}
		h.log.InternalError("members.update_profile failed", err, "user_id", userID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	writeJSON(w, http.StatusOK, profile)
}
