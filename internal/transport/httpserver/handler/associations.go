package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	assocdomain "github.com/Arzion032/binhi-fms-backend/internal/domain/association"
)

type createAssociationRequest struct {
	Name          string  `json:"name" validate:"required"`
	Description   string  `json:"description"`
	Barangay      string  `json:"barangay"`
	PresidentID   *string `json:"president_id"`
	ContactNumber string  `json:"contact_number"`
}

type updateAssociationRequest struct {
	Name          *string `json:"name"`
	Description   *string `json:"description"`
	Barangay      *string `json:"barangay"`
	PresidentID   *string `json:"president_id"`
	ContactNumber *string `json:"contact_number"`
	IsActive      *bool   `json:"is_active"`
}

type createFarmerRequest struct {
	FullName      string `json:"full_name" validate:"required"`
	AssociationID string `json:"association_id" validate:"required,uuid"`
	Birthday      string `json:"birthday" validate:"required"`
	Gender        string `json:"gender" validate:"required"`
	CivilStatus   string `json:"civil_status"`
	Address       string `json:"address" validate:"required"`
	ContactNumber string `json:"contact_number"`
}

type updateFarmerRequest struct {
	FullName      *string `json:"full_name"`
	Birthday      *string `json:"birthday"`
	Gender        *string `json:"gender"`
	CivilStatus   *string `json:"civil_status"`
	Address       *string `json:"address"`
	ContactNumber *string `json:"contact_number"`
	IsActive      *bool   `json:"is_active"`
}

// farmerView adds the derived age to the stored farmer fields.
type farmerView struct {
	assocdomain.Farmer
	Age int `json:"age"`
}

func newFarmerView(f assocdomain.Farmer) farmerView {
	return farmerView{Farmer: f, Age: f.Age(time.Now())}
}

func (h *Handlers) ListAssociations(w http.ResponseWriter, r *http.Request) {
	associations, err := h.Associations.ListAssociations(r.Context())
	if err != nil {
		h.log.InternalError("associations.list failed", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}
	writeJSON(w, http.StatusOK, associations)
}

func (h *Handlers) CreateAssociation(w http.ResponseWriter, r *http.Request) {
	var req createAssociationRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	association, err := h.Associations.CreateAssociation(r.Context(), assocdomain.CreateAssociationInput{
		Name:          req.Name,
		Description:   req.Description,
		Barangay:      req.Barangay,
		PresidentID:   req.PresidentID,
		ContactNumber: req.ContactNumber,
	})
	if err != nil {
		if errors.Is(err, assocdomain.ErrNameTaken) {
			writeError(w, http.StatusConflict, "name_taken", "association name already exists")
			return
		}
		h.log.BusinessError("associations.create rejected", err)
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, association)
}

func (h *Handlers) GetAssociation(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	association, err := h.Associations.GetAssociation(r.Context(), id)
	if err != nil {
		if errors.Is(err, assocdomain.ErrAssociationNotFound) {
			writeError(w, http.StatusNotFound, "not_found", "association not found")
			return
		}
		h.log.InternalError("associations.get failed", err, "association_id", id)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	writeJSON(w, http.StatusOK, association)
}

func (h *Handlers) UpdateAssociation(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req updateAssociationRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	input := assocdomain.UpdateAssociationInput{ID: id}
	if req.Name != nil {
		input.Name = assocdomain.OptionalString{Set: true, Value: *req.Name}
	}
	if req.Description != nil {
		input.Description = assocdomain.OptionalString{Set: true, Value: *req.Description}
	}
	if req.Barangay != nil {
		input.Barangay = assocdomain.OptionalString{Set: true, Value: *req.Barangay}
	}
	if req.PresidentID != nil {
		input.PresidentID = assocdomain.OptionalString{Set: true, Value: *req.PresidentID}
	}
	if req.ContactNumber != nil {
		input.ContactNumber = assocdomain.OptionalString{Set: true, Value: *req.ContactNumber}
	}
	if req.IsActive != nil {
		input.IsActive = assocdomain.OptionalBool{Set: true, Value: *req.IsActive}
	}

	association, err := h.Associations.UpdateAssociation(r.Context(), input)
	if err != nil {
		switch {
		case errors.Is(err, assocdomain.ErrAssociationNotFound):
			writeError(w, http.StatusNotFound, "not_found", "association not found")
		case errors.Is(err, assocdomain.ErrNameTaken):
			writeError(w, http.StatusConflict, "name_taken", "association name already exists")
		default:
			h.log.BusinessError("associations.update rejected", err, "association_id", id)
			writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		}
		return
	}

	writeJSON(w, http.StatusOK, association)
}

func (h *Handlers) DeleteAssociation(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.Associations.DeleteAssociation(r.Context(), id); err != nil {
		if errors.Is(err, assocdomain.ErrAssociationNotFound) {
			writeError(w, http.StatusNotFound, "not_found", "association not found")
			return
		}
		h.log.InternalError("associations.delete failed", err, "association_id", id)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) ListFarmers(w http.ResponseWriter, r *http.Request) {
	associationID := r.URL.Query().Get("association_id")

	farmers, err := h.Associations.ListFarmers(r.Context(), associationID)
	if err != nil {
		h.log.InternalError("farmers.list failed", err, "association_id", associationID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	views := make([]farmerView, 0, len(farmers))
	for _, f := range farmers {
		views = append(views, newFarmerView(f))
	}
	writeJSON(w, http.StatusOK, views)
}

func (h *Handlers) CreateFarmer(w http.ResponseWriter, r *http.Request) {
	var req createFarmerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	birthday, err := parseDateRequired(req.Birthday)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "birthday must be YYYY-MM-DD")
		return
	}

	farmer, err := h.Associations.CreateFarmer(r.Context(), assocdomain.CreateFarmerInput{
		FullName:      req.FullName,
		AssociationID: req.AssociationID,
		Birthday:      birthday,
		Gender:        req.Gender,
		CivilStatus:   req.CivilStatus,
		Address:       req.Address,
		ContactNumber: req.ContactNumber,
	})
	if err != nil {
		if errors.Is(err, assocdomain.ErrAssociationNotFound) {
			writeError(w, http.StatusNotFound, "not_found", "association not found")
			return
		}
		h.log.BusinessError("farmers.create rejected", err)
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, newFarmerView(*farmer))
}

func (h *Handlers) GetFarmer(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")

	farmer, err := h.Associations.GetFarmer(r.Context(), code)
	if err != nil {
		if errors.Is(err, assocdomain.ErrFarmerNotFound) {
			writeError(w, http.StatusNotFound, "not_found", "farmer not found")
			return
		}
		h.log.InternalError("farmers.get failed", err, "code", code)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	writeJSON(w, http.StatusOK, newFarmerView(*farmer))
}

func (h *Handlers) UpdateFarmer(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")

	var req updateFarmerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	input := assocdomain.UpdateFarmerInput{Code: code}
	if req.FullName != nil {
		input.FullName = assocdomain.OptionalString{Set: true, Value: *req.FullName}
	}
	if req.Birthday != nil {
		birthday, err := parseDateRequired(*req.Birthday)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request", "birthday must be YYYY-MM-DD")
			return
		}
		input.Birthday = &birthday
	}
	if req.Gender != nil {
		input.Gender = assocdomain.OptionalString{Set: true, Value: *req.Gender}
	}
	if req.CivilStatus != nil {
		input.CivilStatus = assocdomain.OptionalString{Set: true, Value: *req.CivilStatus}
	}
	if req.Address != nil {
		input.Address = assocdomain.OptionalString{Set: true, Value: *req.Address}
	}
	if req.ContactNumber != nil {
		input.ContactNumber = assocdomain.OptionalString{Set: true, Value: *req.ContactNumber}
	}
	if req.IsActive != nil {
		input.IsActive = assocdomain.OptionalBool{Set: true, Value: *req.IsActive}
	}

	farmer, err := h.Associations.UpdateFarmer(r.Context(), input)
	if err != nil {
		if errors.Is(err, assocdomain.ErrFarmerNotFound) {
			writeError(w, http.StatusNotFound, "not_found", "farmer not found")
			return
		}
		h.log.BusinessError("farmers.update rejected", err, "code", code)
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, newFarmerView(*farmer))
}

func (h *Handlers) DeleteFarmer(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")

	if err := h.Associations.DeleteFarmer(r.Context(), code); err != nil {
		if errors.Is(err, assocdomain.ErrFarmerNotFound) {
			writeError(w, http.StatusNotFound, "not_found", "farmer not found")
			return
		}
		h.log.InternalError("farmers.delete failed", err, "code", code)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
