package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	catalogdomain "github.com/Arzion032/binhi-fms-backend/internal/domain/catalog"
	"github.com/Arzion032/binhi-fms-backend/internal/storage"
	authmw "github.com/Arzion032/binhi-fms-backend/internal/transport/httpserver/middleware"
)

const maxUploadMemory = 10 << 20

type variationRequest struct {
	Name            string          `json:"name" validate:"required"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	Stock           int             `json:"stock"`
	UnitMeasurement string          `json:"unit_measurement"`
	IsAvailable     bool            `json:"is_available"`
	IsDefault       bool            `json:"is_default"`
}

type createProductRequest struct {
	CategoryID  string             `json:"category_id" validate:"required,uuid"`
	Name        string             `json:"name" validate:"required"`
	Description string             `json:"description"`
	Variations  []variationRequest `json:"variations"`
}

type updateProductRequest struct {
	CategoryID  *string            `json:"category_id"`
	Name        *string            `json:"name"`
	Description *string            `json:"description"`
	Status      *string            `json:"status"`
	Variations  []variationRequest `json:"variations"`
}

type batchDeleteRequest struct {
	ProductIDs []string `json:"product_ids" validate:"required,min=1"`
}

type productListResponse struct {
	Items []catalogdomain.ProductWithDetails `json:"items"`
	Total int64                              `json:"total"`
}

func toVariationInputs(reqs []variationRequest) []catalogdomain.VariationInput {
	if reqs == nil {
		return nil
	}
	inputs := make([]catalogdomain.VariationInput, 0, len(reqs))
	for _, v := range reqs {
		inputs = append(inputs, catalogdomain.VariationInput{
			Name:            v.Name,
			UnitPrice:       v.UnitPrice,
			Stock:           v.Stock,
			UnitMeasurement: v.UnitMeasurement,
			IsAvailable:     v.IsAvailable,
			IsDefault:       v.IsDefault,
		})
	}
	return inputs
}

func (h *Handlers) ListProducts(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	limit, err := parseIntParam(query.Get("limit"), 20)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid limit")
		return
	}
	offset, err := parseIntParam(query.Get("offset"), 0)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid offset")
		return
	}

	items, total, err := h.Catalog.ListProducts(r.Context(), catalogdomain.ListFilter{
		VendorID: query.Get("vendor_id"),
		Status:   query.Get("status"),
		Search:   query.Get("search"),
		Limit:    limit,
		Offset:   offset,
	})
	if err != nil {
		h.log.InternalError("products.list failed", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	writeJSON(w, http.StatusOK, productListResponse{Items: items, Total: total})
}

func (h *Handlers) GetProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	product, err := h.Catalog.GetProduct(r.Context(), id)
	if err != nil {
		if errors.Is(err, catalogdomain.ErrProductNotFound) {
			writeError(w, http.StatusNotFound, "not_found", "product not found")
			return
		}
		h.log.InternalError("products.get failed", err, "product_id", id)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	writeJSON(w, http.StatusOK, product)
}

func (h *Handlers) CreateProduct(w http.ResponseWriter, r *http.Request) {
	claims, ok := authmw.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing credentials")
		return
	}

	var req createProductRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	product, err := h.Catalog.CreateProduct(r.Context(), catalogdomain.CreateProductInput{
		VendorID:    claims.UserID,
		CategoryID:  req.CategoryID,
		Name:        req.Name,
		Description: req.Description,
		Variations:  toVariationInputs(req.Variations),
	}, claims.Role)
	if err != nil {
		switch {
		case errors.Is(err, catalogdomain.ErrCategoryNotFound):
			writeError(w, http.StatusNotFound, "not_found", "category not found")
		case errors.Is(err, catalogdomain.ErrDuplicateVariation):
			writeError(w, http.StatusBadRequest, "duplicate_variation", "variation names must be unique")
		default:
			h.log.BusinessError("products.create rejected", err, "vendor_id", claims.UserID)
			writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		}
		return
	}

	writeJSON(w, http.StatusCreated, product)
}

func (h *Handlers) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	claims, ok := authmw.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing credentials")
		return
	}
	id := chi.URLParam(r, "id")

	var req updateProductRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	input := catalogdomain.UpdateProductInput{
		ProductID:  id,
		ActorID:    claims.UserID,
		ActorRole:  claims.Role,
		Variations: toVariationInputs(req.Variations),
	}
	if req.CategoryID != nil {
		input.CategoryID = catalogdomain.OptionalString{Set: true, Value: *req.CategoryID}
	}
	if req.Name != nil {
		input.Name = catalogdomain.OptionalString{Set: true, Value: *req.Name}
	}
	if req.Description != nil {
		input.Description = catalogdomain.OptionalString{Set: true, Value: *req.Description}
	}
	if req.Status != nil {
		input.Status = catalogdomain.OptionalString{Set: true, Value: *req.Status}
	}

	product, err := h.Catalog.UpdateProduct(r.Context(), input)
	if err != nil {
		switch {
		case errors.Is(err, catalogdomain.ErrProductNotFound):
			writeError(w, http.StatusNotFound, "not_found", "product not found")
		case errors.Is(err, catalogdomain.ErrCategoryNotFound):
			writeError(w, http.StatusNotFound, "not_found", "category not found")
		case errors.Is(err, catalogdomain.ErrNotOwner):
			writeError(w, http.StatusForbidden, "forbidden", "not the product owner")
		case errors.Is(err, catalogdomain.ErrInvalidProductStatus):
			writeError(w, http.StatusBadRequest, "invalid_request", "invalid product status")
		case errors.Is(err, catalogdomain.ErrDuplicateVariation):
			writeError(w, http.StatusBadRequest, "duplicate_variation", "variation names must be unique")
		default:
			h.log.BusinessError("products.update rejected", err, "product_id", id)
			writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		}
		return
	}

	writeJSON(w, http.StatusOK, product)
}

func (h *Handlers) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	claims, ok := authmw.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing credentials")
		return
	}
	id := chi.URLParam(r, "id")

	if err := h.Catalog.DeleteProduct(r.Context(), id, claims.UserID, claims.Role); err != nil {
		switch {
		case errors.Is(err, catalogdomain.ErrProductNotFound):
			writeError(w, http.StatusNotFound, "not_found", "product not found")
		case errors.Is(err, catalogdomain.ErrNotOwner):
			writeError(w, http.StatusForbidden, "forbidden", "not the product owner")
		default:
			h.log.InternalError("products.delete failed", err, "product_id", id)
			writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) BatchDeleteProducts(w http.ResponseWriter, r *http.Request) {
	var req batchDeleteRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	deleted, err := h.Catalog.BatchDeleteProducts(r.Context(), req.ProductIDs)
	if err != nil {
		h.log.InternalError("products.batch_delete failed", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]int64{"deleted": deleted})
}

func (h *Handlers) AcceptProduct(w http.ResponseWriter, r *http.Request) {
	h.moderateProduct(w, r, true)
}

func (h *Handlers) RejectProduct(w http.ResponseWriter, r *http.Request) {
	h.moderateProduct(w, r, false)
}

func (h *Handlers) moderateProduct(w http.ResponseWriter, r *http.Request, accept bool) {
	id := chi.URLParam(r, "id")

	var (
		product *catalogdomain.Product
		err     error
	)
	if accept {
		product, err = h.Catalog.AcceptProduct(r.Context(), id)
	} else {
		product, err = h.Catalog.RejectProduct(r.Context(), id)
	}
	if err != nil {
		if errors.Is(err, catalogdomain.ErrProductNotFound) {
			writeError(w, http.StatusNotFound, "not_found", "product not found")
			return
		}
		h.log.InternalError("products.moderate failed", err, "product_id", id)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	writeJSON(w, http.StatusOK, product)
}

func (h *Handlers) UploadProductImage(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "expected multipart form data")
		return
	}
	file, header, err := r.FormFile("image")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "image file is required")
		return
	}
	defer file.Close()

	imageURL, thumbnailURL, err := h.images.Save(file, header)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrTooLarge):
			writeError(w, http.StatusRequestEntityTooLarge, "file_too_large", "image exceeds the size limit")
		case errors.Is(err, storage.ErrUnsupportedType):
			writeError(w, http.StatusBadRequest, "unsupported_type", "only jpeg and png images are accepted")
		default:
			h.log.InternalError("products.upload_image: save failed", err, "product_id", id)
			writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		}
		return
	}

	image, err := h.Catalog.AddImage(r.Context(), id, imageURL, thumbnailURL)
	if err != nil {
		if removeErr := h.images.Remove(imageURL); removeErr != nil {
			h.log.Warn("products.upload_image: orphan cleanup failed", "image_url", imageURL)
		}
		if errors.Is(err, catalogdomain.ErrProductNotFound) {
			writeError(w, http.StatusNotFound, "not_found", "product not found")
			return
		}
		h.log.InternalError("products.upload_image: record failed", err, "product_id", id)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	writeJSON(w, http.StatusCreated, image)
}

func (h *Handlers) DeleteProductImage(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	image, err := h.Catalog.DeleteImage(r.Context(), id)
	if err != nil {
		if errors.Is(err, catalogdomain.ErrImageNotFound) {
			writeError(w, http.StatusNotFound, "not_found", "image not found")
			return
		}
		h.log.InternalError("products.delete_image failed", err, "image_id", id)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	if err := h.images.Remove(image.ImageURL); err != nil {
		h.log.Warn("products.delete_image: file cleanup failed", "image_url", image.ImageURL)
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.Catalog.ListCategories(r.Context())
	if err != nil {
		h.log.InternalError("categories.list failed", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}
	writeJSON(w, http.StatusOK, categories)
}

func (h *Handlers) GetCategory(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	category, err := h.Catalog.GetCategory(r.Context(), id)
	if err != nil {
		if errors.Is(err, catalogdomain.ErrCategoryNotFound) {
			writeError(w, http.StatusNotFound, "not_found", "category not found")
			return
		}
		h.log.InternalError("categories.get failed", err, "category_id", id)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	writeJSON(w, http.StatusOK, category)
}

type categoryRequest struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
}

type updateCategoryRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

func (h *Handlers) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	category, err := h.Catalog.CreateCategory(r.Context(), catalogdomain.CreateCategoryInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		if errors.Is(err, catalogdomain.ErrCategoryNameTaken) {
			writeError(w, http.StatusConflict, "name_taken", "category name already exists")
			return
		}
		h.log.BusinessError("categories.create rejected", err)
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, category)
}

func (h *Handlers) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req updateCategoryRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	input := catalogdomain.UpdateCategoryInput{CategoryID: id}
	if req.Name != nil {
		input.Name = catalogdomain.OptionalString{Set: true, Value: *req.Name}
	}
	if req.Description != nil {
		input.Description = catalogdomain.OptionalString{Set: true, Value: *req.Description}
	}

	category, err := h.Catalog.UpdateCategory(r.Context(), input)
	if err != nil {
		switch {
		case errors.Is(err, catalogdomain.ErrCategoryNotFound):
			writeError(w, http.StatusNotFound, "not_found", "category not found")
		case errors.Is(err, catalogdomain.ErrCategoryNameTaken):
			writeError(w, http.StatusConflict, "name_taken", "category name already exists")
		default:
			h.log.BusinessError("categories.update rejected", err, "category_id", id)
			writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		}
		return
	}

	writeJSON(w, http.StatusOK, category)
}

func (h *Handlers) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.Catalog.DeleteCategory(r.Context(), id); err != nil {
		if errors.Is(err, catalogdomain.ErrCategoryNotFound) {
			writeError(w, http.StatusNotFound, "not_found", "category not found")
			return
		}
		h.log.InternalError("categories.delete failed", err, "category_id", id)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
