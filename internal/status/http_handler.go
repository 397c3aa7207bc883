package status

import (
	"encoding/json"
	"errors"
	"net/http"

	"reco/internal/book"
	"reco/internal/httpx"

	"go.uber.org/zap"
)

type HTTPHandler struct {
	service *Service
	logger  *zap.Logger
}

func NewHTTPHandler(service *Service, logger *zap.Logger) *HTTPHandler {
	return &HTTPHandler{service: service, logger: logger}
}

type UpsertReq struct {
	BookID string `json:"book_id" validate:"required,max=128"`
	Status string `json:"status" validate:"required"`
}

// Upsert handles PUT /v1/statuses
// @Summary Set the status of a book
// @Tags statuses
// @Accept json
// @Security Bearer
// @Param request body UpsertReq true "Status"
// @Success 204 "No Content"
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 401 {object} httpx.ErrorResponse
// @Router /v1/statuses [put]
func (h *HTTPHandler) Upsert(w http.ResponseWriter, r *http.Request) {
	userID := httpx.UserIDFrom(r)
	if userID == "" {
		httpx.JSONError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized", nil)
		return
	}

	var req UpsertReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", "Invalid request body", nil)
		return
	}
	if validationErrors := httpx.ValidateStruct(req); len(validationErrors) > 0 {
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", validationErrors)
		return
	}

	if err := h.service.Upsert(r.Context(), userID, req.BookID, book.Status(req.Status)); err != nil {
		switch {
		case errors.Is(err, book.ErrInvalidStatus):
			httpx.JSONError(w, r, http.StatusBadRequest, "INVALID_STATUS", err.Error(), nil)
			return
		case errors.Is(err, ErrEmptyBookID):
			httpx.JSONError(w, r, http.StatusBadRequest, "INVALID_BOOK_ID", err.Error(), nil)
			return
		}
		h.logger.Error("upserting status",
			zap.String("request_id", httpx.RequestIDFrom(r)),
			zap.String("user_id", userID),
			zap.String("book_id", req.BookID),
			zap.Error(err))
		httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
		return
	}

	httpx.JSONSuccessNoContent(w)
}

// List handles GET /v1/statuses
// @Summary List the caller's book statuses
// @Tags statuses
// @Produce json
// @Security Bearer
// @Success 200 {object} httpx.SuccessResponse
// @Router /v1/statuses [get]
func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := httpx.UserIDFrom(r)
	if userID == "" {
		httpx.JSONError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized", nil)
		return
	}

	records, err := h.service.List(r.Context(), userID)
	if err != nil {
		h.logger.Error("listing statuses", zap.String("user_id", userID), zap.Error(err))
		httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
		return
	}

	httpx.JSONSuccess(w, r, records, map[string]interface{}{"total": len(records)})
}
