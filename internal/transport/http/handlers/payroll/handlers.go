package payrollhandler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"fairworkly/internal/domain/award"
	"fairworkly/internal/domain/payroll"
	"fairworkly/internal/requestctx"
	"fairworkly/internal/transport/http/api"
	"fairworkly/internal/transport/http/middleware"
	"fairworkly/internal/transport/http/shared"
)

type Handler struct {
	Service *payroll.Service
}

func NewHandler(service *payroll.Service) *Handler {
	return &Handler{Service: service}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/payroll/validations", func(r chi.Router) {
		r.Post("/", h.upload)
		r.Get("/", h.list)
		r.Get("/{validationID}/report", h.report)
	})
}

// upload takes a multipart payroll CSV plus an awardType field. Row
// errors come back as 422 with the full error list; a structurally
// valid file answers with the completed compliance report.
func (h *Handler) upload(w http.ResponseWriter, r *http.Request) {
	requestID := requestctx.GetRequestID(r.Context())
	identity, ok := middleware.GetIdentity(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required", requestID)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "BAD_REQUEST", "multipart field 'file' is required", requestID)
		return
	}
	defer file.Close()

	awardType, ok := award.ParseType(r.FormValue("awardType"))
	if !ok {
		api.Fail(w, http.StatusBadRequest, "BAD_REQUEST", "awardType must be one of Retail, Hospitality, Clerks", requestID)
		return
	}

	report, rowErrors, err := h.Service.UploadAndValidate(r.Context(), identity.OrganizationID, header.Filename, file, awardType)
	if err != nil {
		if errors.Is(err, payroll.ErrEmptyFile) || errors.Is(err, payroll.ErrUnreadableFile) {
			api.Fail(w, http.StatusUnprocessableEntity, "INVALID_FILE", err.Error(), requestID)
			return
		}
		api.Fail(w, http.StatusInternalServerError, "INTERNAL", "payroll validation failed", requestID)
		return
	}
	if len(rowErrors) > 0 {
		api.WriteJSON(w, http.StatusUnprocessableEntity, api.Envelope{
			Success:   false,
			Data:      map[string]any{"rowErrors": rowErrors},
			Error:     &api.Error{Code: "VALIDATION_FAILED", Message: "csv file contains invalid rows"},
			RequestID: requestID,
		})
		return
	}

	api.Created(w, report, requestID)
}

func (h *Handler) report(w http.ResponseWriter, r *http.Request) {
	requestID := requestctx.GetRequestID(r.Context())
	identity, ok := middleware.GetIdentity(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required", requestID)
		return
	}

	validationID := chi.URLParam(r, "validationID")
	report, err := h.Service.GetReport(r.Context(), identity.OrganizationID, validationID)
	if err != nil {
		if errors.Is(err, payroll.ErrValidationNotFound) {
			api.Fail(w, http.StatusNotFound, "NOT_FOUND", "validation results are not available", requestID)
			return
		}
		api.Fail(w, http.StatusInternalServerError, "INTERNAL", "loading report failed", requestID)
		return
	}

	api.Success(w, report, requestID)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	requestID := requestctx.GetRequestID(r.Context())
	identity, ok := middleware.GetIdentity(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required", requestID)
		return
	}

	page := shared.ParsePagination(r, 20, 100)
	validations, total, err := h.Service.ListValidations(r.Context(), identity.OrganizationID, page.Limit, page.Offset)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "INTERNAL", "listing validations failed", requestID)
		return
	}

	api.Success(w, map[string]any{
		"validations": validations,
		"total":       total,
		"limit":       page.Limit,
		"offset":      page.Offset,
	}, requestID)
}
