package rosterhandler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"fairworkly/internal/domain/roster"
	"fairworkly/internal/requestctx"
	"fairworkly/internal/transport/http/api"
	"fairworkly/internal/transport/http/middleware"
)

type Handler struct {
	Service *roster.Service
}

func NewHandler(service *roster.Service) *Handler {
	return &Handler{Service: service}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/rosters", func(r chi.Router) {
		r.Post("/", h.upload)
		r.Post("/{rosterID}/validate", h.validate)
		r.Get("/{rosterID}/results", h.results)
	})
}

// upload takes a multipart roster file (CSV or XLSX). Blocking row
// issues answer 422 with a "Row N: message" list; otherwise the roster
// is persisted and validation kicked off.
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

	summary, issues, err := h.Service.Upload(r.Context(), identity.OrganizationID, header.Filename, file)
	if err != nil {
		switch {
		case errors.Is(err, roster.ErrUnreadableFile):
			api.Fail(w, http.StatusUnprocessableEntity, "INVALID_FILE", err.Error(), requestID)
		case errors.Is(err, roster.ErrNoShiftEntries):
			api.Fail(w, http.StatusUnprocessableEntity, "INVALID_FILE", "Roster file contains no valid shift entries", requestID)
		default:
			api.Fail(w, http.StatusInternalServerError, "INTERNAL", "roster upload failed", requestID)
		}
		return
	}
	if summary == nil {
		var rowErrors []string
		for _, issue := range issues {
			if issue.Blocking {
				rowErrors = append(rowErrors, fmt.Sprintf("Row %d: %s", issue.Row, issue.Message))
			}
		}
		api.WriteJSON(w, http.StatusUnprocessableEntity, api.Envelope{
			Success:   false,
			Data:      map[string]any{"rowErrors": rowErrors},
			Error:     &api.Error{Code: "VALIDATION_FAILED", Message: "roster file contains invalid rows"},
			RequestID: requestID,
		})
		return
	}

	api.Created(w, summary, requestID)
}

func (h *Handler) validate(w http.ResponseWriter, r *http.Request) {
	requestID := requestctx.GetRequestID(r.Context())
	identity, ok := middleware.GetIdentity(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required", requestID)
		return
	}

	rosterID := chi.URLParam(r, "rosterID")
	result, err := h.Service.Validate(r.Context(), identity.OrganizationID, rosterID)
	if err != nil {
		if errors.Is(err, roster.ErrRosterNotFound) {
			api.Fail(w, http.StatusNotFound, "NOT_FOUND", "roster not found", requestID)
			return
		}
		api.Fail(w, http.StatusInternalServerError, "INTERNAL", "roster validation failed", requestID)
		return
	}

	api.Success(w, result, requestID)
}

// results answers 404 until the validation is terminal, so clients can
// poll after an asynchronous upload.
func (h *Handler) results(w http.ResponseWriter, r *http.Request) {
	requestID := requestctx.GetRequestID(r.Context())
	identity, ok := middleware.GetIdentity(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required", requestID)
		return
	}

	rosterID := chi.URLParam(r, "rosterID")
	result, err := h.Service.Results(r.Context(), identity.OrganizationID, rosterID)
	if err != nil {
		switch {
		case errors.Is(err, roster.ErrRosterNotFound):
			api.Fail(w, http.StatusNotFound, "NOT_FOUND", "roster not found", requestID)
		case errors.Is(err, roster.ErrValidationNotFound):
			api.Fail(w, http.StatusNotFound, "NOT_FOUND", "validation results are not available", requestID)
		default:
			api.Fail(w, http.StatusInternalServerError, "INTERNAL", "loading results failed", requestID)
		}
		return
	}

	api.Success(w, result, requestID)
}
