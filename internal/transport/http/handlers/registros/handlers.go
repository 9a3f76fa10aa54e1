package registrohandler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"vera/internal/domain/registro"
	"vera/internal/transport/http/api"
	"vera/internal/transport/http/middleware"
	"vera/internal/transport/http/shared"
)

type Handler struct {
	Service *registro.Service
}

func NewHandler(service *registro.Service) *Handler {
	return &Handler{Service: service}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/registros", func(r chi.Router) {
		r.Get("/", h.handleList)
		r.Post("/", h.handleCreate)
		r.Route("/{registroID}", func(r chi.Router) {
			r.Get("/", h.handleGet)
			r.Patch("/", h.handleUpdate)
			r.Delete("/", h.handleDelete)
		})
	})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	params, v := shared.ParseListParams(r)
	if v.Reject(w, reqID) {
		return
	}
	resp, err := h.Service.List(r.Context(), params)
	if err != nil {
		h.fail(w, r, err, "list registros")
		return
	}
	api.Success(w, resp)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var payload registro.CreateInput
	if !decode(w, r, &payload) {
		return
	}
	rec, err := h.Service.Create(r.Context(), payload)
	if err != nil {
		h.fail(w, r, err, "create registro")
		return
	}
	api.Created(w, rec)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	rec, err := h.Service.Get(r.Context(), chi.URLParam(r, "registroID"))
	if err != nil {
		h.fail(w, r, err, "get registro")
		return
	}
	api.Success(w, rec)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	var payload registro.UpdateInput
	if !decode(w, r, &payload) {
		return
	}
	rec, err := h.Service.Update(r.Context(), chi.URLParam(r, "registroID"), payload)
	if err != nil {
		h.fail(w, r, err, "update registro")
		return
	}
	api.Success(w, rec)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.Delete(r.Context(), chi.URLParam(r, "registroID")); err != nil {
		h.fail(w, r, err, "delete registro")
		return
	}
	api.NoContent(w)
}

func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		reqID := middleware.GetRequestID(r.Context())
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			api.Fail(w, http.StatusRequestEntityTooLarge, "body_too_large", "request body too large", reqID)
			return false
		}
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid payload", reqID)
		return false
	}
	return true
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error, op string) {
	reqID := middleware.GetRequestID(r.Context())
	var fields registro.ValidationErrors
	switch {
	case errors.As(err, &fields):
		shared.FailValidation(w, reqID, fields)
	case errors.Is(err, registro.ErrNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", "registro not found", reqID)
	case errors.Is(err, registro.ErrEmptyUpdate):
		api.Fail(w, http.StatusBadRequest, "empty_update", "no fields to update", reqID)
	case errors.Is(err, registro.ErrInvalidSortField):
		shared.FailValidation(w, reqID, registro.ValidationErrors{
			registro.ParamOrderBy: {Code: shared.CodeInvalidEnum, Message: err.Error()},
		})
	case errors.Is(err, registro.ErrInvalidSortOrder):
		shared.FailValidation(w, reqID, registro.ValidationErrors{
			registro.ParamOrder: {Code: shared.CodeInvalidEnum, Message: err.Error()},
		})
	default:
		slog.Error(op+" failed", "err", err, "requestId", reqID)
		api.Fail(w, http.StatusInternalServerError, "internal_error", "failed to "+op, reqID)
	}
}
