package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/atelierlaine/reservation-service/internal/platform/logger"
	"github.com/atelierlaine/reservation-service/internal/repository"
	"github.com/atelierlaine/reservation-service/internal/service"
	"github.com/go-chi/chi/v5"
)

type Handler struct {
	reservations service.ReservationService
	catalog      service.CatalogService
	log          logger.Logger
}

func NewHandler(reservations service.ReservationService, catalog service.CatalogService, log logger.Logger) *Handler {
	return &Handler{
		reservations: reservations,
		catalog:      catalog,
		log:          log,
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

type creationRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Images      []string `json:"images"`
	Price       *float64 `json:"price"`
	Color       string   `json:"color"`
	Rank        int      `json:"rank"`
}

type reserveRequest struct {
	Message string `json:"message"`
}

type cancelRequest struct {
	Reason string `json:"reason"`
}

type countResponse struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

func (h *Handler) HandleListCreations(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	onlyAvailable, _ := strconv.ParseBool(q.Get("only_available"))

	result, err := h.catalog.ListCreations(r.Context(), service.ListCreationsInput{
		OnlyAvailable: onlyAvailable,
		Page:          queryInt(q.Get("page")),
		PageSize:      queryInt(q.Get("page_size")),
	})
	if err != nil {
		h.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) HandleGetCreation(w http.ResponseWriter, r *http.Request) {
	creation, err := h.catalog.GetCreation(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, creation)
}

func (h *Handler) HandleCreateCreation(w http.ResponseWriter, r *http.Request) {
	var req creationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	creation, err := h.catalog.CreateCreation(r.Context(), PrincipalFromContext(r.Context()), service.CreationInput{
		Title:       req.Title,
		Description: req.Description,
		Images:      req.Images,
		Price:       req.Price,
		Color:       req.Color,
		Rank:        req.Rank,
	})
	if err != nil {
		h.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, creation)
}

func (h *Handler) HandleUpdateCreation(w http.ResponseWriter, r *http.Request) {
	var req creationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	creation, err := h.catalog.UpdateCreation(r.Context(), PrincipalFromContext(r.Context()), chi.URLParam(r, "id"), service.CreationInput{
		Title:       req.Title,
		Description: req.Description,
		Images:      req.Images,
		Price:       req.Price,
		Color:       req.Color,
		Rank:        req.Rank,
	})
	if err != nil {
		h.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, creation)
}

func (h *Handler) HandleDeleteCreation(w http.ResponseWriter, r *http.Request) {
	err := h.catalog.DeleteCreation(r.Context(), PrincipalFromContext(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		h.respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) HandleReserveCreation(w http.ResponseWriter, r *http.Request) {
	var req reserveRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
	}

	reservation, err := h.reservations.Claim(r.Context(), PrincipalFromContext(r.Context()), service.ClaimInput{
		CreationID: chi.URLParam(r, "id"),
		Message:    req.Message,
	})
	if err != nil {
		h.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, reservation)
}

func (h *Handler) HandleValidateReservation(w http.ResponseWriter, r *http.Request) {
	reservation, err := h.reservations.Validate(r.Context(), PrincipalFromContext(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		h.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, reservation)
}

func (h *Handler) HandleCancelReservation(w http.ResponseWriter, r *http.Request) {
	var req cancelRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
	}

	reservation, err := h.reservations.Cancel(r.Context(), PrincipalFromContext(r.Context()), chi.URLParam(r, "id"), req.Reason)
	if err != nil {
		h.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, reservation)
}

func (h *Handler) HandleDeleteReservation(w http.ResponseWriter, r *http.Request) {
	err := h.reservations.Delete(r.Context(), PrincipalFromContext(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		h.respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) HandleListReservations(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	result, err := h.reservations.List(r.Context(), PrincipalFromContext(r.Context()), service.ListReservationsInput{
		Status:     q.Get("status"),
		OwnerEmail: q.Get("email"),
		Search:     q.Get("search"),
		Page:       queryInt(q.Get("page")),
		PageSize:   queryInt(q.Get("page_size")),
	})
	if err != nil {
		h.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) HandleCountReservations(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")
	count, err := h.reservations.CountByStatus(r.Context(), PrincipalFromContext(r.Context()), status)
	if err != nil {
		h.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, countResponse{Status: status, Count: count})
}

// respondError maps domain and repository errors onto HTTP statuses. Unmapped
// errors are logged and reported as opaque 500s.
func (h *Handler) respondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		writeError(w, http.StatusNotFound, "resource not found")
	case errors.Is(err, service.ErrForbidden):
		writeError(w, http.StatusForbidden, "action not allowed")
	case errors.Is(err, service.ErrAlreadyReserved),
		errors.Is(err, service.ErrAlreadyValidated),
		errors.Is(err, service.ErrAlreadyCancelled),
		errors.Is(err, service.ErrActiveReservation),
		errors.Is(err, repository.ErrConflict):
		writeError(w, http.StatusConflict, err.Error())
	case isValidationError(err):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		h.log.Errorf("Unhandled error in HTTP handler: %v", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

// isValidationError reports validation failures from the service layer, which
// wrap entity constructor errors with an "invalid" prefix.
func isValidationError(err error) bool {
	return strings.HasPrefix(err.Error(), "invalid")
}

func queryInt(raw string) int {
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return v
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}
