package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"customer-engine/internal/api/handler/dto"
	"customer-engine/internal/domain/customer"
	"customer-engine/internal/infrastructure/monitoring"
	"customer-engine/internal/pkg/apperrors"

	"github.com/go-chi/chi/v5"
)

type CustomerHandler struct {
	service customer.CustomerService
	logger  *slog.Logger
}

func NewCustomerHandler(s customer.CustomerService, l *slog.Logger) *CustomerHandler {
	if s == nil {
		panic("customer service cannot be nil")
	}
	if l == nil {
		panic("logger cannot be nil")
	}
	return &CustomerHandler{
		service: s,
		logger:  l.With("component", "CustomerHandler"),
	}
}

func getCustomerIDFromURL(r *http.Request) (int64, error) {
	idStr := chi.URLParam(r, "customerID")
	if idStr == "" {
		return 0, fmt.Errorf("%w: customerID not found in URL path", apperrors.ErrInvalidArgument)
	}
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: invalid customerID format in URL path: %s", apperrors.ErrInvalidArgument, idStr)
	}
	return id, nil
}

func rejectionReason(err error) string {
	switch {
	case errors.Is(err, customer.ErrNotFound):
		return "not_found"
	case errors.Is(err, customer.ErrEmailTaken):
		return "email_taken"
	case errors.Is(err, customer.ErrDefaultGroupNotAssigned):
		return "default_group_not_assigned"
	case errors.Is(err, customer.ErrUnknownGroup):
		return "unknown_group"
	case errors.Is(err, customer.ErrMissingRequiredField):
		return "missing_required_field"
	case errors.Is(err, customer.ErrInvalidCustomer):
		return "invalid_customer"
	default:
		return "internal"
	}
}

// EditCustomer handles PUT /customers/{customerID}
// @Summary Edit an existing customer
// @Description Applies a sparse update to one customer. Absent body fields are left unchanged; present empty fields clear the attribute.
// @Tags Customers
// @Accept json
// @Produce json
// @Param customerID path int true "Customer ID" Minimum(1)
// @Param request body dto.EditCustomerRequest true "Sparse customer edit request"
// @Success 200 {object} dto.CustomerResponse "Customer successfully updated"
// @Failure 400 {object} dto.ErrorResponse "Malformed request"
// @Failure 404 {object} dto.ErrorResponse "Customer not found"
// @Failure 409 {object} dto.ErrorResponse "Email already used by another registered account"
// @Failure 422 {object} dto.ErrorResponse "Business invariant or validation failure"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /customers/{customerID} [put]
// @Security BearerAuth
func (h *CustomerHandler) EditCustomer(w http.ResponseWriter, r *http.Request) {
	customerID, err := getCustomerIDFromURL(r)
	if err != nil {
		h.logger.WarnContext(r.Context(), "Failed to get customer ID from URL", slog.Any("error", err))
		respondError(w, err)
		return
	}

	var req dto.EditCustomerRequest
	if err := decodeJSON(r, &req); err != nil {
		h.logger.WarnContext(r.Context(), "Failed to decode request body", slog.Any("error", err))
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}
	if err := req.Validate(); err != nil {
		h.logger.WarnContext(r.Context(), "Edit request validation failed", slog.Any("error", err))
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}

	h.logger.DebugContext(r.Context(), "Calling customer service EditCustomer", slog.Int64("customerID", customerID))
	edited, err := h.service.EditCustomer(r.Context(), req.ToCommand(customerID))
	if err != nil {
		monitoring.RecordEditRejected(rejectionReason(err))

		level := slog.LevelWarn
		if rejectionReason(err) == "internal" {
			level = slog.LevelError
		}
		h.logger.Log(r.Context(), level, "Service failed to edit customer", slog.Any("error", err))
		respondError(w, err)
		return
	}
	monitoring.RecordEditCommitted()

	resp := dto.NewCustomerResponse(edited)
	h.logger.InfoContext(r.Context(), "Customer edited successfully", slog.String("customerID", resp.CustomerID))
	respondJSON(w, http.StatusOK, resp)
}

// GetCustomer handles GET /customers/{customerID}
// @Summary Retrieve customer details
// @Description Retrieves details for a specific customer by their ID.
// @Tags Customers
// @Produce json
// @Param customerID path int true "Customer ID" Minimum(1)
// @Success 200 {object} dto.CustomerResponse "Customer details retrieved"
// @Failure 400 {object} dto.ErrorResponse "Invalid customer ID format"
// @Failure 404 {object} dto.ErrorResponse "Customer not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /customers/{customerID} [get]
// @Security BearerAuth
func (h *CustomerHandler) GetCustomer(w http.ResponseWriter, r *http.Request) {
	customerID, err := getCustomerIDFromURL(r)
	if err != nil {
		h.logger.WarnContext(r.Context(), "Failed to get customer ID from URL", slog.Any("error", err))
		respondError(w, err)
		return
	}

	h.logger.DebugContext(r.Context(), "Calling customer service GetCustomer")
	domainCustomer, err := h.service.GetCustomer(r.Context(), customerID)
	if err != nil {
		level := slog.LevelWarn
		if !errors.Is(err, customer.ErrNotFound) && !errors.Is(err, apperrors.ErrNotFound) {
			level = slog.LevelError
		}
		h.logger.Log(r.Context(), level, "Service failed to get customer", slog.Any("error", err))
		respondError(w, err)
		return
	}

	resp := dto.NewCustomerResponse(domainCustomer)
	h.logger.InfoContext(r.Context(), "Customer retrieved successfully")
	respondJSON(w, http.StatusOK, resp)
}

// ListCustomers handles GET /customers
// @Summary List customers
// @Description Retrieves a list of customers, optionally filtered to active accounts.
// @Tags Customers
// @Produce json
// @Param active query bool false "Only list active customers" Example(true)
// @Success 200 {array} dto.CustomerResponse "List of customers"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /customers [get]
// @Security BearerAuth
func (h *CustomerHandler) ListCustomers(w http.ResponseWriter, r *http.Request) {
	activeOnly := r.URL.Query().Get("active") == "true"

	h.logger.DebugContext(r.Context(), "Calling customer service ListCustomers", slog.Bool("activeOnly", activeOnly))
	customers, err := h.service.ListCustomers(r.Context(), activeOnly)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "Service failed to list customers", slog.Any("error", err))
		respondError(w, err)
		return
	}

	resp := make([]dto.CustomerResponse, 0, len(customers))
	for _, cust := range customers {
		resp = append(resp, dto.NewCustomerResponse(cust))
	}
	respondJSON(w, http.StatusOK, resp)
}
