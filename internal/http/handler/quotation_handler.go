package handler

import (
	"net/http"

	"github.com/emeena/quotation-api/internal/domain"
	"github.com/emeena/quotation-api/internal/service"
	"go.uber.org/zap"
)

type QuotationHandler struct {
	quotationService *service.QuotationService
	logger           *zap.Logger
}

func NewQuotationHandler(quotationService *service.QuotationService, logger *zap.Logger) *QuotationHandler {
	return &QuotationHandler{
		quotationService: quotationService,
		logger:           logger,
	}
}

// List godoc
// @Summary List quotations
// @Description Paginated list of quotations. Regular users only see quotations they prepared.
// @Tags Quotations
// @Produce json
// @Param status query string false "Filter by status" Enums(draft, pending, approved, rejected, completed)
// @Param startDate query string false "Earliest document date (YYYY-MM-DD)"
// @Param endDate query string false "Latest document date, inclusive (YYYY-MM-DD)"
// @Param clientName query string false "Case-insensitive match on client name"
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page (max 200)" default(10)
// @Param sortBy query string false "Sort field" Enums(createdAt, updatedAt, date, documentNumber, clientName, grandTotal, status)
// @Param sortOrder query string false "Sort direction" Enums(asc, desc)
// @Success 200 {object} domain.Envelope{data=domain.PaginatedResponse{items=[]domain.QuotationDTO}}
// @Failure 400 {object} domain.Envelope
// @Failure 401 {object} domain.Envelope
// @Security BearerAuth
// @Router /quotations [get]
func (h *QuotationHandler) List(w http.ResponseWriter, r *http.Request) {
	filter, opts, ok := listQueryOrBadRequest(w, r)
	if !ok {
		return
	}

	result, err := h.quotationService.List(r.Context(), filter, opts)
	if err != nil {
		handleServiceError(w, h.logger, err, "list quotations")
		return
	}
	respondSuccess(w, http.StatusOK, "", result)
}

// GetByID godoc
// @Summary Get quotation
// @Tags Quotations
// @Produce json
// @Param id path string true "Quotation ID" format(uuid)
// @Success 200 {object} domain.Envelope{data=domain.QuotationDTO}
// @Failure 400 {object} domain.Envelope
// @Failure 403 {object} domain.Envelope
// @Failure 404 {object} domain.Envelope
// @Security BearerAuth
// @Router /quotations/{id} [get]
func (h *QuotationHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "quotation")
	if !ok {
		return
	}

	quotation, err := h.quotationService.GetByID(r.Context(), id)
	if err != nil {
		handleServiceError(w, h.logger, err, "get quotation")
		return
	}
	respondSuccess(w, http.StatusOK, "", quotation)
}

// Create godoc
// @Summary Create quotation
// @Description Creates a draft quotation and assigns the next quotation number. Empty line item rows are dropped.
// @Tags Quotations
// @Accept json
// @Produce json
// @Param request body domain.CreateQuotationRequest true "Quotation data"
// @Success 201 {object} domain.Envelope{data=domain.QuotationDTO}
// @Failure 400 {object} domain.Envelope
// @Failure 409 {object} domain.Envelope
// @Security BearerAuth
// @Router /quotations [post]
func (h *QuotationHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateQuotationRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	quotation, err := h.quotationService.Create(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.logger, err, "create quotation")
		return
	}

	w.Header().Set("Location", "/api/v1/quotations/"+quotation.ID.String())
	respondSuccess(w, http.StatusCreated, "quotation created", quotation)
}

// Update godoc
// @Summary Update quotation
// @Description Replaces the editable fields. Number, owner and status are not changed.
// @Tags Quotations
// @Accept json
// @Produce json
// @Param id path string true "Quotation ID" format(uuid)
// @Param request body domain.UpdateQuotationRequest true "Quotation data"
// @Success 200 {object} domain.Envelope{data=domain.QuotationDTO}
// @Failure 400 {object} domain.Envelope
// @Failure 403 {object} domain.Envelope
// @Failure 404 {object} domain.Envelope
// @Security BearerAuth
// @Router /quotations/{id} [put]
func (h *QuotationHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "quotation")
	if !ok {
		return
	}
	var req domain.UpdateQuotationRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	quotation, err := h.quotationService.Update(r.Context(), id, &req)
	if err != nil {
		handleServiceError(w, h.logger, err, "update quotation")
		return
	}
	respondSuccess(w, http.StatusOK, "quotation updated", quotation)
}

// Delete godoc
// @Summary Delete quotation
// @Tags Quotations
// @Produce json
// @Param id path string true "Quotation ID" format(uuid)
// @Success 200 {object} domain.Envelope
// @Failure 403 {object} domain.Envelope
// @Failure 404 {object} domain.Envelope
// @Security BearerAuth
// @Router /quotations/{id} [delete]
func (h *QuotationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "quotation")
	if !ok {
		return
	}

	if err := h.quotationService.Delete(r.Context(), id); err != nil {
		handleServiceError(w, h.logger, err, "delete quotation")
		return
	}
	respondSuccess(w, http.StatusOK, "quotation deleted", nil)
}

// UpdateStatus godoc
// @Summary Set quotation status
// @Description Supervisors and admins may move a quotation to any status.
// @Tags Quotations
// @Accept json
// @Produce json
// @Param id path string true "Quotation ID" format(uuid)
// @Param request body domain.UpdateStatusRequest true "New status"
// @Success 200 {object} domain.Envelope{data=domain.QuotationDTO}
// @Failure 400 {object} domain.Envelope
// @Failure 403 {object} domain.Envelope
// @Failure 404 {object} domain.Envelope
// @Security BearerAuth
// @Router /quotations/{id}/status [patch]
func (h *QuotationHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "quotation")
	if !ok {
		return
	}
	var req domain.UpdateStatusRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	quotation, err := h.quotationService.SetStatus(r.Context(), id, req.Status)
	if err != nil {
		handleServiceError(w, h.logger, err, "update quotation status")
		return
	}
	respondSuccess(w, http.StatusOK, "quotation status updated", quotation)
}

// Stats godoc
// @Summary Quotation statistics
// @Description Count and value per status plus revenue from approved quotations
// @Tags Quotations
// @Produce json
// @Param startDate query string false "Earliest document date (YYYY-MM-DD)"
// @Param endDate query string false "Latest document date, inclusive (YYYY-MM-DD)"
// @Param clientName query string false "Case-insensitive match on client name"
// @Success 200 {object} domain.Envelope{data=domain.DocumentStatsDTO}
// @Security BearerAuth
// @Router /quotations/stats [get]
func (h *QuotationHandler) Stats(w http.ResponseWriter, r *http.Request) {
	filter, _, ok := listQueryOrBadRequest(w, r)
	if !ok {
		return
	}
	filter.Status = ""

	stats, err := h.quotationService.Stats(r.Context(), filter)
	if err != nil {
		handleServiceError(w, h.logger, err, "compute quotation stats")
		return
	}
	respondSuccess(w, http.StatusOK, "", stats)
}

// Calculate godoc
// @Summary Preview quotation totals
// @Description Computes line, sub, tax and grand totals without saving anything
// @Tags Quotations
// @Accept json
// @Produce json
// @Param request body domain.CalculateTotalsRequest true "Items, tax rate and discount"
// @Success 200 {object} domain.Envelope{data=domain.TotalsDTO}
// @Failure 400 {object} domain.Envelope
// @Security BearerAuth
// @Router /quotations/calculate [post]
func (h *QuotationHandler) Calculate(w http.ResponseWriter, r *http.Request) {
	var req domain.CalculateTotalsRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	result, err := h.quotationService.Calculate(&req)
	if err != nil {
		handleServiceError(w, h.logger, err, "calculate totals")
		return
	}
	respondSuccess(w, http.StatusOK, "", result)
}
