package handler

import (
	"net/http"

	"github.com/emeena/quotation-api/internal/domain"
	"github.com/emeena/quotation-api/internal/service"
	"go.uber.org/zap"
)

type InvoiceHandler struct {
	invoiceService *service.InvoiceService
	logger         *zap.Logger
}

func NewInvoiceHandler(invoiceService *service.InvoiceService, logger *zap.Logger) *InvoiceHandler {
	return &InvoiceHandler{
		invoiceService: invoiceService,
		logger:         logger,
	}
}

// List godoc
// @Summary List invoices
// @Description Paginated list of invoices. Regular users only see invoices they prepared.
// @Tags Invoices
// @Produce json
// @Param status query string false "Filter by status" Enums(draft, pending, paid, partial)
// @Param startDate query string false "Earliest document date (YYYY-MM-DD)"
// @Param endDate query string false "Latest document date, inclusive (YYYY-MM-DD)"
// @Param clientName query string false "Case-insensitive match on client name"
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page (max 200)" default(10)
// @Param sortBy query string false "Sort field" Enums(createdAt, updatedAt, date, documentNumber, clientName, grandTotal, status)
// @Param sortOrder query string false "Sort direction" Enums(asc, desc)
// @Success 200 {object} domain.Envelope{data=domain.PaginatedResponse{items=[]domain.InvoiceDTO}}
// @Failure 400 {object} domain.Envelope
// @Failure 401 {object} domain.Envelope
// @Security BearerAuth
// @Router /invoices [get]
func (h *InvoiceHandler) List(w http.ResponseWriter, r *http.Request) {
	filter, opts, ok := listQueryOrBadRequest(w, r)
	if !ok {
		return
	}

	result, err := h.invoiceService.List(r.Context(), filter, opts)
	if err != nil {
		handleServiceError(w, h.logger, err, "list invoices")
		return
	}
	respondSuccess(w, http.StatusOK, "", result)
}

// GetByID godoc
// @Summary Get invoice
// @Tags Invoices
// @Produce json
// @Param id path string true "Invoice ID" format(uuid)
// @Success 200 {object} domain.Envelope{data=domain.InvoiceDTO}
// @Failure 400 {object} domain.Envelope
// @Failure 403 {object} domain.Envelope
// @Failure 404 {object} domain.Envelope
// @Security BearerAuth
// @Router /invoices/{id} [get]
func (h *InvoiceHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "invoice")
	if !ok {
		return
	}

	invoice, err := h.invoiceService.GetByID(r.Context(), id)
	if err != nil {
		handleServiceError(w, h.logger, err, "get invoice")
		return
	}
	respondSuccess(w, http.StatusOK, "", invoice)
}

// Create godoc
// @Summary Create invoice
// @Description Creates a draft invoice and assigns the next invoice number. Empty line item rows are dropped.
// @Tags Invoices
// @Accept json
// @Produce json
// @Param request body domain.CreateInvoiceRequest true "Invoice data"
// @Success 201 {object} domain.Envelope{data=domain.InvoiceDTO}
// @Failure 400 {object} domain.Envelope
// @Failure 409 {object} domain.Envelope
// @Security BearerAuth
// @Router /invoices [post]
func (h *InvoiceHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateInvoiceRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	invoice, err := h.invoiceService.Create(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.logger, err, "create invoice")
		return
	}

	w.Header().Set("Location", "/api/v1/invoices/"+invoice.ID.String())
	respondSuccess(w, http.StatusCreated, "invoice created", invoice)
}

// Update godoc
// @Summary Update invoice
// @Description Replaces the editable fields. Number, owner and status are not changed. sourceQuotationId may be omitted.
// @Tags Invoices
// @Accept json
// @Produce json
// @Param id path string true "Invoice ID" format(uuid)
// @Param request body domain.UpdateInvoiceRequest true "Invoice data"
// @Success 200 {object} domain.Envelope{data=domain.InvoiceDTO}
// @Failure 400 {object} domain.Envelope
// @Failure 403 {object} domain.Envelope
// @Failure 404 {object} domain.Envelope
// @Security BearerAuth
// @Router /invoices/{id} [put]
func (h *InvoiceHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "invoice")
	if !ok {
		return
	}
	var req domain.UpdateInvoiceRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	invoice, err := h.invoiceService.Update(r.Context(), id, &req)
	if err != nil {
		handleServiceError(w, h.logger, err, "update invoice")
		return
	}
	respondSuccess(w, http.StatusOK, "invoice updated", invoice)
}

// Delete godoc
// @Summary Delete invoice
// @Tags Invoices
// @Produce json
// @Param id path string true "Invoice ID" format(uuid)
// @Success 200 {object} domain.Envelope
// @Failure 403 {object} domain.Envelope
// @Failure 404 {object} domain.Envelope
// @Security BearerAuth
// @Router /invoices/{id} [delete]
func (h *InvoiceHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "invoice")
	if !ok {
		return
	}

	if err := h.invoiceService.Delete(r.Context(), id); err != nil {
		handleServiceError(w, h.logger, err, "delete invoice")
		return
	}
	respondSuccess(w, http.StatusOK, "invoice deleted", nil)
}

// UpdateStatus godoc
// @Summary Set invoice status
// @Description Supervisors and admins may move a invoice to any status.
// @Tags Invoices
// @Accept json
// @Produce json
// @Param id path string true "Invoice ID" format(uuid)
// @Param request body domain.UpdateStatusRequest true "New status"
// @Success 200 {object} domain.Envelope{data=domain.InvoiceDTO}
// @Failure 400 {object} domain.Envelope
// @Failure 403 {object} domain.Envelope
// @Failure 404 {object} domain.Envelope
// @Security BearerAuth
// @Router /invoices/{id}/status [patch]
func (h *InvoiceHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "invoice")
	if !ok {
		return
	}
	var req domain.UpdateStatusRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	invoice, err := h.invoiceService.SetStatus(r.Context(), id, req.Status)
	if err != nil {
		handleServiceError(w, h.logger, err, "update invoice status")
		return
	}
	respondSuccess(w, http.StatusOK, "invoice status updated", invoice)
}

// Stats godoc
// @Summary Invoice statistics
// @Description Count and value per status plus revenue from paid invoices
// @Tags Invoices
// @Produce json
// @Param startDate query string false "Earliest document date (YYYY-MM-DD)"
// @Param endDate query string false "Latest document date, inclusive (YYYY-MM-DD)"
// @Param clientName query string false "Case-insensitive match on client name"
// @Success 200 {object} domain.Envelope{data=domain.DocumentStatsDTO}
// @Security BearerAuth
// @Router /invoices/stats [get]
func (h *InvoiceHandler) Stats(w http.ResponseWriter, r *http.Request) {
	filter, _, ok := listQueryOrBadRequest(w, r)
	if !ok {
		return
	}
	filter.Status = ""

	stats, err := h.invoiceService.Stats(r.Context(), filter)
	if err != nil {
		handleServiceError(w, h.logger, err, "compute invoice stats")
		return
	}
	respondSuccess(w, http.StatusOK, "", stats)
}

// Calculate godoc
// @Summary Preview invoice totals
// @Description Computes totals and the 60/40 advance and balance split without saving anything
// @Tags Invoices
// @Accept json
// @Produce json
// @Param request body domain.CalculateTotalsRequest true "Items, tax rate and discount"
// @Success 200 {object} domain.Envelope{data=domain.TotalsDTO}
// @Failure 400 {object} domain.Envelope
// @Security BearerAuth
// @Router /invoices/calculate [post]
func (h *InvoiceHandler) Calculate(w http.ResponseWriter, r *http.Request) {
	var req domain.CalculateTotalsRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	result, err := h.invoiceService.Calculate(&req)
	if err != nil {
		handleServiceError(w, h.logger, err, "calculate totals")
		return
	}
	respondSuccess(w, http.StatusOK, "", result)
}
