package handler

import (
	"net/http"

	"github.com/emeena/quotation-api/internal/domain"
)

type CatalogHandler struct{}

func NewCatalogHandler() *CatalogHandler {
	return &CatalogHandler{}
}

// LineItems godoc
// @Summary Default line item names
// @Description Names used to pre-fill the item rows of a new document
// @Tags Catalog
// @Produce json
// @Success 200 {object} domain.Envelope{data=domain.CatalogDTO}
// @Security BearerAuth
// @Router /catalog/line-items [get]
func (h *CatalogHandler) LineItems(w http.ResponseWriter, r *http.Request) {
	names := make([]string, len(domain.DefaultLineItemNames))
	copy(names, domain.DefaultLineItemNames)
	respondSuccess(w, http.StatusOK, "", domain.CatalogDTO{LineItems: names})
}
