package domain

// QuotationStatus represents the lifecycle state of a quotation
type QuotationStatus string

const (
	QuotationStatusDraft     QuotationStatus = "draft"
	QuotationStatusPending   QuotationStatus = "pending"
	QuotationStatusApproved  QuotationStatus = "approved"
	QuotationStatusRejected  QuotationStatus = "rejected"
	QuotationStatusCompleted QuotationStatus = "completed"
)

// QuotationStatuses lists every quotation status in display order
var QuotationStatuses = []QuotationStatus{
	QuotationStatusDraft,
	QuotationStatusPending,
	QuotationStatusApproved,
	QuotationStatusRejected,
	QuotationStatusCompleted,
}

// IsValid reports whether s is a member of the quotation status set.
// Any member may follow any other member.
func (s QuotationStatus) IsValid() bool {
	for _, v := range QuotationStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// InvoiceStatus represents the payment state of an invoice
type InvoiceStatus string

const (
	InvoiceStatusDraft   InvoiceStatus = "draft"
	InvoiceStatusPending InvoiceStatus = "pending"
	InvoiceStatusPaid    InvoiceStatus = "paid"
	InvoiceStatusPartial InvoiceStatus = "partial"
)

var InvoiceStatuses = []InvoiceStatus{
	InvoiceStatusDraft,
	InvoiceStatusPending,
	InvoiceStatusPaid,
	InvoiceStatusPartial,
}

func (s InvoiceStatus) IsValid() bool {
	for _, v := range InvoiceStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// RevenueStatus returns the status whose documents count towards revenue
func RevenueStatus(docType DocumentType) string {
	if docType == DocumentTypeInvoice {
		return string(InvoiceStatusPaid)
	}
	return string(QuotationStatusApproved)
}

// StatusNames returns the string form of every status for a document type
func StatusNames(docType DocumentType) []string {
	if docType == DocumentTypeInvoice {
		names := make([]string, len(InvoiceStatuses))
		for i, s := range InvoiceStatuses {
			names[i] = string(s)
		}
		return names
	}
	names := make([]string, len(QuotationStatuses))
	for i, s := range QuotationStatuses {
		names[i] = string(s)
	}
	return names
}
