package mongostore

import (
	"time"

	"github.com/emeena/quotation-api/internal/domain"
	"github.com/google/uuid"
)

// Collection names
const (
	quotationsCollection = "quotations"
	invoicesCollection   = "invoices"
	sequencesCollection  = "number_sequences"
	usersCollection      = "users"
)

type clientRecord struct {
	Title   string `bson:"title"`
	Name    string `bson:"name"`
	Company string `bson:"company,omitempty"`
	Address string `bson:"address"`
	Phone   string `bson:"phone,omitempty"`
}

type lineItemRecord struct {
	Name      string  `bson:"name"`
	Quantity  float64 `bson:"quantity"`
	LineFit   string  `bson:"lineFit"`
	UnitPrice float64 `bson:"unitPrice"`
	Total     float64 `bson:"total"`
}

type scheduleRecord struct {
	MeasuringDay   *time.Time `bson:"measuringDay,omitempty"`
	Inspection     *time.Time `bson:"inspection,omitempty"`
	Installation1  *time.Time `bson:"installation1,omitempty"`
	Installation2  *time.Time `bson:"installation2,omitempty"`
	CompletionDate *time.Time `bson:"completionDate,omitempty"`
}

type quotationRecord struct {
	ID               string           `bson:"_id"`
	DocumentNumber   string           `bson:"documentNumber"`
	Date             time.Time        `bson:"date"`
	ValidUntil       time.Time        `bson:"validUntil"`
	PreparedByUserID string           `bson:"preparedByUserId"`
	PreparedByName   string           `bson:"preparedByName"`
	Client           clientRecord     `bson:"client"`
	Items            []lineItemRecord `bson:"items"`
	SubTotal         float64          `bson:"subTotal"`
	TaxRatePercent   float64          `bson:"taxRatePercent"`
	DiscountAmount   float64          `bson:"discountAmount"`
	GrandTotal       float64          `bson:"grandTotal"`
	Status           string           `bson:"status"`
	ProjectSchedule  scheduleRecord   `bson:"projectSchedule"`
	Notes            string           `bson:"notes"`
	CreatedAt        time.Time        `bson:"createdAt"`
	UpdatedAt        time.Time        `bson:"updatedAt"`
}

type invoiceRecord struct {
	ID                string           `bson:"_id"`
	DocumentNumber    string           `bson:"documentNumber"`
	Date              time.Time        `bson:"date"`
	PreparedByUserID  string           `bson:"preparedByUserId"`
	PreparedByName    string           `bson:"preparedByName"`
	Client            clientRecord     `bson:"client"`
	Items             []lineItemRecord `bson:"items"`
	SubTotal          float64          `bson:"subTotal"`
	TaxRatePercent    float64          `bson:"taxRatePercent"`
	DiscountAmount    float64          `bson:"discountAmount"`
	GrandTotal        float64          `bson:"grandTotal"`
	Status            string           `bson:"status"`
	Notes             string           `bson:"notes"`
	SourceQuotationID *string          `bson:"sourceQuotationId"`
	CreatedAt         time.Time        `bson:"createdAt"`
	UpdatedAt         time.Time        `bson:"updatedAt"`
}

type sequenceRecord struct {
	DocumentType string    `bson:"_id"`
	LastSequence int       `bson:"lastSequence"`
	UpdatedAt    time.Time `bson:"updatedAt"`
}

type userRecord struct {
	ID           string     `bson:"_id"`
	FullName     string     `bson:"fullName"`
	StaffID      string     `bson:"staffId,omitempty"`
	Email        string     `bson:"email"`
	PasswordHash string     `bson:"passwordHash"`
	Role         string     `bson:"role"`
	IsActive     bool       `bson:"isActive"`
	LastLoginAt  *time.Time `bson:"lastLoginAt,omitempty"`
	CreatedAt    time.Time  `bson:"createdAt"`
	UpdatedAt    time.Time  `bson:"updatedAt"`
}

// stampNew fills the id and timestamps a GORM hook would otherwise set
func stampNew(base *domain.BaseModel) {
	if base.ID == uuid.Nil {
		base.ID = uuid.New()
	}
	now := time.Now().UTC()
	base.CreatedAt = now
	base.UpdatedAt = now
}

func toClientRecord(c domain.Client) clientRecord {
	return clientRecord{
		Title:   string(c.Title),
		Name:    c.Name,
		Company: c.Company,
		Address: c.Address,
		Phone:   c.Phone,
	}
}

func (r clientRecord) toDomain() domain.Client {
	return domain.Client{
		Title:   domain.ClientTitle(r.Title),
		Name:    r.Name,
		Company: r.Company,
		Address: r.Address,
		Phone:   r.Phone,
	}
}

func toItemRecords(items []domain.LineItem) []lineItemRecord {
	records := make([]lineItemRecord, len(items))
	for i, item := range items {
		records[i] = lineItemRecord(item)
	}
	return records
}

func itemsToDomain(records []lineItemRecord) []domain.LineItem {
	items := make([]domain.LineItem, len(records))
	for i, rec := range records {
		items[i] = domain.LineItem(rec)
	}
	return items
}

func parseID(s string) uuid.UUID {
	id, _ := uuid.Parse(s)
	return id
}

func toQuotationRecord(q *domain.Quotation) quotationRecord {
	return quotationRecord{
		ID:               q.ID.String(),
		DocumentNumber:   q.DocumentNumber,
		Date:             q.Date,
		ValidUntil:       q.ValidUntil,
		PreparedByUserID: q.PreparedByUserID.String(),
		PreparedByName:   q.PreparedByName,
		Client:           toClientRecord(q.Client),
		Items:            toItemRecords(q.Items),
		SubTotal:         q.Totals.SubTotal,
		TaxRatePercent:   q.Totals.TaxRatePercent,
		DiscountAmount:   q.Totals.DiscountAmount,
		GrandTotal:       q.Totals.GrandTotal,
		Status:           string(q.Status),
		ProjectSchedule:  scheduleRecord(q.ProjectSchedule),
		Notes:            q.Notes,
		CreatedAt:        q.CreatedAt,
		UpdatedAt:        q.UpdatedAt,
	}
}

func (r quotationRecord) toDomain() domain.Quotation {
	return domain.Quotation{
		BaseModel: domain.BaseModel{
			ID:        parseID(r.ID),
			CreatedAt: r.CreatedAt,
			UpdatedAt: r.UpdatedAt,
		},
		DocumentNumber:   r.DocumentNumber,
		Date:             r.Date,
		ValidUntil:       r.ValidUntil,
		PreparedByUserID: parseID(r.PreparedByUserID),
		PreparedByName:   r.PreparedByName,
		Client:           r.Client.toDomain(),
		Items:            itemsToDomain(r.Items),
		Totals: domain.DocumentTotals{
			SubTotal:       r.SubTotal,
			TaxRatePercent: r.TaxRatePercent,
			DiscountAmount: r.DiscountAmount,
			GrandTotal:     r.GrandTotal,
		},
		Status:          domain.QuotationStatus(r.Status),
		ProjectSchedule: domain.ProjectSchedule(r.ProjectSchedule),
		Notes:           r.Notes,
	}
}

func toInvoiceRecord(inv *domain.Invoice) invoiceRecord {
	rec := invoiceRecord{
		ID:               inv.ID.String(),
		DocumentNumber:   inv.DocumentNumber,
		Date:             inv.Date,
		PreparedByUserID: inv.PreparedByUserID.String(),
		PreparedByName:   inv.PreparedByName,
		Client:           toClientRecord(inv.Client),
		Items:            toItemRecords(inv.Items),
		SubTotal:         inv.Totals.SubTotal,
		TaxRatePercent:   inv.Totals.TaxRatePercent,
		DiscountAmount:   inv.Totals.DiscountAmount,
		GrandTotal:       inv.Totals.GrandTotal,
		Status:           string(inv.Status),
		Notes:            inv.Notes,
		CreatedAt:        inv.CreatedAt,
		UpdatedAt:        inv.UpdatedAt,
	}
	if inv.SourceQuotationID != nil {
		s := inv.SourceQuotationID.String()
		rec.SourceQuotationID = &s
	}
	return rec
}

func (r invoiceRecord) toDomain() domain.Invoice {
	inv := domain.Invoice{
		BaseModel: domain.BaseModel{
			ID:        parseID(r.ID),
			CreatedAt: r.CreatedAt,
			UpdatedAt: r.UpdatedAt,
		},
		DocumentNumber:   r.DocumentNumber,
		Date:             r.Date,
		PreparedByUserID: parseID(r.PreparedByUserID),
		PreparedByName:   r.PreparedByName,
		Client:           r.Client.toDomain(),
		Items:            itemsToDomain(r.Items),
		Totals: domain.DocumentTotals{
			SubTotal:       r.SubTotal,
			TaxRatePercent: r.TaxRatePercent,
			DiscountAmount: r.DiscountAmount,
			GrandTotal:     r.GrandTotal,
		},
		Status: domain.InvoiceStatus(r.Status),
		Notes:  r.Notes,
	}
	if r.SourceQuotationID != nil {
		if id, err := uuid.Parse(*r.SourceQuotationID); err == nil {
			inv.SourceQuotationID = &id
		}
	}
	return inv
}

func toUserRecord(u *domain.User) userRecord {
	return userRecord{
		ID:           u.ID.String(),
		FullName:     u.FullName,
		StaffID:      u.StaffID,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		Role:         string(u.Role),
		IsActive:     u.IsActive,
		LastLoginAt:  u.LastLoginAt,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func (r userRecord) toDomain() domain.User {
	return domain.User{
		BaseModel: domain.BaseModel{
			ID:        parseID(r.ID),
			CreatedAt: r.CreatedAt,
			UpdatedAt: r.UpdatedAt,
		},
		FullName:     r.FullName,
		StaffID:      r.StaffID,
		Email:        r.Email,
		PasswordHash: r.PasswordHash,
		Role:         domain.UserRoleType(r.Role),
		IsActive:     r.IsActive,
		LastLoginAt:  r.LastLoginAt,
	}
}
