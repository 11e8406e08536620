package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Base model with common fields
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	CreatedAt time.Time `gorm:"not null;index"`
	UpdatedAt time.Time `gorm:"not null"`
}

// BeforeCreate assigns a new UUID when the caller has not set one
func (b *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// DocumentType identifies the kind of commercial document
type DocumentType string

const (
	DocumentTypeQuotation DocumentType = "quotation"
	DocumentTypeInvoice   DocumentType = "invoice"
)

// ClientTitle is the salutation printed before the client name
type ClientTitle string

const (
	ClientTitleMr   ClientTitle = "Mr."
	ClientTitleMrs  ClientTitle = "Mrs."
	ClientTitleMs   ClientTitle = "Ms."
	ClientTitleDr   ClientTitle = "Dr."
	ClientTitleProf ClientTitle = "Prof."
)

// IsValid reports whether the title is one of the supported salutations
func (t ClientTitle) IsValid() bool {
	switch t {
	case ClientTitleMr, ClientTitleMrs, ClientTitleMs, ClientTitleDr, ClientTitleProf:
		return true
	}
	return false
}

// Client holds the addressee of a quotation or invoice
type Client struct {
	Title   ClientTitle `gorm:"type:varchar(10);not null;default:'Mr.'"`
	Name    string      `gorm:"type:varchar(200);not null;index"`
	Company string      `gorm:"type:varchar(200)"`
	Address string      `gorm:"type:text;not null"`
	Phone   string      `gorm:"type:varchar(50)"`
}

// LineItem is a single priced row of a document. Items are stored inline
// with their document.
type LineItem struct {
	Name      string  `json:"name"`
	Quantity  float64 `json:"quantity"`
	LineFit   string  `json:"lineFit"`
	UnitPrice float64 `json:"unitPrice"`
	Total     float64 `json:"total"`
}

// IsEmpty reports whether every user-editable field of the row is blank or zero.
// Empty rows are never persisted.
func (li LineItem) IsEmpty() bool {
	return li.Name == "" && li.Quantity == 0 && li.UnitPrice == 0 && li.LineFit == ""
}

// ProjectSchedule holds the optional milestone dates of a quotation
type ProjectSchedule struct {
	MeasuringDay   *time.Time
	Inspection     *time.Time
	Installation1  *time.Time
	Installation2  *time.Time
	CompletionDate *time.Time
}

// DocumentTotals holds the monetary summary shared by quotations and invoices
type DocumentTotals struct {
	SubTotal       float64 `gorm:"type:decimal(15,2);not null;default:0"`
	TaxRatePercent float64 `gorm:"type:decimal(7,3);not null;default:0"`
	DiscountAmount float64 `gorm:"type:decimal(15,2);not null;default:0"`
	GrandTotal     float64 `gorm:"type:decimal(15,2);not null;default:0;index"`
}

// Quotation is a priced proposal sent to a client before work is agreed
type Quotation struct {
	BaseModel
	DocumentNumber   string          `gorm:"type:varchar(50);not null;uniqueIndex"`
	Date             time.Time       `gorm:"not null;index"`
	ValidUntil       time.Time       `gorm:"not null"`
	PreparedByUserID uuid.UUID       `gorm:"type:uuid;not null;index"`
	PreparedByName   string          `gorm:"type:varchar(200);not null"`
	Client           Client          `gorm:"embedded;embeddedPrefix:client_"`
	Items            []LineItem      `gorm:"type:jsonb;serializer:json"`
	Totals           DocumentTotals  `gorm:"embedded"`
	Status           QuotationStatus `gorm:"type:varchar(20);not null;default:'draft';index"`
	ProjectSchedule  ProjectSchedule `gorm:"embedded;embeddedPrefix:schedule_"`
	Notes            string          `gorm:"type:text"`
}

// Invoice is a bill issued to a client, optionally derived from a quotation
type Invoice struct {
	BaseModel
	DocumentNumber    string         `gorm:"type:varchar(50);not null;uniqueIndex"`
	Date              time.Time      `gorm:"not null;index"`
	PreparedByUserID  uuid.UUID      `gorm:"type:uuid;not null;index"`
	PreparedByName    string         `gorm:"type:varchar(200);not null"`
	Client            Client         `gorm:"embedded;embeddedPrefix:client_"`
	Items             []LineItem     `gorm:"type:jsonb;serializer:json"`
	Totals            DocumentTotals `gorm:"embedded"`
	Status            InvoiceStatus  `gorm:"type:varchar(20);not null;default:'draft';index"`
	Notes             string         `gorm:"type:text"`
	SourceQuotationID *uuid.UUID     `gorm:"type:uuid;index"`
}

// NumberSequence tracks the last issued number per document type.
// The row is updated atomically each time a document number is assigned.
type NumberSequence struct {
	DocumentType DocumentType `gorm:"type:varchar(20);primaryKey"`
	LastSequence int          `gorm:"not null"`
	CreatedAt    time.Time    `gorm:"not null"`
	UpdatedAt    time.Time    `gorm:"not null"`
}

// UserRoleType represents a user's role in the system
type UserRoleType string

const (
	RoleUser       UserRoleType = "user"
	RoleSupervisor UserRoleType = "supervisor"
	RoleAdmin      UserRoleType = "admin"
)

// IsValid reports whether the role is known
func (r UserRoleType) IsValid() bool {
	switch r {
	case RoleUser, RoleSupervisor, RoleAdmin:
		return true
	}
	return false
}

// IsPrivileged reports whether the role may see and transition every document
func (r UserRoleType) IsPrivileged() bool {
	return r == RoleSupervisor || r == RoleAdmin
}

// User represents a staff member who prepares documents
type User struct {
	BaseModel
	FullName     string       `gorm:"type:varchar(200);not null"`
	StaffID      string       `gorm:"type:varchar(50)"`
	Email        string       `gorm:"type:varchar(255);not null;uniqueIndex"`
	PasswordHash string       `gorm:"type:varchar(255);not null"`
	Role         UserRoleType `gorm:"type:varchar(20);not null;default:'user'"`
	IsActive     bool         `gorm:"not null;default:true"`
	LastLoginAt  *time.Time
}

// DefaultLineItemNames lists the rows the document forms are pre-filled with
var DefaultLineItemNames = []string{
	"Pantry up",
	"Pantry bottom",
	"Granite",
	"Quartz",
	"TV Wall",
	"Design Wall",
	"Dressing Room",
	"Wardrobe Dressing Table",
	"Bar area",
	"Salon interior designs",
	"Shop interior designs",
	"Other interior designs",
	"Sink",
	"Tap",
	"Burner",
	"Cooker hood",
	"Plate rack",
	"Cup and saucer rack",
	"Cutlery tray",
	"Bottle pullout",
	"Spice pullout cabinet",
	"Larder unit",
	"Magic cover pullout",
	"Dustbin rack",
	"Glass frame bar",
	"Design Table",
	"Other",
}
