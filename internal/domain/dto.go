package domain

import (
	"github.com/google/uuid"
)

// DTOs for API responses

type ClientDTO struct {
	Title   ClientTitle `json:"title"`
	Name    string      `json:"name"`
	Company string      `json:"company,omitempty"`
	Address string      `json:"address"`
	Phone   string      `json:"phone,omitempty"`
}

type LineItemDTO struct {
	Name      string  `json:"name"`
	Quantity  float64 `json:"quantity"`
	LineFit   string  `json:"lineFit"`
	UnitPrice float64 `json:"unitPrice"`
	Total     float64 `json:"total"`
}

type ProjectScheduleDTO struct {
	MeasuringDay   *string `json:"measuringDay,omitempty"`   // YYYY-MM-DD
	Inspection     *string `json:"inspection,omitempty"`     // YYYY-MM-DD
	Installation1  *string `json:"installation1,omitempty"`  // YYYY-MM-DD
	Installation2  *string `json:"installation2,omitempty"`  // YYYY-MM-DD
	CompletionDate *string `json:"completionDate,omitempty"` // YYYY-MM-DD
}

type QuotationDTO struct {
	ID               uuid.UUID          `json:"id"`
	DocumentNumber   string             `json:"documentNumber"`
	Date             string             `json:"date"`       // YYYY-MM-DD
	ValidUntil       string             `json:"validUntil"` // YYYY-MM-DD
	PreparedByUserID uuid.UUID          `json:"preparedByUserId"`
	PreparedByName   string             `json:"preparedByName"`
	Client           ClientDTO          `json:"client"`
	Items            []LineItemDTO      `json:"items"`
	SubTotal         float64            `json:"subTotal"`
	TaxRatePercent   float64            `json:"taxRatePercent"`
	DiscountAmount   float64            `json:"discountAmount"`
	GrandTotal       float64            `json:"grandTotal"`
	Status           QuotationStatus    `json:"status"`
	ProjectSchedule  ProjectScheduleDTO `json:"projectSchedule"`
	Notes            string             `json:"notes,omitempty"`
	CreatedAt        string             `json:"createdAt"` // ISO 8601
	UpdatedAt        string             `json:"updatedAt"` // ISO 8601
}

type InvoiceDTO struct {
	ID                uuid.UUID     `json:"id"`
	DocumentNumber    string        `json:"documentNumber"`
	Date              string        `json:"date"` // YYYY-MM-DD
	PreparedByUserID  uuid.UUID     `json:"preparedByUserId"`
	PreparedByName    string        `json:"preparedByName"`
	Client            ClientDTO     `json:"client"`
	Items             []LineItemDTO `json:"items"`
	SubTotal          float64       `json:"subTotal"`
	TaxRatePercent    float64       `json:"taxRatePercent"`
	DiscountAmount    float64       `json:"discountAmount"`
	GrandTotal        float64       `json:"grandTotal"`
	AdvancePayment    float64       `json:"advancePayment"`
	BalancePayment    float64       `json:"balancePayment"`
	Status            InvoiceStatus `json:"status"`
	Notes             string        `json:"notes,omitempty"`
	SourceQuotationID *uuid.UUID    `json:"sourceQuotationId"`
	CreatedAt         string        `json:"createdAt"` // ISO 8601
	UpdatedAt         string        `json:"updatedAt"` // ISO 8601
}

type UserDTO struct {
	ID          uuid.UUID    `json:"id"`
	FullName    string       `json:"fullName"`
	StaffID     string       `json:"staffId,omitempty"`
	Email       string       `json:"email"`
	Role        UserRoleType `json:"role"`
	IsActive    bool         `json:"isActive"`
	LastLoginAt *string      `json:"lastLoginAt,omitempty"` // ISO 8601
	CreatedAt   string       `json:"createdAt"`             // ISO 8601
}

// AuthResponseDTO is returned by register and login
type AuthResponseDTO struct {
	User      UserDTO `json:"user"`
	Token     string  `json:"token"`
	ExpiresAt string  `json:"expiresAt"` // ISO 8601
}

// TotalsDTO is the result of a totals preview
type TotalsDTO struct {
	Items          []LineItemDTO `json:"items"`
	SubTotal       float64       `json:"subTotal"`
	TaxAmount      float64       `json:"taxAmount"`
	DiscountAmount float64       `json:"discountAmount"`
	GrandTotal     float64       `json:"grandTotal"`
	AdvancePayment *float64      `json:"advancePayment,omitempty"`
	BalancePayment *float64      `json:"balancePayment,omitempty"`
}

// StatusStatsDTO holds count and value for one status bucket
type StatusStatsDTO struct {
	Status     string  `json:"status"`
	Count      int64   `json:"count"`
	TotalValue float64 `json:"totalValue"`
}

// DocumentStatsDTO is the dashboard summary for one document type
type DocumentStatsDTO struct {
	Total    int64            `json:"total"`
	Revenue  float64          `json:"revenue"`
	ByStatus []StatusStatsDTO `json:"byStatus"`
}

// CatalogDTO lists the default line item names
type CatalogDTO struct {
	LineItems []string `json:"lineItems"`
}

// Pagination describes the position of a page within a result set
type Pagination struct {
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Pages int   `json:"pages"`
}

// PaginatedResponse nests a page of items with its pagination block
type PaginatedResponse struct {
	Items      interface{} `json:"items"`
	Pagination Pagination  `json:"pagination"`
}

// Request DTOs

type ClientRequest struct {
	Title   ClientTitle `json:"title" validate:"omitempty,oneof=Mr. Mrs. Ms. Dr. Prof."`
	Name    string      `json:"name" validate:"required,max=200"`
	Company string      `json:"company,omitempty" validate:"max=200"`
	Address string      `json:"address" validate:"required"`
	Phone   string      `json:"phone,omitempty" validate:"max=50"`
}

// LineItemRequest is one submitted row. Total is optional; when omitted the
// server fills in quantity * unitPrice.
type LineItemRequest struct {
	Name      string   `json:"name" validate:"max=200"`
	Quantity  float64  `json:"quantity" validate:"gte=0"`
	LineFit   string   `json:"lineFit" validate:"max=200"`
	UnitPrice float64  `json:"unitPrice" validate:"gte=0"`
	Total     *float64 `json:"total,omitempty" validate:"omitempty,gte=0"`
}

type ProjectScheduleRequest struct {
	MeasuringDay   *string `json:"measuringDay,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Inspection     *string `json:"inspection,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Installation1  *string `json:"installation1,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Installation2  *string `json:"installation2,omitempty" validate:"omitempty,datetime=2006-01-02"`
	CompletionDate *string `json:"completionDate,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

// DocumentTotalsRequest carries the monetary fields of a document. SubTotal and
// GrandTotal are accepted as submitted; nil values are computed server side.
type DocumentTotalsRequest struct {
	SubTotal       *float64 `json:"subTotal,omitempty" validate:"omitempty,gte=0"`
	TaxRatePercent float64  `json:"taxRatePercent" validate:"gte=0"`
	DiscountAmount float64  `json:"discountAmount" validate:"gte=0"`
	GrandTotal     *float64 `json:"grandTotal,omitempty"`
}

type CreateQuotationRequest struct {
	Date            string                  `json:"date" validate:"required,datetime=2006-01-02"`
	ValidUntil      string                  `json:"validUntil" validate:"required,datetime=2006-01-02"`
	Client          ClientRequest           `json:"client" validate:"required"`
	Items           []LineItemRequest       `json:"items" validate:"dive"`
	ProjectSchedule *ProjectScheduleRequest `json:"projectSchedule,omitempty"`
	Notes           string                  `json:"notes,omitempty" validate:"max=5000"`
	DocumentTotalsRequest
}

// UpdateQuotationRequest replaces the editable fields of a quotation.
// Document number, owner and status cannot be changed here.
type UpdateQuotationRequest struct {
	Date            string                  `json:"date" validate:"required,datetime=2006-01-02"`
	ValidUntil      string                  `json:"validUntil" validate:"required,datetime=2006-01-02"`
	Client          ClientRequest           `json:"client" validate:"required"`
	Items           []LineItemRequest       `json:"items" validate:"dive"`
	ProjectSchedule *ProjectScheduleRequest `json:"projectSchedule,omitempty"`
	Notes           string                  `json:"notes,omitempty" validate:"max=5000"`
	DocumentTotalsRequest
}

type CreateInvoiceRequest struct {
	Date              string            `json:"date" validate:"required,datetime=2006-01-02"`
	Client            ClientRequest     `json:"client" validate:"required"`
	Items             []LineItemRequest `json:"items" validate:"dive"`
	Notes             string            `json:"notes,omitempty" validate:"max=5000"`
	SourceQuotationID *uuid.UUID        `json:"sourceQuotationId,omitempty"`
	DocumentTotalsRequest
}

type UpdateInvoiceRequest struct {
	Date              string            `json:"date" validate:"required,datetime=2006-01-02"`
	Client            ClientRequest     `json:"client" validate:"required"`
	Items             []LineItemRequest `json:"items" validate:"dive"`
	Notes             string            `json:"notes,omitempty" validate:"max=5000"`
	SourceQuotationID *uuid.UUID        `json:"sourceQuotationId,omitempty"`
	DocumentTotalsRequest
}

// UpdateStatusRequest is the body of the status transition endpoints.
// Membership is checked by the service so that lookup and role checks run first.
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// CalculateTotalsRequest is the body of the totals preview endpoints
type CalculateTotalsRequest struct {
	Items          []LineItemRequest `json:"items" validate:"dive"`
	TaxRatePercent float64           `json:"taxRatePercent" validate:"gte=0"`
	DiscountAmount float64           `json:"discountAmount" validate:"gte=0"`
}

type RegisterRequest struct {
	FullName string `json:"fullName" validate:"required,max=200"`
	StaffID  string `json:"staffId,omitempty" validate:"max=50"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type UpdateProfileRequest struct {
	FullName *string `json:"fullName,omitempty" validate:"omitempty,min=1,max=200"`
	StaffID  *string `json:"staffId,omitempty" validate:"omitempty,max=50"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=6,max=72"`
}

type UpdateUserRoleRequest struct {
	Role UserRoleType `json:"role" validate:"required,oneof=user supervisor admin"`
}
