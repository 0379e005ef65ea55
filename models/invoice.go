package models

import (
	"time"

	"gorm.io/datatypes"
)

// Invoice is the sole persisted business entity. Columns form a fixed
// allow-list; values are stored exactly as submitted by the form, which
// sends every field as text. Monetary fields are validated numerically
// before insert but kept in their submitted representation.
type Invoice struct {
	ID uint `json:"id" gorm:"primaryKey"`

	BillingAddress  string `json:"billing_address"`
	ShippingAddress string `json:"shipping_address"`
	DocumentNumber  string `json:"document_number" gorm:"uniqueIndex;size:191"`
	DocumentType    string `json:"document_type" gorm:"size:20"` // Invoice | Debit | Credit
	InvoiceDate     string `json:"invoice_date" gorm:"size:32"`
	PONumber        string `json:"po_number" gorm:"column:po_number;size:64"`
	POIssuerEmail   string `json:"po_issuer_email" gorm:"column:po_issuer_email;size:191"`
	POELDate        string `json:"po_el_date" gorm:"column:po_el_date;size:32"`
	GSTPayableRCM   string `json:"gst_payable_rcm" gorm:"column:gst_payable_rcm;size:8"` // Yes | No

	TotalInvoiceAmount string `json:"total_invoice_amount" gorm:"size:32"`
	TotalTaxAmount     string `json:"total_tax_amount" gorm:"size:32"`
	RemainingPOAmount  string `json:"remaining_po_amount" gorm:"column:remaining_po_amount;size:32"`
	BasicInvoiceValue  string `json:"basic_invoice_value" gorm:"size:32"`
	DiscountIfAny      string `json:"discount_if_any" gorm:"size:32"`
	TaxableValue       string `json:"taxable_value" gorm:"size:32"`
	RoundOffValue      string `json:"round_off_value" gorm:"size:32"`

	EwayBillNo       string `json:"eway_bill_no" gorm:"size:64"`
	ImportDate       string `json:"import_date" gorm:"size:32"`
	IsImport         string `json:"is_import" gorm:"size:8"`
	HSNCode          string `json:"hsn_code" gorm:"column:hsn_code;size:32"`
	GSTNPortalStatus string `json:"gstn_portal_status" gorm:"column:gstn_portal_status;size:32"`

	// NULL unless the client explicitly answered "Yes".
	EInvoiceAvailable *string `json:"e_invoice_available" gorm:"column:e_invoice_available;size:8"`
	// Reference to an uploaded source document, e.g. /uploads/169..-bill.pdf
	EInvoiceFile string `json:"e_invoice_file" gorm:"column:e_invoice_file;size:255"`

	// Reference to the most recently generated PDF for the current field
	// values. Prior PDFs are left behind on disk when this changes.
	InvoicePDF string `json:"invoice_pdf" gorm:"column:invoice_pdf;size:255"`
	// Word form of total_invoice_amount; recomputed whenever that changes.
	InvoiceAmountWords string `json:"invoice_amount_words"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// EmailLog records one outbound invoice notification. The payload snapshot
// keeps the exact submitted fields the mail body was built from.
type EmailLog struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	InvoiceID uint           `json:"invoice_id" gorm:"index"`
	Recipient string         `json:"recipient" gorm:"size:191"`
	Subject   string         `json:"subject" gorm:"size:255"`
	Payload   datatypes.JSON `json:"payload"`
	SentAt    time.Time      `json:"sent_at"`
}
