package store

import (
	"strings"

	"invoicedesk-backend/pdfgen"
)

// requiredFields is the fixed set an invoice must carry at creation time,
// checked in this order so the first missing field is the one reported.
var requiredFields = []string{
	"billing_address",
	"shipping_address",
	"document_number",
	"document_type",
	"invoice_date",
	"po_number",
	"po_issuer_email",
	"po_el_date",
	"gst_payable_rcm",
	"total_invoice_amount",
	"total_tax_amount",
	"eway_bill_no",
	"import_date",
	"remaining_po_amount",
}

// pdfTriggerFields are the only fields whose presence in a partial update
// forces a PDF regeneration.
var pdfTriggerFields = map[string]bool{
	"billing_address":      true,
	"shipping_address":     true,
	"document_number":      true,
	"invoice_date":         true,
	"total_invoice_amount": true,
}

// CreateInput is the full invoice payload submitted by the form. Every
// value arrives as text. bill_of_entry_number is transient: it may appear
// in uploads and validation but is never persisted or rendered.
type CreateInput struct {
	BillingAddress     string `json:"billing_address" form:"billing_address"`
	ShippingAddress    string `json:"shipping_address" form:"shipping_address"`
	DocumentNumber     string `json:"document_number" form:"document_number"`
	DocumentType       string `json:"document_type" form:"document_type"`
	InvoiceDate        string `json:"invoice_date" form:"invoice_date"`
	PONumber           string `json:"po_number" form:"po_number"`
	POIssuerEmail      string `json:"po_issuer_email" form:"po_issuer_email" validate:"omitempty,email"`
	POELDate           string `json:"po_el_date" form:"po_el_date"`
	GSTPayableRCM      string `json:"gst_payable_rcm" form:"gst_payable_rcm"`
	TotalInvoiceAmount string `json:"total_invoice_amount" form:"total_invoice_amount"`
	TotalTaxAmount     string `json:"total_tax_amount" form:"total_tax_amount"`
	EwayBillNo         string `json:"eway_bill_no" form:"eway_bill_no"`
	ImportDate         string `json:"import_date" form:"import_date"`
	RemainingPOAmount  string `json:"remaining_po_amount" form:"remaining_po_amount"`
	BasicInvoiceValue  string `json:"basic_invoice_value" form:"basic_invoice_value"`
	DiscountIfAny      string `json:"discount_if_any" form:"discount_if_any"`
	TaxableValue       string `json:"taxable_value" form:"taxable_value"`
	RoundOffValue      string `json:"round_off_value" form:"round_off_value"`
	// Submitted by the form for display parity; the store recomputes the
	// persisted value from the total.
	InvoiceAmountWords string `json:"invoice_amount_words" form:"invoice_amount_words"`
	IsImport           string `json:"is_import" form:"is_import"`
	HSNCode            string `json:"hsn_code" form:"hsn_code"`
	GSTNPortalStatus   string `json:"gstn_portal_status" form:"gstn_portal_status"`
	EInvoiceAvailable  string `json:"e_invoice_available" form:"e_invoice_available"`
	EInvoiceFile       string `json:"e_invoice_file" form:"e_invoice_file"`
	BillOfEntryNumber  string `json:"bill_of_entry_number" form:"bill_of_entry_number"`
}

// get returns the submitted value for a wire field name.
func (in *CreateInput) get(name string) string {
	switch name {
	case "billing_address":
		return in.BillingAddress
	case "shipping_address":
		return in.ShippingAddress
	case "document_number":
		return in.DocumentNumber
	case "document_type":
		return in.DocumentType
	case "invoice_date":
		return in.InvoiceDate
	case "po_number":
		return in.PONumber
	case "po_issuer_email":
		return in.POIssuerEmail
	case "po_el_date":
		return in.POELDate
	case "gst_payable_rcm":
		return in.GSTPayableRCM
	case "total_invoice_amount":
		return in.TotalInvoiceAmount
	case "total_tax_amount":
		return in.TotalTaxAmount
	case "eway_bill_no":
		return in.EwayBillNo
	case "import_date":
		return in.ImportDate
	case "remaining_po_amount":
		return in.RemainingPOAmount
	}
	return ""
}

// Fields lists the submitted record as ordered (key, value) pairs for PDF
// rendering. Blank fields are skipped; the renderer drops the transient
// bill-of-entry field itself.
func (in *CreateInput) Fields() []pdfgen.Field {
	pairs := []pdfgen.Field{
		{Key: "billing_address", Value: in.BillingAddress},
		{Key: "shipping_address", Value: in.ShippingAddress},
		{Key: "document_number", Value: in.DocumentNumber},
		{Key: "document_type", Value: in.DocumentType},
		{Key: "invoice_date", Value: in.InvoiceDate},
		{Key: "po_number", Value: in.PONumber},
		{Key: "po_issuer_email", Value: in.POIssuerEmail},
		{Key: "po_el_date", Value: in.POELDate},
		{Key: "gst_payable_rcm", Value: in.GSTPayableRCM},
		{Key: "basic_invoice_value", Value: in.BasicInvoiceValue},
		{Key: "discount_if_any", Value: in.DiscountIfAny},
		{Key: "taxable_value", Value: in.TaxableValue},
		{Key: "total_tax_amount", Value: in.TotalTaxAmount},
		{Key: "total_invoice_amount", Value: in.TotalInvoiceAmount},
		{Key: "invoice_amount_words", Value: in.InvoiceAmountWords},
		{Key: "round_off_value", Value: in.RoundOffValue},
		{Key: "remaining_po_amount", Value: in.RemainingPOAmount},
		{Key: "eway_bill_no", Value: in.EwayBillNo},
		{Key: "import_date", Value: in.ImportDate},
		{Key: "is_import", Value: in.IsImport},
		{Key: "hsn_code", Value: in.HSNCode},
		{Key: "gstn_portal_status", Value: in.GSTNPortalStatus},
		{Key: "e_invoice_available", Value: in.EInvoiceAvailable},
		{Key: "e_invoice_file", Value: in.EInvoiceFile},
		{Key: "bill_of_entry_number", Value: in.BillOfEntryNumber},
	}
	out := pairs[:0]
	for _, p := range pairs {
		if strings.TrimSpace(p.Value) != "" {
			out = append(out, p)
		}
	}
	return out
}

// UpdateInput is a partial invoice payload. Nil pointers mean "leave the
// column alone"; utils.UpdatesFromPtrDTO turns the rest into the update map.
type UpdateInput struct {
	BillingAddress     *string `json:"billing_address" form:"billing_address"`
	ShippingAddress    *string `json:"shipping_address" form:"shipping_address"`
	DocumentNumber     *string `json:"document_number" form:"document_number"`
	DocumentType       *string `json:"document_type" form:"document_type"`
	InvoiceDate        *string `json:"invoice_date" form:"invoice_date"`
	PONumber           *string `json:"po_number" form:"po_number"`
	POIssuerEmail      *string `json:"po_issuer_email" form:"po_issuer_email" validate:"omitempty,email"`
	POELDate           *string `json:"po_el_date" form:"po_el_date"`
	GSTPayableRCM      *string `json:"gst_payable_rcm" form:"gst_payable_rcm"`
	TotalInvoiceAmount *string `json:"total_invoice_amount" form:"total_invoice_amount"`
	TotalTaxAmount     *string `json:"total_tax_amount" form:"total_tax_amount"`
	EwayBillNo         *string `json:"eway_bill_no" form:"eway_bill_no"`
	ImportDate         *string `json:"import_date" form:"import_date"`
	RemainingPOAmount  *string `json:"remaining_po_amount" form:"remaining_po_amount"`
	BasicInvoiceValue  *string `json:"basic_invoice_value" form:"basic_invoice_value"`
	DiscountIfAny      *string `json:"discount_if_any" form:"discount_if_any"`
	TaxableValue       *string `json:"taxable_value" form:"taxable_value"`
	RoundOffValue      *string `json:"round_off_value" form:"round_off_value"`
	IsImport           *string `json:"is_import" form:"is_import"`
	HSNCode            *string `json:"hsn_code" form:"hsn_code"`
	GSTNPortalStatus   *string `json:"gstn_portal_status" form:"gstn_portal_status"`
	EInvoiceAvailable  *string `json:"e_invoice_available" form:"e_invoice_available"`
	EInvoiceFile       *string `json:"e_invoice_file" form:"e_invoice_file"`
	BillOfEntryNumber  *string `json:"bill_of_entry_number" form:"bill_of_entry_number"`
}

// Fields lists the present fields of the partial payload in declaration
// order for PDF rendering. A regenerated PDF reflects only the submitted
// fields, matching the long-standing update behavior.
func (in *UpdateInput) Fields() []pdfgen.Field {
	type pair struct {
		key string
		val *string
	}
	pairs := []pair{
		{"billing_address", in.BillingAddress},
		{"shipping_address", in.ShippingAddress},
		{"document_number", in.DocumentNumber},
		{"document_type", in.DocumentType},
		{"invoice_date", in.InvoiceDate},
		{"po_number", in.PONumber},
		{"po_issuer_email", in.POIssuerEmail},
		{"po_el_date", in.POELDate},
		{"gst_payable_rcm", in.GSTPayableRCM},
		{"basic_invoice_value", in.BasicInvoiceValue},
		{"discount_if_any", in.DiscountIfAny},
		{"taxable_value", in.TaxableValue},
		{"total_tax_amount", in.TotalTaxAmount},
		{"total_invoice_amount", in.TotalInvoiceAmount},
		{"round_off_value", in.RoundOffValue},
		{"remaining_po_amount", in.RemainingPOAmount},
		{"eway_bill_no", in.EwayBillNo},
		{"import_date", in.ImportDate},
		{"is_import", in.IsImport},
		{"hsn_code", in.HSNCode},
		{"gstn_portal_status", in.GSTNPortalStatus},
		{"e_invoice_available", in.EInvoiceAvailable},
		{"e_invoice_file", in.EInvoiceFile},
		{"bill_of_entry_number", in.BillOfEntryNumber},
	}
	out := make([]pdfgen.Field, 0, len(pairs))
	for _, p := range pairs {
		if p.val != nil {
			out = append(out, pdfgen.Field{Key: p.key, Value: *p.val})
		}
	}
	return out
}

// needsPDF reports whether the partial payload carries a non-blank value
// for any field the rendered PDF depends on. Clearing a trigger field
// updates the column without regenerating the document.
func (in *UpdateInput) needsPDF() bool {
	for _, f := range in.Fields() {
		if pdfTriggerFields[f.Key] && strings.TrimSpace(f.Value) != "" {
			return true
		}
	}
	return false
}
