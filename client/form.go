package client

import (
	"context"
	"errors"
	"math"
	"strconv"
	"strings"

	"invoicedesk-backend/models"
	"invoicedesk-backend/store"
	"invoicedesk-backend/utils"
	"invoicedesk-backend/words"
)

// ErrFormInvalid is returned by Submit while required fields are blank or
// a field-level error is outstanding.
var ErrFormInvalid = errors.New("form has validation errors")

// Step identifies the form page currently shown.
type Step int

const (
	Step1 Step = iota + 1
	Step2
)

const gstRate = 0.18

var step1Fields = []string{
	"billing_address", "shipping_address", "document_type", "document_number",
	"invoice_date", "po_number", "po_issuer_email", "po_el_date", "import_date",
}

var step2Fields = []string{
	"basic_invoice_value", "discount_if_any", "total_invoice_amount",
	"invoice_amount_words", "taxable_value", "total_tax_amount",
	"remaining_po_amount", "round_off_value", "eway_bill_no",
}

const (
	errRequired     = "This field is required"
	errDuplicateDoc = "Duplicate Document Number! Enter a unique one."
	errPOCap        = "Total Invoice Amount cannot exceed Remaining PO Amount!"
)

// Form is the two-step invoice submission workflow. Field values mirror the
// wire representation (all text); derived fields are recomputed on every
// change to the basic value or the discount.
type Form struct {
	step     Step
	values   map[string]string
	errors   map[string]string
	existing map[string]struct{}
	filePath string
}

func NewForm() *Form {
	return &Form{
		step: Step1,
		values: map[string]string{
			"document_type":       "INV",
			"gst_payable_rcm":     "No",
			"gstn_portal_status":  "Not Uploaded",
			"is_import":           "No",
			"e_invoice_available": "No",
		},
		errors:   make(map[string]string),
		existing: make(map[string]struct{}),
	}
}

// LoadExistingDocuments snapshots the document numbers already stored on
// the server. The snapshot is taken once and never refreshed, so numbers
// created afterwards by other clients are not detected.
func (f *Form) LoadExistingDocuments(ctx context.Context, api *API) error {
	invoices, err := api.List(ctx)
	if err != nil {
		return err
	}
	for _, inv := range invoices {
		f.existing[inv.DocumentNumber] = struct{}{}
	}
	return nil
}

// Step returns the current step.
func (f *Form) Step() Step { return f.step }

// Value returns the current value of a field.
func (f *Form) Value(name string) string { return f.values[name] }

// Err returns the current field-level error, if any.
func (f *Form) Err(name string) string { return f.errors[name] }

// AttachFile registers a source document to upload on submission.
func (f *Form) AttachFile(path string) { f.filePath = path }

// Set records a field edit, replicating the per-keystroke behavior of the
// form: duplicate document numbers block the edit, monetary inputs trigger
// the derived-field recomputation, and the PO cap is re-checked.
func (f *Form) Set(name, value string) {
	value = strings.TrimSpace(value)

	if name == "document_number" {
		if _, dup := f.existing[value]; dup {
			f.errors[name] = errDuplicateDoc
			return // edit blocked, previous value kept
		}
		delete(f.errors, name)
	}

	f.values[name] = value

	if name == "basic_invoice_value" || name == "discount_if_any" {
		f.recompute()
	}
	if name == "total_invoice_amount" {
		f.refreshWords()
	}
	if name == "total_invoice_amount" || name == "remaining_po_amount" {
		f.checkPOCap()
	}
}

// recompute derives taxable value, tax, total, round-off and the word form
// from the basic value and discount:
//
//	taxable = basic - discount
//	tax     = round2(taxable * 0.18)
//	total   = round(taxable + tax)
//	roundoff = total - (taxable + tax)
func (f *Form) recompute() {
	basic := parseFloatOrZero(f.values["basic_invoice_value"])
	discount := parseFloatOrZero(f.values["discount_if_any"])

	taxable := basic - discount
	f.values["taxable_value"] = strconv.FormatFloat(taxable, 'f', 2, 64)

	tax := utils.Round2(taxable * gstRate)
	f.values["total_tax_amount"] = strconv.FormatFloat(tax, 'f', 2, 64)

	raw := taxable + tax
	total := math.Round(raw)
	f.values["round_off_value"] = strconv.FormatFloat(total-raw, 'f', 2, 64)
	f.values["total_invoice_amount"] = strconv.FormatFloat(total, 'f', -1, 64)

	f.refreshWords()
	f.checkPOCap()
}

func (f *Form) refreshWords() {
	w, err := words.FromAmount(f.values["total_invoice_amount"])
	if err != nil {
		f.values["invoice_amount_words"] = ""
		return
	}
	f.values["invoice_amount_words"] = w
}

func (f *Form) checkPOCap() {
	total := parseFloatOrZero(f.values["total_invoice_amount"])
	remaining := parseFloatOrZero(f.values["remaining_po_amount"])
	if total > remaining {
		f.errors["total_invoice_amount"] = errPOCap
		return
	}
	delete(f.errors, "total_invoice_amount")
}

// validate checks the current step's required fields, surfacing a
// field-level error for every blank or whitespace-only value.
func (f *Form) validate() bool {
	fields := step1Fields
	if f.step == Step2 {
		fields = step2Fields
	}
	ok := true
	for _, name := range fields {
		if strings.TrimSpace(f.values[name]) == "" {
			f.errors[name] = errRequired
			ok = false
		}
	}
	return ok
}

// Next advances to step 2; blocked while step-1 required fields are blank.
func (f *Form) Next() bool {
	if f.step != Step1 {
		return false
	}
	if !f.validate() {
		return false
	}
	f.step = Step2
	return true
}

// Back returns to step 1.
func (f *Form) Back() {
	f.step = Step1
}

// Submit validates step 2 and posts the payload (uploading the attached
// source document with it). Success means the server answered 200/201.
func (f *Form) Submit(ctx context.Context, api *API) (*models.Invoice, error) {
	if f.step != Step2 || !f.validate() {
		return nil, ErrFormInvalid
	}
	return api.Create(ctx, f.payload(), f.filePath)
}

func (f *Form) payload() *store.CreateInput {
	return &store.CreateInput{
		BillingAddress:     f.values["billing_address"],
		ShippingAddress:    f.values["shipping_address"],
		DocumentNumber:     f.values["document_number"],
		DocumentType:       f.values["document_type"],
		InvoiceDate:        f.values["invoice_date"],
		PONumber:           f.values["po_number"],
		POIssuerEmail:      f.values["po_issuer_email"],
		POELDate:           f.values["po_el_date"],
		GSTPayableRCM:      f.values["gst_payable_rcm"],
		TotalInvoiceAmount: f.values["total_invoice_amount"],
		TotalTaxAmount:     f.values["total_tax_amount"],
		EwayBillNo:         f.values["eway_bill_no"],
		ImportDate:         f.values["import_date"],
		RemainingPOAmount:  f.values["remaining_po_amount"],
		BasicInvoiceValue:  f.values["basic_invoice_value"],
		DiscountIfAny:      f.values["discount_if_any"],
		TaxableValue:       f.values["taxable_value"],
		RoundOffValue:      f.values["round_off_value"],
		InvoiceAmountWords: f.values["invoice_amount_words"],
		IsImport:           f.values["is_import"],
		HSNCode:            f.values["hsn_code"],
		GSTNPortalStatus:   f.values["gstn_portal_status"],
		EInvoiceAvailable:  f.values["e_invoice_available"],
		BillOfEntryNumber:  f.values["bill_of_entry_number"],
	}
}

func parseFloatOrZero(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return v
}
