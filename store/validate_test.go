package store

import (
	"errors"
	"strings"
	"testing"
)

func validInput() *CreateInput {
	return &CreateInput{
		BillingAddress:     "A",
		ShippingAddress:    "B",
		DocumentNumber:     "D1",
		DocumentType:       "INV",
		InvoiceDate:        "2024-01-01",
		PONumber:           "PO1",
		POIssuerEmail:      "x@y.com",
		POELDate:           "2024-01-01",
		GSTPayableRCM:      "No",
		TotalInvoiceAmount: "100",
		TotalTaxAmount:     "18",
		EwayBillNo:         "EWB1",
		ImportDate:         "2024-01-01",
		RemainingPOAmount:  "200",
	}
}

func blank(in *CreateInput, name string) {
	switch name {
	case "billing_address":
		in.BillingAddress = ""
	case "shipping_address":
		in.ShippingAddress = ""
	case "document_number":
		in.DocumentNumber = ""
	case "document_type":
		in.DocumentType = ""
	case "invoice_date":
		in.InvoiceDate = ""
	case "po_number":
		in.PONumber = ""
	case "po_issuer_email":
		in.POIssuerEmail = ""
	case "po_el_date":
		in.POELDate = ""
	case "gst_payable_rcm":
		in.GSTPayableRCM = ""
	case "total_invoice_amount":
		in.TotalInvoiceAmount = ""
	case "total_tax_amount":
		in.TotalTaxAmount = ""
	case "eway_bill_no":
		in.EwayBillNo = ""
	case "import_date":
		in.ImportDate = ""
	case "remaining_po_amount":
		in.RemainingPOAmount = ""
	default:
		panic("unknown field " + name)
	}
}

func TestValidateCreateReportsFirstMissingField(t *testing.T) {
	for _, name := range requiredFields {
		t.Run(name, func(t *testing.T) {
			in := validInput()
			blank(in, name)

			err := validateCreate(in)
			if err == nil {
				t.Fatalf("expected validation error for missing %s", name)
			}
			if !errors.Is(err, ErrValidation) {
				t.Errorf("error is not ErrValidation: %v", err)
			}
			if !strings.Contains(err.Error(), name) {
				t.Errorf("error %q does not name field %s", err.Error(), name)
			}
		})
	}
}

func TestValidateCreateWhitespaceCountsAsMissing(t *testing.T) {
	in := validInput()
	in.BillingAddress = "   "

	err := validateCreate(in)
	if err == nil || !strings.Contains(err.Error(), "billing_address") {
		t.Fatalf("expected missing billing_address, got %v", err)
	}
}

func TestValidateCreateValid(t *testing.T) {
	if err := validateCreate(validInput()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateCreateAmountRules(t *testing.T) {
	tests := []struct {
		name      string
		total     string
		remaining string
		wantErr   string
	}{
		{name: "exceeds remaining PO", total: "201", remaining: "200",
			wantErr: "should not exceed"},
		{name: "equal amounts pass", total: "200", remaining: "200"},
		{name: "non-numeric total", total: "abc", remaining: "200",
			wantErr: "Invalid numeric values"},
		{name: "non-numeric remaining", total: "100", remaining: "n/a",
			wantErr: "Invalid numeric values"},
		{name: "decimal comparison", total: "199.99", remaining: "200.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validInput()
			in.TotalInvoiceAmount = tt.total
			in.RemainingPOAmount = tt.remaining

			err := validateCreate(in)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !errors.Is(err, ErrValidation) {
				t.Fatalf("expected ErrValidation, got %v", err)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q missing %q", err.Error(), tt.wantErr)
			}
		})
	}
}

func TestCreateInputFieldsSkipBlanks(t *testing.T) {
	in := validInput()
	in.BillOfEntryNumber = "BOE-1"
	in.InvoiceAmountWords = "one hundred"

	fields := in.Fields()
	seen := make(map[string]string, len(fields))
	for _, f := range fields {
		seen[f.Key] = f.Value
	}

	if seen["billing_address"] != "A" {
		t.Errorf("billing_address = %q, want A", seen["billing_address"])
	}
	if seen["invoice_amount_words"] != "one hundred" {
		t.Errorf("invoice_amount_words = %q, want %q", seen["invoice_amount_words"], "one hundred")
	}
	// Transient field flows into rendering input; the renderer drops it.
	if seen["bill_of_entry_number"] != "BOE-1" {
		t.Error("bill_of_entry_number missing from field list")
	}
	if _, ok := seen["hsn_code"]; ok {
		t.Error("blank hsn_code should be skipped")
	}
}

func TestUpdateInputNeedsPDF(t *testing.T) {
	s := func(v string) *string { return &v }

	tests := []struct {
		name string
		in   UpdateInput
		want bool
	}{
		{name: "billing address triggers", in: UpdateInput{BillingAddress: s("X")}, want: true},
		{name: "shipping address triggers", in: UpdateInput{ShippingAddress: s("X")}, want: true},
		{name: "document number triggers", in: UpdateInput{DocumentNumber: s("D9")}, want: true},
		{name: "invoice date triggers", in: UpdateInput{InvoiceDate: s("2024-02-02")}, want: true},
		{name: "total amount triggers", in: UpdateInput{TotalInvoiceAmount: s("50")}, want: true},
		{name: "eway bill does not", in: UpdateInput{EwayBillNo: s("EWB9")}, want: false},
		{name: "empty payload does not", in: UpdateInput{}, want: false},
		{name: "blank trigger value does not", in: UpdateInput{BillingAddress: s("")}, want: false},
		{name: "whitespace trigger value does not", in: UpdateInput{DocumentNumber: s("  ")}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.in.needsPDF(); got != tt.want {
				t.Errorf("needsPDF = %v, want %v", got, tt.want)
			}
		})
	}
}
