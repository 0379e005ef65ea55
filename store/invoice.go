// Package store implements the invoice data store: validation, PDF and
// amount-in-words orchestration, and CRUD against the invoices table.
package store

import (
	"errors"
	"strings"

	"invoicedesk-backend/models"
	"invoicedesk-backend/pdfgen"
	"invoicedesk-backend/utils"
	"invoicedesk-backend/words"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type InvoiceStore struct {
	db  *gorm.DB
	pdf *pdfgen.Renderer
	log zerolog.Logger
}

func New(db *gorm.DB, pdf *pdfgen.Renderer, log zerolog.Logger) *InvoiceStore {
	return &InvoiceStore{db: db, pdf: pdf, log: log}
}

// validateCreate enforces required-field presence (reporting the first
// missing field) and the PO-cap business rule.
func validateCreate(in *CreateInput) error {
	for _, name := range requiredFields {
		if strings.TrimSpace(in.get(name)) == "" {
			return wrap(ErrValidation, "Missing required field: %s", name)
		}
	}

	total, err1 := decimal.NewFromString(strings.TrimSpace(in.TotalInvoiceAmount))
	remaining, err2 := decimal.NewFromString(strings.TrimSpace(in.RemainingPOAmount))
	if err1 != nil || err2 != nil {
		return wrap(ErrValidation, "Invalid numeric values for invoice or PO amount.")
	}
	if total.GreaterThan(remaining) {
		return wrap(ErrValidation, "Total invoice amount should not exceed the remaining PO amount.")
	}
	return nil
}

// Create validates the payload, renders its PDF, computes the
// amount-in-words, strips the transient bill-of-entry field and inserts the
// record, returning it with its assigned identity.
func (s *InvoiceStore) Create(in *CreateInput) (*models.Invoice, error) {
	if in == nil {
		return nil, wrap(ErrValidation, "Invoice data is required.")
	}
	utils.NormalizeDTO(in)
	if err := validateCreate(in); err != nil {
		return nil, err
	}

	pdfRef, err := s.pdf.Render(in.Fields())
	if err != nil {
		s.log.Error().Err(err).Msg("pdf generation failed on create")
		return nil, wrap(ErrPDFGeneration, "%v", err)
	}

	amountWords, err := words.FromAmount(in.TotalInvoiceAmount)
	if err != nil {
		// Unreachable after validateCreate; treat as a validation fault.
		return nil, wrap(ErrValidation, "%v", err)
	}

	inv := models.Invoice{
		BillingAddress:     in.BillingAddress,
		ShippingAddress:    in.ShippingAddress,
		DocumentNumber:     in.DocumentNumber,
		DocumentType:       in.DocumentType,
		InvoiceDate:        in.InvoiceDate,
		PONumber:           in.PONumber,
		POIssuerEmail:      in.POIssuerEmail,
		POELDate:           in.POELDate,
		GSTPayableRCM:      in.GSTPayableRCM,
		TotalInvoiceAmount: in.TotalInvoiceAmount,
		TotalTaxAmount:     in.TotalTaxAmount,
		RemainingPOAmount:  in.RemainingPOAmount,
		BasicInvoiceValue:  in.BasicInvoiceValue,
		DiscountIfAny:      in.DiscountIfAny,
		TaxableValue:       in.TaxableValue,
		RoundOffValue:      in.RoundOffValue,
		EwayBillNo:         in.EwayBillNo,
		ImportDate:         in.ImportDate,
		IsImport:           in.IsImport,
		HSNCode:            in.HSNCode,
		GSTNPortalStatus:   in.GSTNPortalStatus,
		EInvoiceFile:       in.EInvoiceFile,
		InvoicePDF:         pdfRef,
		InvoiceAmountWords: amountWords,
	}
	if v := strings.TrimSpace(in.EInvoiceAvailable); v != "" {
		inv.EInvoiceAvailable = &v
	}
	// in.BillOfEntryNumber is deliberately dropped here.

	if err := s.db.Create(&inv).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, wrap(ErrValidation, "Duplicate document number: %s", in.DocumentNumber)
		}
		s.log.Error().Err(err).Msg("database insertion failed")
		return nil, wrap(ErrPersistence, "Database insertion failed.")
	}
	return &inv, nil
}

// GetAll returns every stored invoice, including its PDF reference, in
// storage order.
func (s *InvoiceStore) GetAll() ([]models.Invoice, error) {
	var invoices []models.Invoice
	if err := s.db.Find(&invoices).Error; err != nil {
		s.log.Error().Err(err).Msg("failed to fetch invoices")
		return nil, wrap(ErrPersistence, "Failed to fetch invoices.")
	}
	return invoices, nil
}

// Update applies a partial update by identity. The e-invoice flag is
// normalized to exactly "Yes" or NULL, the amount-in-words is recomputed
// when the total changed, and the PDF is regenerated only when one of the
// PDF-affecting fields is present in the payload; a PDF failure aborts the
// whole update. Returns (nil, nil) when no row matched.
func (s *InvoiceStore) Update(id string, in *UpdateInput) (*models.Invoice, error) {
	if strings.TrimSpace(id) == "" {
		return nil, wrap(ErrValidation, "Invoice ID is required.")
	}
	if in == nil {
		return nil, wrap(ErrValidation, "Update data is required.")
	}

	utils.NormalizePtrDTO(in)
	updates := utils.UpdatesFromPtrDTO(in)
	delete(updates, "bill_of_entry_number")

	if in.EInvoiceAvailable != nil {
		if strings.EqualFold(strings.TrimSpace(*in.EInvoiceAvailable), "yes") {
			updates["e_invoice_available"] = "Yes"
		} else {
			updates["e_invoice_available"] = nil
		}
	}

	if in.TotalInvoiceAmount != nil {
		if w, err := words.FromAmount(*in.TotalInvoiceAmount); err == nil {
			updates["invoice_amount_words"] = w
		}
	}

	if in.needsPDF() {
		ref, err := s.pdf.Render(in.Fields())
		if err != nil {
			s.log.Error().Err(err).Str("invoice_id", id).Msg("pdf regeneration failed")
			return nil, wrap(ErrPDFGeneration, "PDF regeneration failed.")
		}
		updates["invoice_pdf"] = ref
	}

	if len(updates) == 0 {
		return nil, wrap(ErrValidation, "No updatable fields in payload.")
	}

	res := s.db.Model(&models.Invoice{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		s.log.Error().Err(res.Error).Str("invoice_id", id).Msg("invoice update failed")
		return nil, wrap(ErrPersistence, "Invoice update failed.")
	}
	if res.RowsAffected == 0 {
		return nil, nil
	}

	var inv models.Invoice
	if err := s.db.First(&inv, "id = ?", id).Error; err != nil {
		s.log.Error().Err(err).Str("invoice_id", id).Msg("fetch after update failed")
		return nil, wrap(ErrPersistence, "Invoice update failed.")
	}
	return &inv, nil
}

// Delete removes an invoice by identity and reports whether a row was
// actually removed.
func (s *InvoiceStore) Delete(id string) (bool, error) {
	if strings.TrimSpace(id) == "" {
		return false, wrap(ErrValidation, "Invoice ID is required.")
	}
	res := s.db.Delete(&models.Invoice{}, "id = ?", id)
	if res.Error != nil {
		s.log.Error().Err(res.Error).Str("invoice_id", id).Msg("invoice deletion failed")
		return false, wrap(ErrPersistence, "Invoice deletion failed.")
	}
	return res.RowsAffected > 0, nil
}
