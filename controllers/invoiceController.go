package controllers

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"invoicedesk-backend/database"
	"invoicedesk-backend/mailer"
	"invoicedesk-backend/middlewares"
	"invoicedesk-backend/models"
	"invoicedesk-backend/store"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"gorm.io/datatypes"
)

// Mailer dispatches the invoice notification with the generated PDF
// attached. Satisfied by *mailer.Client.
type Mailer interface {
	SendInvoice(to, poNumber, body, pdfPath string) error
}

var (
	invoices  *store.InvoiceStore
	mail      Mailer
	uploadDir string
	log       zerolog.Logger
)

// Setup wires the handler dependencies. Must be called before Register.
func Setup(s *store.InvoiceStore, m Mailer, dir string, l zerolog.Logger) {
	invoices = s
	mail = m
	uploadDir = dir
	log = l
}

// GetInvoices returns every stored invoice.
func GetInvoices(c *fiber.Ctx) error {
	list, err := invoices.GetAll()
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(list)
}

// CreateInvoice accepts the invoice payload (JSON or multipart) plus an
// optional uploaded source document, creates the record, then sends the
// notification email with the generated PDF attached. The email is sent on
// the request path; a slow or failing mail provider fails the request.
func CreateInvoice(c *fiber.Ctx) error {
	var in store.CreateInput
	if err := middlewares.BindAndValidate(c, &in); err != nil {
		return err
	}

	// Store the uploaded source document, if any, and record its reference
	// on the payload before creating the invoice.
	if file, err := c.FormFile("e_invoice_file"); err == nil && file != nil {
		name := fmt.Sprintf("%d-%s", time.Now().UnixMilli(), filepath.Base(file.Filename))
		if err := c.SaveFile(file, filepath.Join(uploadDir, name)); err != nil {
			log.Error().Err(err).Str("file", file.Filename).Msg("storing uploaded document failed")
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to store uploaded document.",
			})
		}
		in.EInvoiceFile = "/uploads/" + name
	}

	inv, err := invoices.Create(&in)
	if err != nil {
		return err
	}
	log.Info().Uint("id", inv.ID).Str("document_number", inv.DocumentNumber).Msg("invoice created")

	// The stored reference must correspond to a file on disk before we
	// attach it to an email.
	pdfAbs := filepath.Join(uploadDir, strings.TrimPrefix(inv.InvoicePDF, "/uploads/"))
	if _, err := os.Stat(pdfAbs); err != nil {
		log.Error().Str("path", pdfAbs).Msg("invoice PDF not found on disk")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Invoice PDF file is missing.",
		})
	}

	if strings.TrimSpace(in.POIssuerEmail) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Recipient email is required",
		})
	}

	body := mailer.BuildBody(in.PONumber, in.Fields())
	if err := mail.SendInvoice(in.POIssuerEmail, in.PONumber, body, pdfAbs); err != nil {
		log.Error().Err(err).Str("recipient", in.POIssuerEmail).Msg("email dispatch failed")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create invoice or send email.",
		})
	}
	log.Info().Str("recipient", in.POIssuerEmail).Msg("invoice email sent")

	// Durable record of the dispatch; failure here never fails the request.
	if payload, err := json.Marshal(&in); err == nil {
		logErr := database.DB.Create(&models.EmailLog{
			InvoiceID: inv.ID,
			Recipient: in.POIssuerEmail,
			Subject:   mailer.Subject(in.PONumber),
			Payload:   datatypes.JSON(payload),
			SentAt:    time.Now().UTC(),
		}).Error
		if logErr != nil {
			log.Warn().Err(logErr).Uint("invoice_id", inv.ID).Msg("email log write failed")
		}
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Invoice created and email sent successfully",
		"invoice": inv,
	})
}

// UpdateInvoice applies a partial update by id.
func UpdateInvoice(c *fiber.Ctx) error {
	id := c.Params("id")
	if strings.TrimSpace(id) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invoice ID is required.",
		})
	}

	var in store.UpdateInput
	if err := middlewares.BindAndValidate(c, &in); err != nil {
		return err
	}

	inv, err := invoices.Update(id, &in)
	if err != nil {
		return err
	}
	if inv == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Invoice not found.",
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Invoice updated successfully",
		"invoice": inv,
	})
}

// DeleteInvoice removes an invoice by id.
func DeleteInvoice(c *fiber.Ctx) error {
	id := c.Params("id")

	removed, err := invoices.Delete(id)
	if err != nil {
		return err
	}
	if !removed {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Invoice not found.",
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Invoice deleted successfully",
	})
}

// GetInvoicePDF streams a generated PDF from the managed upload directory.
func GetInvoicePDF(c *fiber.Ctx) error {
	// filepath.Base strips any traversal components from the parameter.
	name := filepath.Base(c.Params("filename"))
	path := filepath.Join(uploadDir, name)

	if _, err := os.Stat(path); err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "PDF not found",
		})
	}

	if strings.HasSuffix(name, ".pdf") {
		c.Set(fiber.HeaderContentType, "application/pdf")
	}
	return c.SendFile(path)
}
