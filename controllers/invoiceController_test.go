package controllers

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"invoicedesk-backend/database"
	"invoicedesk-backend/middlewares"
	"invoicedesk-backend/pdfgen"
	"invoicedesk-backend/store"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	gormmysql "gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// fakeMailer records the dispatch the create handler asks for.
type fakeMailer struct {
	err     error
	calls   int
	to      string
	po      string
	body    string
	pdfPath string
}

func (f *fakeMailer) SendInvoice(to, poNumber, body, pdfPath string) error {
	f.calls++
	f.to, f.po, f.body, f.pdfPath = to, poNumber, body, pdfPath
	return f.err
}

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	conn, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	db, err := gorm.Open(gormmysql.New(gormmysql.Config{
		Conn:                      conn,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("gorm.Open: %v", err)
	}
	return db, mock
}

func newRoutes() *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: middlewares.ErrorHandler})
	api := app.Group("/api")
	api.Get("/invoices", GetInvoices)
	api.Post("/invoices", CreateInvoice)
	api.Put("/invoices/:id", UpdateInvoice)
	api.Delete("/invoices/:id", DeleteInvoice)
	api.Get("/invoices/pdf/:filename", GetInvoicePDF)
	return app
}

// newTestApp wires the handlers to a sqlmock-backed store and a temp upload
// directory, registering routes without the idempotency guard so tests need
// no idempotency table. The EmailLog write in the create path goes through
// database.DB, so it points at the same mock connection.
func newTestApp(t *testing.T, m Mailer) (*fiber.App, sqlmock.Sqlmock, string) {
	t.Helper()

	db, mock := newMockDB(t)
	database.DB = db

	dir := t.TempDir()
	Setup(store.New(db, &pdfgen.Renderer{Dir: dir}, zerolog.Nop()), m, dir, zerolog.Nop())
	return newRoutes(), mock, dir
}

func createFields() map[string]string {
	return map[string]string{
		"billing_address":      "A",
		"shipping_address":     "B",
		"document_number":      "D1",
		"document_type":        "INV",
		"invoice_date":         "2024-01-01",
		"po_number":            "PO1",
		"po_issuer_email":      "buyer@example.com",
		"po_el_date":           "2024-01-01",
		"gst_payable_rcm":      "No",
		"total_invoice_amount": "100",
		"total_tax_amount":     "18",
		"eway_bill_no":         "EWB1",
		"import_date":          "2024-01-01",
		"remaining_po_amount":  "200",
	}
}

func multipartBody(t *testing.T, fields map[string]string, fileName string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			t.Fatal(err)
		}
	}
	if fileName != "" {
		part, err := w.CreateFormFile("e_invoice_file", fileName)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := part.Write([]byte("%PDF-1.4 source")); err != nil {
			t.Fatal(err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	return &buf, w.FormDataContentType()
}

func decodeBody(t *testing.T, body io.Reader) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.NewDecoder(body).Decode(&out); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	return out
}

func TestCreateInvoiceSendsEmailAndLogs(t *testing.T) {
	fm := &fakeMailer{}
	app, mock, dir := newTestApp(t, fm)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `invoices`").
		WillReturnResult(sqlmock.NewResult(7, 1))
	mock.ExpectCommit()
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `email_logs`").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	body, ct := multipartBody(t, createFields(), "bill.pdf")
	req := httptest.NewRequest("POST", "/api/invoices", body)
	req.Header.Set("Content-Type", ct)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != fiber.StatusCreated {
		t.Fatalf("status = %d, want 201", resp.StatusCode)
	}
	out := decodeBody(t, resp.Body)
	if out["message"] != "Invoice created and email sent successfully" {
		t.Errorf("message = %v", out["message"])
	}

	if fm.calls != 1 {
		t.Fatalf("mail sent %d times, want 1", fm.calls)
	}
	if fm.to != "buyer@example.com" || fm.po != "PO1" {
		t.Errorf("mail to %q for PO %q", fm.to, fm.po)
	}
	if !strings.Contains(fm.body, "po_number: PO1") {
		t.Errorf("mail body missing field summary:\n%s", fm.body)
	}
	if _, err := os.Stat(fm.pdfPath); err != nil {
		t.Errorf("attached PDF missing on disk: %v", err)
	}

	// The uploaded source document lands next to the PDF with a
	// timestamp-prefixed name.
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	var uploaded bool
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), "-bill.pdf") {
			uploaded = true
		}
	}
	if !uploaded {
		t.Error("uploaded source document not stored")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestCreateInvoiceEmailFailure(t *testing.T) {
	fm := &fakeMailer{err: errors.New("smtp down")}
	app, mock, _ := newTestApp(t, fm)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `invoices`").
		WillReturnResult(sqlmock.NewResult(7, 1))
	mock.ExpectCommit()

	body, ct := multipartBody(t, createFields(), "")
	req := httptest.NewRequest("POST", "/api/invoices", body)
	req.Header.Set("Content-Type", ct)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != fiber.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", resp.StatusCode)
	}
	if got := decodeBody(t, resp.Body)["error"]; got != "Failed to create invoice or send email." {
		t.Errorf("error = %v", got)
	}
	// No email log row for a failed dispatch.
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestCreateInvoiceMissingField(t *testing.T) {
	fm := &fakeMailer{}
	app, _, _ := newTestApp(t, fm)

	fields := createFields()
	delete(fields, "billing_address")

	body, ct := multipartBody(t, fields, "")
	req := httptest.NewRequest("POST", "/api/invoices", body)
	req.Header.Set("Content-Type", ct)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
	if got, _ := decodeBody(t, resp.Body)["error"].(string); !strings.Contains(got, "Missing required field: billing_address") {
		t.Errorf("error = %q", got)
	}
	if fm.calls != 0 {
		t.Errorf("mail sent despite validation failure")
	}
}

func TestCreateInvoiceInvalidEmail(t *testing.T) {
	app, _, _ := newTestApp(t, &fakeMailer{})

	fields := createFields()
	fields["po_issuer_email"] = "not-an-address"

	body, ct := multipartBody(t, fields, "")
	req := httptest.NewRequest("POST", "/api/invoices", body)
	req.Header.Set("Content-Type", ct)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
	if got := decodeBody(t, resp.Body)["message"]; got != "validation failed" {
		t.Errorf("message = %v", got)
	}
}

func TestCreateInvoicePDFMissingOnDisk(t *testing.T) {
	fm := &fakeMailer{}
	db, mock := newMockDB(t)
	database.DB = db

	// The renderer writes into a different directory than the one the
	// handler serves, so the on-disk check fails after a successful insert.
	Setup(store.New(db, &pdfgen.Renderer{Dir: t.TempDir()}, zerolog.Nop()),
		fm, t.TempDir(), zerolog.Nop())
	app := newRoutes()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `invoices`").
		WillReturnResult(sqlmock.NewResult(7, 1))
	mock.ExpectCommit()

	body, ct := multipartBody(t, createFields(), "")
	req := httptest.NewRequest("POST", "/api/invoices", body)
	req.Header.Set("Content-Type", ct)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != fiber.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", resp.StatusCode)
	}
	if got := decodeBody(t, resp.Body)["error"]; got != "Invoice PDF file is missing." {
		t.Errorf("error = %v", got)
	}
	if fm.calls != 0 {
		t.Errorf("mail sent despite missing PDF")
	}
}

func TestGetInvoicePDFMissing(t *testing.T) {
	app, _, _ := newTestApp(t, nil)

	req := httptest.NewRequest("GET", "/api/invoices/pdf/does-not-exist.pdf", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != fiber.StatusNotFound {
		t.Fatalf("status = %d, want 404", resp.StatusCode)
	}
	if got := decodeBody(t, resp.Body)["error"]; got != "PDF not found" {
		t.Errorf("error = %v", got)
	}
}

func TestGetInvoicePDFServesFile(t *testing.T) {
	app, _, dir := newTestApp(t, nil)

	content := []byte("%PDF-1.4 stub")
	if err := os.WriteFile(filepath.Join(dir, "invoice_1_abc.pdf"), content, 0o644); err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest("GET", "/api/invoices/pdf/invoice_1_abc.pdf", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if ct := resp.Header.Get(fiber.HeaderContentType); ct != "application/pdf" {
		t.Errorf("content type = %q, want application/pdf", ct)
	}
	body, _ := io.ReadAll(resp.Body)
	if string(body) != string(content) {
		t.Errorf("body = %q", body)
	}
}

func TestGetInvoicesStorageFailure(t *testing.T) {
	app, mock, _ := newTestApp(t, nil)

	mock.ExpectQuery("SELECT \\* FROM `invoices`").
		WillReturnError(os.ErrDeadlineExceeded)

	req := httptest.NewRequest("GET", "/api/invoices", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != fiber.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", resp.StatusCode)
	}
	if got, _ := decodeBody(t, resp.Body)["error"].(string); !strings.Contains(got, "Failed to fetch invoices.") {
		t.Errorf("error = %q", got)
	}
}

func TestUpdateInvoiceEmptyPayload(t *testing.T) {
	app, _, _ := newTestApp(t, nil)

	req := httptest.NewRequest("PUT", "/api/invoices/7", strings.NewReader("{}"))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
	if got, _ := decodeBody(t, resp.Body)["error"].(string); !strings.Contains(got, "No updatable fields") {
		t.Errorf("error = %q", got)
	}
}

func TestUpdateInvoiceNotFound(t *testing.T) {
	app, mock, _ := newTestApp(t, nil)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `invoices` SET").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	req := httptest.NewRequest("PUT", "/api/invoices/999",
		strings.NewReader(`{"eway_bill_no":"EWB9"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != fiber.StatusNotFound {
		t.Fatalf("status = %d, want 404", resp.StatusCode)
	}
	if got := decodeBody(t, resp.Body)["error"]; got != "Invoice not found." {
		t.Errorf("error = %v", got)
	}
}

func TestDeleteInvoiceNotFound(t *testing.T) {
	app, mock, _ := newTestApp(t, nil)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM `invoices`").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	req := httptest.NewRequest("DELETE", "/api/invoices/999", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != fiber.StatusNotFound {
		t.Fatalf("status = %d, want 404", resp.StatusCode)
	}
}

func TestDeleteInvoiceOK(t *testing.T) {
	app, mock, _ := newTestApp(t, nil)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM `invoices`").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	req := httptest.NewRequest("DELETE", "/api/invoices/7", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if got := decodeBody(t, resp.Body)["message"]; got != "Invoice deleted successfully" {
		t.Errorf("message = %v", got)
	}
}
