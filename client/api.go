// Package client implements the invoice submission workflow and the
// dashboard against the HTTP API: a two-step form with derived-field
// arithmetic and duplicate detection, and a list view filtered by purchase
// order number.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"invoicedesk-backend/models"
	"invoicedesk-backend/store"
)

// API is a thin HTTP client for the invoice endpoints.
type API struct {
	BaseURL string
	HTTP    *http.Client
}

func NewAPI(baseURL string) *API {
	return &API{
		BaseURL: baseURL,
		HTTP:    &http.Client{Timeout: 30 * time.Second},
	}
}

type apiError struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func (a *API) fail(resp *http.Response) error {
	var e apiError
	_ = json.NewDecoder(resp.Body).Decode(&e)
	msg := e.Error
	if msg == "" {
		msg = e.Message
	}
	if msg == "" {
		msg = resp.Status
	}
	return fmt.Errorf("server error (%d): %s", resp.StatusCode, msg)
}

// List fetches every stored invoice.
func (a *API) List(ctx context.Context) ([]models.Invoice, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.BaseURL+"/api/invoices", nil)
	if err != nil {
		return nil, err
	}
	resp, err := a.HTTP.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, a.fail(resp)
	}

	var invoices []models.Invoice
	if err := json.NewDecoder(resp.Body).Decode(&invoices); err != nil {
		return nil, err
	}
	return invoices, nil
}

type createResponse struct {
	Message string          `json:"message"`
	Invoice *models.Invoice `json:"invoice"`
}

// Create submits the invoice payload as a multipart form, attaching the
// source document at filePath when non-empty. Success requires a 200/201
// response.
func (a *API) Create(ctx context.Context, in *store.CreateInput, filePath string) (*models.Invoice, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for _, f := range in.Fields() {
		if err := w.WriteField(f.Key, f.Value); err != nil {
			return nil, err
		}
	}

	if filePath != "" {
		src, err := os.Open(filePath)
		if err != nil {
			return nil, err
		}
		part, err := w.CreateFormFile("e_invoice_file", filepath.Base(filePath))
		if err != nil {
			src.Close()
			return nil, err
		}
		if _, err := io.Copy(part, src); err != nil {
			src.Close()
			return nil, err
		}
		src.Close()
	}

	if err := w.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.BaseURL+"/api/invoices", &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := a.HTTP.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, a.fail(resp)
	}

	var out createResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, err
	}
	return out.Invoice, nil
}

type updateResponse struct {
	Message string          `json:"message"`
	Invoice *models.Invoice `json:"invoice"`
}

// Update applies a partial update to an invoice.
func (a *API) Update(ctx context.Context, id string, in *store.UpdateInput) (*models.Invoice, error) {
	body, err := json.Marshal(in)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPut,
		a.BaseURL+"/api/invoices/"+id, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.HTTP.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, a.fail(resp)
	}

	var out updateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, err
	}
	return out.Invoice, nil
}

// Delete removes an invoice by id.
func (a *API) Delete(ctx context.Context, id string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete,
		a.BaseURL+"/api/invoices/"+id, nil)
	if err != nil {
		return err
	}
	resp, err := a.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return a.fail(resp)
	}
	return nil
}

// FetchPDF downloads a generated PDF by file name.
func (a *API) FetchPDF(ctx context.Context, filename string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		a.BaseURL+"/api/invoices/pdf/"+filename, nil)
	if err != nil {
		return nil, err
	}
	resp, err := a.HTTP.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, a.fail(resp)
	}
	return io.ReadAll(resp.Body)
}
