package client

import (
	"context"
	"strings"

	"invoicedesk-backend/models"
)

// Dashboard holds the invoice list fetched once on load and filters it
// locally by purchase-order number.
type Dashboard struct {
	invoices []models.Invoice
}

// Row is one rendered dashboard line.
type Row struct {
	ID          uint
	PONumber    string
	TotalAmount string
	PDF         string // reference path, or "Not Available"
}

// Load fetches the full invoice list.
func (d *Dashboard) Load(ctx context.Context, api *API) error {
	invoices, err := api.List(ctx)
	if err != nil {
		return err
	}
	d.invoices = invoices
	return nil
}

// Filter returns the rows whose PO number contains term,
// case-insensitively. An empty term returns everything.
func (d *Dashboard) Filter(term string) []Row {
	term = strings.ToLower(term)
	rows := make([]Row, 0, len(d.invoices))
	for _, inv := range d.invoices {
		if !strings.Contains(strings.ToLower(inv.PONumber), term) {
			continue
		}
		pdf := inv.InvoicePDF
		if pdf == "" {
			pdf = "Not Available"
		}
		rows = append(rows, Row{
			ID:          inv.ID,
			PONumber:    inv.PONumber,
			TotalAmount: inv.TotalInvoiceAmount,
			PDF:         pdf,
		})
	}
	return rows
}
