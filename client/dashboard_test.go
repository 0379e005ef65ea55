package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"invoicedesk-backend/models"

	"github.com/google/go-cmp/cmp"
)

func newDashboard(t *testing.T, invoices []models.Invoice) *Dashboard {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(invoices)
	}))
	t.Cleanup(srv.Close)

	d := &Dashboard{}
	if err := d.Load(context.Background(), NewAPI(srv.URL)); err != nil {
		t.Fatalf("Load: %v", err)
	}
	return d
}

func TestDashboardFilter(t *testing.T) {
	d := newDashboard(t, []models.Invoice{
		{ID: 1, PONumber: "PO-100", TotalInvoiceAmount: "106", InvoicePDF: "/uploads/a.pdf"},
		{ID: 2, PONumber: "po-200", TotalInvoiceAmount: "59"},
		{ID: 3, PONumber: "ORDER-7", TotalInvoiceAmount: "12", InvoicePDF: "/uploads/c.pdf"},
	})

	tests := []struct {
		name string
		term string
		want []Row
	}{
		{
			name: "empty term returns everything",
			term: "",
			want: []Row{
				{ID: 1, PONumber: "PO-100", TotalAmount: "106", PDF: "/uploads/a.pdf"},
				{ID: 2, PONumber: "po-200", TotalAmount: "59", PDF: "Not Available"},
				{ID: 3, PONumber: "ORDER-7", TotalAmount: "12", PDF: "/uploads/c.pdf"},
			},
		},
		{
			name: "case-insensitive substring",
			term: "PO-",
			want: []Row{
				{ID: 1, PONumber: "PO-100", TotalAmount: "106", PDF: "/uploads/a.pdf"},
				{ID: 2, PONumber: "po-200", TotalAmount: "59", PDF: "Not Available"},
			},
		},
		{
			name: "no match",
			term: "missing",
			want: []Row{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := d.Filter(tt.term)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Filter(%q) mismatch (-want +got):\n%s", tt.term, diff)
			}
		})
	}
}

func TestDashboardEmpty(t *testing.T) {
	d := newDashboard(t, nil)
	if rows := d.Filter(""); len(rows) != 0 {
		t.Errorf("expected no rows, got %d", len(rows))
	}
}
