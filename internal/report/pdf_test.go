package report

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridian-erp/meridian-erp/internal/procurement"
)

func TestPDFExporter_RenderPurchaseOrder_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/forms/chromium/convert/html", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Contains(t, r.Header.Get("Content-Type"), "multipart/form-data")

		err := r.ParseMultipartForm(10 << 20)
		if err != nil {
			t.Fatalf("failed to parse multipart form: %v", err)
		}

		file, _, err := r.FormFile("files")
		if err != nil {
			t.Fatalf("failed to get files: %v", err)
		}
		defer file.Close()

		htmlContent, err := io.ReadAll(file)
		if err != nil {
			t.Fatalf("failed to read file: %v", err)
		}

		html := string(htmlContent)
		assert.Contains(t, html, "PURCHASE ORDER")
		assert.Contains(t, html, "PO-1700000000000000000")
		assert.Contains(t, html, "Steel Supply Co")
		assert.Contains(t, html, "STL-BEAM-200")
		assert.Contains(t, html, "2500.00")

		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("MOCK-PDF-CONTENT"))
	}))
	defer srv.Close()

	exporter := newTestExporter(t, srv)

	pdfBytes, err := exporter.RenderPurchaseOrder(context.Background(), testOrder())
	require.NoError(t, err)
	assert.Equal(t, "MOCK-PDF-CONTENT", string(pdfBytes))
}

func TestPDFExporter_RenderPurchaseOrder_NilExporter(t *testing.T) {
	var exporter *PDFExporter

	_, err := exporter.RenderPurchaseOrder(context.Background(), testOrder())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not initialized")
}

func TestPDFExporter_RenderPurchaseOrder_EmptyEndpoint(t *testing.T) {
	exporter, err := NewPDFExporter("", nil)
	require.NoError(t, err)

	_, err = exporter.RenderPurchaseOrder(context.Background(), testOrder())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "endpoint required")
}

func TestPDFExporter_RenderPurchaseOrder_GotenbergError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte("Invalid HTML"))
	}))
	defer srv.Close()

	exporter := newTestExporter(t, srv)

	_, err := exporter.RenderPurchaseOrder(context.Background(), testOrder())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "gotenberg response 400")
	assert.Contains(t, err.Error(), "Invalid HTML")
}

func TestPDFExporter_RenderPurchaseOrder_ContextCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(100 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("PDF"))
	}))
	defer srv.Close()

	exporter := newTestExporter(t, srv)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := exporter.RenderPurchaseOrder(ctx, testOrder())
	require.Error(t, err)
}

func TestBuildHTML_Structure(t *testing.T) {
	exporter, err := NewPDFExporter("http://gotenberg:3000", nil)
	require.NoError(t, err)

	html, err := exporter.buildHTML(testOrder())
	require.NoError(t, err)

	assert.Contains(t, html, "<!DOCTYPE html>")
	assert.Contains(t, html, "</html>")
	assert.Contains(t, html, "<title>Purchase Order - PO-1700000000000000000</title>")
	assert.Contains(t, html, "items-table")
	assert.Contains(t, html, "status-pending")
}

func TestBuildHTML_LineItemsAndTotal(t *testing.T) {
	exporter, err := NewPDFExporter("http://gotenberg:3000", nil)
	require.NoError(t, err)

	html, err := exporter.buildHTML(testOrder())
	require.NoError(t, err)

	assert.Contains(t, html, "STL-BEAM-200")
	assert.Contains(t, html, "Steel Beam 200mm")
	assert.Contains(t, html, "125.00")
	assert.Contains(t, html, "2500.00")
	assert.Contains(t, html, "CEM-40")
	assert.Contains(t, html, "4000.00")
}

func TestBuildHTML_EscapesSupplierName(t *testing.T) {
	exporter, err := NewPDFExporter("http://gotenberg:3000", nil)
	require.NoError(t, err)

	order := testOrder()
	order.SupplierName = "<script>alert('xss')</script>"

	html, err := exporter.buildHTML(order)
	require.NoError(t, err)

	assert.NotContains(t, html, "<script>")
	assert.Contains(t, html, "&lt;script&gt;")
}

func TestBuildHTML_OptionalFields(t *testing.T) {
	exporter, err := NewPDFExporter("http://gotenberg:3000", nil)
	require.NoError(t, err)

	order := testOrder()
	order.ExpectedDeliveryDate = nil
	order.Terms = ""
	order.DeliveryAddress = ""
	order.ApprovedByName = ""

	html, err := exporter.buildHTML(order)
	require.NoError(t, err)

	assert.NotContains(t, html, "Expected Delivery")
	assert.NotContains(t, html, "Deliver To")
	assert.Contains(t, html, "Approved By")
}

func newTestExporter(t *testing.T, srv *httptest.Server) *PDFExporter {
	t.Helper()
	exporter, err := NewPDFExporter(srv.URL, srv.Client())
	require.NoError(t, err)
	return exporter
}

func testOrder() procurement.PurchaseOrder {
	delivery := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	return procurement.PurchaseOrder{
		ID:                   42,
		Number:               "PO-1700000000000000000",
		QuotationID:          7,
		QuotationNumber:      "QUO-1690000000000000000",
		SupplierID:           3,
		SupplierName:         "Steel Supply Co",
		Status:               procurement.POStatusPending,
		TotalAmount:          6500,
		ExpectedDeliveryDate: &delivery,
		Terms:                "Net 30",
		DeliveryAddress:      "Warehouse 4, Harbor Road",
		PreparedBy:           1,
		PreparedByName:       "Dana Ops",
		Items: []procurement.PurchaseOrderItem{
			{
				ID:              1,
				PurchaseOrderID: 42,
				InventoryItemID: 100,
				ItemCode:        "STL-BEAM-200",
				ItemName:        "Steel Beam 200mm",
				Quantity:        20,
				UnitPrice:       125,
			},
			{
				ID:              2,
				PurchaseOrderID: 42,
				InventoryItemID: 101,
				ItemCode:        "CEM-40",
				ItemName:        "Cement 40kg",
				Quantity:        80,
				UnitPrice:       50,
			},
		},
		CreatedAt: time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC),
	}
}
