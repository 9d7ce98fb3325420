package report

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/meridian-erp/meridian-erp/internal/procurement"
	"github.com/meridian-erp/meridian-erp/web"
)

// PDFExporter renders purchase order print views through Gotenberg. PDF
// generation never happens in-process.
type PDFExporter struct {
	Endpoint  string
	Client    *http.Client
	templates *template.Template
}

// NewPDFExporter creates a PDFExporter with parsed templates.
func NewPDFExporter(endpoint string, client *http.Client) (*PDFExporter, error) {
	funcMap := template.FuncMap{
		"formatDate": func(t time.Time) string {
			if t.IsZero() {
				return ""
			}
			return t.Format("January 2, 2006")
		},
		"formatDatePtr": func(t *time.Time) string {
			if t == nil || t.IsZero() {
				return ""
			}
			return t.Format("January 2, 2006")
		},
		"formatMoney": func(v float64) string {
			return fmt.Sprintf("%.2f", v)
		},
		"formatQty": func(qty float64) string {
			s := fmt.Sprintf("%.4f", qty)
			s = strings.TrimRight(s, "0")
			s = strings.TrimRight(s, ".")
			return s
		},
		"now": func() string {
			return time.Now().Format("January 2, 2006 at 3:04 PM")
		},
		"add": func(a, b int) int {
			return a + b
		},
	}

	tpl, err := template.New("purchase_order_pdf.html").Funcs(funcMap).ParseFS(
		web.Templates, "templates/reports/purchase_order_pdf.html",
	)
	if err != nil {
		return nil, fmt.Errorf("parse purchase order template: %w", err)
	}

	return &PDFExporter{
		Endpoint:  endpoint,
		Client:    client,
		templates: tpl,
	}, nil
}

// RenderPurchaseOrder sends the rendered print view to Gotenberg and returns
// the PDF bytes.
func (p *PDFExporter) RenderPurchaseOrder(ctx context.Context, order procurement.PurchaseOrder) ([]byte, error) {
	if p == nil {
		return nil, fmt.Errorf("pdf exporter not initialized")
	}
	endpoint := strings.TrimRight(p.Endpoint, "/")
	if endpoint == "" {
		return nil, fmt.Errorf("gotenberg endpoint required")
	}
	client := p.Client
	if client == nil {
		client = http.DefaultClient
	}

	html, err := p.buildHTML(order)
	if err != nil {
		return nil, fmt.Errorf("render template: %w", err)
	}

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	part, err := writer.CreateFormFile("files", "purchase-order.html")
	if err != nil {
		return nil, err
	}
	if _, err := io.WriteString(part, html); err != nil {
		return nil, err
	}

	fields := map[string]string{
		"paperWidth":   "8.5",
		"paperHeight":  "11",
		"marginTop":    "0.5",
		"marginBottom": "0.5",
		"marginLeft":   "0.5",
		"marginRight":  "0.5",
		"waitDelay":    "100",
	}
	for key, value := range fields {
		if err := writer.WriteField(key, value); err != nil {
			return nil, err
		}
	}

	if err := writer.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint+"/forms/chromium/convert/html", body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return nil, fmt.Errorf("gotenberg response %d: %s", resp.StatusCode, string(data))
	}

	return io.ReadAll(resp.Body)
}

func (p *PDFExporter) buildHTML(order procurement.PurchaseOrder) (string, error) {
	if p.templates == nil {
		return "", fmt.Errorf("templates not initialized")
	}

	buf := &bytes.Buffer{}
	if err := p.templates.ExecuteTemplate(buf, "purchase_order_pdf.html", order); err != nil {
		return "", err
	}
	return buf.String(), nil
}
