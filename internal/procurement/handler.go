package procurement

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/meridian-erp/meridian-erp/internal/masterdata/items"
	"github.com/meridian-erp/meridian-erp/internal/masterdata/projects"
	mdshared "github.com/meridian-erp/meridian-erp/internal/masterdata/shared"
	"github.com/meridian-erp/meridian-erp/internal/masterdata/suppliers"
	"github.com/meridian-erp/meridian-erp/internal/rbac"
	"github.com/meridian-erp/meridian-erp/internal/shared"
	"github.com/meridian-erp/meridian-erp/internal/view"
)

// Printer renders a purchase order print view to PDF bytes through an
// external converter.
type Printer interface {
	RenderPurchaseOrder(ctx context.Context, order PurchaseOrder) ([]byte, error)
}

type Handler struct {
	logger          *slog.Logger
	service         *Service
	supplierService *suppliers.Service
	itemService     *items.Service
	projectService  *projects.Service
	printer         Printer
	templates       *view.Engine
	csrf            *shared.CSRFManager
	rbac            rbac.Middleware
}

func NewHandler(
	logger *slog.Logger,
	service *Service,
	supplierService *suppliers.Service,
	itemService *items.Service,
	projectService *projects.Service,
	printer Printer,
	templates *view.Engine,
	csrf *shared.CSRFManager,
	rbac rbac.Middleware,
) *Handler {
	return &Handler{
		logger:          logger,
		service:         service,
		supplierService: supplierService,
		itemService:     itemService,
		projectService:  projectService,
		printer:         printer,
		templates:       templates,
		csrf:            csrf,
		rbac:            rbac,
	}
}

type formErrors map[string]string

func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.RequireAny("procurement.view"))
		r.Get("/requests", h.ListRequests)
		r.Get("/requests/{id}", h.ShowRequest)
		r.Get("/requests/{id}/compare", h.CompareQuotations)
		r.Get("/quotations", h.ListQuotations)
		r.Get("/quotations/{id}", h.ShowQuotation)
		r.Get("/orders", h.ListOrders)
		r.Get("/orders/{id}", h.ShowOrder)
		r.Get("/orders/{id}/print", h.PrintOrder)
		r.Get("/receipts", h.ListReceipts)
		r.Get("/receipts/{id}", h.ShowReceipt)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.RequireAll("procurement.edit"))
		r.Get("/requests/new", h.RequestForm)
		r.Post("/requests", h.CreateRequest)
		r.Get("/quotations/new", h.QuotationForm)
		r.Post("/quotations", h.CreateQuotation)
		r.Post("/quotations/{id}/accept", h.AcceptQuotation)
		r.Post("/quotations/{id}/reject", h.RejectQuotation)
		r.Post("/quotations/{id}/delete", h.DeleteQuotation)
		r.Get("/orders/new", h.OrderForm)
		r.Post("/orders", h.CreateOrder)
		r.Post("/orders/{id}/approve", h.ApproveOrder)
		r.Post("/orders/{id}/delete", h.DeleteOrder)
		r.Get("/receipts/new", h.ReceiptForm)
		r.Post("/receipts", h.CreateReceipt)
		r.Post("/receipts/{id}/approve", h.ApproveReceipt)
	})
}

// Purchase requests

func (h *Handler) ListRequests(w http.ResponseWriter, r *http.Request) {
	filters := listFiltersFromQuery(r)

	requests, total, err := h.service.ListRequests(r.Context(), filters)
	if err != nil {
		h.logger.Error("list purchase requests failed", "error", err)
		http.Error(w, "Failed to load purchase requests", http.StatusInternalServerError)
		return
	}

	h.render(w, r, "pages/procurement/requests_list.html", map[string]any{
		"Requests": requests,
		"Filters":  filters,
		"Total":    total,
	}, http.StatusOK)
}

func (h *Handler) ShowRequest(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid purchase request ID", http.StatusBadRequest)
		return
	}

	request, err := h.service.GetRequest(r.Context(), id)
	if err != nil {
		http.Error(w, "Purchase request not found", http.StatusNotFound)
		return
	}

	quotations, err := h.service.CompareQuotations(r.Context(), id)
	if err != nil {
		h.logger.Error("load request quotations failed", "error", err, "request_id", id)
		http.Error(w, "Failed to load quotations", http.StatusInternalServerError)
		return
	}

	h.render(w, r, "pages/procurement/request_detail.html", map[string]any{
		"Request":    request,
		"Quotations": quotations,
	}, http.StatusOK)
}

func (h *Handler) RequestForm(w http.ResponseWriter, r *http.Request) {
	projectList, itemList := h.requestLookups(r)
	h.render(w, r, "pages/procurement/request_form.html", map[string]any{
		"Errors":   formErrors{},
		"Projects": projectList,
		"Items":    itemList,
	}, http.StatusOK)
}

func (h *Handler) CreateRequest(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}

	projectID, _ := strconv.ParseInt(r.PostFormValue("project_id"), 10, 64)
	input := RequestInput{
		ProjectID: projectID,
		Notes:     r.PostFormValue("notes"),
		Items:     parseRequestLines(r),
		ActorID:   actorID(r),
	}

	request, err := h.service.CreateRequest(r.Context(), input)
	if err != nil {
		projectList, itemList := h.requestLookups(r)
		h.render(w, r, "pages/procurement/request_form.html", map[string]any{
			"Errors":   formErrors{"general": shared.UserSafeMessage(err)},
			"Projects": projectList,
			"Items":    itemList,
		}, http.StatusBadRequest)
		return
	}

	h.redirectWithFlash(w, r, "/procurement/requests/"+strconv.FormatInt(request.ID, 10), "success", "Purchase request created")
}

// Quotations

func (h *Handler) ListQuotations(w http.ResponseWriter, r *http.Request) {
	filters := listFiltersFromQuery(r)

	quotations, total, err := h.service.ListQuotations(r.Context(), filters)
	if err != nil {
		h.logger.Error("list quotations failed", "error", err)
		http.Error(w, "Failed to load quotations", http.StatusInternalServerError)
		return
	}

	h.render(w, r, "pages/procurement/quotations_list.html", map[string]any{
		"Quotations": quotations,
		"Filters":    filters,
		"Total":      total,
	}, http.StatusOK)
}

func (h *Handler) ShowQuotation(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid quotation ID", http.StatusBadRequest)
		return
	}

	quotation, err := h.service.GetQuotation(r.Context(), id)
	if err != nil {
		http.Error(w, "Quotation not found", http.StatusNotFound)
		return
	}

	h.render(w, r, "pages/procurement/quotation_detail.html", map[string]any{
		"Quotation": quotation,
	}, http.StatusOK)
}

func (h *Handler) CompareQuotations(w http.ResponseWriter, r *http.Request) {
	requestID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid purchase request ID", http.StatusBadRequest)
		return
	}

	request, err := h.service.GetRequest(r.Context(), requestID)
	if err != nil {
		http.Error(w, "Purchase request not found", http.StatusNotFound)
		return
	}

	quotations, err := h.service.CompareQuotations(r.Context(), requestID)
	if err != nil {
		h.logger.Error("compare quotations failed", "error", err, "request_id", requestID)
		http.Error(w, "Failed to load quotations", http.StatusInternalServerError)
		return
	}

	h.render(w, r, "pages/procurement/quotations_compare.html", map[string]any{
		"Request":    request,
		"Quotations": quotations,
	}, http.StatusOK)
}

func (h *Handler) QuotationForm(w http.ResponseWriter, r *http.Request) {
	data := h.quotationFormData(r, formErrors{})
	if requestID, _ := strconv.ParseInt(r.URL.Query().Get("request"), 10, 64); requestID > 0 {
		if request, err := h.service.GetRequest(r.Context(), requestID); err == nil {
			data["Request"] = request
		}
	}
	h.render(w, r, "pages/procurement/quotation_form.html", data, http.StatusOK)
}

func (h *Handler) CreateQuotation(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}

	requestID, _ := strconv.ParseInt(r.PostFormValue("purchase_request_id"), 10, 64)
	supplierID, _ := strconv.ParseInt(r.PostFormValue("supplier_id"), 10, 64)
	quotationDate, _ := time.Parse("2006-01-02", r.PostFormValue("quotation_date"))
	validUntil, _ := time.Parse("2006-01-02", r.PostFormValue("valid_until"))

	input := QuotationInput{
		PurchaseRequestID: requestID,
		SupplierID:        supplierID,
		QuotationDate:     quotationDate,
		ValidUntil:        validUntil,
		Notes:             r.PostFormValue("notes"),
		Items:             parseQuotationLines(r),
		ActorID:           actorID(r),
	}

	quotation, err := h.service.CreateQuotation(r.Context(), input)
	if err != nil {
		data := h.quotationFormData(r, formErrors{"general": shared.UserSafeMessage(err)})
		h.render(w, r, "pages/procurement/quotation_form.html", data, http.StatusBadRequest)
		return
	}

	h.redirectWithFlash(w, r, "/procurement/quotations/"+strconv.FormatInt(quotation.ID, 10), "success", "Quotation created")
}

func (h *Handler) AcceptQuotation(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)

	if err := h.service.AcceptQuotation(r.Context(), id, actorID(r)); err != nil {
		h.redirectWithFlash(w, r, "/procurement/quotations/"+strconv.FormatInt(id, 10), "error", shared.UserSafeMessage(err))
		return
	}
	h.redirectWithFlash(w, r, "/procurement/quotations/"+strconv.FormatInt(id, 10), "success", "Quotation accepted, competing quotations rejected")
}

func (h *Handler) RejectQuotation(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)

	if err := h.service.RejectQuotation(r.Context(), id, actorID(r)); err != nil {
		h.redirectWithFlash(w, r, "/procurement/quotations/"+strconv.FormatInt(id, 10), "error", shared.UserSafeMessage(err))
		return
	}
	h.redirectWithFlash(w, r, "/procurement/quotations/"+strconv.FormatInt(id, 10), "success", "Quotation rejected")
}

func (h *Handler) DeleteQuotation(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)

	if err := h.service.DeleteQuotation(r.Context(), id, actorID(r)); err != nil {
		h.redirectWithFlash(w, r, "/procurement/quotations/"+strconv.FormatInt(id, 10), "error", shared.UserSafeMessage(err))
		return
	}
	h.redirectWithFlash(w, r, "/procurement/quotations", "success", "Quotation deleted")
}

// Purchase orders

func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	filters := listFiltersFromQuery(r)
	openOnly := r.URL.Query().Get("open") == "1"

	var (
		orders []PurchaseOrder
		total  int
		err    error
	)
	if openOnly {
		orders, total, err = h.service.ListOpenPurchaseOrders(r.Context(), filters)
	} else {
		orders, total, err = h.service.ListPurchaseOrders(r.Context(), filters)
	}
	if err != nil {
		h.logger.Error("list purchase orders failed", "error", err)
		http.Error(w, "Failed to load purchase orders", http.StatusInternalServerError)
		return
	}

	h.render(w, r, "pages/procurement/orders_list.html", map[string]any{
		"Orders":   orders,
		"Filters":  filters,
		"Total":    total,
		"OpenOnly": openOnly,
	}, http.StatusOK)
}

func (h *Handler) ShowOrder(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid purchase order ID", http.StatusBadRequest)
		return
	}

	order, err := h.service.GetPurchaseOrderDetail(r.Context(), id)
	if err != nil {
		http.Error(w, "Purchase order not found", http.StatusNotFound)
		return
	}

	h.render(w, r, "pages/procurement/order_detail.html", map[string]any{
		"Order":       order,
		"HasPrinting": h.printer != nil,
	}, http.StatusOK)
}

func (h *Handler) PrintOrder(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid purchase order ID", http.StatusBadRequest)
		return
	}
	if h.printer == nil {
		http.Error(w, "PDF rendering is not configured", http.StatusServiceUnavailable)
		return
	}

	order, err := h.service.GetPurchaseOrderDetail(r.Context(), id)
	if err != nil {
		http.Error(w, "Purchase order not found", http.StatusNotFound)
		return
	}

	pdf, err := h.printer.RenderPurchaseOrder(r.Context(), order)
	if err != nil {
		h.logger.Error("render purchase order pdf failed", "error", err, "order_id", id)
		http.Error(w, "Failed to render PDF", http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `inline; filename="`+order.Number+`.pdf"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(pdf)
}

func (h *Handler) OrderForm(w http.ResponseWriter, r *http.Request) {
	quotationID, _ := strconv.ParseInt(r.URL.Query().Get("quotation"), 10, 64)
	quotation, err := h.service.GetQuotation(r.Context(), quotationID)
	if err != nil {
		http.Error(w, "Quotation not found", http.StatusNotFound)
		return
	}

	h.render(w, r, "pages/procurement/order_form.html", map[string]any{
		"Errors":    formErrors{},
		"Quotation": quotation,
	}, http.StatusOK)
}

func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}

	quotationID, _ := strconv.ParseInt(r.PostFormValue("quotation_id"), 10, 64)
	input := POInput{
		Terms:           r.PostFormValue("terms"),
		DeliveryAddress: r.PostFormValue("delivery_address"),
		ActorID:         actorID(r),
	}
	if raw := r.PostFormValue("expected_delivery_date"); raw != "" {
		if t, err := time.Parse("2006-01-02", raw); err == nil {
			input.ExpectedDeliveryDate = &t
		}
	}

	order, err := h.service.CreatePOFromQuotation(r.Context(), quotationID, input)
	if err != nil {
		quotation, qerr := h.service.GetQuotation(r.Context(), quotationID)
		if qerr != nil {
			h.redirectWithFlash(w, r, "/procurement/quotations", "error", shared.UserSafeMessage(err))
			return
		}
		h.render(w, r, "pages/procurement/order_form.html", map[string]any{
			"Errors":    formErrors{"general": shared.UserSafeMessage(err)},
			"Quotation": quotation,
		}, http.StatusBadRequest)
		return
	}

	h.redirectWithFlash(w, r, "/procurement/orders/"+strconv.FormatInt(order.ID, 10), "success", "Purchase order created")
}

func (h *Handler) ApproveOrder(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)

	if err := h.service.ApprovePurchaseOrder(r.Context(), id, actorID(r)); err != nil {
		h.redirectWithFlash(w, r, "/procurement/orders/"+strconv.FormatInt(id, 10), "error", shared.UserSafeMessage(err))
		return
	}
	h.redirectWithFlash(w, r, "/procurement/orders/"+strconv.FormatInt(id, 10), "success", "Purchase order approved")
}

func (h *Handler) DeleteOrder(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)

	if err := h.service.DeletePurchaseOrder(r.Context(), id, actorID(r)); err != nil {
		h.redirectWithFlash(w, r, "/procurement/orders/"+strconv.FormatInt(id, 10), "error", shared.UserSafeMessage(err))
		return
	}
	h.redirectWithFlash(w, r, "/procurement/orders", "success", "Purchase order deleted")
}

// Goods receipts

func (h *Handler) ListReceipts(w http.ResponseWriter, r *http.Request) {
	filters := listFiltersFromQuery(r)

	receipts, total, err := h.service.ListReceipts(r.Context(), filters)
	if err != nil {
		h.logger.Error("list goods receipts failed", "error", err)
		http.Error(w, "Failed to load goods receipts", http.StatusInternalServerError)
		return
	}

	h.render(w, r, "pages/procurement/receipts_list.html", map[string]any{
		"Receipts": receipts,
		"Filters":  filters,
		"Total":    total,
	}, http.StatusOK)
}

func (h *Handler) ShowReceipt(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid goods receipt ID", http.StatusBadRequest)
		return
	}

	receipt, err := h.service.GetReceipt(r.Context(), id)
	if err != nil {
		http.Error(w, "Goods receipt not found", http.StatusNotFound)
		return
	}

	h.render(w, r, "pages/procurement/receipt_detail.html", map[string]any{
		"Receipt": receipt,
	}, http.StatusOK)
}

func (h *Handler) ReceiptForm(w http.ResponseWriter, r *http.Request) {
	orderID, _ := strconv.ParseInt(r.URL.Query().Get("order"), 10, 64)
	order, err := h.service.GetPurchaseOrderDetail(r.Context(), orderID)
	if err != nil {
		http.Error(w, "Purchase order not found", http.StatusNotFound)
		return
	}

	h.render(w, r, "pages/procurement/receipt_form.html", map[string]any{
		"Errors": formErrors{},
		"Order":  order,
	}, http.StatusOK)
}

func (h *Handler) CreateReceipt(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}

	orderID, _ := strconv.ParseInt(r.PostFormValue("purchase_order_id"), 10, 64)
	input := ReceiptInput{
		Notes:   r.PostFormValue("notes"),
		Items:   parseReceiptLines(r),
		ActorID: actorID(r),
	}
	if raw := r.PostFormValue("received_date"); raw != "" {
		if t, err := time.Parse("2006-01-02", raw); err == nil {
			input.ReceivedDate = t
		}
	}

	receipt, err := h.service.CreateGoodsReceipt(r.Context(), orderID, input)
	if err != nil {
		order, oerr := h.service.GetPurchaseOrderDetail(r.Context(), orderID)
		if oerr != nil {
			h.redirectWithFlash(w, r, "/procurement/orders", "error", shared.UserSafeMessage(err))
			return
		}
		h.render(w, r, "pages/procurement/receipt_form.html", map[string]any{
			"Errors": formErrors{"general": shared.UserSafeMessage(err)},
			"Order":  order,
		}, http.StatusBadRequest)
		return
	}

	h.redirectWithFlash(w, r, "/procurement/receipts/"+strconv.FormatInt(receipt.ID, 10), "success", "Goods receipt created")
}

func (h *Handler) ApproveReceipt(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)

	if err := h.service.ApproveGoodsReceipt(r.Context(), id, actorID(r)); err != nil {
		h.redirectWithFlash(w, r, "/procurement/receipts/"+strconv.FormatInt(id, 10), "error", shared.UserSafeMessage(err))
		return
	}
	h.redirectWithFlash(w, r, "/procurement/receipts/"+strconv.FormatInt(id, 10), "success", "Goods receipt approved, stock updated")
}

// Helpers

func listFiltersFromQuery(r *http.Request) ListFilters {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	return ListFilters{
		Page:   page,
		Limit:  25,
		Search: r.URL.Query().Get("search"),
		Status: r.URL.Query().Get("status"),
	}
}

func parseRequestLines(r *http.Request) []RequestItemInput {
	itemIDs := r.PostForm["inventory_item_id"]
	quantities := r.PostForm["quantity"]

	lines := make([]RequestItemInput, 0, len(itemIDs))
	for i := range itemIDs {
		if itemIDs[i] == "" {
			continue
		}
		id, _ := strconv.ParseInt(itemIDs[i], 10, 64)
		var qty float64
		if i < len(quantities) {
			qty, _ = strconv.ParseFloat(quantities[i], 64)
		}
		lines = append(lines, RequestItemInput{InventoryItemID: id, Quantity: qty})
	}
	return lines
}

func parseQuotationLines(r *http.Request) []QuotationItemInput {
	itemIDs := r.PostForm["inventory_item_id"]
	quantities := r.PostForm["quantity"]
	unitPrices := r.PostForm["unit_price"]
	specs := r.PostForm["specifications"]

	lines := make([]QuotationItemInput, 0, len(itemIDs))
	for i := range itemIDs {
		if itemIDs[i] == "" {
			continue
		}
		id, _ := strconv.ParseInt(itemIDs[i], 10, 64)
		var qty, price float64
		if i < len(quantities) {
			qty, _ = strconv.ParseFloat(quantities[i], 64)
		}
		if i < len(unitPrices) {
			price, _ = strconv.ParseFloat(unitPrices[i], 64)
		}
		var spec string
		if i < len(specs) {
			spec = specs[i]
		}
		lines = append(lines, QuotationItemInput{InventoryItemID: id, Quantity: qty, UnitPrice: price, Specifications: spec})
	}
	return lines
}

func parseReceiptLines(r *http.Request) []ReceiptItemInput {
	itemIDs := r.PostForm["inventory_item_id"]
	quantities := r.PostForm["quantity"]

	lines := make([]ReceiptItemInput, 0, len(itemIDs))
	for i := range itemIDs {
		if itemIDs[i] == "" {
			continue
		}
		id, _ := strconv.ParseInt(itemIDs[i], 10, 64)
		var qty float64
		if i < len(quantities) {
			qty, _ = strconv.ParseFloat(quantities[i], 64)
		}
		lines = append(lines, ReceiptItemInput{InventoryItemID: id, Quantity: qty})
	}
	return lines
}

func (h *Handler) requestLookups(r *http.Request) ([]projects.Project, []items.InventoryItem) {
	projectList, _, _ := h.projectService.List(r.Context(), mdshared.ListFilters{Page: 1, Limit: 1000})
	itemList, _, _ := h.itemService.List(r.Context(), mdshared.ListFilters{Page: 1, Limit: 1000})
	return projectList, itemList
}

func (h *Handler) quotationFormData(r *http.Request, errs formErrors) map[string]any {
	supplierList, _, _ := h.supplierService.List(r.Context(), mdshared.ListFilters{Page: 1, Limit: 1000, Status: string(suppliers.StatusActive)})
	itemList, _, _ := h.itemService.List(r.Context(), mdshared.ListFilters{Page: 1, Limit: 1000})
	return map[string]any{
		"Errors":    errs,
		"Suppliers": supplierList,
		"Items":     itemList,
	}
}

func actorID(r *http.Request) int64 {
	sess := shared.SessionFromContext(r.Context())
	if sess == nil {
		return 0
	}
	id, _ := strconv.ParseInt(sess.User(), 10, 64)
	return id
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, template string, data map[string]any, status int) {
	sess := shared.SessionFromContext(r.Context())
	csrfToken, _ := h.csrf.EnsureToken(r.Context(), sess)
	var flash *shared.FlashMessage
	if sess != nil {
		flash = sess.PopFlash()
	}
	viewData := view.TemplateData{
		Title:       "Procurement",
		CSRFToken:   csrfToken,
		Flash:       flash,
		CurrentPath: r.URL.Path,
		Data:        data,
	}
	w.WriteHeader(status)
	if err := h.templates.Render(w, template, viewData); err != nil {
		h.logger.Error("render template", "error", err, "template", template)
	}
}

func (h *Handler) redirectWithFlash(w http.ResponseWriter, r *http.Request, location, kind, message string) {
	if sess := shared.SessionFromContext(r.Context()); sess != nil {
		sess.AddFlash(shared.FlashMessage{Kind: kind, Message: message})
	}
	http.Redirect(w, r, location, http.StatusSeeOther)
}
