package suppliers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/meridian-erp/meridian-erp/internal/masterdata/shared"
	"github.com/meridian-erp/meridian-erp/internal/rbac"
	internalShared "github.com/meridian-erp/meridian-erp/internal/shared"
	"github.com/meridian-erp/meridian-erp/internal/view"
)

type Handler struct {
	logger    *slog.Logger
	service   *Service
	templates *view.Engine
	csrf      *internalShared.CSRFManager
	sessions  *internalShared.SessionManager
	rbac      rbac.Middleware
}

func NewHandler(logger *slog.Logger, service *Service, templates *view.Engine, csrf *internalShared.CSRFManager, sessions *internalShared.SessionManager, rbac rbac.Middleware) *Handler {
	return &Handler{logger: logger, service: service, templates: templates, csrf: csrf, sessions: sessions, rbac: rbac}
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = shared.DefaultPage
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit < 1 {
		limit = shared.DefaultLimit
	}

	filters := shared.ListFilters{
		Page:    page,
		Limit:   limit,
		Search:  r.URL.Query().Get("search"),
		SortBy:  r.URL.Query().Get("sort"),
		SortDir: r.URL.Query().Get("dir"),
		Status:  r.URL.Query().Get("status"),
	}

	suppliers, total, err := h.service.List(r.Context(), filters)
	if err != nil {
		h.logger.Error("list suppliers failed", "error", err)
		http.Error(w, "Failed to load suppliers", http.StatusInternalServerError)
		return
	}

	h.render(w, r, "pages/masterdata/suppliers_list.html", map[string]any{
		"Suppliers": suppliers,
		"Filters":   filters,
		"Total":     total,
	}, http.StatusOK)
}

func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid supplier ID", http.StatusBadRequest)
		return
	}

	supplier, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.logger.Error("get supplier failed", "error", err, "id", id)
		http.Error(w, "Supplier not found", http.StatusNotFound)
		return
	}

	h.render(w, r, "pages/masterdata/supplier_detail.html", map[string]any{
		"Supplier": supplier,
	}, http.StatusOK)
}

func (h *Handler) Form(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "pages/masterdata/supplier_form.html", map[string]any{
		"Errors":   map[string]string{},
		"Supplier": nil,
	}, http.StatusOK)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}

	supplier := supplierFromForm(r)

	created, err := h.service.Create(r.Context(), supplier)
	if err != nil {
		h.render(w, r, "pages/masterdata/supplier_form.html", map[string]any{
			"Errors":   map[string]string{"general": internalShared.UserSafeMessage(err)},
			"Supplier": supplier,
		}, http.StatusBadRequest)
		return
	}

	h.redirectWithFlash(w, r, "/masterdata/suppliers/"+strconv.FormatInt(created.ID, 10), "success", "Supplier created successfully")
}

func (h *Handler) EditForm(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid supplier ID", http.StatusBadRequest)
		return
	}

	supplier, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.logger.Error("get supplier failed", "error", err, "id", id)
		http.Error(w, "Supplier not found", http.StatusNotFound)
		return
	}

	h.render(w, r, "pages/masterdata/supplier_form.html", map[string]any{
		"Errors":   map[string]string{},
		"Supplier": supplier,
	}, http.StatusOK)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid supplier ID", http.StatusBadRequest)
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}

	supplier := supplierFromForm(r)

	if err := h.service.Update(r.Context(), id, supplier); err != nil {
		supplier.ID = id
		h.render(w, r, "pages/masterdata/supplier_form.html", map[string]any{
			"Errors":   map[string]string{"general": internalShared.UserSafeMessage(err)},
			"Supplier": supplier,
		}, http.StatusBadRequest)
		return
	}

	h.redirectWithFlash(w, r, "/masterdata/suppliers/"+strconv.FormatInt(id, 10), "success", "Supplier updated successfully")
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid supplier ID", http.StatusBadRequest)
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		h.redirectWithFlash(w, r, "/masterdata/suppliers", "error", internalShared.UserSafeMessage(err))
		return
	}

	h.redirectWithFlash(w, r, "/masterdata/suppliers", "success", "Supplier deleted successfully")
}

// Prices answers quotation-form price lookups as JSON. Item IDs arrive as a
// comma-separated "items" query parameter.
func (h *Handler) Prices(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid supplier ID", http.StatusBadRequest)
		return
	}

	var itemIDs []int64
	for _, raw := range strings.Split(r.URL.Query().Get("items"), ",") {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		itemID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			http.Error(w, "Invalid item ID", http.StatusBadRequest)
			return
		}
		itemIDs = append(itemIDs, itemID)
	}

	quotes, err := h.service.PricesForItems(r.Context(), id, itemIDs)
	if err != nil {
		h.logger.Error("supplier price lookup failed", "error", err, "supplier_id", id)
		http.Error(w, "Failed to load prices", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string]any{"prices": quotes}); err != nil {
		h.logger.Error("encode price response", "error", err)
	}
}

// SetPrice creates or replaces one price-list row for the supplier.
func (h *Handler) SetPrice(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid supplier ID", http.StatusBadRequest)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}

	itemID, err := strconv.ParseInt(r.PostFormValue("inventory_item_id"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid item ID", http.StatusBadRequest)
		return
	}
	unitPrice, err := strconv.ParseFloat(r.PostFormValue("unit_price"), 64)
	if err != nil {
		http.Error(w, "Invalid unit price", http.StatusBadRequest)
		return
	}

	price := ItemPrice{SupplierID: id, InventoryItemID: itemID, UnitPrice: unitPrice}
	if err := h.service.SetPrice(r.Context(), price); err != nil {
		h.redirectWithFlash(w, r, "/masterdata/suppliers/"+strconv.FormatInt(id, 10), "error", internalShared.UserSafeMessage(err))
		return
	}

	h.redirectWithFlash(w, r, "/masterdata/suppliers/"+strconv.FormatInt(id, 10), "success", "Price updated successfully")
}

func supplierFromForm(r *http.Request) Supplier {
	return Supplier{
		Code:    r.PostFormValue("code"),
		Name:    r.PostFormValue("name"),
		Address: r.PostFormValue("address"),
		Email:   r.PostFormValue("email"),
		Phone:   r.PostFormValue("phone"),
		Status:  SupplierStatus(r.PostFormValue("status")),
	}
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, template string, data map[string]any, status int) {
	sess := internalShared.SessionFromContext(r.Context())
	csrfToken, _ := h.csrf.EnsureToken(r.Context(), sess)
	var flash *internalShared.FlashMessage
	if sess != nil {
		flash = sess.PopFlash()
	}
	viewData := view.TemplateData{
		Title:       "Master Data",
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
	if sess := internalShared.SessionFromContext(r.Context()); sess != nil {
		sess.AddFlash(internalShared.FlashMessage{Kind: kind, Message: message})
	}
	http.Redirect(w, r, location, http.StatusSeeOther)
}
