package inventory

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/meridian-erp/meridian-erp/internal/rbac"
	"github.com/meridian-erp/meridian-erp/internal/shared"
	"github.com/meridian-erp/meridian-erp/internal/view"
)

type Handler struct {
	logger    *slog.Logger
	service   *Service
	templates *view.Engine
	csrf      *shared.CSRFManager
	rbac      rbac.Middleware
}

func NewHandler(logger *slog.Logger, service *Service, templates *view.Engine, csrf *shared.CSRFManager, rbac rbac.Middleware) *Handler {
	return &Handler{logger: logger, service: service, templates: templates, csrf: csrf, rbac: rbac}
}

func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.RequireAny("inventory.view"))
		r.Get("/movements", h.Movements)
		r.Get("/stock", h.StockLevels)
		r.Get("/low-stock", h.LowStock)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.RequireAll("inventory.edit"))
		r.Get("/movements/new", h.MovementForm)
		r.Post("/movements", h.CreateMovement)
	})
}

func (h *Handler) Movements(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	itemID, _ := strconv.ParseInt(r.URL.Query().Get("item"), 10, 64)

	filters := MovementFilters{
		Page:   page,
		Limit:  25,
		ItemID: itemID,
		Type:   r.URL.Query().Get("type"),
	}

	movements, total, err := h.service.ListMovements(r.Context(), filters)
	if err != nil {
		h.logger.Error("list stock movements failed", "error", err)
		http.Error(w, "Failed to load stock movements", http.StatusInternalServerError)
		return
	}

	h.render(w, r, "pages/inventory/movements_list.html", map[string]any{
		"Movements": movements,
		"Filters":   filters,
		"Total":     total,
	}, http.StatusOK)
}

func (h *Handler) StockLevels(w http.ResponseWriter, r *http.Request) {
	levels, err := h.service.StockLevels(r.Context())
	if err != nil {
		h.logger.Error("load stock levels failed", "error", err)
		http.Error(w, "Failed to load stock levels", http.StatusInternalServerError)
		return
	}

	h.render(w, r, "pages/inventory/stock_list.html", map[string]any{
		"Levels": levels,
	}, http.StatusOK)
}

func (h *Handler) LowStock(w http.ResponseWriter, r *http.Request) {
	levels, err := h.service.LowStock(r.Context())
	if err != nil {
		h.logger.Error("load low stock failed", "error", err)
		http.Error(w, "Failed to load low stock items", http.StatusInternalServerError)
		return
	}

	h.render(w, r, "pages/inventory/low_stock.html", map[string]any{
		"Levels": levels,
	}, http.StatusOK)
}

func (h *Handler) MovementForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "pages/inventory/movement_form.html", map[string]any{
		"Errors": map[string]string{},
	}, http.StatusOK)
}

func (h *Handler) CreateMovement(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}

	itemID, _ := strconv.ParseInt(r.PostFormValue("inventory_item_id"), 10, 64)
	qty, _ := strconv.ParseFloat(r.PostFormValue("quantity"), 64)

	input := MovementInput{
		InventoryItemID: itemID,
		Type:            MovementType(r.PostFormValue("movement_type")),
		Quantity:        qty,
		Reference:       r.PostFormValue("reference"),
		ActorID:         actorID(r),
	}
	if raw := r.PostFormValue("occurred_at"); raw != "" {
		if t, err := time.Parse("2006-01-02", raw); err == nil {
			input.OccurredAt = t
		}
	}

	if _, err := h.service.RecordMovement(r.Context(), input); err != nil {
		h.render(w, r, "pages/inventory/movement_form.html", map[string]any{
			"Errors": map[string]string{"general": shared.UserSafeMessage(err)},
		}, http.StatusBadRequest)
		return
	}

	h.redirectWithFlash(w, r, "/inventory/movements", "success", "Stock movement recorded")
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
		Title:       "Inventory",
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
