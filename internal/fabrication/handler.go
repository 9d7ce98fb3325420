package fabrication

import (
	"log/slog"
	"net/http"
	"strconv"

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
		r.Use(h.rbac.RequireAny("inventory.view", "procurement.view"))
		r.Get("/", h.List)
		r.Get("/{id}", h.Show)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.RequireAll("inventory.edit"))
		r.Get("/new", h.Form)
		r.Post("/", h.Create)
		r.Post("/{id}/status", h.UpdateStatus)
		r.Post("/{id}/delete", h.Delete)
	})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	projectID, _ := strconv.ParseInt(r.URL.Query().Get("project"), 10, 64)

	filters := ListFilters{
		Page:      page,
		Limit:     15,
		Search:    r.URL.Query().Get("search"),
		Status:    r.URL.Query().Get("status"),
		ProjectID: projectID,
	}

	jobs, total, err := h.service.List(r.Context(), filters)
	if err != nil {
		h.logger.Error("list fabrication jobs failed", "error", err)
		http.Error(w, "Failed to load fabrication jobs", http.StatusInternalServerError)
		return
	}

	h.render(w, r, "pages/fabrication/jobs_list.html", map[string]any{
		"Jobs":    jobs,
		"Filters": filters,
		"Total":   total,
	}, http.StatusOK)
}

func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid job ID", http.StatusBadRequest)
		return
	}

	job, err := h.service.Get(r.Context(), id)
	if err != nil {
		http.Error(w, "Fabrication job not found", http.StatusNotFound)
		return
	}

	h.render(w, r, "pages/fabrication/job_detail.html", map[string]any{
		"Job": job,
	}, http.StatusOK)
}

func (h *Handler) Form(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "pages/fabrication/job_form.html", map[string]any{
		"Errors": map[string]string{},
		"Job":    nil,
	}, http.StatusOK)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}

	projectID, _ := strconv.ParseInt(r.PostFormValue("project_id"), 10, 64)
	job := Job{
		ProjectID:   projectID,
		Description: r.PostFormValue("description"),
	}

	created, err := h.service.Create(r.Context(), job)
	if err != nil {
		h.render(w, r, "pages/fabrication/job_form.html", map[string]any{
			"Errors": map[string]string{"general": shared.UserSafeMessage(err)},
			"Job":    job,
		}, http.StatusBadRequest)
		return
	}

	h.redirectWithFlash(w, r, "/fabrication/jobs/"+strconv.FormatInt(created.ID, 10), "success", "Fabrication job created")
}

func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid job ID", http.StatusBadRequest)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}

	target := JobStatus(r.PostFormValue("status"))
	if err := h.service.Transition(r.Context(), id, target); err != nil {
		h.redirectWithFlash(w, r, "/fabrication/jobs/"+strconv.FormatInt(id, 10), "error", shared.UserSafeMessage(err))
		return
	}

	h.redirectWithFlash(w, r, "/fabrication/jobs/"+strconv.FormatInt(id, 10), "success", "Job status updated")
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid job ID", http.StatusBadRequest)
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		h.redirectWithFlash(w, r, "/fabrication/jobs", "error", shared.UserSafeMessage(err))
		return
	}

	h.redirectWithFlash(w, r, "/fabrication/jobs", "success", "Fabrication job deleted")
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, template string, data map[string]any, status int) {
	sess := shared.SessionFromContext(r.Context())
	csrfToken, _ := h.csrf.EnsureToken(r.Context(), sess)
	var flash *shared.FlashMessage
	if sess != nil {
		flash = sess.PopFlash()
	}
	viewData := view.TemplateData{
		Title:       "Fabrication",
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
