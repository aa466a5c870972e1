package ui

import (
	"context"
	"embed"
	"errors"
	"html/template"
	"net/http"
	"strconv"
	"sync/atomic"

	"github.com/go-chi/chi/v5"
	"github.com/rogerio-castellano/inventory-flow/internal/client"
	"github.com/rogerio-castellano/inventory-flow/internal/models"
	"go.uber.org/zap"
)

const (
	msgBackendDown = "Failed to connect to backend."
	msgSaveFailed  = "Error saving product"
	msgDeleteFail  = "Error deleting product"
)

//go:embed templates/*.html
var templateFS embed.FS

// ProductAPI is the subset of the API client the dashboard drives.
type ProductAPI interface {
	List(ctx context.Context) ([]models.Product, error)
	Create(ctx context.Context, fields models.ProductFields) (models.Product, error)
	Update(ctx context.Context, id string, fields models.ProductFields) (models.Product, error)
	Delete(ctx context.Context, id string) (models.Product, error)
}

// Dashboard serves the inventory page. The current Snapshot sits behind an
// atomic pointer and is swapped whole on every change. Every page load fetches
// the list again, so the snapshot only carries state between a mutation and the
// redirect that follows it.
type Dashboard struct {
	api    ProductAPI
	logger *zap.Logger
	tmpl   *template.Template
	router chi.Router

	state atomic.Pointer[Snapshot]
}

type pageData struct {
	Snapshot
	Form       *ProductForm
	Categories []string
}

func NewDashboard(api ProductAPI, logger *zap.Logger) (*Dashboard, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	tmpl, err := template.New("index.html").Funcs(template.FuncMap{
		"money": func(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) },
		"low":   func(p models.Product) bool { return p.IsLowStock() },
	}).ParseFS(templateFS, "templates/index.html")
	if err != nil {
		return nil, err
	}

	d := &Dashboard{api: api, logger: logger, tmpl: tmpl}
	d.state.Store(&Snapshot{})

	r := chi.NewRouter()
	r.Get("/", d.index)
	r.Post("/refresh", d.refreshHandler)
	r.Get("/new", d.newForm)
	r.Post("/products", d.create)
	r.Get("/products/{id}/edit", d.editForm)
	r.Post("/products/{id}", d.update)
	r.Post("/products/{id}/delete", d.delete)
	d.router = r

	return d, nil
}

func (d *Dashboard) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	d.router.ServeHTTP(w, r)
}

func (d *Dashboard) Snapshot() Snapshot {
	return *d.state.Load()
}

// mutate applies fn to the current snapshot, retrying if another request swapped it first.
func (d *Dashboard) mutate(fn func(Snapshot) Snapshot) Snapshot {
	for {
		cur := d.state.Load()
		next := fn(*cur)
		if d.state.CompareAndSwap(cur, &next) {
			return next
		}
	}
}

func (d *Dashboard) refresh(ctx context.Context) {
	d.mutate(func(s Snapshot) Snapshot { return s.WithLoading(true) })

	products, err := d.api.List(ctx)
	if err != nil {
		d.logger.Error("Failed to fetch products", zap.Error(err))
		d.mutate(func(s Snapshot) Snapshot { return s.WithLoading(false).WithError(msgBackendDown) })
		return
	}
	d.mutate(func(s Snapshot) Snapshot { return s.WithProducts(products).WithLoading(false).WithError("") })
}

func (d *Dashboard) render(w http.ResponseWriter, status int, s Snapshot, form *ProductForm) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := d.tmpl.Execute(w, pageData{Snapshot: s, Form: form, Categories: Categories}); err != nil {
		d.logger.Error("Failed to render dashboard", zap.Error(err))
	}
}

func (d *Dashboard) index(w http.ResponseWriter, r *http.Request) {
	d.refresh(r.Context())
	d.render(w, http.StatusOK, d.Snapshot(), nil)
}

// refreshHandler backs the Refresh button; the page load it redirects to does the fetch.
func (d *Dashboard) refreshHandler(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (d *Dashboard) newForm(w http.ResponseWriter, r *http.Request) {
	form := NewProductForm()
	d.render(w, http.StatusOK, d.Snapshot(), &form)
}

func (d *Dashboard) editForm(w http.ResponseWriter, r *http.Request) {
	p, ok := d.Snapshot().Find(chi.URLParam(r, "id"))
	if !ok {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	form := FormFromProduct(p)
	d.render(w, http.StatusOK, d.Snapshot(), &form)
}

func (d *Dashboard) create(w http.ResponseWriter, r *http.Request) {
	d.save(w, r, "")
}

func (d *Dashboard) update(w http.ResponseWriter, r *http.Request) {
	d.save(w, r, chi.URLParam(r, "id"))
}

// save submits the form. On failure the modal is shown again with the
// server's message and the product list is left as it was. Failures render
// directly instead of redirecting, since the next page load would refetch and
// clear the message.
func (d *Dashboard) save(w http.ResponseWriter, r *http.Request, id string) {
	form, err := FormFromRequest(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	form.ID = id

	fields, err := form.Fields()
	if err != nil {
		d.render(w, http.StatusBadRequest, d.Snapshot().WithError(err.Error()), &form)
		return
	}

	if id == "" {
		created, err := d.api.Create(r.Context(), fields)
		if err != nil {
			d.saveFailed(w, form, err)
			return
		}
		d.mutate(func(s Snapshot) Snapshot { return s.Prepend(created).WithError("") })
	} else {
		updated, err := d.api.Update(r.Context(), id, fields)
		if err != nil {
			d.saveFailed(w, form, err)
			return
		}
		d.mutate(func(s Snapshot) Snapshot { return s.Replace(updated).WithError("") })
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (d *Dashboard) saveFailed(w http.ResponseWriter, form ProductForm, err error) {
	d.logger.Warn("Failed to save product", zap.String("id", form.ID), zap.Error(err))
	s := d.mutate(func(s Snapshot) Snapshot { return s.WithError(errorMessage(err, msgSaveFailed)) })
	d.render(w, http.StatusBadRequest, s, &form)
}

func (d *Dashboard) delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := d.api.Delete(r.Context(), id); err != nil {
		d.logger.Warn("Failed to delete product", zap.String("id", id), zap.Error(err))
		s := d.mutate(func(s Snapshot) Snapshot { return s.WithError(errorMessage(err, msgDeleteFail)) })
		d.render(w, http.StatusBadRequest, s, nil)
		return
	}
	d.mutate(func(s Snapshot) Snapshot { return s.Remove(id).WithError("") })
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func errorMessage(err error, fallback string) string {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}
