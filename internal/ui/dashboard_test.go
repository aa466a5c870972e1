package ui

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/rogerio-castellano/inventory-flow/internal/client"
	api "github.com/rogerio-castellano/inventory-flow/internal/http"
	"github.com/rogerio-castellano/inventory-flow/internal/http/handlers"
	"github.com/rogerio-castellano/inventory-flow/internal/models"
	"github.com/rogerio-castellano/inventory-flow/internal/repo"
	"go.uber.org/zap/zaptest"
)

func newTestDashboard(t *testing.T) (*Dashboard, *repo.InMemoryProductRepository) {
	products := repo.NewInMemoryProductRepository()
	handlers.SetProductRepo(products)
	handlers.SetSummaryRepo(repo.NewProductSummaryRepository(products))

	srv := httptest.NewServer(api.NewRouter())
	t.Cleanup(srv.Close)

	d, err := NewDashboard(client.New(srv.URL, srv.Client()), zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("NewDashboard: %v", err)
	}
	return d, products
}

func serve(d http.Handler, method, path string, form url.Values) *httptest.ResponseRecorder {
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, path, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	w := httptest.NewRecorder()
	d.ServeHTTP(w, req)
	return w
}

func productForm(name, quantity string) url.Values {
	return url.Values{
		"name": {name}, "sku": {""}, "category": {"Mobile"}, "price": {"10"},
		"quantity": {quantity}, "minStock": {"5"}, "description": {name + " description"},
	}
}

func TestDashboard_FirstRenderLoadsProducts(t *testing.T) {
	d, products := newTestDashboard(t)
	ctx := context.Background()
	p := "Seeded"
	q, price, desc, cat := 1, 20.0, "d", "Parts"
	products.Create(ctx, models.ProductFields{Name: &p, Quantity: &q, Price: &price, Description: &desc, Category: &cat})

	w := serve(d, http.MethodGet, "/", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	body := w.Body.String()
	for _, want := range []string{"Seeded", "SKU-000", "₨ 20", "1 Items", `class="badge">Low`} {
		if !strings.Contains(body, want) {
			t.Errorf("expected page to contain %q", want)
		}
	}
}

func TestDashboard_CreateUpdateDelete(t *testing.T) {
	d, _ := newTestDashboard(t)
	serve(d, http.MethodGet, "/", nil)

	w := serve(d, http.MethodPost, "/products", productForm("Phone", "7"))
	if w.Code != http.StatusSeeOther {
		t.Fatalf("expected redirect after create, got %d: %s", w.Code, w.Body.String())
	}
	serve(d, http.MethodPost, "/products", productForm("Tablet", "9"))

	s := d.Snapshot()
	if s.Count() != 2 || s.Products()[0].Name != "Tablet" {
		t.Fatalf("expected Tablet prepended, got %+v", s.Products())
	}
	phone := s.Products()[1]

	w = serve(d, http.MethodGet, "/products/"+phone.ID+"/edit", nil)
	if !strings.Contains(w.Body.String(), "Update Product") || !strings.Contains(w.Body.String(), `value="Phone"`) {
		t.Errorf("expected prefilled edit form")
	}

	form := productForm("Phone", "2")
	w = serve(d, http.MethodPost, "/products/"+phone.ID, form)
	if w.Code != http.StatusSeeOther {
		t.Fatalf("expected redirect after update, got %d", w.Code)
	}
	if got, _ := d.Snapshot().Find(phone.ID); got.Quantity != 2 {
		t.Errorf("expected quantity 2 after update, got %d", got.Quantity)
	}
	if d.Snapshot().Products()[1].ID != phone.ID {
		t.Errorf("expected update to keep list position")
	}

	w = serve(d, http.MethodPost, "/products/"+phone.ID+"/delete", nil)
	if w.Code != http.StatusSeeOther {
		t.Fatalf("expected redirect after delete, got %d", w.Code)
	}
	if _, ok := d.Snapshot().Find(phone.ID); ok || d.Snapshot().Count() != 1 {
		t.Errorf("expected phone removed, got %+v", d.Snapshot().Products())
	}
}

func TestDashboard_ServerErrorKeepsProducts(t *testing.T) {
	d, _ := newTestDashboard(t)
	serve(d, http.MethodPost, "/products", productForm("Phone", "7"))

	bad := productForm("", "1")
	w := serve(d, http.MethodPost, "/products", bad)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected form to be re-rendered with 400, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Please fill in all fields") {
		t.Errorf("expected server message in page")
	}
	if !strings.Contains(w.Body.String(), "Add New Stock") {
		t.Errorf("expected modal to stay open")
	}
	if d.Snapshot().Count() != 1 {
		t.Errorf("expected products kept, got %d", d.Snapshot().Count())
	}

	w = serve(d, http.MethodPost, "/products", productForm("Phone", "lots"))
	if !strings.Contains(w.Body.String(), "quantity must be a number") {
		t.Errorf("expected coercion error in page")
	}
}

func TestDashboard_NewFormDefaults(t *testing.T) {
	d, _ := newTestDashboard(t)
	body := serve(d, http.MethodGet, "/new", nil).Body.String()
	if !strings.Contains(body, "<option selected>Mobile</option>") {
		t.Errorf("expected Mobile preselected")
	}
	if !strings.Contains(body, `name="minStock" value="5"`) {
		t.Errorf("expected minStock default of 5")
	}
}

type failingAPI struct{ err error }

func (f failingAPI) List(context.Context) ([]models.Product, error) { return nil, f.err }
func (f failingAPI) Create(context.Context, models.ProductFields) (models.Product, error) {
	return models.Product{}, f.err
}
func (f failingAPI) Update(context.Context, string, models.ProductFields) (models.Product, error) {
	return models.Product{}, f.err
}
func (f failingAPI) Delete(context.Context, string) (models.Product, error) {
	return models.Product{}, f.err
}

func TestDashboard_BackendDown(t *testing.T) {
	d, err := NewDashboard(failingAPI{err: errors.New("connection refused")}, zaptest.NewLogger(t))
	if err != nil {
		t.Fatal(err)
	}
	d.mutate(func(s Snapshot) Snapshot { return s.WithProducts(sampleProducts()) })

	w := serve(d, http.MethodPost, "/refresh", nil)
	if w.Code != http.StatusSeeOther || w.Header().Get("Location") != "/" {
		t.Fatalf("expected redirect to /, got %d", w.Code)
	}

	w = serve(d, http.MethodGet, "/", nil)
	if !strings.Contains(w.Body.String(), "Failed to connect to backend.") {
		t.Errorf("expected backend error on page")
	}
	s := d.Snapshot()
	if s.Error() != "Failed to connect to backend." || s.Count() != 2 || s.Loading() {
		t.Errorf("unexpected snapshot after failed refresh: %q %d %v", s.Error(), s.Count(), s.Loading())
	}

	w = serve(d, http.MethodPost, "/products", productForm("Phone", "1"))
	if !strings.Contains(w.Body.String(), "Error saving product") {
		t.Errorf("expected fallback save message")
	}

	w = serve(d, http.MethodPost, "/products/1/delete", nil)
	if w.Code != http.StatusBadRequest || !strings.Contains(w.Body.String(), "Error deleting product") {
		t.Errorf("expected delete failure rendered with 400, got %d", w.Code)
	}
	if d.Snapshot().Count() != 2 {
		t.Errorf("expected failed delete to keep products")
	}
}

func TestDashboard_EveryLoadRefetches(t *testing.T) {
	d, products := newTestDashboard(t)
	empty := serve(d, http.MethodGet, "/", nil).Body.String()
	if !strings.Contains(empty, "No products found.") || strings.Contains(empty, "Loading...") {
		t.Errorf("expected the empty-state row once the fetch is done")
	}
	if d.Snapshot().Count() != 0 {
		t.Fatalf("expected empty inventory, got %d", d.Snapshot().Count())
	}

	name, cat, desc := "AddedElsewhere", "Parts", "from another client"
	q, price := 3, 4.0
	if _, err := products.Create(context.Background(), models.ProductFields{Name: &name, Category: &cat, Description: &desc, Quantity: &q, Price: &price}); err != nil {
		t.Fatalf("create: %v", err)
	}

	body := serve(d, http.MethodGet, "/", nil).Body.String()
	if !strings.Contains(body, "AddedElsewhere") {
		t.Errorf("expected product created elsewhere to show on the next load")
	}
	if d.Snapshot().Count() != 1 {
		t.Errorf("expected count 1 after reload, got %d", d.Snapshot().Count())
	}
}

func TestDashboard_ReloadClearsBackendError(t *testing.T) {
	d, _ := newTestDashboard(t)
	d.mutate(func(s Snapshot) Snapshot { return s.WithError(msgBackendDown) })

	body := serve(d, http.MethodGet, "/", nil).Body.String()
	if strings.Contains(body, msgBackendDown) || d.Snapshot().Error() != "" {
		t.Errorf("expected successful fetch to clear the error")
	}
}
