package handlers_test_suite

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"

	api "github.com/rogerio-castellano/inventory-flow/internal/http"
	handler "github.com/rogerio-castellano/inventory-flow/internal/http/handlers"
	"github.com/rogerio-castellano/inventory-flow/internal/models"
	"github.com/rogerio-castellano/inventory-flow/internal/repo"
)

var productRepo *repo.InMemoryProductRepository

func init() {
	setupTestRepos()
}

func setupTestRepos() {
	productRepo = repo.NewInMemoryProductRepository()
	handler.SetProductRepo(productRepo)
	handler.SetSummaryRepo(repo.NewProductSummaryRepository(productRepo))
}

func clearAllProducts() {
	productRepo.Clear()
}

func ptr[T any](v T) *T { return &v }

func validRequest(name string) handler.ProductRequest {
	return handler.ProductRequest{
		Name:        ptr(name),
		SKU:         ptr("SKU-" + name),
		Category:    ptr("Laptop"),
		Quantity:    ptr(10),
		Price:       ptr(1500.0),
		Description: ptr(name + " description"),
		MinStock:    ptr(3),
	}
}

func createProduct(r http.Handler, p handler.ProductRequest) *httptest.ResponseRecorder {
	body, _ := json.Marshal(p)
	return doRequest(r, http.MethodPost, "/products", string(body))
}

func mustCreateProduct(r http.Handler, p handler.ProductRequest) models.Product {
	w := createProduct(r, p)
	if w.Code != http.StatusCreated {
		panic(fmt.Sprintf("create failed with %d: %s", w.Code, w.Body.String()))
	}
	var created models.Product
	if err := json.NewDecoder(w.Body).Decode(&created); err != nil {
		panic(err)
	}
	return created
}

func doRequest(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, bytes.NewReader([]byte(body)))
		req.Header.Set("Content-Type", "application/json")
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func listProducts(r http.Handler) []models.Product {
	w := doRequest(r, http.MethodGet, "/products", "")
	var products []models.Product
	if err := json.NewDecoder(w.Body).Decode(&products); err != nil {
		panic(err)
	}
	return products
}

func decodeError(w *httptest.ResponseRecorder) handler.ErrorResponse {
	var resp handler.ErrorResponse
	_ = json.NewDecoder(strings.NewReader(w.Body.String())).Decode(&resp)
	return resp
}

func newRouter() http.Handler {
	return api.NewRouter()
}
