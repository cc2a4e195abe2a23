package handler_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/user/storefront-catalog/internal/adapter/filestore"
	"github.com/user/storefront-catalog/internal/delivery/http/handler"
	"github.com/user/storefront-catalog/internal/delivery/http/router"
	"github.com/user/storefront-catalog/internal/entity"
	"github.com/user/storefront-catalog/internal/usecase"
)

const seed = `[
  {"id": "a", "slug": "iphone-13", "name": "iPhone 13", "description": "Open box", "price": 1250000, "images": ["/products/iphone-13.jpg"], "category": "technology", "featured": true},
  {"id": "b", "slug": "camiseta", "name": "Camiseta", "description": "Algodón", "price": 50000, "images": [], "category": "clothing", "featured": false},
  {"id": "c", "slug": "casco", "name": "Casco", "description": "", "price": 120000, "images": [], "category": "bikes", "featured": false, "draft": true}
]
`

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	dir := t.TempDir()
	data := filepath.Join(dir, "data")
	public := filepath.Join(dir, "public")
	if err := os.MkdirAll(data, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(filepath.Join(public, "products"), 0o755); err != nil {
		t.Fatal(err)
	}
	os.WriteFile(filepath.Join(data, "products.json"), []byte(seed), 0o644)
	os.WriteFile(filepath.Join(public, "products", "iphone-13.jpg"), []byte("jpeg"), 0o644)

	logger := zap.NewNop()
	repo := filestore.NewCatalogRepo(filepath.Join(data, "products.generated.json"), filepath.Join(data, "products.json"))
	h := handler.NewHandler(
		usecase.NewStorefront(repo, nil, 0, logger),
		usecase.NewCatalogAdmin(repo, nil, logger),
		usecase.NewSyncHistory(nil),
		logger,
	)
	srv := httptest.NewServer(router.New(h, router.Options{
		PublicDir:      public,
		AllowedOrigins: []string{"*"},
		Logger:         logger,
	}))
	t.Cleanup(srv.Close)
	return srv
}

func do(t *testing.T, srv *httptest.Server, method, path, body string) (*http.Response, []byte) {
	t.Helper()
	req, err := http.NewRequest(method, srv.URL+path, strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	return resp, data
}

func decodeProducts(t *testing.T, data []byte) []entity.Product {
	t.Helper()
	var products []entity.Product
	if err := json.Unmarshal(data, &products); err != nil {
		t.Fatalf("response is not a product list: %v\n%s", err, data)
	}
	return products
}

func message(t *testing.T, data []byte) string {
	t.Helper()
	var m map[string]string
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatalf("response is not a message: %v\n%s", err, data)
	}
	return m["message"]
}

func TestStorefrontEndpoints(t *testing.T) {
	srv := newTestServer(t)

	resp, body := do(t, srv, http.MethodGet, "/api/products", "")
	if resp.StatusCode != http.StatusOK || len(decodeProducts(t, body)) != 2 {
		t.Fatalf("GET /api/products = %d %s", resp.StatusCode, body)
	}

	_, body = do(t, srv, http.MethodGet, "/api/products?categoria=tecnologia&featured=true", "")
	if got := decodeProducts(t, body); len(got) != 1 || got[0].Slug != "iphone-13" {
		t.Errorf("filtered list = %s", body)
	}

	resp, body = do(t, srv, http.MethodGet, "/api/products/camiseta", "")
	if resp.StatusCode != http.StatusOK || !strings.Contains(string(body), `"slug":"camiseta"`) {
		t.Errorf("GET /api/products/camiseta = %d %s", resp.StatusCode, body)
	}

	resp, body = do(t, srv, http.MethodGet, "/api/products/casco", "")
	if resp.StatusCode != http.StatusNotFound || message(t, body) != "Product not found" {
		t.Errorf("draft product = %d %s", resp.StatusCode, body)
	}

	_, body = do(t, srv, http.MethodGet, "/api/products/search?q=algodon", "")
	if got := decodeProducts(t, body); len(got) != 1 || got[0].Slug != "camiseta" {
		t.Errorf("search = %s", body)
	}

	resp, body = do(t, srv, http.MethodGet, "/products/iphone-13.jpg", "")
	if resp.StatusCode != http.StatusOK || string(body) != "jpeg" {
		t.Errorf("static image = %d %q", resp.StatusCode, body)
	}

	resp, _ = do(t, srv, http.MethodGet, "/api/health", "")
	if resp.StatusCode != http.StatusOK {
		t.Errorf("health = %d", resp.StatusCode)
	}
}

func TestAdminCreate(t *testing.T) {
	srv := newTestServer(t)

	resp, body := do(t, srv, http.MethodPost, "/api/admin/products", `{"name": "Medias Nike", "price": 30000, "category": "clothing"}`)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create = %d %s", resp.StatusCode, body)
	}
	var created entity.Product
	json.Unmarshal(body, &created)
	if created.Slug != "medias-nike" || created.ID == "" {
		t.Errorf("created = %+v", created)
	}

	resp, body = do(t, srv, http.MethodPost, "/api/admin/products", `{"name": "Camiseta"}`)
	if resp.StatusCode != http.StatusConflict || message(t, body) != "Ya existe un producto con ese slug." {
		t.Errorf("conflict = %d %s", resp.StatusCode, body)
	}

	resp, body = do(t, srv, http.MethodPost, "/api/admin/products", `{"name": `)
	if resp.StatusCode != http.StatusBadRequest || message(t, body) != "No se pudo crear el producto." {
		t.Errorf("malformed = %d %s", resp.StatusCode, body)
	}

	_, body = do(t, srv, http.MethodGet, "/api/admin/products", "")
	if got := decodeProducts(t, body); len(got) != 4 || got[0].Slug != "medias-nike" {
		t.Errorf("admin list = %s", body)
	}
}

func TestAdminUpdateAndDelete(t *testing.T) {
	srv := newTestServer(t)

	resp, body := do(t, srv, http.MethodPut, "/api/admin/products/b", `{"price": 45000}`)
	if resp.StatusCode != http.StatusOK || !strings.Contains(string(body), `"price":45000`) {
		t.Errorf("update by path = %d %s", resp.StatusCode, body)
	}

	resp, body = do(t, srv, http.MethodPut, "/api/admin/products", `{"id": "b", "slug": "iphone-13"}`)
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("update conflict = %d %s", resp.StatusCode, body)
	}

	resp, body = do(t, srv, http.MethodPut, "/api/admin/products", `{"id": "zzz"}`)
	if resp.StatusCode != http.StatusNotFound || message(t, body) != "Producto no encontrado." {
		t.Errorf("update missing = %d %s", resp.StatusCode, body)
	}

	resp, body = do(t, srv, http.MethodDelete, "/api/admin/products", `{}`)
	if resp.StatusCode != http.StatusBadRequest || message(t, body) != "Falta el id." {
		t.Errorf("delete without id = %d %s", resp.StatusCode, body)
	}

	resp, body = do(t, srv, http.MethodDelete, "/api/admin/products", `{"id": "b"}`)
	if resp.StatusCode != http.StatusOK || strings.TrimSpace(string(body)) != `{"ok":true}` {
		t.Errorf("delete = %d %s", resp.StatusCode, body)
	}

	resp, _ = do(t, srv, http.MethodDelete, "/api/admin/products/b", "")
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("second delete = %d", resp.StatusCode)
	}
}

func TestAdminReorder(t *testing.T) {
	srv := newTestServer(t)

	resp, body := do(t, srv, http.MethodPost, "/api/admin/products/order", `{"ids": ["c", "a"]}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("reorder = %d %s", resp.StatusCode, body)
	}
	got := decodeProducts(t, body)
	if len(got) != 3 || got[0].ID != "c" || got[1].ID != "a" || got[2].ID != "b" {
		t.Errorf("order = %s", body)
	}

	resp, body = do(t, srv, http.MethodPost, "/api/admin/products/order", `{}`)
	if resp.StatusCode != http.StatusBadRequest || message(t, body) != "Falta el arreglo de ids." {
		t.Errorf("reorder without ids = %d %s", resp.StatusCode, body)
	}
}

func TestLatestSyncRunWithoutHistory(t *testing.T) {
	srv := newTestServer(t)
	resp, _ := do(t, srv, http.MethodGet, "/api/admin/sync-runs/latest", "")
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}
