package app

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	"github.com/pr-poehali-dev/local-cleaning-systems-site/internal/config"
	"github.com/pr-poehali-dev/local-cleaning-systems-site/internal/testutil"
)

func newTestApp(t *testing.T, cfg *config.Config) *App {
	t.Helper()
	a, err := New(context.Background(), cfg)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() { _ = a.Close() })
	return a
}

func do(t *testing.T, a *App, method, target, body string, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	a.Echo.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return out
}

func expectStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("status = %d, want %d; body = %s", rec.Code, want, rec.Body.String())
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Fatalf("Access-Control-Allow-Origin = %q, want *", got)
	}
}

func TestPreflightOnEveryResource(t *testing.T) {
	a := newTestApp(t, testutil.SQLiteConfig(t))
	// closing storage proves preflight never touches it
	_ = a.DB.Close()

	tests := []struct {
		path    string
		methods string
		headers string
	}{
		{"/auth", "POST, GET, OPTIONS", "Content-Type, X-User-Id"},
		{"/managers", "GET, POST, PUT, DELETE, OPTIONS", "Content-Type, X-User-Id"},
		{"/products", "GET, POST, PUT, DELETE, OPTIONS", "Content-Type, X-User-Id"},
		{"/products/news", "GET, POST, PUT, DELETE, OPTIONS", "Content-Type, X-User-Id"},
		{"/products/pricelists", "GET, POST, PUT, DELETE, OPTIONS", "Content-Type, X-User-Id"},
		{"/orders", "GET, POST, PUT, OPTIONS", "Content-Type, X-User-Id, Idempotent-Key"},
		{"/news", "GET, POST, OPTIONS", "Content-Type"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := do(t, a, http.MethodOptions, tt.path, "")
			expectStatus(t, rec, http.StatusOK)
			if rec.Body.Len() != 0 {
				t.Errorf("body = %q, want empty", rec.Body.String())
			}
			if got := rec.Header().Get("Access-Control-Allow-Methods"); got != tt.methods {
				t.Errorf("Allow-Methods = %q, want %q", got, tt.methods)
			}
			if got := rec.Header().Get("Access-Control-Allow-Headers"); got != tt.headers {
				t.Errorf("Allow-Headers = %q, want %q", got, tt.headers)
			}
			if got := rec.Header().Get("Access-Control-Max-Age"); got != "86400" {
				t.Errorf("Max-Age = %q, want 86400", got)
			}
		})
	}
}

func TestAuth(t *testing.T) {
	cfg := testutil.SQLiteConfig(t)
	cfg.Admin = config.AdminConfig{Username: "admin", Password: "secret"}
	a := newTestApp(t, cfg)

	rec := do(t, a, http.MethodPost, "/auth", `{"username":"admin","password":"secret"}`)
	expectStatus(t, rec, http.StatusOK)
	body := decode(t, rec)
	if body["success"] != true {
		t.Fatalf("success = %v", body["success"])
	}
	user := body["user"].(map[string]any)
	if user["username"] != "admin" || user["role"] != "admin" || user["id"] == nil {
		t.Errorf("unexpected user: %v", user)
	}
	if _, leaked := user["password_hash"]; leaked {
		t.Error("credential leaked in response")
	}

	rec = do(t, a, http.MethodPost, "/auth", `{"username":"admin","password":"wrong"}`)
	expectStatus(t, rec, http.StatusUnauthorized)
	body = decode(t, rec)
	if body["success"] != false || body["message"] != "Неверный логин или пароль" {
		t.Errorf("unexpected 401 body: %v", body)
	}

	rec = do(t, a, http.MethodPost, "/auth", `{"username":"admin"}`)
	expectStatus(t, rec, http.StatusBadRequest)
	if got := decode(t, rec)["error"]; got != "password is required" {
		t.Errorf("error = %v", got)
	}

	rec = do(t, a, http.MethodGet, "/auth", "")
	expectStatus(t, rec, http.StatusOK)
	users := decode(t, rec)["users"].([]any)
	if len(users) != 1 {
		t.Fatalf("expected 1 user, got %d", len(users))
	}
	if u := users[0].(map[string]any); u["is_active"] != true || u["created_at"] == nil {
		t.Errorf("unexpected user listing: %v", u)
	}

	rec = do(t, a, http.MethodDelete, "/auth", "")
	expectStatus(t, rec, http.StatusMethodNotAllowed)
	if got := decode(t, rec)["error"]; got != "Method not allowed" {
		t.Errorf("error = %v", got)
	}
}

func TestManagers(t *testing.T) {
	cfg := testutil.SQLiteConfig(t)
	cfg.Admin = config.AdminConfig{Username: "admin", Password: "secret"}
	a := newTestApp(t, cfg)

	rec := do(t, a, http.MethodPost, "/managers", `{"username":"anna","password":"pw"}`)
	expectStatus(t, rec, http.StatusCreated)
	created := decode(t, rec)
	if created["message"] != "Manager created" {
		t.Errorf("message = %v", created["message"])
	}
	managerID := int(created["id"].(float64))

	rec = do(t, a, http.MethodPost, "/managers", `{"username":"anna","password":"pw2"}`)
	expectStatus(t, rec, http.StatusConflict)

	rec = do(t, a, http.MethodPost, "/auth", `{"username":"anna","password":"pw"}`)
	expectStatus(t, rec, http.StatusOK)

	rec = do(t, a, http.MethodPut, "/managers", `{"id":`+itoa(managerID)+`,"password":"pw3"}`)
	expectStatus(t, rec, http.StatusOK)
	rec = do(t, a, http.MethodPost, "/auth", `{"username":"anna","password":"pw3"}`)
	expectStatus(t, rec, http.StatusOK)

	rec = do(t, a, http.MethodGet, "/managers", "")
	expectStatus(t, rec, http.StatusOK)
	managers := decode(t, rec)["managers"].([]any)
	if len(managers) != 1 || managers[0].(map[string]any)["username"] != "anna" {
		t.Fatalf("unexpected managers: %v", managers)
	}

	rec = do(t, a, http.MethodDelete, "/managers", "")
	expectStatus(t, rec, http.StatusBadRequest)
	rec = do(t, a, http.MethodDelete, "/managers?id=abc", "")
	expectStatus(t, rec, http.StatusBadRequest)

	rec = do(t, a, http.MethodDelete, "/managers?id="+itoa(managerID), "")
	expectStatus(t, rec, http.StatusOK)
	if got := decode(t, rec)["message"]; got != "Manager deleted" {
		t.Errorf("message = %v", got)
	}
}

func TestManagerDeleteNeverRemovesAdmin(t *testing.T) {
	cfg := testutil.SQLiteConfig(t)
	cfg.Admin = config.AdminConfig{Username: "admin", Password: "secret"}
	a := newTestApp(t, cfg)

	rec := do(t, a, http.MethodPost, "/auth", `{"username":"admin","password":"secret"}`)
	expectStatus(t, rec, http.StatusOK)
	adminID := int(decode(t, rec)["user"].(map[string]any)["id"].(float64))

	rec = do(t, a, http.MethodDelete, "/managers?id="+itoa(adminID), "")
	expectStatus(t, rec, http.StatusOK)
	if got := decode(t, rec)["message"]; got != "Manager deleted" {
		t.Errorf("message = %v", got)
	}

	rec = do(t, a, http.MethodPost, "/auth", `{"username":"admin","password":"secret"}`)
	expectStatus(t, rec, http.StatusOK)
}

func TestProducts(t *testing.T) {
	a := newTestApp(t, testutil.SQLiteConfig(t))

	rec := do(t, a, http.MethodPost, "/products",
		`{"name":"Tank 5","description":"d","price":125000.5,"capacity":5,"specifications":{"power":"5kW"}}`)
	expectStatus(t, rec, http.StatusCreated)
	id := int(decode(t, rec)["id"].(float64))

	rec = do(t, a, http.MethodPost, "/products", `{"name":"Tank 3","description":"d","price":90000,"capacity":3}`)
	expectStatus(t, rec, http.StatusCreated)

	rec = do(t, a, http.MethodGet, "/products", "")
	expectStatus(t, rec, http.StatusOK)
	products := decode(t, rec)["products"].([]any)
	if len(products) != 2 {
		t.Fatalf("expected 2 products, got %d", len(products))
	}
	small := products[0].(map[string]any)
	if small["name"] != "Tank 3" {
		t.Errorf("expected smallest capacity first, got %v", small["name"])
	}
	if small["image_url"] != "/product.jpg" || small["category_id"] != float64(1) {
		t.Errorf("defaults not applied: %v", small)
	}
	if specs, ok := small["specifications"].(map[string]any); !ok || len(specs) != 0 {
		t.Errorf("specifications = %v, want {}", small["specifications"])
	}
	big := products[1].(map[string]any)
	if big["price"] != 125000.5 {
		t.Errorf("price = %v, want 125000.5", big["price"])
	}
	if specs := big["specifications"].(map[string]any); specs["power"] != "5kW" {
		t.Errorf("specifications = %v", specs)
	}

	rec = do(t, a, http.MethodPut, "/products",
		`{"id":`+itoa(id)+`,"name":"Tank 5+","description":"d2","price":1,"capacity":50,"specifications":null}`)
	expectStatus(t, rec, http.StatusOK)
	if got := decode(t, rec)["message"]; got != "Product updated" {
		t.Errorf("message = %v", got)
	}

	rec = do(t, a, http.MethodPut, "/products", `{"name":"no id","description":"d","price":1,"capacity":1}`)
	expectStatus(t, rec, http.StatusBadRequest)
	if got := decode(t, rec)["error"]; got != "id is required" {
		t.Errorf("error = %v", got)
	}

	for i := 0; i < 2; i++ {
		rec = do(t, a, http.MethodDelete, "/products?id="+itoa(id), "")
		expectStatus(t, rec, http.StatusOK)
		if got := decode(t, rec)["message"]; got != "Product deleted" {
			t.Errorf("message = %v", got)
		}
	}

	rec = do(t, a, http.MethodGet, "/products", "")
	products = decode(t, rec)["products"].([]any)
	if len(products) != 1 || products[0].(map[string]any)["name"] != "Tank 3" {
		t.Errorf("deleted product still listed: %v", products)
	}
}

func TestProductValidation(t *testing.T) {
	a := newTestApp(t, testutil.SQLiteConfig(t))

	tests := []struct {
		name string
		body string
		want string
	}{
		{"malformed", `{"name":`, "invalid JSON body"},
		{"empty body", ``, "name is required"},
		{"blank name", `{"name":"  ","description":"d","price":1,"capacity":1}`, "name is required"},
		{"missing price", `{"name":"n","description":"d","capacity":1}`, "price is required"},
		{"capacity type", `{"name":"n","description":"d","price":1,"capacity":"big"}`, "capacity has invalid type"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, a, http.MethodPost, "/products", tt.body)
			expectStatus(t, rec, http.StatusBadRequest)
			if got := decode(t, rec)["error"]; got != tt.want {
				t.Errorf("error = %v, want %q", got, tt.want)
			}
		})
	}
}

func TestProductSubResources(t *testing.T) {
	a := newTestApp(t, testutil.SQLiteConfig(t))

	rec := do(t, a, http.MethodPost, "/products/news", `{"title":"t","content":"c"}`)
	expectStatus(t, rec, http.StatusCreated)
	if got := decode(t, rec)["message"]; got != "News created" {
		t.Errorf("message = %v", got)
	}

	rec = do(t, a, http.MethodGet, "/products/news", "")
	expectStatus(t, rec, http.StatusOK)
	news := decode(t, rec)["news"].([]any)
	if len(news) != 1 || news[0].(map[string]any)["image_url"] != "/product-news.jpg" {
		t.Errorf("unexpected news: %v", news)
	}

	rec = do(t, a, http.MethodPost, "/products/pricelists", `{"title":"2026"}`)
	expectStatus(t, rec, http.StatusBadRequest)

	rec = do(t, a, http.MethodPost, "/products/pricelists", `{"title":"2026","file_url":"/p.pdf"}`)
	expectStatus(t, rec, http.StatusCreated)
	if got := decode(t, rec)["message"]; got != "Price list created" {
		t.Errorf("message = %v", got)
	}

	rec = do(t, a, http.MethodGet, "/products/pricelists", "")
	expectStatus(t, rec, http.StatusOK)
	lists := decode(t, rec)["price_lists"].([]any)
	if len(lists) != 1 || lists[0].(map[string]any)["file_url"] != "/p.pdf" {
		t.Errorf("unexpected price lists: %v", lists)
	}

	for _, path := range []string{"/products/news", "/products/pricelists"} {
		rec = do(t, a, http.MethodDelete, path, "")
		expectStatus(t, rec, http.StatusMethodNotAllowed)
	}
}

// A storefront customer orders a product, then a manager moves the order along.
func TestOrderScenario(t *testing.T) {
	a := newTestApp(t, testutil.SQLiteConfig(t))

	rec := do(t, a, http.MethodPost, "/products", `{"name":"Tank","description":"d","price":1500.5,"capacity":3}`)
	expectStatus(t, rec, http.StatusCreated)
	productID := itoa(int(decode(t, rec)["id"].(float64)))

	rec = do(t, a, http.MethodPost, "/orders",
		`{"customer_name":"Ivan","customer_phone":"+79990000000","product_id":`+productID+`,"total_price":1500.5}`)
	expectStatus(t, rec, http.StatusCreated)
	created := decode(t, rec)
	if created["message"] != "Order created" {
		t.Errorf("message = %v", created["message"])
	}
	orderID := itoa(int(created["id"].(float64)))

	rec = do(t, a, http.MethodGet, "/orders", "")
	expectStatus(t, rec, http.StatusOK)
	orders := decode(t, rec)["orders"].([]any)
	if len(orders) != 1 {
		t.Fatalf("expected 1 order, got %d", len(orders))
	}
	o := orders[0].(map[string]any)
	if o["total_price"] != 1500.5 {
		t.Errorf("total_price = %v, want 1500.5", o["total_price"])
	}
	if o["status"] != "new" || o["quantity"] != float64(1) || o["product_name"] != "Tank" {
		t.Errorf("unexpected order: %v", o)
	}
	if o["customer_email"] != "" || o["notes"] != "" || o["customer_address"] != "" {
		t.Errorf("optional fields should default to empty strings: %v", o)
	}

	rec = do(t, a, http.MethodPut, "/orders", `{"id":`+orderID+`,"status":"completed"}`)
	expectStatus(t, rec, http.StatusOK)
	if got := decode(t, rec)["message"]; got != "Order updated" {
		t.Errorf("message = %v", got)
	}

	rec = do(t, a, http.MethodDelete, "/products?id="+productID, "")
	expectStatus(t, rec, http.StatusOK)

	rec = do(t, a, http.MethodGet, "/orders", "")
	o = decode(t, rec)["orders"].([]any)[0].(map[string]any)
	if o["status"] != "completed" {
		t.Errorf("status = %v, want completed", o["status"])
	}
	// soft-deleted products keep their name on past orders
	if o["product_name"] != "Tank" {
		t.Errorf("product_name = %v", o["product_name"])
	}

	rec = do(t, a, http.MethodDelete, "/orders", "")
	expectStatus(t, rec, http.StatusMethodNotAllowed)
}

func TestOrderValidation(t *testing.T) {
	a := newTestApp(t, testutil.SQLiteConfig(t))

	tests := []struct {
		body string
		want string
	}{
		{`{"customer_phone":"1","product_id":1,"total_price":1}`, "customer_name is required"},
		{`{"customer_name":"a","product_id":1,"total_price":1}`, "customer_phone is required"},
		{`{"customer_name":"a","customer_phone":"1","total_price":1}`, "product_id is required"},
		{`{"customer_name":"a","customer_phone":"1","product_id":1}`, "total_price is required"},
		{`{"customer_name":"a","customer_phone":"1","product_id":1,"total_price":1,"quantity":0}`, "quantity must be positive"},
	}
	for _, tt := range tests {
		rec := do(t, a, http.MethodPost, "/orders", tt.body)
		expectStatus(t, rec, http.StatusBadRequest)
		if got := decode(t, rec)["error"]; got != tt.want {
			t.Errorf("POST %s: error = %v, want %q", tt.body, got, tt.want)
		}
	}

	rec := do(t, a, http.MethodPut, "/orders", `{"id":1}`)
	expectStatus(t, rec, http.StatusBadRequest)
}

func TestOrderIdempotentKey(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := testutil.SQLiteConfig(t)
	cfg.Redis = config.RedisConfig{Addr: mr.Addr(), IdempotencyTTL: time.Hour}
	a := newTestApp(t, cfg)

	body := `{"customer_name":"Ivan","customer_phone":"1","product_id":1,"total_price":10}`
	rec := do(t, a, http.MethodPost, "/orders", body, "Idempotent-Key", "order-42")
	expectStatus(t, rec, http.StatusCreated)

	rec = do(t, a, http.MethodPost, "/orders", body, "Idempotent-Key", "order-42")
	expectStatus(t, rec, http.StatusConflict)
	if got := decode(t, rec)["error"]; got != "idempotent key already exists" {
		t.Errorf("error = %v", got)
	}

	rec = do(t, a, http.MethodGet, "/orders", "")
	if orders := decode(t, rec)["orders"].([]any); len(orders) != 1 {
		t.Errorf("expected 1 order, got %d", len(orders))
	}
}

func TestNewsFeed(t *testing.T) {
	cfg := testutil.SQLiteConfig(t)
	cfg.Content.NewsLimit = 2
	a := newTestApp(t, cfg)

	for _, title := range []string{"one", "two", "three"} {
		rec := do(t, a, http.MethodPost, "/news", `{"title":"`+title+`","content":"c"}`)
		expectStatus(t, rec, http.StatusCreated)
	}

	rec := do(t, a, http.MethodGet, "/news", "")
	expectStatus(t, rec, http.StatusOK)
	news := decode(t, rec)["news"].([]any)
	if len(news) != 2 {
		t.Fatalf("expected 2 posts, got %d", len(news))
	}
	first := news[0].(map[string]any)
	if first["title"] != "three" || first["image_url"] != "/placeholder.svg" {
		t.Errorf("unexpected first post: %v", first)
	}

	rec = do(t, a, http.MethodPost, "/news", `{"title":"no content"}`)
	expectStatus(t, rec, http.StatusBadRequest)

	rec = do(t, a, http.MethodPut, "/news", `{}`)
	expectStatus(t, rec, http.StatusMethodNotAllowed)
}

func TestHealthAndUnknownRoutes(t *testing.T) {
	a := newTestApp(t, testutil.SQLiteConfig(t))

	rec := do(t, a, http.MethodGet, "/health", "")
	expectStatus(t, rec, http.StatusOK)
	body := decode(t, rec)
	if body["status"] != "ok" || body["service"] != "storefront-test" {
		t.Errorf("unexpected health body: %v", body)
	}

	rec = do(t, a, http.MethodGet, "/nowhere", "")
	expectStatus(t, rec, http.StatusNotFound)
	if got := decode(t, rec)["error"]; got != "Not found" {
		t.Errorf("error = %v", got)
	}

	rec = do(t, a, http.MethodGet, "/products/", "")
	expectStatus(t, rec, http.StatusOK)
}

func TestStorageFaultIsInternalError(t *testing.T) {
	a := newTestApp(t, testutil.SQLiteConfig(t))
	_ = a.DB.Close()

	rec := do(t, a, http.MethodGet, "/products", "")
	expectStatus(t, rec, http.StatusInternalServerError)
	if got := decode(t, rec)["error"]; got != "Internal server error" {
		t.Errorf("error = %v", got)
	}
}

func itoa(i int) string {
	return strconv.Itoa(i)
}
