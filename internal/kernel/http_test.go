package kernel_test

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/shashiranjanraj/giftwheels/app/routes"
	"github.com/shashiranjanraj/giftwheels/app/services"
	"github.com/shashiranjanraj/giftwheels/app/store"
	"github.com/shashiranjanraj/giftwheels/internal/kernel"
	"github.com/shashiranjanraj/giftwheels/pkg/auth"
	"github.com/shashiranjanraj/giftwheels/pkg/testkit"
)

const adminPassword = "pit-lane"

type env struct {
	store   *store.Store
	handler http.Handler
}

type envelope struct {
	Status  int               `json:"status"`
	Message string            `json:"message"`
	Data    json.RawMessage   `json:"data"`
	Errors  map[string]string `json:"errors"`
}

func newEnv(t *testing.T) *env {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.MinCost)
	require.NoError(t, err)
	secret := []byte("kernel-test")
	return newEnvWith(t, services.NewAuthService("admin", string(hash), secret), secret)
}

func (e *env) do(t *testing.T, method, path, body, token string) (int, envelope) {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)

	var env envelope
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	}
	return rec.Code, env
}

func (e *env) login(t *testing.T) string {
	t.Helper()
	code, body := e.do(t, "POST", "/api/admin/login", `{"username":"admin","password":"`+adminPassword+`"}`, "")
	require.Equal(t, http.StatusOK, code)
	var tok struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(body.Data, &tok))
	return tok.Token
}

type productJSON struct {
	ID            uint     `json:"id"`
	Name          string   `json:"name"`
	Tags          []string `json:"tags"`
	Price         string   `json:"price"`
	StockQuantity int      `json:"stock_quantity"`
	StockStatus   string   `json:"stock_status"`
	InStock       bool     `json:"in_stock"`
}

func (e *env) products(t *testing.T) []productJSON {
	t.Helper()
	code, body := e.do(t, "GET", "/api/products", "", "")
	require.Equal(t, http.StatusOK, code)
	var list []productJSON
	require.NoError(t, json.Unmarshal(body.Data, &list))
	return list
}

func TestCatalog_SeededNewestFirst(t *testing.T) {
	e := newEnv(t)
	list := e.products(t)

	require.Len(t, list, 2)
	assert.Equal(t, "Datsun Bluebird 510", list[0].Name)
	assert.Equal(t, 3, list[0].StockQuantity)
	assert.Equal(t, "low_stock", list[0].StockStatus)
	assert.Equal(t, "45.99", list[0].Price)
	assert.Equal(t, "Porsche 911 GT3 RS", list[1].Name)
	assert.Equal(t, "in_stock", list[1].StockStatus)
	assert.True(t, list[1].InStock)

	code, _ := e.do(t, "GET", "/api/products/999", "", "")
	assert.Equal(t, http.StatusNotFound, code)
	code, _ = e.do(t, "GET", "/api/products/abc", "", "")
	assert.Equal(t, http.StatusNotFound, code)
}

func TestPlaceOrder_StatusMapping(t *testing.T) {
	e := newEnv(t)
	datsun := e.products(t)[0]
	path := "/api/products/" + itoa(datsun.ID) + "/orders"
	customer := `"customer_name":"Ana","phone":"555","address":"1 Main St"`

	code, body := e.do(t, "POST", path, `{`+customer+`,"quantity":2}`, "")
	require.Equal(t, http.StatusCreated, code, body.Message)
	var receipt struct {
		Order struct {
			ID       uint `json:"id"`
			Quantity int  `json:"quantity"`
		} `json:"order"`
		Stock int `json:"stock"`
	}
	require.NoError(t, json.Unmarshal(body.Data, &receipt))
	assert.Equal(t, 2, receipt.Order.Quantity)
	assert.Equal(t, 1, receipt.Stock)

	cases := []struct {
		name string
		path string
		body string
		want int
	}{
		{"insufficient", path, `{` + customer + `,"quantity":2}`, http.StatusConflict},
		{"zero quantity", path, `{` + customer + `,"quantity":0}`, http.StatusUnprocessableEntity},
		{"fractional quantity", path, `{` + customer + `,"quantity":1.5}`, http.StatusUnprocessableEntity},
		{"missing customer", path, `{"quantity":1}`, http.StatusUnprocessableEntity},
		{"missing product", "/api/products/999/orders", `{` + customer + `,"quantity":1}`, http.StatusNotFound},
		{"bad json", path, `{"quantity":`, http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			code, _ := e.do(t, "POST", tc.path, tc.body, "")
			assert.Equal(t, tc.want, code)
		})
	}

	assert.Equal(t, 1, e.products(t)[0].StockQuantity, "rejections leave stock alone")
}

func TestAdminRoutes_RequireToken(t *testing.T) {
	e := newEnv(t)
	for _, path := range []string{"/api/admin/orders", "/api/admin/messages", "/api/admin/stats"} {
		code, _ := e.do(t, "GET", path, "", "")
		assert.Equal(t, http.StatusUnauthorized, code, path)
	}

	code, _ := e.do(t, "POST", "/api/admin/login", `{"username":"admin","password":"nope"}`, "")
	assert.Equal(t, http.StatusUnauthorized, code)
}

func newEnvWith(t *testing.T, authSvc *services.AuthService, secret []byte) *env {
	t.Helper()
	s, err := store.Open(context.Background(), store.Options{Driver: "sqlite", DSN: testkit.DSN(t), LowStockThreshold: 5})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	k, err := kernel.NewHTTPKernel(routes.Deps{Store: s, Auth: authSvc, JWTSecret: secret, LowThreshold: 5})
	require.NoError(t, err)
	return &env{store: s, handler: k.Handler()}
}

func TestAdminRoutes_LoginDisabledIgnoresTokens(t *testing.T) {
	guessed := []byte("change-me-in-production")
	forged, err := auth.Issue(guessed, "intruder", time.Hour)
	require.NoError(t, err)

	hash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.MinCost)
	require.NoError(t, err)

	cases := map[string]struct {
		auth   *services.AuthService
		secret []byte
	}{
		"no password hash":    {services.NewAuthService("admin", "", guessed), guessed},
		"hash without secret": {services.NewAuthService("admin", string(hash), nil), nil},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			e := newEnvWith(t, tc.auth, tc.secret)
			gt3 := e.products(t)[1]

			code, _ := e.do(t, "POST", "/api/admin/login", `{"username":"admin","password":"`+adminPassword+`"}`, "")
			assert.Equal(t, http.StatusForbidden, code)

			code, _ = e.do(t, "PUT", "/api/admin/products/"+itoa(gt3.ID)+"/stock", `{"stock_quantity":0}`, forged.Token)
			assert.Equal(t, http.StatusForbidden, code)
			code, _ = e.do(t, "GET", "/api/admin/orders", "", forged.Token)
			assert.Equal(t, http.StatusForbidden, code)

			p, err := e.store.Products.Find(context.Background(), gt3.ID)
			require.NoError(t, err)
			assert.Equal(t, gt3.StockQuantity, p.StockQuantity)
		})
	}
}

func TestAdminFlow(t *testing.T) {
	e := newEnv(t)
	token := e.login(t)

	code, body := e.do(t, "POST", "/api/admin/products",
		`{"name":"Mini Cooper S","description":"Rally livery","tags":"euro, rally, euro","price":"29.99","stock_quantity":0}`, token)
	require.Equal(t, http.StatusCreated, code, body.Message)
	var mini productJSON
	require.NoError(t, json.Unmarshal(body.Data, &mini))
	assert.Equal(t, []string{"euro", "rally"}, mini.Tags)
	assert.Equal(t, "out_of_stock", mini.StockStatus)
	assert.False(t, mini.InStock)

	code, body = e.do(t, "POST", "/api/admin/products", `{"name":"","description":"","price":"-1"}`, token)
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	assert.Contains(t, body.Errors, "name")
	assert.Contains(t, body.Errors, "price")

	stockPath := "/api/admin/products/" + itoa(mini.ID) + "/stock"
	code, body = e.do(t, "PUT", stockPath, `{"stock_quantity":50}`, token)
	require.Equal(t, http.StatusOK, code)
	var updated productJSON
	require.NoError(t, json.Unmarshal(body.Data, &updated))
	assert.Equal(t, 50, updated.StockQuantity)

	code, _ = e.do(t, "PUT", stockPath, `{"stock_quantity":-1}`, token)
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	code, _ = e.do(t, "PUT", stockPath, `{}`, token)
	assert.Equal(t, http.StatusUnprocessableEntity, code)

	code, _ = e.do(t, "POST", "/api/products/"+itoa(mini.ID)+"/orders",
		`{"customer_name":"Ben","phone":"555","address":"2 Side St","quantity":5}`, "")
	require.Equal(t, http.StatusCreated, code)

	code, _ = e.do(t, "POST", "/api/messages", `{"name":"Cy","phone":"555","message":"Any Supras?"}`, "")
	require.Equal(t, http.StatusCreated, code)
	code, _ = e.do(t, "POST", "/api/messages", `{"name":"Cy"}`, "")
	assert.Equal(t, http.StatusUnprocessableEntity, code)

	code, body = e.do(t, "GET", "/api/admin/orders", "", token)
	require.Equal(t, http.StatusOK, code)
	var orders []map[string]interface{}
	require.NoError(t, json.Unmarshal(body.Data, &orders))
	require.Len(t, orders, 1)
	assert.Equal(t, "Mini Cooper S", orders[0]["product_name"])

	code, body = e.do(t, "GET", "/api/admin/products/"+itoa(mini.ID)+"/orders", "", token)
	require.Equal(t, http.StatusOK, code)
	var miniOrders []map[string]interface{}
	require.NoError(t, json.Unmarshal(body.Data, &miniOrders))
	assert.Len(t, miniOrders, 1)

	gt3 := e.products(t)[2]
	code, body = e.do(t, "GET", "/api/admin/products/"+itoa(gt3.ID)+"/orders", "", token)
	require.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, "[]", string(body.Data))

	code, _ = e.do(t, "GET", "/api/admin/products/999/orders", "", token)
	assert.Equal(t, http.StatusNotFound, code)
	code, _ = e.do(t, "GET", "/api/admin/products/"+itoa(mini.ID)+"/orders", "", "")
	assert.Equal(t, http.StatusUnauthorized, code)

	code, body = e.do(t, "GET", "/api/admin/messages", "", token)
	require.Equal(t, http.StatusOK, code)
	var messages []map[string]interface{}
	require.NoError(t, json.Unmarshal(body.Data, &messages))
	assert.Len(t, messages, 1)

	code, body = e.do(t, "GET", "/api/admin/stats", "", token)
	require.Equal(t, http.StatusOK, code)
	var stats services.Stats
	require.NoError(t, json.Unmarshal(body.Data, &stats))
	assert.Equal(t, services.Stats{TotalSales: 1, Products: 3, OutOfStock: 0, LowInventory: 1}, stats)
}

func TestStorageUnavailable(t *testing.T) {
	e := newEnv(t)
	require.NoError(t, e.store.Close())

	code, _ := e.do(t, "GET", "/api/products", "", "")
	assert.Equal(t, http.StatusServiceUnavailable, code)
	code, _ = e.do(t, "GET", "/healthz", "", "")
	assert.Equal(t, http.StatusServiceUnavailable, code)
}

func TestGraphQL(t *testing.T) {
	e := newEnv(t)
	datsun := e.products(t)[0]

	req := httptest.NewRequest("POST", "/graphql", strings.NewReader(
		`{"query":"query($id: Int!) { product(id: $id) { name tags stock_quantity } products { id } }","variables":{"id":`+itoa(datsun.ID)+`}}`))
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var result struct {
		Data struct {
			Product struct {
				Name          string   `json:"name"`
				Tags          []string `json:"tags"`
				StockQuantity int      `json:"stock_quantity"`
			} `json:"product"`
			Products []struct {
				ID int `json:"id"`
			} `json:"products"`
		} `json:"data"`
		Errors []interface{} `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Empty(t, result.Errors)
	assert.Equal(t, "Datsun Bluebird 510", result.Data.Product.Name)
	assert.Equal(t, []string{"jdm", "classic", "nissan"}, result.Data.Product.Tags)
	assert.Equal(t, 3, result.Data.Product.StockQuantity)
	assert.Len(t, result.Data.Products, 2)
}

func TestMetricsAndHealth(t *testing.T) {
	e := newEnv(t)
	code, _ := e.do(t, "GET", "/healthz", "", "")
	assert.Equal(t, http.StatusOK, code)

	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "giftwheels_http_requests_total")
}

func TestEvents_StreamStockChanges(t *testing.T) {
	e := newEnv(t)
	srv := httptest.NewServer(e.handler)
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, "GET", srv.URL+"/api/events", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	reader := bufio.NewReader(resp.Body)
	line, err := reader.ReadString('\n')
	require.NoError(t, err)
	require.Equal(t, ": connected\n", line)

	gt3 := e.products(t)[1]
	order := bytes.NewBufferString(`{"customer_name":"Ana","phone":"555","address":"1 Main St","quantity":1}`)
	orderResp, err := http.Post(srv.URL+"/api/products/"+itoa(gt3.ID)+"/orders", "application/json", order)
	require.NoError(t, err)
	orderResp.Body.Close()
	require.Equal(t, http.StatusCreated, orderResp.StatusCode)

	var lines []string
	for len(lines) < 2 {
		line, err := reader.ReadString('\n')
		require.NoError(t, err)
		if strings.TrimSpace(line) != "" {
			lines = append(lines, strings.TrimSpace(line))
		}
	}
	assert.Equal(t, "event: stock.changed", lines[0])
	assert.JSONEq(t, `{"product_id":`+itoa(gt3.ID)+`,"stock":7,"reason":"order"}`, strings.TrimPrefix(lines[1], "data: "))
}

func itoa(id uint) string {
	b, _ := json.Marshal(id)
	return string(b)
}
