//go:build integration

package router_test

// End-to-end tests against real Postgres + Redis via testcontainers.
// Run with: go test -tags integration ./internal/router/... -v

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"saripos/internal/config"
	"saripos/internal/infra"
	"saripos/internal/model"
	"saripos/internal/router"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcPostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	tcRedis "github.com/testcontainers/testcontainers-go/modules/redis"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// ── Helpers ──────────────────────────────────────────────────────────────────

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewBuffer(b)
}

func do(t *testing.T, srv *httptest.Server, method, path string, body *bytes.Buffer, token string) *http.Response {
	t.Helper()
	var req *http.Request
	var err error
	if body != nil {
		req, err = http.NewRequest(method, srv.URL+path, body)
	} else {
		req, err = http.NewRequest(method, srv.URL+path, nil)
	}
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	return resp
}

func decodeJSON(t *testing.T, resp *http.Response, dest any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(dest))
}

// ── Test Suite Setup ─────────────────────────────────────────────────────────

type testEnv struct {
	server *httptest.Server
	token  string // admin JWT
	db     *gorm.DB
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()

	pgC, err := tcPostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:15-alpine"),
		tcPostgres.WithDatabase("saripos_test"),
		tcPostgres.WithUsername("saripos"),
		tcPostgres.WithPassword("saripos"),
		tcPostgres.BasicWaitStrategies(),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pgC.Terminate(ctx) })

	pgURL, err := pgC.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	rdC, err := tcRedis.RunContainer(ctx,
		testcontainers.WithImage("redis:7-alpine"),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdC.Terminate(ctx) })

	rdURL, err := rdC.ConnectionString(ctx)
	require.NoError(t, err)

	cfg := &config.Config{
		Port:               3000,
		Env:                "test",
		JWTSecret:          "test-secret-key",
		JWTExpirationHours: 8,
		RedisURL:           rdURL,
		StoreName:          "Test Store",
		LowStockThreshold:  10,
		VATRatePct:         12,
	}

	db, err := infra.NewDatabase(pgURL)
	require.NoError(t, err)
	t.Cleanup(func() { infra.CloseDatabase(db) })

	rdb, err := infra.NewRedis(cfg.RedisURL)
	require.NoError(t, err)

	// Seed admin user
	hash, err := bcrypt.GenerateFromPassword([]byte("admin123"), 10)
	require.NoError(t, err)
	admin := model.User{Username: "admin", PasswordHash: string(hash), Role: model.RoleAdmin}
	require.NoError(t, db.Create(&admin).Error)

	r := router.New(cfg, db, rdb)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	loginResp := do(t, srv, "POST", "/api/auth/login",
		jsonBody(t, map[string]string{"username": "admin", "password": "admin123"}), "")
	require.Equal(t, http.StatusOK, loginResp.StatusCode)
	var loginBody struct {
		Token string `json:"token"`
	}
	decodeJSON(t, loginResp, &loginBody)
	require.NotEmpty(t, loginBody.Token)

	return &testEnv{server: srv, token: loginBody.Token, db: db}
}

func createProduct(t *testing.T, env *testEnv, name, barcode string, priceStr string, stock int) uint {
	t.Helper()
	resp := do(t, env.server, "POST", "/api/products",
		jsonBody(t, map[string]any{
			"name":     name,
			"barcode":  barcode,
			"price":    priceStr,
			"stock":    stock,
			"category": "Test",
		}),
		env.token,
	)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var created struct {
		ID uint `json:"id"`
	}
	decodeJSON(t, resp, &created)
	require.NotZero(t, created.ID)
	return created.ID
}

func productStock(t *testing.T, env *testEnv, id uint) int {
	t.Helper()
	var p model.Product
	require.NoError(t, env.db.First(&p, id).Error)
	return p.Stock
}

// ── Tests ────────────────────────────────────────────────────────────────────

func TestE2E_FullSaleCycle(t *testing.T) {
	env := setupTestEnv(t)

	productID := createProduct(t, env, "Rice (1kg)", "7901234567890", "55.00", 50)

	// Barcode lookup (cached path)
	barcodeResp := do(t, env.server, "GET", "/api/products/barcode/7901234567890", nil, env.token)
	require.Equal(t, http.StatusOK, barcodeResp.StatusCode)
	var found model.Product
	decodeJSON(t, barcodeResp, &found)
	assert.Equal(t, productID, found.ID)

	// Sell two units
	saleResp := do(t, env.server, "POST", "/api/sales",
		jsonBody(t, map[string]any{
			"items": []map[string]any{{"productId": productID, "quantity": 2}},
		}),
		env.token,
	)
	require.Equal(t, http.StatusCreated, saleResp.StatusCode)
	var sale struct {
		TransactionID string `json:"transactionId"`
		SaleID        uint   `json:"saleId"`
		TotalAmount   string `json:"totalAmount"`
	}
	decodeJSON(t, saleResp, &sale)
	assert.Regexp(t, `^TXN\d+-[0-9A-F]{8}$`, sale.TransactionID)
	assert.Equal(t, "110", sale.TotalAmount[:3])

	assert.Equal(t, 48, productStock(t, env, productID))

	// Detail shows items with the snapshot price
	detailResp := do(t, env.server, "GET", fmt.Sprintf("/api/sales/%d", sale.SaleID), nil, env.token)
	require.Equal(t, http.StatusOK, detailResp.StatusCode)
	var detail struct {
		TransactionID string `json:"transaction_id"`
		CashierName   string `json:"cashier_name"`
		Items         []struct {
			ProductID uint   `json:"product_id"`
			Quantity  int    `json:"quantity"`
			UnitPrice string `json:"unit_price"`
		} `json:"items"`
	}
	decodeJSON(t, detailResp, &detail)
	assert.Equal(t, sale.TransactionID, detail.TransactionID)
	assert.Equal(t, "admin", detail.CashierName)
	require.Len(t, detail.Items, 1)
	assert.Equal(t, 2, detail.Items[0].Quantity)

	// History includes the sale
	listResp := do(t, env.server, "GET", "/api/sales", nil, env.token)
	require.Equal(t, http.StatusOK, listResp.StatusCode)
	var rows []map[string]any
	decodeJSON(t, listResp, &rows)
	require.Len(t, rows, 1)

	// Dashboard picks it up
	statsResp := do(t, env.server, "GET", "/api/dashboard/stats", nil, env.token)
	require.Equal(t, http.StatusOK, statsResp.StatusCode)
	var stats struct {
		TodaySales struct {
			Transactions int64 `json:"transactions"`
		} `json:"todaySales"`
		TotalProducts int64 `json:"totalProducts"`
	}
	decodeJSON(t, statsResp, &stats)
	assert.Equal(t, int64(1), stats.TodaySales.Transactions)
	assert.Equal(t, int64(1), stats.TotalProducts)

	// PDF receipt
	receiptResp := do(t, env.server, "GET", fmt.Sprintf("/api/sales/%d/receipt", sale.SaleID), nil, env.token)
	require.Equal(t, http.StatusOK, receiptResp.StatusCode)
	assert.Equal(t, "application/pdf", receiptResp.Header.Get("Content-Type"))
	receiptResp.Body.Close()
}

func TestE2E_DuplicateBarcodeIsRejected(t *testing.T) {
	env := setupTestEnv(t)

	createProduct(t, env, "Cooking Oil 1L", "7901234567895", "85.00", 25)

	resp := do(t, env.server, "POST", "/api/products",
		jsonBody(t, map[string]any{
			"name":     "Cooking Oil 1L (restock)",
			"barcode":  "7901234567895",
			"price":    "85.00",
			"stock":    10,
			"category": "Test",
		}),
		env.token,
	)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	var body struct {
		Error string `json:"error"`
	}
	decodeJSON(t, resp, &body)
	assert.Equal(t, "Barcode already exists", body.Error)

	// The rejected insert must not have left a second row behind.
	var count int64
	require.NoError(t, env.db.Model(&model.Product{}).
		Where("barcode = ?", "7901234567895").Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestE2E_InsufficientStockRollsBack(t *testing.T) {
	env := setupTestEnv(t)

	okID := createProduct(t, env, "Sugar 1kg", "7901234567896", "60.00", 30)
	lowID := createProduct(t, env, "Bread Loaf", "7901234567894", "45.00", 1)

	resp := do(t, env.server, "POST", "/api/sales",
		jsonBody(t, map[string]any{
			"items": []map[string]any{
				{"productId": okID, "quantity": 5},
				{"productId": lowID, "quantity": 3},
			},
		}),
		env.token,
	)
	require.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	var body struct {
		Error string `json:"error"`
	}
	decodeJSON(t, resp, &body)
	assert.Equal(t, "Insufficient stock for Bread Loaf. Available: 1, Required: 3", body.Error)

	// The first line's decrement must not survive the rollback.
	assert.Equal(t, 30, productStock(t, env, okID))
	assert.Equal(t, 1, productStock(t, env, lowID))

	var count int64
	require.NoError(t, env.db.Model(&model.Sale{}).Count(&count).Error)
	assert.Zero(t, count)
}

// Concurrent sales race for limited stock: the row locks must serialize the
// decrements so that stock never goes negative and exactly `stock` units sell.
func TestE2E_ConcurrentSalesNeverOversell(t *testing.T) {
	env := setupTestEnv(t)

	const stock = 5
	const buyers = 12
	productID := createProduct(t, env, "Coca Cola 350ml", "7901234567892", "25.00", stock)

	var wg sync.WaitGroup
	statuses := make([]int, buyers)
	for i := 0; i < buyers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			resp := do(t, env.server, "POST", "/api/sales",
				jsonBody(t, map[string]any{
					"items": []map[string]any{{"productId": productID, "quantity": 1}},
				}),
				env.token,
			)
			statuses[i] = resp.StatusCode
			resp.Body.Close()
		}(i)
	}
	wg.Wait()

	committed := 0
	for _, code := range statuses {
		if code == http.StatusCreated {
			committed++
		}
	}
	assert.Equal(t, stock, committed, "exactly the available units must sell")
	assert.Equal(t, 0, productStock(t, env, productID))

	var count int64
	require.NoError(t, env.db.Model(&model.Sale{}).Count(&count).Error)
	assert.Equal(t, int64(stock), count)
}

func TestE2E_AuthAndRoles(t *testing.T) {
	env := setupTestEnv(t)

	// No token
	resp := do(t, env.server, "GET", "/api/products", nil, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	// Register a cashier (admin-only endpoint)
	regResp := do(t, env.server, "POST", "/api/auth/register",
		jsonBody(t, map[string]string{"username": "cashier1", "password": "pass1234"}),
		env.token,
	)
	require.Equal(t, http.StatusCreated, regResp.StatusCode)
	regResp.Body.Close()

	// Duplicate username → 400
	dupResp := do(t, env.server, "POST", "/api/auth/register",
		jsonBody(t, map[string]string{"username": "cashier1", "password": "other"}),
		env.token,
	)
	assert.Equal(t, http.StatusBadRequest, dupResp.StatusCode)
	dupResp.Body.Close()

	// Cashier can sell but cannot create products
	loginResp := do(t, env.server, "POST", "/api/auth/login",
		jsonBody(t, map[string]string{"username": "cashier1", "password": "pass1234"}), "")
	require.Equal(t, http.StatusOK, loginResp.StatusCode)
	var cashier struct {
		Token string `json:"token"`
	}
	decodeJSON(t, loginResp, &cashier)

	forbidden := do(t, env.server, "POST", "/api/products",
		jsonBody(t, map[string]any{"name": "X", "price": "1.00"}), cashier.Token)
	assert.Equal(t, http.StatusForbidden, forbidden.StatusCode)
	forbidden.Body.Close()

	// Cashier may not register users either
	regForbidden := do(t, env.server, "POST", "/api/auth/register",
		jsonBody(t, map[string]string{"username": "x", "password": "y1234"}), cashier.Token)
	assert.Equal(t, http.StatusForbidden, regForbidden.StatusCode)
	regForbidden.Body.Close()
}

func TestE2E_UnknownRouteIs404(t *testing.T) {
	env := setupTestEnv(t)

	resp := do(t, env.server, "GET", "/api/nope", nil, env.token)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	var body struct {
		Error string `json:"error"`
	}
	decodeJSON(t, resp, &body)
	assert.Equal(t, "Route not found", body.Error)
}
