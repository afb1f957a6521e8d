//go:build e2e
// +build e2e

package e2e_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/Arzion032/binhi-fms-backend/internal/auth"
	"github.com/Arzion032/binhi-fms-backend/internal/config"
	"github.com/Arzion032/binhi-fms-backend/internal/db"
	accountdomain "github.com/Arzion032/binhi-fms-backend/internal/domain/account"
	associationdomain "github.com/Arzion032/binhi-fms-backend/internal/domain/association"
	catalogdomain "github.com/Arzion032/binhi-fms-backend/internal/domain/catalog"
	financedomain "github.com/Arzion032/binhi-fms-backend/internal/domain/finance"
	inventorydomain "github.com/Arzion032/binhi-fms-backend/internal/domain/inventory"
	orderdomain "github.com/Arzion032/binhi-fms-backend/internal/domain/order"
	"github.com/Arzion032/binhi-fms-backend/internal/mail"
	"github.com/Arzion032/binhi-fms-backend/internal/repository/inmemory"
	accountpg "github.com/Arzion032/binhi-fms-backend/internal/repository/postgres/account"
	associationpg "github.com/Arzion032/binhi-fms-backend/internal/repository/postgres/association"
	catalogpg "github.com/Arzion032/binhi-fms-backend/internal/repository/postgres/catalog"
	financepg "github.com/Arzion032/binhi-fms-backend/internal/repository/postgres/finance"
	inventorypg "github.com/Arzion032/binhi-fms-backend/internal/repository/postgres/inventory"
	orderpg "github.com/Arzion032/binhi-fms-backend/internal/repository/postgres/order"
	"github.com/Arzion032/binhi-fms-backend/internal/storage"
	"github.com/Arzion032/binhi-fms-backend/internal/transport/httpserver"
	"github.com/Arzion032/binhi-fms-backend/internal/transport/httpserver/handler"
	authmw "github.com/Arzion032/binhi-fms-backend/internal/transport/httpserver/middleware"
	"github.com/Arzion032/binhi-fms-backend/pkg/logger"
)

type testEnv struct {
	server   *httptest.Server
	db       *gorm.DB
	accounts *accountdomain.Service
}

func setupE2E(t *testing.T) *testEnv {
	t.Helper()

	dsn := os.Getenv("E2E_DB_DSN")
	if dsn == "" {
		t.Skip("E2E_DB_DSN not set; skipping e2e tests")
	}

	log := logger.NewFromEnv()

	cfg := config.Config{
		HTTPPort:    "0",
		CORSOrigins: []string{"*"},
		DB:          config.DBConfig{DSN: dsn},
		Auth: config.AuthConfig{
			Secret:          "e2e-secret",
			AccessTokenTTL:  time.Hour,
			RefreshTokenTTL: 24 * time.Hour,
		},
	}

	dbConn, err := db.NewPostgres(cfg.DB, log)
	if err != nil {
		t.Fatalf("db connect: %v", err)
	}
	if err := db.Migrate(dbConn); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if err := cleanDB(dbConn); err != nil {
		t.Fatalf("clean db: %v", err)
	}

	tokens := auth.NewTokenManager(cfg.Auth.Secret, cfg.Auth.AccessTokenTTL, cfg.Auth.RefreshTokenTTL, inmemory.NewRevocationStore())
	images, err := storage.NewImageStore(config.UploadsConfig{
		Dir:          t.TempDir(),
		BaseURL:      "/uploads",
		MaxSizeBytes: 5 << 20,
		ThumbnailPx:  160,
	})
	if err != nil {
		t.Fatalf("image store: %v", err)
	}

	accounts := accountdomain.NewService(accountpg.NewPostgres(dbConn), inmemory.NewVerificationStore(), mail.NewLogMailer(log))
	associations := associationdomain.NewService(associationpg.NewPostgres(dbConn))
	catalog := catalogdomain.NewService(catalogpg.NewPostgres(dbConn), inmemory.NewCategoriesCache(), time.Minute)
	inventory := inventorydomain.NewService(inventorypg.NewPostgres(dbConn), nil, log)
	orders := orderdomain.NewService(orderpg.NewPostgres(dbConn), nil, log)
	finance := financedomain.NewService(financepg.NewPostgres(dbConn))

	handlers := handler.New(accounts, associations, catalog, inventory, orders, finance, tokens, images, log)
	router := httpserver.NewRouter(cfg, handlers, authmw.NewJWTAuth(tokens), "")
	server := httptest.NewServer(router)

	return &testEnv{server: server, db: dbConn, accounts: accounts}
}

func (e *testEnv) Close() {
	e.server.Close()
	sqlDB, err := e.db.DB()
	if err == nil {
		_ = sqlDB.Close()
	}
}

func cleanDB(dbConn *gorm.DB) error {
	return dbConn.WithContext(context.Background()).Exec(
		"TRUNCATE TABLE finance_transactions, market_transactions, order_status_history, order_items, orders, cart_items, carts, rentals, items, product_images, variations, products, categories, farmers, associations, verified_emails, profiles, users RESTART IDENTITY CASCADE",
	).Error
}

func (e *testEnv) createUser(t *testing.T, username, role string) string {
	t.Helper()
	user, err := e.accounts.CreateMember(context.Background(), accountdomain.CreateUserInput{
		Username: username,
		Email:    username + "@example.com",
		Password: "password123",
		Role:     role,
	})
	if err != nil {
		t.Fatalf("create %s: %v", username, err)
	}
	return user.ID
}

func (e *testEnv) login(t *testing.T, client *http.Client, username string) string {
	t.Helper()
	resp, body := requestJSON(t, client, http.MethodPost, e.server.URL+"/users/login", "", map[string]string{
		"email":    username + "@example.com",
		"password": "password123",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login %s: expected 200, got %d: %s", username, resp.StatusCode, string(body))
	}
	var parsed struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		t.Fatalf("decode login: %v", err)
	}
	if parsed.AccessToken == "" {
		t.Fatalf("expected access token")
	}
	return parsed.AccessToken
}

func requestJSON(t *testing.T, client *http.Client, method, url, token string, payload interface{}) (*http.Response, []byte) {
	t.Helper()

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal payload: %v", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, url, body)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read response: %v", err)
	}

	return resp, respBody
}

type errorEnvelope struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func TestE2EHealthAndAuth(t *testing.T) {
	env := setupE2E(t)
	defer env.Close()

	client := &http.Client{Timeout: 5 * time.Second}

	resp, body := requestJSON(t, client, http.MethodGet, env.server.URL+"/health", "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.StatusCode, string(body))
	}

	resp, body = requestJSON(t, client, http.MethodGet, env.server.URL+"/associations/", "", nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d: %s", resp.StatusCode, string(body))
	}
	var errResp errorEnvelope
	if err := json.Unmarshal(body, &errResp); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if errResp.Error.Code != "invalid_token" {
		t.Fatalf("expected invalid_token, got %q", errResp.Error.Code)
	}

	env.createUser(t, "admin1", "admin")
	adminToken := env.login(t, client, "admin1")

	resp, body = requestJSON(t, client, http.MethodGet, env.server.URL+"/members/", adminToken, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.StatusCode, string(body))
	}

	env.createUser(t, "buyer1", "buyer")
	buyerToken := env.login(t, client, "buyer1")

	resp, body = requestJSON(t, client, http.MethodGet, env.server.URL+"/members/", buyerToken, nil)
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403 for non-admin, got %d: %s", resp.StatusCode, string(body))
	}
}

func TestE2EMarketplaceFlow(t *testing.T) {
	env := setupE2E(t)
	defer env.Close()

	client := &http.Client{Timeout: 5 * time.Second}

	env.createUser(t, "admin2", "admin")
	env.createUser(t, "vendor2", "member")
	env.createUser(t, "buyer2", "buyer")
	adminToken := env.login(t, client, "admin2")
	vendorToken := env.login(t, client, "vendor2")
	buyerToken := env.login(t, client, "buyer2")

	resp, body := requestJSON(t, client, http.MethodPost, env.server.URL+"/categories/", adminToken, map[string]string{
		"name": "Root Crops",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create category: expected 201, got %d: %s", resp.StatusCode, string(body))
	}
	var category struct {
		ID   string `json:"id"`
		Slug string `json:"slug"`
	}
	if err := json.Unmarshal(body, &category); err != nil {
		t.Fatalf("decode category: %v", err)
	}
	if category.Slug != "root-crops" {
		t.Fatalf("expected slug root-crops, got %q", category.Slug)
	}

	resp, body = requestJSON(t, client, http.MethodPost, env.server.URL+"/products/create/", vendorToken, map[string]interface{}{
		"category_id": category.ID,
		"name":        "Sweet Potato",
		"variations": []map[string]interface{}{
			{"name": "1kg", "unit_price": "45.00", "stock": 10, "is_available": true, "is_default": true},
		},
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create product: expected 201, got %d: %s", resp.StatusCode, string(body))
	}
	var product struct {
		ID         string `json:"id"`
		Status     string `json:"status"`
		Variations []struct {
			ID string `json:"id"`
		} `json:"variations"`
	}
	if err := json.Unmarshal(body, &product); err != nil {
		t.Fatalf("decode product: %v", err)
	}
	if product.Status != "pending_approval" {
		t.Fatalf("expected pending_approval, got %q", product.Status)
	}
	if len(product.Variations) != 1 {
		t.Fatalf("expected 1 variation, got %d", len(product.Variations))
	}

	resp, body = requestJSON(t, client, http.MethodPatch, env.server.URL+"/products/accept/"+product.ID+"/", adminToken, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("accept product: expected 200, got %d: %s", resp.StatusCode, string(body))
	}

	variationID := product.Variations[0].ID
	resp, body = requestJSON(t, client, http.MethodPost, env.server.URL+"/cart/items/", buyerToken, map[string]interface{}{
		"variation_id": variationID,
		"quantity":     3,
	})
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("add cart item: expected 204, got %d: %s", resp.StatusCode, string(body))
	}

	resp, body = requestJSON(t, client, http.MethodPost, env.server.URL+"/orders/confirm/", buyerToken, map[string]interface{}{
		"variation_ids":    []string{variationID},
		"shipping_address": "Purok 5, Bulihan",
		"payment_method":   "cod",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("checkout: expected 201, got %d: %s", resp.StatusCode, string(body))
	}
	var checkout struct {
		Orders []struct {
			OrderID         string `json:"order_id"`
			OrderIdentifier string `json:"order_identifier"`
			OrderTotal      string `json:"order_total"`
		} `json:"orders"`
	}
	if err := json.Unmarshal(body, &checkout); err != nil {
		t.Fatalf("decode checkout: %v", err)
	}
	if len(checkout.Orders) != 1 {
		t.Fatalf("expected 1 order, got %d", len(checkout.Orders))
	}
	if checkout.Orders[0].OrderTotal != "135" {
		t.Fatalf("expected total 135, got %q", checkout.Orders[0].OrderTotal)
	}

	orderID := checkout.Orders[0].OrderID
	resp, body = requestJSON(t, client, http.MethodPatch, env.server.URL+"/orders/"+orderID+"/status/", adminToken, map[string]string{
		"status":         "confirmed",
		"payment_status": "completed",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("update status: expected 200, got %d: %s", resp.StatusCode, string(body))
	}
	var detailed struct {
		Status      string `json:"status"`
		Transaction *struct {
			Status  string     `json:"status"`
			EndedAt *time.Time `json:"ended_at"`
		} `json:"transaction"`
	}
	if err := json.Unmarshal(body, &detailed); err != nil {
		t.Fatalf("decode order: %v", err)
	}
	if detailed.Status != "confirmed" {
		t.Fatalf("expected confirmed, got %q", detailed.Status)
	}
	if detailed.Transaction == nil || detailed.Transaction.Status != "completed" || detailed.Transaction.EndedAt == nil {
		t.Fatalf("expected completed transaction with ended_at, got %+v", detailed.Transaction)
	}

	resp, body = requestJSON(t, client, http.MethodGet, env.server.URL+"/order-history/", buyerToken, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("order history: expected 200, got %d: %s", resp.StatusCode, string(body))
	}
}

func TestE2EInventoryFlow(t *testing.T) {
	env := setupE2E(t)
	defer env.Close()

	client := &http.Client{Timeout: 5 * time.Second}

	env.createUser(t, "admin3", "admin")
	adminToken := env.login(t, client, "admin3")

	resp, body := requestJSON(t, client, http.MethodPost, env.server.URL+"/add_inventory_item/", adminToken, map[string]interface{}{
		"item_name":    "Hand Tractor",
		"rental_price": "500.00",
		"quantity":     3,
		"available":    3,
		"unit":         "unit",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("add item: expected 201, got %d: %s", resp.StatusCode, string(body))
	}
	var item struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(body, &item); err != nil {
		t.Fatalf("decode item: %v", err)
	}

	resp, body = requestJSON(t, client, http.MethodPost, env.server.URL+"/rent_item/", adminToken, map[string]interface{}{
		"item_id":     item.ID,
		"renter_name": "Mang Tomas",
		"quantity":    2,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("rent: expected 201, got %d: %s", resp.StatusCode, string(body))
	}
	var rental struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(body, &rental); err != nil {
		t.Fatalf("decode rental: %v", err)
	}

	// Over-renting the remaining stock is refused.
	resp, body = requestJSON(t, client, http.MethodPost, env.server.URL+"/rent_item/", adminToken, map[string]interface{}{
		"item_id":     item.ID,
		"renter_name": "Aling Nena",
		"quantity":    2,
	})
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("over-rent: expected 409, got %d: %s", resp.StatusCode, string(body))
	}

	resp, body = requestJSON(t, client, http.MethodPost, env.server.URL+"/return_item/"+rental.ID+"/", adminToken, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("return: expected 200, got %d: %s", resp.StatusCode, string(body))
	}

	resp, body = requestJSON(t, client, http.MethodPost, env.server.URL+"/return_item/"+rental.ID+"/", adminToken, nil)
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("double return: expected 409, got %d: %s", resp.StatusCode, string(body))
	}
}

func TestE2EFederationBalance(t *testing.T) {
	env := setupE2E(t)
	defer env.Close()

	client := &http.Client{Timeout: 5 * time.Second}

	env.createUser(t, "admin4", "admin")
	adminToken := env.login(t, client, "admin4")

	for _, entry := range []map[string]string{
		{"type": "income", "amount": "1000.50", "description": "membership dues", "source": "member contributions"},
		{"type": "expense", "amount": "250.25", "description": "seedlings", "source": "supplier purchase"},
	} {
		resp, body := requestJSON(t, client, http.MethodPost, env.server.URL+"/add_transaction/", adminToken, entry)
		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("add transaction: expected 201, got %d: %s", resp.StatusCode, string(body))
		}
	}

	resp, body := requestJSON(t, client, http.MethodGet, env.server.URL+"/federation_balance/", adminToken, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("balance: expected 200, got %d: %s", resp.StatusCode, string(body))
	}
	var balance struct {
		TotalIncome   string `json:"total_income"`
		TotalExpenses string `json:"total_expenses"`
		Balance       string `json:"balance"`
	}
	if err := json.Unmarshal(body, &balance); err != nil {
		t.Fatalf("decode balance: %v", err)
	}
	if balance.Balance != "750.25" {
		t.Fatalf("expected balance 750.25, got %q", balance.Balance)
	}
}
