package router

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/cart-tracker/internal/cache"
	"github.com/cart-tracker/internal/config"
	"github.com/cart-tracker/internal/models"
	"github.com/cart-tracker/internal/provider"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupRouterTest(t *testing.T) *gin.Engine {
	t.Helper()
	return setupRouterTestWith(t, nil)
}

func setupRouterTestWith(t *testing.T, configure func(*config.Config)) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := models.AutoMigrate(db); err != nil {
		t.Fatalf("migrate cart models failed: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	cfg := &config.Config{
		Server: config.ServerConfig{Mode: "debug"},
		Log:    config.LogConfig{Dir: t.TempDir()},
		Cart:   config.CartConfig{CookieName: "cart_id", CookiePath: "/"},
	}
	if configure != nil {
		configure(cfg)
	}
	return SetupRouter(cfg, provider.NewContainerWith(cfg, db, nil))
}

func TestSetupRouterTrackRoutes(t *testing.T) {
	r := setupRouterTest(t)

	for _, path := range []string{"/items/", "/api/v1/items"} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(`{"product_id":"prodid"}`))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("%s status want 200 got %d body=%s", path, w.Code, w.Body.String())
		}
		var body map[string]string
		if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
			t.Fatalf("unmarshal response failed: %v", err)
		}
		if body["cart_id"] == "" {
			t.Fatalf("%s should return cart id", path)
		}
		if w.Header().Get(requestIDHeader) == "" {
			t.Fatalf("%s should set request id header", path)
		}
	}
}

func TestSetupRouterErrorCarriesRequestID(t *testing.T) {
	r := setupRouterTest(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/items/", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(requestIDHeader, "req-42")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status want 400 got %d", w.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal response failed: %v", err)
	}
	if body["error"] != "missing parameter: product_id" || body["request_id"] != "req-42" {
		t.Fatalf("unexpected body: %v", body)
	}
}

func TestSetupRouterHealthAndNotFound(t *testing.T) {
	r := setupRouterTest(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("healthz status want 200 got %d", w.Code)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nope", nil))
	if w.Code != http.StatusNotFound {
		t.Fatalf("unknown route status want 404 got %d", w.Code)
	}
}

func TestSetupRouterTrackLimitIsPerClientIP(t *testing.T) {
	_, client := newMiniredisClient(t)
	cache.Use(client, "ct")
	t.Cleanup(func() {
		cache.Use(nil, "")
	})
	r := setupRouterTestWith(t, func(cfg *config.Config) {
		cfg.Security.RateLimit = config.RateLimitConfig{WindowSeconds: 60, MaxRequests: 3}
	})

	accepted, limited := 0, 0
	for i := 0; i < 20; i++ {
		cartID := fmt.Sprintf("00000000-0000-4000-8000-%012d", i)
		req := httptest.NewRequest(http.MethodPost, "/items/", strings.NewReader(`{"product_id":"prodid","cart_id":"`+cartID+`"}`))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Forwarded-For", fmt.Sprintf("10.0.0.%d", i))
		req.AddCookie(&http.Cookie{Name: "cart_id", Value: cartID})
		req.RemoteAddr = "1.2.3.4:5678"
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		switch w.Code {
		case http.StatusOK:
			accepted++
		case http.StatusTooManyRequests:
			limited++
		default:
			t.Fatalf("unexpected status %d body=%s", w.Code, w.Body.String())
		}
	}
	if accepted != 3 || limited != 17 {
		t.Fatalf("rotating cart ids and forwarded headers must share one budget, accepted=%d limited=%d", accepted, limited)
	}
}
