package bootstrap

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Domenick1991/travelbooking/config"
	"github.com/Domenick1991/travelbooking/internal/logger"
	"github.com/Domenick1991/travelbooking/internal/metrics"
	"github.com/Domenick1991/travelbooking/internal/repository"
	"github.com/Domenick1991/travelbooking/internal/repository/memory"
	"github.com/Domenick1991/travelbooking/internal/service/booking"
	"github.com/Domenick1991/travelbooking/internal/service/inventory"
	"github.com/Domenick1991/travelbooking/internal/service/travel"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T, checks map[string]HealthCheck) http.Handler {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := memory.New()
	_, err := repository.Seed(context.Background(), store.TravelOptions())
	require.NoError(t, err)

	collector := metrics.NewCollector()
	registry := prometheus.NewRegistry()
	registry.MustRegister(collector)

	log := logger.Nop()
	ledger := inventory.NewLedger(store.TravelOptions(), log, collector)
	cfg := &config.Config{}
	cfg.ApplyDefaults()

	return NewRouter(cfg, Dependencies{
		Travel:   travel.NewTravelService(store.TravelOptions(), nil, log),
		Bookings: booking.NewBookingService(store, ledger, store.Bookings(), log, booking.WithMetrics(collector)),
		Registry: registry,
		Checks:   checks,
		Log:      log,
	})
}

func TestRouter_Health(t *testing.T) {
	h := newTestRouter(t, map[string]HealthCheck{
		"database": func(context.Context) error { return nil },
	})
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	h = newTestRouter(t, map[string]HealthCheck{
		"redis": func(context.Context) error { return errors.New("dial tcp: refused") },
	})
	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "refused")
}

func TestRouter_BookingFlowAndMetrics(t *testing.T) {
	h := newTestRouter(t, nil)

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/travel-options?type=bus&source=london", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"B301"`)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", stringsReader(`{"travel_option_id":"B301","seats":2}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-ID", "1")
	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"total_price":"60.00"`)

	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/travel-options/B301", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"available_seats":48`)

	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "travelbooking_bookings_created_total 1")
	assert.Contains(t, w.Body.String(), "travelbooking_seats_reserved_total 2")
}

func stringsReader(s string) *strings.Reader {
	return strings.NewReader(s)
}
