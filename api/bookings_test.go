package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Domenick1991/travelbooking/internal/domain"
	"github.com/Domenick1991/travelbooking/internal/logger"
	"github.com/Domenick1991/travelbooking/internal/service/booking"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockBookingUseCase is a mock implementation of booking.BookingUseCase
type MockBookingUseCase struct {
	mock.Mock
}

func (m *MockBookingUseCase) CreateBooking(ctx context.Context, input booking.CreateBookingInput) (*domain.Booking, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingUseCase) CancelBooking(ctx context.Context, bookingID string, userID int64) (*domain.Booking, error) {
	args := m.Called(ctx, bookingID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingUseCase) ListBookings(ctx context.Context, userID int64, limit int) ([]domain.Booking, error) {
	args := m.Called(ctx, userID, limit)
	return args.Get(0).([]domain.Booking), args.Error(1)
}

func newBookingRouter(svc booking.BookingUseCase) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewBookingHandler(svc, 3, logger.Nop()).Register(r.Group("/api/v1/bookings"))
	return r
}

func doRequest(r http.Handler, method, path, body string, user string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if user != "" {
		req.Header.Set(UserIDHeader, user)
	}
	r.ServeHTTP(w, req)
	return w
}

func confirmedBooking() *domain.Booking {
	return &domain.Booking{
		ID:             "BK-1A2B3C4D",
		UserID:         7,
		TravelOptionID: "F101",
		Seats:          2,
		TotalPrice:     domain.MustParseMoney("1700.00"),
		Status:         domain.BookingStatusConfirmed,
		CreatedAt:      time.Date(2025, 10, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestBookingHandler_create(t *testing.T) {
	mockService := &MockBookingUseCase{}
	r := newBookingRouter(mockService)

	input := booking.CreateBookingInput{UserID: 7, TravelOptionID: "F101", Seats: 2}
	mockService.On("CreateBooking", mock.Anything, input).Return(confirmedBooking(), nil).Once()

	w := doRequest(r, http.MethodPost, "/api/v1/bookings", `{"travel_option_id":"F101","seats":2}`, "7")

	assert.Equal(t, http.StatusCreated, w.Code)

	var response bookingResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "BK-1A2B3C4D", response.BookingID)
	assert.Equal(t, "1700.00", response.TotalPrice)
	assert.Equal(t, string(domain.BookingStatusConfirmed), response.Status)
	assert.Equal(t, "2025-10-01T12:00:00Z", response.BookingDate)

	mockService.AssertExpectations(t)
}

func TestBookingHandler_create_BadSeats(t *testing.T) {
	for _, body := range []string{
		`{"travel_option_id":"F101","seats":2.5}`,
		`{"travel_option_id":"F101"}`,
		`{"travel_option_id":"F101","seats":"2"}`,
		`{"travel_option_id":"F101","seats":null}`,
		`{"travel_option_id":"F101","seats":[2]}`,
	} {
		mockService := &MockBookingUseCase{}
		r := newBookingRouter(mockService)

		w := doRequest(r, http.MethodPost, "/api/v1/bookings", body, "7")

		assert.Equal(t, http.StatusBadRequest, w.Code, body)
		assert.Contains(t, w.Body.String(), string(domain.CodeInvalidQuantity))
		mockService.AssertNotCalled(t, "CreateBooking")
	}
}

func TestBookingHandler_create_MissingOption(t *testing.T) {
	mockService := &MockBookingUseCase{}
	r := newBookingRouter(mockService)

	w := doRequest(r, http.MethodPost, "/api/v1/bookings", `{"seats":1}`, "7")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), string(domain.CodeInvalidInput))
	mockService.AssertNotCalled(t, "CreateBooking")
}

func TestBookingHandler_RequiresUser(t *testing.T) {
	mockService := &MockBookingUseCase{}
	r := newBookingRouter(mockService)

	for _, user := range []string{"", "abc", "0", "-4"} {
		w := doRequest(r, http.MethodGet, "/api/v1/bookings", "", user)
		assert.Equal(t, http.StatusUnauthorized, w.Code, user)
	}
	mockService.AssertNotCalled(t, "ListBookings")
}

func TestBookingHandler_create_MapsErrors(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{domain.InsufficientInventory("F101", 2, 1), http.StatusConflict},
		{domain.NotFound("travel option", "F101"), http.StatusNotFound},
		{domain.InvalidQuantity(-1), http.StatusBadRequest},
		{domain.ConcurrencyConflict(nil), http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		mockService := &MockBookingUseCase{}
		r := newBookingRouter(mockService)
		mockService.On("CreateBooking", mock.Anything, mock.Anything).Return(nil, tt.err).Once()

		w := doRequest(r, http.MethodPost, "/api/v1/bookings", `{"travel_option_id":"F101","seats":2}`, "7")

		assert.Equal(t, tt.status, w.Code)
		var response errorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, string(domain.CodeOf(tt.err)), response.Code)
	}
}

func TestBookingHandler_list(t *testing.T) {
	mockService := &MockBookingUseCase{}
	r := newBookingRouter(mockService)

	mockService.On("ListBookings", mock.Anything, int64(7), 10).Return([]domain.Booking{*confirmedBooking()}, nil).Once()
	mockService.On("ListBookings", mock.Anything, int64(7), 0).Return([]domain.Booking{}, nil).Once()

	w := doRequest(r, http.MethodGet, "/api/v1/bookings?limit=10", "", "7")
	assert.Equal(t, http.StatusOK, w.Code)
	var response []bookingResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Len(t, response, 1)
	assert.Equal(t, "F101", response[0].TravelOptionID)

	w = doRequest(r, http.MethodGet, "/api/v1/bookings", "", "7")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())

	w = doRequest(r, http.MethodGet, "/api/v1/bookings?limit=-1", "", "7")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	mockService.AssertExpectations(t)
}

func TestBookingHandler_recent(t *testing.T) {
	mockService := &MockBookingUseCase{}
	r := newBookingRouter(mockService)

	mockService.On("ListBookings", mock.Anything, int64(7), 3).Return([]domain.Booking{}, nil).Once()

	w := doRequest(r, http.MethodGet, "/api/v1/bookings/recent", "", "7")

	assert.Equal(t, http.StatusOK, w.Code)
	mockService.AssertExpectations(t)
}

func TestBookingHandler_cancel(t *testing.T) {
	mockService := &MockBookingUseCase{}
	r := newBookingRouter(mockService)

	cancelled := confirmedBooking()
	cancelled.Status = domain.BookingStatusCancelled
	mockService.On("CancelBooking", mock.Anything, "BK-1A2B3C4D", int64(7)).Return(cancelled, nil).Once()
	mockService.On("CancelBooking", mock.Anything, "BK-1A2B3C4D", int64(8)).Return(nil, domain.NotFound("booking", "BK-1A2B3C4D")).Once()

	w := doRequest(r, http.MethodPost, "/api/v1/bookings/BK-1A2B3C4D/cancel", "", "7")
	assert.Equal(t, http.StatusOK, w.Code)
	var response bookingResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, string(domain.BookingStatusCancelled), response.Status)

	w = doRequest(r, http.MethodPost, "/api/v1/bookings/BK-1A2B3C4D/cancel", "", "8")
	assert.Equal(t, http.StatusNotFound, w.Code)

	mockService.AssertExpectations(t)
}
