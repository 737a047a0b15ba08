package api

import (
	"net/http"
	"time"

	"github.com/Domenick1991/travelbooking/internal/domain"
	"github.com/Domenick1991/travelbooking/internal/logger"
	"github.com/Domenick1991/travelbooking/internal/service/booking"
	"github.com/gin-gonic/gin"
)

type BookingHandler struct {
	service     booking.BookingUseCase
	recentLimit int
	log         *logger.Logger
}

type bookingResponse struct {
	BookingID      string `json:"booking_id"`
	TravelOptionID string `json:"travel_option_id"`
	Seats          int    `json:"number_of_seats"`
	TotalPrice     string `json:"total_price"`
	Status         string `json:"status"`
	BookingDate    string `json:"booking_date"`
}

func newBookingResponse(b *domain.Booking) bookingResponse {
	return bookingResponse{
		BookingID:      b.ID,
		TravelOptionID: b.TravelOptionID,
		Seats:          b.Seats,
		TotalPrice:     b.TotalPrice.String(),
		Status:         string(b.Status),
		BookingDate:    b.CreatedAt.Format(time.RFC3339),
	}
}

// NewBookingHandler serves at most recentLimit bookings on /recent.
func NewBookingHandler(service booking.BookingUseCase, recentLimit int, log *logger.Logger) *BookingHandler {
	return &BookingHandler{service: service, recentLimit: recentLimit, log: log}
}

func (h *BookingHandler) Register(router *gin.RouterGroup) {
	router.POST("", h.create)
	router.GET("", h.list)
	router.GET("/recent", h.recent)
	router.POST("/:id/cancel", h.cancel)
}

func (h *BookingHandler) create(c *gin.Context) {
	user, ok := userID(c)
	if !ok {
		return
	}

	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, h.log, invalidInput(err))
		return
	}
	seats, err := req.seats()
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(c, h.log, invalidInput(err))
		return
	}

	created, err := h.service.CreateBooking(c.Request.Context(), booking.CreateBookingInput{
		UserID:         user,
		TravelOptionID: req.TravelOptionID,
		Seats:          seats,
	})
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, newBookingResponse(created))
}

func (h *BookingHandler) list(c *gin.Context) {
	user, ok := userID(c)
	if !ok {
		return
	}

	var q listBookingsQuery
	if err := bindQuery(c, &q); err != nil {
		writeError(c, h.log, err)
		return
	}
	h.respondList(c, user, q.Limit)
}

func (h *BookingHandler) recent(c *gin.Context) {
	user, ok := userID(c)
	if !ok {
		return
	}
	h.respondList(c, user, h.recentLimit)
}

func (h *BookingHandler) respondList(c *gin.Context, user int64, limit int) {
	bookings, err := h.service.ListBookings(c.Request.Context(), user, limit)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	resp := make([]bookingResponse, 0, len(bookings))
	for i := range bookings {
		resp = append(resp, newBookingResponse(&bookings[i]))
	}
	c.JSON(http.StatusOK, resp)
}

func (h *BookingHandler) cancel(c *gin.Context) {
	user, ok := userID(c)
	if !ok {
		return
	}

	cancelled, err := h.service.CancelBooking(c.Request.Context(), c.Param("id"), user)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, newBookingResponse(cancelled))
}
