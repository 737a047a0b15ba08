package api

import (
	"bytes"
	"encoding/json"
	"math"
	"net/http"

	"github.com/Domenick1991/travelbooking/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

const UserIDHeader = "X-User-ID"

var validate = validator.New(validator.WithRequiredStructEnabled())

type userHeader struct {
	UserID int64 `header:"X-User-ID" validate:"required,gt=0"`
}

// userID reads the caller identity. The header is trusted as-is; an
// upstream gateway is responsible for authenticating it.
func userID(c *gin.Context) (int64, bool) {
	var h userHeader
	if err := c.ShouldBindHeader(&h); err != nil || validate.Struct(h) != nil {
		c.JSON(http.StatusUnauthorized, errorResponse{Code: "UNAUTHENTICATED", Error: UserIDHeader + " header with a positive user id is required"})
		return 0, false
	}
	return h.UserID, true
}

type listOptionsQuery struct {
	Type        string `form:"type" validate:"omitempty,max=20"`
	Source      string `form:"source" validate:"omitempty,max=100"`
	Destination string `form:"destination" validate:"omitempty,max=100"`
}

func (q listOptionsQuery) filter() domain.TravelOptionFilter {
	return domain.TravelOptionFilter{Type: q.Type, Source: q.Source, Destination: q.Destination}
}

type listBookingsQuery struct {
	Limit int `form:"limit" validate:"gte=0,lte=1000"`
}

// createBookingRequest keeps seats as raw JSON so that fractional, quoted
// or missing values surface as INVALID_QUANTITY instead of a decode error.
type createBookingRequest struct {
	TravelOptionID string          `json:"travel_option_id" validate:"required,max=50"`
	Seats          json.RawMessage `json:"seats"`
}

// seats accepts only a bare JSON integer; "2" is rejected like 2.5.
func (r createBookingRequest) seats() (int, error) {
	raw := bytes.TrimSpace(r.Seats)
	if len(raw) == 0 || raw[0] == '"' {
		return 0, &domain.Error{Code: domain.CodeInvalidQuantity, Message: "seat count must be a positive integer"}
	}
	n, err := json.Number(raw).Int64()
	if err != nil || n > math.MaxInt32 || n < math.MinInt32 {
		return 0, &domain.Error{Code: domain.CodeInvalidQuantity, Message: "seat count must be a positive integer"}
	}
	return int(n), nil
}

func bindQuery(c *gin.Context, dst any) error {
	if err := c.ShouldBindQuery(dst); err != nil {
		return invalidInput(err)
	}
	if err := validate.Struct(dst); err != nil {
		return invalidInput(err)
	}
	return nil
}
