package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/Domenick1991/travelbooking/internal/domain"
	"github.com/Domenick1991/travelbooking/internal/logger"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

const codeInternal = "INTERNAL"

type errorResponse struct {
	Code  string `json:"code"`
	Error string `json:"error"`
}

// StatusFor maps a core error to its HTTP status. Anything without a
// domain code is a 500.
func StatusFor(err error) int {
	switch domain.CodeOf(err) {
	case domain.CodeInvalidQuantity, domain.CodeInvalidInput:
		return http.StatusBadRequest
	case domain.CodeNotFound:
		return http.StatusNotFound
	case domain.CodeInsufficientInventory, domain.CodeInvalidState, domain.CodeCapacityExceeded:
		return http.StatusConflict
	case domain.CodeConcurrencyConflict:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeError(c *gin.Context, log *logger.Logger, err error) {
	status := StatusFor(err)
	if status == http.StatusInternalServerError {
		log.Error("Request failed", "method", c.Request.Method, "path", c.FullPath(), "error", err)
		c.JSON(status, errorResponse{Code: codeInternal, Error: "internal server error"})
		return
	}

	var de *domain.Error
	errors.As(err, &de)
	c.JSON(status, errorResponse{Code: string(de.Code), Error: de.Message})
}

// invalidInput turns binding and validator failures into INVALID_INPUT.
func invalidInput(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return domain.InvalidInput(err.Error())
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s failed on %q", fe.Field(), fe.Tag()))
	}
	return domain.InvalidInput(strings.Join(msgs, "; "))
}
