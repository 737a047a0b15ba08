package api

import (
	"net/http"

	"github.com/Domenick1991/travelbooking/internal/logger"
	"github.com/Domenick1991/travelbooking/internal/service/travel"
	"github.com/gin-gonic/gin"
)

type TravelOptionHandler struct {
	service travel.TravelUseCase
	log     *logger.Logger
}

func NewTravelOptionHandler(service travel.TravelUseCase, log *logger.Logger) *TravelOptionHandler {
	return &TravelOptionHandler{service: service, log: log}
}

func (h *TravelOptionHandler) Register(router *gin.RouterGroup) {
	router.GET("", h.list)
	router.GET("/:id", h.get)
}

func (h *TravelOptionHandler) list(c *gin.Context) {
	var q listOptionsQuery
	if err := bindQuery(c, &q); err != nil {
		writeError(c, h.log, err)
		return
	}

	options, err := h.service.List(c.Request.Context(), q.filter())
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, options)
}

func (h *TravelOptionHandler) get(c *gin.Context) {
	option, err := h.service.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, option)
}
