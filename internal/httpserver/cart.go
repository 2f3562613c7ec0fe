package httpserver

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"luxe-atelier/internal/domain"
	cartsvc "luxe-atelier/internal/service/cart"
)

type cartHandler struct {
	svc    cartService
	logger *log.Logger
}

type updateQuantityRequest struct {
	Quantity *int `json:"quantity"`
}

func (h *cartHandler) get(c *gin.Context) {
	sum, err := h.svc.Get(c.Request.Context(), c.Param("cartKey"))
	h.respond(c, sum, err)
}

func (h *cartHandler) addItem(c *gin.Context) {
	var in domain.LineCandidate
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("invalid JSON body"))
		return
	}
	sum, err := h.svc.AddItem(c.Request.Context(), c.Param("cartKey"), in)
	h.respond(c, sum, err)
}

func (h *cartHandler) updateQuantity(c *gin.Context) {
	var in updateQuantityRequest
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("invalid JSON body"))
		return
	}
	if in.Quantity == nil {
		c.JSON(http.StatusBadRequest, errorResponse("quantity required"))
		return
	}
	sum, err := h.svc.UpdateQuantity(c.Request.Context(), c.Param("cartKey"), c.Param("lineId"), *in.Quantity)
	h.respond(c, sum, err)
}

func (h *cartHandler) removeItem(c *gin.Context) {
	sum, err := h.svc.RemoveItem(c.Request.Context(), c.Param("cartKey"), c.Param("lineId"))
	h.respond(c, sum, err)
}

func (h *cartHandler) clear(c *gin.Context) {
	sum, err := h.svc.Clear(c.Request.Context(), c.Param("cartKey"))
	h.respond(c, sum, err)
}

func (h *cartHandler) open(c *gin.Context) {
	sum, err := h.svc.Open(c.Request.Context(), c.Param("cartKey"))
	h.respond(c, sum, err)
}

func (h *cartHandler) close(c *gin.Context) {
	sum, err := h.svc.Close(c.Request.Context(), c.Param("cartKey"))
	h.respond(c, sum, err)
}

func (h *cartHandler) toggle(c *gin.Context) {
	sum, err := h.svc.Toggle(c.Request.Context(), c.Param("cartKey"))
	h.respond(c, sum, err)
}

func (h *cartHandler) respond(c *gin.Context, sum *cartsvc.Summary, err error) {
	switch {
	case err == nil:
		c.JSON(http.StatusOK, toCartResponse(*sum))
	case errors.Is(err, domain.ErrInvalidCartKey), errors.Is(err, domain.ErrInvalidLine):
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
	default:
		h.logger.Printf("cart %s %s: %v", c.Request.Method, c.FullPath(), err)
		c.JSON(http.StatusInternalServerError, errorResponse("internal error"))
	}
}

func errorResponse(msg string) gin.H {
	return gin.H{"error": msg}
}
