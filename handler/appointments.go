package handler

import (
	"net/http"
	"strings"

	"github.com/AnTengye/mediconnect/discovery"
	"github.com/AnTengye/mediconnect/service"
	"github.com/gin-gonic/gin"
)

type AppointmentHandler struct {
	book *service.AppointmentBook
}

func NewAppointmentHandler(book *service.AppointmentBook) *AppointmentHandler {
	return &AppointmentHandler{book: book}
}

// List returns a filtered page of appointments
func (h *AppointmentHandler) List(c *gin.Context) {
	page, err := pageFromQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	criteria := discovery.AppointmentCriteria{
		Status: strings.ToUpper(c.Query("status")),
		Date:   c.Query("date"),
		Search: c.Query("q"),
	}
	matches := discovery.FilterAppointments(h.book.All(), criteria)
	res := discovery.Paginate(matches, page, discovery.AppointmentPageSize)

	c.JSON(http.StatusOK, gin.H{
		"appointments": res.Items,
		"page":         res.Number,
		"page_size":    res.PageSize,
		"total_pages":  res.TotalPages,
		"total":        res.TotalItems,
		"criteria":     criteria,
	})
}

// Get returns one appointment
func (h *AppointmentHandler) Get(c *gin.Context) {
	a, ok := h.book.Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Appointment not found"})
		return
	}
	c.JSON(http.StatusOK, a)
}
