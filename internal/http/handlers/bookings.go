package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"busline/internal/http/middleware"
	"busline/internal/services"

	"github.com/gin-gonic/gin"
)

// POST /api/bookings
func CreateBooking(c *gin.Context) {
	var req services.CommitRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	booking, err := bookingSvc().CommitBooking(req)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"booking": booking})
}

// GET /api/bookings/:ticket
func GetBooking(c *gin.Context) {
	ticketNo := strings.TrimSpace(c.Param("ticket"))

	booking, claims, err := bookingSvc().GetBooking(ticketNo)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"booking": booking, "seats": claims})
}

// GET /api/bookings/:ticket/pdf
func GetBookingPDF(c *gin.Context) {
	ticketNo := strings.TrimSpace(c.Param("ticket"))

	svc := services.DocsService{RequestID: middleware.GetRequestID(c)}
	pdf, filename, err := svc.GenerateTicketPDF(ticketNo)
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/pdf", pdf)
}
