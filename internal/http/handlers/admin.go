package handlers

import (
	"net/http"
	"strings"

	"busline/internal/domain"

	"github.com/gin-gonic/gin"
)

// GET /api/admin/bookings?q=
func SearchBookings(c *gin.Context) {
	bookings, err := adminSvc().SearchBookings(c.Query("q"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookings": bookings})
}

type statusRequest struct {
	Status string `json:"status"`
}

// PUT /api/admin/bookings/:ticket/status
func SetBookingStatus(c *gin.Context) {
	var req statusRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	booking, err := adminSvc().SetBookingStatus(c.Param("ticket"), domain.Status(strings.ToLower(strings.TrimSpace(req.Status))))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"booking": booking})
}

type addRouteRequest struct {
	RouteTo       string  `json:"route_to"`
	DepartureTime string  `json:"departure_time"`
	Duration      string  `json:"duration"`
	Capacity      int     `json:"capacity"`
	Price         float64 `json:"price"`
}

// POST /api/admin/routes
func AddRoute(c *gin.Context) {
	var req addRouteRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	route, err := adminSvc().AddRoute(req.RouteTo, req.DepartureTime, req.Duration, req.Capacity, req.Price)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"route": route})
}

// DELETE /api/admin/routes?dest=
//
// Destructive: removes the pair's catalog entries and cascade-deletes its
// bookings and seat claims. The response carries the removed-row counts for
// operator confirmation.
func DeleteRoute(c *gin.Context) {
	dest := strings.TrimSpace(c.Query("dest"))

	res, err := adminSvc().DeleteRoute(dest)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"removed": res})
}

// GET /api/admin/stats?date=
func DailyStats(c *gin.Context) {
	report, err := statsSvc().DailyStats(strings.TrimSpace(c.Query("date")))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// GET /api/admin/users
func GetUsers(c *gin.Context) {
	users, err := adminSvc().ListUsers()
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}
