package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// GET /api/routes
func ListRoutes(c *gin.Context) {
	routes, err := adminSvc().ListRoutes()
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"routes": routes})
}

// GET /api/trips?dest=
func SearchTrips(c *gin.Context) {
	dest := strings.TrimSpace(c.Query("dest"))
	trips, err := bookingSvc().SearchTrips(dest)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"trips": trips})
}

// GET /api/seats?dest=&date=&time=
//
// Returns both views of the seat map: what is free and what is claimed. An
// unknown trip yields empty free seats and no error.
func GetSeats(c *gin.Context) {
	dest := strings.TrimSpace(c.Query("dest"))
	date := strings.TrimSpace(c.Query("date"))
	depTime := strings.TrimSpace(c.Query("time"))

	svc := bookingSvc()
	claimed, err := svc.ClaimedSeats(date, dest, depTime)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	free, err := svc.FreeSeats(date, dest, depTime)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"free": free, "claimed": claimed})
}
