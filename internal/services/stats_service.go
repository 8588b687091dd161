package services

import (
	"database/sql"
	"fmt"
	"sort"

	intconfig "busline/internal/config"
	"busline/internal/domain"
	"busline/internal/domain/models"
	"busline/internal/repositories"
	"busline/internal/utils"
)

// RouteCount pairs an origin-destination label with its order count.
type RouteCount struct {
	Route  string `json:"route"`
	Orders int    `json:"orders"`
}

// StatsReport is the daily aggregation shown on the console dashboard.
type StatsReport struct {
	Date           string       `json:"date"`
	Orders         int          `json:"orders"`
	Revenue        float64      `json:"revenue"`
	AvgPerOrder    float64      `json:"avg_per_order"`
	SeatsRemaining int          `json:"seats_remaining"`
	TopRoutes      []RouteCount `json:"top_routes"`
	LeastRoute     *RouteCount  `json:"least_route,omitempty"`
}

type StatsService struct {
	RouteRepo   repositories.RouteRepo
	SeatRepo    repositories.SeatClaimRepo
	BookingRepo repositories.BookingRepo
	DB          *sql.DB
}

func (s StatsService) db() *sql.DB {
	if s.DB != nil {
		return s.DB
	}
	return intconfig.DB
}

func (s StatsService) routes() repositories.RouteRepo {
	if s.RouteRepo.DB != nil {
		return s.RouteRepo
	}
	return repositories.RouteRepo{DB: s.db()}
}

func (s StatsService) seats() repositories.SeatClaimRepo {
	if s.SeatRepo.DB != nil {
		return s.SeatRepo
	}
	return repositories.SeatClaimRepo{DB: s.db()}
}

func (s StatsService) bookings() repositories.BookingRepo {
	if s.BookingRepo.DB != nil {
		return s.BookingRepo
	}
	return repositories.BookingRepo{DB: s.db()}
}

// DailyStats aggregates one calendar date: order count and revenue over
// non-cancelled bookings, remaining seats across the whole catalog, and the
// busiest/least-booked origin-destination pairs.
func (s StatsService) DailyStats(date string) (StatsReport, error) {
	if _, err := utils.ParseDate(date); err != nil {
		return StatsReport{}, domain.ValidationError{Field: "date", Msg: "expected YYYY-MM-DD", Err: err}
	}

	bookings, err := s.bookings().ListActiveByDate(date)
	if err != nil {
		return StatsReport{}, err
	}
	catalog, err := s.routes().ListAll()
	if err != nil {
		return StatsReport{}, err
	}
	claimCounts, err := s.seats().CountsByTrip(date)
	if err != nil {
		return StatsReport{}, err
	}

	return computeDailyStats(date, bookings, catalog, claimCounts), nil
}

// computeDailyStats is the pure aggregation core. Ranking is by
// origin-destination pair only; seat usage is subtracted per exact trip
// instance, so a pair offered at three departure times counts once in the
// ranking but three times in capacity.
func computeDailyStats(date string, bookings []models.Booking, catalog []models.Route, claimCounts map[[3]string]int) StatsReport {
	report := StatsReport{Date: date, Orders: len(bookings), TopRoutes: []RouteCount{}}

	byPair := map[string]int{}
	for _, b := range bookings {
		report.Revenue += b.Price + b.VAT
		byPair[fmt.Sprintf("%s → %s", b.RouteFrom, b.RouteTo)]++
	}
	report.Revenue = utils.Round2(report.Revenue)
	if report.Orders > 0 {
		report.AvgPerOrder = utils.Round2(report.Revenue / float64(report.Orders))
	}

	for _, rt := range catalog {
		remaining := rt.Capacity - claimCounts[[3]string{rt.RouteFrom, rt.RouteTo, rt.DepartureTime}]
		if remaining < 0 {
			remaining = 0
		}
		report.SeatsRemaining += remaining
	}

	ranked := make([]RouteCount, 0, len(byPair))
	for route, orders := range byPair {
		ranked = append(ranked, RouteCount{Route: route, Orders: orders})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Orders != ranked[j].Orders {
			return ranked[i].Orders > ranked[j].Orders
		}
		return ranked[i].Route < ranked[j].Route
	})
	if len(ranked) > 3 {
		report.TopRoutes = ranked[:3]
	} else {
		report.TopRoutes = ranked
	}

	if len(ranked) > 0 {
		least := ranked[len(ranked)-1]
		for i := len(ranked) - 1; i >= 0; i-- {
			// Lowest count wins; ties break by route name ascending.
			if ranked[i].Orders == least.Orders && ranked[i].Route < least.Route {
				least = ranked[i]
			}
		}
		report.LeastRoute = &least
	}

	return report
}
