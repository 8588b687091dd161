package handlers

import (
	intconfig "busline/internal/config"
	"busline/internal/services"
)

var (
	jwtSecret = []byte("busline-dev-secret-change-me")
	hubOrigin = "Khon Kaen"
)

// Configure wires the handler package to the loaded environment. Must run
// before the router starts serving.
func Configure(env intconfig.Env) {
	jwtSecret = []byte(env.JWTSecret)
	hubOrigin = env.HubOrigin
}

// JWTSecret exposes the signing key to the router's auth middleware.
func JWTSecret() []byte { return jwtSecret }

func bookingSvc() services.BookingService {
	return services.BookingService{Hub: hubOrigin}
}

func adminSvc() services.AdminService {
	return services.AdminService{Hub: hubOrigin}
}

func statsSvc() services.StatsService {
	return services.StatsService{}
}

func authSvc() services.AuthService {
	return services.AuthService{}
}
