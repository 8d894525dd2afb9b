package app

import (
	httpMW "github.com/sitetrack/sitetrack-backend/internal/http/middleware"
	"github.com/sitetrack/sitetrack-backend/internal/pkg/logger"
)

type Middleware struct {
	Auth *httpMW.AuthMiddleware
}

func wireMiddleware(log *logger.Logger, s Services) Middleware {
	log.Info("Wiring middleware...")
	return Middleware{
		Auth: httpMW.NewAuthMiddleware(log, s.Auth),
	}
}
