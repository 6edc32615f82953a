package bootstrap

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	httpapi "github.com/trackly/tracker/internal/api/http"
	"github.com/trackly/tracker/internal/api/http/middleware"
	"github.com/trackly/tracker/internal/api/http/routes"
	"github.com/trackly/tracker/internal/auth"
	dashboardservice "github.com/trackly/tracker/internal/dashboard/service"
)

type RouterDeps struct {
	ServiceName string
	Version     string
	CORSOrigins []string
	LoginRate   int
	CacheTTL    time.Duration
	DB          *pgxpool.Pool
	Redis       *redis.Client
	Tokens      *auth.Tokens
	Dashboard   *dashboardservice.DashboardService
}

func BuildRouter(dep RouterDeps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.CORS(dep.CORSOrigins))

	healthHandler := httpapi.NewHealthHandler(dep.ServiceName, dep.Version, dep.DB, dep.Redis)
	healthHandler.RegisterRoutes(r)

	routes.RegisterV1(r, routes.V1Deps{
		DB:        dep.DB,
		Redis:     dep.Redis,
		Tokens:    dep.Tokens,
		CacheTTL:  dep.CacheTTL,
		LoginRate: dep.LoginRate,
		Dashboard: dep.Dashboard,
	})

	return r
}
