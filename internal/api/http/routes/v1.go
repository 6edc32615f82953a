package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/trackly/tracker/internal/api/http/middleware"
	"github.com/trackly/tracker/internal/auth"
	authmw "github.com/trackly/tracker/internal/auth/middleware"
	dashboardhttp "github.com/trackly/tracker/internal/dashboard/http"
	dashboardservice "github.com/trackly/tracker/internal/dashboard/service"
	issuehttp "github.com/trackly/tracker/internal/issues/http"
	issuerepo "github.com/trackly/tracker/internal/issues/repository"
	issueservice "github.com/trackly/tracker/internal/issues/service"
	projectcache "github.com/trackly/tracker/internal/projects/cache"
	projecthttp "github.com/trackly/tracker/internal/projects/http"
	projectrepo "github.com/trackly/tracker/internal/projects/repository"
	projectservice "github.com/trackly/tracker/internal/projects/service"
	userhttp "github.com/trackly/tracker/internal/users/http"
	userrepo "github.com/trackly/tracker/internal/users/repository"
	userservice "github.com/trackly/tracker/internal/users/service"
)

type V1Deps struct {
	DB        *pgxpool.Pool
	Redis     *redis.Client
	Tokens    *auth.Tokens
	CacheTTL  time.Duration
	LoginRate int
	Dashboard *dashboardservice.DashboardService
}

func RegisterV1(r *gin.Engine, dep V1Deps) {
	api := r.Group("/api/v1")

	revocations := auth.NewRevocations(dep.Redis)
	requireUser := authmw.RequireUser(dep.Tokens, revocations)
	loginLimit := middleware.NewIPRateLimiter(dep.LoginRate, 10*time.Minute)

	users := userrepo.NewUserRepository(dep.DB)
	userHandler := userhttp.New(
		userservice.NewUserService(users),
		userservice.NewAuthService(users, dep.Tokens, revocations),
	)
	userHandler.RegisterAuth(api.Group("/auth"), loginLimit.Middleware(), requireUser)

	authed := api.Group("", requireUser)
	userHandler.RegisterMe(authed.Group("/users"))

	projects := projectservice.NewProjectService(
		projectrepo.NewProjectRepository(dep.DB),
		projectcache.NewProjectCache(dep.Redis, dep.CacheTTL),
	)
	projecthttp.New(projects).Register(authed.Group("/projects"))

	issues := issueservice.NewIssueService(issuerepo.NewIssueRepository(dep.DB), projects)
	issuehttp.New(issues).Register(authed.Group("/issues"))

	if dep.Dashboard != nil {
		dashboardhttp.New(dep.Dashboard).Register(authed.Group("/dashboard"))
	}
}
