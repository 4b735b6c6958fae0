package routes

import (
	"io"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"sevasetu/internal/auth"
	"sevasetu/internal/controllers"
	"sevasetu/internal/middleware"
	"sevasetu/internal/services"
)

// Dependencies is everything the router needs to build its handlers.
type Dependencies struct {
	DB          *gorm.DB
	Service     *services.Service
	Tokens      *auth.TokenService
	Hub         *controllers.LeaderboardHub
	AccessLog   io.Writer
	CORSOrigins []string
}

type handlers struct {
	auth         *controllers.AuthController
	tasks        *controllers.TaskController
	submissions  *controllers.SubmissionController
	certificates *controllers.CertificateController
	admin        *controllers.AdminController
	leaderboard  *controllers.LeaderboardController
	health       *controllers.HealthController
}

func SetupRouter(deps Dependencies) (*gin.Engine, error) {
	if err := controllers.RegisterValidators(); err != nil {
		return nil, err
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	if deps.AccessLog != nil {
		r.Use(middleware.AccessLog(deps.AccessLog, "/healthz"))
	}
	r.Use(middleware.CORS(deps.CORSOrigins))

	h := handlers{
		auth:         controllers.NewAuthController(deps.Service),
		tasks:        controllers.NewTaskController(deps.Service),
		submissions:  controllers.NewSubmissionController(deps.Service),
		certificates: controllers.NewCertificateController(deps.Service),
		admin:        controllers.NewAdminController(deps.Service),
		leaderboard:  controllers.NewLeaderboardController(deps.Service, deps.Hub),
		health:       controllers.NewHealthController(deps.DB),
	}

	r.GET("/healthz", h.health.Check)

	api := r.Group("/api")
	authed := api.Group("")
	authed.Use(middleware.RequireAuth(deps.Tokens))

	AuthRoutes(api, authed, h)
	PublicRoutes(api, h)
	VolunteerRoutes(authed, h)
	NGORoutes(authed, h)
	AdminRoutes(authed, h)
	WebSocketRoutes(r, h)

	return r, nil
}
