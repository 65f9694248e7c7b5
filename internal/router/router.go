package router

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/yukikurage/roster-api/internal/auth"
	"github.com/yukikurage/roster-api/internal/config"
	"github.com/yukikurage/roster-api/internal/constants"
	apierrors "github.com/yukikurage/roster-api/internal/errors"
	"github.com/yukikurage/roster-api/internal/handlers"
	"github.com/yukikurage/roster-api/internal/middleware"
	"github.com/yukikurage/roster-api/internal/models"
	"github.com/yukikurage/roster-api/internal/repository"
	"github.com/yukikurage/roster-api/internal/services"
)

// Deps is everything the router needs to build its handlers.
type Deps struct {
	Config       *config.Config
	DB           *gorm.DB
	Logger       *zap.Logger
	Revocations  auth.RevocationStore
	SessionStore sessions.Store
	Registry     *prometheus.Registry
}

// NewSessionStore returns a redis-backed session store when redis is
// configured and a signed cookie store otherwise.
func NewSessionStore(cfg *config.Config) (sessions.Store, error) {
	secret := []byte(cfg.Session.Secret)
	if cfg.Redis.Enabled() {
		store, err := redisStore.NewStore(10, "tcp", cfg.Redis.Addr, "", cfg.Redis.Password, secret)
		if err != nil {
			return nil, err
		}
		return store, nil
	}
	return cookie.NewStore(secret), nil
}

// New wires repositories, services and handlers onto a gin engine.
func New(deps Deps) *gin.Engine {
	cfg := deps.Config

	userRepo := repository.NewUserRepository(deps.DB)
	orgRepo := repository.NewOrganizationRepository(deps.DB)
	personRepo := repository.NewPersonRepository(deps.DB)
	teamRepo := repository.NewTeamRepository(deps.DB)
	positionRepo := repository.NewPositionRepository(deps.DB)
	serviceRepo := repository.NewServiceRepository(deps.DB)

	tokens := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.ExpireHours)
	authService := services.NewAuthService(userRepo, orgRepo, tokens, deps.Revocations, cfg.DefaultOrg, deps.Logger)
	orgService := services.NewOrganizationService(orgRepo)
	personService := services.NewPersonService(personRepo, teamRepo, positionRepo)
	teamService := services.NewTeamService(teamRepo, personRepo, positionRepo, deps.Logger)
	positionService := services.NewPositionService(positionRepo, teamRepo)
	scheduleService := services.NewScheduleService(serviceRepo, personRepo, positionRepo)

	authHandler := handlers.NewAuthHandler(authService, cfg.JWT.CookieExpireDays, cfg.IsProduction())
	orgHandler := handlers.NewOrganizationHandler(orgService)
	personHandler := handlers.NewPersonHandler(personService)
	teamHandler := handlers.NewTeamHandler(teamService)
	positionHandler := handlers.NewPositionHandler(positionService)
	scheduleHandler := handlers.NewScheduleHandler(scheduleService)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.Logger(deps.Logger))
	r.Use(middleware.CORS(cfg.CORSOrigins))
	if cfg.Metrics && deps.Registry != nil {
		r.Use(middleware.NewMetrics(deps.Registry).Handler())
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{})))
	}
	r.Use(sessions.Sessions(constants.SessionCookieName, deps.SessionStore))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Roster API is running",
		})
	})

	requireAuth := middleware.RequireAuth(authService)

	api := r.Group("/api")
	{
		authRoutes := api.Group("/auth")
		{
			authRoutes.POST("/register", authHandler.Register)
			authRoutes.POST("/login", authHandler.Login)
			authRoutes.GET("/logout", authHandler.Logout)
			authRoutes.GET("/me", requireAuth, authHandler.Me)
			authRoutes.PUT("/password", requireAuth, authHandler.ChangePassword)
		}

		org := api.Group("/organization")
		org.Use(requireAuth)
		{
			org.GET("", middleware.RequireOrganization(orgService), orgHandler.GetOrganization)
			org.PUT("", middleware.RequireRole(models.UserRoleAdmin), orgHandler.UpdateOrganization)
		}

		people := api.Group("/people")
		people.Use(requireAuth)
		{
			people.GET("", personHandler.ListPeople)
			people.POST("", personHandler.CreatePerson)
			people.GET("/:id", personHandler.GetPerson)
			people.PUT("/:id", personHandler.UpdatePerson)
			people.DELETE("/:id", personHandler.DeletePerson)
		}

		teams := api.Group("/teams")
		teams.Use(requireAuth)
		{
			teams.GET("", teamHandler.ListTeams)
			teams.POST("", teamHandler.CreateTeam)
			teams.GET("/:id", teamHandler.GetTeam)
			teams.PUT("/:id", teamHandler.UpdateTeam)
			teams.DELETE("/:id", teamHandler.DeleteTeam)
			teams.POST("/:id/members", teamHandler.AddMember)
			teams.PUT("/:id/members/:personId", teamHandler.UpdateMember)
			teams.DELETE("/:id/members/:personId", teamHandler.RemoveMember)
		}

		positions := api.Group("/positions")
		positions.Use(requireAuth)
		{
			positions.GET("", positionHandler.ListPositions)
			positions.POST("", positionHandler.CreatePosition)
			positions.GET("/:id", positionHandler.GetPosition)
			positions.PUT("/:id", positionHandler.UpdatePosition)
			positions.DELETE("/:id", positionHandler.DeletePosition)
		}

		schedule := api.Group("/services")
		schedule.Use(requireAuth)
		{
			schedule.GET("", scheduleHandler.ListServices)
			schedule.POST("", scheduleHandler.CreateService)
			schedule.GET("/:id", scheduleHandler.GetService)
			schedule.PUT("/:id", scheduleHandler.UpdateService)
			schedule.DELETE("/:id", scheduleHandler.DeleteService)
			schedule.POST("/:id/items", scheduleHandler.AddItem)
			schedule.PUT("/:id/items/:itemId", scheduleHandler.UpdateItem)
			schedule.DELETE("/:id/items/:itemId", scheduleHandler.DeleteItem)
		}
	}

	r.NoRoute(func(c *gin.Context) {
		apierrors.RespondNotFound(c, "Route not found")
	})

	return r
}
