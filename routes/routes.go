// routes/routes.go
package routes

import (
	"context"
	"time"

	"wellnest/config"
	"wellnest/controllers"
	"wellnest/middleware"
	"wellnest/repositories"
	"wellnest/services"
	"wellnest/utils"
	"wellnest/websocket"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

const apiVersion = "1.0.0"

// App bundles everything main needs after wiring.
type App struct {
	Router       *gin.Engine
	Services     *Services
	Repositories *Repositories
}

// SetupRoutes wires repositories, services, controllers and middleware
// into a ready gin engine.
func SetupRoutes(cfg *config.Config, db *mongo.Database, redisClient *redis.Client, hub *websocket.Hub) *App {
	router := gin.New()

	repos := initializeRepositories(db)
	svcs := initializeServices(cfg, repos, redisClient, hub)
	ctrls := initializeControllers(cfg, svcs, repos, redisClient, hub)

	// Dynamic group-room joins over the websocket check live membership
	hub.CanJoinGroup = svcs.groupMembershipChecker(repos)

	authMiddleware := middleware.NewAuthMiddleware(svcs.JWT, repos.User, svcs.Auth)
	rateLimiter := middleware.NewRateLimiter(redisClient, cfg.RateLimitRequest, time.Duration(cfg.RateLimitWindow)*time.Minute)

	setupGlobalMiddleware(router, cfg)
	setupPublicRoutes(router, ctrls, rateLimiter)
	setupAuthenticatedRoutes(router, ctrls, authMiddleware, rateLimiter)
	setupWebSocketRoutes(router, ctrls)

	return &App{Router: router, Services: svcs, Repositories: repos}
}

type Repositories struct {
	User     *repositories.UserRepository
	Activity *repositories.ActivityRepository
	Group    *repositories.GroupRepository
}

func initializeRepositories(db *mongo.Database) *Repositories {
	return &Repositories{
		User:     repositories.NewUserRepository(db),
		Activity: repositories.NewActivityRepository(db),
		Group:    repositories.NewGroupRepository(db),
	}
}

type Services struct {
	JWT       *utils.JWTService
	Auth      *services.AuthService
	User      *services.UserService
	Friend    *services.FriendService
	Activity  *services.ActivityService
	Group     *services.GroupService
	Analytics *services.AnalyticsService
	Content   *services.ContentService
}

func initializeServices(cfg *config.Config, repos *Repositories, redisClient *redis.Client, hub *websocket.Hub) *Services {
	jwtService := utils.NewJWTService(
		cfg.JWTSecret,
		time.Duration(cfg.AccessTokenTTLMinutes)*time.Minute,
		time.Duration(cfg.RefreshTokenTTLHours)*time.Hour,
	)

	userService := services.NewUserService(repos.User)
	generator := services.NewGenerator(cfg)

	return &Services{
		JWT:       jwtService,
		Auth:      services.NewAuthService(repos.User, jwtService, redisClient),
		User:      userService,
		Friend:    services.NewFriendService(repos.User, hub),
		Activity:  services.NewActivityService(repos.Activity, repos.User, userService, hub),
		Group:     services.NewGroupService(repos.Group, repos.User, hub, cfg.MaxGroupMembers),
		Analytics: services.NewAnalyticsService(repos.Activity, repos.User, redisClient),
		Content:   services.NewContentService(generator, repos.User, redisClient, hub),
	}
}

// groupMembershipChecker validates dynamic websocket room joins against
// the group's current membership.
func (s *Services) groupMembershipChecker(repos *Repositories) func(ctx context.Context, userID, groupID string) bool {
	return func(ctx context.Context, userID, groupID string) bool {
		memberID, err := primitive.ObjectIDFromHex(userID)
		if err != nil {
			return false
		}
		group, err := repos.Group.GetByID(ctx, groupID)
		if err != nil {
			return false
		}
		return group.IsActiveMember(memberID)
	}
}

type Controllers struct {
	Auth      *controllers.AuthController
	User      *controllers.UserController
	Activity  *controllers.ActivityController
	Content   *controllers.ContentController
	Social    *controllers.SocialController
	Group     *controllers.GroupController
	Analytics *controllers.AnalyticsController
	WebSocket *controllers.WebSocketController
	Health    *controllers.HealthController
}

func initializeControllers(cfg *config.Config, svcs *Services, repos *Repositories, redisClient *redis.Client, hub *websocket.Hub) *Controllers {
	authMiddleware := middleware.NewAuthMiddleware(svcs.JWT, repos.User, svcs.Auth)

	return &Controllers{
		Auth:      controllers.NewAuthController(svcs.Auth),
		User:      controllers.NewUserController(svcs.User),
		Activity:  controllers.NewActivityController(svcs.Activity),
		Content:   controllers.NewContentController(svcs.Content, svcs.Activity),
		Social:    controllers.NewSocialController(svcs.Friend),
		Group:     controllers.NewGroupController(svcs.Group),
		Analytics: controllers.NewAnalyticsController(svcs.Analytics),
		WebSocket: controllers.NewWebSocketController(hub, authMiddleware),
		Health:    controllers.NewHealthController(redisClient, apiVersion),
	}
}

func setupGlobalMiddleware(router *gin.Engine, cfg *config.Config) {
	router.Use(middleware.Recovery())
	router.Use(middleware.RequestLogger())
	router.Use(middleware.CORS(cfg.AllowedOrigins))
	router.Use(middleware.ErrorHandler(cfg.Environment))
}

func setupPublicRoutes(router *gin.Engine, ctrls *Controllers, rateLimiter *middleware.RateLimiter) {
	router.GET("/health", ctrls.Health.Health)

	public := router.Group("/api/v1")
	public.Use(rateLimiter.Limit())
	{
		SetupAuthRoutes(public, ctrls.Auth)
	}
}

func setupAuthenticatedRoutes(router *gin.Engine, ctrls *Controllers, authMiddleware *middleware.AuthMiddleware, rateLimiter *middleware.RateLimiter) {
	api := router.Group("/api/v1")
	api.Use(authMiddleware.RequireAuth())
	api.Use(rateLimiter.Limit())

	SetupUserRoutes(api, ctrls.User)
	SetupActivityRoutes(api, ctrls.Activity)
	SetupContentRoutes(api, ctrls.Content)
	SetupSocialRoutes(api, ctrls.Social)
	SetupGroupRoutes(api, ctrls.Group)
	SetupAnalyticsRoutes(api, ctrls.Analytics)

	api.GET("/ws/stats", ctrls.WebSocket.GetStats)
}

func setupWebSocketRoutes(router *gin.Engine, ctrls *Controllers) {
	router.GET("/ws", ctrls.WebSocket.HandleConnection)
}
