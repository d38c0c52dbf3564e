package routes

import (
	"context"
	"time"

	"homyhive/internal/adapters/http/handlers"
	"homyhive/internal/adapters/http/middleware"
	"homyhive/internal/adapters/persistence/repositories"
	"homyhive/internal/adapters/reviewstore"
	"homyhive/internal/config"
	"homyhive/internal/core/services"
	"homyhive/internal/pkg/logger"
	"homyhive/internal/pkg/validator"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/gofiber/swagger"
	"gorm.io/gorm"
)

// statsCacheTTL is how long browsers may cache the public discovery endpoints
const statsCacheTTL = 5 * time.Minute

// Deps are the stores and upstream clients the routes are built on.
// Optional clients are left nil when not configured.
type Deps struct {
	Config         *config.Config
	Log            logger.Logger
	DB             *gorm.DB
	Reviews        reviewstore.Store
	Sessions       *session.Store
	LimiterStorage fiber.Storage
	Validator      *validator.Validator
	Payments       services.PaymentGateway
	Images         services.ImageUploader
	Geocoder       services.Geocoder
	Mail           services.EmailSender
	SMS            services.SMSSender
	Chat           services.ChatBackend
	Identity       services.IdentityProvider
	Health         func(ctx context.Context) map[string]string
}

// Setup configures all routes for the application and returns the
// scheduler that keeps the stores tidy. The caller starts and stops it.
func Setup(app *fiber.App, deps Deps) *services.CronService {
	cfg := deps.Config
	log := deps.Log

	// Initialize repositories
	userRepo := repositories.NewUserRepository(deps.DB)
	appRepo := repositories.NewHostApplicationRepository(deps.DB)
	listingRepo := repositories.NewListingRepository(deps.DB)
	bookingRepo := repositories.NewBookingRepository(deps.DB)
	orderRepo := repositories.NewPaymentOrderRepository(deps.DB)
	notificationRepo := repositories.NewNotificationRepository(deps.DB)
	newsletterRepo := repositories.NewNewsletterRepository(deps.DB)

	// Initialize services
	notificationService := services.NewNotificationService(notificationRepo, userRepo, deps.Mail, deps.SMS, deps.Validator, log)
	identityService := services.NewIdentityService(userRepo, deps.Identity, deps.Mail, deps.Validator, cfg.Supabase.JWTSecret, log)
	hostService := services.NewHostApplicationService(appRepo, listingRepo, deps.Images, deps.Geocoder, deps.Payments, deps.Validator, log)
	adminService := services.NewAdminService(appRepo, listingRepo, identityService, notificationService, deps.Geocoder, log)
	listingService := services.NewListingService(listingRepo, appRepo, deps.Reviews, deps.Images, deps.Geocoder, orderRepo, deps.Payments, notificationService, deps.Validator, log)
	reviewService := services.NewReviewService(deps.Reviews, listingRepo, notificationService, deps.Validator, log)
	bookingService := services.NewBookingService(bookingRepo, listingRepo, orderRepo, deps.Payments, notificationService, log)
	dashboardService := services.NewDashboardService(appRepo, listingRepo, bookingRepo, userRepo)
	supportService := services.NewSupportService(newsletterRepo, deps.Mail, deps.Validator, log)
	chatService := services.NewChatService(deps.Chat, log)
	cronService := services.NewCronService(reviewService, listingService, log)

	// Initialize handlers
	resp := handlers.NewResponder(deps.Sessions, log)
	h := routeHandlers{
		health:        handlers.NewHealthHandler(cfg.AppMode, deps.health()),
		auth:          handlers.NewAuthHandler(identityService, deps.Sessions, resp),
		listing:       handlers.NewListingHandler(listingService, resp),
		review:        handlers.NewReviewHandler(reviewService, resp),
		host:          handlers.NewHostHandler(hostService, resp),
		admin:         handlers.NewAdminHandler(adminService, resp),
		dashboard:     handlers.NewDashboardHandler(dashboardService, resp),
		payment:       handlers.NewPaymentHandler(bookingService, resp),
		notification:  handlers.NewNotificationHandler(notificationService, resp),
		support:       handlers.NewSupportHandler(supportService, resp),
		chat:          handlers.NewChatHandler(chatService, resp),
		authLimiter:   middleware.AuthRateLimiter(deps.LimiterStorage),
		strictLimiter: middleware.StrictRateLimiter(deps.LimiterStorage),
	}

	// Health check & root routes
	app.Get("/", h.health.Root)
	app.Get("/health", h.health.HealthCheck)
	app.Get("/metrics", h.health.Metrics())

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	// Every route below knows who is calling
	app.Use(middleware.Auth(identityService, deps.Sessions, log))

	mount(app, h)
	return cronService
}

func (d Deps) health() func(ctx context.Context) map[string]string {
	if d.Health != nil {
		return d.Health
	}
	return config.HealthReport
}

type routeHandlers struct {
	health        *handlers.HealthHandler
	auth          *handlers.AuthHandler
	listing       *handlers.ListingHandler
	review        *handlers.ReviewHandler
	host          *handlers.HostHandler
	admin         *handlers.AdminHandler
	dashboard     *handlers.DashboardHandler
	payment       *handlers.PaymentHandler
	notification  *handlers.NotificationHandler
	support       *handlers.SupportHandler
	chat          *handlers.ChatHandler
	authLimiter   fiber.Handler
	strictLimiter fiber.Handler
}

func mount(app *fiber.App, h routeHandlers) {
	requireAuth := middleware.RequireAuth()

	setupAuthRoutes(app, h, requireAuth)
	setupListingRoutes(app, h, requireAuth)
	setupHostRoutes(app, h, requireAuth)
	setupAdminRoutes(app, h)
	setupPaymentRoutes(app, h, requireAuth)
	setupNotificationRoutes(app, h, requireAuth)

	// Support and chat
	app.Post("/contact", h.support.Contact)
	app.Post("/newsletter", h.support.Subscribe)
	app.Get("/chat", h.chat.Config)
	app.Post("/api/chat", h.authLimiter, h.chat.Ask)
}

// setupAuthRoutes configures authentication routes
func setupAuthRoutes(router fiber.Router, h routeHandlers, requireAuth fiber.Handler) {
	router.Post("/signup", h.authLimiter, h.auth.Signup)
	router.Post("/verify-otp", h.strictLimiter, h.auth.VerifyOTP)
	router.Post("/login", h.authLimiter, h.auth.Login)
	router.Post("/logout", h.auth.Logout)
	router.Get("/me", requireAuth, middleware.NoCacheHeaders(), h.auth.Me)
}

// setupListingRoutes configures listing and review routes
func setupListingRoutes(router fiber.Router, h routeHandlers, requireAuth fiber.Handler) {
	listings := router.Group("/listings")

	// Public discovery
	listings.Get("/", h.listing.Index)
	listings.Get("/api/search-suggestions", h.listing.Suggestions)
	listings.Get("/api/category-stats", middleware.CacheControl(statsCacheTTL), h.listing.CategoryStats)
	listings.Get("/api/popular-destinations", middleware.CacheControl(statsCacheTTL), h.listing.PopularDestinations)
	listings.Get("/:id", h.listing.Show)

	// Owner actions
	listings.Post("/", requireAuth, h.listing.Create)
	listings.Put("/:id", requireAuth, h.listing.Update)
	listings.Delete("/:id", requireAuth, h.listing.Delete)
	listings.Post("/:id/promote/order", requireAuth, h.listing.PromoteOrder)
	listings.Post("/:id/promote/verify", requireAuth, h.strictLimiter, h.listing.PromoteVerify)

	// Reviews
	listings.Post("/:id/reviews", requireAuth, h.review.Create)
	listings.Delete("/:id/reviews/:reviewId", requireAuth, h.review.Delete)
}

// setupHostRoutes configures host registration and onboarding routes
func setupHostRoutes(router fiber.Router, h routeHandlers, requireAuth fiber.Handler) {
	host := router.Group("/host")

	host.Post("/register", h.authLimiter, h.host.Register)
	host.Post("/upload/:applicationId", h.host.Upload)
	host.Get("/status/:applicationId", middleware.NoCacheHeaders(), h.host.Status)
	host.Post("/check-email", h.host.CheckEmail)
	host.Post("/verify-phone", h.host.VerifyPhone)
	host.Post("/verify-ifsc", h.host.VerifyIFSC)
	host.Post("/verify-pincode", h.host.VerifyPincode)
	host.Post("/verify-id", requireAuth, h.host.VerifyID)
	host.Post("/onboarding-complete", requireAuth, h.host.CompleteOnboarding)
	host.Post("/onboarding-fee/order", h.host.OnboardingOrder)
	host.Post("/onboarding-fee/verify", h.strictLimiter, h.host.OnboardingVerify)
}

// setupAdminRoutes configures admin routes (Admin only)
func setupAdminRoutes(router fiber.Router, h routeHandlers) {
	admin := router.Group("/admin", middleware.AdminOnly(), middleware.NoCacheHeaders())

	admin.Get("/dashboard", h.dashboard.GetAdminDashboard)
	admin.Get("/host-requests", h.dashboard.GetHostRequests)
	admin.Get("/host-requests/:id", h.dashboard.GetHostRequest)
	admin.Put("/host-requests/:id/status", h.admin.UpdateStatus)
	admin.Post("/host-requests/:id/approve", h.admin.Approve)
	admin.Post("/host-requests/:id/reject", h.admin.Reject)
	admin.Post("/host-requests/:id/enable-property", h.admin.EnableProperty)
	admin.Post("/host-requests/:id/notes", h.admin.AddNote)
	admin.Get("/pending-approvals", h.dashboard.GetPendingApprovals)
}

// setupPaymentRoutes configures quote, booking and payment routes
func setupPaymentRoutes(router fiber.Router, h routeHandlers, requireAuth fiber.Handler) {
	router.Post("/quote", h.payment.Quote)
	router.Post("/create-order", requireAuth, h.payment.CreateOrder)
	router.Post("/verify-payment", requireAuth, h.strictLimiter, h.payment.VerifyPayment)
	router.Get("/user/bookings", requireAuth, middleware.NoCacheHeaders(), h.payment.MyBookings)
}

// setupNotificationRoutes configures in-app notification routes
func setupNotificationRoutes(router fiber.Router, h routeHandlers, requireAuth fiber.Handler) {
	notifications := router.Group("/api/notifications", requireAuth, middleware.NoCacheHeaders())

	notifications.Get("/", h.notification.List)
	notifications.Get("/unread-count", h.notification.UnreadCount)
	notifications.Post("/mark-read", h.notification.MarkRead)
	notifications.Post("/mark-all-read", h.notification.MarkAllRead)
	notifications.Post("/", h.notification.Create)
}
