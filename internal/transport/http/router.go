package http

import (
	"log"
	"time"

	"github.com/KpG782/qr-registration/internal/cache"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// Deps carries everything the router wires. Redis, Verifier and CheckInLimiter
// are optional; a nil value disables caching, organizer auth and rate limiting.
type Deps struct {
	Events       EventService
	Categories   CategoryService
	Participants ParticipantService
	CheckIn      CheckInService
	Stats        StatsService

	PublicBaseURL  string
	CORSOrigins    []string
	TrustedProxies []string
	Logger         *log.Logger

	Redis    *redis.Client
	CacheTTL time.Duration

	Verifier       TokenVerifier
	CheckInLimiter *RateLimiter
}

// NewRouter builds the gin engine with every route registered.
func NewRouter(d Deps) *gin.Engine {
	logger := d.Logger
	if logger == nil {
		logger = log.Default()
	}

	r := gin.New()
	r.HandleMethodNotAllowed = true
	// Client IPs come from the TCP peer unless a trusted proxy forwarded the request.
	if err := r.SetTrustedProxies(d.TrustedProxies); err != nil {
		logger.Printf("WARN: invalid trusted proxies %v, trusting none: %v", d.TrustedProxies, err)
		_ = r.SetTrustedProxies(nil)
	}
	r.Use(gin.Recovery(), RequestLogger(d.Logger), CORS(d.CORSOrigins))
	r.NoRoute(NotFoundHandler())
	r.NoMethod(MethodNotAllowedHandler())

	r.GET("/health", HealthHandler)

	var purge []gin.HandlerFunc
	if d.Redis != nil {
		purge = append(purge, cache.NewInvalidator(d.Redis, d.Logger).PurgeOnWrite())
	}

	checkIn := r.Group("/check-in", purge...)
	if d.CheckInLimiter != nil {
		checkIn.Use(d.CheckInLimiter.Middleware(ClientIPKey))
	}
	checkIn.POST("", HandleIdentify(d.CheckIn))
	checkIn.PATCH("", HandleConfirm(d.CheckIn))

	r.GET("/categories/:id/qr", HandleCategoryQR(d.Categories, d.PublicBaseURL))
	r.GET("/categories/:id/qr-url", HandleCategoryQRURL(d.Categories, d.PublicBaseURL))

	organizer := r.Group("")
	if d.Verifier != nil {
		organizer.Use(RequireOrganizer(d.Verifier))
	}
	organizer.Use(purge...)
	if d.Redis != nil {
		organizer.Use(cache.ResponseCache(d.Redis, d.CacheTTL, d.Logger))
	}

	organizer.GET("/events", HandleListEvents(d.Events))
	organizer.POST("/events", HandleCreateEvent(d.Events))
	organizer.GET("/events/:id", HandleGetEvent(d.Events))
	organizer.PATCH("/events/:id", HandleUpdateEvent(d.Events))
	organizer.DELETE("/events/:id", HandleDeleteEvent(d.Events))
	organizer.GET("/events/:id/stats", HandleEventStats(d.Stats))

	organizer.GET("/categories", HandleListCategories(d.Categories))
	organizer.POST("/categories", HandleCreateCategory(d.Categories))
	organizer.GET("/categories/:id", HandleGetCategory(d.Categories))
	organizer.PATCH("/categories/:id", HandleUpdateCategory(d.Categories))
	organizer.DELETE("/categories/:id", HandleDeleteCategory(d.Categories))
	organizer.GET("/categories/:id/stats", HandleCategoryStats(d.Stats))

	organizer.GET("/participants", HandleListParticipants(d.Participants))
	organizer.GET("/participants/search", HandleFindParticipant(d.Participants))
	organizer.POST("/participants", HandleCreateParticipant(d.Participants))
	organizer.POST("/participants/bulk", HandleBulkCreateParticipants(d.Participants))
	organizer.POST("/participants/import", HandleImportParticipants(d.Participants))
	organizer.GET("/participants/:id", HandleGetParticipant(d.Participants))
	organizer.PATCH("/participants/:id", HandleUpdateParticipant(d.Participants))
	organizer.DELETE("/participants/:id", HandleDeleteParticipant(d.Participants))
	organizer.POST("/participants/:id/check-in", HandleCheckInParticipant(d.Participants))

	organizer.GET("/stats", HandleTotals(d.Stats))

	return r
}
