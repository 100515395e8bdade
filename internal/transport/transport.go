package transport

import (
	"errors"
	"net/http"
	"time"

	"github.com/ds124wfegd/eventhive/internal/entity"
	"github.com/ds124wfegd/eventhive/internal/transport/middleware"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type Handlers struct {
	Auth          *AuthHandler
	Events        *EventHandler
	Registrations *RegistrationHandler
	Volunteers    *VolunteerHandler
}

func InitRoutes(h Handlers, tokens *middleware.TokenManager, timeout time.Duration) *gin.Engine {

	router := gin.New()

	router.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Authorization, Content-Type, X-Request-ID")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	// Middleware
	router.Use(gin.Recovery())
	router.Use(middleware.Logger())
	router.Use(middleware.Timeout(timeout))

	router.POST("/login", h.Auth.Login)
	router.POST("/sign-up", h.Auth.SignUp)

	authed := router.Group("/", middleware.Auth(tokens))
	adminOnly := middleware.RequireRole(entity.RoleAdmin)
	{
		events := authed.Group("/events")
		{
			events.GET("/all-events/", h.Events.GetAllEvents)
			events.POST("/", adminOnly, h.Events.CreateEvent)
			events.PUT("/:id", adminOnly, h.Events.UpdateEvent)
			events.DELETE("/:id", adminOnly, h.Events.DeleteEvent)
			events.GET("/:id/users", adminOnly, h.Events.GetEventUsers)
		}

		registrations := authed.Group("/registrations")
		{
			registrations.POST("/", h.Registrations.Register)
			registrations.GET("/", h.Registrations.GetMyRegistrations)
			registrations.DELETE("/:event_id", h.Registrations.Unregister)
		}

		volunteers := authed.Group("/volunteers", adminOnly)
		{
			volunteers.POST("/:event_id/:user_id", h.Volunteers.Assign)
			volunteers.DELETE("/:event_id/:user_id", h.Volunteers.Remove)
		}
	}

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status": "ok",
			"time":   time.Now().UTC(),
		})
	})

	return router
}

// writeError answers with the status matching the error kind and the
// message in "detail".
func writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch entity.KindOf(err) {
	case entity.KindValidation:
		status = http.StatusBadRequest
	case entity.KindUnauthenticated:
		status = http.StatusUnauthorized
	case entity.KindForbidden:
		status = http.StatusForbidden
	case entity.KindConflict:
		status = http.StatusConflict
	case entity.KindNotFound:
		status = http.StatusNotFound
	}

	detail := err.Error()
	if status == http.StatusInternalServerError {
		logrus.WithError(err).Error("Unhandled error")
		detail = "internal server error"
	}
	c.AbortWithStatusJSON(status, gin.H{"detail": detail})
}

func badRequest(c *gin.Context, err error) {
	writeError(c, errors.Join(entity.ErrValidation, err))
}
