package routes

import (
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"voicedesk-backend/controllers"
	"voicedesk-backend/middleware"
)

func parseCorsOrigins() []string {
	raw := strings.TrimSpace(os.Getenv("CORS_ORIGINS"))
	if raw == "" {
		return []string{"*"}
	}

	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, part := range parts {
		origin := strings.TrimSpace(part)
		if origin != "" {
			origins = append(origins, origin)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}

// SetupRouter wires the controller instances into the gin engine.
func SetupRouter(
	ac *controllers.AssignmentController,
	kc *controllers.KnowledgeController,
	rc *controllers.ReservationController,
	tc *controllers.ToolController,
	logger *zap.SugaredLogger,
) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(logger))

	origins := parseCorsOrigins()
	allowCredentials := true
	for _, origin := range origins {
		if origin == "*" {
			allowCredentials = false
			break
		}
	}

	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: allowCredentials,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	{
		assignments := api.Group("/assignments")
		{
			assignments.GET("", ac.ListForBot)
			assignments.POST("", ac.Assign)
			assignments.DELETE("/:id", ac.Unassign)
		}

		documents := api.Group("/knowledge-documents")
		{
			documents.GET("", kc.List)
			documents.POST("", kc.Create)
			documents.GET("/:id", kc.Get)
			documents.PUT("/:id/texts", kc.PutTexts)
			documents.PUT("/:id/mirror", kc.SetMirror)
		}

		bots := api.Group("/bots")
		{
			bots.GET("", controllers.GetBots)
			bots.POST("", controllers.CreateBot)
			bots.GET("/:id", controllers.GetBotByID)
			bots.PUT("/:id", controllers.UpdateBot)
			bots.DELETE("/:id", controllers.DeleteBot)
		}

		customers := api.Group("/customers")
		{
			customers.GET("", controllers.GetCustomers)
			customers.POST("", controllers.CreateCustomer)
			customers.GET("/:id", controllers.GetCustomerByID)
			customers.PUT("/:id", controllers.UpdateCustomer)
		}

		roomTypes := api.Group("/room-types")
		{
			roomTypes.GET("", controllers.GetRoomTypes)
			roomTypes.POST("", controllers.CreateRoomType)
			roomTypes.PUT("/:id", controllers.UpdateRoomType)
			roomTypes.DELETE("/:id", controllers.DeleteRoomType)
			roomTypes.POST("/:id/price-rules", controllers.CreatePriceRule)
			roomTypes.DELETE("/:id/price-rules/:ruleId", controllers.DeletePriceRule)
			roomTypes.PUT("/:id/availability", controllers.UpsertAvailability)
		}

		reservations := api.Group("/reservations")
		{
			reservations.GET("", rc.List)
			reservations.POST("", rc.Create)
			reservations.GET("/:id", rc.Get)
			reservations.PATCH("/:id/status", rc.ChangeStatus)
		}

		// Call-time tool queries from the voice platform.
		tools := api.Group("/tools")
		{
			tools.GET("/room-types", tc.RoomTypes)
			tools.GET("/pricing", tc.Pricing)
			tools.GET("/availability", tc.Availability)
			tools.GET("/facility", tc.Facility)
		}
	}

	return r
}
