package routes

import (
	"net/http"
	"strings"
	"time"

	"socialapi/handlers"
	"socialapi/metrics"
	"socialapi/middleware"
	"socialapi/websocket"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// SetupRouter registers every route on a fresh engine.
func SetupRouter(h *handlers.Handler, auth middleware.TokenParser, hub *websocket.Hub, origins []string) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestLogger(), metrics.Middleware())

	corsCfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", "Accept", "X-Requested-With"},
		ExposeHeaders: []string{"Content-Length", "Content-Type"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = origins
		corsCfg.AllowCredentials = true
	}
	router.Use(cors.New(corsCfg))

	router.GET("/", h.Root)
	router.GET("/health", h.Health)
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	// Accounts
	router.POST("/register", h.Register)
	router.POST("/login", h.Login)
	router.GET("/demoVerify", middleware.JWTAuth(auth), h.DemoVerify)
	router.GET("/get/profile/data/:userId", h.GetProfileData)

	api := router.Group("/api")

	// Posts
	api.GET("/posts", h.ListPosts)
	api.GET("/posts/:postId", h.GetPost)
	api.POST("/posts/edit/:postId", h.UpdatePost)
	api.POST("/user/post", h.CreatePost)

	// Users
	api.GET("/users", h.ListUsers)
	api.GET("/users/username", h.ListUserNames)
	api.GET("/users/:userId", h.GetUser)
	api.POST("/users/edit/:userId", h.UpdateUser)

	// Relationships
	api.DELETE("/:userId/posts/:postId", h.DeletePost)
	api.POST("/:userId/like/:postId", h.ToggleLike)
	api.POST("/:userId/bookmark/:postId", h.ToggleBookmark)
	api.POST("/:userId/follow/:followerId", h.ToggleFollow)
	api.POST("/:userId/comment/:postId", h.AddComment)

	// Realtime
	router.GET("/ws", middleware.JWTAuthQuery(auth), hub.ServeWS)

	router.NoRoute(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api") {
			c.JSON(http.StatusNotFound, gin.H{
				"message": "Endpoint not found",
				"path":    c.Request.URL.Path,
				"success": false,
			})
			return
		}
		c.JSON(http.StatusNotFound, gin.H{"message": "Not found", "success": false})
	})

	return router
}
