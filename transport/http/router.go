package http

import (
	"github.com/gin-gonic/gin"

	"github.com/layer-3/facegate/service"
)

// SetupRouter wires the verification-service routes onto a gin engine.
func SetupRouter(verifier *service.Verifier) *gin.Engine {
	router := gin.Default()

	handlers := NewVerifierHandlers(verifier)

	router.POST("/signup", handlers.Signup)
	router.POST("/signin", handlers.Signin)
	router.POST("/verify-captcha", handlers.VerifyCaptcha)

	// Logout tolerates a missing or stale token, so it skips the middleware
	router.POST("/logout", handlers.Logout)

	protected := router.Group("/")
	protected.Use(AuthMiddleware(verifier))
	{
		protected.GET("/me", handlers.Me)
	}

	return router
}
