// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"gramosi/internal/delivery/api/middleware"
	"gramosi/internal/delivery/api/router/handler"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

type RouterParams struct {
	fx.In

	AccountHandler *handler.AccountHandler
	ProfileHandler *handler.ProfileHandler
	PostHandler    *handler.PostHandler
	AuthMiddleware *middleware.AuthMiddleware
}

// router holds all the handlers that need to be registered.
type router struct {
	accountHandler *handler.AccountHandler
	profileHandler *handler.ProfileHandler
	postHandler    *handler.PostHandler
	authMiddleware *middleware.AuthMiddleware
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		accountHandler: params.AccountHandler,
		profileHandler: params.ProfileHandler,
		postHandler:    params.PostHandler,
		authMiddleware: params.AuthMiddleware,
	}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	protect := r.authMiddleware.Protect

	// Health check endpoint
	e.GET("/health", handler.HealthCheck)

	// Stored media, public so that image tags work without credentials
	e.GET("/media/*", r.postHandler.Media)

	apiV1 := e.Group("/api/v1")

	authGroup := apiV1.Group("/auth")
	{
		authGroup.POST("/signup", r.accountHandler.Signup)
		authGroup.POST("/login", r.accountHandler.Login)
		authGroup.POST("/logout", r.accountHandler.Logout)
		authGroup.POST("/forgot-password", r.accountHandler.ForgotPassword)
		authGroup.POST("/reset-password", r.accountHandler.ResetPassword)

		authGroup.POST("/verify", protect(r.accountHandler.Verify))
		authGroup.POST("/resend-otp", protect(r.accountHandler.ResendOTP))
		authGroup.POST("/change-password", protect(r.accountHandler.ChangePassword))
	}

	usersGroup := apiV1.Group("/users")
	{
		usersGroup.GET("/me", protect(r.profileHandler.GetMe))
		usersGroup.PUT("/me", protect(r.profileHandler.UpdateMe))
		usersGroup.GET("/suggested", protect(r.profileHandler.Suggested))
		usersGroup.POST("/qr/resolve", protect(r.profileHandler.ResolveQR))
		usersGroup.GET("/:id", protect(r.profileHandler.GetProfile))
		usersGroup.GET("/:id/posts", r.postHandler.ListUserPosts)
		usersGroup.GET("/:id/qr", protect(r.profileHandler.ProfileQR))
		usersGroup.POST("/:id/follow", protect(r.profileHandler.ToggleFollow))
	}

	postsGroup := apiV1.Group("/posts")
	{
		postsGroup.POST("", protect(r.postHandler.Create))
		postsGroup.GET("", r.postHandler.List)
		postsGroup.GET("/saved", protect(r.postHandler.ListSaved))
		postsGroup.DELETE("/:id", protect(r.postHandler.Delete))
		postsGroup.POST("/:id/like", protect(r.postHandler.ToggleLike))
		postsGroup.POST("/:id/save", protect(r.postHandler.ToggleSave))
		postsGroup.POST("/:id/comments", protect(r.postHandler.AddComment))
		postsGroup.GET("/:id/comments", protect(r.postHandler.ListComments))
	}
}
