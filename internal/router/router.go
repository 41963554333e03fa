package router

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"devblog/internal/auth"
	"devblog/internal/config"
	"devblog/internal/handler"
)

// Handlers groups every HTTP handler the router mounts.
type Handlers struct {
	Auth      *handler.AuthHandler
	Blog      *handler.BlogHandler
	Chat      *handler.ChatHandler
	Dashboard *handler.DashboardHandler
	User      *handler.UserHandler
	// Metrics serves the Prometheus exposition format; nil disables /metrics.
	Metrics http.Handler
}

// Register wires routes and middleware.
func Register(e *echo.Echo, cfg *config.Config, tokenStore auth.TokenStoreInterface, h Handlers) {
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	e.Validator = &CustomValidator{validator: validator.New()}

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	if h.Metrics != nil {
		e.GET("/metrics", echo.WrapHandler(h.Metrics))
	}

	api := e.Group("/api")

	// Public routes
	api.POST("/auth/register", h.Auth.Register)
	api.POST("/auth/login", h.Auth.Login)
	api.POST("/auth/refresh", h.Auth.Refresh)
	api.GET("/home", h.Blog.Home)
	api.GET("/posts/:id", h.Blog.GetPost)
	api.POST("/chat", h.Chat.Chat)

	// Secured routes (require JWT authentication)
	secured := api.Group("",
		echojwt.WithConfig(echojwt.Config{
			SigningKey:  []byte(cfg.JWTSecret),
			TokenLookup: "header:" + echo.HeaderAuthorization + ":Bearer ",
			ContextKey:  handler.ContextKeyToken,
			NewClaimsFunc: func(c echo.Context) jwt.Claims {
				return new(auth.Claims)
			},
		}),
		RejectRevoked(tokenStore),
	)

	secured.POST("/auth/logout", h.Auth.Logout)

	secured.GET("/me", func(c echo.Context) error {
		claims, ok := handler.CurrentClaims(c)
		if !ok {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
		}
		return c.JSON(http.StatusOK, echo.Map{"token_claims": claims})
	})

	// Dashboard routes (staff only)
	dashboard := secured.Group("/dashboard", RequireStaff())
	dashboard.GET("", h.Dashboard.Overview)

	dashboard.GET("/categories", h.Dashboard.ListCategories)
	dashboard.POST("/categories", h.Dashboard.CreateCategory)
	dashboard.PUT("/categories/:id", h.Dashboard.UpdateCategory)
	dashboard.DELETE("/categories/:id", h.Dashboard.DeleteCategory)

	dashboard.GET("/posts", h.Dashboard.ListPosts)
	dashboard.GET("/posts/:id", h.Dashboard.GetPost)
	dashboard.POST("/posts", h.Dashboard.CreatePost)
	dashboard.PUT("/posts/:id", h.Dashboard.UpdatePost)
	dashboard.DELETE("/posts/:id", h.Dashboard.DeletePost)

	dashboard.GET("/users", h.User.ListUsers)
	dashboard.GET("/users/:id", h.User.GetUser)
	dashboard.POST("/users", h.User.CreateUser)
	dashboard.PUT("/users/:id", h.User.UpdateUser)
	dashboard.DELETE("/users/:id", h.User.DeactivateUser)

	dashboard.POST("/media/presign", h.Dashboard.PresignUpload)
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
