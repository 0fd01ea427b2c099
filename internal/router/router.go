package router

import (
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	echoSwagger "github.com/swaggo/echo-swagger"

	"bookworm/internal/auth"
	"bookworm/internal/cache"
	"bookworm/internal/config"
	"bookworm/internal/handler"
	bookwormmw "bookworm/internal/middleware"
	"bookworm/internal/repository"
)

const (
	loginRateLimit  = 5
	loginRateWindow = time.Minute
)

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	cacheClient *cache.Client,
	users repository.UserRepository,
	authHandler *handler.AuthHandler,
	bookHandler *handler.BookHandler,
) {
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	// Add validator
	e.Validator = &CustomValidator{validator: validator.New()}

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")

	// Public routes
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login,
		bookwormmw.LoginRateLimiter(cacheClient, loginRateLimit, loginRateWindow))

	// Book routes: JWT verification followed by user resolution. A missing,
	// malformed or expired token and an unresolvable user all end the
	// request with a 401 before any handler runs.
	books := api.Group("/books", echojwt.WithConfig(echojwt.Config{
		SigningKey: []byte(cfg.JWTSecret),
		NewClaimsFunc: func(c echo.Context) jwt.Claims {
			return new(auth.Claims)
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return echo.NewHTTPError(http.StatusUnauthorized, "not authorized, token failed")
		},
	}), bookwormmw.CurrentUser(users))

	books.POST("", bookHandler.Create)
	books.GET("", bookHandler.Feed)
	books.GET("/user", bookHandler.ListByOwner)
	books.DELETE("/:id", bookHandler.Delete)
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
