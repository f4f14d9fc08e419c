package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"sso-gate/internal/adapter/gateway"
	adapterhandler "sso-gate/internal/adapter/handler"
	"sso-gate/internal/domain"
	infracache "sso-gate/internal/infrastructure/cache"
	"sso-gate/internal/usecase"

	"sso-gate/config"
	appmiddleware "sso-gate/middleware"
	"sso-gate/utils/logger"
	"sso-gate/utils/otel"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"
	"golang.org/x/sync/errgroup"
)

func main() {
	// Handle healthcheck subcommand (for Docker healthcheck in distroless image)
	if len(os.Args) > 1 && os.Args[1] == "healthcheck" {
		if err := runHealthcheck(); err != nil {
			fmt.Fprintf(os.Stderr, "Healthcheck failed: %v\n", err)
			os.Exit(1)
		}
		os.Exit(0)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	// Initialize OpenTelemetry
	otelCfg := otel.ConfigFromEnv()
	otelShutdown, err := otel.InitProvider(ctx, otelCfg)
	if err != nil {
		slog.Warn("failed to initialize OpenTelemetry, continuing without tracing", "error", err)
		otelCfg.Enabled = false
		otelShutdown = func(context.Context) error { return nil }
	}

	// Initialize structured logger
	logger.Init(otelCfg.Enabled)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.ErrorContext(ctx, "failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.InfoContext(ctx, "configuration loaded",
		"issuer", cfg.Issuer,
		"callback_url", cfg.CallbackURL,
		"port", cfg.Port,
		"cache_ttl", cfg.CacheTTL,
		"cache_max_entries", cfg.CacheMaxEntries)

	if cfg.ClientSecret == "" {
		slog.WarnContext(ctx, "SSO_CLIENT_SECRET is not set, code exchange will fail")
	}

	// Infrastructure
	verificationCache := infracache.NewVerificationCache(cfg.CacheMaxEntries, cfg.CacheTTL)
	ssoGateway := gateway.NewSSOGateway(cfg.Issuer, cfg.ClientID, cfg.ClientSecret, cfg.CallbackURL, cfg.ProviderTimeout)

	// Usecases
	verifyUC := usecase.NewVerifyToken(ssoGateway, verificationCache, slog.Default())
	exchangeUC := usecase.NewExchangeCode(ssoGateway, slog.Default())

	// Handlers
	callbackHandler := adapterhandler.NewCallbackHandler(exchangeUC)
	logoutHandler := adapterhandler.NewLogoutHandler(ssoGateway)
	whoamiHandler := adapterhandler.NewWhoamiHandler()
	healthHandler := adapterhandler.NewHealthHandler()

	// Authentication gate
	policy := domain.NewPathPolicy(cfg.PublicPaths, cfg.PublicPrefixes)
	gate := appmiddleware.NewSSOGate(verifyUC, ssoGateway, policy)

	// Setup Echo server
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Security middleware
	e.Use(appmiddleware.SecurityHeaders())

	// OpenTelemetry tracing
	if otelCfg.Enabled {
		e.Use(otelecho.Middleware(otelCfg.ServiceName))
		e.Use(appmiddleware.OTelStatusMiddleware())
	}

	// Request logging
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		Skipper: func(c echo.Context) bool {
			path := c.Request().URL.Path
			return path == "/health" || path == "/alive"
		},
		LogStatus:   true,
		LogURI:      true,
		LogError:    true,
		LogMethod:   true,
		LogLatency:  true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			// The gate stamps user_id, token source and decision into the
			// request context; WithContext copies them onto the record.
			rlog := logger.GlobalContext.WithContext(c.Request().Context())
			if v.Error == nil {
				rlog.Info("request completed",
					"method", v.Method,
					"uri", v.URI,
					"status", v.Status,
					"latency_ms", v.Latency.Milliseconds())
			} else {
				rlog.Error("request failed",
					"method", v.Method,
					"uri", v.URI,
					"status", v.Status,
					"latency_ms", v.Latency.Milliseconds(),
					"error", v.Error.Error())
			}
			return nil
		},
	}))

	e.Use(middleware.Recover())

	// Every route not admitted by the path policy requires a verified token
	e.Use(gate.Middleware())

	// Rate limiters per endpoint group
	whoamiRL := appmiddleware.NewRateLimiter(100.0/60.0, 10) // 100 req/min
	callbackRL := appmiddleware.NewRateLimiter(30.0/60.0, 5) // 30 req/min
	logoutRL := appmiddleware.NewRateLimiter(10.0/60.0, 3)   // 10 req/min

	// Routes
	e.GET("/auth/callback", callbackHandler.Handle, callbackRL.Middleware())
	e.GET("/auth/logout", logoutHandler.Handle, logoutRL.Middleware())
	e.GET("/api/sso/me", whoamiHandler.Handle, whoamiRL.Middleware())
	e.GET("/health", healthHandler.Handle)
	e.GET("/alive", healthHandler.Alive)

	// Start server with errgroup for graceful shutdown
	address := fmt.Sprintf(":%s", cfg.Port)
	slog.InfoContext(ctx, "starting sso-gate server", "address", address)

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := e.Start(address); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gCtx.Done()
		slog.Info("shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return e.Shutdown(shutdownCtx)
	})

	g.Go(func() error {
		<-gCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return otelShutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("shutdown error", "error", err)
		os.Exit(1)
	}

	slog.Info("server exited properly")
}

// runHealthcheck performs a health check against the local server.
func runHealthcheck() error {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8888"
	}

	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get(fmt.Sprintf("http://127.0.0.1:%s/health", port))
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health endpoint returned status: %d", resp.StatusCode)
	}
	return nil
}
