package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/extra/redisotel/v9"
	redis "github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/Rahultharu064/HPMS-sub001/internal/common"
	"github.com/Rahultharu064/HPMS-sub001/internal/config"
	"github.com/Rahultharu064/HPMS-sub001/internal/coupon"
	"github.com/Rahultharu064/HPMS-sub001/internal/db"
	"github.com/Rahultharu064/HPMS-sub001/internal/events"
	"github.com/Rahultharu064/HPMS-sub001/internal/folio"
	"github.com/Rahultharu064/HPMS-sub001/internal/health"
	"github.com/Rahultharu064/HPMS-sub001/internal/housekeeping"
	"github.com/Rahultharu064/HPMS-sub001/internal/obs"
	"github.com/Rahultharu064/HPMS-sub001/internal/payment"
	"github.com/Rahultharu064/HPMS-sub001/internal/ratelimit"
	"github.com/Rahultharu064/HPMS-sub001/internal/stay"
)

func main() {
	cfg := config.MustLoad()

	logFormat := envOrDefault("OBS_LOG_FORMAT", "json")
	logLevel := envOrDefault("OBS_LOG_LEVEL", "info")
	logger := obs.NewLogger(logFormat, logLevel).With().Str("env", cfg.AppEnv).Logger()

	metricsNamespace := envOrDefault("OBS_METRICS_NAMESPACE", "hpms")
	metricsEnabled := envBool("OBS_ENABLE_PROMETHEUS", true)
	obs.MustRegisterDomainMetrics(metricsNamespace, nil)

	tracingEnabled := envBool("OBS_ENABLE_TRACING", true)
	if tracingEnabled {
		sampling := envFloat("OBS_TRACING_SAMPLING_RATIO", 1.0)
		shutdown, err := obs.InitTracer(context.Background(), obs.TracingConfig{
			ServiceName:    "hpms-api",
			ServiceVersion: envOrDefault("SERVICE_VERSION", "dev"),
			Endpoint:       envOrDefault("OBS_OTLP_ENDPOINT", ""),
			Insecure:       envBool("OBS_OTLP_INSECURE", false),
			SamplingRatio:  sampling,
			Environment:    cfg.AppEnv,
		})
		if err != nil {
			logger.Error().Err(err).Msg("initialise tracing")
			tracingEnabled = false
		} else {
			defer func() {
				ctx := context.Background()
				if err := shutdown(ctx); err != nil {
					logger.Error().Err(err).Msg("shutdown tracer")
				}
			}()
		}
	}

	if cfg.MigrateOnStart {
		if err := db.Migrate(cfg.DatabaseURL); err != nil {
			logger.Fatal().Err(err).Msg("apply migrations")
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	poolConfig, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("parse database config")
	}
	poolConfig.ConnConfig.Tracer = obs.PGXTracer{}
	if poolConfig.ConnConfig.RuntimeParams == nil {
		poolConfig.ConnConfig.RuntimeParams = map[string]string{}
	}
	poolConfig.ConnConfig.RuntimeParams["application_name"] = "hpms-api"

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		logger.Fatal().Err(err).Msg("connect database")
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		logger.Fatal().Err(err).Msg("ping database")
	}

	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("parse redis url")
	}
	redisClient := redis.NewClient(redisOpts)
	if err := redisotel.InstrumentTracing(redisClient); err != nil {
		logger.Error().Err(err).Msg("instrument redis tracing")
	}
	if metricsEnabled {
		if err := redisotel.InstrumentMetrics(redisClient); err != nil {
			logger.Error().Err(err).Msg("instrument redis metrics")
		}
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Error().Err(err).Msg("close redis")
		}
	}()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Fatal().Err(err).Msg("ping redis")
	}

	stayStore := &stay.Store{
		Pool: pool,
		Defaults: folio.AdjustmentRates{
			ServiceChargePercent: decimal.NewFromFloat(cfg.DefaultServiceChargePercent),
			TaxPercent:           decimal.NewFromFloat(cfg.DefaultTaxPercent),
		},
	}

	bus := &events.Bus{
		Store:     stayStore,
		Notifiers: []events.Notifier{events.LogNotifier{Logger: logger}},
		Topics:    events.DefaultTopics(),
	}

	validate := validator.New()

	folioSvc := &folio.Service{Src: stayStore}
	folioHandler := &folio.Handler{
		Svc:      folioSvc,
		Rates:    stayStore,
		Events:   bus,
		Validate: validate,
		Log:      logger,
	}

	paymentSvc := &payment.Service{Ledger: stayStore, Events: bus, Log: logger}
	paymentHandler := &payment.Handler{Svc: paymentSvc, Validate: validate}

	couponSvc := &coupon.Service{
		Folio:  folioSvc,
		Rules:  &coupon.Store{Pool: pool},
		Rates:  stayStore,
		Events: bus,
		Log:    logger,
	}
	couponHandler := &coupon.Handler{Svc: couponSvc, Validate: validate}

	hkSvc := &housekeeping.Service{Store: &housekeeping.Store{Pool: pool}, Events: bus, Log: logger}
	hkHandler := &housekeeping.Handler{Svc: hkSvc, Validate: validate}

	idem := common.Idem{R: redisClient, TTL: cfg.IdempotencyTTL}

	limitMiddleware, err := ratelimit.Middleware(redisClient, cfg.RateLimitPerMinute, "hpms:rate")
	if err != nil {
		logger.Fatal().Err(err).Msg("initialise rate limiter")
	}

	var httpMetrics *obs.HTTPMetrics
	if metricsEnabled {
		buckets := obs.ParseBucketsCSV(envOrDefault("OBS_METRICS_BUCKETS_MS", ""))
		httpMetrics = obs.NewHTTPMetrics(metricsNamespace, buckets, nil)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(obs.RoutePatternMiddleware)
	if tracingEnabled {
		r.Use(obs.TracingMiddleware)
	}
	if metricsEnabled && httpMetrics != nil {
		r.Use(obs.HTTPObs{Metrics: httpMetrics}.Middleware)
	}
	r.Use(obs.RequestLogger{Logger: logger}.Middleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins(cfg),
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "Idempotency-Key"},
		ExposedHeaders:   []string{"Link", "X-RateLimit-Limit", "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	if metricsEnabled {
		r.Handle("/metrics", promhttp.Handler())
	}

	healthHandler := health.Handler{
		Checker:      readinessChecker{db: pool, redis: redisClient},
		DBTimeout:    envDurationMillis("HEALTH_READY_DB_TIMEOUT_MS", 500),
		RedisTimeout: envDurationMillis("HEALTH_READY_REDIS_TIMEOUT_MS", 300),
	}
	r.Get("/health/live", healthHandler.Live)
	r.Get("/health/ready", healthHandler.Ready)

	r.Route("/api/v1", func(v chi.Router) {
		v.Use(limitMiddleware)

		v.Route("/stays/{stayID}", func(st chi.Router) {
			st.Get("/folio", folioHandler.Get)
			st.Put("/financials", folioHandler.UpdateFinancials)
			st.Get("/payments", paymentHandler.List)
			st.Group(func(g chi.Router) {
				g.Use(idem.Middleware)
				g.Post("/payments", paymentHandler.Record)
				g.Post("/apply-coupon", couponHandler.Apply)
			})
		})

		v.Route("/housekeeping/tasks", func(hk chi.Router) {
			hk.Get("/", hkHandler.ListTasks)
			hk.Post("/", hkHandler.CreateTask)
			hk.Patch("/{taskID}/status", hkHandler.PatchTaskStatus)
		})

		v.Patch("/rooms/{roomID}/status", hkHandler.PatchRoomStatus)
	})

	srv := &http.Server{
		Addr:    cfg.HTTPAddr(),
		Handler: r,
	}

	logger.Info().Str("addr", srv.Addr).Msg("server starting")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal().Err(err).Msg("server exited unexpectedly")
	}
}

func allowedOrigins(cfg *config.Config) []string {
	if len(cfg.CORSAllowedOrigins) == 0 {
		return []string{"*"}
	}
	return cfg.CORSAllowedOrigins
}

type readinessChecker struct {
	db    *pgxpool.Pool
	redis *redis.Client
}

func (c readinessChecker) PingDB(ctx context.Context, timeout time.Duration) error {
	if c.db == nil {
		return errors.New("db not configured")
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return c.db.Ping(ctx)
}

func (c readinessChecker) PingRedis(ctx context.Context, timeout time.Duration) error {
	if c.redis == nil {
		return errors.New("redis not configured")
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return c.redis.Ping(ctx).Err()
}

func envOrDefault(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		trimmed := strings.TrimSpace(val)
		if trimmed != "" {
			return trimmed
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if val, ok := os.LookupEnv(key); ok {
		switch strings.ToLower(strings.TrimSpace(val)) {
		case "1", "t", "true", "yes", "on":
			return true
		case "0", "f", "false", "no", "off":
			return false
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if val, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.ParseFloat(strings.TrimSpace(val), 64); err == nil {
			return parsed
		}
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if val, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.Atoi(strings.TrimSpace(val)); err == nil {
			return parsed
		}
	}
	return fallback
}

func envDurationMillis(key string, fallback int) time.Duration {
	return time.Duration(envInt(key, fallback)) * time.Millisecond
}
