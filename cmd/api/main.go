package main

import (
	"context"
	"crypto/subtle"
	"errors"
	"net/http"
	"net/http/pprof"
	"os"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	limiter "github.com/ulule/limiter/v3"
	limiterstdlib "github.com/ulule/limiter/v3/drivers/middleware/stdlib"
	limitermemory "github.com/ulule/limiter/v3/drivers/store/memory"

	"github.com/Kalzeracode/ingressosc/internal/analytics"
	"github.com/Kalzeracode/ingressosc/internal/cart"
	"github.com/Kalzeracode/ingressosc/internal/catalog"
	"github.com/Kalzeracode/ingressosc/internal/checkout"
	"github.com/Kalzeracode/ingressosc/internal/config"
	"github.com/Kalzeracode/ingressosc/internal/events"
	"github.com/Kalzeracode/ingressosc/internal/health"
	"github.com/Kalzeracode/ingressosc/internal/inventory"
	"github.com/Kalzeracode/ingressosc/internal/obs"
	"github.com/Kalzeracode/ingressosc/internal/promo"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logFormat := envOrDefault("OBS_LOG_FORMAT", "json")
	logLevel := envOrDefault("OBS_LOG_LEVEL", "info")
	logger := obs.NewLogger(logFormat, logLevel).With().Str("env", cfg.AppEnv).Logger()

	metricsNamespace := envOrDefault("OBS_METRICS_NAMESPACE", "ingressos")
	metricsEnabled := envBool("OBS_ENABLE_PROMETHEUS", true)
	obs.MustRegisterDomainMetrics(metricsNamespace, nil)

	tracingEnabled := cfg.TracingEnabled
	if tracingEnabled {
		shutdown, err := obs.InitTracer(context.Background(), obs.TracingConfig{
			ServiceName:   "ingressos-api",
			Endpoint:      cfg.TracingEndpoint,
			Exporter:      cfg.TracingExporter,
			SamplingRatio: cfg.TracingSampling,
			Environment:   cfg.AppEnv,
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

	cat := loadCatalog(cfg, logger)

	initial := make(map[string]int, cat.Len())
	for _, t := range cat.Tickets() {
		initial[t.ID] = t.Available
	}
	ledger := inventory.New(initial, inventory.Config{Strict: cfg.InventoryStrict})

	registry := promo.NewRegistry(cat.Promos())

	bus := &events.Bus{
		Store:     events.NewMemoryStore(cfg.EventLogLimit),
		Notifiers: []events.Notifier{events.LogNotifier{Logger: logger}},
	}

	agg := &cart.Aggregator{Catalog: cat, Registry: registry}
	sales := analytics.NewStore()

	catalogHandler := &catalog.Handler{Catalog: cat}
	promoHandler := &promo.Handler{Registry: registry}
	cartHandler := &cart.Handler{Agg: agg, Availability: ledger}
	inventoryHandler := &inventory.Handler{Ledger: ledger, Bus: bus}
	checkoutHandler := &checkout.Handler{Service: &checkout.Service{
		Agg:      agg,
		Ledger:   ledger,
		Registry: registry,
		Sales:    sales,
		Events:   bus,
	}}
	analyticsHandler := &analytics.Handler{Store: sales}

	var httpMetrics *obs.HTTPMetrics
	if metricsEnabled {
		buckets := obs.ParseBucketsCSV(envOrDefault("OBS_METRICS_BUCKETS_MS", ""))
		httpMetrics = obs.NewHTTPMetrics(metricsNamespace, buckets, nil)
	}

	rate, err := limiter.NewRateFromFormatted(cfg.RateLimit)
	if err != nil {
		logger.Fatal().Err(err).Str("rate", cfg.RateLimit).Msg("parse rate limit")
	}
	rateMiddleware := limiterstdlib.NewMiddleware(limiter.New(limitermemory.NewStore(), rate))

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
		AllowedOrigins: allowedOrigins(cfg),
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		ExposedHeaders: []string{"Link"},
		MaxAge:         300,
	}))
	r.Use(rateMiddleware.Handler)

	if metricsEnabled {
		r.Handle("/metrics", promhttp.Handler())
	}
	pprofEnabled := envBool("OBS_ENABLE_PPROF", true)
	if pprofEnabled {
		user := envOrDefault("SECURE_PPROF_BASIC_AUTH_USER", "")
		pass := envOrDefault("SECURE_PPROF_BASIC_AUTH_PASS", "")
		r.Mount("/debug/pprof", protectPprof(newPprofMux(), user, pass))
	}

	healthHandler := health.Handler{Checker: readinessChecker{catalog: cat, ledger: ledger}}
	r.Get("/health/live", healthHandler.Live)
	r.Get("/health/ready", healthHandler.Ready)

	r.Route("/api/v1", func(v chi.Router) {
		v.Get("/tickets", catalogHandler.Tickets)
		v.Get("/tickets/{id}", catalogHandler.TicketDetail)
		v.Get("/rules", catalogHandler.Rules)

		v.Post("/quotes/line", cartHandler.QuoteLine)
		v.Post("/quotes/cart", cartHandler.QuoteCart)
		v.Post("/cart/validate", cartHandler.Validate)
		v.Post("/promos/validate", promoHandler.Validate)

		v.Route("/inventory", func(inv chi.Router) {
			inv.Get("/", inventoryHandler.List)
			inv.Get("/stats", inventoryHandler.Stats)
			inv.Route("/{id}", func(one chi.Router) {
				one.Get("/", inventoryHandler.Get)
				one.Get("/status", inventoryHandler.Status)
				one.Post("/reserve", inventoryHandler.Reserve)
				one.Post("/release", inventoryHandler.Release)
				one.Post("/add-stock", inventoryHandler.AddStock)
				one.Post("/reset", inventoryHandler.Reset)
			})
		})

		v.Post("/checkout", checkoutHandler.Confirm)
		v.Get("/analytics/sales", analyticsHandler.Sales)
	})

	if cfg.DemandFeedEnabled {
		seed := cfg.DemandFeedSeed
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		src := inventory.NewRandomSource(seed, ledger.IDs())
		go inventory.RunFeed(context.Background(), ledger, src, cfg.DemandFeedInterval, logger)
		logger.Info().Int64("seed", seed).Dur("interval", cfg.DemandFeedInterval).Msg("demand feed started")
	}

	srv := &http.Server{
		Addr:    cfg.HTTPAddr(),
		Handler: r,
	}

	logger.Info().Str("addr", srv.Addr).Msg("server starting")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal().Err(err).Msg("server exited unexpectedly")
	}
}

func loadCatalog(cfg *config.Config, logger zerolog.Logger) *catalog.Catalog {
	if cfg.CatalogPath == "" {
		return catalog.Default()
	}
	cat, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		logger.Fatal().Err(err).Str("path", cfg.CatalogPath).Msg("load catalog")
	}
	logger.Info().Str("path", cfg.CatalogPath).Int("tickets", cat.Len()).Msg("catalog loaded")
	return cat
}

func allowedOrigins(cfg *config.Config) []string {
	if len(cfg.CORSAllowedOrigins) == 0 {
		return []string{"*"}
	}
	return cfg.CORSAllowedOrigins
}

type readinessChecker struct {
	catalog *catalog.Catalog
	ledger  *inventory.Ledger
}

func (c readinessChecker) CatalogSize() int {
	if c.catalog == nil {
		return 0
	}
	return c.catalog.Len()
}

func (c readinessChecker) AuditInventory() []string {
	if c.ledger == nil {
		return []string{"ledger not configured"}
	}
	return c.ledger.Audit()
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

func newPprofMux() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", pprof.Index)
	mux.HandleFunc("/cmdline", pprof.Cmdline)
	mux.HandleFunc("/profile", pprof.Profile)
	mux.HandleFunc("/symbol", pprof.Symbol)
	mux.HandleFunc("/trace", pprof.Trace)
	mux.Handle("/allocs", pprof.Handler("allocs"))
	mux.Handle("/block", pprof.Handler("block"))
	mux.Handle("/goroutine", pprof.Handler("goroutine"))
	mux.Handle("/heap", pprof.Handler("heap"))
	mux.Handle("/mutex", pprof.Handler("mutex"))
	mux.Handle("/threadcreate", pprof.Handler("threadcreate"))
	return mux
}

func protectPprof(handler http.Handler, user, pass string) http.Handler {
	user = strings.TrimSpace(user)
	pass = strings.TrimSpace(pass)
	if user == "" {
		return handler
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u, p, ok := r.BasicAuth()
		if !ok || subtle.ConstantTimeCompare([]byte(u), []byte(user)) != 1 || subtle.ConstantTimeCompare([]byte(p), []byte(pass)) != 1 {
			w.Header().Set("WWW-Authenticate", "Basic realm=restricted")
			http.Error(w, "unauthorised", http.StatusUnauthorized)
			return
		}
		handler.ServeHTTP(w, r)
	})
}
