package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/xid"

	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.7.0"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/plugin/opentelemetry/tracing"

	"github.com/peregrinehq/inlet/core"
	"github.com/peregrinehq/inlet/util"
	"github.com/peregrinehq/inlet/x/health"
	"github.com/peregrinehq/inlet/x/message"
	"github.com/peregrinehq/inlet/x/metrics"
	"github.com/peregrinehq/inlet/x/middleware"
	"github.com/peregrinehq/inlet/x/webhook"
)

type CustomHandler struct {
	slog.Handler
}

func (h *CustomHandler) Handle(ctx context.Context, r slog.Record) error {

	r.AddAttrs(slog.String("type", "app"))

	span := trace.SpanFromContext(ctx)
	if span.SpanContext().IsValid() {
		r.AddAttrs(slog.String("traceID", span.SpanContext().TraceID().String()))
		r.AddAttrs(slog.String("spanID", span.SpanContext().SpanID().String()))
	}

	return h.Handler.Handle(ctx, r)
}

var (
	version      = "unknown"
	buildMachine = "unknown"
	buildTime    = "unknown"
	goVersion    = "unknown"
)

func main() {

	config := util.LoadConfig()

	handler := &CustomHandler{Handler: slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: config.SlogLevel()})}
	slogger := slog.New(handler)
	slog.SetDefault(slogger)

	slog.Info(fmt.Sprintf("Inlet %s starting...", version))

	e := echo.New()
	e.HidePort = true
	e.HideBanner = true

	if config.EnableTrace {
		cleanup, err := setupTraceProvider(config.TraceEndpoint, "inlet/api", version)
		if err != nil {
			panic(err)
		}
		defer cleanup()

		skipper := otelecho.WithSkipper(
			func(c echo.Context) bool {
				return c.Path() == "/metrics" || strings.HasPrefix(c.Path(), "/health")
			},
		)
		e.Use(otelecho.Middleware("inlet", skipper))
	}

	e.Use(echomw.Recover())
	e.Use(echomw.RequestIDWithConfig(echomw.RequestIDConfig{
		Generator: func() string {
			return xid.New().String()
		},
	}))

	gormLogger := gormlogger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		gormlogger.Config{
			SlowThreshold:             300 * time.Millisecond,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	db, err := gorm.Open(openDialector(config.DatabaseDSN), &gorm.Config{
		Logger:         gormLogger,
		TranslateError: true,
	})
	if err != nil {
		slog.Error(fmt.Sprintf("failed to connect database: %v", err))
		os.Exit(1)
	}
	sqlDB, err := db.DB() // for pinging
	if err != nil {
		slog.Error(fmt.Sprintf("failed to connect database: %v", err))
		os.Exit(1)
	}
	defer sqlDB.Close()

	if config.EnableTrace {
		err = db.Use(tracing.NewPlugin(
			tracing.WithDBName("inlet"),
		))
		if err != nil {
			panic("failed to setup tracing plugin")
		}
	}

	// Migrate the schema
	slog.Info("start migrate")
	db.AutoMigrate(
		&core.Message{},
	)

	m := metrics.New(prometheus.DefaultRegisterer)
	e.Use(m.Middleware())
	e.Use(middleware.RequestLogger(slogger))

	messageRepository := message.NewRepository(db)
	messageService := message.NewService(messageRepository)
	messageHandler := message.NewHandler(messageService)

	webhookService := webhook.NewService(messageRepository)
	webhookHandler := webhook.NewHandler(webhookService, config, m)

	healthHandler := health.NewHandler(sqlDB, config)

	e.POST("/webhook", webhookHandler.Post)
	e.GET("/messages", messageHandler.List)
	e.GET("/stats", messageHandler.Stats)
	e.GET("/health/live", healthHandler.Live)
	e.GET("/health/ready", healthHandler.Ready)
	e.GET("/metrics", echoprometheus.NewHandler())

	e.GET("/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{
			"name":    "inlet",
			"version": version,
			"buildInfo": util.BuildInfo{
				BuildTime:    buildTime,
				BuildMachine: buildMachine,
				GoVersion:    goVersion,
			},
		})
	})

	e.Logger.Fatal(e.Start(config.ListenAddr))
}

// openDialector picks the gorm driver from the DSN shape: postgres for
// postgres URLs and keyword DSNs, sqlite for everything else.
func openDialector(dsn string) gorm.Dialector {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") || strings.Contains(dsn, "host=") {
		return postgres.Open(dsn)
	}
	return sqlite.Open(dsn)
}

func setupTraceProvider(endpoint string, serviceName string, serviceVersion string) (func(), error) {

	exporter, err := otlptracehttp.New(
		context.Background(),
		otlptracehttp.WithEndpoint(endpoint),
		otlptracehttp.WithInsecure(),
	)

	if err != nil {
		return nil, err
	}

	resource := resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceNameKey.String(serviceName),
		semconv.ServiceVersionKey.String(serviceVersion),
	)

	tracerProvider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
		sdktrace.WithResource(resource),
	)
	otel.SetTracerProvider(tracerProvider)

	propagator := propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	)
	otel.SetTextMapPropagator(propagator)

	cleanup := func() {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		if err := tracerProvider.Shutdown(ctx); err != nil {
			slog.Error(fmt.Sprintf("Failed to shutdown tracer provider: %v", err))
		}
	}
	return cleanup, nil
}
