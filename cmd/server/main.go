package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"
	"go.uber.org/zap"

	"github.com/seu-repo/hurliman-assist/internal/adapter/ai/ollama"
	"github.com/seu-repo/hurliman-assist/internal/adapter/audio"
	"github.com/seu-repo/hurliman-assist/internal/adapter/cache"
	"github.com/seu-repo/hurliman-assist/internal/adapter/http/fiber/handlers"
	"github.com/seu-repo/hurliman-assist/internal/adapter/http/fiber/middleware"
	"github.com/seu-repo/hurliman-assist/internal/adapter/queue"
	"github.com/seu-repo/hurliman-assist/internal/adapter/rag"
	"github.com/seu-repo/hurliman-assist/internal/adapter/stt/vosk"
	"github.com/seu-repo/hurliman-assist/internal/adapter/tts"
	wsAdapter "github.com/seu-repo/hurliman-assist/internal/adapter/websocket"
	"github.com/seu-repo/hurliman-assist/internal/catalog"
	"github.com/seu-repo/hurliman-assist/internal/domain"
	"github.com/seu-repo/hurliman-assist/internal/observability/telemetry"
	"github.com/seu-repo/hurliman-assist/internal/ports"
	"github.com/seu-repo/hurliman-assist/internal/service/admin"
	"github.com/seu-repo/hurliman-assist/internal/service/analytics"
	"github.com/seu-repo/hurliman-assist/internal/service/health"
	"github.com/seu-repo/hurliman-assist/internal/service/language"
	"github.com/seu-repo/hurliman-assist/internal/service/router"
	"github.com/seu-repo/hurliman-assist/internal/service/speech"
	"github.com/seu-repo/hurliman-assist/pkg/config"
)

const serviceName = "hurliman-assist"

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatal("Failed to initialize logger:", err)
	}
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", zap.Error(err))
	}

	logger.Info("Starting Hurliman assistant",
		zap.String("service", serviceName),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
	)

	if cfg.OpenTelemetry.Enabled {
		tracerProvider, err := telemetry.InitTracer(serviceName, cfg.App.Version, cfg.OpenTelemetry.Jaeger.Endpoint)
		if err != nil {
			logger.Fatal("Failed to initialize tracer", zap.Error(err))
		}
		defer func() {
			if err := tracerProvider.Shutdown(context.Background()); err != nil {
				logger.Error("Error shutting down tracer provider", zap.Error(err))
			}
		}()
	}

	// The catalog is the heart of the service; refusing to start without
	// it beats serving only fallback answers.
	cat, err := catalog.Load(cfg.Catalog.IndexPath, logger)
	if err != nil {
		logger.Fatal("Failed to load answer catalog", zap.Error(err))
	}
	if cfg.Catalog.DefaultAudio != "" {
		cat.DefaultAudio = cfg.Catalog.DefaultAudio
	}

	// Cache: Redis when configured, in-process otherwise.
	var appCache ports.Cache
	var redisCache *cache.RedisCache
	if cfg.Redis.Enabled {
		redisCache, err = cache.NewRedisCache(cfg.Redis.URL, logger)
		if err != nil {
			logger.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		appCache = redisCache
	} else {
		appCache = cache.NewLocalCache(5*time.Minute, logger)
	}
	defer appCache.Close()

	// Message queue is optional; without it routed-query events simply
	// stay local.
	var messageQueue queue.MessageQueue
	if cfg.NATS.Enabled {
		messageQueue, err = queue.NewNATSQueue(cfg.NATS.URL, logger)
		if err != nil {
			logger.Fatal("Failed to connect to NATS", zap.Error(err))
		}
		defer messageQueue.Close()
	}

	// Ollama backs the classifier fallback, the register gate and the
	// document index. Routing works without it.
	var llmClient *ollama.Client
	var classifier ports.Classifier
	if cfg.Classifier.Enabled && cfg.FeatureFlags.Classifier {
		llmClient = ollama.NewClient(ollama.Config{
			BaseURL: cfg.Classifier.BaseURL,
			Model:   cfg.Classifier.Model,
			Timeout: cfg.Classifier.Timeout,
		}, logger)
		classifier = ollama.NewClassifier(llmClient, logger)
	}

	routerService := router.NewService(cat, classifier, messageQueue, cfg.Classifier.Timeout, logger)

	var speechService *speech.Service
	if cfg.FeatureFlags.SpeechToText {
		var phrases []string
		if cfg.STT.GrammarFromCatalog {
			phrases = catalogPhrases(cat)
		}
		recognizer, err := vosk.New(vosk.Config{
			ModelPath:  cfg.STT.ModelPath,
			SampleRate: cfg.STT.SampleRate,
			Phrases:    phrases,
		}, logger)
		if err != nil {
			logger.Fatal("Failed to load speech model", zap.Error(err))
		}
		defer recognizer.Close()

		converter := audio.NewConverter(audio.Config{Loudnorm: cfg.STT.Loudnorm}, logger)
		speechService = speech.NewService(converter, recognizer, appCache, logger)
	}

	var synthesizer *tts.Synthesizer
	var gate *language.Gate
	if cfg.FeatureFlags.TextToSpeech {
		synthesizer = tts.NewSynthesizer(tts.Config{
			Voice:     cfg.TTS.Voice,
			OutputDir: cfg.TTS.OutputDir,
		}, logger)
		gate = language.NewGate(llmClient, 0, logger)
	}

	var docIndex *rag.Index
	if cfg.RAG.Enabled && cfg.FeatureFlags.DocumentIndex && llmClient != nil {
		var store rag.Store
		if redisCache != nil {
			store = rag.NewRedisStore(redisCache.Client())
		} else {
			store = rag.NewMemoryStore()
		}
		embedder := ollama.NewClient(ollama.Config{
			BaseURL: cfg.Classifier.BaseURL,
			Model:   cfg.RAG.EmbeddingModel,
			Timeout: cfg.Classifier.Timeout,
		}, logger)
		docIndex = rag.NewIndex(store, embedder, cfg.RAG.TopK, logger)
	}

	wsHub := wsAdapter.NewHub()
	go wsHub.Run()

	app := fiber.New(fiber.Config{
		AppName:               serviceName,
		DisableStartupMessage: true,
		BodyLimit:             cfg.HTTP.BodyLimit,
		ReadTimeout:           cfg.HTTP.ReadTimeout,
		WriteTimeout:          cfg.HTTP.WriteTimeout,
		IdleTimeout:           cfg.HTTP.IdleTimeout,
		ErrorHandler:          middleware.ErrorHandler(logger),
	})

	app.Use(recover.New())
	app.Use(fiberlogger.New())
	if cfg.CORS.Enabled {
		app.Use(middleware.NewCORS(cfg.CORS))
	} else {
		app.Use(middleware.DefaultCORS())
	}
	if cfg.CircuitBreaker.Enabled {
		app.Use(middleware.CircuitBreaker(logger))
	}

	healthService := health.NewService(cfg.App.Version, logger)
	healthService.RegisterChecker("cache", health.CacheChecker(appCache))
	healthService.RegisterChecker("catalog", health.CatalogChecker(cat))
	healthService.RegisterChecker("classifier", health.ClassifierChecker(classifier))
	health.NewFiberHandler(healthService).RegisterRoutes(app)

	if cfg.Prometheus.Enabled {
		metricsPath := cfg.Prometheus.Path
		if metricsPath == "" {
			metricsPath = "/metrics"
		}
		app.Get(metricsPath, func(c *fiber.Ctx) error {
			handler := fasthttpadaptor.NewFastHTTPHandler(promhttp.Handler())
			handler(c.Context())
			return nil
		})
	}

	app.Static("/static", cfg.HTTP.StaticDir)

	api := app.Group("/api")

	askHandler := handlers.NewAskHandler(routerService, logger)
	api.Post("/ask-text", askHandler.AskText)

	if speechService != nil {
		transcribeHandler := handlers.NewTranscribeHandler(speechService, logger)
		api.Post("/transcribe", transcribeHandler.Transcribe)
	}

	if synthesizer != nil {
		synthesizeHandler := handlers.NewSynthesizeHandler(synthesizer, gate, logger)
		api.Post("/synthesize", synthesizeHandler.Synthesize)
	}

	if docIndex != nil {
		searchHandler := handlers.NewSearchHandler(docIndex, logger)
		api.Get("/rag/search", searchHandler.Search)
		api.Post("/rag/ingest", searchHandler.Ingest)
	}

	analyticsService := analytics.NewService(logger)
	adminService := admin.NewService(cat, analyticsService, logger)
	admin.NewHandler(adminService).RegisterRoutes(app)

	if speechService != nil {
		voiceStreamHandler := wsAdapter.NewVoiceStreamHandler(speechService, routerService, logger)
		wsAdapter.SetupVoiceRoutes(app, voiceStreamHandler)
	}

	if cfg.FeatureFlags.EventFeed {
		wsAdapter.SetupEventRoutes(app, wsHub)
	}

	if messageQueue != nil {
		go consumeRoutedEvents(messageQueue, wsHub, analyticsService, logger)
	}

	go func() {
		logger.Info("Starting HTTP server", zap.Int("port", cfg.HTTP.Port))
		if err := app.Listen(fmt.Sprintf(":%d", cfg.HTTP.Port)); err != nil {
			logger.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited gracefully")
}

// catalogPhrases collects the normalized catalog vocabulary for the
// recognizer's phrase grammar.
func catalogPhrases(cat *domain.Catalog) []string {
	seen := make(map[string]struct{})
	var phrases []string
	for _, entry := range cat.Entries {
		for _, key := range entry.NormalizedKeys {
			if key == "" {
				continue
			}
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			phrases = append(phrases, key)
		}
	}
	return phrases
}

// consumeRoutedEvents feeds routed-query events into the analytics
// counters and fans them out to connected display clients.
func consumeRoutedEvents(mq queue.MessageQueue, hub *wsAdapter.Hub, analyticsSvc *analytics.Service, logger *zap.Logger) {
	err := mq.Subscribe("assistant.routed", func(msg []byte) error {
		analyticsSvc.HandleEvent(msg)
		hub.Broadcast(msg)
		return nil
	})
	if err != nil {
		logger.Error("Failed to subscribe to routed events", zap.Error(err))
	}
}
