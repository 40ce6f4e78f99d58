package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./configs")
	viper.AddConfigPath(".")
	viper.AddConfigPath("/app/configs")

	viper.SetEnvPrefix("APP")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Allow common env vars without APP_ prefix for Docker/VM deploys
	viper.BindEnv("http.port", "HTTP_PORT", "APP_HTTP_PORT")
	viper.BindEnv("redis.url", "REDIS_URL", "APP_REDIS_URL")
	viper.BindEnv("nats.url", "NATS_URL", "APP_NATS_URL")
	viper.BindEnv("catalog.index_path", "CATALOG_INDEX", "APP_CATALOG_INDEX_PATH")
	viper.BindEnv("stt.model_path", "VOSK_MODEL_PATH", "APP_STT_MODEL_PATH")
	viper.BindEnv("classifier.base_url", "OLLAMA_URL", "APP_CLASSIFIER_BASE_URL")
	viper.BindEnv("classifier.model", "OLLAMA_MODEL", "APP_CLASSIFIER_MODEL")
	viper.BindEnv("app.environment", "APP_ENVIRONMENT")
	viper.BindEnv("logging.level", "LOG_LEVEL")

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// No config file is fine; defaults plus env vars carry a full setup.
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

func setDefaults() {
	viper.SetDefault("app.name", "hurliman-assist")
	viper.SetDefault("app.version", "dev")
	viper.SetDefault("app.environment", "development")

	viper.SetDefault("http.port", 8000)
	viper.SetDefault("http.read_timeout", "30s")
	viper.SetDefault("http.write_timeout", "30s")
	viper.SetDefault("http.idle_timeout", "120s")
	viper.SetDefault("http.body_limit", 25*1024*1024)
	viper.SetDefault("http.static_dir", "static")

	viper.SetDefault("catalog.index_path", "static/audio/index.json")

	viper.SetDefault("stt.model_path", "models/vosk-model-small")
	viper.SetDefault("stt.sample_rate", 16000)
	viper.SetDefault("stt.grammar_from_catalog", false)
	viper.SetDefault("stt.loudnorm", false)

	viper.SetDefault("tts.voice", "ru")
	viper.SetDefault("tts.output_dir", "static/audio/tts")

	viper.SetDefault("classifier.enabled", true)
	viper.SetDefault("classifier.base_url", "http://127.0.0.1:11434")
	viper.SetDefault("classifier.model", "qwen:1.8b")
	viper.SetDefault("classifier.timeout", "30s")

	viper.SetDefault("rag.enabled", false)
	viper.SetDefault("rag.embedding_model", "nomic-embed-text")
	viper.SetDefault("rag.chunk_size", 800)
	viper.SetDefault("rag.chunk_overlap", 100)
	viper.SetDefault("rag.top_k", 5)

	viper.SetDefault("redis.enabled", false)
	viper.SetDefault("redis.url", "redis://localhost:6379/0")

	viper.SetDefault("nats.enabled", false)
	viper.SetDefault("nats.url", "nats://localhost:4222")

	viper.SetDefault("prometheus.enabled", true)
	viper.SetDefault("prometheus.path", "/metrics")

	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.format", "json")

	viper.SetDefault("circuit_breaker.enabled", true)

	viper.SetDefault("cache.transcript_ttl", "24h")

	viper.SetDefault("feature_flags.speech_to_text", true)
	viper.SetDefault("feature_flags.text_to_speech", true)
	viper.SetDefault("feature_flags.classifier", true)
	viper.SetDefault("feature_flags.document_index", false)
	viper.SetDefault("feature_flags.event_feed", true)
}
