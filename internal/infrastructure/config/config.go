package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Redis      RedisConfig      `mapstructure:"redis"`
	Log        LogConfig        `mapstructure:"log"`
	Classifier ClassifierConfig `mapstructure:"classifier"`
	Advice     AdviceConfig     `mapstructure:"advice"`
	Storage    StorageConfig    `mapstructure:"storage"`
	Weather    WeatherConfig    `mapstructure:"weather"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	Mode string `mapstructure:"mode"`

	// PublicURL is the externally reachable base URL of this server
	PublicURL   string `mapstructure:"public_url"`
	MaxUploadMB int64  `mapstructure:"max_upload_mb"`
}

// DatabaseConfig holds PostgreSQL configuration
type DatabaseConfig struct {
	URL      string `mapstructure:"url"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
}

// DSN returns URL when set, otherwise a keyword/value connection string
func (c DatabaseConfig) DSN() string {
	if c.URL != "" {
		return c.URL
	}
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// LogConfig holds logger configuration
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// ClassifierConfig holds the classification chain configuration
type ClassifierConfig struct {
	// RuntimeLibrary is the onnxruntime shared library path
	RuntimeLibrary string              `mapstructure:"runtime_library"`
	LabelsDir      string              `mapstructure:"labels_dir"`
	FetchTimeout   time.Duration       `mapstructure:"fetch_timeout"`
	LocalDetector  LocalDetectorConfig `mapstructure:"local_detector"`
	Remote         RemoteConfig        `mapstructure:"remote"`
	ZeroShot       ZeroShotConfig      `mapstructure:"zero_shot"`
	Fallback       FallbackConfig      `mapstructure:"fallback"`
}

// LocalDetectorConfig configures on-disk detector weights
type LocalDetectorConfig struct {
	Enabled       bool    `mapstructure:"enabled"`
	WeightsPath   string  `mapstructure:"weights_path"`
	LabelsPath    string  `mapstructure:"labels_path"`
	InputSize     int     `mapstructure:"input_size"`
	ConfThreshold float32 `mapstructure:"conf_threshold"`
	IoUThreshold  float32 `mapstructure:"iou_threshold"`
}

// RemoteConfig configures the hosted inference API
type RemoteConfig struct {
	BaseURL      string        `mapstructure:"base_url"`
	APIKey       string        `mapstructure:"api_key"`
	DiseaseModel string        `mapstructure:"disease_model"`
	Timeout      time.Duration `mapstructure:"timeout"`
}

// ZeroShotConfig configures the CLIP encoders and the embedding cache
type ZeroShotConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	ModelID        string `mapstructure:"model_id"`
	ImageModelPath string `mapstructure:"image_model_path"`
	TextModelPath  string `mapstructure:"text_model_path"`
	VocabPath      string `mapstructure:"vocab_path"`
	MergesPath     string `mapstructure:"merges_path"`
	CachePath      string `mapstructure:"cache_path"`
}

// Fallback backends
const (
	FallbackBackendONNX   = "onnx"
	FallbackBackendRemote = "remote"
)

// FallbackConfig configures the generic classifier
type FallbackConfig struct {
	Backend     string `mapstructure:"backend"`
	ModelPath   string `mapstructure:"model_path"`
	LabelsPath  string `mapstructure:"labels_path"`
	RemoteModel string `mapstructure:"remote_model"`
}

// AdviceConfig configures the generative text API
type AdviceConfig struct {
	BaseURL   string        `mapstructure:"base_url"`
	APIKey    string        `mapstructure:"api_key"`
	Model     string        `mapstructure:"model"`
	Timeout   time.Duration `mapstructure:"timeout"`
	MaxTokens int           `mapstructure:"max_tokens"`
}

// Storage backends
const (
	StorageBackendLocal = "local"
	StorageBackendS3    = "s3"
)

// StorageConfig configures upload persistence
type StorageConfig struct {
	Backend  string   `mapstructure:"backend"`
	LocalDir string   `mapstructure:"local_dir"`
	S3       S3Config `mapstructure:"s3"`
}

// S3Config configures an S3-compatible bucket
type S3Config struct {
	Bucket          string `mapstructure:"bucket"`
	Region          string `mapstructure:"region"`
	Endpoint        string `mapstructure:"endpoint"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	UsePathStyle    bool   `mapstructure:"use_path_style"`
	PublicBaseURL   string `mapstructure:"public_base_url"`
}

// WeatherConfig configures the weather provider
type WeatherConfig struct {
	BaseURL  string        `mapstructure:"base_url"`
	APIKey   string        `mapstructure:"api_key"`
	Timeout  time.Duration `mapstructure:"timeout"`
	CacheTTL time.Duration `mapstructure:"cache_ttl"`
}

// envPrefix namespaces every environment override, e.g. AGRI_SERVER_PORT
const envPrefix = "AGRI"

// legacyEnv maps config keys to well-known environment names that are
// honored in addition to the prefixed form.
var legacyEnv = map[string]string{
	"database.url":                           "DATABASE_URL",
	"classifier.remote.api_key":              "HF_API_KEY",
	"classifier.remote.disease_model":        "HF_DISEASE_MODEL",
	"classifier.fallback.remote_model":       "HF_VIT_NAME",
	"classifier.local_detector.enabled":      "ENABLE_LOCAL_YOLO",
	"classifier.local_detector.weights_path": "YOLO_WEIGHTS_PATH",
	"classifier.zero_shot.model_id":          "CLIP_MODEL_NAME",
	"advice.api_key":                         "OPENROUTER_API_KEY",
	"advice.model":                           "OPENROUTER_MODEL",
	"weather.api_key":                        "OPENWEATHER_API_KEY",
}

// Load reads configuration from defaults, an optional config.yaml, and the
// environment, in increasing order of precedence.
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, legacy := range legacyEnv {
		prefixed := envPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		if err := v.BindEnv(key, prefixed, legacy); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", legacy, err)
		}
	}

	// accept yes/no/on/off in addition to what strconv.ParseBool allows
	v.Set("classifier.local_detector.enabled", parseFlag(v.GetString("classifier.local_detector.enabled")))

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return &cfg, nil
}

func parseFlag(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "t", "true", "y", "yes", "on":
		return true
	default:
		return false
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "debug")
	v.SetDefault("server.public_url", "http://localhost:8080")
	v.SetDefault("server.max_upload_mb", 10)

	v.SetDefault("database.url", "")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "agri")
	v.SetDefault("database.password", "agri")
	v.SetDefault("database.dbname", "agri_ai")
	v.SetDefault("database.sslmode", "disable")

	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	v.SetDefault("classifier.runtime_library", "")
	v.SetDefault("classifier.labels_dir", "./data")
	v.SetDefault("classifier.fetch_timeout", 30*time.Second)

	v.SetDefault("classifier.local_detector.enabled", false)
	v.SetDefault("classifier.local_detector.weights_path", "./models/yolo11s-pest-detection.onnx")
	v.SetDefault("classifier.local_detector.labels_path", "./models/yolo11s-pest-detection.labels.json")
	v.SetDefault("classifier.local_detector.input_size", 640)
	v.SetDefault("classifier.local_detector.conf_threshold", 0.2)
	v.SetDefault("classifier.local_detector.iou_threshold", 0.7)

	v.SetDefault("classifier.remote.base_url", "https://api-inference.huggingface.co")
	v.SetDefault("classifier.remote.api_key", "")
	v.SetDefault("classifier.remote.disease_model", "linkanjarad/mobilenet_v2_1.0_224-plant-disease-identification")
	v.SetDefault("classifier.remote.timeout", 60*time.Second)

	v.SetDefault("classifier.zero_shot.enabled", true)
	v.SetDefault("classifier.zero_shot.model_id", "openai/clip-vit-base-patch32")
	v.SetDefault("classifier.zero_shot.image_model_path", "./models/clip/image_encoder.onnx")
	v.SetDefault("classifier.zero_shot.text_model_path", "./models/clip/text_encoder.onnx")
	v.SetDefault("classifier.zero_shot.vocab_path", "./models/clip/vocab.json")
	v.SetDefault("classifier.zero_shot.merges_path", "./models/clip/merges.txt")
	v.SetDefault("classifier.zero_shot.cache_path", "./data/embeddings.db")

	v.SetDefault("classifier.fallback.backend", FallbackBackendONNX)
	v.SetDefault("classifier.fallback.model_path", "./models/vit/model.onnx")
	v.SetDefault("classifier.fallback.labels_path", "./models/vit/labels.json")
	v.SetDefault("classifier.fallback.remote_model", "google/vit-base-patch16-224")

	v.SetDefault("advice.base_url", "https://openrouter.ai/api/v1")
	v.SetDefault("advice.api_key", "")
	v.SetDefault("advice.model", "deepseek/deepseek-chat-v3.1")
	v.SetDefault("advice.timeout", 60*time.Second)
	v.SetDefault("advice.max_tokens", 512)

	v.SetDefault("storage.backend", StorageBackendLocal)
	v.SetDefault("storage.local_dir", "./uploads")
	v.SetDefault("storage.s3.bucket", "")
	v.SetDefault("storage.s3.region", "us-east-1")
	v.SetDefault("storage.s3.endpoint", "")
	v.SetDefault("storage.s3.access_key_id", "")
	v.SetDefault("storage.s3.secret_access_key", "")
	v.SetDefault("storage.s3.use_path_style", false)
	v.SetDefault("storage.s3.public_base_url", "")

	v.SetDefault("weather.base_url", "https://api.openweathermap.org")
	v.SetDefault("weather.api_key", "")
	v.SetDefault("weather.timeout", 10*time.Second)
	v.SetDefault("weather.cache_ttl", 10*time.Minute)
}
