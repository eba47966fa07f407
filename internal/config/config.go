package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/fhuszti/medias-pipeline-go/internal/encoding"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	StoreDriverMariaDB = "mariadb"
	StoreDriverPebble  = "pebble"
)

type Settings struct {
	StoreDriver     string
	MariaDBDSN      string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	PebblePath      string
	ServerPort      int

	RedisAddr     string
	RedisPassword string

	MinioEndpoint   string
	MinioAccessKey  string
	MinioSecretKey  string
	MinioUseSSL     bool
	UploadsBucket   string
	ProcessedBucket string

	APIKey       string
	JWTPublicKey string

	MaxProcessingTime time.Duration
	MaxRetryAttempts  int
	StoreTimeout      time.Duration
	RetentionWindow   time.Duration
	SweepInterval     time.Duration
	OutputURLTTL      time.Duration
	VideoProfile      string
	WorkerConcurrency int
	FFmpegPath        string
	FFprobePath       string

	WebhookURL string
	APIBaseURL string
	APIToken   string
}

// Buckets lists every bucket the services expect to exist.
func (s *Settings) Buckets() []string {
	return []string{s.UploadsBucket, s.ProcessedBucket}
}

// EmbeddedStore reports whether the job store is a local database that only
// one process can hold open. The worker then serves the HTTP API as well.
func (s *Settings) EmbeddedStore() bool {
	return s.StoreDriver == StoreDriverPebble
}

func setDefaults() {
	viper.SetDefault("JOB_STORE_DRIVER", StoreDriverMariaDB)
	viper.SetDefault("UPLOADS_BUCKET", "uploads")
	viper.SetDefault("PROCESSED_BUCKET", "processed")
	viper.SetDefault("MINIO_USE_SSL", false)
	viper.SetDefault("MAX_PROCESSING_TIME", 300) // seconds
	viper.SetDefault("MAX_RETRY_ATTEMPTS", 3)
	viper.SetDefault("STORE_TIMEOUT", 5)     // seconds
	viper.SetDefault("RETENTION_WINDOW", 10) // minutes
	viper.SetDefault("SWEEP_INTERVAL", 60)   // seconds
	viper.SetDefault("OUTPUT_URL_TTL", 60)   // minutes
	viper.SetDefault("VIDEO_PROFILE", "default")
	viper.SetDefault("WORKER_CONCURRENCY", 10)
	viper.SetDefault("FFMPEG_PATH", "ffmpeg")
	viper.SetDefault("FFPROBE_PATH", "ffprobe")
}

func Load() (*Settings, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Println("No .env file found; proceeding with OS environment variables")
	}

	viper.AutomaticEnv()

	viper.SetConfigFile(".env")
	viper.SetConfigType("env")

	if err := viper.ReadInConfig(); err != nil {
		log.Printf("Warning: could not read .env file: %v", err)
	}

	setDefaults()

	driver := viper.GetString("JOB_STORE_DRIVER")
	switch driver {
	case StoreDriverMariaDB:
		for _, key := range []string{"MARIADB_DSN", "MARIADB_MAX_OPEN_CONN", "MARIADB_MAX_IDLE_CONNS", "MARIADB_CONN_MAX_LIFETIME"} {
			if !viper.IsSet(key) {
				return nil, fmt.Errorf("%s is required", key)
			}
		}
	case StoreDriverPebble:
		if !viper.IsSet("PEBBLE_PATH") {
			return nil, fmt.Errorf("PEBBLE_PATH is required")
		}
	default:
		return nil, fmt.Errorf("JOB_STORE_DRIVER %q is not supported", driver)
	}

	for _, key := range []string{"SERVER_PORT", "MINIO_ENDPOINT", "MINIO_ACCESS_KEY", "MINIO_SECRET_KEY"} {
		if !viper.IsSet(key) {
			return nil, fmt.Errorf("%s is required", key)
		}
	}

	if viper.GetInt("MAX_RETRY_ATTEMPTS") < 1 {
		return nil, fmt.Errorf("MAX_RETRY_ATTEMPTS must be at least 1")
	}
	if viper.GetInt("MAX_PROCESSING_TIME") < 1 {
		return nil, fmt.Errorf("MAX_PROCESSING_TIME must be at least 1")
	}
	if p := viper.GetString("VIDEO_PROFILE"); !encoding.IsKnownProfile(p) {
		return nil, fmt.Errorf("VIDEO_PROFILE %q is not one of %s", p, strings.Join(encoding.ProfileNames(), ", "))
	}

	return &Settings{
		StoreDriver:     driver,
		MariaDBDSN:      viper.GetString("MARIADB_DSN"),
		MaxOpenConns:    viper.GetInt("MARIADB_MAX_OPEN_CONN"),
		MaxIdleConns:    viper.GetInt("MARIADB_MAX_IDLE_CONNS"),
		ConnMaxLifetime: time.Duration(viper.GetInt("MARIADB_CONN_MAX_LIFETIME")) * time.Second,
		PebblePath:      viper.GetString("PEBBLE_PATH"),
		ServerPort:      viper.GetInt("SERVER_PORT"),

		RedisAddr:     viper.GetString("REDIS_ADDR"),
		RedisPassword: viper.GetString("REDIS_PASSWORD"),

		MinioEndpoint:   viper.GetString("MINIO_ENDPOINT"),
		MinioAccessKey:  viper.GetString("MINIO_ACCESS_KEY"),
		MinioSecretKey:  viper.GetString("MINIO_SECRET_KEY"),
		MinioUseSSL:     viper.GetBool("MINIO_USE_SSL"),
		UploadsBucket:   viper.GetString("UPLOADS_BUCKET"),
		ProcessedBucket: viper.GetString("PROCESSED_BUCKET"),

		APIKey:       viper.GetString("API_KEY"),
		JWTPublicKey: viper.GetString("JWT_PUBLIC_KEY"),

		MaxProcessingTime: time.Duration(viper.GetInt("MAX_PROCESSING_TIME")) * time.Second,
		MaxRetryAttempts:  viper.GetInt("MAX_RETRY_ATTEMPTS"),
		StoreTimeout:      time.Duration(viper.GetInt("STORE_TIMEOUT")) * time.Second,
		RetentionWindow:   time.Duration(viper.GetInt("RETENTION_WINDOW")) * time.Minute,
		SweepInterval:     time.Duration(viper.GetInt("SWEEP_INTERVAL")) * time.Second,
		OutputURLTTL:      time.Duration(viper.GetInt("OUTPUT_URL_TTL")) * time.Minute,
		VideoProfile:      viper.GetString("VIDEO_PROFILE"),
		WorkerConcurrency: viper.GetInt("WORKER_CONCURRENCY"),
		FFmpegPath:        viper.GetString("FFMPEG_PATH"),
		FFprobePath:       viper.GetString("FFPROBE_PATH"),

		WebhookURL: viper.GetString("WEBHOOK_URL"),
		APIBaseURL: viper.GetString("API_BASE_URL"),
		APIToken:   viper.GetString("API_TOKEN"),
	}, nil
}
