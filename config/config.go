package config

import (
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

type Config struct {
	Port     string `env:"PORT" env-default:"3000"`
	GinMode  string `env:"GIN_MODE" env-default:"debug"`
	LogLevel string `env:"LOG_LEVEL" env-default:"info"`

	Mongo      Mongo
	Auth       Auth
	Media      Media
	Cloudinary Cloudinary
	MinIO      MinIO

	CORSOrigins []string `env:"CORS_ORIGINS" env-separator:"," env-default:"*"`
}

type Mongo struct {
	URI          string `env:"MONGODB_URI" env-required:"true"`
	Database     string `env:"MONGODB_DATABASE" env-default:"social"`
	Transactions bool   `env:"MONGO_TRANSACTIONS" env-default:"false"`
}

type Auth struct {
	JWTSecret string        `env:"JWT_SECRET" env-required:"true"`
	TokenTTL  time.Duration `env:"TOKEN_TTL" env-default:"24h"`
}

type Media struct {
	Provider  string `env:"MEDIA_PROVIDER" env-default:"cloudinary"`
	UploadDir string `env:"UPLOAD_DIR"`
}

type Cloudinary struct {
	URL       string `env:"CLOUDINARY_URL"`
	CloudName string `env:"CLOUDINARY_CLOUD_NAME"`
	APIKey    string `env:"CLOUDINARY_API_KEY"`
	APISecret string `env:"CLOUDINARY_API_SECRET"`
	Folder    string `env:"CLOUDINARY_FOLDER" env-default:"social/posts"`
}

type MinIO struct {
	Endpoint        string `env:"MINIO_ENDPOINT"`
	AccessKeyID     string `env:"MINIO_ACCESS_KEY"`
	SecretAccessKey string `env:"MINIO_SECRET_KEY"`
	BucketName      string `env:"MINIO_BUCKET" env-default:"social-media"`
	UseSSL          bool   `env:"MINIO_USE_SSL" env-default:"false"`
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	// A missing .env is normal in deployed environments.
	_ = godotenv.Load(".env")

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	if cfg.Media.UploadDir == "" {
		cfg.Media.UploadDir = os.TempDir()
	}

	switch cfg.Media.Provider {
	case "cloudinary", "minio":
	default:
		return nil, fmt.Errorf("unknown MEDIA_PROVIDER %q", cfg.Media.Provider)
	}

	return &cfg, nil
}

func (c *Config) Release() bool {
	return c.GinMode == "release"
}
