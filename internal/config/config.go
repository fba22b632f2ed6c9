package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

const (
	MediaCloudinary = "cloudinary"
	MediaLocal      = "local"
)

type Cloudinary struct {
	CloudName string
	APIKey    string
	APISecret string
	Folder    string
}

type Config struct {
	Port string

	DatabaseURL string
	MongoDBName string

	JWTSecret      string
	JWTAlgorithm   string
	AccessTokenTTL time.Duration
	BcryptRounds   int

	Cloudinary   Cloudinary
	UploadDir    string
	MediaTimeout time.Duration

	CORSOrigins   []string
	AuthRateLimit float64

	LogLevel  string
	LogFormat string
}

// MediaBackend reports which image host is active: Cloudinary when all its
// credentials are set, the local uploads directory otherwise.
func (c Config) MediaBackend() string {
	if c.Cloudinary.CloudName != "" && c.Cloudinary.APIKey != "" && c.Cloudinary.APISecret != "" {
		return MediaCloudinary
	}
	return MediaLocal
}

// LoadDotenv loads the first .env found in the working directory or its parent.
// It returns the path loaded, or "" when there is none.
func LoadDotenv() string {
	for _, p := range []string{".env", filepath.Join("..", ".env")} {
		if _, err := os.Stat(p); err == nil {
			if err := godotenv.Load(p); err == nil {
				return p
			}
		}
	}
	return ""
}

func newViper() *viper.Viper {
	v := viper.New()
	v.AutomaticEnv()
	return v
}

// LoadDatabase reads only the storage settings. The admin tools use it so
// they run without the API's signing secret.
func LoadDatabase() (Config, error) {
	v := newViper()
	cfg := Config{
		DatabaseURL:  strings.TrimSpace(v.GetString("DATABASE_URL")),
		MongoDBName:  strings.TrimSpace(v.GetString("MONGO_DB_NAME")),
		BcryptRounds: v.GetInt("BCRYPT_ROUNDS"),
	}
	if err := cfg.validateDatabase(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validateDatabase() error {
	if c.DatabaseURL == "" {
		return errors.New("DATABASE_URL is required")
	}
	if isMongoURL(c.DatabaseURL) && c.MongoDBName == "" {
		return errors.New("MONGO_DB_NAME is required for MongoDB connection strings")
	}
	return nil
}

// Load reads the configuration from the environment. A missing database URL
// or signing secret is an error.
func Load() (Config, error) {
	v := newViper()

	v.SetDefault("PORT", "8000")
	v.SetDefault("ALGORITHM", "HS256")
	v.SetDefault("ACCESS_TOKEN_EXPIRE_MINUTES", 30)
	v.SetDefault("BCRYPT_ROUNDS", 12)
	v.SetDefault("CLOUDINARY_FOLDER", "blog_images")
	v.SetDefault("UPLOAD_DIR", "uploads")
	v.SetDefault("MEDIA_TIMEOUT_SECONDS", 20)
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000,http://localhost:5173,http://127.0.0.1:3000")
	v.SetDefault("AUTH_RATE_LIMIT", 20)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "console")

	cfg := Config{
		Port:           v.GetString("PORT"),
		DatabaseURL:    strings.TrimSpace(v.GetString("DATABASE_URL")),
		MongoDBName:    strings.TrimSpace(v.GetString("MONGO_DB_NAME")),
		JWTSecret:      v.GetString("JWT_SECRET_KEY"),
		JWTAlgorithm:   strings.ToUpper(v.GetString("ALGORITHM")),
		AccessTokenTTL: time.Duration(v.GetInt("ACCESS_TOKEN_EXPIRE_MINUTES")) * time.Minute,
		BcryptRounds:   v.GetInt("BCRYPT_ROUNDS"),
		Cloudinary: Cloudinary{
			CloudName: v.GetString("CLOUDINARY_CLOUD_NAME"),
			APIKey:    v.GetString("CLOUDINARY_API_KEY"),
			APISecret: v.GetString("CLOUDINARY_API_SECRET"),
			Folder:    v.GetString("CLOUDINARY_FOLDER"),
		},
		UploadDir:     v.GetString("UPLOAD_DIR"),
		MediaTimeout:  time.Duration(v.GetInt("MEDIA_TIMEOUT_SECONDS")) * time.Second,
		CORSOrigins:   splitList(v.GetString("CORS_ORIGINS")),
		AuthRateLimit: v.GetFloat64("AUTH_RATE_LIMIT"),
		LogLevel:      v.GetString("LOG_LEVEL"),
		LogFormat:     v.GetString("LOG_FORMAT"),
	}

	if err := cfg.validateDatabase(); err != nil {
		return Config{}, err
	}
	if cfg.JWTSecret == "" {
		return Config{}, errors.New("JWT_SECRET_KEY is required")
	}
	switch cfg.JWTAlgorithm {
	case "HS256", "HS384", "HS512":
	default:
		return Config{}, errors.Errorf("unsupported ALGORITHM %q", cfg.JWTAlgorithm)
	}
	if cfg.AccessTokenTTL <= 0 {
		return Config{}, errors.New("ACCESS_TOKEN_EXPIRE_MINUTES must be positive")
	}
	if cfg.MediaTimeout <= 0 {
		return Config{}, errors.New("MEDIA_TIMEOUT_SECONDS must be positive")
	}
	return cfg, nil
}

func isMongoURL(dsn string) bool {
	return strings.HasPrefix(dsn, "mongodb://") || strings.HasPrefix(dsn, "mongodb+srv://")
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
