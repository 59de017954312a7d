package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"

	BackendLocal = "local"
	BackendMinIO = "minio"
)

var (
	devOrigins = []string{
		"http://localhost:3000",
		"http://localhost:5173",
		"http://127.0.0.1:3000",
		"http://127.0.0.1:5173",
	}
	prodOrigins = []string{
		"https://archiv.vercel.app",
		"https://archiv-git-main-sidt10s-projects.vercel.app",
		"https://archiv-sidt10s-projects.vercel.app",
		"https://archiv.onrender.com",
	}
	prodOriginPatterns = []string{
		`^https://archiv-.*\.vercel\.app$`,
	}
)

// DocumentConfig holds settings for the document store and how files are served.
type DocumentConfig struct {
	Dir               string
	Backend           string
	CacheMaxAgeSec    int
	SendContentLength bool
}

// CORSConfig holds the cross-origin allowlist.
type CORSConfig struct {
	AllowedOrigins        []string
	AllowedOriginPatterns []string
}

// MinIOConfig holds object storage settings for MinIO.
type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Prefix    string
	UseSSL    bool
}

// AppConfig is the centralized configuration struct for the application.
// It is populated from environment variables once at startup and passed down explicitly.
type AppConfig struct {
	Environment string
	Port        string
	Timezone    string
	CoursesFile string
	Documents   DocumentConfig
	CORS        CORSConfig
	MinIO       MinIOConfig
}

// Load reads configuration from environment variables.
// A .env file can be auto-loaded by importing: _ "github.com/joho/godotenv/autoload"
// This function does not require a .env file; real environment variables take precedence.
func Load() *AppConfig {
	env := getEnv("APP_ENV", getEnv("NODE_ENV", EnvDevelopment))

	origins, patterns := devOrigins, []string(nil)
	if env == EnvProduction {
		origins, patterns = prodOrigins, prodOriginPatterns
	}

	return &AppConfig{
		Environment: env,
		Port:        getEnv("PORT", "5000"),
		Timezone:    getEnv("APP_TIMEZONE", "UTC"),
		CoursesFile: getEnv("COURSES_FILE", ""),
		Documents: DocumentConfig{
			Dir:               getEnv("DOCUMENT_DIR", "./pdfs"),
			Backend:           strings.ToLower(getEnv("DOCUMENT_BACKEND", BackendLocal)),
			CacheMaxAgeSec:    getEnvInt("CACHE_MAX_AGE_SEC", 3600),
			SendContentLength: getEnvBool("SEND_CONTENT_LENGTH", true),
		},
		CORS: CORSConfig{
			AllowedOrigins:        getEnvList("CORS_ALLOWED_ORIGINS", origins),
			AllowedOriginPatterns: getEnvList("CORS_ALLOWED_ORIGIN_PATTERNS", patterns),
		},
		MinIO: MinIOConfig{
			Endpoint:  getEnv("MINIO_ENDPOINT", ""),
			AccessKey: getEnv("MINIO_ACCESS_KEY", ""),
			SecretKey: getEnv("MINIO_SECRET_KEY", ""),
			Bucket:    getEnv("MINIO_BUCKET", ""),
			Prefix:    getEnv("MINIO_PREFIX", ""),
			UseSSL:    getEnvBool("MINIO_USE_SSL", false),
		},
	}
}

// IsProduction reports whether error details must be hidden from clients.
func (c *AppConfig) IsProduction() bool {
	return c.Environment == EnvProduction
}

// Location resolves Timezone, falling back to UTC when the zone is unknown.
func (c *AppConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err == nil {
			return i
		}
	}
	return def
}

// getEnvList splits a comma-separated value, dropping blanks.
func getEnvList(key string, def []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}
