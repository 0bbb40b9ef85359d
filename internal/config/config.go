package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	HTTPAddr string

	DBDriver string
	DBDSN    string

	BlobBasePath string // report export files land here

	// ReferenceNow anchors relative-date resolution ("TODAY",
	// "Yesterday at 3pm"). Injected for reproducibility; falls back to
	// process start only when unset.
	ReferenceNow time.Time

	TopN int // default result-size limit for insight tables

	CORSOrigins []string

	AuthSecret     string
	AdminUser      string
	AdminPassHash  string // bcrypt
	ViewerUser     string
	ViewerPassHash string // bcrypt

	// Optional dataset loaded at boot so the dashboard has data before
	// the first upload.
	QuestionsPath string
	BallotsPath   string
	AnswersPath   string
}

func FromEnv() Config {
	return Config{
		HTTPAddr:       envOr("HTTP_ADDR", ":8080"),
		DBDriver:       envOr("DB_DRIVER", "sqlite"),
		DBDSN:          envOr("DB_DSN", ""),
		BlobBasePath:   envOr("BLOB_BASE_PATH", "./reports"),
		ReferenceNow:   envTime("REFERENCE_NOW", time.Now()),
		TopN:           envInt("TOP_N", 20),
		CORSOrigins:    csvOr("CORS_ORIGINS", "http://localhost:3000"),
		AuthSecret:     envOr("AUTH_HMAC_SECRET", "supersecret-dev-key"),
		AdminUser:      envOr("ADMIN_USER", "admin"),
		AdminPassHash:  envOr("ADMIN_PASS_HASH", "$2y$12$pyZAiWaTfVtM7UElIRStvOC3gNbnp70nmQU4eYopLGBfCJr1DOvji"),
		ViewerUser:     envOr("VIEWER_USER", "viewer"),
		ViewerPassHash: envOr("VIEWER_PASS_HASH", ""),
		QuestionsPath:  os.Getenv("QUESTIONS_PATH"),
		BallotsPath:    os.Getenv("BALLOTS_PATH"),
		AnswersPath:    os.Getenv("ANSWERS_PATH"),
	}
}

func envOr(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}

func envInt(k string, def int) int {
	if v, err := strconv.Atoi(os.Getenv(k)); err == nil && v > 0 {
		return v
	}
	return def
}

func envTime(k string, def time.Time) time.Time {
	if t, err := time.Parse(time.RFC3339, os.Getenv(k)); err == nil {
		return t
	}
	return def
}

func csvOr(k, def string) []string {
	v := envOr(k, def)
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
