// File: /config/config.go
package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Port        string
	DatabaseURL string
	JWTSecret   string

	// Upstream GPS provider
	GPSAPIURL     string
	GPSAPIKey     string
	GPSTimeout    time.Duration
	PollInterval  time.Duration // live position poll
	RouteInterval time.Duration // trip route re-poll
	KPIInterval   time.Duration // dashboard refresh

	TrailLimit int

	// Geofence event delivery
	WebhookURL  string
	AdminEmails []string

	// Email settings
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	FromEmail    string
	FromName     string

	// Seed admin operator
	AdminEmail    string
	AdminPassword string
}

func Load() *Config {
	smtpPort, _ := strconv.Atoi(getEnv("SMTP_PORT", "2525"))

	return &Config{
		Port:        getEnv("PORT", "8080"),
		DatabaseURL: getEnv("DATABASE_URL", "user:password@tcp(localhost:3306)/fleettrack?charset=utf8mb4&parseTime=True&loc=Local"),
		JWTSecret:   getEnv("JWT_SECRET", "your-secret-key"),

		GPSAPIURL:     getEnv("GPS_API_URL", "https://gps.example.com/mct/api/api.php"),
		GPSAPIKey:     getEnv("GPS_API_KEY", ""),
		GPSTimeout:    getDuration("GPS_TIMEOUT", 10*time.Second),
		PollInterval:  getDuration("POLL_INTERVAL", 5*time.Second),
		RouteInterval: getDuration("ROUTE_INTERVAL", 15*time.Second),
		KPIInterval:   getDuration("KPI_INTERVAL", 30*time.Second),

		TrailLimit: getInt("TRAIL_LIMIT", 720),

		WebhookURL:  getEnv("GEOFENCE_WEBHOOK_URL", ""),
		AdminEmails: getList("ADMIN_EMAILS", nil),

		SMTPHost:     getEnv("SMTP_HOST", "sandbox.smtp.mailtrap.io"),
		SMTPPort:     smtpPort,
		SMTPUsername: getEnv("SMTP_USERNAME", ""),
		SMTPPassword: getEnv("SMTP_PASSWORD", ""),
		FromEmail:    getEnv("FROM_EMAIL", "noreply@fleettrack.local"),
		FromName:     getEnv("FROM_NAME", "FleetTrack"),

		AdminEmail:    getEnv("ADMIN_EMAIL", "admin@fleettrack.local"),
		AdminPassword: getEnv("ADMIN_PASSWORD", "changeme"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
