package config

import (
	"os"
	"time"
)

type Config struct {
	// Database
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// JWT
	JWTSecret        string
	JWTAccessExpiry  time.Duration
	JWTRefreshExpiry time.Duration

	// Lemon Squeezy
	LemonSqueezyAPIKey        string
	LemonSqueezyAPIURL        string
	LemonSqueezyStoreID       string
	LemonSqueezySigningSecret string
	LemonSqueezyTimeout       time.Duration

	// Variant IDs per (tier, interval), assigned in the Lemon Squeezy
	// dashboard. Opaque strings; empty means the pair is not sold.
	VariantSupporterMonthly   string
	VariantSupporterYearly    string
	VariantChampionMonthly    string
	VariantChampionYearly     string
	VariantLegendMonthly      string
	VariantLegendYearly       string
	VariantHallOfFamerMonthly string
	VariantHallOfFamerYearly  string

	// Admin
	AdminEmails string

	// Server
	Port        string
	CORSOrigins string
	UpgradeURL  string
}

func Load() *Config {
	return &Config{
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "toptally"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		JWTSecret:        getEnv("JWT_SECRET", ""),
		JWTAccessExpiry:  parseDuration(getEnv("JWT_ACCESS_EXPIRY", "15m")),
		JWTRefreshExpiry: parseDuration(getEnv("JWT_REFRESH_EXPIRY", "168h")),

		LemonSqueezyAPIKey:        getEnv("LEMONSQUEEZY_API_KEY", ""),
		LemonSqueezyAPIURL:        getEnv("LEMONSQUEEZY_API_URL", "https://api.lemonsqueezy.com"),
		LemonSqueezyStoreID:       getEnv("LEMONSQUEEZY_STORE_ID", ""),
		LemonSqueezySigningSecret: getEnv("LEMONSQUEEZY_SIGNING_SECRET", ""),
		LemonSqueezyTimeout:       parseDuration(getEnv("LEMONSQUEEZY_TIMEOUT", "10s")),

		VariantSupporterMonthly:   getEnv("LS_VARIANT_SUPPORTER_MONTHLY", ""),
		VariantSupporterYearly:    getEnv("LS_VARIANT_SUPPORTER_YEARLY", ""),
		VariantChampionMonthly:    getEnv("LS_VARIANT_CHAMPION_MONTHLY", ""),
		VariantChampionYearly:     getEnv("LS_VARIANT_CHAMPION_YEARLY", ""),
		VariantLegendMonthly:      getEnv("LS_VARIANT_LEGEND_MONTHLY", ""),
		VariantLegendYearly:       getEnv("LS_VARIANT_LEGEND_YEARLY", ""),
		VariantHallOfFamerMonthly: getEnv("LS_VARIANT_HALL_OF_FAMER_MONTHLY", ""),
		VariantHallOfFamerYearly:  getEnv("LS_VARIANT_HALL_OF_FAMER_YEARLY", ""),

		AdminEmails: getEnv("ADMIN_EMAILS", ""),

		Port:        getEnv("PORT", "8080"),
		CORSOrigins: getEnv("CORS_ORIGINS", "*"),
		UpgradeURL:  getEnv("UPGRADE_URL", "https://toptally.app/upgrade"),
	}
}

func (c *Config) DSN() string {
	return "host=" + c.DBHost +
		" user=" + c.DBUser +
		" password=" + c.DBPassword +
		" dbname=" + c.DBName +
		" port=" + c.DBPort +
		" sslmode=" + c.DBSSLMode +
		" TimeZone=UTC"
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func parseDuration(s string) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return 15 * time.Minute
	}
	return d
}
