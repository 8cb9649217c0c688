package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/toptally/scoreboard-backend/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens an isolated in-memory SQLite database with the schema the
// service tests need. The Postgres-only column defaults (gen_random_uuid,
// jsonb) don't translate, so the schema is declared by hand; services set
// every id and payload themselves.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// One connection only: every pooled connection to :memory: would get
	// its own empty database.
	sqlDB.SetMaxOpenConns(1)

	for _, ddl := range []string{
		`CREATE TABLE users (
			id text PRIMARY KEY,
			email text NOT NULL UNIQUE,
			password text NOT NULL,
			display_name text,
			role text NOT NULL DEFAULT 'user',
			created_at datetime,
			updated_at datetime,
			deleted_at datetime
		)`,
		`CREATE TABLE subscriptions (
			id text PRIMARY KEY,
			user_id text NOT NULL,
			status text NOT NULL DEFAULT 'active',
			tier text NOT NULL DEFAULT 'supporter',
			billing_interval text NOT NULL DEFAULT 'monthly',
			amount_cents integer NOT NULL DEFAULT 0,
			currency text NOT NULL DEFAULT 'USD',
			is_gifted boolean NOT NULL DEFAULT 0,
			gifted_expires_at datetime,
			cancelled_at datetime,
			lock_enforced_at datetime,
			lemonsqueezy_subscription_id text,
			lemonsqueezy_customer_id text,
			lemonsqueezy_variant_id text,
			created_at datetime,
			updated_at datetime
		)`,
		`CREATE TABLE scoreboards (
			id text PRIMARY KEY,
			owner_id text NOT NULL,
			title text NOT NULL,
			slug text NOT NULL UNIQUE,
			visibility text NOT NULL DEFAULT 'public',
			is_locked boolean NOT NULL DEFAULT 0,
			theme text DEFAULT 'classic',
			custom_theme text,
			kiosk_enabled boolean NOT NULL DEFAULT 0,
			created_at datetime,
			updated_at datetime
		)`,
		`CREATE TABLE score_entries (
			id text PRIMARY KEY,
			scoreboard_id text NOT NULL,
			name text NOT NULL,
			score integer NOT NULL DEFAULT 0,
			position integer DEFAULT 0,
			created_at datetime,
			updated_at datetime
		)`,
		`CREATE TABLE tier_pricings (
			id text PRIMARY KEY,
			tier text NOT NULL,
			billing_interval text NOT NULL,
			amount_cents integer NOT NULL,
			currency text NOT NULL DEFAULT 'USD',
			variant_id text,
			synced_at datetime,
			created_at datetime,
			updated_at datetime,
			UNIQUE (tier, billing_interval)
		)`,
		`CREATE TABLE admin_audit_logs (
			id text PRIMARY KEY,
			actor_id text NOT NULL,
			action text NOT NULL,
			target_user_id text,
			details text NOT NULL DEFAULT '{}',
			created_at datetime
		)`,
	} {
		require.NoError(t, db.Exec(ddl).Error)
	}

	return db
}

func seedTestUser(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	user := &models.User{
		ID:       uuid.New(),
		Email:    email,
		Password: "irrelevant-hash",
		Role:     "user",
	}
	require.NoError(t, db.Create(user).Error)
	return user
}
