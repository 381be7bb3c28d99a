package config

import (
	"context"
	"os"
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	// Set required environment variable
	os.Setenv("JWT_SECRET", "test-secret-key-that-is-at-least-32-characters-long")
	defer os.Unsetenv("JWT_SECRET")

	ctx := context.Background()
	cfg, err := Load(ctx)
	if err != nil {
		t.Fatalf("Failed to load configuration: %v", err)
	}

	// Test default values
	if cfg.Server.Port != "8080" {
		t.Errorf("Expected Server.Port to be '8080', got '%s'", cfg.Server.Port)
	}

	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("Expected Server.Host to be '0.0.0.0', got '%s'", cfg.Server.Host)
	}

	if cfg.Postgres.Host != "localhost" {
		t.Errorf("Expected Postgres.Host to be 'localhost', got '%s'", cfg.Postgres.Host)
	}

	if cfg.Postgres.MigrationsPath != "file://migrations" {
		t.Errorf("Expected Postgres.MigrationsPath to be 'file://migrations', got '%s'", cfg.Postgres.MigrationsPath)
	}

	if cfg.JWT.Issuer != "inkwell-auth" {
		t.Errorf("Expected JWT.Issuer to be 'inkwell-auth', got '%s'", cfg.JWT.Issuer)
	}

	if cfg.JWT.Audience != "inkwell-api" {
		t.Errorf("Expected JWT.Audience to be 'inkwell-api', got '%s'", cfg.JWT.Audience)
	}

	if cfg.JWT.AccessTokenExpiry.Duration != 24*time.Hour {
		t.Errorf("Expected JWT.AccessTokenExpiry to be 24h, got %v", cfg.JWT.AccessTokenExpiry.Duration)
	}

	if cfg.JWT.RefreshTokenExpiry.Duration != 7*24*time.Hour {
		t.Errorf("Expected JWT.RefreshTokenExpiry to be 7d, got %v", cfg.JWT.RefreshTokenExpiry.Duration)
	}

	if cfg.Security.BCryptCost != 12 {
		t.Errorf("Expected Security.BCryptCost to be 12, got %d", cfg.Security.BCryptCost)
	}

	if cfg.Security.ResetTokenExpiry.Duration != 30*time.Minute {
		t.Errorf("Expected Security.ResetTokenExpiry to be 30m, got %v", cfg.Security.ResetTokenExpiry.Duration)
	}

	if !cfg.Security.RevokeSessionsOnPasswordChange {
		t.Error("Expected Security.RevokeSessionsOnPasswordChange to default to true")
	}

	if cfg.Google.ClientID != "" {
		t.Errorf("Expected Google.ClientID to default to empty, got '%s'", cfg.Google.ClientID)
	}

	if cfg.Env != "development" {
		t.Errorf("Expected Env to be 'development', got '%s'", cfg.Env)
	}

	if len(cfg.CORS.AllowedOrigins) == 0 {
		t.Error("Expected CORS.AllowedOrigins to have at least one value")
	}
}

func TestLoadWithCustomValues(t *testing.T) {
	os.Setenv("JWT_SECRET", "test-secret-key-that-is-at-least-32-characters-long")
	os.Setenv("SERVER_PORT", "9090")
	os.Setenv("JWT_ACCESS_TOKEN_EXPIRY", "30m")
	os.Setenv("GOOGLE_CLIENT_ID", "client-id.apps.googleusercontent.com")
	os.Setenv("REVOKE_SESSIONS_ON_PASSWORD_CHANGE", "false")
	os.Setenv("ENV", "production")
	defer func() {
		os.Unsetenv("JWT_SECRET")
		os.Unsetenv("SERVER_PORT")
		os.Unsetenv("JWT_ACCESS_TOKEN_EXPIRY")
		os.Unsetenv("GOOGLE_CLIENT_ID")
		os.Unsetenv("REVOKE_SESSIONS_ON_PASSWORD_CHANGE")
		os.Unsetenv("ENV")
	}()

	ctx := context.Background()
	cfg, err := Load(ctx)
	if err != nil {
		t.Fatalf("Failed to load configuration: %v", err)
	}

	if cfg.Server.Port != "9090" {
		t.Errorf("Expected Server.Port to be '9090', got '%s'", cfg.Server.Port)
	}

	if cfg.JWT.AccessTokenExpiry.Duration != 30*time.Minute {
		t.Errorf("Expected JWT.AccessTokenExpiry to be 30m, got %v", cfg.JWT.AccessTokenExpiry.Duration)
	}

	if cfg.Google.ClientID != "client-id.apps.googleusercontent.com" {
		t.Errorf("Unexpected Google.ClientID: '%s'", cfg.Google.ClientID)
	}

	if cfg.Security.RevokeSessionsOnPasswordChange {
		t.Error("Expected Security.RevokeSessionsOnPasswordChange to be false")
	}

	if cfg.Env != "production" {
		t.Errorf("Expected Env to be 'production', got '%s'", cfg.Env)
	}
}

func TestLoadWithoutJWTSecret(t *testing.T) {
	os.Unsetenv("JWT_SECRET")

	ctx := context.Background()
	_, err := Load(ctx)
	if err == nil {
		t.Error("Expected error when JWT_SECRET is not set")
	}
}

func TestLoadWithShortJWTSecret(t *testing.T) {
	os.Setenv("JWT_SECRET", "short")
	defer os.Unsetenv("JWT_SECRET")

	ctx := context.Background()
	_, err := Load(ctx)
	if err == nil {
		t.Error("Expected error when JWT_SECRET is too short")
	}
}

func TestPostgresDSN(t *testing.T) {
	pg := PostgresConfig{
		Host:     "localhost",
		Port:     "5432",
		User:     "test_user",
		Password: "test_password",
		DBName:   "test_db",
		SSLMode:  "disable",
	}

	dsn := pg.DSN()
	expected := "host=localhost port=5432 user=test_user password=test_password dbname=test_db sslmode=disable"
	if dsn != expected {
		t.Errorf("Expected DSN to be '%s', got '%s'", expected, dsn)
	}
}

func TestRedisAddress(t *testing.T) {
	redis := RedisConfig{
		Host: "localhost",
		Port: "6379",
	}

	addr := redis.Address()
	expected := "localhost:6379"
	if addr != expected {
		t.Errorf("Expected Address to be '%s', got '%s'", expected, addr)
	}
}

func TestDurationDaysSuffix(t *testing.T) {
	var d Duration
	if err := d.EnvDecode(context.Background(), "14d"); err != nil {
		t.Fatalf("Failed to decode '14d': %v", err)
	}
	if d.Duration != 14*24*time.Hour {
		t.Errorf("Expected 14d to decode to 336h, got %v", d.Duration)
	}

	if err := d.EnvDecode(context.Background(), "90m"); err != nil {
		t.Fatalf("Failed to decode '90m': %v", err)
	}
	if d.Duration != 90*time.Minute {
		t.Errorf("Expected 90m to decode to 1h30m, got %v", d.Duration)
	}

	if err := d.EnvDecode(context.Background(), "bogus"); err == nil {
		t.Error("Expected error for invalid duration")
	}
}
