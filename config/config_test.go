package config

import (
	"context"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestLoadConfig(t *testing.T) {
	tests := []struct {
		name        string
		envVars     map[string]string
		expectError string
		check       func(t *testing.T, cfg *Config)
	}{
		{
			name: "defaults with postgres",
			envVars: map[string]string{
				"JWT_SECRET_KEY": testSecret,
			},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "8080", cfg.Server.Port)
				assert.Equal(t, StoreDriverPostgres, cfg.Server.StoreDriver)
				assert.Equal(t, "localhost", cfg.Database.Host)
				assert.Equal(t, 5432, cfg.Database.Port)
				assert.Equal(t, "submissions:created", cfg.Redis.Channel)
				assert.Equal(t, 4, cfg.WorkerPool.MaxWorkers)
				assert.Equal(t, "exports", cfg.Export.Prefix)
				assert.True(t, cfg.IsDevelopment())
			},
		},
		{
			name: "memory store and custom port",
			envVars: map[string]string{
				"JWT_SECRET_KEY": testSecret,
				"PORT":           "9090",
				"STORE_DRIVER":   "memory",
			},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "9090", cfg.Server.Port)
				assert.Equal(t, StoreDriverMemory, cfg.Server.StoreDriver)
			},
		},
		{
			name: "notifications without sinks are disabled",
			envVars: map[string]string{
				"JWT_SECRET_KEY":       testSecret,
				"NOTIFICATION_ENABLED": "true",
			},
			check: func(t *testing.T, cfg *Config) {
				assert.False(t, cfg.Notification.Enabled)
			},
		},
		{
			name: "notifications with redis stay enabled",
			envVars: map[string]string{
				"JWT_SECRET_KEY":       testSecret,
				"NOTIFICATION_ENABLED": "true",
				"REDIS_ADDRESS":        "localhost:6379",
			},
			check: func(t *testing.T, cfg *Config) {
				assert.True(t, cfg.Notification.Enabled)
				assert.Equal(t, "localhost:6379", cfg.Redis.Address)
			},
		},
		{
			name:        "missing JWT secret",
			envVars:     map[string]string{},
			expectError: "JWT secret key",
		},
		{
			name: "unknown store driver",
			envVars: map[string]string{
				"JWT_SECRET_KEY": testSecret,
				"STORE_DRIVER":   "mongo",
			},
			expectError: "unknown store driver",
		},
		{
			name: "resend key without sender",
			envVars: map[string]string{
				"JWT_SECRET_KEY":         testSecret,
				"NOTIFICATION_ENABLED":   "true",
				"RESEND_API_KEY":         "re_test",
				"EMAIL_OPERATOR_ADDRESS": "ops@example.com",
			},
			expectError: "email from address",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for key, value := range tt.envVars {
				t.Setenv(key, value)
			}

			cfg, err := LoadConfig()
			if tt.expectError != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.expectError)
				assert.Nil(t, cfg)
				return
			}
			require.NoError(t, err)
			tt.check(t, cfg)
		})
	}
}

func TestLoadToolConfig_DoesNotRequireJWT(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "")
	t.Setenv("STORE_DRIVER", "memory")

	cfg, err := LoadToolConfig()
	require.NoError(t, err)
	assert.Equal(t, StoreDriverMemory, cfg.Server.StoreDriver)

	_, err = LoadConfig()
	require.Error(t, err)
}

func TestConfigRedacted(t *testing.T) {
	cfg := Config{
		Server:   ServerConfig{JwtSecretKey: testSecret, Port: "8080"},
		Database: DatabaseConfig{Password: "hunter2"},
		Email:    EmailConfig{ResendAPIKey: "re_abcdefghijkl"},
	}

	r := cfg.Redacted()
	assert.Equal(t, "8080", r.Server.Port)
	assert.NotContains(t, r.Server.JwtSecretKey, "0123")
	assert.Equal(t, "...", r.Database.Password)
	assert.Equal(t, "re_...", r.Email.ResendAPIKey)
	assert.Empty(t, r.Redis.Password)
	assert.Equal(t, testSecret, cfg.Server.JwtSecretKey)
}

func TestDatabaseConfigURL(t *testing.T) {
	cfg := DatabaseConfig{Host: "db", Port: 5433, User: "app", Password: "p@ss word", Name: "contacts"}
	assert.Equal(t, "postgres://app:p%40ss%20word@db:5433/contacts?sslmode=disable", cfg.URL())

	cfg.SSLMode = "require"
	assert.Contains(t, cfg.URL(), "sslmode=require")
}

func TestConfigurePostgresPool(t *testing.T) {
	t.Setenv("K_SERVICE", "")
	cfg := &DatabaseConfig{
		Host:         "localhost",
		Port:         5432,
		User:         "postgres",
		Password:     "secret",
		Name:         "contact_intake",
		SSLMode:      "disable",
		MaxOpenConns: 8,
		MaxIdleConns: 2,
		ConnMaxLife:  "not-a-duration",
	}

	poolCfg, err := ConfigurePostgresPool(cfg)
	require.NoError(t, err)
	assert.Equal(t, int32(8), poolCfg.MaxConns)
	assert.Equal(t, int32(2), poolCfg.MinConns)
	assert.Equal(t, 5*time.Minute, poolCfg.MaxConnLifetime)
	assert.Nil(t, poolCfg.ConnConfig.TLSConfig)
	assert.Equal(t, "contact_intake", poolCfg.ConnConfig.Database)
}

func TestConfigurePostgresPool_Serverless(t *testing.T) {
	t.Setenv("K_SERVICE", "contact-intake")
	cfg := &DatabaseConfig{
		Host:         "db.internal",
		Port:         5432,
		User:         "postgres",
		Password:     "secret",
		Name:         "contact_intake",
		SSLMode:      "require",
		MaxOpenConns: 50,
		MaxIdleConns: 20,
		ConnMaxLife:  "1h",
	}

	poolCfg, err := ConfigurePostgresPool(cfg)
	require.NoError(t, err)
	assert.Equal(t, int32(10), poolCfg.MaxConns)
	assert.Equal(t, int32(5), poolCfg.MinConns)
	assert.Equal(t, 5*time.Minute, poolCfg.MaxConnLifetime)
	require.NotNil(t, poolCfg.ConnConfig.TLSConfig)
	assert.Equal(t, "db.internal", poolCfg.ConnConfig.TLSConfig.ServerName)
}

func TestConfigureRedisOptions(t *testing.T) {
	opts := ConfigureRedisOptions(&RedisConfig{Address: "localhost:6379", DB: 2, PoolSize: 3})
	assert.Equal(t, "localhost:6379", opts.Addr)
	assert.Equal(t, 2, opts.DB)
	assert.Nil(t, opts.TLSConfig)

	opts = ConfigureRedisOptions(&RedisConfig{Address: "cache:6380", UseTLS: true})
	assert.NotNil(t, opts.TLSConfig)
}

func TestTestRedisConnection(t *testing.T) {
	client, mock := redismock.NewClientMock()
	mock.ExpectPing().SetVal("PONG")

	require.NoError(t, TestRedisConnection(context.Background(), client))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTestRedisConnection_ContextCancelled(t *testing.T) {
	client, mock := redismock.NewClientMock()
	mock.ExpectPing().SetErr(assert.AnError)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := TestRedisConnection(ctx, client)
	assert.ErrorIs(t, err, context.Canceled)
}
