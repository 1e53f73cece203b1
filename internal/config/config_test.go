package config

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		App: AppConfig{Name: "oscr-register", Env: "test", Port: "8080"},
		JWT: JWTConfig{Secret: "test-secret", ExpiryHours: time.Hour, RefreshExpiryHours: time.Hour},
		RateLimit: RateLimitConfig{Requests: 10, Duration: 60},
		Register: RegisterConfig{
			Currency:        "EUR",
			Storage:         "memory",
			StandardVATName: "Standard",
			StandardVATRate: decimal.NewFromInt(19),
			StandardVATAbbr: "A",
			ReducedVATName:  "Reduced",
			ReducedVATRate:  decimal.NewFromInt(7),
			ReducedVATAbbr:  "B",
			AdminName:       "admin",
			AdminPIN:        "1234",
		},
	}
}

func TestConfig_Validate(t *testing.T) {
	require.NoError(t, validConfig().Validate())
	assert.True(t, validConfig().UsesMemoryStorage())

	tests := []struct {
		name   string
		modify func(c *Config)
	}{
		{"unknown storage", func(c *Config) { c.Register.Storage = "redis" }},
		{"currency code", func(c *Config) { c.Register.Currency = "EURO" }},
		{"shared class name", func(c *Config) { c.Register.ReducedVATName = "Standard" }},
		{"shared abbreviation", func(c *Config) { c.Register.ReducedVATAbbr = "A" }},
		{"long abbreviation", func(c *Config) { c.Register.StandardVATAbbr = "AB" }},
		{"negative rate", func(c *Config) { c.Register.ReducedVATRate = decimal.NewFromInt(-1) }},
		{"rate of a hundred", func(c *Config) { c.Register.StandardVATRate = decimal.NewFromInt(100) }},
		{"short PIN", func(c *Config) { c.Register.AdminPIN = "12" }},
		{"short secret", func(c *Config) { c.JWT.Secret = "x" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validConfig()
			tt.modify(c)
			assert.Error(t, c.Validate())
		})
	}
}

func TestDatabaseConfig_DSN(t *testing.T) {
	c := DatabaseConfig{Host: "db", Port: "5432", Name: "oscr", User: "u", Password: "p", SSLMode: "disable", Timezone: "UTC"}
	assert.Equal(t, "host=db user=u password=p dbname=oscr port=5432 sslmode=disable TimeZone=UTC", c.DSN())
}
