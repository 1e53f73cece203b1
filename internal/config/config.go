package config

import (
	"fmt"
	"log"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

var validate = validator.New()

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	JWT       JWTConfig
	CORS      CORSConfig
	RateLimit RateLimitConfig
	Register  RegisterConfig
}

type AppConfig struct {
	Name  string `validate:"required"`
	Env   string `validate:"oneof=development staging production test"`
	Port  string `validate:"required,numeric"`
	Debug bool
}

type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	SSLMode  string
	Timezone string
}

type JWTConfig struct {
	Secret             string        `validate:"required,min=8"`
	ExpiryHours        time.Duration `validate:"gt=0"`
	RefreshExpiryHours time.Duration `validate:"gt=0"`
}

type CORSConfig struct {
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
}

type RateLimitConfig struct {
	Requests int `validate:"gt=0"`
	Duration int `validate:"gt=0"`
}

// RegisterConfig holds what a register needs before its first bill: the
// currency, where bills are stored, the two global VAT classes and the
// operator created on an empty store.
type RegisterConfig struct {
	Currency string `validate:"required,len=3,alpha"`
	Storage  string `validate:"oneof=postgres memory"`

	StandardVATName string          `validate:"required"`
	StandardVATRate decimal.Decimal `validate:"-"`
	StandardVATAbbr string          `validate:"len=1"`
	ReducedVATName  string          `validate:"required,nefield=StandardVATName"`
	ReducedVATRate  decimal.Decimal `validate:"-"`
	ReducedVATAbbr  string          `validate:"len=1,nefield=StandardVATAbbr"`

	AdminName string `validate:"required"`
	AdminPIN  string `validate:"required,min=4,numeric"`
}

func Load() *Config {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables: %v", err)
	}

	// Set defaults
	viper.SetDefault("APP_NAME", "oscr-register")
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("APP_DEBUG", true)
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_NAME", "oscr")
	viper.SetDefault("DB_USER", "postgres")
	viper.SetDefault("DB_PASSWORD", "postgres")
	viper.SetDefault("DB_SSL_MODE", "disable")
	viper.SetDefault("DB_TIMEZONE", "Europe/Berlin")
	viper.SetDefault("JWT_SECRET", "change-this-secret-in-production")
	viper.SetDefault("JWT_EXPIRY_HOURS", 12)
	viper.SetDefault("JWT_REFRESH_EXPIRY_HOURS", 72)
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	viper.SetDefault("CORS_ALLOWED_HEADERS", []string{})
	viper.SetDefault("RATE_LIMIT_REQUESTS", 300)
	viper.SetDefault("RATE_LIMIT_DURATION", 60)
	viper.SetDefault("REGISTER_CURRENCY", "EUR")
	viper.SetDefault("REGISTER_STORAGE", "postgres")
	viper.SetDefault("VAT_STANDARD_NAME", "Standard")
	viper.SetDefault("VAT_STANDARD_RATE", "19")
	viper.SetDefault("VAT_STANDARD_ABBR", "A")
	viper.SetDefault("VAT_REDUCED_NAME", "Reduced")
	viper.SetDefault("VAT_REDUCED_RATE", "7")
	viper.SetDefault("VAT_REDUCED_ABBR", "B")
	viper.SetDefault("ADMIN_NAME", "admin")
	viper.SetDefault("ADMIN_PIN", "0000")

	return &Config{
		App: AppConfig{
			Name:  viper.GetString("APP_NAME"),
			Env:   viper.GetString("APP_ENV"),
			Port:  viper.GetString("APP_PORT"),
			Debug: viper.GetBool("APP_DEBUG"),
		},
		Database: DatabaseConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			Name:     viper.GetString("DB_NAME"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASSWORD"),
			SSLMode:  viper.GetString("DB_SSL_MODE"),
			Timezone: viper.GetString("DB_TIMEZONE"),
		},
		JWT: JWTConfig{
			Secret:             viper.GetString("JWT_SECRET"),
			ExpiryHours:        time.Duration(viper.GetInt("JWT_EXPIRY_HOURS")) * time.Hour,
			RefreshExpiryHours: time.Duration(viper.GetInt("JWT_REFRESH_EXPIRY_HOURS")) * time.Hour,
		},
		CORS: CORSConfig{
			AllowedOrigins: viper.GetStringSlice("CORS_ALLOWED_ORIGINS"),
			AllowedMethods: viper.GetStringSlice("CORS_ALLOWED_METHODS"),
			AllowedHeaders: viper.GetStringSlice("CORS_ALLOWED_HEADERS"),
		},
		RateLimit: RateLimitConfig{
			Requests: viper.GetInt("RATE_LIMIT_REQUESTS"),
			Duration: viper.GetInt("RATE_LIMIT_DURATION"),
		},
		Register: RegisterConfig{
			Currency:        viper.GetString("REGISTER_CURRENCY"),
			Storage:         viper.GetString("REGISTER_STORAGE"),
			StandardVATName: viper.GetString("VAT_STANDARD_NAME"),
			StandardVATRate: rateOf("VAT_STANDARD_RATE"),
			StandardVATAbbr: viper.GetString("VAT_STANDARD_ABBR"),
			ReducedVATName:  viper.GetString("VAT_REDUCED_NAME"),
			ReducedVATRate:  rateOf("VAT_REDUCED_RATE"),
			ReducedVATAbbr:  viper.GetString("VAT_REDUCED_ABBR"),
			AdminName:       viper.GetString("ADMIN_NAME"),
			AdminPIN:        viper.GetString("ADMIN_PIN"),
		},
	}
}

func rateOf(key string) decimal.Decimal {
	rate, err := decimal.NewFromString(viper.GetString(key))
	if err != nil {
		log.Printf("Warning: %s is not a decimal, using 0: %v", key, err)
		return decimal.Zero
	}
	return rate
}

// Validate checks the loaded values before anything connects
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	for name, rate := range map[string]decimal.Decimal{
		"VAT_STANDARD_RATE": c.Register.StandardVATRate,
		"VAT_REDUCED_RATE":  c.Register.ReducedVATRate,
	} {
		if rate.IsNegative() || rate.GreaterThanOrEqual(decimal.NewFromInt(100)) {
			return fmt.Errorf("invalid configuration: %s must be in [0, 100), got %s", name, rate)
		}
	}
	return nil
}

// UsesMemoryStorage reports whether bills are kept in process memory
func (c *Config) UsesMemoryStorage() bool {
	return c.Register.Storage == "memory"
}

func (c *DatabaseConfig) DSN() string {
	return "host=" + c.Host +
		" user=" + c.User +
		" password=" + c.Password +
		" dbname=" + c.Name +
		" port=" + c.Port +
		" sslmode=" + c.SSLMode +
		" TimeZone=" + c.Timezone
}
