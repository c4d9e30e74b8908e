// Package config loads cartd settings from an optional YAML file overlaid by
// environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/nikolayk812/sqlcart/internal/service"
	"github.com/nikolayk812/sqlcart/internal/shipping"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"gopkg.in/yaml.v3"
)

var ErrInvalid = errors.New("invalid configuration")

type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Cart     CartConfig     `yaml:"cart"`
	Kafka    KafkaConfig    `yaml:"kafka"`
	Outbox   OutboxConfig   `yaml:"outbox"`
	Log      LogConfig      `yaml:"log"`
}

type HTTPConfig struct {
	Addr            string        `yaml:"addr"`
	CookieSecure    bool          `yaml:"cookie_secure"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

type DatabaseConfig struct {
	URL string `yaml:"url"`
}

type RedisConfig struct {
	Addr          string        `yaml:"addr"`
	Password      string        `yaml:"password"`
	DB            int           `yaml:"db"`
	SessionPrefix string        `yaml:"session_prefix"`
	SessionTTL    time.Duration `yaml:"session_ttl"`
}

// CartConfig holds amounts as strings so they stay exact decimals.
type CartConfig struct {
	Currency      string `yaml:"currency"`
	Shipping      string `yaml:"shipping"`
	WeightCost    string `yaml:"weight_cost"`
	FlatRate      string `yaml:"flat_rate"`
	UnitWeight    string `yaml:"unit_weight"`
	RatePerWeight string `yaml:"rate_per_weight"`
}

type KafkaConfig struct {
	// Brokers is a comma separated list. Empty disables the outbox relay.
	Brokers string `yaml:"brokers"`
}

type OutboxConfig struct {
	Interval  time.Duration `yaml:"interval"`
	BatchSize int           `yaml:"batch_size"`
}

type LogConfig struct {
	Mode string `yaml:"mode"`
}

func Default() Config {
	return Config{
		HTTP: HTTPConfig{
			Addr:            ":8080",
			ShutdownTimeout: 10 * time.Second,
		},
		Redis: RedisConfig{
			Addr:          "localhost:6379",
			SessionPrefix: "cart:session",
			SessionTTL:    30 * 24 * time.Hour,
		},
		Cart: CartConfig{
			Currency:      "EUR",
			Shipping:      "free",
			WeightCost:    "zero",
			FlatRate:      "0",
			UnitWeight:    "0",
			RatePerWeight: "0",
		},
		Outbox: OutboxConfig{
			Interval:  time.Second,
			BatchSize: 100,
		},
		Log: LogConfig{Mode: "development"},
	}
}

// Load reads path when it is not empty, applies environment overrides and validates the result.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			return Config{}, err
		}
	}

	if err := cfg.applyEnv(os.Getenv); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	ext := filepath.Ext(path)
	if ext != ".yaml" && ext != ".yml" {
		return fmt.Errorf("unsupported config file extension %q: %w", ext, ErrInvalid)
	}

	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("os.ReadFile: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("yaml.Unmarshal: %w", err)
	}

	return nil
}

func (c *Config) applyEnv(getenv func(string) string) error {
	env := func(keys ...string) string {
		for _, k := range keys {
			if v := strings.TrimSpace(getenv(k)); v != "" {
				return v
			}
		}
		return ""
	}

	setString := func(dst *string, keys ...string) {
		if v := env(keys...); v != "" {
			*dst = v
		}
	}

	setString(&c.HTTP.Addr, "CART_HTTP_ADDR")
	setString(&c.Database.URL, "CART_DATABASE_URL", "DATABASE_URL")
	setString(&c.Redis.Addr, "CART_REDIS_ADDR", "REDIS_ADDR")
	setString(&c.Redis.Password, "CART_REDIS_PASSWORD", "REDIS_PASSWORD")
	setString(&c.Redis.SessionPrefix, "CART_SESSION_PREFIX")
	setString(&c.Cart.Currency, "CART_CURRENCY")
	setString(&c.Cart.Shipping, "CART_SHIPPING")
	setString(&c.Cart.WeightCost, "CART_WEIGHT_COST")
	setString(&c.Cart.FlatRate, "CART_FLAT_RATE")
	setString(&c.Cart.UnitWeight, "CART_UNIT_WEIGHT")
	setString(&c.Cart.RatePerWeight, "CART_RATE_PER_WEIGHT")
	setString(&c.Kafka.Brokers, "CART_KAFKA_BROKERS", "KAFKA_BROKERS")
	setString(&c.Log.Mode, "CART_LOG_MODE")

	if v := env("CART_HTTP_COOKIE_SECURE"); v != "" {
		c.HTTP.CookieSecure = parseBool(v)
	}

	durations := []struct {
		dst *time.Duration
		key string
	}{
		{&c.HTTP.ShutdownTimeout, "CART_HTTP_SHUTDOWN_TIMEOUT"},
		{&c.Redis.SessionTTL, "CART_SESSION_TTL"},
		{&c.Outbox.Interval, "CART_OUTBOX_INTERVAL"},
	}
	for _, d := range durations {
		v := env(d.key)
		if v == "" {
			continue
		}
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s: %w", d.key, err)
		}
		*d.dst = parsed
	}

	ints := []struct {
		dst *int
		key string
	}{
		{&c.Redis.DB, "CART_REDIS_DB"},
		{&c.Outbox.BatchSize, "CART_OUTBOX_BATCH_SIZE"},
	}
	for _, i := range ints {
		v := env(i.key)
		if v == "" {
			continue
		}
		parsed, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", i.key, err)
		}
		*i.dst = parsed
	}

	return nil
}

func (c Config) Validate() error {
	if c.Database.URL == "" {
		return fmt.Errorf("database url is required: %w", ErrInvalid)
	}
	if c.HTTP.Addr == "" {
		return fmt.Errorf("http addr is required: %w", ErrInvalid)
	}
	if c.Redis.Addr == "" {
		return fmt.Errorf("redis addr is required: %w", ErrInvalid)
	}
	if c.Kafka.Brokers != "" {
		if c.Outbox.Interval <= 0 {
			return fmt.Errorf("outbox interval must be positive: %w", ErrInvalid)
		}
		if c.Outbox.BatchSize < 1 {
			return fmt.Errorf("outbox batch size must be positive: %w", ErrInvalid)
		}
	}

	if _, err := c.Cart.Service(); err != nil {
		return err
	}

	return nil
}

// Service builds the cart service settings, resolving the currency and the
// shipping functions by name.
func (c CartConfig) Service() (service.Config, error) {
	cur, err := currency.ParseISO(c.Currency)
	if err != nil {
		return service.Config{}, fmt.Errorf("cart currency %q: %w", c.Currency, errors.Join(ErrInvalid, err))
	}

	params, err := c.shippingParams()
	if err != nil {
		return service.Config{}, err
	}

	ship, err := shipping.Lookup(c.Shipping, params)
	if err != nil {
		return service.Config{}, errors.Join(ErrInvalid, err)
	}

	weightCost, err := shipping.LookupWeightCost(c.WeightCost, params)
	if err != nil {
		return service.Config{}, errors.Join(ErrInvalid, err)
	}

	return service.Config{
		Currency:   cur,
		Shipping:   ship,
		WeightCost: weightCost,
	}, nil
}

func (c CartConfig) shippingParams() (shipping.Params, error) {
	var p shipping.Params

	amounts := []struct {
		name  string
		value string
		dst   *decimal.Decimal
	}{
		{"flat_rate", c.FlatRate, &p.FlatRate},
		{"unit_weight", c.UnitWeight, &p.UnitWeight},
		{"rate_per_weight", c.RatePerWeight, &p.RatePerWeight},
	}

	for _, a := range amounts {
		if a.value == "" {
			*a.dst = decimal.Zero
			continue
		}
		d, err := decimal.NewFromString(a.value)
		if err != nil {
			return shipping.Params{}, fmt.Errorf("cart %s %q: %w", a.name, a.value, errors.Join(ErrInvalid, err))
		}
		if d.IsNegative() {
			return shipping.Params{}, fmt.Errorf("cart %s must not be negative: %w", a.name, ErrInvalid)
		}
		*a.dst = d
	}

	return p, nil
}

func parseBool(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "true" || s == "1" || s == "yes" || s == "on"
}
