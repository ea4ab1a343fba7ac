// Package config loads the service configuration from YAML, then applies
// POSFEE_* environment overrides and defaults, and validates the result.
package config

import (
	"encoding/base64"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

const EnvPrefix = "POSFEE_"

type Config struct {
	Server struct {
		Addr string `yaml:"addr" validate:"required"`
		// debug | release | test (gin modes)
		Mode string `yaml:"mode" validate:"oneof=debug release test"`
	} `yaml:"server"`

	Fee struct {
		Percentage int     `yaml:"percentage" validate:"gte=1,lte=100"`
		GatewayID  string  `yaml:"gateway_id" validate:"required"`
		TaxRate    float64 `yaml:"tax_rate" validate:"gte=0,lte=100"`
	} `yaml:"fee"`

	Checkout struct {
		PathPrefix string `yaml:"path_prefix" validate:"required,startswith=/,endswith=/"`
		AjaxURL    string `yaml:"ajax_url" validate:"required,startswith=/"`
		// Optional YAML file of orders loaded into the in-memory repository.
		OrdersFile string `yaml:"orders_file"`
	} `yaml:"checkout"`

	Security struct {
		TokenSecret string `yaml:"token_secret" validate:"required,min=16"`
		// base64 of the 32 byte key sealing the session cookie
		SessionKey string `yaml:"session_key" validate:"required,base64"`
	} `yaml:"security"`

	Session struct {
		CookieName string `yaml:"cookie_name" validate:"required"`
		Path       string `yaml:"path"`
		Domain     string `yaml:"domain"`
		Secure     *bool  `yaml:"secure"`
		SameSite   string `yaml:"samesite" validate:"omitempty,oneof=lax strict none"`
		TTL        string `yaml:"ttl"`
		KeyPrefix  string `yaml:"key_prefix"`
	} `yaml:"session"`

	Cache struct {
		Kind      string `yaml:"kind" validate:"oneof=memory redis"`
		Ristretto struct {
			MaxCost     int64 `yaml:"max_cost" validate:"gte=0"`
			NumCounters int64 `yaml:"num_counters" validate:"gte=0"`
			BufferItems int64 `yaml:"buffer_items" validate:"gte=0"`
		} `yaml:"ristretto"`
		Redis struct {
			Addr     string `yaml:"addr"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db" validate:"gte=0"`
		} `yaml:"redis"`
	} `yaml:"cache"`

	Log struct {
		Development bool   `yaml:"development"`
		Level       string `yaml:"level" validate:"oneof=debug info warn error"`
	} `yaml:"log"`
}

// Load reads path (skipped when empty), then applies environment overrides and
// defaults before validating.
func Load(path string) (*Config, error) {
	var c Config

	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		if err := yaml.Unmarshal(b, &c); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}

	c.applyEnvOverrides()
	c.applyDefaults()

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Server.Mode == "" {
		c.Server.Mode = "release"
	}
	if c.Fee.Percentage == 0 {
		c.Fee.Percentage = 3
	}
	if c.Fee.GatewayID == "" {
		c.Fee.GatewayID = "stripe_terminal_for_woocommerce"
	}
	if c.Checkout.PathPrefix == "" {
		c.Checkout.PathPrefix = "/wcpos-checkout/"
	}
	if c.Checkout.AjaxURL == "" {
		c.Checkout.AjaxURL = "/ajax"
	}
	if c.Session.CookieName == "" {
		c.Session.CookieName = "wcpos_ccf_session"
	}
	if c.Session.Path == "" {
		c.Session.Path = "/"
	}
	if c.Session.Secure == nil {
		secure := true
		c.Session.Secure = &secure
	}
	if c.Session.SameSite == "" {
		c.Session.SameSite = "lax"
	}
	if c.Session.TTL == "" {
		c.Session.TTL = "48h"
	}
	if c.Cache.Kind == "" {
		c.Cache.Kind = "memory"
	}
	if c.Cache.Redis.Addr == "" {
		c.Cache.Redis.Addr = "localhost:6379"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

// Validate checks the struct tags, then the values tags cannot express.
func (c *Config) Validate() error {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	if _, err := c.SessionKeyBytes(); err != nil {
		return err
	}
	if _, err := time.ParseDuration(c.Session.TTL); err != nil {
		return fmt.Errorf("invalid config: session.ttl: %w", err)
	}
	return nil
}

// SessionKeyBytes decodes the cookie sealing key, which must be 32 bytes.
func (c *Config) SessionKeyBytes() ([]byte, error) {
	key, err := base64.StdEncoding.DecodeString(c.Security.SessionKey)
	if err != nil {
		return nil, fmt.Errorf("invalid config: security.session_key: %w", err)
	}
	if len(key) != 32 {
		return nil, fmt.Errorf("invalid config: security.session_key must decode to 32 bytes, got %d", len(key))
	}
	return key, nil
}

func (c *Config) SessionTTL() time.Duration {
	d, _ := time.ParseDuration(c.Session.TTL)
	return d
}

func (c *Config) CookieSecure() bool {
	return c.Session.Secure == nil || *c.Session.Secure
}

func (c *Config) SameSite() http.SameSite {
	switch c.Session.SameSite {
	case "strict":
		return http.SameSiteStrictMode
	case "none":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteLaxMode
	}
}

// ---- Helpers env ----

func getEnvStr(key string) (string, bool) {
	v := os.Getenv(EnvPrefix + key)
	return v, v != ""
}

func getEnvInt(key string) (int, bool) {
	if s, ok := getEnvStr(key); ok {
		if i, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
			return i, true
		}
	}
	return 0, false
}

func getEnvFloat(key string) (float64, bool) {
	if s, ok := getEnvStr(key); ok {
		if f, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
			return f, true
		}
	}
	return 0, false
}

func getEnvBool(key string) (bool, bool) {
	if s, ok := getEnvStr(key); ok {
		if b, err := strconv.ParseBool(strings.TrimSpace(s)); err == nil {
			return b, true
		}
	}
	return false, false
}

func (c *Config) applyEnvOverrides() {
	// SERVER
	if v, ok := getEnvStr("SERVER_ADDR"); ok {
		c.Server.Addr = v
	}
	if v, ok := getEnvStr("SERVER_MODE"); ok {
		c.Server.Mode = strings.ToLower(v)
	}

	// FEE
	if v, ok := getEnvInt("FEE_PERCENTAGE"); ok {
		c.Fee.Percentage = v
	}
	if v, ok := getEnvStr("FEE_GATEWAY_ID"); ok {
		c.Fee.GatewayID = v
	}
	if v, ok := getEnvFloat("FEE_TAX_RATE"); ok {
		c.Fee.TaxRate = v
	}

	// CHECKOUT
	if v, ok := getEnvStr("CHECKOUT_PATH_PREFIX"); ok {
		c.Checkout.PathPrefix = v
	}
	if v, ok := getEnvStr("CHECKOUT_AJAX_URL"); ok {
		c.Checkout.AjaxURL = v
	}
	if v, ok := getEnvStr("CHECKOUT_ORDERS_FILE"); ok {
		c.Checkout.OrdersFile = v
	}

	// SECURITY
	if v, ok := getEnvStr("TOKEN_SECRET"); ok {
		c.Security.TokenSecret = v
	}
	if v, ok := getEnvStr("SESSION_KEY"); ok {
		c.Security.SessionKey = v
	}

	// SESSION
	if v, ok := getEnvStr("SESSION_COOKIE_NAME"); ok {
		c.Session.CookieName = v
	}
	if v, ok := getEnvStr("SESSION_DOMAIN"); ok {
		c.Session.Domain = v
	}
	if v, ok := getEnvBool("SESSION_SECURE"); ok {
		c.Session.Secure = &v
	}
	if v, ok := getEnvStr("SESSION_SAMESITE"); ok {
		c.Session.SameSite = strings.ToLower(v)
	}
	if v, ok := getEnvStr("SESSION_TTL"); ok {
		c.Session.TTL = v
	}

	// CACHE
	if v, ok := getEnvStr("CACHE_KIND"); ok {
		c.Cache.Kind = v
	}
	if v, ok := getEnvStr("REDIS_ADDR"); ok {
		c.Cache.Redis.Addr = v
	}
	if v, ok := getEnvStr("REDIS_PASSWORD"); ok {
		c.Cache.Redis.Password = v
	}
	if v, ok := getEnvInt("REDIS_DB"); ok {
		c.Cache.Redis.DB = v
	}

	// LOG
	if v, ok := getEnvStr("LOG_LEVEL"); ok {
		c.Log.Level = strings.ToLower(v)
	}
	if v, ok := getEnvBool("LOG_DEVELOPMENT"); ok {
		c.Log.Development = v
	}
}
