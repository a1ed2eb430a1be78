package configs

import (
	"fmt"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/shopspring/decimal"
)

type Config struct {
	App struct {
		Name     string `koanf:"name"`
		HTTPAddr string `koanf:"http_addr"`
		LogLevel string `koanf:"log_level"`
		LogFile  string `koanf:"log_file"`
	} `koanf:"app"`

	HTTP struct {
		ReadTimeout  time.Duration `koanf:"read_timeout"`
		WriteTimeout time.Duration `koanf:"write_timeout"`
		IdleTimeout  time.Duration `koanf:"idle_timeout"`
	} `koanf:"http"`

	Checkout struct {
		// 0.0825 in this deployment; parsed into decimal on access
		TaxRate        string        `koanf:"tax_rate"`
		RideLimit      int           `koanf:"ride_limit"`
		RequestTimeout time.Duration `koanf:"request_timeout"`
	} `koanf:"checkout"`

	ParkAPI struct {
		BaseURL string        `koanf:"base_url"`
		Timeout time.Duration `koanf:"timeout"`
	} `koanf:"park_api"`

	MySQL struct {
		DSN             string        `koanf:"dsn"`
		MaxOpenConns    int           `koanf:"max_open_conns"`
		MaxIdleConns    int           `koanf:"max_idle_conns"`
		ConnMaxLifetime time.Duration `koanf:"conn_max_lifetime"`
	} `koanf:"mysql"`

	Redis struct {
		Addr     string        `koanf:"addr"`
		Password string        `koanf:"password"`
		CartTTL  time.Duration `koanf:"cart_ttl"`
		StockTTL time.Duration `koanf:"stock_ttl"`
	} `koanf:"redis"`

	Idempotency struct {
		TTL time.Duration `koanf:"ttl"`
	} `koanf:"idempotency"`

	Rabbit struct {
		URL        string `koanf:"url"`
		Exchange   string `koanf:"exchange"`
		RoutingKey string `koanf:"routing_key"`
	} `koanf:"rabbitmq"`

	Kafka struct {
		Brokers []string `koanf:"brokers"`
		Topic   string   `koanf:"topic"`
		GroupID string   `koanf:"group_id"`
	} `koanf:"kafka"`

	Security struct {
		JWTSecret  string        `koanf:"jwt_secret"`
		Issuer     string        `koanf:"issuer"`
		Audience   string        `koanf:"audience"`
		TTL        time.Duration `koanf:"ttl"`
		CardKeyB64 string        `koanf:"card_key_b64url"`
	} `koanf:"security"`
}

func Load(pathDir, envName string) (Config, error) {
	k := koanf.New(".")
	// 1) base
	if err := k.Load(file.Provider(fmt.Sprintf("%s/base.yaml", pathDir)), yaml.Parser()); err != nil {
		return Config{}, fmt.Errorf("load base: %w", err)
	}

	// 2) env override (dev/staging/prod). Optional: allow missing for local runs.
	_ = k.Load(file.Provider(fmt.Sprintf("%s/%s.yaml", pathDir, envName)), yaml.Parser())

	// 3) environment variables override (prefix PARKCHECKOUT_, nested with __)
	// e.g. PARKCHECKOUT_MYSQL__DSN, PARKCHECKOUT_REDIS__PASSWORD
	if err := k.Load(env.Provider("PARKCHECKOUT_", ".", func(s string) string {
		s = strings.TrimPrefix(s, "PARKCHECKOUT_")
		s = strings.ReplaceAll(s, "__", ".")
		return strings.ToLower(s)
	}), nil); err != nil {
		return Config{}, fmt.Errorf("env overlay: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.App.HTTPAddr == "" {
		return fmt.Errorf("app.http_addr required")
	}
	if c.ParkAPI.BaseURL == "" {
		return fmt.Errorf("park_api.base_url required")
	}
	if c.MySQL.DSN == "" {
		return fmt.Errorf("mysql.dsn required")
	}
	if _, err := decimal.NewFromString(c.Checkout.TaxRate); err != nil {
		return fmt.Errorf("checkout.tax_rate invalid: %w", err)
	}
	if c.Checkout.RideLimit <= 0 {
		return fmt.Errorf("checkout.ride_limit must be positive")
	}
	return nil
}

// TaxRate returns the configured rate as a decimal. Validate has
// already vetted the string.
func (c Config) TaxRate() decimal.Decimal {
	d, _ := decimal.NewFromString(c.Checkout.TaxRate)
	return d
}
