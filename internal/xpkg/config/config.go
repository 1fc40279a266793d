package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

const (
	StoreMemory   = "memory"
	StoreSQLite   = "sqlite"
	StorePostgres = "postgres"

	CatalogStatic = "static"
	CatalogRemote = "remote"

	SinkNone = "none"
	SinkHTTP = "http"
	SinkAMQP = "amqp"
)

type Config struct {
	LogLevel string    `yaml:"log_level"`
	Store    *Store    `yaml:"store"`
	DB       *Postgres `yaml:"database"`
	RMQ      *RabbitMQ `yaml:"rabbitmq"`
	Catalog  *Catalog  `yaml:"catalog"`
	Sink     *Sink     `yaml:"sink"`
	Orders   *Orders   `yaml:"orders"`
	History  *History  `yaml:"history"`
	Auth     *Auth     `yaml:"auth"`
}

type Store struct {
	Driver     string `yaml:"driver"`
	SQLitePath string `yaml:"sqlite_path"`
}

type Postgres struct {
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
}

type RabbitMQ struct {
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	VHost    string `yaml:"vhost"`
	Exchange string `yaml:"exchange"`
	Queue    string `yaml:"queue"`
}

type Catalog struct {
	Source  string        `yaml:"source"`
	URL     string        `yaml:"url"`
	Timeout time.Duration `yaml:"timeout"`
}

type Sink struct {
	Kind    string        `yaml:"kind"`
	URL     string        `yaml:"url"`
	Timeout time.Duration `yaml:"timeout"`
}

type Orders struct {
	DeliveryFee    string   `yaml:"delivery_fee"`
	FirstNumber    int64    `yaml:"first_number"`
	PaymentMethods []string `yaml:"payment_methods"`
}

type History struct {
	MaxEntries int    `yaml:"max_entries"`
	Timezone   string `yaml:"timezone"`
}

type Auth struct {
	AdminPassword string `yaml:"admin_password"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		LogLevel: "INFO",
		Store: &Store{
			Driver:     StoreMemory,
			SQLitePath: "hamburgueria.db",
		},
		DB: &Postgres{
			Host:     "localhost",
			Port:     "5432",
			User:     "hamburgueria",
			Password: "hamburgueria",
			Database: "hamburgueria",
		},
		RMQ: &RabbitMQ{
			User:     "guest",
			Password: "guest",
			Host:     "localhost",
			Port:     "5672",
			VHost:    "/",
			Exchange: "orders_topic",
			Queue:    "history_queue",
		},
		Catalog: &Catalog{
			Source:  CatalogStatic,
			Timeout: 10 * time.Second,
		},
		Sink: &Sink{
			Kind:    SinkNone,
			Timeout: 10 * time.Second,
		},
		Orders: &Orders{
			DeliveryFee:    "5.00",
			FirstNumber:    1000,
			PaymentMethods: []string{"pix", "cash", "card"},
		},
		History: &History{
			Timezone: "Local",
		},
		Auth: &Auth{
			AdminPassword: "admin123",
		},
	}
}

// LoadConfig reads configPath on top of the defaults and then applies
// HAMBURGUERIA_* environment overrides. A missing file is not an error.
func LoadConfig(configPath string) (*Config, error) {
	cnf := Default()

	if configPath != "" {
		data, err := os.ReadFile(configPath)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, err
		default:
			if err := yaml.Unmarshal(data, cnf); err != nil {
				return nil, fmt.Errorf("parse %s: %w", configPath, err)
			}
		}
	}

	cnf.fillNilSections()
	applyEnv(cnf)

	if err := cnf.Validate(); err != nil {
		return nil, err
	}
	return cnf, nil
}

// fillNilSections restores the defaults of sections a file left null,
// such as "store: ~" or a key with no body.
func (c *Config) fillNilSections() {
	d := Default()
	if c.Store == nil {
		c.Store = d.Store
	}
	if c.DB == nil {
		c.DB = d.DB
	}
	if c.RMQ == nil {
		c.RMQ = d.RMQ
	}
	if c.Catalog == nil {
		c.Catalog = d.Catalog
	}
	if c.Sink == nil {
		c.Sink = d.Sink
	}
	if c.Orders == nil {
		c.Orders = d.Orders
	}
	if c.History == nil {
		c.History = d.History
	}
	if c.Auth == nil {
		c.Auth = d.Auth
	}
}

func applyEnv(c *Config) {
	c.LogLevel = getEnv("HAMBURGUERIA_LOG_LEVEL", c.LogLevel)

	c.Store.Driver = getEnv("HAMBURGUERIA_STORE_DRIVER", c.Store.Driver)
	c.Store.SQLitePath = getEnv("HAMBURGUERIA_SQLITE_PATH", c.Store.SQLitePath)

	c.DB.Host = getEnv("POSTGRES_HOST", c.DB.Host)
	c.DB.Port = getEnv("POSTGRES_PORT", c.DB.Port)
	c.DB.User = getEnv("POSTGRES_USER", c.DB.User)
	c.DB.Password = getEnv("POSTGRES_PASSWORD", c.DB.Password)
	c.DB.Database = getEnv("POSTGRES_DBNAME", c.DB.Database)

	c.RMQ.Host = getEnv("RABBITMQ_HOST", c.RMQ.Host)
	c.RMQ.Port = getEnv("RABBITMQ_PORT", c.RMQ.Port)
	c.RMQ.User = getEnv("RABBITMQ_USER", c.RMQ.User)
	c.RMQ.Password = getEnv("RABBITMQ_PASSWORD", c.RMQ.Password)

	c.Catalog.Source = getEnv("HAMBURGUERIA_CATALOG_SOURCE", c.Catalog.Source)
	c.Catalog.URL = getEnv("HAMBURGUERIA_CATALOG_URL", c.Catalog.URL)
	c.Sink.Kind = getEnv("HAMBURGUERIA_SINK_KIND", c.Sink.Kind)
	c.Sink.URL = getEnv("HAMBURGUERIA_SINK_URL", c.Sink.URL)

	c.Orders.DeliveryFee = getEnv("HAMBURGUERIA_DELIVERY_FEE", c.Orders.DeliveryFee)
	if v := getEnv("HAMBURGUERIA_FIRST_ORDER_NUMBER", ""); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.Orders.FirstNumber = n
		}
	}

	c.Auth.AdminPassword = getEnv("HAMBURGUERIA_ADMIN_PASSWORD", c.Auth.AdminPassword)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// Validate checks the values that the services cannot recover from.
func (c *Config) Validate() error {
	switch c.Store.Driver {
	case StoreMemory, StoreSQLite, StorePostgres:
	default:
		return fmt.Errorf("unknown store driver: %q", c.Store.Driver)
	}

	switch c.Catalog.Source {
	case CatalogStatic:
	case CatalogRemote:
		if c.Catalog.URL == "" {
			return errors.New("catalog.url is required for the remote catalog")
		}
	default:
		return fmt.Errorf("unknown catalog source: %q", c.Catalog.Source)
	}

	switch c.Sink.Kind {
	case SinkNone, SinkAMQP:
	case SinkHTTP:
		if c.Sink.URL == "" {
			return errors.New("sink.url is required for the http sink")
		}
	default:
		return fmt.Errorf("unknown sink kind: %q", c.Sink.Kind)
	}

	fee, err := c.Orders.Fee()
	if err != nil {
		return err
	}
	if fee.IsNegative() {
		return fmt.Errorf("delivery fee cannot be negative: %s", fee)
	}

	if len(c.Orders.PaymentMethods) == 0 {
		return errors.New("at least one payment method is required")
	}
	for i, m := range c.Orders.PaymentMethods {
		m = strings.ToLower(strings.TrimSpace(m))
		if m == "" {
			return fmt.Errorf("payment method %d is empty", i+1)
		}
		c.Orders.PaymentMethods[i] = m
	}

	if c.History.MaxEntries < 0 {
		return fmt.Errorf("history max entries cannot be negative: %d", c.History.MaxEntries)
	}
	if _, err := c.History.Location(); err != nil {
		return err
	}
	return nil
}

// Fee parses the configured delivery fee.
func (o *Orders) Fee() (decimal.Decimal, error) {
	fee, err := decimal.NewFromString(strings.TrimSpace(o.DeliveryFee))
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid delivery fee %q: %w", o.DeliveryFee, err)
	}
	return fee, nil
}

func (h *History) Location() (*time.Location, error) {
	if h.Timezone == "" || h.Timezone == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(h.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid history timezone %q: %w", h.Timezone, err)
	}
	return loc, nil
}

// DSN builds the connection string the pgx pool expects.
func (p *Postgres) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		p.User,
		p.Password,
		p.Host,
		p.Port,
		p.Database,
	)
}

func (r *RabbitMQ) URL() string {
	vhost := strings.TrimPrefix(r.VHost, "/")
	return fmt.Sprintf("amqp://%s:%s@%s:%s/%s", r.User, r.Password, r.Host, r.Port, vhost)
}
