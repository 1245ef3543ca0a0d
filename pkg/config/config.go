package config

import (
	"log"
	"os"
	"time"

	"github.com/hasnain-jasiqlab/ShreyaVastralok/pkg/utils"
	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Env      string   `yaml:"env" env:"ENV" env-default:"local"`
	LogLevel string   `yaml:"log_level" env:"LOG_LEVEL" env-default:"info"`
	HTTP     HTTP     `yaml:"http"`
	Postgres PG       `yaml:"postgres"`
	Redis    Redis    `yaml:"redis"`
	Kafka    Kafka    `yaml:"kafka"`
	Supabase Supabase `yaml:"supabase"`
	Limiter  Limiter  `yaml:"limiter"`
	CORS     CORS     `yaml:"cors"`
	SMTP     SMTP     `yaml:"smtp"`
	Tracing  Tracing  `yaml:"tracing"`
}

type HTTP struct {
	Port           string        `yaml:"port" env:"HTTP_PORT" env-default:":5000"`
	Timeout        time.Duration `yaml:"timeout" env-default:"10s"`
	BodyLimitBytes int           `yaml:"body_limit_bytes" env-default:"62914560"`
}

type PG struct {
	URL         string `yaml:"url" env:"DB_URL"`
	MaxConns    int32  `yaml:"max_conns" env-default:"10"`
	MinConns    int32  `yaml:"min_conns" env-default:"2"`
	Migrations  string `yaml:"migrations" env:"MIGRATIONS_PATH" env-default:"./migrations"`
	AutoMigrate bool   `yaml:"auto_migrate" env:"DB_AUTO_MIGRATE" env-default:"false"`
}

type Redis struct {
	Enabled bool          `yaml:"enabled" env:"REDIS_ENABLED" env-default:"false"`
	Addr    string        `yaml:"addr" env:"REDIS_ADDR" env-default:"localhost:6379"`
	TTL     time.Duration `yaml:"ttl" env-default:"10m"`
}

type Kafka struct {
	Enabled        bool          `yaml:"enabled" env:"KAFKA_ENABLED" env-default:"false"`
	Brokers        []string      `yaml:"brokers" env:"KAFKA_BROKERS" env-separator:"," env-default:"localhost:9092"`
	OutboxBatch    int           `yaml:"outbox_batch" env-default:"50"`
	OutboxInterval time.Duration `yaml:"outbox_interval" env-default:"500ms"`
}

type Supabase struct {
	URL         string `yaml:"url" env:"SUPABASE_URL"`
	JWTSecret   string `yaml:"jwt_secret" env:"SUPABASE_JWT_SECRET"`
	JWTAudience string `yaml:"jwt_audience" env:"SUPABASE_JWT_AUDIENCE" env-default:"authenticated"`
	AccessKey   string `yaml:"s3_access_key" env:"SUPABASE_S3_ACCESS_KEY"`
	SecretKey   string `yaml:"s3_secret_key" env:"SUPABASE_S3_SECRET_KEY"`
	Region      string `yaml:"region" env:"SUPABASE_S3_REGION" env-default:"us-east-1"`
	Bucket      string `yaml:"bucket" env:"SUPABASE_BUCKET" env-default:"images"`
}

type Limiter struct {
	Max    int           `yaml:"max" env-default:"100"`
	Window time.Duration `yaml:"window" env-default:"1m"`
}

type CORS struct {
	AllowOrigins string `yaml:"allow_origins" env:"CLIENT_URL" env-default:"http://localhost:5173"`
}

type SMTP struct {
	Host       string `yaml:"host" env:"SMTP_HOST"`
	Port       string `yaml:"port" env:"SMTP_PORT" env-default:"587"`
	User       string `yaml:"user" env:"SMTP_USER"`
	Password   string `yaml:"password" env:"SMTP_PASSWORD"`
	AdminEmail string `yaml:"admin_email" env:"ADMIN_EMAIL"`
}

type Tracing struct {
	Endpoint string `yaml:"endpoint" env:"JAEGER_ENDPOINT" env-default:"localhost:4318"`
}

func (c *Config) IsProduction() bool {
	return c.Env == "prod"
}

func MustLoad() *Config {
	configPath := utils.ParseWithFallback("CONFIG_PATH", "./config/local.yaml")

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		log.Fatalf("config file does not exists: %v\n", err)
	}

	var cfg Config
	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		log.Fatalf("error reading config: %v", err)
	}

	return &cfg
}
