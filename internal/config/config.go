package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

const DefaultPath = "configs/config.toml"

// DBProfile is one independently pooled database connection profile.
type DBProfile struct {
	Host           string
	Port           int
	User           string
	Password       string
	Name           string
	MaxConns       int32  `toml:"max_conns"`
	SSLMode        string `toml:"sslmode"`
	ConnectTimeout time.Duration
	StrTimeout     string `toml:"connect_timeout"`
}

// DSN builds the pgx connection string for the profile.
func (p DBProfile) DSN() string {
	sslMode := p.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}

	query := "sslmode=" + url.QueryEscape(sslMode)
	if p.ConnectTimeout > 0 {
		query += "&connect_timeout=" + strconv.Itoa(int(p.ConnectTimeout.Seconds()))
	}

	// Credentials from env routinely carry '@', '/', '#' or '?'.
	dsn := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(p.User, p.Password),
		Host:     net.JoinHostPort(p.Host, strconv.Itoa(p.Port)),
		Path:     "/" + p.Name,
		RawQuery: query,
	}

	return dsn.String()
}

type Config struct {
	Server struct {
		Host              string
		GRPCAddr          string `toml:"grpc_addr"`
		JWTSecret         string `toml:"jwt_secret"`
		ReadTimeout       time.Duration
		ReadHeaderTimeout time.Duration
		StrReadTimeout    string `toml:"read_timeout"`
		StrHeaderTimeout  string `toml:"read_header_timeout"`
	}
	Database struct {
		AutoMigrate bool      `toml:"auto_migrate"`
		Get         DBProfile `toml:"get"`
		Post        DBProfile `toml:"post"`
	}
	Redis struct {
		RedisAddr     string `toml:"redis_addr"`
		RedisPassword string `toml:"redis_password"`
		RedisDB       int    `toml:"redis_db"`
	}
	Session struct {
		TTL          time.Duration
		StrTTL       string `toml:"ttl"`
		CookieSecure bool   `toml:"cookie_secure"`
	}
	Notifications struct {
		Heartbeat    time.Duration
		StrHeartbeat string `toml:"heartbeat"`
	}
	Retention struct {
		Schedule string
	}
	Log struct {
		File  string
		Level string
	}
}

// GetConfig reads the TOML file at path, applies .env and environment
// overrides and validates the result.
func GetConfig(path string, logger *slog.Logger) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logger.Debug(".env file not loaded", slog.String("error", err.Error()))
	}

	if envPath := os.Getenv("CONFIG_PATH"); envPath != "" {
		path = envPath
	}

	data, err := os.ReadFile(path)
	if err != nil {
		logger.Error("Error read config file", slog.String("path", path), slog.String("error", err.Error()))
		return nil, err
	}

	var cfg Config
	if _, tomlErr := toml.Decode(string(data), &cfg); tomlErr != nil {
		logger.Error("Error decode config file", slog.String("error", tomlErr.Error()))
		return nil, tomlErr
	}

	applyEnv(&cfg)

	if err = cfg.parseDurations(); err != nil {
		return nil, err
	}

	if err = cfg.validate(); err != nil {
		return nil, err
	}

	logger.Info("Config is loaded", slog.String("path", path))
	return &cfg, nil
}

func (c *Config) parseDurations() error {
	var err error

	if c.Server.ReadTimeout, err = parseDuration(c.Server.StrReadTimeout, 15*time.Second); err != nil {
		return fmt.Errorf("invalid read_timeout: %w", err)
	}
	if c.Server.ReadHeaderTimeout, err = parseDuration(c.Server.StrHeaderTimeout, 5*time.Second); err != nil {
		return fmt.Errorf("invalid read_header_timeout: %w", err)
	}
	if c.Session.TTL, err = parseDuration(c.Session.StrTTL, 24*time.Hour); err != nil {
		return fmt.Errorf("invalid session ttl: %w", err)
	}
	if c.Notifications.Heartbeat, err = parseDuration(c.Notifications.StrHeartbeat, 30*time.Second); err != nil {
		return fmt.Errorf("invalid notifications heartbeat: %w", err)
	}
	if c.Database.Get.ConnectTimeout, err = parseDuration(c.Database.Get.StrTimeout, 10*time.Second); err != nil {
		return fmt.Errorf("invalid database.get connect_timeout: %w", err)
	}
	if c.Database.Post.ConnectTimeout, err = parseDuration(c.Database.Post.StrTimeout, 10*time.Second); err != nil {
		return fmt.Errorf("invalid database.post connect_timeout: %w", err)
	}

	return nil
}

func (c *Config) validate() error {
	if c.Server.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	if c.Database.Get.Host == "" || c.Database.Post.Host == "" {
		return errors.New("both database profiles (get, post) need a host")
	}
	if c.Server.Host == "" {
		c.Server.Host = ":3000"
	}
	for _, p := range []*DBProfile{&c.Database.Get, &c.Database.Post} {
		if p.Port == 0 {
			p.Port = 5432
		}
		if p.MaxConns == 0 {
			p.MaxConns = 50
		}
	}

	return nil
}

func applyEnv(cfg *Config) {
	overrideProfile(&cfg.Database.Get, "GET")
	overrideProfile(&cfg.Database.Post, "POST")

	if v, ok := os.LookupEnv("JWT_SECRET"); ok {
		cfg.Server.JWTSecret = v
	}
	if v, ok := os.LookupEnv("REDIS_ADDR"); ok {
		cfg.Redis.RedisAddr = v
	}
	if v, ok := os.LookupEnv("REDIS_PASSWORD"); ok {
		cfg.Redis.RedisPassword = v
	}
}

func overrideProfile(p *DBProfile, suffix string) {
	if v, ok := os.LookupEnv("DB_HOST_" + suffix); ok {
		p.Host = v
	}
	if v, ok := os.LookupEnv("DB_USER_" + suffix); ok {
		p.User = v
	}
	if v, ok := os.LookupEnv("DB_PASSWORD_" + suffix); ok {
		p.Password = v
	}
	if v, ok := os.LookupEnv("DB_NAME_" + suffix); ok {
		p.Name = v
	}
	if v, ok := os.LookupEnv("DB_PORT_" + suffix); ok {
		if port, err := strconv.Atoi(v); err == nil {
			p.Port = port
		}
	}
}

func parseDuration(s string, fallback time.Duration) (time.Duration, error) {
	if s == "" {
		return fallback, nil
	}

	return time.ParseDuration(s)
}
