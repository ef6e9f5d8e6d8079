package config

import (
	"flag"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

// Форматы вывода CLI.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

type Config struct {
	// Server-side settings
	DatabaseDSN   string `env:"DATABASE_URI"`
	AuthSecret    string `env:"AUTH_SECRET"`
	MaxDocumentMB int    `env:"MAX_DOCUMENT_MB"`

	// Shared settings
	BaseURL     string `env:"BASE_URL"`
	EnableHTTPS bool   `env:"ENABLE_HTTPS"`

	// Decoder settings
	ConnectionsFile       string `env:"CONNECTIONS_FILE"`
	Passphrase            string `env:"CONNECTIONS_PASSPHRASE"`
	LegacyFullFileDecrypt bool   `env:"LEGACY_FULL_FILE_DECRYPT"`

	// Client-side settings
	ServerURL    string `env:"-"`
	ClientDBPath string `env:"CLIENT_DB_PATH"`
	TokenFile    string `env:"TOKEN_FILE"`
	Profile      string `env:"CKCLI_PROFILE"`
	OutputFormat string `env:"OUTPUT_FORMAT"`
	Version      bool   `env:"-"` // show client version and exit (flag only)
}

func NewConfig() *Config {
	_ = godotenv.Load()

	cfg := &Config{}
	_ = env.Parse(cfg)

	// flags работают ТОЛЬКО если переменные из env не заданы
	// Server flags
	flag.StringVar(&cfg.DatabaseDSN, "d", cfg.DatabaseDSN, "строка подключения к БД каталога (postgres://… или путь к sqlite)")
	flag.StringVar(&cfg.AuthSecret, "auth-secret", cfg.AuthSecret, "секрет для подписи JWT")
	flag.IntVar(&cfg.MaxDocumentMB, "max-document-mb", cfg.MaxDocumentMB, "максимальный размер документа в запросе, МБ")
	// Shared/client flags
	flag.StringVar(&cfg.BaseURL, "base-url", cfg.BaseURL, "address of the ConnKeeper server (host:port)")
	flag.BoolVar(&cfg.EnableHTTPS, "https", cfg.EnableHTTPS, "enable HTTPS (client: prefer https scheme for BaseURL)")
	// Decoder flags
	flag.StringVar(&cfg.ConnectionsFile, "f", cfg.ConnectionsFile, "connections document used when a command gets no file argument")
	flag.BoolVar(&cfg.LegacyFullFileDecrypt, "legacy-full-file", cfg.LegacyFullFileDecrypt, "try non-XML input as a legacy whole-file ciphertext")
	// Client flags
	flag.StringVar(&cfg.ClientDBPath, "client-db", cfg.ClientDBPath, "base directory of the local catalog")
	flag.StringVar(&cfg.TokenFile, "token-file", cfg.TokenFile, "path to auth token file (client)")
	flag.StringVar(&cfg.Profile, "profile", cfg.Profile, "local catalog profile")
	flag.StringVar(&cfg.OutputFormat, "format", cfg.OutputFormat, "output format: text|json|yaml")
	flag.BoolVar(&cfg.Version, "version", cfg.Version, "Show client version and exit")

	flag.Parse()

	cfg.applyDefaults()
	return cfg
}

// applyDefaults заполняет незаданные значения.
func (cfg *Config) applyDefaults() {
	if cfg.AuthSecret == "" {
		cfg.AuthSecret = "dev-secret-key"
	}
	if cfg.MaxDocumentMB <= 0 {
		cfg.MaxDocumentMB = 16
	}
	// validate BaseURL: must be in "address:port" (no scheme, no path). Otherwise use default.
	hostPortRe := regexp.MustCompile(`^[A-Za-z0-9\.\-]+:\d{1,5}$`)
	if !hostPortRe.MatchString(cfg.BaseURL) {
		cfg.BaseURL = "localhost:8081"
	}

	if cfg.EnableHTTPS {
		cfg.ServerURL = "https://" + cfg.BaseURL
	} else {
		cfg.ServerURL = "http://" + cfg.BaseURL
	}

	switch f := strings.ToLower(strings.TrimSpace(cfg.OutputFormat)); f {
	case FormatJSON, FormatYAML:
		cfg.OutputFormat = f
	default:
		cfg.OutputFormat = FormatText
	}
	if cfg.Profile == "" {
		cfg.Profile = "default"
	}

	// Fill client defaults if empty
	if cfg.ClientDBPath == "" {
		if dir, err := os.UserConfigDir(); err == nil {
			cfg.ClientDBPath = filepath.Join(dir, "ConnKeeper", "profiles")
		}
	}
	if cfg.TokenFile == "" {
		home, _ := os.UserHomeDir()
		cfg.TokenFile = filepath.Join(home, ".ck_token")
	}
}

// MaxDocumentBytes — лимит тела запроса с документом.
func (cfg *Config) MaxDocumentBytes() int64 {
	return int64(cfg.MaxDocumentMB) * 1024 * 1024
}
