// Package config provides functionality for managing configuration options
// for the application using command-line flags, a config file, a .env file
// and environment variables.
package config

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Options holds the configuration values for the application. A single
// Options value is built at startup and handed to every component.
type Options struct {
	// Port defines the server's listening address (ip:port).
	Port string `json:"port" yaml:"port"`

	// DatabaseDSN holds the database connection string for the application.
	DatabaseDSN string `json:"database_dsn" yaml:"database_dsn"`

	// Config is the path to the Config file.
	Config string `json:"-" yaml:"-"`

	// LogLevel is the zap level name.
	LogLevel string `json:"log_level" yaml:"log_level"`

	// Username and Password are the single admin credentials accepted by /api/login.
	Username string `json:"username" yaml:"username"`
	Password string `json:"password" yaml:"password"`
	// Token is the static secret handed out on login and checked by /api/check-token.
	Token string `json:"token" yaml:"token"`

	SMTP SMTPOptions `json:"smtp" yaml:"smtp"`

	// ImageDir is where uploaded images are written when no object store is configured.
	ImageDir string `json:"image_dir" yaml:"image_dir"`
	// PublicScheme is the scheme used when deriving public image URLs.
	PublicScheme string `json:"public_scheme" yaml:"public_scheme"`

	S3 S3Options `json:"s3" yaml:"s3"`

	// CORSOrigins is a comma separated allow-list; "*" allows everything.
	CORSOrigins string `json:"cors_origins" yaml:"cors_origins"`

	// UploadMemory is how many bytes of a multipart upload are held in memory
	// before spilling to temporary files.
	UploadMemory int64 `json:"upload_memory" yaml:"upload_memory"`

	// TLSCert and TLSKey enable HTTPS when both are set.
	TLSCert string `json:"tls_cert" yaml:"tls_cert"`
	TLSKey  string `json:"tls_key" yaml:"tls_key"`
}

// SMTPOptions configures the outbound mail relay.
type SMTPOptions struct {
	Host     string `json:"host" yaml:"host"`
	Port     int    `json:"port" yaml:"port"`
	User     string `json:"user" yaml:"user"`
	Password string `json:"password" yaml:"password"`
	// From is the envelope and header sender of contact mails.
	From string `json:"from" yaml:"from"`
	// To is the portfolio owner's inbox.
	To string `json:"to" yaml:"to"`
}

// S3Options configures the optional MinIO/S3 image backend.
type S3Options struct {
	Endpoint  string `json:"endpoint" yaml:"endpoint"`
	AccessKey string `json:"access_key" yaml:"access_key"`
	SecretKey string `json:"secret_key" yaml:"secret_key"`
	Bucket    string `json:"bucket" yaml:"bucket"`
}

// Enabled reports whether enough is configured to use the object store.
func (o S3Options) Enabled() bool {
	return o.Endpoint != ""
}

// Addr returns host:port of the SMTP relay.
func (o SMTPOptions) Addr() string {
	return fmt.Sprintf("%s:%d", o.Host, o.Port)
}

// Default returns the baseline options before flags, files and env are applied.
func Default() *Options {
	return &Options{
		Port:         ":8000",
		Config:       "config.json",
		LogLevel:     "info",
		ImageDir:     filepath.Join("public", "images"),
		PublicScheme: "https",
		CORSOrigins:  "*",
		UploadMemory: 10 << 20,
		SMTP: SMTPOptions{
			Host: "smtp.sendgrid.net",
			Port: 587,
			User: "apikey",
		},
	}
}

// options holds the current configuration values.
var options = Default()

// init initializes command-line flags and sets default values.
func init() {
	flag.StringVar(&options.Port, "a", options.Port, "run on ip:port server")
	flag.StringVar(&options.DatabaseDSN, "d", "", "db address")
	flag.StringVar(&options.Config, "config", options.Config, "path to config file (.json, .yaml or .yml)")
	flag.StringVar(&options.Config, "c", options.Config, "path to config file (shorthand)")
	flag.StringVar(&options.LogLevel, "l", options.LogLevel, "log level")
}

// Parse parses the command-line flags, the optional config file, the optional
// .env file and the environment, in that order of increasing precedence.
// It returns a pointer to the Options struct containing the parsed values.
func Parse() (*Options, error) {
	flag.Parse()

	// .env only fills variables that are not already set.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	if configPath := os.Getenv("CONFIG"); configPath != "" {
		options.Config = configPath
	}

	if err := options.loadFile(options.Config); err != nil {
		return nil, err
	}

	if err := options.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}

	if err := options.Validate(); err != nil {
		return nil, err
	}

	return options, nil
}

// loadFile merges a JSON or YAML file into o. A missing file is not an error.
func (o *Options) loadFile(path string) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); err != nil {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("error while reading config file: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, o)
	default:
		err = json.Unmarshal(data, o)
	}
	if err != nil {
		return fmt.Errorf("error while parsing config file: %w", err)
	}
	return nil
}

// applyEnv overrides o with any variable lookup reports as set.
func (o *Options) applyEnv(lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}

	if port, ok := lookup("PORT"); ok && port != "" {
		o.Port = ":" + port
	}
	str("SERVER_ADDRESS", &o.Port)
	str("DATABASE_DSN", &o.DatabaseDSN)
	str("LOG_LEVEL", &o.LogLevel)

	str("PORTFOLIO_USERNAME", &o.Username)
	str("PASSWORD", &o.Password)
	str("TOKEN", &o.Token)

	str("SMTP_HOST", &o.SMTP.Host)
	str("SMTP_USER", &o.SMTP.User)
	str("SENDGRID_API_KEY", &o.SMTP.Password)
	str("FROM_EMAIL", &o.SMTP.From)
	str("TO_EMAIL", &o.SMTP.To)
	if v, ok := lookup("SMTP_PORT"); ok && v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("SMTP_PORT: %w", err)
		}
		o.SMTP.Port = port
	}

	str("IMAGE_DIR", &o.ImageDir)
	str("PUBLIC_SCHEME", &o.PublicScheme)

	str("S3_ENDPOINT", &o.S3.Endpoint)
	str("S3_ACCESS_KEY", &o.S3.AccessKey)
	str("S3_SECRET_KEY", &o.S3.SecretKey)
	str("S3_BUCKET", &o.S3.Bucket)

	if v, ok := lookup("UPLOAD_MEMORY"); ok && v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("UPLOAD_MEMORY: %w", err)
		}
		o.UploadMemory = n
	}

	str("CORS_ORIGINS", &o.CORSOrigins)
	str("TLS_CERT", &o.TLSCert)
	str("TLS_KEY", &o.TLSKey)
	return nil
}

// Validate checks the settings the server cannot start without.
func (o *Options) Validate() error {
	var errs []error
	if o.DatabaseDSN == "" {
		errs = append(errs, errors.New("database dsn is required"))
	}
	if o.Token == "" {
		errs = append(errs, errors.New("TOKEN is required"))
	}
	if o.S3.Enabled() && (o.S3.AccessKey == "" || o.S3.SecretKey == "" || o.S3.Bucket == "") {
		errs = append(errs, errors.New("s3 configuration incomplete"))
	}
	if (o.TLSCert == "") != (o.TLSKey == "") {
		errs = append(errs, errors.New("tls cert and key must be set together"))
	}
	return errors.Join(errs...)
}
