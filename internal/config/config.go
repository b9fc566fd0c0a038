package config

import (
	"os"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/invoice-extract/internal/extract"
)

// Config holds the full application configuration.
type Config struct {
	Store   StoreConfig   `yaml:"store" mapstructure:"store"`
	Extract ExtractConfig `yaml:"extract" mapstructure:"extract"`
	Batch   BatchConfig   `yaml:"batch" mapstructure:"batch"`
	OCR     OCRConfig     `yaml:"ocr" mapstructure:"ocr"`
	Server  ServerConfig  `yaml:"server" mapstructure:"server"`
	Log     LogConfig     `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures batch-run persistence.
type StoreConfig struct {
	Driver string `yaml:"driver" mapstructure:"driver"`
	DSN    string `yaml:"dsn" mapstructure:"dsn"`
}

// ExtractConfig configures the field locators. Every list is issuer-facing
// data: deployments extend them without code changes, either inline or via
// VocabFile.
type ExtractConfig struct {
	InvoiceLabels       []string `yaml:"invoice_labels" mapstructure:"invoice_labels"`
	TotalLabels         []string `yaml:"total_labels" mapstructure:"total_labels"`
	CurrencySuffixes    []string `yaml:"currency_suffixes" mapstructure:"currency_suffixes"`
	CustomerTerminators []string `yaml:"customer_terminators" mapstructure:"customer_terminators"`
	CustomerDenylist    []string `yaml:"customer_denylist" mapstructure:"customer_denylist"`
	StateWhitelist      []string `yaml:"state_whitelist" mapstructure:"state_whitelist"`
	FuzzyThreshold      int      `yaml:"fuzzy_threshold" mapstructure:"fuzzy_threshold"`
	DateStrategy        string   `yaml:"date_strategy" mapstructure:"date_strategy"`
	CaptureTimezone     string   `yaml:"capture_timezone" mapstructure:"capture_timezone"`
	VocabFile           string   `yaml:"vocab_file" mapstructure:"vocab_file"`
}

// BatchConfig configures batch processing.
type BatchConfig struct {
	MaxConcurrentDocs int     `yaml:"max_concurrent_docs" mapstructure:"max_concurrent_docs"`
	DocsPerSec        float64 `yaml:"docs_per_sec" mapstructure:"docs_per_sec"`
	FailedRowPolicy   string  `yaml:"failed_row_policy" mapstructure:"failed_row_policy"`
}

// OCRConfig configures the text source.
type OCRConfig struct {
	PdfToTextPath string `yaml:"pdftotext_path" mapstructure:"pdftotext_path"`
}

// ServerConfig configures the HTTP extraction endpoint.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Failed-row policies for batch exports.
const (
	FailedRowSentinel = "sentinel" // keep one all-sentinel row per failed document
	FailedRowOmit     = "omit"     // drop the row, log a warning
)

// Load reads configuration from file and environment, applies the optional
// vocabulary override file, and validates the result.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("INVOICE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.dsn", "invoice-extract.db")
	v.SetDefault("extract.invoice_labels", extract.DefaultInvoiceLabels)
	v.SetDefault("extract.total_labels", extract.DefaultTotalLabels)
	v.SetDefault("extract.currency_suffixes", extract.DefaultCurrencySuffixes)
	v.SetDefault("extract.customer_terminators", extract.DefaultCustomerTerminators)
	v.SetDefault("extract.customer_denylist", extract.DefaultCustomerDenylist)
	v.SetDefault("extract.fuzzy_threshold", 85)
	v.SetDefault("extract.date_strategy", string(extract.DateFromDocument))
	v.SetDefault("extract.capture_timezone", "US/Pacific")
	v.SetDefault("batch.max_concurrent_docs", 4)
	v.SetDefault("batch.docs_per_sec", 0)
	v.SetDefault("batch.failed_row_policy", FailedRowSentinel)
	v.SetDefault("ocr.pdftotext_path", "pdftotext")
	v.SetDefault("server.port", 8080)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	if cfg.Extract.VocabFile != "" {
		if err := cfg.Extract.applyVocabFile(cfg.Extract.VocabFile); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// applyVocabFile overlays issuer-specific vocabularies from a standalone YAML
// file. Only keys present in the file replace the configured lists.
func (c *ExtractConfig) applyVocabFile(path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return eris.Wrapf(err, "config: read vocab file %s", path)
	}

	var o struct {
		InvoiceLabels       []string `yaml:"invoice_labels"`
		TotalLabels         []string `yaml:"total_labels"`
		CurrencySuffixes    []string `yaml:"currency_suffixes"`
		CustomerTerminators []string `yaml:"customer_terminators"`
		CustomerDenylist    []string `yaml:"customer_denylist"`
		StateWhitelist      []string `yaml:"state_whitelist"`
	}
	if err := yaml.Unmarshal(b, &o); err != nil {
		return eris.Wrapf(err, "config: parse vocab file %s", path)
	}

	if len(o.InvoiceLabels) > 0 {
		c.InvoiceLabels = o.InvoiceLabels
	}
	if len(o.TotalLabels) > 0 {
		c.TotalLabels = o.TotalLabels
	}
	if len(o.CurrencySuffixes) > 0 {
		c.CurrencySuffixes = o.CurrencySuffixes
	}
	if len(o.CustomerTerminators) > 0 {
		c.CustomerTerminators = o.CustomerTerminators
	}
	if len(o.CustomerDenylist) > 0 {
		c.CustomerDenylist = o.CustomerDenylist
	}
	if len(o.StateWhitelist) > 0 {
		c.StateWhitelist = o.StateWhitelist
	}
	return nil
}

// Validate fails fast on configuration every locator depends on. This runs
// before any document is processed.
func (c *Config) Validate() error {
	switch c.Batch.FailedRowPolicy {
	case FailedRowSentinel, FailedRowOmit:
	default:
		return eris.Errorf("config: unknown failed_row_policy %q", c.Batch.FailedRowPolicy)
	}

	switch c.Store.Driver {
	case "sqlite", "postgres", "none":
	default:
		return eris.Errorf("config: unknown store driver %q", c.Store.Driver)
	}

	if c.Batch.MaxConcurrentDocs < 1 {
		return eris.Errorf("config: max_concurrent_docs must be >= 1, got %d", c.Batch.MaxConcurrentDocs)
	}

	// Locator vocabularies and the date strategy are validated by
	// extract.New; building the options here surfaces those errors at
	// startup.
	_, err := c.ExtractorOptions()
	return err
}

// ExtractorOptions converts the configuration into locator options, loading
// the capture time zone when the capture strategy is selected.
func (c *Config) ExtractorOptions() (extract.Options, error) {
	opts := extract.Options{
		InvoiceLabels:       c.Extract.InvoiceLabels,
		TotalLabels:         c.Extract.TotalLabels,
		CurrencySuffixes:    c.Extract.CurrencySuffixes,
		CustomerTerminators: c.Extract.CustomerTerminators,
		CustomerDenylist:    c.Extract.CustomerDenylist,
		StateWhitelist:      c.Extract.StateWhitelist,
		FuzzyThreshold:      c.Extract.FuzzyThreshold,
		DateStrategy:        extract.DateStrategy(c.Extract.DateStrategy),
	}

	if opts.DateStrategy == extract.DateFromCapture {
		zone, err := time.LoadLocation(c.Extract.CaptureTimezone)
		if err != nil {
			return extract.Options{}, eris.Wrapf(err, "config: load capture_timezone %q", c.Extract.CaptureTimezone)
		}
		opts.CaptureZone = zone
	}

	// Dry-run the constructor so vocabulary problems become startup errors.
	if _, err := extract.New(opts); err != nil {
		return extract.Options{}, err
	}
	return opts, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
