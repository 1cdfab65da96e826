package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/couchcryptid/globe-suffering-etl/internal/domain"
)

// Config holds all service settings, populated from environment variables and
// optionally overlaid by the YAML file named in GLOBE_CONFIG.
type Config struct {
	DisastersCSV       string `yaml:"disasters_csv"`
	DisastersXLSX      string `yaml:"disasters_xlsx"`
	DisastersXLSXSheet string `yaml:"disasters_xlsx_sheet"`
	EmissionsCSV       string `yaml:"emissions_csv"`
	BoundariesGeoJSON  string `yaml:"boundaries_geojson"`
	OutputDir          string `yaml:"output_dir"`

	// Pipeline variants.
	SufferingMode   domain.SufferingMode `yaml:"suffering_mode"`
	EmissionsScale  float64              `yaml:"emissions_scale"`
	BinTypeJoin     domain.TypeJoin      `yaml:"bin_type_join"`
	CountryTypeJoin domain.TypeJoin      `yaml:"country_type_join"`

	LogLevel        string `yaml:"log_level"`
	LogFormat       string `yaml:"log_format"`
	MetricsTextfile string `yaml:"metrics_textfile"`

	// Serve keeps the HTTP server up after the batch run.
	Serve           bool          `yaml:"serve"`
	HTTPAddr        string        `yaml:"http_addr"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`

	// Kafka publishing is disabled when no brokers are configured.
	KafkaBrokers   []string `yaml:"kafka_brokers"`
	KafkaSinkTopic string   `yaml:"kafka_sink_topic"`
	BatchSize      int      `yaml:"batch_size"`
}

// Load reads configuration from environment variables, applying defaults where unset.
// Variables from the dotenv file named by GLOBE_ENV_FILE (default .env) fill in
// anything not already set in the process environment.
func Load() (*Config, error) {
	envFile := sharedcfg.EnvOrDefault("GLOBE_ENV_FILE", ".env")
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load %s: %w", envFile, err)
	}

	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	batchSize, err := sharedcfg.ParseBatchSize()
	if err != nil {
		return nil, err
	}

	scale, err := parseEmissionsScale()
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		DisastersCSV:       sharedcfg.EnvOrDefault("DISASTERS_CSV", "datasets/disasters.csv"),
		DisastersXLSX:      optionalPath("DISASTERS_XLSX", "datasets/after_2015_disasters.xlsx"),
		DisastersXLSXSheet: os.Getenv("DISASTERS_XLSX_SHEET"),
		EmissionsCSV:       sharedcfg.EnvOrDefault("EMISSIONS_CSV", "datasets/emissions.csv"),
		BoundariesGeoJSON:  optionalPath("BOUNDARIES_GEOJSON", "countries.geojson"),
		OutputDir:          sharedcfg.EnvOrDefault("OUTPUT_DIR", "datasets"),

		SufferingMode:   domain.SufferingMode(sharedcfg.EnvOrDefault("SUFFERING_MODE", string(domain.ModeCumulative))),
		EmissionsScale:  scale,
		BinTypeJoin:     domain.TypeJoin(sharedcfg.EnvOrDefault("BIN_TYPE_JOIN", string(domain.JoinAll))),
		CountryTypeJoin: domain.TypeJoin(sharedcfg.EnvOrDefault("COUNTRY_TYPE_JOIN", string(domain.JoinUnique))),

		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		MetricsTextfile: os.Getenv("METRICS_TEXTFILE"),

		Serve:           os.Getenv("SERVE") == "true",
		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		ShutdownTimeout: shutdownTimeout,

		KafkaSinkTopic: sharedcfg.EnvOrDefault("KAFKA_SINK_TOPIC", "globe-datasets"),
		BatchSize:      batchSize,
	}
	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		cfg.KafkaBrokers = sharedcfg.ParseBrokers(brokers)
	}

	if path := os.Getenv("GLOBE_CONFIG"); path != "" {
		if err := overlayFile(cfg, path); err != nil {
			return nil, err
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// BuildOptions returns the domain strategy selection for this configuration.
func (c *Config) BuildOptions() domain.BuildOptions {
	return domain.BuildOptions{
		BinJoin:     c.BinTypeJoin,
		CountryJoin: c.CountryTypeJoin,
		Suffering: domain.SufferingOptions{
			Mode:           c.SufferingMode,
			EmissionsScale: c.EmissionsScale,
		},
	}
}

// KafkaEnabled reports whether documents are published to Kafka.
func (c *Config) KafkaEnabled() bool {
	return len(c.KafkaBrokers) > 0
}

func overlayFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read GLOBE_CONFIG: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse GLOBE_CONFIG: %w", err)
	}
	return nil
}

func (c *Config) validate() error {
	mode, err := domain.ParseSufferingMode(string(c.SufferingMode))
	if err != nil {
		return fmt.Errorf("invalid SUFFERING_MODE: %w", err)
	}
	c.SufferingMode = mode

	binJoin, err := domain.ParseTypeJoin(string(c.BinTypeJoin))
	if err != nil {
		return fmt.Errorf("invalid BIN_TYPE_JOIN: %w", err)
	}
	c.BinTypeJoin = binJoin

	countryJoin, err := domain.ParseTypeJoin(string(c.CountryTypeJoin))
	if err != nil {
		return fmt.Errorf("invalid COUNTRY_TYPE_JOIN: %w", err)
	}
	c.CountryTypeJoin = countryJoin

	if c.EmissionsScale <= 0 {
		return errors.New("EMISSIONS_SCALE must be positive")
	}
	if c.DisastersCSV == "" {
		return errors.New("DISASTERS_CSV is required")
	}
	if c.EmissionsCSV == "" {
		return errors.New("EMISSIONS_CSV is required")
	}
	if c.OutputDir == "" {
		return errors.New("OUTPUT_DIR is required")
	}
	if c.KafkaEnabled() && c.KafkaSinkTopic == "" {
		return errors.New("KAFKA_SINK_TOPIC is required when KAFKA_BROKERS is set")
	}
	return nil
}

// optionalPath returns def only when key is unset; an empty value disables the source.
func optionalPath(key, def string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return def
}

func parseEmissionsScale() (float64, error) {
	s := os.Getenv("EMISSIONS_SCALE")
	if s == "" {
		return domain.DefaultEmissionsScale, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v <= 0 {
		return 0, errors.New("invalid EMISSIONS_SCALE")
	}
	return v, nil
}
