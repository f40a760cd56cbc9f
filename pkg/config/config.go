package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

//go:generate go run ../../cmd/schema/main.go schema.json

// Config holds the application configuration
type Config struct {
	Server       ServerConfig     `yaml:"server" json:"server" jsonschema:"description=Admin HTTP server configuration"`
	Database     DatabaseConfig   `yaml:"database" json:"database" jsonschema:"description=Database configuration"`
	Feeds        []Feed           `yaml:"feeds" json:"feeds" jsonschema:"description=Ordered list of feeds to poll"`
	KeywordsFile string           `yaml:"keywords_file" json:"keywords_file" jsonschema:"default=keywords.txt,description=File with one keyword per line; re-read on every ingestion run"`
	Filter       FilterConfig     `yaml:"filter" json:"filter" jsonschema:"description=Relevance filter configuration"`
	Schedule     ScheduleConfig   `yaml:"schedule" json:"schedule" jsonschema:"description=Scheduler configuration"`
	Validation   ValidationConfig `yaml:"validation" json:"validation" jsonschema:"description=Feed validation and fetching configuration"`
	Dispatch     DispatchConfig   `yaml:"dispatch" json:"dispatch" jsonschema:"description=Batch dispatch configuration"`
	Notify       NotifyConfig     `yaml:"notify" json:"notify" jsonschema:"description=Notification delivery configuration"`
	LLM          LLMConfig        `yaml:"llm" json:"llm" jsonschema:"description=Optional LLM configuration for digest rewriting"`
	Extraction   ExtractionConfig `yaml:"extraction" json:"extraction" jsonschema:"description=Content extraction used to backfill missing abstracts"`
}

// ServerConfig holds admin server settings, empty listen disables the server
type ServerConfig struct {
	Listen  string        `yaml:"listen" json:"listen" jsonschema:"description=HTTP server listen address; empty disables the server"`
	Timeout time.Duration `yaml:"timeout" json:"timeout" jsonschema:"default=30s,description=HTTP server timeout"`
	BaseURL string        `yaml:"base_url" json:"base_url" jsonschema:"default=http://localhost:8080,description=Base URL used in the RSS view"`
}

// DatabaseConfig holds database settings
type DatabaseConfig struct {
	DSN             string `yaml:"dsn" json:"dsn" jsonschema:"default=file:newsdigest.db?cache=shared&mode=rwc&_txlock=immediate,description=Database connection string"`
	MaxOpenConns    int    `yaml:"max_open_conns" json:"max_open_conns" jsonschema:"default=4,description=Maximum number of open connections"`
	MaxIdleConns    int    `yaml:"max_idle_conns" json:"max_idle_conns" jsonschema:"default=2,description=Maximum number of idle connections"`
	ConnMaxLifetime int    `yaml:"conn_max_lifetime" json:"conn_max_lifetime" jsonschema:"default=3600,description=Connection maximum lifetime in seconds"`
	InitRetries     int    `yaml:"init_retries" json:"init_retries" jsonschema:"default=5,description=Attempts to open the database at startup"`
}

// Feed represents a single feed source
type Feed struct {
	URL  string `yaml:"url" json:"url" jsonschema:"required,description=Feed URL"`
	Name string `yaml:"name" json:"name" jsonschema:"description=Display name; defaults to URL"`
}

// FilterConfig holds relevance filter settings
type FilterConfig struct {
	ThresholdHours int `yaml:"threshold_hours" json:"threshold_hours" jsonschema:"default=24,minimum=1,description=Maximum entry age in hours"`
}

// ScheduleConfig holds scheduler settings
type ScheduleConfig struct {
	IngestInterval    time.Duration `yaml:"ingest_interval" json:"ingest_interval" jsonschema:"default=1h,description=Feed ingestion interval"`
	DispatchFrequency string        `yaml:"dispatch_frequency" json:"dispatch_frequency" jsonschema:"default=hourly,description=Dispatch frequency: hourly or daily or weekly or a duration like 6h"`
}

// ValidationConfig holds feed probing and fetching settings
type ValidationConfig struct {
	Timeout    time.Duration `yaml:"timeout" json:"timeout" jsonschema:"default=10s,description=Per-request feed fetch timeout"`
	MaxRetries int           `yaml:"max_retries" json:"max_retries" jsonschema:"default=2,description=Retries for transient network errors"`
	UserAgent  string        `yaml:"user_agent" json:"user_agent" jsonschema:"default=Mozilla/5.0 (compatible; Newsdigest/1.0),description=User agent for feed requests"`
}

// SourceLabel maps a link substring to a human-readable source name
type SourceLabel struct {
	Match string `yaml:"match" json:"match" jsonschema:"required,description=Substring of the item link"`
	Label string `yaml:"label" json:"label" jsonschema:"required,description=Source label"`
}

// DispatchConfig holds batch dispatcher settings
type DispatchConfig struct {
	BatchSize  int           `yaml:"batch_size" json:"batch_size" jsonschema:"default=10,minimum=1,description=Items per notification"`
	BatchPause time.Duration `yaml:"batch_pause" json:"batch_pause" jsonschema:"default=2s,description=Pause between batches"`
	Sources    []SourceLabel `yaml:"sources" json:"sources" jsonschema:"description=Ordered link substring to source label table; first match wins"`
	NoTopics   bool          `yaml:"no_topics" json:"no_topics" jsonschema:"default=false,description=Disable the topic flavour of subject lines"`
}

// NotifyConfig holds delivery settings
type NotifyConfig struct {
	Destinations []string      `yaml:"destinations" json:"destinations" jsonschema:"description=Destination URLs (telegram or smtp or mailto or http(s) webhook or log)"`
	Retries      int           `yaml:"retries" json:"retries" jsonschema:"default=3,description=Delivery attempts per destination"`
	Backoff      time.Duration `yaml:"backoff" json:"backoff" jsonschema:"default=1s,description=Initial delay of exponential retry backoff"`
	Timeout      time.Duration `yaml:"timeout" json:"timeout" jsonschema:"default=30s,description=Hard limit for delivering one batch"`
	TestOnStart  bool          `yaml:"test_on_start" json:"test_on_start" jsonschema:"default=false,description=Send a test message at startup"`
}

// LLMConfig holds settings of the optional digest rewriter
type LLMConfig struct {
	Endpoint     string        `yaml:"endpoint" json:"endpoint" jsonschema:"description=OpenAI-compatible API endpoint"`
	APIKey       string        `yaml:"api_key" json:"api_key" jsonschema:"description=API key (can use environment variable); empty disables rewriting"`
	Model        string        `yaml:"model" json:"model" jsonschema:"description=Model name"`
	Temperature  float64       `yaml:"temperature" json:"temperature" jsonschema:"default=0.7,description=Temperature for response generation"`
	MaxTokens    int           `yaml:"max_tokens" json:"max_tokens" jsonschema:"default=3500,description=Maximum tokens in response"`
	Timeout      time.Duration `yaml:"timeout" json:"timeout" jsonschema:"default=60s,description=Request timeout"`
	SystemPrompt string        `yaml:"system_prompt" json:"system_prompt" jsonschema:"description=System prompt override"`
}

// ExtractionConfig holds content extraction settings
type ExtractionConfig struct {
	Enabled     bool          `yaml:"enabled" json:"enabled" jsonschema:"default=false,description=Fetch articles without a summary to build one"`
	Timeout     time.Duration `yaml:"timeout" json:"timeout" jsonschema:"default=30s,description=Extraction timeout per article"`
	UserAgent   string        `yaml:"user_agent" json:"user_agent" jsonschema:"default=Mozilla/5.0 (compatible; Newsdigest/1.0),description=User agent for HTTP requests"`
	MaxAbstract int           `yaml:"max_abstract" json:"max_abstract" jsonschema:"default=1000,description=Maximum characters of an extracted abstract"`
}

// Load reads configuration from a YAML file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // file path comes from CLI flag
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	// expand environment variables
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.setDefaults()

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	// verify against embedded schema
	if err := VerifyAgainstEmbeddedSchema(&cfg); err != nil {
		// schema validation is supplementary
		fmt.Printf("warning: schema validation failed: %v\n", err)
	}

	return &cfg, nil
}

func (c *Config) setDefaults() {
	if c.Server.Timeout == 0 {
		c.Server.Timeout = 30 * time.Second
	}
	if c.Server.BaseURL == "" {
		c.Server.BaseURL = "http://localhost:8080"
	}

	if c.Database.DSN == "" {
		c.Database.DSN = "file:newsdigest.db?cache=shared&mode=rwc&_txlock=immediate"
	}
	if c.Database.MaxOpenConns == 0 {
		c.Database.MaxOpenConns = 4
	}
	if c.Database.MaxIdleConns == 0 {
		c.Database.MaxIdleConns = 2
	}
	if c.Database.ConnMaxLifetime == 0 {
		c.Database.ConnMaxLifetime = 3600
	}
	if c.Database.InitRetries == 0 {
		c.Database.InitRetries = 5
	}

	for i := range c.Feeds {
		c.Feeds[i].URL = strings.TrimSpace(c.Feeds[i].URL)
		if c.Feeds[i].Name == "" {
			c.Feeds[i].Name = c.Feeds[i].URL
		}
	}
	if c.KeywordsFile == "" {
		c.KeywordsFile = "keywords.txt"
	}

	if c.Filter.ThresholdHours == 0 {
		c.Filter.ThresholdHours = 24
	}

	if c.Schedule.IngestInterval == 0 {
		c.Schedule.IngestInterval = time.Hour
	}
	if c.Schedule.DispatchFrequency == "" {
		c.Schedule.DispatchFrequency = "hourly"
	}

	if c.Validation.Timeout == 0 {
		c.Validation.Timeout = 10 * time.Second
	}
	if c.Validation.MaxRetries == 0 {
		c.Validation.MaxRetries = 2
	}
	if c.Validation.UserAgent == "" {
		c.Validation.UserAgent = "Mozilla/5.0 (compatible; Newsdigest/1.0)"
	}

	if c.Dispatch.BatchSize == 0 {
		c.Dispatch.BatchSize = 10
	}
	if c.Dispatch.BatchPause == 0 {
		c.Dispatch.BatchPause = 2 * time.Second
	}
	if len(c.Dispatch.Sources) == 0 {
		c.Dispatch.Sources = DefaultSources()
	}

	if c.Notify.Retries == 0 {
		c.Notify.Retries = 3
	}
	if c.Notify.Backoff == 0 {
		c.Notify.Backoff = time.Second
	}
	if c.Notify.Timeout == 0 {
		c.Notify.Timeout = 30 * time.Second
	}

	if c.LLM.Temperature == 0 {
		c.LLM.Temperature = 0.7
	}
	if c.LLM.MaxTokens == 0 {
		c.LLM.MaxTokens = 3500
	}
	if c.LLM.Timeout == 0 {
		c.LLM.Timeout = 60 * time.Second
	}

	if c.Extraction.Timeout == 0 {
		c.Extraction.Timeout = 30 * time.Second
	}
	if c.Extraction.UserAgent == "" {
		c.Extraction.UserAgent = "Mozilla/5.0 (compatible; Newsdigest/1.0)"
	}
	if c.Extraction.MaxAbstract == 0 {
		c.Extraction.MaxAbstract = 1000
	}
}

// validate checks configuration for correctness
func validate(cfg *Config) error {
	if len(cfg.Feeds) == 0 {
		return fmt.Errorf("at least one feed is required")
	}
	for i, f := range cfg.Feeds {
		if f.URL == "" {
			return fmt.Errorf("feeds[%d].url is required", i)
		}
	}

	if cfg.Filter.ThresholdHours < 1 {
		return fmt.Errorf("filter.threshold_hours must be at least 1")
	}

	if _, err := cfg.DispatchInterval(); err != nil {
		return err
	}
	if cfg.Schedule.IngestInterval < time.Minute {
		return fmt.Errorf("schedule.ingest_interval must be at least 1 minute")
	}

	if cfg.Dispatch.BatchSize < 1 {
		return fmt.Errorf("dispatch.batch_size must be at least 1")
	}
	for i, s := range cfg.Dispatch.Sources {
		if s.Match == "" || s.Label == "" {
			return fmt.Errorf("dispatch.sources[%d] needs both match and label", i)
		}
	}

	if cfg.Notify.Retries < 1 {
		return fmt.Errorf("notify.retries must be at least 1")
	}
	if cfg.Notify.Timeout < time.Second {
		return fmt.Errorf("notify.timeout must be at least 1 second")
	}

	if cfg.LLM.Temperature < 0 || cfg.LLM.Temperature > 2 {
		return fmt.Errorf("llm.temperature must be between 0 and 2")
	}
	if cfg.LLM.APIKey != "" && cfg.LLM.Model == "" {
		return fmt.Errorf("llm.model is required when llm.api_key is set")
	}

	if cfg.Extraction.Enabled && cfg.Extraction.Timeout < time.Second {
		return fmt.Errorf("extraction timeout must be at least 1 second")
	}

	if cfg.Server.Listen != "" && cfg.Server.Timeout < time.Second {
		return fmt.Errorf("server timeout must be at least 1 second")
	}

	return nil
}

// DispatchInterval converts the dispatch frequency into a duration
func (c *Config) DispatchInterval() (time.Duration, error) {
	switch strings.ToLower(strings.TrimSpace(c.Schedule.DispatchFrequency)) {
	case "", "hourly":
		return time.Hour, nil
	case "daily":
		return 24 * time.Hour, nil
	case "weekly":
		return 7 * 24 * time.Hour, nil
	}
	d, err := time.ParseDuration(c.Schedule.DispatchFrequency)
	if err != nil {
		return 0, fmt.Errorf("schedule.dispatch_frequency %q is not hourly, daily, weekly or a duration", c.Schedule.DispatchFrequency)
	}
	if d < time.Minute {
		return 0, fmt.Errorf("schedule.dispatch_frequency must be at least 1 minute")
	}
	return d, nil
}

// Threshold returns the relevance age threshold
func (c *Config) Threshold() time.Duration {
	return time.Duration(c.Filter.ThresholdHours) * time.Hour
}

// RewriteEnabled reports whether the LLM rewriter is configured
func (c *Config) RewriteEnabled() bool {
	return c.LLM.APIKey != "" && c.LLM.Model != ""
}

// Secrets returns values which should be masked in logs
func (c *Config) Secrets() []string {
	var res []string
	if c.LLM.APIKey != "" {
		res = append(res, c.LLM.APIKey)
	}
	for _, d := range c.Notify.Destinations {
		u, err := url.Parse(d)
		if err != nil || u.User == nil {
			continue
		}
		pass, hasPass := u.User.Password()
		if scheme := strings.ToLower(u.Scheme); scheme == "telegram" || scheme == "tg" {
			// bot tokens look like "id:secret" and land in userinfo
			token := u.User.Username()
			if hasPass {
				token += ":" + pass
			}
			res = append(res, token)
			continue
		}
		if hasPass && pass != "" {
			res = append(res, pass)
		}
	}
	return res
}

// DefaultSources returns the built-in source label table
func DefaultSources() []SourceLabel {
	return []SourceLabel{
		{Match: "export.arxiv.org", Label: "arXiv"},
		{Match: "nature.com", Label: "Nature Machine Intelligence"},
		{Match: "openai.com", Label: "OpenAI"},
		{Match: "microsoft.com/en-us/research", Label: "Microsoft Research"},
		{Match: "aws.amazon.com/blogs/machine-learning", Label: "AWS Machine Learning"},
		{Match: "developer.nvidia.com", Label: "NVIDIA Developer"},
	}
}
