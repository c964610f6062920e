package config

import (
	"fmt"
	"time"

	"github.com/effective-security/edugentic/extract"
	"github.com/effective-security/x/configloader"
)

// Config is the process-wide, read-only configuration. It is loaded once at
// startup and never re-read mid-request.
type Config struct {
	Server       Server       `json:"server" yaml:"server"`
	CORS         CORS         `json:"cors" yaml:"cors"`
	Logging      Logging      `json:"logging" yaml:"logging"`
	Orchestrator Orchestrator `json:"orchestrator" yaml:"orchestrator"`
	// Lexicon entries are merged into the built-in academic lexicon.
	Lexicon []extract.Entry `json:"lexicon,omitempty" yaml:"lexicon,omitempty"`
}

type Server struct {
	Host string `json:"host,omitempty" yaml:"host,omitempty"`
	Port int    `json:"port,omitempty" yaml:"port,omitempty"`
}

// Addr returns the listen address.
func (s *Server) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type CORS struct {
	AllowedOrigins   []string `json:"allowed_origins,omitempty" yaml:"allowed_origins,omitempty"`
	AllowedMethods   []string `json:"allowed_methods,omitempty" yaml:"allowed_methods,omitempty"`
	AllowedHeaders   []string `json:"allowed_headers,omitempty" yaml:"allowed_headers,omitempty"`
	AllowCredentials bool     `json:"allow_credentials,omitempty" yaml:"allow_credentials,omitempty"`
}

type Logging struct {
	// Level is one of DEBUG, INFO, WARNING, ERROR.
	Level string `json:"level,omitempty" yaml:"level,omitempty"`
}

type Orchestrator struct {
	// TopicWindow is the number of trailing turns scanned for the topic.
	TopicWindow int `json:"topic_window,omitempty" yaml:"topic_window,omitempty"`
	// KeywordWindow bounds how much history the keyword scan reads.
	KeywordWindow int `json:"keyword_window,omitempty" yaml:"keyword_window,omitempty"`
	// ToolCallTimeout bounds the external tool call, in seconds.
	ToolCallTimeout int `json:"tool_call_timeout,omitempty" yaml:"tool_call_timeout,omitempty"`
}

// CallTimeout returns the tool call timeout as a duration.
func (o *Orchestrator) CallTimeout() time.Duration {
	return time.Duration(o.ToolCallTimeout) * time.Second
}

// LoadConfig from file; an empty file name yields the defaults.
func LoadConfig(file string) (*Config, error) {
	cfg := new(Config)
	if file != "" {
		err := configloader.UnmarshalAndExpand(file, cfg)
		if err != nil {
			return nil, err
		}
	}
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Host == "" {
		c.Server.Host = "0.0.0.0"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 8000
	}
	if len(c.CORS.AllowedOrigins) == 0 {
		c.CORS.AllowedOrigins = []string{"*"}
	}
	if len(c.CORS.AllowedMethods) == 0 {
		c.CORS.AllowedMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	}
	if len(c.CORS.AllowedHeaders) == 0 {
		c.CORS.AllowedHeaders = []string{"Authorization", "Content-Type", "X-Requested-With"}
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "INFO"
	}
	if c.Orchestrator.TopicWindow == 0 {
		c.Orchestrator.TopicWindow = extract.DefaultTopicWindow
	}
	if c.Orchestrator.KeywordWindow == 0 {
		c.Orchestrator.KeywordWindow = extract.DefaultKeywordWindow
	}
	if c.Orchestrator.ToolCallTimeout == 0 {
		c.Orchestrator.ToolCallTimeout = 30
	}
}
