package main

import (
	"flag"
	"os"
	"time"

	"github.com/effective-security/edugentic/callbacks"
	"github.com/effective-security/edugentic/config"
	"github.com/effective-security/edugentic/extract"
	"github.com/effective-security/edugentic/httpserver"
	"github.com/effective-security/edugentic/orchestrator"
	"github.com/effective-security/edugentic/schema"
	"github.com/effective-security/edugentic/tools"
	"github.com/effective-security/edugentic/tools/explainer"
	"github.com/effective-security/edugentic/tools/flashcards"
	"github.com/effective-security/edugentic/tools/notemaker"
	"github.com/effective-security/xlog"
)

var logger = xlog.NewPackageLogger("github.com/effective-security/edugentic", "cmd")

func main() {
	cfgFile := flag.String("cfg", "", "path to the configuration file")
	flag.Parse()

	xlog.SetFormatter(xlog.NewStringFormatter(os.Stderr))

	cfg, err := config.LoadConfig(*cfgFile)
	if err != nil {
		logger.KV(xlog.ERROR, "status", "failed_to_load_config", "file", *cfgFile, "err", err.Error())
		os.Exit(1)
	}
	xlog.SetGlobalLogLevel(logLevel(cfg.Logging.Level))

	reg := schema.NewRegistry()
	for _, register := range []func(*schema.Registry) error{
		notemaker.RegisterSchema,
		flashcards.RegisterSchema,
		explainer.RegisterSchema,
	} {
		if err := register(reg); err != nil {
			logger.KV(xlog.ERROR, "status", "failed_to_register_schema", "err", err.Error())
			os.Exit(1)
		}
	}

	backends, err := newBackends()
	if err != nil {
		logger.KV(xlog.ERROR, "status", "failed_to_create_tools", "err", err.Error())
		os.Exit(1)
	}

	lex := extract.DefaultLexicon().Merge(cfg.Lexicon...)
	extractor := extract.NewExtractor(lex).
		WithTopicWindow(cfg.Orchestrator.TopicWindow).
		WithKeywordWindow(cfg.Orchestrator.KeywordWindow)

	orch := orchestrator.New(reg, extractor,
		orchestrator.WithCallback(callbacks.NewPackageLogger(logger)),
		orchestrator.WithCallTimeout(time.Duration(cfg.Orchestrator.ToolCallTimeout)*time.Second),
	).WithTools(backends...)

	srv := httpserver.New(cfg, orch)
	if err := srv.Run(); err != nil {
		logger.KV(xlog.ERROR, "status", "server_stopped", "err", err.Error())
		os.Exit(1)
	}
}

func newBackends() ([]tools.ITool, error) {
	nm, err := notemaker.New()
	if err != nil {
		return nil, err
	}
	fc, err := flashcards.New()
	if err != nil {
		return nil, err
	}
	ce, err := explainer.New()
	if err != nil {
		return nil, err
	}
	return []tools.ITool{nm, fc, ce}, nil
}

func logLevel(level string) xlog.LogLevel {
	switch level {
	case "DEBUG":
		return xlog.DEBUG
	case "WARNING":
		return xlog.WARNING
	case "ERROR":
		return xlog.ERROR
	default:
		return xlog.INFO
	}
}
