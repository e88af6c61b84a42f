package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/go-playground/validator/v10"

	"github.com/lox/whattowear/internal/api"
	"github.com/lox/whattowear/internal/config"
	"github.com/lox/whattowear/internal/ingest"
	"github.com/lox/whattowear/internal/logging"
	"github.com/lox/whattowear/internal/models"
	"github.com/lox/whattowear/internal/verdict"
)

const defaultEnvFile = ".env"

type CLI struct {
	Config  config.Config `embed:""`
	EnvFile string        `help:"Environment file loaded before flags are read." default:".env" name:"env-file"`

	Serve   ServeCmd   `cmd:"" default:"1" help:"Run the HTTP server."`
	Verdict VerdictCmd `cmd:"" help:"Fetch the hourly forecast once and print today's verdict."`
	Hourly  HourlyCmd  `cmd:"" help:"Fetch and print the hourly forecast."`
	Daily   DailyCmd   `cmd:"" help:"Fetch and print the 10 day forecast."`
}

// runContext is bound into every command's Run method.
type runContext struct {
	ctx    context.Context
	cfg    *config.Config
	logger *slog.Logger
	out    io.Writer
}

// QueryFlags override the configured defaults for one-shot commands.
type QueryFlags struct {
	Geocode  string `help:"Location as lat,long."`
	Units    string `help:"Units (m, e, h, s)."`
	Language string `help:"Forecast language."`
}

func (f QueryFlags) query(cfg *config.Config) (models.Query, error) {
	q := cfg.DefaultQuery()
	if f.Geocode != "" {
		coords, err := models.ParseGeocode(f.Geocode)
		if err != nil {
			return models.Query{}, err
		}
		q.Coordinates = coords
	}
	if f.Units != "" {
		q.Units = f.Units
	}
	if f.Language != "" {
		q.Language = f.Language
	}
	if err := validator.New().Struct(q); err != nil {
		return models.Query{}, fmt.Errorf("invalid query: %w", err)
	}
	return q, nil
}

type ServeCmd struct{}

func (c *ServeCmd) Run(rc *runContext) error {
	cfg := rc.cfg
	client := ingest.NewClient(cfg.Provider, rc.logger)
	engine := verdict.NewEngine(verdict.SystemClock{Location: cfg.Location()}, rc.logger)
	server := api.NewServer(client, engine, api.Options{
		Port:        cfg.Port,
		Defaults:    cfg.DefaultQuery(),
		HourlyLimit: cfg.HourlyLimit,
	}, rc.logger)

	rc.logger.Info("starting server", "port", cfg.Port, "provider", cfg.Provider.URL, "timezone", cfg.Timezone)
	return server.Run(rc.ctx)
}

type VerdictCmd struct {
	Query QueryFlags `embed:""`
	Mode  string     `help:"Verdict mode (simple or detailed)." default:"detailed" enum:"simple,detailed"`
}

func (c *VerdictCmd) Run(rc *runContext) error {
	mode, err := verdict.ParseMode(c.Mode)
	if err != nil {
		return err
	}
	q, err := c.Query.query(rc.cfg)
	if err != nil {
		return err
	}

	set, _, err := ingest.NewClient(rc.cfg.Provider, rc.logger).FetchHourly(rc.ctx, q)
	if err != nil {
		return err
	}
	engine := verdict.NewEngine(verdict.SystemClock{Location: rc.cfg.Location()}, rc.logger)
	v, err := engine.Verdict(set.Truncate(rc.cfg.HourlyLimit), mode)
	if err != nil {
		return err
	}
	return printJSON(rc.out, v)
}

type HourlyCmd struct {
	Query QueryFlags `embed:""`
}

func (c *HourlyCmd) Run(rc *runContext) error {
	q, err := c.Query.query(rc.cfg)
	if err != nil {
		return err
	}
	set, result, err := ingest.NewClient(rc.cfg.Provider, rc.logger).FetchHourly(rc.ctx, q)
	if err != nil {
		return err
	}
	rc.logger.Debug("fetched hourly forecast", "records", result.RecordCount, "attempts", result.Attempts, "bytes", result.ResponseSize)
	return printJSON(rc.out, set.Truncate(rc.cfg.HourlyLimit))
}

type DailyCmd struct {
	Query QueryFlags `embed:""`
}

func (c *DailyCmd) Run(rc *runContext) error {
	q, err := c.Query.query(rc.cfg)
	if err != nil {
		return err
	}
	set, result, err := ingest.NewClient(rc.cfg.Provider, rc.logger).FetchDaily(rc.ctx, q)
	if err != nil {
		return err
	}
	rc.logger.Debug("fetched daily forecast", "records", result.RecordCount, "attempts", result.Attempts, "bytes", result.ResponseSize)
	return printJSON(rc.out, set)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// envFileFromArgs finds --env-file ahead of parsing, since the file has to
// be loaded before kong reads the environment.
func envFileFromArgs(args []string) string {
	for i, arg := range args {
		if arg == "--" {
			break
		}
		if v, ok := strings.CutPrefix(arg, "--env-file="); ok {
			return v
		}
		if arg == "--env-file" && i+1 < len(args) {
			return args[i+1]
		}
	}
	return defaultEnvFile
}

func main() {
	if err := config.LoadDotenv(envFileFromArgs(os.Args[1:])); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	var cli CLI
	kctx := kong.Parse(&cli,
		kong.Name("whattowear"),
		kong.Description("Tells you what to wear today from the hourly weather forecast."),
		kong.UsageOnError(),
	)

	cfg := &cli.Config
	kctx.FatalIfErrorf(cfg.Validate())

	logger := logging.NewLogger(cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(logger)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	err := kctx.Run(&runContext{ctx: ctx, cfg: cfg, logger: logger, out: os.Stdout})
	kctx.FatalIfErrorf(err)
}
