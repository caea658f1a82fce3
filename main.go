package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ctolnik/aw-watcher-window/awclient"
	"github.com/ctolnik/aw-watcher-window/config"
	"github.com/ctolnik/aw-watcher-window/platform"
	"github.com/ctolnik/aw-watcher-window/watcher"
	"github.com/ctolnik/aw-watcher-window/zapctx"
)

const (
	clientName         = "aw-watcher-window"
	bucketType         = "currentwindow"
	bucketRetryBackoff = time.Second
)

var (
	configPath   = flag.String("config", "config.yaml", "Path to config file")
	host         = flag.String("host", "", "Hostname of the ActivityWatch server to connect to")
	port         = flag.Int("port", 0, "Port of the ActivityWatch server to connect to")
	excludeTitle = flag.Bool("exclude-title", false, "Disable title reporting")
	excludeProcs = flag.String("exclude-title-processes", "", "Comma-separated regex patterns matching process names to exclude titles from")
	includeProcs = flag.String("include-title-processes", "", "Comma-separated regex patterns overriding the exclusion rules")
	pollTime     = flag.Int("poll-time", 0, "Poll time in milliseconds")
	debug        = flag.Bool("debug", false, "Enable debug logging")
	version      = "1.0.0"
)

func main() {
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	applyFlagOverrides(cfg)
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	logger := zapctx.NewConsole(cfg.Debug)
	defer logger.Sync()

	hostname, err := os.Hostname()
	if err != nil {
		logger.Fatal("Failed to determine hostname", zap.Error(err))
	}

	logger = logger.With(
		zap.String("session", uuid.NewString()),
		zap.String("host", hostname),
	)
	ctx, cancel := context.WithCancel(zapctx.WithLogger(context.Background(), logger))
	defer cancel()

	zapctx.Info(ctx, "aw-watcher-window starting",
		zap.String("version", version),
		zap.String("server", cfg.ServerURL()),
		zap.Duration("poll_interval", cfg.PollInterval()))

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		zapctx.Info(ctx, "Shutting down", zap.String("signal", sig.String()))
		cancel()
	}()

	client := awclient.NewClient(awclient.Config{
		BaseURL:    cfg.ServerURL(),
		ClientName: clientName,
		Hostname:   hostname,
		Timeout:    cfg.Timeout(),
	})
	bucketID := clientName + "_" + hostname

	// Polling must not start until the server can take heartbeats.
	if err := awclient.WaitForBucket(ctx, client, bucketID, bucketType, bucketRetryBackoff); err != nil {
		return
	}

	rules := watcher.NewRuleSet(
		cfg.Privacy.ExcludeTitle,
		cfg.Privacy.ExcludeTitleProcesses,
		cfg.Privacy.IncludeTitleProcesses,
	)
	sender := &awclient.HeartbeatSender{
		Client:      client,
		BucketID:    bucketID,
		MergeWindow: watcher.MergeWindow(cfg.PollInterval()),
	}

	w := watcher.New(platform.NewWindowSource(), sender, rules, cfg.PollInterval())
	w.Run(ctx)
}

// applyFlagOverrides lets explicitly passed flags win over the config file,
// so the watcher can also run with no file at all.
func applyFlagOverrides(cfg *config.Config) {
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "host":
			cfg.Server.Host = *host
		case "port":
			cfg.Server.Port = *port
		case "exclude-title":
			cfg.Privacy.ExcludeTitle = *excludeTitle
		case "exclude-title-processes":
			cfg.Privacy.ExcludeTitleProcesses = splitPatterns(*excludeProcs)
		case "include-title-processes":
			cfg.Privacy.IncludeTitleProcesses = splitPatterns(*includeProcs)
		case "poll-time":
			cfg.Watcher.PollIntervalMs = *pollTime
		case "debug":
			cfg.Debug = *debug
		}
	})
}

func splitPatterns(s string) []string {
	var patterns []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			patterns = append(patterns, p)
		}
	}
	return patterns
}
