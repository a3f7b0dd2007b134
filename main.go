// go_youtube: YouTube Data API v3 MCP server.
//
// Exposes read-only tools for videos, playlists, channels, search, comments,
// captions and transcripts, plus the youtube://server/info resource.
// Runs as HTTP MCP server or stdio transport.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/anatolykoptev/go-kit/env"
	"github.com/anatolykoptev/go-mcpserver"
	"github.com/anatolykoptev/go_youtube/internal/engine"
	"github.com/anatolykoptev/go_youtube/internal/engine/sources"
	"github.com/anatolykoptev/go_youtube/internal/ytserver"
	"github.com/joho/godotenv"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/pflag"
)

var version = "dev"

func main() {
	flags := pflag.NewFlagSet("go_youtube", pflag.ContinueOnError)
	envFile := flags.String("env-file", ".env", "dotenv file loaded before reading the environment")
	credentials := flags.String("credentials", "credentials.yml", "YAML file holding youtube_api_key")
	port := flags.String("port", "", "HTTP port (overrides MCP_PORT)")
	if err := flags.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		slog.Error("bad flags", slog.Any("error", err))
		os.Exit(2)
	}

	if err := godotenv.Load(*envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("env file not loaded", slog.String("path", *envFile), slog.Any("error", err))
	}

	mcpPort := env.Str("MCP_PORT", "8892")
	if *port != "" {
		mcpPort = *port
	}

	yt, err := initEngine(*credentials)
	if err != nil {
		slog.Error("engine init failed", slog.Any("error", err))
		os.Exit(1)
	}
	defer engine.Quota().Close()

	slog.Info("starting go_youtube",
		slog.String("port", mcpPort),
		slog.Bool("transcripts", engine.Cfg.YouTubeTranscriptsEnabled),
	)

	server := mcp.NewServer(&mcp.Implementation{
		Name:    "go_youtube",
		Version: version,
	}, nil)

	ytserver.RegisterTools(server, yt)
	ytserver.RegisterResources(server, "go_youtube", version)
	slog.Info("tools registered", slog.Int("count", len(ytserver.ToolNames)))

	if err := mcpserver.Run(server, mcpserver.Config{
		Name:         "go_youtube",
		Version:      version,
		Port:         mcpPort,
		WriteTimeout: 300 * time.Second,
		Metrics:      engine.FormatMetrics,
	}); err != nil {
		slog.Error("server failed", slog.Any("error", err))
	}
}

func initEngine(credentialsPath string) (*sources.Client, error) {
	apiKey, err := engine.ResolveAPIKey(env.Str("YOUTUBE_API_KEY", ""), credentialsPath)
	if err != nil {
		return nil, err
	}

	c := engine.Config{
		YouTubeAPIKey:             apiKey,
		YouTubeAPIEndpoint:        env.Str("YOUTUBE_API_ENDPOINT", ""),
		YouTubeTranscriptsEnabled: !strings.EqualFold(env.Str("YOUTUBE_TRANSCRIPTS", "on"), "off"),
		FetchTimeout:              env.Duration("YOUTUBE_FETCH_TIMEOUT", 15*time.Second),
		RequestsPerSecond:         env.Float("YOUTUBE_RPS", 5),
		DailyQuota:                int64(env.Int("YOUTUBE_DAILY_QUOTA", engine.DefaultDailyQuota)),
		QuotaDBPath:               env.Str("QUOTA_DB_PATH", ""),
		ChannelCacheSize:          env.Int("CHANNEL_CACHE_SIZE", 512),
		CacheMaxEntries:           env.Int("CACHE_MAX_ENTRIES", 1000),
		CacheCleanupInterval:      env.Duration("CACHE_CLEANUP_INTERVAL", 300*time.Second),
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        20,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     60 * time.Second,
			},
		},
	}
	engine.Init(c)

	if err := engine.InitQuota(c.DailyQuota, c.QuotaDBPath); err != nil {
		slog.Warn("quota ledger persistence unavailable, counting in memory", slog.Any("error", err))
		_ = engine.InitQuota(c.DailyQuota, "")
	}

	cacheTTL := env.Duration("CACHE_TTL", 15*time.Minute)
	engine.InitCache(env.Str("REDIS_URL", ""), cacheTTL, c.CacheMaxEntries, c.CacheCleanupInterval)

	return sources.NewClientFromConfig(context.Background())
}
