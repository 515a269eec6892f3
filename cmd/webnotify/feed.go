package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"sync"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/webnotify/internal/config"
	"github.com/jmylchreest/webnotify/internal/notification"
)

var feedOpts struct {
	origin  string
	baseURL string
	watch   bool
}

// feedRequest is one JSON line on stdin. Optional members follow the
// notification options model: absent means "not supplied".
type feedRequest struct {
	Title              string  `json:"title"`
	Body               string  `json:"body"`
	Tag                string  `json:"tag"`
	Lang               string  `json:"lang"`
	Dir                string  `json:"dir"`
	Navigate           *string `json:"navigate"`
	Icon               *string `json:"icon"`
	Image              *string `json:"image"`
	Badge              *string `json:"badge"`
	Timestamp          *int64  `json:"timestamp"`
	Renotify           bool    `json:"renotify"`
	Silent             *bool   `json:"silent"`
	RequireInteraction bool    `json:"require_interaction"`
	Data               any     `json:"data"`
}

var feedCmd = &cobra.Command{
	Use:   "feed",
	Short: "Stream notifications from stdin (one JSON object per line)",
	Long: `Read JSON lines from stdin and push each one through the notification
pipeline. Lines that fail validation are logged and skipped; dispatch
failures are logged and the stream continues.

With --watch, the config file is watched while the stream runs and
normalization settings (action cap, replacement support, dispatch
timeout) are re-applied on change.`,
	RunE: runFeed,
}

func init() {
	rootCmd.AddCommand(feedCmd)

	feedCmd.Flags().StringVar(&feedOpts.origin, "origin", "webnotify-feed",
		"Origin identity used for deduplication")
	feedCmd.Flags().StringVar(&feedOpts.baseURL, "base-url", "",
		"Base URL for resolving relative URL members")
	feedCmd.Flags().BoolVar(&feedOpts.watch, "watch", false,
		"Reload config while the stream runs")
}

func runFeed(cmd *cobra.Command, args []string) error {
	var baseURL *url.URL
	if feedOpts.baseURL != "" {
		parsed, err := url.Parse(feedOpts.baseURL)
		if err != nil {
			return fmt.Errorf("invalid --base-url: %w", err)
		}
		baseURL = parsed
	}

	var mu sync.Mutex
	p, err := newPipeline(cfg, feedOpts.origin, baseURL)
	if err != nil {
		return err
	}

	if feedOpts.watch {
		path := globalOpts.configPath
		if path == "" {
			path = config.ConfigPath()
		}
		watcher, err := config.NewWatcher(path, func(next *config.Config) {
			rebuilt, err := newPipeline(next, feedOpts.origin, baseURL)
			if err != nil {
				logger.Warn("config change rejected", "error", err)
				return
			}
			mu.Lock()
			p.registry.Wait()
			p = rebuilt
			mu.Unlock()
			logger.Info("configuration reloaded",
				"max_actions", next.Notifications.MaxActions,
				"supports_replacement", next.Notifications.SupportsReplacement)
		}, logger)
		if err != nil {
			return err
		}
		if err := watcher.Start(); err != nil {
			return err
		}
		defer watcher.Stop()
	}

	accepted, rejected := 0, 0
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var req feedRequest
		if err := json.Unmarshal(line, &req); err != nil {
			logger.Warn("skipping malformed line", "error", err)
			rejected++
			continue
		}

		dir, err := notification.ParseDirection(req.Dir)
		if err != nil {
			logger.Warn("skipping request", "title", req.Title, "error", err)
			rejected++
			continue
		}

		opts := notification.Options{
			Dir:                dir,
			Lang:               req.Lang,
			Body:               req.Body,
			Navigate:           req.Navigate,
			Tag:                req.Tag,
			Image:              req.Image,
			Icon:               req.Icon,
			Badge:              req.Badge,
			Timestamp:          req.Timestamp,
			Renotify:           req.Renotify,
			Silent:             req.Silent,
			RequireInteraction: req.RequireInteraction,
			Data:               req.Data,
		}

		mu.Lock()
		_, err = p.host.Construct(cmd.Context(), req.Title, opts)
		mu.Unlock()
		if err != nil {
			logger.Warn("notification rejected", "title", req.Title, "error", err)
			rejected++
			continue
		}
		accepted++
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading stdin: %w", err)
	}

	mu.Lock()
	p.registry.Wait()
	mu.Unlock()

	fmt.Printf("accepted %d, rejected %d\n", accepted, rejected)
	return nil
}
