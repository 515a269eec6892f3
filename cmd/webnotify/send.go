package main

import (
	"fmt"
	"net/url"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/jmylchreest/webnotify/internal/notification"
)

var sendOpts struct {
	body               string
	tag                string
	lang               string
	dir                string
	navigate           string
	icon               string
	image              string
	badge              string
	origin             string
	baseURL            string
	timestamp          int64
	renotify           bool
	silent             bool
	requireInteraction bool
}

var sendCmd = &cobra.Command{
	Use:   "send TITLE",
	Short: "Send a single desktop notification",
	Long: `Send a single notification through the full pipeline: the request is
validated and normalized, run through the show algorithm, and dispatched
to the platform notification service.

Validation failures (e.g. --renotify without --tag) are reported as
errors. Dispatch failures are not: the notification stays registered but
unshown, and the failure is only visible in the log.`,
	Args: cobra.ExactArgs(1),
	RunE: runSend,
}

func init() {
	rootCmd.AddCommand(sendCmd)

	sendCmd.Flags().StringVarP(&sendOpts.body, "body", "b", "", "Notification body text")
	sendCmd.Flags().StringVarP(&sendOpts.tag, "tag", "t", "", "Deduplication tag (empty = no dedup)")
	sendCmd.Flags().StringVar(&sendOpts.lang, "lang", "", "Language tag")
	sendCmd.Flags().StringVar(&sendOpts.dir, "dir", "auto", "Text direction (auto, ltr, rtl)")
	sendCmd.Flags().StringVar(&sendOpts.navigate, "navigate", "", "Navigation URL (resolved against --base-url)")
	sendCmd.Flags().StringVar(&sendOpts.icon, "icon", "", "Icon URL (resolved against --base-url)")
	sendCmd.Flags().StringVar(&sendOpts.image, "image", "", "Image URL (resolved against --base-url)")
	sendCmd.Flags().StringVar(&sendOpts.badge, "badge", "", "Badge URL (resolved against --base-url)")
	sendCmd.Flags().StringVar(&sendOpts.origin, "origin", "webnotify-cli", "Origin identity used for deduplication")
	sendCmd.Flags().StringVar(&sendOpts.baseURL, "base-url", "", "Base URL for resolving relative URL flags")
	sendCmd.Flags().Int64Var(&sendOpts.timestamp, "timestamp", 0, "Timestamp in ms since epoch (default: now)")
	sendCmd.Flags().BoolVar(&sendOpts.renotify, "renotify", false, "Alert again when replacing a notification (requires --tag)")
	sendCmd.Flags().BoolVar(&sendOpts.silent, "silent", false, "Request silent presentation")
	sendCmd.Flags().BoolVar(&sendOpts.requireInteraction, "require-interaction", false, "Keep the notification until the user acts on it")
}

func runSend(cmd *cobra.Command, args []string) error {
	title := args[0]

	var baseURL *url.URL
	if sendOpts.baseURL != "" {
		parsed, err := url.Parse(sendOpts.baseURL)
		if err != nil {
			return fmt.Errorf("invalid --base-url: %w", err)
		}
		baseURL = parsed
	}

	dir, err := notification.ParseDirection(sendOpts.dir)
	if err != nil {
		return err
	}

	opts := notification.Options{
		Dir:                dir,
		Lang:               sendOpts.lang,
		Body:               sendOpts.body,
		Tag:                sendOpts.tag,
		Renotify:           sendOpts.renotify,
		RequireInteraction: sendOpts.requireInteraction,
	}
	if cmd.Flags().Changed("navigate") {
		opts.Navigate = &sendOpts.navigate
	}
	if cmd.Flags().Changed("icon") {
		opts.Icon = &sendOpts.icon
	}
	if cmd.Flags().Changed("image") {
		opts.Image = &sendOpts.image
	}
	if cmd.Flags().Changed("badge") {
		opts.Badge = &sendOpts.badge
	}
	if cmd.Flags().Changed("timestamp") {
		opts.Timestamp = &sendOpts.timestamp
	}
	if cmd.Flags().Changed("silent") {
		opts.Silent = &sendOpts.silent
	}

	p, err := newPipeline(cfg, sendOpts.origin, baseURL)
	if err != nil {
		return err
	}

	handle, err := p.host.Construct(cmd.Context(), title, opts)
	if err != nil {
		return err
	}

	// Drain the dispatch so the outcome is known before exiting.
	p.registry.Wait()

	shown := false
	for _, entry := range p.registry.Snapshot() {
		if entry.ID == handle.EntryID() {
			shown = entry.Shown
			break
		}
	}

	created := humanize.Time(time.UnixMilli(handle.Timestamp()))
	if shown {
		fmt.Printf("notification %q shown (created %s)\n", handle.Title(), created)
	} else {
		fmt.Printf("notification %q accepted but not shown; see log (created %s)\n", handle.Title(), created)
	}
	return nil
}
