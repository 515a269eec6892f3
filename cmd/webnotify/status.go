package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/jmylchreest/webnotify/internal/config"
	"github.com/jmylchreest/webnotify/internal/notifier"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Report platform backend availability",
	Long: `Report which notification backend this platform would use, whether the
session notification service is reachable, and what it identifies as.`,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	fmt.Printf("app name:        %s\n", cfg.App.Name)
	fmt.Printf("max actions:     %d\n", cfg.Notifications.MaxActions)
	fmt.Printf("replacement:     %v\n", cfg.Notifications.SupportsReplacement)

	printConfigAge()

	bus, err := notifier.NewBusNotifier(cfg.App.Name, logger)
	if err != nil {
		if errors.Is(err, notifier.ErrBusUnavailable) {
			fmt.Println("backend:         fallback (session bus unavailable)")
			return nil
		}
		return err
	}
	defer bus.Close()

	fmt.Println("backend:         bus (org.freedesktop.Notifications)")
	fmt.Printf("connected:       %v\n", bus.IsConnected())

	ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Second)
	defer cancel()

	info, err := bus.ServerInformation(ctx)
	if err != nil {
		fmt.Printf("server info:     unavailable (%v)\n", err)
		return nil
	}
	fmt.Printf("server:          %s %s (by %s, spec %s)\n",
		info.Name, info.Version, info.Vendor, info.SpecVersion)
	return nil
}

func printConfigAge() {
	path := globalOpts.configPath
	if path == "" {
		path = config.ConfigPath()
	}
	if info, err := os.Stat(path); err == nil {
		fmt.Printf("config:          %s (modified %s)\n", path, humanize.Time(info.ModTime()))
	} else {
		fmt.Println("config:          defaults (no config file)")
	}
}
