package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/panbanda/mood/internal/cache"
	"github.com/urfave/cli/v2"
)

func cacheCmd() *cli.Command {
	return &cli.Command{
		Name:  "cache",
		Usage: "Manage the introspection cache",
		Subcommands: []*cli.Command{
			{
				Name:   "clear",
				Usage:  "Remove all cache entries",
				Action: runCacheClear,
			},
			{
				Name:   "stats",
				Usage:  "Show cache entry count and size",
				Action: runCacheStats,
			},
		},
	}
}

func openCache(c *cli.Context) (*cache.Cache, error) {
	cfg, err := loadConfig(c)
	if err != nil {
		return nil, err
	}
	return cache.New(cfg.Cache.Dir, cfg.Cache.TTL, true)
}

func runCacheClear(c *cli.Context) error {
	ch, err := openCache(c)
	if err != nil {
		return err
	}
	if err := ch.Clear(); err != nil {
		return fmt.Errorf("failed to clear cache: %w", err)
	}
	color.Green("Cache cleared")
	return nil
}

func runCacheStats(c *cli.Context) error {
	ch, err := openCache(c)
	if err != nil {
		return err
	}
	stats, err := ch.GetStats()
	if err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "Entries: %d\nSize:    %d bytes\n", stats.Entries, stats.TotalSize)
	return nil
}
