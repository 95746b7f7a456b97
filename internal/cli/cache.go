package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/techflow/pkg/cache"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the download and render cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all cached sheets and diagrams",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := c.newCache(cmd.Context())
			if err != nil {
				return err
			}
			defer store.Close()

			clearer, ok := store.(cache.Clearer)
			if !ok {
				return fmt.Errorf("cache backend %q cannot be cleared", c.Config.Cache.Backend)
			}
			if err := clearer.Clear(cmd.Context()); err != nil {
				return fmt.Errorf("clear cache: %w", err)
			}

			say(statusOK, "Cache cleared")
			detail("%s", c.cacheLocation())
			return nil
		},
	}
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print where the cache lives",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(stdout, c.cacheLocation())
			return nil
		},
	}
}

// cacheLocation describes the configured backend: a directory, a Redis
// address or "disabled".
func (c *CLI) cacheLocation() string {
	switch c.Config.Cache.Backend {
	case cache.BackendNone:
		return "disabled"
	case cache.BackendRedis:
		return "redis://" + c.Config.Cache.RedisAddr
	}
	if c.Config.Cache.Dir != "" {
		return c.Config.Cache.Dir
	}
	dir, err := cacheDir()
	if err != nil {
		return "unavailable"
	}
	return dir
}
