package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/mvntree/pkg/cache"
	"github.com/matzehuels/mvntree/pkg/errors"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the repository document cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all cached POMs, metadata and rendered trees",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			store, err := openCache(cfg, false)
			if err != nil {
				return err
			}
			defer store.Close()

			stderr := cmd.ErrOrStderr()
			clearer, ok := store.(cache.Clearer)
			if !ok {
				printInfo(stderr, "Cache is disabled")
				return nil
			}
			n, err := clearer.Clear(cmd.Context())
			if err != nil {
				return errors.Wrap(errors.ErrCodeInternal, err, "clear cache")
			}
			if n == 0 {
				printInfo(stderr, "Cache is empty")
				return nil
			}
			printSuccess(stderr, "Cleared %d cached entries", n)
			if fc, ok := store.(*cache.FileCache); ok {
				printDetail(stderr, "Directory: %s", fc.Dir())
			}
			return nil
		},
	}
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache directory path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			opts := cfg.CacheOptions()
			if opts.Backend != "" && opts.Backend != cache.BackendFile {
				printWarning(cmd.ErrOrStderr(), "The %s cache backend has no directory", opts.Backend)
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), opts.Dir)
			return nil
		},
	}
}
