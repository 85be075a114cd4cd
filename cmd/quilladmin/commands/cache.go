package commands

import (
	"errors"

	"github.com/spf13/cobra"
)

// errFlushNeedsRedis 内存缓存属于各个服务进程，命令行无法触达
var errFlushNeedsRedis = errors.New("cache flush requires the redis backend (CACHE_BACKEND=redis); memory caches expire on their own")

func newCacheCmd(app *App) *cobra.Command {
	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the index page cache",
	}
	cacheCmd.AddCommand(&cobra.Command{
		Use:   "flush",
		Short: "Drop every cached index page",
		Long: `Drop every cached index page so the next request renders fresh data.

Only the redis backend can be flushed from outside the server process; the
memory backend lives inside each server and expires on its own.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.Config.Cache.Backend != "redis" {
				return errFlushNeedsRedis
			}
			cache, err := app.pageCache()
			if err != nil {
				return err
			}
			if err := cache.Clear(cmd.Context()); err != nil {
				return err
			}
			success(cmd.OutOrStdout(), "Page cache flushed (%s)", app.Config.Cache.Backend)
			return nil
		},
	})
	return cacheCmd
}
