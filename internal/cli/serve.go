package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/classviz/internal/server"
	"github.com/matzehuels/classviz/pkg/cache"
	"github.com/matzehuels/classviz/pkg/pipeline"
)

const defaultAddr = "localhost:8080"

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		flags renderFlags
		addr  string
		redis string
		scope string
	)

	cmd := &cobra.Command{
		Use:   "serve [file]",
		Short: "Serve a live dashboard whose rows re-sort in place",
		Long: `Serve a dataset as a web page. Clicking a column header toggles the sort
and the rows slide to their new positions. POST /reload re-reads the file
after it changes and keeps the current sort.

Rendered charts are cached in Redis when --redis (or cache.redis_addr in
the config file) is set, and in the file cache otherwise.`,
		Example: `  classviz serve class.json
  classviz serve class.json --addr :9000 --redis localhost:6379 --sort stats`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if redis != "" {
				c.Config.Cache.RedisAddr = redis
			}

			ch, err := c.newCache(ctx, flags.noCache)
			if err != nil {
				return err
			}
			runner := pipeline.NewRunner(ch, cache.NewScopedKeyer(nil, keyPrefix(scope)), c.Logger)
			defer runner.Close()

			opts := flags.options(c, args[0])
			prog := newProgress(loggerFromContext(ctx))
			srv, err := server.New(ctx, runner, opts)
			if err != nil {
				return err
			}
			prog.done("ranked dataset", "sort", srv.Layout().State(), "rows", len(srv.Layout().CurrentOrder()))

			printSuccess("Serving %s", StyleValue.Render(args[0]))
			printKeyValue("kind", string(srv.Kind()))
			printKeyValue("sort", srv.Layout().State().String())
			printDetail("Open %s", StyleLink.Render("http://"+addr))
			return srv.ListenAndServe(ctx, addr)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&addr, "addr", defaultAddr, "listen address")
	cmd.Flags().StringVar(&redis, "redis", "", "Redis address for the artifact cache (host:port)")
	cmd.Flags().StringVar(&scope, "scope", "", "cache key scope, for dashboards sharing one Redis")

	return cmd
}

// keyPrefix namespaces cache keys of one dashboard.
func keyPrefix(scope string) string {
	if scope == "" {
		return appName + ":"
	}
	return appName + ":" + scope + ":"
}
