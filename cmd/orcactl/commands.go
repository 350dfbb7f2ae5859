package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os/signal"
	"syscall"
	"time"

	"github.com/samvad-hq/orca-public-api/internal/app"
	"github.com/samvad-hq/orca-public-api/internal/config"
	"github.com/samvad-hq/orca-public-api/internal/logger"
	"github.com/samvad-hq/orca-public-api/pkg/orca"
	"github.com/spf13/cobra"
)

type configLoader func() (*config.Config, error)

// cli carries state shared by every subcommand.
type cli struct {
	load    configLoader
	baseURL string
	timeout time.Duration
	verbose bool
}

// newRootCmd wires the command tree. load is called lazily by each subcommand.
func newRootCmd(load configLoader) *cobra.Command {
	c := &cli{load: load}

	root := &cobra.Command{
		Use:           "orcactl",
		Short:         "Query the Orca public API and watch it for changes",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&c.baseURL, "base-url", "", "override the API base URL (default from ORCA_BASE_URL)")
	root.PersistentFlags().DurationVar(&c.timeout, "timeout", 0, "per-request timeout (default from ORCA_TIMEOUT_SECONDS)")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "log requests to stderr")

	root.AddCommand(
		c.protocolCmd(),
		c.tokenInfoCmd(),
		c.supplyCmd(),
		c.tokensCmd(),
		c.tokenCmd(),
		c.lockCmd(),
		c.poolsCmd(),
		c.poolCmd(),
		c.watchCmd(),
	)
	return root
}

func (c *cli) config() (*config.Config, error) {
	cfg, err := c.load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if c.baseURL != "" {
		cfg.OrcaBaseURL = c.baseURL
	}
	if c.timeout > 0 {
		cfg.OrcaTimeout = c.timeout
	}
	if c.verbose {
		cfg.LogLevel = "debug"
	}
	return cfg, nil
}

func (c *cli) client() (*orca.Client, error) {
	cfg, err := c.config()
	if err != nil {
		return nil, err
	}
	var log logger.Logger
	if c.verbose {
		zl, err := logger.Init(cfg)
		if err != nil {
			return nil, fmt.Errorf("init logger: %w", err)
		}
		log = zl
	}
	return app.NewOrcaClient(cfg, log), nil
}

// query runs fn with a configured client and prints its result as JSON.
func (c *cli) query(cmd *cobra.Command, fn func(ctx context.Context, api *orca.Client) (any, error)) error {
	api, err := c.client()
	if err != nil {
		return err
	}
	out, err := fn(cmd.Context(), api)
	if err != nil {
		return err
	}
	return printJSON(cmd.OutOrStdout(), out)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	return nil
}

func (c *cli) protocolCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "protocol <chain>",
		Short: "Show protocol TVL, volume, fees and revenue",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.query(cmd, func(ctx context.Context, api *orca.Client) (any, error) {
				return api.GetProtocolInfo(ctx, args[0])
			})
		},
	}
}

func (c *cli) tokenInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "token-info <chain>",
		Short: "Show details of the ORCA token",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.query(cmd, func(ctx context.Context, api *orca.Client) (any, error) {
				return api.GetTokenInfo(ctx, args[0])
			})
		},
	}
}

func (c *cli) supplyCmd() *cobra.Command {
	var total bool
	cmd := &cobra.Command{
		Use:   "supply <chain>",
		Short: "Show the circulating (or total) ORCA supply",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.query(cmd, func(ctx context.Context, api *orca.Client) (any, error) {
				if total {
					return api.GetTotalSupply(ctx, args[0])
				}
				return api.GetCirculatingSupply(ctx, args[0])
			})
		},
	}
	cmd.Flags().BoolVar(&total, "total", false, "show total supply instead of circulating supply")
	return cmd
}

func (c *cli) tokensCmd() *cobra.Command {
	var (
		search string
		params orca.TokensParams
	)
	cmd := &cobra.Command{
		Use:   "tokens <chain>",
		Short: "List or search tokens",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.query(cmd, func(ctx context.Context, api *orca.Client) (any, error) {
				if search != "" {
					return api.SearchTokens(ctx, args[0], search)
				}
				return api.GetTokens(ctx, args[0], params)
			})
		},
	}
	cmd.Flags().StringVar(&search, "search", "", "search tokens by name, symbol or mint")
	cmd.Flags().IntVar(&params.Size, "size", 0, "page size")
	cmd.Flags().StringVar(&params.Next, "next", "", "cursor of the next page")
	cmd.Flags().StringVar(&params.SortBy, "sort-by", "", "sort field")
	cmd.Flags().StringVar(&params.SortDirection, "sort-direction", "", "asc or desc")
	return cmd
}

func (c *cli) tokenCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "token <chain> <mint>",
		Short: "Show a single token by mint address",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.query(cmd, func(ctx context.Context, api *orca.Client) (any, error) {
				return api.GetToken(ctx, args[0], args[1])
			})
		},
	}
}

func (c *cli) lockCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lock <chain> <address>",
		Short: "Show locked liquidity for a pool",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.query(cmd, func(ctx context.Context, api *orca.Client) (any, error) {
				return api.GetLockInfo(ctx, args[0], args[1])
			})
		},
	}
}

func (c *cli) poolsCmd() *cobra.Command {
	var (
		search        string
		size          int
		next          string
		sortBy        string
		sortDirection string
		minTVL        float64
	)
	cmd := &cobra.Command{
		Use:   "pools <chain>",
		Short: "List or search whirlpools",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var tvl *float64
			if cmd.Flags().Changed("min-tvl") {
				tvl = orca.Float64(minTVL)
			}
			return c.query(cmd, func(ctx context.Context, api *orca.Client) (any, error) {
				if search != "" {
					return api.SearchPools(ctx, args[0], orca.SearchPoolsParams{
						Query:         search,
						Next:          next,
						Size:          size,
						SortBy:        sortBy,
						SortDirection: sortDirection,
						MinTVL:        tvl,
					})
				}
				return api.GetPools(ctx, args[0], orca.PoolsParams{
					Next:          next,
					Size:          size,
					SortBy:        sortBy,
					SortDirection: sortDirection,
					MinTVL:        tvl,
				})
			})
		},
	}
	cmd.Flags().StringVar(&search, "search", "", "search pools by token name, symbol or address")
	cmd.Flags().IntVar(&size, "size", 0, "page size")
	cmd.Flags().StringVar(&next, "next", "", "cursor of the next page")
	cmd.Flags().StringVar(&sortBy, "sort-by", "", "sort field (e.g. tvl, volume)")
	cmd.Flags().StringVar(&sortDirection, "sort-direction", "", "asc or desc")
	cmd.Flags().Float64Var(&minTVL, "min-tvl", 0, "minimum TVL in USDC")
	return cmd
}

func (c *cli) poolCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pool <chain> <address>",
		Short: "Show a single whirlpool",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.query(cmd, func(ctx context.Context, api *orca.Client) (any, error) {
				return api.GetPool(ctx, args[0], args[1])
			})
		},
	}
}

func (c *cli) watchCmd() *cobra.Command {
	var once bool
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Watch configured targets and publish changed snapshots",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := c.config()
			if err != nil {
				return err
			}
			log, err := logger.Init(cfg)
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			w, err := app.NewWatcher(ctx, cfg, log)
			if err != nil {
				return fmt.Errorf("init watcher: %w", err)
			}
			if !once {
				return w.Run(ctx)
			}
			runErr := w.RunOnce(ctx)
			return errors.Join(runErr, w.Close())
		},
	}
	cmd.Flags().BoolVar(&once, "once", false, "run a single pass and exit")
	return cmd
}
