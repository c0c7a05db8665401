package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"sync"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"

	"ui-template/internal/application/port/input"
	"ui-template/internal/di"
	"ui-template/internal/infrastructure/config"
	"ui-template/internal/infrastructure/env"
)

var errChecksFailed = errors.New("checks failed")

type checkOptions struct {
	urls     []string
	selector string
	parallel int
}

func newCheckCmd() *cobra.Command {
	var opts checkOptions
	cmd := &cobra.Command{
		Use:   "check --url URL --selector SELECTOR",
		Short: "Open each URL and wait until the selector is displayed",
		Long: `Opens every --url in its own browser and waits until --selector is displayed.
Relative URLs are resolved against web.base_url. Selectors starting with "/",
"(" or "xpath=" are XPath, anything else is CSS.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			dir, err := cmd.Flags().GetString("config-dir")
			if err != nil {
				return err
			}
			env.Load(dir, nil)
			cfg, err := config.Load(dir)
			if err != nil {
				return err
			}
			if err := cfg.Test.Validate(); err != nil {
				return err
			}
			return runChecks(cmd.Context(), cfg, opts, cmd.OutOrStdout(), zapcore.Lock(zapcore.AddSync(cmd.ErrOrStderr())))
		},
	}
	cmd.Flags().StringArrayVar(&opts.urls, "url", nil, "page to check, repeatable")
	cmd.Flags().StringVar(&opts.selector, "selector", "", "element that has to be displayed")
	cmd.Flags().IntVar(&opts.parallel, "parallel", 2, "number of browsers running at once")
	_ = cmd.MarkFlagRequired("url")
	_ = cmd.MarkFlagRequired("selector")
	return cmd
}

type outcome struct {
	res *input.CheckResult
	err error
}

// runChecks gives every URL its own container. Results are printed in the
// order of the flags once all checks finished.
func runChecks(ctx context.Context, cfg *config.Config, opts checkOptions, out io.Writer, console zapcore.WriteSyncer) error {
	if opts.parallel < 1 {
		return fmt.Errorf("--parallel must be 1 or greater, got %d", opts.parallel)
	}
	outcomes := make([]outcome, len(opts.urls))
	var mu sync.Mutex

	var g errgroup.Group
	g.SetLimit(opts.parallel)
	for i, u := range opts.urls {
		g.Go(func() error {
			res, err := checkOne(ctx, cfg, i, u, opts.selector, console)
			mu.Lock()
			outcomes[i] = outcome{res: res, err: err}
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	failed := 0
	for i, o := range outcomes {
		if o.err != nil {
			failed++
			fmt.Fprintf(out, "FAIL %s: %v\n", opts.urls[i], o.err)
			continue
		}
		fmt.Fprintf(out, "PASS %s %q %q (%s)\n", o.res.URL, o.res.Title, o.res.Text, o.res.Elapsed.Round(time.Millisecond))
	}
	if failed > 0 {
		return fmt.Errorf("%w: %d of %d", errChecksFailed, failed, len(outcomes))
	}
	return nil
}

func checkOne(ctx context.Context, cfg *config.Config, i int, raw, selector string, console zapcore.WriteSyncer) (*input.CheckResult, error) {
	c, err := di.NewContainer(ctx, cfg, di.Options{
		Scope:      scopeOf(i, raw),
		Console:    console,
		NewSession: newSession,
	})
	if err != nil {
		return nil, err
	}
	defer func() { _ = c.Close() }()
	return c.Checks.Run(ctx, input.CheckRequest{URL: raw, Selector: selector})
}

func scopeOf(i int, raw string) string {
	name := raw
	if u, err := url.Parse(raw); err == nil && u.Host != "" {
		name = u.Host + u.Path
	}
	return fmt.Sprintf("check-%d-%s", i+1, name)
}
