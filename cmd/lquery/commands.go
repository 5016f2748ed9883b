package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/leengari/lquery/internal/config"
	"github.com/leengari/lquery/internal/domain/data"
	"github.com/leengari/lquery/internal/engine"
	"github.com/leengari/lquery/internal/logging"
	"github.com/leengari/lquery/internal/repl"
	"github.com/leengari/lquery/internal/spreadsheet"
)

// app is the state shared by all subcommands, set up before any of them runs
type app struct {
	configPath string
	cfg        *config.Config
	logger     *slog.Logger
	closeLog   func()
	eng        *engine.Engine

	// io flags
	in     string
	out    string
	types  string
	header bool
}

func newRootCmd() *cobra.Command {
	a := &app{closeLog: func() {}}

	rootCmd := &cobra.Command{
		Use:           "lquery",
		Short:         "Sort, filter and compute columns of spreadsheet tables",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			a.closeLog()
		},
	}
	rootCmd.PersistentFlags().StringVar(&a.configPath, "config", "", "config file (default ./lquery.yaml if present)")

	var by string
	sortCmd := &cobra.Command{
		Use:   "sort",
		Short: "Sort rows by one or more columns",
		Example: `  lquery sort --in stock.xlsx --out sorted.xlsx --types "TEXT,INT?,FLOAT" --header \
    --by "price DESC, qty NULLS LAST"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.transform(cmd.Context(), func(ctx context.Context, t *data.Table) (*data.Table, error) {
				return a.eng.Sort(ctx, t, by)
			})
		},
	}
	sortCmd.Flags().StringVar(&by, "by", "", "sort keys, e.g. \"a ASC, b DESC NULLS LAST\"")
	_ = sortCmd.MarkFlagRequired("by")

	var where string
	filterCmd := &cobra.Command{
		Use:   "filter",
		Short: "Keep the rows matching a predicate",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.transform(cmd.Context(), func(ctx context.Context, t *data.Table) (*data.Table, error) {
				return a.eng.Filter(ctx, t, where)
			})
		},
	}
	filterCmd.Flags().StringVar(&where, "where", "", "predicate, e.g. \"qty * price > 100\"")
	_ = filterCmd.MarkFlagRequired("where")

	var name, expr string
	deriveCmd := &cobra.Command{
		Use:   "derive",
		Short: "Append a column computed from an expression",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.transform(cmd.Context(), func(ctx context.Context, t *data.Table) (*data.Table, error) {
				return a.eng.Derive(ctx, t, name, expr)
			})
		},
	}
	deriveCmd.Flags().StringVar(&name, "name", "", "name of the new column")
	deriveCmd.Flags().StringVar(&expr, "expr", "", "value expression, e.g. \"qty * price\"")
	_ = deriveCmd.MarkFlagRequired("name")
	_ = deriveCmd.MarkFlagRequired("expr")

	replCmd := &cobra.Command{
		Use:   "repl",
		Short: "Explore a table interactively",
		RunE: func(cmd *cobra.Command, args []string) error {
			table, err := a.load()
			if err != nil {
				return err
			}
			defer table.Release()
			return repl.Start(cmd.Context(), a.eng, table, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}

	for _, cmd := range []*cobra.Command{sortCmd, filterCmd, deriveCmd} {
		cmd.Flags().StringVar(&a.out, "out", "", "output xlsx file")
		_ = cmd.MarkFlagRequired("out")
	}
	for _, cmd := range []*cobra.Command{sortCmd, filterCmd, deriveCmd, replCmd} {
		cmd.Flags().StringVar(&a.in, "in", "", "input xlsx file")
		cmd.Flags().StringVar(&a.types, "types", "", "column types, e.g. \"INT,FLOAT?,TEXT\" (? marks nullable)")
		cmd.Flags().BoolVar(&a.header, "header", false, "first row holds column names (default from config)")
		_ = cmd.MarkFlagRequired("in")
		rootCmd.AddCommand(cmd)
	}

	return rootCmd
}

func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if f := cmd.Flags().Lookup("header"); f != nil && f.Changed {
		cfg.Spreadsheet.Header = a.header
	}
	a.cfg = cfg

	logger, closeFn, err := logging.SetupLogger(cfg.Log, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	a.logger, a.closeLog = logger, closeFn

	a.eng = engine.New(cfg, engine.WithLogger(logger))
	a.eng.AddObserver(engine.NewLoggingObserver(logger))
	return nil
}

func (a *app) load() (*data.Table, error) {
	types, err := spreadsheet.ParseColumnSpecs(a.types)
	if err != nil {
		return nil, fmt.Errorf("--types: %w", err)
	}
	opts := spreadsheet.ReadOptions{Types: types}
	if a.cfg.Spreadsheet.Header {
		opts.Header = spreadsheet.FirstRowAsHeaders{}
	}
	return spreadsheet.ReadFile(a.in, opts)
}

// transform loads --in, applies fn and writes the result to --out
func (a *app) transform(ctx context.Context, fn func(context.Context, *data.Table) (*data.Table, error)) error {
	table, err := a.load()
	if err != nil {
		return err
	}
	defer table.Release()

	out, err := fn(ctx, table)
	if err != nil {
		return err
	}
	defer out.Release()

	opts := spreadsheet.WriteOptions{
		SheetName: a.cfg.Spreadsheet.SheetName,
		Header:    a.cfg.Spreadsheet.Header,
	}
	if err := spreadsheet.WriteFile(a.out, out, opts); err != nil {
		return err
	}
	a.logger.Info("table written",
		slog.String("in", a.in),
		slog.String("out", a.out),
		slog.Int("rows", out.NumRows()),
		slog.Int("columns", out.NumColumns()),
	)
	return nil
}
