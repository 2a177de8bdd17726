// Package cli provides the Cobra-based CLI for the inventory manager.
package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"inventory_manager/inventory"
	"inventory_manager/logger"
	"inventory_manager/store"
)

var (
	rootCmd = &cobra.Command{
		Use:           "inventory",
		Short:         "Interactive inventory manager",
		Long:          "Registers products, tracks stock, applies category discounts and records sales for one session.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// tests inject svc
			if svc != nil {
				return nil
			}
			return setup(cmd.Context())
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			m := NewMenu(svc, NewPrompter(input(cmd), out, maxAttempts()), NewRenderer(out, svc.LowStockThreshold()))
			return m.Run(cmd.Context())
		},
	}

	svc    *inventory.Service
	appLog = zerolog.Nop()

	// stdin is shared by the shell loop and the commands it dispatches.
	stdin *bufio.Reader
)

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file")
	rootCmd.PersistentFlags().String("log-level", "info", "log level: trace|debug|info|warn|error|off")
	rootCmd.PersistentFlags().String("log-format", "console", "log format: console|json")
	rootCmd.PersistentFlags().Int("low-stock-threshold", inventory.DefaultLowStockThreshold, "quantity below which stock is reported as low")
	rootCmd.PersistentFlags().Int("max-attempts", 3, "invalid answers allowed per prompt before the operation is cancelled")
	rootCmd.PersistentFlags().String("seed-file", "", "JSON or NDJSON file with products loaded at startup")

	for _, name := range []string{"config", "log-level", "log-format", "low-stock-threshold", "max-attempts", "seed-file"} {
		_ = viper.BindPFlag(name, rootCmd.PersistentFlags().Lookup(name))
	}
	viper.SetEnvPrefix("INVENTORY")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	shellCmd := &cobra.Command{
		Use:   "shell",
		Short: "Interactive shell mode",
		RunE: func(cmd *cobra.Command, args []string) error {
			r := input(cmd)
			out := cmd.OutOrStdout()
			for {
				fmt.Fprint(out, "inventory> ")
				line, err := r.ReadString('\n')
				fields := strings.Fields(line)
				if len(fields) > 0 {
					if fields[0] == "exit" || fields[0] == "quit" {
						return nil
					}
					runLine(cmd, fields)
				}
				if err != nil {
					return nil
				}
			}
		},
	}
	rootCmd.AddCommand(shellCmd)

	addProductCommands(rootCmd)
	addOperationCommands(rootCmd)
}

// setup resolves the configuration and builds the session service.
func setup(ctx context.Context) error {
	if cfg := viper.GetString("config"); cfg != "" {
		viper.SetConfigFile(cfg)
		if err := viper.ReadInConfig(); err != nil {
			return err
		}
	}

	c, err := loadConfig(viper.GetViper())
	if err != nil {
		return err
	}

	appLog = logger.New(logger.Config{Level: c.LogLevel, Format: c.LogFormat})
	svc = inventory.NewService(
		store.NewInMemoryStore(),
		inventory.WithLogger(appLog),
		inventory.WithLowStockThreshold(c.LowStockThreshold),
	)

	if c.SeedFile != "" {
		products, err := readProducts(c.SeedFile)
		if err != nil {
			return err
		}
		if err := svc.Import(ctx, products); err != nil {
			return err
		}
		appLog.Info().Str("file", c.SeedFile).Int("count", len(products)).Msg("inventory seeded")
	}
	return nil
}

// runLine dispatches one shell line to the matching subcommand.
func runLine(shell *cobra.Command, fields []string) {
	defer resetFlags(rootCmd)
	defer rootCmd.SetArgs(nil)

	sub, _, err := rootCmd.Find(fields)
	if err != nil || sub == rootCmd || sub == shell {
		fmt.Fprintf(shell.OutOrStdout(), "unknown command %q\n", fields[0])
		return
	}
	rootCmd.SetArgs(fields)
	if err := rootCmd.ExecuteContext(shell.Context()); err != nil {
		fmt.Fprintln(shell.OutOrStdout(), describe(err))
	}
}

// resetFlags restores every flag of c and its children to its default, so a
// shell line never inherits values from the previous one.
func resetFlags(c *cobra.Command) {
	c.LocalNonPersistentFlags().VisitAll(func(f *pflag.Flag) {
		if f.Changed {
			_ = f.Value.Set(f.DefValue)
			f.Changed = false
		}
	})
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

func input(cmd *cobra.Command) *bufio.Reader {
	if stdin == nil {
		stdin = bufio.NewReader(cmd.InOrStdin())
	}
	return stdin
}

func maxAttempts() int {
	return viper.GetInt("max-attempts")
}

func renderer(cmd *cobra.Command) *Renderer {
	return NewRenderer(cmd.OutOrStdout(), svc.LowStockThreshold())
}

// emit writes v as indented JSON when asJSON is set, otherwise calls table.
func emit(cmd *cobra.Command, asJSON bool, v interface{}, table func(r *Renderer)) error {
	if !asJSON {
		table(renderer(cmd))
		return nil
	}
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(b))
	return nil
}

// Execute runs the root command until it returns or the process is interrupted.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}
