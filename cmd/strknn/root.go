package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/hupe1980/strknn"
	"github.com/hupe1980/strknn/internal/config"
	"github.com/hupe1980/strknn/internal/corpusfile"
)

// cli holds state shared by all subcommands.
type cli struct {
	v       *viper.Viper
	cfgFile string
}

func newRootCommand() *cobra.Command {
	c := &cli{v: viper.New()}

	rootCmd := &cobra.Command{
		Use:   "strknn",
		Short: "Fuzzy top-k string search",
		Long: `strknn finds the k strings of a corpus closest to a query.

Strings are compared token by token using Levenshtein distance. Ordered
search aligns the token sequences; unordered search matches tokens as a
multiset and ignores word order.

Configuration is read from strknn.yaml, STRKNN_* environment variables and
flags, in increasing order of precedence.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&c.cfgFile, "config", "", "config file (default: ./strknn.yaml or ~/.config/strknn/strknn.yaml)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "text", "log format (text, json)")
	rootCmd.PersistentFlags().Int("parallelism", 0, "scan workers per query (0 = GOMAXPROCS)")
	rootCmd.PersistentFlags().String("normalization", "nfc", "unicode normalization (nfc, nfd, nfkc, nfkd)")

	c.bind(rootCmd.PersistentFlags(), map[string]string{
		"log.level":            "log-level",
		"log.format":           "log-format",
		"engine.parallelism":   "parallelism",
		"engine.normalization": "normalization",
	})

	rootCmd.AddCommand(newQueryCommand(c))
	rootCmd.AddCommand(newServeCommand(c))
	rootCmd.AddCommand(newConvertCommand())
	rootCmd.AddCommand(newVersionCommand())

	return rootCmd
}

// bind maps config keys to flags. A flag only overrides the configuration
// when it was set explicitly.
func (c *cli) bind(flags *pflag.FlagSet, keys map[string]string) {
	for key, name := range keys {
		if err := c.v.BindPFlag(key, flags.Lookup(name)); err != nil {
			panic(fmt.Sprintf("bind flag %q: %v", name, err))
		}
	}
}

func (c *cli) loadConfig() (*config.Config, error) {
	return config.Load(c.v, c.cfgFile)
}

// openEngine builds an engine from cfg and loads the configured corpus files.
func (c *cli) openEngine(ctx context.Context, cfg *config.Config, extra ...strknn.Option) (*strknn.Engine, *strknn.Logger, error) {
	logger, err := cfg.Log.Logger()
	if err != nil {
		return nil, nil, err
	}

	opts, err := cfg.EngineOptions(extra...)
	if err != nil {
		return nil, nil, err
	}

	eng, err := strknn.New(opts...)
	if err != nil {
		return nil, nil, err
	}

	if len(cfg.Corpus) > 0 {
		n, err := corpusfile.Load(ctx, eng, corpusfile.DefaultBatchSize, cfg.Corpus...)
		if err != nil {
			_ = eng.Close()
			return nil, nil, err
		}
		logger.Info("corpus loaded", "files", len(cfg.Corpus), "strings", n)
	}

	return eng, logger, nil
}
