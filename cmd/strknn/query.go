package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hupe1980/strknn"
)

func newQueryCommand(c *cli) *cobra.Command {
	var (
		k         int
		unordered bool
		greedy    bool
		scores    bool
	)

	cmd := &cobra.Command{
		Use:   "query [flags] TEXT...",
		Short: "Print the corpus strings closest to each TEXT",
		Example: `  strknn query --corpus words.txt -k 3 "premium device"
  strknn query --corpus a.txt --corpus b.txt.gz --unordered --scores "device premium"`,
		Args: cobra.MinimumNArgs(1),
		PreRun: func(cmd *cobra.Command, _ []string) {
			c.bind(cmd.Flags(), map[string]string{
				"corpus":              "corpus",
				"engine.set_strategy": "set-strategy",
			})
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			// A one-shot process gains nothing from caching.
			cfg.Engine.CacheSize = 0

			ctx := cmd.Context()
			eng, _, err := c.openEngine(ctx, cfg)
			if err != nil {
				return err
			}
			defer eng.Close()

			out := cmd.OutOrStdout()
			for i, text := range args {
				sb := eng.Find(text).K(k)
				switch {
				case greedy:
					sb = sb.Greedy()
				case unordered:
					sb = sb.Unordered()
				}

				results, err := sb.Execute(ctx)
				if err != nil {
					return err
				}

				if len(args) > 1 {
					if i > 0 {
						fmt.Fprintln(out)
					}
					fmt.Fprintf(out, "# %s\n", text)
				}
				printResults(out, results, scores)
			}
			return nil
		},
	}

	cmd.Flags().StringSlice("corpus", nil, "corpus file to load (repeatable, - for stdin)")
	cmd.Flags().String("set-strategy", "exact", "unordered token matching (exact, greedy)")
	cmd.Flags().IntVarP(&k, "k", "k", strknn.DefaultK, "number of results")
	cmd.Flags().BoolVarP(&unordered, "unordered", "u", false, "ignore word order")
	cmd.Flags().BoolVar(&greedy, "greedy", false, "ignore word order using greedy token matching")
	cmd.Flags().BoolVar(&scores, "scores", false, "print ID and distance with each result")

	return cmd
}

func printResults(out io.Writer, results []strknn.Result, scores bool) {
	for _, r := range results {
		text := r.Text
		if strings.ContainsAny(text, "\r\n") {
			text = fmt.Sprintf("%q", text)
		}
		if scores {
			fmt.Fprintf(out, "%d\t%g\t%s\n", r.ID, r.Distance, text)
		} else {
			fmt.Fprintln(out, text)
		}
	}
}
