package main

import (
	"fmt"
	"io"
	"os"
	"runtime"
	"runtime/debug"
	"slices"

	"github.com/spf13/cobra"

	"github.com/hupe1980/strknn/internal/corpusfile"
)

func newConvertCommand() *cobra.Command {
	var (
		output      string
		compression string
	)

	cmd := &cobra.Command{
		Use:   "convert [flags] FILE...",
		Short: "Concatenate corpus files into one, optionally compressed",
		Long: `convert reads corpus files (plain, gzip, zstd or lz4, detected from the
content) and writes their strings to a single corpus file. The output
compression defaults to the one implied by the --output extension.`,
		Example: `  strknn convert -o words.txt.zst words.txt
  strknn convert --compression lz4 a.txt b.txt.gz > all.txt.lz4`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c := corpusfile.CompressionFromPath(output)
			if compression != "" {
				var err error
				if c, err = corpusfile.ParseCompression(compression); err != nil {
					return err
				}
			}

			var strs []string
			for _, path := range args {
				lines, err := corpusfile.ReadFile(path)
				if err != nil {
					return err
				}
				strs = append(strs, lines...)
			}

			var n int
			if output != "" && output != "-" {
				f, err := os.Create(output)
				if err != nil {
					return err
				}
				if n, err = writeAndClose(f, c, strs); err != nil {
					return fmt.Errorf("write %s: %w", output, err)
				}
			} else {
				var err error
				if n, err = corpusfile.Write(cmd.OutOrStdout(), c, slices.Values(strs)); err != nil {
					return err
				}
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "wrote %d strings (%s)\n", n, c)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().StringVar(&compression, "compression", "", "output compression (none, gzip, zstd, lz4)")

	return cmd
}

// writeAndClose writes strs to wc and closes it, returning the first error.
func writeAndClose(wc io.WriteCloser, c corpusfile.Compression, strs []string) (int, error) {
	n, err := corpusfile.Write(wc, c, slices.Values(strs))
	if cerr := wc.Close(); err == nil {
		err = cerr
	}
	return n, err
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			v := version
			if v == "dev" {
				if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
					v = info.Main.Version
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "strknn %s %s/%s %s\n", v, runtime.GOOS, runtime.GOARCH, runtime.Version())
		},
	}
}
