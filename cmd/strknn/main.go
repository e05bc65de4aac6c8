// Command strknn searches a corpus of strings for the entries closest to a
// query, and serves the same engine over HTTP.
//
//	strknn query --corpus words.txt -k 3 "premium device"
//	strknn serve --corpus words.txt.zst --addr :8080
//	strknn convert --compression zstd -o words.txt.zst words.txt
package main

import (
	"fmt"
	"os"
)

// Set with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
