// Command digest summarizes documents and sends the result by email and
// Telegram.
//
// Usage:
//
//	digest summarize --file notes.md
//	digest send --file daily.txt --email --telegram
//	digest history --limit 20
//	digest models
//	digest export-pdf --id 12 --out report.pdf
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
