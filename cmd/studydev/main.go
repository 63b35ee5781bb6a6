// Command studydev is a local study assistant. Flashcards are scheduled with
// the SM-2 algorithm and reviewed from the terminal or through a local HTTP
// API served by "studydev serve".
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
