// Command portfolioctl seeds, backs up and administers the portfolio record
// store from the terminal.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a := newApp()
	if err := a.execute(ctx, newRootCmd(a)); err != nil {
		stop()
		os.Exit(1)
	}
}
