// Command estetica-api runs the Estética.IO clinic API.
//
//	estetica-api serve          # run the HTTP API on HTTP_HOST:HTTP_PORT
//	estetica-api migrate        # create or update the users table
//	estetica-api create-admin   # seed the administrator account
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
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		stop()
		os.Exit(1)
	}
}
