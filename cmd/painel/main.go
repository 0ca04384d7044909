/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

// Command painel lists and edits the resources of the administration panel
// through their CRUD stores.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := run(ctx, newApp(os.Stdout, os.Stderr, os.Stdin), os.Args[1:])
	stop()
	if err != nil {
		os.Exit(1)
	}
}

// run executes the command line args. Failures the stores already reported
// through the notifiers are not printed twice.
func run(ctx context.Context, a *app, args []string) error {
	root := newRootCommand(a)
	root.SetArgs(args)
	root.SetOut(a.out)
	root.SetErr(a.errOut)

	err := root.ExecuteContext(ctx)
	if err != nil && !a.report() {
		fmt.Fprintf(a.errOut, "error: %v\n", err)
	}
	return err
}
