// Command brine runs behavior scenarios written in YAML or CUE.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/roach88/brine/internal/cli"
)

func main() {
	os.Exit(run(context.Background(), os.Args[1:]))
}

func run(ctx context.Context, args []string) int {
	cmd, err := cli.NewRootCommand()
	if err != nil {
		fmt.Fprintf(os.Stderr, "brine: %v\n", err)
		return cli.ExitCommandError
	}
	cmd.SetArgs(args)

	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "brine: %v\n", err)
		return cli.GetExitCode(err)
	}
	return cli.ExitSuccess
}
