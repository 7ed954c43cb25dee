package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"runtime"
	"svclog/internal/cli"
	"svclog/internal/global"
	"svclog/internal/logctx"
)

func main() {
	cliOpts := cli.DefineOptions()
	global.CmdOpts = cliOpts

	args := os.Args
	commandFlags := flag.NewFlagSet(args[0], flag.ExitOnError)
	cli.SetGlobalArguments(commandFlags)

	commandFlags.Usage = func() {
		cli.PrintHelpMenu(os.Stdout, commandFlags, cli.RootCLICommand, cliOpts)
	}
	if len(args) < 2 {
		cli.PrintHelpMenu(os.Stdout, commandFlags, cli.RootCLICommand, cliOpts)
		os.Exit(1)
	}
	commandFlags.Parse(args[1:])
	if commandFlags.NArg() < 1 {
		cli.PrintHelpMenu(os.Stdout, commandFlags, cli.RootCLICommand, cliOpts)
		os.Exit(1)
	}

	// Retrieve command and args (root options may precede the command)
	command := commandFlags.Arg(0)
	args = commandFlags.Args()[1:]

	// Setting global logging
	ctx, cancel := context.WithCancel(context.Background())
	logger := logctx.NewLogger("global", global.Verbosity, ctx.Done()) // New logger tied to global
	ctx = logctx.WithLogger(ctx, logger)                               // Add logger to global ctx
	logctx.StartWatcher(logger, os.Stderr)                             // Diagnostics on stderr, stdout belongs to notices

	var err error
	switch command {
	case "run":
		err = cli.RunMode(ctx, cliOpts, command, args)
	case "configure":
		err = cli.SetupMode(cliOpts, command, args)
	case "version":
		if len(args) > 0 && (args[0] == "--verbosity" || args[0] == "-v") {
			fmt.Printf("svclog %s\n", global.ProgVersion)
			fmt.Printf("Built using %s(%s) for %s on %s\n", runtime.Version(), runtime.Compiler, runtime.GOOS, runtime.GOARCH)
		} else {
			fmt.Println(global.ProgVersion)
		}
	default:
		cli.PrintHelpMenu(os.Stdout, commandFlags, cli.RootCLICommand, cliOpts)
		err = fmt.Errorf("unknown command '%s'", command)
	}

	// Finish up any pending writes for global logger
	cancel()
	logger.Wake()
	logger.Wait()

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
