package cli

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"svclog/internal/config"
	"svclog/internal/global"
)

// Setup options
func SetupMode(cliOpts *global.CommandSet, commandname string, args []string) (err error) {
	var templateConfPath string

	commandFlags := flag.NewFlagSet(commandname, flag.ContinueOnError)
	commandFlags.StringVar(&templateConfPath, "config-template", "", "Write a template YAML config file to this path")

	commandFlags.Usage = func() {
		PrintHelpMenu(os.Stdout, commandFlags, commandname, cliOpts)
	}
	if len(args) < 1 {
		PrintHelpMenu(os.Stdout, commandFlags, commandname, cliOpts)
		err = fmt.Errorf("no setup action given")
		return
	}
	err = commandFlags.Parse(args)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			err = nil
		}
		return
	}

	if templateConfPath == "" {
		PrintHelpMenu(os.Stdout, commandFlags, commandname, cliOpts)
		err = fmt.Errorf("no setup action given")
		return
	}

	err = config.WriteTemplate(templateConfPath)
	return
}
