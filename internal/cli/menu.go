package cli

import (
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"svclog/internal/global"
	"text/tabwriter"
)

const (
	RootCLICommand  string = "root"
	helpMenuTrailer string = `
Every option can also be set in the configuration file or through SVCLOG_ environment
variables (double underscore separates nested keys, e.g. SVCLOG_OUTPUTS__SQLITE_PATH).
Command line options take precedence over both.
`
)

// Full standardized help menu (wraps option printer as well)
func PrintHelpMenu(w io.Writer, fs *flag.FlagSet, command string, rootCmd *global.CommandSet) {
	curCmdSet := rootCmd
	if command != "" && command != RootCLICommand {
		cmd, ok := rootCmd.ChildCommands[command]
		if !ok {
			fmt.Fprintf(w, "Unknown command: %s\n", command)
			return
		}
		curCmdSet = cmd
	}

	usageParts := []string{os.Args[0]}
	if curCmdSet != rootCmd {
		usageParts = append(usageParts, curCmdSet.CommandName)
	} else if len(rootCmd.ChildCommands) > 0 {
		usageParts = append(usageParts, "[subcommand]")
	}
	if curCmdSet.UsageOption != "" {
		usageParts = append(usageParts, curCmdSet.UsageOption)
	}
	fmt.Fprintf(w, "Usage: %s\n\n", strings.Join(usageParts, " "))

	if curCmdSet == rootCmd {
		fmt.Fprintln(w, curCmdSet.Description)
		fmt.Fprintln(w, curCmdSet.FullDescription)
		fmt.Fprintln(w)
	} else if curCmdSet.FullDescription != "" {
		fmt.Fprintln(w, "  Description:")
		fmt.Fprintf(w, "    %s\n\n", curCmdSet.FullDescription)
	}

	if len(curCmdSet.ChildCommands) > 0 {
		fmt.Fprintln(w, "  Subcommands:")

		subNames := make([]string, 0, len(curCmdSet.ChildCommands))
		for name := range curCmdSet.ChildCommands {
			subNames = append(subNames, name)
		}
		sort.Strings(subNames)

		table := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		for _, name := range subNames {
			fmt.Fprintf(table, "    %s\t- %s\n", name, curCmdSet.ChildCommands[name].Description)
		}
		table.Flush()
		fmt.Fprintln(w)
	}

	printFlagOptions(w, fs)

	if curCmdSet == rootCmd {
		fmt.Fprint(w, helpMenuTrailer)
	}
}

// Groups short/long aliases (flags sharing a usage text) on one line
func printFlagOptions(w io.Writer, fs *flag.FlagSet) {
	type option struct {
		short      string
		long       []string
		usage      string
		defaultVal string
	}

	var order []string
	grouped := make(map[string]*option)
	fs.VisitAll(func(arg *flag.Flag) {
		opt, seen := grouped[arg.Usage]
		if !seen {
			opt = &option{usage: arg.Usage, defaultVal: arg.DefValue}
			grouped[arg.Usage] = opt
			order = append(order, arg.Usage)
		}
		if len(arg.Name) == 1 {
			opt.short = "-" + arg.Name
		} else {
			opt.long = append(opt.long, "--"+arg.Name)
		}
	})
	if len(order) == 0 {
		return
	}

	// Sort by the first long name, falling back to the short one
	sortKey := func(opt *option) string {
		if len(opt.long) > 0 {
			return strings.ToLower(strings.TrimLeft(opt.long[0], "-"))
		}
		return strings.ToLower(strings.TrimLeft(opt.short, "-"))
	}
	sort.Slice(order, func(a, b int) bool {
		return sortKey(grouped[order[a]]) < sortKey(grouped[order[b]])
	})

	fmt.Fprintln(w, "  Options:")
	table := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, usage := range order {
		opt := grouped[usage]

		shortCol := "  "
		if opt.short != "" {
			shortCol = opt.short
			if len(opt.long) > 0 {
				shortCol += ","
			}
		}

		desc := opt.usage
		// Skip printing any "empty" defaults
		if opt.defaultVal != "" && opt.defaultVal != "false" && opt.defaultVal != "0" {
			desc += fmt.Sprintf(" [default: %s]", opt.defaultVal)
		}
		fmt.Fprintf(table, "  %s %s\t%s\n", shortCol, strings.Join(opt.long, ", "), desc)
	}
	table.Flush()
}
