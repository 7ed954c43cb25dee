package cli

import "svclog/internal/global"

func DefineOptions() (cmdOpts *global.CommandSet) {
	root := &global.CommandSet{
		Description:     "Service Call Event Logger (svclog)",
		FullDescription: "  Streams service call events from an event server into a rotating delimited log file",
		CommandName:     RootCLICommand,
		ChildCommands:   make(map[string]*global.CommandSet),
	}

	root.ChildCommands["run"] = &global.CommandSet{
		CommandName:     "run",
		UsageOption:     "--eventServerUrl <tcp://host:port> [options]",
		Description:     "Log Service Call Events",
		FullDescription: "Connects to the event server (reconnecting forever), filters events by service name and appends them to the log file. SIGHUP reopens the file.",
	}

	root.ChildCommands["configure"] = &global.CommandSet{
		CommandName:     "configure",
		Description:     "Setup Actions",
		FullDescription: "Generate configuration templates",
	}

	root.ChildCommands["version"] = &global.CommandSet{
		CommandName:     "version",
		Description:     "Show Version Information",
		FullDescription: "Display meta information about program",
	}

	cmdOpts = root
	return
}
