package cli

import (
	"flag"
	"svclog/internal/global"
)

func SetGlobalArguments(fs *flag.FlagSet) {
	fs.IntVar(&global.Verbosity, "v", global.VerbosityStandard, "Increase detailed progress messages (Higher is more verbose) <0...5>")
	fs.IntVar(&global.Verbosity, "verbosity", global.VerbosityStandard, "Increase detailed progress messages (Higher is more verbose) <0...5>")
}

func SetCommon(fs *flag.FlagSet, configPath *string, envFilePath *string) {
	fs.StringVar(configPath, "c", "", "Path to the YAML configuration file")
	fs.StringVar(configPath, "config", "", "Path to the YAML configuration file")
	fs.StringVar(envFilePath, "env-file", global.DefaultDotEnvFilePath, "Path to a dotenv file with SVCLOG_ variables (ignored when missing)")
}
