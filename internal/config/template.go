package config

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/v2"
	"golang.org/x/term"
)

// Renders the default configuration as YAML
func Template() (out []byte, err error) {
	k := koanf.New(".")
	for key, value := range defaults() {
		err = k.Set(key, value)
		if err != nil {
			return
		}
	}
	err = k.Set("event_server_url", "tcp://localhost:7698")
	if err != nil {
		return
	}

	out, err = k.Marshal(yaml.Parser())
	if err != nil {
		err = fmt.Errorf("failed to render template: %w", err)
	}
	return
}

// Writes a template config file.
// An existing file is only replaced after interactive confirmation.
func WriteTemplate(path string) (err error) {
	interactive := term.IsTerminal(int(os.Stdout.Fd()))
	return writeTemplate(path, interactive, os.Stdin, os.Stdout)
}

func writeTemplate(path string, interactive bool, in io.Reader, out io.Writer) (err error) {
	if path == "" {
		err = fmt.Errorf("specify template file path via the --config-template argument")
		return
	}

	_, err = os.Stat(path)
	if err == nil {
		if !interactive {
			fmt.Fprintf(out, "Existing configuration file present, not overwriting\n")
			return
		}

		fmt.Fprintf(out, "Configuration file already exists at '%s'. Are you SURE you want to overwrite it? (yes/no): ", path)
		reader := bufio.NewReader(in)
		input, _ := reader.ReadString('\n')
		input = strings.TrimSpace(input)

		if strings.ToLower(input) != "yes" {
			fmt.Fprintf(out, "Not overwriting configuration file\n")
			return
		}
	} else if !os.IsNotExist(err) {
		err = fmt.Errorf("failed checking config file existence: %w", err)
		return
	}

	content, err := Template()
	if err != nil {
		return
	}

	err = os.WriteFile(path, content, 0600)
	if err != nil {
		err = fmt.Errorf("failed to write template: %w", err)
		return
	}

	fmt.Fprintf(out, "Successfully wrote template configuration file to '%s'\n", path)
	return
}
