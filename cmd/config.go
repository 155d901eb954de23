package cmd

import (
	"fmt"
	"os"
	"sort"

	"github.com/BurntSushi/toml"

	"github.com/nibzard/todo-go/internal/config"
)

// configCommand prints the effective configuration or an example file.
func configCommand(cws *config.ConfigWithSources, args []string) error {
	action := "show"
	if len(args) > 0 {
		action = args[0]
		args = args[1:]
	}
	if len(args) > 0 {
		return usageErrorf("unexpected arguments: %v", args)
	}

	switch action {
	case "show":
		return configShow(cws)
	case "example":
		fmt.Print(config.ExampleConfig())
		return nil
	default:
		return usageErrorf("unknown config action: %s (want show or example)", action)
	}
}

func configShow(cws *config.ConfigWithSources) error {
	if len(cws.Files) == 0 {
		fmt.Println("# no config files found")
	}
	for _, f := range cws.Files {
		fmt.Printf("# loaded %s\n", f)
	}
	if err := toml.NewEncoder(os.Stdout).Encode(cws.Config); err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	fields := make([]string, 0, len(cws.Sources))
	for field := range cws.Sources {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	fmt.Println()
	fmt.Println("# sources")
	for _, field := range fields {
		fmt.Printf("# %-15s %s\n", field, cws.Sources[field])
	}
	return nil
}
