package todo

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Export formats.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Export renders tasks in the given format. JSON uses 2-space indentation
// and a trailing newline.
func Export(tasks []Task, format string) ([]byte, error) {
	if tasks == nil {
		tasks = []Task{}
	}
	switch format {
	case FormatJSON, "":
		data, err := json.MarshalIndent(tasks, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("marshal tasks: %w", err)
		}
		return append(data, '\n'), nil
	case FormatYAML, "yml":
		data, err := yaml.Marshal(tasks)
		if err != nil {
			return nil, fmt.Errorf("marshal tasks: %w", err)
		}
		return data, nil
	default:
		return nil, fmt.Errorf("unknown export format %q", format)
	}
}
