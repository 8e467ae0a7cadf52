package reporter

import (
	"encoding/json"

	"gopkg.in/yaml.v3"
)

// RenderJSON converts a report into indented JSON.
func RenderJSON(r *Report) ([]byte, error) {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return nil, err
	}
	data = append(data, '\n')
	return data, nil
}

// RenderYAML converts a report into YAML.
func RenderYAML(r *Report) ([]byte, error) {
	return yaml.Marshal(r)
}
