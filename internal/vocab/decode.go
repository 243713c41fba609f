package vocab

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format identifies an import file encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath picks a Format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unsupported import file %q: want .json, .yaml or .yml", path)
	}
}

// wordList is the import file shape. A bare list of items is accepted too.
type wordList struct {
	Words []Item `json:"words" yaml:"words"`
}

// Decode reads vocabulary items from r and validates each one.
func Decode(r io.Reader, format Format) ([]Item, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read import: %w", err)
	}

	var items []Item
	switch format {
	case FormatJSON:
		items, err = decodeJSON(data)
	case FormatYAML:
		items, err = decodeYAML(data)
	default:
		return nil, fmt.Errorf("unknown import format %q", format)
	}
	if err != nil {
		return nil, err
	}

	for i, it := range items {
		if verr := it.Validate(); verr != nil {
			return nil, fmt.Errorf("word %d (%q): %w", i+1, it.Thai, verr)
		}
	}
	return items, nil
}

func decodeJSON(data []byte) ([]Item, error) {
	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "[") {
		var items []Item
		if err := json.Unmarshal(data, &items); err != nil {
			return nil, fmt.Errorf("parse JSON word list: %w", err)
		}
		return items, nil
	}
	var wl wordList
	if err := json.Unmarshal(data, &wl); err != nil {
		return nil, fmt.Errorf("parse JSON word list: %w", err)
	}
	return wl.Words, nil
}

func decodeYAML(data []byte) ([]Item, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, fmt.Errorf("parse YAML word list: %w", err)
	}
	if len(node.Content) == 0 {
		return nil, nil
	}
	root := node.Content[0]
	if root.Kind == yaml.SequenceNode {
		var items []Item
		if err := root.Decode(&items); err != nil {
			return nil, fmt.Errorf("decode YAML word list: %w", err)
		}
		return items, nil
	}
	var wl wordList
	if err := root.Decode(&wl); err != nil {
		return nil, fmt.Errorf("decode YAML word list: %w", err)
	}
	return wl.Words, nil
}
