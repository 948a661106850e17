package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/shareconf/shareconf/engine/abstract"
	"github.com/shareconf/shareconf/engine/core"
	"github.com/shareconf/shareconf/engine/variable"
)

type fileFormat string

const (
	formatJSON fileFormat = "json"
	formatYAML fileFormat = "yaml"
)

func formatOf(path string) fileFormat {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return formatJSON
	default:
		return formatYAML
	}
}

func loadTree(path string) (*core.Node, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if formatOf(path) == formatJSON {
		return core.DecodeJSON(data)
	}
	return core.DecodeYAML(data)
}

func writeTree(path string, node *core.Node) error {
	var data []byte
	var err error
	if formatOf(path) == formatJSON {
		data, err = node.EncodeJSON()
	} else {
		data, err = node.EncodeYAML()
	}
	if err != nil {
		return err
	}
	if formatOf(path) == formatJSON {
		data = append(data, '\n')
	}
	return os.WriteFile(path, data, 0o644)
}

type declarationsFile struct {
	Declarations []abstract.Declaration `yaml:"declarations" json:"declarations"`
}

func loadDeclarations(path string) ([]abstract.Declaration, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	var file declarationsFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse declarations file %s: %w", path, err)
	}
	return file.Declarations, nil
}

type definitionsFile struct {
	Variables []variable.Definition `yaml:"variables" json:"variables"`
}

func loadDefinitions(path string) ([]variable.Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	var file definitionsFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse variables file %s: %w", path, err)
	}
	return file.Variables, nil
}

func writeDefinitions(path string, defs []variable.Definition) error {
	data, err := yaml.Marshal(definitionsFile{Variables: defs})
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// loadMapping layers mapping sources in increasing precedence: values files,
// env files, then --set overrides.
func loadMapping(valuesFiles, envFiles, sets []string) (variable.Mapping, error) {
	mapping := variable.Mapping{}
	for _, path := range valuesFiles {
		layer, err := loadValuesFile(path)
		if err != nil {
			return nil, err
		}
		merged, err := mapping.Merge(layer)
		if err != nil {
			return nil, err
		}
		mapping = merged
	}
	for _, path := range envFiles {
		layer, err := godotenv.Read(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read env file %s: %w", path, err)
		}
		merged, err := mapping.Merge(variable.Mapping(layer))
		if err != nil {
			return nil, err
		}
		mapping = merged
	}
	for _, kv := range sets {
		key, value, ok := strings.Cut(kv, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid --set %q, expected NAME=value", kv)
		}
		mapping[key] = value
	}
	return mapping, nil
}

func loadValuesFile(path string) (variable.Mapping, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	var values map[string]string
	if err := yaml.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("failed to parse values file %s: %w", path, err)
	}
	return variable.Mapping(values), nil
}
