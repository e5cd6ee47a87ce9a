package repository

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// codec converts persistedData to and from one document format.
type codec struct {
	name      string
	marshal   func(v any) ([]byte, error)
	unmarshal func(data []byte, v any) error
}

var (
	jsonCodec = codec{
		name:      "json",
		marshal:   func(v any) ([]byte, error) { return json.MarshalIndent(v, "", "  ") },
		unmarshal: json.Unmarshal,
	}
	yamlCodec = codec{name: "yaml", marshal: yaml.Marshal, unmarshal: yaml.Unmarshal}
	tomlCodec = codec{name: "toml", marshal: toml.Marshal, unmarshal: toml.Unmarshal}
)

// codecFor picks the format from the file extension.
func codecFor(path string) (codec, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", "":
		return jsonCodec, nil
	case ".yaml", ".yml":
		return yamlCodec, nil
	case ".toml":
		return tomlCodec, nil
	default:
		return codec{}, fmt.Errorf("unsupported state file extension %q", filepath.Ext(path))
	}
}
