package remote

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/xeipuuv/gojsonschema"
)

// ManifestFile is the manifest name inside a bundle directory
const ManifestFile = "remote-manifest.json"

// ManifestSchema is the JSON Schema for the bundle manifest
const ManifestSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["name", "filename", "version", "exposes"],
  "properties": {
    "name": {
      "type": "string",
      "pattern": "^[A-Za-z_$][A-Za-z0-9_$]*$",
      "description": "Federation container name"
    },
    "filename": {
      "type": "string",
      "minLength": 1,
      "description": "Remote entry file"
    },
    "version": {
      "type": "string",
      "minLength": 1
    },
    "exposes": {
      "type": "object",
      "minProperties": 1,
      "patternProperties": {
        "^\\./[A-Za-z0-9_./-]+$": { "type": "string", "minLength": 1 }
      },
      "additionalProperties": false
    },
    "shared": {
      "type": "array",
      "items": { "type": "string", "minLength": 1 },
      "uniqueItems": true
    }
  }
}`

var manifestSchemaLoader = gojsonschema.NewStringLoader(ManifestSchema)

// Manifest describes a federated bundle and the components it exposes
type Manifest struct {
	Name     string            `json:"name"`
	Filename string            `json:"filename"`
	Version  string            `json:"version"`
	Exposes  map[string]string `json:"exposes"`
	Shared   []string          `json:"shared,omitempty"`
}

// DefaultManifest describes the bundle this plugin ships
func DefaultManifest() *Manifest {
	return &Manifest{
		Name:     "remoteOAKPlugin",
		Filename: "remoteEntry.js",
		Version:  "1.0.0",
		Exposes: map[string]string{
			"./translatorTool": "./app/components/tools/translatorTool.tsx",
		},
		Shared: []string{"react", "react-dom"},
	}
}

// LoadManifest reads and validates a manifest file
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest file: %w", err)
	}
	return ParseManifest(data)
}

// ParseManifest validates manifest JSON against the schema and the version rules
func ParseManifest(data []byte) (*Manifest, error) {
	result, err := gojsonschema.Validate(manifestSchemaLoader, gojsonschema.NewBytesLoader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse manifest JSON: %w", err)
	}

	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return nil, fmt.Errorf("manifest schema validation failed: %s", strings.Join(msgs, "; "))
	}

	var manifest Manifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("failed to parse manifest JSON: %w", err)
	}

	if _, err := semver.StrictNewVersion(manifest.Version); err != nil {
		return nil, fmt.Errorf("invalid manifest version %q: %w", manifest.Version, err)
	}

	return &manifest, nil
}

// Components lists the exposed components in name order
func (m *Manifest) Components() []Component {
	names := make([]string, 0, len(m.Exposes))
	for name := range m.Exposes {
		names = append(names, name)
	}
	sort.Strings(names)

	components := make([]Component, 0, len(names))
	for _, name := range names {
		components = append(components, m.component(name))
	}
	return components
}

func (m *Manifest) component(name string) Component {
	return Component{
		Name:   name,
		Module: m.Name,
		Chunk:  m.Exposes[name],
		Entry:  m.Filename,
	}
}

// Resolve looks an export up in the manifest
func (m *Manifest) Resolve(name string) (Component, error) {
	name = NormalizeName(name)
	if _, ok := m.Exposes[name]; !ok {
		return Component{}, fmt.Errorf("%w: %s", ErrComponentNotFound, name)
	}
	return m.component(name), nil
}
