package config

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"slices"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

//go:embed defaults
var defaults embed.FS

// Config file extensions, probed in this order within one directory.
var extensions = []string{".yaml", ".yml", ".toml"}

// Layer is one decoded config document.
type Layer struct {
	Source string
	Data   any
}

// Loader finds config documents by base name. The embedded defaults come
// first, followed by every directory in dirs; later layers take precedence.
type Loader struct {
	dirs []string
}

func NewLoader(dirs ...string) *Loader {
	return &Loader{dirs: dirs}
}

// Layers returns every non-empty document called name (without extension),
// lowest precedence first. extraDirs are searched after the loader's own dirs.
func (l *Loader) Layers(name string, extraDirs ...string) ([]Layer, error) {
	var layers []Layer

	for _, ext := range extensions {
		p := path.Join("defaults", name+ext)
		data, err := defaults.ReadFile(p)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		} else if err != nil {
			return nil, fmt.Errorf("failed to read embedded %s: %w", p, err)
		}
		doc, err := Decode(data, ext)
		if err != nil {
			return nil, fmt.Errorf("failed to decode embedded %s: %w", p, err)
		}
		if doc == nil {
			continue
		}
		layers = append(layers, Layer{Source: "embedded:" + p, Data: doc})
	}

	for _, dir := range slices.Concat(l.dirs, extraDirs) {
		for _, ext := range extensions {
			p := filepath.Join(dir, name+ext)
			data, err := os.ReadFile(p)
			if errors.Is(err, fs.ErrNotExist) {
				continue
			} else if err != nil {
				return nil, fmt.Errorf("failed to read %s: %w", p, err)
			}
			doc, err := Decode(data, ext)
			if err != nil {
				return nil, fmt.Errorf("failed to decode %s: %w", p, err)
			}
			if doc == nil {
				continue // empty or comments only
			}
			layers = append(layers, Layer{Source: p, Data: doc})
		}
	}

	return layers, nil
}

// Decode parses a YAML or TOML document, chosen by file extension.
func Decode(data []byte, ext string) (any, error) {
	switch ext {
	case ".yaml", ".yml":
		return DecodeYAML(data)
	case ".toml":
		return DecodeTOML(data)
	}
	return nil, fmt.Errorf("unsupported config format %q", ext)
}

// DecodeYAML parses a YAML document into Mapping / []any / scalar values,
// keeping mapping keys in document order. An empty document decodes to nil.
func DecodeYAML(data []byte) (any, error) {
	var root yaml.Node
	if err := yaml.NewDecoder(bytes.NewReader(data)).Decode(&root); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	return fromNode(&root)
}

func fromNode(n *yaml.Node) (any, error) {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return nil, nil
		}
		return fromNode(n.Content[0])
	case yaml.MappingNode:
		m := make(Mapping, 0, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			k, err := fromNode(n.Content[i])
			if err != nil {
				return nil, err
			}
			v, err := fromNode(n.Content[i+1])
			if err != nil {
				return nil, err
			}
			m = append(m, Entry{Key: k, Value: v})
		}
		return m, nil
	case yaml.SequenceNode:
		list := make([]any, 0, len(n.Content))
		for _, c := range n.Content {
			v, err := fromNode(c)
			if err != nil {
				return nil, err
			}
			list = append(list, v)
		}
		return list, nil
	case yaml.AliasNode:
		return fromNode(n.Alias)
	case yaml.ScalarNode:
		var v any
		if err := n.Decode(&v); err != nil {
			return nil, fmt.Errorf("line %d: %w", n.Line, err)
		}
		return v, nil
	}
	return nil, nil
}

// DecodeTOML parses a TOML document. TOML tables carry no key order, so keys
// are sorted.
func DecodeTOML(data []byte) (any, error) {
	var doc map[string]any
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse TOML: %w", err)
	}
	return fromTOML(doc), nil
}

func fromTOML(v any) any {
	switch t := v.(type) {
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		m := make(Mapping, 0, len(keys))
		for _, k := range keys {
			m = append(m, Entry{Key: k, Value: fromTOML(t[k])})
		}
		return m
	case []any:
		list := make([]any, 0, len(t))
		for _, e := range t {
			list = append(list, fromTOML(e))
		}
		return list
	}
	return v
}

func LoadCheckers(l *Loader) (*Checkers, error) {
	layers, err := l.Layers("checkers")
	if err != nil {
		return nil, err
	}
	cs := NewCheckers()
	for _, layer := range layers {
		if err := cs.Update(layer.Data); err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", layer.Source, err)
		}
	}
	return cs, nil
}

func LoadResults(l *Loader) (*Results, error) {
	layers, err := l.Layers("results")
	if err != nil {
		return nil, err
	}
	rs := NewResults()
	for _, layer := range layers {
		if err := rs.Update(layer.Data); err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", layer.Source, err)
		}
	}
	return rs, nil
}

// LoadProblems loads problem configs; problemsetDir is searched last so a
// problems file next to the packages wins over installed ones.
func LoadProblems(l *Loader, problemsetDir string) (*Problems, error) {
	var extra []string
	if problemsetDir != "" {
		extra = append(extra, problemsetDir)
	}
	layers, err := l.Layers("problems", extra...)
	if err != nil {
		return nil, err
	}
	ps := NewProblems()
	for _, layer := range layers {
		if err := ps.Update(layer.Data); err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", layer.Source, err)
		}
	}
	return ps, nil
}

// LoadMisc merges all misc layers key by key and resolves the result once.
func LoadMisc(l *Loader, searchDirs []string) (*Misc, error) {
	layers, err := l.Layers("misc")
	if err != nil {
		return nil, err
	}
	var merged Mapping
	for _, layer := range layers {
		m, ok := layer.Data.(Mapping)
		if !ok {
			return nil, fmt.Errorf("failed to load %s: %w", layer.Source,
				errorf("Config file error: content must be a mapping, but is %s.", typeName(layer.Data)))
		}
		for _, e := range m {
			key, ok := e.Key.(string)
			if !ok {
				return nil, fmt.Errorf("failed to load %s: %w", layer.Source,
					errorf("misc config: keys must be strings, but %v is %s", e.Key, typeName(e.Key)))
			}
			merged = merged.set(key, e.Value)
		}
	}
	misc, err := NewMisc(merged, searchDirs)
	if err != nil {
		return nil, fmt.Errorf("failed to load misc config: %w", err)
	}
	return misc, nil
}
