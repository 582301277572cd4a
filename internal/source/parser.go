// Package source reads usage snapshots produced by the usage collector.
package source

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/theirongolddev/flowrank/internal/logger"
	"github.com/theirongolddev/flowrank/internal/scoring"
)

// Format is the encoding of a snapshot.
type Format string

const (
	FormatAuto Format = ""
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

var (
	// ErrMalformed indicates the snapshot is not structurally valid.
	ErrMalformed = errors.New("source: malformed snapshot")
	// ErrMissingProviders indicates the snapshot has no "providers" list.
	ErrMissingProviders = errors.New("source: snapshot has no providers list")
)

// maxSnapshotSize bounds how much input is read before giving up.
const maxSnapshotSize = 16 << 20

// ParseFormat maps a flag value to a Format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return FormatAuto, nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	}
	return FormatAuto, fmt.Errorf("unknown input format %q (want json or yaml)", s)
}

// FormatForPath picks a format from a file extension, defaulting to JSON.
func FormatForPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	}
	return FormatJSON
}

// ParseFile reads a snapshot from disk. FormatAuto uses the extension.
func ParseFile(path string, format Format) (scoring.Snapshot, error) {
	f, err := os.Open(path) //nolint:gosec // path comes from the command line
	if err != nil {
		return scoring.Snapshot{}, fmt.Errorf("opening snapshot: %w", err)
	}
	defer func() { _ = f.Close() }()

	if format == FormatAuto {
		format = FormatForPath(path)
	}
	return Parse(f, format)
}

// Parse reads a whole snapshot from r. FormatAuto sniffs the content:
// input starting with '{' is JSON, anything else is YAML.
func Parse(r io.Reader, format Format) (scoring.Snapshot, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxSnapshotSize+1))
	if err != nil {
		return scoring.Snapshot{}, fmt.Errorf("reading snapshot: %w", err)
	}
	if len(data) > maxSnapshotSize {
		return scoring.Snapshot{}, fmt.Errorf("%w: larger than %d bytes", ErrMalformed, maxSnapshotSize)
	}

	if format == FormatAuto {
		format = sniff(data)
	}
	if format == FormatYAML {
		if data, err = yamlToJSON(data); err != nil {
			return scoring.Snapshot{}, err
		}
	}
	return parseJSON(data)
}

func sniff(data []byte) Format {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] != '{' && trimmed[0] != '[' {
		return FormatYAML
	}
	return FormatJSON
}

func parseJSON(data []byte) (scoring.Snapshot, error) {
	if !json.Valid(data) {
		return scoring.Snapshot{}, fmt.Errorf("%w: invalid JSON", ErrMalformed)
	}

	var top map[string]json.RawMessage
	if err := json.Unmarshal(data, &top); err != nil {
		return scoring.Snapshot{}, fmt.Errorf("%w: top level is not an object", ErrMalformed)
	}

	rawProviders, ok := top["providers"]
	if !ok || bytes.Equal(bytes.TrimSpace(rawProviders), []byte("null")) {
		return scoring.Snapshot{}, ErrMissingProviders
	}

	var entries []json.RawMessage
	if err := json.Unmarshal(rawProviders, &entries); err != nil {
		return scoring.Snapshot{}, fmt.Errorf("%w: providers is not a list", ErrMalformed)
	}

	snap := scoring.Snapshot{Entries: make([]scoring.Usage, 0, len(entries))}
	for i, raw := range entries {
		u, err := scoring.DecodeUsage(raw)
		if err != nil {
			return scoring.Snapshot{}, fmt.Errorf("%w: providers[%d]: %v", ErrMalformed, i, err)
		}
		if unk, ok := u.(scoring.UnknownUsage); ok {
			logger.Debug("skipping unknown provider", "index", i, "provider", unk.Provider)
		}
		snap.Entries = append(snap.Entries, u)
	}

	logger.Debug("snapshot parsed", "entries", len(snap.Entries))
	return snap, nil
}

// yamlToJSON re-encodes a YAML document as JSON so both formats share one
// decoding path.
func yamlToJSON(data []byte) ([]byte, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: invalid YAML: %v", ErrMalformed, err)
	}

	out, err := json.Marshal(jsonCompatible(doc))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return out, nil
}

// jsonCompatible converts map[any]any nodes, which YAML produces for
// non-string keys, into map[string]any. Non-finite floats (.nan, .inf) have
// no JSON form and become null.
func jsonCompatible(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, val := range t {
			t[k] = jsonCompatible(val)
		}
		return t
	case map[any]any:
		m := make(map[string]any, len(t))
		for k, val := range t {
			m[fmt.Sprint(k)] = jsonCompatible(val)
		}
		return m
	case []any:
		for i, val := range t {
			t[i] = jsonCompatible(val)
		}
		return t
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return nil
		}
	}
	return v
}
