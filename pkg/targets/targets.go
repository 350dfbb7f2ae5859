// Package targets loads watch targets (YAML/JSON) and fetches snapshots for them.
package targets

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

// Supported target kinds, one per watched endpoint.
const (
	KindProtocol          = "protocol"
	KindTokenInfo         = "token_info"
	KindCirculatingSupply = "circulating_supply"
	KindTotalSupply       = "total_supply"
	KindPool              = "pool"
	KindLock              = "lock"
)

var defaultRequestDelayMs = 250

// Target is a single endpoint to observe, declared in the targets file.
type Target struct {
	ID             string `json:"id" yaml:"id"`
	Name           string `json:"name" yaml:"name"`
	Kind           string `json:"kind" yaml:"kind"`
	Chain          string `json:"chain" yaml:"chain"`
	Address        string `json:"address" yaml:"address"`
	RequestDelayMs int    `json:"request_delay_ms" yaml:"request_delay_ms"`
}

// RequestDelay returns the pause to observe after fetching this target.
func (t Target) RequestDelay() time.Duration {
	if t.RequestDelayMs <= 0 {
		return time.Duration(defaultRequestDelayMs) * time.Millisecond
	}
	return time.Duration(t.RequestDelayMs) * time.Millisecond
}

type configFile struct {
	Targets []Target `json:"targets" yaml:"targets"`
}

// Registry holds the validated targets loaded from a file.
type Registry struct {
	mu      sync.RWMutex
	targets []Target
	idx     map[string]Target
}

// LoadRegistry loads the targets registry from a YAML/JSON file.
func LoadRegistry(path string) (*Registry, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("targets file path is empty")
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open targets file: %w", err)
	}
	defer file.Close()

	raw, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("read targets file: %w", err)
	}

	cfg, err := parseTargets(raw, filepath.Ext(path))
	if err != nil {
		return nil, err
	}
	return NewRegistry(cfg.Targets)
}

// NewRegistry sanitizes and validates targets. Duplicate ids are rejected.
func NewRegistry(targets []Target) (*Registry, error) {
	if len(targets) == 0 {
		return nil, errors.New("targets file contains no targets entries")
	}

	reg := &Registry{
		targets: make([]Target, len(targets)),
		idx:     make(map[string]Target, len(targets)),
	}
	for i := range targets {
		t := sanitizeTarget(targets[i])
		if err := validateTarget(t); err != nil {
			return nil, fmt.Errorf("targets[%d]: %w", i, err)
		}
		if _, exists := reg.idx[t.ID]; exists {
			return nil, fmt.Errorf("duplicate target id %q", t.ID)
		}
		reg.targets[i] = t
		reg.idx[t.ID] = t
	}
	return reg, nil
}

type unmarshalFn func([]byte, any) error

func parseTargets(data []byte, ext string) (configFile, error) {
	ext = strings.ToLower(strings.TrimSpace(ext))

	decoders := []struct {
		name string
		ext  string
		fn   unmarshalFn
	}{
		{name: "yaml", ext: ".yaml", fn: yaml.Unmarshal},
		{name: "yaml", ext: ".yml", fn: yaml.Unmarshal},
		{name: "json", ext: ".json", fn: json.Unmarshal},
	}

	for _, d := range decoders {
		if ext != "" && ext != d.ext {
			continue
		}
		var cfg configFile
		if err := d.fn(data, &cfg); err == nil {
			return cfg, nil
		}
	}

	return configFile{}, errors.New("targets file format not recognized (expected YAML or JSON)")
}

func sanitizeTarget(t Target) Target {
	t.ID = strings.TrimSpace(t.ID)
	t.Name = strings.TrimSpace(t.Name)
	t.Kind = strings.ToLower(strings.TrimSpace(t.Kind))
	t.Chain = strings.ToLower(strings.TrimSpace(t.Chain))
	t.Address = strings.TrimSpace(t.Address)
	if t.Name == "" {
		t.Name = t.ID
	}
	if t.RequestDelayMs <= 0 {
		t.RequestDelayMs = defaultRequestDelayMs
	}
	return t
}

func validateTarget(t Target) error {
	if t.ID == "" {
		return errors.New("id is required")
	}
	if t.Chain == "" {
		return fmt.Errorf("chain is required for target %q", t.ID)
	}
	switch t.Kind {
	case KindProtocol, KindTokenInfo, KindCirculatingSupply, KindTotalSupply:
	case KindPool, KindLock:
		if t.Address == "" {
			return fmt.Errorf("address is required for %s target %q", t.Kind, t.ID)
		}
	case "":
		return fmt.Errorf("kind is required for target %q", t.ID)
	default:
		return fmt.Errorf("unsupported kind %q for target %q", t.Kind, t.ID)
	}
	return nil
}

// ByID returns the target with id, if loaded.
func (r *Registry) ByID(id string) (Target, bool) {
	if r == nil {
		return Target{}, false
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return Target{}, false
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.idx[id]
	return t, ok
}

// All returns a copy of every configured target in file order.
func (r *Registry) All() []Target {
	if r == nil {
		return nil
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Target, len(r.targets))
	copy(out, r.targets)
	return out
}
