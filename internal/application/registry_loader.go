package application

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/go-playground/validator/v10"
	"golang.org/x/sync/singleflight"
	"gopkg.in/yaml.v3"

	"github.com/ahrav/go-quiver/internal/domain"
	"github.com/ahrav/go-quiver/internal/taxonomy"
)

// RegistryConfig is the YAML document describing a set of rounds.
//
//	version: "1.0.0"
//	rounds:
//	  - codename: york
//	    name: York
//	    family: york_hereford_bristol
//	    location: outdoor
//	    body: AGB
//	    max_score: 1296
type RegistryConfig struct {
	Version string         `yaml:"version" validate:"required,semver"`
	Rounds  []domain.Round `yaml:"rounds" validate:"required,min=1,dive"`
}

// RegistryLoader parses round registry documents. Identical documents are
// parsed once; concurrent loads of the same document share one result.
type RegistryLoader struct {
	validator *validator.Validate
	// cache maps the SHA-256 of the normalized document to its registry.
	cache   map[string]*InMemoryRoundRegistry
	cacheMu sync.RWMutex
	sf      singleflight.Group
}

// NewRegistryLoader creates a RegistryLoader.
func NewRegistryLoader() (*RegistryLoader, error) {
	v := validator.New()

	if err := registerCustomValidators(v); err != nil {
		return nil, fmt.Errorf("failed to register validators: %w", err)
	}

	return &RegistryLoader{
		validator: v,
		cache:     make(map[string]*InMemoryRoundRegistry),
	}, nil
}

// LoadFromFile reads and loads the registry document at path.
func (rl *RegistryLoader) LoadFromFile(ctx context.Context, path string) (*InMemoryRoundRegistry, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	return rl.load(ctx, data)
}

// LoadFromReader loads a registry document from r.
func (rl *RegistryLoader) LoadFromReader(ctx context.Context, r io.Reader) (*InMemoryRoundRegistry, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read data: %w", err)
	}

	return rl.load(ctx, data)
}

// ClearCache drops every cached registry.
func (rl *RegistryLoader) ClearCache() {
	rl.cacheMu.Lock()
	defer rl.cacheMu.Unlock()

	rl.cache = make(map[string]*InMemoryRoundRegistry)
}

func (rl *RegistryLoader) load(ctx context.Context, data []byte) (*InMemoryRoundRegistry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	config, err := rl.parseYAML(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	hash, err := rl.calculateConfigHash(config)
	if err != nil {
		return nil, fmt.Errorf("failed to calculate hash: %w", err)
	}

	v, err, _ := rl.sf.Do(hash, func() (any, error) {
		if registry, ok := rl.getCached(hash); ok {
			return registry, nil
		}

		if err := rl.validateConfig(config); err != nil {
			return nil, fmt.Errorf("validation failed: %w", err)
		}

		registry, err := NewInMemoryRoundRegistry(config.Rounds...)
		if err != nil {
			return nil, fmt.Errorf("failed to build registry: %w", err)
		}

		rl.store(hash, registry)
		return registry, nil
	})
	if err != nil {
		return nil, err
	}

	return v.(*InMemoryRoundRegistry), nil
}

func (rl *RegistryLoader) parseYAML(data []byte) (*RegistryConfig, error) {
	var config RegistryConfig
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)

	if err := decoder.Decode(&config); err != nil {
		return nil, fmt.Errorf("YAML decode failed: %w", err)
	}
	return &config, nil
}

func (rl *RegistryLoader) validateConfig(config *RegistryConfig) error {
	if err := rl.validator.Struct(config); err != nil {
		return fmt.Errorf("struct validation failed: %w", toValidationError("RegistryConfig", err))
	}

	if err := validateRoundSemantics(config.Rounds); err != nil {
		return fmt.Errorf("semantic validation failed: %w", err)
	}
	return nil
}

// validateRoundSemantics checks that a round and its compound-scoring
// variant, when both are declared, are shot at the same location.
func validateRoundSemantics(rounds []domain.Round) error {
	byCodename := make(map[string]domain.Round, len(rounds))
	for _, r := range rounds {
		byCodename[r.Codename] = r
	}

	for _, r := range rounds {
		variant, ok := byCodename[taxonomy.ToCompound(r.Codename)]
		if !ok || variant.Codename == r.Codename {
			continue
		}
		if variant.Location != r.Location {
			return fmt.Errorf("compound round %s is %s but %s is %s",
				variant.Codename, variant.Location, r.Codename, r.Location)
		}
	}
	return nil
}

// calculateConfigHash hashes a re-encoded document so formatting
// differences in the source do not defeat the cache.
func (rl *RegistryLoader) calculateConfigHash(config *RegistryConfig) (string, error) {
	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)

	if err := encoder.Encode(config); err != nil {
		return "", fmt.Errorf("failed to encode config for hashing: %w", err)
	}

	hash := sha256.Sum256(buf.Bytes())
	return hex.EncodeToString(hash[:]), nil
}

func (rl *RegistryLoader) getCached(hash string) (*InMemoryRoundRegistry, bool) {
	rl.cacheMu.RLock()
	defer rl.cacheMu.RUnlock()

	registry, ok := rl.cache[hash]
	return registry, ok
}

func (rl *RegistryLoader) store(hash string, registry *InMemoryRoundRegistry) {
	rl.cacheMu.Lock()
	defer rl.cacheMu.Unlock()

	rl.cache[hash] = registry
}

func registerCustomValidators(v *validator.Validate) error {
	if err := v.RegisterValidation("semver", validateSemver); err != nil {
		return fmt.Errorf("failed to register semver validator: %w", err)
	}

	if err := RegisterSelectionValidators(v); err != nil {
		return fmt.Errorf("failed to register selection validators: %w", err)
	}

	return nil
}

func validateSemver(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	var major, minor, patch int
	n, err := fmt.Sscanf(value, "%d.%d.%d", &major, &minor, &patch)
	return err == nil && n == 3
}
