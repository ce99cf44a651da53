package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/quickwritereader/PackBits/types"
)

const (
	DefaultMaxAllocBytes    int64 = 1 << 30
	DefaultMaxSnapshotBytes int64 = 1 << 30
)

// Limits bounds the memory a single slice allocation or buffer snapshot may claim.
type Limits struct {
	MaxAllocBytes    int64 `yaml:"max_alloc_bytes" json:"max_alloc_bytes"`
	MaxSnapshotBytes int64 `yaml:"max_snapshot_bytes" json:"max_snapshot_bytes"`
}

type fileConfig struct {
	Limits Limits `yaml:"limits" json:"limits"`
}

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var logger atomic.Pointer[zap.Logger]

func init() {
	logger.Store(zap.NewNop())
}

// SetLogger installs the logger used by Load. A nil logger restores the no-op logger.
func SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	logger.Store(l)
}

func Default() Limits {
	return Limits{
		MaxAllocBytes:    DefaultMaxAllocBytes,
		MaxSnapshotBytes: DefaultMaxSnapshotBytes,
	}
}

// WithDefaults fills zero fields from Default.
func (l Limits) WithDefaults() Limits {
	d := Default()
	if l.MaxAllocBytes == 0 {
		l.MaxAllocBytes = d.MaxAllocBytes
	}
	if l.MaxSnapshotBytes == 0 {
		l.MaxSnapshotBytes = d.MaxSnapshotBytes
	}
	return l
}

func (l Limits) Validate() error {
	if l.MaxAllocBytes <= 0 {
		return fmt.Errorf("config: max_alloc_bytes must be positive, got %d: %w", l.MaxAllocBytes, types.ErrInvalidArgument)
	}
	if l.MaxSnapshotBytes <= 0 {
		return fmt.Errorf("config: max_snapshot_bytes must be positive, got %d: %w", l.MaxSnapshotBytes, types.ErrInvalidArgument)
	}
	return nil
}

// Load reads limits from a YAML (.yaml, .yml) or JSON (.json) file.
func Load(path string) (Limits, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Limits{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	var l Limits
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		l, err = ParseYAML(data)
	case ".json":
		l, err = ParseJSON(data)
	default:
		return Limits{}, fmt.Errorf("config: unsupported extension %q: %w", ext, types.ErrInvalidArgument)
	}
	if err != nil {
		return Limits{}, fmt.Errorf("config: %s: %w", path, err)
	}

	logger.Load().Info("limits loaded",
		zap.String("path", path),
		zap.Int64("max_alloc_bytes", l.MaxAllocBytes),
		zap.Int64("max_snapshot_bytes", l.MaxSnapshotBytes),
	)
	return l, nil
}

func ParseYAML(data []byte) (Limits, error) {
	var fc fileConfig
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&fc); err != nil {
		return Limits{}, fmt.Errorf("decode yaml: %w", err)
	}
	return finish(fc.Limits)
}

func ParseJSON(data []byte) (Limits, error) {
	var fc fileConfig
	if err := json.Unmarshal(data, &fc); err != nil {
		return Limits{}, fmt.Errorf("decode json: %w", err)
	}
	return finish(fc.Limits)
}

func finish(l Limits) (Limits, error) {
	l = l.WithDefaults()
	if err := l.Validate(); err != nil {
		return Limits{}, err
	}
	return l, nil
}
