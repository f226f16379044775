package featurevector

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/joliciel-informatique/talismane-sub002/storage"
	"github.com/joliciel-informatique/talismane-sub002/util"
)

const ARCHIVE_ENTRY = "weights.gob"

// Sparse maps hashed feature keys to weights; absent keys weigh 0.
type Sparse map[uint64]float64

func (v Sparse) Copy() Sparse {
	copied := make(Sparse, len(v))
	for k, val := range v {
		copied[k] = val
	}
	return copied
}

// UpdateAdd adds other into v in place, dropping keys that reach zero.
func (v Sparse) UpdateAdd(other Sparse) Sparse {
	for key, otherVal := range other {
		if val := v[key] + otherVal; val != 0 {
			v[key] = val
		} else {
			delete(v, key)
		}
	}
	return v
}

// FeatureResult is the value a named feature took on a configuration.
type FeatureResult struct {
	Name, Value string
}

func (f FeatureResult) Key() uint64 {
	return Key(f.Name, f.Value)
}

func (f FeatureResult) String() string {
	return fmt.Sprintf("%s=%s", f.Name, f.Value)
}

func Key(name, value string) uint64 {
	return util.HashStrings(name, value)
}

// WeightVector holds the trained weights. It is read-only once loaded and
// may be shared between parsers.
type WeightVector struct {
	Weights Sparse
}

func NewWeightVector() *WeightVector {
	return &WeightVector{make(Sparse)}
}

func (w *WeightVector) Weight(name, value string) float64 {
	return w.Weights[Key(name, value)]
}

func (w *WeightVector) Set(name, value string, weight float64) {
	if weight == 0 {
		delete(w.Weights, Key(name, value))
		return
	}
	w.Weights[Key(name, value)] = weight
}

func (w *WeightVector) Add(name, value string, delta float64) {
	w.Weights.UpdateAdd(Sparse{Key(name, value): delta})
}

func (w *WeightVector) DotProduct(results []FeatureResult) float64 {
	var sum float64
	for _, result := range results {
		sum += w.Weights[result.Key()]
	}
	return sum
}

func (w *WeightVector) Len() int {
	return len(w.Weights)
}

func (w *WeightVector) Write(writer io.Writer) error {
	return util.WriteArchive(writer, ARCHIVE_ENTRY, w.Weights)
}

func Read(reader io.Reader) (*WeightVector, error) {
	w := NewWeightVector()
	if err := util.ReadArchive(reader, ARCHIVE_ENTRY, &w.Weights); err != nil {
		return nil, fmt.Errorf("reading weights: %w", err)
	}
	return w, nil
}

func (w *WeightVector) Save(ctx context.Context, store storage.Store, key string) error {
	var buf bytes.Buffer
	if err := w.Write(&buf); err != nil {
		return err
	}
	return store.Put(ctx, key, buf.Bytes())
}

func Load(ctx context.Context, store storage.Store, key string) (*WeightVector, error) {
	data, err := store.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	return Read(bytes.NewReader(data))
}

type yamlWeight struct {
	Feature string  `yaml:"feature"`
	Value   string  `yaml:"value"`
	Weight  float64 `yaml:"weight"`
}

// LoadYAML reads weights listed as feature/value/weight entries.
func LoadYAML(reader io.Reader) (*WeightVector, error) {
	var entries []yamlWeight
	if err := yaml.NewDecoder(reader).Decode(&entries); err != nil && err != io.EOF {
		return nil, fmt.Errorf("failed to unmarshal weights: %w", err)
	}
	w := NewWeightVector()
	for _, entry := range entries {
		if entry.Feature == "" {
			return nil, fmt.Errorf("weight entry without a feature: %+v", entry)
		}
		w.Add(entry.Feature, entry.Value, entry.Weight)
	}
	return w, nil
}
