package seed

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/khoahotran/portfolio/internal/domain/content"
	"github.com/khoahotran/portfolio/pkg/apperror"
)

const (
	keyPersonalInfo = "personalInfo"
	keyAnalytics    = "analytics"
	// keyTakenAt stamps backup snapshots; it is metadata, not content.
	keyTakenAt = "takenAt"
)

// Seed is the static data set: one array per known collection plus the two
// singleton documents.
type Seed struct {
	Collections  map[string][]content.Record
	PersonalInfo content.Record
	Analytics    content.Record
	// Ignored lists top-level keys that are not part of the seed contract.
	Ignored []string
}

func (s *Seed) Records(collection string) []content.Record {
	if s == nil {
		return nil
	}
	return s.Collections[collection]
}

// LoadSeed reads a JSON or YAML seed file, chosen by extension.
func LoadSeed(path string) (*Seed, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return ParseSeedYAML(data)
	default:
		return ParseSeedJSON(data)
	}
}

func ParseSeedJSON(data []byte) (*Seed, error) {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, apperror.NewInvalidInput("seed is not valid JSON", err)
	}
	return fromRaw(raw)
}

func ParseSeedYAML(data []byte) (*Seed, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, apperror.NewInvalidInput("seed is not valid YAML", err)
	}
	return fromRaw(raw)
}

func fromRaw(raw map[string]any) (*Seed, error) {
	s := &Seed{Collections: make(map[string][]content.Record)}

	for key, value := range raw {
		switch {
		case content.IsKnownCollection(key):
			records, err := toRecords(key, value)
			if err != nil {
				return nil, err
			}
			s.Collections[key] = records
		case key == keyPersonalInfo:
			r, err := toRecord(key, value)
			if err != nil {
				return nil, err
			}
			s.PersonalInfo = r
		case key == keyAnalytics:
			r, err := toRecord(key, value)
			if err != nil {
				return nil, err
			}
			s.Analytics = r
		case key == keyTakenAt:
		default:
			s.Ignored = append(s.Ignored, key)
		}
	}
	sort.Strings(s.Ignored)
	return s, nil
}

func toRecords(key string, value any) ([]content.Record, error) {
	if value == nil {
		return []content.Record{}, nil
	}
	items, ok := value.([]any)
	if !ok {
		return nil, apperror.NewInvalidInput(fmt.Sprintf("seed key %q must be an array", key), nil)
	}
	records := make([]content.Record, 0, len(items))
	for i, item := range items {
		r, err := toRecord(fmt.Sprintf("%s[%d]", key, i), item)
		if err != nil {
			return nil, err
		}
		delete(r, content.FieldID)
		records = append(records, r)
	}
	return records, nil
}

func toRecord(key string, value any) (content.Record, error) {
	m, ok := value.(map[string]any)
	if !ok {
		return nil, apperror.NewInvalidInput(fmt.Sprintf("seed entry %q must be an object", key), nil)
	}
	return content.Record(m), nil
}
