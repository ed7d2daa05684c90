// pkg/registry/registry.go
package registry

import (
	"encoding/json"
	"fmt"
	"os"
)

func LoadRegistry(path string) (*StageRegistry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var reg StageRegistry
	err = json.Unmarshal(data, &reg)
	return &reg, err
}

// Get returns a stage by ID.
func (r *StageRegistry) Get(id string) (Stage, error) {
	for _, s := range r.Stages {
		if s.ID == id {
			return s, nil
		}
	}
	return Stage{}, fmt.Errorf("stage not found: %s", id)
}

// Validate checks that every upstream reference resolves to a known stage.
func (r *StageRegistry) Validate() error {
	known := make(map[string]struct{}, len(r.Stages))
	for _, s := range r.Stages {
		known[s.ID] = struct{}{}
	}
	for _, s := range r.Stages {
		for _, up := range s.Upstream {
			if _, ok := known[up]; !ok {
				return fmt.Errorf("stage %s references unknown upstream %s", s.ID, up)
			}
		}
	}
	return nil
}
