// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package merge

import (
	"encoding/json"
	"os"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/MKhiriev/go-task-sync/internal/canonical"
	"github.com/MKhiriev/go-task-sync/models"
)

type scenarioFile struct {
	Scenarios []scenario `yaml:"scenarios"`
}

// scenario is one three-way merge case. Forests are written as plain YAML
// lists and decoded through their JSON wire form.
type scenario struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Base        any    `yaml:"base"`
	Local       any    `yaml:"local"`
	Server      any    `yaml:"server"`
	Expect      struct {
		HasConflicts bool `yaml:"has_conflicts"`
		Merged       any  `yaml:"merged"`
	} `yaml:"expect"`
}

func loadScenarios(t *testing.T) []scenario {
	t.Helper()

	data, err := os.ReadFile("testdata/scenarios.yaml")
	require.NoError(t, err)

	var file scenarioFile
	require.NoError(t, yaml.Unmarshal(data, &file))
	require.NotEmpty(t, file.Scenarios)
	return file.Scenarios
}

func yamlForest(t *testing.T, v any) *models.Forest {
	t.Helper()

	if v == nil {
		return nil
	}
	body, err := json.Marshal(v)
	require.NoError(t, err)
	f, err := models.DecodeForest(body)
	require.NoError(t, err)
	return &f
}

func TestForest_Scenarios(t *testing.T) {
	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)

	for _, sc := range loadScenarios(t) {
		t.Run(sc.Name, func(t *testing.T) {
			base := yamlForest(t, sc.Base)
			local := yamlForest(t, sc.Local)
			server := yamlForest(t, sc.Server)
			expected := yamlForest(t, sc.Expect.Merged)

			result, err := Forest(base, *local, *server)
			require.NoError(t, err, sc.Description)

			assert.Equal(t, canonical.Canonicalize(*expected), canonical.Canonicalize(result.Merged), sc.Description)
			assert.Equal(t, sc.Expect.HasConflicts, result.HasConflicts)
			assert.Equal(t, len(result.ConflictDetails) > 0, result.HasConflicts)

			g.Assert(t, sc.Name, []byte(canonical.Canonicalize(result.ConflictDetails)))
		})
	}
}

// Re-merging the merged value against itself must be stable for every
// scenario: nothing left to reconcile, nothing reported.
func TestForest_ScenarioResultsAreFixedPoints(t *testing.T) {
	for _, sc := range loadScenarios(t) {
		t.Run(sc.Name, func(t *testing.T) {
			base := yamlForest(t, sc.Base)
			local := yamlForest(t, sc.Local)
			server := yamlForest(t, sc.Server)

			first, err := Forest(base, *local, *server)
			require.NoError(t, err)

			merged := first.Merged
			again, err := Forest(&merged, merged, merged)
			require.NoError(t, err)

			assert.False(t, again.HasConflicts)
			assert.Equal(t, canonical.Hash(merged), canonical.Hash(again.Merged))
		})
	}
}
