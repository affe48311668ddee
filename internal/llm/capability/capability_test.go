package capability

import (
	"testing"

	"github.com/Ereliath/NodeToCode/internal/data"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve_KnownModels(t *testing.T) {
	tests := []struct {
		model            string
		provider         string
		systemRole       bool
		structuredOutput bool
	}{
		{model: "gpt-4o", provider: "openai", systemRole: true, structuredOutput: true},
		{model: "o3-mini", provider: "openai", systemRole: true, structuredOutput: true},
		{model: "o1-preview-2024-09-12", provider: "openai", systemRole: false, structuredOutput: false},
		{model: "o1-mini-2024-09-12", provider: "openai", systemRole: false, structuredOutput: false},
		{model: "deepseek-reasoner", provider: "deepseek", systemRole: true, structuredOutput: false},
		{model: "claude-sonnet-4-20250514", provider: "anthropic", systemRole: true, structuredOutput: true},
	}

	for _, tt := range tests {
		t.Run(tt.model, func(t *testing.T) {
			r := Resolve(tt.model)
			assert.Equal(t, tt.model, r.Model)
			assert.Equal(t, tt.provider, r.Provider)
			assert.True(t, r.Known())
			assert.Equal(t, tt.systemRole, r.SupportsSystemRole)
			assert.Equal(t, tt.structuredOutput, r.SupportsStructuredOutput)
		})
	}
}

func TestResolve_IsTotal(t *testing.T) {
	inputs := []string{
		"",
		"gpt-7-ultra",
		"O1-PREVIEW-2024-09-12", // lookup is exact, not case-folded
		"o1-preview",
		" gpt-4o",
		"模型",
	}

	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			var r Record
			assert.NotPanics(t, func() { r = Resolve(in) })
			assert.Equal(t, in, r.Model)
			assert.False(t, r.Known())
			assert.True(t, r.SupportsSystemRole)
			assert.True(t, r.SupportsStructuredOutput)
		})
	}
}

func TestNilTableResolves(t *testing.T) {
	var table *Table
	r := table.Resolve("anything")
	assert.True(t, r.SupportsSystemRole)
	assert.True(t, r.SupportsStructuredOutput)
	assert.Nil(t, table.Records())
}

func TestNewTable(t *testing.T) {
	table := NewTable(
		Record{Model: "m1", Provider: "p", SupportsSystemRole: false},
		Record{Model: "m1", Provider: "p", SupportsSystemRole: true},
		Record{Model: "m0", Provider: "p"},
	)

	assert.True(t, table.Resolve("m1").SupportsSystemRole, "later record wins")

	records := table.Records()
	require.Len(t, records, 2)
	assert.Equal(t, "m0", records[0].Model)
	assert.Equal(t, "m1", records[1].Model)
}

func TestFromProviders(t *testing.T) {
	pd := &data.ProvidersData{Providers: map[string]data.ProviderInfo{
		"b": {Models: []data.ModelInfo{{ID: "shared", SystemRole: true}}},
		"a": {Models: []data.ModelInfo{{ID: "shared", SystemRole: false}, {ID: "solo", StructuredOutput: true}}},
	}}

	table := FromProviders(pd)

	// providers are applied in key order, so "b" wins for a duplicated id
	shared := table.Resolve("shared")
	assert.Equal(t, "b", shared.Provider)
	assert.True(t, shared.SupportsSystemRole)

	assert.Len(t, table.ForProvider("a"), 1)
	assert.Empty(t, table.ForProvider("missing"))

	empty := FromProviders(nil)
	assert.Empty(t, empty.Records())
}

func TestDefaultTableCoversCatalog(t *testing.T) {
	pd, err := data.LoadProvidersData()
	require.NoError(t, err)

	for key, info := range pd.Providers {
		for _, m := range info.Models {
			r := Default().Resolve(m.ID)
			assert.True(t, r.Known(), "%s/%s", key, m.ID)
		}
	}
}
