// Package capability maps model identifiers to the request features they accept.
//
// The table is data, loaded once from the embedded model catalog. Lookup is an
// exact match on the model identifier; a miss returns a record that supports
// everything, so an unlisted model is never silently downgraded.
package capability

import (
	"fmt"
	"sort"

	"github.com/Ereliath/NodeToCode/internal/data"
)

// generation controls applied when a model accepts a separate system role
const (
	Temperature = 0.0
	MaxTokens   = 8192
)

// Record describes what a model identifier supports
type Record struct {
	Model                    string
	Provider                 string
	SupportsSystemRole       bool
	SupportsStructuredOutput bool
}

// Known reports whether the record came from the table rather than the default
func (r Record) Known() bool {
	return r.Provider != ""
}

// Table is an immutable model -> Record lookup
type Table struct {
	records map[string]Record
}

// NewTable builds a table from records; later duplicates replace earlier ones
func NewTable(records ...Record) *Table {
	t := &Table{records: make(map[string]Record, len(records))}
	for _, r := range records {
		t.records[r.Model] = r
	}
	return t
}

// FromProviders builds a table from the model catalog
func FromProviders(pd *data.ProvidersData) *Table {
	var records []Record
	if pd != nil {
		// sorted so duplicate model ids across providers resolve deterministically
		keys := make([]string, 0, len(pd.Providers))
		for key := range pd.Providers {
			keys = append(keys, key)
		}
		sort.Strings(keys)

		for _, key := range keys {
			for _, m := range pd.Providers[key].Models {
				records = append(records, Record{
					Model:                    m.ID,
					Provider:                 key,
					SupportsSystemRole:       m.SystemRole,
					SupportsStructuredOutput: m.StructuredOutput,
				})
			}
		}
	}
	return NewTable(records...)
}

// Resolve returns the record for model, or the permissive default on a miss.
// it never fails, including on a nil table
func (t *Table) Resolve(model string) Record {
	if t != nil {
		if r, ok := t.records[model]; ok {
			return r
		}
	}
	return Record{
		Model:                    model,
		SupportsSystemRole:       true,
		SupportsStructuredOutput: true,
	}
}

// Records returns every record sorted by provider then model
func (t *Table) Records() []Record {
	if t == nil {
		return nil
	}

	out := make([]Record, 0, len(t.records))
	for _, r := range t.records {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Provider != out[j].Provider {
			return out[i].Provider < out[j].Provider
		}
		return out[i].Model < out[j].Model
	})
	return out
}

// ForProvider returns the records catalogued under a provider key
func (t *Table) ForProvider(provider string) []Record {
	var out []Record
	for _, r := range t.Records() {
		if r.Provider == provider {
			out = append(out, r)
		}
	}
	return out
}

var defaultTable = mustLoadDefault()

func mustLoadDefault() *Table {
	pd, err := data.LoadProvidersData()
	if err != nil {
		panic(fmt.Sprintf("capability: embedded model catalog is invalid: %v", err))
	}
	return FromProviders(pd)
}

// Default returns the process-wide table built from the embedded catalog
func Default() *Table {
	return defaultTable
}

// Resolve looks model up in the default table
func Resolve(model string) Record {
	return defaultTable.Resolve(model)
}
