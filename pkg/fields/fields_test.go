package fields

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func TestAddPreservesFirstSeenOrder(t *testing.T) {
	m := New()
	m.AddAll("target", []string{"inc hosp", "inc death", "inc hosp"})
	m.AddAll("location", []string{"06", "36"})

	assert.Equal(t, []string{"target", "location"}, m.Dimensions())
	assert.Equal(t, []string{"inc hosp", "inc death"}, m.Values("target"))
	assert.Equal(t, 2, m.Len("target"))
	assert.True(t, m.Contains("location", "06"))
	assert.False(t, m.Contains("location", "99"))
}

func TestAddRejectsValueColumn(t *testing.T) {
	m := New()
	assert.False(t, m.Add(ValueColumn, "123.4"))
	assert.False(t, m.Has(ValueColumn))
	assert.Empty(t, m.Dimensions())
}

func TestFoldIsMonotonicUnion(t *testing.T) {
	global := New()

	first := New()
	first.AddAll("target", []string{"inc hosp"})
	first.AddAll("location", []string{"06"})

	second := New()
	second.AddAll("target", []string{"inc hosp", "inc death"})
	second.AddAll("horizon", []string{"0", "1"})

	global.Fold(first)
	global.Fold(second)

	want := map[string][]string{
		"target":   {"inc hosp", "inc death"},
		"location": {"06"},
		"horizon":  {"0", "1"},
	}
	if diff := cmp.Diff(want, global.AsMap()); diff != "" {
		t.Errorf("global map mismatch (-want +got):\n%s", diff)
	}

	// Every value from every input must survive the fold.
	for _, in := range []*Map{first, second} {
		for _, dim := range in.Dimensions() {
			for _, v := range in.Values(dim) {
				assert.True(t, global.Contains(dim, v), "missing %s=%s", dim, v)
			}
		}
	}
}

func TestFoldIsIdempotent(t *testing.T) {
	model := New()
	model.AddAll("target", []string{"inc hosp", "inc death"})
	model.AddAll("age_group", []string{"0-130"})

	once := New()
	once.Fold(model)

	twice := New()
	twice.Fold(model)
	twice.Fold(model)

	if diff := cmp.Diff(once.AsMap(), twice.AsMap()); diff != "" {
		t.Errorf("fold not idempotent (-once +twice):\n%s", diff)
	}
}

func TestFoldNeverReordersExistingEntries(t *testing.T) {
	global := New()
	global.AddAll("target", []string{"a", "b", "c"})

	update := New()
	update.AddAll("target", []string{"c", "a", "d"})
	global.Fold(update)

	assert.Equal(t, []string{"a", "b", "c", "d"}, global.Values("target"))
}

func TestCloneIsIndependent(t *testing.T) {
	m := New()
	m.AddAll("scenario_id", []string{"A-2024-07-28"})

	clone := m.Clone()
	clone.Add("scenario_id", "B-2024-07-28")

	assert.Equal(t, []string{"A-2024-07-28"}, m.Values("scenario_id"))
	assert.Equal(t, []string{"A-2024-07-28", "B-2024-07-28"}, clone.Values("scenario_id"))
}

func TestValuesReturnsCopy(t *testing.T) {
	m := New()
	m.AddAll("location", []string{"06", "36"})

	vals := m.Values("location")
	vals[0] = "mutated"

	assert.Equal(t, []string{"06", "36"}, m.Values("location"))
}

func TestFromMapKeepsKeyOrder(t *testing.T) {
	m := FromMap(map[string][]string{
		"horizon":  {"0", "1"},
		"location": {"06"},
	}, []string{"location", "horizon"})

	assert.Equal(t, []string{"location", "horizon"}, m.Dimensions())
}
