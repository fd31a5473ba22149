package shape

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ids(t *testing.T, recs []Record) []int {
	t.Helper()
	out := make([]int, 0, len(recs))
	for _, r := range recs {
		id, ok := Int(r["id"])
		require.True(t, ok, "record without numeric id: %v", r)
		out = append(out, id)
	}
	return out
}

func TestNormalizeJSON(t *testing.T) {
	tests := []struct {
		name     string
		payload  string
		want     []int
		envelope Envelope
	}{
		{"bare list", `[{"id":3},{"id":1},{"id":2}]`, []int{3, 1, 2}, EnvelopeList},
		{"paginated", `{"count":2,"next":null,"results":[{"id":1,"name":"Corte"},{"id":2,"name":"Barba"}]}`, []int{1, 2}, EnvelopePaginated},
		{"keyed map keeps insertion order", `{"b":{"id":9},"a":{"id":4},"10":{"id":5}}`, []int{9, 4, 5}, EnvelopeKeyed},
		{"keyed map skips null entries", `{"1":{"id":1},"2":{"id":2},"3":null}`, []int{1, 2}, EnvelopeKeyed},
		{"all-null object is a record", `{"notes":null}`, nil, EnvelopeSingle},
		{"single record", `{"id":7,"name":"Carlos"}`, []int{7}, EnvelopeSingle},
		{"object with scalar values is a record", `{"first":{"id":1},"name":"x"}`, nil, EnvelopeSingle},
		{"null", `null`, []int{}, EnvelopeNone},
		{"number", `42`, []int{}, EnvelopeNone},
		{"string", `"hola"`, []int{}, EnvelopeNone},
		{"empty body", ``, []int{}, EnvelopeNone},
		{"broken json", `{"id":`, []int{}, EnvelopeNone},
		{"empty object", `{}`, []int{}, EnvelopeKeyed},
		{"list drops scalars", `[{"id":1},2,null,{"id":3}]`, []int{1, 3}, EnvelopeList},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Decode([]byte(tt.payload))
			assert.Equal(t, tt.envelope, res.Envelope)
			require.NotNil(t, res.Records)
			if tt.want != nil {
				assert.Equal(t, tt.want, ids(t, res.Records))
			}
			assert.Equal(t, res.Records, NormalizeJSON([]byte(tt.payload)))
		})
	}
}

func TestNormalizeResultsNotAList(t *testing.T) {
	res := Decode([]byte(`{"id":1,"results":"pending"}`))

	require.Len(t, res.Records, 1)
	assert.Equal(t, EnvelopeSingle, res.Envelope)
	assert.Equal(t, "pending", res.Records[0]["results"])
}

func TestNormalizeDecodedValues(t *testing.T) {
	t.Run("slice", func(t *testing.T) {
		got := Normalize([]any{map[string]any{"id": 1.0}, map[string]any{"id": 2.0}})
		assert.Equal(t, []int{1, 2}, ids(t, got))
	})

	t.Run("go map sorts numeric keys", func(t *testing.T) {
		got := Normalize(map[string]any{
			"10": map[string]any{"id": 10.0},
			"2":  map[string]any{"id": 2.0},
			"1":  map[string]any{"id": 1.0},
		})
		assert.Equal(t, []int{1, 2, 10}, ids(t, got))
	})

	t.Run("results envelope", func(t *testing.T) {
		got := Normalize(map[string]any{"results": []any{map[string]any{"id": 5.0}}})
		assert.Equal(t, []int{5}, ids(t, got))
	})

	t.Run("primitives and nil", func(t *testing.T) {
		for _, v := range []any{nil, 3, "x", true, 1.5} {
			got := Normalize(v)
			assert.NotNil(t, got)
			assert.Empty(t, got)
		}
	})
}

func TestResultIsList(t *testing.T) {
	assert.True(t, Decode([]byte(`[]`)).IsList())
	assert.True(t, Decode([]byte(`{"results":[]}`)).IsList())
	assert.False(t, Decode([]byte(`{"detail":"Not found."}`)).IsList())
	assert.False(t, Decode([]byte(`<html>`)).IsList())
}
