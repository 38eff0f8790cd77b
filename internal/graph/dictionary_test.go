package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDictionaryGetters(t *testing.T) {
	d := Dictionary{
		"alpha":  float32(0.5),
		"count":  3,
		"ratio":  2.0,
		"flag":   true,
		"mode":   "packed",
		"nested": Dictionary{"k": 1},
	}

	f, err := d.GetFloat("alpha", 1)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, f, 1e-9)

	f, err = d.GetFloat("count", 0)
	require.NoError(t, err)
	assert.Equal(t, 3.0, f)

	n, err := d.GetInt("ratio", 0)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	b, err := d.GetBool("flag", false)
	require.NoError(t, err)
	assert.True(t, b)

	s, err := d.GetString("mode", "")
	require.NoError(t, err)
	assert.Equal(t, "packed", s)

	nested, err := d.GetDictionary("nested")
	require.NoError(t, err)
	assert.Equal(t, 1, nested["k"])
}

func TestDictionaryDefaultsAndTypeErrors(t *testing.T) {
	d := Dictionary{"flag": "yes", "half": 1.5}

	f, err := d.GetFloat("missing", 4)
	require.NoError(t, err)
	assert.Equal(t, 4.0, f)

	_, err = d.GetBool("flag", false)
	assert.ErrorIs(t, err, ErrAttributeType)

	_, err = d.GetInt("half", 0)
	assert.ErrorIs(t, err, ErrAttributeType)

	_, err = d.GetFloat("flag", 0)
	assert.ErrorIs(t, err, ErrAttributeType)

	_, err = d.GetDictionary("half")
	assert.ErrorIs(t, err, ErrAttributeType)
}

func TestDictionaryCloneIsDeep(t *testing.T) {
	d := Dictionary{
		"ints":   []int{1, 2},
		"nested": Dictionary{"x": 1.0},
	}
	c := d.Clone()

	c["ints"].([]int)[0] = 99
	c["nested"].(Dictionary)["x"] = 2.0
	c["extra"] = true

	assert.Equal(t, 1, d["ints"].([]int)[0])
	assert.Equal(t, 1.0, d["nested"].(Dictionary)["x"])
	assert.False(t, d.Has("extra"))
}

func TestDictionaryNilClone(t *testing.T) {
	var d Dictionary
	c := d.Clone()
	require.NotNil(t, c)
	assert.Empty(t, c)
	assert.True(t, d.Equal(c))
}

func TestDictionaryYAMLRoundTrip(t *testing.T) {
	d := Dictionary{
		"activationMax": 1.0,
		"scaleWeights":  true,
		"levels":        []int{0, 1, 2, 3},
		"tags":          []string{"a", "b"},
		"name":          "bin",
		"nested":        Dictionary{"depth": 2},
	}

	data, err := d.Encode()
	require.NoError(t, err)

	back, err := DecodeDictionary(data)
	require.NoError(t, err)

	assert.True(t, d.Equal(back), "round trip changed dictionary: %v vs %v", d, back)

	nested, err := back.GetDictionary("nested")
	require.NoError(t, err)
	depth, err := nested.GetInt("depth", 0)
	require.NoError(t, err)
	assert.Equal(t, 2, depth)
}

func TestDictionaryKeysSorted(t *testing.T) {
	d := Dictionary{"b": 1, "a": 2, "c": 3}
	assert.Equal(t, []string{"a", "b", "c"}, d.Keys())
}

func TestDecodeDictionaryInvalid(t *testing.T) {
	_, err := DecodeDictionary([]byte("- not\n- a map\n"))
	assert.Error(t, err)
}
