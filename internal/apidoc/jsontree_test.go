package apidoc

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMerge_SingleSegment(t *testing.T) {
	root := map[string]any{"other": "kept"}
	got := Merge(root, "name", "Bob")

	assert.Equal(t, "Bob", got)
	assert.Equal(t, map[string]any{"name": "Bob", "other": "kept"}, root)
}

func TestMerge_SingleSegmentNumericKeyStaysString(t *testing.T) {
	root := map[string]any{}
	Merge(root, "0", true)

	assert.Equal(t, map[string]any{"0": true}, root)
}

func TestMerge_TwoSegmentsAreNonDestructive(t *testing.T) {
	root := map[string]any{}
	Merge(root, "a/x", 1.0)
	Merge(root, "a/y", 2.0)

	assert.Equal(t, map[string]any{"a": map[string]any{"x": 1.0, "y": 2.0}}, root)
}

func TestMerge_ReplacesScalarWithObject(t *testing.T) {
	root := map[string]any{"a": "scalar"}
	Merge(root, "a/b", 1.0)

	assert.Equal(t, map[string]any{"a": map[string]any{"b": 1.0}}, root)
}

func TestMerge_DeepObjectPath(t *testing.T) {
	root := map[string]any{}
	Merge(root, "user/address/city", "Paris")
	Merge(root, "user/address/zip", "75001")
	Merge(root, "user/name", "Ana")

	assert.Equal(t, map[string]any{
		"user": map[string]any{
			"name": "Ana",
			"address": map[string]any{
				"city": "Paris",
				"zip":  "75001",
			},
		},
	}, root)
}

func TestMerge_ArrayElements(t *testing.T) {
	root := map[string]any{}
	Merge(root, "a/0/b", "first")
	Merge(root, "a/1/b", "second")
	Merge(root, "a/0/c", 3.0)

	assert.Equal(t, map[string]any{
		"a": []any{
			map[string]any{"b": "first", "c": 3.0},
			map[string]any{"b": "second"},
		},
	}, root)
}

func TestMerge_ArrayGrowsWithNilPadding(t *testing.T) {
	root := map[string]any{}
	Merge(root, "items/2/id", 7.0)

	assert.Equal(t, map[string]any{
		"items": []any{nil, nil, map[string]any{"id": 7.0}},
	}, root)
}

func TestMerge_NestedArrays(t *testing.T) {
	root := map[string]any{}
	Merge(root, "matrix/0/1/v", "x")

	assert.Equal(t, map[string]any{
		"matrix": []any{
			[]any{nil, map[string]any{"v": "x"}},
		},
	}, root)
}

func TestMerge_TrailingIndexIntoExistingArray(t *testing.T) {
	root := map[string]any{"tags": []any{"a"}}
	Merge(root, "tags/1", "b")

	assert.Equal(t, map[string]any{"tags": []any{"a", "b"}}, root)
}

func TestMerge_TrailingIndexWithoutArrayBuildsObject(t *testing.T) {
	root := map[string]any{}
	Merge(root, "tags/0", "a")

	assert.Equal(t, map[string]any{"tags": map[string]any{"0": "a"}}, root)
}

func TestMerge_ReturnsTopLevelValue(t *testing.T) {
	root := map[string]any{}
	got := Merge(root, "a/b", 1.0)

	assert.Equal(t, map[string]any{"b": 1.0}, got)
}
