package apidoc

import (
	"regexp"
	"strconv"
	"strings"
)

var indexPattern = regexp.MustCompile(`^\d+$`)

// Merge stores value in root at a slash-delimited path such as "a/b/2/c",
// creating intermediate objects and arrays as needed. Numeric segments
// address array elements; arrays grow with nil padding. When the parent of
// the final segment already holds an object, the new key is merged into it
// and sibling keys are preserved. Merge returns the value stored under the
// first path segment.
func Merge(root map[string]any, path string, value any) any {
	keys := strings.Split(path, "/")
	if len(keys) == 1 {
		root[path] = value
		return value
	}
	merge(root, keys, value)
	return root[keys[0]]
}

// merge handles the pair keys[0], keys[1] inside container and returns the
// container, which may be a new slice if an array had to grow.
func merge(container any, keys []string, value any) any {
	key, next := keys[0], keys[1]
	existing := lookup(container, key)

	var node any
	switch {
	case len(keys) == 2:
		if obj, ok := existing.(map[string]any); ok {
			obj[next] = value
			node = obj
		} else if arr, ok := existing.([]any); ok && isIndex(next) {
			node = store(arr, next, value)
		} else {
			node = map[string]any{next: value}
		}
	case isIndex(next):
		arr, ok := existing.([]any)
		if !ok {
			arr = []any{}
		}
		node = merge(arr, keys[1:], value)
	default:
		obj, ok := existing.(map[string]any)
		if !ok {
			obj = map[string]any{}
		}
		node = merge(obj, keys[1:], value)
	}

	return store(container, key, node)
}

func isIndex(key string) bool {
	return indexPattern.MatchString(key)
}

// lookup returns the child of container under key, or nil.
func lookup(container any, key string) any {
	switch c := container.(type) {
	case map[string]any:
		return c[key]
	case []any:
		i, err := strconv.Atoi(key)
		if err != nil || i >= len(c) {
			return nil
		}
		return c[i]
	}
	return nil
}

// store sets container[key] = child and returns the container.
func store(container any, key string, child any) any {
	switch c := container.(type) {
	case map[string]any:
		c[key] = child
		return c
	case []any:
		i, err := strconv.Atoi(key)
		if err != nil {
			return c
		}
		for len(c) <= i {
			c = append(c, nil)
		}
		c[i] = child
		return c
	}
	return container
}
