package plist

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrNotFound is returned by path operations when a segment does not exist.
var ErrNotFound = errors.New("plist: path not found")

// GetPath resolves a dotted path such as "ACPI.Add.0.Comment" against the
// tree. Numeric segments index arrays; all other segments are dictionary
// keys.
func GetPath(root Value, path string) (Value, error) {
	cur := root
	for _, seg := range splitPath(path) {
		switch node := cur.(type) {
		case *Dict:
			v, ok := node.Get(seg)
			if !ok {
				return nil, fmt.Errorf("%w: key %q", ErrNotFound, seg)
			}
			cur = v
		case Array:
			idx, err := arrayIndex(seg, len(node))
			if err != nil {
				return nil, err
			}
			cur = node[idx]
		default:
			return nil, fmt.Errorf("plist: cannot descend into %s at %q", TypeName(cur), seg)
		}
	}
	return cur, nil
}

// SetPath stores v at the dotted path, creating missing intermediate
// dictionaries along the way. The final segment must land in a dictionary
// (new or existing key) or on an existing array index.
func SetPath(root *Dict, path string, v Value) error {
	segs := splitPath(path)
	if len(segs) == 0 {
		return errors.New("plist: empty path")
	}
	parent, err := descendCreating(root, segs[:len(segs)-1])
	if err != nil {
		return err
	}
	last := segs[len(segs)-1]
	switch node := parent.(type) {
	case *Dict:
		node.Set(last, v)
		return nil
	case Array:
		idx, err := arrayIndex(last, len(node))
		if err != nil {
			return err
		}
		node[idx] = v
		return nil
	default:
		return fmt.Errorf("plist: cannot set %q inside %s", last, TypeName(parent))
	}
}

// DeletePath removes the value at the dotted path. Deleting an array element
// is not supported; arrays are replaced wholesale by their owners.
func DeletePath(root *Dict, path string) error {
	segs := splitPath(path)
	if len(segs) == 0 {
		return errors.New("plist: empty path")
	}
	parentVal, err := GetPath(root, strings.Join(segs[:len(segs)-1], "."))
	if err != nil {
		return err
	}
	parent, ok := parentVal.(*Dict)
	if !ok {
		return fmt.Errorf("plist: cannot delete %q from %s", segs[len(segs)-1], TypeName(parentVal))
	}
	if !parent.Delete(segs[len(segs)-1]) {
		return fmt.Errorf("%w: key %q", ErrNotFound, segs[len(segs)-1])
	}
	return nil
}

// descendCreating walks the intermediate segments, creating empty
// dictionaries for keys that do not exist yet. This mirrors how the
// reconciler lazily creates section containers like ACPI.Add.
func descendCreating(root *Dict, segs []string) (Value, error) {
	var cur Value = root
	for _, seg := range segs {
		switch node := cur.(type) {
		case *Dict:
			v, ok := node.Get(seg)
			if !ok {
				child := NewDict()
				node.Set(seg, child)
				cur = child
				continue
			}
			cur = v
		case Array:
			idx, err := arrayIndex(seg, len(node))
			if err != nil {
				return nil, err
			}
			cur = node[idx]
		default:
			return nil, fmt.Errorf("plist: cannot descend into %s at %q", TypeName(cur), seg)
		}
	}
	return cur, nil
}

func splitPath(path string) []string {
	if path == "" {
		return nil
	}
	return strings.Split(path, ".")
}

func arrayIndex(seg string, length int) (int, error) {
	idx, err := strconv.Atoi(seg)
	if err != nil {
		return 0, fmt.Errorf("plist: %q is not an array index", seg)
	}
	if idx < 0 || idx >= length {
		return 0, fmt.Errorf("%w: index %d out of range (len %d)", ErrNotFound, idx, length)
	}
	return idx, nil
}
