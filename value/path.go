package value

import (
	"strings"

	"github.com/scigolib/gbf/internal/gbferr"
)

// InsertPath walks or creates Struct nodes along a dotted path and sets
// leaf at the final segment, creating intermediate Struct nodes as needed.
// Collision with a non-struct intermediate node fails with invalid-data.
// Overwriting an existing leaf at the exact path replaces it.
func InsertPath(root *Value, dotted string, leaf Value) error {
	segments, err := splitPath(dotted)
	if err != nil {
		return err
	}
	if root.Kind != KindStruct {
		return gbferr.New(gbferr.KindInvalidData, "InsertPath requires a struct root")
	}

	cur := root
	for i, seg := range segments {
		last := i == len(segments)-1
		idx := -1
		for j := range cur.Fields {
			if cur.Fields[j].Name == seg {
				idx = j
				break
			}
		}
		if last {
			if idx >= 0 {
				cur.Fields[idx].Value = leaf
			} else {
				cur.Fields = append(cur.Fields, Field{Name: seg, Value: leaf})
			}
			return nil
		}
		if idx >= 0 {
			if cur.Fields[idx].Value.Kind != KindStruct {
				return gbferr.New(gbferr.KindInvalidData,
					"path segment "+seg+" collides with a non-struct intermediate node")
			}
			cur = &cur.Fields[idx].Value
			continue
		}
		cur.Fields = append(cur.Fields, Field{Name: seg, Value: NewStruct()})
		cur = &cur.Fields[len(cur.Fields)-1].Value
	}
	return nil
}

// Lookup returns the leaf at an exact dotted path, or ok=false if no such
// path exists (any intermediate segment missing, or a non-struct node
// encountered where descent is required).
func Lookup(root *Value, dotted string) (Value, bool) {
	segments, err := splitPath(dotted)
	if err != nil {
		return Value{}, false
	}
	cur := root
	for i, seg := range segments {
		if cur.Kind != KindStruct {
			return Value{}, false
		}
		found := false
		for j := range cur.Fields {
			if cur.Fields[j].Name == seg {
				cur = &cur.Fields[j].Value
				found = true
				break
			}
		}
		if !found {
			return Value{}, false
		}
		if i == len(segments)-1 {
			return *cur, true
		}
	}
	return Value{}, false
}

func splitPath(dotted string) ([]string, error) {
	if dotted == "" {
		return nil, gbferr.New(gbferr.KindInvalidData, "path must be non-empty")
	}
	segments := strings.Split(dotted, ".")
	for _, seg := range segments {
		if seg == "" {
			return nil, gbferr.New(gbferr.KindInvalidData, "path segment must be non-empty")
		}
	}
	return segments, nil
}

// Flatten performs a depth-first traversal of a Struct value, producing a
// list of (dotted_path, leaf) pairs. An empty scalar Struct (no fields) is
// emitted as a leaf of its own. A non-struct value, or an empty struct,
// passed with an empty prefix is emitted under the synthetic name "<root>".
func Flatten(root *Value, prefix string) []LeafPath {
	if root.Kind != KindStruct {
		name := prefix
		if name == "" {
			name = "<root>"
		}
		return []LeafPath{{Name: name, Leaf: *root}}
	}
	if len(root.Fields) == 0 {
		name := prefix
		if name == "" {
			name = "<root>"
		}
		return []LeafPath{{Name: name, Leaf: *root}}
	}

	var out []LeafPath
	for _, f := range root.Fields {
		childPrefix := f.Name
		if prefix != "" {
			childPrefix = prefix + "." + f.Name
		}
		child := f.Value
		out = append(out, Flatten(&child, childPrefix)...)
	}
	return out
}

// LeafPath is one flattened (dotted_name, leaf) pair produced by Flatten.
type LeafPath struct {
	Name string
	Leaf Value
}

// BuildSubtree reconstructs a Struct containing every entry of fields whose
// name starts with prefix+".", with that prefix stripped from each entry's
// name. An entry named exactly prefix counts as found but is not added to
// the result, and entries that InsertPath rejects are skipped. Used by
// read_var's prefix-match case.
func BuildSubtree(prefix string, fields []LeafPath) (Value, bool) {
	out := NewStruct()
	found := false
	for _, f := range fields {
		var stripped string
		switch {
		case f.Name == prefix:
			stripped = ""
		case strings.HasPrefix(f.Name, prefix+"."):
			stripped = strings.TrimPrefix(f.Name, prefix+".")
		default:
			continue
		}
		found = true
		if stripped == "" {
			// An entry named exactly prefix is not added here; callers
			// return such a leaf directly before calling BuildSubtree.
			continue
		}
		if err := InsertPath(&out, stripped, f.Leaf); err != nil {
			continue
		}
	}
	return out, found
}
