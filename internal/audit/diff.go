package audit

import (
	"errors"
	"math"
	"reflect"
	"time"
)

// Rate and amount fields are compared with a small epsilon so float noise
// from recomputation does not show up as a change.
const currencyEpsilon = 1e-6

// ErrNilSnapshot is returned when either side of a diff is missing
var ErrNilSnapshot = errors.New("snapshot is nil")

// FieldSpec registers one top-level field for comparison
type FieldSpec struct {
	Field string
	Label string
	Kind  FieldKind
}

// ItemSpec registers a line-item array field and the per-item fields to compare
type ItemSpec struct {
	Field  string
	Label  string
	Fields []FieldSpec
}

// Differ computes field-level and item-level changes between two snapshots
// of the same record shape. Only registered fields are compared, so internal
// bookkeeping fields never produce noise. A Differ is stateless and safe for
// concurrent use.
type Differ struct {
	fields []FieldSpec
	items  []ItemSpec
}

// NewDiffer creates a differ for the given field registration
func NewDiffer(fields []FieldSpec, items ...ItemSpec) *Differ {
	return &Differ{fields: fields, items: items}
}

// Diff compares two snapshots and returns the structured change set.
// Top-level changes appear in registration order, item changes in index
// order. Diffing identical snapshots yields an empty change set.
func (d *Differ) Diff(oldSnap, newSnap Snapshot) (*ChangeSet, error) {
	if oldSnap == nil || newSnap == nil {
		return nil, ErrNilSnapshot
	}

	cs := &ChangeSet{}
	for _, spec := range d.fields {
		if fc, changed := diffField(spec, oldSnap[spec.Field], newSnap[spec.Field]); changed {
			cs.Fields = append(cs.Fields, fc)
		}
	}

	for _, spec := range d.items {
		oldItems := toSnapshotList(oldSnap[spec.Field])
		newItems := toSnapshotList(newSnap[spec.Field])
		cs.Items = append(cs.Items, diffItems(spec, oldItems, newItems)...)
	}

	return cs, nil
}

// diffField compares a single registered field under its kind-aware equality
func diffField(spec FieldSpec, oldVal, newVal any) (FieldChange, bool) {
	fc := FieldChange{Field: spec.Field, Label: spec.Label, Kind: spec.Kind, Old: oldVal, New: newVal}

	switch spec.Kind {
	case KindDate:
		if sameDay(toTime(oldVal), toTime(newVal)) {
			return fc, false
		}
	case KindReference:
		if refID(oldVal) == refID(newVal) {
			return fc, false
		}
	case KindCurrency:
		if currencyEqual(oldVal, newVal) {
			return fc, false
		}
	case KindArrayLength:
		oldLen, newLen := listLen(oldVal), listLen(newVal)
		if oldLen == newLen {
			return fc, false
		}
		fc.Old, fc.New = oldLen, newLen
	default:
		if scalarEqual(oldVal, newVal) {
			return fc, false
		}
	}
	return fc, true
}

// diffItems correlates line items by position. An index present only on the
// new side is an addition, only on the old side a removal, and on both sides
// a per-field diff that emits a modification when anything changed.
func diffItems(spec ItemSpec, oldItems, newItems []Snapshot) []ItemChange {
	var changes []ItemChange
	count := len(oldItems)
	if len(newItems) > count {
		count = len(newItems)
	}

	for i := 0; i < count; i++ {
		switch {
		case i >= len(oldItems):
			changes = append(changes, ItemChange{
				Index:    i,
				Kind:     ItemAdded,
				Fields:   populatedFields(spec.Fields, newItems[i]),
				Snapshot: newItems[i],
			})
		case i >= len(newItems):
			changes = append(changes, ItemChange{Index: i, Kind: ItemRemoved, Snapshot: oldItems[i]})
		default:
			var fields []FieldChange
			for _, f := range spec.Fields {
				if fc, changed := diffField(f, oldItems[i][f.Field], newItems[i][f.Field]); changed {
					fields = append(fields, fc)
				}
			}
			if len(fields) > 0 {
				changes = append(changes, ItemChange{Index: i, Kind: ItemModified, Fields: fields})
			}
		}
	}
	return changes
}

// populatedFields captures the non-empty fields of an added item in
// registration order, so rendering stays deterministic.
func populatedFields(specs []FieldSpec, item Snapshot) []FieldChange {
	var fields []FieldChange
	for _, f := range specs {
		v := item[f.Field]
		if isZeroValue(v) {
			continue
		}
		fields = append(fields, FieldChange{Field: f.Field, Label: f.Label, Kind: f.Kind, New: v})
	}
	return fields
}

func scalarEqual(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if af, aok := toFloat(a); aok {
		bf, bok := toFloat(b)
		return bok && af == bf
	}
	return reflect.DeepEqual(a, b)
}

func currencyEqual(a, b any) bool {
	af, aok := toFloat(a)
	bf, bok := toFloat(b)
	if !aok || !bok {
		return aok == bok
	}
	return math.Abs(af-bf) < currencyEpsilon
}

// sameDay reports whether two timestamps fall on the same calendar day (UTC).
// Changed-detection is day-granular; raw timestamps are still carried in the
// change for precise rendering.
func sameDay(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()
	return ay == by && am == bm && ad == bd
}

func toTime(v any) *time.Time {
	switch t := v.(type) {
	case time.Time:
		if t.IsZero() {
			return nil
		}
		return &t
	case *time.Time:
		if t == nil || t.IsZero() {
			return nil
		}
		return t
	default:
		return nil
	}
}

// refID extracts the identity of a reference value for equality checks
func refID(v any) string {
	switch r := v.(type) {
	case Ref:
		return r.ID
	case *Ref:
		if r == nil {
			return ""
		}
		return r.ID
	case string:
		return r
	default:
		return ""
	}
}

// refName extracts the display name of a reference value, falling back to
// the raw id so the renderer never sees an empty label for a set reference
func refName(v any) string {
	switch r := v.(type) {
	case Ref:
		if r.Name != "" {
			return r.Name
		}
		return r.ID
	case *Ref:
		if r == nil {
			return ""
		}
		if r.Name != "" {
			return r.Name
		}
		return r.ID
	case string:
		return r
	default:
		return ""
	}
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case *float64:
		if n == nil {
			return 0, false
		}
		return *n, true
	default:
		return 0, false
	}
}

func listLen(v any) int {
	if v == nil {
		return 0
	}
	switch l := v.(type) {
	case []string:
		return len(l)
	case []any:
		return len(l)
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Slice {
		return rv.Len()
	}
	return 0
}

func toSnapshotList(v any) []Snapshot {
	switch items := v.(type) {
	case nil:
		return nil
	case []Snapshot:
		return items
	case []map[string]any:
		out := make([]Snapshot, len(items))
		for i, m := range items {
			out[i] = Snapshot(m)
		}
		return out
	case []any:
		out := make([]Snapshot, 0, len(items))
		for _, raw := range items {
			if m, ok := raw.(map[string]any); ok {
				out = append(out, Snapshot(m))
			}
		}
		return out
	default:
		return nil
	}
}

func isZeroValue(v any) bool {
	if v == nil {
		return true
	}
	switch val := v.(type) {
	case string:
		return val == ""
	case *time.Time:
		return val == nil || val.IsZero()
	case time.Time:
		return val.IsZero()
	case Ref:
		return val.ID == "" && val.Name == ""
	case *Ref:
		return val == nil
	}
	if f, ok := toFloat(v); ok {
		return f == 0
	}
	return false
}
