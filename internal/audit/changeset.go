package audit

// FieldKind selects the comparison and formatting rules for a registered field
type FieldKind string

// Field kind constants
const (
	KindScalar      FieldKind = "scalar"
	KindReference   FieldKind = "reference"
	KindDate        FieldKind = "date"
	KindCurrency    FieldKind = "currency"
	KindArrayLength FieldKind = "array-length"
)

// ItemChangeKind classifies a line-item level change
type ItemChangeKind string

// Item change kind constants
const (
	ItemAdded    ItemChangeKind = "added"
	ItemRemoved  ItemChangeKind = "removed"
	ItemModified ItemChangeKind = "modified"
)

// Snapshot is a point-in-time copy of a record's field values, keyed by field name.
// Callers build snapshots explicitly; only registered fields are ever compared.
type Snapshot map[string]any

// Ref is a reference field value: compared by ID, rendered by Name when available
type Ref struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
}

// Actor identifies who performed an audited action
type Actor struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Role string `json:"role"`
}

// FieldChange records a single field whose value differs between two snapshots
type FieldChange struct {
	Field string    `json:"field"`
	Label string    `json:"label"`
	Kind  FieldKind `json:"kind"`
	Old   any       `json:"old"`
	New   any       `json:"new"`
}

// ItemChange records a change to a line item, correlated by position
type ItemChange struct {
	Index    int            `json:"index"`
	Kind     ItemChangeKind `json:"kind"`
	Fields   []FieldChange  `json:"fields,omitempty"`
	Snapshot Snapshot       `json:"snapshot,omitempty"`
}

// ChangeSet is the structured result of diffing two snapshots.
// Top-level field changes come first in field-registration order,
// then item changes in index order.
type ChangeSet struct {
	Fields []FieldChange `json:"fields,omitempty"`
	Items  []ItemChange  `json:"items,omitempty"`
}

// Empty reports whether the change set contains no changes at all.
// An empty set is a legitimate result (a no-op save), not an error.
func (c *ChangeSet) Empty() bool {
	return c == nil || (len(c.Fields) == 0 && len(c.Items) == 0)
}
