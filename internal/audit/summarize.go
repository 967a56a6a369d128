package audit

import (
	"fmt"
	"strconv"
	"strings"
)

// Summary defaults. The original system trades in INR.
const (
	DefaultCurrencySymbol = "₹"
	DefaultDateLayout     = "Jan 2, 2006"
	notSet                = "Not set"
)

// Summarizer renders a ChangeSet into ordered, human-readable change lines.
// Output is deterministic: the same change set always renders to the same
// lines, so summaries can be persisted alongside the raw diff.
type Summarizer struct {
	CurrencySymbol string
	DateLayout     string
}

// NewSummarizer creates a summarizer with the default formatting rules
func NewSummarizer() *Summarizer {
	return &Summarizer{
		CurrencySymbol: DefaultCurrencySymbol,
		DateLayout:     DefaultDateLayout,
	}
}

// Summarize renders the change set to one line per top-level field change
// and one line per item change. An empty change set renders to an empty
// list, which callers must treat as a legitimate no-op result.
func (s *Summarizer) Summarize(cs *ChangeSet) []string {
	if cs.Empty() {
		return nil
	}

	lines := make([]string, 0, len(cs.Fields)+len(cs.Items))
	for _, fc := range cs.Fields {
		lines = append(lines, s.fieldLine(fc))
	}
	for _, ic := range cs.Items {
		lines = append(lines, s.itemLine(ic))
	}
	return lines
}

func (s *Summarizer) fieldLine(fc FieldChange) string {
	if fc.Kind == KindArrayLength {
		return fmt.Sprintf("%s: %v → %v items", fc.Label, fc.Old, fc.New)
	}
	return fmt.Sprintf("%s: %s → %s", fc.Label, s.formatValue(fc.Kind, fc.Old, true), s.formatValue(fc.Kind, fc.New, true))
}

func (s *Summarizer) itemLine(ic ItemChange) string {
	label := fmt.Sprintf("Item %d", ic.Index+1)

	switch ic.Kind {
	case ItemAdded:
		if len(ic.Fields) == 0 {
			return label + ": Added new item"
		}
		parts := make([]string, 0, len(ic.Fields))
		for _, fc := range ic.Fields {
			parts = append(parts, fmt.Sprintf("%s: %s", fc.Label, s.formatValue(fc.Kind, fc.New, false)))
		}
		return fmt.Sprintf("%s: Added new item (%s)", label, strings.Join(parts, ", "))
	case ItemRemoved:
		return label + ": Removed item"
	default:
		parts := make([]string, 0, len(ic.Fields))
		for _, fc := range ic.Fields {
			parts = append(parts, fmt.Sprintf("%s: %s → %s",
				fc.Label, s.formatValue(fc.Kind, fc.Old, false), s.formatValue(fc.Kind, fc.New, false)))
		}
		return fmt.Sprintf("%s: %s", label, strings.Join(parts, ", "))
	}
}

// formatValue renders one side of a change. Top-level string values are
// quoted; item-level values are not, matching the activity feed the web
// client renders.
func (s *Summarizer) formatValue(kind FieldKind, v any, quoted bool) string {
	if v == nil {
		return notSet
	}

	switch kind {
	case KindDate:
		t := toTime(v)
		if t == nil {
			return notSet
		}
		return t.UTC().Format(s.DateLayout)
	case KindCurrency:
		f, ok := toFloat(v)
		if !ok {
			return notSet
		}
		return fmt.Sprintf("%s%.2f", s.CurrencySymbol, f)
	case KindReference:
		name := refName(v)
		if name == "" {
			return notSet
		}
		if quoted {
			return `"` + name + `"`
		}
		return name
	default:
		return s.formatScalar(v, quoted)
	}
}

func (s *Summarizer) formatScalar(v any, quoted bool) string {
	switch val := v.(type) {
	case string:
		if val == "" {
			return notSet
		}
		if quoted {
			return `"` + val + `"`
		}
		return val
	case bool:
		return strconv.FormatBool(val)
	default:
		if f, ok := toFloat(v); ok {
			return strconv.FormatFloat(f, 'f', -1, 64)
		}
		return fmt.Sprintf("%v", v)
	}
}
