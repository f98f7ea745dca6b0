package annotator

import (
	"slices"
	"strings"
)

// Spec maps annotation labels to the function names they apply to.
// Labels keep the order of their first appearance in the spec string.
type Spec struct {
	labels  []string
	funcs   map[string][]string
	skipped []EntryError
}

// ParseSpec parses "label:f1,f2;label2:f3". Entries without a ':' or with an
// empty label are skipped, or rejected with an *EntryError when strict is set.
// A label that appears twice keeps its first position and its last function list.
func ParseSpec(s string, strict bool) (*Spec, error) {
	spec := &Spec{funcs: make(map[string][]string)}

	for i, entry := range strings.Split(s, ";") {
		label, list, ok := strings.Cut(entry, ":")
		if !ok || label == "" {
			if strict {
				return nil, &EntryError{Index: i, Entry: entry}
			}
			spec.skipped = append(spec.skipped, EntryError{Index: i, Entry: entry})
			continue
		}

		if _, seen := spec.funcs[label]; !seen {
			spec.labels = append(spec.labels, label)
		}
		spec.funcs[label] = strings.Split(list, ",")
	}

	return spec, nil
}

// Labels returns the labels in spec order.
func (s *Spec) Labels() []string {
	return slices.Clone(s.labels)
}

// Functions returns the function list of label, duplicates included.
func (s *Spec) Functions(label string) []string {
	return slices.Clone(s.funcs[label])
}

// LabelsFor returns, in spec order, every label whose function list contains fn.
func (s *Spec) LabelsFor(fn string) []string {
	var out []string
	for _, label := range s.labels {
		if slices.Contains(s.funcs[label], fn) {
			out = append(out, label)
		}
	}
	return out
}

// Len returns the number of distinct labels.
func (s *Spec) Len() int { return len(s.labels) }

// Skipped returns the entries dropped while parsing in lenient mode.
func (s *Spec) Skipped() []EntryError {
	return slices.Clone(s.skipped)
}

// String renders the mapping as {label: [f1 f2], label2: [f3]}.
func (s *Spec) String() string {
	var b strings.Builder
	b.WriteString("{")
	for i, label := range s.labels {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(label)
		b.WriteString(": [")
		b.WriteString(strings.Join(s.funcs[label], " "))
		b.WriteString("]")
	}
	b.WriteString("}")
	return b.String()
}
