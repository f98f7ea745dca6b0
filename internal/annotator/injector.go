package annotator

import "strings"

const noinlineMarker = "__attribute__((noinline))"

// AnnotateMarker returns the attribute line for label, without terminator.
// The label is inserted verbatim.
func AnnotateMarker(label string) string {
	return `__attribute__((annotate("` + label + `")))`
}

// Injector inserts attribute lines above matched function definitions.
// An Injector is good for one run: it remembers which functions already
// received the noinline marker.
type Injector struct {
	spec     *Spec
	noinline map[string]struct{}
}

// NewInjector returns an Injector with an empty noinline registry.
func NewInjector(spec *Spec) *Injector {
	return &Injector{
		spec:     spec,
		noinline: make(map[string]struct{}),
	}
}

// Inject returns a new line sequence with markers inserted. Each element of
// lines carries its own terminator. The input slice is not modified.
func (inj *Injector) Inject(lines []string) ([]string, []Match) {
	out := make([]string, 0, len(lines))
	var matches []Match

	for i, line := range lines {
		fn, ok := MatchFunction(line)
		if !ok {
			out = append(out, line)
			continue
		}

		labels := inj.spec.LabelsFor(fn)
		if len(labels) == 0 {
			out = append(out, line)
			continue
		}

		eol := terminator(line)
		m := Match{Line: i + 1, Function: fn, Labels: labels}
		if _, done := inj.noinline[fn]; !done {
			inj.noinline[fn] = struct{}{}
			out = append(out, noinlineMarker+eol)
			m.Noinline = true
		}
		for _, label := range labels {
			out = append(out, AnnotateMarker(label)+eol)
		}
		out = append(out, line)
		matches = append(matches, m)
	}

	return out, matches
}

// terminator returns the line ending used for markers placed above line.
func terminator(line string) string {
	if strings.HasSuffix(line, "\r\n") {
		return "\r\n"
	}
	return "\n"
}
