package annotator

import (
	"errors"
	"fmt"
)

// ErrMalformedEntry is returned in strict mode for a spec entry that is not
// of the form label:f1,f2.
var ErrMalformedEntry = errors.New("malformed spec entry")

// EntryError describes a rejected spec entry.
type EntryError struct {
	Index int    // 0-based position among ';'-separated entries
	Entry string // raw entry text
}

func (e *EntryError) Error() string {
	return fmt.Sprintf("%s %d: %q", ErrMalformedEntry, e.Index, e.Entry)
}

func (e *EntryError) Unwrap() error { return ErrMalformedEntry }

// Match records one annotated function-definition line.
type Match struct {
	Line     int      // 1-based line number in the input
	Function string   // name extracted by MatchFunction
	Labels   []string // labels applied, in spec order
	Noinline bool     // true if this occurrence received the noinline marker
}

// Result summarizes one AnnotateFile run.
type Result struct {
	Input   string
	Output  string
	Spec    *Spec
	Lines   int // number of input lines
	Markers int // number of inserted attribute lines
	Matches []Match
}

// Request holds the inputs of one AnnotateFile run.
type Request struct {
	Input  string // C source to read
	Output string // destination, overwritten if it exists
	Spec   string // label:f1,f2;label2:f3
	Strict bool   // reject malformed spec entries instead of skipping them
}
