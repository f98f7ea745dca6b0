package annotator

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/olehluchkiv/cattr/internal/sourcefile"
)

// AnnotateFile reads req.Input, inserts attribute markers above every
// function definition named in req.Spec and writes the result to req.Output.
// The output is replaced atomically; nothing is written if any step fails.
func AnnotateFile(ctx context.Context, req Request, logger *slog.Logger) (*Result, error) {
	input, err := sourcefile.ResolveInput(req.Input)
	if err != nil {
		return nil, err
	}
	output, err := sourcefile.ResolveOutput(req.Output)
	if err != nil {
		return nil, err
	}

	spec, err := ParseSpec(req.Spec, req.Strict)
	if err != nil {
		return nil, fmt.Errorf("parsing spec: %w", err)
	}
	for _, skipped := range spec.Skipped() {
		logger.Debug("skipping spec entry", "index", skipped.Index, "entry", skipped.Entry)
	}
	logger.Info("spec parsed", "labels", spec.Len(), "strict", req.Strict)

	doc, err := sourcefile.Read(input)
	if err != nil {
		return nil, err
	}
	logger.Info("source loaded", "input", input, "lines", len(doc.Lines))

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	lines, matches := NewInjector(spec).Inject(doc.Lines)
	for _, m := range matches {
		logger.Debug("function annotated",
			"function", m.Function, "line", m.Line, "labels", m.Labels, "noinline", m.Noinline)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := sourcefile.WriteAtomic(output, lines, doc.Mode); err != nil {
		return nil, err
	}

	res := &Result{
		Input:   input,
		Output:  output,
		Spec:    spec,
		Lines:   len(doc.Lines),
		Markers: len(lines) - len(doc.Lines),
		Matches: matches,
	}
	logger.Info("annotation complete",
		"output", output, "functions", len(matches), "markers", res.Markers)

	return res, nil
}
