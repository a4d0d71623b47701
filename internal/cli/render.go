package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/roach88/brine/internal/report"
)

// RenderReport writes the human-readable form of a scenario report.
//
// Success:
//
//	✓ checkout
//	    ✓ set total
//	    ✓ assert total == 3
//
// Failure:
//
//	✗ login
//	    ✓ set user
//	    ✗ assert user == bob
//	        expected result was:
//	        ...
//	    - debug (not executed)
//
// With verbose set, debug output is printed under its step.
func RenderReport(w io.Writer, name string, r report.Report, verbose bool) error {
	doc, err := report.ToDocument(r)
	if err != nil {
		return err
	}
	RenderDocument(w, name, doc, verbose)
	return nil
}

// RenderDocument is RenderReport for a decoded report document, as read back
// from run history.
func RenderDocument(w io.Writer, name string, doc report.Document, verbose bool) {
	if doc.Status == report.StatusSuccess {
		fmt.Fprintf(w, "✓ %s\n", name)
	} else {
		fmt.Fprintf(w, "✗ %s\n", name)
	}

	for _, ev := range succeededSteps(doc) {
		fmt.Fprintf(w, "    ✓ %s\n", ev.Title)
		if verbose && ev.Kind == report.KindDebug && ev.Message != "" {
			writeIndented(w, "        ", ev.Message)
		}
	}

	if doc.FailedStep == nil {
		return
	}
	fmt.Fprintf(w, "    ✗ %s\n", doc.FailedStep.Title)
	writeIndented(w, "        ", doc.FailedStep.Message)
	for _, title := range doc.NotExecutedSteps {
		fmt.Fprintf(w, "    - %s (not executed)\n", title)
	}
}

// succeededSteps lists the steps a report counts as succeeded, as trace
// events. A failure document lists titles only, so the events are rebuilt
// from them and debug output is attached where the trace has it.
func succeededSteps(doc report.Document) []report.TraceEvent {
	var fromTrace []report.TraceEvent
	for _, ev := range doc.Trace {
		if ev.Kind == report.KindStepSucceeded || ev.Kind == report.KindDebug {
			fromTrace = append(fromTrace, ev)
		}
	}
	if doc.Status == report.StatusSuccess {
		return fromTrace
	}

	// Drop events of failed retry attempts that did not make it into the
	// success titles; titles are matched in order.
	out := make([]report.TraceEvent, 0, len(doc.SuccessSteps))
	j := 0
	for _, title := range doc.SuccessSteps {
		ev := report.TraceEvent{Kind: report.KindStepSucceeded, Title: title}
		for k := j; k < len(fromTrace); k++ {
			if fromTrace[k].Title == title {
				ev = fromTrace[k]
				j = k + 1
				break
			}
		}
		out = append(out, ev)
	}
	return out
}

func writeIndented(w io.Writer, indent, text string) {
	for _, line := range strings.Split(text, "\n") {
		fmt.Fprintf(w, "%s%s\n", indent, line)
	}
}

// RenderSummary writes the closing line of a run.
func RenderSummary(w io.Writer, passed, failed int) {
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Run Summary: %d passed, %d failed, %d total\n", passed, failed, passed+failed)
	if failed == 0 {
		fmt.Fprintln(w, "✓ All scenarios passed")
	}
}
