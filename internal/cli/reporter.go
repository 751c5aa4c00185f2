package cli

import (
	"fmt"
	"io"
)

// consoleReporter writes progress to the terminal for one-shot commands.
type consoleReporter struct {
	out io.Writer
}

func newConsoleReporter(out io.Writer) *consoleReporter {
	return &consoleReporter{out: out}
}

func (r *consoleReporter) OnProgress(message string) {
	fmt.Fprintln(r.out, message)
}

func (r *consoleReporter) OnItemCompleted(label, status string) {
	fmt.Fprintf(r.out, "%s: %s\n", label, status)
}

func (r *consoleReporter) OnBatchCompleted(summary string) {
	fmt.Fprintln(r.out, summary)
}

func (r *consoleReporter) OnError(message string) {
	fmt.Fprintf(r.out, "Error: %s\n", message)
}
