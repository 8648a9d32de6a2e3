// Package output fans interpreter messages out to any number of sinks:
// an in-memory error report, a console, a structured logger.
package output

import (
	"fmt"
	"log/slog"
	"strings"
)

// System receives interpreter output.
type System interface {
	Print(text string)
	PrintError(text string)
	PrintStatus(text string)
	PrintObject(obj any)
}

// Multiplexer forwards every call to each attached System, in attach order.
type Multiplexer struct {
	sinks []System
}

// Attach adds s to the sink list.
func (m *Multiplexer) Attach(s System) {
	m.sinks = append(m.sinks, s)
}

// Detach removes s. Returns false if s was not attached.
func (m *Multiplexer) Detach(s System) bool {
	for i, cur := range m.sinks {
		if cur == s {
			m.sinks = append(m.sinks[:i], m.sinks[i+1:]...)
			return true
		}
	}
	return false
}

// Len returns the number of attached sinks.
func (m *Multiplexer) Len() int { return len(m.sinks) }

func (m *Multiplexer) Print(text string) {
	for _, s := range m.sinks {
		s.Print(text)
	}
}

func (m *Multiplexer) PrintError(text string) {
	for _, s := range m.sinks {
		s.PrintError(text)
	}
}

func (m *Multiplexer) PrintStatus(text string) {
	for _, s := range m.sinks {
		s.PrintStatus(text)
	}
}

func (m *Multiplexer) PrintObject(obj any) {
	for _, s := range m.sinks {
		s.PrintObject(obj)
	}
}

// Report collects errors and status lines for a single script run,
// alongside the script text they refer to.
type Report struct {
	Script   string
	Messages []string
}

// NewReport creates a report for script.
func NewReport(script string) *Report {
	return &Report{Script: script}
}

// Add appends a message.
func (r *Report) Add(msg string) { r.Messages = append(r.Messages, msg) }

func (r *Report) Print(string) {}

func (r *Report) PrintError(t string) { r.Add(t) }

func (r *Report) PrintStatus(t string) { r.Add(t) }

func (r *Report) PrintObject(any) {}

// Text renders the numbered script listing followed by the messages.
func (r *Report) Text() string {
	var b strings.Builder
	lines := strings.Split(strings.ReplaceAll(r.Script, "\r", ""), "\n")
	width := len(fmt.Sprint(len(lines)))
	for i, line := range lines {
		fmt.Fprintf(&b, "%*d | %s\n", width, i+1, line)
	}
	b.WriteString("\n")
	for _, msg := range r.Messages {
		b.WriteString(msg)
		b.WriteString("\n")
	}
	return b.String()
}

// Dispatcher routes output to optional callbacks. Nil callbacks are skipped.
type Dispatcher struct {
	OnMessage func(string)
	OnError   func(string)
	OnStatus  func(string)
	OnObject  func(any)
}

func (d *Dispatcher) Print(t string) {
	if d.OnMessage != nil {
		d.OnMessage(t)
	}
}

func (d *Dispatcher) PrintError(t string) {
	if d.OnError != nil {
		d.OnError(t)
	}
}

func (d *Dispatcher) PrintStatus(t string) {
	if d.OnStatus != nil {
		d.OnStatus(t)
	}
}

func (d *Dispatcher) PrintObject(obj any) {
	if d.OnObject != nil {
		d.OnObject(obj)
	}
}

// LogSink mirrors output into a slog.Logger.
type LogSink struct {
	Logger *slog.Logger
}

func (l LogSink) Print(t string) { l.Logger.Debug("script output", "text", t) }

func (l LogSink) PrintError(t string) { l.Logger.Info("script error", "text", t) }

func (l LogSink) PrintStatus(t string) { l.Logger.Debug("script status", "text", t) }

func (l LogSink) PrintObject(obj any) {
	l.Logger.Debug("script object", "type", fmt.Sprintf("%T", obj), "value", fmt.Sprint(obj))
}
