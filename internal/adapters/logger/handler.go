package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/muesli/termenv"
	"go.trai.ch/ibmetrics/internal/ui/output"
	"go.trai.ch/ibmetrics/internal/ui/style"
)

// errorLabel starts the headline of an error logged by Logger.Error.
const errorLabel = "Error: "

// causesKey carries the rest of an error chain from Logger.Error to the handler.
const causesKey = "causes"

// Attributes that locate a message in a dump. They are shown as "(path:line)"
// after the message instead of as key=value pairs.
const (
	pathKey = "path"
	lineKey = "line"
)

// field is one rendered attribute, kept in the order it was added.
type field struct {
	key   string
	value any
}

// PrettyHandler is a slog.Handler for terminals. Each record becomes one
// coloured line; an error record logged by Logger.Error is followed by its
// causes. Dump locations are shown compiler style.
type PrettyHandler struct {
	out    *termenv.Output
	level  slog.Leveler
	fields []field
	group  string
}

// NewPrettyHandler creates a new PrettyHandler writing to w.
func NewPrettyHandler(w io.Writer, opts *slog.HandlerOptions) *PrettyHandler {
	if w == nil {
		w = os.Stderr
	}

	var level slog.Leveler = slog.LevelInfo
	if opts != nil && opts.Level != nil {
		level = opts.Level
	}
	return &PrettyHandler{out: output.New(w), level: level}
}

// Enabled reports whether the handler handles records at the given level.
func (h *PrettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

// Handle writes the record.
//
//nolint:gocritic // slog.Handler interface requires slog.Record by value
func (h *PrettyHandler) Handle(_ context.Context, r slog.Record) error {
	icon, color := "", style.Slate
	switch {
	case r.Level >= slog.LevelError:
		icon, color = style.Cross+" ", style.Red
	case r.Level >= slog.LevelWarn:
		icon, color = style.Warning+" ", style.Yellow
	}

	fields := slices.Clip(h.fields)
	var causes []errorEntry
	r.Attrs(func(attr slog.Attr) bool {
		if c, ok := attr.Value.Any().([]errorEntry); ok && attr.Key == causesKey {
			causes = c
			return true
		}
		fields = append(fields, field{key: qualify(h.group, attr.Key), value: attr.Value.Any()})
		return true
	})

	indent := utf8.RuneCountInString(icon)
	if strings.HasPrefix(r.Message, errorLabel) {
		indent += len(errorLabel)
	}
	lines := headline(icon+describe(r.Message, fields), indent)
	lines = append(lines, causeLines(causes)...)

	styled := h.out.String(strings.Join(lines, "\n")).Foreground(h.out.Color(string(color)))
	_, err := h.out.WriteString(styled.String() + "\n")
	return err
}

// WithAttrs returns a new Handler with the given attributes appended.
func (h *PrettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	fields := slices.Clip(h.fields)
	for _, attr := range attrs {
		fields = append(fields, field{key: qualify(h.group, attr.Key), value: attr.Value.Any()})
	}
	return &PrettyHandler{out: h.out, level: h.level, fields: fields, group: h.group}
}

// WithGroup returns a new Handler whose attributes are prefixed with name.
// The prefix also applies to attributes added before the group.
func (h *PrettyHandler) WithGroup(name string) slog.Handler {
	fields := make([]field, len(h.fields))
	for i, f := range h.fields {
		fields[i] = field{key: qualify(name, f.key), value: f.value}
	}
	return &PrettyHandler{out: h.out, level: h.level, fields: fields, group: qualify(h.group, name)}
}

func qualify(group, key string) string {
	if group == "" {
		return key
	}
	return group + "." + key
}

// describe appends the location and the remaining fields to msg.
func describe(msg string, fields []field) string {
	var (
		path, line string
		rest       []string
	)
	for _, f := range fields {
		switch f.key {
		case pathKey:
			path = fmt.Sprint(f.value)
		case lineKey:
			line = fmt.Sprint(f.value)
		default:
			rest = append(rest, fmt.Sprintf("%s=%v", f.key, f.value))
		}
	}

	switch {
	case path != "" && line != "":
		msg += " (" + path + ":" + line + ")"
	case path != "":
		msg += " (" + path + ")"
	case line != "":
		rest = append([]string{lineKey + "=" + line}, rest...)
	}
	if len(rest) > 0 {
		msg += " " + strings.Join(rest, " ")
	}
	return msg
}

// headline splits text into lines, indenting continuation lines by indent.
func headline(text string, indent int) []string {
	parts := strings.Split(text, "\n")
	for i := 1; i < len(parts); i++ {
		parts[i] = strings.Repeat(" ", indent) + parts[i]
	}
	return parts
}

// causeLines renders the causes of an error as an indented arrow list.
func causeLines(causes []errorEntry) []string {
	if len(causes) == 0 {
		return nil
	}

	lines := []string{"", "  Caused by:"}
	for _, c := range causes {
		parts := strings.Split(describe(c.message, metadataFields(c.metadata)), "\n")
		lines = append(lines, "    → "+parts[0])
		for _, part := range parts[1:] {
			lines = append(lines, "      "+part)
		}
	}
	return lines
}

func metadataFields(metadata map[string]any) []field {
	fields := make([]field, 0, len(metadata))
	for _, k := range sortedKeys(metadata) {
		fields = append(fields, field{key: k, value: metadata[k]})
	}
	return fields
}

// formatErrorEntries renders an error chain the way Logger.Error prints it, without the icon.
func formatErrorEntries(entries []errorEntry) string {
	head := headline(errorLabel+describe(entries[0].message, metadataFields(entries[0].metadata)), len(errorLabel))
	return strings.Join(append(head, causeLines(entries[1:])...), "\n")
}
