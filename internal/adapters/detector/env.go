// Package detector picks the record output format from the environment.
package detector

import (
	"errors"
	"io"

	"go.trai.ch/ibmetrics/internal/core/domain"
	"go.trai.ch/zerr"
	"golang.org/x/term"
)

// Format is the rendering format for record tables.
type Format int

const (
	// FormatAuto chooses between table and TSV from the environment.
	FormatAuto Format = iota
	// FormatTable renders a bordered table for people.
	FormatTable
	// FormatTSV renders tab-separated values for pipes and scripts.
	FormatTSV
)

// String returns the flag spelling of the format.
func (f Format) String() string {
	switch f {
	case FormatTable:
		return "table"
	case FormatTSV:
		return "tsv"
	default:
		return "auto"
	}
}

// fdWriter is satisfied by *os.File.
type fdWriter interface {
	Fd() uintptr
}

// DetectFormat returns the recommended format for output written to w.
// A terminal gets a table unless CI is set; everything else gets TSV.
func DetectFormat(w io.Writer, getenv func(string) string) Format {
	isTTY := false
	if f, ok := w.(fdWriter); ok {
		isTTY = term.IsTerminal(int(f.Fd()))
	}

	ci := getenv("CI")
	isCI := ci == "true" || ci == "1"

	if !isTTY || isCI {
		return FormatTSV
	}
	return FormatTable
}

// ParseFormat parses a --format flag value. The empty string means auto.
func ParseFormat(flag string) (Format, error) {
	switch flag {
	case "auto", "":
		return FormatAuto, nil
	case "table":
		return FormatTable, nil
	case "tsv":
		return FormatTSV, nil
	default:
		return FormatAuto, errors.Join(domain.ErrUnknownFormat,
			zerr.With(zerr.New("expected auto, table or tsv"), "format", flag))
	}
}

// ResolveFormat applies an explicit user choice over auto-detection.
func ResolveFormat(detected, requested Format) Format {
	if requested == FormatAuto {
		return detected
	}
	return requested
}
