package dump

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"go.trai.ch/ibmetrics/internal/core/domain"
	"go.trai.ch/ibmetrics/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.DumpReader = (*Reader)(nil)

const (
	// maxLineSize bounds a single dump line; package lists can get long.
	maxLineSize = 64 << 20

	// rejectRatio is the failure share above which a file is not treated as a dump.
	rejectRatio = 0.95
	// rejectMinLines is the smallest number of data lines the ratio is applied to.
	rejectMinLines = 20
)

var (
	preambleRe  = regexp.MustCompile(`^#\s*dump\s+v(\d+)$`)
	separatorRe = regexp.MustCompile(`^[-+ ]*-[-+ ]*$`)
	footerRe    = regexp.MustCompile(`^\((\d+) rows?\)$`)
)

// Reader parses dump files into record tables.
type Reader struct {
	schema     domain.Schema
	logger     ports.Logger
	tracer     ports.Tracer
	newDecoder func(columns []domain.Field) ports.LineDecoder
}

// NewReader creates a Reader for the current dump schema.
func NewReader(logger ports.Logger, tracer ports.Tracer) *Reader {
	return NewReaderWithSchema(domain.CurrentSchema, logger, tracer)
}

// NewReaderWithSchema creates a Reader for an explicit schema version.
func NewReaderWithSchema(schema domain.Schema, logger ports.Logger, tracer ports.Tracer) *Reader {
	return &Reader{
		schema: schema,
		logger: logger,
		tracer: tracer,
		newDecoder: func(columns []domain.Field) ports.LineDecoder {
			return NewDecoder(columns)
		},
	}
}

// Read parses the dump at path.
func (r *Reader) Read(ctx context.Context, path string) (*domain.RecordTable, error) {
	_, span := r.tracer.Start(ctx, "dump.read", ports.WithAttribute("path", path))
	defer span.End()

	table, err := r.readFile(path)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	span.SetAttribute("lines_read", table.Meta.LinesRead)
	span.SetAttribute("records", table.Len())
	span.SetAttribute("failures", len(table.Failures))
	return table, nil
}

func (r *Reader) readFile(path string) (*domain.RecordTable, error) {
	//nolint:gosec // Path is provided by the user on purpose
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fileError(domain.ErrDumpNotFound, err, path)
		}
		return nil, fileError(domain.ErrDumpIO, err, path)
	}
	defer func() { _ = f.Close() }()

	info, err := f.Stat()
	if err != nil {
		return nil, fileError(domain.ErrDumpIO, err, path)
	}
	if info.IsDir() {
		return nil, fileError(domain.ErrDumpIO, zerr.New("path is a directory"), path)
	}

	return r.Parse(f, path)
}

// Parse reads a dump from in. source is recorded on the table and in errors.
func (r *Reader) Parse(in io.Reader, source string) (*domain.RecordTable, error) {
	p := &parser{
		schema:     r.schema,
		source:     source,
		decoder:    r.newDecoder(slices.Clone(r.schema.Fields)),
		newDecoder: r.newDecoder,
		table: &domain.RecordTable{
			Records:  make([]domain.BuildRecord, 0),
			Failures: make([]domain.DecodeFailure, 0),
			Meta: domain.TableMeta{
				Source:        source,
				SchemaVersion: r.schema.Version,
				DeclaredRows:  -1,
			},
		},
		headerAllowed: true,
	}

	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		done, err := p.line(domain.RawLine{
			Number: lineNo,
			Text:   strings.TrimSuffix(scanner.Text(), "\r"),
		})
		if err != nil {
			return nil, err
		}
		if done {
			break
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fileError(domain.ErrDumpIO, zerr.With(err, "line", lineNo+1), source)
	}

	if err := p.finish(); err != nil {
		return nil, err
	}

	r.checkRowCount(p.table)
	return p.table, nil
}

func (r *Reader) checkRowCount(t *domain.RecordTable) {
	dataRows := t.Len() + len(t.Failures)
	switch {
	case t.Meta.DeclaredRows < 0:
		r.logger.Warn(fmt.Sprintf("failed to parse row count footer in %s", t.Meta.Source))
	case t.Meta.DeclaredRows != dataRows:
		r.logger.Warn(fmt.Sprintf(
			"read %d rows from %s but the dump footer states %d rows",
			dataRows, t.Meta.Source, t.Meta.DeclaredRows,
		))
	}
}

// parser holds the state of one dump read.
type parser struct {
	schema  domain.Schema
	source  string
	decoder ports.LineDecoder
	table   *domain.RecordTable

	newDecoder func(columns []domain.Field) ports.LineDecoder

	started          bool
	headerAllowed    bool
	separatorAllowed bool
	// vouched is set once a preamble, a header or a well-shaped first row was seen.
	vouched bool
}

// line handles one input line. It reports true once the footer ends the table.
func (p *parser) line(raw domain.RawLine) (bool, error) {
	p.table.Meta.LinesRead++

	text := strings.TrimSpace(raw.Text)
	if text == "" {
		return false, nil
	}

	first := !p.started
	p.started = true

	if first {
		if m := preambleRe.FindStringSubmatch(text); m != nil {
			if version, err := strconv.Atoi(m[1]); err != nil || version != p.schema.Version {
				return false, errors.Join(domain.ErrUnsupportedSchema, p.formatError(raw.Number,
					zerr.With(zerr.New("dump declares schema v"+m[1]), "version", m[1])))
			}
			p.vouched = true
			return false, nil
		}
	}

	if p.headerAllowed {
		if columns, ok, err := DecodeHeader(p.schema, text); ok {
			if err != nil {
				return false, p.formatError(raw.Number, err)
			}
			p.decoder = p.newDecoder(columns)
			p.vouched = true
			p.headerAllowed = false
			p.separatorAllowed = true
			return false, nil
		}
	}

	if p.separatorAllowed {
		p.separatorAllowed = false
		if separatorRe.MatchString(text) {
			return false, nil
		}
	}
	p.headerAllowed = false

	if m := footerRe.FindStringSubmatch(text); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			p.table.Meta.DeclaredRows = n
		}
		return true, nil
	}

	if !p.vouched {
		// The first data line of an unannounced file has to at least have the dump's shape.
		p.vouched = true
		cells, err := splitCells(raw.Text)
		if err != nil {
			return false, p.formatError(raw.Number, err)
		}
		if want := len(p.decoder.Columns()); len(cells) != want {
			return false, p.formatError(raw.Number, zerr.With(
				zerr.New("first line does not match the dump columns"), "fields", len(cells)))
		}
	}

	record, failure := p.decoder.Decode(raw)
	if failure != nil {
		p.table.Failures = append(p.table.Failures, *failure)
		p.table.Meta.LinesSkipped++
		return false, nil
	}
	p.table.Records = append(p.table.Records, record)
	return false, nil
}

func (p *parser) finish() error {
	p.table.Columns = p.decoder.Columns()

	records, failures := p.table.Len(), len(p.table.Failures)
	total := records + failures

	switch {
	case !p.started:
		return p.formatError(0, zerr.New("dump is empty"))
	case total > 0 && records == 0:
		return p.formatError(0, zerr.With(zerr.New("no line matched the dump schema"), "failures", failures))
	case total >= rejectMinLines && float64(failures)/float64(total) > rejectRatio:
		return p.formatError(0, zerr.With(zerr.New("too many lines failed to decode"), "failures", failures))
	}
	return nil
}

func (p *parser) formatError(line int, cause error) error {
	detail := zerr.With(cause, "path", p.source)
	if line > 0 {
		detail = zerr.With(detail, "line", line)
	}
	return errors.Join(domain.ErrDumpFormat, detail)
}

// fileError tags a file-level failure with its class so callers can match it with errors.Is.
func fileError(class, cause error, path string) error {
	return errors.Join(class, zerr.With(cause, "path", path))
}
