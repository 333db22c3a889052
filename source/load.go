package source

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/reoring/gobound"
	eng "github.com/reoring/gobound/internal/engine"
	"github.com/reoring/gobound/internal/stream"
	yamlsrc "github.com/reoring/gobound/source/yaml"
)

// Format selects the document syntax.
type Format int

const (
	FormatAuto Format = iota // sniff: '{' or '[' means JSON, anything else YAML
	FormatJSON
	FormatYAML
)

func (f Format) String() string {
	switch f {
	case FormatJSON:
		return "json"
	case FormatYAML:
		return "yaml"
	default:
		return "auto"
	}
}

// ParseFormat accepts "auto", "json", "yaml" and "yml".
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "", "auto":
		return FormatAuto, nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	}
	return FormatAuto, fmt.Errorf("source: unknown format %q", s)
}

// DetectFormat maps a file name to a Format by extension.
func DetectFormat(name string) Format {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".json":
		return FormatJSON
	case ".yaml", ".yml":
		return FormatYAML
	}
	return FormatAuto
}

// NumberMode dictates how numbers are interpreted.
type NumberMode int

const (
	NumberJSONNumber     NumberMode = iota // keep json.Number
	NumberFloat64                          // float64, with potential precision loss
	NumberInt64OrFloat64                   // int64 when integral and in range, else float64
)

func (m NumberMode) conv() eng.NumberConv {
	switch m {
	case NumberFloat64:
		return eng.Float64
	case NumberInt64OrFloat64:
		return eng.Int64OrFloat64
	default:
		return eng.JSONNumber
	}
}

// Severity expresses how a duplicate object key is treated.
type Severity int

const (
	Ignore Severity = iota // last value wins, silently
	Warn                   // last value wins, reported through OnIssue
	Error                  // loading fails
)

// Issue is a non-fatal finding reported during Load.
type Issue struct {
	Code    string
	Path    string
	Message string
	Offset  int64
}

// Options bundles loading options. The zero value loads JSON or YAML by
// sniffing, keeps numbers as json.Number and applies no limits.
type Options struct {
	Format         Format
	JSONDriver     JSONDriver // nil means CurrentJSONDriver()
	NumberMode     NumberMode
	OnDuplicateKey Severity
	MaxDepth       int
	MaxBytes       int64
	OnIssue        func(Issue)
	// Select is a JSON Pointer naming the part of the document to load.
	// Input after that value is not read.
	Select string
}

// Issue codes forwarded from enforcement.
const (
	CodeDuplicateKey = eng.CodeDuplicateKey
	CodeTooDeep      = eng.CodeTooDeep
	CodeTruncated    = eng.CodeTruncated
)

// Sentinels for enforcement failures, reachable with errors.Is.
var (
	ErrDuplicateKey = eng.ErrDuplicateKey
	ErrMaxBytes     = eng.ErrMaxBytes
	ErrTrailingData = eng.ErrTrailingData
)

// Load decodes one document from r into plain Go values ready for
// gobound.Stackify: objects become gobound.Pairs in document order, arrays
// []any, text string, and numbers follow opt.NumberMode.
func Load(ctx context.Context, r io.Reader, opt Options) (any, error) {
	if opt.MaxBytes > 0 {
		data, err := io.ReadAll(io.LimitReader(r, opt.MaxBytes+1))
		if err != nil {
			return nil, err
		}
		if int64(len(data)) > opt.MaxBytes {
			return nil, loadError(eng.IssueError{SimpleIssue: eng.SimpleIssue{
				Code: CodeTruncated, Path: "/", Message: fmt.Sprintf("input larger than %d bytes", opt.MaxBytes),
			}})
		}
		r = bytes.NewReader(data)
	}
	format := opt.Format
	if format == FormatAuto {
		br := bufio.NewReader(r)
		format = sniff(br)
		r = br
	}
	var src eng.TokenSource
	switch format {
	case FormatYAML:
		src = yamlsrc.NewReader(r)
	default:
		d := opt.JSONDriver
		if d == nil {
			d = CurrentJSONDriver()
		}
		src = toEngine(d.NewReader(r))
	}
	gobound.Logger().Debug("load", zap.Stringer("format", format), zap.Int64("max_bytes", opt.MaxBytes), zap.Int("max_depth", opt.MaxDepth), zap.String("select", opt.Select))

	var sink func(eng.SimpleIssue)
	if opt.OnIssue != nil {
		sink = func(si eng.SimpleIssue) {
			opt.OnIssue(Issue{Code: si.Code, Path: si.Path, Message: si.Message, Offset: src.Location()})
		}
	}
	enforced := eng.WrapWithEnforcement(&ctxSource{ctx: ctx, inner: src}, eng.EnforceOptions{
		OnDuplicate: toEngineDup(opt.OnDuplicateKey),
		MaxDepth:    opt.MaxDepth,
		MaxBytes:    opt.MaxBytes,
		IssueSink:   sink,
	})
	selected, err := stream.Select(enforced, opt.Select)
	if err != nil {
		return nil, loadError(err)
	}
	v, err := eng.DecodeDocument(selected, opt.NumberMode.conv())
	if err != nil {
		return nil, loadError(err)
	}
	return v, nil
}

// LoadBytes is Load over an in-memory document.
func LoadBytes(ctx context.Context, b []byte, opt Options) (any, error) {
	return Load(ctx, bytes.NewReader(b), opt)
}

// LoadFile loads the named file. With FormatAuto the extension decides the
// format before falling back to sniffing.
func LoadFile(ctx context.Context, name string, opt Options) (any, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	if opt.Format == FormatAuto {
		opt.Format = DetectFormat(name)
	}
	v, err := Load(ctx, f, opt)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return v, nil
}

// LoadMinimized loads a document and minimizes it in one call.
func LoadMinimized(ctx context.Context, r io.Reader, opt Options, bound gobound.Options) (gobound.Value, error) {
	v, err := Load(ctx, r, opt)
	if err != nil {
		return gobound.Value{}, err
	}
	return gobound.MinimizeWith(v, bound)
}

func sniff(br *bufio.Reader) Format {
	for {
		c, err := br.ReadByte()
		if err != nil {
			return FormatJSON
		}
		switch c {
		case ' ', '\t', '\r', '\n':
			continue
		}
		_ = br.UnreadByte()
		if c == '{' || c == '[' {
			return FormatJSON
		}
		return FormatYAML
	}
}

func toEngineDup(s Severity) eng.DuplicateStrictness {
	switch s {
	case Warn:
		return eng.DupWarn
	case Error:
		return eng.DupError
	default:
		return eng.DupIgnore
	}
}

// loadError gives enforcement failures the path-carrying gobound error form.
func loadError(err error) error {
	var ie eng.IssueError
	if errors.As(err, &ie) {
		return &gobound.Error{Op: "load", Path: ie.Path, Err: ie}
	}
	return fmt.Errorf("source: load: %w", err)
}

// ctxSource stops decoding once ctx is done.
type ctxSource struct {
	ctx   context.Context
	inner eng.TokenSource
}

func (s *ctxSource) NextToken() (eng.Token, error) {
	if err := s.ctx.Err(); err != nil {
		return eng.Token{}, err
	}
	return s.inner.NextToken()
}

func (s *ctxSource) Location() int64 { return s.inner.Location() }
