// Package rpc serves jsep over JSON-RPC 2.0.
package rpc

import (
	"context"
	"errors"
	"io"

	"github.com/segmentio/encoding/json"
	"go.lsp.dev/jsonrpc2"
	"go.lsp.dev/protocol"
	"go.uber.org/zap"

	"github.com/Aintaer/jsep"
	"github.com/Aintaer/jsep/analysis"
)

// Method names.
const (
	MethodParse   = "jsep/parse"
	MethodLint    = "jsep/lint"
	MethodVersion = "jsep/version"
)

// CodeParseFailed is the error code replied when an expression does not parse.
// The error data is a ParseFailure.
const CodeParseFailed jsonrpc2.Code = 1000

// ExpressionParams are the params of jsep/parse and jsep/lint.
type ExpressionParams struct {
	Expression string `json:"expression"`
}

// ParseResult is the result of jsep/parse.
type ParseResult struct {
	AST    map[string]any `json:"ast"`
	Sexpr  string         `json:"sexpr"`
	Source string         `json:"source"`
}

// ParseFailure is the data of a CodeParseFailed error.
type ParseFailure struct {
	Kind     string            `json:"kind"`
	Position protocol.Position `json:"position"`
}

// LintResult is the result of jsep/lint.
type LintResult struct {
	Diagnostics []protocol.Diagnostic `json:"diagnostics"`
}

// VersionResult is the result of jsep/version.
type VersionResult struct {
	Version string `json:"version"`
}

type server struct {
	parser   *jsep.Parser
	analyzer *analysis.Analyzer
	logger   *zap.Logger
}

// NewHandler returns a handler serving the jsep methods. A nil parser or
// analyzer is replaced by one with default configuration; the analyzer
// defaults to the parser's configuration.
func NewHandler(parser *jsep.Parser, analyzer *analysis.Analyzer, logger *zap.Logger) jsonrpc2.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}

	if parser == nil {
		parser = jsep.New(jsep.WithLogger(logger))
	}

	if analyzer == nil {
		analyzer = analysis.NewAnalyzer(parser.Config())
	}

	s := &server{parser: parser, analyzer: analyzer, logger: logger}

	return jsonrpc2.ReplyHandler(s.handle)
}

func (s *server) handle(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	s.logger.Debug("request", zap.String("method", req.Method()))

	switch req.Method() {
	case MethodParse:
		var params ExpressionParams
		if err := decodeParams(req, &params); err != nil {
			return reply(ctx, nil, err)
		}

		result, err := s.parse(params.Expression)

		return reply(ctx, result, err)

	case MethodLint:
		var params ExpressionParams
		if err := decodeParams(req, &params); err != nil {
			return reply(ctx, nil, err)
		}

		return reply(ctx, s.lint(params.Expression), nil)

	case MethodVersion:
		return reply(ctx, &VersionResult{Version: jsep.Version}, nil)

	default:
		return jsonrpc2.MethodNotFoundHandler(ctx, reply, req)
	}
}

func (s *server) parse(expr string) (*ParseResult, error) {
	node, err := s.parser.Parse(expr)
	if err != nil {
		return nil, parseFailed(err)
	}

	return &ParseResult{
		AST:    jsep.ToMap(node),
		Sexpr:  jsep.Sexpr(node),
		Source: jsep.Source(node),
	}, nil
}

func (s *server) lint(expr string) *LintResult {
	analyzed := s.analyzer.Analyze(expr)

	s.logger.Debug("lint",
		zap.String("expression", expr),
		zap.Int("diagnostics", len(analyzed.Diagnostics)))

	diagnostics := make([]protocol.Diagnostic, 0, len(analyzed.Diagnostics))
	for _, d := range analyzed.Diagnostics {
		diagnostics = append(diagnostics, convertDiagnostic(d))
	}

	return &LintResult{Diagnostics: diagnostics}
}

func decodeParams(req jsonrpc2.Request, v any) error {
	raw := req.Params()
	if len(raw) == 0 || string(raw) == "null" {
		return jsonrpc2.Errorf(jsonrpc2.InvalidParams, "%s: missing params", req.Method())
	}

	if err := json.Unmarshal(raw, v); err != nil {
		return jsonrpc2.Errorf(jsonrpc2.InvalidParams, "%s: %v", req.Method(), err)
	}

	return nil
}

// parseFailed converts a parse error into a wire error carrying the kind.
func parseFailed(err error) error {
	failure := ParseFailure{Kind: jsep.KindName(err)}

	var perr *jsep.ParseError
	if errors.As(err, &perr) {
		failure.Position = toPosition(perr.Pos.Line, perr.Pos.Column)
	}

	data, mErr := json.Marshal(failure)
	if mErr != nil {
		return jsonrpc2.Errorf(jsonrpc2.InternalError, "encoding parse failure: %v", mErr)
	}

	raw := json.RawMessage(data)
	wire := jsonrpc2.NewError(CodeParseFailed, err.Error())
	wire.Data = &raw

	return wire
}

// convertDiagnostic converts an analysis.Diagnostic to an LSP protocol.Diagnostic.
func convertDiagnostic(d analysis.Diagnostic) protocol.Diagnostic {
	return protocol.Diagnostic{
		Range: protocol.Range{
			Start: toPosition(d.Span.Start.Line, d.Span.Start.Column),
			End:   toPosition(d.Span.End.Line, d.Span.End.Column),
		},
		Severity: convertSeverity(d.Severity),
		Code:     d.Code,
		Source:   d.Source,
		Message:  d.Message,
	}
}

func convertSeverity(sev analysis.DiagnosticSeverity) protocol.DiagnosticSeverity {
	switch sev {
	case analysis.SeverityError:
		return protocol.DiagnosticSeverityError
	case analysis.SeverityWarning:
		return protocol.DiagnosticSeverityWarning
	case analysis.SeverityInformation:
		return protocol.DiagnosticSeverityInformation
	case analysis.SeverityHint:
		return protocol.DiagnosticSeverityHint
	default:
		return protocol.DiagnosticSeverityError
	}
}

// toPosition converts a 1-based line and column to a zero-based LSP
// position. Unset positions map to zero.
func toPosition(line, column int) protocol.Position {
	var p protocol.Position

	if line > 0 {
		p.Line = uint32(line - 1) //nolint:gosec // bounded by the input length
	}

	if column > 0 {
		p.Character = uint32(column - 1) //nolint:gosec // bounded by the input length
	}

	return p
}

// NewConn wraps rwc in a header-framed JSON-RPC connection.
func NewConn(rwc io.ReadWriteCloser) jsonrpc2.Conn {
	return jsonrpc2.NewConn(jsonrpc2.NewStream(rwc))
}

// Serve runs handler over rwc until the connection closes or ctx is done.
// A clean end of input is not an error.
func Serve(ctx context.Context, rwc io.ReadWriteCloser, handler jsonrpc2.Handler) error {
	return ServeConn(ctx, NewConn(rwc), handler)
}

// ServeConn is Serve over an existing connection, for callers that also
// send notifications on it.
func ServeConn(ctx context.Context, conn jsonrpc2.Conn, handler jsonrpc2.Handler) error {
	conn.Go(ctx, handler)

	select {
	case <-conn.Done():
	case <-ctx.Done():
		_ = conn.Close()

		return ctx.Err()
	}

	err := conn.Err()
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrClosedPipe) {
		return nil
	}

	return err
}

// ReadWriteCloser joins a separate reader and writer, e.g. stdin and stdout.
type ReadWriteCloser struct {
	io.Reader
	io.Writer
}

// Close closes the writer if it is closeable.
func (rwc *ReadWriteCloser) Close() error {
	if c, ok := rwc.Writer.(io.Closer); ok {
		return c.Close()
	}

	return nil
}
