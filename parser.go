package jsep

import (
	"go.uber.org/zap"
)

// Version is the library version reported by the CLI and the RPC server.
const Version = "0.3.0"

// Parser turns expression strings into trees. A Parser is immutable after New
// and safe for concurrent use.
type Parser struct {
	cfg    *Config
	logger *zap.Logger

	// expr is the full grammar; operand is the grammar of a single binary
	// operand. They are the same in faithful mode.
	expr    production
	operand production
}

// Option configures a Parser.
type Option func(*Parser)

// WithConfig overlays cfg onto the parser's current configuration.
func WithConfig(cfg *Config) Option {
	return func(p *Parser) {
		p.cfg = p.cfg.Merge(cfg)
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger *zap.Logger) Option {
	return func(p *Parser) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithPrecedence selects precedence grouping (true) or leftmost-operator-is-root
// grouping (false).
func WithPrecedence(enabled bool) Option {
	return func(p *Parser) {
		p.cfg.Precedence = enabled
	}
}

// WithMaxDepth limits nesting. Values below one select DefaultMaxDepth.
func WithMaxDepth(n int) Option {
	return func(p *Parser) {
		p.cfg.MaxDepth = n
	}
}

// New creates a Parser.
func New(opts ...Option) *Parser {
	p := &Parser{
		cfg:    DefaultConfig(),
		logger: zap.NewNop(),
	}

	for _, opt := range opts {
		opt(p)
	}

	if p.cfg.MaxDepth < 1 {
		p.cfg.MaxDepth = DefaultMaxDepth
	}

	token := firstOf(
		(*Parser).keyword,
		(*Parser).identifier,
		(*Parser).dotProperty,
		(*Parser).bracketProperty,
		(*Parser).number,
		(*Parser).str,
	)

	if p.cfg.Precedence {
		p.operand = firstOf(token, (*Parser).call, (*Parser).group, (*Parser).unaryOperand)
		p.expr = firstOf(token, (*Parser).call, (*Parser).group, (*Parser).binaryClimb, (*Parser).unaryOperand)
	} else {
		p.expr = firstOf(token, (*Parser).call, (*Parser).group, (*Parser).binaryRest, (*Parser).unaryRest)
		p.operand = p.expr
	}

	return p
}

// Config returns a copy of the effective configuration.
func (p *Parser) Config() *Config {
	return p.cfg.clone()
}

// Parse parses expr. A single statement is returned as-is; zero or several
// statements are wrapped in a *Compound.
func (p *Parser) Parse(expr string) (Node, error) {
	c := newCursor(expr)
	start := c.pos()

	var body []Node

	for !c.eof() {
		from := c

		n, next, err := p.dispatch(c, p.expr)
		if err != nil {
			return nil, p.reject(err)
		}

		next = next.skipSpace()
		sep, hasSep := separator(next)

		switch {
		case hasSep:
			next = sep
		case n == nil && next.off == from.off:
			return nil, p.reject(next.errorf(ErrUnexpectedToken))
		}

		if next.off <= from.off {
			return nil, p.reject(next.errorf(ErrNoProgress))
		}

		if n != nil {
			body = append(body, n)
		}

		c = next
	}

	p.logger.Debug("parsed expression",
		zap.Int("statements", len(body)),
		zap.Bool("precedence", p.cfg.Precedence))

	if len(body) == 1 {
		return body[0], nil
	}

	if body == nil {
		body = []Node{}
	}

	return &Compound{
		NodeMeta: NodeMeta{Pos: start, EndPos: c.pos()},
		Body:     body,
	}, nil
}

func (p *Parser) reject(err error) error {
	p.logger.Debug("parse failed",
		zap.String("kind", KindName(err)),
		zap.Error(err))

	return err
}

// Parse parses expr with cfg overlaid on the defaults. cfg may be nil.
func Parse(expr string, cfg *Config) (Node, error) {
	return New(WithConfig(cfg)).Parse(expr)
}
