package xssfilter

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// Sanitizer rewrites HTML so that only whitelisted tags and attributes
// remain live markup. Every other tag is escaped into inert text.
//
// A Sanitizer whose whitelist is no longer being modified is safe for
// concurrent use.
type Sanitizer struct {
	wl     *Whitelist
	policy Policy
	values ValueFilter
	logger *slog.Logger
}

// Option configures a Sanitizer.
type Option func(*Sanitizer)

// WithWhitelist uses wl instead of a fresh empty whitelist. Permit and
// LoadDefaultWhitelist on the Sanitizer modify wl.
func WithWhitelist(wl *Whitelist) Option {
	return func(s *Sanitizer) {
		if wl != nil {
			s.wl = wl
		}
	}
}

// WithPolicy consults p before the whitelist. Decisions p leaves as
// Defer are answered by the whitelist.
func WithPolicy(p Policy) Option {
	return func(s *Sanitizer) { s.policy = p }
}

// WithValueFilter runs f over the value of every attribute that
// survives the policy.
func WithValueFilter(f ValueFilter) Option {
	return func(s *Sanitizer) { s.values = f }
}

// WithLogger sets the logger that receives per-tag decisions at debug
// level. Nil is ignored.
func WithLogger(l *slog.Logger) Option {
	return func(s *Sanitizer) {
		if l != nil {
			s.logger = l
		}
	}
}

// New returns a Sanitizer with an empty whitelist, which escapes every
// tag until something is permitted.
func New(opts ...Option) *Sanitizer {
	s := &Sanitizer{
		wl:     NewWhitelist(),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Sanitize is shorthand for New(WithWhitelist(wl)).Sanitize(input).
func Sanitize(input string, wl *Whitelist) string {
	return New(WithWhitelist(wl)).Sanitize(input)
}

// Permit allows tag with the listed attributes, replacing any earlier
// registration of tag.
func (s *Sanitizer) Permit(tag string, attrs ...string) {
	s.wl.Permit(tag, attrs...)
}

// LoadDefaultWhitelist registers the baseline preset (see
// Whitelist.LoadDefault).
func (s *Sanitizer) LoadDefaultWhitelist() {
	s.wl.LoadDefault()
}

// Whitelist returns the whitelist the Sanitizer consults.
func (s *Sanitizer) Whitelist() *Whitelist {
	return s.wl
}

// Sanitize returns input with every non-permitted tag escaped and every
// non-permitted attribute removed. It never fails.
func (s *Sanitizer) Sanitize(input string) string {
	var sb strings.Builder
	sb.Grow(len(input))
	// A strings.Reader only ever reports io.EOF, which run consumes.
	_ = s.run(strings.NewReader(input), &sb)
	return sb.String()
}

// SanitizeBytes is Sanitize for byte slices.
func (s *Sanitizer) SanitizeBytes(b []byte) []byte {
	return []byte(s.Sanitize(string(b)))
}

// SanitizeReader streams sanitized HTML from r to w. Errors from r are
// returned wrapped in ErrTokenize; errors from w are returned as is.
// Output produced before a read error is still written to w.
func (s *Sanitizer) SanitizeReader(r io.Reader, w io.Writer) error {
	bw := bufio.NewWriter(w)
	if err := s.run(r, bw); err != nil {
		if ferr := bw.Flush(); ferr != nil {
			return errors.Join(err, ferr)
		}
		return err
	}
	return bw.Flush()
}

// output is satisfied by both *strings.Builder and *bufio.Writer. The
// latter latches write errors until Flush, so run ignores them.
type output interface {
	io.Writer
	io.StringWriter
	io.ByteWriter
}

func (s *Sanitizer) run(r io.Reader, out output) error {
	er := newEventReader(r)
	for {
		ev, err := er.next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("%w: %w", ErrTokenize, err)
		}

		if ev.kind == textEvent {
			out.WriteString(ev.raw)
			continue
		}

		if ev.kind == markupEvent || !s.tagAllowed(ev) {
			if ev.kind == openingEvent {
				if _, ok := rawTextTags[ev.name]; ok {
					er.leaveRawText()
				}
			}
			tagEscaper.WriteString(out, ev.raw)
			continue
		}

		switch ev.kind {
		case openingEvent:
			out.WriteByte('<')
			out.WriteString(ev.name)
			out.WriteByte(' ')
			s.writeAttrs(out, ev)
			out.WriteByte('>')
		case closingEvent:
			out.WriteString("</")
			out.WriteString(ev.name)
			out.WriteByte('>')
		case selfClosingEvent:
			out.WriteByte('<')
			out.WriteString(ev.name)
			out.WriteByte(' ')
			s.writeAttrs(out, ev)
			out.WriteString("/>")
		}
	}
}

func (s *Sanitizer) tagAllowed(ev event) bool {
	d := Defer
	if s.policy != nil {
		d = s.policy.DecideTag(ev.name, ev.pos)
	}
	if d == Defer {
		d = s.wl.DecideTag(ev.name, ev.pos)
	}
	s.logger.LogAttrs(context.Background(), slog.LevelDebug, "tag",
		slog.String("tag", ev.name),
		slog.String("kind", ev.kind.String()),
		slog.Int("offset", ev.pos.Offset),
		slog.Int("line", ev.pos.Line),
		slog.String("decision", d.String()),
	)
	return d == Allow
}

func (s *Sanitizer) attrAllowed(tag, attr string, pos Position) bool {
	d := Defer
	if s.policy != nil {
		d = s.policy.DecideAttribute(tag, attr, pos)
	}
	if d == Defer {
		d = s.wl.DecideAttribute(tag, attr, pos)
	}
	return d == Allow
}

// writeAttrs emits the permitted attributes of ev, each followed by a
// space: the bare name when the value is empty, name="value" otherwise.
// The tokenizer hands over decoded values, so & and " are encoded again
// on the way out; the value is otherwise left as the input had it.
func (s *Sanitizer) writeAttrs(out output, ev event) {
	for _, a := range ev.attrs {
		if !s.attrAllowed(ev.name, a.Name, ev.pos) {
			s.logger.LogAttrs(context.Background(), slog.LevelDebug, "attribute dropped",
				slog.String("tag", ev.name),
				slog.String("attr", a.Name),
				slog.Int("offset", ev.pos.Offset),
			)
			continue
		}
		val := a.Value
		if s.values != nil {
			var ok bool
			if val, ok = s.values.FilterValue(ev.name, a.Name, val); !ok {
				s.logger.LogAttrs(context.Background(), slog.LevelDebug, "attribute value rejected",
					slog.String("tag", ev.name),
					slog.String("attr", a.Name),
					slog.Int("offset", ev.pos.Offset),
				)
				continue
			}
		}
		out.WriteString(a.Name)
		if val != "" {
			out.WriteString(`="`)
			valueEncoder.WriteString(out, val)
			out.WriteByte('"')
		}
		out.WriteByte(' ')
	}
}

var (
	tagEscaper   = strings.NewReplacer("<", "&lt;", ">", "&gt;")
	valueEncoder = strings.NewReplacer("&", "&amp;", `"`, "&quot;")
)
