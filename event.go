package xssfilter

import (
	"io"
	"strings"

	"golang.org/x/net/html"
)

// Position locates a token in the input. Offset is a byte offset;
// Line and Column are 1-based, Column counting bytes.
type Position struct {
	Offset int
	Line   int
	Column int
}

// Attr is one attribute of a tag, in the order the tokenizer saw it.
// Value has had character references decoded.
type Attr struct {
	Name  string
	Value string
}

type eventKind int

const (
	textEvent eventKind = iota
	openingEvent
	closingEvent
	selfClosingEvent
	// markupEvent covers comments and doctypes. They carry no name and
	// are never permitted.
	markupEvent
)

func (k eventKind) String() string {
	switch k {
	case textEvent:
		return "text"
	case openingEvent:
		return "opening"
	case closingEvent:
		return "closing"
	case selfClosingEvent:
		return "self-closing"
	default:
		return "markup"
	}
}

// event is one lexical unit of the input.
type event struct {
	kind  eventKind
	raw   string
	name  string
	attrs []Attr
	pos   Position
}

// eventReader turns the x/net/html token stream into events.
type eventReader struct {
	z   *html.Tokenizer
	pos Position
}

func newEventReader(r io.Reader) *eventReader {
	return &eventReader{
		z:   html.NewTokenizer(r),
		pos: Position{Line: 1, Column: 1},
	}
}

// next returns the next event, or the tokenizer's error (io.EOF at the
// end of input).
func (er *eventReader) next() (event, error) {
	tt := er.z.Next()
	if tt == html.ErrorToken {
		return event{}, er.z.Err()
	}

	// Raw must be copied before TagName and TagAttr, which lowercase and
	// unescape the tokenizer's buffer in place.
	ev := event{raw: string(er.z.Raw()), pos: er.pos}
	er.advance(ev.raw)

	switch tt {
	case html.TextToken:
		ev.kind = textEvent
	case html.StartTagToken, html.SelfClosingTagToken:
		ev.kind = openingEvent
		if tt == html.SelfClosingTagToken {
			ev.kind = selfClosingEvent
		}
		name, more := er.z.TagName()
		ev.name = string(name)
		for more {
			var key, val []byte
			key, val, more = er.z.TagAttr()
			ev.attrs = append(ev.attrs, Attr{Name: string(key), Value: string(val)})
		}
	case html.EndTagToken:
		ev.kind = closingEvent
		name, _ := er.z.TagName()
		ev.name = string(name)
	default:
		ev.kind = markupEvent
	}
	return ev, nil
}

// leaveRawText makes the tokenizer read the content following the
// current start tag as markup even if the tag normally opens raw text.
func (er *eventReader) leaveRawText() {
	er.z.NextIsNotRawText()
}

func (er *eventReader) advance(raw string) {
	er.pos.Offset += len(raw)
	if i := strings.LastIndexByte(raw, '\n'); i >= 0 {
		er.pos.Line += strings.Count(raw, "\n")
		er.pos.Column = len(raw) - i
		return
	}
	er.pos.Column += len(raw)
}

// rawTextTags open elements whose content the tokenizer would otherwise
// return as a single text token.
var rawTextTags = map[string]struct{}{
	"iframe":    {},
	"noembed":   {},
	"noframes":  {},
	"noscript":  {},
	"plaintext": {},
	"script":    {},
	"style":     {},
	"textarea":  {},
	"title":     {},
	"xmp":       {},
}
