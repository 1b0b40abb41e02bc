// Package tagstream turns an HTML fragment into a flat, ordered stream of
// start-tag, end-tag and text events. It performs no tree building and no
// validation: unmatched or misnested tags are reported as they appear.
package tagstream

import (
	"context"
	"errors"
	"io"
	"strings"

	"golang.org/x/net/html"
)

// Kind identifies the type of an Event.
type Kind int

const (
	StartTag Kind = iota
	EndTag
	TextData
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case StartTag:
		return "StartTag"
	case EndTag:
		return "EndTag"
	case TextData:
		return "TextData"
	default:
		return "Unknown"
	}
}

// Attr is a single tag attribute.
type Attr struct {
	Key string
	Val string
}

// Event is one item of the tag stream. Name is the lowercase tag name for
// tag events; Text holds entity-decoded character data for TextData events.
type Event struct {
	Kind  Kind
	Name  string
	Attrs []Attr
	Text  string
}

// Attr returns the value of the named attribute.
func (e Event) Attr(key string) (string, bool) {
	for _, a := range e.Attrs {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// Handler receives events in document order. Returning an error stops the walk.
type Handler interface {
	HandleEvent(ev Event) error
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(ev Event) error

// HandleEvent calls f(ev).
func (f HandlerFunc) HandleEvent(ev Event) error { return f(ev) }

// Walker yields events from an HTML source.
type Walker struct {
	z       *html.Tokenizer
	pending []Event
}

// NewWalker returns a Walker reading from r.
func NewWalker(r io.Reader) *Walker {
	return &Walker{z: html.NewTokenizer(r)}
}

// Next returns the next event. It returns io.EOF once the input is exhausted.
// Self-closing tags yield a StartTag followed by a matching EndTag.
// Comments and doctypes are skipped.
func (w *Walker) Next() (Event, error) {
	if len(w.pending) > 0 {
		ev := w.pending[0]
		w.pending = w.pending[1:]
		return ev, nil
	}

	for {
		switch w.z.Next() {
		case html.ErrorToken:
			return Event{}, w.z.Err()
		case html.TextToken:
			return Event{Kind: TextData, Text: string(w.z.Text())}, nil
		case html.StartTagToken:
			return w.tagEvent(StartTag), nil
		case html.EndTagToken:
			name, _ := w.z.TagName()
			return Event{Kind: EndTag, Name: string(name)}, nil
		case html.SelfClosingTagToken:
			ev := w.tagEvent(StartTag)
			w.pending = append(w.pending, Event{Kind: EndTag, Name: ev.Name})
			return ev, nil
		case html.CommentToken, html.DoctypeToken:
			continue
		}
	}
}

func (w *Walker) tagEvent(kind Kind) Event {
	name, hasAttr := w.z.TagName()
	ev := Event{Kind: kind, Name: string(name)}
	for hasAttr {
		var key, val []byte
		key, val, hasAttr = w.z.TagAttr()
		ev.Attrs = append(ev.Attrs, Attr{Key: string(key), Val: string(val)})
	}
	return ev
}

// Walk streams every event of src to h in document order.
// The context is checked between events.
func Walk(ctx context.Context, src string, h Handler) error {
	w := NewWalker(strings.NewReader(src))
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		ev, err := w.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if err := h.HandleEvent(ev); err != nil {
			return err
		}
	}
}

// Collect returns every event of src. Intended for inspection and tests.
func Collect(src string) ([]Event, error) {
	var events []Event
	err := Walk(context.Background(), src, HandlerFunc(func(ev Event) error {
		events = append(events, ev)
		return nil
	}))
	return events, err
}
