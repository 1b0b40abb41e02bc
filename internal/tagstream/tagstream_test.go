package tagstream

import (
	"context"
	"errors"
	"reflect"
	"testing"
)

func TestCollect(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected []Event
	}{
		{
			name:  "nested inline formatting",
			input: "<p>Hi <b>there</b></p>",
			expected: []Event{
				{Kind: StartTag, Name: "p"},
				{Kind: TextData, Text: "Hi "},
				{Kind: StartTag, Name: "b"},
				{Kind: TextData, Text: "there"},
				{Kind: EndTag, Name: "b"},
				{Kind: EndTag, Name: "p"},
			},
		},
		{
			name:  "tag names lowercased",
			input: "<UL><LI>x</LI></UL>",
			expected: []Event{
				{Kind: StartTag, Name: "ul"},
				{Kind: StartTag, Name: "li"},
				{Kind: TextData, Text: "x"},
				{Kind: EndTag, Name: "li"},
				{Kind: EndTag, Name: "ul"},
			},
		},
		{
			name:  "entities decoded",
			input: "<code>a &lt; b &amp;&amp; c</code>",
			expected: []Event{
				{Kind: StartTag, Name: "code"},
				{Kind: TextData, Text: "a < b && c"},
				{Kind: EndTag, Name: "code"},
			},
		},
		{
			name:  "self closing yields start and end",
			input: "a<br/>b",
			expected: []Event{
				{Kind: TextData, Text: "a"},
				{Kind: StartTag, Name: "br"},
				{Kind: EndTag, Name: "br"},
				{Kind: TextData, Text: "b"},
			},
		},
		{
			name:  "attributes captured",
			input: `<a href="https://example.com" title="t">x</a>`,
			expected: []Event{
				{Kind: StartTag, Name: "a", Attrs: []Attr{{Key: "href", Val: "https://example.com"}, {Key: "title", Val: "t"}}},
				{Kind: TextData, Text: "x"},
				{Kind: EndTag, Name: "a"},
			},
		},
		{
			name:  "comments skipped",
			input: "<!-- note -->x",
			expected: []Event{
				{Kind: TextData, Text: "x"},
			},
		},
		{
			name:  "unmatched end tag reported",
			input: "</ul>x",
			expected: []Event{
				{Kind: EndTag, Name: "ul"},
				{Kind: TextData, Text: "x"},
			},
		},
		{
			name:     "empty input",
			input:    "",
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := Collect(tt.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("Collect(%q)\n got: %+v\nwant: %+v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestEventAttr(t *testing.T) {
	t.Parallel()

	ev := Event{Kind: StartTag, Name: "a", Attrs: []Attr{{Key: "href", Val: "u"}}}
	if v, ok := ev.Attr("href"); !ok || v != "u" {
		t.Errorf("Attr(href) = %q, %v", v, ok)
	}
	if _, ok := ev.Attr("title"); ok {
		t.Error("expected missing attribute")
	}
}

func TestWalk_HandlerErrorStops(t *testing.T) {
	t.Parallel()

	stop := errors.New("stop")
	count := 0
	err := Walk(context.Background(), "<p>a</p><p>b</p>", HandlerFunc(func(Event) error {
		count++
		if count == 2 {
			return stop
		}
		return nil
	}))
	if !errors.Is(err, stop) {
		t.Fatalf("expected stop error, got %v", err)
	}
	if count != 2 {
		t.Errorf("handler called %d times, want 2", count)
	}
}

func TestWalk_CanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := Walk(ctx, "<p>a</p>", HandlerFunc(func(Event) error { return nil }))
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestKindString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		kind Kind
		want string
	}{
		{StartTag, "StartTag"},
		{EndTag, "EndTag"},
		{TextData, "TextData"},
		{Kind(42), "Unknown"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("Kind(%d).String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}
