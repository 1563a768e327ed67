package markdown

import (
	"reflect"
	"testing"
)

func TestFlatten(t *testing.T) {
	source := `# Title

First paragraph with *emphasis* and ` + "`code`" + `.

- alpha
- beta

> quoted wisdom

` + "```go\nfmt.Println(\"skipped\")\n```" + `

Last paragraph.
`

	want := []string{
		"Title",
		"First paragraph with emphasis and code.",
		"Item: alpha",
		"Item: beta",
		"Quote: quoted wisdom",
		"Last paragraph.",
	}
	got := Flatten(source)
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Flatten =\n%q\nwant\n%q", got, want)
	}
}

func TestFlattenEmpty(t *testing.T) {
	if got := Flatten(""); len(got) != 0 {
		t.Errorf("Flatten(\"\") = %q, want no chunks", got)
	}
}

func TestFlattenLinkKeepsText(t *testing.T) {
	got := Flatten("See [the docs](https://example.com) for more.")
	if len(got) != 1 || got[0] != "See the docs for more." {
		t.Errorf("Flatten = %q", got)
	}
}

func TestFlattenJoinsSoftBreaks(t *testing.T) {
	got := Flatten("one line\nsplit over two")
	if len(got) != 1 || got[0] != "one line split over two" {
		t.Errorf("Flatten = %q", got)
	}
}
