package native

import (
	"strings"
	"testing"

	"ember/interpreter-go/pkg/runtime"
)

func TestMarkdownToHTML(t *testing.T) {
	m := stdModule(t, "std.markdown")
	if got := asString(t, callOK(t, m, "to_html", str("# Hello"))); got != "<h1>Hello</h1>\n" {
		t.Fatalf("to_html() = %q", got)
	}

	got := asString(t, callOK(t, m, "to_html", str("some **bold** text")))
	if !strings.Contains(got, "<strong>bold</strong>") {
		t.Fatalf("to_html() = %q, want a <strong> span", got)
	}
}

func TestMarkdownArgumentErrors(t *testing.T) {
	m := stdModule(t, "std.markdown")
	wantErr(t, m, "to_html", "Expected 1 argument")
	wantErr(t, m, "to_html", "Expected String", runtime.IntValue{Val: 3})
}
