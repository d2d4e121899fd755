package application

import "testing"

func TestEscapeContent(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "markup", input: "<b>hi</b>", want: "&lt;b&gt;hi&lt;/b&gt;"},
		{name: "ampersand first", input: "a & <b>", want: "a &amp; &lt;b&gt;"},
		{name: "already escaped", input: "&lt;", want: "&amp;lt;"},
		{name: "quotes untouched", input: `say "hi" it's`, want: `say "hi" it's`},
		{name: "plain text", input: "hello world", want: "hello world"},
		{name: "unicode", input: "héllo <🙂>", want: "héllo &lt;🙂&gt;"},
		{name: "empty", input: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EscapeContent(tt.input); got != tt.want {
				t.Errorf("EscapeContent(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
