package parser

import (
	"strings"
	"testing"

	"github.com/nathoo/skirmish/engine/diag"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name  string
		input string
		ok    bool
		want  Line
	}{
		{"empty string", "", false, Line{}},
		{"whitespace only", " \t ", false, Line{}},
		{"comment", "# spawn a 1 1", false, Line{}},
		{"indented comment", "   #note", false, Line{}},
		{"bare command", "@untrackall", true, Line{Command: "@untrackall", Args: []string{}}},
		{"args", "move  s1\t@6 @5", true, Line{Command: "move", Args: []string{"s1", "@6", "@5"}}},
		{"case kept", "Move s1 1 1", true, Line{Command: "Move", Args: []string{"s1", "1", "1"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Parse(tt.input)
			if ok != tt.ok {
				t.Fatalf("Parse(%q) ok = %v, want %v", tt.input, ok, tt.ok)
			}
			if got.Command != tt.want.Command || strings.Join(got.Args, " ") != strings.Join(tt.want.Args, " ") {
				t.Errorf("Parse(%q) = %+v, want %+v", tt.input, got, tt.want)
			}
		})
	}
}

var moveParams = []string{"src", "x", "y"}

func TestBind_Positional(t *testing.T) {
	args, err := Bind("move", moveParams, []string{"s1", "@6", "5"})
	if err != nil {
		t.Fatal(err)
	}
	if args.Get("src") != "s1" || args.Get("x") != "@6" || args.At(2) != "5" || args.Len() != 3 {
		t.Errorf("bound = %+v", args)
	}
}

func TestBind_Named(t *testing.T) {
	args, err := Bind("move", moveParams, []string{"y=5", "src=s1", "x=@6"})
	if err != nil {
		t.Fatal(err)
	}
	if args.At(0) != "s1" || args.At(1) != "@6" || args.At(2) != "5" {
		t.Errorf("bound = %+v", args)
	}
}

func TestBind_NoParams(t *testing.T) {
	args, err := Bind("noop", nil, nil)
	if err != nil || args.Len() != 0 {
		t.Errorf("Bind = %+v, %v", args, err)
	}
}

func TestBind_Errors(t *testing.T) {
	tests := []struct {
		name       string
		tokens     []string
		kind       diag.Kind
		contains   string
		suggestion string
	}{
		{"too few", []string{"s1", "1"}, diag.Syntax, "src, x, y", ""},
		{"too many", []string{"s1", "1", "2", "3"}, diag.Syntax, "expects 3", ""},
		{"named after positional", []string{"s1", "x=1", "2"}, diag.Binding, "positional", ""},
		{"positional after named", []string{"src=s1", "1", "2"}, diag.Binding, "named", ""},
		{"unknown name", []string{"scr=s1", "x=1", "y=2"}, diag.Binding, "no parameter named 'scr'", "src"},
		{"unknown far name", []string{"src=s1", "speed=1", "y=2"}, diag.Binding, "'speed'", ""},
		{"duplicate", []string{"src=s1", "src=s2", "y=2"}, diag.Binding, "given twice", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Bind("move", moveParams, tt.tokens)
			if err == nil {
				t.Fatal("expected error")
			}
			de, ok := err.(*diag.Error)
			if !ok {
				t.Fatalf("err is %T, want *diag.Error", err)
			}
			if de.Kind != tt.kind {
				t.Errorf("Kind = %v, want %v", de.Kind, tt.kind)
			}
			if !strings.Contains(de.Msg, tt.contains) {
				t.Errorf("Msg = %q, want it to contain %q", de.Msg, tt.contains)
			}
			if de.Suggestion != tt.suggestion {
				t.Errorf("Suggestion = %q, want %q", de.Suggestion, tt.suggestion)
			}
		})
	}
}

func TestInt(t *testing.T) {
	tests := []struct {
		in       string
		n        int
		absolute bool
		ok       bool
	}{
		{"5", 5, false, true},
		{"-2", -2, false, true},
		{"@6", 6, true, true},
		{"@-1", -1, true, true},
		{"six", 0, false, false},
		{"@", 0, false, false},
		{"", 0, false, false},
	}
	for _, tt := range tests {
		n, abs, err := Int("x", tt.in)
		if (err == nil) != tt.ok || n != tt.n || abs != tt.absolute {
			t.Errorf("Int(%q) = %d, %v, %v; want %d, %v, ok=%v", tt.in, n, abs, err, tt.n, tt.absolute, tt.ok)
		}
		if err != nil && diag.KindOf(err) != diag.Resolution {
			t.Errorf("Int(%q) kind = %v, want resolution", tt.in, diag.KindOf(err))
		}
	}
}
