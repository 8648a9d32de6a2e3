// Package parser splits script lines into a command word and its
// arguments, and binds the arguments to a command's declared parameters.
// Intentionally dumb: whitespace tokens, no quoting, no expressions.
package parser

import (
	"strconv"
	"strings"

	"github.com/nathoo/skirmish/engine/diag"
)

// Line is one tokenized script line.
type Line struct {
	Command string
	Args    []string
}

// Parse splits a raw line on whitespace. Blank lines and full-line
// comments yield ok == false.
func Parse(input string) (Line, bool) {
	input = strings.TrimSpace(input)
	if input == "" || strings.HasPrefix(input, "#") {
		return Line{}, false
	}
	words := strings.Fields(input)
	return Line{Command: words[0], Args: words[1:]}, true
}

// Args holds bound argument values keyed by parameter name.
type Args struct {
	names  []string
	values map[string]string
}

// Get returns the value bound to a parameter.
func (a Args) Get(name string) string { return a.values[name] }

// At returns the value of the i-th declared parameter.
func (a Args) At(i int) string { return a.values[a.names[i]] }

// Len is the number of bound parameters.
func (a Args) Len() int { return len(a.names) }

// Bind maps tokens onto params. The style is fixed by the first token:
// if it contains '=', every token must be name=value; otherwise every
// token is positional and may not contain '='.
func Bind(command string, params, tokens []string) (Args, error) {
	// 1. Arity.
	if len(tokens) != len(params) {
		return Args{}, diag.Errorf(diag.Syntax, "%s expects %d arguments (%s), got %d",
			command, len(params), strings.Join(params, ", "), len(tokens))
	}

	args := Args{names: params, values: make(map[string]string, len(params))}
	if len(tokens) == 0 {
		return args, nil
	}

	// 2. Positional.
	if !strings.Contains(tokens[0], "=") {
		for i, tok := range tokens {
			if strings.Contains(tok, "=") {
				return Args{}, diag.Errorf(diag.Binding,
					"%s: argument %d (%s) is named but earlier arguments are positional", command, i+1, tok)
			}
			args.values[params[i]] = tok
		}
		return args, nil
	}

	// 3. Named.
	for _, tok := range tokens {
		name, value, ok := strings.Cut(tok, "=")
		if !ok {
			return Args{}, diag.Errorf(diag.Binding,
				"%s: argument '%s' is positional but earlier arguments are named", command, tok)
		}
		if !contains(params, name) {
			return Args{}, diag.Errorf(diag.Binding, "%s has no parameter named '%s'", command, name).
				Suggest(name, params, diag.ArgumentThreshold)
		}
		if _, dup := args.values[name]; dup {
			return Args{}, diag.Errorf(diag.Binding, "%s: parameter '%s' given twice", command, name)
		}
		args.values[name] = value
	}
	return args, nil
}

// Int parses an integer argument. A leading '@' is stripped and reported
// as absolute.
func Int(param, value string) (n int, absolute bool, err error) {
	absolute = strings.HasPrefix(value, "@")
	n, convErr := strconv.Atoi(strings.TrimPrefix(value, "@"))
	if convErr != nil {
		return 0, false, diag.Errorf(diag.Resolution, "argument '%s' must be an integer, got '%s'", param, value)
	}
	return n, absolute, nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
