package format

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/eugenenazirov/tavern-settings/internal/document"
)

func testContext() document.Value {
	env := document.FromStringMap(map[string]string{"HOST": "api.example.com", "PORT": "8443"})
	return document.NewMap().
		Set("tavern", document.NewMap().Set("env_vars", env)).
		Set("servers", document.List(document.NewMap().Set("host", document.Str("s0")))).
		Set("retries", document.Int(3)).
		Set("headers", document.NewMap().Set("Content-Type", document.Str("application/json")))
}

func TestString(t *testing.T) {
	testCases := []struct {
		name  string
		input string
		want  document.Value
	}{
		{name: "no placeholders", input: "plain", want: document.Str("plain")},
		{name: "env var", input: "https://{tavern.env_vars.HOST}:{tavern.env_vars.PORT}/", want: document.Str("https://api.example.com:8443/")},
		{name: "escaped braces", input: "{{literal}} {retries}", want: document.Str("{literal} 3")},
		{name: "list index", input: "{servers[0].host}", want: document.Str("s0")},
		{name: "bracket key", input: "{headers[Content-Type]}", want: document.Str("application/json")},
		{name: "single placeholder keeps type", input: "{retries}", want: document.Int(3)},
		{name: "single placeholder container", input: "{servers}", want: document.List(document.NewMap().Set("host", document.Str("s0")))},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := String(tc.input, testContext())
			require.NoError(t, err)
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Fatalf("unexpected result (-want +got):\n%s", diff)
			}
		})
	}
}

func TestStringErrors(t *testing.T) {
	testCases := []struct {
		name   string
		input  string
		target error
	}{
		{name: "missing variable", input: "{tavern.env_vars.NOPE}", target: ErrMissingFormat},
		{name: "missing root", input: "x {nothing} y", target: ErrMissingFormat},
		{name: "index out of range", input: "{servers[3].host}", target: ErrMissingFormat},
		{name: "unclosed", input: "{tavern", target: ErrSyntax},
		{name: "single closing brace", input: "oops}", target: ErrSyntax},
		{name: "empty placeholder", input: "{}", target: ErrSyntax},
		{name: "format spec", input: "{retries:d}", target: ErrSyntax},
		{name: "conversion", input: "{retries!r}", target: ErrSyntax},
		{name: "malformed path", input: "{tavern..env_vars}", target: ErrSyntax},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := String(tc.input, testContext())
			require.Error(t, err)
			require.True(t, errors.Is(err, tc.target), "got %v", err)
		})
	}
}

func TestStringRejectsEmbeddedContainers(t *testing.T) {
	_, err := String("servers: {servers}", testContext())

	var nonScalar NonScalarError
	require.ErrorAs(t, err, &nonScalar)
	require.Equal(t, "servers", nonScalar.Key)
}

func TestKeysWalksTheTree(t *testing.T) {
	in := document.NewMap().
		Set("{retries}", document.Str("{retries}")).
		Set("url", document.Str("http://{tavern.env_vars.HOST}")).
		Set("nested", document.List(document.Str("{servers[0].host}"), document.Int(7), document.Bool(true)))

	got, err := Formatter{}.Format(in, testContext())
	require.NoError(t, err)

	want := document.NewMap().
		Set("{retries}", document.Int(3)).
		Set("url", document.Str("http://api.example.com")).
		Set("nested", document.List(document.Str("s0"), document.Int(7), document.Bool(true)))
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("unexpected result (-want +got):\n%s", diff)
	}
	require.Equal(t, []string{"{retries}", "url", "nested"}, got.Keys(), "keys are not formatted")
}
