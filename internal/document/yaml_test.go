package document

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func parse(t *testing.T, src string, resolve TagResolver) (Value, error) {
	t.Helper()

	var node yaml.Node
	require.NoError(t, yaml.Unmarshal([]byte(src), &node))
	return FromNode(&node, resolve)
}

func TestFromNodeScalarsKeepTheirTypes(t *testing.T) {
	v, err := parse(t, "s: hello\nquoted: \"12\"\ni: 12\nhex: 0x10\nf: 2.5\nb: yes\nt: true\nn: ~\n", nil)
	require.NoError(t, err)

	expect := map[string]Value{
		"s":      Str("hello"),
		"quoted": Str("12"),
		"i":      Int(12),
		"hex":    Int(16),
		"f":      Float(2.5),
		"b":      Str("yes"),
		"t":      Bool(true),
		"n":      Null(),
	}
	for key, want := range expect {
		got, ok := v.Get(key)
		require.True(t, ok, key)
		require.True(t, want.Equal(got), "%s: want %v (%s), got %v (%s)", key, want, want.Kind(), got, got.Kind())
	}
}

func TestFromNodeAliasesAndMergeKeys(t *testing.T) {
	src := `
base: &base
  host: example.com
  port: 80
service:
  <<: *base
  port: 8080
`
	v, err := parse(t, src, nil)
	require.NoError(t, err)

	service, ok := v.Get("service")
	require.True(t, ok)
	host, _ := service.Get("host")
	port, _ := service.Get("port")
	require.True(t, host.Equal(Str("example.com")))
	require.True(t, port.Equal(Int(8080)))
}

func TestFromNodeRejectsDuplicateKeys(t *testing.T) {
	_, err := parse(t, "a: 1\na: 2\n", nil)

	var dup DuplicateKeyError
	require.ErrorAs(t, err, &dup)
	require.Equal(t, "a", dup.Key)
}

func TestFromNodeApplicationTags(t *testing.T) {
	t.Run("without resolver", func(t *testing.T) {
		_, err := parse(t, "a: !include other.yaml\n", nil)

		var unknown UnknownTagError
		require.ErrorAs(t, err, &unknown)
		require.Equal(t, "!include", unknown.Tag)
	})

	t.Run("with resolver", func(t *testing.T) {
		v, err := parse(t, "a: !upper other\n", func(node *yaml.Node) (Value, error) {
			return Str("resolved:" + node.Value), nil
		})
		require.NoError(t, err)

		a, _ := v.Get("a")
		require.True(t, a.Equal(Str("resolved:other")))
	})
}

func TestFromNodeReusedAnchorsAreNotCycles(t *testing.T) {
	v, err := parse(t, "base: &b {port: 80}\none: *b\ntwo: [*b, *b]\nthree:\n  <<: *b\n", nil)
	require.NoError(t, err)

	port := NewMap().Set("port", Int(80))
	two, _ := v.Get("two")
	require.True(t, two.Equal(List(port, port)))
	three, _ := v.Get("three")
	require.True(t, three.Equal(port))
}

func TestFromNodeAliasCycle(t *testing.T) {
	_, err := parse(t, "a: &a\n  b:\n    c: *a\n", nil)

	var cycle AliasCycleError
	require.ErrorAs(t, err, &cycle)
	require.Equal(t, "a", cycle.Anchor)
}

func TestMarshalYAMLKeepsInsertionOrder(t *testing.T) {
	v := NewMap().Set("z", Int(1)).Set("a", Strings([]string{"x"})).Set("num", Str("12"))

	out, err := yaml.Marshal(v)
	require.NoError(t, err)
	require.Equal(t, "z: 1\na:\n    - x\nnum: \"12\"\n", string(out))
}
