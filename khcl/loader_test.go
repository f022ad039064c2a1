package khcl

import (
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/birdayz/kjoint/kgraph"
	"github.com/birdayz/kjoint/kjoint"
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty/function/stdlib"
)

const chainRule = `
producer "e" {
  value = 2
}

producer "g" {
  value = e * 10
}

producer "m" {
  value = n + g
}

producer "n" {
  value = 3
}

producer "label" {
  value = format("m=%d", m)
}
`

func parse(t *testing.T, src string, opts ...Option) *kjoint.Model {
	t.Helper()
	m, err := NewLoader(opts...).Parse(context.Background(), []byte(src), "model.hcl")
	assert.NoError(t, err)
	return m
}

func sampleNative(t *testing.T, j *kjoint.Joint, pinned any) map[string]any {
	t.Helper()
	values, err := j.Sample(context.Background(), nil, pinned)
	assert.NoError(t, err)
	out := make(map[string]any, len(values))
	for name, v := range values {
		c, err := ToCty(v)
		assert.NoError(t, err)
		native, err := ToNative(c)
		assert.NoError(t, err)
		out[name] = native
	}
	return out
}

func TestParse(t *testing.T) {
	m := parse(t, chainRule)
	assert.Equal(t, []string{"e", "g", "m", "n", "label"}, m.Names())

	mk, ok := m.Get("m")
	assert.True(t, ok)
	assert.Equal(t, []string{"n", "g"}, mk.Args())

	mk, ok = m.Get("e")
	assert.True(t, ok)
	assert.True(t, mk.IsFixed())

	j, err := kjoint.New(m)
	assert.NoError(t, err)
	assert.Equal(t, []string{"e", "g", "n", "m", "label"}, j.Names())
	assert.Equal(t, map[string]any{"e": 2.0, "g": 20.0, "n": 3.0, "m": 23.0, "label": "m=23"}, sampleNative(t, j, nil))
}

func TestParsePinned(t *testing.T) {
	j := kjoint.MustNew(parse(t, chainRule))
	got := sampleNative(t, j, map[string]any{"g": 100.0})
	assert.Equal(t, 103.0, got["m"])
	assert.Equal(t, "m=103", got["label"])
}

func TestPointLogProb(t *testing.T) {
	j := kjoint.MustNew(parse(t, chainRule))
	ctx := context.Background()

	values, err := j.Sample(ctx, nil, nil)
	assert.NoError(t, err)
	lp, err := j.LogProb(ctx, values)
	assert.NoError(t, err)
	assert.Equal(t, 0.0, lp)

	lp, err = j.LogProb(ctx, map[string]any{"e": 2.0, "g": 20.0, "n": 3.0, "m": 23.0, "label": "m=23"})
	assert.NoError(t, err)
	assert.Equal(t, 0.0, lp)

	lp, err = j.LogProb(ctx, map[string]any{"e": 2.0, "g": 20.0, "n": 3.0, "m": 24.0, "label": "m=24"})
	assert.NoError(t, err)
	assert.True(t, math.IsInf(lp, -1))
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{name: "syntax", src: `producer "a" {`},
		{name: "missing value", src: `producer "a" {}`},
		{name: "unexpected attribute", src: `producer "a" {
  value = 1
  other = 2
}`},
		{name: "bad literal call", src: `producer "a" {
  value = upper(1, 2)
}`},
		{name: "duplicate", src: `producer "a" {
  value = 1
}
producer "a" {
  value = 2
}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewLoader().Parse(context.Background(), []byte(tt.src), "model.hcl")
			assert.Error(t, err)
		})
	}

	t.Run("duplicate is reported as such", func(t *testing.T) {
		_, err := NewLoader().Parse(context.Background(), []byte(tests[4].src), "model.hcl")
		assert.True(t, errors.Is(err, kgraph.ErrNodeAlreadyExists))
	})
}

func TestParseRequiresValue(t *testing.T) {
	m, err := NewLoader().Parse(context.Background(), []byte(`producer "a" {}`), "model.hcl")
	assert.Error(t, err)
	assert.Zero(t, m)

	var diags hcl.Diagnostics
	assert.True(t, errors.As(err, &diags))
	assert.Equal(t, 1, len(diags))
	assert.Equal(t, "Missing required argument", diags[0].Summary)
	assert.Equal(t, "model.hcl", diags[0].Subject.Filename)
}

func TestUnresolvedReferences(t *testing.T) {
	m := parse(t, `
producer "a" {
  value = b + 1
}
`)
	_, err := kjoint.New(m)
	assert.True(t, errors.Is(err, kgraph.ErrUnknownDependency))

	m = parse(t, `
producer "a" {
  value = b + 1
}
producer "b" {
  value = a
}
`)
	_, err = kjoint.New(m)
	assert.True(t, errors.Is(err, kgraph.ErrCycleDetected))
}

func TestEvaluationError(t *testing.T) {
	j := kjoint.MustNew(parse(t, `
producer "a" {
  value = "text"
}
producer "b" {
  value = a * 2
}
`))
	_, err := j.Sample(context.Background(), nil, nil)
	assert.Error(t, err)
	var diags hcl.Diagnostics
	assert.True(t, errors.As(err, &diags))
}

func TestWithFunction(t *testing.T) {
	src := `
producer "a" {
  value = "Mixed"
}
producer "b" {
  value = upper(a)
}
`
	got := sampleNative(t, kjoint.MustNew(parse(t, src)), nil)
	assert.Equal(t, "MIXED", got["b"])

	got = sampleNative(t, kjoint.MustNew(parse(t, src, WithFunction("upper", stdlib.LowerFunc))), nil)
	assert.Equal(t, "mixed", got["b"])
}

func TestReferences(t *testing.T) {
	expr, diags := hclsyntax.ParseExpression([]byte(`max(a, b.x, a) + c[0] + length(d) + 1`), "expr.hcl", hcl.InitialPos)
	assert.False(t, diags.HasErrors())
	assert.Equal(t, []string{"a", "b", "c", "d"}, References(expr))

	expr, diags = hclsyntax.ParseExpression([]byte(`floor(2.5)`), "expr.hcl", hcl.InitialPos)
	assert.False(t, diags.HasErrors())
	assert.Zero(t, References(expr))
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	nested := filepath.Join(dir, "nested")
	assert.NoError(t, os.Mkdir(nested, 0o755))
	assert.NoError(t, os.WriteFile(filepath.Join(dir, "a.hcl"), []byte(`producer "e" {
  value = 2
}`), 0o644))
	assert.NoError(t, os.WriteFile(filepath.Join(nested, "b.hcl"), []byte(`producer "g" {
  value = e * 10
}`), 0o644))
	assert.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o644))

	m, err := NewLoader().Load(context.Background(), dir)
	assert.NoError(t, err)
	assert.Equal(t, []string{"e", "g"}, m.Names())

	t.Run("file paths are used as given", func(t *testing.T) {
		m, err := NewLoader().Load(context.Background(), filepath.Join(dir, "a.hcl"), filepath.Join(dir, "a.hcl"))
		assert.NoError(t, err)
		assert.Equal(t, []string{"e"}, m.Names())
	})

	t.Run("missing path", func(t *testing.T) {
		_, err := NewLoader().Load(context.Background(), filepath.Join(dir, "missing.hcl"))
		assert.True(t, errors.Is(err, os.ErrNotExist))
	})
}
