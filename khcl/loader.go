package khcl

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/birdayz/kjoint/kjoint"
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
)

// Loader reads producer blocks from HCL files into a kjoint.Model.
type Loader struct {
	log       *slog.Logger
	functions map[string]function.Function
}

type Option func(*Loader)

var WithLog = func(log *slog.Logger) Option {
	return func(l *Loader) {
		if log != nil {
			l.log = log
		}
	}
}

// WithFunction makes fn callable from producer expressions, replacing any
// built-in function of the same name.
var WithFunction = func(name string, fn function.Function) Option {
	return func(l *Loader) {
		l.functions[name] = fn
	}
}

func NewLoader(opts ...Option) *Loader {
	l := &Loader{
		log:       kjoint.NullLogger(),
		functions: Functions(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// fileRoot is the top-level schema of a model file.
type fileRoot struct {
	Producers []*producerBlock `hcl:"producer,block"`
}

type producerBlock struct {
	Name string   `hcl:"name,label"`
	Body hcl.Body `hcl:",remain"`
}

// producerSchema makes value required, which gohcl does not do for
// hcl.Expression fields.
var producerSchema = &hcl.BodySchema{
	Attributes: []hcl.AttributeSchema{
		{Name: "value", Required: true},
	},
}

// Load parses every .hcl file among paths, walking directories, and returns
// one model holding all producers in file order.
func (l *Loader) Load(ctx context.Context, paths ...string) (*kjoint.Model, error) {
	files, err := findHCLFiles(paths)
	if err != nil {
		return nil, err
	}
	l.log.DebugContext(ctx, "Discovered HCL files", "count", len(files))

	parser := hclparse.NewParser()
	m := kjoint.NewModel()
	for _, file := range files {
		f, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse HCL file %s: %w", file, diags)
		}
		if err := l.decode(ctx, m, f); err != nil {
			return nil, err
		}
	}

	l.log.DebugContext(ctx, "HCL loading complete", "producers", m.Len())
	return m, nil
}

// Parse decodes a single in-memory file.
func (l *Loader) Parse(ctx context.Context, src []byte, filename string) (*kjoint.Model, error) {
	f, diags := hclparse.NewParser().ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file %s: %w", filename, diags)
	}
	m := kjoint.NewModel()
	if err := l.decode(ctx, m, f); err != nil {
		return nil, err
	}
	return m, nil
}

func (l *Loader) decode(ctx context.Context, m *kjoint.Model, f *hcl.File) error {
	var root fileRoot
	if diags := gohcl.DecodeBody(f.Body, nil, &root); diags.HasErrors() {
		return fmt.Errorf("failed to decode HCL: %w", diags)
	}

	for _, p := range root.Producers {
		content, diags := p.Body.Content(producerSchema)
		if diags.HasErrors() {
			return fmt.Errorf("failed to decode producer %q: %w", p.Name, diags)
		}
		value := content.Attributes["value"]

		mk, err := l.maker(p.Name, value.Expr)
		if err != nil {
			return err
		}
		if err := m.Add(p.Name, mk); err != nil {
			return fmt.Errorf("%s: producer %q: %w", value.Range, p.Name, err)
		}
		l.log.DebugContext(ctx, "Loaded producer", "name", p.Name, "args", mk.Args())
	}
	return nil
}

// maker turns a producer into a kjoint.Maker. Expressions without references
// are evaluated once here; the rest are evaluated on every call with their
// arguments bound as variables.
func (l *Loader) maker(name string, expr hcl.Expression) (kjoint.Maker, error) {
	deps := References(expr)
	if len(deps) == 0 {
		v, diags := expr.Value(&hcl.EvalContext{Functions: l.functions})
		if diags.HasErrors() {
			return kjoint.Maker{}, fmt.Errorf("producer %q: %w", name, diags)
		}
		return kjoint.Fixed(Point{Value: v}), nil
	}

	return kjoint.Func(func(args map[string]any) (kjoint.Distribution, error) {
		vars := make(map[string]cty.Value, len(args))
		for name, arg := range args {
			v, err := ToCty(arg)
			if err != nil {
				return nil, fmt.Errorf("argument %s: %w", name, err)
			}
			vars[name] = v
		}
		v, diags := expr.Value(&hcl.EvalContext{Variables: vars, Functions: l.functions})
		if diags.HasErrors() {
			return nil, diags
		}
		return Point{Value: v}, nil
	}, deps...), nil
}

// References returns the root names expr refers to, deduplicated, in the
// order they first appear.
func References(expr hcl.Expression) []string {
	var names []string
	seen := make(map[string]struct{})
	for _, traversal := range expr.Variables() {
		name := traversal.RootName()
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	return names
}

// findHCLFiles walks paths and returns every .hcl file once, in walk order.
func findHCLFiles(paths []string) ([]string, error) {
	var files []string
	seen := make(map[string]struct{})
	add := func(p string) {
		if _, ok := seen[p]; !ok {
			seen[p] = struct{}{}
			files = append(files, p)
		}
	}

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("error accessing path %s: %w", path, err)
		}
		if !info.IsDir() {
			add(path)
			continue
		}
		err = filepath.WalkDir(path, func(p string, d os.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && filepath.Ext(p) == ".hcl" {
				add(p)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return files, nil
}
