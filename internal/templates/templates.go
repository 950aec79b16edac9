// Package templates provides the detail templates used to seed new records.
//
// Built-in templates are embedded in the binary. A store may override or
// extend them with files in its templates/ directory; a project template
// wins over a built-in template of the same name. Project templates may be
// structured YAML, or legacy "[section]" text (.txt) or markdown (.md).
package templates

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bugtrack/b/internal/markup"
	"github.com/bugtrack/b/internal/storage"
	"github.com/bugtrack/b/internal/storage/recordfile"
	"github.com/bugtrack/b/internal/types"
)

//go:embed builtin/*.yaml
var builtinFS embed.FS

// Default is the template used when none is named.
const Default = "bug"

// Template is a named set of detail sections and a record type.
type Template struct {
	Name    string
	Type    string
	Details types.Details
}

// Info describes where a template comes from.
type Info struct {
	Name   string
	Path   string // file path, or "builtin/<name>.yaml" for built-ins
	Custom bool
}

// Provider resolves template names for one store.
type Provider struct {
	// Dir is the store directory; its templates/ subdirectory holds
	// project templates.
	Dir string
}

// NewProvider returns a provider for the store in dir.
func NewProvider(dir string) *Provider {
	return &Provider{Dir: dir}
}

func (p *Provider) customDir() string {
	return filepath.Join(p.Dir, storage.TemplatesDir)
}

func builtins() map[string]Info {
	out := make(map[string]Info)
	entries, _ := fs.ReadDir(builtinFS, "builtin")
	for _, e := range entries {
		name := strings.TrimSuffix(e.Name(), path.Ext(e.Name()))
		out[name] = Info{Name: name, Path: path.Join("builtin", e.Name())}
	}
	return out
}

func (p *Provider) custom() map[string]Info {
	out := make(map[string]Info)
	entries, err := os.ReadDir(p.customDir())
	if err != nil {
		return out
	}
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		switch filepath.Ext(e.Name()) {
		case storage.ExtStructured, storage.ExtText, storage.ExtMarkdown:
		default:
			continue
		}
		name := strings.TrimSuffix(e.Name(), filepath.Ext(e.Name()))
		out[name] = Info{Name: name, Path: filepath.Join(p.customDir(), e.Name()), Custom: true}
	}
	return out
}

// List returns the available templates sorted by name. onlyDefaults limits
// the result to built-ins, onlyCustom to project templates.
func (p *Provider) List(onlyDefaults, onlyCustom bool) ([]Info, error) {
	if onlyDefaults && onlyCustom {
		return nil, storage.CommandError("cannot list only default and only custom templates at once")
	}
	merged := make(map[string]Info)
	if !onlyCustom {
		for k, v := range builtins() {
			merged[k] = v
		}
	}
	if !onlyDefaults {
		for k, v := range p.custom() {
			merged[k] = v
		}
	}
	out := make([]Info, 0, len(merged))
	for _, v := range merged {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// Lookup finds the named template, preferring a project template.
func (p *Provider) Lookup(name string) (Info, error) {
	if info, ok := p.custom()[name]; ok {
		return info, nil
	}
	if info, ok := builtins()[name]; ok {
		return info, nil
	}
	return Info{}, storage.TemplateError("template %q does not exist", name)
}

// Load reads and parses the named template.
func (p *Provider) Load(name string) (*Template, error) {
	info, err := p.Lookup(name)
	if err != nil {
		return nil, err
	}
	var data []byte
	if info.Custom {
		data, err = os.ReadFile(info.Path) // #nosec G304 - template inside the store
	} else {
		data, err = builtinFS.ReadFile(info.Path)
	}
	if err != nil {
		return nil, storage.TemplateError("failed to read template %q: %v", name, err)
	}

	t := &Template{Name: name}
	switch filepath.Ext(info.Path) {
	case storage.ExtText:
		t.Details = markup.ParseText(string(data))
	case storage.ExtMarkdown:
		t.Details = markup.ParseMarkdown(string(data))
	default:
		doc, err := recordfile.DecodeDetails(data)
		if err != nil {
			return nil, storage.TemplateError("failed to parse template %q: %v", name, err)
		}
		t.Type, t.Details = doc.Type, doc.Details
	}
	if t.Details == nil {
		t.Details = types.Details{}
	}
	return t, nil
}

// Apply seeds r with the template's type and a copy of its sections.
func (t *Template) Apply(r *types.Record) {
	if r.Type == "" {
		r.Type = t.Type
	}
	r.Details = t.Details.Clone()
}

// Customize copies a built-in template into the project so it can be
// edited, and returns the new path.
func (p *Provider) Customize(name string) (string, error) {
	info, ok := builtins()[name]
	if !ok {
		return "", storage.InputError("the default template %q does not exist; run 'b templates --defaults' for the list", name)
	}
	dest := filepath.Join(p.customDir(), path.Base(info.Path))
	if _, err := os.Stat(dest); err == nil {
		return "", storage.CommandError("template %q already exists at %s", name, dest)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("failed to check %s: %w", dest, err)
	}
	data, err := builtinFS.ReadFile(info.Path)
	if err != nil {
		return "", fmt.Errorf("failed to read built-in template %q: %w", name, err)
	}
	if err := storage.WriteFile(dest, data); err != nil {
		return "", err
	}
	return dest, nil
}

// CustomPath returns the file of a project template, for editing.
func (p *Provider) CustomPath(name string) (string, error) {
	info, ok := p.custom()[name]
	if !ok {
		return "", storage.InputError("custom template %q does not exist; did you mean to customize it first?", name)
	}
	return info.Path, nil
}
