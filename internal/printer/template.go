package printer

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/bethropolis/code-prompt/internal/utils"
	"github.com/flosch/pongo2/v6"
)

var (
	// ErrCircularInclude is returned when a template includes itself,
	// directly or through other templates.
	ErrCircularInclude = errors.New("printer: circular template include")
	// ErrMissingVariable is returned when a template variable has no value
	// and no prompter is available.
	ErrMissingVariable = errors.New("printer: template variable has no value")
)

var (
	includeRegex  = regexp.MustCompile(`{%-?\s*include\s+["']([^"']+)["']`)
	userVarRegex  = regexp.MustCompile(`\{\{\s*(\w+)\s*\}\}`)
	varNameRegex  = regexp.MustCompile(`^\w+$`)
	reservedNames = map[string]struct{}{
		"files":   {},
		"true":    {},
		"false":   {},
		"none":    {},
		"forloop": {},
		"pongo2":  {},
	}
)

func init() {
	// Output is plain text, not HTML.
	pongo2.SetAutoescape(false)
}

// Prompter asks the user for the value of a template variable.
type Prompter func(name string) (string, error)

// TemplateRenderer renders selected files through a Jinja-style template.
// Includes are resolved relative to the template's directory.
type TemplateRenderer struct {
	path    string
	baseDir string
	sources map[string]string // resolved path -> content, main template first
	order   []string
	vars    map[string]string
	prompt  Prompter
	log     utils.Logger
}

// NewTemplateRenderer loads the template at path and every template it
// includes. vars supplies user variables; prompt, when non-nil, is asked for
// any variable left without a value.
func NewTemplateRenderer(path string, vars map[string]string, prompt Prompter, log utils.Logger) (*TemplateRenderer, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("printer: template %s: %w", path, err)
	}

	r := &TemplateRenderer{
		path:    abs,
		baseDir: filepath.Dir(abs),
		sources: make(map[string]string),
		vars:    make(map[string]string, len(vars)),
		prompt:  prompt,
		log:     utils.OrNoop(log),
	}
	for k, v := range vars {
		if !varNameRegex.MatchString(k) {
			return nil, fmt.Errorf("printer: invalid template variable name %q", k)
		}
		r.vars[k] = v
	}

	if err := r.load(abs, nil); err != nil {
		return nil, err
	}
	return r, nil
}

// load reads one template and follows its includes depth first. stack holds
// the chain of templates currently being expanded.
func (r *TemplateRenderer) load(path string, stack []string) error {
	for _, p := range stack {
		if p == path {
			chain := append(append([]string{}, stack...), path)
			return fmt.Errorf("%w: %s", ErrCircularInclude, strings.Join(chain, " -> "))
		}
	}

	source, ok := r.sources[path]
	if !ok {
		raw, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("printer: load template: %w", err)
		}
		source = string(raw)
		r.sources[path] = source
		r.order = append(r.order, path)
	}

	stack = append(stack, path)
	for _, m := range includeRegex.FindAllStringSubmatch(source, -1) {
		name := m[1]
		if !filepath.IsAbs(name) {
			name = filepath.Join(r.baseDir, filepath.FromSlash(name))
		}
		if err := r.load(name, stack); err != nil {
			return err
		}
	}
	return nil
}

// Variables lists the bare {{ name }} variables used by the template and its
// includes, in order of first appearance.
func (r *TemplateRenderer) Variables() []string {
	seen := make(map[string]struct{})
	var names []string
	for _, path := range r.order {
		for _, m := range userVarRegex.FindAllStringSubmatch(r.sources[path], -1) {
			name := m[1]
			if _, reserved := reservedNames[name]; reserved {
				continue
			}
			if _, dup := seen[name]; dup {
				continue
			}
			seen[name] = struct{}{}
			names = append(names, name)
		}
	}
	return names
}

// resolveVariables fills in every variable the template needs.
func (r *TemplateRenderer) resolveVariables() (map[string]string, error) {
	values := make(map[string]string, len(r.vars))
	for k, v := range r.vars {
		values[k] = v
	}

	var missing []string
	for _, name := range r.Variables() {
		if _, ok := values[name]; ok {
			continue
		}
		if r.prompt == nil {
			missing = append(missing, name)
			continue
		}
		value, err := r.prompt(name)
		if err != nil {
			return nil, fmt.Errorf("printer: read value for %q: %w", name, err)
		}
		values[name] = value
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, fmt.Errorf("%w: %s (pass them with --var name=value)", ErrMissingVariable, strings.Join(missing, ", "))
	}
	return values, nil
}

// Render executes the template with the files and the user variables.
func (r *TemplateRenderer) Render(files []FileData) (string, error) {
	values, err := r.resolveVariables()
	if err != nil {
		return "", err
	}

	ctx := pongo2.Context{}
	for k, v := range values {
		ctx[k] = v
	}
	items := make([]map[string]interface{}, 0, len(files))
	for _, f := range files {
		items = append(items, f.templateValue())
	}
	ctx["files"] = items

	loader, err := pongo2.NewLocalFileSystemLoader(r.baseDir)
	if err != nil {
		return "", fmt.Errorf("printer: template loader: %w", err)
	}
	set := pongo2.NewSet("code-prompt", loader)

	tpl, err := set.FromFile(r.path)
	if err != nil {
		return "", fmt.Errorf("printer: parse template %s: %w", r.path, err)
	}
	r.log.Debug("Rendering template %s with %d files", r.path, len(files))

	out, err := tpl.Execute(ctx)
	if err != nil {
		return "", fmt.Errorf("printer: render template %s: %w", r.path, err)
	}
	return out, nil
}
