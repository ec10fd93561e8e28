package printer

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTemplates(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return dir
}

func TestTemplateInclude(t *testing.T) {
	dir := writeTemplates(t, map[string]string{
		"main.j2": "Main: {% include 'sub.j2' %}",
		"sub.j2":  "Sub: {{ variable }}",
	})

	r, err := NewTemplateRenderer(filepath.Join(dir, "main.j2"), map[string]string{"variable": "test"}, nil, nil)
	require.NoError(t, err)

	out, err := r.Render(nil)
	require.NoError(t, err)
	assert.Equal(t, "Main: Sub: test", out)
}

func TestTemplateNestedAndMultipleIncludes(t *testing.T) {
	dir := writeTemplates(t, map[string]string{
		"main.j2": "Main: {% include 'sub1.j2' %} and {% include 'sub2.j2' %}",
		"sub1.j2": "Sub1: {% include 'sub3.j2' %}",
		"sub2.j2": "Sub2: {{ var2 }}",
		"sub3.j2": "Sub3: {{ var1 }}",
	})

	r, err := NewTemplateRenderer(filepath.Join(dir, "main.j2"), map[string]string{"var1": "first", "var2": "second"}, nil, nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"var1", "var2"}, r.Variables())

	out, err := r.Render(nil)
	require.NoError(t, err)
	assert.Equal(t, "Main: Sub1: Sub3: first and Sub2: second", out)
}

func TestTemplateFilesContext(t *testing.T) {
	dir := writeTemplates(t, map[string]string{
		"main.j2": "{% for file in files %}[{{ file.path }}|{{ file.language }}|{{ file.content }}]{% endfor %}",
	})

	r, err := NewTemplateRenderer(filepath.Join(dir, "main.j2"), nil, nil, nil)
	require.NoError(t, err)

	out, err := r.Render(sampleFiles())
	require.NoError(t, err)
	assert.Equal(t, "[src/main.py|python|print('Hello')][README|unknown|hi]", out)
}

func TestTemplateDoesNotEscape(t *testing.T) {
	dir := writeTemplates(t, map[string]string{"main.j2": "{{ code }}"})

	r, err := NewTemplateRenderer(filepath.Join(dir, "main.j2"), map[string]string{"code": "a < b && c > d"}, nil, nil)
	require.NoError(t, err)

	out, err := r.Render(nil)
	require.NoError(t, err)
	assert.Equal(t, "a < b && c > d", out)
}

func TestTemplateCircularInclude(t *testing.T) {
	dir := writeTemplates(t, map[string]string{
		"template1.j2": "T1: {% include 'template2.j2' %}",
		"template2.j2": "T2: {% include 'template1.j2' %}",
	})

	_, err := NewTemplateRenderer(filepath.Join(dir, "template1.j2"), nil, nil, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrCircularInclude))
	assert.Contains(t, err.Error(), "template2.j2")

	self := writeTemplates(t, map[string]string{"loop.j2": `{% include "loop.j2" %}`})
	_, err = NewTemplateRenderer(filepath.Join(self, "loop.j2"), nil, nil, nil)
	assert.ErrorIs(t, err, ErrCircularInclude)
}

func TestTemplateSharedIncludeIsNotCircular(t *testing.T) {
	dir := writeTemplates(t, map[string]string{
		"main.j2":   "{% include 'a.j2' %}{% include 'b.j2' %}",
		"a.j2":      "A{% include 'common.j2' %}",
		"b.j2":      "B{% include 'common.j2' %}",
		"common.j2": "c",
	})

	r, err := NewTemplateRenderer(filepath.Join(dir, "main.j2"), nil, nil, nil)
	require.NoError(t, err)
	out, err := r.Render(nil)
	require.NoError(t, err)
	assert.Equal(t, "AcBc", out)
}

func TestTemplateMissingVariable(t *testing.T) {
	dir := writeTemplates(t, map[string]string{"main.j2": "Hi {{ name }}, {{ files }}"})

	r, err := NewTemplateRenderer(filepath.Join(dir, "main.j2"), nil, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"name"}, r.Variables())

	_, err = r.Render(nil)
	assert.ErrorIs(t, err, ErrMissingVariable)
	assert.Contains(t, err.Error(), "name")
}

func TestTemplatePromptsForVariables(t *testing.T) {
	dir := writeTemplates(t, map[string]string{"main.j2": "{{ greeting }}, {{ name }}!"})

	var asked []string
	prompt := func(name string) (string, error) {
		asked = append(asked, name)
		return "world", nil
	}
	r, err := NewTemplateRenderer(filepath.Join(dir, "main.j2"), map[string]string{"greeting": "Hello"}, prompt, nil)
	require.NoError(t, err)

	out, err := r.Render(nil)
	require.NoError(t, err)
	assert.Equal(t, "Hello, world!", out)
	assert.Equal(t, []string{"name"}, asked)
}

func TestTemplateInvalidVariableName(t *testing.T) {
	dir := writeTemplates(t, map[string]string{"main.j2": "x"})
	_, err := NewTemplateRenderer(filepath.Join(dir, "main.j2"), map[string]string{"bad-name": "v"}, nil, nil)
	assert.Error(t, err)
}

func TestTemplateMissingFile(t *testing.T) {
	_, err := NewTemplateRenderer(filepath.Join(t.TempDir(), "nope.j2"), nil, nil, nil)
	assert.Error(t, err)
}
