// Package i18n translates validation failures into the user's language.
//
// A catalog holds rule templates ("min", "email", ...) and field messages
// grouped by scope, usually a schema name or its domain:
//
//	[rules]
//	min = "{{.min}} 이상이어야 합니다"
//
//	[fields.auth]
//	"confirmPassword.refine" = "비밀번호가 일치하지 않습니다"
//
// Templates use text/template with the failure's Params plus "field".
package i18n

import (
	"bytes"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
	"sync"
	"text/template"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/twoojoo/zschema/schema"
)

// DefaultLocale is used when no locale is requested.
const DefaultLocale = "en"

//go:embed locales/*
var localeFS embed.FS

// Catalog is the message set of one locale. It is safe for concurrent use.
type Catalog struct {
	Locale string                       `toml:"locale" yaml:"locale"`
	Rules  map[string]string            `toml:"rules" yaml:"rules"`
	Fields map[string]map[string]string `toml:"fields" yaml:"fields"`

	mu        sync.Mutex
	templates map[string]*template.Template
}

var funcs = template.FuncMap{
	"join": func(v any, sep string) string {
		switch list := v.(type) {
		case []string:
			return strings.Join(list, sep)
		case []any:
			parts := make([]string, len(list))
			for i, s := range list {
				parts[i] = fmt.Sprint(s)
			}
			return strings.Join(parts, sep)
		}
		return fmt.Sprint(v)
	},
}

var (
	loadMu sync.Mutex
	loaded = map[string]*Catalog{}
)

// Locales returns the embedded locales, sorted.
func Locales() []string {
	entries, _ := fs.ReadDir(localeFS, "locales")
	var out []string
	for _, e := range entries {
		name := e.Name()
		out = append(out, strings.TrimSuffix(name, path.Ext(name)))
	}
	sort.Strings(out)
	return out
}

// Load returns the embedded catalog for locale. Region suffixes are ignored,
// so "ko-KR" and "ko_KR" load "ko". An empty locale loads DefaultLocale.
func Load(locale string) (*Catalog, error) {
	lang := normalize(locale)

	loadMu.Lock()
	defer loadMu.Unlock()
	if c, ok := loaded[lang]; ok {
		return c, nil
	}

	for _, ext := range []string{".toml", ".yaml", ".yml"} {
		name := "locales/" + lang + ext
		data, err := localeFS.ReadFile(name)
		if err != nil {
			continue
		}
		c, err := Parse(name, data)
		if err != nil {
			return nil, err
		}
		loaded[lang] = c
		return c, nil
	}
	return nil, fmt.Errorf("i18n: unsupported locale %q", locale)
}

func normalize(locale string) string {
	if locale == "" {
		return DefaultLocale
	}
	lang, _, _ := strings.Cut(strings.ReplaceAll(locale, "_", "-"), "-")
	return strings.ToLower(lang)
}

// Parse decodes a catalog file. The format is chosen by the extension of
// name: .toml, .yaml or .yml.
func Parse(name string, data []byte) (*Catalog, error) {
	c := &Catalog{}
	switch path.Ext(name) {
	case ".toml":
		if err := toml.Unmarshal(data, c); err != nil {
			return nil, fmt.Errorf("i18n: parse %s: %w", name, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, c); err != nil {
			return nil, fmt.Errorf("i18n: parse %s: %w", name, err)
		}
	default:
		return nil, fmt.Errorf("i18n: unsupported catalog format %q", name)
	}
	if c.Locale == "" {
		c.Locale = strings.TrimSuffix(path.Base(name), path.Ext(name))
	}
	return c, nil
}

// Message returns the localized text of e. scopes are searched in order for
// a "<path>.<rule>" entry, then the rule template is used. When neither
// exists, or the template fails, e.Message is returned unchanged.
func (c *Catalog) Message(e schema.ValidationError, scopes ...string) string {
	key := e.Rule
	if f := e.Field(); f != "" {
		key = f + "." + e.Rule
	}
	for _, scope := range scopes {
		if msg, ok := c.Fields[scope][key]; ok {
			return c.render(scope+"/"+key, msg, e)
		}
	}
	if tmpl, ok := c.Rules[e.Rule]; ok {
		return c.render(e.Rule, tmpl, e)
	}
	return e.Message
}

// Translate returns a copy of errs with every message localized.
func (c *Catalog) Translate(errs schema.ValidationErrors, scopes ...string) schema.ValidationErrors {
	out := make(schema.ValidationErrors, len(errs))
	for i, e := range errs {
		e.Message = c.Message(e, scopes...)
		out[i] = e
	}
	return out
}

func (c *Catalog) render(key, text string, e schema.ValidationError) string {
	if !strings.Contains(text, "{{") {
		return text
	}
	tmpl, err := c.template(key, text)
	if err != nil {
		return e.Message
	}

	data := make(map[string]any, len(e.Params)+1)
	for k, v := range e.Params {
		data[k] = v
	}
	data["field"] = e.Field()

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return e.Message
	}
	return buf.String()
}

func (c *Catalog) template(key, text string) (*template.Template, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if t, ok := c.templates[key]; ok {
		return t, nil
	}
	t, err := template.New(key).Funcs(funcs).Option("missingkey=error").Parse(text)
	if err != nil {
		return nil, err
	}
	if c.templates == nil {
		c.templates = make(map[string]*template.Template)
	}
	c.templates[key] = t
	return t, nil
}
