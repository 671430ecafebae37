// Package i18n resolves translation keys against a flattened dictionary.
package i18n

import (
	"fmt"
	"io/fs"
	"sort"
	"strconv"
	"sync"

	"github.com/aretw0/advisor/pkg/domain"
	"gopkg.in/yaml.v3"
)

// DefaultLanguage is the only language the datasets ship with.
const DefaultLanguage = "he"

// Dictionary maps dotted keys ("questions.species") to translated strings.
// Missing keys resolve to themselves. Safe for concurrent use.
type Dictionary struct {
	Language string

	mu      sync.RWMutex
	entries map[string]string
}

var _ domain.Translator = (*Dictionary)(nil)

// New creates an empty dictionary for lang.
func New(lang string) *Dictionary {
	return &Dictionary{Language: lang, entries: make(map[string]string)}
}

// Load reads a nested JSON or YAML document from fsys.
func Load(fsys fs.FS, name, lang string) (*Dictionary, error) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, fmt.Errorf("failed to read translations %s: %w", name, err)
	}
	d := New(lang)
	if err := d.Merge(data); err != nil {
		return nil, fmt.Errorf("failed to parse translations %s: %w", name, err)
	}
	return d, nil
}

// Merge adds the entries of a nested document, overriding existing keys.
func (d *Dictionary) Merge(doc []byte) error {
	var raw map[string]any
	if err := yaml.Unmarshal(doc, &raw); err != nil {
		return err
	}
	flat := make(map[string]string)
	flatten("", raw, flat)

	d.mu.Lock()
	defer d.mu.Unlock()
	for k, v := range flat {
		d.entries[k] = v
	}
	return nil
}

// Set adds a single entry.
func (d *Dictionary) Set(key, value string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.entries[key] = value
}

// T implements domain.Translator.
func (d *Dictionary) T(key string) string {
	if d == nil {
		return key
	}
	d.mu.RLock()
	defer d.mu.RUnlock()
	if v, ok := d.entries[key]; ok {
		return v
	}
	return key
}

// Has reports whether key has a translation.
func (d *Dictionary) Has(key string) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	_, ok := d.entries[key]
	return ok
}

// Keys returns all keys, sorted.
func (d *Dictionary) Keys() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	keys := make([]string, 0, len(d.entries))
	for k := range d.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func flatten(prefix string, v any, out map[string]string) {
	join := func(k string) string {
		if prefix == "" {
			return k
		}
		return prefix + "." + k
	}
	switch val := v.(type) {
	case map[string]any:
		for k, sub := range val {
			flatten(join(k), sub, out)
		}
	case []any:
		for i, sub := range val {
			flatten(join(strconv.Itoa(i)), sub, out)
		}
	case nil:
	default:
		out[prefix] = fmt.Sprint(val)
	}
}
