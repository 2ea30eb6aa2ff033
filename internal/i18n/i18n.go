// Package i18n resolves user-facing strings from per-module YAML catalogs.
//
// Catalogs are loaded once at startup. Lookups fall back from the scoped
// module catalog to the core catalog to the key itself, so a missing
// translation never fails a request.
package i18n

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// CoreModule names the shared fallback catalog.
const CoreModule = "core"

// Catalogs holds every loaded translation table, keyed by module name.
type Catalogs struct {
	byModule map[string]map[string]string
}

// Load reads every *.yml / *.yaml file in dir as one module catalog named
// after the file. Malformed catalogs fail loading; translations are a
// structural contract, not a runtime recoverable.
func Load(dir string) (*Catalogs, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("i18n: read catalog dir (%s): %w", dir, err)
	}

	c := &Catalogs{byModule: make(map[string]map[string]string)}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		ext := filepath.Ext(name)
		if ext != ".yml" && ext != ".yaml" {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("i18n: read catalog %s: %w", name, err)
		}
		table := make(map[string]string)
		if err := yaml.Unmarshal(data, &table); err != nil {
			return nil, fmt.Errorf("i18n: parse catalog %s: %w", name, err)
		}
		c.byModule[strings.TrimSuffix(name, ext)] = table
	}
	return c, nil
}

// Empty returns catalogs with no entries; every lookup echoes its key.
func Empty() *Catalogs {
	return &Catalogs{byModule: make(map[string]map[string]string)}
}

// Translator returns a lookup handle scoped to the given module. The
// handle is cheap and request-scoped; the underlying catalogs are shared.
func (c *Catalogs) Translator(module string) *Translator {
	return &Translator{catalogs: c, module: module}
}

// Translator resolves keys within one module scope.
type Translator struct {
	catalogs *Catalogs
	module   string
}

// SetModule rescopes subsequent lookups to the given module catalog.
func (t *Translator) SetModule(module string) {
	t.module = module
}

// Module returns the current lookup scope.
func (t *Translator) Module() string {
	return t.module
}

// T resolves key in the current module scope.
func (t *Translator) T(key string) string {
	return t.Tf(key, nil)
}

// Tf resolves key and interpolates {name} placeholders from vars.
func (t *Translator) Tf(key string, vars map[string]string) string {
	s, ok := t.catalogs.byModule[t.module][key]
	if !ok {
		s, ok = t.catalogs.byModule[CoreModule][key]
	}
	if !ok {
		s = key
	}
	for name, value := range vars {
		s = strings.ReplaceAll(s, "{"+name+"}", value)
	}
	return s
}
