package env

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

type Var map[string]string

// Env composes the environment handed to a child. Layers apply in order:
// the inherited OS environment (optional), .env files, then explicit pairs.
type Env struct {
	base Var
	vars Var
}

// New returns an Env; when inherit is true the current process environment
// forms the base layer.
func New(inherit bool) *Env {
	e := &Env{vars: make(Var)}
	if inherit {
		e.base = split(os.Environ())
	}
	return e
}

// Set sets K=V, overriding earlier layers.
func (e *Env) Set(k, v string) {
	e.vars[k] = v
}

// Unset removes K from every layer.
func (e *Env) Unset(k string) {
	delete(e.vars, k)
	delete(e.base, k)
}

// SetPairs applies "K=V" entries. An entry without '=' or with an empty key
// is an error.
func (e *Env) SetPairs(pairs []string) error {
	for _, kv := range pairs {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || k == "" {
			return fmt.Errorf("invalid environment entry %q: want KEY=VALUE", kv)
		}
		e.Set(k, v)
	}
	return nil
}

// LoadFile applies a .env file of KEY=VALUE lines. Blank lines and lines
// starting with # are skipped; there is no quoting or export syntax.
func (e *Env) LoadFile(path string) error {
	b, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return err
	}
	for _, line := range strings.Split(string(b), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if k, v, ok := strings.Cut(line, "="); ok {
			if k = strings.TrimSpace(k); k != "" {
				e.Set(k, strings.TrimSpace(v))
			}
		}
	}
	return nil
}

// Environ returns the merged environment as sorted "K=V" entries with
// ${VAR} references expanded once against the merged map.
func (e *Env) Environ() []string {
	m := make(Var, len(e.base)+len(e.vars))
	for k, v := range e.base {
		m[k] = v
	}
	for k, v := range e.vars {
		m[k] = v
	}
	out := make([]string, 0, len(m))
	for k, v := range m {
		out = append(out, k+"="+expand(v, m))
	}
	sort.Strings(out)
	return out
}

func split(kvs []string) Var {
	m := make(Var, len(kvs))
	for _, kv := range kvs {
		if k, v, ok := strings.Cut(kv, "="); ok && k != "" {
			m[k] = v
		}
	}
	return m
}

// expand replaces ${NAME} with its value in m; unknown names are left as is.
func expand(s string, m Var) string {
	if !strings.Contains(s, "${") {
		return s
	}
	var b strings.Builder
	for {
		i := strings.Index(s, "${")
		if i < 0 {
			break
		}
		j := strings.IndexByte(s[i+2:], '}')
		if j < 0 {
			break
		}
		name := s[i+2 : i+2+j]
		b.WriteString(s[:i])
		if v, ok := m[name]; ok {
			b.WriteString(v)
		} else {
			b.WriteString(s[i : i+3+j])
		}
		s = s[i+3+j:]
	}
	b.WriteString(s)
	return b.String()
}
