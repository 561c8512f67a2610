package config

import (
	"fmt"
	"net/http"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Policy is the set of routes that require a bearer token. Entries are
// "METHOD /pattern" using the router's own path patterns, e.g.
// "DELETE /products/:id".
type Policy struct {
	protected map[string]struct{}
}

type policyFile struct {
	Protected []string `yaml:"protected"`
}

// defaultProtected guards every route that mutates data or exposes user and
// order lists.
var defaultProtected = []string{
	"GET /users",
	"DELETE /users/:id",
	"POST /categories",
	"POST /products",
	"DELETE /products/:id",
	"PUT /products/makesponsored/:id",
	"POST /orders",
	"GET /orders",
	"POST /uploads",
}

// DefaultPolicy returns the built-in guarded route set.
func DefaultPolicy() *Policy {
	p, _ := NewPolicy(defaultProtected)
	return p
}

// NewPolicy builds a Policy from "METHOD /pattern" entries.
func NewPolicy(entries []string) (*Policy, error) {
	p := &Policy{protected: make(map[string]struct{}, len(entries))}
	for _, e := range entries {
		fields := strings.Fields(e)
		if len(fields) != 2 || !strings.HasPrefix(fields[1], "/") {
			return nil, fmt.Errorf("guard policy: malformed entry %q (want \"METHOD /path\")", e)
		}
		method := strings.ToUpper(fields[0])
		switch method {
		case http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		default:
			return nil, fmt.Errorf("guard policy: unsupported method in %q", e)
		}
		p.protected[key(method, fields[1])] = struct{}{}
	}
	return p, nil
}

// LoadPolicy reads a YAML policy file. An empty path yields DefaultPolicy.
func LoadPolicy(path string) (*Policy, error) {
	if path == "" {
		return DefaultPolicy(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read guard policy: %w", err)
	}
	var f policyFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse guard policy: %w", err)
	}
	return NewPolicy(f.Protected)
}

// Protects reports whether method+pattern requires a token.
func (p *Policy) Protects(method, pattern string) bool {
	_, ok := p.protected[key(strings.ToUpper(method), pattern)]
	return ok
}

// Routes lists the guarded entries in sorted order.
func (p *Policy) Routes() []string {
	out := make([]string, 0, len(p.protected))
	for k := range p.protected {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func key(method, pattern string) string {
	return method + " " + pattern
}
