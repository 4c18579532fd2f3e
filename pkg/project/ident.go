package project

import (
	"fmt"
	"strings"
)

// Ident is a package name with an optional scope (without the leading "@").
type Ident struct {
	Scope string
	Name  string
}

func (i Ident) String() string {
	if i.Scope != "" {
		return "@" + i.Scope + "/" + i.Name
	}
	return i.Name
}

// Descriptor is a dependency request: a name plus the range it was declared with.
type Descriptor struct {
	Ident
	Range string
}

func (d Descriptor) String() string { return d.Ident.String() + "@" + d.Range }

// Hash identifies the descriptor inside a Project.
func (d Descriptor) Hash() string { return d.String() }

// Locator is the exact package chosen to satisfy one or more descriptors.
type Locator struct {
	Ident
	Reference string
}

func (l Locator) String() string { return l.Ident.String() + "@" + l.Reference }

// Hash identifies the locator inside a Project.
func (l Locator) Hash() string { return l.String() }

// Package is the resolved package data for a locator.
type Package struct {
	Locator
	Version string
}

// ParseIdent parses "name" or "@scope/name".
func ParseIdent(s string) (Ident, error) {
	if s == "" {
		return Ident{}, fmt.Errorf("empty package name")
	}
	if !strings.HasPrefix(s, "@") {
		return Ident{Name: s}, nil
	}
	scope, name, ok := strings.Cut(s[1:], "/")
	if !ok || scope == "" || name == "" {
		return Ident{}, fmt.Errorf("invalid scoped package name %q", s)
	}
	return Ident{Scope: scope, Name: name}, nil
}

// splitIdent splits "name@rest" honouring a leading scope "@".
func splitIdent(s string) (Ident, string, error) {
	start := 0
	if strings.HasPrefix(s, "@") {
		start = 1
	}
	at := strings.Index(s[start:], "@")
	if at < 0 {
		return Ident{}, "", fmt.Errorf("missing range in %q", s)
	}
	at += start
	id, err := ParseIdent(s[:at])
	if err != nil {
		return Ident{}, "", err
	}
	return id, s[at+1:], nil
}

// ParseDescriptor parses "name@range" or "@scope/name@range".
func ParseDescriptor(s string) (Descriptor, error) {
	id, rng, err := splitIdent(strings.TrimSpace(s))
	if err != nil {
		return Descriptor{}, fmt.Errorf("parse descriptor: %w", err)
	}
	return Descriptor{Ident: id, Range: rng}, nil
}

// ParseLocator parses "name@reference" or "@scope/name@reference".
func ParseLocator(s string) (Locator, error) {
	id, ref, err := splitIdent(strings.TrimSpace(s))
	if err != nil {
		return Locator{}, fmt.Errorf("parse locator: %w", err)
	}
	return Locator{Ident: id, Reference: ref}, nil
}

// NormalizeRange prefixes ranges that carry no protocol with "npm:", matching
// how Yarn stores descriptors in the lockfile.
func NormalizeRange(r string) string {
	if hasProtocol(r) {
		return r
	}
	return "npm:" + r
}

func hasProtocol(r string) bool {
	i := strings.Index(r, ":")
	if i <= 0 {
		return false
	}
	for _, c := range r[:i] {
		if !(c >= 'a' && c <= 'z' || c == '-' || c == '+') {
			return false
		}
	}
	return true
}
