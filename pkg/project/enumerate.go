package project

import (
	"slices"
	"strings"
)

// Entry pairs a requested descriptor with the package it resolved to.
type Entry struct {
	Descriptor Descriptor
	Package    *Package
}

// SortedPackages lists descriptor/package pairs ordered by descriptor string.
//
// With recursive unset the source set is every workspace's anchored
// descriptor plus its direct dependencies; with recursive set it is every
// descriptor stored in the project. Descriptors whose resolution or package
// is missing are skipped. A repeated descriptor overwrites the earlier entry
// in place.
func SortedPackages(p *Project, recursive bool) []Entry {
	var source []Descriptor
	if recursive {
		source = make([]Descriptor, 0, len(p.StoredDescriptors))
		for _, d := range p.StoredDescriptors {
			source = append(source, d)
		}
	} else {
		for _, ws := range p.Workspaces {
			source = append(source, ws.Anchored)
			source = append(source, ws.Dependencies...)
		}
	}

	slices.SortStableFunc(source, func(a, b Descriptor) int {
		return strings.Compare(a.String(), b.String())
	})

	entries := make([]Entry, 0, len(source))
	index := make(map[string]int, len(source))
	for _, d := range source {
		pkg, ok := p.Package(d)
		if !ok {
			continue
		}
		if i, seen := index[d.Hash()]; seen {
			entries[i] = Entry{Descriptor: d, Package: pkg}
			continue
		}
		index[d.Hash()] = len(entries)
		entries = append(entries, Entry{Descriptor: d, Package: pkg})
	}
	return entries
}
