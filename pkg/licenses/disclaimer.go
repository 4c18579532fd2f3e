package licenses

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"
	"unicode"

	"github.com/matzehuels/licensetower/pkg/linker"
	"github.com/matzehuels/licensetower/pkg/observability"
	"github.com/matzehuels/licensetower/pkg/project"
	"github.com/matzehuels/licensetower/pkg/vfs"
)

const (
	disclaimerPreamble = "THE FOLLOWING SETS FORTH ATTRIBUTION NOTICES FOR THIRD PARTY SOFTWARE THAT MAY BE CONTAINED IN PORTIONS OF THE %s PRODUCT.\n\n"
	sectionRule        = "-----\n\n"
	noticeSeparator    = "\n\nNOTICE\n\n"
)

var (
	licenseBases = []string{"license", "unlicense"}
	noticeBases  = []string{"notice"}
)

// group is one distinct license(+notice) text and the manifests sharing it,
// keyed by package name in first-insertion order.
type group struct {
	text      string
	names     []string
	manifests map[string]*Manifest
}

func (g *group) add(m *Manifest) {
	name := string(m.Name)
	if _, ok := g.manifests[name]; !ok {
		g.names = append(g.names, name)
	}
	g.manifests[name] = m
}

// groups is an insertion-ordered map from text to group.
type groups struct {
	order []*group
	byKey map[string]*group
}

func (gs *groups) add(text string, m *Manifest) {
	g, ok := gs.byKey[text]
	if !ok {
		g = &group{text: text, manifests: make(map[string]*Manifest)}
		gs.byKey[text] = g
		gs.order = append(gs.order, g)
	}
	g.add(m)
}

// BuildDisclaimer renders an attribution document for the project's packages.
//
// Each package is visited once per locator. Packages whose license text, and
// NOTICE text when present, are byte-identical share one section; sections
// appear in the order their text was first seen.
func BuildDisclaimer(ctx context.Context, p *project.Project, r linker.Resolver, opts Options) (string, error) {
	start := time.Now()
	run := newRun(ctx, ArtifactDisclaimer, opts.logger())
	gs := &groups{byKey: make(map[string]*group)}
	seen := make(map[string]bool)
	included := 0

	for _, e := range project.SortedPackages(p, opts.Recursive) {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		if seen[e.Package.Hash()] {
			run.skip(e.Package, observability.SkipDuplicate)
			continue
		}
		seen[e.Package.Hash()] = true

		m, text, reason, err := attribution(ctx, p, r, e.Package)
		if err != nil {
			return "", err
		}
		if m == nil {
			run.skip(e.Package, reason)
			continue
		}
		gs.add(text, m)
		included++
	}

	run.done(included, time.Since(start))
	return renderDisclaimer(productName(p, opts.ProductName), gs), nil
}

// attribution returns the manifest and the license(+notice) text of pkg, or a
// nil manifest and the reason it has none.
func attribution(ctx context.Context, p *project.Project, r linker.Resolver, pkg *project.Package) (*Manifest, string, observability.SkipReason, error) {
	dir, ok, err := r.InstallPath(ctx, p, pkg)
	if err != nil {
		return nil, "", "", fmt.Errorf("locate %s: %w", pkg.Locator, err)
	}
	if !ok {
		return nil, "", observability.SkipNoInstallPath, nil
	}

	m, reason, err := readManifest(r, dir)
	if err != nil {
		return nil, "", "", fmt.Errorf("read manifest of %s: %w", pkg.Locator, err)
	}
	if m == nil {
		return nil, "", reason, nil
	}

	entries, err := r.ReadDir(dir)
	if err != nil {
		if vfs.IsNotExist(err) {
			return nil, "", observability.SkipNoLicenseFile, nil
		}
		return nil, "", "", fmt.Errorf("list %s: %w", dir, err)
	}
	files := fileNames(entries)

	licenseFile := findFile(files, licenseBases)
	if licenseFile == "" {
		return nil, "", observability.SkipNoLicenseFile, nil
	}
	text, err := r.ReadFile(filepath.Join(dir, licenseFile))
	if err != nil {
		if vfs.IsNotExist(err) {
			return nil, "", observability.SkipNoLicenseFile, nil
		}
		return nil, "", "", fmt.Errorf("read %s of %s: %w", licenseFile, pkg.Locator, err)
	}

	if noticeFile := findFile(files, noticeBases); noticeFile != "" {
		notice, err := r.ReadFile(filepath.Join(dir, noticeFile))
		if err != nil && !vfs.IsNotExist(err) {
			return nil, "", "", fmt.Errorf("read %s of %s: %w", noticeFile, pkg.Locator, err)
		}
		if notice != "" {
			text += noticeSeparator + notice
		}
	}
	return m, text, "", nil
}

// fileNames returns the regular files of a listing sorted by name.
func fileNames(entries []vfs.DirEntry) []string {
	var out []string
	for _, e := range entries {
		if e.IsFile {
			out = append(out, e.Name)
		}
	}
	sort.Strings(out)
	return out
}

// findFile returns the first name equal to one of bases, or starting with a
// base followed by ".", compared case-insensitively.
func findFile(files []string, bases []string) string {
	for _, name := range files {
		lower := strings.ToLower(name)
		for _, base := range bases {
			if lower == base || strings.HasPrefix(lower, base+".") {
				return name
			}
		}
	}
	return ""
}

// productName returns the uppercased product name with hyphens as spaces.
func productName(p *project.Project, override string) string {
	name := override
	if name == "" {
		if ws := p.TopLevelWorkspace(); ws != nil {
			name = ws.Name
		}
	}
	if name == "" {
		name = filepath.Base(p.Cwd)
	}
	return strings.ReplaceAll(strings.ToUpper(name), "-", " ")
}

func renderDisclaimer(product string, gs *groups) string {
	var b strings.Builder
	fmt.Fprintf(&b, disclaimerPreamble, product)

	for _, g := range gs.order {
		b.WriteString(sectionRule)

		var urls []string
		for _, name := range g.names {
			url := g.manifests[name].Repository.URL
			if url == "" {
				continue
			}
			if len(g.names) == 1 {
				urls = append(urls, url)
			} else {
				urls = append(urls, fmt.Sprintf("%s (%s)", url, name))
			}
		}

		heading := []string{
			fmt.Sprintf("The following software may be included in this product: %s.", strings.Join(g.names, ", ")),
		}
		if len(urls) > 0 {
			heading = append(heading, fmt.Sprintf("A copy of the source code may be downloaded from %s.", strings.Join(urls, ", ")))
		}
		heading = append(heading, "This software contains the following license and notice below:")

		b.WriteString(strings.Join(heading, " "))
		b.WriteString("\n\n")
		b.WriteString(trimText(g.text))
		b.WriteString("\n\n")
	}
	return b.String()
}

// trimText strips the whitespace and line terminators JavaScript's trim
// removes. U+0085 is not among them.
func trimText(s string) string {
	return strings.TrimFunc(s, isJSSpace)
}

func isJSSpace(r rune) bool {
	switch r {
	case '\t', '\n', '\v', '\f', '\r', '\u2028', '\u2029', '\uFEFF':
		return true
	}
	return unicode.Is(unicode.Zs, r)
}
