package licenses

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/licensetower/pkg/linker"
	"github.com/matzehuels/licensetower/pkg/observability"
	"github.com/matzehuels/licensetower/pkg/project"
)

const (
	mitText = "MIT License\n\nCopyright (c) left and right\n\nPermission is hereby granted...\n"
	iscText = "ISC License\n\nCopyright (c) odd\n"
)

// fixture is a project on disk laid out for the pnpm (flat) linker.
type fixture struct {
	t   *testing.T
	dir string
	p   *project.Project
	top *project.Workspace
}

func newFixture(t *testing.T, name string) *fixture {
	t.Helper()
	dir := t.TempDir()
	f := &fixture{t: t, dir: dir, p: project.New(dir)}
	self := f.desc(name + "@workspace:.")
	f.top = &project.Workspace{Cwd: ".", Name: name, Anchored: self}
	f.p.AddWorkspace(f.top)
	f.p.Resolve(self, f.pkg(name+"@workspace:.", "0.0.0-use.local"))
	f.write(".", "package.json", `{"name": "`+name+`"}`)
	return f
}

func (f *fixture) desc(s string) project.Descriptor {
	d, err := project.ParseDescriptor(s)
	if err != nil {
		f.t.Fatal(err)
	}
	return d
}

func (f *fixture) pkg(s, version string) *project.Package {
	l, err := project.ParseLocator(s)
	if err != nil {
		f.t.Fatal(err)
	}
	return &project.Package{Locator: l, Version: version}
}

func (f *fixture) write(rel, name, content string) {
	dir := filepath.Join(f.dir, rel)
	if err := os.MkdirAll(dir, 0755); err != nil {
		f.t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
		f.t.Fatal(err)
	}
}

// dep adds a resolved dependency. direct deps are attached to the top-level
// workspace. files maps file names to content inside node_modules/<name>.
func (f *fixture) dep(descriptor, locator, version string, direct bool, files map[string]string) {
	d := f.desc(descriptor)
	pkg := f.pkg(locator, version)
	f.p.Resolve(d, pkg)
	if direct {
		f.top.Dependencies = append(f.top.Dependencies, d)
	}
	for name, content := range files {
		f.write(filepath.Join("node_modules", pkg.Ident.String()), name, content)
	}
}

func (f *fixture) resolver() linker.Resolver {
	r, err := linker.Resolve(linker.PNPM)
	if err != nil {
		f.t.Fatal(err)
	}
	return r
}

// example: my-app -> left-pad (MIT), right-pad (MIT, same text), is-odd (ISC).
func exampleFixture(t *testing.T) *fixture {
	f := newFixture(t, "my-app")
	f.dep("left-pad@npm:^1.3.0", "left-pad@npm:1.3.0", "1.3.0", true, map[string]string{
		"package.json": `{"name": "left-pad", "license": "MIT", "repository": {"url": "https://github.com/stevemao/left-pad"}}`,
		"LICENSE":      mitText,
	})
	f.dep("right-pad@npm:^1.0.0", "right-pad@npm:1.0.0", "1.0.0", true, map[string]string{
		"package.json": `{"name": "right-pad", "license": "MIT", "homepage": "https://right-pad.dev", "author": {"name": "Right", "url": "https://right.dev"}}`,
		"license.md":   mitText,
	})
	f.dep("is-odd@npm:^1.0.0", "is-odd@npm:1.0.0", "1.0.0", true, map[string]string{
		"package.json": `{"name": "is-odd", "license": {"type": "ISC"}, "author": "Jon Schlinkert <j@s.dev> (https://github.com/jonschlinkert)"}`,
		"LICENSE":      iscText,
	})
	return f
}

func TestManifestInfo(t *testing.T) {
	tests := []struct {
		name string
		json string
		want Info
	}{
		{
			name: "empty",
			json: `{"name": "bare"}`,
			want: Info{License: Unknown},
		},
		{
			name: "string license and repository object",
			json: `{"license": "MIT", "repository": {"type": "git", "url": "git+https://x.dev/a.git"}, "homepage": "https://a.dev"}`,
			want: Info{License: "MIT", URL: "git+https://x.dev/a.git", VendorURL: "https://a.dev"},
		},
		{
			name: "object license falls back to homepage url",
			json: `{"license": {"type": "BSD-3-Clause"}, "homepage": "https://b.dev", "author": {"name": "B", "url": "https://author.dev"}}`,
			want: Info{License: "BSD-3-Clause", URL: "https://b.dev", VendorName: "B", VendorURL: "https://b.dev"},
		},
		{
			name: "author url when no homepage",
			json: `{"license": "ISC", "author": {"name": "C", "url": "https://c.dev"}}`,
			want: Info{License: "ISC", VendorName: "C", VendorURL: "https://c.dev"},
		},
		{
			name: "malformed license types",
			json: `{"license": 42, "homepage": ["x"], "repository": 7, "author": false}`,
			want: Info{License: Unknown},
		},
		{
			name: "repository and author strings",
			json: `{"license": "MIT", "repository": "https://github.com/a/b", "author": "Ann Lee <ann@x.dev> (https://ann.dev)"}`,
			want: Info{License: "MIT", URL: "https://github.com/a/b", VendorName: "Ann Lee", VendorURL: "https://ann.dev"},
		},
		{
			name: "license object without type",
			json: `{"license": {"url": "https://x"}}`,
			want: Info{License: Unknown},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := ParseManifest([]byte(tt.json))
			if err != nil {
				t.Fatalf("ParseManifest: %v", err)
			}
			if got := m.Info(); got != tt.want {
				t.Errorf("Info() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestParseManifestInvalid(t *testing.T) {
	for _, in := range []string{"", "{", "[1,", `{"name": "x",}`, `"unterminated`} {
		if _, err := ParseManifest([]byte(in)); err == nil {
			t.Errorf("ParseManifest(%q) should fail", in)
		}
	}
}

func TestParseManifestNonObject(t *testing.T) {
	for _, in := range []string{"[]", `"x"`, "42", "null", " \n[1, 2]"} {
		m, err := ParseManifest([]byte(in))
		if err != nil {
			t.Errorf("ParseManifest(%q) error = %v, want empty manifest", in, err)
			continue
		}
		if got := m.Info(); got != (Info{License: Unknown}) {
			t.Errorf("ParseManifest(%q).Info() = %+v, want UNKNOWN license only", in, got)
		}
	}
}

func bucketKeys(n *Node) []string {
	var out []string
	for _, c := range n.Children {
		out = append(out, c.Key)
	}
	return out
}

func TestBuildTreeExample(t *testing.T) {
	f := exampleFixture(t)
	root, err := BuildTree(context.Background(), f.p, f.resolver(), Options{})
	if err != nil {
		t.Fatalf("BuildTree: %v", err)
	}

	// my-app itself has no license field.
	if got, want := strings.Join(bucketKeys(root), ","), "ISC,MIT,UNKNOWN"; got != want {
		t.Fatalf("buckets = %s, want %s", got, want)
	}

	mit, _ := root.Child("MIT")
	if got, want := strings.Join(bucketKeys(mit), ","), "left-pad@npm:1.3.0,right-pad@npm:1.0.0"; got != want {
		t.Errorf("MIT children = %s, want %s", got, want)
	}
	isc, _ := root.Child("ISC")
	if len(isc.Children) != 1 || isc.Children[0].Key != "is-odd@npm:1.0.0" {
		t.Errorf("ISC children = %v", bucketKeys(isc))
	}

	left, _ := mit.Child("left-pad@npm:1.3.0")
	dep, ok := left.Value.(Dependent)
	if !ok {
		t.Fatalf("value = %T, want Dependent", left.Value)
	}
	if got := dep.String(); got != "left-pad@npm:1.3.0 (via npm:^1.3.0)" {
		t.Errorf("Dependent.String() = %q", got)
	}
	if url, ok := left.Child("url"); !ok || url.Value != "URL: https://github.com/stevemao/left-pad" {
		t.Errorf("url leaf = %+v", url)
	}
	if _, ok := left.Child("vendorName"); ok {
		t.Error("left-pad should have no vendorName")
	}

	right, _ := mit.Child("right-pad@npm:1.0.0")
	if got := bucketKeys(right); strings.Join(got, ",") != "url,vendorName,vendorUrl" {
		t.Errorf("right-pad leaves = %v", got)
	}
	if v, _ := right.Child("vendorUrl"); v.Value != "VendorUrl: https://right.dev" && v.Value != "VendorUrl: https://right-pad.dev" {
		t.Errorf("vendorUrl = %v", v.Value)
	}
	if v, _ := right.Child("vendorUrl"); v.Value != "VendorUrl: https://right-pad.dev" {
		t.Errorf("vendorUrl should prefer homepage, got %v", v.Value)
	}

	if root.Len() != 4 {
		t.Errorf("Len() = %d, want 4", root.Len())
	}
}

func TestBuildTreeJSONLeaves(t *testing.T) {
	f := exampleFixture(t)
	root, err := BuildTree(context.Background(), f.p, f.resolver(), Options{JSON: true})
	if err != nil {
		t.Fatal(err)
	}
	isc, _ := root.Child("ISC")
	odd := isc.Children[0]
	if v, _ := odd.Child("vendorName"); v.Value != "Jon Schlinkert" {
		t.Errorf("vendorName = %v", v.Value)
	}
	if v, _ := odd.Child("vendorUrl"); v.Value != "https://github.com/jonschlinkert" {
		t.Errorf("vendorUrl = %v", v.Value)
	}

	data, err := json.Marshal(root)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if !json.Valid(data) {
		t.Fatalf("invalid JSON: %s", data)
	}
	// Children keep insertion order in JSON.
	s := string(data)
	if strings.Index(s, `"ISC"`) > strings.Index(s, `"MIT"`) {
		t.Errorf("ISC should precede MIT: %s", s)
	}
	if !strings.Contains(s, `"value":{"locator":"is-odd@npm:1.0.0","descriptor":"is-odd@npm:^1.0.0"}`) {
		t.Errorf("dependent value missing: %s", s)
	}
}

func TestBuildTreeUnknownLicense(t *testing.T) {
	f := newFixture(t, "app")
	f.dep("bare@npm:^1.0.0", "bare@npm:1.0.0", "1.0.0", true, map[string]string{
		"package.json": `{"name": "bare"}`,
	})
	f.dep("listy@npm:^1.0.0", "listy@npm:1.0.0", "1.0.0", true, map[string]string{
		"package.json": `["not", "an", "object"]`,
	})
	root, err := BuildTree(context.Background(), f.p, f.resolver(), Options{})
	if err != nil {
		t.Fatal(err)
	}
	unknown, ok := root.Child(Unknown)
	if !ok {
		t.Fatalf("no UNKNOWN bucket: %v", bucketKeys(root))
	}
	for _, key := range []string{"bare@npm:1.0.0", "listy@npm:1.0.0"} {
		pkg, ok := unknown.Child(key)
		if !ok {
			t.Fatalf("%s missing from UNKNOWN: %v", key, bucketKeys(unknown))
		}
		if len(pkg.Children) != 0 {
			t.Errorf("%s should have no informational children, got %v", key, bucketKeys(pkg))
		}
	}
}

func TestBuildTreeRecursive(t *testing.T) {
	f := exampleFixture(t)
	f.dep("is-even@npm:^1.0.0", "is-even@npm:1.0.0", "1.0.0", false, map[string]string{
		"package.json": `{"name": "is-even", "license": "MIT"}`,
	})

	direct, err := BuildTree(context.Background(), f.p, f.resolver(), Options{})
	if err != nil {
		t.Fatal(err)
	}
	mit, _ := direct.Child("MIT")
	if _, ok := mit.Child("is-even@npm:1.0.0"); ok {
		t.Error("transitive dependency in non-recursive tree")
	}

	all, err := BuildTree(context.Background(), f.p, f.resolver(), Options{Recursive: true})
	if err != nil {
		t.Fatal(err)
	}
	mit, _ = all.Child("MIT")
	if _, ok := mit.Child("is-even@npm:1.0.0"); !ok {
		t.Error("transitive dependency missing from recursive tree")
	}
}

type skipRecorder struct {
	observability.NoopLicenseHooks
	skips map[string]observability.SkipReason
}

func (s *skipRecorder) OnPackageSkipped(_ context.Context, artifact, locator string, reason observability.SkipReason) {
	s.skips[artifact+" "+locator] = reason
}

func TestSkips(t *testing.T) {
	rec := &skipRecorder{skips: make(map[string]observability.SkipReason)}
	observability.SetLicenseHooks(rec)
	defer observability.Reset()

	f := exampleFixture(t)
	// Installed with manifest, no license file.
	f.dep("nolicense@npm:^1.0.0", "nolicense@npm:1.0.0", "1.0.0", true, map[string]string{
		"package.json": `{"name": "nolicense", "license": "MIT"}`,
	})
	// Not installed at all.
	f.dep("missing@npm:^1.0.0", "missing@npm:1.0.0", "1.0.0", true, nil)
	// Malformed manifest.
	f.dep("broken@npm:^1.0.0", "broken@npm:1.0.0", "1.0.0", true, map[string]string{
		"package.json": `{"name": "broken",`,
		"LICENSE":      mitText,
	})
	// Resolution pruned from the graph.
	f.top.Dependencies = append(f.top.Dependencies, f.desc("pruned@npm:^1.0.0"))

	ctx := context.Background()
	root, err := BuildTree(ctx, f.p, f.resolver(), Options{})
	if err != nil {
		t.Fatalf("BuildTree: %v", err)
	}
	mit, _ := root.Child("MIT")
	if _, ok := mit.Child("nolicense@npm:1.0.0"); !ok {
		t.Error("package without license file should still be in the tree")
	}
	for _, key := range []string{"missing@npm:1.0.0", "broken@npm:1.0.0"} {
		for _, bucket := range root.Children {
			if _, ok := bucket.Child(key); ok {
				t.Errorf("%s should be skipped from the tree", key)
			}
		}
	}

	text, err := BuildDisclaimer(ctx, f.p, f.resolver(), Options{})
	if err != nil {
		t.Fatalf("BuildDisclaimer: %v", err)
	}
	if strings.Contains(text, "nolicense") || strings.Contains(text, "broken") || strings.Contains(text, "missing") {
		t.Errorf("skipped packages leaked into disclaimer:\n%s", text)
	}

	want := map[string]observability.SkipReason{
		"tree missing@npm:1.0.0":         observability.SkipNoManifest,
		"tree broken@npm:1.0.0":          observability.SkipBadManifest,
		"disclaimer nolicense@npm:1.0.0": observability.SkipNoLicenseFile,
		"disclaimer missing@npm:1.0.0":   observability.SkipNoManifest,
		"disclaimer broken@npm:1.0.0":    observability.SkipBadManifest,
	}
	for k, reason := range want {
		if rec.skips[k] != reason {
			t.Errorf("skip %q = %q, want %q", k, rec.skips[k], reason)
		}
	}
}

func TestBuildDisclaimerExample(t *testing.T) {
	f := exampleFixture(t)
	got, err := BuildDisclaimer(context.Background(), f.p, f.resolver(), Options{})
	if err != nil {
		t.Fatalf("BuildDisclaimer: %v", err)
	}

	want := "THE FOLLOWING SETS FORTH ATTRIBUTION NOTICES FOR THIRD PARTY SOFTWARE THAT MAY BE CONTAINED IN PORTIONS OF THE MY APP PRODUCT.\n\n" +
		"-----\n\n" +
		"The following software may be included in this product: is-odd. This software contains the following license and notice below:\n\n" +
		strings.TrimSpace(iscText) + "\n\n" +
		"-----\n\n" +
		"The following software may be included in this product: left-pad, right-pad. A copy of the source code may be downloaded from https://github.com/stevemao/left-pad (left-pad). This software contains the following license and notice below:\n\n" +
		strings.TrimSpace(mitText) + "\n\n"

	if got != want {
		t.Errorf("disclaimer mismatch\n--- got ---\n%s\n--- want ---\n%s", got, want)
	}
}

func TestBuildDisclaimerSingleURL(t *testing.T) {
	f := newFixture(t, "app")
	f.dep("a@npm:^1.0.0", "a@npm:1.0.0", "1.0.0", true, map[string]string{
		"package.json": `{"name": "a", "repository": "https://github.com/x/a"}`,
		"LICENSE":      "A license",
	})
	got, err := BuildDisclaimer(context.Background(), f.p, f.resolver(), Options{ProductName: "acme-widget-pro"})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(got, "THE FOLLOWING SETS FORTH ATTRIBUTION NOTICES FOR THIRD PARTY SOFTWARE THAT MAY BE CONTAINED IN PORTIONS OF THE ACME WIDGET PRO PRODUCT.\n\n") {
		t.Errorf("preamble = %q", got)
	}
	if !strings.Contains(got, "downloaded from https://github.com/x/a. This software") {
		t.Errorf("single URL should not be qualified:\n%s", got)
	}
}

func TestBuildDisclaimerWhitespaceSensitive(t *testing.T) {
	f := newFixture(t, "app")
	f.dep("a@npm:^1.0.0", "a@npm:1.0.0", "1.0.0", true, map[string]string{
		"package.json": `{"name": "a"}`,
		"LICENSE":      "Same text",
	})
	f.dep("b@npm:^1.0.0", "b@npm:1.0.0", "1.0.0", true, map[string]string{
		"package.json": `{"name": "b"}`,
		"LICENSE":      "Same text\n",
	})
	f.dep("c@npm:^1.0.0", "c@npm:1.0.0", "1.0.0", true, map[string]string{
		"package.json": `{"name": "c"}`,
		"LICENSE":      "Same text",
	})
	got, err := BuildDisclaimer(context.Background(), f.p, f.resolver(), Options{})
	if err != nil {
		t.Fatal(err)
	}
	if n := strings.Count(got, "-----\n\n"); n != 2 {
		t.Errorf("sections = %d, want 2:\n%s", n, got)
	}
	if !strings.Contains(got, "this product: a, c.") || !strings.Contains(got, "this product: b.") {
		t.Errorf("unexpected grouping:\n%s", got)
	}
}

func TestBuildDisclaimerNotice(t *testing.T) {
	f := newFixture(t, "app")
	f.dep("a@npm:^1.0.0", "a@npm:1.0.0", "1.0.0", true, map[string]string{
		"package.json": `{"name": "a"}`,
		"LICENSE.txt":  "Apache License\n",
		"NOTICE":       "Copyright Apache\n",
	})
	f.dep("b@npm:^1.0.0", "b@npm:1.0.0", "1.0.0", true, map[string]string{
		"package.json": `{"name": "b"}`,
		"LICENSE":      "Apache License\n",
	})
	got, err := BuildDisclaimer(context.Background(), f.p, f.resolver(), Options{})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(got, "Apache License\n\n\nNOTICE\n\nCopyright Apache\n\n") {
		t.Errorf("notice not appended:\n%q", got)
	}
	if n := strings.Count(got, "-----\n\n"); n != 2 {
		t.Errorf("sections = %d, want 2 (notice changes the key)", n)
	}
}

func TestBuildDisclaimerSameNameCollapses(t *testing.T) {
	f := newFixture(t, "app")
	f.dep("dup@npm:^1.0.0", "dup@npm:1.0.0", "1.0.0", true, map[string]string{
		"package.json": `{"name": "dup", "repository": "https://old"}`,
		"LICENSE":      "X",
	})
	// A second version installed in a workspace directory with the same text.
	f.p.Resolve(f.desc("dup@npm:^2.0.0"), f.pkg("dup@workspace:libs/dup", "2.0.0"))
	f.top.Dependencies = append(f.top.Dependencies, f.desc("dup@npm:^2.0.0"))
	f.write("libs/dup", "package.json", `{"name": "dup", "repository": "https://new"}`)
	f.write("libs/dup", "LICENSE", "X")

	got, err := BuildDisclaimer(context.Background(), f.p, f.resolver(), Options{})
	if err != nil {
		t.Fatal(err)
	}
	if strings.Count(got, "this product: dup.") != 1 {
		t.Errorf("same-named packages should collapse:\n%s", got)
	}
	if !strings.Contains(got, "downloaded from https://new.") {
		t.Errorf("last manifest should win:\n%s", got)
	}
}

func TestBuildDisclaimerVisitsLocatorOnce(t *testing.T) {
	rec := &skipRecorder{skips: make(map[string]observability.SkipReason)}
	observability.SetLicenseHooks(rec)
	defer observability.Reset()

	f := exampleFixture(t)
	// Another descriptor resolving to left-pad.
	alias := f.desc("left-pad@npm:1.3.0")
	pkg, _ := f.p.Package(f.desc("left-pad@npm:^1.3.0"))
	f.p.Resolve(alias, pkg)
	f.top.Dependencies = append(f.top.Dependencies, alias)

	got, err := BuildDisclaimer(context.Background(), f.p, f.resolver(), Options{})
	if err != nil {
		t.Fatal(err)
	}
	if reason := rec.skips["disclaimer left-pad@npm:1.3.0"]; reason != observability.SkipDuplicate {
		t.Errorf("second visit of left-pad skip reason = %q, want %q", reason, observability.SkipDuplicate)
	}
	if n := strings.Count(got, "this product: left-pad, right-pad."); n != 1 {
		t.Errorf("sections listing left-pad, right-pad = %d, want 1:\n%s", n, got)
	}
}

func TestTrimText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"ascii", "\t\v\f\r\n MIT\n\n", "MIT"},
		{"bom and nbsp", "\uFEFF\u00A0MIT\u00A0", "MIT"},
		{"unicode spaces", "\u1680\u2000\u200A\u202F\u205F\u3000MIT\u3000", "MIT"},
		{"line separators", "\u2028MIT\u2029", "MIT"},
		{"next line kept", "\u0085MIT\u0085", "\u0085MIT\u0085"},
		{"zero width space kept", "\u200BMIT", "\u200BMIT"},
		{"inner space kept", "  a  b  ", "a  b"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := trimText(tt.in); got != tt.want {
				t.Errorf("trimText(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestDeterminism(t *testing.T) {
	f := exampleFixture(t)
	ctx := context.Background()
	r := f.resolver()

	first, err := BuildDisclaimer(ctx, f.p, r, Options{Recursive: true})
	if err != nil {
		t.Fatal(err)
	}
	firstTree, err := BuildTree(ctx, f.p, r, Options{Recursive: true, JSON: true})
	if err != nil {
		t.Fatal(err)
	}
	firstJSON, _ := json.Marshal(firstTree)

	for i := 0; i < 5; i++ {
		again, err := BuildDisclaimer(ctx, f.p, r, Options{Recursive: true})
		if err != nil {
			t.Fatal(err)
		}
		if again != first {
			t.Fatalf("run %d: disclaimer differs", i)
		}
		tree, _ := BuildTree(ctx, f.p, r, Options{Recursive: true, JSON: true})
		data, _ := json.Marshal(tree)
		if string(data) != string(firstJSON) {
			t.Fatalf("run %d: tree differs", i)
		}
	}
}

func TestIndexedLinkerEndToEnd(t *testing.T) {
	f := exampleFixture(t)
	// Move is-odd to a nested location only the install state knows about.
	nested := filepath.Join("node_modules", "left-pad", "node_modules", "is-odd")
	f.write(nested, "package.json", `{"name": "is-odd", "license": "0BSD"}`)
	f.write(nested, "LICENSE", "0BSD text")
	f.write("node_modules", ".yarn-state.yml", `__metadata:
  version: 1
"left-pad@npm:1.3.0":
  locations:
    - "node_modules/left-pad"
"is-odd@npm:1.0.0":
  locations:
    - "node_modules/left-pad/node_modules/is-odd"
"my-app@workspace:.":
  locations:
    - ""
`)

	r, err := linker.Resolve(linker.NodeModules)
	if err != nil {
		t.Fatal(err)
	}
	root, err := BuildTree(context.Background(), f.p, r, Options{})
	if err != nil {
		t.Fatalf("BuildTree: %v", err)
	}
	if _, ok := root.Child("0BSD"); !ok {
		t.Errorf("is-odd should be read from its indexed location: %v", bucketKeys(root))
	}
	mit, _ := root.Child("MIT")
	if _, ok := mit.Child("right-pad@npm:1.0.0"); ok {
		t.Error("right-pad is not in the install state and should be skipped")
	}
}

func TestCancelledContext(t *testing.T) {
	f := exampleFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := BuildTree(ctx, f.p, f.resolver(), Options{}); err != context.Canceled {
		t.Errorf("BuildTree err = %v, want context.Canceled", err)
	}
	if _, err := BuildDisclaimer(ctx, f.p, f.resolver(), Options{}); err != context.Canceled {
		t.Errorf("BuildDisclaimer err = %v, want context.Canceled", err)
	}
}

func TestFindFile(t *testing.T) {
	tests := []struct {
		files []string
		bases []string
		want  string
	}{
		{[]string{"README.md", "LICENSE"}, licenseBases, "LICENSE"},
		{[]string{"License.md", "license"}, licenseBases, "License.md"},
		{[]string{"UNLICENSE"}, licenseBases, "UNLICENSE"},
		{[]string{"licenses", "license-mit", "LICENCE"}, licenseBases, ""},
		{[]string{"NOTICE.txt"}, noticeBases, "NOTICE.txt"},
		{[]string{"notices"}, noticeBases, ""},
	}
	for _, tt := range tests {
		if got := findFile(tt.files, tt.bases); got != tt.want {
			t.Errorf("findFile(%v) = %q, want %q", tt.files, got, tt.want)
		}
	}
}
