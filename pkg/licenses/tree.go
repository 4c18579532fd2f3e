package licenses

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/licensetower/pkg/linker"
	"github.com/matzehuels/licensetower/pkg/observability"
	"github.com/matzehuels/licensetower/pkg/project"
)

// Artifact names passed to observability hooks.
const (
	ArtifactTree       = "tree"
	ArtifactDisclaimer = "disclaimer"
)

// Options configures BuildTree and BuildDisclaimer.
type Options struct {
	// Recursive includes the full transitive closure instead of direct dependencies only.
	Recursive bool
	// JSON drops the "Key: " prefix from informational tree leaves.
	JSON bool
	// ProductName overrides the top-level workspace name in the disclaimer preamble.
	ProductName string
	// Logger receives skip diagnostics at debug level (default: log.Default()).
	Logger *log.Logger
}

func (o Options) logger() *log.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return log.Default()
}

// Dependent is the display value of a package node: the package and the
// descriptor that pulled it in.
type Dependent struct {
	Locator    project.Locator
	Descriptor project.Descriptor
}

func (d Dependent) String() string {
	return fmt.Sprintf("%s (via %s)", d.Locator, d.Descriptor.Range)
}

// MarshalJSON encodes the dependent as {"locator": ..., "descriptor": ...}.
func (d Dependent) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Locator    string `json:"locator"`
		Descriptor string `json:"descriptor"`
	}{d.Locator.String(), d.Descriptor.String()})
}

// Node is a License Tree node. Children keep insertion order.
//
// The root has no value; its children are license buckets keyed by license
// string, whose children are packages keyed by locator string.
type Node struct {
	Key      string
	Value    any
	Children []*Node

	index map[string]int
}

// Child returns the child stored under key.
func (n *Node) Child(key string) (*Node, bool) {
	i, ok := n.index[key]
	if !ok {
		return nil, false
	}
	return n.Children[i], true
}

// Set stores child under child.Key, replacing an existing child in place.
func (n *Node) Set(child *Node) {
	if n.index == nil {
		n.index = make(map[string]int)
	}
	if i, ok := n.index[child.Key]; ok {
		n.Children[i] = child
		return
	}
	n.index[child.Key] = len(n.Children)
	n.Children = append(n.Children, child)
}

// Len returns the number of leaf-bearing package nodes below n's children,
// i.e. the number of packages for the root.
func (n *Node) Len() int {
	total := 0
	for _, bucket := range n.Children {
		total += len(bucket.Children)
	}
	return total
}

// MarshalJSON encodes the node as {"value": ..., "children": {key: node, ...}}
// with children in insertion order.
func (n *Node) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	wrote := false
	if n.Value != nil {
		v, err := json.Marshal(n.Value)
		if err != nil {
			return nil, err
		}
		buf.WriteString(`"value":`)
		buf.Write(v)
		wrote = true
	}
	if len(n.Children) > 0 {
		if wrote {
			buf.WriteByte(',')
		}
		buf.WriteString(`"children":{`)
		for i, c := range n.Children {
			if i > 0 {
				buf.WriteByte(',')
			}
			k, err := json.Marshal(c.Key)
			if err != nil {
				return nil, err
			}
			v, err := c.MarshalJSON()
			if err != nil {
				return nil, err
			}
			buf.Write(k)
			buf.WriteByte(':')
			buf.Write(v)
		}
		buf.WriteByte('}')
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// BuildTree groups the project's packages by declared license.
//
// Packages without an install path or a readable manifest are skipped.
func BuildTree(ctx context.Context, p *project.Project, r linker.Resolver, opts Options) (*Node, error) {
	start := time.Now()
	run := newRun(ctx, ArtifactTree, opts.logger())
	root := &Node{}

	for _, e := range project.SortedPackages(p, opts.Recursive) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		dir, ok, err := r.InstallPath(ctx, p, e.Package)
		if err != nil {
			return nil, fmt.Errorf("locate %s: %w", e.Package.Locator, err)
		}
		if !ok {
			run.skip(e.Package, observability.SkipNoInstallPath)
			continue
		}

		m, reason, err := readManifest(r, dir)
		if err != nil {
			return nil, fmt.Errorf("read manifest of %s: %w", e.Package.Locator, err)
		}
		if m == nil {
			run.skip(e.Package, reason)
			continue
		}

		info := m.Info()
		bucket, ok := root.Child(info.License)
		if !ok {
			bucket = &Node{Key: info.License, Value: info.License}
			root.Set(bucket)
		}

		node := &Node{
			Key:   e.Package.Locator.String(),
			Value: Dependent{Locator: e.Package.Locator, Descriptor: e.Descriptor},
		}
		if info.URL != "" {
			node.Set(&Node{Key: "url", Value: keyValue("URL", info.URL, opts.JSON)})
		}
		if info.VendorName != "" {
			node.Set(&Node{Key: "vendorName", Value: keyValue("VendorName", info.VendorName, opts.JSON)})
		}
		if info.VendorURL != "" {
			node.Set(&Node{Key: "vendorUrl", Value: keyValue("VendorUrl", info.VendorURL, opts.JSON)})
		}
		bucket.Set(node)
	}

	run.done(root.Len(), time.Since(start))
	return root, nil
}

func keyValue(key, value string, bare bool) string {
	if bare {
		return value
	}
	return key + ": " + value
}

// run tracks skips for one artifact build.
type run struct {
	ctx      context.Context
	artifact string
	logger   *log.Logger
	skipped  int
}

func newRun(ctx context.Context, artifact string, logger *log.Logger) *run {
	return &run{ctx: ctx, artifact: artifact, logger: logger}
}

func (r *run) skip(pkg *project.Package, reason observability.SkipReason) {
	r.skipped++
	r.logger.Debug("skipping package", "artifact", r.artifact, "package", pkg.Locator.String(), "reason", string(reason))
	observability.Licenses().OnPackageSkipped(r.ctx, r.artifact, pkg.Locator.String(), reason)
}

func (r *run) done(included int, d time.Duration) {
	r.logger.Debug("built "+r.artifact, "packages", included, "skipped", r.skipped, "duration", d)
	observability.Licenses().OnArtifactBuilt(r.ctx, r.artifact, included, r.skipped, d)
}
