package cli

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/matzehuels/licensetower/pkg/licenses"
	"github.com/matzehuels/licensetower/pkg/render"
)

type listFlags struct {
	recursive bool
	json      bool
}

// listCommand creates the list command that prints the License Tree.
func (c *CLI) listCommand() *cobra.Command {
	var flags listFlags

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List dependencies grouped by license",
		Long: `List dependencies grouped by their declared license.

Only direct dependencies of each workspace are listed unless --recursive is
given. Packages without an install directory or a readable package.json are
skipped; run with --verbose to see which.

The linker is read from nodeLinker in .yarnrc.yml (or YARN_NODE_LINKER).
Supported linkers: node-modules, pnpm.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runList(cmd, flags)
		},
	}

	cmd.Flags().BoolVarP(&flags.recursive, "recursive", "R", false, "include transitive dependencies")
	cmd.Flags().BoolVar(&flags.json, "json", false, "print the tree as JSON")

	return cmd
}

func (c *CLI) runList(cmd *cobra.Command, flags listFlags) error {
	ctx := cmd.Context()
	ws, err := c.open(ctx)
	if err != nil {
		return err
	}

	opts := licenses.Options{
		Recursive: boolFlag(cmd, "recursive", flags.recursive, ws.config.Recursive),
		JSON:      flags.json,
		Logger:    loggerFromContext(ctx),
	}

	tree, err := collect(ctx, c.Stderr, "Reading manifests...", func(ctx context.Context) (*licenses.Node, error) {
		return licenses.BuildTree(ctx, ws.project, ws.resolver, opts)
	})
	if err != nil {
		return err
	}

	if flags.json {
		data, err := render.JSON(tree)
		if err != nil {
			return fmt.Errorf("encode tree: %w", err)
		}
		if _, err := c.Stdout.Write(data); err != nil {
			return err
		}
	} else {
		textOpts := []render.TextOption{render.WithTitle(ws.title())}
		if isTerminal(c.Stdout) {
			textOpts = append(textOpts, render.WithStyles())
		}
		if out := render.Text(tree, textOpts...); out != "" {
			fmt.Fprintln(c.Stdout, out)
		}
	}

	c.printSummary(ctx, fmt.Sprintf("%d packages under %d licenses", tree.Len(), len(tree.Children)))
	return nil
}

// title names the project at the root of the text tree: the configured
// product, else the top-level workspace, else the directory name.
func (ws *workspace) title() string {
	if ws.config.Product != "" {
		return ws.config.Product
	}
	if top := ws.project.TopLevelWorkspace(); top != nil && top.Name != "" {
		return top.Name
	}
	return filepath.Base(ws.cwd)
}

// collect runs build behind a spinner on w.
func collect[T any](ctx context.Context, w io.Writer, message string, build func(context.Context) (T, error)) (T, error) {
	spinner := newSpinner(ctx, w, message)
	spinner.Start()
	out, err := build(ctx)
	if err != nil {
		if spinner.Cancelled() {
			spinner.StopWithError("Cancelled")
		} else {
			spinner.StopWithError("License collection failed")
		}
		return out, err
	}
	spinner.Stop()
	return out, nil
}

// printSummary writes the closing status lines to stderr.
func (c *CLI) printSummary(ctx context.Context, headline string) {
	printInfo(c.Stderr, "%s", headline)
	if c.stats == nil {
		return
	}
	_, skips := c.stats.summary()
	verbose := loggerFromContext(ctx).GetLevel() <= LogDebug
	printSkips(c.Stderr, skips, verbose)
}
