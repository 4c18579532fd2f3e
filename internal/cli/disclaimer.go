package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/matzehuels/licensetower/pkg/licenses"
)

type disclaimerFlags struct {
	recursive bool
	product   string
	output    string
}

// disclaimerCommand creates the generate-disclaimer command.
func (c *CLI) disclaimerCommand() *cobra.Command {
	var flags disclaimerFlags

	cmd := &cobra.Command{
		Use:   "generate-disclaimer",
		Short: "Generate a third-party attribution disclaimer",
		Long: `Generate a single attribution document for the project's dependencies.

Packages whose license text (and NOTICE text, if any) is byte-for-byte
identical share one section. Packages without a LICENSE file are left out;
run with --verbose to see which.

The product name defaults to the name in the root package.json.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runDisclaimer(cmd, flags)
		},
	}

	cmd.Flags().BoolVarP(&flags.recursive, "recursive", "R", false, "include transitive dependencies")
	cmd.Flags().StringVar(&flags.product, "product", "", "product name used in the preamble")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "output file (default: stdout)")

	return cmd
}

func (c *CLI) runDisclaimer(cmd *cobra.Command, flags disclaimerFlags) error {
	ctx := cmd.Context()
	ws, err := c.open(ctx)
	if err != nil {
		return err
	}

	opts := licenses.Options{
		Recursive:   boolFlag(cmd, "recursive", flags.recursive, ws.config.Recursive),
		ProductName: stringFlag(cmd, "product", flags.product, ws.config.Product),
		Logger:      loggerFromContext(ctx),
	}

	text, err := collect(ctx, c.Stderr, "Reading license files...", func(ctx context.Context) (string, error) {
		return licenses.BuildDisclaimer(ctx, ws.project, ws.resolver, opts)
	})
	if err != nil {
		return err
	}

	output := flags.output
	if !cmd.Flags().Changed("output") && ws.config.Output != "" {
		output = ws.config.Output
		if !filepath.IsAbs(output) {
			output = filepath.Join(ws.cwd, output)
		}
	}

	if output == "" {
		if _, err := fmt.Fprint(c.Stdout, text); err != nil {
			return err
		}
		c.printSummary(ctx, c.disclaimerHeadline())
		return nil
	}

	if err := os.WriteFile(output, []byte(text), 0o644); err != nil {
		return fmt.Errorf("write output %s: %w", output, err)
	}
	printSuccess(c.Stderr, "Disclaimer written")
	printFile(c.Stderr, output)
	c.printSummary(ctx, c.disclaimerHeadline())
	return nil
}

func (c *CLI) disclaimerHeadline() string {
	included := 0
	if c.stats != nil {
		included, _ = c.stats.summary()
	}
	return fmt.Sprintf("%s packages attributed", StyleNumber.Render(fmt.Sprint(included)))
}
