package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/bowerimport/pkg/convert"
	"github.com/matzehuels/bowerimport/pkg/errors"
	"github.com/matzehuels/bowerimport/pkg/graph"
)

// graphCommand creates the command that draws the flattened dependency set.
func (c *CLI) graphCommand() *cobra.Command {
	var (
		flags    projectFlags
		svg      bool
		asJSON   bool
		plain    bool
		filename string
	)

	cmd := &cobra.Command{
		Use:   "graph [dir]",
		Short: "Print the project's dependencies as a Graphviz graph",
		Long: `Print the flattened bower dependencies of the project in dir as Graphviz DOT,
with every package coloured by the strategy it would be converted with.
Classifying may prompt for main files; use --plain to skip it.`,
		Example: `  bowerimport graph | dot -Tpng > deps.png
  bowerimport graph --svg -o deps.svg`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			dir := projectDir(args)
			if svg && asJSON {
				return errors.New(errors.ErrCodeUnsupported, "--svg and --json cannot be combined")
			}

			cfg, err := flags.loadConfig(cmd, dir)
			if err != nil {
				return err
			}
			s := c.newSession(ctx, cfg, true)
			defer s.Close()
			runner := s.runner(dir)

			root, pkgs, err := runner.Packages(ctx)
			if err != nil {
				return err
			}

			var strategies map[string]convert.Strategy
			if !plain {
				summary, err := runner.ConvertAll(ctx, pkgs)
				if err != nil {
					return err
				}
				strategies = summary.Strategies()
			}

			g := graph.FromPackages(root.Name, root.DependencyNames(), pkgs, strategies)

			var out io.Writer = stdout
			if filename != "" {
				f, err := os.Create(filename)
				if err != nil {
					return fmt.Errorf("create %s: %w", filename, err)
				}
				defer f.Close()
				out = f
			}

			switch {
			case asJSON:
				err = graph.WriteJSON(g, out)
			case svg:
				var data []byte
				if data, err = graph.RenderSVG(ctx, graph.ToDOT(g)); err == nil {
					_, err = out.Write(data)
				}
			default:
				_, err = io.WriteString(out, graph.ToDOT(g))
			}
			if err != nil {
				return err
			}
			if filename != "" {
				printFile(filename)
			}
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&svg, "svg", false, "render SVG with Graphviz instead of printing DOT")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the graph as JSON")
	cmd.Flags().BoolVar(&plain, "plain", false, "do not classify packages")
	cmd.Flags().StringVarP(&filename, "output", "o", "", "write to file instead of stdout")

	return cmd
}
