package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// projectCommand creates the command that converts every dependency of a project.
func (c *CLI) projectCommand() *cobra.Command {
	var (
		flags  projectFlags
		dryRun bool
	)

	cmd := &cobra.Command{
		Use:   "project [dir]",
		Short: "Convert all installed bower dependencies of a project",
		Long: `Convert all installed bower dependencies of the project in dir (default: the
current directory). Each package P installed at <components>/P is written to
<components>/P.js. Packages whose name already ends in .js are written under an
adjusted module id, which is reported at the end of the run.`,
		Example: `  bowerimport project
  bowerimport project --lister dir ./webapp
  bowerimport project --dry-run --ignore almond`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			dir := projectDir(args)

			cfg, err := flags.loadConfig(cmd, dir)
			if err != nil {
				return err
			}
			s := c.newSession(ctx, cfg, dryRun)
			defer s.Close()
			runner := s.runner(dir)

			prog := newProgress(s.logger)
			spin := newSpinnerWithContext(ctx, "Listing bower dependencies...")
			spin.Start()
			_, pkgs, err := runner.Packages(ctx)
			if err != nil {
				spin.StopWithError("Listing bower dependencies failed")
				return err
			}
			spin.StopWithSuccess(fmt.Sprintf("Listed %d bower packages", len(pkgs)))

			summary, err := runner.ConvertAll(ctx, pkgs)
			if err != nil {
				printSummary(summary, dryRun)
				return err
			}
			prog.done("converted dependencies")
			printSummary(summary, dryRun)
			if dryRun {
				printNextStep("Write the modules", "bowerimport project "+dir)
			}
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "classify packages and report destinations without writing")

	return cmd
}
