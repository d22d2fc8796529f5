package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/bowerimport/pkg/bower"
	"github.com/matzehuels/bowerimport/pkg/config"
)

// singleCommand creates the command that converts one installed package.
func (c *CLI) singleCommand() *cobra.Command {
	var (
		noAnswers bool
		ignore    []string
		dryRun    bool
	)

	cmd := &cobra.Command{
		Use:   "single <package-dir>",
		Short: "Convert one installed package directory",
		Long: `Convert the package installed in package-dir, reading its metadata from
.bower.json or bower.json. The module is written next to the directory.
Configuration is read from bowerimport.toml in the current directory.`,
		Example: `  bowerimport single bower_components/jquery`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			cfg, err := config.Load(".")
			if err != nil {
				return err
			}
			if noAnswers {
				cfg.Answers = false
			}
			cfg.Ignore = append(cfg.Ignore, ignore...)

			pkg, err := bower.LoadPackage(args[0])
			if err != nil {
				return err
			}

			s := c.newSession(ctx, cfg, dryRun)
			defer s.Close()

			res, err := s.converter.Convert(ctx, pkg)
			if err != nil {
				return err
			}

			printKeyValue("package", res.Package)
			printKeyValue("strategy", res.Strategy.String())
			if res.Main != "" {
				printKeyValue("main", res.Main)
			}
			if res.Global != "" {
				printKeyValue("global", res.Global)
			}
			if res.Target != "" {
				printKeyValue("target", res.Target)
			}
			if res.Munged {
				printWarning("require this module as %q", res.ModuleID)
			}
			if res.Destination != "" {
				printFile(res.Destination)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&noAnswers, "no-answers", false, "do not read or store remembered prompt answers")
	cmd.Flags().StringSliceVar(&ignore, "ignore", nil, "additional package names to skip")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "classify the package without writing")

	return cmd
}
