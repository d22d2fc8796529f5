package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/bowerimport/pkg/cache"
)

// answersCommand creates the command managing remembered prompt answers.
func (c *CLI) answersCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "answers",
		Short: "Manage remembered answers to main file and global prompts",
	}

	cmd.AddCommand(c.answersClearCommand())
	cmd.AddCommand(c.answersPathCommand())

	return cmd
}

// answersClearCommand creates the "answers clear" subcommand.
func (c *CLI) answersClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Forget all remembered answers",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := answersDir()
			if err != nil {
				return fmt.Errorf("get answers dir: %w", err)
			}

			if _, err := os.Stat(dir); os.IsNotExist(err) {
				printInfo("No remembered answers")
				return nil
			}

			fc, err := cache.NewFileCache(dir)
			if err != nil {
				return err
			}
			count, err := fc.Clear()
			if err != nil {
				return err
			}

			printSuccess("Cleared %d remembered answers", count)
			printDetail("Directory: %s", dir)
			return nil
		},
	}
}

// answersPathCommand creates the "answers path" subcommand.
func (c *CLI) answersPathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the directory holding remembered answers",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := answersDir()
			if err != nil {
				return fmt.Errorf("get answers dir: %w", err)
			}
			fmt.Fprintln(stdout, dir)
			return nil
		},
	}
}
