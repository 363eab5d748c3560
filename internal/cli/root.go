package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/mvntree/pkg/buildinfo"
	"github.com/matzehuels/mvntree/pkg/config"
)

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "mvntree prints the dependency tree of a Maven project",
		Long: `mvntree resolves the dependencies of a Maven project the way Maven does:
nearest declaration wins, dependency management applies to transitive
dependencies, and scopes are mediated across the graph. The result is printed
as the familiar dependency tree, including the duplicates, conflicts and
cycles that were omitted.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default ./"+config.FileName+" if present)")

	root.AddCommand(c.treeCommand())
	root.AddCommand(c.matchCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}
