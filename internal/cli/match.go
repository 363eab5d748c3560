package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/mvntree/pkg/artifact"
	"github.com/matzehuels/mvntree/pkg/filter"
)

// matchCommand creates the match command, a debugging aid for filter
// patterns.
func (c *CLI) matchCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "match <pattern> <coordinate>...",
		Short: "Test a filter pattern against artifact coordinates",
		Long: `Test a filter pattern against artifact coordinates.

Strict matching compares groupId:artifactId:type:version segment by segment,
as dependency exclusions and --strict-include do. Lenient matching is used by
--include and --exclude: it also accepts versionless keys, ranges, "!"
negation and patterns anchored at the right with a leading "*".`,
		Example: `  mvntree match 'org.apache.*' org.apache.commons:commons-lang3:3.14.0
  mvntree match '*:jar:[1.0,2.0)' g:a:jar:1.5 g:a:jar:2.0`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			pat := args[0]
			if err := filter.ValidatePattern(pat); err != nil {
				return err
			}
			strict := filter.NewStrictInclude(pat)
			lenient := filter.NewPatternInclude([]string{pat}, false)

			out := cmd.OutOrStdout()
			printKeyValue(out, "pattern", pat)
			for _, coord := range args[1:] {
				a, err := artifact.Parse(coord)
				if err != nil {
					return err
				}
				printMatch(out, a.String(), strict.Include(a), lenient.Include(a))
			}
			return nil
		},
	}
}
