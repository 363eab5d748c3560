package cli

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/mvntree/pkg/artifact"
	"github.com/matzehuels/mvntree/pkg/cache"
	"github.com/matzehuels/mvntree/pkg/config"
	"github.com/matzehuels/mvntree/pkg/diag"
	"github.com/matzehuels/mvntree/pkg/errors"
	"github.com/matzehuels/mvntree/pkg/integrations/maven"
	"github.com/matzehuels/mvntree/pkg/observability"
	"github.com/matzehuels/mvntree/pkg/pom"
	"github.com/matzehuels/mvntree/pkg/render"
	"github.com/matzehuels/mvntree/pkg/resolve"
	"github.com/matzehuels/mvntree/pkg/tree"
)

// treeOpts holds the flags of the tree command.
type treeOpts struct {
	repo           string
	includes       []string
	excludes       []string
	strictIncludes []string
	strictExcludes []string
	scope          string
	transitive     bool
	format         string
	tokens         string
	includedOnly   bool
	detailed       bool
	reportUnused   bool
	output         string
	refresh        bool
	noCache        bool
}

// treeCommand creates the tree command.
func (c *CLI) treeCommand() *cobra.Command {
	var opts treeOpts

	cmd := &cobra.Command{
		Use:   "tree [pom.xml]",
		Short: "Resolve and print the dependency tree of a project",
		Long: `Resolve the dependencies of a Maven project and print them as a tree.

Dependencies are read from the repository given by --repo (Maven Central by
default). Filters restrict which artifacts are expanded; omitted nodes are
shown in parentheses with the reason they were left out.`,
		Example: `  mvntree tree
  mvntree tree service/pom.xml --scope runtime --tokens extended
  mvntree tree --exclude 'org.slf4j:*' --format dot -o deps.dot`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "pom.xml"
			if len(args) > 0 {
				path = args[0]
			}
			return c.runTree(cmd.Context(), cmd, path, opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.repo, "repo", "", "Maven repository URL (default Maven Central)")
	f.StringSliceVar(&opts.includes, "include", nil, "only expand artifacts matching these patterns")
	f.StringSliceVar(&opts.excludes, "exclude", nil, "do not expand artifacts matching these patterns")
	f.StringSliceVar(&opts.strictIncludes, "strict-include", nil, "strict groupId:artifactId:type:version include patterns")
	f.StringSliceVar(&opts.strictExcludes, "strict-exclude", nil, "strict groupId:artifactId:type:version exclude patterns")
	f.StringVar(&opts.scope, "scope", "", "limit to a classpath: compile, runtime, test, compile+runtime, runtime+system")
	f.BoolVar(&opts.transitive, "transitive", false, "match patterns against the whole dependency trail")
	f.StringVar(&opts.format, "format", "", "output format: text, json, dot, svg")
	f.StringVar(&opts.tokens, "tokens", "", "branch style for text output: standard, whitespace, extended")
	f.BoolVar(&opts.includedOnly, "included-only", false, "hide omitted nodes")
	f.BoolVar(&opts.detailed, "detailed", false, "add annotations to DOT and SVG node labels")
	f.BoolVar(&opts.reportUnused, "report-unused", false, "warn about filter patterns that never matched")
	f.StringVarP(&opts.output, "output", "o", "", "write to a file instead of stdout")
	f.BoolVar(&opts.refresh, "refresh", false, "refetch repository documents and ignore cached output")
	f.BoolVar(&opts.noCache, "no-cache", false, "disable caching")

	_ = cmd.RegisterFlagCompletionFunc("format", cobra.FixedCompletions(
		[]string{"text", "json", "dot", "svg"}, cobra.ShellCompDirectiveNoFileComp))
	_ = cmd.RegisterFlagCompletionFunc("tokens", cobra.FixedCompletions(
		[]string{"standard", "whitespace", "extended"}, cobra.ShellCompDirectiveNoFileComp))

	return cmd
}

// apply overrides cfg with the flags that were given.
func (o treeOpts) apply(cmd *cobra.Command, cfg *config.Config) {
	changed := cmd.Flags().Changed
	if o.repo != "" {
		cfg.Repository.URL = o.repo
	}
	cfg.Filter.Includes = append(cfg.Filter.Includes, o.includes...)
	cfg.Filter.Excludes = append(cfg.Filter.Excludes, o.excludes...)
	cfg.Filter.StrictIncludes = append(cfg.Filter.StrictIncludes, o.strictIncludes...)
	cfg.Filter.StrictExcludes = append(cfg.Filter.StrictExcludes, o.strictExcludes...)
	if o.scope != "" {
		cfg.Filter.Scope = o.scope
	}
	if changed("transitive") {
		cfg.Filter.Transitive = o.transitive
	}
	if changed("report-unused") {
		cfg.Filter.ReportUnused = o.reportUnused
	}
	if o.format != "" {
		cfg.Output.Format = o.format
	}
	if o.tokens != "" {
		cfg.Output.Tokens = o.tokens
	}
}

func (c *CLI) runTree(ctx context.Context, cmd *cobra.Command, path string, opts treeOpts) error {
	logger := loggerFromContext(ctx)
	stderr := cmd.ErrOrStderr()

	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	opts.apply(cmd, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	format, err := render.ParseFormat(cfg.Output.Format)
	if err != nil {
		return err
	}
	tokens, ok := tree.TokensByName[strings.ToLower(cfg.Output.Tokens)]
	if !ok {
		return errors.New(errors.ErrCodeInvalidInput, "unknown tokens %q (valid: standard, whitespace, extended)", cfg.Output.Tokens)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return errors.Wrap(errors.ErrCodeFileNotFound, err, "project file %s", path)
		}
		return err
	}
	project, err := pom.ParseBytes(data)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidManifest, err, "%s", path)
	}

	store, err := openCache(cfg, opts.noCache)
	if err != nil {
		return err
	}
	defer store.Close()

	keyer := cache.NewDefaultKeyer()
	outputKey := keyer.TreeKey(treeFingerprint(path, data, cfg), cache.TreeKeyOpts{
		Includes:       cfg.Filter.Includes,
		Excludes:       cfg.Filter.Excludes,
		StrictIncludes: cfg.Filter.StrictIncludes,
		StrictExcludes: cfg.Filter.StrictExcludes,
		Scope:          cfg.Filter.Scope,
		Transitive:     cfg.Filter.Transitive,
		Format:         string(format),
		Tokens:         cfg.Output.Tokens,
		IncludedOnly:   opts.includedOnly,
		Detailed:       opts.detailed,
	})
	if !opts.refresh && !cfg.Filter.ReportUnused {
		if out, hit, err := store.Get(ctx, outputKey); err != nil {
			logger.Warn("cache read failed", "err", err)
		} else if hit {
			logger.Debug("using cached tree", "path", path)
			if err := c.writeOutput(cmd, opts.output, out); err != nil {
				return err
			}
			printSummary(stderr, treeSummary{Cached: true})
			return nil
		}
	}

	run := diag.NewRun(logger)
	counters := &observability.Counters{}
	hooks := observability.Fanout(observability.NewLogHooks(run.Logger), counters)
	user, pass := cfg.Credentials()
	source := maven.NewSource(maven.Options{
		Repository: cfg.Repository.URL,
		Username:   user,
		Password:   pass,
		Cache:      store,
		Keyer:      keyer,
		TTL:        cfg.Cache.TTL.Duration,
		Refresh:    opts.refresh,
		Hooks:      hooks,
	})
	run.Debug("resolving", "path", path, "repository", source.Repository())

	prog := newProgress(run.Logger)
	spin := startSpinner(ctx, stderr, "Resolving "+path, func() string {
		return fmt.Sprintf("%d fetched", counters.Fetches.Load())
	})
	defer spin.Stop()

	effective, err := source.ResolveProject(ctx, project, filepath.Dir(path))
	if err != nil {
		return err
	}
	deps, err := effective.DirectDependencies()
	if err != nil {
		return err
	}
	managed, err := managedFor(effective, cfg)
	if err != nil {
		return err
	}
	f, err := cfg.Filter.Build()
	if err != nil {
		return err
	}

	policy := cfg.Policy.ScopePolicy()
	builder := resolve.NewBuilder(resolve.Options{
		Policy:               &policy,
		Hooks:                hooks,
		Sink:                 run,
		ReportUnusedCriteria: cfg.Filter.ReportUnused,
	})
	res, err := builder.Build(ctx, resolve.Request{
		Root:         effective.Artifact(),
		Dependencies: deps,
		Managed:      managed,
		Source:       source,
		Filter:       f,
	})
	spin.Stop()
	if err != nil {
		return err
	}
	prog.done("Resolved "+effective.Artifact().ID(), "artifacts", res.Record.Len())

	var nodeFilter tree.NodeFilter
	if opts.includedOnly {
		nodeFilter = tree.IncludedOnly
	}
	var buf bytes.Buffer
	if err := render.Write(ctx, &buf, res.Tree, render.Options{
		Format:   format,
		Tokens:   tokens,
		Filter:   nodeFilter,
		Detailed: opts.detailed,
	}); err != nil {
		return err
	}

	if err := store.Set(ctx, outputKey, buf.Bytes(), cfg.Cache.TTL.Duration); err != nil {
		run.Warn("cache write failed", "err", err)
	}
	if err := c.writeOutput(cmd, opts.output, buf.Bytes()); err != nil {
		return err
	}

	stats := &tree.Stats{}
	res.Tree.Accept(stats)
	printSummary(stderr, treeSummary{
		Included:  stats.Included(),
		Omitted:   stats.Omitted(),
		Depth:     stats.MaxDepth,
		Fetches:   counters.Fetches.Load(),
		CacheHits: counters.CacheHits.Load(),
	})
	return nil
}

// writeOutput writes data to the named file, or to the command's output
// when name is empty.
func (c *CLI) writeOutput(cmd *cobra.Command, name string, data []byte) error {
	if name == "" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	if err := os.WriteFile(name, data, 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "write %s", name)
	}
	printSuccess(cmd.ErrOrStderr(), "Wrote dependency tree")
	printFile(cmd.ErrOrStderr(), name)
	return nil
}

// managedFor combines the project's dependency management with the
// configured overrides. Overrides win.
func managedFor(p *pom.Project, cfg *config.Config) (resolve.ManagedMap, error) {
	overrides, err := cfg.ManagedOverrides()
	if err != nil {
		return nil, err
	}
	managed := resolve.ManagedMap(p.Managed())
	for key, o := range overrides {
		m, ok := managed[key]
		if !ok {
			managed[key] = o
			continue
		}
		if o.Version != "" {
			m.Version = o.Version
		}
		if o.Scope != artifact.ScopeNone {
			m.Scope = o.Scope
		}
		managed[key] = m
	}
	return managed, nil
}

// treeFingerprint identifies the inputs of a rendered tree other than the
// render options: the project file and the settings that change resolution.
func treeFingerprint(path string, data []byte, cfg *config.Config) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	var b bytes.Buffer
	b.Write(data)
	b.WriteString("\x00" + cfg.Repository.URL)
	keys := make([]string, 0, len(cfg.Managed))
	for k := range cfg.Managed {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		b.WriteString("\x00" + k + "=" + cfg.Managed[k])
	}
	p := cfg.Policy.ScopePolicy()
	for _, on := range []bool{p.WidenToRuntime, p.WidenToCompile, p.ProtectDirect} {
		if on {
			b.WriteString("\x001")
		} else {
			b.WriteString("\x000")
		}
	}
	return abs + "@" + cache.Hash(b.Bytes())
}
