// Package pkg provides the core libraries of mvntree, a Maven-style
// dependency tree builder.
//
// # Overview
//
// mvntree reads a pom.xml, walks its dependencies through a Maven repository
// and prints the tree the way "mvn dependency:tree" does: every occurrence of
// an artifact is a node, and the ones that lose mediation are kept as omitted
// leaves that name the winner. The pkg directory is organized into four areas:
//
//  1. Model - [artifact], [version], [pattern]
//  2. Resolution - [filter], [resolve], [tree]
//  3. Input - [pom], [integrations], [integrations/maven]
//  4. Infrastructure - [cache], [config], [diag], [errors], [observability], [render]
//
// # Architecture
//
// The typical data flow:
//
//	pom.xml
//	   ↓
//	[pom] package (parse, inherit, interpolate)
//	   ↓
//	[integrations/maven] package (parents, imports, remote POMs, metadata)
//	   ↓
//	[resolve] package (breadth-first build with mediation and management)
//	   ↓
//	[tree] package (nodes, visitors, text serializer)
//	   ↓
//	[render] package (text, JSON, DOT, SVG)
//
// # Quick Start
//
// Build a tree from an in-memory source:
//
//	import (
//	    "context"
//	    "github.com/matzehuels/mvntree/pkg/artifact"
//	    "github.com/matzehuels/mvntree/pkg/resolve"
//	)
//
//	lib := artifact.New("org.example", "lib", "1.0").WithScope(artifact.ScopeCompile)
//	src := resolve.NewStaticSource().Add(lib)
//
//	root := artifact.New("com.acme", "app", "1")
//	t, _ := resolve.Build(context.Background(), root, []artifact.Artifact{lib}, nil, src, nil)
//	fmt.Print(t)
//
// # Main Packages
//
// ## Model
//
// [artifact] - Coordinates, scopes and the keys derived from them (conflict
// key, versionless key, ID). Exclusions and optionality travel with the
// artifact.
//
// [version] - Maven version ordering and version ranges such as [1.0,2.0).
//
// [pattern] - The wildcard matcher used by the lenient and strict filters.
//
// ## Resolution
//
// [filter] - Artifact filters: lenient and strict include/exclude patterns,
// scope filters and their composition. Filters remember which patterns were
// never triggered so the builder can report them.
//
// [resolve] - The tree [resolve.Builder]: nearest-wins mediation, dependency
// management, scope inheritance and the configurable [resolve.ScopePolicy].
//
// [tree] - The resolved tree, its node states and annotations, a depth-first
// visitor and the token-based text serializer.
//
// ## Input
//
// [pom] - POM and maven-metadata.xml parsing, parent inheritance and
// property interpolation.
//
// [integrations] - The shared HTTP client with retries and response caching.
//
// [integrations/maven] - A [resolve.MetadataSource] backed by a Maven2
// repository layout.
//
// ## Infrastructure
//
// [cache] - File, memory, Redis and null caches plus the key scheme.
//
// [config] - The mvntree.toml configuration file.
//
// [diag] - Run-scoped diagnostics sink for warnings and unused criteria.
//
// [errors] - Coded errors and exit codes.
//
// [observability] - Hooks for build, cache and HTTP events.
//
// [render] - Output formats for a built tree.
//
// [artifact]: https://pkg.go.dev/github.com/matzehuels/mvntree/pkg/artifact
// [version]: https://pkg.go.dev/github.com/matzehuels/mvntree/pkg/version
// [pattern]: https://pkg.go.dev/github.com/matzehuels/mvntree/pkg/pattern
// [filter]: https://pkg.go.dev/github.com/matzehuels/mvntree/pkg/filter
// [resolve]: https://pkg.go.dev/github.com/matzehuels/mvntree/pkg/resolve
// [resolve.Builder]: https://pkg.go.dev/github.com/matzehuels/mvntree/pkg/resolve#Builder
// [resolve.ScopePolicy]: https://pkg.go.dev/github.com/matzehuels/mvntree/pkg/resolve#ScopePolicy
// [resolve.MetadataSource]: https://pkg.go.dev/github.com/matzehuels/mvntree/pkg/resolve#MetadataSource
// [tree]: https://pkg.go.dev/github.com/matzehuels/mvntree/pkg/tree
// [pom]: https://pkg.go.dev/github.com/matzehuels/mvntree/pkg/pom
// [integrations]: https://pkg.go.dev/github.com/matzehuels/mvntree/pkg/integrations
// [integrations/maven]: https://pkg.go.dev/github.com/matzehuels/mvntree/pkg/integrations/maven
// [cache]: https://pkg.go.dev/github.com/matzehuels/mvntree/pkg/cache
// [config]: https://pkg.go.dev/github.com/matzehuels/mvntree/pkg/config
// [diag]: https://pkg.go.dev/github.com/matzehuels/mvntree/pkg/diag
// [errors]: https://pkg.go.dev/github.com/matzehuels/mvntree/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/mvntree/pkg/observability
// [render]: https://pkg.go.dev/github.com/matzehuels/mvntree/pkg/render
package pkg
