// Package maven reads dependency metadata from Maven2-layout repositories.
//
// # Overview
//
// [Source] implements the tree builder's metadata source on top of a
// repository such as Maven Central or a Nexus/Artifactory mirror:
//
//	src := maven.NewSource(maven.Options{Cache: c, TTL: 24 * time.Hour})
//	deps, err := src.DirectDependencies(ctx, a)
//	versions, err := src.AvailableVersions(ctx, a)
//
// # Effective POMs
//
// The dependencies of an artifact come from its effective POM: the parent
// chain is fetched and merged, BOMs imported through dependencyManagement
// are merged in, and ${...} properties are expanded. The project's own
// dependency management fills in missing versions and scopes.
//
// # Version Listings
//
// Version ranges are resolved against maven-metadata.xml. A repository
// without a listing for an artifact yields no versions rather than an
// error.
//
// # Caching
//
// Raw POM and metadata documents are cached through [integrations.Client];
// merged parent models are memoized per Source.
package maven
