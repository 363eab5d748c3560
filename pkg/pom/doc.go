// Package pom reads Maven project models.
//
// It understands the subset of pom.xml that dependency resolution needs:
// coordinates, the parent reference, properties, dependencyManagement and
// the ordered dependency list with scopes, types, classifiers, optional
// flags and exclusions. It also reads maven-metadata.xml version listings.
//
// Building an effective model is a three step process:
//
//	child, _ := pom.Parse(r)
//	eff := child.Inherit(parent)   // parent merged with its ancestors
//	eff.Interpolate()              // expand ${...} references
//
// Interpolation runs once, on the fully merged model, so a child property
// overrides the value a parent declaration refers to.
//
// After that, [Project.DirectDependencies] yields artifacts ready for the
// tree builder and [Project.Managed] the dependency management overrides.
// Fetching parents and imported BOMs is left to callers such as the maven
// integration.
package pom
