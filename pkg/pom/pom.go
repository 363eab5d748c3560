package pom

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/text/encoding/ianaindex"

	"github.com/matzehuels/mvntree/pkg/artifact"
	"github.com/matzehuels/mvntree/pkg/errors"
)

// Project is a parsed pom.xml.
type Project struct {
	XMLName      xml.Name `xml:"project"`
	ModelVersion string   `xml:"modelVersion"`
	Parent       *Parent  `xml:"parent"`
	GroupID      string   `xml:"groupId"`
	ArtifactID   string   `xml:"artifactId"`
	Version      string   `xml:"version"`
	Packaging    string   `xml:"packaging"`
	Name         string   `xml:"name"`
	Description  string   `xml:"description"`
	URL          string   `xml:"url"`

	Properties           Properties           `xml:"properties"`
	DependencyManagement DependencyManagement `xml:"dependencyManagement"`
	Dependencies         []Dependency         `xml:"dependencies>dependency"`
}

// Parent references the parent project.
type Parent struct {
	GroupID      string `xml:"groupId"`
	ArtifactID   string `xml:"artifactId"`
	Version      string `xml:"version"`
	RelativePath string `xml:"relativePath"`
}

// DependencyManagement holds managed dependency declarations.
type DependencyManagement struct {
	Dependencies []Dependency `xml:"dependencies>dependency"`
}

// Dependency is one declared dependency.
type Dependency struct {
	GroupID    string      `xml:"groupId"`
	ArtifactID string      `xml:"artifactId"`
	Version    string      `xml:"version"`
	Type       string      `xml:"type"`
	Classifier string      `xml:"classifier"`
	Scope      string      `xml:"scope"`
	Optional   string      `xml:"optional"`
	Exclusions []Exclusion `xml:"exclusions>exclusion"`
}

// Exclusion removes groupId:artifactId from a dependency's subtree.
type Exclusion struct {
	GroupID    string `xml:"groupId"`
	ArtifactID string `xml:"artifactId"`
}

// ScopeImport marks a managed dependency whose own dependencyManagement is
// merged in (a bill of materials).
const ScopeImport = "import"

// Properties are the <properties> of a project in document order.
type Properties struct {
	keys   []string
	values map[string]string
}

// UnmarshalXML reads arbitrary child elements as name/value pairs.
func (p *Properties) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	for {
		tok, err := d.Token()
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			var v string
			if err := d.DecodeElement(&v, &t); err != nil {
				return err
			}
			p.Set(t.Name.Local, strings.TrimSpace(v))
		case xml.EndElement:
			return nil
		}
	}
}

// Get returns a property value.
func (p Properties) Get(key string) (string, bool) {
	v, ok := p.values[key]
	return v, ok
}

// Set defines or overrides a property.
func (p *Properties) Set(key, value string) {
	if p.values == nil {
		p.values = make(map[string]string)
	}
	if _, ok := p.values[key]; !ok {
		p.keys = append(p.keys, key)
	}
	p.values[key] = value
}

// Keys returns the property names in definition order.
func (p Properties) Keys() []string { return append([]string(nil), p.keys...) }

// Len returns the number of properties.
func (p Properties) Len() int { return len(p.keys) }

// Parse reads a project model. Declared non-UTF-8 encodings are decoded.
func Parse(r io.Reader) (*Project, error) {
	d := xml.NewDecoder(r)
	d.CharsetReader = charsetReader
	var p Project
	if err := d.Decode(&p); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "parse pom")
	}
	p.trim()
	return &p, nil
}

// ParseBytes parses a project model held in memory.
func ParseBytes(data []byte) (*Project, error) {
	return Parse(bytes.NewReader(data))
}

// ParseFile reads a pom.xml from disk.
func ParseFile(path string) (*Project, error) {
	if err := errors.ValidatePath(path); err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()
	p, err := Parse(f)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "read %s", path)
	}
	return p, nil
}

func charsetReader(label string, input io.Reader) (io.Reader, error) {
	enc, err := ianaindex.IANA.Encoding(label)
	if err != nil {
		return nil, err
	}
	if enc == nil {
		return nil, fmt.Errorf("unsupported charset %q", label)
	}
	return enc.NewDecoder().Reader(input), nil
}

func (p *Project) trim() {
	ts := strings.TrimSpace
	p.GroupID, p.ArtifactID, p.Version, p.Packaging = ts(p.GroupID), ts(p.ArtifactID), ts(p.Version), ts(p.Packaging)
	if p.Parent != nil {
		p.Parent.GroupID, p.Parent.ArtifactID, p.Parent.Version = ts(p.Parent.GroupID), ts(p.Parent.ArtifactID), ts(p.Parent.Version)
	}
	trimDeps(p.Dependencies)
	trimDeps(p.DependencyManagement.Dependencies)
}

func trimDeps(deps []Dependency) {
	ts := strings.TrimSpace
	for i := range deps {
		d := &deps[i]
		d.GroupID, d.ArtifactID, d.Version = ts(d.GroupID), ts(d.ArtifactID), ts(d.Version)
		d.Type, d.Classifier, d.Scope, d.Optional = ts(d.Type), ts(d.Classifier), ts(d.Scope), ts(d.Optional)
		for j := range d.Exclusions {
			d.Exclusions[j].GroupID = ts(d.Exclusions[j].GroupID)
			d.Exclusions[j].ArtifactID = ts(d.Exclusions[j].ArtifactID)
		}
	}
}

// EffectiveGroupID returns the groupId, falling back to the parent's.
func (p *Project) EffectiveGroupID() string {
	if p.GroupID == "" && p.Parent != nil {
		return p.Parent.GroupID
	}
	return p.GroupID
}

// EffectiveVersion returns the version, falling back to the parent's.
func (p *Project) EffectiveVersion() string {
	if p.Version == "" && p.Parent != nil {
		return p.Parent.Version
	}
	return p.Version
}

// Artifact returns the project's own artifact. The packaging becomes the
// type; "bundle" and empty packaging map to jar.
func (p *Project) Artifact() artifact.Artifact {
	typ := p.Packaging
	if typ == "" || typ == "bundle" {
		typ = artifact.DefaultType
	}
	return artifact.Artifact{
		GroupID:    p.EffectiveGroupID(),
		ArtifactID: p.ArtifactID,
		Type:       typ,
		Version:    p.EffectiveVersion(),
	}
}

// Key returns a managed or declared dependency's conflict key.
func (d Dependency) Key() string {
	return d.toArtifact().ConflictKey()
}

func (d Dependency) toArtifact() artifact.Artifact {
	typ := d.Type
	if typ == "" {
		typ = artifact.DefaultType
	}
	a := artifact.Artifact{
		GroupID:    d.GroupID,
		ArtifactID: d.ArtifactID,
		Type:       typ,
		Classifier: d.Classifier,
		Version:    d.Version,
		Scope:      artifact.Scope(d.Scope),
		Optional:   d.Optional == "true",
	}
	for _, ex := range d.Exclusions {
		g, id := ex.GroupID, ex.ArtifactID
		if g == "" {
			g = "*"
		}
		if id == "" {
			id = "*"
		}
		a.Exclusions = append(a.Exclusions, g+":"+id)
	}
	return a
}

// Artifact converts the declaration. It fails when a coordinate is missing
// or still holds an unresolved property.
func (d Dependency) Artifact() (artifact.Artifact, error) {
	a := d.toArtifact()
	if err := a.Validate(); err != nil {
		return artifact.Artifact{}, errors.Wrap(errors.ErrCodeInvalidManifest, err, "dependency %s", d.GroupID+":"+d.ArtifactID)
	}
	return a, nil
}

// DirectDependencies returns the declared dependencies in order. Missing
// versions and scopes are filled from the project's own dependency
// management.
func (p *Project) DirectDependencies() ([]artifact.Artifact, error) {
	managed := make(map[string]Dependency, len(p.DependencyManagement.Dependencies))
	for _, m := range p.DependencyManagement.Dependencies {
		if _, ok := managed[m.Key()]; !ok {
			managed[m.Key()] = m
		}
	}
	out := make([]artifact.Artifact, 0, len(p.Dependencies))
	for _, d := range p.Dependencies {
		if m, ok := managed[d.Key()]; ok {
			if d.Version == "" {
				d.Version = m.Version
			}
			if d.Scope == "" {
				d.Scope = m.Scope
			}
			if len(d.Exclusions) == 0 {
				d.Exclusions = m.Exclusions
			}
		}
		a, err := d.Artifact()
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "project %s", p.Artifact().ID())
		}
		out = append(out, a)
	}
	return out, nil
}

// Managed returns the dependency management entries keyed by conflict key.
// Import-scoped entries are BOM references and are skipped; the first
// declaration of a key wins.
func (p *Project) Managed() map[string]artifact.Artifact {
	out := make(map[string]artifact.Artifact)
	for _, m := range p.DependencyManagement.Dependencies {
		if m.Scope == ScopeImport {
			continue
		}
		if _, ok := out[m.Key()]; ok {
			continue
		}
		out[m.Key()] = m.toArtifact()
	}
	return out
}

// Imports returns the BOMs referenced from dependency management.
func (p *Project) Imports() []Dependency {
	var out []Dependency
	for _, m := range p.DependencyManagement.Dependencies {
		if m.Scope == ScopeImport && m.Type == "pom" {
			out = append(out, m)
		}
	}
	return out
}
