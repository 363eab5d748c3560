package pom

import "strings"

// maxInterpolationPasses bounds nested property expansion such as
// ${a} -> ${b} -> value, and stops self-referencing properties.
const maxInterpolationPasses = 10

// Interpolate expands ${...} references in coordinates and dependency
// declarations using the project's properties and the built-in project.*
// values. Unknown references are left in place.
func (p *Project) Interpolate() {
	lookup := p.lookup
	p.GroupID = expand(p.GroupID, lookup)
	p.Version = expand(p.Version, lookup)
	if p.Parent != nil {
		p.Parent.Version = expand(p.Parent.Version, lookup)
	}
	for _, deps := range [][]Dependency{p.Dependencies, p.DependencyManagement.Dependencies} {
		for i := range deps {
			d := &deps[i]
			d.GroupID = expand(d.GroupID, lookup)
			d.ArtifactID = expand(d.ArtifactID, lookup)
			d.Version = expand(d.Version, lookup)
			d.Type = expand(d.Type, lookup)
			d.Classifier = expand(d.Classifier, lookup)
			d.Scope = expand(d.Scope, lookup)
			d.Optional = expand(d.Optional, lookup)
			for j := range d.Exclusions {
				d.Exclusions[j].GroupID = expand(d.Exclusions[j].GroupID, lookup)
				d.Exclusions[j].ArtifactID = expand(d.Exclusions[j].ArtifactID, lookup)
			}
		}
	}
}

func (p *Project) lookup(key string) (string, bool) {
	if v, ok := p.Properties.Get(key); ok {
		return v, true
	}
	key = strings.TrimPrefix(key, "pom.")
	key = strings.TrimPrefix(key, "project.")
	switch key {
	case "groupId":
		return p.EffectiveGroupID(), true
	case "artifactId":
		return p.ArtifactID, true
	case "version":
		return p.EffectiveVersion(), true
	case "packaging":
		if p.Packaging == "" {
			return "jar", true
		}
		return p.Packaging, true
	case "name":
		return p.Name, p.Name != ""
	}
	if p.Parent != nil {
		switch key {
		case "parent.groupId":
			return p.Parent.GroupID, true
		case "parent.artifactId":
			return p.Parent.ArtifactID, true
		case "parent.version":
			return p.Parent.Version, true
		}
	}
	return "", false
}

func expand(s string, lookup func(string) (string, bool)) string {
	for pass := 0; pass < maxInterpolationPasses && strings.Contains(s, "${"); pass++ {
		next := expandOnce(s, lookup)
		if next == s {
			break
		}
		s = next
	}
	return s
}

func expandOnce(s string, lookup func(string) (string, bool)) string {
	var b strings.Builder
	for {
		start := strings.Index(s, "${")
		if start < 0 {
			b.WriteString(s)
			return b.String()
		}
		end := strings.IndexByte(s[start:], '}')
		if end < 0 {
			b.WriteString(s)
			return b.String()
		}
		end += start
		b.WriteString(s[:start])
		if v, ok := lookup(s[start+2 : end]); ok {
			b.WriteString(v)
		} else {
			b.WriteString(s[start : end+1])
		}
		s = s[end+1:]
	}
}
