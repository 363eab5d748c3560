package pom

// Inherit returns the project obtained by merging p over its parent. The
// parent should already carry its own ancestors but must not be
// interpolated yet. Neither input is modified.
//
// Coordinates default to the parent's, properties are overridden by the
// child, and dependencies and managed dependencies of the parent are
// appended unless the child declares the same conflict key.
func (p *Project) Inherit(parent *Project) *Project {
	out := p.clone()
	if parent == nil {
		return out
	}
	if out.GroupID == "" {
		out.GroupID = parent.EffectiveGroupID()
	}
	if out.Version == "" {
		out.Version = parent.EffectiveVersion()
	}

	var props Properties
	for _, k := range parent.Properties.keys {
		props.Set(k, parent.Properties.values[k])
	}
	for _, k := range p.Properties.keys {
		props.Set(k, p.Properties.values[k])
	}
	out.Properties = props

	out.Dependencies = mergeDeps(out.Dependencies, parent.Dependencies)
	out.DependencyManagement.Dependencies = mergeDeps(out.DependencyManagement.Dependencies, parent.DependencyManagement.Dependencies)
	return out
}

func mergeDeps(own, inherited []Dependency) []Dependency {
	seen := make(map[string]bool, len(own))
	for _, d := range own {
		seen[d.Key()] = true
	}
	for _, d := range inherited {
		if !seen[d.Key()] {
			own = append(own, cloneDep(d))
			seen[d.Key()] = true
		}
	}
	return own
}

// MergeManaged appends managed entries from an imported BOM for keys the
// project does not manage yet.
func (p *Project) MergeManaged(bom *Project) {
	p.DependencyManagement.Dependencies = mergeDeps(p.DependencyManagement.Dependencies, bom.DependencyManagement.Dependencies)
}

func (p *Project) clone() *Project {
	out := *p
	if p.Parent != nil {
		parent := *p.Parent
		out.Parent = &parent
	}
	out.Properties = Properties{}
	for _, k := range p.Properties.keys {
		out.Properties.Set(k, p.Properties.values[k])
	}
	out.Dependencies = cloneDeps(p.Dependencies)
	out.DependencyManagement.Dependencies = cloneDeps(p.DependencyManagement.Dependencies)
	return &out
}

func cloneDeps(deps []Dependency) []Dependency {
	if deps == nil {
		return nil
	}
	out := make([]Dependency, len(deps))
	for i, d := range deps {
		out[i] = cloneDep(d)
	}
	return out
}

func cloneDep(d Dependency) Dependency {
	d.Exclusions = append([]Exclusion(nil), d.Exclusions...)
	return d
}
