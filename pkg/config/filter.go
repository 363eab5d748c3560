package config

import (
	"github.com/matzehuels/mvntree/pkg/errors"
	"github.com/matzehuels/mvntree/pkg/filter"
)

// validatePatterns checks every configured pattern with
// filter.ValidatePattern.
func (f FilterConfig) validatePatterns() error {
	lists := []struct {
		key      string
		patterns []string
	}{
		{"includes", f.Includes},
		{"excludes", f.Excludes},
		{"strict_includes", f.StrictIncludes},
		{"strict_excludes", f.StrictExcludes},
	}
	for _, l := range lists {
		for i, p := range l.patterns {
			if err := filter.ValidatePattern(p); err != nil {
				return errors.Wrap(errors.ErrCodeInvalidConfig, err, "filter.%s[%d]", l.key, i)
			}
		}
	}
	return nil
}

// IsZero reports whether no criterion is configured.
func (f FilterConfig) IsZero() bool {
	return len(f.Includes) == 0 && len(f.Excludes) == 0 &&
		len(f.StrictIncludes) == 0 && len(f.StrictExcludes) == 0 && f.Scope == ""
}

// Build returns a filter requiring every configured criterion, or nil when
// none is configured.
func (f FilterConfig) Build() (filter.Filter, error) {
	if f.IsZero() {
		return nil, nil
	}
	var parts []filter.Filter
	if f.Scope != "" {
		sf, err := filter.NewScope(f.Scope)
		if err != nil {
			return nil, err
		}
		parts = append(parts, sf)
	}
	if len(f.Includes) > 0 {
		parts = append(parts, filter.NewPatternInclude(f.Includes, f.Transitive))
	}
	if len(f.Excludes) > 0 {
		parts = append(parts, filter.NewPatternExclude(f.Excludes, f.Transitive))
	}
	if len(f.StrictIncludes) > 0 {
		parts = append(parts, filter.NewStrictInclude(f.StrictIncludes...))
	}
	if len(f.StrictExcludes) > 0 {
		parts = append(parts, filter.NewStrictExclude(f.StrictExcludes...))
	}
	if len(parts) == 1 {
		return parts[0], nil
	}
	return filter.All(parts...), nil
}
