// Package artifact defines Maven artifact coordinates and their identity keys.
//
// An artifact is identified at three granularities:
//
//	ID()            groupId:artifactId:type[:classifier]:version
//	ConflictKey()   groupId:artifactId:type[:classifier]
//	VersionlessKey() groupId:artifactId
//
// Conflict resolution compares artifacts by ConflictKey, so two versions of
// the same jar collide while a sources jar of the same library does not.
package artifact

import (
	"regexp"
	"slices"
	"strings"

	"github.com/matzehuels/mvntree/pkg/errors"
)

// DefaultType is the packaging type assumed when none is declared.
const DefaultType = "jar"

// Artifact is an immutable-by-convention value describing one Maven artifact.
// Methods take value receivers; modify a copy to derive a new artifact.
type Artifact struct {
	GroupID    string `json:"groupId"`
	ArtifactID string `json:"artifactId"`
	Type       string `json:"type"`
	Classifier string `json:"classifier,omitempty"`
	Version    string `json:"version"`
	Scope      Scope  `json:"scope,omitempty"`
	Optional   bool   `json:"optional,omitempty"`

	// Exclusions are "groupId:artifactId" patterns removed from this
	// artifact's transitive dependencies.
	Exclusions []string `json:"exclusions,omitempty"`

	// DependencyTrail lists the conflict keys from the resolution root down
	// to and including this artifact. It is set during tree building.
	DependencyTrail []string `json:"-"`
}

// New returns a jar artifact with the given coordinates.
func New(groupID, artifactID, version string) Artifact {
	return Artifact{GroupID: groupID, ArtifactID: artifactID, Type: DefaultType, Version: version}
}

// WithScope returns a copy of a with the given scope.
func (a Artifact) WithScope(s Scope) Artifact {
	a.Scope = s
	return a
}

// WithVersion returns a copy of a with the given version.
func (a Artifact) WithVersion(v string) Artifact {
	a.Version = v
	return a
}

func (a Artifact) typ() string {
	if a.Type == "" {
		return DefaultType
	}
	return a.Type
}

// VersionlessKey returns "groupId:artifactId".
func (a Artifact) VersionlessKey() string {
	return a.GroupID + ":" + a.ArtifactID
}

// ConflictKey returns "groupId:artifactId:type[:classifier]".
func (a Artifact) ConflictKey() string {
	k := a.GroupID + ":" + a.ArtifactID + ":" + a.typ()
	if a.Classifier != "" {
		k += ":" + a.Classifier
	}
	return k
}

// ID returns "groupId:artifactId:type[:classifier]:version".
func (a Artifact) ID() string {
	return a.ConflictKey() + ":" + a.Version
}

// String returns the ID followed by ":scope" when a scope is set.
func (a Artifact) String() string {
	if a.Scope == ScopeNone {
		return a.ID()
	}
	return a.ID() + ":" + string(a.Scope)
}

var timestampSnapshot = regexp.MustCompile(`^(.*)-(\d{8}\.\d{6})-(\d+)$`)

// BaseVersion normalizes a timestamped snapshot such as
// "1.0-20240101.123456-3" to "1.0-SNAPSHOT". Other versions are returned as is.
func (a Artifact) BaseVersion() string {
	return BaseVersion(a.Version)
}

// BaseVersion normalizes a timestamped snapshot version string.
func BaseVersion(v string) string {
	if m := timestampSnapshot.FindStringSubmatch(v); m != nil {
		return m[1] + "-SNAPSHOT"
	}
	return v
}

// IsSnapshot reports whether the artifact is a snapshot build.
func (a Artifact) IsSnapshot() bool {
	return strings.HasSuffix(a.BaseVersion(), "-SNAPSHOT")
}

// SameDependency reports whether a and b share a conflict key.
func (a Artifact) SameDependency(b Artifact) bool {
	return a.ConflictKey() == b.ConflictKey()
}

// Identical reports whether a and b share a conflict key and version.
// Scope is deliberately ignored.
func (a Artifact) Identical(b Artifact) bool {
	return a.ID() == b.ID()
}

// Validate checks that the mandatory coordinates are present and safe.
func (a Artifact) Validate() error {
	if err := errors.ValidateCoordinate("groupId", a.GroupID); err != nil {
		return err
	}
	if err := errors.ValidateCoordinate("artifactId", a.ArtifactID); err != nil {
		return err
	}
	if a.Type != "" {
		if err := errors.ValidateCoordinate("type", a.Type); err != nil {
			return err
		}
	}
	if a.Classifier != "" {
		if err := errors.ValidateCoordinate("classifier", a.Classifier); err != nil {
			return err
		}
	}
	if err := errors.ValidateVersion(a.Version); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidArtifact, err, "artifact %s", a.VersionlessKey())
	}
	if a.Scope != ScopeNone && !a.Scope.Valid() {
		return errors.New(errors.ErrCodeInvalidScope, "artifact %s has unknown scope %q", a.VersionlessKey(), a.Scope)
	}
	return nil
}

// Clone returns a copy of a that shares no slices with it.
func (a Artifact) Clone() Artifact {
	a.Exclusions = slices.Clone(a.Exclusions)
	a.DependencyTrail = slices.Clone(a.DependencyTrail)
	return a
}

// Parse parses a coordinate string. Accepted forms are:
//
//	groupId:artifactId:version
//	groupId:artifactId:type:version
//	groupId:artifactId:type:classifier:version
//	groupId:artifactId:type:version:scope
//	groupId:artifactId:type:classifier:version:scope
//
// A five-part coordinate whose last field names a scope is read as
// type:version:scope, otherwise as type:classifier:version.
func Parse(coord string) (Artifact, error) {
	parts := strings.Split(strings.TrimSpace(coord), ":")
	var a Artifact
	switch len(parts) {
	case 3:
		a = Artifact{GroupID: parts[0], ArtifactID: parts[1], Version: parts[2]}
	case 4:
		a = Artifact{GroupID: parts[0], ArtifactID: parts[1], Type: parts[2], Version: parts[3]}
	case 5:
		if Scope(parts[4]).Valid() {
			a = Artifact{GroupID: parts[0], ArtifactID: parts[1], Type: parts[2], Version: parts[3], Scope: Scope(parts[4])}
		} else {
			a = Artifact{GroupID: parts[0], ArtifactID: parts[1], Type: parts[2], Classifier: parts[3], Version: parts[4]}
		}
	case 6:
		a = Artifact{GroupID: parts[0], ArtifactID: parts[1], Type: parts[2], Classifier: parts[3], Version: parts[4], Scope: Scope(parts[5])}
	default:
		return Artifact{}, errors.New(errors.ErrCodeInvalidArtifact, "invalid coordinate %q: expected groupId:artifactId[:type[:classifier]]:version[:scope]", coord)
	}
	if a.Type == "" {
		a.Type = DefaultType
	}
	if err := a.Validate(); err != nil {
		return Artifact{}, err
	}
	return a, nil
}

// ParseKey parses "groupId:artifactId[:type[:classifier]]" and returns the
// corresponding conflict key with the default type filled in.
func ParseKey(key string) (string, error) {
	parts := strings.Split(strings.TrimSpace(key), ":")
	if len(parts) < 2 || len(parts) > 4 {
		return "", errors.New(errors.ErrCodeInvalidArtifact, "invalid artifact key %q: expected groupId:artifactId[:type[:classifier]]", key)
	}
	for i, p := range parts {
		if err := errors.ValidateCoordinate(keyFields[i], p); err != nil {
			return "", err
		}
	}
	a := Artifact{GroupID: parts[0], ArtifactID: parts[1]}
	if len(parts) > 2 {
		a.Type = parts[2]
	}
	if len(parts) > 3 {
		a.Classifier = parts[3]
	}
	return a.ConflictKey(), nil
}

var keyFields = []string{"groupId", "artifactId", "type", "classifier"}
