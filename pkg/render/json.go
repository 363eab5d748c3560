package render

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/matzehuels/mvntree/pkg/tree"
)

type jsonNode struct {
	ID         string `json:"id"`
	GroupID    string `json:"groupId"`
	ArtifactID string `json:"artifactId"`
	Type       string `json:"type"`
	Classifier string `json:"classifier,omitempty"`
	Version    string `json:"version"`
	Scope      string `json:"scope,omitempty"`
	Optional   bool   `json:"optional,omitempty"`
	State      string `json:"state"`
	Label      string `json:"label"`

	Annotations []string `json:"annotations,omitempty"`

	Related           string `json:"related,omitempty"`
	PremanagedVersion string `json:"premanagedVersion,omitempty"`
	PremanagedScope   string `json:"premanagedScope,omitempty"`
	OriginalScope     string `json:"originalScope,omitempty"`
	FailedUpdateScope string `json:"failedUpdateScope,omitempty"`
	VersionConstraint string `json:"versionConstraint,omitempty"`

	Children []*jsonNode `json:"children,omitempty"`
}

func toJSONNode(n *tree.Node) *jsonNode {
	a := n.Artifact
	out := &jsonNode{
		ID:                a.ID(),
		GroupID:           a.GroupID,
		ArtifactID:        a.ArtifactID,
		Type:              a.Type,
		Classifier:        a.Classifier,
		Version:           a.Version,
		Scope:             string(a.Scope),
		Optional:          a.Optional,
		State:             n.State.String(),
		Label:             n.String(),
		Annotations:       n.Annotations(),
		PremanagedVersion: n.PremanagedVersion,
		PremanagedScope:   string(n.PremanagedScope),
		OriginalScope:     string(n.OriginalScope),
		FailedUpdateScope: string(n.FailedUpdateScope),
		VersionConstraint: n.VersionConstraint,
	}
	if r, ok := n.RelatedArtifact(); ok {
		out.Related = r.ID()
	}
	return out
}

// WriteJSON encodes the tree as one nested JSON document rooted at the
// project. Nodes rejected by filter are left out.
func WriteJSON(w io.Writer, t *tree.Tree, filter tree.NodeFilter) error {
	order, parents := visibleParents(t, filter)
	nodes := make(map[*tree.Node]*jsonNode, len(order))
	var root *jsonNode
	for _, n := range order {
		jn := toJSONNode(n)
		nodes[n] = jn
		if p := parents[n]; p != nil {
			nodes[p].Children = append(nodes[p].Children, jn)
		} else {
			root = jn
		}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(root); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}
