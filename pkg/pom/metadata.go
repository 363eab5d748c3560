package pom

import (
	"encoding/xml"
	"io"
	"strings"

	"github.com/matzehuels/mvntree/pkg/errors"
)

// Metadata is a repository's maven-metadata.xml for one groupId:artifactId.
type Metadata struct {
	XMLName    xml.Name   `xml:"metadata"`
	GroupID    string     `xml:"groupId"`
	ArtifactID string     `xml:"artifactId"`
	Versioning Versioning `xml:"versioning"`
}

// Versioning lists the published versions.
type Versioning struct {
	Latest      string   `xml:"latest"`
	Release     string   `xml:"release"`
	Versions    []string `xml:"versions>version"`
	LastUpdated string   `xml:"lastUpdated"`
}

// ParseMetadata reads a maven-metadata.xml document.
func ParseMetadata(r io.Reader) (*Metadata, error) {
	d := xml.NewDecoder(r)
	d.CharsetReader = charsetReader
	var m Metadata
	if err := d.Decode(&m); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "parse maven-metadata.xml")
	}
	versions := m.Versioning.Versions[:0]
	for _, v := range m.Versioning.Versions {
		if v = strings.TrimSpace(v); v != "" {
			versions = append(versions, v)
		}
	}
	m.Versioning.Versions = versions
	return &m, nil
}
