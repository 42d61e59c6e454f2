package spec

import "path"

// ArtifactRef describes one fetch/publish unit: a remote source and the
// managed-storage path it is published to. Refs are processed in declaration
// order and the outcome list preserves that order.
type ArtifactRef struct {
	SourceURL string `yaml:"source"`
	DestPath  string `yaml:"dest"`
	SHA256    string `yaml:"sha256,omitempty"` // optional integrity check
}

// FileName returns the artifact's base file name, used to match a published
// artifact against the notebook that expects it.
func (r ArtifactRef) FileName() string {
	return path.Base(r.DestPath)
}
