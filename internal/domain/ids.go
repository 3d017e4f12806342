package domain

import "github.com/google/uuid"

var artifactNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("studygen/artifact"))

// ArtifactID derives a stable identifier from an artifact's content, so the
// same input text always yields the same card and question IDs.
func ArtifactID(kind, prompt, answer string) string {
	return uuid.NewSHA1(artifactNamespace, []byte(kind+"|"+prompt+"|"+answer)).String()
}
