// Package memeforge turns free-form frustration text into a rendered meme
// through a shape-validated, fail-fast step pipeline.
package memeforge

const (
	// Name identifies the service in logs and health responses
	Name = "memeforge"

	// Version is the service version reported at startup
	Version = "1.0.0"
)
