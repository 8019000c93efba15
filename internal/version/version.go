// Package version holds the build version string.
package version

// Version is the semantic version of the refiner. Overridden at build time via
// -ldflags "-X github.com/siddharth-k03/prompt-refiner-anatomy/internal/version.Version=...".
var Version = "0.1.0"
