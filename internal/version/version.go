// ABOUTME: Version information for wavecut
// ABOUTME: Product and version strings shown in the editor and CLI
package version

const (
	// Version is the current release
	Version = "0.3.0"

	// Product is the display name
	Product = "wavecut"

	// Manufacturer is the project maintaining the tool
	Manufacturer = "Resonate Protocol"
)

// String returns "product version"
func String() string {
	return Product + " " + Version
}
