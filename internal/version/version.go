// Package version provides build and version information.
package version

// Version is the current application version.
const Version = "0.4.0"

// Milestones:
// 0.4.0 - Data directory watching, browse view with name search and sky focus
// 0.3.0 - TOML catalog loader, cross-index ranges, localized names
// 0.2.0 - Magnitude-pruned octrees, visibility and proximity queries
// 0.1.0 - Initial release: index allocator, catalog registry, name database
