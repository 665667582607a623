// Package platform contains OS integration for the clipper: default output
// directories, bundled executable lookup, process termination and revealing
// finished clips in the system file manager.
package platform
