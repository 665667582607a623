// Package encode builds ffmpeg invocations for clipping local files and for
// re-encoding downloaded clips into a high-efficiency codec.
//
// Codec settings live in Profiles, a table keyed by container format for
// clipping and by operating system for transcoding. The built-in table can be
// overridden from a YAML file with LoadProfiles.
package encode
