// Package download drives the yt-dlp executable: it builds the clip fetch
// invocation and probes sources for metadata before a clip is requested.
// Local files are probed with ffprobe instead.
package download
