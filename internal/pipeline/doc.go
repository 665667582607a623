// Package pipeline turns clip requests into finished files.
//
// A Controller owns the single job slot. Local sources are cut and encoded by
// ffmpeg in one phase. Remote sources are fetched by yt-dlp; tiers above
// 1080p (and Best) are fetched to an intermediate file and re-encoded in a
// second phase. Progress from every phase is folded into one 0-100 stream
// delivered in order to the progress callback.
package pipeline
