// Package progress decodes the progress output of the external downloader and
// encoder and folds per-phase percentages into one end-to-end value.
//
// Decoders never fail: a line they do not understand yields no record.
package progress
