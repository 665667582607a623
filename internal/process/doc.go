// Package process spawns and supervises the external downloader and encoder.
//
// One process runs at a time per job. Its pid is recorded in the shared Slot,
// which is the only handle cancellation uses to stop it.
package process
