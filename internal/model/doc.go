// Package model defines domain data structures shared across the clipper: quality
// tiers, container formats, clip requests, progress records, pipeline states and the
// error taxonomy surfaced to callers.
package model
