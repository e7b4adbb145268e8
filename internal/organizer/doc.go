// Package organizer writes the identities held by the content store into
// the target folder.
//
// Identities are allocated to buckets, each bucket gets its own directory
// (or, with sub-folders disabled, every identity lands in the target root),
// the store flushes every identity into place and the anthology catalog
// receives one link per identity. Directory creation and flush failures are
// fatal; directories flushed before the failure stay on disk.
package organizer
