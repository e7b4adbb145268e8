// Package workflow runs one split of a source document against a target
// folder from start to finish.
//
// A run takes an exclusive lock on the target folder, loads the auxiliary
// tables, the anthology catalog and the versions registry, re-ingests the
// identities written by earlier runs, splits the document, lays every
// identity out into buckets and finally persists the catalog, the registry
// and the archive side-car. Input errors are reported before anything under
// the target folder changes; later failures abort the run and leave already
// flushed directories in place for the next run to pick up.
package workflow
