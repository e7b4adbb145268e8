// Package preflight provides readiness checks for the folders and auxiliary
// tables a split run depends on.
//
// The CLI "config validate" command runs them so problems surface before a
// split starts writing. A directory that does not exist yet passes when the
// closest existing ancestor is writable, since runs create their folders.
package preflight
