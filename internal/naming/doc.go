// Package naming turns the raw labels found after split markers into the
// identities and display titles used on disk.
//
// Labels pass through an optional alias table that merges alternative names
// for one work and strips configured noise substrings. Version identifiers
// such as "H1a" map back to their work ("H1"), and an optional tab-separated
// table maps work identifiers to display titles.
package naming
