// Command anthologiser splits large TEI documents into per-work files laid
// out in buckets below a target folder, and maintains the anthology catalogs
// and the versions registry that describe them.
//
// Typical use:
//
//	anthologiser split -f poems/harpur -l /harpur -s harpur.xml
//	anthologiser catalog show harpur
//	anthologiser versions list
//
// Configuration is read from ~/.config/anthologiser/config.toml (or the file
// given with --config); split flags override it for a single run.
package main
