// Package textutil provides small string helpers for file names, path
// segments and descriptive text.
package textutil
