// Package mediatypes classifies directory entry names into videos, images,
// and entries the scanner should skip. Classification is by lowercased
// extension membership; it never touches the filesystem.
package mediatypes
