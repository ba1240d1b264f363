// Package dvfarchive streams raw records out of the yearly DVF archives.
//
// An archive is a gzip-compressed, pipe-delimited text file whose first line
// is the header. Files are named valeursfoncieres-<vintage>.txt.gz.
package dvfarchive
