// Package dvf holds the canonical DVF row model and the pure field mapping
// from one raw source record to one row.
//
// Source columns are the French headers of the "Demandes de valeurs foncieres"
// pipe-delimited files. Every derived value is a string; a value that cannot be
// derived is "" and never an error.
package dvf
