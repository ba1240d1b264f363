// Package domain holds the ports and data structures of the DVF pipeline
package domain

import "dvf/internal/adapters/reference/cadastre"

// Parcels re-exports the parcel geometry map keyed by parcel id
type Parcels = cadastre.Parcels

// Vintage statuses written to the ledger
const (
	StatusRunning = "running"
	StatusOK      = "ok"
	StatusError   = "error"
)

// VintageFinish is the outcome of one processed vintage
type VintageFinish struct {
	Status            string
	RowsRead          int
	RowsLocated       int
	Communes          int
	Departements      int
	FilesWritten      int
	BytesUncompressed int64
	ReadMS            int
	EnrichMS          int
	ExportMS          int
	SinkMS            int
	ElapsedMS         int
	ErrText           string
}
