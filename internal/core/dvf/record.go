package dvf

// Source column names, as they appear in the archive header
const (
	ColDateMutation      = "Date mutation"
	ColNatureMutation    = "Nature mutation"
	ColValeurFonciere    = "Valeur fonciere"
	ColNoVoie            = "No voie"
	ColBTQ               = "B/T/Q"
	ColTypeVoie          = "Type de voie"
	ColCodeVoie          = "Code voie"
	ColVoie              = "Voie"
	ColCodePostal        = "Code postal"
	ColCommune           = "Commune"
	ColCodeDepartement   = "Code departement"
	ColCodeCommune       = "Code commune"
	ColPrefixeSection    = "Prefixe de section"
	ColSection           = "Section"
	ColNoPlan            = "No plan"
	ColNoVolume          = "No Volume"
	ColLot1              = "1er lot"
	ColSurfaceLot1       = "Surface Carrez du 1er lot"
	ColLot2              = "2e lot"
	ColSurfaceLot2       = "Surface Carrez du 2e lot"
	ColLot3              = "3e lot"
	ColSurfaceLot3       = "Surface Carrez du 3e lot"
	ColLot4              = "4e lot"
	ColSurfaceLot4       = "Surface Carrez du 4e lot"
	ColLot5              = "5e lot"
	ColSurfaceLot5       = "Surface Carrez du 5e lot"
	ColNombreLots        = "Nombre de lots"
	ColCodeTypeLocal     = "Code type local"
	ColTypeLocal         = "Type local"
	ColSurfaceReelleBati = "Surface reelle bati"
	ColNombrePieces      = "Nombre pieces principales"
	ColNatureCulture     = "Nature culture"
	ColNatureCultureSpec = "Nature culture speciale"
	ColSurfaceTerrain    = "Surface terrain"
)

// RawRecord is one decoded source line keyed by header name
type RawRecord map[string]string

// Get returns the value of column, "" when the column is absent
func (r RawRecord) Get(column string) string { return r[column] }
