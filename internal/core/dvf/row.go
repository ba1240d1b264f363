package dvf

import "strconv"

// Columns is the header of every export file, in output order
var Columns = []string{
	"date_mutation", "nature_mutation", "valeur_fonciere",
	"adresse_numero", "adresse_suffixe", "adresse_nom_voie", "adresse_code_voie",
	"code_postal", "code_commune", "nom_commune", "code_departement", "id_parcelle",
	"numero_volume",
	"lot1_numero", "lot1_surface_carrez", "lot2_numero", "lot2_surface_carrez",
	"lot3_numero", "lot3_surface_carrez", "lot4_numero", "lot4_surface_carrez",
	"lot5_numero", "lot5_surface_carrez", "nombre_lots",
	"code_type_local", "type_local", "surface_reelle_bati", "nombre_pieces_principales",
	"code_nature_culture", "nature_culture", "code_nature_culture_speciale", "nature_culture_speciale",
	"surface_terrain",
	"longitude", "latitude",
}

// Fields is the normalized, immutable part of a row
type Fields struct {
	DateMutation   string
	NatureMutation string
	ValeurFonciere string

	AdresseNumero   string
	AdresseSuffixe  string
	AdresseNomVoie  string
	AdresseCodeVoie string

	CodePostal      string
	CodeCommune     string
	NomCommune      string
	CodeDepartement string
	IDParcelle      string

	NumeroVolume string
	Lots         [5]Lot
	NombreLots   string

	CodeTypeLocal           string
	TypeLocal               string
	SurfaceReelleBati       string
	NombrePiecesPrincipales string

	CodeNatureCulture         string
	NatureCulture             string
	CodeNatureCultureSpeciale string
	NatureCultureSpeciale     string
	SurfaceTerrain            string
}

// Lot is one of the five lot number / Carrez surface pairs
type Lot struct {
	Numero        string
	SurfaceCarrez string
}

// Coordinates is a WGS84 position rounded to 6 decimals
type Coordinates struct {
	Lon, Lat float64
}

// Row is a normalized record plus an optional location patch applied at most once
type Row struct {
	fields Fields
	coords *Coordinates
}

// NewRow wraps normalized fields
func NewRow(f Fields) *Row { return &Row{fields: f} }

// Fields returns a copy of the normalized fields
func (r *Row) Fields() Fields { return r.fields }

// CodeCommune is a shortcut used as grouping key
func (r *Row) CodeCommune() string { return r.fields.CodeCommune }

// CodeDepartement is a shortcut used as grouping key
func (r *Row) CodeDepartement() string { return r.fields.CodeDepartement }

// IDParcelle is a shortcut used for the geometry lookup
func (r *Row) IDParcelle() string { return r.fields.IDParcelle }

// Locate applies the coordinate patch. It reports false, leaving the row
// untouched, when the row was already located.
func (r *Row) Locate(c Coordinates) bool {
	if r.coords != nil {
		return false
	}
	r.coords = &c
	return true
}

// Coordinates returns the location patch, if any
func (r *Row) Coordinates() (Coordinates, bool) {
	if r.coords == nil {
		return Coordinates{}, false
	}
	return *r.coords, true
}

// Record renders the row in Columns order
func (r *Row) Record() []string {
	f := &r.fields
	lon, lat := "", ""
	if r.coords != nil {
		lon = formatCoord(r.coords.Lon)
		lat = formatCoord(r.coords.Lat)
	}
	return []string{
		f.DateMutation, f.NatureMutation, f.ValeurFonciere,
		f.AdresseNumero, f.AdresseSuffixe, f.AdresseNomVoie, f.AdresseCodeVoie,
		f.CodePostal, f.CodeCommune, f.NomCommune, f.CodeDepartement, f.IDParcelle,
		f.NumeroVolume,
		f.Lots[0].Numero, f.Lots[0].SurfaceCarrez, f.Lots[1].Numero, f.Lots[1].SurfaceCarrez,
		f.Lots[2].Numero, f.Lots[2].SurfaceCarrez, f.Lots[3].Numero, f.Lots[3].SurfaceCarrez,
		f.Lots[4].Numero, f.Lots[4].SurfaceCarrez, f.NombreLots,
		f.CodeTypeLocal, f.TypeLocal, f.SurfaceReelleBati, f.NombrePiecesPrincipales,
		f.CodeNatureCulture, f.NatureCulture, f.CodeNatureCultureSpeciale, f.NatureCultureSpeciale,
		f.SurfaceTerrain,
		lon, lat,
	}
}

func formatCoord(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }
