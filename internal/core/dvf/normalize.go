package dvf

import "dvf/internal/core/textclean"

// Normalizer maps raw records to rows. Lookups are shared read-only across goroutines.
type Normalizer struct {
	Cultures  Lookup
	Speciales Lookup
}

// Normalize maps one raw record; it never fails
func (n Normalizer) Normalize(rec RawRecord) *Row {
	get := func(col string) string { return textclean.Clean(rec.Get(col)) }

	codeCommune := CodeCommune(get(ColCodeDepartement), get(ColCodeCommune))
	culture := get(ColNatureCulture)
	speciale := get(ColNatureCultureSpec)

	return NewRow(Fields{
		DateMutation:   ParseDateMutation(get(ColDateMutation)),
		NatureMutation: get(ColNatureMutation),
		ValeurFonciere: ParsePrice(get(ColValeurFonciere)),

		AdresseNumero:   get(ColNoVoie),
		AdresseSuffixe:  get(ColBTQ),
		AdresseNomVoie:  JoinNonBlank(get(ColTypeVoie), get(ColVoie)),
		AdresseCodeVoie: get(ColCodeVoie),

		CodePostal:      CodePostal(get(ColCodePostal)),
		CodeCommune:     codeCommune,
		NomCommune:      get(ColCommune),
		CodeDepartement: CodeDepartement(codeCommune),
		IDParcelle:      IDParcelle(codeCommune, get(ColPrefixeSection), get(ColSection), get(ColNoPlan)),

		NumeroVolume: get(ColNoVolume),
		Lots: [5]Lot{
			{get(ColLot1), get(ColSurfaceLot1)},
			{get(ColLot2), get(ColSurfaceLot2)},
			{get(ColLot3), get(ColSurfaceLot3)},
			{get(ColLot4), get(ColSurfaceLot4)},
			{get(ColLot5), get(ColSurfaceLot5)},
		},
		NombreLots: get(ColNombreLots),

		CodeTypeLocal:           get(ColCodeTypeLocal),
		TypeLocal:               get(ColTypeLocal),
		SurfaceReelleBati:       get(ColSurfaceReelleBati),
		NombrePiecesPrincipales: get(ColNombrePieces),

		CodeNatureCulture:         culture,
		NatureCulture:             LabelOr(n.Cultures, culture, ""),
		CodeNatureCultureSpeciale: speciale,
		NatureCultureSpeciale:     LabelOr(n.Speciales, speciale, ""),
		SurfaceTerrain:            get(ColSurfaceTerrain),
	})
}
