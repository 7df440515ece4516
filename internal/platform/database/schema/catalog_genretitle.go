package schema

// GenreTitleTable represents the 'catalog.genretitle' junction table
type GenreTitleTable struct {
	Table   string
	TitleID string
	GenreID string
}

// GenreTitle is the schema definition for catalog.genretitle
var GenreTitle = GenreTitleTable{
	Table:   "catalog.genretitle",
	TitleID: "titleid",
	GenreID: "genreid",
}
