package schema

// TitleTable represents the 'catalog.title' table
type TitleTable struct {
	Table       string
	ID          string
	Name        string
	Year        string
	Description string
	CategoryID  string
	Rating      string
	CreatedAt   string
	UpdatedAt   string
}

// Title is the schema definition for catalog.title
var Title = TitleTable{
	Table:       "catalog.title",
	ID:          "id",
	Name:        "name",
	Year:        "year",
	Description: "description",
	CategoryID:  "categoryid",
	Rating:      "rating",
	CreatedAt:   "createdat",
	UpdatedAt:   "updatedat",
}
