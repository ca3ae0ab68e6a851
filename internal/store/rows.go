// internal/store/rows.go
package store

// MatchRow is one shortlist row coming back from a similarity query. The
// Experience field is the raw label stored in the database (for example
// "3-5 Years"); parsing it into years happens in the search layer.
type MatchRow struct {
	ID         string
	Title      string
	Company    string
	Skills     []string
	Experience string
	Similarity float64
}
