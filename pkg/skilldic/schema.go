// pkg/skilldic/schema.go
package skilldic

type Dictionary struct {
	Version     string  `json:"version"`
	LastUpdated string  `json:"lastUpdated"`
	Dimension   int     `json:"dimension"`
	Entries     []Entry `json:"entries"`
}

type Entry struct {
	Skill    string    `json:"skill"`
	Category string    `json:"category"`
	Vector   []float32 `json:"vector"`
}
