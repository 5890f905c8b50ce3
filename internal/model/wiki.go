package model

// WikiResult is the outcome of resolving a feature to an encyclopedia article.
// When Found is false every other field is empty.
type WikiResult struct {
	Found     bool   `json:"found"`
	WikiTitle string `json:"wiki_title,omitempty"`
	Extract   string `json:"extract,omitempty"`
	Image     string `json:"image,omitempty"`
	Stats     []Stat `json:"stats"`
}

// NotFound returns the canonical miss result
func NotFound() WikiResult {
	return WikiResult{Found: false, Stats: []Stat{}}
}

// Clone returns a copy sharing no mutable state with r
func (r WikiResult) Clone() WikiResult {
	r.Stats = CloneStats(r.Stats)
	return r
}

// EntityCard is the payload a sidebar renders for a selected feature
type EntityCard struct {
	Title       string     `json:"title"`
	Category    Category   `json:"category"`
	WikiTitle   string     `json:"wiki_title"`
	Description string     `json:"description"`
	ImageURL    string     `json:"image_url,omitempty"`
	Stats       []Stat     `json:"stats"`
	Wiki        WikiResult `json:"wiki"`
}
