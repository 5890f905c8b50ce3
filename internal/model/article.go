package model

// ArticleSummary is an article's canonical title with its plain-text lead
// extract and lead image.
type ArticleSummary struct {
	Title    string `json:"title"`
	Extract  string `json:"extract,omitempty"`
	ImageURL string `json:"image_url,omitempty"`
}

// LeadMarkup is the raw markup of an article's lead section
type LeadMarkup struct {
	Title  string `json:"title"`
	Markup string `json:"markup"`
}
