package model

// GuidelineSnippet is one retrieved regulatory passage. Snippets are
// read-only references into the shared corpus, never owned by a request.
type GuidelineSnippet struct {
	ID             string `json:"id"`
	Text           string `json:"text"`
	RelevanceQuery string `json:"relevance_query"`
	Rank           int    `json:"rank"`
}
