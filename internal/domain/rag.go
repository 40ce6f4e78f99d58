package domain

// SearchHit is one retrieved document chunk with its similarity score.
type SearchHit struct {
	Text   string  `json:"text"`
	Source string  `json:"source"`
	Score  float64 `json:"score"`
}
