package domain

type Book struct {
	ID     int64
	ISBN   string
	Title  string
	Author string
	Year   int
}

// Summary is the public API view of a book with its local review aggregate.
type Summary struct {
	Title        string  `json:"title"`
	Author       string  `json:"author"`
	Year         int     `json:"year"`
	ISBN         string  `json:"isbn"`
	AverageScore float64 `json:"average_score"`
	ReviewCount  int64   `json:"review_count"`
}
