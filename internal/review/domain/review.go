package domain

import "time"

type Review struct {
	ID        string
	BookID    int64
	UserID    string
	Rating    int
	Text      string
	CreatedAt time.Time
}

// Listed is a review joined with its author's username.
type Listed struct {
	Review
	Username string
}

// Stats aggregates all reviews of one book. Sum is the total of all ratings.
type Stats struct {
	Count int64
	Sum   int64
}
