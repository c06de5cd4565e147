package model

// Book is one catalog row. Immutable after load.
type Book struct {
	Title    string `json:"title"`
	Author   string `json:"author"`
	Genre    string `json:"genre"`
	CoverURL string `json:"img"`
}

// BookCard is an owned title enriched with catalog metadata.
// Metadata fields stay empty when the catalog has no exact match.
type BookCard struct {
	Title    string `json:"title"`
	CoverURL string `json:"img"`
	Author   string `json:"author"`
	Genre    string `json:"genre"`
}

// CandidateBook is another user's book as shown in the exchange listing.
type CandidateBook struct {
	UserName   string  `json:"user_name"`
	UserEmail  string  `json:"user_email"`
	UserCity   string  `json:"user_city"`
	BookTitle  string  `json:"book_title"`
	ImageURL   string  `json:"image_url"`
	Similarity float64 `json:"similarity"`
}
