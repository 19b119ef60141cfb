package model

const (
	ReviewPositive = "positive"
	ReviewNegative = "negative"
)

type Review struct {
	ID           string `json:"id"`
	BookID       string `json:"bookId"`
	Reviewer     string `json:"reviewer"`
	ReviewerID   string `json:"reviewerId"`
	ReviewAvatar string `json:"reviewAvatar,omitempty"`
	// ReviewText is nil for a rating-only review.
	ReviewText *string `json:"reviewText"`
	Type       string  `json:"type"`
	ReviewDate string  `json:"reviewDate"`
}
