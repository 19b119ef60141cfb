package store

import (
	"context"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/truyenhub/truyenhub/docstore"
	"github.com/truyenhub/truyenhub/gateway"
	"github.com/truyenhub/truyenhub/model"
)

// Review verdicts, keyed off the positive percentage.
const (
	VerdictNone            = "CHƯA CÓ ĐÁNH GIÁ"
	VerdictOverwhelmingPos = "CỰC KỲ TÍCH CỰC"
	VerdictVeryPositive    = "RẤT TÍCH CỰC"
	VerdictMostlyPositive  = "KHÁ TÍCH CỰC"
	VerdictMixed           = "LẪN LỘN"
	VerdictMostlyNegative  = "KHÁ TIÊU CỰC"
	VerdictVeryNegative    = "RẤT TIÊU CỰC"
	VerdictOverwhelmingNeg = "CỰC KỲ TIÊU CỰC"
)

func decodeReviews(docs []docstore.Doc) ([]model.Review, error) {
	reviews := make([]model.Review, 0, len(docs))
	for _, doc := range docs {
		gateway.NormalizeTimestamps(doc, "reviewDate")
		var r model.Review
		if err := model.Decode(doc, &r); err != nil {
			return nil, err
		}
		reviews = append(reviews, r)
	}
	return reviews, nil
}

// parseReviewDate reads the "{day}/{month}/{year}" field month-first, the
// same way the review screens always have. Days above 12 fail the parse
// and sort as the zero time.
func parseReviewDate(s string) time.Time {
	t, err := time.Parse("1/2/2006", s)
	if err != nil {
		return time.Time{}
	}
	return t
}

// FetchReviewsByBookID loads a book's reviews, newest first.
func (s *Store) FetchReviewsByBookID(ctx context.Context, bookID string) error {
	if bookID == "" {
		err := errors.New("Invalid bookId provided")
		s.reviewsMu.Lock()
		s.reviews.Err = err.Error()
		s.reviewsMu.Unlock()
		return err
	}

	s.reviewsMu.Lock()
	s.reviews.Loading = true
	s.reviews.Err = ""
	s.reviewsMu.Unlock()

	docs, err := s.gw.QueryByField(ctx, docstore.CollectionReviews, "bookId", bookID)
	if err == nil {
		var reviews []model.Review
		if reviews, err = decodeReviews(docs); err == nil {
			sort.SliceStable(reviews, func(i, j int) bool {
				return parseReviewDate(reviews[i].ReviewDate).After(parseReviewDate(reviews[j].ReviewDate))
			})
			s.reviewsMu.Lock()
			s.reviews.Reviews = reviews
			s.reviews.Loading = false
			s.reviewsMu.Unlock()
			return nil
		}
	}

	s.reviewsMu.Lock()
	s.reviews.Loading = false
	s.reviews.Err = err.Error()
	s.reviewsMu.Unlock()
	return err
}

// FetchUserReviewForBook looks up the signed-in user's own review of the
// book. No review is a normal outcome, not an error.
func (s *Store) FetchUserReviewForBook(ctx context.Context, bookID string) error {
	reviewerID := s.currentUserID()

	s.reviewsMu.Lock()
	s.reviews.Loading = true
	s.reviews.Err = ""
	s.reviewsMu.Unlock()

	docs, err := s.gw.QueryByFields(ctx, docstore.CollectionReviews,
		docstore.Eq("bookId", bookID),
		docstore.Eq("reviewerId", reviewerID))
	if err == nil {
		var review *model.Review
		if len(docs) > 0 {
			var reviews []model.Review
			if reviews, err = decodeReviews(docs[:1]); err == nil {
				review = &reviews[0]
			}
		}
		if err == nil {
			s.reviewsMu.Lock()
			s.reviews.UserReview = review
			s.reviews.Loading = false
			s.reviewsMu.Unlock()
			return nil
		}
	}

	s.reviewsMu.Lock()
	s.reviews.Loading = false
	s.reviews.Err = err.Error()
	s.reviewsMu.Unlock()
	return err
}

type CreateReviewParams struct {
	BookID   string
	Reviewer string
	Avatar   string
	// Text empty means a rating-only review.
	Text string
	Type string
}

// CreateReview writes the review under a store-minted id, links it into
// the reviewer's user document, then refreshes both review views.
func (s *Store) CreateReview(ctx context.Context, p CreateReviewParams) error {
	reviewerID := s.currentUserID()

	s.reviewsMu.Lock()
	s.reviews.Creating = true
	s.reviews.CreateErr = ""
	s.reviewsMu.Unlock()

	doc := docstore.Doc{
		"bookId":     p.BookID,
		"reviewer":   p.Reviewer,
		"reviewerId": reviewerID,
		"type":       p.Type,
		"reviewDate": docstore.Now(),
	}
	if p.Avatar != "" {
		doc["reviewAvatar"] = p.Avatar
	} else {
		doc["reviewAvatar"] = nil
	}
	if p.Text != "" {
		doc["reviewText"] = p.Text
	} else {
		doc["reviewText"] = nil
	}

	id, err := s.gw.AddDoc(ctx, docstore.CollectionReviews, doc)
	if err == nil {
		err = s.gw.UpdateDoc(ctx, docstore.CollectionUsers, reviewerID, docstore.Doc{
			"reviewIdList": docstore.ArrayUnion(id),
		})
	}
	if err != nil {
		s.reviewsMu.Lock()
		s.reviews.Creating = false
		s.reviews.CreateErr = err.Error()
		s.reviewsMu.Unlock()
		return err
	}

	s.reviewsMu.Lock()
	s.reviews.Creating = false
	s.reviewsMu.Unlock()

	if err := s.FetchReviewsByBookID(ctx, p.BookID); err != nil {
		return err
	}
	return s.FetchUserReviewForBook(ctx, p.BookID)
}

// UpdateReview rewrites the text and rating of an existing review and
// stamps a fresh review date. Clearing the text stores an explicit null.
func (s *Store) UpdateReview(ctx context.Context, reviewID, bookID, text, reviewType string) error {
	s.reviewsMu.Lock()
	s.reviews.Creating = true
	s.reviews.CreateErr = ""
	s.reviewsMu.Unlock()

	fields := docstore.Doc{
		"type":       reviewType,
		"reviewDate": docstore.Now(),
	}
	if text != "" {
		fields["reviewText"] = text
	} else {
		fields["reviewText"] = nil
	}

	if err := s.gw.UpdateDoc(ctx, docstore.CollectionReviews, reviewID, fields); err != nil {
		s.reviewsMu.Lock()
		s.reviews.Creating = false
		s.reviews.CreateErr = err.Error()
		s.reviewsMu.Unlock()
		return err
	}

	s.reviewsMu.Lock()
	s.reviews.Creating = false
	s.reviewsMu.Unlock()

	if err := s.FetchReviewsByBookID(ctx, bookID); err != nil {
		return err
	}
	return s.FetchUserReviewForBook(ctx, bookID)
}

// ReviewAnalysis is the aggregate shown on a book's review header.
type ReviewAnalysis struct {
	PositiveReviews []model.Review
	NegativeReviews []model.Review

	PositiveCount int
	NegativeCount int
	TotalCount    int

	PositivePercentage int
	NegativePercentage int

	Verdict string
}

// AnalyzeReviews splits reviews by rating and maps the positive share to
// a verdict. Any rating that is not positive counts as negative, so the
// two counts always sum to the total.
func AnalyzeReviews(reviews []model.Review) ReviewAnalysis {
	var a ReviewAnalysis
	for _, r := range reviews {
		if strings.ToLower(r.Type) == model.ReviewPositive {
			a.PositiveReviews = append(a.PositiveReviews, r)
		} else {
			a.NegativeReviews = append(a.NegativeReviews, r)
		}
	}
	a.PositiveCount = len(a.PositiveReviews)
	a.NegativeCount = len(a.NegativeReviews)
	a.TotalCount = len(reviews)

	if a.TotalCount == 0 {
		a.Verdict = VerdictNone
		return a
	}

	a.PositivePercentage = int(math.Round(float64(a.PositiveCount) / float64(a.TotalCount) * 100))
	a.NegativePercentage = int(math.Round(float64(a.NegativeCount) / float64(a.TotalCount) * 100))

	switch {
	case a.PositivePercentage >= 90:
		a.Verdict = VerdictOverwhelmingPos
	case a.PositivePercentage >= 75:
		a.Verdict = VerdictVeryPositive
	case a.PositivePercentage >= 60:
		a.Verdict = VerdictMostlyPositive
	case a.PositivePercentage >= 40:
		a.Verdict = VerdictMixed
	case a.PositivePercentage >= 25:
		a.Verdict = VerdictMostlyNegative
	case a.PositivePercentage >= 10:
		a.Verdict = VerdictVeryNegative
	default:
		a.Verdict = VerdictOverwhelmingNeg
	}
	return a
}
