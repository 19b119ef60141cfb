package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/truyenhub/truyenhub/docstore"
	"github.com/truyenhub/truyenhub/model"
)

func reviewsOf(positive, negative int) []model.Review {
	var out []model.Review
	for i := 0; i < positive; i++ {
		out = append(out, model.Review{Type: "Positive"})
	}
	for i := 0; i < negative; i++ {
		out = append(out, model.Review{Type: model.ReviewNegative})
	}
	return out
}

func TestAnalyzeReviews(t *testing.T) {
	tests := []struct {
		name     string
		positive int
		negative int
		percent  int
		verdict  string
	}{
		{"no reviews", 0, 0, 0, VerdictNone},
		{"overwhelmingly positive", 9, 1, 90, VerdictOverwhelmingPos},
		{"very positive", 3, 1, 75, VerdictVeryPositive},
		{"mostly positive", 2, 1, 67, VerdictMostlyPositive},
		{"mixed", 1, 1, 50, VerdictMixed},
		{"mostly negative", 2, 3, 40, VerdictMixed},
		{"leaning negative", 1, 2, 33, VerdictMostlyNegative},
		{"very negative", 1, 9, 10, VerdictVeryNegative},
		{"overwhelmingly negative", 0, 5, 0, VerdictOverwhelmingNeg},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			a := AnalyzeReviews(reviewsOf(tc.positive, tc.negative))
			require.Equal(t, tc.positive, a.PositiveCount)
			require.Equal(t, tc.negative, a.NegativeCount)
			require.Equal(t, tc.positive+tc.negative, a.TotalCount)
			require.Equal(t, tc.percent, a.PositivePercentage)
			require.Equal(t, tc.verdict, a.Verdict)
		})
	}
}

func TestAnalyzeReviewsCountsSum(t *testing.T) {
	// unknown rating strings land on the negative side, never uncounted
	a := AnalyzeReviews([]model.Review{{Type: "positive"}, {Type: "weird"}, {Type: ""}})
	require.Equal(t, a.TotalCount, a.PositiveCount+a.NegativeCount)
}

func TestFetchReviewsSortedNewestFirst(t *testing.T) {
	s, db, _ := newTestStore(t)
	ctx := context.Background()

	seedDoc(t, db, docstore.CollectionReviews, "r1", docstore.Doc{
		"bookId": "b1", "type": "positive", "reviewDate": "5/1/2024",
	})
	seedDoc(t, db, docstore.CollectionReviews, "r2", docstore.Doc{
		"bookId": "b1", "type": "negative", "reviewDate": "7/3/2024",
	})
	seedDoc(t, db, docstore.CollectionReviews, "r3", docstore.Doc{
		"bookId": "b2", "type": "positive", "reviewDate": "1/1/2024",
	})

	require.NoError(t, s.FetchReviewsByBookID(ctx, "b1"))

	reviews := s.Reviews().Reviews
	require.Len(t, reviews, 2)
	require.Equal(t, "r2", reviews[0].ID)
	require.Equal(t, "r1", reviews[1].ID)
}

func TestFetchReviewsRejectsEmptyBookID(t *testing.T) {
	s, _, _ := newTestStore(t)

	err := s.FetchReviewsByBookID(context.Background(), "")
	require.EqualError(t, err, "Invalid bookId provided")
	require.Equal(t, "Invalid bookId provided", s.Reviews().Err)
}

func TestCreateReviewLinksUserDocument(t *testing.T) {
	s, db, fake := newTestStore(t)
	ctx := context.Background()
	userID := loginAs(t, s, db, fake)

	err := s.CreateReview(ctx, CreateReviewParams{
		BookID:   "b1",
		Reviewer: "an",
		Text:     "hay lắm",
		Type:     model.ReviewPositive,
	})
	require.NoError(t, err)

	state := s.Reviews()
	require.Len(t, state.Reviews, 1)
	require.NotNil(t, state.UserReview)
	require.NotNil(t, state.UserReview.ReviewText)
	require.Equal(t, "hay lắm", *state.UserReview.ReviewText)

	userDoc, err := db.Get(ctx, docstore.CollectionUsers, userID)
	require.NoError(t, err)
	require.Contains(t, asStringList(userDoc["reviewIdList"]), state.UserReview.ID)
}

func TestUpdateReviewClearsText(t *testing.T) {
	s, db, fake := newTestStore(t)
	ctx := context.Background()
	loginAs(t, s, db, fake)

	require.NoError(t, s.CreateReview(ctx, CreateReviewParams{
		BookID: "b1", Reviewer: "an", Text: "tạm được", Type: model.ReviewPositive,
	}))
	reviewID := s.Reviews().UserReview.ID

	require.NoError(t, s.UpdateReview(ctx, reviewID, "b1", "", model.ReviewNegative))

	updated := s.Reviews().UserReview
	require.NotNil(t, updated)
	require.Nil(t, updated.ReviewText)
	require.Equal(t, model.ReviewNegative, updated.Type)
}

func TestFetchUserReviewForBookAbsent(t *testing.T) {
	s, db, fake := newTestStore(t)
	loginAs(t, s, db, fake)

	require.NoError(t, s.FetchUserReviewForBook(context.Background(), "b1"))
	require.Nil(t, s.Reviews().UserReview)
	require.Empty(t, s.Reviews().Err)
}
