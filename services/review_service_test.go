package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/ping-point/api-go/models"
	"github.com/ping-point/api-go/types"
	"github.com/ping-point/api-go/visibility"
)

func firstPage() types.PageQuery {
	return types.PageQuery{Page: 1, PageSize: 20}
}

func createPlaceWithActivity(t *testing.T, f *serviceFixture, ownerID uint, placeName, activityName string) *models.PlaceActivity {
	t.Helper()
	ctx := context.Background()

	input := basePlaceInput()
	input.Name = placeName
	details, err := f.places.Create(ctx, input, ownerID)
	if err != nil {
		t.Fatalf("create place: %v", err)
	}

	activity, err := f.reviews.GetOrCreateActivity(ctx, details.ID, activityName)
	if err != nil {
		t.Fatalf("create activity: %v", err)
	}
	return activity
}

func postReview(t *testing.T, f *serviceFixture, activityID, authorID uint, rating int, content string) *ReviewDTO {
	t.Helper()
	dto, err := f.reviews.CreateReview(context.Background(), activityID, CreateReviewInput{
		Rating:  rating,
		Content: content,
	}, authorID)
	if err != nil {
		t.Fatalf("create review: %v", err)
	}
	return dto
}

func TestActivityNamesUniquePerPlace(t *testing.T) {
	f := newFixture(t)
	owner := createUser(t, f.db, "owner")
	ctx := context.Background()

	activity := createPlaceWithActivity(t, f, owner.ID, "Crag Cafe", "Bouldering")

	same, err := f.reviews.GetOrCreateActivity(ctx, activity.PlaceID, "  BOULDERING ")
	if err != nil {
		t.Fatalf("get existing activity: %v", err)
	}
	if same.ID != activity.ID {
		t.Fatalf("case-insensitive lookup should reuse the activity, got %d and %d", activity.ID, same.ID)
	}
}

func TestReviewThenCheckIn(t *testing.T) {
	f := newFixture(t)
	owner := createUser(t, f.db, "owner")
	author := createUser(t, f.db, "author")

	activity := createPlaceWithActivity(t, f, owner.ID, "Crag Cafe", "Bouldering")

	first := postReview(t, f, activity.ID, author.ID, 5, "great wall")
	if first.Kind != models.ReviewKindReview {
		t.Fatalf("first entry should be a review, got %s", first.Kind)
	}

	second := postReview(t, f, activity.ID, author.ID, 4, "back again")
	if second.Kind != models.ReviewKindCheckIn {
		t.Fatalf("repeat entry should be a check-in, got %s", second.Kind)
	}

	// A different author's first entry is still a review.
	other := createUser(t, f.db, "other")
	third := postReview(t, f, activity.ID, other.ID, 3, "")
	if third.Kind != models.ReviewKindReview {
		t.Fatalf("other author's first entry should be a review, got %s", third.Kind)
	}
}

func TestCreateReviewValidation(t *testing.T) {
	f := newFixture(t)
	owner := createUser(t, f.db, "owner")
	author := createUser(t, f.db, "author")
	ctx := context.Background()

	activity := createPlaceWithActivity(t, f, owner.ID, "Crag Cafe", "Bouldering")

	_, err := f.reviews.CreateReview(ctx, activity.ID, CreateReviewInput{Rating: 6}, author.ID)
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("rating 6: want validation error, got %v", err)
	}

	_, err = f.reviews.CreateReview(ctx, activity.ID, CreateReviewInput{Rating: 0}, author.ID)
	if !errors.As(err, &ve) {
		t.Fatalf("rating 0: want validation error, got %v", err)
	}

	long := strings.Repeat("a", 1001)
	_, err = f.reviews.CreateReview(ctx, activity.ID, CreateReviewInput{Rating: 3, Content: long}, author.ID)
	if !errors.As(err, &ve) {
		t.Fatalf("1001-char content: want validation error, got %v", err)
	}

	_, err = f.reviews.CreateReview(ctx, 99999, CreateReviewInput{Rating: 3}, author.ID)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing activity: want ErrNotFound, got %v", err)
	}
}

func TestCreateReviewModerationFailsClosed(t *testing.T) {
	f := newFixture(t)
	owner := createUser(t, f.db, "owner")
	author := createUser(t, f.db, "author")
	ctx := context.Background()

	activity := createPlaceWithActivity(t, f, owner.ID, "Crag Cafe", "Bouldering")

	f.moderation.banned = []string{"awful"}
	_, err := f.reviews.CreateReview(ctx, activity.ID, CreateReviewInput{Rating: 1, Content: "awful text"}, author.ID)
	var cr *ContentRejectedError
	if !errors.As(err, &cr) {
		t.Fatalf("flagged content: want ContentRejectedError, got %v", err)
	}

	f.moderation.banned = nil
	f.moderation.err = errors.New("moderation unavailable")
	_, err = f.reviews.CreateReview(ctx, activity.ID, CreateReviewInput{Rating: 3, Content: "anything"}, author.ID)
	if err == nil {
		t.Fatal("moderation outage should fail review creation")
	}
}

func TestCreateReviewTagHandling(t *testing.T) {
	f := newFixture(t)
	f.moderation.banned = []string{"badtag"}
	owner := createUser(t, f.db, "owner")
	author := createUser(t, f.db, "author")

	activity := createPlaceWithActivity(t, f, owner.ID, "Crag Cafe", "Bouldering")

	dto, err := f.reviews.CreateReview(context.Background(), activity.ID, CreateReviewInput{
		Rating: 4,
		Tags:   []string{"Cozy", " cozy ", "badtag", "quiet"},
	}, author.ID)
	if err != nil {
		t.Fatalf("create review: %v", err)
	}

	if len(dto.Tags) != 2 {
		t.Fatalf("want deduped tags with the flagged one dropped, got %v", dto.Tags)
	}
	got := map[string]bool{}
	for _, tag := range dto.Tags {
		got[tag] = true
	}
	if !got["cozy"] || !got["quiet"] {
		t.Fatalf("want normalized cozy+quiet, got %v", dto.Tags)
	}
}

func TestLikeIdempotentAndFloored(t *testing.T) {
	f := newFixture(t)
	owner := createUser(t, f.db, "owner")
	author := createUser(t, f.db, "author")
	fan := createUser(t, f.db, "fan")
	ctx := context.Background()

	activity := createPlaceWithActivity(t, f, owner.ID, "Crag Cafe", "Bouldering")
	review := postReview(t, f, activity.ID, author.ID, 5, "great")

	for i := 0; i < 3; i++ {
		if err := f.reviews.Like(ctx, review.ID, fan.ID); err != nil {
			t.Fatalf("like %d: %v", i, err)
		}
	}

	var row models.Review
	if err := f.db.First(&row, review.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if row.LikesCount != 1 {
		t.Fatalf("repeat likes must not inflate the counter, got %d", row.LikesCount)
	}

	for i := 0; i < 3; i++ {
		if err := f.reviews.Unlike(ctx, review.ID, fan.ID); err != nil {
			t.Fatalf("unlike %d: %v", i, err)
		}
	}
	if err := f.db.First(&row, review.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if row.LikesCount != 0 {
		t.Fatalf("counter should floor at zero, got %d", row.LikesCount)
	}

	if err := f.reviews.Like(ctx, 99999, fan.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("like missing review: want ErrNotFound, got %v", err)
	}
}

func TestLikedStateInFeed(t *testing.T) {
	f := newFixture(t)
	owner := createUser(t, f.db, "owner")
	author := createUser(t, f.db, "author")
	fan := createUser(t, f.db, "fan")
	ctx := context.Background()

	activity := createPlaceWithActivity(t, f, owner.ID, "Crag Cafe", "Bouldering")
	review := postReview(t, f, activity.ID, author.ID, 5, "great")

	if err := f.reviews.Like(ctx, review.ID, fan.ID); err != nil {
		t.Fatalf("like: %v", err)
	}

	page, err := f.reviews.GetReviews(ctx, activity.ID, ScopeGlobal, fan.ID, firstPage())
	if err != nil {
		t.Fatalf("feed: %v", err)
	}
	if len(page.Items) != 1 || !page.Items[0].IsLiked {
		t.Fatalf("fan's feed should mark the review liked: %+v", page.Items)
	}

	anon, err := f.reviews.GetReviews(ctx, activity.ID, ScopeGlobal, 0, firstPage())
	if err != nil {
		t.Fatalf("anon feed: %v", err)
	}
	if len(anon.Items) != 1 || anon.Items[0].IsLiked {
		t.Fatalf("anonymous feed should never mark likes: %+v", anon.Items)
	}
}

func TestGetReviewsScopes(t *testing.T) {
	f := newFixture(t)
	owner := createUser(t, f.db, "owner")
	me := createUser(t, f.db, "me")
	buddy := createUser(t, f.db, "buddy")
	stranger := createUser(t, f.db, "stranger")
	makeFriends(t, f.db, me.ID, buddy.ID)
	ctx := context.Background()

	activity := createPlaceWithActivity(t, f, owner.ID, "Crag Cafe", "Bouldering")
	postReview(t, f, activity.ID, me.ID, 5, "mine")
	postReview(t, f, activity.ID, buddy.ID, 4, "buddy's")
	postReview(t, f, activity.ID, stranger.ID, 3, "stranger's")

	mine, err := f.reviews.GetReviews(ctx, activity.ID, ScopeMine, me.ID, firstPage())
	if err != nil {
		t.Fatalf("mine: %v", err)
	}
	if mine.TotalCount != 1 || mine.Items[0].AuthorID != me.ID {
		t.Fatalf("mine scope mismatch: %+v", mine)
	}

	friends, err := f.reviews.GetReviews(ctx, activity.ID, ScopeFriends, me.ID, firstPage())
	if err != nil {
		t.Fatalf("friends: %v", err)
	}
	if friends.TotalCount != 1 || friends.Items[0].AuthorID != buddy.ID {
		t.Fatalf("friends scope mismatch: %+v", friends)
	}

	global, err := f.reviews.GetReviews(ctx, activity.ID, ScopeGlobal, me.ID, firstPage())
	if err != nil {
		t.Fatalf("global: %v", err)
	}
	if global.TotalCount != 3 {
		t.Fatalf("global scope should see all three, got %d", global.TotalCount)
	}

	_, err = f.reviews.GetReviews(ctx, activity.ID, "weekly", me.ID, firstPage())
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("unknown scope: want validation error, got %v", err)
	}
}

func TestGetReviewsFriendsScopeNoFriends(t *testing.T) {
	f := newFixture(t)
	owner := createUser(t, f.db, "owner")
	loner := createUser(t, f.db, "loner")
	ctx := context.Background()

	activity := createPlaceWithActivity(t, f, owner.ID, "Crag Cafe", "Bouldering")
	postReview(t, f, activity.ID, owner.ID, 5, "hello")

	page, err := f.reviews.GetReviews(ctx, activity.ID, ScopeFriends, loner.ID, firstPage())
	if err != nil {
		t.Fatalf("friends scope with no friends must not error: %v", err)
	}
	if page.TotalCount != 0 || len(page.Items) != 0 {
		t.Fatalf("want empty page, got %+v", page)
	}
}

func TestGetReviewsExcludesBlockedAuthors(t *testing.T) {
	f := newFixture(t)
	owner := createUser(t, f.db, "owner")
	me := createUser(t, f.db, "me")
	enemy := createUser(t, f.db, "enemy")
	blockUser(t, f.db, me.ID, enemy.ID)
	ctx := context.Background()

	activity := createPlaceWithActivity(t, f, owner.ID, "Crag Cafe", "Bouldering")
	postReview(t, f, activity.ID, enemy.ID, 1, "noise")
	postReview(t, f, activity.ID, owner.ID, 5, "signal")

	page, err := f.reviews.GetReviews(ctx, activity.ID, ScopeGlobal, me.ID, firstPage())
	if err != nil {
		t.Fatalf("feed: %v", err)
	}
	if page.TotalCount != 1 || page.Items[0].AuthorID != owner.ID {
		t.Fatalf("blocked author should be filtered: %+v", page.Items)
	}
}

func TestGetReviewsGrouped(t *testing.T) {
	f := newFixture(t)
	owner := createUser(t, f.db, "owner")
	author := createUser(t, f.db, "author")
	other := createUser(t, f.db, "other")
	ctx := context.Background()

	activity := createPlaceWithActivity(t, f, owner.ID, "Crag Cafe", "Bouldering")
	postReview(t, f, activity.ID, author.ID, 5, "first visit")
	postReview(t, f, activity.ID, author.ID, 4, "second visit")
	postReview(t, f, activity.ID, author.ID, 3, "third visit")
	postReview(t, f, activity.ID, other.ID, 2, "only one")

	page, err := f.reviews.GetReviewsGrouped(ctx, activity.ID, ScopeGlobal, 0, firstPage())
	if err != nil {
		t.Fatalf("grouped feed: %v", err)
	}
	if page.TotalCount != 2 {
		t.Fatalf("want one group per author, got %d", page.TotalCount)
	}

	var authorGroup *AuthorFeedGroup
	for i := range page.Items {
		if page.Items[i].AuthorID == author.ID {
			authorGroup = &page.Items[i]
		}
	}
	if authorGroup == nil {
		t.Fatal("author group missing")
	}
	if authorGroup.Latest.Content != "third visit" {
		t.Fatalf("latest should be the newest entry, got %q", authorGroup.Latest.Content)
	}
	if len(authorGroup.History) != 2 {
		t.Fatalf("want 2 history entries, got %d", len(authorGroup.History))
	}
}

func TestGetExplorePopularityOrder(t *testing.T) {
	f := newFixture(t)
	owner := createUser(t, f.db, "owner")
	author := createUser(t, f.db, "author")
	fans := []*models.User{
		createUser(t, f.db, "fan1"),
		createUser(t, f.db, "fan2"),
		createUser(t, f.db, "fan3"),
	}
	ctx := context.Background()

	activity := createPlaceWithActivity(t, f, owner.ID, "Crag Cafe", "Bouldering")
	quiet := postReview(t, f, activity.ID, author.ID, 3, "quiet one")
	popular := postReview(t, f, activity.ID, owner.ID, 5, "popular one")

	for _, fan := range fans {
		if err := f.reviews.Like(ctx, popular.ID, fan.ID); err != nil {
			t.Fatalf("like: %v", err)
		}
	}
	if err := f.reviews.Like(ctx, quiet.ID, fans[0].ID); err != nil {
		t.Fatalf("like: %v", err)
	}

	page, err := f.reviews.GetExplore(ctx, ExploreFilter{}, 0, firstPage())
	if err != nil {
		t.Fatalf("explore: %v", err)
	}
	if len(page.Items) != 2 {
		t.Fatalf("want both reviews, got %d", len(page.Items))
	}
	if page.Items[0].ID != popular.ID {
		t.Fatalf("most-liked review should lead the explore feed")
	}
	if page.Items[0].LikesCount != 3 || page.Items[1].LikesCount != 1 {
		t.Fatalf("likes counts wrong: %d, %d", page.Items[0].LikesCount, page.Items[1].LikesCount)
	}
	if page.Items[0].PlaceName != "Crag Cafe" || page.Items[0].ActivityName == "" {
		t.Fatalf("explore projection should carry place context: %+v", page.Items[0])
	}
}

func TestGetExploreOnlyPublicPlaces(t *testing.T) {
	f := newFixture(t)
	owner := createUser(t, f.db, "owner")
	ctx := context.Background()

	pubActivity := createPlaceWithActivity(t, f, owner.ID, "Public Cafe", "Coffee")
	postReview(t, f, pubActivity.ID, owner.ID, 5, "on the map")

	privInput := basePlaceInput()
	privInput.Name = "Private Cafe"
	privInput.Visibility = visibility.Private
	privInput.Latitude += 0.001
	privPlace, err := f.places.Create(ctx, privInput, owner.ID)
	if err != nil {
		t.Fatalf("create private place: %v", err)
	}
	privActivity, err := f.reviews.GetOrCreateActivity(ctx, privPlace.ID, "Coffee")
	if err != nil {
		t.Fatalf("create activity: %v", err)
	}
	postReview(t, f, privActivity.ID, owner.ID, 5, "off the map")

	page, err := f.reviews.GetExplore(ctx, ExploreFilter{}, 0, firstPage())
	if err != nil {
		t.Fatalf("explore: %v", err)
	}
	if page.TotalCount != 1 || page.Items[0].PlaceName != "Public Cafe" {
		t.Fatalf("explore must only surface public places: %+v", page.Items)
	}
}

func TestGetExploreKindFilter(t *testing.T) {
	f := newFixture(t)
	owner := createUser(t, f.db, "owner")
	author := createUser(t, f.db, "author")
	ctx := context.Background()

	activity := createPlaceWithActivity(t, f, owner.ID, "Crag Cafe", "Bouldering")
	postReview(t, f, activity.ID, author.ID, 5, "review entry")
	postReview(t, f, activity.ID, author.ID, 4, "checkin entry")

	kind := models.ReviewKindCheckIn
	page, err := f.reviews.GetExplore(ctx, ExploreFilter{Kind: &kind}, 0, firstPage())
	if err != nil {
		t.Fatalf("explore: %v", err)
	}
	if page.TotalCount != 1 || page.Items[0].Kind != models.ReviewKindCheckIn {
		t.Fatalf("kind filter mismatch: %+v", page.Items)
	}
}

func TestGetFriendsFeed(t *testing.T) {
	f := newFixture(t)
	owner := createUser(t, f.db, "owner")
	me := createUser(t, f.db, "me")
	buddy := createUser(t, f.db, "buddy")
	stranger := createUser(t, f.db, "stranger")
	makeFriends(t, f.db, me.ID, buddy.ID)
	ctx := context.Background()

	activity := createPlaceWithActivity(t, f, owner.ID, "Crag Cafe", "Bouldering")
	postReview(t, f, activity.ID, buddy.ID, 5, "from buddy")
	postReview(t, f, activity.ID, stranger.ID, 2, "from stranger")

	page, err := f.reviews.GetFriendsFeed(ctx, me.ID, firstPage())
	if err != nil {
		t.Fatalf("friends feed: %v", err)
	}
	if page.TotalCount != 1 || page.Items[0].AuthorID != buddy.ID {
		t.Fatalf("friends feed mismatch: %+v", page.Items)
	}

	empty, err := f.reviews.GetFriendsFeed(ctx, stranger.ID, firstPage())
	if err != nil {
		t.Fatalf("friends feed without friends: %v", err)
	}
	if empty.TotalCount != 0 {
		t.Fatalf("want empty feed, got %+v", empty)
	}
}

func TestUpdateReviewOwnerAndModeration(t *testing.T) {
	f := newFixture(t)
	owner := createUser(t, f.db, "owner")
	author := createUser(t, f.db, "author")
	other := createUser(t, f.db, "other")
	ctx := context.Background()

	activity := createPlaceWithActivity(t, f, owner.ID, "Crag Cafe", "Bouldering")
	review := postReview(t, f, activity.ID, author.ID, 5, "original")

	newContent := "rewritten"
	_, err := f.reviews.UpdateReview(ctx, review.ID, UpdateReviewInput{Content: &newContent}, other.ID)
	if !errors.Is(err, ErrPermissionDenied) {
		t.Fatalf("non-author update: want ErrPermissionDenied, got %v", err)
	}

	f.moderation.banned = []string{"rewritten"}
	_, err = f.reviews.UpdateReview(ctx, review.ID, UpdateReviewInput{Content: &newContent}, author.ID)
	var cr *ContentRejectedError
	if !errors.As(err, &cr) {
		t.Fatalf("flagged edit: want ContentRejectedError, got %v", err)
	}

	f.moderation.banned = nil
	updated, err := f.reviews.UpdateReview(ctx, review.ID, UpdateReviewInput{Content: &newContent}, author.ID)
	if err != nil {
		t.Fatalf("author update: %v", err)
	}
	if updated.Content != newContent {
		t.Fatalf("want %q, got %q", newContent, updated.Content)
	}
}

func TestDeleteReview(t *testing.T) {
	f := newFixture(t)
	owner := createUser(t, f.db, "owner")
	author := createUser(t, f.db, "author")
	fan := createUser(t, f.db, "fan")
	ctx := context.Background()

	activity := createPlaceWithActivity(t, f, owner.ID, "Crag Cafe", "Bouldering")
	review := postReview(t, f, activity.ID, author.ID, 5, "short-lived")
	if err := f.reviews.Like(ctx, review.ID, fan.ID); err != nil {
		t.Fatalf("like: %v", err)
	}

	if err := f.reviews.DeleteReview(ctx, review.ID, fan.ID, false); !errors.Is(err, ErrPermissionDenied) {
		t.Fatalf("non-author delete: want ErrPermissionDenied, got %v", err)
	}
	if err := f.reviews.DeleteReview(ctx, review.ID, author.ID, false); err != nil {
		t.Fatalf("author delete: %v", err)
	}

	var likeCount int64
	f.db.Model(&models.ReviewLike{}).Where("review_id = ?", review.ID).Count(&likeCount)
	if likeCount != 0 {
		t.Fatalf("deleting a review should delete its likes, got %d", likeCount)
	}

	if err := f.reviews.DeleteReview(ctx, review.ID, author.ID, false); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second delete: want ErrNotFound, got %v", err)
	}
}

func TestGetReviewsGroupedSpansFetchPages(t *testing.T) {
	f := newFixture(t)
	owner := createUser(t, f.db, "owner")
	ctx := context.Background()

	activity := createPlaceWithActivity(t, f, owner.ID, "Crag Cafe", "Bouldering")

	// More distinct authors than a single fetch page can hold.
	const authors = types.MaxPageSize + 10
	for i := 0; i < authors; i++ {
		u := createUser(t, f.db, fmt.Sprintf("author%03d", i))
		postReview(t, f, activity.ID, u.ID, 5, fmt.Sprintf("visit %d", i))
	}

	page, err := f.reviews.GetReviewsGrouped(ctx, activity.ID, ScopeGlobal, 0, types.PageQuery{Page: 1, PageSize: 20})
	if err != nil {
		t.Fatalf("grouped feed: %v", err)
	}
	if page.TotalCount != authors {
		t.Fatalf("want %d author groups in total, got %d", authors, page.TotalCount)
	}

	// The oldest authors live past the first fetch page and must still be
	// reachable through group pagination.
	last, err := f.reviews.GetReviewsGrouped(ctx, activity.ID, ScopeGlobal, 0, types.PageQuery{Page: 6, PageSize: 20})
	if err != nil {
		t.Fatalf("grouped feed last page: %v", err)
	}
	if len(last.Items) != authors-100 {
		t.Fatalf("want %d groups on the last page, got %d", authors-100, len(last.Items))
	}
}

func TestReviewContentLengthCountsRunes(t *testing.T) {
	f := newFixture(t)
	owner := createUser(t, f.db, "owner")
	author := createUser(t, f.db, "author")
	ctx := context.Background()

	activity := createPlaceWithActivity(t, f, owner.ID, "Crag Cafe", "Bouldering")

	// 600 two-byte runes: well under the character cap despite 1200 bytes.
	multibyte := strings.Repeat("é", 600)
	dto, err := f.reviews.CreateReview(ctx, activity.ID, CreateReviewInput{Rating: 4, Content: multibyte}, author.ID)
	if err != nil {
		t.Fatalf("multibyte content under the cap should pass: %v", err)
	}

	tooLong := strings.Repeat("é", 1001)
	_, err = f.reviews.CreateReview(ctx, activity.ID, CreateReviewInput{Rating: 4, Content: tooLong}, author.ID)
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("1001 runes: want validation error, got %v", err)
	}

	if _, err := f.reviews.UpdateReview(ctx, dto.ID, UpdateReviewInput{Content: &multibyte}, author.ID); err != nil {
		t.Fatalf("multibyte update under the cap should pass: %v", err)
	}
	if _, err := f.reviews.UpdateReview(ctx, dto.ID, UpdateReviewInput{Content: &tooLong}, author.ID); !errors.As(err, &ve) {
		t.Fatalf("1001-rune update: want validation error, got %v", err)
	}
}
