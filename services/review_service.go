package services

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/ping-point/api-go/ai"
	"github.com/ping-point/api-go/geo"
	"github.com/ping-point/api-go/models"
	"github.com/ping-point/api-go/types"
	"github.com/ping-point/api-go/visibility"
)

const maxReviewContentLen = 1000

// ReviewScope selects whose reviews a feed shows.
type ReviewScope string

const (
	ScopeMine    ReviewScope = "mine"
	ScopeFriends ReviewScope = "friends"
	ScopeGlobal  ReviewScope = "global"
)

// ReviewService owns review/check-in creation and every feed built on top
// of reviews.
type ReviewService struct {
	db         *gorm.DB
	moderation ai.ModerationGate
	friends    FriendGraph
	blocks     BlockGraph
	log        *zap.Logger
}

func NewReviewService(db *gorm.DB, moderation ai.ModerationGate, friends FriendGraph, blocks BlockGraph, log *zap.Logger) *ReviewService {
	return &ReviewService{db: db, moderation: moderation, friends: friends, blocks: blocks, log: log}
}

type CreateReviewInput struct {
	Rating       int
	Content      string
	ImageURL     string
	ThumbnailURL string
	Tags         []string
}

type UpdateReviewInput struct {
	Rating       *int
	Content      *string
	ImageURL     *string
	ThumbnailURL *string
	Tags         []string
}

// ReviewDTO is the feed projection of a review.
type ReviewDTO struct {
	ID                uint              `json:"id"`
	PlaceActivityID   uint              `json:"placeActivityId"`
	ActivityName      string            `json:"activityName"`
	PlaceID           uint              `json:"placeId"`
	PlaceName         string            `json:"placeName"`
	PlaceDeleted      bool              `json:"placeDeleted"`
	AuthorID          uint              `json:"authorId"`
	AuthorDisplayName string            `json:"authorDisplayName"`
	AuthorAvatar      string            `json:"authorAvatar"`
	Rating            int               `json:"rating"`
	Content           string            `json:"content"`
	ImageURL          string            `json:"imageUrl,omitempty"`
	ThumbnailURL      string            `json:"thumbnailUrl,omitempty"`
	LikesCount        int               `json:"likesCount"`
	Kind              models.ReviewKind `json:"kind"`
	Tags              []string          `json:"tags"`
	IsLiked           bool              `json:"isLiked"`
	CreatedAt         time.Time         `json:"createdAt"`
}

// AuthorFeedGroup is the "latest plus history" shape: one author's newest
// review followed by their earlier check-ins on the same activity.
type AuthorFeedGroup struct {
	AuthorID          uint        `json:"authorId"`
	AuthorDisplayName string      `json:"authorDisplayName"`
	AuthorAvatar      string      `json:"authorAvatar"`
	Latest            ReviewDTO   `json:"latest"`
	History           []ReviewDTO `json:"history"`
}

// GetOrCreateActivity returns the activity with the given name under a
// place, creating it on first use. Names are unique per place,
// case-insensitive.
func (s *ReviewService) GetOrCreateActivity(ctx context.Context, placeID uint, name string) (*models.PlaceActivity, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, validationf("activity name is required")
	}

	var place models.Place
	if err := s.db.WithContext(ctx).Where("is_deleted = ?", false).First(&place, placeID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}

	key := strings.ToLower(name)
	var activity models.PlaceActivity
	err := s.db.WithContext(ctx).
		Where("place_id = ? AND name_key = ?", placeID, key).
		First(&activity).Error
	if err == nil {
		return &activity, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	activity = models.PlaceActivity{PlaceID: placeID, Name: name, NameKey: key}
	if err := s.db.WithContext(ctx).Create(&activity).Error; err != nil {
		return nil, err
	}
	return &activity, nil
}

// CreateReview validates, moderates and persists a review. The author's
// first row on an activity is a review; every later one is a check-in.
func (s *ReviewService) CreateReview(ctx context.Context, activityID uint, input CreateReviewInput, authorID uint) (*ReviewDTO, error) {
	var activity models.PlaceActivity
	if err := s.db.WithContext(ctx).First(&activity, activityID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}

	var author models.User
	if err := s.db.WithContext(ctx).First(&author, authorID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if input.Rating < 1 || input.Rating > 5 {
		return nil, validationf("rating must be between 1 and 5")
	}
	content := strings.TrimSpace(input.Content)
	if utf8.RuneCountInString(content) > maxReviewContentLen {
		return nil, validationf("content exceeds %d characters", maxReviewContentLen)
	}
	if content != "" {
		result, err := s.moderation.Check(ctx, content)
		if err != nil {
			return nil, err
		}
		if result.Flagged {
			return nil, &ContentRejectedError{Reason: result.Reason}
		}
	}

	var prior int64
	err := s.db.WithContext(ctx).Model(&models.Review{}).
		Where("place_activity_id = ? AND author_id = ?", activityID, authorID).
		Count(&prior).Error
	if err != nil {
		return nil, err
	}
	kind := models.ReviewKindReview
	if prior > 0 {
		kind = models.ReviewKindCheckIn
	}

	tags, err := s.prepareTags(ctx, input.Tags)
	if err != nil {
		return nil, err
	}

	review := models.Review{
		PlaceActivityID:   activityID,
		AuthorID:          authorID,
		AuthorDisplayName: author.DisplayName,
		Rating:            input.Rating,
		Content:           content,
		ImageURL:          input.ImageURL,
		ThumbnailURL:      input.ThumbnailURL,
		LikesCount:        0,
		Kind:              kind,
		Tags:              tags,
	}
	if err := s.db.WithContext(ctx).Create(&review).Error; err != nil {
		return nil, err
	}

	s.log.Info("review created",
		zap.Uint("reviewId", review.ID),
		zap.Uint("activityId", activityID),
		zap.Uint("authorId", authorID),
		zap.String("kind", string(kind)),
	)

	dtos, err := s.toDTOs(ctx, []models.Review{review}, authorID)
	if err != nil {
		return nil, err
	}
	return &dtos[0], nil
}

// prepareTags normalizes tag names and resolves them to tag rows. A tag that
// fails moderation is dropped without failing the review; an unreachable
// moderation service likewise only costs the tag.
func (s *ReviewService) prepareTags(ctx context.Context, raw []string) ([]models.Tag, error) {
	seen := make(map[string]struct{}, len(raw))
	var tags []models.Tag

	for _, name := range raw {
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "" {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}

		var tag models.Tag
		err := s.db.WithContext(ctx).Where("name = ?", name).First(&tag).Error
		if err == nil {
			tags = append(tags, tag)
			continue
		}
		if err != gorm.ErrRecordNotFound {
			return nil, err
		}

		result, err := s.moderation.Check(ctx, name)
		if err != nil {
			s.log.Warn("tag moderation failed, dropping tag", zap.String("tag", name), zap.Error(err))
			continue
		}
		if result.Flagged {
			s.log.Info("tag rejected by moderation", zap.String("tag", name), zap.String("reason", result.Reason))
			continue
		}

		tag = models.Tag{Name: name}
		if err := s.db.WithContext(ctx).Where("name = ?", name).FirstOrCreate(&tag).Error; err != nil {
			return nil, err
		}
		tags = append(tags, tag)
	}
	return tags, nil
}

// GetReviews returns an activity's reviews in the requested scope, newest
// first, excluding blocked authors.
func (s *ReviewService) GetReviews(ctx context.Context, activityID uint, scope ReviewScope, actorID uint, page types.PageQuery) (types.Page[ReviewDTO], error) {
	page = page.Normalize()

	db := s.db.WithContext(ctx).Model(&models.Review{}).Where("place_activity_id = ?", activityID)

	switch scope {
	case ScopeMine:
		db = db.Where("author_id = ?", actorID)
	case ScopeFriends:
		friendIDs, err := s.friends.FriendIDs(ctx, actorID)
		if err != nil {
			return types.Page[ReviewDTO]{}, err
		}
		if len(friendIDs) == 0 {
			return types.EmptyPage[ReviewDTO](page), nil
		}
		db = db.Where("author_id IN ?", friendIDs)
	case ScopeGlobal:
		// no author filter
	default:
		return types.Page[ReviewDTO]{}, validationf("unknown scope %q", scope)
	}

	if actorID != 0 {
		blockedIDs, err := s.blocks.BlockedIDs(ctx, actorID)
		if err != nil {
			return types.Page[ReviewDTO]{}, err
		}
		if len(blockedIDs) > 0 {
			db = db.Where("author_id NOT IN ?", blockedIDs)
		}
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return types.Page[ReviewDTO]{}, err
	}

	var reviews []models.Review
	if err := db.Order("created_at DESC").Offset(page.Offset()).Limit(page.PageSize).Find(&reviews).Error; err != nil {
		return types.Page[ReviewDTO]{}, err
	}

	dtos, err := s.toDTOs(ctx, reviews, actorID)
	if err != nil {
		return types.Page[ReviewDTO]{}, err
	}
	return types.NewPage(dtos, total, page), nil
}

// GetReviewsGrouped returns the activity feed grouped per author: each
// author's latest entry plus their earlier check-ins as history. Pagination
// applies to the groups.
func (s *ReviewService) GetReviewsGrouped(ctx context.Context, activityID uint, scope ReviewScope, actorID uint, page types.PageQuery) (types.Page[AuthorFeedGroup], error) {
	page = page.Normalize()

	// The fold needs the entire scoped feed; group boundaries don't survive
	// row-level pagination, so the scoped query is drained page by page.
	var all []ReviewDTO
	for fetch := 1; ; fetch++ {
		inner, err := s.GetReviews(ctx, activityID, scope, actorID, types.PageQuery{Page: fetch, PageSize: types.MaxPageSize})
		if err != nil {
			return types.Page[AuthorFeedGroup]{}, err
		}
		all = append(all, inner.Items...)
		if len(inner.Items) == 0 || int64(len(all)) >= inner.TotalCount {
			break
		}
	}

	order := make([]uint, 0)
	grouped := make(map[uint]*AuthorFeedGroup)
	for _, dto := range all {
		g, ok := grouped[dto.AuthorID]
		if !ok {
			grouped[dto.AuthorID] = &AuthorFeedGroup{
				AuthorID:          dto.AuthorID,
				AuthorDisplayName: dto.AuthorDisplayName,
				AuthorAvatar:      dto.AuthorAvatar,
				Latest:            dto,
				History:           []ReviewDTO{},
			}
			order = append(order, dto.AuthorID)
			continue
		}
		g.History = append(g.History, dto)
	}

	groups := make([]AuthorFeedGroup, 0, len(order))
	for _, authorID := range order {
		groups = append(groups, *grouped[authorID])
	}
	return types.SlicePage(groups, page), nil
}

// ExploreFilter narrows the global discovery feed.
type ExploreFilter struct {
	GenreName string
	Kind      *models.ReviewKind
	Keyword   string
	Box       *geo.Box
}

// GetExplore is the popularity-sorted discovery feed over public,
// non-deleted places. Liked-state, avatars and tags are resolved in batch
// queries, never per row.
func (s *ReviewService) GetExplore(ctx context.Context, filter ExploreFilter, actorID uint, page types.PageQuery) (types.Page[ReviewDTO], error) {
	page = page.Normalize()

	db := s.db.WithContext(ctx).Model(&models.Review{}).
		Joins("JOIN place_activities ON place_activities.id = reviews.place_activity_id").
		Joins("JOIN places ON places.id = place_activities.place_id").
		Where("places.is_deleted = ? AND places.visibility = ?", false, visibility.Public)

	if filter.GenreName != "" {
		db = db.Where("places.genre_id IN (SELECT id FROM genres WHERE LOWER(name) = ?)", strings.ToLower(filter.GenreName))
	}
	if filter.Kind != nil {
		db = db.Where("reviews.kind = ?", *filter.Kind)
	}
	if kw := strings.TrimSpace(filter.Keyword); kw != "" {
		pattern := "%" + strings.ToLower(kw) + "%"
		db = db.Where("LOWER(places.name) LIKE ? OR LOWER(places.address) LIKE ?", pattern, pattern)
	}
	if filter.Box != nil {
		db = db.Where("places.latitude BETWEEN ? AND ?", filter.Box.MinLat, filter.Box.MaxLat).
			Where("places.longitude BETWEEN ? AND ?", filter.Box.MinLng, filter.Box.MaxLng)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return types.Page[ReviewDTO]{}, err
	}

	var reviews []models.Review
	err := db.Order("reviews.likes_count DESC, reviews.created_at DESC").
		Offset(page.Offset()).Limit(page.PageSize).
		Find(&reviews).Error
	if err != nil {
		return types.Page[ReviewDTO]{}, err
	}

	dtos, err := s.toDTOs(ctx, reviews, actorID)
	if err != nil {
		return types.Page[ReviewDTO]{}, err
	}
	return types.NewPage(dtos, total, page), nil
}

// Like records the (user, review) pair; repeating it is a no-op success.
func (s *ReviewService) Like(ctx context.Context, reviewID, userID uint) error {
	var review models.Review
	if err := s.db.WithContext(ctx).First(&review, reviewID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return ErrNotFound
		}
		return err
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.ReviewLike
		err := tx.Where("user_id = ? AND review_id = ?", userID, reviewID).First(&existing).Error
		if err == nil {
			return nil
		}
		if err != gorm.ErrRecordNotFound {
			return err
		}

		if err := tx.Create(&models.ReviewLike{UserID: userID, ReviewID: reviewID}).Error; err != nil {
			return err
		}
		return tx.Model(&models.Review{}).Where("id = ?", reviewID).
			Update("likes_count", gorm.Expr("likes_count + 1")).Error
	})
}

// Unlike removes the pair; the counter never goes below zero.
func (s *ReviewService) Unlike(ctx context.Context, reviewID, userID uint) error {
	var review models.Review
	if err := s.db.WithContext(ctx).First(&review, reviewID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return ErrNotFound
		}
		return err
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("user_id = ? AND review_id = ?", userID, reviewID).Delete(&models.ReviewLike{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return nil
		}
		return tx.Model(&models.Review{}).Where("id = ?", reviewID).
			Update("likes_count", gorm.Expr("CASE WHEN likes_count > 0 THEN likes_count - 1 ELSE 0 END")).Error
	})
}

// GetLiked lists the reviews a user liked, newest like first.
func (s *ReviewService) GetLiked(ctx context.Context, userID uint, page types.PageQuery) (types.Page[ReviewDTO], error) {
	page = page.Normalize()

	base := s.db.WithContext(ctx).Model(&models.Review{}).
		Joins("JOIN review_likes ON review_likes.review_id = reviews.id").
		Where("review_likes.user_id = ?", userID)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return types.Page[ReviewDTO]{}, err
	}

	var reviews []models.Review
	err := base.Order("review_likes.created_at DESC").
		Offset(page.Offset()).Limit(page.PageSize).
		Find(&reviews).Error
	if err != nil {
		return types.Page[ReviewDTO]{}, err
	}

	dtos, err := s.toDTOs(ctx, reviews, userID)
	if err != nil {
		return types.Page[ReviewDTO]{}, err
	}
	return types.NewPage(dtos, total, page), nil
}

// GetMyReviews lists the actor's own reviews across all activities.
func (s *ReviewService) GetMyReviews(ctx context.Context, actorID uint, page types.PageQuery) (types.Page[ReviewDTO], error) {
	page = page.Normalize()

	base := s.db.WithContext(ctx).Model(&models.Review{}).Where("author_id = ?", actorID)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return types.Page[ReviewDTO]{}, err
	}

	var reviews []models.Review
	err := base.Order("created_at DESC").Offset(page.Offset()).Limit(page.PageSize).Find(&reviews).Error
	if err != nil {
		return types.Page[ReviewDTO]{}, err
	}

	dtos, err := s.toDTOs(ctx, reviews, actorID)
	if err != nil {
		return types.Page[ReviewDTO]{}, err
	}
	return types.NewPage(dtos, total, page), nil
}

// GetFriendsFeed lists reviews authored by the actor's friends, newest
// first. No friends means an empty page, not an error.
func (s *ReviewService) GetFriendsFeed(ctx context.Context, actorID uint, page types.PageQuery) (types.Page[ReviewDTO], error) {
	page = page.Normalize()

	friendIDs, err := s.friends.FriendIDs(ctx, actorID)
	if err != nil {
		return types.Page[ReviewDTO]{}, err
	}
	if len(friendIDs) == 0 {
		return types.EmptyPage[ReviewDTO](page), nil
	}

	base := s.db.WithContext(ctx).Model(&models.Review{}).Where("author_id IN ?", friendIDs)

	blockedIDs, err := s.blocks.BlockedIDs(ctx, actorID)
	if err != nil {
		return types.Page[ReviewDTO]{}, err
	}
	if len(blockedIDs) > 0 {
		base = base.Where("author_id NOT IN ?", blockedIDs)
	}

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return types.Page[ReviewDTO]{}, err
	}

	var reviews []models.Review
	err = base.Order("created_at DESC").Offset(page.Offset()).Limit(page.PageSize).Find(&reviews).Error
	if err != nil {
		return types.Page[ReviewDTO]{}, err
	}

	dtos, err := s.toDTOs(ctx, reviews, actorID)
	if err != nil {
		return types.Page[ReviewDTO]{}, err
	}
	return types.NewPage(dtos, total, page), nil
}

// UpdateReview applies owner edits, re-moderating changed content.
func (s *ReviewService) UpdateReview(ctx context.Context, id uint, input UpdateReviewInput, actorID uint) (*ReviewDTO, error) {
	var review models.Review
	if err := s.db.WithContext(ctx).First(&review, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if review.AuthorID != actorID {
		return nil, ErrPermissionDenied
	}

	if input.Rating != nil {
		if *input.Rating < 1 || *input.Rating > 5 {
			return nil, validationf("rating must be between 1 and 5")
		}
		review.Rating = *input.Rating
	}
	if input.Content != nil {
		content := strings.TrimSpace(*input.Content)
		if utf8.RuneCountInString(content) > maxReviewContentLen {
			return nil, validationf("content exceeds %d characters", maxReviewContentLen)
		}
		if content != "" && content != review.Content {
			result, err := s.moderation.Check(ctx, content)
			if err != nil {
				return nil, err
			}
			if result.Flagged {
				return nil, &ContentRejectedError{Reason: result.Reason}
			}
		}
		review.Content = content
	}
	if input.ImageURL != nil {
		review.ImageURL = *input.ImageURL
	}
	if input.ThumbnailURL != nil {
		review.ThumbnailURL = *input.ThumbnailURL
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&review).Error; err != nil {
			return err
		}
		if input.Tags != nil {
			tags, err := s.prepareTags(ctx, input.Tags)
			if err != nil {
				return err
			}
			if err := tx.Model(&review).Association("Tags").Replace(tags); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	dtos, err := s.toDTOs(ctx, []models.Review{review}, actorID)
	if err != nil {
		return nil, err
	}
	return &dtos[0], nil
}

// DeleteReview removes the review plus its tag links and likes. Admins
// bypass the ownership check.
func (s *ReviewService) DeleteReview(ctx context.Context, id, actorID uint, isAdmin bool) error {
	var review models.Review
	if err := s.db.WithContext(ctx).First(&review, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return ErrNotFound
		}
		return err
	}
	if review.AuthorID != actorID && !isAdmin {
		return ErrPermissionDenied
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&review).Association("Tags").Clear(); err != nil {
			return err
		}
		if err := tx.Where("review_id = ?", id).Delete(&models.ReviewLike{}).Error; err != nil {
			return err
		}
		return tx.Delete(&review).Error
	})
}

// toDTOs maps reviews to their feed shape, resolving the actor's liked set,
// author avatars, tag lists and place context with one batch query each.
func (s *ReviewService) toDTOs(ctx context.Context, reviews []models.Review, actorID uint) ([]ReviewDTO, error) {
	if len(reviews) == 0 {
		return []ReviewDTO{}, nil
	}

	reviewIDs := make([]uint, len(reviews))
	authorIDs := make([]uint, 0, len(reviews))
	activityIDs := make([]uint, 0, len(reviews))
	seenAuthors := make(map[uint]struct{})
	seenActivities := make(map[uint]struct{})
	for i := range reviews {
		reviewIDs[i] = reviews[i].ID
		if _, ok := seenAuthors[reviews[i].AuthorID]; !ok {
			seenAuthors[reviews[i].AuthorID] = struct{}{}
			authorIDs = append(authorIDs, reviews[i].AuthorID)
		}
		if _, ok := seenActivities[reviews[i].PlaceActivityID]; !ok {
			seenActivities[reviews[i].PlaceActivityID] = struct{}{}
			activityIDs = append(activityIDs, reviews[i].PlaceActivityID)
		}
	}

	likedSet := make(map[uint]struct{})
	if actorID != 0 {
		var likedIDs []uint
		err := s.db.WithContext(ctx).Model(&models.ReviewLike{}).
			Where("user_id = ? AND review_id IN ?", actorID, reviewIDs).
			Pluck("review_id", &likedIDs).Error
		if err != nil {
			return nil, err
		}
		likedSet = idSet(likedIDs)
	}

	var authors []models.User
	if err := s.db.WithContext(ctx).Where("id IN ?", authorIDs).Find(&authors).Error; err != nil {
		return nil, err
	}
	avatarByAuthor := make(map[uint]string, len(authors))
	for i := range authors {
		avatarByAuthor[authors[i].ID] = authors[i].Avatar
	}

	var activities []models.PlaceActivity
	err := s.db.WithContext(ctx).Preload("Place").Where("id IN ?", activityIDs).Find(&activities).Error
	if err != nil {
		return nil, err
	}
	activityByID := make(map[uint]*models.PlaceActivity, len(activities))
	for i := range activities {
		activityByID[activities[i].ID] = &activities[i]
	}

	type tagRow struct {
		ReviewID uint
		Name     string
	}
	var tagRows []tagRow
	err = s.db.WithContext(ctx).Table("review_tags").
		Select("review_tags.review_id, tags.name").
		Joins("JOIN tags ON tags.id = review_tags.tag_id").
		Where("review_tags.review_id IN ?", reviewIDs).
		Scan(&tagRows).Error
	if err != nil {
		return nil, err
	}
	tagsByReview := make(map[uint][]string)
	for _, row := range tagRows {
		tagsByReview[row.ReviewID] = append(tagsByReview[row.ReviewID], row.Name)
	}

	dtos := make([]ReviewDTO, len(reviews))
	for i := range reviews {
		r := &reviews[i]
		dto := ReviewDTO{
			ID:                r.ID,
			PlaceActivityID:   r.PlaceActivityID,
			AuthorID:          r.AuthorID,
			AuthorDisplayName: r.AuthorDisplayName,
			AuthorAvatar:      avatarByAuthor[r.AuthorID],
			Rating:            r.Rating,
			Content:           r.Content,
			ImageURL:          r.ImageURL,
			ThumbnailURL:      r.ThumbnailURL,
			LikesCount:        r.LikesCount,
			Kind:              r.Kind,
			Tags:              tagsByReview[r.ID],
			IsLiked:           false,
			CreatedAt:         r.CreatedAt,
		}
		if dto.Tags == nil {
			dto.Tags = []string{}
		}
		if _, ok := likedSet[r.ID]; ok {
			dto.IsLiked = true
		}
		if activity, ok := activityByID[r.PlaceActivityID]; ok {
			dto.ActivityName = activity.Name
			dto.PlaceID = activity.PlaceID
			dto.PlaceName = activity.Place.Name
			dto.PlaceDeleted = activity.Place.IsDeleted
		}
		dtos[i] = dto
	}
	return dtos, nil
}
