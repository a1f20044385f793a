package services

import (
	"context"
	"sort"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/ping-point/api-go/models"
	"github.com/ping-point/api-go/types"
	"github.com/ping-point/api-go/visibility"
)

// ProfileService composes per-user listings under the target's privacy
// settings. A block in either direction makes the whole profile behave like
// a missing user.
type ProfileService struct {
	db      *gorm.DB
	friends FriendGraph
	blocks  BlockGraph
	reviews *ReviewService
	log     *zap.Logger
}

func NewProfileService(db *gorm.DB, friends FriendGraph, blocks BlockGraph, reviews *ReviewService, log *zap.Logger) *ProfileService {
	return &ProfileService{db: db, friends: friends, blocks: blocks, reviews: reviews, log: log}
}

// ProfileHeader is the public shell of a profile.
type ProfileHeader struct {
	ID          uint   `json:"id"`
	Username    string `json:"username"`
	DisplayName string `json:"displayName"`
	Bio         string `json:"bio"`
	Avatar      string `json:"avatar"`
	IsFriend    bool   `json:"isFriend"`
}

// profileAccess is resolved once per request and reused across category
// listings.
type profileAccess struct {
	target   models.User
	isFriend bool
}

func (s *ProfileService) resolveAccess(ctx context.Context, targetID, viewerID uint) (*profileAccess, error) {
	blocked, err := s.blocks.IsBlockedEither(ctx, viewerID, targetID)
	if err != nil {
		return nil, err
	}
	if blocked {
		// Indistinguishable from a missing user so block state never leaks.
		return nil, ErrNotFound
	}

	var target models.User
	if err := s.db.WithContext(ctx).First(&target, targetID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}

	isFriend := false
	if viewerID != 0 && viewerID != targetID {
		isFriend, err = s.friends.IsFriend(ctx, viewerID, targetID)
		if err != nil {
			return nil, err
		}
	}
	return &profileAccess{target: target, isFriend: isFriend}, nil
}

// GetHeader returns the profile shell, or NotFound for blocked/missing
// users.
func (s *ProfileService) GetHeader(ctx context.Context, targetID, viewerID uint) (*ProfileHeader, error) {
	access, err := s.resolveAccess(ctx, targetID, viewerID)
	if err != nil {
		return nil, err
	}
	return &ProfileHeader{
		ID:          access.target.ID,
		Username:    access.target.Username,
		DisplayName: access.target.DisplayName,
		Bio:         access.target.Bio,
		Avatar:      access.target.Avatar,
		IsFriend:    access.isFriend,
	}, nil
}

// GetPlaces lists the places a user created or reviewed, most recent
// interaction first. A disallowed category is an empty page, not an error;
// each item is still re-filtered by its own visibility.
func (s *ProfileService) GetPlaces(ctx context.Context, targetID, viewerID uint, page types.PageQuery) (types.Page[PlaceDetails], error) {
	page = page.Normalize()

	access, err := s.resolveAccess(ctx, targetID, viewerID)
	if err != nil {
		return types.Page[PlaceDetails]{}, err
	}
	if !visibility.CanView(viewerID, targetID, access.target.PlacesPrivacy, access.isFriend) {
		return types.EmptyPage[PlaceDetails](page), nil
	}

	var created []models.Place
	err = s.db.WithContext(ctx).Preload("Genre").
		Where("owner_id = ? AND is_deleted = ?", targetID, false).
		Find(&created).Error
	if err != nil {
		return types.Page[PlaceDetails]{}, err
	}

	// Places the target interacted with: anything they reviewed.
	var reviewed []models.Place
	err = s.db.WithContext(ctx).Model(&models.Place{}).Preload("Genre").
		Joins("JOIN place_activities ON place_activities.place_id = places.id").
		Joins("JOIN reviews ON reviews.place_activity_id = place_activities.id").
		Where("reviews.author_id = ? AND places.is_deleted = ? AND reviews.deleted_at IS NULL", targetID, false).
		Group("places.id").
		Find(&reviewed).Error
	if err != nil {
		return types.Page[PlaceDetails]{}, err
	}

	type entry struct {
		place     models.Place
		lastTouch time.Time
	}
	byID := make(map[uint]*entry)
	push := func(p models.Place, touch time.Time) {
		if e, ok := byID[p.ID]; ok {
			if touch.After(e.lastTouch) {
				e.lastTouch = touch
			}
			return
		}
		byID[p.ID] = &entry{place: p, lastTouch: touch}
	}
	for _, p := range created {
		push(p, p.CreatedAt)
	}
	for _, p := range reviewed {
		touch, err := s.lastReviewAt(ctx, targetID, p.ID)
		if err != nil {
			return types.Page[PlaceDetails]{}, err
		}
		push(p, touch)
	}

	entries := make([]*entry, 0, len(byID))
	for _, e := range byID {
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].lastTouch.After(entries[j].lastTouch)
	})

	// Per-item re-filter: a reviewed place may belong to a third party with
	// stricter visibility than the profile's own setting.
	var viewerFriends map[uint]struct{}
	if viewerID != 0 {
		ids, err := s.friends.FriendIDs(ctx, viewerID)
		if err != nil {
			return types.Page[PlaceDetails]{}, err
		}
		viewerFriends = idSet(ids)
	}

	var results []PlaceDetails
	for _, e := range entries {
		p := e.place
		_, isFriend := viewerFriends[p.OwnerID]
		if !visibility.CanView(viewerID, p.OwnerID, p.Visibility, isFriend) {
			continue
		}
		d := PlaceDetails{
			ID:              p.ID,
			Name:            p.Name,
			Address:         p.Address,
			Latitude:        p.Latitude,
			Longitude:       p.Longitude,
			OwnerID:         p.OwnerID,
			Visibility:      p.Visibility,
			Kind:            p.Kind,
			GenreID:         p.GenreID,
			ExternalPlaceID: p.ExternalPlaceID,
			FavoritesCount:  p.FavoritesCount,
			CreatedAt:       p.CreatedAt,
		}
		if p.Genre != nil {
			d.GenreName = p.Genre.Name
		}
		results = append(results, d)
	}

	return types.SlicePage(results, page), nil
}

func (s *ProfileService) lastReviewAt(ctx context.Context, authorID, placeID uint) (time.Time, error) {
	var touch time.Time
	err := s.db.WithContext(ctx).Model(&models.Review{}).
		Joins("JOIN place_activities ON place_activities.id = reviews.place_activity_id").
		Where("reviews.author_id = ? AND place_activities.place_id = ?", authorID, placeID).
		Select("MAX(reviews.created_at)").
		Scan(&touch).Error
	return touch, err
}

// GetReviews lists the target's reviews under their reviews privacy
// setting, re-filtered per item by the reviewed place's own visibility.
func (s *ProfileService) GetReviews(ctx context.Context, targetID, viewerID uint, page types.PageQuery) (types.Page[ReviewDTO], error) {
	page = page.Normalize()

	access, err := s.resolveAccess(ctx, targetID, viewerID)
	if err != nil {
		return types.Page[ReviewDTO]{}, err
	}
	if !visibility.CanView(viewerID, targetID, access.target.ReviewsPrivacy, access.isFriend) {
		return types.EmptyPage[ReviewDTO](page), nil
	}

	var reviews []models.Review
	err = s.db.WithContext(ctx).
		Where("author_id = ?", targetID).
		Order("created_at DESC").
		Find(&reviews).Error
	if err != nil {
		return types.Page[ReviewDTO]{}, err
	}

	return s.visibleReviewPage(ctx, reviews, viewerID, page)
}

// GetLikes lists the reviews the target liked, under their likes privacy
// setting.
func (s *ProfileService) GetLikes(ctx context.Context, targetID, viewerID uint, page types.PageQuery) (types.Page[ReviewDTO], error) {
	page = page.Normalize()

	access, err := s.resolveAccess(ctx, targetID, viewerID)
	if err != nil {
		return types.Page[ReviewDTO]{}, err
	}
	if !visibility.CanView(viewerID, targetID, access.target.LikesPrivacy, access.isFriend) {
		return types.EmptyPage[ReviewDTO](page), nil
	}

	var reviews []models.Review
	err = s.db.WithContext(ctx).Model(&models.Review{}).
		Joins("JOIN review_likes ON review_likes.review_id = reviews.id").
		Where("review_likes.user_id = ?", targetID).
		Order("review_likes.created_at DESC").
		Find(&reviews).Error
	if err != nil {
		return types.Page[ReviewDTO]{}, err
	}

	return s.visibleReviewPage(ctx, reviews, viewerID, page)
}

// visibleReviewPage drops reviews whose place the viewer may not see, then
// paginates and maps the survivors.
func (s *ProfileService) visibleReviewPage(ctx context.Context, reviews []models.Review, viewerID uint, page types.PageQuery) (types.Page[ReviewDTO], error) {
	if len(reviews) == 0 {
		return types.EmptyPage[ReviewDTO](page), nil
	}

	activityIDs := make([]uint, 0, len(reviews))
	seen := make(map[uint]struct{})
	for i := range reviews {
		if _, ok := seen[reviews[i].PlaceActivityID]; !ok {
			seen[reviews[i].PlaceActivityID] = struct{}{}
			activityIDs = append(activityIDs, reviews[i].PlaceActivityID)
		}
	}

	var activities []models.PlaceActivity
	err := s.db.WithContext(ctx).Preload("Place").Where("id IN ?", activityIDs).Find(&activities).Error
	if err != nil {
		return types.Page[ReviewDTO]{}, err
	}
	placeByActivity := make(map[uint]*models.Place, len(activities))
	for i := range activities {
		placeByActivity[activities[i].ID] = &activities[i].Place
	}

	var viewerFriends map[uint]struct{}
	if viewerID != 0 {
		ids, err := s.friends.FriendIDs(ctx, viewerID)
		if err != nil {
			return types.Page[ReviewDTO]{}, err
		}
		viewerFriends = idSet(ids)
	}

	var visibleRows []models.Review
	for i := range reviews {
		place, ok := placeByActivity[reviews[i].PlaceActivityID]
		if !ok {
			continue
		}
		_, isFriend := viewerFriends[place.OwnerID]
		if !visibility.CanView(viewerID, place.OwnerID, place.Visibility, isFriend) {
			continue
		}
		visibleRows = append(visibleRows, reviews[i])
	}

	total := int64(len(visibleRows))
	start := page.Offset()
	if start >= len(visibleRows) {
		return types.NewPage[ReviewDTO](nil, total, page), nil
	}
	end := start + page.PageSize
	if end > len(visibleRows) {
		end = len(visibleRows)
	}

	dtos, err := s.reviews.toDTOs(ctx, visibleRows[start:end], viewerID)
	if err != nil {
		return types.Page[ReviewDTO]{}, err
	}
	return types.NewPage(dtos, total, page), nil
}
