package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/ping-point/api-go/ai"
	"github.com/ping-point/api-go/geo"
	"github.com/ping-point/api-go/googleplaces"
	"github.com/ping-point/api-go/models"
	"github.com/ping-point/api-go/ratelimit"
	"github.com/ping-point/api-go/types"
	"github.com/ping-point/api-go/visibility"
)

// proximityDegrees is the coarse window for custom-place duplicate
// detection: 0.0005 degrees is roughly 55 meters.
const proximityDegrees = 0.0005

// PlaceService owns place creation, search, favorites and the duplicate
// detection rules around them.
type PlaceService struct {
	db         *gorm.DB
	lookup     googleplaces.Lookup
	matcher    ai.SemanticMatcher
	moderation ai.ModerationGate
	limiter    ratelimit.Limiter
	friends    FriendGraph
	log        *zap.Logger
	dailyQuota int64
}

func NewPlaceService(
	db *gorm.DB,
	lookup googleplaces.Lookup,
	matcher ai.SemanticMatcher,
	moderation ai.ModerationGate,
	limiter ratelimit.Limiter,
	friends FriendGraph,
	log *zap.Logger,
	dailyQuota int64,
) *PlaceService {
	return &PlaceService{
		db:         db,
		lookup:     lookup,
		matcher:    matcher,
		moderation: moderation,
		limiter:    limiter,
		friends:    friends,
		log:        log,
		dailyQuota: dailyQuota,
	}
}

type CreatePlaceInput struct {
	Name            string
	Address         string
	Latitude        float64
	Longitude       float64
	Visibility      visibility.Level
	Kind            models.PlaceKind
	GenreID         *uint
	ExternalPlaceID *string
}

type UpdatePlaceInput struct {
	Name       *string
	Address    *string
	Latitude   *float64
	Longitude  *float64
	Visibility *visibility.Level
	Kind       *models.PlaceKind
	GenreID    *uint
}

// PlaceDetails is the projection returned to the HTTP layer.
type PlaceDetails struct {
	ID              uint             `json:"id"`
	Name            string           `json:"name"`
	Address         string           `json:"address"`
	Latitude        float64          `json:"latitude"`
	Longitude       float64          `json:"longitude"`
	OwnerID         uint             `json:"ownerId"`
	Visibility      visibility.Level `json:"visibility"`
	Kind            models.PlaceKind `json:"kind"`
	GenreID         *uint            `json:"genreId,omitempty"`
	GenreName       string           `json:"genreName,omitempty"`
	ExternalPlaceID *string          `json:"externalPlaceId,omitempty"`
	FavoritesCount  int              `json:"favoritesCount"`
	CreatedAt       time.Time        `json:"createdAt"`
	Distance        *float64         `json:"distance,omitempty"`
}

func (s *PlaceService) toDetails(p *models.Place) *PlaceDetails {
	d := &PlaceDetails{
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
	return d
}

// Create runs the full creation pipeline: quota, the verified/public
// invariant, moderation, duplicate detection, persistence.
func (s *PlaceService) Create(ctx context.Context, input CreatePlaceInput, ownerID uint) (*PlaceDetails, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, validationf("name is required")
	}
	if !geo.ValidCoordinates(input.Latitude, input.Longitude) {
		return nil, validationf("invalid coordinates")
	}
	if !input.Visibility.Valid() {
		return nil, validationf("invalid visibility %q", input.Visibility)
	}
	if input.Kind != models.PlaceKindCustom && input.Kind != models.PlaceKindVerified {
		return nil, validationf("invalid kind %q", input.Kind)
	}

	if err := s.checkQuota(ctx, ownerID); err != nil {
		return nil, err
	}

	// Non-public content is never verified.
	kind := input.Kind
	if input.Visibility != visibility.Public && kind == models.PlaceKindVerified {
		kind = models.PlaceKindCustom
	}

	if kind == models.PlaceKindCustom {
		if err := s.moderateText(ctx, name); err != nil {
			return nil, err
		}
	}

	place := models.Place{
		Name:            name,
		Address:         strings.TrimSpace(input.Address),
		Latitude:        input.Latitude,
		Longitude:       input.Longitude,
		OwnerID:         ownerID,
		Visibility:      input.Visibility,
		Kind:            kind,
		GenreID:         input.GenreID,
		ExternalPlaceID: input.ExternalPlaceID,
	}

	if place.Visibility == visibility.Public {
		if place.Kind == models.PlaceKindVerified {
			if err := s.prepareVerified(ctx, &place); err != nil {
				return nil, err
			}
		}
		if place.Kind == models.PlaceKindCustom {
			if err := s.checkCustomDuplicate(ctx, &place); err != nil {
				return nil, err
			}
		}
	}

	if err := s.db.WithContext(ctx).Create(&place).Error; err != nil {
		return nil, err
	}

	s.log.Info("place created",
		zap.Uint("placeId", place.ID),
		zap.Uint("ownerId", ownerID),
		zap.String("kind", string(place.Kind)),
		zap.String("visibility", string(place.Visibility)),
	)
	return s.toDetails(&place), nil
}

func (s *PlaceService) checkQuota(ctx context.Context, ownerID uint) error {
	key := fmt.Sprintf("pp:quota:place:%d:%s", ownerID, time.Now().UTC().Format("2006-01-02"))
	count, err := s.limiter.IncrementAndGet(ctx, key, 24*time.Hour)
	if err != nil {
		// A broken limiter should not take place creation down with it.
		s.log.Warn("quota counter unavailable", zap.Error(err))
		return nil
	}
	if count > s.dailyQuota {
		return ErrQuotaExceeded
	}
	return nil
}

func (s *PlaceService) moderateText(ctx context.Context, text string) error {
	result, err := s.moderation.Check(ctx, text)
	if err != nil {
		return err
	}
	if result.Flagged {
		return &ContentRejectedError{Reason: result.Reason}
	}
	return nil
}

// prepareVerified resolves the official record for a public verified place.
// It may downgrade the place to custom, refine its coordinates, or fail with
// AlreadyExists when the place is already registered.
func (s *PlaceService) prepareVerified(ctx context.Context, place *models.Place) error {
	if place.ExternalPlaceID != nil && *place.ExternalPlaceID != "" {
		return s.verifyByExternalID(ctx, place)
	}

	if place.Address == "" {
		return validationf("verified places require an address or an external place id")
	}

	// Verified creation at a known address is idempotent: a second create at
	// the same address surfaces the existing record as a conflict.
	var existing models.Place
	err := s.db.WithContext(ctx).
		Where("address = ? AND visibility = ? AND kind = ? AND is_deleted = ?",
			place.Address, visibility.Public, models.PlaceKindVerified, false).
		First(&existing).Error
	if err == nil {
		return &AlreadyExistsError{Name: existing.Name, ID: existing.ID}
	}
	if err != gorm.ErrRecordNotFound {
		return err
	}

	officialName, err := s.lookup.ResolveByCoordinates(ctx, place.Latitude, place.Longitude)
	if err != nil {
		s.log.Warn("place name lookup failed", zap.Error(err))
		officialName = ""
	}
	if officialName != "" {
		place.Name = officialName
	}
	return nil
}

func (s *PlaceService) verifyByExternalID(ctx context.Context, place *models.Place) error {
	resolved, err := s.lookup.ResolveByID(ctx, *place.ExternalPlaceID)
	if err != nil {
		s.log.Warn("external place lookup failed", zap.Error(err))
		resolved = nil
	}
	if resolved == nil {
		place.Kind = models.PlaceKindCustom
		return nil
	}

	match, err := s.matcher.NamesMatch(ctx, resolved.Name, place.Name)
	if err != nil {
		s.log.Warn("semantic name match failed", zap.Error(err))
		match = false
	}
	if !match {
		place.Kind = models.PlaceKindCustom
		return nil
	}

	var existing models.Place
	err = s.db.WithContext(ctx).
		Where("external_place_id = ? AND is_deleted = ?", *place.ExternalPlaceID, false).
		First(&existing).Error
	if err == nil {
		return &AlreadyExistsError{Name: existing.Name, ID: existing.ID}
	}
	if err != gorm.ErrRecordNotFound {
		return err
	}

	place.Name = resolved.Name
	if geo.ValidCoordinates(resolved.Latitude, resolved.Longitude) &&
		(resolved.Latitude != 0 || resolved.Longitude != 0) {
		place.Latitude = resolved.Latitude
		place.Longitude = resolved.Longitude
	}
	return nil
}

// checkCustomDuplicate rejects a public custom place when a nearby public
// custom place carries the same name, exactly or semantically.
func (s *PlaceService) checkCustomDuplicate(ctx context.Context, place *models.Place) error {
	var nearby []models.Place
	err := s.db.WithContext(ctx).
		Where("visibility = ? AND kind = ? AND is_deleted = ?", visibility.Public, models.PlaceKindCustom, false).
		Where("latitude BETWEEN ? AND ?", place.Latitude-proximityDegrees, place.Latitude+proximityDegrees).
		Where("longitude BETWEEN ? AND ?", place.Longitude-proximityDegrees, place.Longitude+proximityDegrees).
		Find(&nearby).Error
	if err != nil {
		return err
	}
	if len(nearby) == 0 {
		return nil
	}

	for i := range nearby {
		if strings.EqualFold(nearby[i].Name, place.Name) {
			return &AlreadyExistsError{Name: nearby[i].Name, ID: nearby[i].ID}
		}
	}

	names := make([]string, len(nearby))
	for i := range nearby {
		names[i] = nearby[i].Name
	}
	matched, err := s.matcher.FindDuplicate(ctx, place.Name, names)
	if err != nil {
		// The matcher is an unreliable collaborator; on failure the place is
		// created rather than rejected.
		s.log.Warn("semantic duplicate check failed", zap.Error(err))
		return nil
	}
	if matched == "" {
		return nil
	}
	for i := range nearby {
		if nearby[i].Name == matched {
			return &AlreadyExistsError{Name: nearby[i].Name, ID: nearby[i].ID}
		}
	}
	return nil
}

// Update applies owner edits, re-running moderation and re-verifying against
// the official record where the rules require it.
func (s *PlaceService) Update(ctx context.Context, id uint, input UpdatePlaceInput, actorID uint) (*PlaceDetails, error) {
	var place models.Place
	if err := s.db.WithContext(ctx).Where("is_deleted = ?", false).First(&place, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if place.OwnerID != actorID {
		return nil, ErrPermissionDenied
	}

	nameChanged := false
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, validationf("name cannot be empty")
		}
		if name != place.Name {
			nameChanged = true
			place.Name = name
		}
	}
	if input.Address != nil {
		place.Address = strings.TrimSpace(*input.Address)
	}
	if input.Latitude != nil && input.Longitude != nil {
		if !geo.ValidCoordinates(*input.Latitude, *input.Longitude) {
			return nil, validationf("invalid coordinates")
		}
		place.Latitude = *input.Latitude
		place.Longitude = *input.Longitude
	}
	if input.Visibility != nil {
		if !input.Visibility.Valid() {
			return nil, validationf("invalid visibility %q", *input.Visibility)
		}
		place.Visibility = *input.Visibility
	}
	if input.Kind != nil {
		place.Kind = *input.Kind
	}
	if input.GenreID != nil {
		place.GenreID = input.GenreID
	}

	if place.Visibility != visibility.Public && place.Kind == models.PlaceKindVerified {
		place.Kind = models.PlaceKindCustom
	}

	if nameChanged && place.Kind == models.PlaceKindCustom {
		if err := s.moderateText(ctx, place.Name); err != nil {
			return nil, err
		}
	}

	// A name edit on a verified place must still match the official record;
	// verified status is not sticky.
	if nameChanged && place.Kind == models.PlaceKindVerified &&
		place.ExternalPlaceID != nil && *place.ExternalPlaceID != "" {
		resolved, err := s.lookup.ResolveByID(ctx, *place.ExternalPlaceID)
		if err != nil {
			s.log.Warn("external place lookup failed", zap.Error(err))
			resolved = nil
		}
		match := false
		if resolved != nil {
			match, err = s.matcher.NamesMatch(ctx, resolved.Name, place.Name)
			if err != nil {
				s.log.Warn("semantic name match failed", zap.Error(err))
				match = false
			}
		}
		if !match {
			place.Kind = models.PlaceKindCustom
		}
	}

	if err := s.db.WithContext(ctx).Save(&place).Error; err != nil {
		return nil, err
	}
	return s.toDetails(&place), nil
}

// GetByID returns nil for missing, soft-deleted and invisible places alike,
// so a 404 never reveals whether private content exists.
func (s *PlaceService) GetByID(ctx context.Context, id, actorID uint) (*PlaceDetails, error) {
	var place models.Place
	err := s.db.WithContext(ctx).Preload("Genre").Where("is_deleted = ?", false).First(&place, id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}

	visible, err := s.canViewPlace(ctx, &place, actorID)
	if err != nil {
		return nil, err
	}
	if !visible {
		return nil, nil
	}
	return s.toDetails(&place), nil
}

func (s *PlaceService) canViewPlace(ctx context.Context, place *models.Place, actorID uint) (bool, error) {
	isFriend := false
	if place.Visibility == visibility.Friends && actorID != 0 && actorID != place.OwnerID {
		var err error
		isFriend, err = s.friends.IsFriend(ctx, actorID, place.OwnerID)
		if err != nil {
			return false, err
		}
	}
	return visibility.CanView(actorID, place.OwnerID, place.Visibility, isFriend), nil
}

// SearchCenter is the optional query center for radius search.
type SearchCenter struct {
	Latitude  float64
	Longitude float64
	RadiusKm  float64
}

type SearchFilters struct {
	Keyword      string
	Tags         []string
	Center       *SearchCenter
	Visibility   *visibility.Level
	Kind         *models.PlaceKind
	ActivityName string
	GenreName    string
}

// SearchNearby runs the two-phase geo search: a coarse bounding-box
// predicate in the store, then exact haversine filtering and ordering in
// process. Candidates are also filtered per actor through the visibility
// rules before pagination.
func (s *PlaceService) SearchNearby(ctx context.Context, filters SearchFilters, actorID uint, page types.PageQuery) (types.Page[PlaceDetails], error) {
	page = page.Normalize()

	if filters.Center != nil {
		if !geo.ValidCoordinates(filters.Center.Latitude, filters.Center.Longitude) {
			return types.Page[PlaceDetails]{}, validationf("invalid search center")
		}
		if filters.Center.RadiusKm <= 0 {
			return types.Page[PlaceDetails]{}, validationf("radius must be positive")
		}
	}

	db := s.db.WithContext(ctx).Model(&models.Place{}).Preload("Genre").Where("is_deleted = ?", false)

	if kw := strings.TrimSpace(filters.Keyword); kw != "" {
		pattern := "%" + strings.ToLower(kw) + "%"
		db = db.Where("LOWER(name) LIKE ? OR LOWER(address) LIKE ?", pattern, pattern)
	}
	if filters.Visibility != nil {
		db = db.Where("visibility = ?", *filters.Visibility)
	}
	if filters.Kind != nil {
		db = db.Where("kind = ?", *filters.Kind)
	}
	if filters.GenreName != "" {
		db = db.Where("genre_id IN (SELECT id FROM genres WHERE LOWER(name) = ?)", strings.ToLower(filters.GenreName))
	}
	if filters.ActivityName != "" {
		db = db.Where("EXISTS (SELECT 1 FROM place_activities WHERE place_activities.place_id = places.id AND place_activities.name_key = ?)",
			strings.ToLower(strings.TrimSpace(filters.ActivityName)))
	}
	if len(filters.Tags) > 0 {
		normalized := make([]string, 0, len(filters.Tags))
		for _, tag := range filters.Tags {
			if t := strings.ToLower(strings.TrimSpace(tag)); t != "" {
				normalized = append(normalized, t)
			}
		}
		if len(normalized) > 0 {
			db = db.Where(`EXISTS (
				SELECT 1 FROM reviews
				JOIN place_activities ON place_activities.id = reviews.place_activity_id
				JOIN review_tags ON review_tags.review_id = reviews.id
				JOIN tags ON tags.id = review_tags.tag_id
				WHERE place_activities.place_id = places.id AND tags.name IN ? AND reviews.deleted_at IS NULL
			)`, normalized)
		}
	}
	if filters.Center != nil {
		box := geo.BoundingBox(filters.Center.Latitude, filters.Center.Longitude, filters.Center.RadiusKm)
		db = db.Where("latitude BETWEEN ? AND ?", box.MinLat, box.MaxLat).
			Where("longitude BETWEEN ? AND ?", box.MinLng, box.MaxLng)
	}

	var candidates []models.Place
	if err := db.Find(&candidates).Error; err != nil {
		return types.Page[PlaceDetails]{}, err
	}

	var friendSet map[uint]struct{}
	if actorID != 0 {
		ids, err := s.friends.FriendIDs(ctx, actorID)
		if err != nil {
			return types.Page[PlaceDetails]{}, err
		}
		friendSet = idSet(ids)
	}

	var results []PlaceDetails
	for i := range candidates {
		p := &candidates[i]
		_, isFriend := friendSet[p.OwnerID]
		if !visibility.CanView(actorID, p.OwnerID, p.Visibility, isFriend) {
			continue
		}

		d := s.toDetails(p)
		if filters.Center != nil {
			km := geo.HaversineKm(filters.Center.Latitude, filters.Center.Longitude, p.Latitude, p.Longitude)
			// The bounding box over-approximates the circle; enforce the
			// exact radius here.
			if km > filters.Center.RadiusKm {
				continue
			}
			d.Distance = &km
		}
		results = append(results, *d)
	}

	if filters.Center != nil {
		sort.SliceStable(results, func(i, j int) bool {
			return *results[i].Distance < *results[j].Distance
		})
	} else {
		sort.SliceStable(results, func(i, j int) bool {
			return results[i].CreatedAt.After(results[j].CreatedAt)
		})
	}

	return types.SlicePage(results, page), nil
}

// Favorite records the (user, place) pair; repeating it is a no-op success.
func (s *PlaceService) Favorite(ctx context.Context, placeID, userID uint) error {
	var place models.Place
	if err := s.db.WithContext(ctx).Where("is_deleted = ?", false).First(&place, placeID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return ErrNotFound
		}
		return err
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.Favorite
		err := tx.Where("user_id = ? AND place_id = ?", userID, placeID).First(&existing).Error
		if err == nil {
			return nil
		}
		if err != gorm.ErrRecordNotFound {
			return err
		}

		if err := tx.Create(&models.Favorite{UserID: userID, PlaceID: placeID}).Error; err != nil {
			return err
		}
		return tx.Model(&models.Place{}).Where("id = ?", placeID).
			Update("favorites_count", gorm.Expr("favorites_count + 1")).Error
	})
}

// Unfavorite removes the pair; removing a pair that never existed is a
// no-op success and never drives the counter below zero.
func (s *PlaceService) Unfavorite(ctx context.Context, placeID, userID uint) error {
	var place models.Place
	if err := s.db.WithContext(ctx).Where("is_deleted = ?", false).First(&place, placeID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return ErrNotFound
		}
		return err
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("user_id = ? AND place_id = ?", userID, placeID).Delete(&models.Favorite{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return nil
		}
		return tx.Model(&models.Place{}).Where("id = ?", placeID).
			Update("favorites_count", gorm.Expr("CASE WHEN favorites_count > 0 THEN favorites_count - 1 ELSE 0 END")).Error
	})
}

// GetFavorited lists the actor's favorited places, re-checking visibility
// per item since an owner may have tightened it after the favorite.
func (s *PlaceService) GetFavorited(ctx context.Context, userID uint, page types.PageQuery) (types.Page[PlaceDetails], error) {
	page = page.Normalize()

	var places []models.Place
	err := s.db.WithContext(ctx).Model(&models.Place{}).Preload("Genre").
		Joins("JOIN favorites ON favorites.place_id = places.id").
		Where("favorites.user_id = ? AND places.is_deleted = ?", userID, false).
		Order("favorites.created_at DESC").
		Find(&places).Error
	if err != nil {
		return types.Page[PlaceDetails]{}, err
	}

	return s.visibleDetailsPage(ctx, places, userID, page)
}

// GetByOwner lists the places a user created, filtered for the viewing
// actor.
func (s *PlaceService) GetByOwner(ctx context.Context, ownerID, actorID uint, page types.PageQuery) (types.Page[PlaceDetails], error) {
	page = page.Normalize()

	var places []models.Place
	err := s.db.WithContext(ctx).Model(&models.Place{}).Preload("Genre").
		Where("owner_id = ? AND is_deleted = ?", ownerID, false).
		Order("created_at DESC").
		Find(&places).Error
	if err != nil {
		return types.Page[PlaceDetails]{}, err
	}

	return s.visibleDetailsPage(ctx, places, actorID, page)
}

func (s *PlaceService) visibleDetailsPage(ctx context.Context, places []models.Place, actorID uint, page types.PageQuery) (types.Page[PlaceDetails], error) {
	var friendSet map[uint]struct{}
	if actorID != 0 {
		ids, err := s.friends.FriendIDs(ctx, actorID)
		if err != nil {
			return types.Page[PlaceDetails]{}, err
		}
		friendSet = idSet(ids)
	}

	var results []PlaceDetails
	for i := range places {
		p := &places[i]
		_, isFriend := friendSet[p.OwnerID]
		if !visibility.CanView(actorID, p.OwnerID, p.Visibility, isFriend) {
			continue
		}
		results = append(results, *s.toDetails(p))
	}
	return types.SlicePage(results, page), nil
}

// SoftDelete hides the place from every listing while leaving its reviews
// in the history. Admins bypass the ownership check.
func (s *PlaceService) SoftDelete(ctx context.Context, id, actorID uint, isAdmin bool) error {
	var place models.Place
	if err := s.db.WithContext(ctx).Where("is_deleted = ?", false).First(&place, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return ErrNotFound
		}
		return err
	}
	if place.OwnerID != actorID && !isAdmin {
		return ErrPermissionDenied
	}

	if err := s.db.WithContext(ctx).Model(&place).Update("is_deleted", true).Error; err != nil {
		return err
	}
	s.log.Info("place soft-deleted", zap.Uint("placeId", id), zap.Uint("actorId", actorID))
	return nil
}
