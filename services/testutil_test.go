package services

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/ping-point/api-go/ai"
	"github.com/ping-point/api-go/config"
	"github.com/ping-point/api-go/googleplaces"
	"github.com/ping-point/api-go/models"
	"github.com/ping-point/api-go/visibility"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := config.MigrateModels(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func createUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()

	user := models.User{
		Username:       username,
		DisplayName:    username,
		Email:          username + "@example.com",
		Password:       "x",
		ReviewsPrivacy: visibility.Public,
		PlacesPrivacy:  visibility.Public,
		LikesPrivacy:   visibility.Public,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("create user %s: %v", username, err)
	}
	return &user
}

// makeFriends inserts accepted follow edges in both directions.
func makeFriends(t *testing.T, db *gorm.DB, a, b uint) {
	t.Helper()

	edges := []models.Follow{
		{FollowerUserID: a, FollowingUserID: b, Status: models.FollowStatusAccepted},
		{FollowerUserID: b, FollowingUserID: a, Status: models.FollowStatusAccepted},
	}
	for _, e := range edges {
		if err := db.Create(&e).Error; err != nil {
			t.Fatalf("create follow edge: %v", err)
		}
	}
}

func blockUser(t *testing.T, db *gorm.DB, blocker, blocked uint) {
	t.Helper()
	if err := db.Create(&models.Block{BlockerUserID: blocker, BlockedUserID: blocked}).Error; err != nil {
		t.Fatalf("create block: %v", err)
	}
}

// fakeLimiter counts in memory; set failing to simulate an unreachable
// counter.
type fakeLimiter struct {
	counts  map[string]int64
	failing bool
}

func newFakeLimiter() *fakeLimiter {
	return &fakeLimiter{counts: make(map[string]int64)}
}

func (l *fakeLimiter) IncrementAndGet(_ context.Context, key string, _ time.Duration) (int64, error) {
	if l.failing {
		return 0, fmt.Errorf("limiter unavailable")
	}
	l.counts[key]++
	return l.counts[key], nil
}

// fakeModeration flags any text containing one of its banned words.
type fakeModeration struct {
	banned []string
	err    error
}

func (m *fakeModeration) Check(_ context.Context, text string) (ai.ModerationResult, error) {
	if m.err != nil {
		return ai.ModerationResult{}, m.err
	}
	lower := strings.ToLower(text)
	for _, word := range m.banned {
		if strings.Contains(lower, word) {
			return ai.ModerationResult{Flagged: true, Reason: "banned term"}, nil
		}
	}
	return ai.ModerationResult{}, nil
}

// fakeMatcher matches names case-insensitively after stripping apostrophes,
// or reports an error when failing.
type fakeMatcher struct {
	failing bool
}

func normalizeFake(s string) string {
	return strings.ToLower(strings.ReplaceAll(s, "'", ""))
}

func (m *fakeMatcher) NamesMatch(_ context.Context, officialName, candidateName string) (bool, error) {
	if m.failing {
		return false, fmt.Errorf("matcher unavailable")
	}
	return normalizeFake(officialName) == normalizeFake(candidateName), nil
}

func (m *fakeMatcher) FindDuplicate(_ context.Context, candidateName string, existingNames []string) (string, error) {
	if m.failing {
		return "", fmt.Errorf("matcher unavailable")
	}
	for _, name := range existingNames {
		if normalizeFake(name) == normalizeFake(candidateName) {
			return name, nil
		}
	}
	return "", nil
}

// fakeLookup serves canned responses.
type fakeLookup struct {
	nameByCoords string
	byID         map[string]*googleplaces.ResolvedPlace
	err          error
}

func (l *fakeLookup) ResolveByCoordinates(_ context.Context, _, _ float64) (string, error) {
	if l.err != nil {
		return "", l.err
	}
	return l.nameByCoords, nil
}

func (l *fakeLookup) ResolveByID(_ context.Context, externalID string) (*googleplaces.ResolvedPlace, error) {
	if l.err != nil {
		return nil, l.err
	}
	return l.byID[externalID], nil
}

type serviceFixture struct {
	db         *gorm.DB
	limiter    *fakeLimiter
	moderation *fakeModeration
	matcher    *fakeMatcher
	lookup     *fakeLookup
	places     *PlaceService
	reviews    *ReviewService
	profiles   *ProfileService
}

func newFixture(t *testing.T) *serviceFixture {
	t.Helper()

	db := openTestDB(t)
	limiter := newFakeLimiter()
	moderation := &fakeModeration{}
	matcher := &fakeMatcher{}
	lookup := &fakeLookup{byID: make(map[string]*googleplaces.ResolvedPlace)}
	log := zap.NewNop()

	friends := NewGormFriendGraph(db)
	blocks := NewGormBlockGraph(db)

	reviews := NewReviewService(db, moderation, friends, blocks, log)
	return &serviceFixture{
		db:         db,
		limiter:    limiter,
		moderation: moderation,
		matcher:    matcher,
		lookup:     lookup,
		places:     NewPlaceService(db, lookup, matcher, moderation, limiter, friends, log, 10),
		reviews:    reviews,
		profiles:   NewProfileService(db, friends, blocks, reviews, log),
	}
}
