package services

import (
	"context"

	"gorm.io/gorm"

	"github.com/ping-point/api-go/models"
)

// FriendGraph answers friendship questions for visibility checks. Two users
// are friends when both directions of the follow edge are accepted.
type FriendGraph interface {
	FriendIDs(ctx context.Context, userID uint) ([]uint, error)
	IsFriend(ctx context.Context, a, b uint) (bool, error)
}

// BlockGraph answers block questions. Blocks are opaque: a block in either
// direction hides the two users from each other.
type BlockGraph interface {
	BlockedIDs(ctx context.Context, userID uint) ([]uint, error)
	IsBlockedEither(ctx context.Context, a, b uint) (bool, error)
}

// GormFriendGraph reads friendships from the follows table.
type GormFriendGraph struct {
	db *gorm.DB
}

func NewGormFriendGraph(db *gorm.DB) *GormFriendGraph {
	return &GormFriendGraph{db: db}
}

func (g *GormFriendGraph) FriendIDs(ctx context.Context, userID uint) ([]uint, error) {
	var ids []uint
	err := g.db.WithContext(ctx).
		Model(&models.Follow{}).
		Select("follows.following_user_id").
		Joins("JOIN follows back ON back.follower_user_id = follows.following_user_id AND back.following_user_id = follows.follower_user_id AND back.status = ? AND back.deleted_at IS NULL", models.FollowStatusAccepted).
		Where("follows.follower_user_id = ? AND follows.status = ?", userID, models.FollowStatusAccepted).
		Find(&ids).Error
	return ids, err
}

func (g *GormFriendGraph) IsFriend(ctx context.Context, a, b uint) (bool, error) {
	if a == 0 || b == 0 || a == b {
		return false, nil
	}
	var count int64
	err := g.db.WithContext(ctx).
		Model(&models.Follow{}).
		Where("follower_user_id = ? AND following_user_id = ? AND status = ?", a, b, models.FollowStatusAccepted).
		Where("EXISTS (SELECT 1 FROM follows back WHERE back.follower_user_id = ? AND back.following_user_id = ? AND back.status = ? AND back.deleted_at IS NULL)",
			b, a, models.FollowStatusAccepted).
		Count(&count).Error
	return count > 0, err
}

// GormBlockGraph reads blocks from the blocks table.
type GormBlockGraph struct {
	db *gorm.DB
}

func NewGormBlockGraph(db *gorm.DB) *GormBlockGraph {
	return &GormBlockGraph{db: db}
}

func (g *GormBlockGraph) BlockedIDs(ctx context.Context, userID uint) ([]uint, error) {
	if userID == 0 {
		return nil, nil
	}

	var outgoing []uint
	if err := g.db.WithContext(ctx).
		Model(&models.Block{}).
		Where("blocker_user_id = ?", userID).
		Pluck("blocked_user_id", &outgoing).Error; err != nil {
		return nil, err
	}

	var incoming []uint
	if err := g.db.WithContext(ctx).
		Model(&models.Block{}).
		Where("blocked_user_id = ?", userID).
		Pluck("blocker_user_id", &incoming).Error; err != nil {
		return nil, err
	}

	seen := make(map[uint]struct{}, len(outgoing)+len(incoming))
	var ids []uint
	for _, id := range append(outgoing, incoming...) {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids, nil
}

func (g *GormBlockGraph) IsBlockedEither(ctx context.Context, a, b uint) (bool, error) {
	if a == 0 || b == 0 {
		return false, nil
	}
	var count int64
	err := g.db.WithContext(ctx).
		Model(&models.Block{}).
		Where("(blocker_user_id = ? AND blocked_user_id = ?) OR (blocker_user_id = ? AND blocked_user_id = ?)", a, b, b, a).
		Count(&count).Error
	return count > 0, err
}

func idSet(ids []uint) map[uint]struct{} {
	set := make(map[uint]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}
