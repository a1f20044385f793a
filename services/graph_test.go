package services

import (
	"context"
	"testing"

	"github.com/ping-point/api-go/models"
)

func TestFriendGraphRequiresMutualAccept(t *testing.T) {
	db := openTestDB(t)
	graph := NewGormFriendGraph(db)
	ctx := context.Background()

	a := createUser(t, db, "a")
	b := createUser(t, db, "b")
	c := createUser(t, db, "c")

	// a -> b accepted one way only.
	if err := db.Create(&models.Follow{FollowerUserID: a.ID, FollowingUserID: b.ID, Status: models.FollowStatusAccepted}).Error; err != nil {
		t.Fatalf("create follow: %v", err)
	}
	// a <-> c mutual, but c's edge still pending.
	if err := db.Create(&models.Follow{FollowerUserID: a.ID, FollowingUserID: c.ID, Status: models.FollowStatusAccepted}).Error; err != nil {
		t.Fatalf("create follow: %v", err)
	}
	if err := db.Create(&models.Follow{FollowerUserID: c.ID, FollowingUserID: a.ID, Status: models.FollowStatusPending}).Error; err != nil {
		t.Fatalf("create follow: %v", err)
	}

	if ok, _ := graph.IsFriend(ctx, a.ID, b.ID); ok {
		t.Fatal("one-way follow is not friendship")
	}
	if ok, _ := graph.IsFriend(ctx, a.ID, c.ID); ok {
		t.Fatal("pending back-edge is not friendship")
	}

	if err := db.Model(&models.Follow{}).
		Where("follower_user_id = ? AND following_user_id = ?", c.ID, a.ID).
		Update("status", models.FollowStatusAccepted).Error; err != nil {
		t.Fatalf("accept follow: %v", err)
	}

	if ok, _ := graph.IsFriend(ctx, a.ID, c.ID); !ok {
		t.Fatal("mutual accepted follows should be friends")
	}
	if ok, _ := graph.IsFriend(ctx, c.ID, a.ID); !ok {
		t.Fatal("friendship is symmetric")
	}

	ids, err := graph.FriendIDs(ctx, a.ID)
	if err != nil {
		t.Fatalf("friend ids: %v", err)
	}
	if len(ids) != 1 || ids[0] != c.ID {
		t.Fatalf("want only c as friend, got %v", ids)
	}
}

func TestFriendGraphSelfAndAnonymous(t *testing.T) {
	db := openTestDB(t)
	graph := NewGormFriendGraph(db)
	ctx := context.Background()

	a := createUser(t, db, "a")

	if ok, _ := graph.IsFriend(ctx, a.ID, a.ID); ok {
		t.Fatal("a user is not their own friend")
	}
	if ok, _ := graph.IsFriend(ctx, 0, a.ID); ok {
		t.Fatal("anonymous has no friends")
	}
}

func TestBlockGraphEitherDirection(t *testing.T) {
	db := openTestDB(t)
	graph := NewGormBlockGraph(db)
	ctx := context.Background()

	a := createUser(t, db, "a")
	b := createUser(t, db, "b")
	c := createUser(t, db, "c")

	if err := db.Create(&models.Block{BlockerUserID: a.ID, BlockedUserID: b.ID}).Error; err != nil {
		t.Fatalf("create block: %v", err)
	}

	if ok, _ := graph.IsBlockedEither(ctx, a.ID, b.ID); !ok {
		t.Fatal("blocker sees the block")
	}
	if ok, _ := graph.IsBlockedEither(ctx, b.ID, a.ID); !ok {
		t.Fatal("blocked side sees the block too")
	}
	if ok, _ := graph.IsBlockedEither(ctx, a.ID, c.ID); ok {
		t.Fatal("unrelated pair is not blocked")
	}

	ids, err := graph.BlockedIDs(ctx, b.ID)
	if err != nil {
		t.Fatalf("blocked ids: %v", err)
	}
	if len(ids) != 1 || ids[0] != a.ID {
		t.Fatalf("incoming blocks count, got %v", ids)
	}
}
