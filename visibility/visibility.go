package visibility

// Level controls who may view an entity.
type Level string

const (
	Private Level = "private"
	Friends Level = "friends"
	Public  Level = "public"
)

// Valid reports whether l is one of the known levels.
func (l Level) Valid() bool {
	switch l {
	case Private, Friends, Public:
		return true
	}
	return false
}

// CanView decides whether an actor may see content owned by ownerID at the
// given level. actorID 0 means anonymous. The owner always sees their own
// content; Friends content requires an established friendship, which the
// caller resolves and passes in.
func CanView(actorID, ownerID uint, level Level, isFriendOfOwner bool) bool {
	if level == Public {
		return true
	}
	if actorID == 0 {
		return false
	}
	if actorID == ownerID {
		return true
	}
	if level == Friends {
		return isFriendOfOwner
	}
	return false
}
