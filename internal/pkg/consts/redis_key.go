package consts

const (
	UserHomeInfoKey       = "user:home:info:"
	UserSimpleInfoKey     = "user:simple:info:"
	UserFollowerCountKey  = "user:follower:count:"
	UserFollowingCountKey = "user:following:count:"
	UserFollowingKey      = "user:following:"
	UserFollowerKey       = "user:follower:"
	UserDetailLock        = "user:detail:lock:"
	PostLikeKey           = "post:like:"
	MediaTempKey          = "media:temp"
	StatsDailyKey         = "stats:daily:"
	StatsDirtyKey         = "stats:dirty"
)
