package consts

const (
	NoteCounterKey        = "note:counters:"       // note:counters:<note_id> -> hash of metric deltas
	NoteCounterDirtyKey   = "note:counters:dirty"  // set of note ids with buffered deltas
	ThreadPositionKey     = "thread:position:"     // thread:position:<thread_id> -> next position counter
	ThreadViewedKey       = "thread:viewed:"       // thread:viewed:<thread_id> -> set of viewer ids
	TrendingHashtagKey    = "hashtag:trending"     // zset of hashtag -> engagement score
	ScheduledPublishLock  = "note:publish:lock"
	EngagementFlushLock   = "note:counters:flush:lock"
	RetentionPurgeLock    = "note:purge:lock"
)
