package repository

// 串数据在 Cassandra 里按访问路径建表:
// threads 存主记录, thread_notes 存串内顺序, author_threads 与
// thread_tags 是反查索引, thread_views 与 thread_participants
// 记录浏览与参与明细. 索引表独立写入, 读取时以主记录兜底.

var threadTableDDLs = []string{
	`CREATE TABLE IF NOT EXISTS threads (
		thread_id text PRIMARY KEY,
		starter_note_id text,
		author_id text,
		author_username text,
		title text,
		description text,
		tags list<text>,
		note_ids list<text>,
		total_notes int,
		max_depth int,
		is_locked boolean,
		is_pinned boolean,
		is_published boolean,
		allow_replies boolean,
		allow_renotes boolean,
		total_likes int,
		total_renotes int,
		total_replies int,
		total_views int,
		total_bookmarks int,
		unique_participants int,
		created_at bigint,
		updated_at bigint,
		last_activity_at bigint,
		completed_at bigint,
		visibility int,
		moderator_ids list<text>,
		blocked_user_ids list<text>,
		engagement_rate double,
		completion_rate double
	)`,
	`CREATE TABLE IF NOT EXISTS thread_notes (
		thread_id text,
		position int,
		note_id text,
		PRIMARY KEY (thread_id, position)
	) WITH CLUSTERING ORDER BY (position ASC)`,
	`CREATE TABLE IF NOT EXISTS author_threads (
		author_id text,
		created_at bigint,
		thread_id text,
		PRIMARY KEY (author_id, created_at, thread_id)
	) WITH CLUSTERING ORDER BY (created_at DESC, thread_id DESC)`,
	`CREATE TABLE IF NOT EXISTS thread_tags (
		tag text,
		created_at bigint,
		thread_id text,
		PRIMARY KEY (tag, created_at, thread_id)
	) WITH CLUSTERING ORDER BY (created_at DESC, thread_id DESC)`,
	`CREATE TABLE IF NOT EXISTS thread_views (
		thread_id text,
		user_id text,
		viewed_at bigint,
		PRIMARY KEY (thread_id, user_id)
	)`,
	`CREATE TABLE IF NOT EXISTS thread_participants (
		thread_id text,
		user_id text,
		username text,
		notes_contributed int,
		total_likes_received int,
		total_replies_received int,
		first_participation bigint,
		last_participation bigint,
		is_moderator boolean,
		is_blocked boolean,
		PRIMARY KEY (thread_id, user_id)
	)`,
}

const threadColumns = `thread_id, starter_note_id, author_id, author_username, title, description,
	tags, note_ids, total_notes, max_depth,
	is_locked, is_pinned, is_published, allow_replies, allow_renotes,
	total_likes, total_renotes, total_replies, total_views, total_bookmarks, unique_participants,
	created_at, updated_at, last_activity_at, completed_at,
	visibility, moderator_ids, blocked_user_ids, engagement_rate, completion_rate`

const threadPlaceholders = `?, ?, ?, ?, ?, ?,
	?, ?, ?, ?,
	?, ?, ?, ?, ?,
	?, ?, ?, ?, ?, ?,
	?, ?, ?, ?,
	?, ?, ?, ?, ?`

var (
	cqlInsertThreadIfNotExists = `INSERT INTO threads (` + threadColumns + `) VALUES (` + threadPlaceholders + `) IF NOT EXISTS`
	cqlUpsertThread            = `INSERT INTO threads (` + threadColumns + `) VALUES (` + threadPlaceholders + `)`
	cqlSelectThread            = `SELECT ` + threadColumns + ` FROM threads WHERE thread_id = ?`
	cqlDeleteThread            = `DELETE FROM threads WHERE thread_id = ?`

	cqlInsertThreadNote  = `INSERT INTO thread_notes (thread_id, position, note_id) VALUES (?, ?, ?)`
	cqlSelectThreadNotes = `SELECT note_id FROM thread_notes WHERE thread_id = ?`
	cqlDeleteThreadNotes = `DELETE FROM thread_notes WHERE thread_id = ?`

	cqlInsertAuthorThread  = `INSERT INTO author_threads (author_id, created_at, thread_id) VALUES (?, ?, ?)`
	cqlSelectAuthorThreads = `SELECT thread_id FROM author_threads WHERE author_id = ? LIMIT ?`
	cqlDeleteAuthorThread  = `DELETE FROM author_threads WHERE author_id = ? AND created_at = ? AND thread_id = ?`

	cqlInsertThreadTag  = `INSERT INTO thread_tags (tag, created_at, thread_id) VALUES (?, ?, ?)`
	cqlSelectTagThreads = `SELECT thread_id FROM thread_tags WHERE tag = ? LIMIT ?`
	cqlDeleteThreadTag  = `DELETE FROM thread_tags WHERE tag = ? AND created_at = ? AND thread_id = ?`

	cqlInsertThreadView  = `INSERT INTO thread_views (thread_id, user_id, viewed_at) VALUES (?, ?, ?)`
	cqlCountThreadViews  = `SELECT COUNT(*) FROM thread_views WHERE thread_id = ?`
	cqlDeleteThreadViews = `DELETE FROM thread_views WHERE thread_id = ?`

	cqlUpsertParticipant = `INSERT INTO thread_participants (thread_id, user_id, username,
		notes_contributed, total_likes_received, total_replies_received,
		first_participation, last_participation, is_moderator, is_blocked)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	cqlSelectParticipants = `SELECT user_id, username, notes_contributed, total_likes_received,
		total_replies_received, first_participation, last_participation, is_moderator, is_blocked
		FROM thread_participants WHERE thread_id = ?`
	cqlDeleteParticipants = `DELETE FROM thread_participants WHERE thread_id = ?`
)
