package repository

import (
	"context"
	log "log/slog"
	"time"

	"notehub/internal/model"

	"github.com/gocql/gocql"
	"github.com/pkg/errors"
)

// ErrThreadAlreadyExists 同 id 的串已存在
var ErrThreadAlreadyExists = errors.New("串已存在")

type CassandraThreadRepo struct {
	session *gocql.Session
}

// NewCassandraThreadRepository 建表后返回串存储, 建表失败直接返回错误
func NewCassandraThreadRepository(session *gocql.Session) (ThreadRepo, error) {
	for _, ddl := range threadTableDDLs {
		if err := session.Query(ddl).Exec(); err != nil {
			return nil, errors.Wrap(err, "init thread tables")
		}
	}
	return &CassandraThreadRepo{session: session}, nil
}

// CreateThread 主记录走 CAS 写入, 索引表独立写入,
// 索引写失败只告警, 读取时由主记录兜底
func (s *CassandraThreadRepo) CreateThread(ctx context.Context, thread *model.Thread) error {
	applied, err := s.session.Query(cqlInsertThreadIfNotExists, threadValues(thread)...).
		WithContext(ctx).MapScanCAS(map[string]interface{}{})
	if err != nil {
		return errors.Wrapf(err, "create thread %s", thread.ThreadID)
	}
	if !applied {
		return ErrThreadAlreadyExists
	}

	if err = s.session.Query(cqlInsertAuthorThread, thread.AuthorID, thread.CreatedAt, thread.ThreadID).
		WithContext(ctx).Exec(); err != nil {
		log.Warn("写入作者索引失败", "thread_id", thread.ThreadID, "err", err)
	}
	s.writeNoteIndex(ctx, thread)
	s.writeTagIndex(ctx, thread)
	return nil
}

func (s *CassandraThreadRepo) GetThreadByID(ctx context.Context, threadID string) (*model.Thread, error) {
	thread, err := s.scanThread(ctx, threadID)
	if err != nil {
		return nil, err
	}

	// 顺序表非空时以其为准, 并就地修复主记录的笔记列表
	var ordered []string
	iter := s.session.Query(cqlSelectThreadNotes, threadID).WithContext(ctx).Iter()
	var noteID string
	for iter.Scan(&noteID) {
		ordered = append(ordered, noteID)
	}
	if err = iter.Close(); err != nil {
		return nil, errors.Wrapf(err, "load thread notes %s", threadID)
	}
	if len(ordered) > 0 {
		thread.NoteIDs = ordered
		thread.TotalNotes = len(ordered)
	}
	return thread, nil
}

// UpdateThread 覆盖主记录并重建顺序表与标签索引
func (s *CassandraThreadRepo) UpdateThread(ctx context.Context, thread *model.Thread) error {
	if err := s.session.Query(cqlUpsertThread, threadValues(thread)...).
		WithContext(ctx).Exec(); err != nil {
		return errors.Wrapf(err, "update thread %s", thread.ThreadID)
	}
	if err := s.session.Query(cqlDeleteThreadNotes, thread.ThreadID).
		WithContext(ctx).Exec(); err != nil {
		log.Warn("清理顺序表失败", "thread_id", thread.ThreadID, "err", err)
	}
	s.writeNoteIndex(ctx, thread)
	s.writeTagIndex(ctx, thread)
	return nil
}

// DeleteThread 先读主记录拿到索引键, 再逐表删除
func (s *CassandraThreadRepo) DeleteThread(ctx context.Context, threadID string) error {
	thread, err := s.scanThread(ctx, threadID)
	if err != nil {
		if errors.Is(err, gocql.ErrNotFound) {
			return nil
		}
		return err
	}

	if err = s.session.Query(cqlDeleteThread, threadID).WithContext(ctx).Exec(); err != nil {
		return errors.Wrapf(err, "delete thread %s", threadID)
	}
	if err = s.session.Query(cqlDeleteAuthorThread, thread.AuthorID, thread.CreatedAt, threadID).
		WithContext(ctx).Exec(); err != nil {
		log.Warn("删除作者索引失败", "thread_id", threadID, "err", err)
	}
	for _, tag := range thread.Tags {
		if err = s.session.Query(cqlDeleteThreadTag, tag, thread.CreatedAt, threadID).
			WithContext(ctx).Exec(); err != nil {
			log.Warn("删除标签索引失败", "thread_id", threadID, "tag", tag, "err", err)
		}
	}
	for _, stmt := range []string{cqlDeleteThreadNotes, cqlDeleteThreadViews, cqlDeleteParticipants} {
		if err = s.session.Query(stmt, threadID).WithContext(ctx).Exec(); err != nil {
			log.Warn("删除串附表失败", "thread_id", threadID, "err", err)
		}
	}
	return nil
}

func (s *CassandraThreadRepo) GetThreadsByAuthor(ctx context.Context, authorID string, limit int) ([]*model.Thread, error) {
	return s.collectThreads(ctx, cqlSelectAuthorThreads, authorID, limit)
}

func (s *CassandraThreadRepo) GetThreadsByTag(ctx context.Context, tag string, limit int) ([]*model.Thread, error) {
	return s.collectThreads(ctx, cqlSelectTagThreads, tag, limit)
}

func (s *CassandraThreadRepo) collectThreads(ctx context.Context, stmt, key string, limit int) ([]*model.Thread, error) {
	iter := s.session.Query(stmt, key, limit).WithContext(ctx).Iter()
	var ids []string
	var id string
	for iter.Scan(&id) {
		ids = append(ids, id)
	}
	if err := iter.Close(); err != nil {
		return nil, errors.Wrap(err, "list thread ids")
	}

	threads := make([]*model.Thread, 0, len(ids))
	for _, threadID := range ids {
		thread, err := s.GetThreadByID(ctx, threadID)
		if err != nil {
			// 索引先于主记录写入时可能短暂悬空
			if errors.Is(err, gocql.ErrNotFound) {
				continue
			}
			return nil, err
		}
		threads = append(threads, thread)
	}
	return threads, nil
}

func (s *CassandraThreadRepo) RecordThreadView(ctx context.Context, threadID, userID string, viewedAt int64) error {
	err := s.session.Query(cqlInsertThreadView, threadID, userID, viewedAt).WithContext(ctx).Exec()
	return errors.Wrapf(err, "record view for thread %s", threadID)
}

func (s *CassandraThreadRepo) CountThreadViewers(ctx context.Context, threadID string) (int, error) {
	var count int
	err := s.session.Query(cqlCountThreadViews, threadID).WithContext(ctx).Scan(&count)
	if err != nil {
		return 0, errors.Wrapf(err, "count viewers for thread %s", threadID)
	}
	return count, nil
}

func (s *CassandraThreadRepo) UpsertParticipant(ctx context.Context, threadID string, p model.ThreadParticipant) error {
	err := s.session.Query(cqlUpsertParticipant,
		threadID, p.UserID, p.Username,
		p.NotesContributed, p.TotalLikesReceived, p.TotalRepliesReceived,
		p.FirstParticipation, p.LastParticipation, p.IsModerator, p.IsBlocked,
	).WithContext(ctx).Exec()
	return errors.Wrapf(err, "upsert participant for thread %s", threadID)
}

func (s *CassandraThreadRepo) GetThreadParticipants(ctx context.Context, threadID string) ([]model.ThreadParticipant, error) {
	iter := s.session.Query(cqlSelectParticipants, threadID).WithContext(ctx).Iter()
	var participants []model.ThreadParticipant
	var p model.ThreadParticipant
	for iter.Scan(&p.UserID, &p.Username, &p.NotesContributed, &p.TotalLikesReceived,
		&p.TotalRepliesReceived, &p.FirstParticipation, &p.LastParticipation,
		&p.IsModerator, &p.IsBlocked) {
		participants = append(participants, p)
	}
	if err := iter.Close(); err != nil {
		return nil, errors.Wrapf(err, "load participants for thread %s", threadID)
	}
	return participants, nil
}

// GetThreadStatistics 由主记录的计数推算统计快照
func (s *CassandraThreadRepo) GetThreadStatistics(ctx context.Context, threadID string) (*model.ThreadStatistics, error) {
	thread, err := s.GetThreadByID(ctx, threadID)
	if err != nil {
		return nil, err
	}
	participants, err := s.GetThreadParticipants(ctx, threadID)
	if err != nil {
		return nil, err
	}
	return buildThreadStatistics(thread, len(participants)), nil
}

func buildThreadStatistics(thread *model.Thread, participantCount int) *model.ThreadStatistics {
	stats := &model.ThreadStatistics{
		ThreadID:          thread.ThreadID,
		CalculatedAt:      nowUnix(),
		TotalNotes:        thread.TotalNotes,
		TotalParticipants: participantCount,
		TotalViews:        thread.TotalViews,
		TotalEngagement:   thread.GetTotalEngagement(),
		EngagementRate:    thread.CalculateEngagementRate(),
		CompletionRate:    thread.CompletionRate,
	}
	if participantCount == 0 && thread.UniqueParticipants > 0 {
		stats.TotalParticipants = thread.UniqueParticipants
	}

	endAt := thread.UpdatedAt
	if thread.LastActivityAt != nil {
		endAt = *thread.LastActivityAt
	}
	if endAt > thread.CreatedAt {
		durationSec := endAt - thread.CreatedAt
		stats.TotalThreadDuration = float64(durationSec) / 3600
		if thread.TotalNotes > 1 {
			stats.AverageTimeBetweenNotes = float64(durationSec) / float64(thread.TotalNotes-1) / 60
		}
	}
	if thread.TotalViews > 0 && thread.TotalNotes > 1 {
		// 只看了首条就离开视作跳出
		bounced := thread.TotalViews - thread.GetTotalEngagement()
		if bounced < 0 {
			bounced = 0
		}
		stats.BounceRate = float64(bounced) / float64(thread.TotalViews)
	}
	return stats
}

func (s *CassandraThreadRepo) writeNoteIndex(ctx context.Context, thread *model.Thread) {
	for pos, noteID := range thread.NoteIDs {
		if err := s.session.Query(cqlInsertThreadNote, thread.ThreadID, pos, noteID).
			WithContext(ctx).Exec(); err != nil {
			log.Warn("写入顺序表失败", "thread_id", thread.ThreadID, "note_id", noteID, "err", err)
		}
	}
}

func (s *CassandraThreadRepo) writeTagIndex(ctx context.Context, thread *model.Thread) {
	for _, tag := range thread.Tags {
		if err := s.session.Query(cqlInsertThreadTag, tag, thread.CreatedAt, thread.ThreadID).
			WithContext(ctx).Exec(); err != nil {
			log.Warn("写入标签索引失败", "thread_id", thread.ThreadID, "tag", tag, "err", err)
		}
	}
}

func (s *CassandraThreadRepo) scanThread(ctx context.Context, threadID string) (*model.Thread, error) {
	var (
		thread         model.Thread
		lastActivityAt int64
		completedAt    int64
		visibility     int
	)
	err := s.session.Query(cqlSelectThread, threadID).WithContext(ctx).Scan(
		&thread.ThreadID, &thread.StarterNoteID, &thread.AuthorID, &thread.AuthorUsername,
		&thread.Title, &thread.Description,
		&thread.Tags, &thread.NoteIDs, &thread.TotalNotes, &thread.MaxDepth,
		&thread.IsLocked, &thread.IsPinned, &thread.IsPublished, &thread.AllowReplies, &thread.AllowRenotes,
		&thread.TotalLikes, &thread.TotalRenotes, &thread.TotalReplies, &thread.TotalViews,
		&thread.TotalBookmarks, &thread.UniqueParticipants,
		&thread.CreatedAt, &thread.UpdatedAt, &lastActivityAt, &completedAt,
		&visibility, &thread.ModeratorIDs, &thread.BlockedUserIDs,
		&thread.EngagementRate, &thread.CompletionRate,
	)
	if err != nil {
		if errors.Is(err, gocql.ErrNotFound) {
			return nil, gocql.ErrNotFound
		}
		return nil, errors.Wrapf(err, "load thread %s", threadID)
	}
	thread.Visibility = model.NoteVisibility(visibility)
	if lastActivityAt > 0 {
		thread.LastActivityAt = &lastActivityAt
	}
	if completedAt > 0 {
		thread.CompletedAt = &completedAt
	}
	return &thread, nil
}

func nowUnix() int64 {
	return time.Now().Unix()
}

// threadValues 按 threadColumns 的列顺序展开
func threadValues(t *model.Thread) []interface{} {
	var lastActivityAt, completedAt int64
	if t.LastActivityAt != nil {
		lastActivityAt = *t.LastActivityAt
	}
	if t.CompletedAt != nil {
		completedAt = *t.CompletedAt
	}
	return []interface{}{
		t.ThreadID, t.StarterNoteID, t.AuthorID, t.AuthorUsername, t.Title, t.Description,
		t.Tags, t.NoteIDs, t.TotalNotes, t.MaxDepth,
		t.IsLocked, t.IsPinned, t.IsPublished, t.AllowReplies, t.AllowRenotes,
		t.TotalLikes, t.TotalRenotes, t.TotalReplies, t.TotalViews, t.TotalBookmarks, t.UniqueParticipants,
		t.CreatedAt, t.UpdatedAt, lastActivityAt, completedAt,
		int(t.Visibility), t.ModeratorIDs, t.BlockedUserIDs,
		t.EngagementRate, t.CompletionRate,
	}
}
