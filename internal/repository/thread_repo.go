package repository

import (
	"context"

	"notehub/internal/model"
)

type ThreadRepo interface {
	// CreateThread 创建串, 同 id 已存在时返回 ErrThreadAlreadyExists
	CreateThread(ctx context.Context, thread *model.Thread) error
	GetThreadByID(ctx context.Context, threadID string) (*model.Thread, error)
	UpdateThread(ctx context.Context, thread *model.Thread) error
	DeleteThread(ctx context.Context, threadID string) error

	GetThreadsByAuthor(ctx context.Context, authorID string, limit int) ([]*model.Thread, error)
	GetThreadsByTag(ctx context.Context, tag string, limit int) ([]*model.Thread, error)

	// RecordThreadView 记录一次浏览, 同一用户重复浏览只保留一条
	RecordThreadView(ctx context.Context, threadID, userID string, viewedAt int64) error
	CountThreadViewers(ctx context.Context, threadID string) (int, error)

	UpsertParticipant(ctx context.Context, threadID string, participant model.ThreadParticipant) error
	GetThreadParticipants(ctx context.Context, threadID string) ([]model.ThreadParticipant, error)

	GetThreadStatistics(ctx context.Context, threadID string) (*model.ThreadStatistics, error)
}
