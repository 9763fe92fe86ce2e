package wire

import (
	"notehub/internal/api"
	"notehub/internal/api/config"
	"notehub/internal/api/handler"
	"notehub/internal/job"
	"notehub/internal/pkg/cron"
	"notehub/internal/pkg/linkpreview"
	"notehub/internal/pkg/util"
	"notehub/internal/repository"
	"notehub/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"
	"gorm.io/gorm"
)

// ApplicationContainer 封装了应用运行所需的所有顶级组件
type ApplicationContainer struct {
	Router  *gin.Engine
	DB      *gorm.DB
	CronMgr *cron.Manager
}

func BuildApplication(db *gorm.DB, session *gocql.Session, cfg *config.Config) (*ApplicationContainer, error) {
	noteRepo := repository.NewNoteRepository(db)
	attachmentRepo := repository.NewAttachmentRepository(db)
	threadRepo, err := repository.NewCassandraThreadRepository(session)
	if err != nil {
		return nil, err
	}

	idGen := util.NewIDGenerator()
	fetcher := linkpreview.NewFetcher(cfg.LinkPreview)

	noteService := service.NewNoteService(noteRepo, idGen)
	threadService := service.NewThreadService(threadRepo, noteRepo, idGen)
	mediaService := service.NewMediaService(attachmentRepo, noteRepo, fetcher, idGen)

	handlers := &api.HandlersGroup{
		NoteHandler:   handler.NewNoteHandler(noteService),
		ThreadHandler: handler.NewThreadHandler(threadService),
		MediaHandler:  handler.NewMediaHandler(mediaService),
	}

	router := api.SetupRouter(handlers)

	cronMgr := cron.NewCronManager(
		job.NewEngagementFlushJob(noteService),
		job.NewScheduledPublishJob(noteService),
		job.NewRetentionPurgeJob(noteRepo, mediaService, cfg.Retention),
	)

	return &ApplicationContainer{
		Router:  router,
		DB:      db,
		CronMgr: cronMgr,
	}, nil
}
