package api

import (
	"net/http"

	"notehub/internal/api/middleware"
	"notehub/internal/pkg/logger"

	"github.com/gin-gonic/gin"
)

func SetupRouter(group *HandlersGroup) *gin.Engine {
	r := gin.New()
	_ = r.SetTrustedProxies([]string{"localhost"})

	// TraceId & Logger & CORS
	r.Use(middleware.TraceMiddleware())
	r.Use(middleware.AuditMiddleware())
	r.Use(middleware.CORSMiddleware())
	logger.SetupGin(r)

	apiGroup := r.Group("/api")
	{
		apiGroup.GET("/ping", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"Code":    200,
				"Message": "pong",
				"Data":    nil,
			})
		})

		noteGroup := apiGroup.Group("/notes")
		{
			noteGroup.POST("", group.NoteHandler.CreateNote)
			noteGroup.GET("/timeline", group.NoteHandler.GetPublicTimeline)
			noteGroup.GET("/trending", group.NoteHandler.GetTrendingNotes)
			noteGroup.GET("/search", group.NoteHandler.SearchNotes)
			noteGroup.GET("/drafts", group.NoteHandler.GetDrafts)
			noteGroup.GET("/scheduled", group.NoteHandler.GetScheduledNotes)
			noteGroup.GET("/author/:author_id", group.NoteHandler.GetNotesByAuthor)

			noteGroup.GET("/:note_id", group.NoteHandler.GetNote)
			noteGroup.PUT("/:note_id", group.NoteHandler.UpdateNote)
			noteGroup.DELETE("/:note_id", group.NoteHandler.DeleteNote)
			noteGroup.POST("/:note_id/restore", group.NoteHandler.RestoreNote)
			noteGroup.POST("/:note_id/flag", group.NoteHandler.FlagNote)
			noteGroup.POST("/:note_id/hide", group.NoteHandler.HideNote)
			noteGroup.POST("/:note_id/schedule", group.NoteHandler.ScheduleNote)

			noteGroup.POST("/:note_id/actions", group.NoteHandler.ActOnNote)
			noteGroup.DELETE("/:note_id/actions", group.NoteHandler.UndoNoteAction)

			noteGroup.GET("/:note_id/replies", group.NoteHandler.GetReplies)
			noteGroup.GET("/:note_id/quotes", group.NoteHandler.GetQuotes)
			noteGroup.GET("/:note_id/renotes", group.NoteHandler.GetRenotes)

			noteGroup.POST("/:note_id/attachments", group.MediaHandler.AttachToNote)
		}

		hashtagGroup := apiGroup.Group("/hashtags")
		{
			hashtagGroup.GET("/top", group.NoteHandler.GetTopHashtags)
			hashtagGroup.GET("/trending", group.NoteHandler.GetTrendingTopics)
			hashtagGroup.GET("/:hashtag/notes", group.NoteHandler.GetNotesByHashtag)
		}

		threadGroup := apiGroup.Group("/threads")
		{
			threadGroup.POST("", group.ThreadHandler.CreateThread)
			threadGroup.GET("/author/:author_id", group.ThreadHandler.GetThreadsByAuthor)
			threadGroup.GET("/tag/:tag", group.ThreadHandler.GetThreadsByTag)

			threadGroup.GET("/:thread_id", group.ThreadHandler.GetThread)
			threadGroup.DELETE("/:thread_id", group.ThreadHandler.DeleteThread)
			threadGroup.GET("/:thread_id/notes", group.ThreadHandler.GetThreadNotes)
			threadGroup.POST("/:thread_id/notes", group.ThreadHandler.AppendNote)
			threadGroup.DELETE("/:thread_id/notes/:note_id", group.ThreadHandler.RemoveNote)
			threadGroup.PUT("/:thread_id/notes/order", group.ThreadHandler.ReorderNote)
			threadGroup.GET("/:thread_id/statistics", group.ThreadHandler.GetStatistics)
			threadGroup.POST("/:thread_id/views", group.ThreadHandler.RecordView)

			threadGroup.POST("/:thread_id/lock", group.ThreadHandler.LockThread)
			threadGroup.POST("/:thread_id/unlock", group.ThreadHandler.UnlockThread)
			threadGroup.POST("/:thread_id/pin", group.ThreadHandler.PinThread)
			threadGroup.POST("/:thread_id/unpin", group.ThreadHandler.UnpinThread)
			threadGroup.POST("/:thread_id/complete", group.ThreadHandler.CompleteThread)
			threadGroup.POST("/:thread_id/reopen", group.ThreadHandler.ReopenThread)

			threadGroup.POST("/:thread_id/moderators", group.ThreadHandler.AddModerator)
			threadGroup.DELETE("/:thread_id/moderators", group.ThreadHandler.RemoveModerator)
			threadGroup.POST("/:thread_id/blocks", group.ThreadHandler.BlockUser)
			threadGroup.DELETE("/:thread_id/blocks", group.ThreadHandler.UnblockUser)
		}

		mediaGroup := apiGroup.Group("/media")
		{
			mediaGroup.POST("/uploads", group.MediaHandler.CreateUpload)
			mediaGroup.POST("/uploads/:attachment_id/complete", group.MediaHandler.CompleteUpload)
			mediaGroup.POST("/tenor", group.MediaHandler.CreateTenorGif)
			mediaGroup.POST("/link-previews", group.MediaHandler.CreateLinkPreview)
			mediaGroup.POST("/polls", group.MediaHandler.CreatePoll)
			mediaGroup.POST("/locations", group.MediaHandler.CreateLocation)

			mediaGroup.GET("/uploader/:uploader_id", group.MediaHandler.GetAttachmentsByUploader)
			mediaGroup.GET("/:attachment_id", group.MediaHandler.GetAttachment)
			mediaGroup.DELETE("/:attachment_id", group.MediaHandler.DeleteAttachment)
			mediaGroup.POST("/:attachment_id/flags", group.MediaHandler.FlagAttachment)
			mediaGroup.POST("/:attachment_id/download", group.MediaHandler.RecordDownload)
		}
	}

	return r
}
