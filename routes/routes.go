package routes

import (
	"journal-management-api/controllers"
	"journal-management-api/middleware"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(router *gin.Engine) {
	// API v1 group
	v1 := router.Group("/api/v1")
	{
		// Public routes
		public := v1.Group("")
		{
			// Authentication
			public.POST("/register", controllers.Register)
			public.POST("/login", controllers.Login)
			public.POST("/forgot-password", controllers.ForgotPassword)
			public.POST("/reset-password", controllers.ResetPassword)

			// Health check
			public.GET("/health", func(c *gin.Context) {
				c.JSON(200, gin.H{
					"status":  "ok",
					"message": "Journal Management API is running",
				})
			})
		}

		// Protected routes (require authentication)
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware())
		{
			// User profile
			protected.GET("/profile", controllers.GetProfile)
			protected.PUT("/change-password", controllers.ChangePassword)
			protected.POST("/profile/role-requests", controllers.RequestRoles)

			// Articles (author-facing intake)
			articles := protected.Group("/articles")
			{
				articles.POST("", controllers.CreateArticle)
				articles.PUT("/:id", controllers.UpdateArticle)
				articles.POST("/:id/manuscript", controllers.UploadManuscript)
				articles.POST("/:id/submit", controllers.SubmitArticle)
				articles.GET("/:id/versions", controllers.GetFileVersions)
			}

			// Submissions
			submissions := protected.Group("/submissions")
			{
				submissions.GET("", controllers.GetSubmissions)
				submissions.GET("/:id", controllers.GetSubmission)
				submissions.GET("/:id/revision", controllers.GetRevisionRequest)
				submissions.POST("/:id/revision", controllers.SubmitRevision)
			}

			// Editorial workflow (editors only)
			editorial := protected.Group("/editorial")
			editorial.Use(middleware.RequireEditor())
			{
				editorial.GET("/queue", controllers.GetEditorialQueue)
				editorial.GET("/reviewers", controllers.GetReviewers)
				editorial.GET("/submissions/:id/decisions", controllers.GetEditorialDecisions)
				editorial.GET("/submissions/:id/reviews", controllers.GetSubmissionReviews)

				editorial.POST("/submissions/:id/start-review", controllers.StartReview)
				editorial.POST("/submissions/:id/accept", controllers.AcceptSubmission)
				editorial.POST("/submissions/:id/reject", controllers.RejectSubmission)
				editorial.POST("/submissions/:id/desk-reject", controllers.DeskRejectSubmission)
				editorial.POST("/submissions/:id/request-revision", controllers.RequestRevision)
				editorial.POST("/submissions/:id/reviewers", controllers.AssignReviewers)
				editorial.POST("/submissions/:id/advance-production", controllers.AdvanceProduction)
				editorial.POST("/articles/:id/publish", controllers.PublishArticle)
			}

			// Peer review (reviewers only)
			reviews := protected.Group("/reviews")
			reviews.Use(middleware.RequireReviewer())
			{
				reviews.GET("", controllers.GetMyReviews)
				reviews.GET("/:id", controllers.GetReview)
				reviews.POST("/:id/respond", controllers.RespondToInvitation)
				reviews.PUT("/:id", controllers.SaveReviewDraft)
				reviews.POST("/:id/submit", controllers.SubmitReview)
			}

			// Notifications
			notifications := protected.Group("/notifications")
			{
				notifications.GET("", controllers.GetNotifications)
				notifications.GET("/counter", controllers.GetNotificationCounter)
				notifications.PUT("/:id/read", controllers.MarkNotificationRead)
				notifications.PUT("/read-all", controllers.MarkAllNotificationsRead)
			}

			// Admin
			admin := protected.Group("/admin")
			admin.Use(middleware.RequireAdmin())
			{
				admin.GET("/role-requests", controllers.GetRoleRequests)
				admin.POST("/role-requests/:id", controllers.ResolveRoleRequest)
			}
		}
	}
}
