package service

import (
	"github.com/minio/minio-go/v7"
	"github.com/redis/go-redis/v9"

	"edulegal/internal/config"
	"edulegal/internal/repository"
	"edulegal/internal/service/activity"
	"edulegal/internal/service/auth"
	"edulegal/internal/service/cases"
	"edulegal/internal/service/complaint"
	"edulegal/internal/service/dashboard"
	"edulegal/internal/service/email"
	"edulegal/internal/service/export"
	"edulegal/internal/service/forum"
	"edulegal/internal/service/notification"
	"edulegal/internal/service/storage"
	"edulegal/internal/service/user"
)

type Services struct {
	Auth         auth.Service
	User         user.Service
	Case         cases.Service
	Complaint    complaint.Service
	Activity     activity.Service
	Notification notification.Service
	Forum        forum.Service
	Email        email.Service
	Storage      storage.Service
	Dashboard    dashboard.Service
	Export       export.Service
}

func NewServices(repos *repository.Repositories, redis *redis.Client, minioClient *minio.Client, cfg *config.Config) *Services {
	var store storage.Store
	if minioClient != nil {
		store = storage.NewMinIOStore(minioClient, cfg.MinIOBucket)
	} else {
		store = storage.NewDiskStore(cfg.UploadDir)
	}

	emailService := email.NewService(cfg)
	storageService := storage.NewService(store)
	dashboardService := dashboard.NewService(repos.Case, redis)
	activityService := activity.NewService(repos.Activity)
	notificationService := notification.NewService(repos.Notification, repos.User, emailService)

	caseService := cases.NewService(
		repos.Case,
		repos.Complaint,
		repos.User,
		repos.Note,
		repos.Document,
		activityService,
		storageService,
		dashboardService,
		cfg,
	)
	caseService.SetNotificationService(notificationService)

	return &Services{
		Auth:         auth.NewService(repos.User, cfg),
		User:         user.NewService(repos.User),
		Case:         caseService,
		Complaint:    complaint.NewService(repos.Complaint, repos.User, storageService, dashboardService),
		Activity:     activityService,
		Notification: notificationService,
		Forum:        forum.NewService(repos.Forum, repos.Case),
		Email:        emailService,
		Storage:      storageService,
		Dashboard:    dashboardService,
		Export:       export.NewService(repos.Case, repos.Complaint),
	}
}
