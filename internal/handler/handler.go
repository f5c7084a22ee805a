package handler

import "edulegal/internal/service"

type Handlers struct {
	Auth         *AuthHandler
	User         *UserHandler
	Settings     *SettingsHandler
	Case         *CaseHandler
	Complaint    *ComplaintHandler
	Notification *NotificationHandler
	Forum        *ForumHandler
	Export       *ExportHandler
	Upload       *UploadHandler
}

func NewHandlers(services *service.Services) *Handlers {
	return &Handlers{
		Auth:         NewAuthHandler(services.Auth),
		User:         NewUserHandler(services.User),
		Settings:     NewSettingsHandler(services.User, services.Complaint),
		Case:         NewCaseHandler(services.Case, services.Dashboard),
		Complaint:    NewComplaintHandler(services.Complaint),
		Notification: NewNotificationHandler(services.Notification),
		Forum:        NewForumHandler(services.Forum),
		Export:       NewExportHandler(services.Export),
		Upload:       NewUploadHandler(services.Storage),
	}
}
