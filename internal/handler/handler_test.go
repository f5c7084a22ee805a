package handler_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"edulegal/internal/config"
	"edulegal/internal/domain"
	"edulegal/internal/handler"
	"edulegal/internal/middleware"
	"edulegal/internal/mocks"
	"edulegal/internal/pkg/async"
	"edulegal/internal/service/cases"
	"edulegal/internal/service/complaint"
)

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func decode(t *testing.T, resp *http.Response) envelope {
	t.Helper()
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var env envelope
	require.NoError(t, json.Unmarshal(body, &env), string(body))
	return env
}

func newApp() *fiber.App {
	return fiber.New(fiber.Config{ErrorHandler: middleware.NewErrorHandler(false)})
}

func TestCreateCaseAnonymously(t *testing.T) {
	caseRepo := new(mocks.CaseRepository)
	activitySvc := new(mocks.ActivityService)
	dashboardSvc := new(mocks.DashboardService)
	notifSvc := new(mocks.NotificationService)

	caseSvc := cases.NewService(caseRepo, new(mocks.ComplaintRepository), new(mocks.UserRepository),
		new(mocks.NoteRepository), new(mocks.DocumentRepository), activitySvc, new(mocks.StorageService),
		dashboardSvc, &config.Config{})
	caseSvc.SetNotificationService(notifSvc)
	caseSvc.SetDispatcher(async.Inline)

	caseRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Case")).Return(nil).Once()
	activitySvc.On("Record", mock.Anything, mock.Anything).Return().Once()
	notifSvc.On("NotifyNewCase", mock.Anything, mock.Anything).Return([]domain.Notification{}).Once()
	dashboardSvc.On("Invalidate", mock.Anything).Return().Maybe()

	app := newApp()
	h := handler.NewCaseHandler(caseSvc, dashboardSvc)
	app.Post("/api/cases", middleware.AuthOptional(new(mocks.AuthService)), h.Create)

	req := httptest.NewRequest(http.MethodPost, "/api/cases", strings.NewReader(
		`{"title":"Locker theft","description":"My laptop was taken from the dorm locker","category":"property"}`,
	))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	env := decode(t, resp)
	assert.True(t, env.Success)

	var data struct {
		Case struct {
			CreatedBy *domain.UserRef `json:"createdBy"`
			Role      string          `json:"role"`
			Status    string          `json:"status"`
			Priority  string          `json:"priority"`
		} `json:"case"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Nil(t, data.Case.CreatedBy)
	assert.Equal(t, "guest", data.Case.Role)
	assert.Equal(t, "open", data.Case.Status)
	assert.Equal(t, "medium", data.Case.Priority)

	caseRepo.AssertExpectations(t)
	notifSvc.AssertExpectations(t)
}

func TestCreateCaseRejectsUnknownCategory(t *testing.T) {
	caseSvc := cases.NewService(new(mocks.CaseRepository), new(mocks.ComplaintRepository), new(mocks.UserRepository),
		new(mocks.NoteRepository), new(mocks.DocumentRepository), new(mocks.ActivityService), new(mocks.StorageService),
		new(mocks.DashboardService), &config.Config{})

	app := newApp()
	app.Post("/api/cases", handler.NewCaseHandler(caseSvc, nil).Create)

	req := httptest.NewRequest(http.MethodPost, "/api/cases", strings.NewReader(
		`{"title":"x","description":"y","category":"parking"}`,
	))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.False(t, decode(t, resp).Success)
}

func complaintForm(t *testing.T, field string, files int) (*bytes.Buffer, string) {
	t.Helper()

	body := new(bytes.Buffer)
	w := multipart.NewWriter(body)
	require.NoError(t, w.WriteField("reporterType", "student"))
	require.NoError(t, w.WriteField("reporterName", "Amani"))
	require.NoError(t, w.WriteField("title", "Exam paper leak"))
	require.NoError(t, w.WriteField("description", "Papers were shared a day early"))
	require.NoError(t, w.WriteField("category", "academic_misconduct"))
	for i := 0; i < files; i++ {
		part, err := w.CreateFormFile(field, fmt.Sprintf("evidence-%d.txt", i))
		require.NoError(t, err)
		_, err = part.Write([]byte("screenshot transcript"))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return body, w.FormDataContentType()
}

func TestSubmitComplaintLimits(t *testing.T) {
	complaintSvc := complaint.NewService(new(mocks.ComplaintRepository), new(mocks.UserRepository),
		new(mocks.StorageService), new(mocks.DashboardService))

	app := newApp()
	app.Post("/api/complaints", handler.NewComplaintHandler(complaintSvc).Submit)

	t.Run("Too many attachments", func(t *testing.T) {
		body, contentType := complaintForm(t, "attachments", 6)
		req := httptest.NewRequest(http.MethodPost, "/api/complaints", body)
		req.Header.Set("Content-Type", contentType)

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "Too many files. Maximum is 5 files per complaint", decode(t, resp).Message)
	})

	t.Run("Wrong file field", func(t *testing.T) {
		body, contentType := complaintForm(t, "evidence", 1)
		req := httptest.NewRequest(http.MethodPost, "/api/complaints", body)
		req.Header.Set("Content-Type", contentType)

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "Unexpected field: evidence. Use 'attachments' for file uploads", decode(t, resp).Message)
	})
}

func TestGetCaseMalformedID(t *testing.T) {
	caseSvc := cases.NewService(new(mocks.CaseRepository), new(mocks.ComplaintRepository), new(mocks.UserRepository),
		new(mocks.NoteRepository), new(mocks.DocumentRepository), new(mocks.ActivityService), new(mocks.StorageService),
		new(mocks.DashboardService), &config.Config{})

	app := newApp()
	app.Get("/api/cases/:id", handler.NewCaseHandler(caseSvc, nil).Get)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/cases/not-a-uuid", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Case not found", decode(t, resp).Message)
}
