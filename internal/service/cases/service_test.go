package cases_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"edulegal/internal/config"
	"edulegal/internal/domain"
	"edulegal/internal/mocks"
	"edulegal/internal/pkg/async"
	"edulegal/internal/pkg/validate"
	"edulegal/internal/service/cases"
)

type fixture struct {
	caseRepo      *mocks.CaseRepository
	complaintRepo *mocks.ComplaintRepository
	userRepo      *mocks.UserRepository
	noteRepo      *mocks.NoteRepository
	documentRepo  *mocks.DocumentRepository
	activitySvc   *mocks.ActivityService
	storageSvc    *mocks.StorageService
	dashboardSvc  *mocks.DashboardService
	notifSvc      *mocks.NotificationService
	svc           cases.Service
}

func newFixture(cfg *config.Config) *fixture {
	f := &fixture{
		caseRepo:      new(mocks.CaseRepository),
		complaintRepo: new(mocks.ComplaintRepository),
		userRepo:      new(mocks.UserRepository),
		noteRepo:      new(mocks.NoteRepository),
		documentRepo:  new(mocks.DocumentRepository),
		activitySvc:   new(mocks.ActivityService),
		storageSvc:    new(mocks.StorageService),
		dashboardSvc:  new(mocks.DashboardService),
		notifSvc:      new(mocks.NotificationService),
	}
	if cfg == nil {
		cfg = &config.Config{}
	}

	f.svc = cases.NewService(f.caseRepo, f.complaintRepo, f.userRepo, f.noteRepo, f.documentRepo,
		f.activitySvc, f.storageSvc, f.dashboardSvc, cfg)
	f.svc.SetNotificationService(f.notifSvc)
	f.svc.SetDispatcher(async.Inline)

	f.dashboardSvc.On("Invalidate", mock.Anything).Return().Maybe()
	return f
}

func withAction(action domain.ActivityAction) interface{} {
	return mock.MatchedBy(func(in domain.CreateActivityInput) bool {
		return in.Action == action
	})
}

func newUser(role domain.Role) *domain.User {
	return &domain.User{ID: uuid.New(), Name: string(role) + " user", Email: string(role) + "@example.com", Role: role}
}

func TestCaseService_Create(t *testing.T) {
	ctx := context.Background()
	input := domain.CreateCaseInput{Title: "T", Description: "D", Category: domain.CategoryHarassment}

	t.Run("Anonymous submission", func(t *testing.T) {
		f := newFixture(nil)
		f.caseRepo.On("Create", ctx, mock.AnythingOfType("*domain.Case")).Return(nil).Once()
		f.activitySvc.On("Record", ctx, withAction(domain.ActivityCreated)).Return().Once()
		f.notifSvc.On("NotifyNewCase", mock.Anything, mock.AnythingOfType("*domain.Case")).Return([]domain.Notification{}).Once()

		c, err := f.svc.Create(ctx, nil, input)

		require.NoError(t, err)
		assert.Nil(t, c.CreatedByID)
		assert.Nil(t, c.CreatedBy)
		assert.Equal(t, domain.RoleGuest, c.Role)
		assert.Equal(t, domain.StatusOpen, c.Status)
		assert.Equal(t, domain.PriorityMedium, c.Priority)
		f.caseRepo.AssertExpectations(t)
		f.activitySvc.AssertExpectations(t)
		f.notifSvc.AssertExpectations(t)
	})

	t.Run("Authenticated submitter", func(t *testing.T) {
		f := newFixture(nil)
		actor := newUser(domain.RoleGuest)
		f.caseRepo.On("Create", ctx, mock.AnythingOfType("*domain.Case")).Return(nil).Once()
		f.activitySvc.On("Record", ctx, withAction(domain.ActivityCreated)).Return().Once()
		f.notifSvc.On("NotifyNewCase", mock.Anything, mock.AnythingOfType("*domain.Case")).Return([]domain.Notification{}).Once()

		c, err := f.svc.Create(ctx, actor, input)

		require.NoError(t, err)
		require.NotNil(t, c.CreatedByID)
		assert.Equal(t, actor.ID, *c.CreatedByID)
		assert.Equal(t, actor.Name, c.CreatedBy.Name)
		require.NotNil(t, c.Name)
		assert.Equal(t, actor.Name, *c.Name)
	})

	t.Run("Missing title", func(t *testing.T) {
		f := newFixture(nil)

		c, err := f.svc.Create(ctx, nil, domain.CreateCaseInput{Description: "D", Category: domain.CategoryHarassment})

		var fe *validate.FieldError
		require.ErrorAs(t, err, &fe)
		assert.Equal(t, "title", fe.Field)
		assert.Nil(t, c)
		f.caseRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("Unknown category", func(t *testing.T) {
		f := newFixture(nil)

		_, err := f.svc.Create(ctx, nil, domain.CreateCaseInput{Title: "T", Description: "D", Category: "gossip"})

		assert.ErrorIs(t, err, cases.ErrInvalidCategory)
	})
}

func TestCaseService_List(t *testing.T) {
	ctx := context.Background()

	t.Run("Officer is scoped to own and unassigned cases", func(t *testing.T) {
		f := newFixture(nil)
		officer := newUser(domain.RoleLegalOfficer)
		f.caseRepo.On("List", ctx, mock.MatchedBy(func(filter domain.CaseFilter) bool {
			return filter.ScopeOfficer != nil && *filter.ScopeOfficer == officer.ID && filter.AssignedTo == nil
		})).Return([]domain.Case{}, nil).Once()

		_, err := f.svc.List(ctx, officer, domain.CaseFilter{})

		require.NoError(t, err)
		f.caseRepo.AssertExpectations(t)
	})

	t.Run("Explicit assignedTo is passed through for officers", func(t *testing.T) {
		f := newFixture(nil)
		officer := newUser(domain.RoleLegalOfficer)
		other := uuid.New()
		f.caseRepo.On("List", ctx, mock.MatchedBy(func(filter domain.CaseFilter) bool {
			return filter.AssignedTo != nil && *filter.AssignedTo == other
		})).Return([]domain.Case{}, nil).Once()

		_, err := f.svc.List(ctx, officer, domain.CaseFilter{AssignedTo: &other})

		require.NoError(t, err)
		f.caseRepo.AssertExpectations(t)
	})

	t.Run("Admin is unscoped", func(t *testing.T) {
		f := newFixture(nil)
		scope := uuid.New()
		f.caseRepo.On("List", ctx, mock.MatchedBy(func(filter domain.CaseFilter) bool {
			return filter.ScopeOfficer == nil
		})).Return([]domain.Case{{ID: uuid.New()}}, nil).Once()

		found, err := f.svc.List(ctx, newUser(domain.RoleAdmin), domain.CaseFilter{ScopeOfficer: &scope})

		require.NoError(t, err)
		assert.Len(t, found, 1)
	})

	t.Run("Guest is rejected", func(t *testing.T) {
		f := newFixture(nil)

		_, err := f.svc.List(ctx, newUser(domain.RoleGuest), domain.CaseFilter{})

		assert.ErrorIs(t, err, cases.ErrForbidden)
	})

	t.Run("Invalid status filter", func(t *testing.T) {
		f := newFixture(nil)
		status := domain.CaseStatus("pending")

		_, err := f.svc.List(ctx, newUser(domain.RoleAdmin), domain.CaseFilter{Status: &status})

		assert.ErrorIs(t, err, cases.ErrInvalidStatus)
	})
}

func TestCaseService_GetByID(t *testing.T) {
	ctx := context.Background()
	officer := newUser(domain.RoleLegalOfficer)
	otherOfficer := uuid.New()
	caseID := uuid.New()

	t.Run("Not found", func(t *testing.T) {
		f := newFixture(nil)
		f.caseRepo.On("GetByID", ctx, caseID).Return(nil, nil).Once()

		_, err := f.svc.GetByID(ctx, officer, caseID)

		assert.ErrorIs(t, err, domain.ErrCaseNotFound)
	})

	t.Run("Officer cannot read another officer's case", func(t *testing.T) {
		f := newFixture(nil)
		f.caseRepo.On("GetByID", ctx, caseID).Return(&domain.Case{ID: caseID, AssignedToID: &otherOfficer}, nil).Once()

		_, err := f.svc.GetByID(ctx, officer, caseID)

		assert.ErrorIs(t, err, cases.ErrForbidden)
	})

	t.Run("Officer can read unassigned case", func(t *testing.T) {
		f := newFixture(nil)
		f.caseRepo.On("GetByID", ctx, caseID).Return(&domain.Case{ID: caseID}, nil).Once()

		c, err := f.svc.GetByID(ctx, officer, caseID)

		require.NoError(t, err)
		assert.Equal(t, caseID, c.ID)
	})
}

func TestCaseService_Update(t *testing.T) {
	ctx := context.Background()
	caseID := uuid.New()
	closed := domain.StatusClosed

	openCase := func() *domain.Case {
		return &domain.Case{ID: caseID, Title: "T", Description: "D", Category: domain.CategoryHarassment,
			Status: domain.StatusOpen, Priority: domain.PriorityMedium}
	}

	t.Run("Status change records activity and notifies", func(t *testing.T) {
		f := newFixture(nil)
		officer := newUser(domain.RoleLegalOfficer)
		f.caseRepo.On("GetByID", ctx, caseID).Return(openCase(), nil).Once()
		f.caseRepo.On("Update", ctx, mock.MatchedBy(func(c *domain.Case) bool {
			return c.Status == domain.StatusClosed && c.Title == "T"
		})).Return(nil).Once()
		f.activitySvc.On("Record", ctx, mock.MatchedBy(func(in domain.CreateActivityInput) bool {
			return in.Action == domain.ActivityStatusChanged && in.CaseID == caseID && *in.UserID == officer.ID
		})).Return().Once()
		f.notifSvc.On("NotifyCaseStatusChanged", mock.Anything, mock.AnythingOfType("*domain.Case"), domain.StatusOpen).
			Return([]domain.Notification{}).Once()

		c, err := f.svc.Update(ctx, officer, caseID, domain.UpdateCaseInput{Status: &closed})

		require.NoError(t, err)
		assert.Equal(t, domain.StatusClosed, c.Status)
		assert.Equal(t, "D", c.Description)
		f.activitySvc.AssertExpectations(t)
		f.notifSvc.AssertExpectations(t)
		f.notifSvc.AssertNotCalled(t, "NotifyCaseAssigned", mock.Anything, mock.Anything)
	})

	t.Run("Notification failure does not fail the update", func(t *testing.T) {
		f := newFixture(nil)
		f.svc.SetDispatcher(func(ctx context.Context, task string, fn func(ctx context.Context) error) {
			async.Inline(ctx, task, func(ctx context.Context) error {
				_ = fn(ctx)
				return errors.New("smtp down")
			})
		})
		f.caseRepo.On("GetByID", ctx, caseID).Return(openCase(), nil).Once()
		f.caseRepo.On("Update", ctx, mock.Anything).Return(nil).Once()
		f.activitySvc.On("Record", ctx, withAction(domain.ActivityStatusChanged)).Return().Once()
		f.notifSvc.On("NotifyCaseStatusChanged", mock.Anything, mock.Anything, domain.StatusOpen).
			Return([]domain.Notification{}).Once()

		_, err := f.svc.Update(ctx, newUser(domain.RoleAdmin), caseID, domain.UpdateCaseInput{Status: &closed})

		assert.NoError(t, err)
	})

	t.Run("Assigning to a non-officer is rejected", func(t *testing.T) {
		f := newFixture(nil)
		guest := newUser(domain.RoleGuest)
		f.caseRepo.On("GetByID", ctx, caseID).Return(openCase(), nil).Once()
		f.userRepo.On("GetByID", ctx, guest.ID).Return(guest, nil).Once()

		_, err := f.svc.Update(ctx, newUser(domain.RoleAdmin), caseID, domain.UpdateCaseInput{
			AssignedTo: domain.NullableUUID{Value: &guest.ID, Set: true},
		})

		assert.ErrorIs(t, err, cases.ErrAssigneeNotOfficer)
		f.caseRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("Assigning to a missing user", func(t *testing.T) {
		f := newFixture(nil)
		missing := uuid.New()
		f.caseRepo.On("GetByID", ctx, caseID).Return(openCase(), nil).Once()
		f.userRepo.On("GetByID", ctx, missing).Return(nil, nil).Once()

		_, err := f.svc.Update(ctx, newUser(domain.RoleAdmin), caseID, domain.UpdateCaseInput{
			AssignedTo: domain.NullableUUID{Value: &missing, Set: true},
		})

		assert.ErrorIs(t, err, cases.ErrAssigneeNotFound)
	})

	t.Run("Officers cannot assign", func(t *testing.T) {
		f := newFixture(nil)
		officer := newUser(domain.RoleLegalOfficer)
		f.caseRepo.On("GetByID", ctx, caseID).Return(openCase(), nil).Once()

		_, err := f.svc.Update(ctx, officer, caseID, domain.UpdateCaseInput{
			AssignedTo: domain.NullableUUID{Value: &officer.ID, Set: true},
		})

		assert.ErrorIs(t, err, cases.ErrAssignForbidden)
	})

	t.Run("Officer echoing the current assignee is not an assignment", func(t *testing.T) {
		officer := newUser(domain.RoleLegalOfficer)
		assigned := func() *domain.Case {
			c := openCase()
			c.AssignedToID = &officer.ID
			return c
		}

		for name, tc := range map[string]struct {
			existing func() *domain.Case
			value    *uuid.UUID
		}{
			"same officer":          {assigned, &officer.ID},
			"null while unassigned": {openCase, nil},
		} {
			t.Run(name, func(t *testing.T) {
				f := newFixture(nil)
				f.caseRepo.On("GetByID", ctx, caseID).Return(tc.existing(), nil).Once()
				f.caseRepo.On("Update", ctx, mock.Anything).Return(nil).Once()
				f.activitySvc.On("Record", ctx, withAction(domain.ActivityStatusChanged)).Return().Once()
				f.notifSvc.On("NotifyCaseStatusChanged", mock.Anything, mock.Anything, domain.StatusOpen).
					Return([]domain.Notification{}).Once()

				_, err := f.svc.Update(ctx, officer, caseID, domain.UpdateCaseInput{
					Status:     &closed,
					AssignedTo: domain.NullableUUID{Value: tc.value, Set: true},
				})

				require.NoError(t, err)
				f.userRepo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
				f.notifSvc.AssertNotCalled(t, "NotifyCaseAssigned", mock.Anything, mock.Anything)
			})
		}
	})

	t.Run("Admin assigns an officer", func(t *testing.T) {
		f := newFixture(nil)
		officer := newUser(domain.RoleLegalOfficer)
		f.caseRepo.On("GetByID", ctx, caseID).Return(openCase(), nil).Once()
		f.userRepo.On("GetByID", ctx, officer.ID).Return(officer, nil).Once()
		f.caseRepo.On("Update", ctx, mock.Anything).Return(nil).Once()
		f.activitySvc.On("Record", ctx, withAction(domain.ActivityAssigned)).Return().Once()
		f.notifSvc.On("NotifyCaseAssigned", mock.Anything, mock.MatchedBy(func(c *domain.Case) bool {
			return c.AssignedToID != nil && *c.AssignedToID == officer.ID
		})).Return([]domain.Notification{}).Once()

		c, err := f.svc.Update(ctx, newUser(domain.RoleAdmin), caseID, domain.UpdateCaseInput{
			AssignedTo: domain.NullableUUID{Value: &officer.ID, Set: true},
		})

		require.NoError(t, err)
		assert.Equal(t, officer.Name, c.AssignedTo.Name)
		f.notifSvc.AssertExpectations(t)
	})
}

func TestCaseService_Delete(t *testing.T) {
	ctx := context.Background()
	caseID := uuid.New()
	guest := newUser(domain.RoleGuest)

	ownedCase := func(status domain.CaseStatus) *domain.Case {
		owner := guest.ID
		return &domain.Case{ID: caseID, Status: status, CreatedByID: &owner}
	}

	expectCascade := func(f *fixture) {
		f.documentRepo.On("ListByCase", ctx, caseID).Return([]domain.CaseDocument{
			{ID: uuid.New(), FilePath: "uploads/documents/2026/10/a.pdf"},
		}, nil).Once()
		f.storageSvc.On("Remove", ctx, "uploads/documents/2026/10/a.pdf").Return(errors.New("gone")).Once()
		f.noteRepo.On("DeleteByCase", ctx, caseID).Return(nil).Once()
		f.documentRepo.On("DeleteByCase", ctx, caseID).Return(nil).Once()
		f.activitySvc.On("DeleteByCase", ctx, caseID).Return(nil).Once()
		f.caseRepo.On("Delete", ctx, caseID).Return(nil).Once()
	}

	t.Run("Guest deletes own open case with cascade", func(t *testing.T) {
		f := newFixture(nil)
		f.caseRepo.On("GetByID", ctx, caseID).Return(ownedCase(domain.StatusOpen), nil).Once()
		expectCascade(f)

		err := f.svc.Delete(ctx, guest, caseID)

		require.NoError(t, err)
		f.noteRepo.AssertExpectations(t)
		f.documentRepo.AssertExpectations(t)
		f.activitySvc.AssertExpectations(t)
		f.caseRepo.AssertExpectations(t)
		f.storageSvc.AssertExpectations(t)
	})

	t.Run("Guest cannot delete after it moved on", func(t *testing.T) {
		for _, status := range []domain.CaseStatus{domain.StatusInProgress, domain.StatusClosed} {
			f := newFixture(nil)
			f.caseRepo.On("GetByID", ctx, caseID).Return(ownedCase(status), nil).Once()

			err := f.svc.Delete(ctx, guest, caseID)

			assert.ErrorIs(t, err, cases.ErrCaseNotOpen)
			f.caseRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
		}
	})

	t.Run("Guest cannot delete someone else's case", func(t *testing.T) {
		f := newFixture(nil)
		f.caseRepo.On("GetByID", ctx, caseID).Return(ownedCase(domain.StatusOpen), nil).Once()

		err := f.svc.Delete(ctx, newUser(domain.RoleGuest), caseID)

		assert.ErrorIs(t, err, cases.ErrNotCaseOwner)
	})

	t.Run("Anonymous caller is rejected", func(t *testing.T) {
		f := newFixture(nil)

		err := f.svc.Delete(ctx, nil, caseID)

		assert.ErrorIs(t, err, cases.ErrForbidden)
	})

	t.Run("Files survive a failed row delete", func(t *testing.T) {
		f := newFixture(nil)
		f.caseRepo.On("GetByID", ctx, caseID).Return(ownedCase(domain.StatusOpen), nil).Once()
		f.documentRepo.On("ListByCase", ctx, caseID).Return([]domain.CaseDocument{
			{ID: uuid.New(), FilePath: "uploads/documents/2026/10/a.pdf"},
		}, nil).Once()
		f.noteRepo.On("DeleteByCase", ctx, caseID).Return(errors.New("db down")).Once()

		err := f.svc.Delete(ctx, newUser(domain.RoleAdmin), caseID)

		assert.ErrorContains(t, err, "failed to delete case notes")
		f.storageSvc.AssertNotCalled(t, "Remove", mock.Anything, mock.Anything)
		f.caseRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("Officer deletes a closed case", func(t *testing.T) {
		f := newFixture(nil)
		f.caseRepo.On("GetByID", ctx, caseID).Return(ownedCase(domain.StatusClosed), nil).Once()
		expectCascade(f)

		assert.NoError(t, f.svc.Delete(ctx, newUser(domain.RoleLegalOfficer), caseID))
	})
}

func TestCaseService_ListAssigned(t *testing.T) {
	ctx := context.Background()
	now := time.Now()

	t.Run("Officer gets cases and unassigned complaints newest first", func(t *testing.T) {
		f := newFixture(nil)
		officer := newUser(domain.RoleLegalOfficer)
		older := domain.Case{ID: uuid.New(), Title: "older", CreatedAt: now.Add(-2 * time.Hour)}
		newer := domain.Case{ID: uuid.New(), Title: "newer", CreatedAt: now}
		name := "Student"
		middle := domain.Complaint{ID: uuid.New(), Title: "complaint", ReporterName: &name, CreatedAt: now.Add(-time.Hour)}

		f.caseRepo.On("List", ctx, mock.MatchedBy(func(filter domain.CaseFilter) bool {
			return filter.ScopeOfficer != nil && *filter.ScopeOfficer == officer.ID
		})).Return([]domain.Case{older, newer}, nil).Once()
		f.complaintRepo.On("List", ctx, domain.ComplaintFilter{UnassignedOnly: true}).
			Return([]domain.Complaint{middle}, nil).Once()

		views, err := f.svc.ListAssigned(ctx, officer)

		require.NoError(t, err)
		require.Len(t, views, 3)
		assert.Equal(t, "newer", views[0].Title)
		assert.Equal(t, "complaint", views[1].Title)
		assert.True(t, views[1].IsComplaint)
		assert.Nil(t, views[1].CreatedBy)
		assert.Equal(t, "older", views[2].Title)
	})

	t.Run("Store failure is an error by default", func(t *testing.T) {
		f := newFixture(nil)
		f.caseRepo.On("List", ctx, mock.Anything).Return(nil, errors.New("connection refused")).Once()

		views, err := f.svc.ListAssigned(ctx, newUser(domain.RoleAdmin))

		assert.Error(t, err)
		assert.Nil(t, views)
	})

	t.Run("Store failure serves demo records in demo mode", func(t *testing.T) {
		f := newFixture(&config.Config{DemoMode: true})
		f.caseRepo.On("List", ctx, mock.Anything).Return(nil, errors.New("connection refused")).Once()

		views, err := f.svc.ListAssigned(ctx, newUser(domain.RoleAdmin))

		require.NoError(t, err)
		assert.NotEmpty(t, views)
	})

	t.Run("Guest is rejected", func(t *testing.T) {
		f := newFixture(nil)

		_, err := f.svc.ListAssigned(ctx, newUser(domain.RoleGuest))

		assert.ErrorIs(t, err, cases.ErrForbidden)
	})
}
