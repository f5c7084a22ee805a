package activity_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"edulegal/internal/domain"
	"edulegal/internal/mocks"
	"edulegal/internal/service/activity"
)

func TestRecord(t *testing.T) {
	ctx := context.Background()
	caseID := uuid.New()

	t.Run("Stores metadata as JSON", func(t *testing.T) {
		repo := new(mocks.ActivityRepository)
		svc := activity.NewService(repo)

		repo.On("Create", ctx, mock.MatchedBy(func(a *domain.CaseActivity) bool {
			var meta map[string]string
			return a.CaseID == caseID &&
				a.Action == domain.ActivityStatusChanged &&
				json.Unmarshal(a.Metadata, &meta) == nil &&
				meta["to"] == "closed"
		})).Return(nil).Once()

		svc.Record(ctx, domain.CreateActivityInput{
			CaseID:   caseID,
			Action:   domain.ActivityStatusChanged,
			Details:  "Status changed from open to closed",
			Metadata: map[string]string{"from": "open", "to": "closed"},
		})

		repo.AssertExpectations(t)
	})

	t.Run("Swallows repository failures", func(t *testing.T) {
		repo := new(mocks.ActivityRepository)
		svc := activity.NewService(repo)

		repo.On("Create", ctx, mock.Anything).Return(errors.New("disk full")).Once()

		assert.NotPanics(t, func() {
			svc.Record(ctx, domain.CreateActivityInput{CaseID: caseID, Action: domain.ActivityCreated})
		})
	})
}
