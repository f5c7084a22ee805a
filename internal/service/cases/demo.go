package cases

import (
	"time"

	"github.com/google/uuid"

	"edulegal/internal/domain"
)

// demoAssignedCases backs the assigned-cases view when DEMO_MODE is on and the
// store is unreachable. Never served otherwise.
func demoAssignedCases() []domain.CaseView {
	base := time.Date(2024, time.January, 15, 9, 0, 0, 0, time.UTC)
	name := "Demo Student"

	return []domain.CaseView{
		{
			ID:          uuid.MustParse("00000000-0000-4000-8000-000000000003"),
			Title:       "Exam grade not recorded",
			Description: "Final exam grade is missing from the transcript.",
			Category:    domain.CategoryGradingDispute,
			Status:      domain.StatusInProgress,
			Priority:    domain.PriorityMedium,
			Name:        &name,
			CreatedAt:   base.Add(48 * time.Hour),
			UpdatedAt:   base.Add(50 * time.Hour),
		},
		{
			ID:          uuid.MustParse("00000000-0000-4000-8000-000000000002"),
			Title:       "Unsafe lab equipment",
			Description: "Reported anonymously through the public complaint form.",
			Category:    domain.CategorySafety,
			Status:      domain.StatusOpen,
			Priority:    domain.PriorityHigh,
			IsComplaint: true,
			CreatedAt:   base.Add(24 * time.Hour),
			UpdatedAt:   base.Add(24 * time.Hour),
		},
		{
			ID:          uuid.MustParse("00000000-0000-4000-8000-000000000001"),
			Title:       "Harassment in dormitory",
			Description: "Repeated verbal harassment by a neighbouring resident.",
			Category:    domain.CategoryHarassment,
			Status:      domain.StatusOpen,
			Priority:    domain.PriorityHigh,
			CreatedAt:   base,
			UpdatedAt:   base,
		},
	}
}
