//go:build integration
// +build integration

package tests

import (
	"context"
	"testing"

	dbadapter "taskpilot/internal/adapter/db"
	"taskpilot/internal/core/domain"

	"github.com/stretchr/testify/suite"
)

type RepositoryIntegrationSuite struct {
	IntegrationSuiteBase
	repo *dbadapter.TaskRepository
}

func TestRepositoryIntegrationSuite(t *testing.T) {
	suite.Run(t, new(RepositoryIntegrationSuite))
}

func (s *RepositoryIntegrationSuite) SetupTest() {
	s.ResetDatabase()
	s.repo = dbadapter.NewTaskRepository(s.DB)
}

// A duplicate tag violates the (task_id, tag) primary key after the task
// insert has already executed, so the whole create must roll back.
func (s *RepositoryIntegrationSuite) TestCreate_FailedTagInsertLeavesNoTaskRow() {
	_, err := s.repo.Create(context.Background(), "user-1", domain.CreateTaskInput{
		Title:      "Plan trip",
		Priority:   domain.PriorityMedium,
		Recurrence: domain.RecurrenceNone,
		Tags:       []string{"travel", "travel"},
	})
	s.Require().Error(err)

	var taskCount int
	s.Require().NoError(s.DB.Get(&taskCount,
		"SELECT COUNT(*) FROM tasks WHERE user_id = 'user-1' AND title = 'Plan trip'"))
	s.Require().Equal(0, taskCount)

	var tagCount int
	s.Require().NoError(s.DB.Get(&tagCount, "SELECT COUNT(*) FROM task_tags"))
	s.Require().Equal(0, tagCount)
}

func (s *RepositoryIntegrationSuite) TestReplaceTags_FailureKeepsExistingTags() {
	created, err := s.repo.Create(context.Background(), "user-1", domain.CreateTaskInput{
		Title:      "Plan trip",
		Priority:   domain.PriorityMedium,
		Recurrence: domain.RecurrenceNone,
		Tags:       []string{"travel"},
	})
	s.Require().NoError(err)

	err = s.repo.ReplaceTags(context.Background(), created.ID, []string{"summer", "summer"})
	s.Require().Error(err)

	var tags []string
	s.Require().NoError(s.DB.Select(&tags,
		"SELECT tag FROM task_tags WHERE task_id = ? ORDER BY tag", created.ID))
	s.Require().Equal([]string{"travel"}, tags)
}

func (s *RepositoryIntegrationSuite) TestDelete_RemovesTaskAndTagsTogether() {
	created, err := s.repo.Create(context.Background(), "user-1", domain.CreateTaskInput{
		Title:      "Plan trip",
		Priority:   domain.PriorityMedium,
		Recurrence: domain.RecurrenceNone,
		Tags:       []string{"travel", "summer"},
	})
	s.Require().NoError(err)

	s.Require().NoError(s.repo.Delete(context.Background(), created.ID))

	var taskCount, tagCount int
	s.Require().NoError(s.DB.Get(&taskCount, "SELECT COUNT(*) FROM tasks WHERE id = ?", created.ID))
	s.Require().NoError(s.DB.Get(&tagCount, "SELECT COUNT(*) FROM task_tags WHERE task_id = ?", created.ID))
	s.Require().Equal(0, taskCount)
	s.Require().Equal(0, tagCount)
}
