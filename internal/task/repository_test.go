package task

import (
	"context"
	"testing"
	"time"

	"github.com/kpata360-rgb/workisready-backend1/internal/common"
	"github.com/kpata360-rgb/workisready-backend1/internal/platform/database/dbtest"
	"github.com/kpata360-rgb/workisready-backend1/internal/user"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func openDB(t *testing.T) *gorm.DB {
	return dbtest.Open(t, &user.User{}, &Task{}, &Category{})
}

func seedTask(t *testing.T, repo Repository, clientID uuid.UUID, region, city string, labels ...string) *Task {
	t.Helper()
	req := validRequest()
	req.Region, req.City, req.Categories = region, city, labels
	task, err := req.ToTask()
	require.NoError(t, err)
	task.ClientID = clientID
	require.NoError(t, repo.Create(context.Background(), task))
	return task
}

func ids(tasks []Task) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, t.ID)
	}
	return out
}

func TestSearch_RegionIsCaseAndSuffixInsensitive(t *testing.T) {
	repo := NewGORMRepository(openDB(t))
	ctx := context.Background()
	client := uuid.New()
	a := seedTask(t, repo, client, "Ashanti", "Kumasi", "Plumbing")
	b := seedTask(t, repo, client, "ASHANTI REGION", "Obuasi", "Cleaning")
	seedTask(t, repo, client, "Greater Accra", "Accra", "Plumbing")

	for _, region := range []string{"Ashanti", "ashanti", "Ashanti Region", "  ashanti   region "} {
		f, err := BuildFilter(ListQuery{Region: region})
		require.NoError(t, err)
		tasks, total, err := repo.Search(ctx, f)
		require.NoError(t, err)
		assert.Equal(t, int64(2), total, region)
		assert.ElementsMatch(t, []uuid.UUID{a.ID, b.ID}, ids(tasks), region)
	}
}

func TestSearch_CategoryCityAndStatus(t *testing.T) {
	repo := NewGORMRepository(openDB(t))
	ctx := context.Background()
	client := uuid.New()
	plumbing := seedTask(t, repo, client, "Ashanti", "Kumasi", "Cleaning", "Plumbing")
	seedTask(t, repo, client, "Ashanti", "Obuasi", "Cleaning")
	done := seedTask(t, repo, client, "Ashanti", "Kumasi", "Plumbing")
	now := time.Now()
	require.NoError(t, repo.UpdateStatus(ctx, done.ID, StatusCompleted, &now))

	f, _ := BuildFilter(ListQuery{Category: "PLUMBING"})
	tasks, total, err := repo.Search(ctx, f)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, []uuid.UUID{plumbing.ID}, ids(tasks))
	assert.Equal(t, []string{"Cleaning", "Plumbing"}, tasks[0].Labels())

	f, _ = BuildFilter(ListQuery{City: "kumasi", Status: "completed"})
	tasks, _, err = repo.Search(ctx, f)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{done.ID}, ids(tasks))
	require.NotNil(t, tasks[0].CompletedAt)

	f, _ = BuildFilter(ListQuery{MainCategory: "Cleaning"})
	_, total, err = repo.Search(ctx, f)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
}

func TestSearch_Pagination(t *testing.T) {
	repo := NewGORMRepository(openDB(t))
	ctx := context.Background()
	client := uuid.New()
	for i := 0; i < 5; i++ {
		seedTask(t, repo, client, "Volta", "Ho", "Tailoring")
	}

	f, _ := BuildFilter(ListQuery{Page: 2, Limit: 2})
	tasks, total, err := repo.Search(ctx, f)
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
	assert.Len(t, tasks, 2)

	f, _ = BuildFilter(ListQuery{Page: 3, Limit: 2})
	tasks, _, err = repo.Search(ctx, f)
	require.NoError(t, err)
	assert.Len(t, tasks, 1)
}

func TestDeleteRemovesCategories(t *testing.T) {
	db := openDB(t)
	repo := NewGORMRepository(db)
	ctx := context.Background()
	task := seedTask(t, repo, uuid.New(), "Volta", "Ho", "Tailoring", "Sewing")

	require.NoError(t, repo.Delete(ctx, task.ID))
	_, err := repo.FindByID(ctx, task.ID)
	assert.ErrorIs(t, err, common.ErrNotFound)

	var count int64
	require.NoError(t, db.Model(&Category{}).Where("task_id = ?", task.ID).Count(&count).Error)
	assert.Zero(t, count)

	assert.ErrorIs(t, repo.Delete(ctx, task.ID), common.ErrNotFound)
}
