package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSortCompletedLast(t *testing.T) {
	tasks := []PersonalTask{
		{ID: 4, Status: StatusCompleted},
		{ID: 1, Status: StatusNew},
		{ID: 3, Status: StatusCompleted},
		{ID: 2, Status: StatusNew},
	}

	SortCompletedLast(tasks,
		func(t PersonalTask) string { return t.Status },
		func(t PersonalTask) int { return t.ID })

	var ids []int
	for _, task := range tasks {
		ids = append(ids, task.ID)
	}
	assert.Equal(t, []int{1, 2, 3, 4}, ids)
}

func TestToggledStatus(t *testing.T) {
	assert.Equal(t, StatusCompleted, ToggledStatus(StatusNew))
	assert.Equal(t, StatusNew, ToggledStatus(StatusCompleted))
	assert.Equal(t, StatusNew, ToggledStatus(ToggledStatus(StatusNew)))
}

func TestValidators(t *testing.T) {
	assert.True(t, ValidPriority("High"))
	assert.False(t, ValidPriority("high"))
	assert.True(t, ValidStatus("completed"))
	assert.False(t, ValidStatus("done"))
}
