package service

import (
	"context"
	"errors"
	"time"

	"taskline/internal/models"
	"taskline/internal/repository"
)

// OwnershipVerifier decides whether an authenticated identity may act on the
// resources of a user id.
type OwnershipVerifier interface {
	VerifyOwnership(ctx context.Context, identity models.UserPublic, expectedUserID int) (bool, error)
}

// PersonalTasks manages tasks owned by a single user. Every operation
// requires the caller to be that user.
type PersonalTasks struct {
	tasks    PersonalTaskRepository
	verifier OwnershipVerifier
	now      func() time.Time
}

func NewPersonalTasks(tasks PersonalTaskRepository, verifier OwnershipVerifier) *PersonalTasks {
	return &PersonalTasks{tasks: tasks, verifier: verifier, now: time.Now}
}

func (s *PersonalTasks) authorize(ctx context.Context, caller models.UserPublic, userID int) error {
	ok, err := s.verifier.VerifyOwnership(ctx, caller, userID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrForbidden
	}
	return nil
}

func (s *PersonalTasks) Create(ctx context.Context, caller models.UserPublic, userID int, in NewTask) (models.PersonalTask, error) {
	if err := s.authorize(ctx, caller, userID); err != nil {
		return models.PersonalTask{}, err
	}
	in, err := in.normalize()
	if err != nil {
		return models.PersonalTask{}, err
	}

	task := models.PersonalTask{
		Name:     in.Name,
		Priority: in.Priority,
		Date:     today(s.now),
		Status:   in.Status,
		UserID:   userID,
	}
	if err := s.tasks.CreatePersonalTask(ctx, &task); err != nil {
		return models.PersonalTask{}, err
	}
	return task, nil
}

func (s *PersonalTasks) List(ctx context.Context, caller models.UserPublic, userID, offset, limit int) ([]models.PersonalTask, error) {
	if err := s.authorize(ctx, caller, userID); err != nil {
		return nil, err
	}
	if err := checkPage(offset, limit); err != nil {
		return nil, err
	}
	return s.tasks.ListPersonalTasks(ctx, userID, offset, limit)
}

// Update changes only the fields present in patch and re-stamps the date to
// today whatever changed. A date in the patch is ignored.
func (s *PersonalTasks) Update(ctx context.Context, caller models.UserPublic, userID, taskID int, patch models.TaskPatch) (models.PersonalTask, error) {
	if err := s.authorize(ctx, caller, userID); err != nil {
		return models.PersonalTask{}, err
	}

	task, err := s.tasks.GetPersonalTask(ctx, taskID, userID)
	if err != nil {
		return models.PersonalTask{}, notFound(err)
	}
	if err := applyPatch(patch, &task.Name, &task.Priority, &task.Status); err != nil {
		return models.PersonalTask{}, err
	}
	task.Date = today(s.now)

	if err := s.tasks.UpdatePersonalTask(ctx, &task); err != nil {
		return models.PersonalTask{}, notFound(err)
	}
	return task, nil
}

func (s *PersonalTasks) Delete(ctx context.Context, caller models.UserPublic, userID, taskID int) error {
	if err := s.authorize(ctx, caller, userID); err != nil {
		return err
	}
	return notFound(s.tasks.DeletePersonalTask(ctx, taskID, userID))
}

// ToggleStatus flips new and completed through Update.
func (s *PersonalTasks) ToggleStatus(ctx context.Context, caller models.UserPublic, userID, taskID int) (models.PersonalTask, error) {
	if err := s.authorize(ctx, caller, userID); err != nil {
		return models.PersonalTask{}, err
	}
	task, err := s.tasks.GetPersonalTask(ctx, taskID, userID)
	if err != nil {
		return models.PersonalTask{}, notFound(err)
	}
	next := models.ToggledStatus(task.Status)
	return s.Update(ctx, caller, userID, taskID, models.TaskPatch{Status: &next})
}

// notFound translates a repository miss into ErrNotFound.
func notFound(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return ErrNotFound
	}
	return err
}
