package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"taskline/internal/models"
	"taskline/internal/repository"
)

// Storage is an in-process implementation of every repository of the service
// layer. It enforces the same unique constraints and ordering as Postgres.
type Storage struct {
	mtx sync.RWMutex

	nextID int

	users         map[int]models.User
	personalTasks map[int]models.PersonalTask
	workspaces    map[int]models.Workspace
	memberships   map[int]models.Membership
	sharedTasks   map[int]models.SharedTask
	revoked       map[string]time.Time
}

func New() *Storage {
	return &Storage{
		nextID:        1,
		users:         make(map[int]models.User),
		personalTasks: make(map[int]models.PersonalTask),
		workspaces:    make(map[int]models.Workspace),
		memberships:   make(map[int]models.Membership),
		sharedTasks:   make(map[int]models.SharedTask),
		revoked:       make(map[string]time.Time),
	}
}

func (s *Storage) Ping(context.Context) error {
	return nil
}

// id hands out ids from one sequence; callers hold the write lock.
func (s *Storage) id() int {
	id := s.nextID
	s.nextID++
	return id
}

// Users

func (s *Storage) CreateUser(_ context.Context, name, passwordHash string) (models.User, error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	for _, u := range s.users {
		if u.Name == name {
			return models.User{}, repository.ErrConflict
		}
	}
	u := models.User{ID: s.id(), Name: name, PasswordHash: passwordHash, CreatedAt: time.Now()}
	s.users[u.ID] = u
	return u, nil
}

func (s *Storage) GetUserByName(_ context.Context, name string) (models.User, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	for _, u := range s.users {
		if u.Name == name {
			return u, nil
		}
	}
	return models.User{}, repository.ErrNotFound
}

func (s *Storage) GetUserByID(_ context.Context, id int) (models.User, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return models.User{}, repository.ErrNotFound
	}
	return u, nil
}

// Personal tasks

func (s *Storage) CreatePersonalTask(_ context.Context, task *models.PersonalTask) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	task.ID = s.id()
	s.personalTasks[task.ID] = *task
	return nil
}

func (s *Storage) ListPersonalTasks(_ context.Context, userID, offset, limit int) ([]models.PersonalTask, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	tasks := []models.PersonalTask{}
	for _, t := range s.personalTasks {
		if t.UserID == userID {
			tasks = append(tasks, t)
		}
	}
	models.SortCompletedLast(tasks,
		func(t models.PersonalTask) string { return t.Status },
		func(t models.PersonalTask) int { return t.ID })
	return page(tasks, offset, limit), nil
}

func (s *Storage) GetPersonalTask(_ context.Context, taskID, userID int) (models.PersonalTask, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	t, ok := s.personalTasks[taskID]
	if !ok || t.UserID != userID {
		return models.PersonalTask{}, repository.ErrNotFound
	}
	return t, nil
}

func (s *Storage) UpdatePersonalTask(_ context.Context, task *models.PersonalTask) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	t, ok := s.personalTasks[task.ID]
	if !ok || t.UserID != task.UserID {
		return repository.ErrNotFound
	}
	s.personalTasks[task.ID] = *task
	return nil
}

func (s *Storage) DeletePersonalTask(_ context.Context, taskID, userID int) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	t, ok := s.personalTasks[taskID]
	if !ok || t.UserID != userID {
		return repository.ErrNotFound
	}
	delete(s.personalTasks, taskID)
	return nil
}

// Workspaces

func (s *Storage) CreateWorkspace(_ context.Context, name string, ownerID int) (int, error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	owner, ok := s.users[ownerID]
	if !ok {
		return 0, repository.ErrNotFound
	}
	for _, w := range s.workspaces {
		if w.Name == name && w.OwnerID == ownerID {
			return 0, repository.ErrConflict
		}
	}
	w := models.Workspace{ID: s.id(), Name: name, OwnerID: ownerID, OwnerName: owner.Name}
	s.workspaces[w.ID] = w
	return w.ID, nil
}

func (s *Storage) GetWorkspace(_ context.Context, id int) (models.Workspace, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	w, ok := s.workspaces[id]
	if !ok {
		return models.Workspace{}, repository.ErrNotFound
	}
	return w, nil
}

func (s *Storage) ListAccessibleWorkspaces(_ context.Context, userID int) ([]models.WorkspaceView, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	members := s.sortedMemberships()
	views := []models.WorkspaceView{}
	for _, w := range s.workspaces {
		v := models.WorkspaceView{
			WorkspaceID: w.ID,
			Name:        w.Name,
			Owner:       w.OwnerName,
			Members:     []string{},
		}
		accessible := w.OwnerID == userID
		for _, m := range members {
			if m.WorkspaceID != w.ID {
				continue
			}
			v.Members = append(v.Members, m.Member)
			if m.UserID == userID {
				accessible = true
			}
		}
		if !accessible {
			continue
		}
		v.Role = models.RoleMember
		if w.OwnerID == userID {
			v.Role = models.RoleOwner
		}
		views = append(views, v)
	}
	sort.Slice(views, func(i, j int) bool { return views[i].WorkspaceID < views[j].WorkspaceID })
	return views, nil
}

func (s *Storage) sortedMemberships() []models.Membership {
	out := make([]models.Membership, 0, len(s.memberships))
	for _, m := range s.memberships {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *Storage) AddMember(_ context.Context, workspaceID, userID int) (models.Membership, error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if _, ok := s.workspaces[workspaceID]; !ok {
		return models.Membership{}, repository.ErrNotFound
	}
	u, ok := s.users[userID]
	if !ok {
		return models.Membership{}, repository.ErrNotFound
	}
	for _, m := range s.memberships {
		if m.WorkspaceID == workspaceID && m.UserID == userID {
			return models.Membership{}, repository.ErrConflict
		}
	}
	m := models.Membership{ID: s.id(), WorkspaceID: workspaceID, UserID: userID, Member: u.Name}
	s.memberships[m.ID] = m
	return m, nil
}

func (s *Storage) RemoveMember(_ context.Context, workspaceID, userID int) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	for id, m := range s.memberships {
		if m.WorkspaceID == workspaceID && m.UserID == userID {
			delete(s.memberships, id)
			return nil
		}
	}
	return repository.ErrNotFound
}

func (s *Storage) IsMember(_ context.Context, workspaceID, userID int) (bool, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	for _, m := range s.memberships {
		if m.WorkspaceID == workspaceID && m.UserID == userID {
			return true, nil
		}
	}
	return false, nil
}

func (s *Storage) DeleteWorkspace(_ context.Context, id int) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if _, ok := s.workspaces[id]; !ok {
		return repository.ErrNotFound
	}
	for mid, m := range s.memberships {
		if m.WorkspaceID == id {
			delete(s.memberships, mid)
		}
	}
	for tid, t := range s.sharedTasks {
		if t.WorkspaceID == id {
			delete(s.sharedTasks, tid)
		}
	}
	delete(s.workspaces, id)
	return nil
}

// Shared tasks

func (s *Storage) CreateSharedTask(_ context.Context, task *models.SharedTask) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if _, ok := s.workspaces[task.WorkspaceID]; !ok {
		return repository.ErrNotFound
	}
	task.ID = s.id()
	s.sharedTasks[task.ID] = *task
	return nil
}

func (s *Storage) ListSharedTasks(_ context.Context, workspaceID, offset, limit int) ([]models.SharedTask, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	tasks := []models.SharedTask{}
	for _, t := range s.sharedTasks {
		if t.WorkspaceID == workspaceID {
			tasks = append(tasks, t)
		}
	}
	models.SortCompletedLast(tasks,
		func(t models.SharedTask) string { return t.Status },
		func(t models.SharedTask) int { return t.ID })
	return page(tasks, offset, limit), nil
}

func (s *Storage) GetSharedTask(_ context.Context, taskID, workspaceID int) (models.SharedTask, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	t, ok := s.sharedTasks[taskID]
	if !ok || t.WorkspaceID != workspaceID {
		return models.SharedTask{}, repository.ErrNotFound
	}
	return t, nil
}

func (s *Storage) UpdateSharedTask(_ context.Context, task *models.SharedTask) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	t, ok := s.sharedTasks[task.ID]
	if !ok || t.WorkspaceID != task.WorkspaceID {
		return repository.ErrNotFound
	}
	s.sharedTasks[task.ID] = *task
	return nil
}

func (s *Storage) DeleteSharedTask(_ context.Context, taskID, workspaceID int) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	t, ok := s.sharedTasks[taskID]
	if !ok || t.WorkspaceID != workspaceID {
		return repository.ErrNotFound
	}
	delete(s.sharedTasks, taskID)
	return nil
}

// Token revocation

func (s *Storage) Revoke(_ context.Context, tokenID string, ttl time.Duration) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	s.revoked[tokenID] = time.Now().Add(ttl)
	return nil
}

func (s *Storage) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	until, ok := s.revoked[tokenID]
	if !ok {
		return false, nil
	}
	if time.Now().After(until) {
		delete(s.revoked, tokenID)
		return false, nil
	}
	return true, nil
}

func page[T any](items []T, offset, limit int) []T {
	if offset >= len(items) {
		return []T{}
	}
	end := offset + limit
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}
