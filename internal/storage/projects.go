package storage

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"worktimer/internal/core/model"
)

// Projects returns all projects in creation order.
func (store *Store) Projects() []model.Project {
	store.mu.Lock()
	defer store.mu.Unlock()
	return append([]model.Project(nil), store.doc.Projects...)
}

// Project looks up a project by id.
func (store *Store) Project(id string) (model.Project, bool) {
	store.mu.Lock()
	defer store.mu.Unlock()
	for _, project := range store.doc.Projects {
		if project.ID == id {
			return project, true
		}
	}
	return model.Project{}, false
}

// AddProject stores a new project, assigning its id and creation time.
func (store *Store) AddProject(project model.Project) (model.Project, error) {
	if project.Name == "" {
		return model.Project{}, fmt.Errorf("add project: name is empty")
	}

	store.mu.Lock()
	defer store.mu.Unlock()

	project.ID = uuid.New().String()
	project.CreatedAt = time.Now()
	store.doc.Projects = append(store.doc.Projects, project)
	if err := store.save(); err != nil {
		store.doc.Projects = store.doc.Projects[:len(store.doc.Projects)-1]
		return model.Project{}, err
	}
	return project, nil
}

// UpdateProject replaces the stored project with the same id. The id and
// creation time are preserved.
func (store *Store) UpdateProject(project model.Project) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	for i := range store.doc.Projects {
		if store.doc.Projects[i].ID != project.ID {
			continue
		}
		project.CreatedAt = store.doc.Projects[i].CreatedAt
		store.doc.Projects[i] = project
		return store.save()
	}
	return fmt.Errorf("update project: not found: %s", project.ID)
}

// DeleteProject removes a project and cascades to all of its work logs.
// The current selection is cleared if it pointed at the deleted project.
func (store *Store) DeleteProject(id string) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	projects := store.doc.Projects[:0]
	found := false
	for _, project := range store.doc.Projects {
		if project.ID == id {
			found = true
			continue
		}
		projects = append(projects, project)
	}
	if !found {
		return fmt.Errorf("delete project: not found: %s", id)
	}
	store.doc.Projects = projects

	logs := store.doc.WorkLogs[:0]
	for _, entry := range store.doc.WorkLogs {
		if entry.ProjectID != id {
			logs = append(logs, entry)
		}
	}
	store.doc.WorkLogs = logs

	if store.doc.CurrentProject == id {
		store.doc.CurrentProject = ""
	}
	return store.save()
}

// CurrentProject returns the id of the currently selected project, or
// empty when none is selected.
func (store *Store) CurrentProject() string {
	store.mu.Lock()
	defer store.mu.Unlock()
	return store.doc.CurrentProject
}

// SetCurrentProject changes the selection. Empty clears it; a non-empty
// id must reference an existing project.
func (store *Store) SetCurrentProject(id string) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	if id != "" {
		found := false
		for _, project := range store.doc.Projects {
			if project.ID == id {
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("set current project: not found: %s", id)
		}
	}
	store.doc.CurrentProject = id
	return store.save()
}
