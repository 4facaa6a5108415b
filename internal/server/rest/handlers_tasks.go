package rest

import (
	"net/http"

	"github.com/dmitrijs2005/taskkeeper/internal/common"
	"github.com/dmitrijs2005/taskkeeper/internal/server/auth"
	"github.com/dmitrijs2005/taskkeeper/internal/server/models"
)

// Every task handler reads the identity once and passes it down; the
// authenticate middleware guarantees it is present.

func (s *Server) handleListTasks(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.IdentityFromContext(r.Context())

	list, err := s.tasks.List(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	resp := taskListResponse{Tasks: make([]taskResponse, 0, len(list)), Count: len(list)}
	for i := range list {
		resp.Tasks = append(resp.Tasks, newTaskResponse(&list[i]))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.IdentityFromContext(r.Context())

	var req createTaskRequest
	if err := parseJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	var description string
	if req.Description != nil {
		description = *req.Description
	}

	task, err := s.tasks.Create(r.Context(), id, req.Title, description)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, newTaskResponse(task))
}

func (s *Server) handleGetTask(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.IdentityFromContext(r.Context())

	taskID, ok := parseTaskID(r)
	if !ok {
		s.writeServiceError(w, r, common.ErrorNotFound)
		return
	}

	task, err := s.tasks.Get(r.Context(), id, taskID)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newTaskResponse(task))
}

func (s *Server) handleUpdateTask(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.IdentityFromContext(r.Context())

	taskID, ok := parseTaskID(r)
	if !ok {
		s.writeServiceError(w, r, common.ErrorNotFound)
		return
	}

	var req updateTaskRequest
	if err := parseJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	task, err := s.tasks.Update(r.Context(), id, taskID, models.TaskPatch{Title: req.Title, Description: req.Description})
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newTaskResponse(task))
}

func (s *Server) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.IdentityFromContext(r.Context())

	taskID, ok := parseTaskID(r)
	if !ok {
		s.writeServiceError(w, r, common.ErrorNotFound)
		return
	}

	if err := s.tasks.Delete(r.Context(), id, taskID); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleToggleTask(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.IdentityFromContext(r.Context())

	taskID, ok := parseTaskID(r)
	if !ok {
		s.writeServiceError(w, r, common.ErrorNotFound)
		return
	}

	task, err := s.tasks.ToggleComplete(r.Context(), id, taskID)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newTaskResponse(task))
}
