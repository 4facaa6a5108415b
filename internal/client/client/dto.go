package client

import (
	"time"

	"github.com/dmitrijs2005/taskkeeper/internal/client/models"
)

type errorBody struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields"`
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name,omitempty"`
}

type identityDTO struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
}

func (d identityDTO) model() models.Identity {
	return models.Identity{UserID: d.UserID, Email: d.Email}
}

type loginResponse struct {
	Token     string      `json:"token"`
	Identity  identityDTO `json:"identity"`
	ExpiresAt time.Time   `json:"expires_at"`
}

type verifyResponse struct {
	Identity  identityDTO `json:"identity"`
	ExpiresAt time.Time   `json:"expires_at"`
}

type signupResponse struct {
	User struct {
		ID        string    `json:"id"`
		Email     string    `json:"email"`
		Name      string    `json:"name"`
		CreatedAt time.Time `json:"created_at"`
	} `json:"user"`
}

type taskRequest struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
}

type taskDTO struct {
	ID          int64     `json:"id"`
	UserID      string    `json:"user_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Completed   bool      `json:"completed"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (d taskDTO) model() *models.Task {
	return &models.Task{
		ID:          d.ID,
		UserID:      d.UserID,
		Title:       d.Title,
		Description: d.Description,
		Completed:   d.Completed,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

type taskListResponse struct {
	Tasks []taskDTO `json:"tasks"`
	Count int       `json:"count"`
}
