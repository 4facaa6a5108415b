package cli

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/dmitrijs2005/taskkeeper/internal/client/client"
	"github.com/dmitrijs2005/taskkeeper/internal/client/services"
)

// describeError turns a service error into a line for the user.
func describeError(err error) string {
	var apiErr *client.APIError
	switch {
	case errors.Is(err, services.ErrSessionExpired):
		return "your session has expired, please log in again"
	case errors.Is(err, services.ErrNotLoggedIn):
		return "you are not logged in (use 'login')"
	case errors.Is(err, client.ErrNotFound):
		return "task not found"
	case errors.Is(err, client.ErrUnavailable):
		return "server is unavailable, try again later"
	case errors.Is(err, client.ErrAlreadyExists):
		return "an account with this email already exists"
	case errors.Is(err, client.ErrValidation) && errors.As(err, &apiErr):
		return validationMessage(apiErr)
	case errors.Is(err, client.ErrUnauthorized) && errors.As(err, &apiErr) && apiErr.Message != "":
		return apiErr.Message
	default:
		return err.Error()
	}
}

func validationMessage(e *client.APIError) string {
	if len(e.Fields) == 0 {
		if e.Message != "" {
			return e.Message
		}
		return "invalid input"
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s %s", k, e.Fields[k]))
	}
	return "invalid input: " + strings.Join(parts, "; ")
}
