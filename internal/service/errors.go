package service

import (
	"errors"

	"github.com/OutOfContext/MyTicketSystem/internal/domain"
	"github.com/OutOfContext/MyTicketSystem/internal/repository"
	apperrors "github.com/OutOfContext/MyTicketSystem/pkg/util"
)

// notFound turns a repository miss into a NotFound for resource/id and passes
// every other error through.
func notFound(err error, resource string, id int64) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperrors.NewNotFound(resource, id)
	}
	return err
}

// actorID is the id recorded on events; zero when no user is known.
func actorID(user *domain.User) int64 {
	if user == nil {
		return 0
	}
	return user.ID
}
