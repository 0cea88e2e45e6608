package services

import (
	"log/slog"

	portsrepo "github.com/purposelog/purposelog_backend/internal/core/ports/repositories"
	portssvc "github.com/purposelog/purposelog_backend/internal/core/ports/services"
	"github.com/purposelog/purposelog_backend/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, storage portssvc.AvatarStorageSvc, logger *slog.Logger) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.User = NewUserService(cfg, repos.UserRepo, repos.TaskRepo, storage, logger)
	container.Token = NewTokenService(cfg, container.User)
	container.Task = NewTaskService(repos.TaskRepo)

	return container
}

// Compile-time interface checks.
var (
	_ portssvc.UserSvcFacade  = (*userService)(nil)
	_ portssvc.TokenSvcFacade = (*tokenService)(nil)
	_ portssvc.TaskSvcFacade  = (*taskService)(nil)
)
