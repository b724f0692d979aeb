package onboarding_fx

import (
	"os"

	"go.uber.org/fx"
	"gorm.io/gorm"

	"upmoney/internal/api/controllers"
	"upmoney/internal/repositories"
	"upmoney/internal/services"
	"upmoney/pkg/backup"
)

var Module = fx.Provide(
	provideBackupStore, provideOnboardingRepo, provideOnboardingService, provideOnboardingController,
)

func provideBackupStore() *backup.Store {
	return backup.NewStore(os.Getenv("ONBOARDING_BACKUP_FILE"))
}

func provideOnboardingRepo(db *gorm.DB) repositories.OnboardingRepositoryInterface {
	return repositories.NewOnboardingRepository(db)
}

func provideOnboardingService(
	repo repositories.OnboardingRepositoryInterface,
	backups *backup.Store,
) services.OnboardingServiceInterface {
	mode := services.ParseIdentityMode(os.Getenv("ONBOARDING_IDENTITY_MODE"))
	return services.NewOnboardingService(repo, backups, mode)
}

func provideOnboardingController(onboardingService services.OnboardingServiceInterface) *controllers.OnboardingController {
	return controllers.NewOnboardingController(onboardingService)
}
