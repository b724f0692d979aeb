package dashboard_fx

import (
	"go.uber.org/fx"

	"upmoney/internal/api/controllers"
	"upmoney/internal/flow"
	"upmoney/internal/repositories"
	"upmoney/internal/services"
)

var Module = fx.Provide(
	provideDashboardService, provideDashboardController,
)

func provideDashboardService(
	repo repositories.OnboardingRepositoryInterface,
	catalog *flow.Catalog,
) services.DashboardServiceInterface {
	return services.NewDashboardService(repo, catalog)
}

func provideDashboardController(dashboardService services.DashboardServiceInterface) *controllers.DashboardController {
	return controllers.NewDashboardController(dashboardService)
}
