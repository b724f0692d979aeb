package chat_fx

import (
	"os"

	"github.com/rs/zerolog/log"
	"go.uber.org/fx"

	"upmoney/internal/api/controllers"
	"upmoney/internal/flow"
	"upmoney/internal/services"
	"upmoney/pkg/memcache"
)

var Module = fx.Provide(
	provideCatalog, provideEngine, provideSessionStore, provideChatService, provideChatController,
)

func provideCatalog() *flow.Catalog {
	if path := os.Getenv("ONBOARDING_CATALOG"); path != "" {
		catalog, err := flow.LoadCatalogFile(path)
		if err != nil {
			log.Fatal().Err(err).Str("path", path).Msg("Failed to load catalog override")
		}
		return catalog
	}
	return flow.DefaultCatalog()
}

func provideEngine(catalog *flow.Catalog) *flow.Engine {
	return flow.NewEngine(catalog)
}

func provideSessionStore() *memcache.SessionStore {
	return memcache.NewSessionStore(memcache.DefaultSessionTTL)
}

func provideChatService(
	engine *flow.Engine,
	sessions *memcache.SessionStore,
	gateway services.OnboardingServiceInterface,
) services.ChatServiceInterface {
	return services.NewChatService(engine, sessions, gateway, os.Getenv("SCHEDULING_URL"))
}

func provideChatController(chatService services.ChatServiceInterface) *controllers.ChatController {
	return controllers.NewChatController(chatService)
}
