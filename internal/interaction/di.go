package interaction

import (
	"github.com/Carbonhell/SmartDisplay/internal/config"
	"github.com/Carbonhell/SmartDisplay/internal/registry"
	"github.com/Carbonhell/SmartDisplay/internal/repository"
	"github.com/samber/do/v2"
)

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (*Handler, error) {
		cfg := do.MustInvoke[*config.Config](i)
		reg := do.MustInvoke[registry.Registry](i)
		repo := do.MustInvoke[repository.EventRepository](i)
		return NewHandler(reg, repo, cfg.EventLocation()), nil
	})
}
