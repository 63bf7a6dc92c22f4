package gateway

import (
	"github.com/Carbonhell/SmartDisplay/internal/config"
	"github.com/Carbonhell/SmartDisplay/internal/interaction"
	"github.com/samber/do/v2"
)

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (*Server, error) {
		cfg := do.MustInvoke[*config.Config](i)
		handler := do.MustInvoke[*interaction.Handler](i)
		verifier, err := NewVerifier(cfg.DiscordPublicKey)
		if err != nil {
			return nil, err
		}
		return NewServer(verifier, handler), nil
	})
}
