// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"

	"github.com/docbaselabs/docbase/internal/app/system/credentials"
)

// Startup runs one-time application initialization after DB connections
// and schema setup are complete, but before the HTTP handler is built.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if appCfg.BcryptCost > 0 {
		credentials.Configure(appCfg.BcryptCost)
		logger.Info("configured credential work factor", zap.Int("cost", appCfg.BcryptCost))
	}
	return nil
}
