// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"

	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// devAuthSecret is accepted only outside production.
const devAuthSecret = "dev-only-change-me-please-0123456789ABCDEF"

// appConfigKeys defines the configuration keys for docbase.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, auth_secret, etc.
//   - Environment variables: DOCBASE_MONGO_URI, DOCBASE_AUTH_SECRET, etc.
//   - Command-line flags: --mongo_uri, --auth_secret, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "docbase", Desc: "Platform database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size (default: 100)"},
	{Name: "mongo_min_pool_size", Default: 10, Desc: "MongoDB min connection pool size (default: 10)"},

	{Name: "auth_secret", Default: devAuthSecret, Desc: "HMAC secret for bearer tokens (must be strong in production)"},
	{Name: "bcrypt_cost", Default: 0, Desc: "bcrypt work factor (0 uses the library default)"},

	{Name: "users_collection", Default: "users", Desc: "Collection holding platform accounts"},
	{Name: "projects_collection", Default: "projects", Desc: "Collection holding project records"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// It is called early in startup so that both WAFFLE and the app have
// access to configuration before any backends or handlers are built.
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "DOCBASE", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),

		AuthSecret: appValues.String("auth_secret"),
		BcryptCost: appValues.Int("bcrypt_cost"),

		UsersCollection:    appValues.String("users_collection"),
		ProjectsCollection: appValues.String("projects_collection"),
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation.
//
// Return nil to accept the loaded config, or an error to abort startup.
// The MongoDB URI is checked here so configuration errors surface before
// any connection attempt, and the dev token secret is rejected in
// production.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}

	if appCfg.AuthSecret == "" {
		return fmt.Errorf("auth_secret must not be empty")
	}
	if coreCfg.Env == "prod" && appCfg.AuthSecret == devAuthSecret {
		return fmt.Errorf("auth_secret must be changed from the dev default in production")
	}

	if appCfg.UsersCollection == "" || appCfg.ProjectsCollection == "" {
		return fmt.Errorf("users_collection and projects_collection must not be empty")
	}

	return nil
}
