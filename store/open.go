package store

import (
	"fmt"

	"go.uber.org/zap"

	"chapterdoc/common"
	"chapterdoc/config"
)

// Open creates record store selected by configuration.
func Open(cfg *config.StoreConfig, log *zap.Logger) (Records, error) {
	switch cfg.Backend {
	case common.StoreBackendMemory:
		return NewMemory(), nil
	case common.StoreBackendSqlite:
		return OpenSQLite(cfg.Path, log.Named("sqlite"))
	default:
		return nil, fmt.Errorf("unsupported store backend: %s", cfg.Backend)
	}
}
