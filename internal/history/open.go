package history

import (
	"fmt"
	"strings"

	logx "tickd/pkg/logx"
)

// Open builds a Store from config. An empty or "none" driver yields a
// disabled store whose Append is a cheap no-op.
func Open(cfg Config, log logx.Logger) (Store, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Driver)) {
	case "", "none":
		return nopStore{}, nil
	case "sqlite":
		return openSQLite(cfg, log)
	default:
		return nil, fmt.Errorf("unknown history driver %q", cfg.Driver)
	}
}
