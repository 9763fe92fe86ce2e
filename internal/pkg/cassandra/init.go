package cassandra

import (
	"fmt"
	log "log/slog"
	"time"

	"notehub/internal/api/config"

	"github.com/gocql/gocql"
)

// NewSession 建立 Cassandra 会话
func NewSession(cfg config.CassandraConfig) (*gocql.Session, error) {
	cluster := gocql.NewCluster(cfg.Hosts...)
	cluster.Keyspace = cfg.Keyspace
	cluster.Consistency = parseConsistency(cfg.Consistency)

	if cfg.Timeout > 0 {
		cluster.Timeout = time.Duration(cfg.Timeout) * time.Millisecond
	}
	if cfg.NumConns > 0 {
		cluster.NumConns = cfg.NumConns
	}
	if cfg.Username != "" {
		cluster.Authenticator = gocql.PasswordAuthenticator{
			Username: cfg.Username,
			Password: cfg.Password,
		}
	}

	session, err := cluster.CreateSession()
	if err != nil {
		return nil, fmt.Errorf("failed to create cassandra session: %w", err)
	}

	log.Info("Cassandra connection established successfully.", "keyspace", cfg.Keyspace)
	return session, nil
}

// parseConsistency 解析一致性级别, 缺省 QUORUM
func parseConsistency(name string) gocql.Consistency {
	switch name {
	case "any":
		return gocql.Any
	case "one":
		return gocql.One
	case "two":
		return gocql.Two
	case "three":
		return gocql.Three
	case "all":
		return gocql.All
	case "local_quorum":
		return gocql.LocalQuorum
	case "local_one":
		return gocql.LocalOne
	default:
		return gocql.Quorum
	}
}
