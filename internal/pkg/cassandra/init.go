package cassandra

import (
	"Courier/internal/api/config"
	"Courier/internal/pkg/logger"
	log "log/slog"
	"time"

	"github.com/gocql/gocql"
)

// InitCassandra 建立 Cassandra 会话
func InitCassandra(cfg config.CassandraConfig) (*gocql.Session, error) {
	cluster := gocql.NewCluster(cfg.Hosts...)
	cluster.Keyspace = cfg.Keyspace
	cluster.Timeout = time.Duration(cfg.Timeout) * time.Millisecond
	cluster.ConnectTimeout = time.Duration(cfg.ConnectTimeout) * time.Millisecond
	if cfg.NumConns > 0 {
		cluster.NumConns = cfg.NumConns
	}

	consistency, err := gocql.ParseConsistencyWrapper(cfg.Consistency)
	if err != nil {
		return nil, err
	}
	cluster.Consistency = consistency

	if cfg.Username != "" {
		cluster.Authenticator = gocql.PasswordAuthenticator{
			Username: cfg.Username,
			Password: cfg.Password,
		}
	}

	observer := logger.NewCassandraObserver()
	cluster.QueryObserver = observer
	cluster.BatchObserver = observer

	session, err := cluster.CreateSession()
	if err != nil {
		return nil, err
	}

	log.Info("Cassandra initialized successfully", "keyspace", cfg.Keyspace, "hosts", cfg.Hosts)
	return session, nil
}
