package logger

import (
	"context"
	log "log/slog"
	"time"
	"unicode/utf8"

	"github.com/gocql/gocql"
)

const cassandraSlowThreshold = 100 * time.Millisecond

// CassandraObserver 记录 CQL 语句与批量写入的执行情况
type CassandraObserver struct{}

func NewCassandraObserver() *CassandraObserver {
	return &CassandraObserver{}
}

// ObserveQuery 单条语句
func (s *CassandraObserver) ObserveQuery(ctx context.Context, q gocql.ObservedQuery) {
	elapsed := q.End.Sub(q.Start)
	fields := []any{
		log.String("keyspace", q.Keyspace),
		log.String("statement", truncate(q.Statement)),
		log.Int("rows", q.Rows),
		log.Int("attempt", q.Attempt),
		log.Duration("latency", elapsed),
	}

	if q.Err != nil {
		log.ErrorContext(ctx, "Cassandra Error", append(fields, log.Any("err", q.Err))...)
		return
	}
	if elapsed > cassandraSlowThreshold {
		log.WarnContext(ctx, "Cassandra Slow", fields...)
	}
}

// ObserveBatch 批量写入
func (s *CassandraObserver) ObserveBatch(ctx context.Context, b gocql.ObservedBatch) {
	elapsed := b.End.Sub(b.Start)
	fields := []any{
		log.String("keyspace", b.Keyspace),
		log.Int("stmt_count", len(b.Statements)),
		log.Int("attempt", b.Attempt),
		log.Duration("latency", elapsed),
	}

	if b.Err != nil {
		log.ErrorContext(ctx, "Cassandra Batch Error", append(fields, log.Any("err", b.Err))...)
		return
	}
	if elapsed > cassandraSlowThreshold {
		log.WarnContext(ctx, "Cassandra Batch Slow", fields...)
	}
}

const maxLoggedStatement = 1000

// truncate 截断过长语句，切点回退到 rune 边界
func truncate(s string) string {
	if len(s) <= maxLoggedStatement {
		return s
	}
	n := maxLoggedStatement
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n] + "...[truncated]"
}
