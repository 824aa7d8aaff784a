package cassandra

import (
	"context"

	"github.com/gocql/gocql"
)

// Statement 批量写入中的一条语句
type Statement struct {
	Query string
	Args  []interface{}
}

// QueryOptions 手动分页参数，PageSize 为 0 时一次取回全部结果
type QueryOptions struct {
	PageSize  int
	PageState []byte
}

// Rows 一次查询返回的行与下一页游标
type Rows struct {
	Rows      []map[string]interface{}
	PageState []byte
}

// Len 返回行数
func (r *Rows) Len() int {
	if r == nil {
		return 0
	}
	return len(r.Rows)
}

// First 返回第一行，无结果时返回 nil
func (r *Rows) First() map[string]interface{} {
	if r.Len() == 0 {
		return nil
	}
	return r.Rows[0]
}

// Session 仓储层依赖的最小存储接口，语句均由驱动预编译
type Session interface {
	Execute(ctx context.Context, query string, args []interface{}, opts *QueryOptions) (*Rows, error)
	ExecuteCAS(ctx context.Context, query string, args []interface{}) (bool, map[string]interface{}, error)
	Batch(ctx context.Context, stmts []Statement) error
}

type sessionImpl struct {
	session *gocql.Session
}

func NewSession(session *gocql.Session) Session {
	return &sessionImpl{session: session}
}

// Execute 执行单条语句；设置了分页参数时只取一页，关闭驱动的自动翻页
func (s *sessionImpl) Execute(ctx context.Context, query string, args []interface{}, opts *QueryOptions) (*Rows, error) {
	q := s.session.Query(query, args...).WithContext(ctx)
	if opts != nil && opts.PageSize > 0 {
		q = q.PageSize(opts.PageSize).PageState(opts.PageState)
	}

	iter := q.Iter()
	rows, err := iter.SliceMap()
	if err != nil {
		_ = iter.Close()
		return nil, err
	}
	pageState := iter.PageState()
	if err = iter.Close(); err != nil {
		return nil, err
	}
	return &Rows{Rows: rows, PageState: pageState}, nil
}

// ExecuteCAS 执行轻量级事务 (IF NOT EXISTS / IF ...)，未生效时返回当前已存在的行
func (s *sessionImpl) ExecuteCAS(ctx context.Context, query string, args []interface{}) (bool, map[string]interface{}, error) {
	existing := make(map[string]interface{})
	applied, err := s.session.Query(query, args...).WithContext(ctx).MapScanCAS(existing)
	if err != nil {
		return false, nil, err
	}
	return applied, existing, nil
}

// Batch 以 LOGGED BATCH 原子写入，调用方需保证语句落在同一分区
func (s *sessionImpl) Batch(ctx context.Context, stmts []Statement) error {
	b := s.session.NewBatch(gocql.LoggedBatch).WithContext(ctx)
	for _, st := range stmts {
		b.Query(st.Query, st.Args...)
	}
	return s.session.ExecuteBatch(b)
}
