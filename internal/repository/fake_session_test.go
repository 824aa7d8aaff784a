package repository

import (
	"Courier/internal/pkg/cassandra"
	"context"
	"sync"
)

type executedQuery struct {
	Query string
	Args  []interface{}
	Opts  *cassandra.QueryOptions
}

// fakeSession 记录所有语句，按调用顺序返回预置结果
type fakeSession struct {
	mu      sync.Mutex
	queries []executedQuery
	batches [][]cassandra.Statement

	rows       []*cassandra.Rows
	err        error
	casApplied bool
	casRow     map[string]interface{}
}

func (f *fakeSession) Execute(_ context.Context, query string, args []interface{}, opts *cassandra.QueryOptions) (*cassandra.Rows, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, executedQuery{Query: query, Args: args, Opts: opts})
	if f.err != nil {
		return nil, f.err
	}
	if len(f.rows) == 0 {
		return &cassandra.Rows{}, nil
	}
	r := f.rows[0]
	f.rows = f.rows[1:]
	return r, nil
}

func (f *fakeSession) ExecuteCAS(_ context.Context, query string, args []interface{}) (bool, map[string]interface{}, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, executedQuery{Query: query, Args: args})
	if f.err != nil {
		return false, nil, f.err
	}
	return f.casApplied, f.casRow, nil
}

func (f *fakeSession) Batch(_ context.Context, stmts []cassandra.Statement) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.batches = append(f.batches, stmts)
	return f.err
}

func rowsOf(rows ...map[string]interface{}) *cassandra.Rows {
	return &cassandra.Rows{Rows: rows}
}
