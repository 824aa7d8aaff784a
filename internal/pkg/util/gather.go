package util

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Gather 并发地对每个元素执行 fn，结果顺序与输入一致；任一失败则取消其余请求并返回该错误
func Gather[T, R any](ctx context.Context, items []T, fn func(ctx context.Context, item T) (R, error)) ([]R, error) {
	results := make([]R, len(items))
	if len(items) == 0 {
		return results, nil
	}

	g, gCtx := errgroup.WithContext(ctx)
	for i, item := range items {
		i, item := i, item
		g.Go(func() error {
			r, err := fn(gCtx, item)
			if err != nil {
				return err
			}
			results[i] = r
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
