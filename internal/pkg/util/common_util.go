package util

import (
	"github.com/gocql/gocql"
)

// ParseUUIDs 批量解析 UUID 字符串，任一失败即返回错误
func ParseUUIDs(values []string) ([]gocql.UUID, error) {
	ids := make([]gocql.UUID, 0, len(values))
	for _, v := range values {
		id, err := gocql.ParseUUID(v)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
