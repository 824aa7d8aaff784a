package cassandra

import "github.com/gocql/gocql"

// 以下函数从 SliceMap 结果中按列取值，列缺失或为空时返回零值

func UUID(row map[string]interface{}, col string) gocql.UUID {
	if v, ok := row[col].(gocql.UUID); ok {
		return v
	}
	return gocql.UUID{}
}

// NullableUUID 零值 UUID 视为 NULL
func NullableUUID(row map[string]interface{}, col string) *gocql.UUID {
	v := UUID(row, col)
	if v == (gocql.UUID{}) {
		return nil
	}
	return &v
}

func String(row map[string]interface{}, col string) string {
	if v, ok := row[col].(string); ok {
		return v
	}
	return ""
}

// NullableString 空字符串视为 NULL
func NullableString(row map[string]interface{}, col string) *string {
	v := String(row, col)
	if v == "" {
		return nil
	}
	return &v
}

func Bool(row map[string]interface{}, col string) bool {
	if v, ok := row[col].(bool); ok {
		return v
	}
	return false
}

// Int64 兼容 counter/bigint/int 列
func Int64(row map[string]interface{}, col string) int64 {
	switch v := row[col].(type) {
	case int64:
		return v
	case int:
		return int64(v)
	case int32:
		return int64(v)
	}
	return 0
}
