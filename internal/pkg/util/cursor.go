package util

import (
	"encoding/base64"
)

// EncodeCursor 将驱动返回的分页状态编码为可放入 URL 的字符串
func EncodeCursor(pageState []byte) string {
	if len(pageState) == 0 {
		return ""
	}
	return base64.RawURLEncoding.EncodeToString(pageState)
}

// DecodeCursor 解码前端传来的分页游标，空串表示第一页
func DecodeCursor(cursor string) ([]byte, error) {
	if cursor == "" {
		return nil, nil
	}
	return base64.RawURLEncoding.DecodeString(cursor)
}
