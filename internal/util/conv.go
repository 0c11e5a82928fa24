package util

import (
	"strconv"
)

// MustParseUint 将字符串转换为无符号整数，解析失败时返回 0
func MustParseUint(s string) uint {
	id, _ := strconv.ParseUint(s, 10, 32)
	return uint(id)
}

// ParseBool treats "1", "true", "yes" (any case accepted by strconv) as true and everything else as false.
func ParseBool(s string) bool {
	if s == "yes" {
		return true
	}
	b, _ := strconv.ParseBool(s)
	return b
}
