package rdb

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// isDuplicateError 判断是否为唯一索引冲突错误
// - MySQL 1062: Duplicate entry 'xxx' for key 'yyy'
// - PostgreSQL 23505: duplicate key value violates unique constraint
// - SQLite: UNIQUE constraint failed: books.title
func isDuplicateError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "Duplicate entry") ||
		strings.Contains(msg, "duplicate key value") ||
		strings.Contains(msg, "UNIQUE constraint failed")
}

// duplicateField 从错误信息中推断冲突的列(索引名或表.列都包含列名)
// 无法判断时返回空字符串
func duplicateField(err error, columns ...string) string {
	msg := strings.ToLower(err.Error())
	for _, col := range columns {
		if strings.Contains(msg, col) {
			return col
		}
	}
	return ""
}
