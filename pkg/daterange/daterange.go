// Package daterange 解析查询参数中的日期边界
//
// 支持两种格式:
//   - 日期 2006-01-02(按UTC零点)
//   - RFC3339时间戳 2006-01-02T15:04:05Z07:00
//
// 区间统一为左闭右开[from, until)。
// 结束边界只给日期时包含当天,即until为次日零点。
package daterange

import (
	"fmt"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// ParseFrom 解析开始边界,空字符串返回nil
func ParseFrom(s string) (*time.Time, error) {
	t, _, err := parse(s)
	if err != nil || t == nil {
		return nil, err
	}
	return t, nil
}

// ParseUntil 解析结束边界,空字符串返回nil
func ParseUntil(s string) (*time.Time, error) {
	t, dateOnly, err := parse(s)
	if err != nil || t == nil {
		return nil, err
	}
	if dateOnly {
		next := t.AddDate(0, 0, 1)
		return &next, nil
	}
	return t, nil
}

func parse(s string) (*time.Time, bool, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, false, nil
	}
	if t, err := time.ParseInLocation(dateLayout, s, time.UTC); err == nil {
		return &t, true, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil, false, fmt.Errorf("invalid date %q", s)
	}
	t = t.UTC()
	return &t, false, nil
}
