package pagination

import (
	"strconv"
)

// DefaultLimit 默认每页数量
const DefaultLimit = 10

// MaxLimit 每页最大数量
const MaxLimit = 100

// Params 分页参数
type Params struct {
	Page   int `json:"page"`
	Limit  int `json:"limit"`
	Offset int `json:"-"`
}

// Meta 分页元数据
type Meta struct {
	TotalItems  int64 `json:"totalItems"`
	TotalPages  int   `json:"totalPages"`
	CurrentPage int   `json:"currentPage"`
	PageSize    int   `json:"pageSize"`
}

// New 规范化页码与每页数量并计算offset
// 非法值回落到默认值（page=1, limit=10）
func New(page, limit int) Params {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	return Params{
		Page:   page,
		Limit:  limit,
		Offset: (page - 1) * limit,
	}
}

// Parse 从查询字符串解析分页参数
func Parse(page, limit string) Params {
	p, _ := strconv.Atoi(page)
	l, _ := strconv.Atoi(limit)
	return New(p, l)
}

// GetMeta 计算分页元数据
func GetMeta(params Params, total int64) *Meta {
	totalPages := int(total) / params.Limit
	if int(total)%params.Limit > 0 {
		totalPages++
	}

	return &Meta{
		TotalItems:  total,
		TotalPages:  totalPages,
		CurrentPage: params.Page,
		PageSize:    params.Limit,
	}
}
