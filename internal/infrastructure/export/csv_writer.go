// Package export 把报表写成CSV文件
package export

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	apperrors "github.com/xiebiao/library/pkg/errors"
)

// CSVWriter 写入<dir>/<kind>/<prefix>_<timestamp>.csv
type CSVWriter struct {
	dir string
	now func() time.Time
}

// NewCSVWriter 创建CSV写入器
func NewCSVWriter(dir string) *CSVWriter {
	return &CSVWriter{dir: dir, now: time.Now}
}

// Write 写入表头和数据行,返回文件路径
func (w *CSVWriter) Write(ctx context.Context, kind, prefix string, header []string, rows [][]string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	dir := filepath.Join(w.dir, kind)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", apperrors.Wrap(err, "创建导出目录失败")
	}

	path := filepath.Join(dir, fmt.Sprintf("%s_%s.csv", prefix, timestamp(w.now())))
	f, err := os.Create(path)
	if err != nil {
		return "", apperrors.Wrap(err, "创建导出文件失败")
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if err := cw.Write(header); err != nil {
		return "", apperrors.Wrap(err, "写入表头失败")
	}
	if err := cw.WriteAll(rows); err != nil {
		return "", apperrors.Wrap(err, "写入报表失败")
	}

	return path, nil
}

// timestamp ISO-8601毫秒精度,':'和'.'替换为'-'以便作为文件名
func timestamp(t time.Time) string {
	s := t.UTC().Format("2006-01-02T15:04:05.000Z")
	return strings.NewReplacer(":", "-", ".", "-").Replace(s)
}
