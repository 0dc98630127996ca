package main

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/xiebiao/library/internal/application/port"
	"github.com/xiebiao/library/pkg/mq"
)

func TestEventHandler(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	handle := eventHandler(zap.New(core))

	returned := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)
	body, err := mq.Encode(port.BorrowEvent{BorrowID: 7, BookID: 2, BorrowerID: 3, ReturnDate: &returned})
	require.NoError(t, err)

	require.NoError(t, handle(port.RoutingKeyReturned, body))
	entries := logs.FilterMessage("借阅事件").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.EqualValues(t, 7, fields["borrow_id"])
	assert.Contains(t, fields, "return_date")

	// 无法解析的消息被丢弃而不是重新入队
	assert.NoError(t, handle(port.RoutingKeyCheckedOut, []byte("{")))
	assert.Equal(t, 1, logs.FilterMessage("丢弃无法解析的事件").Len())
}

func TestReadLine(t *testing.T) {
	got, err := readLine(strings.NewReader("  s3cret-pass1 \nignored"))
	require.NoError(t, err)
	assert.Equal(t, "s3cret-pass1", got)

	got, err = readLine(strings.NewReader("no-newline"))
	require.NoError(t, err)
	assert.Equal(t, "no-newline", got)
}

func TestRootCommand(t *testing.T) {
	root := newRootCmd()
	names := make([]string, 0, len(root.Commands()))
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	assert.ElementsMatch(t, []string{"seed-librarian", "report", "events"}, names)

	root.SetArgs([]string{"report"})
	assert.Error(t, root.Execute(), "缺少报表类型")
}
