package main

import (
	"errors"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/xiebiao/library/internal/application/port"
	"github.com/xiebiao/library/pkg/mq"
)

func newEventsCmd() *cobra.Command {
	var queue string

	cmd := &cobra.Command{
		Use:   "events",
		Short: "订阅借还事件并输出日志",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, cleanup, err := loadEnv(false)
			if err != nil {
				return err
			}
			defer cleanup()

			if e.cfg.MQ.URL == "" {
				return errors.New("未配置mq.url")
			}

			consumer, err := mq.NewConsumer(e.cfg.MQ.URL, e.cfg.MQ.Exchange, "topic", queue, []string{"borrow.*"})
			if err != nil {
				return err
			}
			defer func() { _ = consumer.Close() }()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return consumer.Consume(ctx, eventHandler(e.logger))
		},
	}

	cmd.Flags().StringVar(&queue, "queue", "library.events.audit", "消费队列名")
	return cmd
}

// eventHandler 解析失败的消息直接丢弃,避免反复重新入队
func eventHandler(logger *zap.Logger) mq.Handler {
	return func(routingKey string, body []byte) error {
		var ev port.BorrowEvent
		if err := mq.Decode(body, &ev); err != nil {
			logger.Warn("丢弃无法解析的事件", zap.String("routing_key", routingKey), zap.Error(err))
			return nil
		}

		fields := []zap.Field{
			zap.String("routing_key", routingKey),
			zap.Uint("borrow_id", ev.BorrowID),
			zap.Uint("book_id", ev.BookID),
			zap.Uint("borrower_id", ev.BorrowerID),
			zap.Time("due_date", ev.DueDate),
		}
		if ev.ReturnDate != nil {
			fields = append(fields, zap.Time("return_date", *ev.ReturnDate))
		}
		logger.Info("借阅事件", fields...)
		return nil
	}
}

