package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/xiebiao/library/internal/application/report"
	"github.com/xiebiao/library/internal/infrastructure/export"
	"github.com/xiebiao/library/internal/infrastructure/persistence/rdb"
	"github.com/xiebiao/library/pkg/daterange"
)

func newReportCmd() *cobra.Command {
	var from, to string

	cmd := &cobra.Command{
		Use:       "report <borrows-by-period|overdue-last-month|borrows-last-month>",
		Short:     "导出CSV报表",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{string(report.KindBorrowsByPeriod), string(report.KindOverdueLastMonth), string(report.KindBorrowsLastMonth)},
		RunE: func(cmd *cobra.Command, args []string) error {
			e, cleanup, err := loadEnv(true)
			if err != nil {
				return err
			}
			defer cleanup()

			gen := report.NewGenerator(rdb.NewBorrowRepository(e.db), export.NewCSVWriter(e.cfg.Report.ExportDir), e.logger)

			var result *report.Result
			switch report.Kind(args[0]) {
			case report.KindBorrowsByPeriod:
				f, err := daterange.ParseFrom(from)
				if err != nil {
					return err
				}
				u, err := daterange.ParseUntil(to)
				if err != nil {
					return err
				}
				result, err = gen.BorrowsByPeriod(cmd.Context(), f, u)
				if err != nil {
					return err
				}
			case report.KindOverdueLastMonth:
				result, err = gen.OverdueLastMonth(cmd.Context())
			case report.KindBorrowsLastMonth:
				result, err = gen.BorrowsLastMonth(cmd.Context())
			default:
				return fmt.Errorf("未知报表类型: %s", args[0])
			}
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), result.Message)
			if result.Path != "" {
				fmt.Fprintln(cmd.OutOrStdout(), result.Path)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "开始日期(borrows-by-period)")
	cmd.Flags().StringVar(&to, "to", "", "结束日期,含当天(borrows-by-period)")
	return cmd
}
