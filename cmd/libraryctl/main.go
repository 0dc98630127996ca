// libraryctl 图书馆服务的运维命令行
//
//	libraryctl seed-librarian --email admin@example.com --name Admin
//	libraryctl report overdue-last-month
//	libraryctl events
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/xiebiao/library/internal/infrastructure/config"
	"github.com/xiebiao/library/internal/infrastructure/logger"
	"github.com/xiebiao/library/internal/infrastructure/persistence/rdb"
)

// env 命令共享的配置、日志和数据库
type env struct {
	cfg    *config.Config
	logger *zap.Logger
	db     *gorm.DB
}

func loadEnv(withDB bool) (*env, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	zlog, err := logger.New(cfg)
	if err != nil {
		return nil, nil, err
	}

	e := &env{cfg: cfg, logger: zlog}
	cleanup := func() { _ = zlog.Sync() }
	if !withDB {
		return e, cleanup, nil
	}

	db, err := rdb.NewDB(cfg)
	if err != nil {
		return nil, nil, err
	}
	e.db = db
	return e, func() {
		_ = rdb.Close(db)
		cleanup()
	}, nil
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "libraryctl",
		Short:         "图书馆服务运维工具",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(
		newSeedLibrarianCmd(),
		newReportCmd(),
		newEventsCmd(),
	)
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
