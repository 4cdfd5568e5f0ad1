package main

import (
	"os"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API (analyze, trending, share)",
	RunE: func(cmd *cobra.Command, args []string) error {
		// 初始化日志记录器，包含时间戳、调用者信息、服务ID等上下文
		logger := log.With(log.NewStdLogger(os.Stdout),
			"ts", log.DefaultTimestamp,
			"caller", log.DefaultCaller,
			"service.id", id,
			"service.name", Name,
			"service.version", Version,
		)

		app, cleanup, err := initApp(cfg, logger)
		if err != nil {
			return err
		}
		defer cleanup()

		return app.Run()
	},
}
