package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ByLCY/tailor/server"
)

func newServeCmd(a *app) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "启动 HTTP 导出服务",
		Long:  `启动 HTTP 服务：POST /export 返回导出文件，GET /health 用于健康检查。`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if addr == "" {
				addr = a.cfg.Addr
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, a, addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "监听地址（默认取配置 addr）")
	return cmd
}

func runServe(ctx context.Context, a *app, addr string) error {
	srv := server.New(server.Config{
		Addr:     addr,
		Exporter: a.exporter,
		Logger:   a.logger,
	})
	return srv.Start(ctx)
}
