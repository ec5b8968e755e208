package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"wrongness-portfolio/internal/config"
	"wrongness-portfolio/internal/logger"
	"wrongness-portfolio/internal/router"
	"wrongness-portfolio/internal/service"
	"wrongness-portfolio/internal/store"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var configPath string

func main() {
	root := &cobra.Command{
		Use:           "portfolio",
		Short:         "Wrongness portfolio: artifacts, protocols, datasets and their metrics",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "config/config.yaml", "配置文件路径")

	root.AddCommand(serveCmd(), statsCmd(), reportCmd(), seedCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "错误:", err)
		os.Exit(1)
	}
}

// bootstrap 加载配置、日志、存储和 Portfolio
func bootstrap(ctx context.Context, overrides ...func(*config.Config)) (*config.Config, *zap.Logger, store.Store, *service.ServiceContext, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("加载配置失败: %w", err)
	}
	for _, o := range overrides {
		o(cfg)
	}
	log, err := logger.New(cfg.Log.Level, cfg.Log.Development)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	st, err := store.Open(ctx, cfg, log)
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("初始化存储失败: %w", err)
	}
	svcCtx, err := service.NewServiceContext(ctx, cfg, st, log)
	if err != nil {
		_ = st.Close()
		return nil, nil, nil, nil, fmt.Errorf("初始化服务失败: %w", err)
	}
	return cfg, log, st, svcCtx, nil
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "启动 HTTP 服务",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			cfg, log, st, svcCtx, err := bootstrap(ctx)
			if err != nil {
				return err
			}
			defer log.Sync()
			defer st.Close()

			srv := &http.Server{
				Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
				Handler: router.SetupRouter(svcCtx),
			}

			errCh := make(chan error, 1)
			go func() {
				log.Info("服务启动", zap.String("addr", srv.Addr), zap.String("store", cfg.Store.Driver))
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
				close(errCh)
			}()

			select {
			case err := <-errCh:
				if err != nil {
					return fmt.Errorf("启动服务失败: %w", err)
				}
				return nil
			case <-ctx.Done():
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			log.Info("服务关闭中")
			return srv.Shutdown(shutdownCtx)
		},
	}
}

func statsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "输出汇总统计（JSON）",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, log, st, svcCtx, err := bootstrap(cmd.Context())
			if err != nil {
				return err
			}
			defer log.Sync()
			defer st.Close()

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(map[string]any{
				"stats":        svcCtx.Portfolio.Stats(),
				"topProtocols": service.TopProtocols(svcCtx.Portfolio.Protocols(), 3),
			})
		},
	}
}

func reportCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "report",
		Short: "生成 markdown 报告",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, log, st, svcCtx, err := bootstrap(cmd.Context())
			if err != nil {
				return err
			}
			defer log.Sync()
			defer st.Close()

			md := service.RenderPortfolioMarkdown(svcCtx.Portfolio.Snapshot())
			if out == "" {
				_, err := fmt.Fprint(cmd.OutOrStdout(), md)
				return err
			}
			if err := os.WriteFile(out, []byte(md), 0o644); err != nil {
				return fmt.Errorf("写入报告失败: %w", err)
			}
			log.Info("报告已生成", zap.String("path", out))
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "输出文件，默认 stdout")
	return cmd
}

func seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "把当前状态（缺失的集合用示例数据）写入存储",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, log, st, svcCtx, err := bootstrap(cmd.Context(), func(c *config.Config) { c.Store.Seed = true })
			if err != nil {
				return err
			}
			defer log.Sync()
			defer st.Close()

			if err := svcCtx.Portfolio.Persist(cmd.Context()); err != nil {
				return err
			}
			log.Info("写入完成", zap.Any("stats", svcCtx.Portfolio.Stats()))
			return nil
		},
	}
}
