package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/ByLCY/tailor/config"
	"github.com/ByLCY/tailor/export"
	"github.com/ByLCY/tailor/layout"
)

// app 保存根命令解析出的配置，供子命令使用。
type app struct {
	configPath string
	profile    string
	logLevel   string

	cfg      config.Config
	settings layout.Settings
	logger   *slog.Logger
	exporter *export.Exporter
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "tailor",
		Short:         "将定制简历与求职信导出为 DOCX 或 PDF",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd)
		},
	}
	root.PersistentFlags().StringVar(&a.configPath, "config", "", "JSON 配置文件路径")
	root.PersistentFlags().StringVar(&a.profile, "profile", "", "导出配置（profile）文件路径")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "日志级别：debug|info|warn|error")

	root.AddCommand(newExportCmd(a), newInspectCmd(a), newServeCmd(a))
	return root
}

// init 依次叠加配置文件、环境变量、命令行参数与默认值。
func (a *app) init(cmd *cobra.Command) error {
	cfg := &config.Config{}
	if a.configPath != "" {
		loaded, err := config.LoadConfig(a.configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return err
	}
	if a.profile != "" {
		cfg.Profile = a.profile
	}
	if a.logLevel != "" {
		cfg.LogLevel = a.logLevel
	}
	merged := cfg.MergeWithDefaults(config.Defaults())
	if err := merged.Validate(); err != nil {
		return err
	}

	settings, err := merged.Settings()
	if err != nil {
		return fmt.Errorf("解析导出配置失败: %w", err)
	}

	a.cfg = merged
	a.settings = settings
	a.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: merged.SlogLevel()}))
	a.exporter = export.New(export.Options{Settings: settings, Logger: a.logger})
	a.logger.Debug("配置已加载", "profile", settings.Name, "typeface", settings.Typeface,
		"width", settings.Geometry.Width, "height", settings.Geometry.Height)
	return nil
}

func main() {
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
