package servecmder

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/miguagnxin/web-Joeyllmcahtinterface/gateway"
	"github.com/miguagnxin/web-Joeyllmcahtinterface/pkg/config"
	"github.com/miguagnxin/web-Joeyllmcahtinterface/pkg/logger"
	"github.com/miguagnxin/web-Joeyllmcahtinterface/server"
)

const serveLongDesc string = `Run the chat gateway.

Settings come from built-in defaults, then the TOML file given by --config,
then JOEY_* environment variables, then any flags set on the command line.
Upstream calls are bounded by a fixed 30 second deadline.

Examples:
  joey serve
  joey serve --listen :9090 --upstream http://localhost:11434/v1/chat/completions
  joey serve --config /etc/joey/joey.toml --debug`

const serveShortDesc string = "Run the chat gateway"

type serveCommander struct {
	configPath string
	listen     string
	upstream   string
	bodyLimit  int
	debug      bool
}

func NewServeCmd() *cobra.Command {
	return newServeCmd(&serveCommander{})
}

func newServeCmd(cmder *serveCommander) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: serveShortDesc,
		Long:  serveLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmder.run(cmd.Context(), cmd)
		},
	}

	cmd.Flags().StringVarP(&cmder.configPath, "config", "c", "", "Path to a TOML config file")
	cmd.Flags().StringVarP(&cmder.listen, "listen", "l", "", "Address to listen on")
	cmd.Flags().StringVarP(&cmder.upstream, "upstream", "u", "", "Upstream chat-completion URL")
	cmd.Flags().IntVar(&cmder.bodyLimit, "body-limit", 0, "Maximum request body size in bytes")
	cmd.Flags().BoolVar(&cmder.debug, "debug", false, "Enable debug logging")

	return cmd
}

// resolveConfig loads the layered configuration and applies the flags that were set.
func (c *serveCommander) resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("listen") {
		cfg.Listen = c.listen
	}
	if flags.Changed("upstream") {
		cfg.Upstream.URL = c.upstream
	}
	if flags.Changed("body-limit") {
		cfg.BodyLimit = c.bodyLimit
	}
	if flags.Changed("debug") {
		cfg.Debug = c.debug
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid flags: %w", err)
	}
	return cfg, nil
}

func (c *serveCommander) run(ctx context.Context, cmd *cobra.Command) error {
	cfg, err := c.resolveConfig(cmd)
	if err != nil {
		return err
	}

	log := logger.NewLogger(cfg.Debug)
	defer log.Sync()

	log.Info("joey chat gateway starting",
		zap.String("listen", cfg.Listen),
		zap.String("upstream", cfg.Upstream.URL),
		zap.Duration("timeout", gateway.DefaultTimeout),
		zap.Bool("debug", cfg.Debug),
	)

	gw := gateway.New(cfg.GatewayConfig(), log)
	srv := server.New(cfg.ServerConfig(), gw, log)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Run()
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("chat gateway failed: %w", err)
		}
		return nil
	case <-ctx.Done():
		log.Info("shutting down")
		if err := srv.Shutdown(); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	}
}
