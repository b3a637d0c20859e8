package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/autodriver-poc/server/internal/agent/model"
	"github.com/autodriver-poc/server/internal/api"
	logx "github.com/autodriver-poc/server/pkg/logger"
)

func newAskCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ask <utterance>",
		Short: "Run the agent once and print the answer",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			verbose, _ := cmd.Flags().GetBool("stages")

			a, err := setup(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			runner, err := a.runner(ctx)
			if err != nil {
				return err
			}

			in := model.UserQuery(strings.Join(args, " "))
			var res *model.RunResult
			if verbose {
				res, err = runner.Stream(ctx, in, printStage)
			} else {
				res, err = runner.Invoke(ctx, in)
			}
			if err != nil {
				return err
			}
			fmt.Println(res.Final().Content)
			return nil
		},
	}
	cmd.Flags().Bool("stages", false, "print every completed graph stage")
	return cmd
}

func newDemoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "Run the calculation, knowledge and ROS2 sample queries",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := setup(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			runner, err := a.runner(ctx)
			if err != nil {
				return err
			}

			testQueries := []struct {
				description string
				query       string
			}{
				{description: "数学计算", query: "Add 3 and 4"},
				{description: "知识库查询", query: "机器人前进指令是什么？"},
				{description: "ROS2生成", query: "生成我的ROS2机器人对应的node.py驱动代码"},
			}

			for i, test := range testQueries {
				fmt.Printf("\n===== Test %d: %s =====\n", i+1, test.description)
				fmt.Printf("Query: %q\n", test.query)

				res, err := runner.Stream(ctx, model.UserQuery(test.query), printStage)
				if err != nil {
					return fmt.Errorf("test %d failed: %w", i+1, err)
				}
				fmt.Printf("Answer (llm_calls=%d, cost=$%.6f):\n%s\n", res.LLMCalls, res.TotalCostUSD, res.Final().Content)
			}
			return nil
		},
	}
}

func newRenderCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Discover topics and print the generated node.py without calling the model",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if path, _ := cmd.Flags().GetString("template"); path != "" {
				cfg.ROS2.TemplatePath = path
			}

			a, err := newApp(ctx, cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			art, err := a.pipeline.Run(ctx)
			if err != nil {
				return err
			}
			fmt.Println(art.NodePy)
			return nil
		},
	}
	cmd.Flags().String("template", "", "template path overriding ROS2_TEMPLATE_PATH")
	return cmd
}

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the agent over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a, err := setup(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			runner, err := a.runner(ctx)
			if err != nil {
				return err
			}

			srv := &http.Server{
				Addr:              a.cfg.Server.Addr,
				Handler:           api.NewRouter(runner),
				ReadHeaderTimeout: 10 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				logx.Info().Str("addr", srv.Addr).Msg("HTTP server listening")
				errCh <- srv.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return err
			case <-ctx.Done():
			}

			logx.Info().Msg("Shutting down HTTP server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	}
}

func printStage(d model.StageDelta) {
	fmt.Printf("✅ %s\n", d.Node)
}
