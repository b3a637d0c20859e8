// Package ros2 implements the fixed code-generation pipeline: topic discovery,
// configuration derivation and node template rendering.
package ros2

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	logx "github.com/autodriver-poc/server/pkg/logger"
)

// CmdErrorPrefix starts every sentinel returned by CommandRunner.
const CmdErrorPrefix = "CMD_ERROR"

// DefaultCommandTimeout bounds the topic discovery call.
const DefaultCommandTimeout = 8 * time.Second

// pipeWaitDelay bounds how long Run waits for output pipes after the command
// was killed, since grandchildren may still hold them open.
const pipeWaitDelay = 500 * time.Millisecond

// CommandRunner runs a fixed command line. It never fails: errors come back as
// a "CMD_ERROR: <reason>" sentinel.
type CommandRunner interface {
	Run(ctx context.Context) string
}

// ShellCommand runs Args[0] with Args[1:] and a hard timeout.
type ShellCommand struct {
	Args    []string
	Timeout time.Duration
}

// NewShellCommand splits a command line on whitespace, like the ros2 CLI expects.
func NewShellCommand(line string, timeout time.Duration) *ShellCommand {
	if timeout <= 0 {
		timeout = DefaultCommandTimeout
	}
	return &ShellCommand{Args: strings.Fields(line), Timeout: timeout}
}

// IsCmdError reports whether s is a CommandRunner sentinel.
func IsCmdError(s string) bool {
	return strings.HasPrefix(s, CmdErrorPrefix)
}

func cmdError(reason string) string {
	return fmt.Sprintf("%s: %s", CmdErrorPrefix, reason)
}

func (c *ShellCommand) Run(ctx context.Context) string {
	if len(c.Args) == 0 {
		return cmdError("empty command")
	}

	ctx, cancel := context.WithTimeout(ctx, c.Timeout)
	defer cancel()

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, c.Args[0], c.Args[1:]...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.WaitDelay = pipeWaitDelay
	killProcessGroup(cmd)

	logx.Debug().Strs("args", c.Args).Msg("Running ROS2 command")
	err := cmd.Run()

	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		logx.Warn().Strs("args", c.Args).Dur("timeout", c.Timeout).Msg("ROS2 command timed out")
		return cmdError("ROS2命令执行超时，检查ROS2环境/机器人连接")
	}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			reason := strings.TrimSpace(stderr.String())
			if reason == "" {
				reason = exitErr.Error()
			}
			return cmdError(reason)
		}
		return cmdError(err.Error())
	}
	return strings.TrimSpace(stdout.String())
}
