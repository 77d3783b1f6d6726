package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	chatcmder "github.com/miguagnxin/web-Joeyllmcahtinterface/cmd/joey/chat"
	servecmder "github.com/miguagnxin/web-Joeyllmcahtinterface/cmd/joey/serve"
)

const rootLongDesc string = `joey relays browser chat conversations to the Joey LLM API.

The gateway accepts {"messages": [...]} on POST /api/chat and always answers
HTTP 200 with {"content": "..."}, so the browser renders every outcome as a
plain chat bubble.`

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "joey",
		Short:         "Joey chat gateway",
		Long:          rootLongDesc,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(servecmder.NewServeCmd())
	cmd.AddCommand(chatcmder.NewChatCmd())

	return cmd
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
