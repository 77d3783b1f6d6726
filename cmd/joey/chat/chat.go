package chatcmder

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/miguagnxin/web-Joeyllmcahtinterface/gateway"
	"github.com/miguagnxin/web-Joeyllmcahtinterface/pkg/llm"
	"github.com/miguagnxin/web-Joeyllmcahtinterface/server"
)

const chatLongDesc string = `Send one message to a running chat gateway and print the reply.

The reply is printed exactly as the browser would render it, including
warning lines for failed requests.

Examples:
  joey chat "What is a Merkle DAG?"
  joey chat --server http://192.168.1.42:8080 --system "Answer in one line." "Hi"`

const chatShortDesc string = "Send a message to a chat gateway"

type chatCommander struct {
	serverURL string
	system    string
	timeout   time.Duration
}

func NewChatCmd() *cobra.Command {
	cmder := &chatCommander{}

	cmd := &cobra.Command{
		Use:   "chat <message>",
		Short: chatShortDesc,
		Long:  chatLongDesc,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmder.run(cmd.Context(), cmd, strings.Join(args, " "))
		},
	}

	cmd.Flags().StringVarP(&cmder.serverURL, "server", "s", "http://localhost:8080", "Chat gateway base URL")
	cmd.Flags().StringVar(&cmder.system, "system", "", "Optional system prompt sent before the message")
	cmd.Flags().DurationVar(&cmder.timeout, "timeout", gateway.DefaultTimeout+5*time.Second, "How long to wait for the gateway")

	return cmd
}

func (c *chatCommander) run(ctx context.Context, cmd *cobra.Command, message string) error {
	req := llm.ChatRequest{}
	if c.system != "" {
		req.Messages = append(req.Messages, llm.Message{Role: llm.RoleSystem, Content: c.system})
	}
	req.Messages = append(req.Messages, llm.Message{Role: llm.RoleUser, Content: message})

	resp, err := c.post(ctx, req)
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), resp.Content)
	return nil
}

func (c *chatCommander) post(ctx context.Context, chatReq llm.ChatRequest) (*llm.Response, error) {
	body, err := json.Marshal(chatReq)
	if err != nil {
		return nil, fmt.Errorf("could not marshal request: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	url := strings.TrimRight(c.serverURL, "/") + server.ChatRoute
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("could not create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := http.DefaultClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(httpResp.Body)
		return nil, fmt.Errorf("gateway returned %d: %s", httpResp.StatusCode, string(respBody))
	}

	var result llm.Response
	if err := json.NewDecoder(httpResp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("could not decode response: %w", err)
	}

	return &result, nil
}
