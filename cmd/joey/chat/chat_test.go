package chatcmder

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"sync"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"

	"github.com/miguagnxin/web-Joeyllmcahtinterface/gateway"
	"github.com/miguagnxin/web-Joeyllmcahtinterface/pkg/llm"
	"github.com/miguagnxin/web-Joeyllmcahtinterface/server"
)

var _ = Describe("Chat Command", func() {
	var (
		ctx      context.Context
		upstream *httptest.Server
		mu       sync.Mutex
		received llm.ChatRequest
	)

	lastRequest := func() []llm.Message {
		mu.Lock()
		defer mu.Unlock()
		return received.Messages
	}

	BeforeEach(func() {
		ctx = context.Background()
		mu.Lock()
		received = llm.ChatRequest{}
		mu.Unlock()
		upstream = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			body, _ := io.ReadAll(r.Body)
			mu.Lock()
			_ = json.Unmarshal(body, &received)
			mu.Unlock()
			_, _ = io.WriteString(w, `{"choices":[{"message":{"content":"hello from joey"}}]}`)
		}))
	})

	AfterEach(func() {
		upstream.Close()
	})

	startGateway := func(upstreamURL string) (string, func()) {
		logger := zap.NewNop()
		gw := gateway.New(gateway.Config{UpstreamURL: upstreamURL}, logger)
		srv := server.New(server.Config{ListenAddr: ":0"}, gw, logger)

		listener, err := net.Listen("tcp", "127.0.0.1:0")
		Expect(err).NotTo(HaveOccurred())

		go func() {
			_ = srv.RunWithListener(listener)
		}()

		return "http://" + listener.Addr().String(), func() {
			_ = srv.Shutdown()
		}
	}

	runChat := func(args ...string) (string, error) {
		cmd := NewChatCmd()
		out := &bytes.Buffer{}
		cmd.SetOut(out)
		cmd.SetErr(out)
		cmd.SetArgs(append([]string{}, args...))
		err := cmd.ExecuteContext(ctx)
		return out.String(), err
	}

	It("prints the assistant reply", func() {
		addr, stop := startGateway(upstream.URL)
		defer stop()

		out, err := runChat("--server", addr, "What", "is", "Go?")
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(Equal("hello from joey\n"))

		Expect(lastRequest()).To(Equal([]llm.Message{
			{Role: llm.RoleUser, Content: "What is Go?"},
		}))
	})

	It("sends the system prompt first", func() {
		addr, stop := startGateway(upstream.URL)
		defer stop()

		_, err := runChat("--server", addr+"/", "--system", "Be brief.", "Hi")
		Expect(err).NotTo(HaveOccurred())

		Expect(lastRequest()).To(Equal([]llm.Message{
			{Role: llm.RoleSystem, Content: "Be brief."},
			{Role: llm.RoleUser, Content: "Hi"},
		}))
	})

	It("prints warning lines from the gateway", func() {
		down := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		downURL := down.URL
		down.Close()

		addr, stop := startGateway(downURL)
		defer stop()

		out, err := runChat("--server", addr, "Hi")
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(Equal(gateway.WarningMarker + gateway.MsgNetworkError + "\n"))
	})

	It("fails when the gateway is unreachable", func() {
		listener, err := net.Listen("tcp", "127.0.0.1:0")
		Expect(err).NotTo(HaveOccurred())
		addr := "http://" + listener.Addr().String()
		listener.Close()

		_, err = runChat("--server", addr, "Hi")
		Expect(err).To(MatchError(ContainSubstring("HTTP request failed")))
	})

	It("requires a message", func() {
		_, err := runChat()
		Expect(err).To(HaveOccurred())
	})
})
