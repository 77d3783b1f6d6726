package llm_test

import (
	"encoding/json"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/miguagnxin/web-Joeyllmcahtinterface/pkg/llm"
)

var _ = Describe("Role", func() {
	DescribeTable("Valid",
		func(role llm.Role, expected bool) {
			Expect(role.Valid()).To(Equal(expected))
		},
		Entry("user", llm.RoleUser, true),
		Entry("assistant", llm.RoleAssistant, true),
		Entry("system", llm.RoleSystem, true),
		Entry("tool", llm.Role("tool"), false),
		Entry("upper case", llm.Role("User"), false),
		Entry("empty", llm.Role(""), false),
	)
})

var _ = Describe("ChatRequest", func() {
	It("encodes only role and content for each message", func() {
		req := llm.ChatRequest{Messages: []llm.Message{
			{Role: llm.RoleSystem, Content: "be brief"},
			{Role: llm.RoleUser, Content: "hi"},
		}}

		data, err := json.Marshal(req)
		Expect(err).NotTo(HaveOccurred())
		Expect(string(data)).To(MatchJSON(`{"messages":[{"role":"system","content":"be brief"},{"role":"user","content":"hi"}]}`))
	})
})
