package merkle_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/miguagnxin/web-Joeyllmcahtinterface/pkg/llm"
	"github.com/miguagnxin/web-Joeyllmcahtinterface/pkg/merkle"
)

func user(text string) llm.Message {
	return llm.Message{Role: llm.RoleUser, Content: text}
}

func assistant(text string) llm.Message {
	return llm.Message{Role: llm.RoleAssistant, Content: text}
}

var _ = Describe("Node", func() {
	Describe("NewNode", func() {
		Context("for the first turn", func() {
			It("keeps the message", func() {
				node := merkle.NewNode(user("hello"), nil)

				Expect(node.Message).To(Equal(user("hello")))
				Expect(node.ParentHash).To(BeNil())
			})

			It("produces consistent hashes for the same turn", func() {
				Expect(merkle.NewNode(user("same"), nil).Hash).To(Equal(merkle.NewNode(user("same"), nil).Hash))
			})

			It("distinguishes role as well as content", func() {
				Expect(merkle.NewNode(user("hi"), nil).Hash).NotTo(Equal(merkle.NewNode(assistant("hi"), nil).Hash))
			})

			It("produces a SHA-256 hex string", func() {
				Expect(merkle.NewNode(user("test"), nil).Hash).To(MatchRegexp("^[a-f0-9]{64}$"))
			})

			It("hashes content that is not valid UTF-8", func() {
				var node *merkle.Node
				Expect(func() { node = merkle.NewNode(user("\xff\xfe"), nil) }).NotTo(Panic())
				Expect(node.Hash).To(MatchRegexp("^[a-f0-9]{64}$"))
			})
		})

		Context("for a later turn", func() {
			var parent *merkle.Node

			BeforeEach(func() {
				parent = merkle.NewNode(user("parent"), nil)
			})

			It("links to the parent", func() {
				child := merkle.NewNode(assistant("child"), parent)

				Expect(child.ParentHash).NotTo(BeNil())
				Expect(*child.ParentHash).To(Equal(parent.Hash))
			})

			It("produces different hashes for the same turn under different parents", func() {
				other := merkle.NewNode(user("other parent"), nil)

				Expect(merkle.NewNode(assistant("x"), parent).Hash).NotTo(Equal(merkle.NewNode(assistant("x"), other).Hash))
			})
		})
	})

	Describe("Chain", func() {
		It("returns one node per message linked oldest first", func() {
			nodes := merkle.Chain([]llm.Message{user("a"), assistant("b"), user("c")})

			Expect(nodes).To(HaveLen(3))
			Expect(nodes[0].ParentHash).To(BeNil())
			Expect(*nodes[1].ParentHash).To(Equal(nodes[0].Hash))
			Expect(*nodes[2].ParentHash).To(Equal(nodes[1].Hash))
		})

		It("shares the prefix of diverging conversations", func() {
			left := merkle.Chain([]llm.Message{user("2+2?"), assistant("4")})
			right := merkle.Chain([]llm.Message{user("2+2?"), assistant("four")})

			Expect(left[0].Hash).To(Equal(right[0].Hash))
			Expect(left[1].Hash).NotTo(Equal(right[1].Hash))
		})
	})

	Describe("HeadHash", func() {
		It("is empty for an empty conversation", func() {
			Expect(merkle.HeadHash(nil)).To(BeEmpty())
		})

		It("is the hash of the last node", func() {
			msgs := []llm.Message{user("a"), assistant("b")}
			nodes := merkle.Chain(msgs)

			Expect(merkle.HeadHash(msgs)).To(Equal(nodes[1].Hash))
		})
	})
})
