// Package merkle fingerprints conversations as a hash chain of turns.
//
// Each turn becomes a node whose hash covers its role, its content and the hash of the
// turn before it, so the head hash identifies the whole transcript. Identical
// transcripts share a head hash and transcripts that diverge share every hash up to
// the point of divergence. Nothing here is persisted.
package merkle

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	"github.com/miguagnxin/web-Joeyllmcahtinterface/pkg/llm"
)

// Node is one content-addressed turn.
type Node struct {
	// Hash is the SHA-256 of the canonical encoding of the turn and its parent, hex-encoded.
	Hash string `json:"hash"`

	// ParentHash is nil for the first turn of a conversation.
	ParentHash *string `json:"parent_hash"`

	Message llm.Message `json:"message"`
}

type input struct {
	Parent  string `json:"parent,omitempty"`
	Role    string `json:"role"`
	Content string `json:"content"`
}

// NewNode creates a node for msg chained onto parent.
func NewNode(msg llm.Message, parent *Node) *Node {
	n := &Node{Message: msg}
	if parent != nil {
		n.ParentHash = &parent.Hash
	}
	n.Hash = n.computeHash()
	return n
}

func (n *Node) computeHash() string {
	i := input{
		Role:    string(n.Message.Role),
		Content: n.Message.Content,
	}
	if n.ParentHash != nil {
		i.Parent = *n.ParentHash
	}

	data, err := json.Marshal(i)
	if err != nil {
		panic("failed to marshal hash input: " + err.Error())
	}
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}

// Chain builds the node chain for msgs, oldest first.
func Chain(msgs []llm.Message) []*Node {
	nodes := make([]*Node, 0, len(msgs))
	var parent *Node
	for _, msg := range msgs {
		node := NewNode(msg, parent)
		nodes = append(nodes, node)
		parent = node
	}
	return nodes
}

// HeadHash returns the hash of the last node in the chain for msgs, or "" when msgs is empty.
func HeadHash(msgs []llm.Message) string {
	nodes := Chain(msgs)
	if len(nodes) == 0 {
		return ""
	}
	return nodes[len(nodes)-1].Hash
}
