package server

import (
	"encoding/json"
	"time"

	"github.com/lox/handtree/internal/classifier"
	"github.com/lox/handtree/internal/tree"
)

// MessageType identifies a WebSocket message.
type MessageType string

// Client → Server
const (
	TypeQueryNode MessageType = "query_node"
	TypeListTrees MessageType = "list_trees"
)

// Server → Client
const (
	TypeNodeResult MessageType = "node_result"
	TypeTreeList   MessageType = "tree_list"
	TypeError      MessageType = "error"
)

// Message represents the base WebSocket message structure
type Message struct {
	Type      MessageType     `json:"type"`
	Data      json.RawMessage `json:"data"`
	Timestamp time.Time       `json:"timestamp"`
	RequestID string          `json:"requestId,omitempty"`
}

// NewMessage creates a new message with the current timestamp
func NewMessage(messageType MessageType, data interface{}) (*Message, error) {
	dataBytes, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	return &Message{
		Type:      messageType,
		Data:      dataBytes,
		Timestamp: time.Now(),
	}, nil
}

// QueryNodeData asks for the statistics at one node of a published tree.
// Path elements may be composite display labels; only the final component
// of each addresses a child.
type QueryNodeData struct {
	TreeID      string   `json:"treeId"`
	Path        []string `json:"path"`
	ExcludeHero bool     `json:"excludeHero,omitempty"`
}

// NodeResultData is the answer to a node query. Found is false when the
// path does not exist in the tree; the node is omitted in that case.
type NodeResultData struct {
	Found  bool         `json:"found"`
	TreeID string       `json:"treeId"`
	Label  string       `json:"label"`
	Node   *NodeSummary `json:"node,omitempty"`
}

// NodeSummary is the client-facing view of one decision point.
type NodeSummary struct {
	Name        string                        `json:"name"`
	Terminal    bool                          `json:"terminal,omitempty"`
	Synthetic   bool                          `json:"synthetic,omitempty"`
	FacingAllIn bool                          `json:"facingAllIn,omitempty"`
	Count       int                           `json:"count"`
	Actions     map[classifier.Bucket]int     `json:"actions,omitempty"`
	Percentages map[classifier.Bucket]float64 `json:"percentages,omitempty"`
	HoleCards   map[string]int                `json:"holeCards,omitempty"`
	Children    []ChildSummary                `json:"children"`
}

// ChildSummary lists one continuation beneath a node, in display order.
type ChildSummary struct {
	Name      string `json:"name"`
	Count     int    `json:"count"`
	Synthetic bool   `json:"synthetic,omitempty"`
}

// ErrorData carries a machine-readable failure code.
type ErrorData struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error codes sent to clients.
const (
	CodeUnknownTree = "unknown_tree"
	CodeBadMessage  = "bad_message"
	CodeBadType     = "unsupported_type"
)

// TreeListData lists the trees currently resident in the registry.
type TreeListData struct {
	Trees []TreeInfo `json:"trees"`
}

// TreeInfo describes one resident tree.
type TreeInfo struct {
	ID        string `json:"id"`
	HandCount int    `json:"handCount"`
}

// summarize builds the client view of a node. When excludeHero is set the
// counts and percentages describe non-hero actions only; the hole-card
// distribution likewise switches population.
func summarize(n *tree.Node, excludeHero bool) *NodeSummary {
	s := &NodeSummary{
		Name:        n.Name,
		Terminal:    n.Terminal,
		Synthetic:   n.Synthetic,
		FacingAllIn: n.FacingAllIn,
		Children:    []ChildSummary{},
	}

	if excludeHero {
		s.Count = n.NonHeroCount
		s.Percentages = n.PercentagesNonHero
		s.Actions = make(map[classifier.Bucket]int, len(n.Actions))
		for bucket, total := range n.Actions {
			if nonHero := total - n.HeroActions[bucket]; nonHero > 0 {
				s.Actions[bucket] = nonHero
			}
		}
		s.HoleCards = n.HoleCards
	} else {
		s.Count = n.TotalCount
		s.Percentages = n.PercentagesTotal
		s.Actions = n.Actions
		s.HoleCards = make(map[string]int, len(n.HoleCards))
		for category, count := range n.HoleCards {
			s.HoleCards[category] = count
		}
		for category, count := range n.HeroHoleCards {
			s.HoleCards[category] += count
		}
	}

	for _, child := range tree.SortedChildren(n, excludeHero) {
		count := child.TotalCount
		if excludeHero {
			count = child.NonHeroCount
		}
		s.Children = append(s.Children, ChildSummary{
			Name:      child.Name,
			Count:     count,
			Synthetic: child.Synthetic,
		})
	}
	return s
}
