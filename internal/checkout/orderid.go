package checkout

import (
	"fmt"
	"strings"

	"github.com/bwmarrin/snowflake"
)

// OrderIDGenerator issues time-ordered order ids of the form <prefix>-<snowflake>.
type OrderIDGenerator struct {
	prefix string
	node   *snowflake.Node
}

// NewOrderIDGenerator binds a generator to one snowflake node. nodeID must fit
// in the node bits (0-1023).
func NewOrderIDGenerator(prefix string, nodeID int64) (*OrderIDGenerator, error) {
	node, err := snowflake.NewNode(nodeID)
	if err != nil {
		return nil, fmt.Errorf("creating snowflake node %d: %w", nodeID, err)
	}
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		prefix = "ORD"
	}
	return &OrderIDGenerator{prefix: prefix, node: node}, nil
}

// NewOrderID returns the next order id.
func (g *OrderIDGenerator) NewOrderID() string {
	return g.prefix + "-" + g.node.Generate().String()
}
