package id

import (
	"strconv"
	"sync"

	"github.com/bwmarrin/snowflake"
)

var (
	node *snowflake.Node
	once sync.Once
)

// Init initializes the Snowflake node with the given node ID.
// Only the first call takes effect.
func Init(nodeID int64) error {
	var err error
	once.Do(func() {
		node, err = snowflake.NewNode(nodeID)
	})
	return err
}

// New generates a new time-ordered int64 ID. Init must have succeeded first.
func New() int64 {
	return node.Generate().Int64()
}

// String formats an ID the way it is echoed in response headers.
func String(v int64) string {
	return strconv.FormatInt(v, 10)
}
