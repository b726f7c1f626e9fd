package main

import (
	"github.com/brightpath/tutordesk/internal/server"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
)

func main() {
	fx.New(
		fx.Provide(RegisterSnowflake),
		server.Module,
	).Run()
}

// RegisterSnowflake builds the process-wide ID generator. Node number comes
// from a single-node deployment assumption; multi-node installs should wire
// it from configuration.
func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}
