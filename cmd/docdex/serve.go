package main

import (
	"github.com/fwojciec/docdex/mcp"
)

// Run executes the serve command. It blocks until the client disconnects or
// the context is cancelled.
func (c *ServeCmd) Run(deps *Dependencies) error {
	deps.Logger.Info("serving MCP tools on stdio", "version", version)

	s := &mcp.Server{
		Crawler:   deps.Crawler,
		Documents: deps.Documents,
		Search:    deps.Search,
		Stats:     deps.Stats,
		Logger:    deps.Logger,
		Name:      "docdex",
		Version:   version,
	}
	return s.Run(deps.Ctx)
}
