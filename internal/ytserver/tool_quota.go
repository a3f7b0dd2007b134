package ytserver

import (
	"context"

	"github.com/anatolykoptev/go_youtube/internal/engine"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// QuotaOutput is returned by get_quota_usage.
type QuotaOutput struct {
	Usage engine.QuotaSnapshot `json:"usage"`
	Costs map[string]int64     `json:"unit_costs"`
}

func registerQuotaUsage(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_quota_usage",
		Description: "Report the YouTube Data API quota units this server has spent today (UTC), broken down by endpoint, against the configured daily limit, plus the unit cost of each endpoint. Informational; makes no API call.",
		Annotations: readOnly,
	}, func(_ context.Context, _ *mcp.CallToolRequest, _ engine.QuotaInput) (*mcp.CallToolResult, QuotaOutput, error) {
		return nil, QuotaOutput{
			Usage: engine.Quota().Snapshot(),
			Costs: engine.QuotaCosts(),
		}, nil
	})
}
