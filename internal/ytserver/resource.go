package ytserver

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/anatolykoptev/go_youtube/internal/engine"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// ServerInfoURI is the URI of the plain-text server description.
const ServerInfoURI = "youtube://server/info"

var urlFormats = []string{
	"Videos: https://www.youtube.com/watch?v=ID, https://youtu.be/ID, /shorts/ID, /embed/ID, /live/ID, or the 11-character ID",
	"Playlists: https://www.youtube.com/playlist?list=ID, any watch URL with list=ID, or the playlist ID",
	"Channels: /channel/UC..., /c/name, /@handle, /user/name, @handle, the UC... channel ID, or a legacy username",
}

// RegisterResources registers the server info resource.
func RegisterResources(server *mcp.Server, name, version string) {
	server.AddResource(&mcp.Resource{
		URI:         ServerInfoURI,
		Name:        "server_info",
		Description: "Server description: available tools, supported URL formats and quota costs",
		MIMEType:    "text/plain",
	}, func(_ context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		return &mcp.ReadResourceResult{
			Contents: []*mcp.ResourceContents{{
				URI:      req.Params.URI,
				MIMEType: "text/plain",
				Text:     ServerInfo(name, version),
			}},
		}, nil
	})
}

// ServerInfo renders the server description.
func ServerInfo(name, version string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s: read-only YouTube Data API v3 tools over MCP.\n\n", name, version)

	b.WriteString("Tools:\n")
	for _, t := range ToolNames {
		fmt.Fprintf(&b, "- %s\n", t)
	}

	b.WriteString("\nSupported inputs:\n")
	for _, f := range urlFormats {
		fmt.Fprintf(&b, "- %s\n", f)
	}

	costs := engine.QuotaCosts()
	endpoints := make([]string, 0, len(costs))
	for ep := range costs {
		endpoints = append(endpoints, ep)
	}
	slices.Sort(endpoints)

	snap := engine.Quota().Snapshot()
	fmt.Fprintf(&b, "\nQuota (daily limit %d units, %d used today):\n", snap.Limit, snap.Used)
	for _, ep := range endpoints {
		fmt.Fprintf(&b, "- %s: %d per call\n", ep, costs[ep])
	}
	b.WriteString("Comment threads and playlist items are paged (100 and 50 per call); each expanded reply thread costs at least 1 more unit.\n")
	return b.String()
}
