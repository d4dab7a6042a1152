package server

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/teranos/qntx-eurostat/logger"
)

func (s *MCPServer) handleSearchDatasets(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := request.RequireString("query")
	if err != nil {
		return argumentError(err), nil
	}
	lang := request.GetString("language", "")
	limit := request.GetInt("limit", 0)

	entries, err := s.client.Search(ctx, query, lang, limit)
	if err != nil {
		s.logFailure(ctx, err)
		return toolError("search datasets", err), nil
	}
	return mcp.NewToolResultText(formatSearch(query, entries)), nil
}

func (s *MCPServer) handleGetDatasetStructure(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	code, err := request.RequireString("dataset_code")
	if err != nil {
		return argumentError(err), nil
	}

	st, err := s.client.Structure(ctx, code)
	if err != nil {
		s.logFailure(ctx, err)
		return toolError("get dataset structure", err), nil
	}
	return mcp.NewToolResultText(formatStructure(code, st)), nil
}

func (s *MCPServer) handleGetDatasetData(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	code, err := request.RequireString("dataset_code")
	if err != nil {
		return argumentError(err), nil
	}
	filters, err := parseFilters(request.GetArguments()["filters"])
	if err != nil {
		return argumentError(err), nil
	}
	lang := request.GetString("language", "")

	cube, err := s.client.Data(ctx, code, filters, lang)
	if err != nil {
		s.logFailure(ctx, err)
		return toolError("get dataset data", err), nil
	}
	return mcp.NewToolResultText(formatCube(cube)), nil
}

func (s *MCPServer) handlePreviewDataset(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	code, err := request.RequireString("dataset_code")
	if err != nil {
		return argumentError(err), nil
	}
	lang := request.GetString("language", "")

	cube, err := s.client.Preview(ctx, code, lang)
	if err != nil {
		s.logFailure(ctx, err)
		return toolError("preview dataset", err), nil
	}
	return mcp.NewToolResultText(formatCube(cube)), nil
}

func (s *MCPServer) handleFindGeoCode(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := request.RequireString("query")
	if err != nil {
		return argumentError(err), nil
	}

	codes, err := s.client.ResolveGeo(ctx, query)
	if err != nil {
		s.logFailure(ctx, err)
		return toolError("find geographic code", err), nil
	}
	return mcp.NewToolResultText(formatGeo(query, codes)), nil
}

func (s *MCPServer) handleGetDownloadURL(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	code, err := request.RequireString("dataset_code")
	if err != nil {
		return argumentError(err), nil
	}
	filters, err := parseFilters(request.GetArguments()["filters"])
	if err != nil {
		return argumentError(err), nil
	}
	lang := request.GetString("language", "")

	u, err := s.client.DownloadURL(code, filters, lang)
	if err != nil {
		return toolError("build download URL", err), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Download URL (tab-separated values):\n%s", u)), nil
}

func (s *MCPServer) logFailure(ctx context.Context, err error) {
	logger.FromContext(ctx, s.logger).Warnw("Eurostat call failed",
		logger.FieldError, err,
		"kind", errorKind(err))
}
