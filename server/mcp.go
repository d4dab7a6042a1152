// Package server exposes the Eurostat client as Model Context Protocol tools.
package server

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/teranos/qntx-eurostat/eurostat"
	"github.com/teranos/qntx-eurostat/logger"
	"github.com/teranos/qntx-eurostat/version"
)

// Tool names
const (
	ToolSearchDatasets      = "search_datasets"
	ToolGetDatasetStructure = "get_dataset_structure"
	ToolGetDatasetData      = "get_dataset_data"
	ToolPreviewDataset      = "preview_dataset"
	ToolFindGeoCode         = "find_geo_code"
	ToolGetDownloadURL      = "get_download_url"
)

// MCPServer wraps a eurostat.Client and exposes it via Model Context Protocol
type MCPServer struct {
	client *eurostat.Client
	server *server.MCPServer
	logger *zap.SugaredLogger
	tools  []string
}

// NewMCPServer creates a new MCP server backed by client
func NewMCPServer(client *eurostat.Client, log *zap.SugaredLogger) *MCPServer {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	s := &MCPServer{
		client: client,
		logger: log,
	}
	s.server = server.NewMCPServer(
		version.Product,
		version.Get().Version,
		server.WithToolCapabilities(true),
	)
	s.registerTools()
	return s
}

// Tools returns the registered tool names in registration order
func (s *MCPServer) Tools() []string {
	return append([]string(nil), s.tools...)
}

func (s *MCPServer) addTool(tool mcp.Tool, handler server.ToolHandlerFunc) {
	s.server.AddTool(tool, s.instrument(tool.Name, handler))
	s.tools = append(s.tools, tool.Name)
}

// registerTools registers all MCP tools
func (s *MCPServer) registerTools() {
	languageOpt := mcp.WithString("language",
		mcp.Description("Label language: en, fr or de (default: server language)"),
		mcp.Enum(eurostat.Languages...),
	)
	filtersOpt := mcp.WithObject("filters",
		mcp.Description("Dimension filters, e.g. {\"geo\": [\"DE\", \"FR\"], \"unit\": \"CP_MEUR\", \"sinceTimePeriod\": 2015}. "+
			"Values may be a string, a number or an array of those."),
	)
	datasetOpt := mcp.WithString("dataset_code",
		mcp.Required(),
		mcp.Description("Dataset code, e.g. nama_10_gdp"),
	)

	s.addTool(mcp.NewTool(ToolSearchDatasets,
		mcp.WithDescription("Search the Eurostat catalogue by keywords in dataset titles and codes"),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Free-text keywords, e.g. \"unemployment youth\""),
		),
		languageOpt,
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of results (default: 20)"),
		),
	), s.handleSearchDatasets)

	s.addTool(mcp.NewTool(ToolGetDatasetStructure,
		mcp.WithDescription("List the dimensions of a dataset and the codes each dimension accepts"),
		datasetOpt,
	), s.handleGetDatasetStructure)

	s.addTool(mcp.NewTool(ToolGetDatasetData,
		mcp.WithDescription("Fetch values of a dataset for the given filters as a table"),
		datasetOpt,
		filtersOpt,
		languageOpt,
	), s.handleGetDatasetData)

	s.addTool(mcp.NewTool(ToolPreviewDataset,
		mcp.WithDescription("Fetch the most recent time period of a dataset"),
		datasetOpt,
		languageOpt,
	), s.handlePreviewDataset)

	s.addTool(mcp.NewTool(ToolFindGeoCode,
		mcp.WithDescription("Find geographic codes (countries, NUTS regions, aggregates) by code or name"),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Code or place name, e.g. \"Bayern\" or \"DE2\""),
		),
	), s.handleFindGeoCode)

	s.addTool(mcp.NewTool(ToolGetDownloadURL,
		mcp.WithDescription("Build a tab-separated download link for a filtered dataset without fetching it"),
		datasetOpt,
		filtersOpt,
		languageOpt,
	), s.handleGetDownloadURL)
}

// instrument gives every call a request id and logs its outcome.
func (s *MCPServer) instrument(name string, handler server.ToolHandlerFunc) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		ctx = logger.WithRequestID(ctx, uuid.New().String())
		ctx = logger.WithTool(ctx, name)
		log := logger.FromContext(ctx, s.logger)

		start := time.Now()
		result, err := handler(ctx, request)
		elapsed := time.Since(start).Milliseconds()

		switch {
		case err != nil:
			log.Errorw("Tool call failed", logger.FieldError, err, logger.FieldDurationMS, elapsed)
		case result != nil && result.IsError:
			log.Infow("Tool call returned error", logger.FieldDurationMS, elapsed)
		default:
			log.Infow("Tool call completed", logger.FieldDurationMS, elapsed)
		}
		return result, err
	}
}

// Serve starts the MCP server using stdio transport
func (s *MCPServer) Serve() error {
	return server.ServeStdio(s.server)
}
