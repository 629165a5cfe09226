package mcpserver

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/memoir/pkg/model"
	"github.com/m-mizutani/memoir/pkg/usecase/memory"
	"github.com/m-mizutani/memoir/pkg/utils/logging"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Server exposes the memory engine to assistants over the Model Context
// Protocol, using stdio transport for local clients.
type Server struct {
	uc  *memory.UseCase
	mcp *mcp.Server
}

// New builds an MCP server with every memory tool registered
func New(uc *memory.UseCase) *Server {
	s := &Server{
		uc: uc,
		mcp: mcp.NewServer(&mcp.Implementation{
			Name:    "memoir",
			Version: "1.0.0",
		}, nil),
	}

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name: "search_memories",
		Description: "Search through text and image memories using natural language. " +
			"Returns relevant memories ranked by semantic similarity.",
	}, s.searchMemories)

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name: "search_memories_by_date",
		Description: "Search memories within a date range. Dates may be ISO (YYYY-MM-DD) " +
			"or natural language; memories without a detectable date are always included.",
	}, s.searchMemoriesByDate)

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name: "synthesize_memories",
		Description: "Search text and image memories together and merge them into a " +
			"chronological timeline with a summary. Use this to build a narrative of a period or topic.",
	}, s.synthesizeMemories)

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name: "add_text_memory",
		Description: "Add a new text memory. The memory is embedded and becomes searchable. " +
			"Optionally attach a title, comma-separated tags, and a description.",
	}, s.addTextMemory)

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "get_memory_stats",
		Description: "Get counts of stored memories, total and per type.",
	}, s.getMemoryStats)

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "list_recent_memories",
		Description: "List stored memories without ranking. Optionally filter by memory type.",
	}, s.listRecentMemories)

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "delete_memory",
		Description: "Delete a memory by its ID and type.",
	}, s.deleteMemory)

	return s
}

// Run serves MCP requests on stdio until the context is cancelled
func (s *Server) Run(ctx context.Context) error {
	logging.From(ctx).Info("starting MCP server on stdio")
	if err := s.mcp.Run(ctx, &mcp.StdioTransport{}); err != nil {
		return goerr.Wrap(err, "MCP server failed")
	}
	return nil
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}
}

type searchMemoriesParams struct {
	Query      string `json:"query" jsonschema:"Natural language search query"`
	NResults   int    `json:"n_results,omitempty" jsonschema:"Number of results to return (default 5, max 20)"`
	MemoryType string `json:"memory_type,omitempty" jsonschema:"Restrict to 'text' or 'image'; default searches all"`
}

func (s *Server) searchMemories(ctx context.Context, req *mcp.CallToolRequest, params *searchMemoriesParams) (*mcp.CallToolResult, any, error) {
	if params.Query == "" {
		return nil, nil, goerr.New("query is required")
	}

	n := params.NResults
	if n == 0 {
		n = 5
	}

	modality := model.Modality(params.MemoryType)
	if modality == "" {
		modality = model.ModalityAll
	}

	result, err := s.uc.Search(ctx, memory.SearchInput{
		Query:    params.Query,
		Modality: modality,
		N:        n,
	})
	if err != nil {
		return nil, nil, err
	}

	return textResult(formatSearchResult(result, string(modality))), nil, nil
}

type searchByDateParams struct {
	Query     string `json:"query" jsonschema:"Natural language search query"`
	StartDate string `json:"start_date,omitempty" jsonschema:"Earliest date to include (inclusive)"`
	EndDate   string `json:"end_date,omitempty" jsonschema:"Latest date to include (inclusive)"`
	NResults  int    `json:"n_results,omitempty" jsonschema:"Number of results to return (default 10, max 20)"`
}

func (s *Server) searchMemoriesByDate(ctx context.Context, req *mcp.CallToolRequest, params *searchByDateParams) (*mcp.CallToolResult, any, error) {
	if params.Query == "" {
		return nil, nil, goerr.New("query is required")
	}

	n := params.NResults
	if n == 0 {
		n = 10
	}

	result, err := s.uc.SearchByDate(ctx, params.Query, params.StartDate, params.EndDate, n)
	if err != nil {
		return nil, nil, err
	}

	return textResult(formatDateSearch(result, params.StartDate, params.EndDate)), nil, nil
}

type synthesizeParams struct {
	Query           string `json:"query" jsonschema:"Natural language search query"`
	StartDate       string `json:"start_date,omitempty" jsonschema:"Earliest date to include (inclusive)"`
	EndDate         string `json:"end_date,omitempty" jsonschema:"Latest date to include (inclusive)"`
	NResultsPerType int    `json:"n_results_per_type,omitempty" jsonschema:"Candidates fetched per memory type (default 10, max 20)"`
}

func (s *Server) synthesizeMemories(ctx context.Context, req *mcp.CallToolRequest, params *synthesizeParams) (*mcp.CallToolResult, any, error) {
	if params.Query == "" {
		return nil, nil, goerr.New("query is required")
	}

	n := params.NResultsPerType
	if n == 0 {
		n = 10
	}

	result, err := s.uc.Synthesize(ctx, memory.SynthesizeInput{
		Query:        params.Query,
		Start:        params.StartDate,
		End:          params.EndDate,
		NPerModality: n,
	})
	if err != nil {
		return nil, nil, err
	}

	return textResult(formatSynthesis(result)), nil, nil
}

type addTextMemoryParams struct {
	Text        string `json:"text" jsonschema:"The text content of the memory"`
	Title       string `json:"title,omitempty" jsonschema:"Optional title"`
	Tags        string `json:"tags,omitempty" jsonschema:"Optional comma-separated tags"`
	Description string `json:"description,omitempty" jsonschema:"Optional description or context"`
}

func (s *Server) addTextMemory(ctx context.Context, req *mcp.CallToolRequest, params *addTextMemoryParams) (*mcp.CallToolResult, any, error) {
	if params.Text == "" {
		return nil, nil, goerr.New("text is required")
	}

	meta := map[string]string{}
	if params.Title != "" {
		meta[model.MetaKeyTitle] = params.Title
	}
	if params.Tags != "" {
		meta[model.MetaKeyTags] = params.Tags
	}
	if params.Description != "" {
		meta[model.MetaKeyDescription] = params.Description
	}

	id, err := s.uc.AddText(ctx, params.Text, meta)
	if err != nil {
		return nil, nil, err
	}

	return textResult(formatAdded(id, params.Title, params.Tags)), nil, nil
}

type statsParams struct{}

func (s *Server) getMemoryStats(ctx context.Context, req *mcp.CallToolRequest, params *statsParams) (*mcp.CallToolResult, any, error) {
	stats, err := s.uc.Stats(ctx)
	if err != nil {
		return nil, nil, err
	}

	return textResult(formatStats(stats)), nil, nil
}

type listRecentParams struct {
	Limit      int    `json:"limit,omitempty" jsonschema:"Maximum memories to return (default 10, max 50)"`
	MemoryType string `json:"memory_type,omitempty" jsonschema:"Filter by 'text', 'image', or 'all' (default all)"`
}

func (s *Server) listRecentMemories(ctx context.Context, req *mcp.CallToolRequest, params *listRecentParams) (*mcp.CallToolResult, any, error) {
	limit := params.Limit
	if limit == 0 {
		limit = 10
	}

	modality := model.Modality(params.MemoryType)
	records, err := s.uc.ListRecent(ctx, limit, modality)
	if err != nil {
		return nil, nil, err
	}

	return textResult(formatRecent(records, params.MemoryType)), nil, nil
}

type deleteMemoryParams struct {
	ID         string `json:"doc_id" jsonschema:"ID of the memory to delete"`
	MemoryType string `json:"memory_type" jsonschema:"Type of the memory: 'text' or 'image'"`
}

func (s *Server) deleteMemory(ctx context.Context, req *mcp.CallToolRequest, params *deleteMemoryParams) (*mcp.CallToolResult, any, error) {
	if params.ID == "" {
		return nil, nil, goerr.New("doc_id is required")
	}

	if err := s.uc.Delete(ctx, model.MemoryID(params.ID), model.Modality(params.MemoryType)); err != nil {
		return nil, nil, err
	}

	return textResult("Deleted memory: " + params.ID), nil, nil
}
