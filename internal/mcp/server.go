// Package mcp exposes the classification pipeline and project store over the
// Model Context Protocol for agent clients.
package mcp

import (
	"context"
	"fmt"
	"log/slog"

	"surveycoder/internal/classify"
	"surveycoder/internal/codebook"
	"surveycoder/internal/logging"
	"surveycoder/internal/store"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// Server wraps the MCP SDK server around the store and classifier.
type Server struct {
	MCPServer *sdkmcp.Server

	store store.Store
	svc   *classify.Service
	model string
	log   *slog.Logger
}

// NewServer creates an MCP server with classification and project tools.
// model is the classification model used for all tool calls.
func NewServer(st store.Store, svc *classify.Service, model string) *Server {
	s := &Server{
		store: st,
		svc:   svc,
		model: model,
		log:   logging.New("mcp"),
	}
	s.MCPServer = sdkmcp.NewServer(
		&sdkmcp.Implementation{Name: "surveycoder", Version: "dev"},
		nil,
	)
	s.registerTools()
	return s
}

func (s *Server) registerTools() {
	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "classify_text",
		Description: "Classify a single survey response against a project's latest codebook.",
	}, s.handleClassifyText)

	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "classify_batch",
		Description: "Classify multiple survey responses against a project's latest codebook. Results keep input order. Optionally persists them.",
	}, s.handleClassifyBatch)

	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "get_codebook",
		Description: "Get a project's codebook, latest version by default.",
	}, s.handleGetCodebook)

	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "list_projects",
		Description: "List all survey coding projects.",
	}, s.handleListProjects)
}

// --- Tool input/output types ---

type classifyTextInput struct {
	Project            string `json:"project" jsonschema:"project name"`
	Response           string `json:"response" jsonschema:"survey response text to classify"`
	MultiLabel         bool   `json:"multi_label,omitempty" jsonschema:"assign every applicable code instead of the single best one"`
	IncludeExplanation bool   `json:"include_explanation,omitempty" jsonschema:"include a short explanation per assigned code"`
}

type classifyTextOutput struct {
	AssignedCode string              `json:"assigned_code"`
	Details      []classify.Evidence `json:"details"`
}

type classifyBatchInput struct {
	Project            string   `json:"project" jsonschema:"project name"`
	Responses          []string `json:"responses" jsonschema:"survey responses to classify, in order"`
	MultiLabel         bool     `json:"multi_label,omitempty" jsonschema:"assign every applicable code instead of the single best one"`
	IncludeExplanation bool     `json:"include_explanation,omitempty" jsonschema:"include a short explanation per assigned code"`
	Save               bool     `json:"save,omitempty" jsonschema:"persist the results to the project"`
}

type classifyBatchOutput struct {
	Results []classify.Result `json:"results"`
	Saved   int               `json:"saved"`
}

type getCodebookInput struct {
	Project string `json:"project" jsonschema:"project name"`
	Version int    `json:"version,omitempty" jsonschema:"codebook version (0 or omitted = latest)"`
}

type getCodebookOutput struct {
	Version  int               `json:"version"`
	Codebook codebook.Codebook `json:"codebook"`
	Text     string            `json:"text"`
}

type listProjectsInput struct{}

type listProjectsOutput struct {
	Projects []*store.Project `json:"projects"`
}

// --- Tool handlers ---

// projectContext resolves a project and its codebook version (0 = latest)
// into a classification request.
func (s *Server) projectContext(project string, version int) (*store.Project, *store.CodebookVersion, *codebook.Codebook, error) {
	p, err := s.store.GetProject(project)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("get project: %w", err)
	}
	if p == nil {
		return nil, nil, nil, fmt.Errorf("project %q not found", project)
	}

	var cv *store.CodebookVersion
	if version > 0 {
		cv, err = s.store.GetCodebookVersion(p.ID, version)
	} else {
		cv, err = s.store.LatestCodebook(p.ID)
	}
	if err != nil {
		return nil, nil, nil, fmt.Errorf("load codebook: %w", err)
	}
	if cv == nil {
		return nil, nil, nil, fmt.Errorf("project %q has no codebook", project)
	}

	cb, err := codebook.Parse(cv.Data)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("parse codebook v%d: %w", cv.Version, err)
	}
	return p, cv, cb, nil
}

func (s *Server) handleClassifyText(ctx context.Context, _ *sdkmcp.CallToolRequest, input classifyTextInput) (*sdkmcp.CallToolResult, classifyTextOutput, error) {
	p, _, cb, err := s.projectContext(input.Project, 0)
	if err != nil {
		return nil, classifyTextOutput{}, err
	}

	req := classify.Request{
		Question:           p.Question,
		CodebookText:       codebook.RenderText(cb),
		Model:              s.model,
		MultiLabel:         input.MultiLabel,
		IncludeExplanation: input.IncludeExplanation,
	}
	res := s.svc.ClassifyResponse(ctx, req, input.Response)
	return nil, classifyTextOutput{AssignedCode: res.AssignedCode, Details: res.Details}, nil
}

func (s *Server) handleClassifyBatch(ctx context.Context, _ *sdkmcp.CallToolRequest, input classifyBatchInput) (*sdkmcp.CallToolResult, classifyBatchOutput, error) {
	p, cv, cb, err := s.projectContext(input.Project, 0)
	if err != nil {
		return nil, classifyBatchOutput{}, err
	}

	req := classify.Request{
		Question:           p.Question,
		CodebookText:       codebook.RenderText(cb),
		Model:              s.model,
		MultiLabel:         input.MultiLabel,
		IncludeExplanation: input.IncludeExplanation,
	}
	results := s.svc.ClassifyBatches(ctx, req, input.Responses)

	saved := 0
	if input.Save {
		saved = classify.SaveResults(s.store, s.log, p.ID, cv.ID, input.Responses, results)
	}
	return nil, classifyBatchOutput{Results: results, Saved: saved}, nil
}

func (s *Server) handleGetCodebook(ctx context.Context, _ *sdkmcp.CallToolRequest, input getCodebookInput) (*sdkmcp.CallToolResult, getCodebookOutput, error) {
	_, cv, cb, err := s.projectContext(input.Project, input.Version)
	if err != nil {
		return nil, getCodebookOutput{}, err
	}
	return nil, getCodebookOutput{
		Version:  cv.Version,
		Codebook: *cb,
		Text:     codebook.RenderText(cb),
	}, nil
}

func (s *Server) handleListProjects(ctx context.Context, _ *sdkmcp.CallToolRequest, _ listProjectsInput) (*sdkmcp.CallToolResult, listProjectsOutput, error) {
	projects, err := s.store.ListProjects()
	if err != nil {
		return nil, listProjectsOutput{}, fmt.Errorf("list projects: %w", err)
	}
	if projects == nil {
		projects = []*store.Project{}
	}
	return nil, listProjectsOutput{Projects: projects}, nil
}
