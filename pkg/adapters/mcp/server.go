package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/advisor"
	"github.com/aretw0/advisor/internal/logging"
	"github.com/aretw0/advisor/internal/sanitize"
	"github.com/aretw0/advisor/pkg/domain"
	"github.com/aretw0/advisor/pkg/session"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// BrandsURI is the resource listing the brand selector.
const BrandsURI = "advisor://brands"

// QuizResponse is returned by every session tool.
type QuizResponse struct {
	SessionID string       `json:"session_id" jsonschema_description:"Session to pass to the next tool call"`
	View      *domain.View `json:"view" jsonschema_description:"Current page, progress and, on result pages, the recommended products"`
}

// Engine defines the quiz operations exposed as MCP tools.
type Engine interface {
	Brands() []domain.BrandInfo
	Start(ctx context.Context, sessionID string, brand domain.Brand) (*domain.State, error)
	Render(ctx context.Context, state *domain.State) (*domain.View, error)
	Advance(ctx context.Context, state *domain.State, target int) (*domain.State, error)
	Choose(ctx context.Context, state *domain.State, index int) (*domain.State, error)
	Back(ctx context.Context, state *domain.State) (*domain.State, error)
	Restart(ctx context.Context, state *domain.State) (*domain.State, error)
	Products(ctx context.Context, state *domain.State) ([]domain.Product, error)
	Graph(brand domain.Brand) (*domain.NavigationGraph, error)
	Mermaid(brand domain.Brand, state *domain.State) (string, error)
}

// Server wraps the quiz Engine and exposes it as an MCP Server.
// Sessions are kept server side so an agent only has to carry the session id.
type Server struct {
	engine    Engine
	sessions  *session.Manager
	mcpServer *server.MCPServer
	logger    *slog.Logger
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewServer creates a new MCP Server instance.
func NewServer(engine Engine, sessions *session.Manager, opts ...Option) *Server {
	s := &Server{
		engine:    engine,
		sessions:  sessions,
		logger:    logging.NewNop(),
		mcpServer: server.NewMCPServer("advisor-mcp", strings.TrimSpace(advisor.Version)),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools()
	s.registerResources()
	return s
}

// MCPServer exposes the underlying mcp-go server.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE serves MCP over SSE on addr until ctx is cancelled.
func (s *Server) ServeSSE(ctx context.Context, addr string) error {
	baseURL := "http://localhost" + addr
	if !strings.HasPrefix(addr, ":") {
		baseURL = "http://" + addr
	}
	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", sseServer.SSEHandler())
	mux.Handle("/message", sseServer.MessageHandler())

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           cors.AllowAll().Handler(mux),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

type startArgs struct {
	Brand     string `json:"brand"`
	SessionID string `json:"session_id,omitempty"`
}

type answerArgs struct {
	SessionID  string `json:"session_id"`
	Button     *int   `json:"button,omitempty"`
	TargetPage *int   `json:"target_page,omitempty"`
}

type sessionArgs struct {
	SessionID string `json:"session_id"`
}

type graphArgs struct {
	Brand  string `json:"brand"`
	Format string `json:"format,omitempty"`
}

func (s *Server) registerTools() {
	s.mcpServer.AddTool(mcp.NewTool("list_brands",
		mcp.WithDescription("List the pet-food brands that have a questionnaire."),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		body, err := json.Marshal(s.engine.Brands())
		if err != nil {
			return nil, err
		}
		return mcp.NewToolResultText(string(body)), nil
	})

	s.mcpServer.AddTool(mcp.NewTool("start_quiz",
		mcp.WithDescription("Start a questionnaire for a brand. Returns the session id and the first question."),
		mcp.WithString("brand", mcp.Required(), mcp.Description("Brand id, e.g. nutram")),
		mcp.WithString("session_id", mcp.Description("Session id to use (optional, generated when omitted; must not be in use)")),
		mcp.WithOutputSchema[QuizResponse](),
	), mcp.NewStructuredToolHandler(s.handleStart))

	s.mcpServer.AddTool(mcp.NewTool("answer",
		mcp.WithDescription("Answer the current question by button index (0-based) or jump to a target page."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session id returned by start_quiz")),
		mcp.WithNumber("button", mcp.Description("Index of the chosen answer, starting at 0")),
		mcp.WithNumber("target_page", mcp.Description("Page number to move to")),
		mcp.WithOutputSchema[QuizResponse](),
	), mcp.NewStructuredToolHandler(s.handleAnswer))

	s.mcpServer.AddTool(mcp.NewTool("go_back",
		mcp.WithDescription("Return to the previous question."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session id")),
		mcp.WithOutputSchema[QuizResponse](),
	), mcp.NewStructuredToolHandler(s.handleBack))

	s.mcpServer.AddTool(mcp.NewTool("restart_quiz",
		mcp.WithDescription("Start the same brand's questionnaire over."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session id")),
		mcp.WithOutputSchema[QuizResponse](),
	), mcp.NewStructuredToolHandler(s.handleRestart))

	s.mcpServer.AddTool(mcp.NewTool("get_products",
		mcp.WithDescription("List the products recommended on the session's current page."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session id")),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id := request.GetString("session_id", "")
		state, err := s.sessions.Load(ctx, id)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		products, err := s.engine.Products(ctx, state)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("products failed: %v", err)), nil
		}
		body, err := json.Marshal(products)
		if err != nil {
			return nil, err
		}
		return mcp.NewToolResultText(string(body)), nil
	})

	s.mcpServer.AddTool(mcp.NewTool("get_graph",
		mcp.WithDescription("Get a brand's navigation graph as JSON pages or a Mermaid flowchart."),
		mcp.WithString("brand", mcp.Required(), mcp.Description("Brand id")),
		mcp.WithString("format", mcp.Description("json (default) or mermaid"), mcp.Enum("json", "mermaid")),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		text, err := s.graph(graphArgs{
			Brand:  request.GetString("brand", ""),
			Format: request.GetString("format", "json"),
		})
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText(text), nil
	})
}

func (s *Server) graph(args graphArgs) (string, error) {
	brand := domain.Brand(args.Brand)
	if args.Format == "mermaid" {
		return s.engine.Mermaid(brand, nil)
	}
	g, err := s.engine.Graph(brand)
	if err != nil {
		return "", err
	}
	body, err := json.Marshal(g.Pages)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

func (s *Server) handleStart(ctx context.Context, request mcp.CallToolRequest, args startArgs) (QuizResponse, error) {
	id, err := sanitize.Input(args.SessionID)
	if err != nil {
		return QuizResponse{}, fmt.Errorf("session_id rejected: %w", err)
	}
	if id == "" {
		id = uuid.NewString()
	}
	brand, err := sanitize.Input(args.Brand)
	if err != nil {
		return QuizResponse{}, fmt.Errorf("brand rejected: %w", err)
	}
	state, err := s.sessions.Create(ctx, id, func(ctx context.Context) (*domain.State, error) {
		started, err := s.engine.Start(ctx, id, domain.Brand(strings.ToLower(brand)))
		if err != nil {
			return nil, fmt.Errorf("start failed: %w", err)
		}
		return started, nil
	})
	if errors.Is(err, domain.ErrSessionExists) {
		return QuizResponse{}, fmt.Errorf("%w, use restart_quiz to start over", err)
	}
	if err != nil {
		return QuizResponse{}, err
	}
	s.logger.Debug("MCP: quiz started", "session_id", id, "brand", args.Brand)
	return s.respond(ctx, state)
}

func (s *Server) handleAnswer(ctx context.Context, request mcp.CallToolRequest, args answerArgs) (QuizResponse, error) {
	var op func(context.Context, *domain.State) (*domain.State, error)
	switch {
	case args.Button != nil:
		index := *args.Button
		op = func(ctx context.Context, st *domain.State) (*domain.State, error) {
			return s.engine.Choose(ctx, st, index)
		}
	case args.TargetPage != nil:
		target := *args.TargetPage
		op = func(ctx context.Context, st *domain.State) (*domain.State, error) {
			return s.engine.Advance(ctx, st, target)
		}
	default:
		return QuizResponse{}, errors.New("button or target_page is required")
	}
	return s.update(ctx, args.SessionID, op)
}

func (s *Server) handleBack(ctx context.Context, request mcp.CallToolRequest, args sessionArgs) (QuizResponse, error) {
	return s.update(ctx, args.SessionID, s.engine.Back)
}

func (s *Server) handleRestart(ctx context.Context, request mcp.CallToolRequest, args sessionArgs) (QuizResponse, error) {
	return s.update(ctx, args.SessionID, s.engine.Restart)
}

func (s *Server) update(ctx context.Context, id string, op func(context.Context, *domain.State) (*domain.State, error)) (QuizResponse, error) {
	next, err := s.sessions.Update(ctx, id, func(current *domain.State) (*domain.State, error) {
		return op(ctx, current)
	})
	if err != nil {
		return QuizResponse{}, err
	}
	return s.respond(ctx, next)
}

func (s *Server) respond(ctx context.Context, state *domain.State) (QuizResponse, error) {
	view, err := s.engine.Render(ctx, state)
	if err != nil {
		return QuizResponse{}, fmt.Errorf("render failed: %w", err)
	}
	return QuizResponse{SessionID: state.SessionID, View: view}, nil
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource(BrandsURI, "Brands",
		mcp.WithResourceDescription("Brand selector entries"),
		mcp.WithMIMEType("application/json"),
	), s.readBrands)
}

func (s *Server) readBrands(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	body, err := json.Marshal(s.engine.Brands())
	if err != nil {
		return nil, fmt.Errorf("failed to encode brands: %w", err)
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      BrandsURI,
			MIMEType: "application/json",
			Text:     string(body),
		},
	}, nil
}
