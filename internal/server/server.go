// Package server wires all MCP components and creates the server instance.
//
// This is the composition root (DIP): it creates concrete implementations
// and injects them into the tools/prompts/resources that depend on abstractions.
// No business logic lives here, only wiring.
package server

import (
	"fmt"
	"log"

	"github.com/HendryAvila/dossier/internal/catalog"
	"github.com/HendryAvila/dossier/internal/config"
	"github.com/HendryAvila/dossier/internal/engine"
	"github.com/HendryAvila/dossier/internal/metrics"
	"github.com/HendryAvila/dossier/internal/narrative"
	"github.com/HendryAvila/dossier/internal/profile"
	"github.com/HendryAvila/dossier/internal/prompts"
	"github.com/HendryAvila/dossier/internal/resources"
	"github.com/HendryAvila/dossier/internal/session"
	"github.com/HendryAvila/dossier/internal/templates"
	"github.com/HendryAvila/dossier/internal/tools"
	"github.com/mark3labs/mcp-go/server"
)

// Version is set at build time via ldflags.
var Version = "dev"

// New creates and configures the MCP server with all tools, prompts,
// and resources registered. This is the single place where all
// dependencies are resolved.
//
// The returned cleanup function closes the session store's database
// connection and must be called on shutdown (typically via defer).
// It is always non-nil and safe to call even if session init failed.
func New(cfg *config.Config, m *metrics.Metrics) (*server.MCPServer, func(), error) {
	// --- Create shared dependencies ---

	cat, err := catalog.Default()
	if err != nil {
		return nil, noop, fmt.Errorf("loading catalog: %w", err)
	}
	content, err := narrative.DefaultContent()
	if err != nil {
		return nil, noop, fmt.Errorf("loading narrative content: %w", err)
	}
	blends, err := profile.DefaultBlends()
	if err != nil {
		return nil, noop, fmt.Errorf("loading hybrid blends: %w", err)
	}

	renderer, err := templates.NewRenderer()
	if err != nil {
		return nil, noop, fmt.Errorf("creating template renderer: %w", err)
	}

	// --- Create the MCP server ---

	s := server.NewMCPServer(
		"dossier",
		Version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, true),
		server.WithPromptCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions(serverInstructions()),
	)

	// --- Create the engine ---
	//
	// With sampling on, the engine asks the client's model for reaction
	// text and memoizes it; anything unusable falls back to templates.

	opts := []engine.Option{engine.WithMetrics(m)}
	if cfg.Sampling {
		s.EnableSampling()
		var gen narrative.Generator = newSamplingGenerator(s, cfg.SamplingTimeout)
		if cfg.OverrideCacheSize > 0 {
			cached, err := narrative.NewCachedGenerator(gen, cfg.OverrideCacheSize)
			if err != nil {
				return nil, noop, fmt.Errorf("creating reaction cache: %w", err)
			}
			gen = cached
		}
		opts = append(opts, engine.WithGenerator(gen))
	}
	eng := engine.New(cat, content, blends, cfg.EngineConfig(), opts...)

	// --- Register stateless surface ---
	//
	// Scoring a pasted answer list needs no session, so it stays
	// available even when the session store cannot be opened.

	scoreTool := tools.NewScoreTool(eng)
	s.AddTool(scoreTool.Definition(), scoreTool.Handle)

	scorePrompt := prompts.NewScorePrompt()
	s.AddPrompt(scorePrompt.Definition(), scorePrompt.Handle)

	// --- Register session tools ---

	store, storeErr := session.New(cfg.DataDir)
	if storeErr != nil {
		log.Printf("WARNING: session store disabled: %v", storeErr)
		resourceHandler := resources.NewHandler(cat, nil)
		s.AddResource(resourceHandler.CatalogResource(), resourceHandler.HandleCatalog)
		return s, noop, nil
	}
	cleanup := func() {
		if err := store.Close(); err != nil {
			log.Printf("WARNING: session store close: %v", err)
		}
	}

	rand := narrative.NewSource(cfg.Seed)

	startTool := tools.NewStartTool(store, eng, renderer)
	s.AddTool(startTool.Definition(), startTool.Handle)

	answerTool := tools.NewAnswerTool(store, eng, rand)
	s.AddTool(answerTool.Definition(), answerTool.Handle)

	transitionTool := tools.NewTransitionTool(store, eng, renderer)
	s.AddTool(transitionTool.Definition(), transitionTool.Handle)

	resultTool := tools.NewResultTool(store, eng, renderer)
	s.AddTool(resultTool.Definition(), resultTool.Handle)

	// --- Register prompts ---

	startPrompt := prompts.NewStartPrompt()
	s.AddPrompt(startPrompt.Definition(), startPrompt.Handle)

	// --- Register resources ---

	resourceHandler := resources.NewHandler(cat, store)
	s.AddResource(resourceHandler.CatalogResource(), resourceHandler.HandleCatalog)
	s.AddResourceTemplate(resourceHandler.SessionTemplate(), resourceHandler.HandleSession)

	return s, cleanup, nil
}

// noop is a no-op cleanup function used when the session store is
// disabled or hasn't been initialized.
func noop() {}

// serverInstructions returns the system instructions that tell the AI
// how to run an evaluation.
func serverInstructions() string {
	return `You have access to Dossier, an agent-evaluation quiz server.

## WHEN TO ACTIVATE Dossier

Offer an evaluation when the user asks for a personality quiz, wants to
know "what kind of agent" they are, or invokes the dossier-start prompt.

## THE FLOW

1. quiz_start creates a session and returns the phase 1 questions.
2. For every question, collect the user's ranked picks (up to three,
   most preferred first) and call quiz_answer. Read the returned reaction
   to the user verbatim.
3. When quiz_answer reports a phase complete, call quiz_transition. It
   returns the interim review and the next phase's questions.
4. After phase 3, call quiz_result and present the dossier.

Answers can be changed while their phase is open: call quiz_answer again
for the same question. Answers from a closed phase cannot be changed.

## REACTIONS

quiz_answer accepts an optional override: {"text": "..."}. Use it only if
you want to write the reaction yourself. Keep it to one or two plain
sentences, in the voice of a dry intelligence bureaucracy. Template
syntax and anything over 280 characters is rejected and a stock reaction
is used instead.

## RULES

- Never reveal scoring weights or which category an option feeds.
- Never invent standings; present what quiz_transition and quiz_result return.
- quiz_score grades a pasted answer list without a session. Use it when
  the user already has answers and does not want to play through.
- The dossier://catalog resource lists every question and option.
  dossier://sessions/{id} shows a session's stage and answers.`
}
