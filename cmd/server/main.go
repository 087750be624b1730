package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"chat-agent/internal/agent"
	"chat-agent/internal/config"
	"chat-agent/internal/handlers"
	"chat-agent/internal/llm"
	"chat-agent/internal/memory"
	"chat-agent/internal/router"
	"chat-agent/internal/search"
)

func main() {
	log.Println("Starting chat agent...")

	// ──── Load Environment Variables ────
	cfg := config.Load()
	log.Println("✓ Environment variables loaded")

	// ──── Conversation Memory ────
	var store memory.Store
	switch cfg.MemoryBackend {
	case "redis":
		redisStore, err := memory.NewRedisStore(cfg.RedisURL, cfg.MaxHistoryTurns)
		if err != nil {
			log.Fatalf("✗ Redis connection failed: %v", err)
		}
		defer redisStore.Close()
		store = redisStore
		log.Println("✓ Redis history store connected")
	default:
		store = memory.NewInMemoryStore(cfg.MaxHistoryTurns)
		log.Printf("✓ In-memory history store initialized (%d turns per thread)", cfg.MaxHistoryTurns)
	}

	// ──── LLM Provider ────
	var provider llm.Provider
	var err error
	switch cfg.LLMProvider {
	case "gemini":
		provider, err = llm.NewGemini(cfg.GeminiAPIKey, cfg.Temperature, cfg.GeminiConcurrent)
	default:
		provider, err = llm.NewOpenAI(cfg.OpenAIAPIKey, cfg.OpenAIModel, cfg.Temperature)
	}
	if err != nil {
		log.Fatalf("✗ LLM client initialization failed: %v", err)
	}
	defer provider.Close()
	log.Printf("✓ %s client initialized", cfg.LLMProvider)

	// ──── Search Tool + Agent ────
	searcher := search.NewDuckDuckGo(cfg.SearchMaxResults)
	chatAgent := agent.New(provider, searcher, cfg.AgentMaxIterations)
	log.Println("✓ Agent initialized (DuckDuckGo search)")

	// ──── Handlers + HTTP Server ────
	chatHandler := handlers.NewChatHandler(store, chatAgent)
	historyHandler := handlers.NewHistoryHandler(store)

	r := router.New(chatHandler, historyHandler, cfg.ChatRateLimit, cfg.AllowedOrigin)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second, // agent calls can be slow
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("Shutting down...")
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		server.Shutdown(ctx)
	}()

	log.Printf("✓ Chat agent ready on http://localhost:%s", cfg.Port)

	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatalf("Server error: %v", err)
	}
}
