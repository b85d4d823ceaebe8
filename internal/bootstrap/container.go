package bootstrap

import (
	"log"
	"os"

	"iso20022-assistant-be/internal/config"
	"iso20022-assistant-be/internal/controller"
	"iso20022-assistant-be/internal/pkg/logger"
	"iso20022-assistant-be/internal/service"
	"iso20022-assistant-be/pkg/catalog"
	"iso20022-assistant-be/pkg/docstore"
	"iso20022-assistant-be/pkg/llm"
	"iso20022-assistant-be/pkg/llm/factory"
	"iso20022-assistant-be/pkg/llm/huggingface"
	"iso20022-assistant-be/pkg/rag/compose"
	"iso20022-assistant-be/pkg/rag/intent"
	"iso20022-assistant-be/pkg/rag/locate"
	"iso20022-assistant-be/pkg/rewrite"
)

type Container struct {
	// Controllers
	ChatController controller.IChatController
}

func NewContainer(store *docstore.Store, cfg *config.Config) *Container {
	// 1. Core Facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. Document Index
	cat := catalog.New()
	classifier := intent.NewClassifier(cat)
	locator := locate.New(cat)
	composer := compose.New(cat, cfg.App.BaseURL)

	// 3. Rewrite Providers
	// Primary per config; the HuggingFace router is kept as fallback when a
	// token is configured and it is not already the primary.
	primary, err := factory.NewLLMProvider(factory.Config{
		Provider: cfg.Ai.LLMProvider,
		Model:    cfg.Ai.LLMModel,
		BaseURL:  cfg.Ai.OllamaBaseURL,
		APIKey:   cfg.Ai.HuggingFaceToken,
	})
	if err != nil {
		log.Printf("[WARN] Failed to initialize LLM Provider: %v (rewrite disabled)", err)
	} else {
		log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)
	}

	var fallback llm.LLMProvider
	if cfg.Ai.LLMProvider != "huggingface" && cfg.Ai.HuggingFaceToken != "" {
		fallback = huggingface.NewHuggingFaceProvider(cfg.Ai.HuggingFaceToken, "", cfg.Ai.HuggingFaceModel)
		log.Printf("[INFO] Rewrite fallback: HuggingFace (%s)", cfg.Ai.HuggingFaceModel)
	}

	rewriteLogger := log.New(os.Stdout, "[REWRITE] ", log.LstdFlags)
	rewriter := rewrite.New(primary, fallback, cfg.Ai.RewriteTimeout, cfg.Ai.RewriteEnabled && err == nil, rewriteLogger)

	// 4. Services
	chatService := service.NewChatService(classifier, locator, store, composer, rewriter, sysLogger)

	// 5. Controllers
	return &Container{
		ChatController: controller.NewChatController(chatService),
	}
}
