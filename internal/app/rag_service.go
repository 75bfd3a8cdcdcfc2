package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"pdfchat/internal/ai"
	"pdfchat/internal/model"
	"pdfchat/internal/pkg/textsplit"
	"pdfchat/internal/repository"
)

const (
	defaultChunkSize    = 10000
	defaultChunkOverlap = 1000
	retrievalTopK       = 4
	embeddingBatchSize  = 10 // embedding APIs often limit batch size
)

// refusalSentence is the fixed answer the model is instructed to emit when
// the retrieved context does not contain the answer.
const refusalSentence = "Sorry, the question is out of context documents!"

var (
	ErrEmptyDocument = errors.New("no text could be extracted from the uploaded files")
	ErrNoDocuments   = errors.New("no documents have been processed yet")
	ErrEmptyAnswer   = errors.New("model returned an empty answer")
)

// AsyncHistoryPublisher enqueues chat history entries for background
// persistence.
type AsyncHistoryPublisher interface {
	Publish(ctx context.Context, entry model.ChatHistory) error
}

// StatusCache caches the store counts reported by the status endpoint.
type StatusCache interface {
	GetCounts(ctx context.Context) (chunks, history int64, hit bool, err error)
	SetCounts(ctx context.Context, chunks, history int64) error
	Invalidate(ctx context.Context) error
}

type RAGService struct {
	chunkRepo   *repository.ChunkRepository
	historyRepo *repository.HistoryRepository
	publisher   AsyncHistoryPublisher
	statusCache StatusCache
	llmClient   *ai.Client
	embConfig   ai.EmbeddingConfig
	chatConfig  ai.ChatConfig
	splitter    *textsplit.Splitter
}

func NewRAGService(
	chunkRepo *repository.ChunkRepository,
	historyRepo *repository.HistoryRepository,
	publisher AsyncHistoryPublisher,
	statusCache StatusCache,
	llmClient *ai.Client,
	embConfig ai.EmbeddingConfig,
	chatConfig ai.ChatConfig,
) *RAGService {
	return &RAGService{
		chunkRepo:   chunkRepo,
		historyRepo: historyRepo,
		publisher:   publisher,
		statusCache: statusCache,
		llmClient:   llmClient,
		embConfig:   embConfig,
		chatConfig:  chatConfig,
		splitter:    textsplit.New(defaultChunkSize, defaultChunkOverlap),
	}
}

type IngestInput struct {
	DocumentName string
	Text         string
}

type IngestResult struct {
	ChunkCount int
}

// Ingest chunks the extracted text, embeds each chunk, and persists the whole
// batch atomically with contiguous 0-based chunk indexes.
func (s *RAGService) Ingest(ctx context.Context, input IngestInput) (*IngestResult, error) {
	text := strings.TrimSpace(input.Text)
	if text == "" {
		return nil, ErrEmptyDocument
	}

	chunks := s.splitter.Split(text)
	if len(chunks) == 0 {
		return nil, ErrEmptyDocument
	}

	var embeddings [][]float32
	for i := 0; i < len(chunks); i += embeddingBatchSize {
		end := i + embeddingBatchSize
		if end > len(chunks) {
			end = len(chunks)
		}
		batched, err := s.llmClient.EmbedBatch(ctx, s.embConfig, chunks[i:end])
		if err != nil {
			return nil, err
		}
		embeddings = append(embeddings, batched...)
	}
	if len(embeddings) != len(chunks) {
		return nil, fmt.Errorf("embedding count mismatch: %d chunks, %d vectors", len(chunks), len(embeddings))
	}
	for i, vec := range embeddings {
		if len(vec) != s.embConfig.Dim {
			return nil, fmt.Errorf("embedding %d has dimension %d, store requires %d", i, len(vec), s.embConfig.Dim)
		}
	}

	records := chunkRecords(input.DocumentName, chunks, embeddings)
	if err := s.chunkRepo.CreateBatch(records); err != nil {
		return nil, err
	}

	s.invalidateStatus(ctx)
	return &IngestResult{ChunkCount: len(records)}, nil
}

// Ask embeds the question, retrieves the nearest chunks, and generates an
// answer from them. The history entry is logged best-effort: a logging
// failure never turns a successful answer into an error.
func (s *RAGService) Ask(ctx context.Context, question string) (string, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return "", ErrInvalidInput
	}

	count, err := s.chunkRepo.Count()
	if err != nil {
		return "", err
	}
	if count == 0 {
		return "", ErrNoDocuments
	}

	queryEmb, err := s.llmClient.Embed(ctx, s.embConfig, question)
	if err != nil {
		return "", err
	}
	if len(queryEmb) != s.embConfig.Dim {
		return "", fmt.Errorf("query embedding has dimension %d, store requires %d", len(queryEmb), s.embConfig.Dim)
	}

	chunks, err := s.chunkRepo.ListAll()
	if err != nil {
		return "", err
	}
	if len(chunks) == 0 {
		return "", ErrNoDocuments
	}

	nearest, err := nearestChunks(chunks, queryEmb, retrievalTopK)
	if err != nil {
		return "", err
	}

	contents := make([]string, len(nearest))
	for i := range nearest {
		contents[i] = nearest[i].Chunk.Content
	}
	system, user := buildPrompt(contents, question)

	answer, err := s.llmClient.Complete(ctx, s.chatConfig, []ai.ChatMessage{
		{Role: "system", Content: system},
		{Role: "user", Content: user},
	})
	if err != nil {
		return "", err
	}
	answer = strings.TrimSpace(answer)
	if answer == "" {
		return "", ErrEmptyAnswer
	}

	s.logHistory(ctx, model.ChatHistory{UserQuery: question, ModelResponse: answer})
	return answer, nil
}

type StatusReport struct {
	ChunkCount   int64
	HistoryCount int64
}

// Status reports store counts, served from the cache when fresh.
func (s *RAGService) Status(ctx context.Context) (*StatusReport, error) {
	if s.statusCache != nil {
		if chunks, history, hit, err := s.statusCache.GetCounts(ctx); err == nil && hit {
			return &StatusReport{ChunkCount: chunks, HistoryCount: history}, nil
		}
	}

	chunks, err := s.chunkRepo.Count()
	if err != nil {
		return nil, err
	}
	history, err := s.historyRepo.Count()
	if err != nil {
		return nil, err
	}

	if s.statusCache != nil {
		if err := s.statusCache.SetCounts(ctx, chunks, history); err != nil {
			log.Printf("cache status counts failed: %v", err)
		}
	}
	return &StatusReport{ChunkCount: chunks, HistoryCount: history}, nil
}

// logHistory enqueues the entry for background persistence, falling back to a
// synchronous write when the queue is unavailable. Failures are logged, never
// returned.
func (s *RAGService) logHistory(ctx context.Context, entry model.ChatHistory) {
	if s.publisher != nil {
		err := s.publisher.Publish(ctx, entry)
		if err == nil {
			s.invalidateStatus(ctx)
			return
		}
		log.Printf("enqueue chat history failed, writing directly: %v", err)
	}
	if err := s.historyRepo.Create(&entry); err != nil {
		log.Printf("persist chat history failed: %v", err)
		return
	}
	s.invalidateStatus(ctx)
}

func (s *RAGService) invalidateStatus(ctx context.Context) {
	if s.statusCache == nil {
		return
	}
	if err := s.statusCache.Invalidate(ctx); err != nil {
		log.Printf("invalidate status cache failed: %v", err)
	}
}

// chunkRecords pairs each chunk with its embedding and a 0-based contiguous
// index within the batch.
func chunkRecords(documentName string, chunks []string, embeddings [][]float32) []model.DocumentChunk {
	records := make([]model.DocumentChunk, len(chunks))
	for i := range chunks {
		records[i] = model.DocumentChunk{
			Content:      chunks[i],
			DocumentName: documentName,
			ChunkIndex:   i,
		}
		records[i].SetEmbedding(embeddings[i])
	}
	return records
}

// buildPrompt assembles the retrieved chunk contents, in distance order, and
// the verbatim question. The instruction to answer only from the context is
// advisory; the model may still hallucinate.
func buildPrompt(contents []string, question string) (system, user string) {
	system = "Answer the question as detailed as possible from the provided context. " +
		"If the answer is not in the provided context, just say, \"" + refusalSentence + "\" " +
		"Don't provide the wrong answer."

	var b strings.Builder
	b.WriteString("Context:\n")
	for i, content := range contents {
		if i > 0 {
			b.WriteString("\n---\n")
		}
		b.WriteString(content)
	}
	b.WriteString("\n\nQuestion:\n")
	b.WriteString(question)
	b.WriteString("\n\nAnswer:")
	return system, b.String()
}
