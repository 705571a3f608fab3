// Package kb provides the medical knowledge base backing the diagnosis stage.
package kb

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	qdrant "github.com/qdrant/go-client/qdrant"
	"google.golang.org/grpc"

	"github.com/clinicai/clinicai-go/internal/embedding"
)

// Snippet is one ranked piece of supporting medical reference text.
type Snippet struct {
	Content string  `json:"content"`
	Topic   string  `json:"topic,omitempty"`
	Urgency string  `json:"urgency,omitempty"`
	Score   float32 `json:"score"`
}

// Retriever returns ranked supporting snippets for a query.
type Retriever interface {
	Search(ctx context.Context, query string, topK int) ([]Snippet, error)
}

// QdrantRetriever implements Retriever against a qdrant collection of
// disease reference documents.
type QdrantRetriever struct {
	conn        *grpc.ClientConn
	collections qdrant.CollectionsClient
	points      qdrant.PointsClient
	embedder    embedding.Embedder
	collection  string
	logger      *slog.Logger
}

var _ Retriever = (*QdrantRetriever)(nil)

// NewQdrantRetriever connects to qdrant over grpc.
func NewQdrantRetriever(host string, port int, collection string, embedder embedding.Embedder, logger *slog.Logger) (*QdrantRetriever, error) {
	conn, err := grpc.Dial(fmt.Sprintf("%s:%d", host, port), grpc.WithInsecure())
	if err != nil {
		return nil, fmt.Errorf("connect to qdrant: %w", err)
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &QdrantRetriever{
		conn:        conn,
		collections: qdrant.NewCollectionsClient(conn),
		points:      qdrant.NewPointsClient(conn),
		embedder:    embedder,
		collection:  collection,
		logger:      logger,
	}, nil
}

// Close releases the grpc connection.
func (r *QdrantRetriever) Close() error {
	return r.conn.Close()
}

// EnsureCollection creates the collection if it does not exist. The vector
// size follows the configured embedder.
func (r *QdrantRetriever) EnsureCollection(ctx context.Context) error {
	_, err := r.collections.Create(ctx, &qdrant.CreateCollection{
		CollectionName: r.collection,
		VectorsConfig: &qdrant.VectorsConfig{
			Config: &qdrant.VectorsConfig_Params{
				Params: &qdrant.VectorParams{
					Size:     uint64(r.embedder.Dimension()),
					Distance: qdrant.Distance_Cosine,
				},
			},
		},
	})
	if err != nil && !strings.Contains(err.Error(), "already exists") {
		return fmt.Errorf("create collection %s: %w", r.collection, err)
	}
	return nil
}

// LoadDocuments embeds and upserts reference documents into the collection.
// Upserts are keyed by a UUID derived per call; loading is an operator action
// and replaces nothing implicitly.
func (r *QdrantRetriever) LoadDocuments(ctx context.Context, docs []Document) error {
	if len(docs) == 0 {
		return nil
	}

	texts := make([]string, len(docs))
	for i, doc := range docs {
		texts[i] = doc.Content
	}

	vectors, err := r.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return fmt.Errorf("embed documents: %w", err)
	}

	points := make([]*qdrant.PointStruct, len(docs))
	for i, doc := range docs {
		points[i] = &qdrant.PointStruct{
			Id: &qdrant.PointId{
				PointIdOptions: &qdrant.PointId_Uuid{Uuid: uuid.New().String()},
			},
			Vectors: &qdrant.Vectors{
				VectorsOptions: &qdrant.Vectors_Vector{
					Vector: &qdrant.Vector{Data: vectors[i]},
				},
			},
			Payload: map[string]*qdrant.Value{
				"content": {Kind: &qdrant.Value_StringValue{StringValue: doc.Content}},
				"topic":   {Kind: &qdrant.Value_StringValue{StringValue: doc.Topic}},
				"urgency": {Kind: &qdrant.Value_StringValue{StringValue: doc.Urgency}},
			},
		}
	}

	_, err = r.points.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: r.collection,
		Points:         points,
	})
	if err != nil {
		return fmt.Errorf("upsert documents: %w", err)
	}

	r.logger.Info("knowledge base loaded", "collection", r.collection, "documents", len(docs))
	return nil
}

// Search embeds the query and returns the topK nearest reference snippets.
func (r *QdrantRetriever) Search(ctx context.Context, query string, topK int) ([]Snippet, error) {
	if topK <= 0 {
		topK = 3
	}

	vector, err := r.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	resp, err := r.points.Search(ctx, &qdrant.SearchPoints{
		CollectionName: r.collection,
		Vector:         vector,
		Limit:          uint64(topK),
		WithPayload: &qdrant.WithPayloadSelector{
			SelectorOptions: &qdrant.WithPayloadSelector_Enable{Enable: true},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("search knowledge base: %w", err)
	}

	snippets := make([]Snippet, 0, len(resp.Result))
	for _, point := range resp.Result {
		snippets = append(snippets, Snippet{
			Content: payloadString(point.Payload, "content"),
			Topic:   payloadString(point.Payload, "topic"),
			Urgency: payloadString(point.Payload, "urgency"),
			Score:   point.Score,
		})
	}
	return snippets, nil
}

func payloadString(payload map[string]*qdrant.Value, key string) string {
	if payload == nil {
		return ""
	}
	if v, ok := payload[key]; ok {
		return v.GetStringValue()
	}
	return ""
}
