package repository

import (
	"context"
	"crypto/tls"
	"fmt"

	"github.com/google/uuid"
	pb "github.com/qdrant/go-client/qdrant"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
)

const (
	defaultVectorDimension = 512
)

// QdrantConnectionConfig holds configuration for Qdrant connection
type QdrantConnectionConfig struct {
	Host            string
	Port            int
	Collection      string
	APIKey          string // Qdrant Cloud API Key (enables TLS automatically)
	UseTLS          bool   // Explicitly enable TLS without API Key
	VectorDimension int
}

// apiKeyInterceptor creates a unary interceptor that adds API key to metadata
func apiKeyInterceptor(apiKey string) grpc.UnaryClientInterceptor {
	return func(ctx context.Context, method string, req, reply interface{}, cc *grpc.ClientConn, invoker grpc.UnaryInvoker, opts ...grpc.CallOption) error {
		ctx = metadata.AppendToOutgoingContext(ctx, "api-key", apiKey)
		return invoker(ctx, method, req, reply, cc, opts...)
	}
}

// QdrantRepository handles vector operations with Qdrant
type QdrantRepository struct {
	conn            *grpc.ClientConn
	pointsClient    pb.PointsClient
	collectClient   pb.CollectionsClient
	collectionName  string
	vectorDimension int
}

// NewQdrantRepository creates a new QdrantRepository.
// Supports both local Qdrant (insecure) and Qdrant Cloud (TLS + API Key).
func NewQdrantRepository(cfg *QdrantConnectionConfig) (*QdrantRepository, error) {
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)

	vectorDimension := cfg.VectorDimension
	if vectorDimension <= 0 {
		vectorDimension = defaultVectorDimension
	}

	var opts []grpc.DialOption

	useTLS := cfg.UseTLS || cfg.APIKey != ""
	if useTLS {
		// Qdrant Cloud requires TLS 1.3 minimum
		tlsConfig := &tls.Config{
			MinVersion: tls.VersionTLS13,
		}
		opts = append(opts, grpc.WithTransportCredentials(credentials.NewTLS(tlsConfig)))
		if cfg.APIKey != "" {
			opts = append(opts, grpc.WithUnaryInterceptor(apiKeyInterceptor(cfg.APIKey)))
		}
	} else {
		opts = append(opts, grpc.WithTransportCredentials(insecure.NewCredentials()))
	}

	conn, err := grpc.NewClient(addr, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to qdrant: %w", err)
	}

	return &QdrantRepository{
		conn:            conn,
		pointsClient:    pb.NewPointsClient(conn),
		collectClient:   pb.NewCollectionsClient(conn),
		collectionName:  cfg.Collection,
		vectorDimension: vectorDimension,
	}, nil
}

// Close closes the gRPC connection
func (r *QdrantRepository) Close() error {
	return r.conn.Close()
}

// Collection returns the collection name this repository operates on.
func (r *QdrantRepository) Collection() string {
	return r.collectionName
}

// EnsureCollection creates the collection if it doesn't exist and verifies the
// vector dimension of an existing one; a mismatched dimension means the store
// was built with a different embedding configuration and is unusable.
func (r *QdrantRepository) EnsureCollection(ctx context.Context) error {
	info, err := r.collectClient.Get(ctx, &pb.GetCollectionInfoRequest{
		CollectionName: r.collectionName,
	})
	if err == nil {
		if size, ok := collectionVectorSize(info.GetResult()); ok {
			if size != uint64(r.vectorDimension) {
				return fmt.Errorf("collection %s has vector size %d, expected %d", r.collectionName, size, r.vectorDimension)
			}
		}
		return nil
	}

	_, err = r.collectClient.Create(ctx, &pb.CreateCollection{
		CollectionName: r.collectionName,
		VectorsConfig: &pb.VectorsConfig{
			Config: &pb.VectorsConfig_Params{
				Params: &pb.VectorParams{
					Size:     uint64(r.vectorDimension),
					Distance: pb.Distance_Cosine,
				},
			},
		},
		HnswConfig: &pb.HnswConfigDiff{
			M:                 optionalUint64(16),
			EfConstruct:       optionalUint64(128),
			FullScanThreshold: optionalUint64(10000),
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create collection: %w", err)
	}

	return nil
}

func optionalUint64(v uint64) *uint64 {
	return &v
}

func optionalBool(v bool) *bool {
	return &v
}

func collectionVectorSize(info *pb.CollectionInfo) (uint64, bool) {
	if info == nil {
		return 0, false
	}

	config := info.GetConfig()
	if config == nil {
		return 0, false
	}

	params := config.GetParams()
	if params == nil {
		return 0, false
	}

	vectors := params.GetVectorsConfig()
	if vectors == nil {
		return 0, false
	}

	if single := vectors.GetParams(); single != nil {
		if size := single.GetSize(); size > 0 {
			return size, true
		}
	}

	return 0, false
}

// Count returns the exact number of points in the collection.
func (r *QdrantRepository) Count(ctx context.Context) (uint64, error) {
	resp, err := r.pointsClient.Count(ctx, &pb.CountPoints{
		CollectionName: r.collectionName,
		Exact:          optionalBool(true),
	})
	if err != nil {
		return 0, fmt.Errorf("failed to count points: %w", err)
	}
	return resp.GetResult().GetCount(), nil
}

// ProductPayload is the display metadata stored alongside each vector. The
// store owns this copy after upsert; search results are rendered from it
// without another catalog lookup.
type ProductPayload struct {
	ProductID       string `json:"product_id"`
	Title           string `json:"title"`
	Category        string `json:"category"`
	Price           int64  `json:"price"`
	Description     string `json:"description"`
	DiscountPercent int    `json:"discount_percent"`
}

// ProductPoint is one upsert record: product id, its embedding, and payload.
type ProductPoint struct {
	ProductID string
	Vector    []float32
	Payload   *ProductPayload
}

// PointID returns the deterministic Qdrant point UUID for a product id.
// Qdrant only accepts UUID or integer point ids, so the catalog id is hashed
// together with the collection name and kept in the payload instead.
func (r *QdrantRepository) PointID(productID string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(r.collectionName+"/"+productID)).String()
}

// UpsertBatch inserts or overwrites a batch of product points.
func (r *QdrantRepository) UpsertBatch(ctx context.Context, points []ProductPoint) error {
	if len(points) == 0 {
		return nil
	}

	pbPoints := make([]*pb.PointStruct, len(points))
	for i, point := range points {
		pbPoints[i] = &pb.PointStruct{
			Id: &pb.PointId{
				PointIdOptions: &pb.PointId_Uuid{
					Uuid: r.PointID(point.ProductID),
				},
			},
			Vectors: &pb.Vectors{
				VectorsOptions: &pb.Vectors_Vector{
					Vector: &pb.Vector{
						Data: point.Vector,
					},
				},
			},
			Payload: map[string]*pb.Value{
				"product_id":       {Kind: &pb.Value_StringValue{StringValue: point.Payload.ProductID}},
				"title":            {Kind: &pb.Value_StringValue{StringValue: point.Payload.Title}},
				"category":         {Kind: &pb.Value_StringValue{StringValue: point.Payload.Category}},
				"price":            {Kind: &pb.Value_IntegerValue{IntegerValue: point.Payload.Price}},
				"description":      {Kind: &pb.Value_StringValue{StringValue: point.Payload.Description}},
				"discount_percent": {Kind: &pb.Value_IntegerValue{IntegerValue: int64(point.Payload.DiscountPercent)}},
			},
		}
	}

	_, err := r.pointsClient.Upsert(ctx, &pb.UpsertPoints{
		CollectionName: r.collectionName,
		Points:         pbPoints,
	})
	if err != nil {
		return fmt.Errorf("failed to upsert points: %w", err)
	}

	return nil
}

// SearchResult represents a search result from Qdrant
type SearchResult struct {
	ID      string
	Score   float32
	Payload *ProductPayload
}

// Search performs a vector similarity search and returns results in
// similarity-descending order. Category and price filtering happen client-side
// in the search service, so no store-side filter is applied here.
func (r *QdrantRepository) Search(ctx context.Context, vector []float32, limit int) ([]SearchResult, error) {
	resp, err := r.pointsClient.Search(ctx, &pb.SearchPoints{
		CollectionName: r.collectionName,
		Vector:         vector,
		Limit:          uint64(limit),
		WithPayload: &pb.WithPayloadSelector{
			SelectorOptions: &pb.WithPayloadSelector_Enable{Enable: true},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to search: %w", err)
	}

	results := make([]SearchResult, len(resp.Result))
	for i, scored := range resp.Result {
		results[i] = SearchResult{
			ID:      scored.Id.GetUuid(),
			Score:   scored.Score,
			Payload: parsePayload(scored.Payload),
		}
	}

	return results, nil
}

func parsePayload(payload map[string]*pb.Value) *ProductPayload {
	if payload == nil {
		return nil
	}

	p := &ProductPayload{}
	if v, ok := payload["product_id"]; ok {
		p.ProductID = v.GetStringValue()
	}
	if v, ok := payload["title"]; ok {
		p.Title = v.GetStringValue()
	}
	if v, ok := payload["category"]; ok {
		p.Category = v.GetStringValue()
	}
	if v, ok := payload["price"]; ok {
		p.Price = v.GetIntegerValue()
	}
	if v, ok := payload["description"]; ok {
		p.Description = v.GetStringValue()
	}
	if v, ok := payload["discount_percent"]; ok {
		p.DiscountPercent = int(v.GetIntegerValue())
	}

	return p
}

// Delete deletes a product's point by catalog id.
func (r *QdrantRepository) Delete(ctx context.Context, productID string) error {
	_, err := r.pointsClient.Delete(ctx, &pb.DeletePoints{
		CollectionName: r.collectionName,
		Points: &pb.PointsSelector{
			PointsSelectorOneOf: &pb.PointsSelector_Points{
				Points: &pb.PointsIdsList{
					Ids: []*pb.PointId{
						{PointIdOptions: &pb.PointId_Uuid{Uuid: r.PointID(productID)}},
					},
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to delete point: %w", err)
	}

	return nil
}
