package catalog

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/ajitpratap0/openclaw-concierge/internal/models"
)

// catalogQuery returns every catalog node in a stable order.
const catalogQuery = `MATCH (i:CatalogItem) RETURN i ORDER BY i.position, i.id`

// NodeQuerier runs a read query and returns the properties of the node bound
// to key in each record.
type NodeQuerier interface {
	QueryNodes(ctx context.Context, query string, params map[string]any, key string) ([]map[string]any, error)
}

// Neo4jSource reads CatalogItem nodes from a graph database. Node properties
// are flat; list properties hold strings and absent properties stay absent.
type Neo4jSource struct {
	querier NodeQuerier
	logger  *slog.Logger
}

// NewNeo4jSource creates a source over an arbitrary querier.
func NewNeo4jSource(q NodeQuerier, logger *slog.Logger) *Neo4jSource {
	if logger == nil {
		logger = slog.Default()
	}
	return &Neo4jSource{querier: q, logger: logger}
}

// Snapshot loads and validates every CatalogItem node.
func (s *Neo4jSource) Snapshot(ctx context.Context) (Snapshot, error) {
	nodes, err := s.querier.QueryNodes(ctx, catalogQuery, nil, "i")
	if err != nil {
		return Snapshot{}, fmt.Errorf("querying neo4j catalog: %w", err)
	}
	items := make([]models.CatalogItem, 0, len(nodes))
	for _, props := range nodes {
		items = append(items, itemFromProps(props))
	}
	s.logger.Debug("loaded neo4j catalog", "items", len(items))
	return NewSnapshot(items)
}

// Neo4jQuerier executes queries through the official driver.
type Neo4jQuerier struct {
	driver   neo4j.DriverWithContext
	database string
}

// DialNeo4j connects to uri with basic auth and verifies connectivity.
func DialNeo4j(ctx context.Context, uri, username, password, database string) (*Neo4jQuerier, error) {
	driver, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(username, password, ""))
	if err != nil {
		return nil, fmt.Errorf("creating neo4j driver: %w", err)
	}
	if err := driver.VerifyConnectivity(ctx); err != nil {
		_ = driver.Close(ctx)
		return nil, fmt.Errorf("connecting to neo4j at %s: %w", uri, err)
	}
	return &Neo4jQuerier{driver: driver, database: database}, nil
}

// QueryNodes implements NodeQuerier.
func (q *Neo4jQuerier) QueryNodes(ctx context.Context, query string, params map[string]any, key string) ([]map[string]any, error) {
	opts := []neo4j.ExecuteQueryConfigurationOption{neo4j.ExecuteQueryWithReadersRouting()}
	if q.database != "" {
		opts = append(opts, neo4j.ExecuteQueryWithDatabase(q.database))
	}
	res, err := neo4j.ExecuteQuery(ctx, q.driver, query, params, neo4j.EagerResultTransformer, opts...)
	if err != nil {
		return nil, err
	}
	out := make([]map[string]any, 0, len(res.Records))
	for _, rec := range res.Records {
		node, isNil, err := neo4j.GetRecordValue[neo4j.Node](rec, key)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", key, err)
		}
		if isNil {
			continue
		}
		out = append(out, node.Props)
	}
	return out, nil
}

// Close releases the driver.
func (q *Neo4jQuerier) Close(ctx context.Context) error {
	return q.driver.Close(ctx)
}

func itemFromProps(p map[string]any) models.CatalogItem {
	item := models.CatalogItem{
		ID:           stringProp(p, "id"),
		Name:         stringProp(p, "name"),
		Kind:         models.ItemKind(stringProp(p, "kind")),
		Category:     stringProp(p, "category"),
		Description:  stringProp(p, "description"),
		Rating:       floatProp(p, "rating"),
		ReviewCount:  intProp(p, "review_count"),
		PriceTier:    intProp(p, "price_tier"),
		Capacity:     intProp(p, "capacity"),
		Tags:         listProp(p, "tags"),
		Features:     listProp(p, "features"),
		Specialties:  listProp(p, "specialties"),
		MenuKeywords: listProp(p, "menu_keywords"),
		Zone:         stringProp(p, "zone"),
	}
	if b := boolProp(p, "sponsored"); b != nil {
		item.Sponsored = *b
	}
	lat, lng := floatProp(p, "lat"), floatProp(p, "lng")
	if lat != nil && lng != nil {
		item.Coordinates = &models.Coordinates{Lat: *lat, Lng: *lng}
	}

	profile := models.ItemProfile{
		Cuisine:         listProp(p, "cuisine"),
		Ambiance:        listProp(p, "ambiance"),
		Activities:      listProp(p, "activities"),
		Music:           listProp(p, "music"),
		Environment:     listProp(p, "environment"),
		Allergens:       listProp(p, "allergens"),
		IntoleranceFree: listProp(p, "intolerance_free"),
		DietaryOptions:  listProp(p, "dietary_options"),
		OpeningSlots:    listProp(p, "opening_slots"),
		FloorLevel:      intProp(p, "floor_level"),
		PoolDepthMeters: floatProp(p, "pool_depth_meters"),
		PetsAllowed:     boolProp(p, "pets_allowed"),
		Indoor:          boolProp(p, "indoor"),
		HasWindows:      boolProp(p, "has_windows"),
	}
	if !isZeroProfile(profile) {
		item.Profile = &profile
	}
	return item
}

func isZeroProfile(p models.ItemProfile) bool {
	return p.Cuisine == nil && p.Ambiance == nil && p.Activities == nil && p.Music == nil &&
		p.Environment == nil && p.Allergens == nil && p.IntoleranceFree == nil &&
		p.DietaryOptions == nil && p.OpeningSlots == nil && p.FloorLevel == nil &&
		p.PoolDepthMeters == nil && p.PetsAllowed == nil && p.Indoor == nil && p.HasWindows == nil
}

func stringProp(p map[string]any, key string) string {
	s, _ := p[key].(string)
	return s
}

func floatProp(p map[string]any, key string) *float64 {
	switch v := p[key].(type) {
	case float64:
		return &v
	case int64:
		f := float64(v)
		return &f
	default:
		return nil
	}
}

func intProp(p map[string]any, key string) *int {
	switch v := p[key].(type) {
	case int64:
		n := int(v)
		return &n
	case float64:
		n := int(v)
		return &n
	default:
		return nil
	}
}

func boolProp(p map[string]any, key string) *bool {
	if v, ok := p[key].(bool); ok {
		return &v
	}
	return nil
}

// listProp returns nil when the property is absent and an empty slice when it
// is an empty list, so "undeclared" stays distinct from "declared none".
func listProp(p map[string]any, key string) []string {
	raw, ok := p[key]
	if !ok || raw == nil {
		return nil
	}
	switch v := raw.(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, e := range v {
			if s, ok := e.(string); ok {
				out = append(out, s)
			}
		}
		return out
	case string:
		return []string{v}
	default:
		return nil
	}
}
