package search

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"github.com/oksasatya/campus-events/internal/domain/entity"
)

const maxHits = 200

// EventIndex keeps catalog events in Elasticsearch for title search.
type EventIndex struct {
	ES        *elasticsearch.Client
	IndexName string
	Timeout   time.Duration
}

func NewEventIndex(es *elasticsearch.Client, index string) *EventIndex {
	return &EventIndex{ES: es, IndexName: index, Timeout: 3 * time.Second}
}

func (x *EventIndex) ctx(parent context.Context) (context.Context, context.CancelFunc) {
	t := x.Timeout
	if t <= 0 {
		t = 3 * time.Second
	}
	return context.WithTimeout(parent, t)
}

// Index upserts e under its numeric id.
func (x *EventIndex) Index(ctx context.Context, e *entity.Event) error {
	doc := map[string]any{
		"id":         e.ID,
		"title":      e.Title,
		"venue":      e.Venue,
		"category":   string(e.Category),
		"date":       e.Date.UTC().Format(time.RFC3339Nano),
		"capacity":   e.Capacity,
		"created_at": e.CreatedAt.UTC().Format(time.RFC3339Nano),
	}
	b, _ := json.Marshal(doc)
	req := esapi.IndexRequest{
		Index:      x.IndexName,
		DocumentID: strconv.FormatInt(e.ID, 10),
		Body:       strings.NewReader(string(b)),
		Refresh:    "false",
	}
	c, cancel := x.ctx(ctx)
	defer cancel()

	res, err := req.Do(c, x.ES)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return fmt.Errorf("index event %d: %s", e.ID, res.Status())
	}
	return nil
}

var wildcardEscaper = strings.NewReplacer(`\`, `\\`, `*`, `\*`, `?`, `\?`)

// SearchIDs returns ids of events whose title contains f.Title, ignoring
// case, optionally restricted to f.Category.
func (x *EventIndex) SearchIDs(ctx context.Context, f entity.EventFilter) ([]int64, error) {
	boolQuery := map[string]any{
		"must": []any{
			map[string]any{
				"wildcard": map[string]any{
					"title.keyword": map[string]any{
						"value":            "*" + wildcardEscaper.Replace(strings.TrimSpace(f.Title)) + "*",
						"case_insensitive": true,
					},
				},
			},
		},
	}
	if f.Category != "" {
		boolQuery["filter"] = []any{
			map[string]any{"term": map[string]any{"category": string(f.Category)}},
		}
	}
	query := map[string]any{
		"query":   map[string]any{"bool": boolQuery},
		"size":    maxHits,
		"_source": false,
	}
	b, _ := json.Marshal(query)

	c, cancel := x.ctx(ctx)
	defer cancel()

	res, err := x.ES.Search(
		x.ES.Search.WithContext(c),
		x.ES.Search.WithIndex(x.IndexName),
		x.ES.Search.WithBody(strings.NewReader(string(b))),
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return nil, fmt.Errorf("search events: %s", res.Status())
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID string `json:"_id"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	ids := make([]int64, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		id, err := strconv.ParseInt(h.ID, 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids, nil
}
