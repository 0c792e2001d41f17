// internal/workers/fulfillment/process-requests/search.go
package processrequests

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
)

// ElasticsearchIndex answers cuisine lookups with restaurant ids from the
// restaurants index. Implements RestaurantSearcher.
type ElasticsearchIndex struct {
	client *elasticsearch.Client
	index  string
}

func NewElasticsearchIndex(client *elasticsearch.Client, index string) *ElasticsearchIndex {
	return &ElasticsearchIndex{client: client, index: index}
}

type searchResponse struct {
	Hits struct {
		Hits []struct {
			Source struct {
				RestaurantID string `json:"restaurant_id"`
			} `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

// SearchByCuisine runs an exact term match on the cuisine field and returns
// the restaurant ids of up to size hits. Hits without an id are dropped.
func (s *ElasticsearchIndex) SearchByCuisine(ctx context.Context, cuisine string, size int) ([]string, error) {
	queryBody := map[string]interface{}{
		"size": size,
		"query": map[string]interface{}{
			"term": map[string]interface{}{"cuisine": cuisine},
		},
	}

	body, _ := json.Marshal(queryBody)

	req := esapi.SearchRequest{
		Index: []string{s.index},
		Body:  strings.NewReader(string(body)),
	}

	res, err := req.Do(ctx, s.client)
	if err != nil {
		return nil, fmt.Errorf("search request: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("search error: %s", res.Status())
	}

	var parsed searchResponse
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	ids := make([]string, 0, len(parsed.Hits.Hits))
	for _, hit := range parsed.Hits.Hits {
		if hit.Source.RestaurantID != "" {
			ids = append(ids, hit.Source.RestaurantID)
		}
	}

	return ids, nil
}
