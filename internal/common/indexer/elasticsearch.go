package indexer

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/elastic/go-elasticsearch/v8"

	"github.com/project-tktt/jobscout/internal/domain"
)

// ElasticsearchIndexer mirrors stored jobs into a search index
type ElasticsearchIndexer struct {
	client    *elasticsearch.Client
	indexName string
}

// NewElasticsearchIndexer creates a new Elasticsearch indexer
func NewElasticsearchIndexer(addresses []string, indexName string) (*ElasticsearchIndexer, error) {
	cfg := elasticsearch.Config{
		Addresses: addresses,
	}

	client, err := elasticsearch.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("create es client: %w", err)
	}

	// Check connection
	res, err := client.Info()
	if err != nil {
		return nil, fmt.Errorf("es info: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("es error: %s", res.Status())
	}

	return &ElasticsearchIndexer{
		client:    client,
		indexName: indexName,
	}, nil
}

// DocumentID derives a stable document id from the job link
func DocumentID(link string) string {
	h := sha256.Sum256([]byte(link))
	return hex.EncodeToString(h[:16])
}

// BulkCreate indexes jobs with the create action, so a document that is
// already present is left as it is. It returns how many documents were created.
func (i *ElasticsearchIndexer) BulkCreate(ctx context.Context, jobs []*domain.Job) (int, error) {
	if len(jobs) == 0 {
		return 0, nil
	}

	var buf bytes.Buffer
	for _, job := range jobs {
		docBytes, err := json.Marshal(job)
		if err != nil {
			log.Printf("[Search] marshal job %s: %v", job.Link, err)
			continue
		}

		meta := map[string]any{
			"create": map[string]any{
				"_index": i.indexName,
				"_id":    DocumentID(job.Link),
			},
		}
		metaBytes, _ := json.Marshal(meta)
		buf.Write(metaBytes)
		buf.WriteByte('\n')
		buf.Write(docBytes)
		buf.WriteByte('\n')
	}

	res, err := i.client.Bulk(bytes.NewReader(buf.Bytes()), i.client.Bulk.WithContext(ctx))
	if err != nil {
		return 0, fmt.Errorf("bulk request: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return 0, fmt.Errorf("bulk error: %s", res.Status())
	}

	// Parse response to check for individual errors
	var bulkRes struct {
		Errors bool `json:"errors"`
		Items  []struct {
			Create struct {
				ID     string `json:"_id"`
				Status int    `json:"status"`
				Error  struct {
					Type   string `json:"type"`
					Reason string `json:"reason"`
				} `json:"error"`
			} `json:"create"`
		} `json:"items"`
	}

	if err := json.NewDecoder(res.Body).Decode(&bulkRes); err != nil {
		return 0, fmt.Errorf("parse bulk response: %w", err)
	}

	created := 0
	for _, item := range bulkRes.Items {
		switch {
		case item.Create.Status == http.StatusConflict:
			// already mirrored
		case item.Create.Status >= 400:
			log.Printf("[Search] bulk create error for %s: %s - %s",
				item.Create.ID, item.Create.Error.Type, item.Create.Error.Reason)
		default:
			created++
		}
	}

	return created, nil
}

// EnsureIndex creates the jobs index if it doesn't exist
func (i *ElasticsearchIndexer) EnsureIndex(ctx context.Context) error {
	// Check if index exists
	res, err := i.client.Indices.Exists([]string{i.indexName}, i.client.Indices.Exists.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("check index: %w", err)
	}
	res.Body.Close()

	if res.StatusCode == http.StatusOK {
		return nil // Index already exists
	}

	// asciifolding matches the diacritic folding used by the classifier
	mapping := `{
		"settings": {
			"analysis": {
				"analyzer": {
					"folding_analyzer": {
						"type": "custom",
						"tokenizer": "standard",
						"filter": ["lowercase", "asciifolding"]
					}
				}
			}
		},
		"mappings": {
			"properties": {
				"title": {
					"type": "text",
					"analyzer": "folding_analyzer",
					"fields": {"keyword": {"type": "keyword"}}
				},
				"link": {"type": "keyword"},
				"published_date": {"type": "keyword"},
				"source": {"type": "keyword"},
				"company": {
					"type": "text",
					"analyzer": "folding_analyzer",
					"fields": {"keyword": {"type": "keyword"}}
				},
				"description": {"type": "text", "analyzer": "folding_analyzer"},
				"location": {"type": "text", "analyzer": "folding_analyzer"},
				"location_category": {"type": "keyword"},
				"job_role": {"type": "keyword"},
				"experience_level": {"type": "keyword"},
				"scraped_at": {"type": "date"}
			}
		}
	}`

	res, err = i.client.Indices.Create(
		i.indexName,
		i.client.Indices.Create.WithBody(bytes.NewReader([]byte(mapping))),
		i.client.Indices.Create.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("create index: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("create index error: %s", res.Status())
	}

	return nil
}
