// Package search mirrors ledger entries into Elasticsearch for audit
// queries. Indexing is best effort; the database remains the source of
// truth and index failures are only logged.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"github.com/ZainManzoor2003/mehndi-sub002/internal/common/logger"
	"github.com/ZainManzoor2003/mehndi-sub002/internal/models"
)

type LedgerIndexer struct {
	client *elasticsearch.Client
	index  string
	logger logger.Logger
}

func NewLedgerIndexer(client *elasticsearch.Client, index string, log logger.Logger) *LedgerIndexer {
	return &LedgerIndexer{
		client: client,
		index:  index,
		logger: log,
	}
}

type ledgerDocument struct {
	SenderID   string    `json:"sender_id"`
	ReceiverID string    `json:"receiver_id"`
	BookingID  string    `json:"booking_id"`
	Amount     int64     `json:"amount"`
	Kind       string    `json:"kind"`
	Commission int64     `json:"commission"`
	CreatedAt  time.Time `json:"created_at"`
	IndexedAt  time.Time `json:"indexed_at"`
}

// Index writes one ledger entry document, keyed by entry ID so the
// refund rewrite overwrites the original payment document.
func (i *LedgerIndexer) Index(ctx context.Context, entry *models.LedgerEntry) {
	if i == nil || i.client == nil {
		return
	}

	doc := ledgerDocument{
		SenderID:   entry.SenderID,
		ReceiverID: entry.ReceiverID,
		BookingID:  entry.BookingID,
		Amount:     int64(entry.Amount),
		Kind:       string(entry.Kind),
		Commission: int64(entry.Commission),
		CreatedAt:  entry.CreatedAt,
		IndexedAt:  time.Now().UTC(),
	}

	body, err := json.Marshal(doc)
	if err != nil {
		i.logger.Warn("ledger index marshal failed", map[string]interface{}{
			"entryId": entry.ID,
			"error":   err.Error(),
		})
		return
	}

	req := esapi.IndexRequest{
		Index:      i.index,
		DocumentID: entry.ID,
		Body:       bytes.NewReader(body),
	}

	res, err := req.Do(ctx, i.client)
	if err != nil {
		i.logger.Warn("ledger index request failed", map[string]interface{}{
			"entryId": entry.ID,
			"error":   err.Error(),
		})
		return
	}
	defer res.Body.Close()

	if res.IsError() {
		i.logger.Warn("ledger index rejected", map[string]interface{}{
			"entryId": entry.ID,
			"status":  res.Status(),
		})
	}
}

// SearchByBooking returns indexed entries for one booking, newest first.
func (i *LedgerIndexer) SearchByBooking(ctx context.Context, bookingID string, size int) ([]ledgerDocument, error) {
	query := map[string]interface{}{
		"query": map[string]interface{}{
			"term": map[string]interface{}{
				"booking_id": bookingID,
			},
		},
		"sort": []map[string]interface{}{
			{"created_at": map[string]string{"order": "desc"}},
		},
		"size": size,
	}

	body, err := json.Marshal(query)
	if err != nil {
		return nil, err
	}

	res, err := i.client.Search(
		i.client.Search.WithContext(ctx),
		i.client.Search.WithIndex(i.index),
		i.client.Search.WithBody(bytes.NewReader(body)),
	)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("ledger search failed: %s", res.Status())
	}

	var result struct {
		Hits struct {
			Hits []struct {
				Source ledgerDocument `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&result); err != nil {
		return nil, err
	}

	docs := make([]ledgerDocument, 0, len(result.Hits.Hits))
	for _, hit := range result.Hits.Hits {
		docs = append(docs, hit.Source)
	}
	return docs, nil
}
