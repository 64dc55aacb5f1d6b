package service

import (
	"context"

	"github.com/okian/wasuremon/internal/domain/model"
)

// RemoteSource reads the remote-origin log and taxonomy. Either call may
// fail; the service degrades to an empty collection.
type RemoteSource interface {
	FetchEvents(ctx context.Context) ([]model.RawEvent, error)
	FetchTaxonomy(ctx context.Context) (model.Taxonomy, error)
}

// LocalSource reads the local cache.
type LocalSource interface {
	ReadEvents(ctx context.Context) ([]model.RawEvent, error)
	ReadTaxonomy(ctx context.Context) (model.Taxonomy, error)
	ReadFeedLedger(ctx context.Context) (model.FeedLedger, error)
}

// Source names used in logs and metrics.
const (
	SourceRemoteEvents   = "remote_events"
	SourceRemoteTaxonomy = "remote_taxonomy"
	SourceLocalEvents    = "local_events"
	SourceLocalTaxonomy  = "local_taxonomy"
	SourceFeedLedger     = "feed_ledger"
)
