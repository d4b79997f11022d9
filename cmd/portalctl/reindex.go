package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/oksasatya/campus-events/internal/domain/entity"
	pginfra "github.com/oksasatya/campus-events/internal/infrastructure/postgres"
	"github.com/oksasatya/campus-events/internal/infrastructure/search"
	"github.com/oksasatya/campus-events/pkg/helpers"
)

var reindexCmd = &cobra.Command{
	Use:   "reindex",
	Short: "Push every event into the Elasticsearch index",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		es, err := helpers.NewESClient(cfg.ESAddrs(), cfg.ElasticsearchUser, cfg.ElasticsearchPass)
		if err != nil {
			return fmt.Errorf("elasticsearch: %w", err)
		}
		if es == nil {
			return errors.New("ELASTICSEARCH_ADDRS is not set")
		}
		p, err := db(ctx)
		if err != nil {
			return err
		}

		events, err := pginfra.NewEventRepository(p).List(ctx, entity.EventFilter{})
		if err != nil {
			return err
		}
		idx := search.NewEventIndex(es, cfg.ESEventsIndex)
		failed := 0
		for i := range events {
			if err := idx.Index(ctx, &events[i]); err != nil {
				failed++
				logger.WithError(err).WithField("event_id", events[i].ID).Warn("index event failed")
			}
		}
		fmt.Fprintf(cmd.OutOrStdout(), "indexed %d/%d events into %q\n", len(events)-failed, len(events), cfg.ESEventsIndex)
		if failed > 0 {
			return fmt.Errorf("%d events failed to index", failed)
		}
		return nil
	},
}
