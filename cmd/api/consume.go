package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gauravmindaptix26/leaado-backend/internal/infra/queue"
)

var consumeCmd = &cobra.Command{
	Use:   "consume",
	Short: "Log lead.pitched events from RabbitMQ",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if cfg.Queue.AMQPURL == "" {
			return eris.New("queue.amqp_url is not set")
		}

		broker, err := queue.NewRabbitMQ(cfg.Queue.AMQPURL)
		if err != nil {
			return err
		}
		defer broker.Close()

		worker := queue.NewWorker(broker.Ch, logLeadEvent)
		zap.L().Info("consuming lead events", zap.String("queue", queue.QueueName))
		return worker.Run(ctx, queue.QueueName)
	},
}

func logLeadEvent(_ context.Context, p queue.LeadPitchedPayload) error {
	zap.L().Info("lead pitched",
		zap.String("lead_id", p.LeadID),
		zap.String("owner_id", p.OwnerID),
		zap.String("website", p.Website),
		zap.String("pitch_result", p.PitchResult),
		zap.String("pitch_message", p.PitchMessage),
		zap.Time("occurred_at", p.OccurredAt),
	)
	return nil
}

func init() {
	rootCmd.AddCommand(consumeCmd)
}
