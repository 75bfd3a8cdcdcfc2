package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"

	"pdfchat/internal/model"
	"pdfchat/internal/repository"
)

// HistoryPersistWorker drains the chat history queue and writes entries to
// the database. Persistence is best-effort from the request's perspective;
// a failed write is nacked and logged, never surfaced to the caller.
type HistoryPersistWorker struct {
	conn      *amqp.Connection
	repo      *repository.HistoryRepository
	cache     StatusInvalidator
	queueName string

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// StatusInvalidator drops cached status counts after a persisted entry.
type StatusInvalidator interface {
	Invalidate(ctx context.Context) error
}

func NewHistoryPersistWorker(conn *amqp.Connection, repo *repository.HistoryRepository, cache StatusInvalidator, queueName string) *HistoryPersistWorker {
	return &HistoryPersistWorker{
		conn:      conn,
		repo:      repo,
		cache:     cache,
		queueName: queueName,
	}
}

func (w *HistoryPersistWorker) Start(ctx context.Context) error {
	if w.cancel != nil {
		return nil
	}

	workerCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel

	ch, err := w.conn.Channel()
	if err != nil {
		cancel()
		return fmt.Errorf("open worker channel failed: %w", err)
	}

	_, err = ch.QueueDeclare(
		w.queueName,
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		_ = ch.Close()
		cancel()
		return fmt.Errorf("declare worker queue failed: %w", err)
	}

	deliveries, err := ch.Consume(
		w.queueName,
		"",
		false,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		_ = ch.Close()
		cancel()
		return fmt.Errorf("consume queue failed: %w", err)
	}

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		defer ch.Close()

		for {
			select {
			case <-workerCtx.Done():
				return
			case d, ok := <-deliveries:
				if !ok {
					return
				}

				var entry model.ChatHistory
				if err := json.Unmarshal(d.Body, &entry); err != nil {
					log.Printf("worker decode history entry failed: %v", err)
					_ = d.Nack(false, false)
					continue
				}

				if err := w.repo.Create(&entry); err != nil {
					log.Printf("worker persist history entry failed: %v", err)
					_ = d.Nack(false, false)
					continue
				}

				if w.cache != nil {
					if err := w.cache.Invalidate(workerCtx); err != nil {
						log.Printf("worker invalidate status cache failed: %v", err)
					}
				}
				_ = d.Ack(false)
			}
		}
	}()

	return nil
}

func (w *HistoryPersistWorker) Close() {
	if w.cancel != nil {
		w.cancel()
	}
	w.wg.Wait()
}
