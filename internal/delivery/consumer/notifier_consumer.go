package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"golang-shopify-warroom/internal/dto"
	"golang-shopify-warroom/pkg/common"
	"golang-shopify-warroom/pkg/logger"
	"golang-shopify-warroom/pkg/telegram"
	"golang-shopify-warroom/pkg/utils"

	"github.com/redis/go-redis/v9"
)

// NotifierConsumer reads completed assessments from the Redis stream and
// forwards them to Telegram.
type NotifierConsumer struct {
	redisClient *redis.Client
	notifier    telegram.Notifier
	logger      *logger.Logger
	stopChan    chan struct{}
	wg          sync.WaitGroup
}

// NewNotifierConsumer creates a new NotifierConsumer.
func NewNotifierConsumer(redisClient *redis.Client, notifier telegram.Notifier, log *logger.Logger) *NotifierConsumer {
	return &NotifierConsumer{
		redisClient: redisClient,
		notifier:    notifier,
		logger:      log,
		stopChan:    make(chan struct{}),
	}
}

// Start begins the consumer loop in its own goroutine.
func (c *NotifierConsumer) Start(ctx context.Context) {
	c.logger.Info("Notifier consumer started", logger.StringField("stream", common.RedisStreamMarketAnalysis))
	c.wg.Add(1)
	utils.GoSafe(func() {
		defer c.wg.Done()
		for {
			select {
			case <-ctx.Done():
				c.logger.Info("Notifier consumer stopping due to context cancellation")
				return
			case <-c.stopChan:
				c.logger.Info("Notifier consumer stopping")
				return
			default:
				c.consumeOnce(ctx)
			}
		}
	})
}

func (c *NotifierConsumer) consumeOnce(ctx context.Context) {
	streams, err := c.redisClient.XReadGroup(ctx, &redis.XReadGroupArgs{
		Group:    common.RedisStreamGroup,
		Consumer: common.RedisStreamConsumer,
		Streams:  []string{common.RedisStreamMarketAnalysis, ">"}, // ">" means only new messages
		Count:    1,
		Block:    2 * time.Second, // Block briefly to allow graceful shutdown
		NoAck:    true,
	}).Result()

	if err != nil {
		// Context cancellation and redis.Nil are expected during shutdown
		// and idle periods.
		if errors.Is(err, context.Canceled) || errors.Is(err, redis.Nil) {
			return
		}
		c.logger.Error("Failed to read from stream", logger.ErrorField(err))
		return
	}

	if len(streams) == 0 || len(streams[0].Messages) == 0 {
		return
	}

	message := streams[0].Messages[0]
	payload, ok := message.Values["payload"].(string)
	if !ok {
		c.logger.Error("field 'payload' not found or not a string in stream message", logger.Field("message_id", message.ID))
		return
	}

	var event dto.MarketAnalysisEvent
	if err := json.Unmarshal([]byte(payload), &event); err != nil {
		c.logger.Error("Failed to unmarshal analysis event", logger.ErrorField(err), logger.Field("message_id", message.ID))
		return
	}

	if err := c.notifier.SendMessage(telegram.FormatMarketAnalysis(event)); err != nil {
		c.logger.Error("Failed to send Telegram notification",
			logger.StringField("competitor", event.CompetitorName),
			logger.ErrorField(err),
		)
		return
	}

	c.logger.Info("Notification sent", logger.StringField("competitor", event.CompetitorName))
}

// Stop gracefully shuts down the consumer.
func (c *NotifierConsumer) Stop() {
	close(c.stopChan)
	c.wg.Wait()
	c.logger.Info("Notifier consumer stopped")
}
