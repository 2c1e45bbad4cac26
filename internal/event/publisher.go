package event

import (
	"context"
	"encoding/json"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/sns/types"

	"github.com/vibtellect/user-service/internal/config"
	"github.com/vibtellect/user-service/internal/logger"
	"github.com/vibtellect/user-service/internal/model"
)

// SNSAPI is the subset of the SNS client used by the publisher.
type SNSAPI interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// SNSPublisher delivers user events to an SNS topic with bounded retry.
// Delivery is best-effort: after the configured number of attempts the event
// is logged and dropped, and the caller is never handed an error. The event
// bus is an observer of user mutations, not a transaction participant.
type SNSPublisher struct {
	client      SNSAPI
	topicARN    string
	maxAttempts int
	baseDelay   time.Duration
	enabled     bool
	logger      *logger.Logger

	// sleep blocks between attempts and is replaced in tests.
	sleep func(ctx context.Context, d time.Duration) error
}

var _ model.EventPublisher = (*SNSPublisher)(nil)

// NewSNSPublisher creates a publisher for the given topic.
func NewSNSPublisher(client SNSAPI, topicARN string, cfg config.Events, logger *logger.Logger) *SNSPublisher {
	return &SNSPublisher{
		client:      client,
		topicARN:    topicARN,
		maxAttempts: cfg.MaxAttempts,
		baseDelay:   cfg.RetryDelay,
		enabled:     cfg.Enabled,
		logger:      logger,
		sleep:       sleepContext,
	}
}

// UserRegistered publishes a USER_REGISTERED event carrying the new profile.
func (p *SNSPublisher) UserRegistered(ctx context.Context, user model.User) {
	p.publish(ctx, model.NewUserEvent(model.EventUserRegistered, user.ID, map[string]any{
		"email":     user.Email,
		"username":  user.Username,
		"firstName": user.FirstName,
		"lastName":  user.LastName,
		"role":      user.Role,
		"createdAt": user.CreatedAt.Format(time.RFC3339),
	}))
}

// UserUpdated publishes a USER_UPDATED event carrying the changed profile.
func (p *SNSPublisher) UserUpdated(ctx context.Context, user model.User) {
	p.publish(ctx, model.NewUserEvent(model.EventUserUpdated, user.ID, map[string]any{
		"email":     user.Email,
		"username":  user.Username,
		"firstName": user.FirstName,
		"lastName":  user.LastName,
		"updatedAt": user.UpdatedAt.Format(time.RFC3339),
	}))
}

// UserActivated publishes a USER_ACTIVATED event.
func (p *SNSPublisher) UserActivated(ctx context.Context, userID string) {
	p.publish(ctx, model.NewUserEvent(model.EventUserActivated, userID, map[string]any{
		"reason": "manual_activation",
	}))
}

// UserDeactivated publishes a USER_DEACTIVATED event.
func (p *SNSPublisher) UserDeactivated(ctx context.Context, userID string) {
	p.publish(ctx, model.NewUserEvent(model.EventUserDeactivated, userID, map[string]any{
		"reason": "manual_deactivation",
	}))
}

// UserDeleted publishes a USER_DELETED event.
func (p *SNSPublisher) UserDeleted(ctx context.Context, userID string) {
	p.publish(ctx, model.NewUserEvent(model.EventUserDeleted, userID, map[string]any{
		"deletedAt": time.Now().UTC().Format(time.RFC3339),
	}))
}

// LoginSucceeded publishes a USER_LOGIN_SUCCESS event.
func (p *SNSPublisher) LoginSucceeded(ctx context.Context, userID, username string) {
	p.publish(ctx, model.NewUserEvent(model.EventUserLoginSuccess, userID, map[string]any{
		"username":  username,
		"loginTime": time.Now().UTC().Format(time.RFC3339),
	}))
}

// LoginFailed publishes a USER_LOGIN_FAILED event. Failed attempts have no
// resolved user, so the subject is the unknown sentinel.
func (p *SNSPublisher) LoginFailed(ctx context.Context, usernameOrEmail, reason string) {
	p.publish(ctx, model.NewUserEvent(model.EventUserLoginFailed, model.UnknownUserID, map[string]any{
		"usernameOrEmail": usernameOrEmail,
		"reason":          reason,
		"attemptTime":     time.Now().UTC().Format(time.RFC3339),
	}))
}

func (p *SNSPublisher) publish(ctx context.Context, event model.UserEvent) {
	if !p.enabled {
		p.logger.Debug("event publishing disabled, skipping event",
			"event_type", event.EventType)
		return
	}

	body, err := json.Marshal(event)
	if err != nil {
		p.logger.Error("failed to marshal event",
			"event_id", event.EventID,
			"event_type", event.EventType,
			"error", err.Error())
		return
	}

	input := &sns.PublishInput{
		TopicArn: aws.String(p.topicARN),
		Message:  aws.String(string(body)),
		MessageAttributes: map[string]types.MessageAttributeValue{
			"eventType": {
				DataType:    aws.String("String"),
				StringValue: aws.String(string(event.EventType)),
			},
			"userId": {
				DataType:    aws.String("String"),
				StringValue: aws.String(event.UserID),
			},
			"eventId": {
				DataType:    aws.String("String"),
				StringValue: aws.String(event.EventID),
			},
		},
	}

	var lastErr error
	for attempt := 1; attempt <= p.maxAttempts; attempt++ {
		result, err := p.client.Publish(ctx, input)
		if err == nil {
			p.logger.Info("published user event",
				"event_id", event.EventID,
				"event_type", event.EventType,
				"user_id", event.UserID,
				"message_id", aws.ToString(result.MessageId),
				"attempt", attempt)
			return
		}

		lastErr = err
		p.logger.Warn("failed to publish user event",
			"event_id", event.EventID,
			"event_type", event.EventType,
			"attempt", attempt,
			"max_attempts", p.maxAttempts,
			"error", err.Error())

		if attempt < p.maxAttempts {
			// Linear backoff: first retry waits baseDelay, second 2*baseDelay.
			if err := p.sleep(ctx, time.Duration(attempt)*p.baseDelay); err != nil {
				p.logger.Error("user event dropped, retry interrupted",
					"event_id", event.EventID,
					"event_type", event.EventType,
					"user_id", event.UserID,
					"error", err.Error())
				return
			}
		}
	}

	p.logger.Error("user event dropped after all publish attempts",
		"event_id", event.EventID,
		"event_type", event.EventType,
		"user_id", event.UserID,
		"attempts", p.maxAttempts,
		"error", lastErr.Error())
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
