// internal/workers/planning/deliver-plan/handler.go
package deliverplan

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	commonaws "github.com/sorabhv/social-media-strategist/internal/common/aws"
	commonerrors "github.com/sorabhv/social-media-strategist/internal/common/errors"
	"github.com/sorabhv/social-media-strategist/internal/common/logger"
	"github.com/sorabhv/social-media-strategist/internal/common/metrics"
	"github.com/sorabhv/social-media-strategist/internal/common/observability"
	"github.com/sorabhv/social-media-strategist/internal/models"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"
)

const (
	TaskType = "deliver-plan"
)

var (
	ErrNotificationSendFailed = errors.New("NOTIFICATION_SEND_FAILED")
)

// Define interfaces for mocking
type SESService interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

type SNSService interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

type Handler struct {
	config    *Config
	logger    logger.Logger
	sesClient SESService
	snsClient SNSService
}

func NewHandler(config *Config, log logger.Logger) (*Handler, error) {
	awsCfg, err := commonaws.LoadConfig(context.Background(), config.AWSRegion)
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}

	return &Handler{
		config:    config,
		logger:    log.WithFields(map[string]interface{}{"taskType": TaskType}),
		sesClient: commonaws.NewSESClient(awsCfg),
		snsClient: commonaws.NewSNSClient(awsCfg),
	}, nil
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		h.failJob(client, job, "PARSE_ERROR", fmt.Sprintf("parse input: %v", err))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	metrics.WorkerJobsActive.WithLabelValues(TaskType).Inc()
	defer metrics.WorkerJobsActive.WithLabelValues(TaskType).Dec()

	start := time.Now()
	output, err := h.execute(ctx, &input)
	metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(time.Since(start).Seconds())

	if err != nil {
		code := string(commonerrors.ErrCodeNotificationSendFailed)
		if stdErr, ok := err.(*commonerrors.StandardError); ok {
			code = string(stdErr.Code)
		}
		metrics.WorkerJobsFailed.WithLabelValues(TaskType, code).Inc()
		h.failJob(client, job, code, err.Error())
		return
	}

	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	h.completeJob(client, job, output)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	ctx, span := observability.StartStage(ctx, TaskType, map[string]string{"runId": input.RunID})
	defer span.End()

	sentAt := time.Now().UTC().Format(time.RFC3339)
	deliveryID := uuid.New().String()

	subject := planSubject(input)
	body := renderPlan(input)

	emailSent := false
	smsSent := false

	if h.config.EmailEnabled && input.RecipientEmail != "" {
		if err := h.sendEmail(ctx, input.RecipientEmail, subject, body); err != nil {
			sendErr := commonerrors.NewNotificationSendFailedError("email", err)
			h.logger.Error("email send failed", map[string]interface{}{
				"error": err,
				"email": input.RecipientEmail,
			})
			return nil, sendErr
		}
		emailSent = true
	}

	if h.config.SMSEnabled && input.RecipientPhone != "" {
		if err := h.sendSMS(ctx, input.RecipientPhone, renderSMS(input)); err != nil {
			// Email already went out; an SMS failure degrades rather than fails
			h.logger.Warn("SMS send failed", map[string]interface{}{
				"error": err,
				"phone": input.RecipientPhone,
			})
		} else {
			smsSent = true
		}
	}

	status := StatusDisabled
	if emailSent || smsSent {
		status = StatusSent
	}

	h.logger.Info("plan delivered", map[string]interface{}{
		"runId":      input.RunID,
		"deliveryId": deliveryID,
		"status":     status,
		"emailSent":  emailSent,
		"smsSent":    smsSent,
	})

	return &Output{
		DeliveryID: deliveryID,
		Status:     status,
		EmailSent:  emailSent,
		SMSSent:    smsSent,
		SentAt:     sentAt,
	}, nil
}

func planSubject(input *Input) string {
	name := input.BusinessName
	if name == "" {
		name = input.BusinessType
	}
	return fmt.Sprintf("Your weekly content plan for %s", name)
}

// renderPlan flattens the plan into plain text for the email body.
func renderPlan(input *Input) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Weekly content plan (%s)\n\n", input.BusinessType)

	b.WriteString("Reel concepts:\n")
	for i, c := range input.Concepts {
		fmt.Fprintf(&b, "%d. %s [%s, %s]\n", i+1, c.Title, c.Difficulty, c.EstimatedTime)
		fmt.Fprintf(&b, "   Hook: %s\n", c.Hook)
		if c.Sound != "" {
			fmt.Fprintf(&b, "   Sound: %s", c.Sound)
			if c.SoundLink != "" {
				fmt.Fprintf(&b, " (%s)", c.SoundLink)
			}
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "   Hashtags: %s\n", strings.Join(allTags(c), " "))
	}

	b.WriteString("\nCalendar:\n")
	for _, day := range input.Calendar {
		fmt.Fprintf(&b, "%s: %s", day.Day, day.Title)
		if day.Time != "" {
			fmt.Fprintf(&b, " at %s", day.Time)
		}
		if len(day.Platforms) > 0 {
			fmt.Fprintf(&b, " on %s", strings.Join(day.Platforms, ", "))
		}
		b.WriteString("\n")
		for _, platform := range day.Platforms {
			if tip, ok := day.PlatformTips[platform]; ok {
				fmt.Fprintf(&b, "   %s tip: %s\n", platform, tip)
			}
		}
	}

	return b.String()
}

func renderSMS(input *Input) string {
	return fmt.Sprintf("Your weekly content plan is ready: %d reel concepts across %d days. Check your email for the full plan.",
		len(input.Concepts), len(input.Calendar))
}

func allTags(c models.ReelConcept) []string {
	tags := make([]string, 0, len(c.Hashtags.Large)+len(c.Hashtags.Medium)+len(c.Hashtags.Niche))
	tags = append(tags, c.Hashtags.Large...)
	tags = append(tags, c.Hashtags.Medium...)
	tags = append(tags, c.Hashtags.Niche...)
	return tags
}

func (h *Handler) sendEmail(ctx context.Context, to, subject, body string) error {
	_, err := h.sesClient.SendEmail(ctx, &ses.SendEmailInput{
		Destination: &types.Destination{
			ToAddresses: []string{to},
		},
		Message: &types.Message{
			Subject: &types.Content{Data: aws.String(subject)},
			Body: &types.Body{
				Text: &types.Content{Data: aws.String(body)},
			},
		},
		Source: aws.String(h.config.FromEmail),
	})
	return err
}

func (h *Handler) sendSMS(ctx context.Context, to, message string) error {
	_, err := h.snsClient.Publish(ctx, &sns.PublishInput{
		PhoneNumber: aws.String(to),
		Message:     aws.String(message),
	})
	return err
}

func (h *Handler) completeJob(client worker.JobClient, job entities.Job, output *Output) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"error": err,
		})
		return
	}
	_, err = cmd.Send(context.Background())
	if err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"error": err,
		})
	}
}

func (h *Handler) failJob(client worker.JobClient, job entities.Job, errorCode, errorMessage string) {
	h.logger.Error("job failed", map[string]interface{}{
		"jobKey":       job.Key,
		"errorCode":    errorCode,
		"errorMessage": errorMessage,
	})

	_, err := client.NewThrowErrorCommand().
		JobKey(job.Key).
		ErrorCode(errorCode).
		ErrorMessage(errorMessage).
		Send(context.Background())
	if err != nil {
		h.logger.Error("failed to throw error", map[string]interface{}{
			"error": err,
		})
	}
}

// Execute runs the delivery stage directly, outside a Zeebe job.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
