// Package tasks contains the asynq background jobs: OTP email delivery
// and normalization of uploaded listing images.
package tasks

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"
	"log"
	"strings"
	"time"

	"github.com/hibiken/asynq"
	"github.com/nfnt/resize"
	"github.com/redis/go-redis/v9"

	"github.com/Zaid3480/Real-Estate/internal/config"
	"github.com/Zaid3480/Real-Estate/internal/email"
	"github.com/Zaid3480/Real-Estate/internal/storage"
)

const (
	TypeEmailDelivery = "email:deliver"
	TypeImageProcess  = "image:process"
)

// NewClient creates an asynq client backed by the shared Redis
// connection's options.
func NewClient(rdb *redis.Client) *asynq.Client {
	opts := rdb.Options()
	return asynq.NewClient(asynq.RedisClientOpt{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
}

// TaskProcessor holds the dependencies task handlers need.
type TaskProcessor struct {
	cfg         *config.Config
	emailSender email.Sender
	store       storage.IStorage
}

func NewTaskProcessor(cfg *config.Config, emailSender email.Sender, store storage.IStorage) *TaskProcessor {
	return &TaskProcessor{
		cfg:         cfg,
		emailSender: emailSender,
		store:       store,
	}
}

// SetupServer configures an asynq server and registers the handlers.
// The caller runs it with the returned mux.
func SetupServer(rdb *redis.Client, processor *TaskProcessor) (*asynq.Server, *asynq.ServeMux) {
	opts := rdb.Options()
	srv := asynq.NewServer(
		asynq.RedisClientOpt{Addr: opts.Addr, Password: opts.Password, DB: opts.DB},
		asynq.Config{
			Queues: map[string]int{
				"critical": 6,
				"default":  3,
				"low":      1,
			},
			ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
				log.Printf("[Asynq Error] Task Type: %s, Payload: %s, Error: %v", task.Type(), string(task.Payload()), err)
			}),
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeEmailDelivery, processor.HandleEmailDeliveryTask)
	mux.HandleFunc(TypeImageProcess, processor.HandleImageProcessTask)

	return srv, mux
}

// EmailTaskPayload carries an outbound email. For OTP mail the OTP is
// already rendered into the body by the enqueuer.
type EmailTaskPayload struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// NewEmailDeliveryTask builds an enqueueable email task.
func NewEmailDeliveryTask(to, subject, body string) (*asynq.Task, error) {
	payload, err := json.Marshal(EmailTaskPayload{To: to, Subject: subject, Body: body})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal email task payload: %w", err)
	}
	return asynq.NewTask(TypeEmailDelivery, payload, asynq.Queue("critical"), asynq.MaxRetry(5)), nil
}

// OTPEmail renders the verification message sent after registration.
func OTPEmail(appName, fullName, otp string, ttl time.Duration) (subject, body string) {
	subject = fmt.Sprintf("%s Account Verification OTP", appName)
	body = fmt.Sprintf(
		"Hello %s,\r\n\r\nYour verification code is %s. It expires in %d minutes.\r\n\r\nIf you did not request this, please ignore this email.\r\n",
		fullName, otp, int(ttl.Minutes()))
	return subject, body
}

// HandleEmailDeliveryTask formats the raw message and hands it to the
// configured sender.
func (p *TaskProcessor) HandleEmailDeliveryTask(ctx context.Context, t *asynq.Task) error {
	var payload EmailTaskPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal email task payload: %v: %w", err, asynq.SkipRetry)
	}

	fromAddress := p.cfg.SmtpFromAddress
	if fromAddress == "" {
		fromAddress = "noreply@example.com"
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("To: %s\r\n", payload.To))
	sb.WriteString(fmt.Sprintf("From: %s\r\n", fromAddress))
	sb.WriteString(fmt.Sprintf("Subject: %s\r\n", payload.Subject))
	sb.WriteString("Date: " + time.Now().Format(time.RFC1123Z) + "\r\n")
	sb.WriteString("MIME-Version: 1.0\r\n")
	sb.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n")
	sb.WriteString("\r\n")
	sb.WriteString(payload.Body)
	sb.WriteString("\r\n")

	if err := p.emailSender.Send(ctx, []string{payload.To}, payload.Subject, []byte(sb.String())); err != nil {
		log.Printf("Email sending failed for %s: %v", payload.To, err)
		return err
	}
	return nil
}

// ImageTaskPayload identifies an uploaded image to normalize.
type ImageTaskPayload struct {
	StoredPath string `json:"stored_path"`
	PropertyID string `json:"property_id"`
}

// NewImageProcessTask builds an enqueueable image normalization task.
func NewImageProcessTask(storedPath, propertyID string) (*asynq.Task, error) {
	payload, err := json.Marshal(ImageTaskPayload{StoredPath: storedPath, PropertyID: propertyID})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal image task payload: %w", err)
	}
	return asynq.NewTask(TypeImageProcess, payload, asynq.Queue("low"), asynq.MaxRetry(3)), nil
}

// HandleImageProcessTask downscales oversized listing images in place.
// The stored path does not change, so no document update is needed.
func (p *TaskProcessor) HandleImageProcessTask(ctx context.Context, t *asynq.Task) error {
	var payload ImageTaskPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal image task payload: %v: %w", err, asynq.SkipRetry)
	}

	rc, err := p.store.Open(ctx, payload.StoredPath)
	if err != nil {
		log.Printf("Image %s not readable, likely deleted: %v", payload.StoredPath, err)
		return fmt.Errorf("stored image not found: %w", asynq.SkipRetry)
	}
	defer rc.Close()

	imgData, err := io.ReadAll(rc)
	if err != nil {
		return fmt.Errorf("failed to read image data: %w", err)
	}

	img, format, err := image.Decode(bytes.NewReader(imgData))
	if err != nil {
		log.Printf("Error decoding image %s: %v", payload.StoredPath, err)
		return fmt.Errorf("unsupported image format or corrupt image: %w", asynq.SkipRetry)
	}

	maxDim := uint(p.cfg.ImageMaxDimension)
	if uint(img.Bounds().Dx()) <= maxDim && uint(img.Bounds().Dy()) <= maxDim {
		return nil
	}

	log.Printf("Resizing image %s (original: %dx%d, format: %s, max: %d)",
		payload.StoredPath, img.Bounds().Dx(), img.Bounds().Dy(), format, maxDim)
	resized := resize.Thumbnail(maxDim, maxDim, img, resize.Lanczos3)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, resized, &jpeg.Options{Quality: 85}); err != nil {
		return fmt.Errorf("failed to re-encode resized image: %w", err)
	}

	if err := p.store.Put(ctx, payload.StoredPath, &buf); err != nil {
		return fmt.Errorf("failed to overwrite processed image: %w", err)
	}

	log.Printf("Image task processed: %s resized to %dx%d (property %s)",
		payload.StoredPath, resized.Bounds().Dx(), resized.Bounds().Dy(), payload.PropertyID)
	return nil
}
