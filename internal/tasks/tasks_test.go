package tasks_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Zaid3480/Real-Estate/internal/config"
	"github.com/Zaid3480/Real-Estate/internal/tasks"
)

// --- Mocks ---

type MockEmailSender struct {
	mock.Mock
}

func (m *MockEmailSender) Send(ctx context.Context, to []string, subject string, rawMessage []byte) error {
	args := m.Called(ctx, to, subject, rawMessage)
	return args.Error(0)
}

type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) Save(ctx context.Context, folder, filename string, r io.Reader) (string, error) {
	args := m.Called(ctx, folder, filename, r)
	return args.String(0), args.Error(1)
}

func (m *MockStorage) Open(ctx context.Context, storedPath string) (io.ReadCloser, error) {
	args := m.Called(ctx, storedPath)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(io.ReadCloser), args.Error(1)
}

func (m *MockStorage) Put(ctx context.Context, storedPath string, r io.Reader) error {
	args := m.Called(ctx, storedPath, r)
	return args.Error(0)
}

func (m *MockStorage) Delete(ctx context.Context, storedPath string) error {
	args := m.Called(ctx, storedPath)
	return args.Error(0)
}

// --- Tests ---

func TestHandleEmailDeliveryTask_Success(t *testing.T) {
	mockSender := new(MockEmailSender)
	cfg := &config.Config{SmtpFromAddress: "noreply@prompconnect.example"}
	p := tasks.NewTaskProcessor(cfg, mockSender, nil)

	payload, _ := json.Marshal(tasks.EmailTaskPayload{
		To:      "test@example.com",
		Subject: "Hello",
		Body:    "Body text",
	})
	task := asynq.NewTask(tasks.TypeEmailDelivery, payload)

	mockSender.On("Send",
		mock.Anything,
		[]string{"test@example.com"},
		"Hello",
		mock.MatchedBy(func(raw []byte) bool {
			msg := string(raw)
			return strings.Contains(msg, "To: test@example.com\r\n") &&
				strings.Contains(msg, "From: noreply@prompconnect.example\r\n") &&
				strings.Contains(msg, "Subject: Hello\r\n") &&
				strings.Contains(msg, "\r\n\r\nBody text")
		}),
	).Return(nil)

	err := p.HandleEmailDeliveryTask(context.Background(), task)
	assert.NoError(t, err)
	mockSender.AssertExpectations(t)
}

func TestHandleEmailDeliveryTask_BadPayloadSkipsRetry(t *testing.T) {
	p := tasks.NewTaskProcessor(&config.Config{}, new(MockEmailSender), nil)
	task := asynq.NewTask(tasks.TypeEmailDelivery, []byte("not json"))

	err := p.HandleEmailDeliveryTask(context.Background(), task)
	assert.ErrorIs(t, err, asynq.SkipRetry)
}

func TestHandleEmailDeliveryTask_SenderFailureIsRetryable(t *testing.T) {
	mockSender := new(MockEmailSender)
	mockSender.On("Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(errors.New("smtp down"))
	p := tasks.NewTaskProcessor(&config.Config{}, mockSender, nil)

	payload, _ := json.Marshal(tasks.EmailTaskPayload{To: "a@b.c", Subject: "s", Body: "b"})
	err := p.HandleEmailDeliveryTask(context.Background(), asynq.NewTask(tasks.TypeEmailDelivery, payload))
	require.Error(t, err)
	assert.NotErrorIs(t, err, asynq.SkipRetry)
}

func encodedImage(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))))
	return buf.Bytes()
}

func imageTask(t *testing.T, storedPath string) *asynq.Task {
	t.Helper()
	task, err := tasks.NewImageProcessTask(storedPath, "64f000000000000000000001")
	require.NoError(t, err)
	return task
}

func TestHandleImageProcessTask_ResizesOversizedImage(t *testing.T) {
	mockStore := new(MockStorage)
	cfg := &config.Config{ImageMaxDimension: 100}
	p := tasks.NewTaskProcessor(cfg, nil, mockStore)

	original := encodedImage(t, 400, 200)
	mockStore.On("Open", mock.Anything, "properties/big.png").
		Return(io.NopCloser(bytes.NewReader(original)), nil)

	var written []byte
	mockStore.On("Put", mock.Anything, "properties/big.png", mock.Anything).
		Run(func(args mock.Arguments) {
			data, err := io.ReadAll(args.Get(2).(io.Reader))
			require.NoError(t, err)
			written = data
		}).
		Return(nil)

	err := p.HandleImageProcessTask(context.Background(), imageTask(t, "properties/big.png"))
	require.NoError(t, err)
	mockStore.AssertExpectations(t)

	resized, err := jpeg.Decode(bytes.NewReader(written))
	require.NoError(t, err)
	assert.LessOrEqual(t, resized.Bounds().Dx(), 100)
	assert.LessOrEqual(t, resized.Bounds().Dy(), 100)
}

func TestHandleImageProcessTask_SmallImageUntouched(t *testing.T) {
	mockStore := new(MockStorage)
	cfg := &config.Config{ImageMaxDimension: 1024}
	p := tasks.NewTaskProcessor(cfg, nil, mockStore)

	mockStore.On("Open", mock.Anything, "properties/small.png").
		Return(io.NopCloser(bytes.NewReader(encodedImage(t, 50, 50))), nil)

	err := p.HandleImageProcessTask(context.Background(), imageTask(t, "properties/small.png"))
	require.NoError(t, err)
	mockStore.AssertNotCalled(t, "Put", mock.Anything, mock.Anything, mock.Anything)
}

func TestHandleImageProcessTask_MissingObjectSkipsRetry(t *testing.T) {
	mockStore := new(MockStorage)
	p := tasks.NewTaskProcessor(&config.Config{ImageMaxDimension: 1024}, nil, mockStore)

	mockStore.On("Open", mock.Anything, "properties/gone.png").
		Return(nil, errors.New("object not found"))

	err := p.HandleImageProcessTask(context.Background(), imageTask(t, "properties/gone.png"))
	assert.ErrorIs(t, err, asynq.SkipRetry)
}

func TestOTPEmail(t *testing.T) {
	subject, body := tasks.OTPEmail("PROMPCONNECT", "Zaid", "4821", 5*time.Minute)

	assert.Equal(t, "PROMPCONNECT Account Verification OTP", subject)
	assert.Contains(t, body, "Hello Zaid,")
	assert.Contains(t, body, "4821")
	assert.Contains(t, body, "5 minutes")
}
