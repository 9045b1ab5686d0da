package usecase

import (
	"context"
	"time"

	"github.com/bnema/pipewin/internal/application/port"
	"github.com/bnema/pipewin/internal/logging"
)

// ShutdownSentinel is the line written to the control channel on exit.
const ShutdownSentinel = "quit"

const defaultShutdownTimeout = 2 * time.Second

// NotifyShutdownUseCase tells the command writer that the application is exiting.
type NotifyShutdownUseCase struct {
	channel port.ControlChannel
	timeout time.Duration
}

// NewNotifyShutdownUseCase creates a new NotifyShutdownUseCase.
func NewNotifyShutdownUseCase(channel port.ControlChannel) *NotifyShutdownUseCase {
	return &NotifyShutdownUseCase{channel: channel, timeout: defaultShutdownTimeout}
}

// Execute writes the sentinel once. Failures are logged and swallowed.
func (uc *NotifyShutdownUseCase) Execute(ctx context.Context) {
	log := logging.FromContext(ctx)
	if uc.channel == nil {
		return
	}

	sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), uc.timeout)
	defer cancel()

	if err := uc.channel.Send(sendCtx, ShutdownSentinel); err != nil {
		log.Error().Err(err).Msg("failed to send shutdown notification")
		return
	}
	log.Info().Msg("shutdown notification sent")
}
