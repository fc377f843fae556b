package pkg

import (
	"errors"

	"birthday-bot/pkg/confirm"
	"birthday-bot/pkg/eraser"
)

var (
	ErrUnauthorized        = errors.New("caller is missing the trusted role")
	ErrInvalidInput        = errors.New("invalid command input")
	ErrChannelBusy         = eraser.ErrChannelBusy
	ErrConfirmationTimeout = confirm.ErrTimeout
)
