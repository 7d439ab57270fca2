package discord

import (
	"time"

	"go.uber.org/zap"

	"mentorbook/internal/ports/input"
	"mentorbook/internal/ports/output"
)

// Translator renders replies and picks a locale from the Discord client locale.
type Translator interface {
	output.T
	Match(preferences ...string) string
}

// Handler handles Discord interactions using use cases.
type Handler struct {
	availability input.AvailabilityUseCase
	booking      input.BookingUseCase
	roster       input.RosterUseCase
	directory    input.DirectoryUseCase
	tr           Translator
	location     *time.Location
	logger       *zap.Logger
}

// NewHandler creates a Handler. Dates typed by users are read in location.
func NewHandler(
	availability input.AvailabilityUseCase,
	booking input.BookingUseCase,
	roster input.RosterUseCase,
	directory input.DirectoryUseCase,
	tr Translator,
	location *time.Location,
	logger *zap.Logger,
) *Handler {
	if location == nil {
		location = time.UTC
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		availability: availability,
		booking:      booking,
		roster:       roster,
		directory:    directory,
		tr:           tr,
		location:     location,
		logger:       logger,
	}
}
