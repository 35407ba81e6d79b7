package services

import (
	"context"
	"log/slog"

	"github.com/Mayonesio/disckatus-tournaments-sub000/models"
)

// Notifier delivers registration notifications to players. Delivery is an
// external concern; the club currently runs the logging stub only.
type Notifier interface {
	RegistrationCreated(ctx context.Context, player *models.Player, tournament *models.Tournament, reg *models.Registration) error
	RegistrationCancelled(ctx context.Context, player *models.Player, tournament *models.Tournament, reg *models.Registration) error
}

type logNotifier struct {
	logger *slog.Logger
}

func NewLogNotifier(logger *slog.Logger) Notifier {
	return &logNotifier{logger: logger}
}

func (n *logNotifier) RegistrationCreated(_ context.Context, player *models.Player, tournament *models.Tournament, reg *models.Registration) error {
	n.logger.Info("registration created",
		slog.String("player", player.Name),
		slog.String("email", player.Email),
		slog.String("tournament", tournament.Title),
		slog.String("status", string(reg.Status)),
	)
	return nil
}

func (n *logNotifier) RegistrationCancelled(_ context.Context, player *models.Player, tournament *models.Tournament, _ *models.Registration) error {
	n.logger.Info("registration cancelled",
		slog.String("player", player.Name),
		slog.String("email", player.Email),
		slog.String("tournament", tournament.Title),
	)
	return nil
}
