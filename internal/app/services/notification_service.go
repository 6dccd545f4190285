package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/egresados/seguimiento-api/internal/app/models"
	"github.com/egresados/seguimiento-api/internal/pkg/email"
	"github.com/egresados/seguimiento-api/internal/pkg/helpers"
	"github.com/rs/zerolog"
)

// Dispatcher hands messages to a background delivery mechanism
type Dispatcher interface {
	SendAsync(msg email.Message)
	BroadcastAsync(label string, msgs []email.Message)
}

// NotificationService builds and dispatches outbound emails. Delivery runs
// in the background; callers only learn how many messages were queued.
type NotificationService interface {
	NotifyNewWorkshop(ctx context.Context, w *models.Workshop) (int, error)
	SendPasswordReset(ctx context.Context, to, name, link string) error
}

type notificationServiceImpl struct {
	graduates   GraduateStore
	dispatcher  Dispatcher
	appName     string
	frontendURL string
	logger      zerolog.Logger
}

// NewNotificationService creates a new notification service instance
func NewNotificationService(graduates GraduateStore, dispatcher Dispatcher, appName, frontendURL string, logger zerolog.Logger) NotificationService {
	return &notificationServiceImpl{
		graduates:   graduates,
		dispatcher:  dispatcher,
		appName:     appName,
		frontendURL: strings.TrimRight(frontendURL, "/"),
		logger:      logger,
	}
}

// NotifyNewWorkshop queues an announcement for every graduate whose interests
// overlap the workshop's areas. Recipients are deduplicated by email,
// ignoring case.
func (s *notificationServiceImpl) NotifyNewWorkshop(ctx context.Context, w *models.Workshop) (int, error) {
	if len(w.AreaIDs) == 0 {
		s.logger.Info().Int64("workshopID", w.ID).Msg("Workshop has no interest areas; no announcement sent")
		return 0, nil
	}

	recipients, err := s.graduates.ListRecipientsByAreas(ctx, w.AreaIDs)
	if err != nil {
		return 0, fmt.Errorf("error resolving workshop recipients: %w", err)
	}

	data := email.NewWorkshopData{
		AppName:  s.appName,
		Title:    w.Title,
		Modality: string(w.Modality),
	}
	if w.Description != nil {
		data.Description = *w.Description
	}
	if w.StartsAt != nil {
		data.StartDate = w.StartsAt.Format(helpers.DateLayout)
	}
	if w.EndsAt != nil {
		data.EndDate = w.EndsAt.Format(helpers.DateLayout)
	}
	if s.frontendURL != "" {
		data.Link = fmt.Sprintf("%s/talleres/%d", s.frontendURL, w.ID)
	}

	seen := make(map[string]struct{}, len(recipients))
	msgs := make([]email.Message, 0, len(recipients))
	for _, rc := range recipients {
		addr := strings.ToLower(strings.TrimSpace(rc.Email))
		if addr == "" {
			continue
		}
		if _, dup := seen[addr]; dup {
			continue
		}
		seen[addr] = struct{}{}

		data.Name = rc.Name
		msg, err := email.NewWorkshopMessage(strings.TrimSpace(rc.Email), data)
		if err != nil {
			return 0, err
		}
		msgs = append(msgs, msg)
	}

	s.dispatcher.BroadcastAsync(fmt.Sprintf("workshop-%d", w.ID), msgs)
	s.logger.Info().Int64("workshopID", w.ID).Int("recipients", len(msgs)).Msg("Workshop announcement queued")
	return len(msgs), nil
}

func (s *notificationServiceImpl) SendPasswordReset(ctx context.Context, to, name, link string) error {
	msg, err := email.PasswordResetMessage(to, email.PasswordResetData{
		AppName: s.appName,
		Name:    name,
		Link:    link,
	})
	if err != nil {
		return err
	}
	s.dispatcher.SendAsync(msg)
	return nil
}
