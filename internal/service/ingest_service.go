package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"surveillance-dashboard/internal/metrics"
	"surveillance-dashboard/internal/model"
	"surveillance-dashboard/internal/utils"
)

// EventPayload is the wire shape of a new detection. ID may be a JSON string
// or number.
type EventPayload struct {
	ID         json.RawMessage `json:"id"`
	CameraID   string          `json:"camera_id"`
	Timestamp  string          `json:"timestamp"`
	EventType  string          `json:"event_type"`
	Details    string          `json:"details"`
	AlertLevel string          `json:"alert_level"`
}

func DecodeEventPayload(b []byte) (EventPayload, error) {
	var p EventPayload
	if err := json.Unmarshal(b, &p); err != nil {
		return EventPayload{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return p, nil
}

// RawID returns the id as text: strings are unquoted, numbers kept verbatim.
func (p EventPayload) RawID() string {
	raw := bytes.TrimSpace(p.ID)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s)
	}
	return string(raw)
}

// Publisher receives every stored event for live delivery.
type Publisher interface {
	Publish(ctx context.Context, event model.Event) error
}

type IngestService struct {
	accessor   *Accessor
	publishers []Publisher
	log        zerolog.Logger
	now        func() time.Time
}

func NewIngestService(accessor *Accessor, log zerolog.Logger, publishers ...Publisher) *IngestService {
	return &IngestService{
		accessor:   accessor,
		publishers: publishers,
		log:        log.With().Str("component", "ingest").Logger(),
		now:        time.Now,
	}
}

// BuildEvent turns a payload into the stored row. The alert flag follows the
// level, known levels are title-cased, nothing else is checked. A missing or
// unparseable timestamp becomes the ingest time.
func (s *IngestService) BuildEvent(p EventPayload) model.Event {
	ts, err := utils.ParseTime(p.Timestamp)
	if err != nil {
		ts = s.now()
	}

	id := p.RawID()
	if id == "" {
		id = uuid.NewString()
	}

	return model.Event{
		ID:         id,
		CameraID:   p.CameraID,
		Timestamp:  ts.UTC(),
		EventType:  p.EventType,
		Details:    p.Details,
		Alert:      model.IsAlert(p.AlertLevel),
		AlertLevel: model.CanonicalAlertLevel(p.AlertLevel),
	}
}

// Record stores the event and fans it out. transport labels the metric.
func (s *IngestService) Record(ctx context.Context, transport string, p EventPayload) (*model.Event, error) {
	event := s.BuildEvent(p)

	if err := s.accessor.RecordEvent(ctx, &event); err != nil {
		metrics.EventsIngestedTotal.WithLabelValues(transport, "error").Inc()
		return nil, err
	}
	metrics.EventsIngestedTotal.WithLabelValues(transport, "stored").Inc()

	for _, pub := range s.publishers {
		if err := pub.Publish(ctx, event); err != nil {
			s.log.Warn().Err(err).Str("event_id", event.ID).Msg("publish event failed")
		}
	}

	return &event, nil
}

// HandleMessage is the MQTT entry point: one JSON payload per message.
func (s *IngestService) HandleMessage(topic string, payload []byte) error {
	p, err := DecodeEventPayload(payload)
	if err != nil {
		metrics.EventsIngestedTotal.WithLabelValues("mqtt", "invalid").Inc()
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	event, err := s.Record(ctx, "mqtt", p)
	if err != nil {
		return err
	}
	s.log.Debug().Str("topic", topic).Str("event_id", event.ID).Msg("event ingested")
	return nil
}
