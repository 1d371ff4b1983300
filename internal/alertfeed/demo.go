package alertfeed

import (
	"fmt"
	"math/rand"
	"strconv"
	"time"

	"surveillance-dashboard/internal/model"
)

// weighted pools, repeated entries raise the odds
var (
	demoTypes = []string{
		model.EventTypeVehicle, model.EventTypeVehicle, model.EventTypeVehicle, model.EventTypeVehicle,
		model.EventTypeHuman, model.EventTypeHuman, model.EventTypeHuman,
		model.EventTypeAnimal, model.EventTypeAnimal,
	}
	demoLocations = []string{
		"Main Gate", "Main Gate", "Main Gate",
		"Parking Area", "Parking Area", "Parking Area",
		"Back Gate", "Back Gate",
		"Side Entrance",
	}
	demoLevels = []string{
		model.AlertLevelHigh,
		model.AlertLevelMedium, model.AlertLevelMedium,
		model.AlertLevelLow, model.AlertLevelLow, model.AlertLevelLow, model.AlertLevelLow,
	}
)

var demoDetails = map[string][]string{
	model.EventTypeVehicle: {
		"Unauthorized vehicle detected at %s",
		"Vehicle movement detected at %s",
		"Parked vehicle detected at %s",
		"Vehicle stopped at %s",
	},
	model.EventTypeHuman: {
		"Person detected at %s",
		"Movement detected at %s",
		"Person walking at %s",
	},
	model.EventTypeAnimal: {
		"Stray animal detected at %s",
		"Animal movement at %s",
		"Animal crossing at %s",
	},
}

var nightDetails = map[string]string{
	model.EventTypeVehicle: "Suspicious vehicle activity at %s",
	model.EventTypeHuman:   "Suspicious person at %s",
}

// Generator makes synthetic filler alerts for demo mode. They are never
// stored.
type Generator struct {
	rnd *rand.Rand
	now func() time.Time
	seq int
}

func NewGenerator(seed int64) *Generator {
	return &Generator{
		rnd: rand.New(rand.NewSource(seed)),
		now: time.Now,
	}
}

func isNight(t time.Time) bool {
	h := t.Hour()
	return h >= 20 || h <= 5
}

func (g *Generator) pick(pool []string) string {
	return pool[g.rnd.Intn(len(pool))]
}

// Next returns one synthetic alert. At night human and vehicle alerts are
// raised more often.
func (g *Generator) Next() model.Event {
	now := g.now()
	eventType := g.pick(demoTypes)
	location := g.pick(demoLocations)
	level := g.pick(demoLevels)

	details := fmt.Sprintf(g.pick(demoDetails[eventType]), location)
	if isNight(now) {
		if tmpl, ok := nightDetails[eventType]; ok {
			details = fmt.Sprintf(tmpl, location)
			switch chance := g.rnd.Float64(); {
			case chance > 0.7:
				level = model.AlertLevelHigh
			case chance > 0.4:
				level = model.AlertLevelMedium
			}
		}
	}

	g.seq++
	return model.Event{
		ID:         "demo-" + strconv.FormatInt(now.UnixMilli(), 10) + "-" + strconv.Itoa(g.seq),
		CameraID:   fmt.Sprintf("Camera %d", g.rnd.Intn(4)+1),
		Timestamp:  now.UTC(),
		EventType:  eventType,
		Details:    details,
		Alert:      model.IsAlert(level),
		AlertLevel: level,
	}
}
