package view

import (
	"time"

	"surveillance-dashboard/internal/model"
)

type FeedCard struct {
	CameraID   string    `json:"camera_id"`
	Name       string    `json:"name"`
	Status     string    `json:"status"`
	LastPing   time.Time `json:"last_ping"`
	Detections int64     `json:"detections"`
	StreamURL  string    `json:"stream_url"`
	Fullscreen bool      `json:"fullscreen"`
}

type LiveFeedsView struct {
	StreamURL  string     `json:"stream_url"`
	Fullscreen string     `json:"fullscreen,omitempty"`
	Feeds      []FeedCard `json:"feeds"`
}

// BuildLiveFeeds makes one card per directory camera. Every card shows the
// same stream; fullscreen names the camera whose card is expanded, if any.
func BuildLiveFeeds(snap model.Snapshot, streamURL, fullscreen string) LiveFeedsView {
	detections := make(map[string]int64, len(snap.CameraStats))
	for _, s := range snap.CameraStats {
		detections[s.CameraID] = s.TotalDetections
	}

	feeds := make([]FeedCard, 0, len(snap.Cameras))
	found := false
	for _, c := range snap.Cameras {
		full := fullscreen != "" && c.CameraID == fullscreen
		found = found || full
		feeds = append(feeds, FeedCard{
			CameraID:   c.CameraID,
			Name:       c.Name,
			Status:     c.Status,
			LastPing:   c.LastPing,
			Detections: detections[c.CameraID],
			StreamURL:  streamURL,
			Fullscreen: full,
		})
	}
	if !found {
		fullscreen = ""
	}

	return LiveFeedsView{StreamURL: streamURL, Fullscreen: fullscreen, Feeds: feeds}
}
