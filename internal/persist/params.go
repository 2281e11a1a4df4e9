package persist

import (
	"encoding/json"
	"time"

	"gazecap/internal/capture"
)

// parameterRecord is the JSON document submitted first for every group. It
// conventionally carries the group's sequence assignment, so it is written
// before any image artifact.
type parameterRecord struct {
	GroupID   string            `json:"group_id"`
	Timestamp string            `json:"timestamp"`
	Point     parameterPoint    `json:"point"`
	Surface   parameterDims     `json:"surface"`
	Viewport  parameterDims     `json:"viewport"`
	Cameras   []parameterCamera `json:"cameras"`
}

type parameterPoint struct {
	X     int    `json:"x"`
	Y     int    `json:"y"`
	Label string `json:"label,omitempty"`
}

type parameterDims struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

type parameterCamera struct {
	DeviceID string `json:"device_id"`
	Role     string `json:"role"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	Captured bool   `json:"captured"`
}

func encodeParameters(groupID string, snap capture.Snapshot) ([]byte, error) {
	record := parameterRecord{
		GroupID:   groupID,
		Timestamp: snap.Timestamp.UTC().Format(time.RFC3339Nano),
		Point: parameterPoint{
			X:     snap.Point.X,
			Y:     snap.Point.Y,
			Label: snap.Point.Label,
		},
		Surface:  parameterDims{Width: snap.SurfaceWidth, Height: snap.SurfaceHeight},
		Viewport: parameterDims{Width: snap.ViewportWidth, Height: snap.ViewportHeight},
	}
	for _, slot := range snap.Cameras {
		record.Cameras = append(record.Cameras, parameterCamera{
			DeviceID: slot.Info.DeviceID,
			Role:     string(slot.Info.Role),
			Width:    slot.Info.Width,
			Height:   slot.Info.Height,
			Captured: slot.Image != nil,
		})
	}
	return json.MarshalIndent(record, "", "  ")
}
