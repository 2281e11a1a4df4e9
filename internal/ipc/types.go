package ipc

// StartRequest triggers daemon startup.
type StartRequest struct{}

// StartResponse indicates whether the daemon was started.
type StartResponse struct {
	Started bool   `json:"started"`
	Message string `json:"message"`
}

// StopRequest stops the daemon.
type StopRequest struct{}

// StopResponse indicates stop result.
type StopResponse struct {
	Stopped bool `json:"stopped"`
}

// PingRequest checks that the daemon process is answering on the socket.
type PingRequest struct{}

// PingResponse carries the responding process id.
type PingResponse struct {
	PID int `json:"pid"`
}

// StatusRequest fetches daemon status.
type StatusRequest struct{}

// SessionResult summarizes a finished session.
type SessionResult struct {
	State        string   `json:"state"`
	SuccessCount int      `json:"success_count"`
	TotalCount   int      `json:"total_count"`
	Failures     []string `json:"failures,omitempty"`
}

// SessionStatus describes the engine's current or most recent session.
type SessionStatus struct {
	Active      bool           `json:"active"`
	SessionID   string         `json:"session_id"`
	Mode        string         `json:"mode"`
	State       string         `json:"state"`
	PointIndex  int            `json:"point_index"`
	TotalPoints int            `json:"total_points"`
	Remaining   int            `json:"remaining"`
	Result      *SessionResult `json:"result,omitempty"`
}

// StatusResponse represents combined daemon and session status information.
type StatusResponse struct {
	Running     bool          `json:"running"`
	Session     SessionStatus `json:"session"`
	StoreDBPath string        `json:"store_db_path"`
	LockPath    string        `json:"lock_path"`
	PID         int           `json:"pid"`
}

// SessionStartRequest launches a capture session.
type SessionStartRequest struct {
	Mode string `json:"mode"`
}

// SessionStartResponse reports the launched session.
type SessionStartResponse struct {
	Started   bool   `json:"started"`
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
}

// SessionCancelRequest cancels the running session.
type SessionCancelRequest struct{}

// SessionCancelResponse reports whether a session was cancelled.
type SessionCancelResponse struct {
	Cancelled bool `json:"cancelled"`
}

// CameraListRequest enumerates attached cameras.
type CameraListRequest struct{}

// Camera describes one attached video input device.
type Camera struct {
	ID        string `json:"id"`
	Path      string `json:"path"`
	Label     string `json:"label"`
	MaxWidth  int    `json:"max_width"`
	MaxHeight int    `json:"max_height"`
}

// CameraListResponse contains the attached cameras.
type CameraListResponse struct {
	Cameras []Camera `json:"cameras"`
}

// GroupListRequest lists stored capture groups. Limit <= 0 returns everything.
type GroupListRequest struct {
	Limit int `json:"limit"`
}

// Group is one stored capture group.
type Group struct {
	ID             string `json:"id"`
	SequenceNumber int64  `json:"sequence_number"`
	Status         string `json:"status"`
	PointX         int    `json:"point_x"`
	PointY         int    `json:"point_y"`
	PointLabel     string `json:"point_label"`
	CreatedAt      string `json:"created_at"`
	ArtifactCount  int    `json:"artifact_count"`
}

// GroupListResponse contains stored groups, newest first.
type GroupListResponse struct {
	Groups []Group `json:"groups"`
}

// GroupArtifactsRequest fetches the artifacts of one group.
type GroupArtifactsRequest struct {
	GroupID string `json:"group_id"`
}

// GroupArtifact is one stored artifact row.
type GroupArtifact struct {
	Kind            string `json:"kind"`
	Filename        string `json:"filename"`
	PreviewFilename string `json:"preview_filename,omitempty"`
	SizeBytes       int64  `json:"size_bytes"`
	CreatedAt       string `json:"created_at"`
}

// GroupArtifactsResponse contains one group's artifacts.
type GroupArtifactsResponse struct {
	Artifacts []GroupArtifact `json:"artifacts"`
}

// SettingGetRequest resolves one per-user setting override.
type SettingGetRequest struct {
	User string `json:"user"`
	Key  string `json:"key"`
}

// SettingGetResponse returns a setting value if an override exists.
type SettingGetResponse struct {
	Value string `json:"value"`
	Found bool   `json:"found"`
}

// SettingSetRequest stores a per-user setting override.
type SettingSetRequest struct {
	User  string `json:"user"`
	Key   string `json:"key"`
	Value string `json:"value"`
}

// SettingSetResponse acknowledges a stored override.
type SettingSetResponse struct {
	Updated bool `json:"updated"`
}

// SettingListRequest lists every override stored for a user.
type SettingListRequest struct {
	User string `json:"user"`
}

// SettingListResponse maps setting keys to override values.
type SettingListResponse struct {
	Settings map[string]string `json:"settings"`
}

// LogTailRequest fetches log lines based on offset and follow semantics.
type LogTailRequest struct {
	Offset     int64 `json:"offset"`
	Limit      int   `json:"limit"`
	Follow     bool  `json:"follow"`
	WaitMillis int   `json:"wait_millis"`
}

// LogTailResponse returns log lines and the next offset.
type LogTailResponse struct {
	Lines  []string `json:"lines"`
	Offset int64    `json:"offset"`
}

// TestNotificationRequest triggers a notification test.
type TestNotificationRequest struct{}

// TestNotificationResponse reports notification test outcome.
type TestNotificationResponse struct {
	Sent    bool   `json:"sent"`
	Message string `json:"message"`
}
