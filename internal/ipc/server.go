package ipc

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/rpc"
	"net/rpc/jsonrpc"
	"os"
	"strings"
	"sync"
	"time"

	"log/slog"

	"gazecap/internal/daemon"
	"gazecap/internal/logging"
	"gazecap/internal/logs"
	"gazecap/internal/sequencer"
)

// Server exposes daemon control via JSON-RPC over a Unix domain socket.
type Server struct {
	path      string
	daemon    *daemon.Daemon
	logger    *slog.Logger
	listener  net.Listener
	rpcServer *rpc.Server

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewServer configures the IPC server at the given socket path.
func NewServer(ctx context.Context, path string, d *daemon.Daemon, logger *slog.Logger) (*Server, error) {
	if d == nil {
		return nil, errors.New("ipc server requires daemon")
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	if err := os.RemoveAll(path); err != nil {
		return nil, fmt.Errorf("remove existing socket: %w", err)
	}

	listener, err := net.Listen("unix", path)
	if err != nil {
		return nil, fmt.Errorf("listen on socket: %w", err)
	}

	rpcServer := rpc.NewServer()
	srv := &service{daemon: d, logger: logger, ctx: ctx}
	if err := rpcServer.RegisterName("Gazecap", srv); err != nil {
		listener.Close()
		return nil, fmt.Errorf("register rpc service: %w", err)
	}

	serverCtx, cancel := context.WithCancel(ctx)
	return &Server{
		path:      path,
		daemon:    d,
		logger:    logger,
		listener:  listener,
		rpcServer: rpcServer,
		ctx:       serverCtx,
		cancel:    cancel,
	}, nil
}

// Serve starts accepting RPC connections until the context is canceled.
func (s *Server) Serve() {
	s.logger.Debug("IPC server listening", logging.String("socket", s.path))
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		for {
			conn, err := s.listener.Accept()
			if err != nil {
				select {
				case <-s.ctx.Done():
					return
				default:
				}
				s.logger.Warn("accept failed",
					logging.Error(err),
					logging.String(logging.FieldEventType, "ipc_accept_failed"),
					logging.String(logging.FieldImpact, "IPC clients may fail to connect"),
					logging.String(logging.FieldErrorHint, "Check socket permissions and restart the daemon if needed"))
				continue
			}
			s.wg.Add(1)
			go func(c net.Conn) {
				defer s.wg.Done()
				s.rpcServer.ServeCodec(jsonrpc.NewServerCodec(c))
			}(conn)
		}
	}()
}

// Close stops the server and removes the socket file.
func (s *Server) Close() {
	s.cancel()
	if s.listener != nil {
		_ = s.listener.Close()
	}
	s.wg.Wait()
	if err := os.RemoveAll(s.path); err != nil {
		s.logger.Warn("failed to remove socket",
			logging.String("socket", s.path),
			logging.Error(err),
			logging.String(logging.FieldEventType, "ipc_socket_cleanup_failed"),
			logging.String(logging.FieldImpact, "stale IPC socket may block future starts"),
			logging.String(logging.FieldErrorHint, "Remove the socket file manually or rerun gazecap stop"))
	}
}

type service struct {
	daemon *daemon.Daemon
	logger *slog.Logger
	ctx    context.Context
}

func (s *service) log() *slog.Logger {
	if s.logger == nil {
		return logging.NewNop()
	}
	return s.logger.With(logging.String(logging.FieldComponent, "ipc"))
}

func (s *service) Start(_ StartRequest, resp *StartResponse) error {
	s.log().Debug("daemon start requested")
	if err := s.daemon.Start(s.ctx); err != nil {
		resp.Started = false
		resp.Message = err.Error()
		return nil
	}
	resp.Started = true
	resp.Message = "daemon started"
	s.log().Info("daemon started via IPC",
		logging.String(logging.FieldEventType, "daemon_start"))
	return nil
}

func (s *service) Stop(_ StopRequest, resp *StopResponse) error {
	s.log().Debug("daemon stop requested")
	s.daemon.Stop()
	resp.Stopped = true
	s.log().Info("daemon stopped via IPC",
		logging.String(logging.FieldEventType, "daemon_stop"))
	return nil
}

func (s *service) Ping(_ PingRequest, resp *PingResponse) error {
	resp.PID = os.Getpid()
	return nil
}

func (s *service) Status(_ StatusRequest, resp *StatusResponse) error {
	status := s.daemon.Status(s.ctx)
	resp.Running = status.Running
	resp.StoreDBPath = status.StoreDBPath
	resp.LockPath = status.LockFilePath
	resp.PID = status.PID
	resp.Session = SessionStatus{
		Active:      status.Session.Active,
		SessionID:   status.Session.SessionID,
		Mode:        status.Session.Mode,
		State:       string(status.Session.State),
		PointIndex:  status.Session.PointIndex,
		TotalPoints: status.Session.TotalPoints,
		Remaining:   status.Session.Remaining,
	}
	if result := status.Session.Result; result != nil {
		resp.Session.Result = &SessionResult{
			State:        string(result.State),
			SuccessCount: result.SuccessCount,
			TotalCount:   result.TotalCount,
			Failures:     append([]string(nil), result.Failures...),
		}
	}
	return nil
}

func (s *service) SessionStart(req SessionStartRequest, resp *SessionStartResponse) error {
	mode, err := sequencer.ParseMode(req.Mode)
	if err != nil {
		return err
	}
	s.log().Debug("session start requested", logging.String("mode", string(mode)))
	id, err := s.daemon.StartSession(s.ctx, mode)
	if err != nil {
		resp.Started = false
		resp.Message = err.Error()
		return nil
	}
	resp.Started = true
	resp.SessionID = id
	resp.Message = "session started"
	s.log().Info("session started via IPC",
		logging.String(logging.FieldEventType, "session_start"),
		logging.String(logging.FieldSessionID, id))
	return nil
}

func (s *service) SessionCancel(_ SessionCancelRequest, resp *SessionCancelResponse) error {
	s.log().Debug("session cancel requested")
	resp.Cancelled = s.daemon.CancelSession()
	if resp.Cancelled {
		s.log().Info("session cancelled via IPC",
			logging.String(logging.FieldEventType, "session_cancel"))
	}
	return nil
}

func (s *service) CameraList(_ CameraListRequest, resp *CameraListResponse) error {
	devices, err := s.daemon.ListCameras(s.ctx)
	if err != nil {
		return err
	}
	resp.Cameras = make([]Camera, 0, len(devices))
	for _, dev := range devices {
		resp.Cameras = append(resp.Cameras, Camera{
			ID:        dev.ID,
			Path:      dev.Path,
			Label:     dev.Label,
			MaxWidth:  dev.MaxWidth,
			MaxHeight: dev.MaxHeight,
		})
	}
	return nil
}

func (s *service) GroupList(req GroupListRequest, resp *GroupListResponse) error {
	records, err := s.daemon.ListGroups(s.ctx, req.Limit)
	if err != nil {
		return err
	}
	resp.Groups = make([]Group, 0, len(records))
	for _, record := range records {
		resp.Groups = append(resp.Groups, Group{
			ID:             record.ID,
			SequenceNumber: record.SequenceNumber,
			Status:         record.Status,
			PointX:         record.PointX,
			PointY:         record.PointY,
			PointLabel:     record.PointLabel,
			CreatedAt:      record.CreatedAt,
			ArtifactCount:  record.ArtifactCount,
		})
	}
	return nil
}

func (s *service) GroupArtifacts(req GroupArtifactsRequest, resp *GroupArtifactsResponse) error {
	if strings.TrimSpace(req.GroupID) == "" {
		return errors.New("group artifacts requires a group id")
	}
	records, err := s.daemon.GroupArtifacts(s.ctx, req.GroupID)
	if err != nil {
		return err
	}
	resp.Artifacts = make([]GroupArtifact, 0, len(records))
	for _, record := range records {
		resp.Artifacts = append(resp.Artifacts, GroupArtifact{
			Kind:            record.Kind,
			Filename:        record.Filename,
			PreviewFilename: record.PreviewFilename,
			SizeBytes:       record.SizeBytes,
			CreatedAt:       record.CreatedAt,
		})
	}
	return nil
}

func (s *service) SettingGet(req SettingGetRequest, resp *SettingGetResponse) error {
	value, found, err := s.daemon.GetSetting(s.ctx, req.User, req.Key)
	if err != nil {
		return err
	}
	resp.Value = value
	resp.Found = found
	return nil
}

func (s *service) SettingSet(req SettingSetRequest, resp *SettingSetResponse) error {
	if err := s.daemon.SetSetting(s.ctx, req.User, req.Key, req.Value); err != nil {
		return err
	}
	resp.Updated = true
	s.log().Info("setting updated via IPC",
		logging.String(logging.FieldEventType, "setting_update"),
		logging.String("key", req.Key))
	return nil
}

func (s *service) SettingList(req SettingListRequest, resp *SettingListResponse) error {
	settings, err := s.daemon.ListSettings(s.ctx, req.User)
	if err != nil {
		return err
	}
	resp.Settings = settings
	return nil
}

func (s *service) LogTail(req LogTailRequest, resp *LogTailResponse) error {
	logPath := s.daemon.LogPath()
	if logPath == "" {
		resp.Offset = 0
		return nil
	}
	wait := time.Duration(req.WaitMillis) * time.Millisecond
	if wait <= 0 && req.Follow {
		wait = time.Second
	}
	options := logs.TailOptions{
		Offset: req.Offset,
		Limit:  req.Limit,
		Follow: req.Follow,
		Wait:   wait,
	}
	ctx := s.ctx
	if req.Follow && wait > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(s.ctx, wait+500*time.Millisecond)
		defer cancel()
	}
	result, err := logs.Tail(ctx, logPath, options)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			resp.Offset = result.Offset
			return nil
		}
		return err
	}
	resp.Lines = result.Lines
	resp.Offset = result.Offset
	return nil
}

func (s *service) TestNotification(_ TestNotificationRequest, resp *TestNotificationResponse) error {
	sent, message, err := s.daemon.TestNotification(s.ctx)
	resp.Sent = sent
	resp.Message = message
	return err
}
