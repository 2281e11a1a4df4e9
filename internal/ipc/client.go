package ipc

import (
	"net"
	"net/rpc"
	"net/rpc/jsonrpc"
	"time"
)

// Client provides RPC access to the daemon.
type Client struct {
	conn   net.Conn
	client *rpc.Client
}

// Dial connects to the IPC server at the given socket path.
func Dial(path string) (*Client, error) {
	conn, err := net.DialTimeout("unix", path, 2*time.Second)
	if err != nil {
		return nil, err
	}
	rpcClient := rpc.NewClientWithCodec(jsonrpc.NewClientCodec(conn))
	return &Client{conn: conn, client: rpcClient}, nil
}

// Close closes the underlying connection.
func (c *Client) Close() error {
	if c.client != nil {
		_ = c.client.Close()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

// Start requests the daemon to start.
func (c *Client) Start() (*StartResponse, error) {
	var resp StartResponse
	if err := c.client.Call("Gazecap.Start", StartRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Stop requests the daemon to stop.
func (c *Client) Stop() (*StopResponse, error) {
	var resp StopResponse
	if err := c.client.Call("Gazecap.Stop", StopRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Ping checks that the daemon answers on the socket.
func (c *Client) Ping() (*PingResponse, error) {
	var resp PingResponse
	if err := c.client.Call("Gazecap.Ping", PingRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Status retrieves the daemon status.
func (c *Client) Status() (*StatusResponse, error) {
	var resp StatusResponse
	if err := c.client.Call("Gazecap.Status", StatusRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// SessionStart launches a capture session in the given mode.
func (c *Client) SessionStart(mode string) (*SessionStartResponse, error) {
	var resp SessionStartResponse
	req := SessionStartRequest{Mode: mode}
	if err := c.client.Call("Gazecap.SessionStart", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// SessionCancel cancels the running session if any.
func (c *Client) SessionCancel() (*SessionCancelResponse, error) {
	var resp SessionCancelResponse
	if err := c.client.Call("Gazecap.SessionCancel", SessionCancelRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// CameraList enumerates the attached video input devices.
func (c *Client) CameraList() (*CameraListResponse, error) {
	var resp CameraListResponse
	if err := c.client.Call("Gazecap.CameraList", CameraListRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GroupList returns stored capture groups, newest first.
func (c *Client) GroupList(limit int) (*GroupListResponse, error) {
	var resp GroupListResponse
	req := GroupListRequest{Limit: limit}
	if err := c.client.Call("Gazecap.GroupList", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GroupArtifacts returns the artifacts of one stored group.
func (c *Client) GroupArtifacts(groupID string) (*GroupArtifactsResponse, error) {
	var resp GroupArtifactsResponse
	req := GroupArtifactsRequest{GroupID: groupID}
	if err := c.client.Call("Gazecap.GroupArtifacts", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// SettingGet resolves one per-user setting override.
func (c *Client) SettingGet(user, key string) (*SettingGetResponse, error) {
	var resp SettingGetResponse
	req := SettingGetRequest{User: user, Key: key}
	if err := c.client.Call("Gazecap.SettingGet", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// SettingSet validates and stores a per-user override.
func (c *Client) SettingSet(user, key, value string) (*SettingSetResponse, error) {
	var resp SettingSetResponse
	req := SettingSetRequest{User: user, Key: key, Value: value}
	if err := c.client.Call("Gazecap.SettingSet", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// SettingList returns every override stored for a user.
func (c *Client) SettingList(user string) (*SettingListResponse, error) {
	var resp SettingListResponse
	req := SettingListRequest{User: user}
	if err := c.client.Call("Gazecap.SettingList", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// LogTail returns log lines from the daemon.
func (c *Client) LogTail(req LogTailRequest) (*LogTailResponse, error) {
	var resp LogTailResponse
	if err := c.client.Call("Gazecap.LogTail", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// TestNotification triggers a notification test via the daemon.
func (c *Client) TestNotification() (*TestNotificationResponse, error) {
	var resp TestNotificationResponse
	if err := c.client.Call("Gazecap.TestNotification", TestNotificationRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
