package plugin

import (
	"net/rpc"

	hcplugin "github.com/hashicorp/go-plugin"

	"github.com/felixgeelhaar/pond/internal/script"
)

// GuideRPCPlugin is the hcplugin.Plugin implementation for guides.
type GuideRPCPlugin struct {
	Impl Guide
}

func (p *GuideRPCPlugin) Server(*hcplugin.MuxBroker) (interface{}, error) {
	return &GuideRPCServer{Impl: p.Impl}, nil
}

func (p *GuideRPCPlugin) Client(b *hcplugin.MuxBroker, c *rpc.Client) (interface{}, error) {
	return &GuideRPCClient{client: c}, nil
}

// GuideInfo carries the persona's identity in one round trip.
type GuideInfo struct {
	Name    string
	Version string
}

// GuideRPCServer serves a local Guide implementation over RPC.
type GuideRPCServer struct {
	Impl Guide
}

func (s *GuideRPCServer) Info(args interface{}, resp *GuideInfo) error {
	resp.Name = s.Impl.Name()
	resp.Version = s.Impl.Version()
	return nil
}

func (s *GuideRPCServer) Script(args interface{}, resp *script.Script) error {
	sc, err := s.Impl.Script()
	if err != nil {
		return err
	}
	*resp = *sc
	return nil
}

// GuideRPCClient is a Guide backed by a remote plugin process.
type GuideRPCClient struct {
	client *rpc.Client
}

func (c *GuideRPCClient) Name() string {
	var info GuideInfo
	if err := c.client.Call("Plugin.Info", new(interface{}), &info); err != nil {
		return "unknown"
	}
	return info.Name
}

func (c *GuideRPCClient) Version() string {
	var info GuideInfo
	if err := c.client.Call("Plugin.Info", new(interface{}), &info); err != nil {
		return "unknown"
	}
	return info.Version
}

func (c *GuideRPCClient) Script() (*script.Script, error) {
	var sc script.Script
	if err := c.client.Call("Plugin.Script", new(interface{}), &sc); err != nil {
		return nil, err
	}
	return &sc, nil
}
