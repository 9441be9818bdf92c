// Package plugin lets external binaries supply guide personas, full
// ritual scripts served over go-plugin's RPC transport.
package plugin

import (
	"fmt"
	"os/exec"

	hcplugin "github.com/hashicorp/go-plugin"

	"github.com/felixgeelhaar/pond/internal/script"
)

// HandshakeConfig is used to handshake between host and plugin.
var HandshakeConfig = hcplugin.HandshakeConfig{
	ProtocolVersion:  1,
	MagicCookieKey:   "POND_PLUGIN_MAGIC_COOKIE",
	MagicCookieValue: "pond-runtime",
}

// PluginMap is the map of plugins we can dispense.
var PluginMap = map[string]hcplugin.Plugin{
	"guide": &GuideRPCPlugin{},
}

// Guide is a ritual persona: it names itself and hands the host the
// script its ritual should run.
type Guide interface {
	Name() string
	Version() string
	Script() (*script.Script, error)
}

// LoadGuide launches a guide plugin binary and returns its persona along
// with a close function that kills the subprocess.
func LoadGuide(path string) (Guide, func(), error) {
	client := hcplugin.NewClient(&hcplugin.ClientConfig{
		HandshakeConfig: HandshakeConfig,
		Plugins:         PluginMap,
		Cmd:             exec.Command(path),
	})

	rpcClient, err := client.Client()
	if err != nil {
		client.Kill()
		return nil, nil, fmt.Errorf("failed to connect to guide plugin: %w", err)
	}

	raw, err := rpcClient.Dispense("guide")
	if err != nil {
		client.Kill()
		return nil, nil, fmt.Errorf("failed to dispense guide: %w", err)
	}

	guide, ok := raw.(Guide)
	if !ok {
		client.Kill()
		return nil, nil, fmt.Errorf("plugin %s is not a guide", path)
	}
	return guide, client.Kill, nil
}

// ServeGuide is called from a plugin binary's main to serve its persona.
func ServeGuide(impl Guide) {
	hcplugin.Serve(&hcplugin.ServeConfig{
		HandshakeConfig: HandshakeConfig,
		Plugins: map[string]hcplugin.Plugin{
			"guide": &GuideRPCPlugin{Impl: impl},
		},
	})
}
