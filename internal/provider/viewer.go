package provider

import (
	"context"
	"encoding/json"
	"net"
	"os"
	"path/filepath"
	"strings"

	"github.com/conneroisu/patternlab/internal/data"
	"github.com/conneroisu/patternlab/internal/identifier"
)

// Viewer controls that are always hidden; page follow and auto-reload need
// a live server.
var alwaysHiddenControls = []string{"tools-follow", "tools-reload"}

// ViewerData is the global data overlaid with the session metadata the
// viewer needs: settings, navigation, link table, path lookups,
// breakpoints and the cache buster. Creates the annotations and data
// folders when missing.
func (p *Provider) ViewerData() data.Collection {
	return p.viewerData.get(func() data.Collection {
		p.ensureDir(filepath.Join(p.sourceDir, FolderNameAnnotations))

		tax := p.Taxonomy()

		meta := data.Collection{}
		meta.Set("patternEngineName", identifier.ToDisplayCase(p.PatternEngine().Name()))
		meta.Set("ishminimum", p.Setting("ishMinimum"))
		meta.Set("ishmaximum", p.Setting("ishMaximum"))
		meta.Set("qrcodegeneratoron", p.Setting("qrCodeGeneratorOn"))
		meta.Set("ipaddress", p.hostAddress())
		meta.Set("xiphostname", p.Setting("xipHostname"))
		meta.Set("autoreloadnav", p.Setting("autoReloadNav"))
		meta.Set("autoreloadport", p.Setting("autoReloadPort"))
		meta.Set("pagefollownav", p.Setting("pageFollowNav"))
		meta.Set("pagefollowport", p.Setting("pageFollowPort"))
		meta.Set("ishControlsHide", p.hiddenControls())
		meta.Set("link", toInterface(tax.Links))
		meta.Set("patternpaths", toJSON(tax.PatternPaths))
		meta.Set("viewallpaths", toJSON(tax.ViewAllPaths))
		meta.Set("mqs", toInterface(p.MediaQueries()))
		meta.Set("patternTypes", toInterface(tax.PatternTypes))
		meta.Set("cacheBuster", p.CacheBuster(false))

		return data.MergeData(p.Data(), meta)
	})
}

func (p *Provider) hiddenControls() map[string]interface{} {
	hidden := make(map[string]interface{})
	for _, control := range p.settingList("ishControlsHide") {
		hidden[control] = true
	}
	for _, control := range alwaysHiddenControls {
		hidden[control] = true
	}
	if _, err := os.Stat(filepath.Join(p.sourceDir, FolderNameSnapshots)); err != nil {
		hidden["tools-snapshot"] = true
	}
	return hidden
}

// hostAddress returns the first non-loopback IPv4 address of the host.
func (p *Provider) hostAddress() string {
	if p.ipAddress != "" {
		return p.ipAddress
	}
	addrs, err := net.InterfaceAddrs()
	if err != nil {
		p.logger.Debug(context.Background(), "Cannot list interface addresses", "error", err.Error())
		return "127.0.0.1"
	}
	for _, addr := range addrs {
		if ipNet, ok := addr.(*net.IPNet); ok && !ipNet.IP.IsLoopback() && ipNet.IP.To4() != nil {
			return ipNet.IP.String()
		}
	}
	return "127.0.0.1"
}

// toInterface converts v into plain maps, slices and scalars so templates
// and data values see the same shapes as JSON data files.
func toInterface(v interface{}) interface{} {
	b, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	var out interface{}
	if err := json.Unmarshal(b, &out); err != nil {
		return nil
	}
	return out
}

func toJSON(v interface{}) string {
	b, err := json.Marshal(v)
	if err != nil {
		return "{}"
	}
	return strings.TrimSpace(string(b))
}
