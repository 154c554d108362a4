// Package share builds client share links for server nodes and renders
// them as QR codes for mobile import. Each supported protocol has its
// own URI convention; anything else falls back to a generic
// scheme://host:port form so every node stays shareable.
package share

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"nexus-panel/internal/database"
)

// vmessOutbound is the JSON payload encoded into a vmess:// link.
type vmessOutbound struct {
	Version string `json:"v"`    // Link format version, always "2"
	Name    string `json:"ps"`   // Display name shown by the client
	Address string `json:"add"`  // Server host
	Port    string `json:"port"` // Server port, stringly typed per convention
	ID      string `json:"id"`   // Client credential UUID
	AlterID string `json:"aid"`  // Legacy alter id, always "0"
	Network string `json:"net"`  // Transport: tcp, ws, grpc, ...
	Type    string `json:"type"` // Header obfuscation, always "none"
	Host    string `json:"host"` // SNI / Host header
	Path    string `json:"path"` // Websocket / gRPC path
	TLS     string `json:"tls"`  // "tls" when enabled, empty otherwise
}

// Link builds the client share URI for a node. The credential is minted
// per call: links are import templates, not live account material.
func Link(node *database.ServerNode) (string, error) {
	if node == nil {
		return "", fmt.Errorf("node is nil")
	}

	credential := uuid.NewString()
	switch node.Protocol {
	case database.ProtocolVMess:
		return vmessLink(node, credential)
	case database.ProtocolVLESS:
		return vlessLink(node, credential), nil
	case database.ProtocolTrojan:
		return trojanLink(node, credential), nil
	case database.ProtocolShadowsocks:
		return shadowsocksLink(node, credential), nil
	default:
		return genericLink(node), nil
	}
}

func vmessLink(node *database.ServerNode, credential string) (string, error) {
	tls := ""
	if node.TLS {
		tls = "tls"
	}
	outbound := vmessOutbound{
		Version: "2",
		Name:    node.Name,
		Address: node.Address,
		Port:    strconv.Itoa(node.Port),
		ID:      credential,
		AlterID: "0",
		Network: string(node.Transport),
		Type:    "none",
		Host:    node.SNI,
		Path:    node.Path,
		TLS:     tls,
	}
	payload, err := json.Marshal(outbound)
	if err != nil {
		return "", fmt.Errorf("failed to encode vmess payload: %w", err)
	}
	return "vmess://" + base64.StdEncoding.EncodeToString(payload), nil
}

func vlessLink(node *database.ServerNode, credential string) string {
	query := url.Values{}
	query.Set("type", string(node.Transport))
	if node.TLS {
		query.Set("security", "tls")
	} else {
		query.Set("security", "none")
	}
	if node.SNI != "" {
		query.Set("sni", node.SNI)
	}
	if node.Path != "" {
		query.Set("path", node.Path)
	}
	return fmt.Sprintf("vless://%s@%s:%d?%s#%s",
		credential, node.Address, node.Port, query.Encode(), url.PathEscape(node.Name))
}

func trojanLink(node *database.ServerNode, credential string) string {
	query := url.Values{}
	if node.SNI != "" {
		query.Set("sni", node.SNI)
	}
	link := fmt.Sprintf("trojan://%s@%s:%d", credential, node.Address, node.Port)
	if encoded := query.Encode(); encoded != "" {
		link += "?" + encoded
	}
	return link + "#" + url.PathEscape(node.Name)
}

func shadowsocksLink(node *database.ServerNode, credential string) string {
	userInfo := base64.StdEncoding.EncodeToString(
		[]byte("chacha20-ietf-poly1305:" + credential))
	return fmt.Sprintf("ss://%s@%s:%d#%s",
		userInfo, node.Address, node.Port, url.PathEscape(node.Name))
}

func genericLink(node *database.ServerNode) string {
	scheme := strings.ToLower(string(node.Protocol))
	return fmt.Sprintf("%s://%s:%d#%s",
		scheme, node.Address, node.Port, url.PathEscape(node.Name))
}
