package share

import (
	"encoding/base64"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nexus-panel/internal/database"
)

func TestLink(t *testing.T) {
	t.Run("should encode a vmess node as base64 JSON", func(t *testing.T) {
		node := &database.ServerNode{
			Name:      "US-East-1",
			Address:   "104.16.1.1",
			Port:      443,
			Protocol:  database.ProtocolVMess,
			Transport: database.TransportWS,
			TLS:       true,
			SNI:       "cdn.example.com",
			Path:      "/ray",
		}

		link, err := Link(node)
		require.NoError(t, err)
		require.True(t, strings.HasPrefix(link, "vmess://"))

		payload, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(link, "vmess://"))
		require.NoError(t, err)

		var outbound vmessOutbound
		require.NoError(t, json.Unmarshal(payload, &outbound))
		assert.Equal(t, "2", outbound.Version)
		assert.Equal(t, "US-East-1", outbound.Name)
		assert.Equal(t, "104.16.1.1", outbound.Address)
		assert.Equal(t, "443", outbound.Port)
		assert.Equal(t, "0", outbound.AlterID)
		assert.Equal(t, "ws", outbound.Network)
		assert.Equal(t, "cdn.example.com", outbound.Host)
		assert.Equal(t, "/ray", outbound.Path)
		assert.Equal(t, "tls", outbound.TLS)
		assert.NotEmpty(t, outbound.ID)
	})

	t.Run("should leave tls empty on a plaintext vmess node", func(t *testing.T) {
		node := &database.ServerNode{
			Name: "plain", Address: "1.2.3.4", Port: 80,
			Protocol: database.ProtocolVMess, Transport: database.TransportTCP,
		}

		link, err := Link(node)
		require.NoError(t, err)
		payload, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(link, "vmess://"))
		require.NoError(t, err)

		var outbound vmessOutbound
		require.NoError(t, json.Unmarshal(payload, &outbound))
		assert.Empty(t, outbound.TLS)
	})

	t.Run("should build a vless URL with transport and security", func(t *testing.T) {
		node := &database.ServerNode{
			Name: "SG-Asia-1", Address: "104.16.2.2", Port: 8443,
			Protocol: database.ProtocolVLESS, Transport: database.TransportGRPC,
			TLS: true, SNI: "sg.example.com", Path: "/grpc",
		}

		link, err := Link(node)
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(link, "vless://"))
		assert.Contains(t, link, "@104.16.2.2:8443?")
		assert.Contains(t, link, "type=grpc")
		assert.Contains(t, link, "security=tls")
		assert.Contains(t, link, "sni=sg.example.com")
		assert.Contains(t, link, "#SG-Asia-1")
	})

	t.Run("should build a trojan URL", func(t *testing.T) {
		node := &database.ServerNode{
			Name: "DE-Frankfurt", Address: "104.16.3.3", Port: 443,
			Protocol: database.ProtocolTrojan, SNI: "de.example.com",
		}

		link, err := Link(node)
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(link, "trojan://"))
		assert.Contains(t, link, "@104.16.3.3:443?sni=de.example.com#DE-Frankfurt")
	})

	t.Run("should build an ss URL with encoded user info", func(t *testing.T) {
		node := &database.ServerNode{
			Name: "UK-London", Address: "104.16.4.4", Port: 8388,
			Protocol: database.ProtocolShadowsocks,
		}

		link, err := Link(node)
		require.NoError(t, err)
		require.True(t, strings.HasPrefix(link, "ss://"))

		userInfo := link[len("ss://"):strings.Index(link, "@")]
		decoded, err := base64.StdEncoding.DecodeString(userInfo)
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(string(decoded), "chacha20-ietf-poly1305:"))
	})

	t.Run("should fall back to a generic scheme for other protocols", func(t *testing.T) {
		node := &database.ServerNode{
			Name: "JP-Tokyo", Address: "104.16.5.5", Port: 1194,
			Protocol: database.ProtocolOpenVPN,
		}

		link, err := Link(node)
		require.NoError(t, err)
		assert.Equal(t, "openvpn://104.16.5.5:1194#JP-Tokyo", link)
	})

	t.Run("should reject a nil node", func(t *testing.T) {
		_, err := Link(nil)
		assert.Error(t, err)
	})
}

func TestQRGenerator(t *testing.T) {
	generator := NewQRGenerator()

	t.Run("should render PNG data", func(t *testing.T) {
		data, err := generator.PNG("vmess://abc")
		require.NoError(t, err)
		assert.NotEmpty(t, data)
		// PNG magic bytes
		assert.Equal(t, []byte{0x89, 0x50, 0x4E, 0x47}, data[:4])
	})

	t.Run("should render a data URI", func(t *testing.T) {
		uri, err := generator.Base64("vmess://abc")
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(uri, "data:image/png;base64,"))
	})
}
