// vncdump is a headless CLI that connects to an RFB/VNC server, drives the
// FramebufferUpdateRequest polling loop, and reports how many polls it made —
// the diagnostic counterpart to cmd/simplevnc's batched-session driver, cut
// down to a single connection with no GL viewer.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/pterm/pterm"

	"github.com/BeneDevRepo/BVnc/rfb"
	"github.com/BeneDevRepo/BVnc/transport"
)

func main() {
	addr := flag.String("addr", "127.0.0.1:5900", "host:port of the RFB server")
	password := flag.String("password", "", "VNC authentication password, if required")
	proxyURL := flag.String("proxy", "", "SOCKS proxy URL, e.g. socks5://127.0.0.1:1080")
	webSocket := flag.Bool("ws", false, "dial addr as a WebSocket (noVNC/websockify) instead of raw TCP")
	webSocketSecure := flag.Bool("wss", false, "use wss:// when -ws is set")
	webSocketPath := flag.String("ws-path", "/websockify", "WebSocket path when -ws is set")
	duration := flag.Duration("duration", 10*time.Second, "how long to poll for updates before exiting")
	flag.Parse()

	rfb.ConfigureLogging()

	pterm.DefaultHeader.WithFullWidth().Println("vncdump")
	pterm.DefaultBulletList.WithItems([]pterm.BulletListItem{
		{Level: 0, Text: fmt.Sprintf("target: %s", *addr), BulletStyle: pterm.NewStyle(pterm.FgCyan)},
		{Level: 0, Text: fmt.Sprintf("transport: %s", transportLabel(*webSocket, *proxyURL)), BulletStyle: pterm.NewStyle(pterm.FgCyan)},
	}).Render()

	dialCfg := transport.DialConfig{
		Address:         *addr,
		ProxyURL:        *proxyURL,
		WebSocket:       *webSocket,
		WebSocketSecure: *webSocketSecure,
		WebSocketPath:   *webSocketPath,
	}

	client := rfb.NewClient(rfb.Config{
		Password: *password,
		Dial:     func() (transport.Socket, error) { return transport.Dial(dialCfg) },
	})

	spinner, _ := pterm.DefaultSpinner.Start("connecting and performing handshake")
	if err := client.Connect(); err != nil {
		spinner.Fail(fmt.Sprintf("connect failed: %s", err))
		os.Exit(1)
	}
	spinner.Success(fmt.Sprintf("connected to %q, framebuffer %dx%d", client.ServerName(), client.Width(), client.Height()))
	defer client.Close()

	client.OnBell = func() { pterm.Info.Println("bell") }
	client.OnServerClipboard = func(text string) { pterm.Info.Printf("clipboard: %q\n", text) }

	if err := client.RequestUpdate(false, 0, 0, client.Width(), client.Height()); err != nil {
		pterm.Error.Printf("initial FramebufferUpdateRequest failed: %s\n", err)
		os.Exit(1)
	}

	deadline := time.Now().Add(*duration)
	start := time.Now()
	polls := 0
	for time.Now().Before(deadline) {
		if err := client.Poll(); err != nil {
			pterm.Error.Printf("poll failed: %s\n", err)
			os.Exit(1)
		}
		polls++

		if err := client.RequestUpdate(true, 0, 0, client.Width(), client.Height()); err != nil {
			pterm.Error.Printf("incremental FramebufferUpdateRequest failed: %s\n", err)
			os.Exit(1)
		}
		time.Sleep(16 * time.Millisecond)
	}

	pterm.Success.Printf("polled %d times over %s\n", polls, time.Since(start).Round(time.Millisecond))
}

func transportLabel(webSocket bool, proxyURL string) string {
	switch {
	case webSocket:
		return "websocket"
	case proxyURL != "":
		return fmt.Sprintf("socks proxy (%s)", proxyURL)
	default:
		return "tcp"
	}
}
