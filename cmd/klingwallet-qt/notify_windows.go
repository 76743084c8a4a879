//go:build windows

package main

import (
	"os/exec"
	"strings"
)

// psQuote returns s as a single-quoted PowerShell literal.
func psQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

func sendOSNotification(title, body string) {
	script := `Add-Type -AssemblyName System.Windows.Forms;` +
		`$n = New-Object System.Windows.Forms.NotifyIcon;` +
		`$n.Icon = [System.Drawing.SystemIcons]::Information;` +
		`$n.BalloonTipTitle = ` + psQuote(title) + `;` +
		`$n.BalloonTipText = ` + psQuote(body) + `;` +
		`$n.Visible = $true;` +
		`$n.ShowBalloonTip(4000);` +
		`Start-Sleep -Milliseconds 4100;` +
		`$n.Dispose()`
	_ = exec.Command("powershell", "-NoProfile", "-NonInteractive", "-Command", script).Start()
}
