//go:build darwin

package main

import (
	"os/exec"
	"strconv"
)

func sendOSNotification(title, body string) {
	script := "display notification " + strconv.Quote(body) + " with title " + strconv.Quote(title)
	_ = exec.Command("osascript", "-e", script).Start()
}
