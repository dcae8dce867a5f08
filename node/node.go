package node

import "os"

// GetNodeName names this console for logs. CONSOLE_NAME wins over the
// host name.
func GetNodeName() string {
	nodeName := os.Getenv("CONSOLE_NAME")
	if nodeName == "" {
		nodeName = os.Getenv("HOSTNAME")
	}
	if nodeName == "" {
		if h, err := os.Hostname(); err == nil {
			nodeName = h
		}
	}
	if nodeName == "" {
		nodeName = "unknown"
	}
	return nodeName
}
