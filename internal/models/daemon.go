package models

import "time"

// InstanceInfo describes the running primary instance.
// This corresponds to ~/.popsearch/instance.yaml.
type InstanceInfo struct {
	Version     int       `yaml:"version"`
	PID         int       `yaml:"pid"`
	Socket      string    `yaml:"socket"`
	TriggerAddr string    `yaml:"trigger_addr,omitempty"`
	StartedAt   time.Time `yaml:"started_at"`
}

// NewInstanceInfo creates instance info with current values.
func NewInstanceInfo(socket, triggerAddr string, pid int) *InstanceInfo {
	return &InstanceInfo{
		Version:     1,
		PID:         pid,
		Socket:      socket,
		TriggerAddr: triggerAddr,
		StartedAt:   time.Now().UTC(),
	}
}
