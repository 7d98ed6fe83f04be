package config

import (
	"fmt"
	"strings"
	"time"
)

type GrpcServerConfig struct {
	Enabled           bool          `koanf:"enabled"`
	Port              string        `koanf:"port"`
	ReflectionEnabled bool          `koanf:"reflection"`
	ProbeInterval     time.Duration `koanf:"probeinterval"`
}

const defaultProbeInterval = 15 * time.Second

// String returns a string representation of the gRPC server configuration.
func (c *GrpcServerConfig) String() string {
	var b strings.Builder
	b.WriteString("\n--- gRPC ---\n")
	b.WriteString(fmt.Sprintf("  enabled: %t\n", c.Enabled))
	b.WriteString(fmt.Sprintf("  port: %s\n", c.Port))
	b.WriteString(fmt.Sprintf("  reflection: %t\n", c.ReflectionEnabled))
	b.WriteString(fmt.Sprintf("  probeinterval: %s\n", c.ProbeInterval))
	return b.String()
}

func (c *GrpcServerConfig) Validate() error {
	if !c.Enabled {
		return nil
	}
	if c.Port == "" {
		return fmt.Errorf("gRPC port is not configured")
	}
	if c.ProbeInterval <= 0 {
		c.ProbeInterval = defaultProbeInterval
	}
	return nil
}
