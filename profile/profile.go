// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: Ryan Johnson

// Package profile loads named connection profiles from YAML and applies
// environment overrides.
//
// A profile file looks like:
//
//	server:
//	  listen: ":8080"
//	  input_path: /input
//	engine:
//	  log_level: INFO
//	profiles:
//	  lab:
//	    username: alice
//	    destination: 10.0.0.5:3389
//	    proxy_address: wss://gateway.example.com/jet/rdp
//	    width: 1920
//	    height: 1080
//
// Passwords are never read from the file. They come from RDPBRIDGE_PASSWORD.
package profile

import (
	"os"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	rdpbridge "github.com/tenthirtyam/go-rdpbridge"
)

// EnvPrefix is the prefix of every environment override, e.g.
// RDPBRIDGE_DESTINATION.
const EnvPrefix = "RDPBRIDGE"

// DefaultProfile is the profile used when no name is given.
const DefaultProfile = "default"

// Config is the contents of a profile file.
type Config struct {
	Server   ServerConfig       `yaml:"server"`
	Engine   EngineConfig       `yaml:"engine"`
	Profiles map[string]Profile `yaml:"profiles"`

	env Env
}

// ServerConfig configures the HTTP endpoint serving browser input.
type ServerConfig struct {
	Listen    string `yaml:"listen"`
	InputPath string `yaml:"input_path"`
}

// EngineConfig configures the session engine.
type EngineConfig struct {
	LogLevel  string `yaml:"log_level"`
	AuthToken string `yaml:"auth_token"`
}

// Profile is one named set of connection parameters.
type Profile struct {
	Username     string `yaml:"username"`
	Password     string `yaml:"-"`
	Destination  string `yaml:"destination"`
	ProxyAddress string `yaml:"proxy_address"`
	Domain       string `yaml:"domain"`
	Width        int    `yaml:"width"`
	Height       int    `yaml:"height"`
}

// Env holds the environment overrides. Empty values leave the file's value
// in place. Keys are RDPBRIDGE_ followed by the field name in upper snake
// case, e.g. RDPBRIDGE_PROXY_ADDRESS.
type Env struct {
	Listen    string
	LogLevel  string `split_words:"true"`
	AuthToken string `split_words:"true"`

	Username     string
	Password     string
	Destination  string
	ProxyAddress string `split_words:"true"`
	Domain       string
	Width        int
	Height       int
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Listen:    ":8080",
			InputPath: "/input",
		},
		Engine: EngineConfig{
			LogLevel:  rdpbridge.DefaultEngineLogLevel,
			AuthToken: rdpbridge.DefaultAuthToken,
		},
		Profiles: map[string]Profile{},
	}
}

// Load reads a profile file on top of Default.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, rdpbridge.WrapError("profile.Load", rdpbridge.ErrValidation, "failed to read profile file", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, rdpbridge.WrapError("profile.Load", rdpbridge.ErrValidation, "failed to parse profile file", err)
	}
	if cfg.Profiles == nil {
		cfg.Profiles = map[string]Profile{}
	}

	return cfg, nil
}

// ApplyEnv reads the RDPBRIDGE_* environment. Server and engine overrides
// take effect immediately; connection overrides are applied by Resolve.
func (c *Config) ApplyEnv() error {
	var env Env
	if err := envconfig.Process(EnvPrefix, &env); err != nil {
		return rdpbridge.WrapError("profile.ApplyEnv", rdpbridge.ErrValidation, "invalid environment override", err)
	}

	if env.Listen != "" {
		c.Server.Listen = env.Listen
	}
	if env.LogLevel != "" {
		c.Engine.LogLevel = env.LogLevel
	}
	if env.AuthToken != "" {
		c.Engine.AuthToken = env.AuthToken
	}

	c.env = env
	return nil
}

// Resolve returns the named profile with environment overrides applied. An
// empty name selects DefaultProfile. A missing default profile resolves to
// an empty one, so a configuration can come entirely from the environment.
func (c *Config) Resolve(name string) (Profile, error) {
	if name == "" {
		name = DefaultProfile
	}

	p, ok := c.Profiles[name]
	if !ok && name != DefaultProfile {
		return Profile{}, rdpbridge.NewBridgeError("profile.Resolve", rdpbridge.ErrValidation,
			"unknown profile "+name, nil)
	}

	p.Password = ""
	return c.env.apply(p), nil
}

func (e Env) apply(p Profile) Profile {
	if e.Username != "" {
		p.Username = e.Username
	}
	if e.Password != "" {
		p.Password = e.Password
	}
	if e.Destination != "" {
		p.Destination = e.Destination
	}
	if e.ProxyAddress != "" {
		p.ProxyAddress = e.ProxyAddress
	}
	if e.Domain != "" {
		p.Domain = e.Domain
	}
	if e.Width != 0 {
		p.Width = e.Width
	}
	if e.Height != 0 {
		p.Height = e.Height
	}
	return p
}

// ConnectOptions converts the profile for Controller.Connect.
func (p Profile) ConnectOptions(surface rdpbridge.Surface) rdpbridge.ConnectOptions {
	return rdpbridge.ConnectOptions{
		Username:     p.Username,
		Password:     p.Password,
		Destination:  p.Destination,
		ProxyAddress: p.ProxyAddress,
		Domain:       p.Domain,
		Surface:      surface,
		Width:        p.Width,
		Height:       p.Height,
	}
}
