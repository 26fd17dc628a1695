// Package config binds the process's CLI flags and environment to a typed
// Config, per spec.md §6's "CLI/env" surface and SPEC_FULL.md §10.
package config

import (
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config holds the bootstrap parameters for the pongrelay process.
type Config struct {
	HTTPAddr        string
	HTTPPort        int
	BrokerHost      string
	BrokerAdminHost string
	MatchPoint      int
}

// Load binds --http-addr, --http-port, --broker-host, --broker-admin-host
// (and their PONGRELAY_-prefixed env equivalents) into a Config, per
// spec.md §6. args is normally os.Args[1:].
func Load(args []string) (*Config, error) {
	flags := pflag.NewFlagSet("pongrelay", pflag.ContinueOnError)
	flags.String("http-addr", "0.0.0.0", "address the HTTP/websocket server binds to")
	flags.Int("http-port", 8080, "port the HTTP/websocket server binds to")
	flags.String("broker-host", "localhost:9092", "message broker bootstrap address")
	flags.String("broker-admin-host", "http://localhost:9000", "broker admin proxy base URL")
	flags.Int("match-point", 11, "score at which a match ends")
	if err := flags.Parse(args); err != nil {
		return nil, err
	}

	vp := viper.New()
	vp.SetEnvPrefix("pongrelay")
	vp.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	vp.AutomaticEnv()
	if err := vp.BindPFlags(flags); err != nil {
		return nil, err
	}

	return &Config{
		HTTPAddr:        vp.GetString("http-addr"),
		HTTPPort:        vp.GetInt("http-port"),
		BrokerHost:      vp.GetString("broker-host"),
		BrokerAdminHost: vp.GetString("broker-admin-host"),
		MatchPoint:      vp.GetInt("match-point"),
	}, nil
}
