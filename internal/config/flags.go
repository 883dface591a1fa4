// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"net"
	"strconv"
)

var (
	errAddressFormat = errors.New("address must look like host:port")
	errAddressPort   = errors.New("port must be within 1-65535")
	errAddressHost   = errors.New("host must be an IP address or localhost")
)

// NetAddress is a listen address given on the command line. It implements
// flag.Value.
type NetAddress struct {
	Host string
	Port int
}

func (a *NetAddress) String() string {
	if a.Host == "" && a.Port == 0 {
		return ""
	}
	return net.JoinHostPort(a.Host, strconv.Itoa(a.Port))
}

// Set accepts "host:port" and ":port". Host names other than localhost are
// rejected so that a typo does not make the server bind somewhere odd.
func (a *NetAddress) Set(s string) error {
	host, rawPort, err := net.SplitHostPort(s)
	if err != nil {
		return fmt.Errorf("%w: %q", errAddressFormat, s)
	}

	port, err := strconv.Atoi(rawPort)
	if err != nil || port < 1 || port > 65535 {
		return fmt.Errorf("%w: %q", errAddressPort, rawPort)
	}
	if host != "" && host != "localhost" && net.ParseIP(host) == nil {
		return fmt.Errorf("%w: %q", errAddressHost, host)
	}

	a.Host, a.Port = host, port
	return nil
}

// ParseFlags reads the server command line:
//
//	-a                 listen address, host:port
//	-d                 Postgres DSN, or "memory"
//	-c, -config        configuration file (JSON or YAML)
//	-request-timeout   per-request timeout
//	-shutdown-timeout  graceful shutdown bound
//	-log-level         zerolog level name
func ParseFlags(args []string) (*StructuredConfig, error) {
	cfg := &StructuredConfig{}
	var addr NetAddress

	fs := flag.NewFlagSet("tasksync-server", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.Var(&addr, "a", "listen address host:port")
	fs.StringVar(&cfg.Storage.DB.DSN, "d", "", "database DSN")
	fs.StringVar(&cfg.JSONFilePath, "c", "", "configuration file")
	fs.StringVar(&cfg.JSONFilePath, "config", "", "configuration file")
	fs.DurationVar(&cfg.Server.RequestTimeout, "request-timeout", 0, "per-request timeout")
	fs.DurationVar(&cfg.Server.ShutdownTimeout, "shutdown-timeout", 0, "graceful shutdown timeout")
	fs.StringVar(&cfg.App.LogLevel, "log-level", "", "log level")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	cfg.Server.HTTPAddress = addr.String()
	return cfg, nil
}
