package rpc

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"
)

var errInvalidAddress = errors.New("rpc: invalid address")

type Config struct {
	Address  string
	Port     string
	SkipAuth bool
}

func DefaultConfig() Config {
	return Config{
		Address: defaultBindAddress,
		// do NOT expose the same port as the dependent chain node by default so that both can run on the same machine
		Port:     defaultPort,
		SkipAuth: false,
	}
}

// RequestURL returns the URL clients reach the server at.
func (cfg *Config) RequestURL() string {
	return "http://" + net.JoinHostPort(cfg.Address, cfg.Port)
}

// Validate checks the server can bind to the configured address and port.
// The Address is normalized to a bare IP address.
func (cfg *Config) Validate() error {
	addr, err := bindAddress(cfg.Address)
	if err != nil {
		return err
	}
	cfg.Address = addr

	port, err := strconv.ParseUint(cfg.Port, 10, 16)
	if err != nil {
		return fmt.Errorf("rpc: invalid port %q: %w", cfg.Port, err)
	}
	cfg.Port = strconv.FormatUint(port, 10)
	return nil
}

// bindAddress strips any scheme, port or path users copy along with the host
// and resolves hostnames to the IP address the server binds to.
func bindAddress(addr string) (string, error) {
	host := addr
	if strings.Contains(host, "://") {
		u, err := url.Parse(host)
		if err != nil {
			return "", fmt.Errorf("%w %q: %w", errInvalidAddress, addr, err)
		}
		host = u.Host
	}
	host = strings.TrimSuffix(host, "/")
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	host = strings.Trim(host, "[]")
	if host == "" {
		return "", fmt.Errorf("%w: %q", errInvalidAddress, addr)
	}

	if ip := net.ParseIP(host); ip != nil {
		return ip.String(), nil
	}
	resolved, err := net.ResolveIPAddr("ip", host)
	if err != nil {
		return "", fmt.Errorf("%w %q: %w", errInvalidAddress, addr, err)
	}
	return resolved.String(), nil
}
