// Copyright (c) 2024 The Staxe developers
// Use of this source code is governed by the Open BSV License v5
// that can be found in the LICENSE file.

package config

import (
	"fmt"
	"net"
	"strings"

	"github.com/staxeio/staxe-go/account"
)

// validLogLevels lists the accepted log level strings.
var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// ValidateConfig checks that all configuration values are within acceptable
// ranges and returns the first error encountered, or nil if valid.
func ValidateConfig(cfg Config) error {
	if cfg.DataDir == "" {
		return ErrEmptyDataDir
	}

	if cfg.Network != "mainnet" && cfg.Network != "testnet" && cfg.Network != "regtest" {
		return ErrInvalidNetwork
	}

	// An empty listen address disables the metrics endpoint.
	if cfg.ListenAddr != "" {
		if err := validateAddr(cfg.ListenAddr); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidListenAddr, err)
		}
	}

	if !validLogLevels[strings.ToLower(cfg.LogLevel)] {
		return ErrInvalidLogLevel
	}

	if cfg.PlatformFee > 100 {
		return fmt.Errorf("%w: %d", ErrInvalidPlatformFee, cfg.PlatformFee)
	}

	if cfg.RefundWindow < 0 {
		return fmt.Errorf("%w: %s", ErrInvalidRefundWindow, cfg.RefundWindow)
	}

	if cfg.Treasury != "" {
		if _, err := account.Parse(cfg.Treasury); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidTreasury, err)
		}
	}

	return nil
}

// validateAddr checks that addr is a valid host:port address.
func validateAddr(addr string) error {
	_, _, err := net.SplitHostPort(addr)
	return err
}
