// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"

	"github.com/spf13/pflag"
)

// Flag names shared by the client and devserver commands.
const (
	FlagConfig           = "config"
	FlagBaseURL          = "base-url"
	FlagRequestTimeout   = "request-timeout"
	FlagDSN              = "dsn"
	FlagLogFile          = "log-file"
	FlagTokenSecret      = "token-secret"
	FlagProvider         = "provider"
	FlagBucket           = "bucket"
	FlagRegion           = "region"
	FlagPublicBaseURL    = "public-base-url"
	FlagMaxFileSize      = "max-file-size"
	FlagUploadTimeout    = "upload-timeout"
	FlagMaxRetries       = "max-retries"
	FlagNoEncryption     = "no-encryption"
	FlagMetadataCapacity = "metadata-capacity"
	FlagProbeInterval    = "probe-interval"

	FlagAddress      = "address"
	FlagPublicURL    = "public-url"
	FlagBlobDir      = "blob-dir"
	FlagTokenSignKey = "token-sign-key"
	FlagS3Bucket     = "s3-bucket"
	FlagS3Region     = "s3-region"
	FlagS3Endpoint   = "s3-endpoint"
)

// NetAddress holds structured network address data for host and port.
// It implements the pflag.Value interface.
type NetAddress struct {
	Host string
	Port int
}

// RegisterClientFlags defines the client configuration flags on fs. Only
// flags the user actually sets override other sources.
func RegisterClientFlags(fs *pflag.FlagSet) {
	fs.StringP(FlagConfig, "c", "", "JSON config file path")
	fs.String(FlagBaseURL, "", "REST API base URL")
	fs.Duration(FlagRequestTimeout, 0, "REST request timeout (e.g. 30s)")
	fs.StringP(FlagDSN, "d", "", "local SQLite database path")
	fs.String(FlagLogFile, "", "log file path")
	fs.String(FlagTokenSecret, "", "secret used to encrypt stored tokens")
	fs.String(FlagProvider, "", "blob store provider: aws or azure")
	fs.String(FlagBucket, "", "bucket or storage account name")
	fs.String(FlagRegion, "", "AWS region")
	fs.String(FlagPublicBaseURL, "", "public object URL prefix override")
	fs.Int64(FlagMaxFileSize, 0, "maximum upload size in bytes")
	fs.Duration(FlagUploadTimeout, 0, "per-file transfer timeout (e.g. 5m)")
	fs.Int(FlagMaxRetries, 0, "retry budget for queued uploads")
	fs.Bool(FlagNoEncryption, false, "do not request server-side encryption")
	fs.Int(FlagMetadataCapacity, 0, "number of finished uploads kept locally")
	fs.Duration(FlagProbeInterval, 0, "connectivity probe interval")
}

// RegisterDevServerFlags defines the devserver configuration flags on fs.
func RegisterDevServerFlags(fs *pflag.FlagSet) {
	fs.StringP(FlagConfig, "c", "", "JSON config file path")
	fs.VarP(&NetAddress{}, FlagAddress, "a", "listen address host:port")
	fs.String(FlagPublicURL, "", "externally reachable origin for blob URLs")
	fs.Duration(FlagRequestTimeout, 0, "request timeout (e.g. 30s)")
	fs.String(FlagBlobDir, "", "directory for uploaded blobs")
	fs.String(FlagTokenSignKey, "", "token signing key")
	fs.String(FlagS3Bucket, "", "presign against this S3 bucket")
	fs.String(FlagS3Region, "", "S3 region")
	fs.String(FlagS3Endpoint, "", "custom S3 endpoint")
	fs.String(FlagLogFile, "", "log file path")
}

// parseFlags projects the flags that were explicitly set on fs into a
// [StructuredConfig] layer. Flags not registered on fs are ignored.
func parseFlags(fs *pflag.FlagSet) (*StructuredConfig, error) {
	cfg := &StructuredConfig{}
	var errs []error

	str := func(name string, dst *string) {
		if f := fs.Lookup(name); f != nil && f.Changed {
			*dst = f.Value.String()
		}
	}
	num := func(name string, dst *int) {
		if f := fs.Lookup(name); f != nil && f.Changed {
			v, err := fs.GetInt(name)
			errs = append(errs, err)
			*dst = v
		}
	}

	str(FlagConfig, &cfg.JSONFilePath)
	str(FlagBaseURL, &cfg.Adapter.BaseURL)
	str(FlagDSN, &cfg.Storage.DB.DSN)
	str(FlagLogFile, &cfg.App.LogFile)
	str(FlagTokenSecret, &cfg.App.TokenStoreSecret)
	str(FlagProvider, &cfg.Storage.Blob.Provider)
	str(FlagBucket, &cfg.Storage.Blob.Bucket)
	str(FlagRegion, &cfg.Storage.Blob.Region)
	str(FlagPublicBaseURL, &cfg.Storage.Blob.PublicBaseURL)
	str(FlagAddress, &cfg.Server.HTTPAddress)
	str(FlagPublicURL, &cfg.Server.PublicURL)
	str(FlagBlobDir, &cfg.Server.BlobDir)
	str(FlagTokenSignKey, &cfg.Server.TokenSignKey)
	str(FlagS3Bucket, &cfg.Server.S3.Bucket)
	str(FlagS3Region, &cfg.Server.S3.Region)
	str(FlagS3Endpoint, &cfg.Server.S3.Endpoint)
	num(FlagMaxRetries, &cfg.Upload.MaxRetries)
	num(FlagMetadataCapacity, &cfg.Storage.MetadataCapacity)

	if f := fs.Lookup(FlagRequestTimeout); f != nil && f.Changed {
		v, err := fs.GetDuration(FlagRequestTimeout)
		errs = append(errs, err)
		cfg.Adapter.RequestTimeout = v
		cfg.Server.RequestTimeout = v
	}
	if f := fs.Lookup(FlagUploadTimeout); f != nil && f.Changed {
		v, err := fs.GetDuration(FlagUploadTimeout)
		errs = append(errs, err)
		cfg.Upload.Timeout = v
	}
	if f := fs.Lookup(FlagProbeInterval); f != nil && f.Changed {
		v, err := fs.GetDuration(FlagProbeInterval)
		errs = append(errs, err)
		cfg.Workers.ProbeInterval = v
	}
	if f := fs.Lookup(FlagMaxFileSize); f != nil && f.Changed {
		v, err := fs.GetInt64(FlagMaxFileSize)
		errs = append(errs, err)
		cfg.Upload.MaxFileSize = v
	}
	if f := fs.Lookup(FlagNoEncryption); f != nil && f.Changed {
		v, err := fs.GetBool(FlagNoEncryption)
		errs = append(errs, err)
		cfg.Upload.DisableEncryption = v
	}

	if err := errors.Join(errs...); err != nil {
		return nil, fmt.Errorf("error reading flags: %w", err)
	}
	return cfg, nil
}

// String returns a canonical host:port string for a NetAddress.
func (a *NetAddress) String() string {
	if a.Host == "" && a.Port == 0 {
		return ""
	}

	return a.Host + ":" + strconv.Itoa(a.Port)
}

// Set parses the input string of form host:port and populates the NetAddress.
// It validates the port range, checks IP correctness unless host is
// "localhost" or empty, and returns an error if the format or values are
// invalid.
func (a *NetAddress) Set(s string) error {
	hostAndPort := strings.Split(s, ":")
	if len(hostAndPort) != 2 {
		return errors.New("need address in a form `host:port`")
	}

	host := hostAndPort[0]
	port, err := strconv.Atoi(hostAndPort[1])
	if err != nil {
		return err
	}

	if port < 1 || port > 65535 {
		return errors.New("port number must be in 1..65535")
	}

	if host != "localhost" && host != "" {
		if ip := net.ParseIP(host); ip == nil {
			return errors.New("incorrect IP-address provided")
		}
	}

	a.Host = host
	a.Port = port
	return nil
}

// Type implements pflag.Value.
func (a *NetAddress) Type() string {
	return "address"
}
