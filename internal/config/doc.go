// Package config provides configuration loading, merging, and validation
// facilities for the CropGuard client and development backend.
//
// Configuration is assembled from multiple sources in the following priority
// order (later sources override earlier non-zero fields):
//  1. Built-in defaults
//  2. JSON config file
//  3. Environment variables (CROPGUARD_ prefix)
//  4. Command-line flags
//
// The main entry points are [GetClientConfig] and [GetDevServerConfig], which
// project the merged [StructuredConfig] into the view each binary needs.
package config
