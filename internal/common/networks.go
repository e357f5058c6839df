package common

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v2"
)

// NetworkConfig describes one chain deployment of the drop contract.
// VerifyUrl is carried for operator reference only; explorer verification
// is not part of reconciliation.
type NetworkConfig struct {
	Name         string `yaml:"name"`
	RpcUrl       string `yaml:"rpc_url"`
	ChainId      int64  `yaml:"chain_id"`
	DropContract string `yaml:"drop_contract"`
	VerifyUrl    string `yaml:"verify_url"`
}

type NetworksConfig struct {
	Networks []NetworkConfig `yaml:"networks"`
}

// LoadNetworkConfig reads the networks file and returns the profile with
// the given name.
func LoadNetworkConfig(networksFile, name string) (*NetworkConfig, error) {
	var networksPath string
	if filepath.IsAbs(networksFile) {
		networksPath = networksFile
	} else {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
		networksPath = filepath.Join(wd, networksFile)
	}

	data, err := os.ReadFile(networksPath)
	if err != nil {
		return nil, fmt.Errorf("unable to read %s: %w", networksFile, err)
	}

	var config NetworksConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("unable to parse %s: %w", networksFile, err)
	}

	var known []string
	for i, network := range config.Networks {
		if network.Name == "" {
			return nil, fmt.Errorf("network at index %d missing name", i)
		}
		if network.RpcUrl == "" {
			return nil, fmt.Errorf("network %s missing rpc_url", network.Name)
		}
		if network.ChainId == 0 {
			return nil, fmt.Errorf("network %s missing chain_id", network.Name)
		}
		if network.DropContract == "" {
			return nil, fmt.Errorf("network %s missing drop_contract", network.Name)
		}
		if network.Name == name {
			found := network
			return &found, nil
		}
		known = append(known, network.Name)
	}

	return nil, fmt.Errorf("network %q not found in %s (known: %s)", name, networksFile, strings.Join(known, ", "))
}
