package config

import (
	"fmt"
	"os"

	ethav "github.com/KOREAN139/ethereum-address-validator"
	"github.com/ethereum/go-ethereum/common"
	"github.com/kelseyhightower/envconfig"
	yaml "gopkg.in/yaml.v2"
)

// reading config error is fatal, and exists main thread
func processError(err error) {
	fmt.Println(err)
	os.Exit(2)
}

func readFile(path string, cfg *Configuration) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	decoder := yaml.NewDecoder(f)
	if err := decoder.Decode(cfg); err != nil {
		return fmt.Errorf("cannot decode %s: %w", path, err)
	}
	return nil
}

func readEnv(cfg *Configuration) error {
	return envconfig.Process("", cfg)
}

// Load reads the yaml file, applies environment overrides and defaults,
// then checks the chain table of the selected network.
func Load(path string) (Configuration, error) {
	var cfg Configuration
	if err := readFile(path, &cfg); err != nil {
		return cfg, err
	}
	if err := readEnv(&cfg); err != nil {
		return cfg, err
	}
	cfg.Network = normalizeNetwork(cfg.Network)
	cfg.setDefaults()

	if cfg.Network != NetworkTestnet && cfg.Network != NetworkMainnet {
		return cfg, fmt.Errorf("unknown network %q", cfg.Network)
	}
	if err := validateChains(cfg.Chains()); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func validateChains(chains map[int]ChainConfig) error {
	for id, chain := range chains {
		if id != chain.ChainID {
			return fmt.Errorf("chain %s: key %d does not match chain id %d", chain.Name, id, chain.ChainID)
		}
		if !common.IsHexAddress(chain.BridgeContract) {
			return fmt.Errorf("chain %s: bridge contract %q is not an address", chain.Name, chain.BridgeContract)
		}
		if err := ethav.Validate(common.HexToAddress(chain.BridgeContract).Hex()); err != nil {
			return fmt.Errorf("chain %s: bridge contract %s: %w", chain.Name, chain.BridgeContract, err)
		}
		if chain.Deployed() && len(chain.RPCList) == 0 {
			return fmt.Errorf("chain %s: no RPC endpoints", chain.Name)
		}
	}
	return nil
}

func Init() {
	cfg, err := Load("config.yml")
	if err != nil {
		processError(err)
	}
	Config = cfg
}
