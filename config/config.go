package config

import (
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

type Configuration struct {
	// Server config
	Server struct {
		Port      int    `yaml:"port" envconfig:"SERVER_PORT"`
		RedisHost string `yaml:"redis_host" envconfig:"REDIS_HOST"`
		RedisPort int    `yaml:"redis_port" envconfig:"REDIS_PORT"`
		RedisDB   int    `yaml:"redis_db" envconfig:"REDIS_DB"`
	} `yaml:"server"`
	// testnet or mainnet, selects the chain table and the scan host
	Network   string `yaml:"network" envconfig:"NETWORK_MODE"`
	LogFormat string `yaml:"log_format" envconfig:"LOG_FORMAT"`
	Tracker   struct {
		PollInterval  time.Duration `yaml:"poll_interval" envconfig:"POLL_INTERVAL"`
		SweepInterval time.Duration `yaml:"sweep_interval" envconfig:"SWEEP_INTERVAL"`
		PollTimeout   time.Duration `yaml:"poll_timeout" envconfig:"POLL_TIMEOUT"`
	} `yaml:"tracker"`
	History struct {
		Key      string `yaml:"key" envconfig:"HISTORY_KEY"`
		Capacity int    `yaml:"capacity" envconfig:"HISTORY_CAPACITY"`
	} `yaml:"history"`
}

var Config Configuration

const (
	NetworkTestnet = "testnet"
	NetworkMainnet = "mainnet"
)

func (c *Configuration) IsTestnet() bool {
	return c.Network != NetworkMainnet
}

func (c *Configuration) setDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.RedisHost == "" {
		c.Server.RedisHost = "127.0.0.1"
	}
	if c.Server.RedisPort == 0 {
		c.Server.RedisPort = 6379
	}
	if c.Network == "" {
		c.Network = NetworkTestnet
	}
	if c.LogFormat == "" {
		c.LogFormat = "text"
	}
	if c.Tracker.PollInterval <= 0 {
		c.Tracker.PollInterval = 10 * time.Second
	}
	if c.Tracker.SweepInterval <= 0 {
		c.Tracker.SweepInterval = 15 * time.Second
	}
	if c.Tracker.PollTimeout <= 0 {
		c.Tracker.PollTimeout = 30 * time.Second
	}
	if c.History.Key == "" {
		c.History.Key = "brg-bridge-tx-history"
	}
	if c.History.Capacity <= 0 {
		c.History.Capacity = 50
	}
}

// EVM-chains configs
type ChainConfig struct {
	Name           string
	ShortName      string
	ChainID        int
	LzEid          int // LayerZero endpoint id
	RPCList        []string
	BridgeContract string // OFTAdapter on the token home chain, OFT elsewhere
	ExplorerURL    string
	ContractType   string
}

// Deployed reports whether the chain has a bridge contract.
// Zero address placeholders mark chains not deployed yet.
func (c ChainConfig) Deployed() bool {
	return c.BridgeContract != "" && common.HexToAddress(c.BridgeContract) != (common.Address{})
}

var TestnetChains = map[int]ChainConfig{
	11155111: {
		Name:           "Ethereum",
		ShortName:      "ETH",
		ChainID:        11155111,
		LzEid:          40161,
		RPCList:        []string{"https://ethereum-sepolia-rpc.publicnode.com", "https://sepolia.drpc.org"},
		BridgeContract: "0xECC80fc532b80F0Fa9D160F90921EE7b94374e16",
		ExplorerURL:    "https://sepolia.etherscan.io",
		ContractType:   "adapter",
	}, // Sepolia
	421614: {
		Name:           "Arbitrum",
		ShortName:      "ARB",
		ChainID:        421614,
		LzEid:          40231,
		RPCList:        []string{"https://sepolia-rollup.arbitrum.io/rpc", "https://arbitrum-sepolia.drpc.org"},
		BridgeContract: "0x4dBBdC8CE1267c170E5aB37831cdC9870f386Dc9",
		ExplorerURL:    "https://sepolia.arbiscan.io",
		ContractType:   "oft",
	}, // Arbitrum Sepolia
	84532: {
		Name:           "Base",
		ShortName:      "BASE",
		ChainID:        84532,
		LzEid:          40245,
		RPCList:        []string{"https://sepolia.base.org", "https://base-sepolia.drpc.org"},
		BridgeContract: "0x4dBBdC8CE1267c170E5aB37831cdC9870f386Dc9",
		ExplorerURL:    "https://sepolia.basescan.org",
		ContractType:   "oft",
	}, // Base Sepolia
	11155420: {
		Name:           "Optimism",
		ShortName:      "OP",
		ChainID:        11155420,
		LzEid:          40232,
		RPCList:        []string{"https://sepolia.optimism.io", "https://optimism-sepolia.drpc.org"},
		BridgeContract: "0x4dBBdC8CE1267c170E5aB37831cdC9870f386Dc9",
		ExplorerURL:    "https://sepolia-optimism.etherscan.io",
		ContractType:   "oft",
	}, // Optimism Sepolia
}

// mainnet contracts are not deployed yet
var MainnetChains = map[int]ChainConfig{
	1: {
		Name:           "Ethereum",
		ShortName:      "ETH",
		ChainID:        1,
		LzEid:          30101,
		RPCList:        []string{"https://eth.drpc.org", "https://eth.llamarpc.com"},
		BridgeContract: "0x0000000000000000000000000000000000000000",
		ExplorerURL:    "https://etherscan.io",
		ContractType:   "adapter",
	}, // Ethereum
	42161: {
		Name:           "Arbitrum",
		ShortName:      "ARB",
		ChainID:        42161,
		LzEid:          30110,
		RPCList:        []string{"https://arbitrum.llamarpc.com", "https://arbitrum.drpc.org"},
		BridgeContract: "0x0000000000000000000000000000000000000000",
		ExplorerURL:    "https://arbiscan.io",
		ContractType:   "oft",
	}, // Arbitrum
	8453: {
		Name:           "Base",
		ShortName:      "BASE",
		ChainID:        8453,
		LzEid:          30184,
		RPCList:        []string{"https://base.llamarpc.com", "https://base.drpc.org"},
		BridgeContract: "0x0000000000000000000000000000000000000000",
		ExplorerURL:    "https://basescan.org",
		ContractType:   "oft",
	}, // Base
	10: {
		Name:           "Optimism",
		ShortName:      "OP",
		ChainID:        10,
		LzEid:          30111,
		RPCList:        []string{"https://optimism.llamarpc.com", "https://optimism.drpc.org"},
		BridgeContract: "0x0000000000000000000000000000000000000000",
		ExplorerURL:    "https://optimistic.etherscan.io",
		ContractType:   "oft",
	}, // Optimism
}

// Chains returns the chain table of the configured network.
func (c *Configuration) Chains() map[int]ChainConfig {
	if c.IsTestnet() {
		return TestnetChains
	}
	return MainnetChains
}

// GetChain returns the config of a chain with a deployed bridge contract.
func GetChain(chains map[int]ChainConfig, chainID int) (ChainConfig, bool) {
	chain, ok := chains[chainID]
	if !ok || !chain.Deployed() {
		return ChainConfig{}, false
	}
	return chain, true
}

func normalizeNetwork(network string) string {
	return strings.ToLower(strings.TrimSpace(network))
}
