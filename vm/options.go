package vm

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/rs/zerolog"

	"github.com/motsu-go/motsu/vm/address"
	"github.com/motsu-go/motsu/vm/environment"
	"github.com/motsu-go/motsu/vm/metrics"
	"github.com/motsu-go/motsu/vm/tracing"
)

type config struct {
	blockInfo environment.BlockInfoParams
	logger    zerolog.Logger
	metrics   metrics.Collector
	tracers   []tracing.Tracer
	deployer  common.Address
}

func defaultConfig() config {
	return config{
		blockInfo: environment.DefaultBlockInfoParams(),
		logger:    zerolog.Nop(),
		metrics:   metrics.NewNoopCollector(),
		deployer:  address.FromTag(address.DeployerTag),
	}
}

// An Option sets a configuration parameter of a VM.
type Option func(*config)

// WithChainID sets the chain id reported to contracts.
func WithChainID(id uint64) Option {
	return func(c *config) {
		c.blockInfo.ChainID = id
	}
}

func WithBlockNumber(number uint64) Option {
	return func(c *config) {
		c.blockInfo.BlockNumber = number
	}
}

func WithBlockTimestamp(timestamp uint64) Option {
	return func(c *config) {
		c.blockInfo.BlockTimestamp = timestamp
	}
}

// WithLogger sets the logger the VM and its components derive theirs from.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

func WithMetrics(collector metrics.Collector) Option {
	return func(c *config) {
		c.metrics = collector
	}
}

// WithTracer adds a tracer notified of every call frame. It can be given
// more than once.
func WithTracer(tracer tracing.Tracer) Option {
	return func(c *config) {
		c.tracers = append(c.tracers, tracer)
	}
}

// WithDeployer sets the address fresh contract addresses are derived from.
func WithDeployer(deployer common.Address) Option {
	return func(c *config) {
		c.deployer = deployer
	}
}
