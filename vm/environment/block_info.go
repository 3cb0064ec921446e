package environment

// DefaultChainID is the chain id reported until a test overrides it.
const DefaultChainID uint64 = 42161

type BlockInfoParams struct {
	ChainID        uint64
	BlockNumber    uint64
	BlockTimestamp uint64
}

func DefaultBlockInfoParams() BlockInfoParams {
	return BlockInfoParams{
		ChainID: DefaultChainID,
	}
}
