package domain

// ZeroAddress is the Ethereum zero address; ERC-721 reports it for
// burned tokens and unset approvals.
const ZeroAddress = "0x0000000000000000000000000000000000000000"
