// Package common contains shared constants and utilities used across services
package common

const (
	// ServiceName is the attribution identifier sent to upstream providers.
	ServiceName = "cantonlink"

	// ERC-20 approve(address,uint256) selector, used when building
	// approval calldata for bridge deposits.
	ERC20ApproveSelector = "0x095ea7b3"
)
