package common

const (
	StorePrefixTransactions        byte = 1
	StorePrefixTransactionMetadata byte = 2
	StorePrefixApprovers           byte = 3
	StorePrefixBalances            byte = 4
	StorePrefixHealth              byte = 255
)
