// Package chaindata implements the chain-data provider used for wallet
// balance reads.
package chaindata

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	apperrors "github.com/mmchougule/private-position-ee/pkg/app/errors"
	"github.com/mmchougule/private-position-ee/pkg/privacy"
)

// Client reads wallet balances over JSON-RPC. Token-denominated balances
// attributed through the pool are served by the pool provider's indexer;
// this client answers the wallet-side reads.
type Client struct {
	eth    *ethclient.Client
	logger *zap.Logger
}

// Dial connects to the chain-data RPC endpoint.
func Dial(rpcURL string, logger *zap.Logger) (*Client, error) {
	if rpcURL == "" {
		return nil, fmt.Errorf("chain data rpc_url is required")
	}
	eth, err := ethclient.Dial(rpcURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to chain data RPC: %w", err)
	}
	logger.Info("Connected to chain data RPC", zap.String("rpc_url", rpcURL))
	return &Client{eth: eth, logger: logger}, nil
}

// Close releases the underlying RPC connection.
func (c *Client) Close() {
	c.eth.Close()
}

// IncognitoBalance reads the incognito wallet's balance as a decimal string.
func (c *Client) IncognitoBalance(ctx context.Context, address, token string, networkID uint64) (string, error) {
	return c.balance(ctx, address)
}

// MainBalance reads the main wallet's balance as a decimal string.
func (c *Client) MainBalance(ctx context.Context, address, token string, networkID uint64) (string, error) {
	return c.balance(ctx, address)
}

func (c *Client) balance(ctx context.Context, address string) (string, error) {
	if err := privacy.ValidateAddress(address); err != nil {
		return "", err
	}
	bal, err := c.eth.BalanceAt(ctx, common.HexToAddress(address), nil)
	if err != nil {
		return "", apperrors.DependencyFailure(err, "balance query failed")
	}
	return decimal.NewFromBigInt(bal, 0).String(), nil
}
