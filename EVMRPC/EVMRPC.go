package EVMRPC

import (
	"context"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/sirupsen/logrus"
)

var errNoEndpoints = errors.New("no RPC endpoints configured")

// WithClient runs f against each endpoint of rpcList in order and returns the first success.
// The error of the last endpoint is returned when all of them fail.
func WithClient[T any](ctx context.Context, logger logrus.FieldLogger, rpcList []string, f func(client *ethclient.Client) (T, error)) (res T, err error) {
	err = errNoEndpoints
	for _, url := range rpcList {
		if ctx.Err() != nil {
			return res, ctx.Err()
		}

		var client *ethclient.Client
		client, err = ethclient.DialContext(ctx, url)
		if err != nil {
			logger.Warnf("Error connecting to %s: %s", url, err.Error())
			continue
		}

		res, err = f(client)
		client.Close()
		if err == nil {
			return
		}
		logger.Warnf("Error calling %s: %s", url, err.Error())
		err = fmt.Errorf("%s: %w", url, err)
	}
	return
}
