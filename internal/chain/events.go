package chain

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// WatchProjectCreated subscribes to registry creation events and forwards
// them to sink until ctx is done or the subscription fails. The returned
// channel reports the terminal error; a nil send means a clean shutdown.
func (g *Gateway) WatchProjectCreated(ctx context.Context, sink chan<- ProjectCreated) (<-chan error, error) {
	logs, sub, err := g.contract.WatchLogs(&bind.WatchOpts{Context: ctx}, "ResearchCreated")
	if err != nil {
		return nil, classifyReadError(err)
	}

	errc := make(chan error, 1)
	go func() {
		defer sub.Unsubscribe()
		for {
			select {
			case <-ctx.Done():
				errc <- nil
				return
			case err := <-sub.Err():
				errc <- classifyReadError(err)
				return
			case logEntry := <-logs:
				event, err := g.decodeCreated(logEntry)
				if err != nil {
					continue
				}
				select {
				case sink <- event:
				case <-ctx.Done():
					errc <- nil
					return
				}
			}
		}
	}()
	return errc, nil
}

func (g *Gateway) decodeCreated(logEntry types.Log) (ProjectCreated, error) {
	eventABI, ok := RegistryABI.Events["ResearchCreated"]
	if !ok || len(logEntry.Topics) < 3 || logEntry.Topics[0] != eventABI.ID {
		return ProjectCreated{}, fmt.Errorf("not a ResearchCreated log")
	}

	unpacked, err := RegistryABI.Unpack("ResearchCreated", logEntry.Data)
	if err != nil {
		return ProjectCreated{}, err
	}
	metadataCID, ok := unpacked[0].(string)
	if !ok {
		return ProjectCreated{}, fmt.Errorf("unexpected ResearchCreated data")
	}

	return ProjectCreated{
		ID:          new(big.Int).SetBytes(logEntry.Topics[1].Bytes()).Uint64(),
		Owner:       common.BytesToAddress(logEntry.Topics[2].Bytes()),
		MetadataCID: metadataCID,
	}, nil
}
