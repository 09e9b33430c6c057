package vault

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"

	"github.com/shopspring/decimal"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// EncodeEvent appends one event as a single JSONL line.
func EncodeEvent(w io.Writer, e Event) error {
	b, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("could not encode %s event: %w", e.What(), err)
	}
	b = append(b, '\n')
	_, err = w.Write(b)
	return err
}

// DecodeEvents decodes a stream of JSONL event records. Records keep journal
// order; empty lines are skipped.
func DecodeEvents(r io.Reader) ([]Event, error) {
	var events []Event
	scanner := bufio.NewScanner(r)

	for scanner.Scan() {
		lineBytes := scanner.Bytes()
		if len(lineBytes) == 0 {
			continue
		}

		var identifier struct {
			Type EventType `json:"event"`
		}
		if err := json.Unmarshal(lineBytes, &identifier); err != nil {
			return nil, fmt.Errorf("could not identify event in line %q: %w", string(lineBytes), err)
		}

		var decoded Event
		switch identifier.Type {
		case EvtDepositMade:
			var e DepositMade
			if err := json.Unmarshal(lineBytes, &e); err != nil {
				return nil, err
			}
			decoded = e
		case EvtWithdrawalMade:
			var e WithdrawalMade
			if err := json.Unmarshal(lineBytes, &e); err != nil {
				return nil, err
			}
			decoded = e
		case EvtCapacityUpdated:
			var e CapacityUpdated
			if err := json.Unmarshal(lineBytes, &e); err != nil {
				return nil, err
			}
			decoded = e
		case EvtFeedUpdated:
			var e FeedUpdated
			if err := json.Unmarshal(lineBytes, &e); err != nil {
				return nil, err
			}
			decoded = e
		case EvtAssetAdded:
			var e AssetAdded
			if err := json.Unmarshal(lineBytes, &e); err != nil {
				return nil, err
			}
			decoded = e
		default:
			return nil, fmt.Errorf("unknown event type %q in line %q", identifier.Type, string(lineBytes))
		}
		events = append(events, decoded)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return events, nil
}
