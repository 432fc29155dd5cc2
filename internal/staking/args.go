package staking

import (
	"fmt"
	"math"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// argReader converts unpacked ABI values into payload fields, keeping the first error.
type argReader struct {
	args map[string]interface{}
	err  error
}

func (r *argReader) value(name string) (interface{}, bool) {
	if r.err != nil {
		return nil, false
	}
	value, ok := r.args[name]
	if !ok {
		r.err = fmt.Errorf("missing argument %s", name)
		return nil, false
	}
	return value, true
}

func (r *argReader) fail(name string, err error) {
	if r.err == nil {
		r.err = fmt.Errorf("%s: %w", name, err)
	}
}

func (r *argReader) address(name string) string {
	value, ok := r.value(name)
	if !ok {
		return ""
	}
	addr, err := asAddress(value)
	if err != nil {
		r.fail(name, err)
		return ""
	}
	return addr.Hex()
}

func (r *argReader) amount(name string) string {
	value, ok := r.value(name)
	if !ok {
		return ""
	}
	amount, err := asBigInt(value)
	if err != nil {
		r.fail(name, err)
		return ""
	}
	return amount.String()
}

func (r *argReader) uint32(name string) uint32 {
	value, ok := r.value(name)
	if !ok {
		return 0
	}
	amount, err := asBigInt(value)
	if err != nil {
		r.fail(name, err)
		return 0
	}
	if amount.Sign() < 0 || !amount.IsUint64() || amount.Uint64() > math.MaxUint32 {
		r.fail(name, fmt.Errorf("uint32 overflow: %s", amount.String()))
		return 0
	}
	return uint32(amount.Uint64())
}

func (r *argReader) bytes32(name string) string {
	value, ok := r.value(name)
	if !ok {
		return ""
	}
	b, err := asBytes32(value)
	if err != nil {
		r.fail(name, err)
		return ""
	}
	return hexutil.Encode(b[:])
}

func (r *argReader) boolean(name string) bool {
	value, ok := r.value(name)
	if !ok {
		return false
	}
	b, isBool := value.(bool)
	if !isBool {
		r.fail(name, fmt.Errorf("unsupported bool type %T", value))
		return false
	}
	return b
}

func asAddress(value interface{}) (common.Address, error) {
	switch v := value.(type) {
	case common.Address:
		return v, nil
	case *common.Address:
		return *v, nil
	default:
		return common.Address{}, fmt.Errorf("unsupported address type %T", value)
	}
}

func asBigInt(value interface{}) (*big.Int, error) {
	switch v := value.(type) {
	case *big.Int:
		return new(big.Int).Set(v), nil
	case big.Int:
		return new(big.Int).Set(&v), nil
	case uint8:
		return new(big.Int).SetUint64(uint64(v)), nil
	case uint16:
		return new(big.Int).SetUint64(uint64(v)), nil
	case uint32:
		return new(big.Int).SetUint64(uint64(v)), nil
	case uint64:
		return new(big.Int).SetUint64(v), nil
	default:
		return nil, fmt.Errorf("unsupported int type %T", value)
	}
}

func asBytes32(value interface{}) ([32]byte, error) {
	switch v := value.(type) {
	case [32]byte:
		return v, nil
	case common.Hash:
		return v, nil
	case []byte:
		if len(v) > 32 {
			return [32]byte{}, fmt.Errorf("bytes32 length %d", len(v))
		}
		return common.BytesToHash(v), nil
	default:
		return [32]byte{}, fmt.Errorf("unsupported bytes32 type %T", value)
	}
}
