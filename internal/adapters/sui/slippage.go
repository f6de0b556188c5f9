package sui

import "github.com/holiman/uint256"

func applySlippage(amount string, bps uint16) (string, error) {
	value, err := uint256.FromDecimal(amount)
	if err != nil {
		return "", err
	}
	out := new(uint256.Int).Mul(value, uint256.NewInt(uint64(10000-bps)))
	out.Div(out, uint256.NewInt(10000))
	return out.Dec(), nil
}
